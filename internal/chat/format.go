package chat

import (
	"fmt"
	"strings"
	"time"

	"mandibot/internal/market"
	"mandibot/internal/temporal"
)

// formatReply renders one line per market. Prices are rupees per quintal.
func formatReply(commodityName, city string, date time.Time, summaries []market.Summary, synthetic bool) string {
	displayDate := date.Format(temporal.ExternalLayout)
	if len(summaries) == 0 {
		return fmt.Sprintf("No %s prices found for %s on %s. Try a different date.",
			commodityName, titleWords(city), displayDate)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s prices in %s on %s:\n", commodityName, titleWords(city), displayDate)
	for _, s := range summaries {
		b.WriteString(formatMarketLine(s))
		b.WriteByte('\n')
	}
	if synthetic {
		b.WriteString("(indicative prices; the live portal was unavailable)")
	} else {
		b.WriteString("Prices are per quintal, averaged over recent reports.")
	}
	return b.String()
}

func formatMarketLine(s market.Summary) string {
	if s.AvgModal == nil && s.AvgMin == nil && s.AvgMax == nil {
		return fmt.Sprintf("- %s: no price reported", s.Market)
	}
	var parts []string
	if s.AvgModal != nil {
		parts = append(parts, fmt.Sprintf("modal ₹%d", *s.AvgModal))
	}
	if s.AvgMin != nil {
		parts = append(parts, fmt.Sprintf("min ₹%d", *s.AvgMin))
	}
	if s.AvgMax != nil {
		parts = append(parts, fmt.Sprintf("max ₹%d", *s.AvgMax))
	}
	line := fmt.Sprintf("- %s: %s", s.Market, strings.Join(parts, ", "))
	if s.LatestDate != nil {
		line += fmt.Sprintf(" (as of %s)", s.LatestDate.Format(temporal.ExternalLayout))
	}
	return line
}

func titleWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
