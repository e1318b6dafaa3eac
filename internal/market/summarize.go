package market

import (
	"math"
	"sort"
	"strings"
	"time"
)

// DefaultTopK is the number of latest rows averaged per market.
const DefaultTopK = 3

// Summarize reduces raw rows to one summary per distinct market name.
//
// Rows are grouped by market (case- and whitespace-normalized), sorted by
// date descending then modal price descending, and only the first topK rows
// per group are kept. The summary carries the integer-rounded mean of
// modal/min/max across the kept rows and the most recent date among them.
// A market whose kept rows have no numeric price in some field still appears,
// with that aggregate nil. Empty or nil input yields an empty result.
func Summarize(rows []PriceRow, topK int) []Summary {
	if len(rows) == 0 {
		return nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	groups := make(map[string][]PriceRow)
	display := make(map[string]string)
	var order []string
	for _, row := range rows {
		key := normalizeMarket(row.Market)
		if key == "" {
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
			display[key] = strings.TrimSpace(row.Market)
		}
		groups[key] = append(groups[key], row)
	}
	sort.Strings(order)

	summaries := make([]Summary, 0, len(order))
	for _, key := range order {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			if c := compareDatesDesc(group[i].Date, group[j].Date); c != 0 {
				return c < 0
			}
			return compareFloatsDesc(group[i].ModalPrice, group[j].ModalPrice) < 0
		})
		if len(group) > topK {
			group = group[:topK]
		}

		s := Summary{Market: display[key]}
		s.AvgModal = meanRounded(group, func(r PriceRow) *float64 { return r.ModalPrice })
		s.AvgMin = meanRounded(group, func(r PriceRow) *float64 { return r.MinPrice })
		s.AvgMax = meanRounded(group, func(r PriceRow) *float64 { return r.MaxPrice })
		for _, r := range group {
			if r.Date == nil {
				continue
			}
			if s.LatestDate == nil || r.Date.After(*s.LatestDate) {
				d := *r.Date
				s.LatestDate = &d
			}
		}
		summaries = append(summaries, s)
	}
	return summaries
}

func normalizeMarket(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// compareDatesDesc orders non-nil dates newest first; nil dates sort last.
func compareDatesDesc(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.After(*b):
		return -1
	case b.After(*a):
		return 1
	}
	return 0
}

// compareFloatsDesc orders non-nil values largest first; nil values sort last.
func compareFloatsDesc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *b > *a:
		return 1
	}
	return 0
}

func meanRounded(group []PriceRow, field func(PriceRow) *float64) *int64 {
	var sum float64
	var n int
	for _, r := range group {
		if v := field(r); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := int64(math.Round(sum / float64(n)))
	return &avg
}
