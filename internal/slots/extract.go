package slots

import (
	"regexp"
	"strings"
	"time"

	"mandibot/internal/temporal"
	"mandibot/internal/vocab"
)

// Whole-sentence templates that can yield commodity, area, and time in one
// match. Tried before any per-slot fallback.
var globalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bprice\s+of\s+(?P<commodity>\w+)(?:\s+in\s+(?P<area>[\w\s]+?))?(?:\s+(?:on|for|at)\s*(?P<time>.+))?\b`),
	regexp.MustCompile(`(?i)^(?P<commodity>\w+)\s+price(?:\s+in\s+(?P<area>[\w\s]+?))?(?:\s+(?:on|for|at)\s*(?P<time>.+))?$`),
	regexp.MustCompile(`(?i)\bget\s+(?P<commodity>\w+)\s+(?:rates?|prices?)\s+(?:in|for)\s+(?P<area>[\w\s]+?)(?:\s+(?:on|for|at)\s*(?P<time>.+))?\b`),
}

// Per-slot fallback patterns, tried only after the vocabulary substring scan.
var (
	commodityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bcommodity[:\s]+(\w+)\b`),
		regexp.MustCompile(`(?i)\bhow\s+much\s+is\s+(\w+)\b`),
	}
	areaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:in|at|for)\s+([\w\s]+?)\b`),
	}
	timePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(today|tomorrow|yesterday|now|day after tomorrow|day before yesterday|next week|last week|this week)\b`),
		regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}`),
	}
)

// Extractor pulls slot candidates out of a free-text turn.
type Extractor struct {
	vocab *vocab.Vocabulary
	now   func() time.Time
}

// NewExtractor creates an extractor bound to a vocabulary. The clock is
// injectable so relative dates are deterministic under test.
func NewExtractor(v *vocab.Vocabulary, now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	return &Extractor{vocab: v, now: now}
}

// Extract fills candidates for whichever slots of cur are still empty.
// Vocabulary matches and normalizable dates are stored canonically; fixed
// pattern captures that fail vocabulary/date validation are stored raw and
// left for the state machine's re-validation pass to reject with an
// explanatory message. Filled slots are never overwritten.
func (e *Extractor) Extract(text string, cur SlotSet) SlotSet {
	text = strings.TrimSpace(text)
	if text == "" {
		return cur
	}

	for _, pat := range globalPatterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		groups := namedGroups(pat, m)
		if cand := groups["commodity"]; cand != "" && cur.Commodity == "" {
			if found, ok := e.vocab.MatchCommodity(cand); ok {
				cur.Commodity = found
			}
		}
		if cand := groups["area"]; cand != "" && cur.Area == "" {
			if found, ok := e.vocab.MatchArea(cand); ok {
				cur.Area = found
			}
		}
		if cand := groups["time"]; cand != "" && cur.Time == "" {
			if norm, ok := temporal.Normalize(cand, e.now()); ok {
				cur.Time = norm
			} else {
				cur.Time = strings.TrimSpace(cand)
			}
		}
	}

	if cur.Commodity == "" {
		cur.Commodity = e.extractCommodity(text)
	}
	if cur.Area == "" {
		cur.Area = e.extractArea(text)
	}
	if cur.Time == "" {
		cur.Time = e.extractTime(text)
	}
	return cur
}

func (e *Extractor) extractCommodity(text string) string {
	if found, ok := e.vocab.MatchCommodity(text); ok {
		return found
	}
	for _, pat := range commodityPatterns {
		if m := pat.FindStringSubmatch(text); m != nil {
			return strings.ToLower(strings.TrimSpace(m[1]))
		}
	}
	return ""
}

func (e *Extractor) extractArea(text string) string {
	if found, ok := e.vocab.MatchArea(text); ok {
		return found
	}
	for _, pat := range areaPatterns {
		if m := pat.FindStringSubmatch(text); m != nil {
			if cand := strings.ToLower(strings.TrimSpace(m[1])); cand != "" {
				if found, ok := e.vocab.MatchArea(cand); ok {
					return found
				}
				return cand
			}
		}
	}
	return ""
}

func (e *Extractor) extractTime(text string) string {
	for _, pat := range timePatterns {
		if m := pat.FindString(text); m != "" {
			if norm, ok := temporal.Normalize(m, e.now()); ok {
				return norm
			}
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func namedGroups(pat *regexp.Regexp, match []string) map[string]string {
	groups := make(map[string]string)
	for i, name := range pat.SubexpNames() {
		if name != "" && i < len(match) {
			groups[name] = strings.TrimSpace(match[i])
		}
	}
	return groups
}
