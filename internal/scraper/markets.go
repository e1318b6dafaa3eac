package scraper

import "strings"

// marketOption is one entry of the portal's market dropdown, with its
// original position preserved because selection is by index.
type marketOption struct {
	Index int
	Name  string
}

// cityKeywords maps a district city to the market-name fragments that belong
// to it. Satellite mandis often carry their town's name rather than the
// district's, so a plain substring match on the city alone misses most of
// them.
var cityKeywords = map[string][]string{
	"agra":      {"agra", "fatehpur sikri", "mathura"},
	"lucknow":   {"lucknow", "banthara", "malihabad", "mohanlalganj"},
	"kanpur":    {"kanpur", "kakadeo", "bilhaur", "ghatampur"},
	"meerut":    {"meerut", "mawana", "sardhana", "hastinapur"},
	"varanasi":  {"varanasi", "benares", "kashi"},
	"allahabad": {"allahabad", "prayagraj"},
}

// dropdownOptions filters raw option texts down to selectable markets,
// keeping original indices and dropping the placeholder entry.
func dropdownOptions(texts []string) []marketOption {
	var options []marketOption
	for i, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" || text == "--Select--" {
			continue
		}
		options = append(options, marketOption{Index: i, Name: text})
	}
	return options
}

// filterMarketsByCity keeps the options whose names mention the city or one
// of its known satellite towns. When nothing matches, the first maxFallback
// options are returned instead; some rows from the wrong markets beat an
// empty answer, and the caller labels the reply with the market names anyway.
func filterMarketsByCity(options []marketOption, city string, maxFallback int) []marketOption {
	keywords, ok := cityKeywords[strings.ToLower(city)]
	if !ok {
		keywords = []string{strings.ToLower(city)}
	}

	var matched []marketOption
	for _, opt := range options {
		lower := strings.ToLower(opt.Name)
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				matched = append(matched, opt)
				break
			}
		}
	}
	if len(matched) > 0 {
		return matched
	}
	if len(options) > maxFallback {
		return options[:maxFallback]
	}
	return options
}
