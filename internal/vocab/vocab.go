// Package vocab holds the reference vocabularies for price queries: the
// commodity and district name→code tables loaded from CSV, and the static
// code→display-name tables the acquisition engine needs to drive the
// external site's selectors.
package vocab

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"mandibot/internal/logging"
)

// table is one case-insensitive name→code mapping.
type table struct {
	names    []string          // lower-cased, sorted longest first
	patterns []*regexp.Regexp  // word-boundary matchers, parallel to names
	codes    map[string]string // lower-cased name → code
}

func (t table) resolve(name string) (string, bool) {
	code, ok := t.codes[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// Vocabulary is process-wide and immutable after load, except for explicit
// Reload calls (guarded by the mutex); reads are safe for concurrent use.
type Vocabulary struct {
	mu            sync.RWMutex
	commodityFile string
	districtFile  string
	commodities   table
	districts     table
}

// New loads both vocabularies. An unavailable source file yields an empty
// table and a warning, never an error: lookups then report unknown and the
// system stays usable for non-price intents.
func New(commodityFile, districtFile string) *Vocabulary {
	v := &Vocabulary{
		commodityFile: commodityFile,
		districtFile:  districtFile,
	}
	v.Reload()
	return v
}

// Reload re-reads both CSV sources.
func (v *Vocabulary) Reload() {
	commodities := loadCSV(v.commodityFile, "Name", "Code")
	districts := loadCSV(v.districtFile, "District Name", "District Code")

	v.mu.Lock()
	v.commodities = commodities
	v.districts = districts
	v.mu.Unlock()

	logging.Vocab("vocabulary loaded: %d commodities, %d districts",
		len(commodities.names), len(districts.names))
}

func loadCSV(path, nameCol, codeCol string) table {
	t := table{codes: make(map[string]string)}
	if path == "" {
		return t
	}

	f, err := os.Open(path)
	if err != nil {
		logging.VocabWarn("%s not found, using empty table: %v", path, err)
		return t
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil || len(records) == 0 {
		logging.VocabWarn("could not parse %s: %v", path, err)
		return t
	}

	nameIdx, codeIdx := -1, -1
	for i, col := range records[0] {
		header := strings.TrimSpace(col)
		if strings.EqualFold(header, nameCol) {
			nameIdx = i
		}
		if strings.EqualFold(header, codeCol) {
			codeIdx = i
		}
	}
	if nameIdx < 0 || codeIdx < 0 {
		logging.VocabWarn("%s missing %q/%q columns", path, nameCol, codeCol)
		return t
	}

	for _, row := range records[1:] {
		if len(row) <= nameIdx || len(row) <= codeIdx {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(row[nameIdx]))
		code := strings.TrimSpace(row[codeIdx])
		if name == "" {
			continue
		}
		if _, dup := t.codes[name]; !dup {
			t.names = append(t.names, name)
		}
		t.codes[name] = code
	}

	// Longest first so multi-word entries win substring matching.
	sort.Slice(t.names, func(i, j int) bool { return len(t.names[i]) > len(t.names[j]) })
	t.patterns = make([]*regexp.Regexp, len(t.names))
	for i, name := range t.names {
		t.patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	}
	return t
}

// ResolveCommodityCode maps a commodity name to its external code.
func (v *Vocabulary) ResolveCommodityCode(name string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.commodities.resolve(name)
}

// ResolveAreaCode maps a district name to its external code.
func (v *Vocabulary) ResolveAreaCode(name string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.districts.resolve(name)
}

// IsKnownCommodity reports whether name is a vocabulary commodity.
func (v *Vocabulary) IsKnownCommodity(name string) bool {
	_, ok := v.ResolveCommodityCode(name)
	return ok
}

// IsKnownArea reports whether name is a vocabulary district.
func (v *Vocabulary) IsKnownArea(name string) bool {
	_, ok := v.ResolveAreaCode(name)
	return ok
}

// MatchCommodity finds the longest vocabulary commodity appearing as a whole
// word inside text.
func (v *Vocabulary) MatchCommodity(text string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.commodities.matchLongest(text)
}

// MatchArea finds the longest vocabulary district appearing as a whole word
// inside text.
func (v *Vocabulary) MatchArea(text string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.districts.matchLongest(text)
}

// matchLongest scans the table's precompiled word-boundary patterns (sorted
// longest first) for a substring match. Longest wins, so "uttar pradesh"
// beats "up".
func (t table) matchLongest(text string) (string, bool) {
	low := strings.ToLower(text)
	if low == "" {
		return "", false
	}
	for i, re := range t.patterns {
		if re.MatchString(low) {
			return t.names[i], true
		}
	}
	return "", false
}

// CommodityDisplayName maps a commodity code to the display name the
// external site's selector expects.
func CommodityDisplayName(code string) (string, bool) {
	name, ok := commodityDisplayNames[code]
	return name, ok
}

// DistrictName maps a district code to its lower-cased city name.
func DistrictName(code string) (string, bool) {
	name, ok := districtNames[code]
	return name, ok
}

// Static code→display-name tables for the supported commodities and
// districts. The scraper drives visible-text selectors with these, so they
// must match the external site's option labels exactly.
var commodityDisplayNames = map[string]string{
	"23": "Wheat",
	"1":  "Rice",
	"25": "Maize",
	"46": "Potato",
	"47": "Onion",
	"48": "Tomato",
	"29": "Gram",
	"30": "Arhar",
}

var districtNames = map[string]string{
	"7":  "agra",
	"33": "lucknow",
	"26": "kanpur",
	"38": "meerut",
	"18": "ghaziabad",
	"3":  "aligarh",
	"40": "moradabad",
	"58": "saharanpur",
	"19": "gorakhpur",
	"9":  "bareilly",
	"37": "mathura",
	"24": "jhansi",
	"1":  "allahabad",
	"68": "varanasi",
	"16": "firozabad",
	"15": "faizabad",
}

// Describe returns a short human-readable summary, used at boot.
func (v *Vocabulary) Describe() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return fmt.Sprintf("%d commodities, %d districts", len(v.commodities.names), len(v.districts.names))
}
