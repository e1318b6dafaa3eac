package vocab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testVocabulary(t *testing.T) *Vocabulary {
	commodities := writeFixture(t, "commodities.csv",
		"Name,Code\nWheat,23\nRice,1\nPotato,46\nGram,29\n")
	districts := writeFixture(t, "districts.csv",
		"District Name,District Code\nAgra,7\nLucknow,33\nKanpur,26\nUttar Pradesh,0\n")
	return New(commodities, districts)
}

func TestResolveCodes(t *testing.T) {
	v := testVocabulary(t)

	code, ok := v.ResolveCommodityCode("wheat")
	require.True(t, ok)
	assert.Equal(t, "23", code)

	// Case-insensitive with surrounding whitespace.
	code, ok = v.ResolveAreaCode("  Agra ")
	require.True(t, ok)
	assert.Equal(t, "7", code)

	_, ok = v.ResolveCommodityCode("plutonium")
	assert.False(t, ok)
}

func TestIsKnown(t *testing.T) {
	v := testVocabulary(t)
	assert.True(t, v.IsKnownCommodity("Rice"))
	assert.True(t, v.IsKnownArea("lucknow"))
	assert.False(t, v.IsKnownArea("mars"))
}

func TestMatchLongestWins(t *testing.T) {
	v := testVocabulary(t)

	// "uttar pradesh" must win over any shorter district embedded in it.
	got, ok := v.MatchArea("price of wheat in uttar pradesh today")
	require.True(t, ok)
	assert.Equal(t, "uttar pradesh", got)

	got, ok = v.MatchCommodity("how much is gram in kanpur")
	require.True(t, ok)
	assert.Equal(t, "gram", got)
}

func TestMatchRequiresWordBoundary(t *testing.T) {
	v := testVocabulary(t)
	// "gramophone" must not match "gram".
	_, ok := v.MatchCommodity("I bought a gramophone")
	assert.False(t, ok)
}

func TestMatchersCompiledAtLoad(t *testing.T) {
	v := testVocabulary(t)

	require.Len(t, v.commodities.patterns, len(v.commodities.names))
	require.Len(t, v.districts.patterns, len(v.districts.names))
	for i, re := range v.districts.patterns {
		assert.True(t, re.MatchString(v.districts.names[i]))
	}

	// Reload rebuilds the matchers with the tables.
	v.Reload()
	assert.Len(t, v.districts.patterns, len(v.districts.names))
}

func TestMissingFileLoadsEmpty(t *testing.T) {
	v := New("/nonexistent/commodities.csv", "/nonexistent/districts.csv")
	assert.False(t, v.IsKnownCommodity("wheat"))
	_, ok := v.MatchArea("agra")
	assert.False(t, ok)
}

func TestDisplayNameTables(t *testing.T) {
	name, ok := CommodityDisplayName("23")
	require.True(t, ok)
	assert.Equal(t, "Wheat", name)

	city, ok := DistrictName("7")
	require.True(t, ok)
	assert.Equal(t, "agra", city)

	_, ok = DistrictName("9999")
	assert.False(t, ok)
}
