package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractGlobalPatterns(t *testing.T) {
	e := NewExtractor(testVocabulary(t), testClock)

	tests := []struct {
		name string
		text string
		want SlotSet
	}{
		{"price of", "price of wheat in lucknow on today", SlotSet{Commodity: "wheat", Area: "lucknow", Time: "2024-05-01"}},
		{"price suffix", "rice price in agra", SlotSet{Commodity: "rice", Area: "agra"}},
		{"get rates", "get onion rates for kanpur on 2024-06-15", SlotSet{Commodity: "onion", Area: "kanpur", Time: "2024-06-15"}},
		{"commodity only", "potato", SlotSet{Commodity: "potato"}},
		{"nothing usable", "hello there", SlotSet{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.text, SlotSet{}))
		})
	}
}

func TestExtractDoesNotOverwriteFilledSlots(t *testing.T) {
	e := NewExtractor(testVocabulary(t), testClock)
	cur := SlotSet{Commodity: "rice"}
	got := e.Extract("price of wheat in agra", cur)
	assert.Equal(t, "rice", got.Commodity, "filled slot must survive extraction")
	assert.Equal(t, "agra", got.Area)
}

func TestExtractKeepsRawTimeCandidate(t *testing.T) {
	e := NewExtractor(testVocabulary(t), testClock)
	got := e.Extract("price of wheat in agra on someday soon", SlotSet{})
	assert.Equal(t, "someday soon", got.Time, "unparseable time kept raw for re-validation")
}

func TestExtractVocabularyBeatsPatternCapture(t *testing.T) {
	e := NewExtractor(testVocabulary(t), testClock)
	got := e.Extract("how much is wheat", SlotSet{})
	assert.Equal(t, "wheat", got.Commodity)
}
