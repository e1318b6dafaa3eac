// Package classify decides whether a user turn is a mandi price enquiry at
// all. The chat service uses the verdict to gate the slot-filling engine:
// off-topic turns get a redirect reply instead of a prompt for slots.
package classify

import (
	"context"
	"regexp"
	"strings"
)

// LabelPriceEnquiry marks a turn that should enter the price pipeline.
const LabelPriceEnquiry = "price_enquiry"

// LabelOther marks everything else.
const LabelOther = "other"

// Label is a classification verdict.
type Label struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// IsPriceEnquiry reports whether the label routes into the price pipeline.
func (l Label) IsPriceEnquiry() bool {
	return l.Prediction == LabelPriceEnquiry
}

// Classifier labels a single user turn.
type Classifier interface {
	Classify(ctx context.Context, text string) (Label, error)
}

var (
	priceWords = regexp.MustCompile(`(?i)\b(price|prices|rate|rates|cost|mandi|bhav|quotation|modal|wholesale)\b`)
	cropWords  = regexp.MustCompile(`(?i)\b(wheat|rice|paddy|maize|potato|onion|tomato|gram|arhar|bajra|mustard|sugarcane|commodity|crop|grain|vegetable)\b`)
)

// KeywordClassifier is the zero-dependency default: a turn is a price
// enquiry when it mentions pricing vocabulary, or a known crop term on its
// own. Confidence is coarse, enough for threshold gating.
type KeywordClassifier struct{}

func (KeywordClassifier) Classify(_ context.Context, text string) (Label, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Label{Prediction: LabelOther, Confidence: 1.0}, nil
	}
	hasPrice := priceWords.MatchString(text)
	hasCrop := cropWords.MatchString(text)
	switch {
	case hasPrice && hasCrop:
		return Label{Prediction: LabelPriceEnquiry, Confidence: 0.95}, nil
	case hasPrice:
		return Label{Prediction: LabelPriceEnquiry, Confidence: 0.8}, nil
	case hasCrop:
		return Label{Prediction: LabelPriceEnquiry, Confidence: 0.6}, nil
	}
	return Label{Prediction: LabelOther, Confidence: 0.7}, nil
}
