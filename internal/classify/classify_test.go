package classify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordClassifier(t *testing.T) {
	c := KeywordClassifier{}
	tests := []struct {
		text string
		want string
	}{
		{"what is the price of wheat in agra", LabelPriceEnquiry},
		{"mandi bhav for onion", LabelPriceEnquiry},
		{"wheat", LabelPriceEnquiry},
		{"tell me a joke", LabelOther},
		{"", LabelOther},
	}
	for _, tt := range tests {
		got, err := c.Classify(context.Background(), tt.text)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Prediction, "text=%q", tt.text)
	}
}

func TestHTTPClassifierRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/classify", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prediction":"price_enquiry","confidence":0.91}`))
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, time.Second, nil)
	got, err := c.Classify(context.Background(), "aloo ka bhav")
	require.NoError(t, err)
	assert.True(t, got.IsPriceEnquiry())
	assert.InDelta(t, 0.91, got.Confidence, 1e-9)
}

func TestHTTPClassifierFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, time.Second, KeywordClassifier{})
	got, err := c.Classify(context.Background(), "price of rice")
	require.NoError(t, err)
	assert.Equal(t, LabelPriceEnquiry, got.Prediction, "fallback must label when remote fails")
}
