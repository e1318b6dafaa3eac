package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mandibot/internal/logging"
)

const maxResponseBytes = 1 << 20

// HTTPClassifier calls an external intent model over HTTP. The service
// accepts {"text": ...} and answers {"prediction": ..., "confidence": ...}.
type HTTPClassifier struct {
	baseURL  string
	client   *http.Client
	fallback Classifier
}

// NewHTTPClassifier creates a classifier against baseURL. When the remote
// call fails the fallback labels the turn instead, so an unreachable model
// service degrades the chat rather than breaking it.
func NewHTTPClassifier(baseURL string, timeout time.Duration, fallback Classifier) *HTTPClassifier {
	if fallback == nil {
		fallback = KeywordClassifier{}
	}
	return &HTTPClassifier{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: timeout},
		fallback: fallback,
	}
}

func (c *HTTPClassifier) Classify(ctx context.Context, text string) (Label, error) {
	label, err := c.classifyRemote(ctx, text)
	if err != nil {
		logging.Get(logging.CategoryClassify).Warn("remote classify failed, using fallback: %v", err)
		return c.fallback.Classify(ctx, text)
	}
	return label, nil
}

func (c *HTTPClassifier) classifyRemote(ctx context.Context, text string) (Label, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Label{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return Label{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Label{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Label{}, fmt.Errorf("classifier returned %d: %s", resp.StatusCode, data)
	}

	var label Label
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&label); err != nil {
		return Label{}, fmt.Errorf("decoding classifier response: %w", err)
	}
	if label.Prediction == "" {
		return Label{}, fmt.Errorf("classifier response missing prediction")
	}
	return label, nil
}
