package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// predictRequest is the wire format the inference backend accepts.
type predictRequest struct {
	Inputs []float32 `json:"inputs"`
	Shape  []int     `json:"shape"`
}

// predictResponse carries one logit per category.
type predictResponse struct {
	Logits []float32 `json:"logits"`
	Error  string    `json:"error,omitempty"`
}

// Client implements Provider against an HTTP inference backend that takes a
// preprocessed tensor and returns raw logits.
type Client struct {
	endpoint string
	labels   []string
	http     *http.Client
}

func NewClient(endpoint string, labels []string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		labels:   labels,
		http:     &http.Client{Timeout: timeout},
	}
}

// Predict preprocesses the image, posts the tensor to the backend and maps
// the highest logit to its label.
func (c *Client) Predict(ctx context.Context, image []byte) (string, error) {
	tensor, err := Preprocess(image)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(predictRequest{
		Inputs: tensor.Data,
		Shape:  tensor.Shape[:],
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("classifier returned %d: %s", resp.StatusCode, msg)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("classifier error: %s", out.Error)
	}
	idx := Argmax(out.Logits)
	if idx < 0 || idx >= len(c.labels) {
		return "", fmt.Errorf("logit index %d out of range for %d labels", idx, len(c.labels))
	}
	return c.labels[idx], nil
}
