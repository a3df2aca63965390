package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/scrybe/scrybe-backend/internal/config"
	"github.com/scrybe/scrybe-backend/internal/domain"
)

// Client calls the Hugging Face inference API for image generation.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	timeout    time.Duration
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{},
		apiURL:     cfg.HFAPIURL,
		apiKey:     cfg.HFAPIKey,
		timeout:    cfg.HFTimeout,
	}
}

// Configured reports whether an API credential is present.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type inferenceError struct {
	Error string `json:"error"`
}

// GenerateImage submits the prompt and returns the raw image bytes with their
// declared content type. Non-image success responses are rejected; the
// distinct upstream error kinds let the caller map 401/503/504 separately.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	if !c.Configured() {
		return nil, "", fmt.Errorf("hugging face api key not set: %w", domain.ErrConfig)
	}

	body, err := json.Marshal(inferenceRequest{Inputs: prompt})
	if err != nil {
		return nil, "", fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			return nil, "", fmt.Errorf("image generation timed out: %w", domain.ErrUpstreamTimeout)
		}
		return nil, "", fmt.Errorf("image generation request failed: %w", domain.ErrUpstream)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read image response: %w", domain.ErrUpstream)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, "", fmt.Errorf("image provider rejected the API key: %w", domain.ErrUpstreamAuth)
	case resp.StatusCode == http.StatusServiceUnavailable:
		// Also returned while the model is still loading.
		return nil, "", fmt.Errorf("image provider unavailable: %s: %w", errMessage(raw), domain.ErrUpstreamUnavailable)
	case resp.StatusCode != http.StatusOK:
		return nil, "", fmt.Errorf("image provider error: %s: %w", errMessage(raw), domain.ErrUpstream)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		// An error payload misreported as success.
		return nil, "", fmt.Errorf("unexpected non-image response (%s): %w", contentType, domain.ErrUpstream)
	}
	return raw, contentType, nil
}

func errMessage(raw []byte) string {
	var ie inferenceError
	if err := json.Unmarshal(raw, &ie); err == nil && ie.Error != "" {
		return ie.Error
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
