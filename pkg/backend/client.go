package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultAddress = "http://127.0.0.1:5000"

// Client talks to the reservation backend. Every endpoint is a JSON POST answering with
// an object carrying a success flag.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultAddress
	}

	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Envelope is the part of the response every endpoint shares
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (e Envelope) envelope() Envelope {
	return e
}

type enveloped interface {
	envelope() Envelope
}

func call[T enveloped](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	var response T

	requestBody, err := json.Marshal(body)
	if err != nil {
		return response, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return response, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	startTime := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return response, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Str("latency", time.Since(startTime).String()).
		Msg("Backend request")

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return response, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("read response: %w", err)}
	}

	if err := json.Unmarshal(responseBody, &response); err != nil {
		// Non-2xx responses without a JSON body are reported by status instead
		if resp.StatusCode >= http.StatusMultipleChoices {
			return response, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		}

		return response, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}

	envelope := response.envelope()
	if !envelope.Success {
		return response, &ApplicationError{Endpoint: endpoint, Message: envelope.Message}
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return response, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	return response, nil
}
