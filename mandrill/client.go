package mandrill

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://mandrillapp.com/api/1.0"
	DefaultTimeout   = 30 * time.Second
	defaultUserAgent = "mandrill-email-go/1.0"

	maxErrorBodySize = 1 << 20
)

// MessagesClient sends a message request and returns the per-recipient
// results.
type MessagesClient interface {
	SendMessage(ctx context.Context, req *MessageRequest) ([]RecipientResult, error)
}

var _ MessagesClient = &Client{}

// APIError is the error body returned by the API on a failed call.
type APIError struct {
	Status     string `json:"status"`
	Code       int    `json:"code"`
	Name       string `json:"name"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mandrill: %s (code %d, http %d): %s", e.Name, e.Code, e.StatusCode, e.Message)
}

// Client talks to the Mandrill JSON API over HTTP.
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type sendRequest struct {
	Key     string          `json:"key"`
	Message *MessageRequest `json:"message"`
}

func (c *Client) SendMessage(ctx context.Context, req *MessageRequest) ([]RecipientResult, error) {
	var results []RecipientResult
	if err := c.call(ctx, "/messages/send.json", sendRequest{Key: c.apiKey, Message: req}, &results); err != nil {
		return nil, err
	}

	return results, nil
}

func (c *Client) call(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	// Success bodies grow with the recipient count and are not size limited.
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func decodeAPIError(resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return fmt.Errorf("read error response: %w", err)
	}

	apiErr := &APIError{}
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Name == "" {
		apiErr = &APIError{
			Status:  "error",
			Name:    http.StatusText(resp.StatusCode),
			Message: strings.TrimSpace(string(data)),
		}
	}
	apiErr.StatusCode = resp.StatusCode

	return apiErr
}
