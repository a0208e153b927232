package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Endpoints, relative to the base URL
const (
	EndpointSlots          = "biplaces/getAll"
	EndpointCreateCustomer = "customers/create"
	EndpointStages         = "stages/getAll"
)

// Client represents a booking API client
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new booking API client
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		userAgent:  options.userAgent,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// BaseURL returns the base URL requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListBaptemeSlots retrieves tandem flight slots from biplaces/getAll
func (c *Client) ListBaptemeSlots(ctx context.Context, q Query) (*Response[[]Slot], error) {
	resp := &Response[[]Slot]{}
	if err := c.call(ctx, http.MethodGet, EndpointSlots, q.values(), nil, resp); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("count", len(resp.Data)).
		Bool("success", resp.Success).
		Msg("Retrieved slots")
	return resp, nil
}

// CreateCustomer validates the customer and posts it to customers/create.
// No request is sent when a required field is missing.
func (c *Client) CreateCustomer(ctx context.Context, customer Customer) (*Response[CustomerRecord], error) {
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(customer)
	if err != nil {
		return nil, fmt.Errorf("failed to encode customer: %w", err)
	}

	resp := &Response[CustomerRecord]{}
	if err := c.call(ctx, http.MethodPost, EndpointCreateCustomer, nil, body, resp); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("email", customer.Email).
		Bool("success", resp.Success).
		Msg("Created customer")
	return resp, nil
}

// ListStages retrieves course sessions from stages/getAll
func (c *Client) ListStages(ctx context.Context, q Query) (*Response[[]Stage], error) {
	resp := &Response[[]Stage]{}
	if err := c.call(ctx, http.MethodGet, EndpointStages, q.values(), nil, resp); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("count", len(resp.Data)).
		Bool("success", resp.Success).
		Msg("Retrieved stages")
	return resp, nil
}

// envelope is implemented by *Response[T]
type envelope interface {
	setRaw(raw []byte)
}

func (r *Response[T]) setRaw(raw []byte) {
	r.Raw = json.RawMessage(raw)
}

// call performs the request and decodes a 2xx body into out. A body that
// does not decode is a KindNetwork error carrying the body.
func (c *Client) call(ctx context.Context, method, endpoint string, params url.Values, body []byte, out envelope) error {
	raw, err := c.doRequest(ctx, method, endpoint, params, body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Debug().Err(err).Str("endpoint", endpoint).Msg("Undecodable response body")
		return &Error{
			Kind:    KindNetwork,
			Message: "failed to parse response: " + err.Error(),
			Body:    raw,
			Err:     err,
		}
	}
	out.setRaw(raw)
	return nil
}

// doRequest performs an HTTP request with authentication and classifies
// any failure
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, body []byte) ([]byte, error) {
	requestURL := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("Request failed")
		return nil, &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
	}

	c.logger.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Booking API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyStatus(resp.StatusCode, errorMessage(resp.StatusCode, respBody))
	}

	return respBody, nil
}

// errorMessage extracts a human readable message from an error body
func errorMessage(status int, body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		const maxLen = 200
		if len(text) > maxLen {
			text = text[:maxLen] + "..."
		}
		return text
	}

	return http.StatusText(status)
}

// values converts the query to URL parameters, leaving out empty filters
func (q Query) values() url.Values {
	params := url.Values{}
	if q.InstructorID != "" {
		params.Set("moniteurId", q.InstructorID)
	}
	if q.Date != "" {
		params.Set("date", q.Date)
	}
	return params
}
