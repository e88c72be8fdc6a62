package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fibermade/backend/internal/domain/integration"
	"go.uber.org/zap"
)

const (
	// maxResponseSize limits the response body size to prevent memory exhaustion
	maxResponseSize = 10 * 1024 * 1024 // 10MB max response

	accessTokenHeader = "X-Shopify-Access-Token"
)

// Client executes GraphQL documents against the storefront Admin API. It
// implements integration.QueryRunner.
type Client struct {
	config     *Config
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ integration.QueryRunner = (*Client)(nil)

// NewClient creates a new Admin API client with the given configuration
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		config:   config,
		endpoint: config.Endpoint(),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

// graphqlRequest is the Admin API request envelope
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlResponse is the Admin API response envelope
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// graphqlError is one entry of the response-level errors list
type graphqlError struct {
	Message string `json:"message"`
}

// Run executes one GraphQL document and returns the raw data payload.
// Non-success HTTP statuses come back as *integration.RequestError so
// callers can detect rate limiting by status code.
func (c *Client) Run(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	bodyBytes, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(accessTokenHeader, c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopify: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("Storefront request failed",
			zap.Int("status", resp.StatusCode),
		)
		return nil, &integration.RequestError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("shopify: HTTP %d", resp.StatusCode),
		}
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("shopify: failed to decode response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			messages[i] = e.Message
		}
		return nil, fmt.Errorf("shopify: graphql errors: %s", strings.Join(messages, "; "))
	}

	return envelope.Data, nil
}
