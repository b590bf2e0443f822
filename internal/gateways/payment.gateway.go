package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/pkg/logger"
)

var ErrPaymentDeclined = errors.New("payment instrument declined")

// VerifyRequest is what the payment verifier receives. Only one of the
// two instruments is ever set.
type VerifyRequest struct {
	ClientID    string             `json:"client_id"`
	CreditCard  *model.CreditCard  `json:"credit_card,omitempty"`
	BankAccount *model.BankAccount `json:"bank_account,omitempty"`
}

type VerifyResponse struct {
	Approved  bool   `json:"approved"`
	Reference string `json:"reference"`
	Reason    string `json:"reason,omitempty"`
}

type Config struct {
	URL        string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	MaxConns   int
}

// PaymentClient talks to the payment verification service. Verification
// failures are soft: a sale still lands with status new, the verifier's
// answer only annotates it.
type PaymentClient struct {
	config *Config
	client *fasthttp.Client
}

func NewPaymentClient(config *Config) (*PaymentClient, error) {
	if config == nil || config.URL == "" {
		return nil, errors.New("payment verifier url is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = 200 * time.Millisecond
	}
	if config.MaxConns == 0 {
		config.MaxConns = 64
	}

	c := &PaymentClient{
		config: config,
		client: &fasthttp.Client{
			MaxConnsPerHost:     config.MaxConns,
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: 60 * time.Second,
		},
	}

	logger.Info("payment verifier client initialized", "url", config.URL, "timeout", config.Timeout)
	return c, nil
}

// Verify asks the verifier whether the instrument is chargeable.
func (c *PaymentClient) Verify(ctx context.Context, req *VerifyRequest) (*VerifyResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		response, err := c.doRequest(ctx, "POST", "/api/v1/payments/verify", body)
		if err != nil {
			logger.Warn("payment verification failed, retrying", "error", err, "attempt", attempt+1)
			lastErr = err
			continue
		}

		var resp VerifyResponse
		if err := json.Unmarshal(response, &resp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		if !resp.Approved {
			return &resp, fmt.Errorf("%w: %s", ErrPaymentDeclined, resp.Reason)
		}
		return &resp, nil
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

// Healthy reports whether the verifier answers its health endpoint.
func (c *PaymentClient) Healthy(ctx context.Context) bool {
	response, err := c.doRequest(ctx, "GET", "/health", nil)
	if err != nil {
		return false
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(response, &health); err != nil {
		return false
	}
	return health.Status == "healthy"
}

func (c *PaymentClient) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.config.URL + path)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	if body != nil {
		req.SetBody(body)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.config.Timeout)
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode != fasthttp.StatusOK && statusCode != fasthttp.StatusAccepted {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", statusCode, resp.Body())
	}

	result := make([]byte, len(resp.Body()))
	copy(result, resp.Body())
	return result, nil
}
