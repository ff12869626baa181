package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/lalith-99/pgdesk/internal/observ"
	"go.uber.org/zap"
)

// TokenSource yields the current bearer token, "" when logged out.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the property API. It never retries: every failure is
// returned to the caller, who decides whether the user tries again.
type Client struct {
	http    *resty.Client
	tokens  TokenSource
	logger  *zap.Logger
	metrics *observ.Metrics
}

type Options struct {
	// Timeout bounds each request. Zero means no client-side limit.
	Timeout time.Duration
	// Transport replaces the default round tripper, mostly for tests.
	Transport http.RoundTripper
	Metrics   *observ.Metrics
}

func NewClient(baseURL string, tokens TokenSource, logger *zap.Logger, opts Options) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.Transport != nil {
		client.SetTransport(opts.Transport)
	}

	return &Client{
		http:    client,
		tokens:  tokens,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// errorBody is the failure envelope. The API usually sends "message"; some
// middleware answers with "error".
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// call describes one endpoint for logging, metrics and error text.
type call struct {
	resource string
	op       string
	fallback string
	// empty is the message used when a success response has no body.
	empty string
	// noToken is shown when auth is set and the session has no token.
	noToken string
	auth    bool
}

func (c *Client) do(ctx context.Context, cl call, method, path string, pathParams map[string]string, body, result any) error {
	start := time.Now()
	name := cl.resource + "." + cl.op

	req := c.http.R().
		SetContext(ctx).
		SetError(&errorBody{})

	if cl.auth {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("%s: read session: %w", name, err)
		}
		if token == "" {
			c.metrics.Observe(cl.resource, cl.op, observ.OutcomeNoToken, 0, 0)
			c.logger.Debug("request refused without token", zap.String("call", name))
			return &NoTokenError{Op: name, Message: cl.noToken}
		}
		req.SetAuthToken(token)
	}

	requestID := uuid.NewString()
	req.SetHeader("X-Request-ID", requestID)
	if pathParams != nil {
		req.SetPathParams(pathParams)
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	log := c.logger.With(
		zap.String("call", name),
		zap.String("request_id", requestID),
	)

	resp, err := req.Execute(method, path)
	elapsed := time.Since(start)

	if err != nil && (resp == nil || resp.RawResponse == nil) {
		c.metrics.Observe(cl.resource, cl.op, observ.OutcomeTransport, 0, elapsed)
		log.Warn("request failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return &TransportError{Op: name, Err: err}
	}

	status := resp.StatusCode()
	if resp.IsSuccess() && cl.empty != "" && isEmptyBody(resp.Body()) {
		c.metrics.Observe(cl.resource, cl.op, observ.OutcomeRejected, status, elapsed)
		log.Warn("empty response body", zap.Int("status", status))
		return &ServerError{Op: name, Status: status, Message: cl.empty}
	}

	if err != nil || !resp.IsSuccess() {
		msg := cl.fallback
		if eb, ok := resp.Error().(*errorBody); ok && eb != nil {
			switch {
			case eb.Message != "":
				msg = eb.Message
			case eb.Error != "":
				msg = eb.Error
			}
		}
		c.metrics.Observe(cl.resource, cl.op, observ.OutcomeRejected, status, elapsed)
		log.Warn("request rejected",
			zap.Int("status", status),
			zap.String("message", msg),
			zap.NamedError("decode_error", err),
		)
		return &ServerError{Op: name, Status: status, Message: msg}
	}

	c.metrics.Observe(cl.resource, cl.op, observ.OutcomeOK, status, elapsed)
	log.Debug("request ok", zap.Int("status", status), zap.Duration("elapsed", elapsed))
	return nil
}

func isEmptyBody(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}
