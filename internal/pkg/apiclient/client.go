package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/pkg/uid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HeaderIdempotencyKey marks a write as safe to replay.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxBodyBytes = 1 << 20

// TokenSource supplies the bearer token of the signed-in user.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Config holds the client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryMax   uint64
	Tokens     TokenSource
	UUID       uid.StringID
	Instrument instrument.Instrumentation
	HTTPClient *http.Client
}

// Client performs JSON requests against the API.
type Client struct {
	baseURL  string
	retryMax uint64
	http     *http.Client
	tokens   TokenSource
	uuid     uid.StringID
	tracer   trace.Tracer
}

// RequestOption customizes a single outgoing request.
type RequestOption func(*http.Request)

// WithIdempotencyKey sets the Idempotency-Key header.
func WithIdempotencyKey(key string) RequestOption {
	return func(r *http.Request) {
		if key != "" {
			r.Header.Set(HeaderIdempotencyKey, key)
		}
	}
}

type envelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Meta    map[string]any    `json:"meta"`
	Error   map[string]string `json:"error"`
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("apiclient: base url is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	ins := cfg.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	gen := cfg.UUID
	if gen == nil {
		gen = uid.NewUUID()
	}

	return &Client{
		baseURL:  base,
		retryMax: cfg.RetryMax,
		http:     httpClient,
		tokens:   cfg.Tokens,
		uuid:     gen,
		tracer:   ins.Tracer("apiclient"),
	}, nil
}

// Get fetches path and decodes the envelope data into out.
// Transport and 5xx failures are retried with a Fibonacci backoff.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	if c.retryMax == 0 {
		return c.do(ctx, http.MethodGet, path, nil, out, opts...)
	}

	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(2*time.Second, b)
	b = retry.WithMaxRetries(c.retryMax, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := c.do(ctx, http.MethodGet, path, nil, out, opts...)
		if retryable(err) {
			slog.WarnContext(ctx, "apiclient: retrying request", "path", path, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

// Post sends in as JSON and decodes the envelope data into out.
func (c *Client) Post(ctx context.Context, path string, in, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, in, out, opts...)
}

// Put sends in as JSON and decodes the envelope data into out.
func (c *Client) Put(ctx context.Context, path string, in, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPut, path, in, out, opts...)
}

func retryable(err error) bool {
	if err == nil {
		return false
	}

	switch goerror.CodeOf(err) {
	case goerror.CodeInternal, goerror.CodeUnavailable, goerror.CodeTimeout:
		return true
	default:
		return false
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, opts ...RequestOption) error {
	ctx, span := c.tracer.Start(ctx, method+" "+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		span.RecordError(err)
		return goerror.NewServer(err)
	}
	for _, opt := range opts {
		opt(req)
	}

	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.full", req.URL.String()),
		attribute.String("correlation_id", req.Header.Get(instrument.HeaderCorrelationID)),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		slog.ErrorContext(ctx, "apiclient: request failed", "method", method, "path", path, "error", err)
		return goerror.NewServer(fmt.Errorf("apiclient: %s %s: %w", method, path, err))
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.WarnContext(ctx, "apiclient: failed to close response body", "error", cerr)
		}
	}()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		span.RecordError(err)
		return goerror.NewServer(fmt.Errorf("apiclient: read body: %w", err))
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &env); err != nil && resp.StatusCode < http.StatusBadRequest {
			span.RecordError(err)
			return goerror.NewServer(fmt.Errorf("apiclient: decode envelope: %w", err))
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		return goerror.FromStatusCode(resp.StatusCode, env.Message, env.Error)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		span.RecordError(err)
		return goerror.NewServer(fmt.Errorf("apiclient: decode data: %w", err))
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("apiclient: encode body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	cID := instrument.GetCorrelationID(ctx)
	if cID == "" {
		cID = c.uuid.Generate()
	}
	req.Header.Set(instrument.HeaderCorrelationID, cID)

	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}
