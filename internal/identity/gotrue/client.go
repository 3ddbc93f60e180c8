// Package gotrue adapts a Supabase-compatible auth API to identity.Provider.
package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"poltem/internal/identity"
	"poltem/pkg/platform/circuit"
)

const (
	authPath        = "/auth/v1"
	maxResponseSize = 1 << 20
	tracerName      = "poltem/identity/gotrue"
)

var errMalformedResponse = errors.New("malformed identity response")

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	tracer  trace.Tracer
	metrics *Metrics
	breaker *circuit.Breaker
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.http.Timeout = d
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(cl *Client) {
		cl.metrics = m
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(cl *Client) {
		if now != nil {
			cl.now = now
		}
	}
}

// New builds a client for baseURL (e.g. https://project.supabase.co). The
// anon apiKey is sent on every call; user calls add the user's bearer token.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tracer:  otel.Tracer(tracerName),
		breaker: circuit.New("identity"),
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ identity.Provider = (*Client)(nil)

// Degraded reports whether recent calls failed at the transport level.
func (c *Client) Degraded() bool {
	return c.breaker.IsOpen()
}

func (c *Client) SignUp(ctx context.Context, in identity.SignUpInput) (*identity.Session, error) {
	body := map[string]any{
		"email":    in.Email,
		"password": in.Password,
		"data":     map[string]string{"full_name": in.FullName},
	}
	var resp sessionResponse
	if err := c.do(ctx, "sign_up", http.MethodPost, "/signup", "", body, &resp); err != nil {
		return nil, err
	}
	return c.session(&resp)
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var resp sessionResponse
	if err := c.do(ctx, "sign_in_password", http.MethodPost, "/token?grant_type=password", "", body, &resp); err != nil {
		return nil, err
	}
	return c.session(&resp)
}

func (c *Client) SignInWithOTP(ctx context.Context, phone string) error {
	body := map[string]any{"phone": phone, "create_user": true}
	return c.do(ctx, "sign_in_otp", http.MethodPost, "/otp", "", body, nil)
}

func (c *Client) VerifyOTP(ctx context.Context, in identity.VerifyOTPInput) (*identity.Session, error) {
	body := map[string]string{"token": in.Code}
	switch in.Purpose {
	case identity.OTPSignIn:
		body["type"] = "sms"
		body["phone"] = in.Phone
	case identity.OTPRecovery:
		body["type"] = "recovery"
		body["email"] = in.Email
	case identity.OTPEmail:
		body["type"] = "email"
		body["email"] = in.Email
	default:
		return nil, identity.NewFailure(0, "", fmt.Sprintf("unsupported otp purpose %q", in.Purpose))
	}
	var resp sessionResponse
	if err := c.do(ctx, "verify_otp", http.MethodPost, "/verify", "", body, &resp); err != nil {
		return nil, err
	}
	return c.session(&resp)
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, "recover", http.MethodPost, "/recover", "", map[string]string{"email": email}, nil)
}

func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	return c.do(ctx, "update_password", http.MethodPut, "/user", accessToken, map[string]string{"password": newPassword}, nil)
}

func (c *Client) CurrentAccount(ctx context.Context, accessToken string) (*identity.Account, error) {
	var resp userResponse
	if err := c.do(ctx, "current_account", http.MethodGet, "/user", accessToken, nil, &resp); err != nil {
		return nil, err
	}
	account, err := resp.toAccount()
	if err != nil {
		return nil, identity.TransportFailure(fmt.Errorf("%w: %v", errMalformedResponse, err))
	}
	return &account, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, "sign_out", http.MethodPost, "/logout", accessToken, nil, nil)
}

func (c *Client) session(resp *sessionResponse) (*identity.Session, error) {
	s, err := resp.toSession(c.now())
	if err != nil {
		return nil, identity.TransportFailure(fmt.Errorf("%w: %v", errMalformedResponse, err))
	}
	return s, nil
}

// do performs one call. It never retries.
func (c *Client) do(ctx context.Context, op, method, path, bearer string, in, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "identity."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("identity.operation", op)),
	)
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			f := identity.Classify(err)
			outcome = string(f.Kind)
			span.SetStatus(codes.Error, outcome)
			span.SetAttributes(attribute.String("identity.failure", outcome))
			c.recordOutcome(ctx, f.Kind == identity.FailureUnavailable)
		} else {
			c.recordOutcome(ctx, false)
		}
		c.metrics.ObserveRequest(op, outcome, time.Since(start))
		span.End()
	}()

	req, err := c.newRequest(ctx, method, path, bearer, in)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return identity.TransportFailure(err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return identity.TransportFailure(err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return decodeFailure(resp.StatusCode, payload)
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return identity.TransportFailure(fmt.Errorf("%w: %v", errMalformedResponse, err))
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path, bearer string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode identity request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	target, err := url.Parse(c.baseURL + authPath + path)
	if err != nil {
		return nil, fmt.Errorf("build identity url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	return req, nil
}

func (c *Client) recordOutcome(ctx context.Context, transportFailure bool) {
	var change circuit.Change
	if transportFailure {
		_, change = c.breaker.RecordFailure()
	} else {
		_, change = c.breaker.RecordSuccess()
	}
	if change.Opened {
		c.metrics.SetCircuitOpen(true)
		c.logger.WarnContext(ctx, "identity collaborator degraded", "breaker", c.breaker.Name())
	}
	if change.Closed {
		c.metrics.SetCircuitOpen(false)
		c.logger.InfoContext(ctx, "identity collaborator recovered", "breaker", c.breaker.Name())
	}
}

func decodeFailure(status int, payload []byte) *identity.Failure {
	var e errorResponse
	if err := json.Unmarshal(payload, &e); err != nil {
		msg := strings.TrimSpace(string(payload))
		if msg == "" {
			msg = http.StatusText(status)
		}
		return identity.NewFailure(status, "", msg)
	}
	msg := e.message()
	if msg == "" {
		msg = http.StatusText(status)
	}
	return identity.NewFailure(status, e.code(), msg)
}
