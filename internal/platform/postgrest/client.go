// Package postgrest talks to a PostgREST record API (the Supabase REST
// surface) on behalf of the signed-in user, so row-level security applies.
package postgrest

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

	"poltem/pkg/platform/circuit"
	"poltem/pkg/platform/sentinel"
)

const (
	restPath        = "/rest/v1/"
	maxResponseSize = 4 << 20
	tracerName      = "poltem/records/postgrest"

	// PreferUpsert merges the posted row into an existing one with the same key.
	PreferUpsert = "resolution=merge-duplicates,return=representation"
	// PreferInsert returns the inserted row.
	PreferInsert = "return=representation"
)

// PostgREST and PostgreSQL codes mapped to sentinel errors.
const (
	codeNoRows            = "PGRST116"
	codeJWTExpired        = "PGRST301"
	codeUniqueViolation   = "23505"
	codeInsufficientPrivs = "42501"
)

// Error is a non-2xx answer from the record API.
type Error struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("record api %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("record api %d: %s", e.Status, e.Message)
}

// Unwrap lets callers test failures with errors.Is against sentinel errors.
func (e *Error) Unwrap() error {
	switch {
	case e.Code == codeNoRows:
		return sentinel.ErrNotFound
	case e.Code == codeInsufficientPrivs, e.Status == http.StatusForbidden:
		return sentinel.ErrPermissionDenied
	case e.Code == codeJWTExpired:
		return sentinel.ErrExpired
	case e.Code == codeUniqueViolation, e.Status == http.StatusConflict:
		return sentinel.ErrConflict
	case e.Status >= http.StatusInternalServerError:
		return sentinel.ErrUnavailable
	}
	return nil
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	tracer  trace.Tracer
	breaker *circuit.Breaker
	logger  *slog.Logger
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

func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tracer:  otel.Tracer(tracerName),
		breaker: circuit.New("records"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Degraded reports whether recent calls failed at the transport level.
func (c *Client) Degraded() bool {
	return c.breaker.IsOpen()
}

// Select reads rows of table matching query into out (a pointer to a slice).
func (c *Client) Select(ctx context.Context, bearer, table string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, table, query, bearer, "", nil, out)
}

// SelectOne reads exactly one row into out; no row yields sentinel.ErrNotFound.
func (c *Client) SelectOne(ctx context.Context, bearer, table string, query url.Values, out any) error {
	var rows []json.RawMessage
	if err := c.Select(ctx, bearer, table, query, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return sentinel.ErrNotFound
	}
	if err := json.Unmarshal(rows[0], out); err != nil {
		return fmt.Errorf("decode %s row: %w", table, err)
	}
	return nil
}

// Insert posts row into table. prefer is sent as the Prefer header; when out
// is non-nil the first returned row is decoded into it.
func (c *Client) Insert(ctx context.Context, bearer, table, prefer string, row, out any) error {
	var rows []json.RawMessage
	var target any
	if out != nil {
		target = &rows
	}
	if err := c.do(ctx, http.MethodPost, table, nil, bearer, prefer, row, target); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(rows) == 0 {
		// RLS can accept a write yet hide the row from the returning select.
		return sentinel.ErrPermissionDenied
	}
	if err := json.Unmarshal(rows[0], out); err != nil {
		return fmt.Errorf("decode %s row: %w", table, err)
	}
	return nil
}

// Eq builds an equality filter value.
func Eq(v string) string {
	return "eq." + v
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, bearer, prefer string, in, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "records."+strings.ToLower(method)+" "+table,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.collection.name", table),
			attribute.String("http.request.method", method),
		),
	)
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		c.recordOutcome(ctx, errors.Is(err, sentinel.ErrUnavailable))
		span.End()
	}()

	req, err := c.newRequest(ctx, method, table, query, bearer, prefer, in)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, table, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, table, sentinel.ErrUnavailable, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, payload)
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s response: %w", table, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, table string, query url.Values, bearer, prefer string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s row: %w", table, err)
		}
		body = bytes.NewReader(raw)
	}
	target, err := url.Parse(c.baseURL + restPath + table)
	if err != nil {
		return nil, fmt.Errorf("build record url: %w", err)
	}
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build record request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
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
		c.logger.WarnContext(ctx, "record collaborator degraded", "breaker", c.breaker.Name())
	}
	if change.Closed {
		c.logger.InfoContext(ctx, "record collaborator recovered", "breaker", c.breaker.Name())
	}
}

func decodeError(status int, payload []byte) *Error {
	e := &Error{Status: status}
	if err := json.Unmarshal(payload, e); err != nil || e.Message == "" {
		e.Message = strings.TrimSpace(string(payload))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
