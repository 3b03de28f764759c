// Package backend talks to the clinic REST API that owns doctors, patients
// and appointments.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
	"github.com/jwalitptl/clinic-dashboard/pkg/metrics"
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

type Options struct {
	BaseURL         string
	Timeout         time.Duration
	BreakerFailures uint32
	BreakerOpen     time.Duration
	Metrics         *metrics.Metrics
	Logger          *zerolog.Logger
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *metrics.Metrics
	logger     *zerolog.Logger
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerOpen <= 0 {
		opts.BreakerOpen = 30 * time.Second
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "clinic-backend",
		MaxRequests: 1,
		Timeout:     opts.BreakerOpen,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("backend circuit breaker state changed")
			if c.metrics != nil {
				c.metrics.BreakerState.Set(float64(to))
			}
		},
		IsSuccessful: isSuccessful,
	})
	return c
}

// Ready fails while the breaker is open, i.e. the backend has been failing.
func (c *Client) Ready(context.Context) error {
	if st := c.breaker.State(); st == gobreaker.StateOpen {
		return fmt.Errorf("clinic backend breaker is %s", st)
	}
	return nil
}

// Client errors and cancelled requests say nothing about backend health.
func isSuccessful(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode < http.StatusInternalServerError
}

// do sends one request. It never retries; failures come back as *AppError.
func (c *Client) do(ctx context.Context, sess *model.Session, op, method, path string, body, out interface{}) error {
	start := time.Now()
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, sess, method, path, body, out)
	})
	c.observe(op, start, err)

	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperrors.Upstream("clinic backend unavailable", err)
	}
	return classify(op, err)
}

func (c *Client) roundTrip(ctx context.Context, sess *model.Session, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &decodeError{err: err}
	}
	return nil
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "decode response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

// readMessage pulls {"message": "..."} out of an error body, if there is one.
func readMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func classify(op string, err error) error {
	var se *StatusError
	if errors.As(err, &se) {
		msg := se.Message
		switch se.StatusCode {
		case http.StatusBadRequest:
			if msg == "" {
				msg = "request rejected by clinic backend"
			}
			return apperrors.BadRequest(msg, se)
		case http.StatusUnauthorized:
			return apperrors.Unauthorized(se)
		case http.StatusForbidden:
			return &apperrors.AppError{Code: apperrors.ErrForbidden, Message: "forbidden", Err: se}
		case http.StatusNotFound:
			return apperrors.NotFound(resourceOf(op), se)
		default:
			return apperrors.Upstream("clinic backend error", se)
		}
	}

	var de *decodeError
	if errors.As(err, &de) {
		return apperrors.Upstream("unexpected response from clinic backend", err)
	}
	return apperrors.Upstream("clinic backend unreachable", err)
}

func resourceOf(op string) string {
	switch {
	case strings.Contains(op, "doctor"):
		return "doctor"
	case strings.Contains(op, "patient"):
		return "patient"
	case strings.Contains(op, "appointment"):
		return "appointment"
	}
	return "resource"
}

func (c *Client) observe(op string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.BackendLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	c.metrics.BackendRequests.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "open"
	}
	var se *StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("%dxx", se.StatusCode/100)
	}
	return "error"
}
