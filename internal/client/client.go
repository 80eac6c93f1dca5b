// Package client talks to the token verification endpoint.
package client

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

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
)

var (
	// ErrUnauthorized is returned when the server has already seen the token.
	ErrUnauthorized = errors.New("client: token rejected")
	// ErrMaxRetries wraps the last transport error once all attempts failed.
	ErrMaxRetries = errors.New("client: maximum retries reached")
)

// StatusError is returned for responses other than 200 and 401.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client: unexpected status %d: %s", e.Code, e.Body)
}

const (
	DefaultMaxRetries = 3
	DefaultInterval   = 2 * time.Second
)

type Client struct {
	baseURL    string
	http       *http.Client
	maxRetries uint
	interval   time.Duration
	log        *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithMaxRetries sets the total number of attempts. Zero keeps the default.
func WithMaxRetries(n uint) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.interval = d
		}
	}
}

func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.log = l } }

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		http:       &http.Client{Timeout: 10 * time.Second},
		maxRetries: DefaultMaxRetries,
		interval:   DefaultInterval,
		log:        slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Verify presents token to the server. It returns nil when the token was
// accepted and ErrUnauthorized when it had been used before. Only transport
// failures are retried; any HTTP response ends the attempt loop.
func (c *Client) Verify(ctx context.Context, token, id string) error {
	if id == "" {
		id = uuid.NewString()
	}
	body, err := json.Marshal(map[string]string{"token": token, "id": id})
	if err != nil {
		return err
	}

	op := func() (struct{}, error) {
		return struct{}{}, c.post(ctx, body)
	}
	_, err = backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.interval)),
		backoff.WithMaxTries(c.maxRetries),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.log.Warn("verify.retry", "err", err, "next", next)
		}),
	)

	var se *StatusError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnauthorized), errors.As(err, &se), ctx.Err() != nil:
		return err
	default:
		return fmt.Errorf("%w: %w", ErrMaxRetries, err)
	}
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/verify_token", bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, resp.Body)
		return backoff.Permanent(ErrUnauthorized)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return backoff.Permanent(&StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))})
	}
}
