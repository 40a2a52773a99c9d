package authority

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
	"time"

	"foresttime-admin/internal/domain"
	"foresttime-admin/internal/observability"
)

// maxResponseBytes caps how much of an upstream body is read
const maxResponseBytes = 8 << 20

// Result is a successful remote authority answer
type Result struct {
	Head *domain.ResponseHead
	Body []byte // raw JSON, relayed unchanged
}

// Client calls the remote authority: POST {baseURL}?action={name} with a JSON envelope.
// Every call is a single uncached attempt bounded by the client timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new remote authority client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Call sends body to the named action and classifies the outcome. A success:false answer
// is returned as ErrUpstreamRejected together with the result.
func (c *Client) Call(ctx context.Context, action string, body any) (*Result, error) {
	start := time.Now()
	res, err := c.call(ctx, action, body)

	outcome := "success"
	switch {
	case IsTimeout(err):
		outcome = "timeout"
		observability.FromContext(ctx).Warn("remote authority timed out",
			slog.String("upstream_action", action),
			slog.Duration("elapsed", time.Since(start)))
	case err != nil:
		outcome = domain.ErrorKind(err)
	}
	observability.UpstreamRequestDuration.WithLabelValues(action, outcome).Observe(time.Since(start).Seconds())

	return res, err
}

func (c *Client) call(ctx context.Context, action string, body any) (*Result, error) {
	endpoint, err := c.actionURL(action)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", action, domain.ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: reading body: %w", action, domain.ErrUpstreamUnreachable, err)
	}

	head, err := domain.DecodeResponseHead(raw)
	if err != nil {
		return nil, fmt.Errorf("%s (status %d): %w", action, resp.StatusCode, err)
	}

	res := &Result{Head: head, Body: raw}
	if !head.Success {
		return res, fmt.Errorf("%s: %w", action, domain.ErrUpstreamRejected)
	}
	return res, nil
}

// actionURL appends the action discriminator to the base URL, keeping existing query values
func (c *Client) actionURL(action string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid remote authority URL: %w", err)
	}
	q := u.Query()
	q.Set("action", action)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// IsTimeout reports whether err came from the client or context deadline
func IsTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
