// Package client is a Go client for the lehmer HTTP API.
//
// Its query methods mirror [query.Runner], so code written against the
// local engine can run against a remote server unchanged:
//
//	c, err := client.New("http://localhost:8080")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := c.At(ctx, query.AtOptions{Items: []string{"A", "B", "C"}, Rank: 3})
//
// Errors reported by the server come back as *errors.Error with the
// server's code, so errors.Is(err, errors.ErrCodeOutOfRange) works across
// the wire. Transport failures and 5xx responses are retried with
// exponential backoff.
package client

import (
	"bytes"
	"context"
	"io"
	"iter"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/matzehuels/lehmer/pkg/api"
	"github.com/matzehuels/lehmer/pkg/cache"
	"github.com/matzehuels/lehmer/pkg/errors"
	"github.com/matzehuels/lehmer/pkg/query"
)

// Defaults for New.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultAttempts   = 3
	DefaultRetryDelay = 100 * time.Millisecond
)

// Client calls a lehmer server. It is safe for concurrent use.
type Client struct {
	base     string
	http     *http.Client
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithRetry sets the number of attempts and the first backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// New creates a client for the server at baseURL ("http://host:port").
func New(baseURL string, opts ...Option) (*Client, error) {
	if err := errors.ValidateURL(baseURL, "http", "https"); err != nil {
		return nil, err
	}
	c := &Client{
		base:     strings.TrimSuffix(baseURL, "/"),
		http:     &http.Client{Timeout: DefaultTimeout},
		headers:  map[string]string{},
		attempts: DefaultAttempts,
		delay:    DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Health is the server's liveness report.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if _, err := c.do(ctx, http.MethodGet, "/healthz", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Factorial returns n!.
func (c *Client) Factorial(ctx context.Context, n int) (*query.FactorialResult, error) {
	var res query.FactorialResult
	if _, err := c.do(ctx, http.MethodGet, "/v1/factorial/"+strconv.Itoa(n), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// At decodes the permutation with the requested rank.
func (c *Client) At(ctx context.Context, opts query.AtOptions) (*query.AtResult, error) {
	var res query.AtResult
	if _, err := c.do(ctx, http.MethodPost, "/v1/permutations/at", opts, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Page returns a window of ranks.
func (c *Client) Page(ctx context.Context, opts query.PageOptions) (*query.PageResult, error) {
	var res query.PageResult
	if _, err := c.do(ctx, http.MethodPost, "/v1/permutations/page", opts, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Pages walks the windows from opts.Offset to the last rank, opts.Limit
// ranks at a time. Iteration stops at the first error.
func (c *Client) Pages(ctx context.Context, opts query.PageOptions) iter.Seq2[*query.PageResult, error] {
	return func(yield func(*query.PageResult, error) bool) {
		for {
			page, err := c.Page(ctx, opts)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(page, nil) || !page.HasMore() || len(page.Permutations) == 0 {
				return
			}
			opts.Offset = page.NextOffset()
		}
	}
}

// Rank returns the rank of opts.Permutation relative to opts.Items.
func (c *Client) Rank(ctx context.Context, opts query.RankOptions) (*query.RankResult, error) {
	var res query.RankResult
	if _, err := c.do(ctx, http.MethodPost, "/v1/permutations/rank", opts, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Tree renders the decision tree on the server.
func (c *Client) Tree(ctx context.Context, opts query.TreeOptions) (*query.TreeResult, error) {
	var data []byte
	hdr, err := c.do(ctx, http.MethodPost, "/v1/permutations/tree", opts, &data)
	if err != nil {
		return nil, err
	}
	format := query.FormatSVG
	if strings.HasPrefix(hdr.Get("Content-Type"), "text/vnd.graphviz") {
		format = query.FormatDOT
	}
	return &query.TreeResult{
		Format:   format,
		Data:     data,
		CacheHit: hdr.Get("X-Cache") == "HIT",
	}, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do sends one API call, retrying transient failures. A *[]byte out
// receives the raw body; anything else is JSON-decoded. All attempts share
// one request ID so server logs can correlate retries.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (http.Header, error) {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode request")
		}
	}
	requestID := uuid.NewString()

	var hdr http.Header
	err := cache.Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		hdr, err = c.send(ctx, method, path, requestID, body, out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return hdr, nil
}

func (c *Client) send(ctx context.Context, method, path, requestID string, body []byte, out any) (http.Header, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(api.RequestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read response"))
	}
	if resp.StatusCode >= 300 {
		return nil, decodeError(resp.StatusCode, data)
	}

	if raw, ok := out.(*[]byte); ok {
		*raw = data
		return resp.Header, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode response")
	}
	return resp.Header, nil
}

// errorBody mirrors the server's error envelope.
type errorBody struct {
	Error struct {
		Code      errors.Code `json:"code"`
		Message   string      `json:"message"`
		RequestID string      `json:"request_id"`
	} `json:"error"`
}

// decodeError turns a failed response into an *errors.Error carrying the
// server's code. 5xx responses are retryable.
func decodeError(status int, data []byte) error {
	var eb errorBody
	var err error
	if json.Unmarshal(data, &eb) == nil && eb.Error.Code != "" {
		err = errors.New(eb.Error.Code, "%s", eb.Error.Message)
	} else {
		err = errors.New(errors.ErrCodeNetwork, "unexpected status %d", status)
	}
	if status >= http.StatusInternalServerError {
		return cache.Retryable(err)
	}
	return err
}
