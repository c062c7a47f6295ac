package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/authportal/internal/client/models"
	"github.com/dmitrijs2005/authportal/internal/logging"
	"github.com/google/uuid"
)

// DefaultTimeout bounds every request unless overridden.
const DefaultTimeout = 5 * time.Second

const requestIDHeader = "X-Request-ID"

// Request describes one API call. Endpoint is relative to the API root,
// e.g. "/auth/login".
type Request struct {
	Method   string
	Endpoint string
	Query    url.Values
	Header   http.Header
	Body     []byte
}

// CookieSaver persists cookies after the server sets new ones.
type CookieSaver interface {
	Save(ctx context.Context) error
}

type Gateway struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	dev     bool
	log     logging.Logger
	cookies CookieSaver
}

type GatewayOption func(*Gateway)

// WithHTTPClient replaces the underlying HTTP client. Its cookie jar, if
// any, is kept.
func WithHTTPClient(c *http.Client) GatewayOption {
	return func(g *Gateway) { g.http = c }
}

func WithTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithDevMode turns on request/response logging.
func WithDevMode(dev bool) GatewayOption {
	return func(g *Gateway) { g.dev = dev }
}

func WithLogger(l logging.Logger) GatewayOption {
	return func(g *Gateway) { g.log = l }
}

// WithCookieJar attaches jar to the HTTP client. A jar that also implements
// CookieSaver is saved whenever a response sets cookies.
func WithCookieJar(jar http.CookieJar) GatewayOption {
	return func(g *Gateway) {
		g.http.Jar = jar
		if saver, ok := jar.(CookieSaver); ok {
			g.cookies = saver
		}
	}
}

// NewGateway builds a Gateway for the API rooted at baseURL
// (e.g. "http://localhost:8000/api").
func NewGateway(baseURL string, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: DefaultTimeout,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BaseURL returns the API root the gateway calls.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

func (g *Gateway) url(r Request) string {
	u := g.baseURL + r.Endpoint
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}

// Do performs r and returns the decoded envelope. Data is left raw; use
// Fetch to type it.
func (g *Gateway) Do(ctx context.Context, r Request) (*models.Envelope[json.RawMessage], error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	target := g.url(r)

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, vs := range r.Header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	log := g.log.With("request_id", requestID)
	if g.dev {
		log.Debug(ctx, "making request", "method", r.Method, "url", target)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, g.transportError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, g.transportError(ctx, err)
	}

	if g.cookies != nil && len(resp.Cookies()) > 0 {
		if err := g.cookies.Save(ctx); err != nil {
			log.Warn(ctx, "saving cookies failed", "error", err)
		}
	}

	var env models.Envelope[json.RawMessage]
	decodeErr := json.Unmarshal(data, &env)

	if g.dev {
		log.Debug(ctx, "received response",
			"http_status", resp.StatusCode,
			"status", env.Status,
			"detail", env.Detail,
			"data", string(env.Data),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Detail
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &HTTPError{Status: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}

	if !env.OK() {
		return nil, &HTTPError{Status: env.Status, Message: env.Detail}
	}

	return &env, nil
}

func (g *Gateway) transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{After: g.timeout}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// Fetch performs r through g and decodes the envelope payload into T.
func Fetch[T any](ctx context.Context, g *Gateway, r Request) (*models.Envelope[T], error) {
	raw, err := g.Do(ctx, r)
	if err != nil {
		return nil, err
	}
	return models.Decode[T](raw)
}
