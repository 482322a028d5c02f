package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gsivak487/emrgent-labs/internal/model"
)

const (
	portfolioPath = "/api/portfolio"
	contactPath   = "/api/contact"

	userAgent = "emrgent-labs-folio/1.0"
)

var (
	// ErrStatus wraps every non-2xx response.
	ErrStatus = errors.New("unexpected http status")
	// ErrTooLarge is returned when a response exceeds the size cap.
	ErrTooLarge = errors.New("response body too large")
)

// Client talks to the portfolio backend. It performs exactly one request
// per call: no retries, no caching.
type Client struct {
	base    *url.URL
	client  *http.Client
	sizeCap int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithSizeCap limits how many bytes of a response body are read.
func WithSizeCap(n int64) Option {
	return func(c *Client) { c.sizeCap = n }
}

// New builds a client for the backend rooted at baseURL, e.g.
// "https://api.example.com". Any trailing slash is ignored.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", baseURL)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	c := &Client{
		base: u,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		sizeCap: 1 << 20,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string { return c.base.String() }

func (c *Client) endpoint(path string) string {
	return c.base.JoinPath(path).String()
}

// FetchPortfolio reads the content document. A body that is empty or the
// JSON literal null yields (nil, nil): the backend answered but has no
// document.
func (c *Client) FetchPortfolio(ctx context.Context) (*model.ContentDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(portfolioPath), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch portfolio: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("fetch portfolio: %w", err)
	}

	body, err := c.readBody(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch portfolio: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var doc *model.ContentDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("fetch portfolio: decode: %w", err)
	}
	return doc, nil
}

// SendContact posts a contact message. Any 2xx status is success; the
// response body is discarded.
func (c *Client) SendContact(ctx context.Context, form model.ContactForm) error {
	payload, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("send contact: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(contactPath), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send contact: %w", err)
	}
	defer resp.Body.Close()
	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.sizeCap))

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("send contact: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}
	return nil
}

func (c *Client) readBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, c.sizeCap+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.sizeCap {
		return nil, ErrTooLarge
	}
	return body, nil
}
