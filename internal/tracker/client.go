package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to the Tracker HTTP API. Every request passes through the
// shared rate limiter before it is dispatched, so a single Client (or a
// group of Clients built over one limiter) never exceeds the configured
// request spacing.
type Client struct {
	config  Config
	http    *http.Client
	limiter *RateLimiter
	headers http.Header
}

// New builds a Client with its own rate limiter derived from cfg.Cooldown.
func New(cfg Config) (*Client, error) {
	return NewWithLimiter(cfg, NewRateLimiter(cfg.Cooldown))
}

// NewWithLimiter builds a Client sharing an existing limiter. Use this when
// several clients must respect one global request budget.
func NewWithLimiter(cfg Config, limiter *RateLimiter) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, newError(KindOther, "authorization token is empty")
	}
	if limiter == nil {
		limiter = NewRateLimiter(cfg.Cooldown)
	}

	headers := http.Header{}
	headers.Set("Authorization", cfg.authorizationValue())
	if orgID := strings.TrimSpace(cfg.OrgID); orgID != "" {
		headers.Set(cfg.OrgType.HeaderName(), orgID)
	}
	headers.Set("Accept", "application/json")
	headers.Set("User-Agent", cfg.UserAgent)
	if lang := strings.TrimSpace(cfg.AcceptLanguage); lang != "" {
		headers.Set("Accept-Language", lang)
	}
	for name, values := range headers {
		for _, value := range values {
			if err := checkHeaderValue(value); err != nil {
				return nil, newError(KindOther, fmt.Sprintf("invalid %s header: %s", name, err))
			}
		}
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
	}
	return &Client{
		config:  cfg,
		limiter: limiter,
		headers: headers,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
	}, nil
}

// Config returns a copy of the configuration the client was built with.
func (c *Client) Config() Config { return c.config }

// Limiter exposes the client's rate limiter for sharing with other clients.
func (c *Client) Limiter() *RateLimiter { return c.limiter }

// checkHeaderValue rejects values that cannot be carried in an HTTP header
// verbatim. Control characters and non-ASCII bytes in a token or org id are
// always a configuration mistake, so fail early with a clear message.
func checkHeaderValue(value string) error {
	for _, r := range value {
		if r < 0x20 || r > 0x7e {
			return fmt.Errorf("contains character %q", r)
		}
	}
	return nil
}

// urlFor joins a relative API path onto the versioned API root.
func (c *Client) urlFor(path string) string {
	return c.config.APIRoot() + strings.TrimLeft(path, "/")
}

// absoluteURL resolves a reference that may already be absolute (attachment
// content URLs often are) or relative to the API host.
func (c *Client) absoluteURL(ref string) (string, error) {
	trimmed := strings.TrimSpace(ref)
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed, nil
	}
	base, err := url.Parse(strings.TrimRight(c.config.BaseURL, "/") + "/")
	if err != nil {
		return "", newError(KindOther, fmt.Sprintf("parse base url: %s", err))
	}
	rel, err := url.Parse(strings.TrimLeft(trimmed, "/"))
	if err != nil {
		return "", newError(KindOther, fmt.Sprintf("parse url %q: %s", ref, err))
	}
	return base.ResolveReference(rel).String(), nil
}

// do waits on the rate limiter, then dispatches the request with the
// client's standing headers applied.
func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Hit(ctx); err != nil {
		return nil, classifyTransport(err)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, newError(KindOther, fmt.Sprintf("create request: %s", err))
	}
	for name, values := range c.headers {
		req.Header[name] = values
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	return resp, nil
}

// requestJSON performs a request, checks the status class, and decodes a
// JSON body into dest when dest is non-nil. The response headers are
// returned so callers can read pagination metadata.
func (c *Client) requestJSON(ctx context.Context, method, rawURL string, body io.Reader, dest any) (http.Header, error) {
	resp, err := c.do(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.Header, nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindIO, fmt.Sprintf("read response body: %s", err))
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return nil, newError(KindSerialization, fmt.Sprintf("decode response: %s", err))
	}
	return resp.Header, nil
}

// checkStatus maps non-2xx responses onto the error taxonomy. 401 and 403
// become authentication errors; everything else carries the status plus any
// error code extracted from the body.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	text := strings.TrimSpace(string(body))
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return newError(KindAuthentication, fmt.Sprintf("access denied (%d): %s", resp.StatusCode, text))
	}
	return httpError(resp.StatusCode, text)
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) (http.Header, error) {
	return c.requestJSON(ctx, http.MethodGet, c.urlFor(path), nil, dest)
}

func (c *Client) getJSONQuery(ctx context.Context, path string, query url.Values, dest any) (http.Header, error) {
	rawURL := c.urlFor(path)
	if encoded := query.Encode(); encoded != "" {
		rawURL += "?" + encoded
	}
	return c.requestJSON(ctx, http.MethodGet, rawURL, nil, dest)
}

func (c *Client) postJSON(ctx context.Context, path string, query url.Values, payload, dest any) (http.Header, error) {
	rawURL := c.urlFor(path)
	if query != nil {
		if encoded := query.Encode(); encoded != "" {
			rawURL += "?" + encoded
		}
	}
	body, err := encodeBody(payload)
	if err != nil {
		return nil, err
	}
	return c.requestJSON(ctx, http.MethodPost, rawURL, body, dest)
}

func (c *Client) patchJSON(ctx context.Context, path string, payload, dest any) (http.Header, error) {
	body, err := encodeBody(payload)
	if err != nil {
		return nil, err
	}
	return c.requestJSON(ctx, http.MethodPatch, c.urlFor(path), body, dest)
}

func (c *Client) deleteEmpty(ctx context.Context, path string) error {
	_, err := c.requestJSON(ctx, http.MethodDelete, c.urlFor(path), nil, nil)
	return err
}

func encodeBody(payload any) (io.Reader, error) {
	if payload == nil {
		return nil, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, newError(KindSerialization, fmt.Sprintf("encode request: %s", err))
	}
	return bytes.NewReader(data), nil
}

// BinaryContent is a downloaded attachment body with the content type the
// server reported.
type BinaryContent struct {
	Bytes    []byte
	MimeType string
}

// FetchBinary downloads the content behind an attachment URL, which may be
// absolute or relative to the API host.
func (c *Client) FetchBinary(ctx context.Context, ref string) (BinaryContent, error) {
	rawURL, err := c.absoluteURL(ref)
	if err != nil {
		return BinaryContent{}, err
	}
	resp, err := c.do(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return BinaryContent{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return BinaryContent{}, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return BinaryContent{}, newError(KindIO, fmt.Sprintf("read attachment body: %s", err))
	}
	return BinaryContent{
		Bytes:    data,
		MimeType: resp.Header.Get("Content-Type"),
	}, nil
}
