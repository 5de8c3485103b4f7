package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenSource hands out the current bearer token. The session store is
// the only implementation outside of tests; request construction never
// reaches into ambient globals for credentials.
type TokenSource interface {
	Token() (string, bool)
}

// Client wraps every call to the syndication backend. All endpoints
// live under base + "/api". Calls carry no timeout of their own; the
// caller's context is the only cancellation mechanism.
type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
	lg     *zap.SugaredLogger
}

func New(baseURL string, tokens TokenSource, lg *zap.SugaredLogger) *Client {
	return &Client{
		base:   strings.TrimRight(baseURL, "/") + "/api",
		http:   &http.Client{},
		tokens: tokens,
		lg:     lg,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	p := path
	if len(query) > 0 {
		p += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, p, "", nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, out)
}

func (c *Client) PostMultipart(ctx context.Context, path string, p *Multipart, out any) error {
	body, ctype, err := p.encode()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, ctype, body, out)
}

func (c *Client) PutMultipart(ctx context.Context, path string, p *Multipart, out any) error {
	body, ctype, err := p.encode()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, ctype, body, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	return c.do(ctx, method, path, "application/json", rd, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.lg.Debugw("api call", "method", method, "path", path, "status", resp.StatusCode, "request_id", reqID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFrom(resp)
	}
	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
