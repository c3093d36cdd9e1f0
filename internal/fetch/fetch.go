// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fetch retrieves remote webpage HTML for template analysis.
// Pages are fetched with browser-like headers because publishing
// platforms routinely refuse bare client requests, and the body is
// capped so a runaway page cannot exhaust memory.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"pagepress/internal/fault"
)

const (
	// MaxBodyBytes caps how much of a fetched page is read.
	MaxBodyBytes = 5 * 1024 * 1024

	// DefaultTimeout bounds a single page fetch end to end.
	DefaultTimeout = 9 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	accept    = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8"
	acceptLng = "zh-CN,zh;q=0.9,en;q=0.8"
)

// weixinGuidance is returned for authenticated WeChat articles, which
// cannot be fetched server-side. The message tells the user how to get
// the HTML themselves.
const weixinGuidance = `微信文章需要登录才能访问。请在浏览器中打开文章，右键"另存为"保存HTML文件，然后上传文件进行分析。`

// Fetcher downloads webpage content over HTTP.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout overrides the per-fetch deadline.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithClient overrides the HTTP client, mainly for tests.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// New creates a Fetcher with browser-like request headers and the
// default deadline and size cap.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  &http.Client{},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads the page at rawURL and returns its body as text.
// Redirects are followed. The returned error is an *fault.Input for a
// malformed URL or oversized body, *fault.Timeout when the deadline
// expires, and *fault.UpstreamStatus for a non-2xx response.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	target, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return "", fault.NewInput("invalid URL: %s", rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", fmt.Errorf("building fetch request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", acceptLng)
	req.Header.Set("Cache-Control", "no-cache")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			return "", &fault.Timeout{Op: "page fetch"}
		}
		return "", fmt.Errorf("fetching %s: %w", target.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("page fetch refused", "host", target.Host, "status", resp.StatusCode)
		if resp.StatusCode == http.StatusUnauthorized && strings.Contains(target.Hostname(), "weixin.qq.com") {
			return "", &fault.UpstreamStatus{Status: resp.StatusCode, Message: weixinGuidance}
		}
		return "", &fault.UpstreamStatus{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("failed to fetch URL: %s", http.StatusText(resp.StatusCode)),
		}
	}

	if resp.ContentLength > MaxBodyBytes {
		return "", fault.NewInput("URL content is too large (max 5MB)")
	}

	// Read one byte past the cap so an unannounced oversized body is
	// detected rather than silently truncated.
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			return "", &fault.Timeout{Op: "page fetch"}
		}
		return "", fmt.Errorf("reading %s: %w", target.Host, err)
	}
	if len(body) > MaxBodyBytes {
		return "", fault.NewInput("URL content is too large (max 5MB)")
	}

	slog.Debug("page fetched", "host", target.Host, "bytes", len(body), "elapsed", time.Since(start))
	return string(body), nil
}
