/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package drive downloads publicly shared Google Drive files, including
// Colab notebooks, by URL.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"chainguard.dev/taskgrader/submission"
	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DownloadURL is the Drive endpoint files are fetched from.
const DownloadURL = "https://drive.google.com/uc?export=download"

// DefaultFormat is the extension used when none is requested. Drive
// serves files in their original format; the extension is cosmetic.
const DefaultFormat = "ipynb"

// maxErrorBody bounds how much of an error response is quoted.
const maxErrorBody = 512

var (
	drivePathRe = regexp.MustCompile(`/drive/([a-zA-Z0-9_-]+)`)
	filePathRe  = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)
)

// FileID extracts the Drive file id from a Colab or Drive URL. It
// understands "/drive/<ID>" paths, "?id=<ID>" queries and "/file/d/<ID>"
// paths, in that order.
func FileID(rawURL string) (string, bool) {
	if m := drivePathRe.FindStringSubmatch(rawURL); m != nil {
		return m[1], true
	}
	if u, err := url.Parse(rawURL); err == nil {
		if id := u.Query().Get("id"); id != "" {
			return id, true
		}
	}
	if m := filePathRe.FindStringSubmatch(rawURL); m != nil {
		return m[1], true
	}
	return "", false
}

// Downloader fetches Drive files over HTTP. Files must be shared with
// "anyone with the link".
type Downloader struct {
	client      *http.Client
	downloadURL string
}

var _ submission.Downloader = (*Downloader)(nil)

// Option configures a Downloader.
type Option func(*Downloader) error

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Downloader) error {
		if c == nil {
			return errors.New("http client cannot be nil")
		}
		d.client = c
		return nil
	}
}

// WithDownloadURL replaces DownloadURL, mainly for tests.
func WithDownloadURL(u string) Option {
	return func(d *Downloader) error {
		if _, err := url.Parse(u); err != nil {
			return fmt.Errorf("invalid download URL: %w", err)
		}
		d.downloadURL = u
		return nil
	}
}

// New creates a Downloader.
func New(opts ...Option) (*Downloader, error) {
	d := &Downloader{
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		downloadURL: DownloadURL,
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return d, nil
}

// DownloadAs implements submission.Downloader. The filename defaults to
// the file id and the format to DefaultFormat.
func (d *Downloader) DownloadAs(ctx context.Context, rawURL, destDir, filename, format string) (string, error) {
	id, ok := FileID(rawURL)
	if !ok {
		return "", fmt.Errorf("%w: could not extract document ID from URL: %s", submission.ErrUnsupportedURL, rawURL)
	}
	if filename == "" {
		filename = id
	}
	if format == "" {
		format = DefaultFormat
	}
	log := clog.FromContext(ctx).With("file_id", id)

	resp, err := d.get(ctx, id, nil)
	if err != nil {
		return "", err
	}
	// Large files answer with a virus-scan warning page and a cookie
	// carrying the token that confirms the download.
	if token, cookie := confirmToken(resp); token != "" {
		resp.Body.Close()
		log.Info("Confirming Drive download")
		if resp, err = d.get(ctx, id, &confirmation{token: token, cookie: cookie}); err != nil {
			return "", err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("failed to download Google Drive file %s: status %d: %s",
			id, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	path, err := submission.Save(resp.Body, destDir, filename, format)
	if err != nil {
		return "", fmt.Errorf("failed to save Google Drive file %s: %w", id, err)
	}
	return path, nil
}

type confirmation struct {
	token  string
	cookie *http.Cookie
}

func (d *Downloader) get(ctx context.Context, id string, c *confirmation) (*http.Response, error) {
	u, err := url.Parse(d.downloadURL)
	if err != nil {
		return nil, fmt.Errorf("invalid download URL: %w", err)
	}
	q := u.Query()
	q.Set("id", id)
	if c != nil {
		q.Set("confirm", c.token)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c != nil && c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download Google Drive file %s: %w", id, err)
	}
	return resp, nil
}

// confirmToken returns the value of the first download_warning* cookie.
func confirmToken(resp *http.Response) (string, *http.Cookie) {
	for _, c := range resp.Cookies() {
		if strings.HasPrefix(c.Name, "download_warning") {
			return c.Value, c
		}
	}
	return "", nil
}
