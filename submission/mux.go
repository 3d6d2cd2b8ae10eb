/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package submission

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/chainguard-dev/clog"
)

// Mux routes downloads to a Downloader by URL scheme.
type Mux struct {
	routes map[string]Downloader
}

var _ Downloader = (*Mux)(nil)

// NewMux creates an empty Mux.
func NewMux() *Mux {
	return &Mux{routes: map[string]Downloader{}}
}

// Handle registers d for URLs with the given scheme (for example "gs").
// Schemes are case-insensitive and may only be registered once.
func (m *Mux) Handle(scheme string, d Downloader) error {
	scheme = strings.ToLower(scheme)
	if scheme == "" {
		return errors.New("scheme cannot be empty")
	}
	if d == nil {
		return fmt.Errorf("downloader for scheme %q cannot be nil", scheme)
	}
	if _, ok := m.routes[scheme]; ok {
		return fmt.Errorf("scheme %q already registered", scheme)
	}
	m.routes[scheme] = d
	return nil
}

// DownloadAs implements Downloader
func (m *Mux) DownloadAs(ctx context.Context, rawURL, destDir, filename, format string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedURL, err)
	}
	d, ok := m.routes[strings.ToLower(u.Scheme)]
	if !ok {
		return "", fmt.Errorf("%w: no downloader for scheme %q", ErrUnsupportedURL, u.Scheme)
	}

	log := clog.FromContext(ctx).With("url", rawURL)
	path, err := d.DownloadAs(ctx, rawURL, destDir, filename, format)
	if err != nil {
		log.With("error", err).Warn("Download failed")
		return "", err
	}
	log.With("path", path).Info("Downloaded submission")
	return path, nil
}
