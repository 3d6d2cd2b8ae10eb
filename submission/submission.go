/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package submission fetches trainee submissions from where they were
// shared (Google Drive, Cloud Storage, S3) into a local directory so they
// can be read as submission text.
package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Downloader saves the document at url to <destDir>/<filename>.<format>
// and returns that path. An empty filename or format lets the downloader
// pick a default from the URL.
type Downloader interface {
	DownloadAs(ctx context.Context, url, destDir, filename, format string) (string, error)
}

// ErrUnsupportedURL is returned when no downloader understands a URL.
var ErrUnsupportedURL = errors.New("unsupported submission URL")

// Save copies r to <destDir>/<filename>.<format>, creating destDir if it
// does not exist. The file is written to a temporary name first and only
// renamed into place once fully written. The returned path is absolute.
func Save(r io.Reader, destDir, filename, format string) (string, error) {
	if filename == "" {
		return "", errors.New("filename cannot be empty")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", destDir, err)
	}
	name := filename
	if format != "" {
		name += "." + format
	}
	dest, err := filepath.Abs(filepath.Join(destDir, name))
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", destDir, err)
	}

	tmp, err := os.CreateTemp(destDir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("moving download into place: %w", err)
	}
	return dest, nil
}

// NameFromKey splits the base name of an object key into a filename and
// an extension, so "labs/week1/notebook.ipynb" yields ("notebook", "ipynb").
func NameFromKey(key string) (name, ext string) {
	base := path.Base(key)
	ext = path.Ext(base)
	return strings.TrimSuffix(base, ext), strings.TrimPrefix(ext, ".")
}
