/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gcs downloads submissions stored in Google Cloud Storage.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"chainguard.dev/taskgrader/submission"
	"cloud.google.com/go/storage"
	"github.com/chainguard-dev/clog"
	"google.golang.org/api/option"
)

// Scheme is the URL scheme this package handles.
const Scheme = "gs"

// objectReader opens an object for reading.
type objectReader interface {
	NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error)
}

type storageReader struct {
	client *storage.Client
}

func (s storageReader) NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	return s.client.Bucket(bucket).Object(object).NewReader(ctx)
}

// Downloader fetches gs://bucket/object URLs.
type Downloader struct {
	objects objectReader
}

var _ submission.Downloader = (*Downloader)(nil)

// New creates a Downloader with a new Cloud Storage client. Credentials
// come from the environment unless opts say otherwise.
func New(ctx context.Context, opts ...option.ClientOption) (*Downloader, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return NewWithClient(client)
}

// NewWithClient creates a Downloader around an existing client.
func NewWithClient(client *storage.Client) (*Downloader, error) {
	if client == nil {
		return nil, errors.New("storage client cannot be nil")
	}
	return &Downloader{objects: storageReader{client: client}}, nil
}

// ParseURL splits gs://bucket/object into its bucket and object names.
func ParseURL(rawURL string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(rawURL, Scheme+"://")
	if !ok {
		return "", "", fmt.Errorf("%w: missing %s:// prefix: %q", submission.ErrUnsupportedURL, Scheme, rawURL)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("%w: need %s://bucket/object: %q", submission.ErrUnsupportedURL, Scheme, rawURL)
	}
	return bucket, object, nil
}

// DownloadAs implements submission.Downloader. The filename and format
// default to the object's base name and extension.
func (d *Downloader) DownloadAs(ctx context.Context, rawURL, destDir, filename, format string) (string, error) {
	bucket, object, err := ParseURL(rawURL)
	if err != nil {
		return "", err
	}
	name, ext := submission.NameFromKey(object)
	if filename == "" {
		filename = name
	}
	if format == "" {
		format = ext
	}

	clog.FromContext(ctx).With("bucket", bucket).With("object", object).Info("Reading submission from Cloud Storage")
	r, err := d.objects.NewReader(ctx, bucket, object)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return "", fmt.Errorf("object %s does not exist: %w", rawURL, err)
		}
		return "", fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	defer r.Close()

	path, err := submission.Save(r, destDir, filename, format)
	if err != nil {
		return "", fmt.Errorf("failed to save %s: %w", rawURL, err)
	}
	return path, nil
}
