/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package s3 downloads submissions stored in Amazon S3 or an S3-compatible
// object store.
package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/taskgrader/submission"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/chainguard-dev/clog"
)

// Scheme is the URL scheme this package handles.
const Scheme = "s3"

// getObjectAPI is the part of the S3 client the downloader uses.
type getObjectAPI interface {
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
}

// Downloader fetches s3://bucket/key URLs.
type Downloader struct {
	api getObjectAPI
}

var _ submission.Downloader = (*Downloader)(nil)

// New creates a Downloader from the default AWS configuration chain
// (environment, shared config, instance role).
func New(ctx context.Context, optFns ...func(*config.LoadOptions) error) (*Downloader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return NewWithClient(awss3.NewFromConfig(cfg))
}

// NewWithClient creates a Downloader around an existing S3 client.
func NewWithClient(client *awss3.Client) (*Downloader, error) {
	if client == nil {
		return nil, errors.New("s3 client cannot be nil")
	}
	return &Downloader{api: client}, nil
}

// ParseURL splits s3://bucket/key into its bucket and key.
func ParseURL(rawURL string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(rawURL, Scheme+"://")
	if !ok {
		return "", "", fmt.Errorf("%w: missing %s:// prefix: %q", submission.ErrUnsupportedURL, Scheme, rawURL)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: need %s://bucket/key: %q", submission.ErrUnsupportedURL, Scheme, rawURL)
	}
	return bucket, key, nil
}

// DownloadAs implements submission.Downloader. The filename and format
// default to the key's base name and extension.
func (d *Downloader) DownloadAs(ctx context.Context, rawURL, destDir, filename, format string) (string, error) {
	bucket, key, err := ParseURL(rawURL)
	if err != nil {
		return "", err
	}
	name, ext := submission.NameFromKey(key)
	if filename == "" {
		filename = name
	}
	if format == "" {
		format = ext
	}

	clog.FromContext(ctx).With("bucket", bucket).With("key", key).Info("Reading submission from S3")
	out, err := d.api.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return "", fmt.Errorf("object %s does not exist: %w", rawURL, err)
		}
		return "", fmt.Errorf("failed to get %s: %w", rawURL, err)
	}
	defer out.Body.Close()

	path, err := submission.Save(out.Body, destDir, filename, format)
	if err != nil {
		return "", fmt.Errorf("failed to save %s: %w", rawURL, err)
	}
	return path, nil
}
