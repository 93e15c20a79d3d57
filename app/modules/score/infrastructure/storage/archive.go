// Package scorestorage keeps a copy of every uploaded score file.
package scorestorage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Archiver stores an uploaded file and returns the key it was stored under.
type Archiver interface {
	Archive(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// PutObjectAPI is the part of the S3 client the archiver uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver writes uploads to an S3 bucket under a dated prefix.
type S3Archiver struct {
	client PutObjectAPI
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3Archiver loads the default AWS configuration and returns an archiver
// for bucket.
func NewS3Archiver(ctx context.Context, bucket, region, prefix string) (*S3Archiver, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3ArchiverWithClient(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// NewS3ArchiverWithClient returns an archiver that uses client.
func NewS3ArchiverWithClient(client PutObjectAPI, bucket, prefix string) *S3Archiver {
	return &S3Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}
}

// Archive uploads data and returns its object key.
func (a *S3Archiver) Archive(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate archive id: %w", err)
	}
	key := path.Join(a.prefix, a.now().UTC().Format("2006/01/02"), id+"-"+safeName(filename))

	input := &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := a.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", filename, err)
	}
	return key, nil
}

// safeName keeps the base name and replaces anything outside [A-Za-z0-9._-].
func safeName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "upload"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}

// NoopArchiver is used when no bucket is configured.
type NoopArchiver struct{}

// Archive does nothing.
func (NoopArchiver) Archive(context.Context, string, string, []byte) (string, error) {
	return "", nil
}
