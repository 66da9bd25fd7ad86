// Package storage uploads files to S3 or an S3-compatible object store.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"courtier_backend/internal/platform/config"
)

// maxParallelUploads bounds concurrent PutObject calls per request.
const maxParallelUploads = 4

// File is an in-memory upload.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

// ObjectPutter is the subset of *s3.Client used by S3Uploader.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores files as public-read objects and returns their URLs.
type S3Uploader struct {
	client  ObjectPutter
	bucket  string
	baseURL string
	newID   func() string
}

// NewS3Uploader builds the S3 client from cfg.
// When cfg.Endpoint is set the client uses path-style addressing against that endpoint.
func NewS3Uploader(ctx context.Context, cfg config.S3) (*S3Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewUploader(client, cfg), nil
}

// NewUploader wraps an existing client.
func NewUploader(client ObjectPutter, cfg config.S3) *S3Uploader {
	return &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL(cfg),
		newID:   uuid.NewString,
	}
}

func baseURL(cfg config.S3) string {
	if cfg.Endpoint != "" {
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

// Key returns the object key for a file name under folder.
func (u *S3Uploader) Key(folder, name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		name = "file"
	}
	return folder + "/" + u.newID() + "-" + name
}

// URL returns the public URL of key.
func (u *S3Uploader) URL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return u.baseURL + "/" + strings.Join(parts, "/")
}

// UploadFiles uploads files under folder in parallel and returns their URLs in input order.
// If any upload fails the remaining ones are cancelled and the first error is returned.
func (u *S3Uploader) UploadFiles(ctx context.Context, folder string, files []File) ([]string, error) {
	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)

	for i, f := range files {
		key := u.Key(folder, f.Name)
		g.Go(func() error {
			contentType := f.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			_, err := u.client.PutObject(gctx, &s3.PutObjectInput{
				Bucket:      aws.String(u.bucket),
				Key:         aws.String(key),
				Body:        bytes.NewReader(f.Body),
				ContentType: aws.String(contentType),
				ACL:         types.ObjectCannedACLPublicRead,
			})
			if err != nil {
				return fmt.Errorf("failed to upload %s: %w", f.Name, err)
			}
			urls[i] = u.URL(key)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
