// Package s3 implements store.Driver over an S3-compatible object store
// using aws-sdk-go-v2, shared by both real AWS S3 and MinIO (spec §4.D: "a
// MinIO driver is an S3 driver pointed at a custom endpoint URL").
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"jamsd/internal/store"
)

// Driver lists and fetches objects from one S3-compatible bucket.
type Driver struct {
	client *s3.Client
	bucket string
}

// Options configures the underlying S3 client. Endpoint and PathStyle are
// set for MinIO; left zero-valued, New targets real AWS S3 using the
// default credential chain (spec §6 environment: AWS_* / MINIO_* vars).
type Options struct {
	Bucket    string
	Endpoint  string
	PathStyle bool
	Region    string
}

// New constructs a Driver from opts, resolving AWS credentials from the
// ambient environment (env vars, shared config, or container/instance
// role) via the default config loader.
func New(ctx context.Context, opts Options) (*Driver, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 store: bucket name is required")
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if url := firstNonEmpty(opts.Endpoint, os.Getenv("MINIO_URL")); url != "" {
		loadOpts = append(loadOpts, awsconfig.WithBaseEndpoint(url))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3 store: load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.PathStyle {
			o.UsePathStyle = true
		}
	})
	return &Driver{client: client, bucket: opts.Bucket}, nil
}

// List enumerates every object key in the bucket.
func (d *Driver) List(ctx context.Context) ([]store.Artifact, error) {
	var out []store.Artifact
	paginator := s3.NewListObjectsV2Paginator(d.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(d.bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 store: list objects: %w", err)
		}
		for _, obj := range page.Contents {
			a := store.Artifact{Key: aws.ToString(obj.Key)}
			if obj.ETag != nil {
				a.ETagOrMTime = aws.ToString(obj.ETag)
			}
			if obj.Size != nil {
				a.Size = *obj.Size
			}
			out = append(out, a)
		}
	}
	return out, nil
}

// Fetch downloads the object named key.
func (d *Driver) Fetch(ctx context.Context, key string) ([]byte, error) {
	resp, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 store: get object %q: %w", key, err)
	}
	defer resp.Body.Close()
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		return nil, fmt.Errorf("s3 store: read object %q: %w", key, err)
	}
	return buf.Bytes(), nil
}

// Exists performs a HeadObject to check presence without downloading.
func (d *Driver) Exists(ctx context.Context, key string) (bool, error) {
	_, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return false, nil
	}
	return true, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
