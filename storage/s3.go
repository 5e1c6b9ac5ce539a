package storage

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Mirror copies stored uploads to an S3 bucket. A nil mirror is valid and
// skips mirroring; mirror failures are logged, never propagated, since the
// local copy is the source of truth.
type S3Mirror struct {
	client *s3.Client
	bucket string
}

// NewS3Mirror builds a mirror from the default AWS config chain. An empty
// bucket disables mirroring.
func NewS3Mirror(ctx context.Context, bucket, region string) (*S3Mirror, error) {
	if bucket == "" {
		return nil, nil
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	return &S3Mirror{client: s3.NewFromConfig(awsCfg), bucket: bucket}, nil
}

// Put uploads a stored file under its generated name.
func (m *S3Mirror) Put(ctx context.Context, path, name, contentType string) {
	if m == nil || m.client == nil {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("storage: s3 mirror open failed: %v", err)
		return
	}
	defer f.Close()

	m.put(ctx, name, f, contentType)
}

func (m *S3Mirror) put(ctx context.Context, key string, body io.Reader, contentType string) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := m.client.PutObject(ctx, in); err != nil {
		log.Printf("storage: s3 mirror put failed for %s: %v", key, err)
	}
}

// Delete removes a mirrored object; called from the same cleanup path as the
// local delete.
func (m *S3Mirror) Delete(ctx context.Context, name string) {
	if m == nil || m.client == nil {
		return
	}
	if _, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(name),
	}); err != nil {
		log.Printf("storage: s3 mirror delete failed for %s: %v", name, err)
	}
}
