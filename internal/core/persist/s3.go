package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/agenthands/biokag/internal/core/kg"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore is the subset of the S3 client the backend needs.
type ObjectStore interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Options struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Backend keeps snapshots as objects under Prefix in Bucket.
type S3Backend struct {
	Client ObjectStore
	Bucket string
	Prefix string
	Now    func() time.Time
}

// NewS3Client builds a path-style S3 client. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.Endpoint != "" {
		loadOpts = append(loadOpts, config.WithBaseEndpoint(opts.Endpoint))
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	}), nil
}

func NewS3Backend(client ObjectStore, bucket, prefix string) *S3Backend {
	return &S3Backend{Client: client, Bucket: bucket, Prefix: prefix, Now: time.Now}
}

func (b *S3Backend) objectKey(name string) string {
	if b.Prefix == "" {
		return name
	}
	return path.Join(b.Prefix, name)
}

func (b *S3Backend) Save(ctx context.Context, g *kg.Graph, name string) error {
	key := b.objectKey(name)
	var buf bytes.Buffer
	if err := Encode(&buf, g, b.Now()); err != nil {
		return &IOError{Op: "encode", Path: key, Err: err}
	}

	_, err := b.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return &IOError{Op: "upload", Path: "s3://" + b.Bucket + "/" + key, Err: err}
	}
	return nil
}

func (b *S3Backend) Load(ctx context.Context, name string) (*kg.Graph, error) {
	key := b.objectKey(name)
	loc := "s3://" + b.Bucket + "/" + key

	out, err := b.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &IOError{Op: "download", Path: loc, Err: err}
	}
	defer out.Body.Close()

	g, err := Decode(out.Body)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = loc
		}
		return nil, err
	}
	return g, nil
}
