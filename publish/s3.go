package publish

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const csvContentType = "text/csv; charset=utf-8"

// Config represents the settings required to talk to S3 or an S3-compatible API.
type Config struct {
	Bucket         string
	Region         string
	Endpoint       string
	KeyPrefix      string
	ForcePathStyle bool
}

// Enabled reports whether the configuration names a destination.
func (c Config) Enabled() bool {
	return c.Bucket != "" && c.Region != ""
}

// putObjectAPI is the slice of the S3 client the publisher needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewPublisher wires an S3 client if the configuration is complete, otherwise a disabled publisher.
func NewPublisher(ctx context.Context, cfg Config) (Publisher, error) {
	if !cfg.Enabled() {
		return Disabled(), nil
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws sdk config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.ForcePathStyle
		}
	})

	return newS3Publisher(client, cfg), nil
}

func newS3Publisher(client putObjectAPI, cfg Config) *s3Publisher {
	return &s3Publisher{
		client:   client,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
	}
}

type s3Publisher struct {
	client   putObjectAPI
	bucket   string
	region   string
	endpoint string
}

// Publish uploads the dataset file at input.Path under input.Key.
func (p *s3Publisher) Publish(ctx context.Context, input Input) (Result, error) {
	if input.Path == "" {
		return Result{}, ErrMissingPath
	}
	key := input.Key
	if key == "" {
		key = Key("", "", input.Path)
	}

	f, err := os.Open(input.Path)
	if err != nil {
		return Result{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("stat dataset: %w", err)
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentType:   aws.String(csvContentType),
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return Result{}, fmt.Errorf("put object: %w", err)
	}

	return Result{
		Key:      key,
		Location: p.location(key),
	}, nil
}

func (p *s3Publisher) location(key string) string {
	if p.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", p.endpoint, p.bucket, key)
	}
	return fmt.Sprintf("s3://%s/%s", p.bucket, key)
}
