package gateway

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/agencyvault/agencyvault/internal/domain"
)

type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3BlobStore is the blob-store collaborator backed by S3 (or any
// S3-compatible endpoint such as minio).
type S3BlobStore struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3BlobStore(ctx context.Context, conf S3Config) (*S3BlobStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(conf.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			conf.AccessKey,
			conf.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3BlobStore{
		client: client,
		bucket: conf.Bucket,
		region: conf.Region,
	}, nil
}

func (s *S3BlobStore) Put(ctx context.Context, data []byte, name, mimeType string) (string, error) {
	key := fmt.Sprintf("documents/%s-%s", uuid.New(), strings.ReplaceAll(name, " ", "_"))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", domain.UpstreamError{Op: "blob store put", Err: err}
	}

	return s.urlPrefix() + key, nil
}

func (s *S3BlobStore) Delete(ctx context.Context, url string) error {
	key := strings.TrimPrefix(url, s.urlPrefix())
	if key == url || key == "" {
		// not one of ours; nothing to remove upstream
		slog.WarnContext(ctx, "could not extract blob key from url",
			slog.String("url", url),
			slog.String("module", "blobstore"),
		)
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return domain.UpstreamError{Op: "blob store delete", Err: err}
	}
	return nil
}

func (s *S3BlobStore) urlPrefix() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.region)
}
