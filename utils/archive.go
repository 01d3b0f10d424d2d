// utils/archive.go — raw match log archive on R2
package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArchiveClient writes verbatim scoreboard payloads to an R2 bucket so raw
// game logs can be replayed independently of the database.
type ArchiveClient struct {
	client *s3.Client
	bucket string
}

// NewArchiveClient builds the client from R2_* environment variables.
// Returns (nil, nil) when R2_BUCKET_NAME is unset — archiving is optional
// and the caller treats a nil client as disabled.
func NewArchiveClient() (*ArchiveClient, error) {
	bucket := os.Getenv("R2_BUCKET_NAME")
	if bucket == "" {
		return nil, nil
	}
	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	return &ArchiveClient{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// UploadRawLog stores one payload under the given object key (e.g.
// "matchlogs/2024-03-01/alice-vs-bob-<id>.json").
func (a *ArchiveClient) UploadRawLog(ctx context.Context, key string, payload []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload raw log to R2: %w", err)
	}
	return nil
}
