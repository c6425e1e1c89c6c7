// services/backup.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BackupService uploads legacy blacklist snapshots to a DigitalOcean Spaces
// bucket before migration rewrites them into the database.
type BackupService struct {
	client     *s3.Client
	bucket     string
	region     string
	BackupRoot string
}

func NewBackupService(spacesKey, spacesSecret, region, bucket, backupRoot string) *BackupService {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		panic(fmt.Sprintf("Unable to load Spaces config: %v", err))
	}

	client := s3.NewFromConfig(cfg)

	return &BackupService{
		client:     client,
		bucket:     bucket,
		region:     region,
		BackupRoot: strings.TrimPrefix(backupRoot, "/"),
	}
}

// UploadSnapshot stores one pre-migration snapshot under a timestamped key
// and returns the object's public URL.
func (s *BackupService) UploadSnapshot(ctx context.Context, name string, data []byte) (string, error) {
	key := fmt.Sprintf("%s/%s/%s", s.BackupRoot, time.Now().UTC().Format("2006-01-02"), name)

	contentType := "application/json"
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload backup %s: %w", key, err)
	}

	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, key), nil
}
