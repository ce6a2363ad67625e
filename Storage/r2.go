package Storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"Crane/Config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Client wraps the S3 API pointed at a Cloudflare R2 bucket.
type Client struct {
	s3Client *s3.Client
	presign  *s3.PresignClient
	bucket   string
}

var defaultClient *Client

// Connect initializes the package-level client from AppConfig. Returns an
// error when R2 credentials are not configured.
func Connect() error {
	cfg := Config.AppConfig
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" {
		return fmt.Errorf("R2 storage not configured")
	}

	client, err := New(cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2Bucket)
	if err != nil {
		return err
	}
	defaultClient = client
	return nil
}

// Get returns the package-level client, or nil when storage is disabled.
func Get() *Client { return defaultClient }

// New builds a client against the R2 endpoint for the given account.
func New(accountID, accessKeyID, secretAccessKey, bucket string) (*Client, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	return NewWithEndpoint(endpoint, accessKeyID, secretAccessKey, bucket)
}

// NewWithEndpoint is split out so tests can point the client at a local
// S3-compatible server.
func NewWithEndpoint(endpoint, accessKeyID, secretAccessKey, bucket string) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &Client{
		s3Client: s3Client,
		presign:  s3.NewPresignClient(s3Client),
		bucket:   bucket,
	}, nil
}

// ObjectKey builds the canonical key for a project file.
func ObjectKey(projectID uint, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("projects/%d/%s%s", projectID, uuid.NewString(), ext)
}

// Upload stores data under key with the given content type.
func (c *Client) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// PresignDownload returns a time-limited GET URL for the object.
func (c *Client) PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

// Delete removes the object. Missing objects are not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
