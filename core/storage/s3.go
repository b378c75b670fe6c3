package storage

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// publicReadPolicy is the template for an anonymous-download bucket policy.
// Read-only: the original mc shortcut granted anonymous writes as well, which
// is never what a deployment wants outside local development.
const publicReadPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": {"AWS": ["*"]},
      "Action": ["s3:GetObject"],
      "Resource": ["arn:aws:s3:::%s/*"]
    }
  ]
}`

// s3Backend talks to any S3-compatible server through the MinIO client,
// using path-style bucket addressing.
type s3Backend struct {
	client *minio.Client
	region string
}

func newS3Backend(cfg Config) (Backend, error) {
	// Minio expects endpoint without scheme
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	// Ensure timeout defaults if not set
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Create custom transport with strict timeouts
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration, // Connection setup timeout
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		Transport:    transport,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &s3Backend{client: client, region: cfg.Region}, nil
}

func (b *s3Backend) Kind() Provider { return ProviderS3 }

// Ping lists buckets as a connectivity and credential probe. The minio client
// connects lazily, so this is the first request that actually hits the wire.
func (b *s3Backend) Ping(ctx context.Context) error {
	if _, err := b.client.ListBuckets(ctx); err != nil {
		return b.connectError(err)
	}
	return nil
}

func (b *s3Backend) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	exists, err := b.client.BucketExists(ctx, bucketName)
	if err != nil {
		return false, &BackendError{Code: BackendOther, Op: "bucket-exists", Backend: ProviderS3, Cause: err}
	}
	return exists, nil
}

func (b *s3Backend) MakeBucket(ctx context.Context, bucketName string) error {
	err := b.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: b.region})
	if err == nil {
		return nil
	}
	switch minio.ToErrorResponse(err).Code {
	case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
		return &BackendError{Code: BackendAlreadyExists, Op: "make-bucket", Backend: ProviderS3, Cause: err}
	}
	return &BackendError{Code: BackendOther, Op: "make-bucket", Backend: ProviderS3, Cause: err}
}

func (b *s3Backend) SetPublicReadPolicy(ctx context.Context, bucketName string) error {
	policy := fmt.Sprintf(publicReadPolicy, bucketName)
	if err := b.client.SetBucketPolicy(ctx, bucketName, policy); err != nil {
		return &BackendError{Code: BackendOther, Op: "set-policy", Backend: ProviderS3, Cause: err}
	}
	return nil
}

func (b *s3Backend) Close() error { return nil }

// connectError classifies a probe failure. Credential rejections are fatal;
// everything else counts as the server not being reachable yet.
func (b *s3Backend) connectError(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return &ConnectError{Kind: ConnectUnauthorized, Backend: ProviderS3, Cause: err}
	}
	return &ConnectError{Kind: ConnectUnreachable, Backend: ProviderS3, Cause: err}
}
