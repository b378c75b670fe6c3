package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// gcsBackend talks to Google Cloud Storage through the official SDK.
// Unlike the S3 variant it needs no endpoint, only a service-account
// credential file and the project that owns the buckets.
type gcsBackend struct {
	client    *gcs.Client
	projectID string
	region    string
}

func newGCSBackend(ctx context.Context, cfg Config) (Backend, error) {
	client, err := gcs.NewClient(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}
	return &gcsBackend{client: client, projectID: cfg.GCSProjectID, region: cfg.Region}, nil
}

func (b *gcsBackend) Kind() Provider { return ProviderGCS }

// Ping lists buckets in the project as a connectivity and credential probe.
func (b *gcsBackend) Ping(ctx context.Context) error {
	it := b.client.Buckets(ctx, b.projectID)
	it.PageInfo().MaxSize = 1
	if _, err := it.Next(); err != nil && err != iterator.Done {
		return b.connectError(err)
	}
	return nil
}

func (b *gcsBackend) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	_, err := b.client.Bucket(bucketName).Attrs(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gcs.ErrBucketNotExist):
		return false, nil
	default:
		return false, &BackendError{Code: BackendOther, Op: "bucket-exists", Backend: ProviderGCS, Cause: err}
	}
}

func (b *gcsBackend) MakeBucket(ctx context.Context, bucketName string) error {
	attrs := &gcs.BucketAttrs{Location: b.region}
	err := b.client.Bucket(bucketName).Create(ctx, b.projectID, attrs)
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
		return &BackendError{Code: BackendAlreadyExists, Op: "make-bucket", Backend: ProviderGCS, Cause: err}
	}
	return &BackendError{Code: BackendOther, Op: "make-bucket", Backend: ProviderGCS, Cause: err}
}

// SetPublicReadPolicy grants roles/storage.objectViewer to allUsers, the GCS
// equivalent of an anonymous-download bucket policy.
func (b *gcsBackend) SetPublicReadPolicy(ctx context.Context, bucketName string) error {
	handle := b.client.Bucket(bucketName).IAM()
	policy, err := handle.Policy(ctx)
	if err != nil {
		return &BackendError{Code: BackendOther, Op: "set-policy", Backend: ProviderGCS, Cause: err}
	}
	policy.Add(gcsAllUsers, "roles/storage.objectViewer")
	if err := handle.SetPolicy(ctx, policy); err != nil {
		return &BackendError{Code: BackendOther, Op: "set-policy", Backend: ProviderGCS, Cause: err}
	}
	return nil
}

func (b *gcsBackend) Close() error { return b.client.Close() }

const gcsAllUsers = "allUsers"

func (b *gcsBackend) connectError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &ConnectError{Kind: ConnectUnauthorized, Backend: ProviderGCS, Cause: err}
		}
	}
	return &ConnectError{Kind: ConnectUnreachable, Backend: ProviderGCS, Cause: err}
}
