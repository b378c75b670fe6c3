// Package storage provides the object-storage backends the bootstrap
// sequence runs against.
//
// The Backend interface abstracts the two supported providers behind the
// capability set the initializer needs: a connectivity probe, a bucket
// existence check, an idempotent bucket create, and an anonymous-read
// policy grant.
//
// # Variants
//
//   - s3: any S3-compatible server (MinIO, AWS S3), addressed via endpoint,
//     access key, and secret key; bucket operations use path-style addressing.
//   - gcs: Google Cloud Storage, addressed via a service-account credential
//     file and project id; no endpoint is involved.
//
// The provider is selected once at construction from Config.Provider, so no
// backend conditionals leak into the rest of the program.
//
// # Errors
//
// Failures map onto a small taxonomy: ConfigError (fatal, fix configuration),
// ConnectError (unreachable is transient, unauthorized is fatal), and
// BackendError (already-exists is success for creates, anything else fatal).
// Helpers IsAlreadyExists and IsUnauthorized classify wrapped errors.
//
// # Usage
//
//	backend, err := storage.New(ctx, cfg)
//	exists, err := backend.BucketExists(ctx, cfg.Bucket)
package storage
