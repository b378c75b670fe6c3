package storage

// Provider identifies the active object-storage backend.
type Provider string

const (
	// ProviderS3 is any S3-compatible server (MinIO, AWS S3) reached via endpoint + keys.
	ProviderS3 Provider = "s3"
	// ProviderGCS is Google Cloud Storage reached via a service-account credential file.
	ProviderGCS Provider = "gcs"
)

// Config holds configuration for the storage backend.
// Fields irrelevant to the active provider are ignored, not validated.
type Config struct {
	// Provider selects the backend kind (s3 or gcs).
	Provider string `mapstructure:"provider" default:"s3"`
	// Endpoint is the URL of the S3-compatible server.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for S3 authentication.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret access key for S3 authentication.
	SecretKey string `mapstructure:"secret_key" default:""`
	// UseSSL indicates whether to use SSL/TLS for S3 connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// Bucket is the name of the bucket to bootstrap.
	Bucket string `mapstructure:"bucket" default:""`
	// CredentialsFile is the path to the GCS service-account JSON file.
	CredentialsFile string `mapstructure:"credentials_file" default:""`
	// GCSProjectID is the project owning the bucket; required to create one on GCS.
	GCSProjectID string `mapstructure:"gcs_project_id" default:""`
	// PublicRead applies an anonymous read policy to the bucket after creation.
	PublicRead bool `mapstructure:"public_read" default:"false"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Kind returns the configured provider as a typed value.
func (c Config) Kind() Provider {
	return Provider(c.Provider)
}

// Validate checks that the mandatory fields of the active provider are set.
// It returns a ConfigError describing the first problem found.
func (c Config) Validate() error {
	switch c.Kind() {
	case ProviderS3:
		if c.Endpoint == "" {
			return &ConfigError{Field: "endpoint", Reason: "required for the s3 provider"}
		}
		if c.AccessKey == "" {
			return &ConfigError{Field: "access_key", Reason: "required for the s3 provider"}
		}
		if c.SecretKey == "" {
			return &ConfigError{Field: "secret_key", Reason: "required for the s3 provider"}
		}
	case ProviderGCS:
		if c.CredentialsFile == "" {
			return &ConfigError{Field: "credentials_file", Reason: "required for the gcs provider"}
		}
		if c.GCSProjectID == "" {
			return &ConfigError{Field: "gcs_project_id", Reason: "required for the gcs provider"}
		}
	default:
		return &ConfigError{Field: "provider", Reason: "unknown provider " + c.Provider}
	}

	if c.Bucket == "" {
		return &ConfigError{Field: "bucket", Reason: "bucket name must not be empty"}
	}

	return nil
}
