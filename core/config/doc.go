// Package config provides configuration management for the initializer.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file, with defaults declared as struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all settings, divided into
// subsections:
//   - App: pass-through settings of the consuming application (name, debug,
//     domain, url, TLS contact, API key)
//   - Server: status HTTP server port
//   - Storage: backend selection (s3 or gcs), credentials, bucket, region
//   - Bootstrap: readiness retry budget, overall timeout, signal file
//   - Log: logging level and format
//
// Environment variables map onto nested keys with underscores, so
// STORAGE_BUCKET sets storage.bucket and BOOTSTRAP_MAX_ATTEMPTS sets
// bootstrap.max_attempts.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Bucket)
package config
