package bootstrap

import "time"

// Config holds configuration for the bootstrap run.
type Config struct {
	// MaxAttempts is the readiness probe budget.
	MaxAttempts uint64 `mapstructure:"max_attempts" default:"10"`
	// BaseDelayMS is the first backoff interval in milliseconds.
	BaseDelayMS int `mapstructure:"base_delay_ms" default:"500"`
	// MaxDelayMS caps the backoff interval in milliseconds.
	MaxDelayMS int `mapstructure:"max_delay_ms" default:"10000"`
	// TimeoutSeconds bounds the whole run, so a misconfigured storage
	// server cannot block the deployment forever.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"120"`
	// SignalFile, when set, is written after a successful run as the
	// completion flag the application launcher waits on.
	SignalFile string `mapstructure:"signal_file" default:""`
}

// BaseDelay returns the configured base delay as a duration.
func (c Config) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelayMS) * time.Millisecond
}

// MaxDelay returns the configured backoff cap as a duration.
func (c Config) MaxDelay() time.Duration {
	return time.Duration(c.MaxDelayMS) * time.Millisecond
}

// Timeout returns the overall run deadline as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
