package api

import "time"

// Config holds connection settings for the pipeline API.
type Config struct {
	BaseURL        string
	DialTimeout    time.Duration
	RequestTimeout time.Duration // zero leaves requests unbounded
}

// DefaultConfig returns a Config for a backend on localhost with no
// per-request timeout.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "http://localhost:8000",
		DialTimeout: 5 * time.Second,
	}
}
