package sdk

import "time"

type options struct {
	timeout       time.Duration
	maxAttempts   int
	initialDelay  time.Duration
	defaultSource string
}

func defaultOptions() options {
	return options{
		timeout:      30 * time.Second,
		maxAttempts:  3,
		initialDelay: 500 * time.Millisecond,
	}
}

// Option configures the SDK client.
type Option func(*options)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRetry configures how often a failed tool call is retried.
func WithRetry(maxAttempts int, initialDelay time.Duration) Option {
	return func(o *options) {
		o.maxAttempts = maxAttempts
		o.initialDelay = initialDelay
	}
}

// WithDefaultSource names the saved data source used by Analyze and
// TestConnection when the request carries no connection. Without it the
// server falls back to its last-used connection.
func WithDefaultSource(nameOrID string) Option {
	return func(o *options) { o.defaultSource = nameOrID }
}
