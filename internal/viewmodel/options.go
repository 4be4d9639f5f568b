package viewmodel

import "time"

// LoadState is the lifecycle of a controller's data
type LoadState string

const (
	StateLoading LoadState = "loading"
	StateLoaded  LoadState = "loaded"
	StateFailed  LoadState = "failed"
)

type options struct {
	now func() time.Time
}

// Option configures a controller
type Option func(*options)

// WithClock sets the clock used for status classification and timestamps
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
