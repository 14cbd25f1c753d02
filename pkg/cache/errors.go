package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnknownBackend is returned by [Open] for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrUnavailable is returned when a remote backend cannot be reached.
	ErrUnavailable = errors.New("cache backend unavailable")
)

// transientError marks a failure worth retrying, such as a refused
// connection while Redis starts up.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// Transient marks err as retryable. Transient(nil) is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err}
}

// IsTransient reports whether err was marked with [Transient].
func IsTransient(err error) bool {
	var te transientError
	return errors.As(err, &te)
}

// Backoff retries transient failures, doubling Delay after every attempt.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// connectBackoff is used when a remote backend is first dialled.
var connectBackoff = Backoff{Attempts: 3, Delay: time.Second}

// Do calls fn until it succeeds, fails permanently, runs out of attempts or
// ctx is done. The last error is returned unwrapped.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for i := 0; i < max(b.Attempts, 1); i++ {
		if err = fn(); err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if i == b.Attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	var te transientError
	if errors.As(err, &te) {
		return te.err
	}
	return err
}
