package recorder

import (
	"fmt"
)

// CommandError is returned when an operation against the backing Redis fails.
// The Command and Key identify what was attempted, Err carries the underlying
// cause. Failures are never retried internally; retry policy belongs to the
// caller or the Redis client itself.
type CommandError struct {
	Command string
	Key     string
	Err     error
}

func (e CommandError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("redis: %s: %s", e.Command, e.Err)
	}
	return fmt.Sprintf("redis: %s %s: %s", e.Command, e.Key, e.Err)
}

func (e CommandError) Unwrap() error {
	return e.Err
}

// CastError is returned when a Cast cannot convert the raw bytes retrieved
// from Redis into the requested type. Input holds the raw value as fetched.
type CastError struct {
	Input string
	Err   error
}

func (e CastError) Error() string {
	return fmt.Sprintf("cast %q: %s", e.Input, e.Err)
}

func (e CastError) Unwrap() error {
	return e.Err
}
