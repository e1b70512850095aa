package recorder

import (
	"context"
	"strconv"
)

// Cast converts the raw bytes fetched from Redis back into the type the value
// was originally stored as.
type Cast[T any] func(data []byte) (T, error)

// Retrieve reads the value stored under key through the provided Store and
// converts it with the given Cast. A missing key returns the zero value and
// false without an error. A Cast that fails surfaces as a CastError rather
// than being swallowed.
//
// The built-in casts AsString, AsBytes, AsInt, and AsFloat cover the types
// Store accepts, satisfying retrieve(store(v)) == v for each of them.
func Retrieve[T any](ctx context.Context, s *Store, key string, cast Cast[T]) (T, bool, error) {
	var zero T
	data, found, err := s.Retrieve(ctx, key)
	if err != nil {
		return zero, false, err
	}
	if !found {
		return zero, false, nil
	}
	val, err := cast(data)
	if err != nil {
		return zero, true, CastError{Input: string(data), Err: err}
	}
	return val, true, nil
}

// AsString casts the raw bytes to a string. It never fails.
func AsString(data []byte) (string, error) {
	return string(data), nil
}

// AsBytes returns the raw bytes unchanged. It never fails.
func AsBytes(data []byte) ([]byte, error) {
	return data, nil
}

// AsInt casts the raw bytes to an int64.
func AsInt(data []byte) (int64, error) {
	return strconv.ParseInt(string(data), 10, 64)
}

// AsFloat casts the raw bytes to a float64.
func AsFloat(data []byte) (float64, error) {
	return strconv.ParseFloat(string(data), 64)
}

// RetrieveString is a convenience for Retrieve with AsString.
func (s *Store) RetrieveString(ctx context.Context, key string) (string, bool, error) {
	return Retrieve(ctx, s, key, AsString)
}

// RetrieveInt is a convenience for Retrieve with AsInt.
func (s *Store) RetrieveInt(ctx context.Context, key string) (int64, bool, error) {
	return Retrieve(ctx, s, key, AsInt)
}

// RetrieveFloat is a convenience for Retrieve with AsFloat.
func (s *Store) RetrieveFloat(ctx context.Context, key string) (float64, bool, error) {
	return Retrieve(ctx, s, key, AsFloat)
}
