package recorder

import (
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Marshaller is a function type that marshals a value stored through
// StoreObject into its binary representation.
type Marshaller func(v any) ([]byte, error)

// Unmarshaller is a function type that unmarshalls bytes retrieved from Redis
// into the target type.
type Unmarshaller func(b []byte, v any) error

// DefaultMarshaller returns a Marshaller using msgpack to marshall values.
func DefaultMarshaller() Marshaller {
	return func(v any) ([]byte, error) {
		return msgpack.Marshal(v)
	}
}

// DefaultUnmarshaller returns an Unmarshaller using msgpack to unmarshall
// values.
func DefaultUnmarshaller() Unmarshaller {
	return func(b []byte, v any) error {
		return msgpack.Unmarshal(b, v)
	}
}

// StoreObject writes an arbitrary serializable value to Redis under a freshly
// generated key and returns the key. Unlike Store, which is limited to the
// primitive types Redis handles natively, StoreObject runs the value through
// the configured Marshaller (msgpack by default) and Codec before writing.
//
// The call is journaled under the "store" operation with the value rendered
// through the default format, sharing the counter and history with Store.
func (s *Store) StoreObject(ctx context.Context, v any) (string, error) {
	data, err := s.marshaller(v)
	if err != nil {
		return "", fmt.Errorf("marshall value: %w", err)
	}
	data, err = s.hooksMixin.current.compress(data)
	if err != nil {
		return "", fmt.Errorf("compress value: %w", err)
	}
	key := s.nextKey()
	if err := s.hooksMixin.current.store(ctx, key, data); err != nil {
		return "", err
	}
	if err := s.journal.Record(ctx, OperationStore, fmt.Sprintf("%+v", v), key); err != nil {
		return "", fmt.Errorf("record %s call: %w", OperationStore, err)
	}
	return key, nil
}

// RetrieveObject reads a value stored with StoreObject, decompressing and
// unmarshalling it into T. A missing key returns the zero value and false
// without an error; a value that cannot be unmarshalled into T surfaces the
// unmarshalling error rather than swallowing it.
//
// The call is journaled under the "retrieve" operation.
func RetrieveObject[T any](ctx context.Context, s *Store, key string) (T, bool, error) {
	var res T

	data, found, err := s.hooksMixin.current.retrieve(ctx, key)
	if err != nil {
		return res, false, err
	}
	output := missingOutput
	if found {
		output = fmt.Sprintf("%d bytes", len(data))
	}
	if err := s.journal.Record(ctx, OperationRetrieve, key, output); err != nil {
		return res, false, fmt.Errorf("record %s call: %w", OperationRetrieve, err)
	}
	if !found {
		return res, false, nil
	}

	data, err = s.hooksMixin.current.decompress(data)
	if err != nil {
		return res, true, fmt.Errorf("decompress value: %w", err)
	}
	if err := s.unmarshaller(data, &res); err != nil {
		return res, true, fmt.Errorf("unmarshall value to type %T: %w", res, err)
	}
	return res, true, nil
}
