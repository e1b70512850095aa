package recorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Operation names the Store journals under. Custom journals may use additional
// names, but the Store itself only ever records these two.
const (
	OperationStore    = "store"
	OperationRetrieve = "retrieve"
)

// RedisClient is an interface type that defines the Redis functionality this
// package requires to use Redis as a backing store.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, val any, ttl time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
	FlushDB(ctx context.Context) *redis.StatusCmd
}

// KeyFunc generates the key a value is stored under. Implementations must
// return a fresh value on every call; keys are never reused.
type KeyFunc func() string

// Store is an instrumented facade over Redis: values are stored under randomly
// generated keys, and every store/retrieve invocation is counted and journaled
// so it can be replayed later.
//
// The zero-value is not usable, and this type should be instantiated using the
// New function.
type Store struct {
	redis        RedisClient
	keyFn        KeyFunc
	keyPrefix    string
	ttl          time.Duration
	journal      Journal
	marshaller   Marshaller
	unmarshaller Unmarshaller
	codec        Codec
	hooksMixin
}

// New creates and initializes a new Store instance.
//
// By default keys are random UUIDs, entries never expire, the call journal is
// held in memory, and msgpack is used for marshalling values stored through
// StoreObject. The behavior of Store can be configured by passing Options.
func New(client RedisClient, opts ...Option) *Store {
	if client == nil {
		panic(fmt.Errorf("a valid redis client is required, illegal use of api"))
	}
	store := &Store{
		redis:        client,
		keyFn:        uuid.NewString,
		journal:      newMemoryJournal(),
		marshaller:   DefaultMarshaller(),
		unmarshaller: DefaultUnmarshaller(),
		codec:        nopCodec{},
	}
	for _, opt := range opts {
		opt(store)
	}

	store.hooksMixin = hooksMixin{
		initial: hooks{
			store:      store.rawStore,
			retrieve:   store.rawRetrieve,
			compress:   store.codec.Compress,
			decompress: store.codec.Decompress,
		},
	}
	store.chain()

	return store
}

// Store writes a value to Redis under a freshly generated key and returns the
// key. The value must be a string, []byte, integer, or float; anything else
// is rejected before touching Redis.
//
// On success the call is journaled: the "store" counter is incremented and an
// input/output pair is appended to the history, as one unit. If the write to
// Redis fails nothing is journaled and the error is returned as a CommandError.
func (s *Store) Store(ctx context.Context, value any) (string, error) {
	if err := checkValue(value); err != nil {
		return "", err
	}
	key := s.nextKey()
	if err := s.hooksMixin.current.store(ctx, key, value); err != nil {
		return "", err
	}
	if err := s.journal.Record(ctx, OperationStore, formatValue(value), key); err != nil {
		return "", fmt.Errorf("record %s call: %w", OperationStore, err)
	}
	return key, nil
}

// Retrieve reads the raw bytes stored under key. A missing key is not an
// error: the boolean reports whether the key existed, and a non-nil error is
// only returned when the operation against Redis itself fails.
//
// Retrieve is journaled under the "retrieve" operation whether or not the key
// exists.
func (s *Store) Retrieve(ctx context.Context, key string) ([]byte, bool, error) {
	data, found, err := s.hooksMixin.current.retrieve(ctx, key)
	if err != nil {
		return nil, false, err
	}
	output := missingOutput
	if found {
		output = string(data)
	}
	if err := s.journal.Record(ctx, OperationRetrieve, key, output); err != nil {
		return nil, false, fmt.Errorf("record %s call: %w", OperationRetrieve, err)
	}
	return data, found, nil
}

// Count returns the number of times the named operation has been invoked on
// this Store, zero if it was never called.
func (s *Store) Count(ctx context.Context, operation string) (int64, error) {
	return s.journal.Count(ctx, operation)
}

// Replay returns every journaled invocation of the named operation in call
// order. Replay is a pure read: it never mutates or consumes the history, and
// calling it repeatedly yields the same records.
func (s *Store) Replay(ctx context.Context, operation string) ([]CallRecord, error) {
	return s.journal.History(ctx, operation)
}

// Flush flushes the backing Redis database, deleting all keys including any
// Redis-resident journal.
func (s *Store) Flush(ctx context.Context) error {
	if err := s.redis.FlushDB(ctx).Err(); err != nil {
		return CommandError{Command: "FLUSHDB", Err: err}
	}
	return nil
}

func (s *Store) nextKey() string {
	return s.keyPrefix + s.keyFn()
}

func (s *Store) rawStore(ctx context.Context, key string, value any) error {
	if err := s.redis.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return CommandError{Command: "SET", Key: key, Err: err}
	}
	return nil
}

func (s *Store) rawRetrieve(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, CommandError{Command: "GET", Key: key, Err: err}
	}
	return data, true, nil
}

// checkValue rejects values Redis cannot store natively. The supported set
// matches what round-trips through GET as a string representation: strings,
// raw bytes, and the numeric types.
func checkValue(value any) error {
	switch value.(type) {
	case string, []byte,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return nil
	default:
		return fmt.Errorf("unsupported value type %T: expected string, []byte, integer, or float", value)
	}
}

// formatValue renders a value for the journal. Bytes are recorded as their
// string form, everything else through the default format.
func formatValue(value any) string {
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return fmt.Sprintf("%v", value)
}
