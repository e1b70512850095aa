package recorder

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kmorrow14/redis-recorder/compression/brotli"
	"github.com/kmorrow14/redis-recorder/compression/flate"
	"github.com/kmorrow14/redis-recorder/compression/gzip"
	"github.com/kmorrow14/redis-recorder/compression/lz4"
	"github.com/kmorrow14/redis-recorder/compression/s2"
)

// Option allows for the Store behavior/configuration to be customized.
type Option func(s *Store)

// WithKeyFunc replaces the default UUID key generator. The provided function
// must return a fresh key on every call.
//
// Providing nil will immediately panic.
func WithKeyFunc(fn KeyFunc) Option {
	if fn == nil {
		panic(fmt.Errorf("nil KeyFunc not permitted, illegal use of api"))
	}
	return func(s *Store) {
		s.keyFn = fn
	}
}

// WithKeyPrefix prepends a fixed prefix to every generated key, namespacing
// the Store's entries in a shared Redis database.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		s.keyPrefix = prefix
	}
}

// WithTTL stores every entry with the given expiration. The default is no
// expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithJournal replaces the default in-memory Journal with a custom
// implementation.
//
// Providing nil will immediately panic.
func WithJournal(journal Journal) Option {
	if journal == nil {
		panic(fmt.Errorf("nil Journal not permitted, illegal use of api"))
	}
	return func(s *Store) {
		s.journal = journal
	}
}

// RedisJournal keeps the call journal in Redis itself rather than in process
// memory. Counts and history then survive restarts and are shared by every
// Store pointed at the same database, at the cost of extra round trips per
// instrumented call.
func RedisJournal() Option {
	return func(s *Store) {
		s.journal = newRedisJournal(s.redis, "")
	}
}

// Serialization allows for the marshalling and unmarshalling behavior of
// StoreObject/RetrieveObject to be customized.
//
// A valid Marshaller and Unmarshaller must be provided. Providing nil for
// either will immediately panic.
func Serialization(mar Marshaller, unmar Unmarshaller) Option {
	if mar == nil || unmar == nil {
		panic(fmt.Errorf("nil Marshaller and/or Unmarshaller not permitted, illegal use of api"))
	}
	return func(s *Store) {
		s.marshaller = mar
		s.unmarshaller = unmar
	}
}

// JSON is a convenient Option for configuring Store to use JSON for
// serializing values stored through StoreObject.
func JSON() Option {
	mar := func(v any) ([]byte, error) {
		return json.Marshal(v)
	}
	unmar := func(data []byte, v any) error {
		return json.Unmarshal(data, v)
	}
	return Serialization(mar, unmar)
}

// Compression configures the Codec used to compress and decompress values
// stored through StoreObject.
//
// Providing nil will immediately panic.
func Compression(codec Codec) Option {
	if codec == nil {
		panic(fmt.Errorf("nil Codec not permitted, illegal use of api"))
	}
	return func(s *Store) {
		s.codec = codec
	}
}

// Flate configures the Store to compress object values with DEFLATE, favoring
// compression ratio over speed.
func Flate() Option {
	return Compression(&flate.Codec{Level: 9})
}

// GZip configures the Store to compress object values with gzip, favoring
// compression ratio over speed.
func GZip() Option {
	return Compression(gzip.NewCodec(9))
}

// LZ4 configures the Store to compress object values with lz4.
func LZ4() Option {
	return Compression(lz4.NewCodec())
}

// Brotli configures the Store to compress object values with Brotli at a
// balanced quality level.
func Brotli() Option {
	return Compression(brotli.NewCodec(6))
}

// S2 configures the Store to compress object values with S2, an extension of
// Snappy favoring speed over compression ratio.
func S2() Option {
	return Compression(s2.Codec{})
}
