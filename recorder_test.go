package recorder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

var server *miniredis.Miniredis
var client *redis.Client

func setup() {
	server = mockRedis()
	client = redis.NewClient(&redis.Options{
		Addr: server.Addr(),
	})
}

func tearDown() {
	server.Close()
	client.Close()
}

func mockRedis() *miniredis.Miniredis {
	s, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	return s
}

func TestNew(t *testing.T) {
	setup()
	defer tearDown()

	assert.NotPanics(t, func() {
		New(client)
	})
	assert.Panics(t, func() {
		New(nil)
	})
}

func TestStore_RoundTrip(t *testing.T) {
	setup()
	defer tearDown()

	store := New(client)

	key, err := store.Store(context.Background(), "foo")
	assert.NoError(t, err)
	s, found, err := store.RetrieveString(context.Background(), key)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "foo", s)

	key, err = store.Store(context.Background(), 42)
	assert.NoError(t, err)
	n, found, err := store.RetrieveInt(context.Background(), key)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(42), n)

	key, err = store.Store(context.Background(), 3.14)
	assert.NoError(t, err)
	f, found, err := store.RetrieveFloat(context.Background(), key)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3.14, f)

	key, err = store.Store(context.Background(), []byte("raw bytes"))
	assert.NoError(t, err)
	b, found, err := Retrieve(context.Background(), store, key, AsBytes)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("raw bytes"), b)
}

func TestStore_GeneratesUniqueKeys(t *testing.T) {
	setup()
	defer tearDown()

	store := New(client)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		key, err := store.Store(context.Background(), i)
		assert.NoError(t, err)
		_, dup := seen[key]
		assert.False(t, dup)
		seen[key] = struct{}{}
	}
}

func TestStore_RetrieveMissing(t *testing.T) {
	setup()
	defer tearDown()

	store := New(client)

	val, found, err := store.Retrieve(context.Background(), "nonexistent-key")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, val)

	// A miss is still an invocation of retrieve, but never of store.
	count, err := store.Count(context.Background(), OperationRetrieve)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = store.Count(context.Background(), OperationStore)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestStore_CountAndReplay(t *testing.T) {
	setup()
	defer tearDown()

	store := New(client)

	count, err := store.Count(context.Background(), OperationStore)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)

	k1, err := store.Store(context.Background(), "foo")
	assert.NoError(t, err)
	k2, err := store.Store(context.Background(), 42)
	assert.NoError(t, err)

	count, err = store.Count(context.Background(), OperationStore)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	records, err := store.Replay(context.Background(), OperationStore)
	assert.NoError(t, err)
	assert.Equal(t, []CallRecord{
		{Operation: OperationStore, Input: "foo", Output: k1},
		{Operation: OperationStore, Input: "42", Output: k2},
	}, records)

	// Replay is a pure read, repeating it yields identical records.
	again, err := store.Replay(context.Background(), OperationStore)
	assert.NoError(t, err)
	assert.Equal(t, records, again)

	count, err = store.Count(context.Background(), OperationStore)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestStore_UnsupportedValue(t *testing.T) {
	setup()
	defer tearDown()

	store := New(client)

	type person struct {
		Name string
	}

	_, err := store.Store(context.Background(), person{Name: "Billy"})
	assert.Error(t, err)

	count, err := store.Count(context.Background(), OperationStore)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestStore_BackendError(t *testing.T) {
	setup()
	defer tearDown()

	store := New(client)
	server.Close()

	_, err := store.Store(context.Background(), "foo")
	var cmdErr CommandError
	assert.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "SET", cmdErr.Command)

	_, _, err = store.Retrieve(context.Background(), "some-key")
	assert.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "GET", cmdErr.Command)

	// Failed operations are never journaled.
	count, err := store.Count(context.Background(), OperationStore)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = store.Count(context.Background(), OperationRetrieve)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestStore_TTL(t *testing.T) {
	setup()
	defer tearDown()

	store := New(client, WithTTL(time.Second*10))

	key, err := store.Store(context.Background(), "expiring")
	assert.NoError(t, err)

	_, found, err := store.RetrieveString(context.Background(), key)
	assert.NoError(t, err)
	assert.True(t, found)

	server.FastForward(time.Second * 11)

	_, found, err = store.RetrieveString(context.Background(), key)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestStore_KeyOptions(t *testing.T) {
	setup()
	defer tearDown()

	i := 0
	store := New(client,
		WithKeyPrefix("recorder:"),
		WithKeyFunc(func() string {
			i++
			return fmt.Sprintf("key%d", i)
		}))

	key, err := store.Store(context.Background(), "foo")
	assert.NoError(t, err)
	assert.Equal(t, "recorder:key1", key)

	key, err = store.Store(context.Background(), "bar")
	assert.NoError(t, err)
	assert.Equal(t, "recorder:key2", key)
}

func TestStore_WriteReplay(t *testing.T) {
	setup()
	defer tearDown()

	i := 0
	store := New(client, WithKeyFunc(func() string {
		i++
		return fmt.Sprintf("key%d", i)
	}))

	_, err := store.Store(context.Background(), "foo")
	assert.NoError(t, err)
	_, err = store.Store(context.Background(), 42)
	assert.NoError(t, err)

	var buf bytes.Buffer
	err = store.WriteReplay(context.Background(), &buf, OperationStore)
	assert.NoError(t, err)
	assert.Equal(t, "store was called 2 times:\nstore(foo) -> key1\nstore(42) -> key2\n", buf.String())
}

func TestStore_Flush(t *testing.T) {
	setup()
	defer tearDown()

	store := New(client)

	key, err := store.Store(context.Background(), "foo")
	assert.NoError(t, err)

	err = store.Flush(context.Background())
	assert.NoError(t, err)

	_, found, err := store.Retrieve(context.Background(), key)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestStore_RetrieveCast(t *testing.T) {
	setup()
	defer tearDown()

	store := New(client)

	key, err := store.Store(context.Background(), "not a number")
	assert.NoError(t, err)

	_, found, err := store.RetrieveInt(context.Background(), key)
	assert.True(t, found)

	var castErr CastError
	assert.ErrorAs(t, err, &castErr)
	assert.Equal(t, "not a number", castErr.Input)
	assert.False(t, errors.Is(err, redis.Nil))
}
