package recorder

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// missingOutput is the journaled output for a retrieve that found nothing.
const missingOutput = "<nil>"

// CallRecord is one journaled invocation of an instrumented operation: the
// operation name plus the rendered input and output of the call.
type CallRecord struct {
	Operation string
	Input     string
	Output    string
}

// Journal records the invocations of instrumented operations. Implementations
// must treat Record as atomic with respect to Count and History: a recorded
// call increments the counter and appends to the history together, or does
// neither.
//
// History returns records in call order and must be safe to call repeatedly;
// reading the history never consumes it.
type Journal interface {
	Record(ctx context.Context, operation, input, output string) error
	Count(ctx context.Context, operation string) (int64, error)
	History(ctx context.Context, operation string) ([]CallRecord, error)
}

// memoryJournal is the default Journal. Counters and history live in process
// memory and only last for the lifetime of the Store instance. A single mutex
// guards the counter increment and history append as one unit so concurrent
// callers cannot interleave or lose entries.
type memoryJournal struct {
	mu      sync.Mutex
	counts  map[string]int64
	history map[string][]CallRecord
}

func newMemoryJournal() *memoryJournal {
	return &memoryJournal{
		counts:  make(map[string]int64),
		history: make(map[string][]CallRecord),
	}
}

func (j *memoryJournal) Record(_ context.Context, operation, input, output string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.counts[operation]++
	j.history[operation] = append(j.history[operation], CallRecord{
		Operation: operation,
		Input:     input,
		Output:    output,
	})
	return nil
}

func (j *memoryJournal) Count(_ context.Context, operation string) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.counts[operation], nil
}

func (j *memoryJournal) History(_ context.Context, operation string) ([]CallRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	records := make([]CallRecord, len(j.history[operation]))
	copy(records, j.history[operation])
	return records, nil
}

// redisJournal keeps the call journal in Redis itself so the history survives
// process restarts and is shared by every Store pointed at the same database.
// The layout mirrors three keys per operation: a counter under <op>:calls and
// two parallel lists under <op>:inputs and <op>:outputs.
type redisJournal struct {
	redis  RedisClient
	prefix string
}

func newRedisJournal(client RedisClient, prefix string) *redisJournal {
	return &redisJournal{
		redis:  client,
		prefix: prefix,
	}
}

func (j *redisJournal) key(operation, suffix string) string {
	return j.prefix + operation + ":" + suffix
}

// Record increments the counter and appends to both lists inside a single
// MULTI/EXEC pipeline so a failure leaves the journal untouched.
func (j *redisJournal) Record(ctx context.Context, operation, input, output string) error {
	_, err := j.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, j.key(operation, "calls"))
		pipe.RPush(ctx, j.key(operation, "inputs"), input)
		pipe.RPush(ctx, j.key(operation, "outputs"), output)
		return nil
	})
	if err != nil {
		return CommandError{Command: "MULTI", Key: j.key(operation, "calls"), Err: err}
	}
	return nil
}

func (j *redisJournal) Count(ctx context.Context, operation string) (int64, error) {
	n, err := j.redis.Get(ctx, j.key(operation, "calls")).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, CommandError{Command: "GET", Key: j.key(operation, "calls"), Err: err}
	}
	return n, nil
}

func (j *redisJournal) History(ctx context.Context, operation string) ([]CallRecord, error) {
	inputs, err := j.redis.LRange(ctx, j.key(operation, "inputs"), 0, -1).Result()
	if err != nil {
		return nil, CommandError{Command: "LRANGE", Key: j.key(operation, "inputs"), Err: err}
	}
	outputs, err := j.redis.LRange(ctx, j.key(operation, "outputs"), 0, -1).Result()
	if err != nil {
		return nil, CommandError{Command: "LRANGE", Key: j.key(operation, "outputs"), Err: err}
	}

	// The two lists are pushed in lockstep but an in-flight Record could make
	// one momentarily longer, so zip to the shorter of the two.
	n := len(inputs)
	if len(outputs) < n {
		n = len(outputs)
	}
	records := make([]CallRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, CallRecord{
			Operation: operation,
			Input:     inputs[i],
			Output:    outputs[i],
		})
	}
	return records, nil
}

var _ Journal = (*memoryJournal)(nil)
var _ Journal = (*redisJournal)(nil)
