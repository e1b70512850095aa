package recorder

import (
	"context"
	"fmt"
	"io"
)

// WriteReplay renders the journaled history of the named operation to w in a
// human-readable form:
//
//	store was called 2 times:
//	store(foo) -> 9f3a6c1e-...
//	store(42) -> 1d2b7e90-...
//
// Like Replay, this is a pure read of the journal and can be called any number
// of times with identical output.
func (s *Store) WriteReplay(ctx context.Context, w io.Writer, operation string) error {
	records, err := s.Replay(ctx, operation)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s was called %d times:\n", operation, len(records)); err != nil {
		return err
	}
	for _, rec := range records {
		if _, err := fmt.Fprintf(w, "%s(%s) -> %s\n", rec.Operation, rec.Input, rec.Output); err != nil {
			return err
		}
	}
	return nil
}
