package recorder

import (
	"context"
)

type (
	// StoreFunc is the raw write operation: SET key to value.
	StoreFunc func(ctx context.Context, key string, value any) error

	// RetrieveFunc is the raw read operation: GET key, reporting existence.
	RetrieveFunc func(ctx context.Context, key string) ([]byte, bool, error)

	// CompressionHook wraps a compress or decompress step in the object
	// storage pipeline.
	CompressionHook func(data []byte) ([]byte, error)
)

// Hook allows behavior to be layered around the Store's raw operations and
// the compression pipeline, typically for metrics or tracing. Returning nil
// from any method leaves that stage unwrapped.
type Hook interface {
	StoreHook(next StoreFunc) StoreFunc
	RetrieveHook(next RetrieveFunc) RetrieveFunc
	CompressHook(next CompressionHook) CompressionHook
	DecompressHook(next CompressionHook) CompressionHook
}

type hooksMixin struct {
	hooks   []Hook
	initial hooks
	current hooks
}

// AddHook registers a Hook. Hooks are applied in registration order, the
// first registered being the outermost wrapper.
func (hs *hooksMixin) AddHook(hook Hook) {
	hs.hooks = append(hs.hooks, hook)
	hs.chain()
}

func (hs *hooksMixin) chain() {
	hs.initial.setDefaults()

	hs.current.store = hs.initial.store
	hs.current.retrieve = hs.initial.retrieve
	hs.current.compress = hs.initial.compress
	hs.current.decompress = hs.initial.decompress

	for i := len(hs.hooks) - 1; i >= 0; i-- {
		if wrapped := hs.hooks[i].StoreHook(hs.current.store); wrapped != nil {
			hs.current.store = wrapped
		}
		if wrapped := hs.hooks[i].RetrieveHook(hs.current.retrieve); wrapped != nil {
			hs.current.retrieve = wrapped
		}
		if wrapped := hs.hooks[i].CompressHook(hs.current.compress); wrapped != nil {
			hs.current.compress = wrapped
		}
		if wrapped := hs.hooks[i].DecompressHook(hs.current.decompress); wrapped != nil {
			hs.current.decompress = wrapped
		}
	}
}

type hooks struct {
	store      StoreFunc
	retrieve   RetrieveFunc
	compress   CompressionHook
	decompress CompressionHook
}

func (h *hooks) setDefaults() {
	if h.store == nil {
		h.store = func(ctx context.Context, key string, value any) error {
			return nil
		}
	}
	if h.retrieve == nil {
		h.retrieve = func(ctx context.Context, key string) ([]byte, bool, error) {
			return nil, false, nil
		}
	}
	if h.compress == nil {
		h.compress = func(data []byte) ([]byte, error) {
			return data, nil
		}
	}
	if h.decompress == nil {
		h.decompress = func(data []byte) ([]byte, error) {
			return data, nil
		}
	}
}
