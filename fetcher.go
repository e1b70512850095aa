package recorder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	pageCachePrefix = "cache:"
	pageCountPrefix = "count:"

	defaultPageExpiration = 10 * time.Second
)

// PageFetcher fetches web pages over HTTP and caches the response bodies in
// Redis with an expiration. Every access to a URL is counted, cached or not,
// under a per-URL counter readable through AccessCount.
//
// Concurrent fetches of the same URL are collapsed into a single origin
// request.
//
// The zero-value is not usable. Use NewPageFetcher to create an instance.
type PageFetcher struct {
	redis      RedisClient
	client     *http.Client
	expiration time.Duration
	group      singleflight.Group
}

// FetcherOption allows for the PageFetcher behavior to be customized.
type FetcherOption func(f *PageFetcher)

// WithExpiration overrides how long fetched pages stay cached. The default is
// 10 seconds.
func WithExpiration(d time.Duration) FetcherOption {
	return func(f *PageFetcher) {
		f.expiration = d
	}
}

// WithHTTPClient replaces the http.Client used to fetch pages.
//
// Providing nil will immediately panic.
func WithHTTPClient(client *http.Client) FetcherOption {
	if client == nil {
		panic(fmt.Errorf("nil http.Client not permitted, illegal use of api"))
	}
	return func(f *PageFetcher) {
		f.client = client
	}
}

// NewPageFetcher creates and initializes a new PageFetcher backed by the
// provided Redis client.
func NewPageFetcher(client RedisClient, opts ...FetcherOption) *PageFetcher {
	if client == nil {
		panic(fmt.Errorf("a valid redis client is required, illegal use of api"))
	}
	fetcher := &PageFetcher{
		redis:      client,
		client:     http.DefaultClient,
		expiration: defaultPageExpiration,
	}
	for _, opt := range opts {
		opt(fetcher)
	}
	return fetcher
}

// GetPage returns the body of the page at url, served from the cache when a
// fresh copy exists. On a miss the page is fetched from the origin and cached
// with the configured expiration. The access counter for url is incremented
// on every call regardless of cache state.
func (f *PageFetcher) GetPage(ctx context.Context, url string) (string, error) {
	if err := f.redis.Incr(ctx, pageCountPrefix+url).Err(); err != nil {
		return "", CommandError{Command: "INCR", Key: pageCountPrefix + url, Err: err}
	}

	cached, err := f.redis.Get(ctx, pageCachePrefix+url).Result()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		return "", CommandError{Command: "GET", Key: pageCachePrefix + url, Err: err}
	}

	body, err, _ := f.group.Do(url, func() (any, error) {
		return f.fetch(ctx, url)
	})
	if err != nil {
		return "", err
	}
	return body.(string), nil
}

// AccessCount returns how many times GetPage has been called for url, zero if
// it was never requested.
func (f *PageFetcher) AccessCount(ctx context.Context, url string) (int64, error) {
	n, err := f.redis.Get(ctx, pageCountPrefix+url).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, CommandError{Command: "GET", Key: pageCountPrefix + url, Err: err}
	}
	return n, nil
}

func (f *PageFetcher) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response from %s: %w", url, err)
	}

	if err := f.redis.Set(ctx, pageCachePrefix+url, body, f.expiration).Err(); err != nil {
		return "", CommandError{Command: "SET", Key: pageCachePrefix + url, Err: err}
	}
	return string(body), nil
}
