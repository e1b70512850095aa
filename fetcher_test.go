package recorder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPageFetcher_GetPage(t *testing.T) {
	setup()
	defer tearDown()

	var originHits atomic.Int64
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		originHits.Add(1)
		w.Write([]byte("<html>hello</html>"))
	}))
	defer origin.Close()

	fetcher := NewPageFetcher(client)

	page, err := fetcher.GetPage(context.Background(), origin.URL)
	assert.NoError(t, err)
	assert.Equal(t, "<html>hello</html>", page)

	// Second request is served from the cache, the origin sees one hit but
	// the access counter sees two.
	page, err = fetcher.GetPage(context.Background(), origin.URL)
	assert.NoError(t, err)
	assert.Equal(t, "<html>hello</html>", page)
	assert.Equal(t, int64(1), originHits.Load())

	count, err := fetcher.AccessCount(context.Background(), origin.URL)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestPageFetcher_Expiration(t *testing.T) {
	setup()
	defer tearDown()

	var originHits atomic.Int64
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		originHits.Add(1)
		w.Write([]byte("fresh"))
	}))
	defer origin.Close()

	fetcher := NewPageFetcher(client, WithExpiration(time.Second*10))

	_, err := fetcher.GetPage(context.Background(), origin.URL)
	assert.NoError(t, err)

	server.FastForward(time.Second * 11)

	_, err = fetcher.GetPage(context.Background(), origin.URL)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), originHits.Load())
}

func TestPageFetcher_AccessCountNeverFetched(t *testing.T) {
	setup()
	defer tearDown()

	fetcher := NewPageFetcher(client)

	count, err := fetcher.AccessCount(context.Background(), "http://never.example.com")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
