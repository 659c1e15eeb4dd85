package statsbomb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/matches/43/3.json", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[{"match_id":1},{"match_id":2}]`))
	})
	mux.HandleFunc("/events/1.json", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(sampleEvents))
	})
	mux.HandleFunc("/competitions.json", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[{"competition_id":43,"season_id":3,"competition_name":"FIFA World Cup","season_name":"2018"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFetchesAndDecodes(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)
	c := NewClient(Options{BaseURL: srv.URL})
	ctx := context.Background()

	comps, err := c.Competitions(ctx)
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Equal(t, "FIFA World Cup", comps[0].CompetitionName)

	ms, err := c.Matches(ctx, 43, 3)
	require.NoError(t, err)
	assert.Len(t, ms, 2)

	events, issues, err := c.Events(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Len(t, events, 4)
}

func TestClientNotFound(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)
	c := NewClient(Options{BaseURL: srv.URL})

	_, _, err := c.Events(context.Background(), 999)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)

	n, err := c.Probe(context.Background(), 1, 1)
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestClientServesFromCache(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)
	cache := NewCache(t.TempDir())
	ctx := context.Background()

	c := NewClient(Options{BaseURL: srv.URL, Cache: cache})
	_, _, err := c.Events(ctx, 1)
	require.NoError(t, err)
	_, _, err = c.Events(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "second read should come from the cache")

	refresh := NewClient(Options{BaseURL: srv.URL, Cache: cache, Refresh: true})
	_, _, err = refresh.Events(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClientCachesOnlyDecodableDocuments(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/events/2.json", func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.Write([]byte(`[{"id":"a","index":1,"type":`))
			return
		}
		w.Write([]byte(sampleEvents))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cache := NewCache(t.TempDir())
	c := NewClient(Options{BaseURL: srv.URL, Cache: cache})
	ctx := context.Background()

	_, _, err := c.Events(ctx, 2)
	require.Error(t, err)
	_, ok, err := cache.Get("events/2.json")
	require.NoError(t, err)
	assert.False(t, ok, "a truncated document must not be cached")

	events, _, err := c.Events(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, events, 4)
	_, ok, err = cache.Get("events/2.json")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClientEvictsUnreadableCacheEntry(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)
	cache := NewCache(t.TempDir())
	require.NoError(t, cache.Put("events/1.json", []byte(`garbage`)))

	c := NewClient(Options{BaseURL: srv.URL, Cache: cache})
	events, _, err := c.Events(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, events, 4)
	assert.Equal(t, int32(1), hits.Load())

	data, ok, err := cache.Get("events/1.json")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleEvents, string(data))
}

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCache(t.TempDir())

	_, ok, err := cache.Get("events/5.json")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Put("events/5.json", []byte(`[1,2,3]`)))
	data, ok, err := cache.Get("events/5.json")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1,2,3]`, string(data))

	require.NoError(t, cache.Delete("events/5.json"))
	_, ok, err = cache.Get("events/5.json")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, cache.Delete("events/5.json"))
}

type fakeProber map[[2]int]int

func (f fakeProber) Probe(_ context.Context, comp, season int) (int, error) {
	n, ok := f[[2]int{comp, season}]
	if !ok {
		return 0, errors.New("not found")
	}
	return n, nil
}

func TestProbeCatalogKeepsOrder(t *testing.T) {
	entries := []CatalogEntry{
		{"World Cup 2018", 43, 3},
		{"Nowhere", 1, 1},
		{"UEFA Euro 2020", 55, 43},
	}
	p := fakeProber{{43, 3}: 64, {55, 43}: 51}

	results := ProbeCatalog(context.Background(), p, entries, 2)
	require.Len(t, results, 3)
	assert.Equal(t, 64, results[0].Matches)
	assert.Error(t, results[1].Err)
	assert.Equal(t, "UEFA Euro 2020", results[2].Entry.Name)
	assert.Equal(t, 51, results[2].Matches)
}

func TestLookupCatalog(t *testing.T) {
	e, ok := LookupCatalog("world cup 2022")
	require.True(t, ok)
	assert.Equal(t, 43, e.CompetitionID)
	assert.Equal(t, 106, e.SeasonID)

	_, ok = LookupCatalog("Serie Z")
	assert.False(t, ok)
}
