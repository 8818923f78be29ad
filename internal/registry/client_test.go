package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveFixture(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("..", "..", "testdata", "trials.xml"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != queryPath {
			http.NotFound(w, r)
			return
		}
		switch r.URL.Query().Get("q") {
		case "ISRCTN:ISRCTN00000000":
			w.Write([]byte(`<allTrials totalCount="0"></allTrials>`))
		case "ISRCTN:ISRCTN99999999":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.Header().Set("Content-Type", "application/xml")
			w.Write(body)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Query(t *testing.T) {
	var hits atomic.Int32
	srv := serveFixture(t, &hits)
	c := NewClient(srv.URL, srv.Client(), 0, 100)

	from := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	res, err := c.Query(context.Background(), from, from.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, 2, res.TotalCount)
	require.Len(t, res.FullTrials, 2)
	tr := res.FullTrials[0].Trial
	assert.Equal(t, "ISRCTN12345678", tr.ISRCTN.Value)
	assert.Equal(t, "EXAKT", tr.Description.Acronym)
	assert.Equal(t, "123456", tr.ExternalRefs.IRASNumber)
	assert.Contains(t, tr.Participants.Inclusion, "2. Undergoing total knee replacement")
	require.Len(t, tr.SecondaryNumbers, 1)
	assert.Equal(t, "IRAS", tr.SecondaryNumbers[0].Type)
}

func TestClient_Fetch(t *testing.T) {
	var hits atomic.Int32
	srv := serveFixture(t, &hits)
	c := NewClient(srv.URL, srv.Client(), 50, 0)

	ft, err := c.Fetch(context.Background(), "ISRCTN12345678")
	require.NoError(t, err)
	assert.Equal(t, "ISRCTN12345678", ft.Trial.ISRCTN.Value)

	_, err = c.Fetch(context.Background(), "ISRCTN00000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Fetch(context.Background(), "ISRCTN99999999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestCachingClient_ServesSecondRequestFromDisk(t *testing.T) {
	var hits atomic.Int32
	srv := serveFixture(t, &hits)
	dir := t.TempDir()
	c := NewClient(srv.URL, NewCachingClient(dir, srv.Client()), 0, 0)

	for range 2 {
		ft, err := c.Fetch(context.Background(), "ISRCTN12345678")
		require.NoError(t, err)
		assert.Equal(t, "ISRCTN12345678", ft.Trial.ISRCTN.Value)
	}
	assert.Equal(t, int32(1), hits.Load())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCachingClient_DoesNotCacheErrors(t *testing.T) {
	var hits atomic.Int32
	srv := serveFixture(t, &hits)
	dir := t.TempDir()
	c := NewClient(srv.URL, NewCachingClient(dir, srv.Client()), 0, 0)

	for range 2 {
		_, err := c.Fetch(context.Background(), "ISRCTN99999999")
		require.Error(t, err)
	}
	assert.Equal(t, int32(2), hits.Load())
}
