package remoteok

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"easyapply-engine/internal/domain"
	"easyapply-engine/internal/scrape/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFeed(t *testing.T) []byte {
	t.Helper()
	b, err := os.ReadFile("testdata/feed.json")
	require.NoError(t, err)
	return b
}

func TestParse(t *testing.T) {
	got, err := Parse(loadFeed(t))
	require.NoError(t, err)
	require.Len(t, got, 3)

	first := got[0]
	assert.Equal(t, "RemoteOK", first.Source)
	assert.Equal(t, "1091234", first.NativeID)
	assert.Equal(t, "Senior Python Developer", first.Title)
	assert.Equal(t, "Remote", first.Location)
	assert.Equal(t, "$120,000 - $150,000", first.Salary)
	assert.Len(t, first.Tags, 6)
	assert.Equal(t, []string{"Remote work", "Flexible hours"}, first.Benefits)
	assert.True(t, first.Remote)
	assert.Equal(t, domain.FullTime, first.JobType)

	assert.Equal(t, "1091240", got[1].NativeID)
	assert.Empty(t, got[1].Salary)
	assert.Empty(t, got[1].Tags)

	// missing id falls back to the element position after the notice
	assert.Equal(t, "3", got[2].NativeID)
	assert.Equal(t, "$80,000 - $100,000", got[2].Salary)
}

func TestParseEdgeCases(t *testing.T) {
	got, err := Parse([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Parse([]byte(`[{"legal":"x"}]`))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Parse([]byte(`{"not":"a list"}`))
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	feed := loadFeed(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(feed)
	}))
	defer srv.Close()

	s := New(Config{URL: srv.URL, UserAgent: "test"}, nil)
	assert.Equal(t, "RemoteOK", s.Name())

	got, err := s.Fetch(context.Background(), types.Query{Keywords: "python"}, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(Config{URL: srv.URL}, nil).Fetch(context.Background(), types.Query{}, 0)
	assert.Error(t, err)
}
