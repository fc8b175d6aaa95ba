package linkedin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"easyapply-engine/internal/scrape/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	f, err := os.Open("testdata/search.html")
	require.NoError(t, err)
	defer f.Close()

	got, err := Parse(f, "United States", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "LinkedIn", first.Source)
	assert.Equal(t, "Python Developer", first.Title)
	assert.Equal(t, "Acme Corp", first.Company)
	assert.Equal(t, "Austin, TX", first.Location)
	assert.Equal(t, "2024-03-14", first.Posted)
	assert.True(t, strings.HasPrefix(first.Description, "Python Developer position at Acme Corp in Austin, TX. "))
	assert.Contains(t, first.Description, "$110,000 - $140,000")
	assert.Contains(t, first.URL, "/jobs/view/python-developer-at-acme-3812345678")
	assert.Empty(t, first.NativeID)

	second := got[1]
	assert.Equal(t, "United States", second.Location)
	assert.Equal(t, "Senior Backend Engineer (Remote) position at Beta Systems in United States. ", second.Description)
	assert.Empty(t, second.Posted)
}

func TestParseLimit(t *testing.T) {
	f, err := os.Open("testdata/search.html")
	require.NoError(t, err)
	defer f.Close()

	// the limit counts cards, including ones that are skipped
	got, err := Parse(f, "", 2)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSearchURL(t *testing.T) {
	s := New(Config{}, nil)
	u, err := url.Parse(s.SearchURL(types.Query{Keywords: "go developer"}))
	require.NoError(t, err)

	assert.Equal(t, "www.linkedin.com", u.Host)
	assert.Equal(t, "/jobs/search", u.Path)
	q := u.Query()
	assert.Equal(t, "go developer", q.Get("keywords"))
	assert.Equal(t, "United States", q.Get("location"))
	assert.Equal(t, "r86400", q.Get("f_TPR"))
	assert.Equal(t, "1", q.Get("position"))
	assert.Equal(t, "0", q.Get("pageNum"))
}

func TestFetch(t *testing.T) {
	page, err := os.ReadFile("testdata/search.html")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "python", r.URL.Query().Get("keywords"))
		assert.Equal(t, "Remote", r.URL.Query().Get("location"))
		_, _ = w.Write(page)
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL}, nil)
	got, err := s.Fetch(context.Background(), types.Query{Keywords: "python", Location: "Remote"}, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Remote", got[1].Location)
}
