package indeed

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

const searchURL = "https://www.indeed.com/jobs?q=go"

func TestParse(t *testing.T) {
	f, err := os.Open("testdata/search.html")
	require.NoError(t, err)
	defer f.Close()

	got, err := Parse(f, searchURL, "United States", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "Indeed", first.Source)
	assert.Equal(t, "a1b2c3d4e5", first.NativeID)
	assert.Equal(t, "Backend Engineer (Go)", first.Title)
	assert.Equal(t, "Gopher Works", first.Company)
	assert.Equal(t, "Remote in Denver, CO", first.Location)
	assert.Equal(t, "https://www.indeed.com/rc/clk?jk=a1b2c3d4e5&from=serp", first.URL)
	assert.Equal(t, "$130,000 - $160,000 a year", first.Salary)
	assert.Equal(t, "Posted 3 days ago", first.Posted)
	assert.Contains(t, first.Description, "Design APIs in Go and PostgreSQL.")

	second := got[1]
	assert.Equal(t, "Junior Data Analyst", second.Title)
	assert.Equal(t, "Company", second.Company)
	assert.Equal(t, "United States", second.Location)
	assert.Equal(t, "https://partner.example.com/apply/42", second.URL)
	assert.Equal(t, "Junior Data Analyst at Company", second.Description)
	assert.Empty(t, second.NativeID)
}

func TestParseLegacyMarkup(t *testing.T) {
	f, err := os.Open("testdata/legacy.html")
	require.NoError(t, err)
	defer f.Close()

	got, err := Parse(f, searchURL, "United States", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "Site Reliability Engineer", got[0].Title)
	assert.Equal(t, "Legacy Corp", got[0].Company)
	assert.Equal(t, "Seattle, WA", got[0].Location)
	assert.Equal(t, "https://www.indeed.com/viewjob?jk=zz9", got[0].URL)
	assert.Equal(t, "Today", got[0].Posted)
}

const linklessCards = `<html><body>
  <div class="job_seen_beacon">
    <h2 class="jobTitle">Python Developer</h2>
    <span data-testid="company-name">Acme</span>
    <div data-testid="job-location">Austin, TX</div>
  </div>
  <div class="job_seen_beacon">
    <h2 class="jobTitle">Python Developer</h2>
    <span data-testid="company-name">Acme</span>
    <div data-testid="job-location">Denver, CO</div>
  </div>
</body></html>`

func TestParseLinklessCardsGetDistinctIDs(t *testing.T) {
	got, err := Parse(strings.NewReader(linklessCards), searchURL, "", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for _, p := range got {
		assert.Equal(t, searchURL, p.URL)
		assert.Len(t, p.NativeID, 8)
	}
	assert.NotEqual(t, got[0].NativeID, got[1].NativeID)
}

func TestParseNoCards(t *testing.T) {
	got, err := Parse(strings.NewReader("<html><body>captcha</body></html>"), searchURL, "", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchURL(t *testing.T) {
	u, err := url.Parse(New(Config{}, nil).SearchURL(types.Query{Keywords: "sre", Location: "Austin, TX"}))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "sre", q.Get("q"))
	assert.Equal(t, "Austin, TX", q.Get("l"))
	assert.Equal(t, "7", q.Get("fromage"))
	assert.Equal(t, "date", q.Get("sort"))
}

func TestFetchLimit(t *testing.T) {
	page, err := os.ReadFile("testdata/search.html")
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(page)
	}))
	defer srv.Close()

	got, err := New(Config{BaseURL: srv.URL}, nil).Fetch(context.Background(), types.Query{Keywords: "go"}, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
