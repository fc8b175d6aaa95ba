package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"testing"

	"easyapply-engine/internal/apperr"
	"easyapply-engine/internal/scrape/types"

	"github.com/emersion/go-imap/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alertHTML(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("testdata/alert.html")
	require.NoError(t, err)
	return string(b)
}

func wrap76(s string) string {
	var b strings.Builder
	for len(s) > 76 {
		b.WriteString(s[:76] + "\r\n")
		s = s[76:]
	}
	b.WriteString(s)
	return b.String()
}

func rawAlert(t *testing.T, subject string) []byte {
	t.Helper()
	enc := wrap76(base64.StdEncoding.EncodeToString([]byte(alertHTML(t))))
	msg := fmt.Sprintf("From: LinkedIn Job Alerts <jobalerts-noreply@linkedin.com>\r\n"+
		"To: me@example.com\r\n"+
		"Subject: %s\r\n"+
		"Date: Thu, 14 Mar 2024 09:30:00 +0000\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: multipart/alternative; boundary=\"XYZ\"\r\n"+
		"\r\n"+
		"--XYZ\r\n"+
		"Content-Type: text/plain; charset=utf-8\r\n"+
		"\r\n"+
		"Senior Go Engineer https://www.linkedin.com/comm/jobs/view/3901112223/\r\n"+
		"--XYZ\r\n"+
		"Content-Type: text/html; charset=utf-8\r\n"+
		"Content-Transfer-Encoding: base64\r\n"+
		"\r\n"+
		"%s\r\n"+
		"--XYZ--\r\n", subject, enc)
	return []byte(msg)
}

func TestParseAlertHTML(t *testing.T) {
	jobs, err := ParseAlertHTML(alertHTML(t))
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, AlertJob{
		Title:    "Senior Go Engineer",
		Company:  "Acme Corp",
		Location: "Austin, TX (Hybrid)",
		Salary:   "$150K - $180K / year",
		URL:      "https://www.linkedin.com/jobs/view/3901112223/",
		JobID:    "3901112223",
	}, jobs[0])

	assert.Equal(t, "Data Analyst", jobs[1].Title)
	assert.Equal(t, "Beta LLC", jobs[1].Company)
	assert.Equal(t, "Remote", jobs[1].Location)
	assert.Empty(t, jobs[1].Salary)
}

func TestParseMessage(t *testing.T) {
	p, err := parseMessage(rawAlert(t, "Your job alert for go developer"))
	require.NoError(t, err)

	assert.Equal(t, "Your job alert for go developer", p.Subject)
	assert.Equal(t, 2024, p.Date.Year())
	assert.Contains(t, p.HTML, "Senior Go Engineer")
	assert.Contains(t, p.Plain, "linkedin.com/comm/jobs/view/3901112223")
}

func TestExtract(t *testing.T) {
	s := New(Config{Subjects: []string{"Job Alert"}}, nil, nil)

	msgs := []Message{
		{UID: 1, From: "jobalerts-noreply@linkedin.com", Raw: rawAlert(t, "Your job alert for go developer")},
		{UID: 2, From: "news@example.com", Raw: rawAlert(t, "Weekly newsletter")},
		{UID: 3, From: "jobalerts-noreply@linkedin.com", Raw: rawAlert(t, "Another job alert")},
	}

	out, handled := s.Extract(msgs, 0)
	assert.Equal(t, []imap.UID{1, 3}, handled)
	require.Len(t, out, 2)

	first := out[0]
	assert.Equal(t, "Email", first.Source)
	assert.Equal(t, "3901112223", first.NativeID)
	assert.Equal(t, "2024-03-14", first.Posted)
	assert.Equal(t, "$150K - $180K / year", first.Salary)
	assert.Equal(t, "Senior Go Engineer position at Acme Corp in Austin, TX (Hybrid). $150K - $180K / year", first.Description)

	limited, _ := s.Extract(msgs, 1)
	assert.Len(t, limited, 1)
}

func TestIsJobAlert(t *testing.T) {
	assert.True(t, IsJobAlert("jobalerts-noreply@linkedin.com", "", ""))
	assert.True(t, IsJobAlert("x@y", "New job alert", "see https://www.linkedin.com/jobs/view/1"))
	assert.False(t, IsJobAlert("x@y", "New job alert", "nothing here"))
	assert.False(t, IsJobAlert("x@y", "Hello", "https://www.linkedin.com/jobs/view/1"))
}

func TestTitleHeuristics(t *testing.T) {
	assert.Greater(t, titleScore("Senior Backend Engineer"), titleScore("View job"))
	assert.Less(t, titleScore("Unsubscribe from alerts"), 0)
	assert.True(t, containsWord("sr. engineer", "sr"))
	assert.False(t, containsWord("sre engineer", "sr"))
	assert.Equal(t, "Go Developer", stripTitleNoise("Go Developer Easy Apply"))
	assert.Empty(t, stripTitleNoise("3 connections work here"))
}

func TestUnwrapRedirect(t *testing.T) {
	assert.Equal(t, "https://www.linkedin.com/jobs/view/1",
		unwrapRedirect("https://www.google.com/url?q=https://www.linkedin.com/jobs/view/1&sa=D"))
	assert.Equal(t, "https://www.linkedin.com/jobs/view/2",
		unwrapRedirect("https://click.example.com/t?url=https%3A%2F%2Fwww.linkedin.com%2Fjobs%2Fview%2F2"))
}

func TestFetchWithoutPassword(t *testing.T) {
	s := New(Config{Addr: "imap.example.com:993", Username: "me"}, nil, nil)
	_, err := s.Fetch(context.Background(), types.Query{}, 0)
	assert.True(t, apperr.Is(err, apperr.TypeUnavailable))

	s = New(Config{Addr: "imap.example.com:993", Username: "me"}, func() (string, error) { return "", nil }, nil)
	_, err = s.Fetch(context.Background(), types.Query{}, 0)
	assert.True(t, apperr.Is(err, apperr.TypeUnavailable))
}
