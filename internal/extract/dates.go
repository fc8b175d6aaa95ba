package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	DateLayout = "2006-01-02"
	minYear    = 1970
)

var reRelative = regexp.MustCompile(`(\d+)\+?\s*(minute|hour|day|week|month)s?\s*ago`)

// PostedDate resolves a scraped "posted" value to YYYY-MM-DD. Relative
// phrases are taken from now; anything unparseable becomes now.
func PostedDate(raw string, now time.Time) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return now.Format(DateLayout)
	}

	switch {
	case strings.Contains(s, "today"), strings.Contains(s, "just now"), strings.Contains(s, "just posted"):
		return now.Format(DateLayout)
	case strings.Contains(s, "yesterday"):
		return now.AddDate(0, 0, -1).Format(DateLayout)
	}

	if m := reRelative.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			switch m[2] {
			case "minute", "hour":
				return now.Format(DateLayout)
			case "day":
				return now.AddDate(0, 0, -n).Format(DateLayout)
			case "week":
				return now.AddDate(0, 0, -7*n).Format(DateLayout)
			case "month":
				return now.AddDate(0, 0, -30*n).Format(DateLayout)
			}
		}
	}

	// dateparse accepts fragments like "12." and hands back year 0.
	if t, err := dateparse.ParseAny(strings.TrimSpace(raw)); err == nil && t.Year() >= minYear {
		return t.Format(DateLayout)
	}
	return now.Format(DateLayout)
}
