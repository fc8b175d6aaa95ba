package email

import (
	"net/url"
	"regexp"
	"strings"

	"easyapply-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

// AlertJob is one posting found in a LinkedIn job-alert e-mail.
type AlertJob struct {
	Title    string
	Company  string
	Location string
	Salary   string
	URL      string
	JobID    string // from /jobs/view/<id>, when present
}

var (
	reAlertSalary = regexp.MustCompile(`\$\s?\d[\d,]*(?:K|M)?\s*(?:-\s*\$\s?\d[\d,]*(?:K|M)?)?\s*/\s*(?:year|yr|hour|hr)`)
	reJobID       = regexp.MustCompile(`/jobs/view/(?:[^/?#]*-)?(\d+)`)
)

// IsJobAlert reports whether a message looks like a LinkedIn job alert.
func IsJobAlert(from, subject, body string) bool {
	if strings.Contains(strings.ToLower(from), "jobalerts-noreply") {
		return true
	}
	s := strings.ToLower(subject)
	if strings.Contains(s, "job alert") || strings.Contains(s, "linkedin") || strings.Contains(s, "jobs for you") {
		b := strings.ToLower(body)
		return strings.Contains(b, "linkedin.com/comm/jobs/view") ||
			strings.Contains(b, "linkedin.com/jobs/view")
	}
	return false
}

// ParseAlertHTML collects job links from an alert body. A job usually has
// several anchors (logo, title, "view job"); they are merged by job id so
// the best title found among them wins. Order follows first appearance.
func ParseAlertHTML(htmlBody string) ([]AlertJob, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil, err
	}

	byKey := map[string]*AlertJob{}
	var order []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		jobURL := unwrapRedirect(strings.TrimSpace(href))
		lu := strings.ToLower(jobURL)
		if !strings.Contains(lu, "linkedin.com") || !strings.Contains(lu, "/jobs/view/") {
			return
		}

		id := jobIDFrom(jobURL)
		key := id
		if key == "" {
			key = util.CanonicalizeURL(jobURL)
		}
		j, ok := byKey[key]
		if !ok {
			j = &AlertJob{URL: canonicalJobURL(jobURL, id), JobID: id}
			byKey[key] = j
			order = append(order, key)
		}

		if cand := stripTitleNoise(util.CleanText(a.Text())); betterTitle(cand, j.Title) {
			j.Title = cand
		}

		card := a.Closest("table")
		if card.Length() == 0 {
			card = a.Closest("tr")
		}
		if card.Length() == 0 {
			card = a.Parent()
		}

		card.Find("p").Each(func(_ int, p *goquery.Selection) {
			t := util.CleanText(p.Text())
			if t == "" {
				return
			}
			// "Company · Location"
			if j.Company == "" && strings.Contains(t, " · ") {
				parts := strings.SplitN(t, " · ", 2)
				j.Company = strings.TrimSpace(parts[0])
				j.Location = strings.TrimSpace(parts[1])
				return
			}
			if t2 := stripTitleNoise(t); betterTitle(t2, j.Title) {
				j.Title = t2
			}
		})

		if j.Salary == "" {
			if m := reAlertSalary.FindString(util.CleanText(card.Text())); m != "" {
				j.Salary = strings.TrimSpace(m)
			}
		}
	})

	out := make([]AlertJob, 0, len(order))
	for _, k := range order {
		j := byKey[k]
		if j.Title == "" || j.URL == "" {
			continue
		}
		out = append(out, *j)
	}
	return out, nil
}

func jobIDFrom(u string) string {
	if m := reJobID.FindStringSubmatch(u); len(m) == 2 {
		return m[1]
	}
	return ""
}

// canonicalJobURL drops the alert's tracking path (/comm/) and params.
func canonicalJobURL(u, id string) string {
	if id != "" {
		return "https://www.linkedin.com/jobs/view/" + id + "/"
	}
	return util.CanonicalizeURL(u)
}

// unwrapRedirect follows ?url= wrappers and Google /url?q= redirects.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if raw := u.Query().Get("url"); raw != "" {
		if uu, err := url.Parse(raw); err == nil && uu.Host != "" {
			return uu.String()
		}
	}
	if strings.Contains(strings.ToLower(u.Host), "google.") && strings.HasPrefix(u.Path, "/url") {
		if q := u.Query().Get("q"); q != "" {
			if uu, err := url.Parse(q); err == nil && uu.Host != "" {
				return uu.String()
			}
		}
	}
	return href
}

func stripTitleNoise(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, b := range []string{"Actively recruiting", "Easy Apply", "Promoted"} {
		s = strings.ReplaceAll(s, b, "")
	}
	low := strings.ToLower(s)
	for _, bad := range []string{"alumni", "connections", "applicants", "school"} {
		if strings.Contains(low, bad) {
			return ""
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

// betterTitle only replaces when the candidate is clearly better, so
// anchors seen later do not flip-flop a good title.
func betterTitle(candidate, current string) bool {
	c := strings.TrimSpace(candidate)
	if c == "" {
		return false
	}
	cur := strings.TrimSpace(current)
	if cur == "" {
		return titleScore(c) >= 5
	}
	cs, ks := titleScore(c), titleScore(cur)
	if ks >= 8 && cs < ks {
		return false
	}
	return cs >= ks+3
}

var titleWords = []string{
	"engineer", "developer", "software", "backend", "frontend", "full stack", "full-stack",
	"platform", "cloud", "devops", "sre", "security", "embedded", "firmware",
	"data", "ml", "ai", "scientist", "analyst", "architect",
	"manager", "director", "lead", "principal", "staff", "intern", "technician",
}

// titleScore is a heuristic for "does this string read like a job title".
func titleScore(s string) int {
	orig := strings.TrimSpace(s)
	if orig == "" {
		return -100
	}
	l := strings.ToLower(orig)

	if strings.Contains(l, "unsubscribe") || (strings.Contains(l, "manage") && strings.Contains(l, "alert")) {
		return -50
	}
	if strings.Contains(l, "http://") || strings.Contains(l, "https://") || strings.Contains(l, "www.") {
		return -30
	}

	score := 0
	if strings.ContainsAny(orig, "$€£") {
		score -= 8
	}
	for _, per := range []string{"per hour", "/hour", "/hr", "per year", "/year", "/yr"} {
		if strings.Contains(l, per) {
			score -= 6
			break
		}
	}
	for _, cta := range []string{"apply", "view job", "see job", "see details", "learn more", "sign in"} {
		if strings.Contains(l, cta) {
			score -= 6
		}
	}
	for _, loc := range []string{"remote", "hybrid", "on-site", "onsite", "united states", "usa"} {
		if strings.Contains(l, loc) {
			score -= 3
		}
	}
	if strings.Contains(orig, "|") || strings.Contains(orig, "•") {
		score -= 2
	}

	for _, w := range titleWords {
		if strings.Contains(l, w) {
			score += 4
			break
		}
	}
	for _, w := range []string{"sr", "senior", "jr", "junior", "ii", "iii", "principal", "staff", "lead"} {
		if containsWord(l, w) {
			score += 2
		}
	}

	switch n := len([]rune(orig)); {
	case n >= 6 && n <= 80:
		score += 2
	case n < 4 || n > 140:
		score -= 6
	}
	if strings.HasSuffix(orig, ".") || strings.Contains(l, "you will") || strings.Contains(l, "we are") {
		score -= 4
	}

	digits := 0
	for _, r := range orig {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits >= 6 {
		score -= 4
	}
	return score
}

// containsWord matches needle only at word boundaries so "sr" does not
// hit "sre".
func containsWord(haystack, needle string) bool {
	isBound := func(b byte) bool {
		return strings.IndexByte(" \t\n\r-/\\()[]{},.:;|", b) >= 0
	}
	from := 0
	for {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			return false
		}
		i += from
		end := i + len(needle)
		if (i == 0 || isBound(haystack[i-1])) && (end == len(haystack) || isBound(haystack[end])) {
			return true
		}
		from = i + 1
	}
}
