package docgen

import (
	"fmt"
	"strings"

	"easyapply-engine/internal/domain"
)

const maxPrioritizedSkills = 8

// PrioritizeSkills moves skills mentioned by the posting to the front and
// keeps at most eight.
func PrioritizeSkills(skills []string, p domain.JobPosting) []string {
	if len(skills) == 0 {
		return nil
	}
	text := strings.ToLower(p.Title + " " + p.Description + " " + strings.Join(p.Requirements, " ") + " " + strings.Join(p.Technologies, " "))

	var hit, rest []string
	for _, s := range skills {
		if strings.Contains(text, strings.ToLower(s)) {
			hit = append(hit, s)
		} else {
			rest = append(rest, s)
		}
	}
	out := append(hit, rest...)
	if len(out) > maxPrioritizedSkills {
		out = out[:maxPrioritizedSkills]
	}
	return out
}

var (
	frontendHints = []string{"react", "angular", "vue", "html", "css", "svelte"}
	backendHints  = []string{"django", "flask", "node", "express", "spring", "fastapi", "rails", "gin"}
)

func filterByHint(items []string, hints []string) []string {
	var out []string
	for _, it := range items {
		l := strings.ToLower(it)
		for _, h := range hints {
			if strings.Contains(l, h) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

func period(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start + " -- Present"
	default:
		return start + " -- " + end
	}
}

func educationTeX(eds []domain.Education) string {
	var lines []string
	for _, e := range eds {
		line := fmt.Sprintf(`\textbf{%s}`, EscapeLaTeX(strings.TrimSpace(e.Degree+" "+e.Field)))
		if e.Institution != "" {
			line += ", " + EscapeLaTeX(e.Institution)
		}
		if p := period(e.Start, e.End); p != "" {
			line += ` \hfill ` + EscapeLaTeX(p)
		}
		lines = append(lines, line+`\\`)
	}
	return strings.Join(lines, "[2mm]\n")
}

func itemizeTeX(b *strings.Builder, items []string) {
	var kept []string
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			kept = append(kept, it)
		}
	}
	if len(kept) == 0 {
		return
	}
	b.WriteString("\\begin{itemize}[noitemsep,topsep=0pt]\n")
	for _, it := range kept {
		b.WriteString("    \\item " + EscapeLaTeX(it) + "\n")
	}
	b.WriteString("\\end{itemize}\n")
}

func experienceTeX(exps []domain.Experience) string {
	var b strings.Builder
	for _, e := range exps {
		fmt.Fprintf(&b, "\\textbf{%s}, %s", EscapeLaTeX(e.Title), EscapeLaTeX(e.Company))
		if p := period(e.Start, e.End); p != "" {
			b.WriteString(` \hfill ` + EscapeLaTeX(p))
		}
		b.WriteString("\\\\\n")
		itemizeTeX(&b, e.Bullets)
		b.WriteString("\n")
	}
	return b.String()
}

func projectsTeX(projects []domain.Project) string {
	var b strings.Builder
	for _, p := range projects {
		fmt.Fprintf(&b, "\\textbf{%s}\\\\\n", EscapeLaTeX(p.Name))
		if len(p.Technologies) > 0 {
			fmt.Fprintf(&b, "\\textbf{Technologies}: %s\\\\\n", EscapeLaTeX(strings.Join(p.Technologies, ", ")))
		}
		itemizeTeX(&b, []string{p.Description})
		b.WriteString("\\vspace{2mm}\n")
	}
	return b.String()
}

func certificationsTeX(certs []string) string {
	var lines []string
	for _, c := range certs {
		if c = strings.TrimSpace(c); c != "" {
			lines = append(lines, EscapeLaTeX(c)+`\\`)
		}
	}
	return strings.Join(lines, "\n")
}

func orDefault(v []string, def string) string {
	if len(v) == 0 {
		return def
	}
	return strings.Join(v, ", ")
}

func withScheme(u string) string {
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}

func handle(u, prefix string) string {
	u = strings.TrimPrefix(strings.TrimPrefix(u, "https://"), "http://")
	u = strings.TrimPrefix(u, "www.")
	return strings.TrimSuffix(strings.TrimPrefix(u, prefix), "/")
}

// resumeValues builds the placeholder table for the LaTeX résumé.
func resumeValues(prof *domain.UserProfile, p domain.JobPosting) map[string]string {
	s := prof.Skills
	langs := PrioritizeSkills(s.Languages, p)
	frameworks := PrioritizeSkills(s.Frameworks, p)

	frontend := filterByHint(frameworks, frontendHints)
	if len(frontend) == 0 {
		frontend = frameworks
	}
	backend := filterByHint(append(append([]string{}, s.Frameworks...), s.Tools...), backendHints)

	esc := func(v string) string { return EscapeLaTeX(v) }
	return map[string]string{
		"FULL_NAME":              esc(prof.FullName),
		"EMAIL":                  esc(prof.Email),
		"PHONE":                  esc(prof.Phone),
		"ADDRESS":                esc(prof.Address),
		"LINKEDIN_URL":           esc(withScheme(prof.LinkedIn)),
		"LINKEDIN_TEXT":          esc(handle(prof.LinkedIn, "linkedin.com/in/")),
		"GITHUB_URL":             esc(withScheme(prof.GitHub)),
		"GITHUB_TEXT":            esc(handle(prof.GitHub, "github.com/")),
		"PROFESSIONAL_SUMMARY":   esc(prof.Summary),
		"EDUCATION_SECTION":      educationTeX(prof.Education),
		"EXPERIENCE_SECTION":     experienceTeX(prof.Experience),
		"PROJECTS_SECTION":       projectsTeX(prof.Projects),
		"CERTIFICATIONS_SECTION": certificationsTeX(prof.Certifications),
		"LANGUAGES":              esc(orDefault(langs, "Various programming languages")),
		"FRONTEND":               esc(orDefault(frontend, "Various frontend technologies")),
		"BACKEND":                esc(orDefault(backend, "Various backend technologies")),
		"DATABASES":              esc(orDefault(s.Databases, "Various databases")),
		"TOOLS":                  esc(orDefault(s.Tools, "Various development tools")),
		"TARGET_COMPANY":         esc(p.Company),
		"TARGET_POSITION":        esc(p.Title),
	}
}

func coverLetterValues(prof *domain.UserProfile, p domain.JobPosting, date string) map[string]string {
	esc := func(v string) string { return EscapeLaTeX(v) }
	return map[string]string{
		"FULL_NAME":       esc(prof.FullName),
		"EMAIL":           esc(prof.Email),
		"PHONE":           esc(prof.Phone),
		"ADDRESS":         esc(prof.Address),
		"TARGET_COMPANY":  esc(p.Company),
		"TARGET_POSITION": esc(p.Title),
		"KEY_SKILLS":      esc(orDefault(PrioritizeSkills(prof.Skills.Languages, p), "software development")),
		"DATE":            esc(date),
	}
}
