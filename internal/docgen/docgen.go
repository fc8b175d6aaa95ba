// Package docgen renders a résumé and cover letter tailored to one posting.
package docgen

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"easyapply-engine/internal/apperr"
	"easyapply-engine/internal/domain"

	"go.uber.org/zap"
)

//go:embed templates/*.tex
var builtin embed.FS

type Kind string

const (
	Resume      Kind = "resume"
	CoverLetter Kind = "cover_letter"
)

type Format string

const (
	Text  Format = "txt"
	LaTeX Format = "tex"
	PDF   Format = "pdf"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Resume, CoverLetter:
		return Kind(s), nil
	}
	return "", apperr.InvalidInput("unknown document kind "+s, nil)
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return PDF, nil
	case Text, LaTeX, PDF:
		return f, nil
	}
	return "", apperr.InvalidInput("format must be txt, tex or pdf", nil)
}

// Generator writes documents under OutputDir/<posting id>/.
type Generator struct {
	Profile      *domain.UserProfile // nil produces a placeholder text document
	OutputDir    string
	TemplatesDir string // optional overrides for resume.tex / cover_letter.tex
	Compiler     Compiler
	Log          *zap.Logger
	Now          func() time.Time
}

func (g *Generator) logger() *zap.Logger {
	if g.Log == nil {
		return zap.NewNop()
	}
	return g.Log
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_\-]+`)

// Dir is the folder holding the documents for posting id.
func (g *Generator) Dir(id string) string {
	return filepath.Join(g.OutputDir, unsafeName.ReplaceAllString(id, "_"))
}

// Generate writes the requested document and returns its path, which may be
// a plain-text file when there is no profile or pdflatex cannot build the PDF.
func (g *Generator) Generate(ctx context.Context, p domain.JobPosting, kind Kind, format Format) (string, error) {
	if p.ID == "" {
		return "", apperr.InvalidInput("posting has no id", nil)
	}
	dir := g.Dir(p.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create document dir: %w", err)
	}
	log := g.logger().With(zap.String("job_id", p.ID), zap.String("kind", string(kind)))

	if g.Profile == nil || format == Text {
		return g.writeText(dir, p, kind)
	}

	texPath, err := g.writeTeX(dir, p, kind)
	if err != nil {
		log.Warn("latex render failed, using text", zap.Error(err))
		return g.writeText(dir, p, kind)
	}
	if format == LaTeX {
		return texPath, nil
	}

	if !g.Compiler.Available() {
		log.Info("pdflatex not available, using text")
		return g.writeText(dir, p, kind)
	}
	pdf, err := g.Compiler.Compile(ctx, texPath)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Warn("pdf compile failed, using text", zap.Error(err))
		return g.writeText(dir, p, kind)
	}
	return pdf, nil
}

func (g *Generator) template(kind Kind) (string, error) {
	name := string(kind) + ".tex"
	if g.TemplatesDir != "" {
		b, err := os.ReadFile(filepath.Join(g.TemplatesDir, name))
		switch {
		case err == nil:
			return string(b), nil
		case !errors.Is(err, os.ErrNotExist):
			return "", err
		}
	}
	b, err := builtin.ReadFile("templates/" + name)
	return string(b), err
}

func (g *Generator) writeTeX(dir string, p domain.JobPosting, kind Kind) (string, error) {
	tmpl, err := g.template(kind)
	if err != nil {
		return "", err
	}

	var values map[string]string
	if kind == Resume {
		values = resumeValues(g.Profile, p)
	} else {
		values = coverLetterValues(g.Profile, p, g.now().Format("January 2, 2006"))
	}

	path := filepath.Join(dir, string(kind)+".tex")
	if err := os.WriteFile(path, []byte(fill(tmpl, values)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (g *Generator) writeText(dir string, p domain.JobPosting, kind Kind) (string, error) {
	var body string
	switch {
	case g.Profile == nil:
		body = noProfileText(p, g.now())
	case kind == Resume:
		body = ResumeText(g.Profile, p, g.now())
	default:
		body = CoverLetterText(g.Profile, p, g.now())
	}

	path := filepath.Join(dir, string(kind)+".txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func noProfileText(p domain.JobPosting, now time.Time) string {
	return fmt.Sprintf("No user profile available. Please set up your profile first.\n\nTarget Job: %s at %s\nGenerated: %s\n",
		p.Title, p.Company, now.Format("January 02, 2006"))
}

// ResumeText is the plain-text résumé.
func ResumeText(prof *domain.UserProfile, p domain.JobPosting, now time.Time) string {
	var b strings.Builder
	name := strings.ToUpper(prof.FullName)
	fmt.Fprintf(&b, "%s\n%s\n\n", name, strings.Repeat("=", max(len(name), 24)))
	fmt.Fprintf(&b, "Email: %s\nPhone: %s\nLinkedIn: %s\nGitHub: %s\n\n", prof.Email, prof.Phone, prof.LinkedIn, prof.GitHub)

	if prof.Summary != "" {
		fmt.Fprintf(&b, "PROFESSIONAL SUMMARY:\n%s\n\n", prof.Summary)
	}
	if skills := PrioritizeSkills(append(append([]string{}, prof.Skills.Languages...), prof.Skills.Frameworks...), p); len(skills) > 0 {
		fmt.Fprintf(&b, "KEY SKILLS:\n%s\n\n", strings.Join(skills, ", "))
	}
	if len(prof.Experience) > 0 {
		b.WriteString("EXPERIENCE:\n")
		for _, e := range prof.Experience {
			fmt.Fprintf(&b, "%s, %s", e.Title, e.Company)
			if per := period(e.Start, e.End); per != "" {
				fmt.Fprintf(&b, " (%s)", strings.ReplaceAll(per, "--", "-"))
			}
			b.WriteString("\n")
			for _, bullet := range e.Bullets {
				fmt.Fprintf(&b, "  - %s\n", bullet)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Target Job: %s at %s\nGenerated: %s\n", p.Title, p.Company, now.Format("January 02, 2006"))
	return b.String()
}

// CoverLetterText is the plain-text cover letter.
func CoverLetterText(prof *domain.UserProfile, p domain.JobPosting, now time.Time) string {
	return fmt.Sprintf(`%s
%s | %s
%s

%s

%s
Hiring Department

Subject: Application for %s position

Dear Hiring Manager,

I would like to offer my candidacy for the %s position within your team.

Sincerely,
%s
`,
		prof.FullName, prof.Email, prof.Phone, prof.Address,
		now.Format("January 02, 2006"),
		p.Company, p.Title, p.Title, prof.FullName)
}
