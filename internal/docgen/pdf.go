package docgen

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Compiler turns .tex files into PDFs with an external pdflatex.
type Compiler struct {
	Path    string
	Timeout time.Duration
}

// Available reports whether the pdflatex binary can be found.
func (c Compiler) Available() bool {
	if c.Path == "" {
		return false
	}
	_, err := exec.LookPath(c.Path)
	return err == nil
}

// Compile builds texPath into a PDF next to it and returns the PDF path.
// It runs two passes so references settle.
func (c Compiler) Compile(ctx context.Context, texPath string) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	dir := filepath.Dir(texPath)
	name := filepath.Base(texPath)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	for pass := 0; pass < 2; pass++ {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		cmd := exec.CommandContext(cctx, c.Path, "-interaction=nonstopmode", "-halt-on-error", "-output-directory=.", name)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		cancel()
		if err != nil {
			return "", fmt.Errorf("pdflatex pass %d: %w: %s", pass+1, err, tail(out, 400))
		}
	}

	pdf := filepath.Join(dir, stem+".pdf")
	if _, err := os.Stat(pdf); err != nil {
		return "", fmt.Errorf("pdflatex produced no pdf: %w", err)
	}
	for _, ext := range []string{".aux", ".log", ".out", ".fls", ".fdb_latexmk", ".synctex.gz"} {
		_ = os.Remove(filepath.Join(dir, stem+ext))
	}
	return pdf, nil
}

func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return strings.TrimSpace(string(b))
}
