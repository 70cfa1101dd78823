// Package report exports reconciliation results for sharing outside the
// terminal.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"covlens/internal/session"
)

// Saver writes a load result somewhere durable.
type Saver interface {
	Save(res *session.Result) (string, error)
}

// MarkdownReporter implements Saver by writing markdown files.
type MarkdownReporter struct {
	outputDir string
}

// NewMarkdownReporter creates a reporter writing into outputDir.
func NewMarkdownReporter(outputDir string) *MarkdownReporter {
	return &MarkdownReporter{outputDir: outputDir}
}

// Save writes the result as a timestamped markdown file and returns its path.
func (r *MarkdownReporter) Save(res *session.Result) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	name := fmt.Sprintf("coverage_%s.md", time.Now().Format("20060102_150405"))
	path := filepath.Join(r.outputDir, name)

	var content string
	content += "# Coverage Report\n\n"
	content += fmt.Sprintf("**Overall:** %.2f%% (%d/%d lines)\n\n",
		res.Totals.Percentage, res.Totals.CoveredLines, res.Totals.TotalLines)
	content += fmt.Sprintf("**Files resolved:** %d\n\n", len(res.Summaries))
	if res.Dropped > 0 {
		content += fmt.Sprintf("**Records dropped (no matching file):** %d\n\n", res.Dropped)
	}

	content += "| File | Lines | Branches | Functions |\n"
	content += "|---|---|---|---|\n"
	for _, sum := range res.Summaries {
		branches := "—"
		if sum.Branches != nil {
			branches = fmt.Sprintf("%d/%d", sum.Branches.Covered, sum.Branches.Total)
		}
		functions := "—"
		if sum.Functions != nil {
			functions = fmt.Sprintf("%d/%d", sum.Functions.Covered, sum.Functions.Total)
		}
		content += fmt.Sprintf("| %s | %d/%d (%.1f%%) | %s | %s |\n",
			sum.Path, sum.Lines.Covered, sum.Lines.Total, sum.Lines.Percent(), branches, functions)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
