// Package render draws reconciliation results on a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"covlens/internal/session"
	"covlens/internal/store"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// Box drawing characters
const (
	boxTopLeft     = "╔"
	boxTopRight    = "╗"
	boxBottomLeft  = "╚"
	boxBottomRight = "╝"
	boxHorizontal  = "═"
	boxVertical    = "║"
	boxTeeRight    = "╠"
	boxTeeLeft     = "╣"
)

const boxWidth = 72

// Renderer writes ANSI summary boxes and annotated sources.
type Renderer struct {
	w     io.Writer
	color bool
}

// New creates a Renderer. Pass color=false for plain output (pipes, tests).
func New(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, color: color}
}

// Summary draws the aggregate box: overall bar, then one row per file.
func (r *Renderer) Summary(res *session.Result) {
	var sb strings.Builder

	r.separator(&sb, boxTopLeft, boxTopRight)

	title := " covlens coverage summary "
	pad := (boxWidth - 2 - len(title)) / 2
	sb.WriteString(r.colorize(boxVertical, colorCyan))
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(r.colorize(title, colorBold+colorYellow))
	sb.WriteString(strings.Repeat(" ", boxWidth-2-pad-len(title)))
	sb.WriteString(r.colorize(boxVertical, colorCyan))
	sb.WriteString("\n")

	r.separator(&sb, boxTeeRight, boxTeeLeft)
	r.coverageBar(&sb, res)
	r.separator(&sb, boxTeeRight, boxTeeLeft)

	for _, sum := range res.Summaries {
		r.fileRow(&sb, sum)
	}
	if res.Dropped > 0 {
		r.row(&sb, "dropped records", fmt.Sprintf("%d", res.Dropped), colorYellow)
	}

	r.separator(&sb, boxBottomLeft, boxBottomRight)
	fmt.Fprint(r.w, sb.String())
}

func (r *Renderer) separator(sb *strings.Builder, left, right string) {
	sb.WriteString(r.colorize(left, colorCyan))
	sb.WriteString(r.colorize(strings.Repeat(boxHorizontal, boxWidth-2), colorCyan))
	sb.WriteString(r.colorize(right, colorCyan))
	sb.WriteString("\n")
}

func (r *Renderer) coverageBar(sb *strings.Builder, res *session.Result) {
	label := fmt.Sprintf("Overall: %.2f%% (%d/%d lines, %d files)",
		res.Totals.Percentage, res.Totals.CoveredLines, res.Totals.TotalLines, len(res.Summaries))
	r.row(sb, "", label, colorBold)

	barWidth := boxWidth - 6
	filled := 0
	if res.Totals.TotalLines > 0 {
		filled = barWidth * res.Totals.CoveredLines / res.Totals.TotalLines
	}
	if filled > barWidth {
		filled = barWidth
	}

	sb.WriteString(r.colorize(boxVertical, colorCyan))
	sb.WriteString(" [")
	sb.WriteString(r.colorize(strings.Repeat("█", filled), colorGreen))
	sb.WriteString(r.colorize(strings.Repeat("░", barWidth-filled), colorDim))
	sb.WriteString("] ")
	sb.WriteString(r.colorize(boxVertical, colorCyan))
	sb.WriteString("\n")
}

func (r *Renderer) fileRow(sb *strings.Builder, sum *store.Summary) {
	pct := sum.Lines.Percent()
	color := colorGreen
	switch {
	case pct < 50:
		color = colorRed
	case pct < 80:
		color = colorYellow
	}
	value := fmt.Sprintf("%6.1f%% (%d/%d)", pct, sum.Lines.Covered, sum.Lines.Total)
	r.row(sb, trimPath(sum.Path, boxWidth-len(value)-6), value, color)
}

func (r *Renderer) row(sb *strings.Builder, label, value, valueColor string) {
	sb.WriteString(r.colorize(boxVertical, colorCyan))
	sb.WriteString(" ")
	sb.WriteString(r.colorize(label, colorDim))

	padding := boxWidth - 4 - len(label) - len(value)
	if padding > 0 {
		sb.WriteString(strings.Repeat(" ", padding))
	}
	sb.WriteString(r.colorize(value, valueColor))
	sb.WriteString(" ")
	sb.WriteString(r.colorize(boxVertical, colorCyan))
	sb.WriteString("\n")
}

// trimPath keeps the tail of long paths so the filename stays visible.
func trimPath(path string, max int) string {
	if max < 4 || len(path) <= max {
		return path
	}
	return "…" + path[len(path)-max+1:]
}

func (r *Renderer) colorize(text, color string) string {
	if !r.color {
		return text
	}
	return color + text + colorReset
}
