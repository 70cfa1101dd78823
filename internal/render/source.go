package render

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"covlens/internal/detail"
)

// gutter marks
const (
	markCovered     = "✓"
	markUncovered   = "✗"
	markDeclaration = "ƒ"
	markNone        = " "
)

// Source prints the file at path with a coverage gutter built from the
// synthesized detail items. Lines without an item render with an empty
// gutter; branch marks are appended after the source text.
func (r *Renderer) Source(path string, items []detail.Item) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer f.Close()

	byLine := make(map[int]detail.Item, len(items))
	for _, it := range items {
		byLine[it.Range.Start.Line] = it
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()

		it, tracked := byLine[lineNo]
		mark, color := markNone, ""
		var suffix string
		if tracked {
			switch {
			case it.Kind == detail.KindDeclaration:
				mark = markDeclaration
				if it.Executed {
					color = colorGreen
				} else {
					color = colorRed
				}
				suffix = r.colorize("  // "+it.Name, colorDim)
			case it.Executed:
				mark, color = markCovered, colorGreen
			default:
				mark, color = markUncovered, colorRed
			}
			if len(it.Branches) > 0 {
				suffix += r.colorize("  // "+branchNote(it.Branches), colorDim)
			}
		}

		fmt.Fprintf(r.w, "%s %s %s%s\n",
			r.colorize(fmt.Sprintf("%5d", lineNo), colorDim),
			r.colorize(mark, color),
			text,
			suffix)
	}
	return scanner.Err()
}

func branchNote(marks []detail.BranchMark) string {
	taken := 0
	for _, m := range marks {
		if m.Executed {
			taken++
		}
	}
	labels := make([]string, 0, len(marks))
	for _, m := range marks {
		labels = append(labels, m.Label)
	}
	return fmt.Sprintf("%d/%d branches: %s", taken, len(marks), strings.Join(labels, "; "))
}
