// Package detail synthesizes per-line coverage markers from a record.
package detail

import (
	"fmt"

	"covlens/internal/lcov"
)

// Kind discriminates detail items.
type Kind int

const (
	// KindDeclaration marks a function declaration line.
	KindDeclaration Kind = iota
	// KindStatement marks a plain tracked line.
	KindStatement
)

// EndOfLine is the sentinel column for a range spanning a whole line; LCOV
// carries no column information, so every range runs from column 0 to here.
const EndOfLine = 1<<31 - 1

// Position is a 1-based line with a 0-based column.
type Position struct {
	Line   int
	Column int
}

// Range spans from Start to End, inclusive of the start column.
type Range struct {
	Start Position
	End   Position
}

// BranchMark is one branch outcome attached to a statement line. Position
// defaults to the start of the line since the source format has no column
// granularity for branches.
type BranchMark struct {
	Executed bool
	Position Position
	Label    string
}

// Item is one synthesized coverage marker. Declaration items carry Name and
// Executed; statement items carry Hits and any attached branch marks. Items
// are built fresh on every request and never cached.
type Item struct {
	Kind     Kind
	Name     string
	Range    Range
	Executed bool
	Hits     int
	Branches []BranchMark
}

// Synthesize produces the ordered detail items for one record: declarations
// first, then statements, so a renderer that layers by draw order paints
// function markers above plain line coverage.
//
// A record without line detail produces nothing; summary-only records have
// no inline story to tell.
func Synthesize(rec *lcov.Record) []Item {
	if rec == nil || len(rec.Lines.Details) == 0 {
		return nil
	}

	branchesByLine := groupBranches(rec.Branches.Details)

	items := make([]Item, 0, len(rec.Functions.Details)+len(rec.Lines.Details))

	// A declaration claims its line: the same line must not also surface
	// as a plain statement below.
	claimed := make(map[int]struct{}, len(rec.Functions.Details))
	for _, fn := range rec.Functions.Details {
		if fn.Line <= 0 {
			continue
		}
		items = append(items, Item{
			Kind:     KindDeclaration,
			Name:     fn.Name,
			Range:    wholeLine(fn.Line),
			Executed: fn.Hits > 0,
			Hits:     fn.Hits,
		})
		claimed[fn.Line] = struct{}{}
	}

	for _, ld := range rec.Lines.Details {
		if _, taken := claimed[ld.Line]; taken {
			continue
		}
		items = append(items, Item{
			Kind:     KindStatement,
			Range:    wholeLine(ld.Line),
			Executed: ld.Hits > 0,
			Hits:     ld.Hits,
			Branches: branchesByLine[ld.Line],
		})
	}

	return items
}

func groupBranches(details []lcov.BranchDetail) map[int][]BranchMark {
	if len(details) == 0 {
		return nil
	}
	marks := make(map[int][]BranchMark)
	for _, b := range details {
		executed := b.Taken > 0
		verdict := "not taken"
		if executed {
			verdict = "taken"
		}
		marks[b.Line] = append(marks[b.Line], BranchMark{
			Executed: executed,
			Position: Position{Line: b.Line},
			Label:    fmt.Sprintf("Branch %d:%d %s", b.Block, b.Branch, verdict),
		})
	}
	return marks
}

func wholeLine(line int) Range {
	return Range{
		Start: Position{Line: line},
		End:   Position{Line: line, Column: EndOfLine},
	}
}
