package lcov

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrNotFound indicates the tracefile does not exist.
	ErrNotFound = errors.New("lcov: tracefile not found")

	// ErrParse indicates the file yielded no coverage record at all.
	ErrParse = errors.New("lcov: no records in tracefile")
)

// Parse reads an LCOV tracefile and returns its records in file order.
//
// The parser is deliberately tolerant: unknown directives and malformed
// detail lines are skipped, since LCOV producers disagree on dialect.
// It fails only when the file is missing (ErrNotFound) or contains nothing
// recognizable as a record (ErrParse).
func Parse(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open tracefile: %w", err)
	}
	defer f.Close()

	records, err := parseAll(bufio.NewScanner(f))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrParse, path)
	}
	return records, nil
}

func parseAll(scanner *bufio.Scanner) ([]*Record, error) {
	var records []*Record
	var cur *Record

	// FN gives a function's line, FNDA its hit count; they arrive as
	// separate directives keyed by name and are merged at end_of_record.
	funcOrder := []string{}
	funcLines := map[string]int{}
	funcHits := map[string]int{}

	flush := func() {
		if cur == nil {
			return
		}
		for _, name := range funcOrder {
			cur.Functions.Details = append(cur.Functions.Details, FunctionDetail{
				Name: name,
				Line: funcLines[name],
				Hits: funcHits[name],
			})
		}
		records = append(records, cur)
		cur = nil
		funcOrder = funcOrder[:0]
		funcLines = map[string]int{}
		funcHits = map[string]int{}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "end_of_record" {
			flush()
			continue
		}

		directive, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		if directive == "SF" {
			flush() // producers sometimes omit end_of_record
			cur = &Record{SourceFile: strings.TrimSpace(rest)}
			continue
		}
		if cur == nil {
			continue // TN: and anything else outside a record
		}

		switch directive {
		case "DA":
			// DA:<line>,<hits>[,<checksum>]
			fields := strings.Split(rest, ",")
			if len(fields) < 2 {
				continue
			}
			ln, err1 := strconv.Atoi(fields[0])
			hits, err2 := strconv.Atoi(fields[1])
			if err1 != nil || err2 != nil || ln < 1 {
				continue
			}
			cur.Lines.Details = append(cur.Lines.Details, LineDetail{Line: ln, Hits: hits})
		case "FN":
			// FN:<line>,<name>
			fields := strings.SplitN(rest, ",", 2)
			if len(fields) != 2 {
				continue
			}
			ln, err := strconv.Atoi(fields[0])
			if err != nil {
				continue
			}
			name := fields[1]
			if _, seen := funcLines[name]; !seen {
				funcOrder = append(funcOrder, name)
			}
			funcLines[name] = ln
		case "FNDA":
			// FNDA:<hits>,<name>
			fields := strings.SplitN(rest, ",", 2)
			if len(fields) != 2 {
				continue
			}
			hits, err := strconv.Atoi(fields[0])
			if err != nil {
				continue
			}
			name := fields[1]
			if _, seen := funcLines[name]; !seen {
				funcOrder = append(funcOrder, name)
			}
			funcHits[name] = hits
		case "BRDA":
			// BRDA:<line>,<block>,<branch>,<taken or "-">
			fields := strings.Split(rest, ",")
			if len(fields) != 4 {
				continue
			}
			ln, err1 := strconv.Atoi(fields[0])
			block, err2 := strconv.Atoi(fields[1])
			branch, err3 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil || err3 != nil || ln < 1 {
				continue
			}
			taken := 0
			if fields[3] != "-" {
				t, err := strconv.Atoi(fields[3])
				if err != nil {
					continue
				}
				taken = t
			}
			cur.Branches.Details = append(cur.Branches.Details, BranchDetail{
				Line: ln, Block: block, Branch: branch, Taken: taken,
			})
		case "LF":
			cur.Lines.Found = atoiOrZero(rest)
		case "LH":
			cur.Lines.Hit = atoiOrZero(rest)
		case "FNF":
			cur.Functions.Found = atoiOrZero(rest)
		case "FNH":
			cur.Functions.Hit = atoiOrZero(rest)
		case "BRF":
			cur.Branches.Found = atoiOrZero(rest)
		case "BRH":
			cur.Branches.Hit = atoiOrZero(rest)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tracefile: %w", err)
	}
	flush()

	return records, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
