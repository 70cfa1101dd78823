// Package lcov models coverage records parsed from LCOV tracefiles.
package lcov

// LineDetail is one DA entry: execution count for a single source line.
type LineDetail struct {
	Line int
	Hits int
}

// FunctionDetail is one FN/FNDA pair: a named function, its starting line,
// and how often it was entered.
type FunctionDetail struct {
	Name string
	Line int
	Hits int
}

// BranchDetail is one BRDA entry. Block and Branch together identify the
// branch within its line; Taken is the execution count (0 when the branch
// was never taken, including the "-" form LCOV emits for dead branches).
type BranchDetail struct {
	Line   int
	Block  int
	Branch int
	Taken  int
}

// LineCoverage holds the LF/LH counters plus per-line detail when present.
type LineCoverage struct {
	Found   int
	Hit     int
	Details []LineDetail
}

// FunctionCoverage holds the FNF/FNH counters plus per-function detail.
type FunctionCoverage struct {
	Found   int
	Hit     int
	Details []FunctionDetail
}

// BranchCoverage holds the BRF/BRH counters plus per-branch detail.
type BranchCoverage struct {
	Found   int
	Hit     int
	Details []BranchDetail
}

// Record is the coverage data for one source file as reported by the
// tracefile. SourceFile is the path exactly as written after SF: and may be
// absolute, workspace-relative, or relative to the producing tool.
//
// Counters are taken at face value: Hit > Found is tolerated, never fixed up.
type Record struct {
	SourceFile string
	Lines      LineCoverage
	Functions  FunctionCoverage
	Branches   BranchCoverage
}
