package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"covlens/internal/lcov"
)

func rec(found, hit int) *lcov.Record {
	return &lcov.Record{Lines: lcov.LineCoverage{Found: found, Hit: hit}}
}

func TestCompute(t *testing.T) {
	totals := Compute([]*lcov.Record{rec(10, 5), rec(20, 10)})
	assert.Equal(t, 30, totals.TotalLines)
	assert.Equal(t, 15, totals.CoveredLines)
	assert.Equal(t, 50.0, totals.Percentage)
}

func TestCompute_Empty(t *testing.T) {
	totals := Compute(nil)
	assert.Equal(t, 0, totals.TotalLines)
	assert.Equal(t, 0, totals.CoveredLines)
	assert.Equal(t, 0.0, totals.Percentage, "no division by zero")
}

func TestCompute_ZeroFoundContributesNothing(t *testing.T) {
	// found = 0 contributes 0 to both totals regardless of hit.
	totals := Compute([]*lcov.Record{rec(0, 7), rec(4, 2)})
	assert.Equal(t, 4, totals.TotalLines)
	assert.Equal(t, 2, totals.CoveredLines)
}

func TestCompute_RoundsToTwoDecimals(t *testing.T) {
	totals := Compute([]*lcov.Record{rec(3, 1)})
	assert.Equal(t, 33.33, totals.Percentage)

	totals = Compute([]*lcov.Record{rec(3, 2)})
	assert.Equal(t, 66.67, totals.Percentage)
}

func TestCompute_SkipsNilRecords(t *testing.T) {
	totals := Compute([]*lcov.Record{nil, rec(2, 1)})
	assert.Equal(t, 2, totals.TotalLines)
	assert.Equal(t, 1, totals.CoveredLines)
}
