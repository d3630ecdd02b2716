// Package predicate implements RulePredicates (spec §4.1): the quantified
// comparison at the heart of every rule checker, plus the report-string
// formatting every checker shares.
package predicate

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/ftahirops/validatord/model"
)

// Eval returns true when the comparison matches the alert condition, i.e.
// the rule fires. Operators are purely arithmetic on signed integers.
func Eval(op model.Operator, value, limit int64) bool {
	switch op {
	case model.OpEq:
		return value == limit
	case model.OpNe:
		return value != limit
	case model.OpGt:
		return value > limit
	case model.OpLt:
		return value < limit
	case model.OpGe:
		return value >= limit
	case model.OpLe:
		return value <= limit
	}
	return false
}

// Report formats a human-readable report string that always contains the
// observed value, the operator's short name, and the limit, in that order,
// with the given unit suffix (spec §4.1).
func Report(label string, value, limit int64, op model.Operator, unit string) string {
	return fmt.Sprintf("%s %d%s %s %d%s", label, value, unit, op, limit, unit)
}

// ReportBytes is Report specialized for byte counts, rendered human-readable
// via go-humanize (e.g. "size 12 MB > 10 MB") alongside the exact figures.
func ReportBytes(label string, value, limit int64, op model.Operator) string {
	return fmt.Sprintf("%s %s (%d B) %s %s (%d B)",
		label, humanize.Bytes(uint64clamp(value)), value, op, humanize.Bytes(uint64clamp(limit)), limit)
}

// ReportPercent10 formats a x10-scaled percentage for display, dividing by
// 10.0 as spec §3 requires.
func ReportPercent10(label string, value10, limit10 int64, op model.Operator) string {
	return fmt.Sprintf("%s %.1f%% %s %.1f%%", label, float64(value10)/10.0, op, float64(limit10)/10.0)
}

func uint64clamp(v int64) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}
