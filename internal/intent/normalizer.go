package intent

import (
	"strings"

	"github.com/ualberta-rcg/research-qa/internal/types"
)

// engineeringAliases are the umbrella department strings that expand to the
// full concrete engineering department list (spec §4.5).
var engineeringAliases = map[string]bool{
	"engineering":             true,
	"uofa engineering":        true,
	"ualberta engineering":    true,
	"faculty of engineering":  true,
	"faculty engineering":     true,
	"engg":                    true,
}

// engineeringDepartments is the fixed concrete department list an umbrella
// alias expands to.
var engineeringDepartments = []string{
	"Chemical and Materials Engineering",
	"Civil and Environmental Engineering",
	"Electrical and Computer Engineering",
	"Mechanical Engineering",
	"School of Mining and Petroleum Engineering",
}

// singleDepartmentAbbreviations maps a narrower abbreviation to exactly one
// concrete department, distinct from the whole-faculty aliases above.
// Grounded on original_source/new.py's SYSTEM_PROMPT_2 special case ("ECE"
// -> "Electrical and Computer Engineering"), which fires even when the
// umbrella "Engineering" alias does not apply.
var singleDepartmentAbbreviations = map[string]string{
	"ece": "Electrical and Computer Engineering",
}

// Normalize expands umbrella or narrow department aliases into their
// concrete form (spec §4.5). It is idempotent: normalizing an already
// normalized intent returns it unchanged (spec §8's round-trip law), since
// re-running the rules against an explicit department list or a
// already-expanded single name is a no-op.
func Normalize(in types.Intent) types.Intent {
	out := in

	if out.HasDepartmentList() {
		// Lists pass through verbatim (spec §4.5).
		return out
	}

	dept := strings.TrimSpace(out.Department)
	if dept == "" {
		return out
	}

	lower := strings.ToLower(dept)
	if engineeringAliases[lower] {
		out.Departments = append([]string(nil), engineeringDepartments...)
		out.Department = ""
		return out
	}
	if concrete, ok := singleDepartmentAbbreviations[lower]; ok {
		out.Department = concrete
		return out
	}

	return out
}
