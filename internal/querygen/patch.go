package querygen

import "regexp"

// departmentEqualityRE matches a WHERE-style equality comparison of a
// department property to a quoted or parameterized name value, the shape the
// LLM tends to emit for "toLower(d.department) = toLower($dept)".
var departmentEqualityRE = regexp.MustCompile(
	`(?i)toLower\((\w+)\.department\)\s*=\s*toLower\(([^)]+)\)`,
)

// PatchDepartmentClause broadens department WHERE clauses that equate
// `department` to a name value so they also match the `abbr` property via an
// OR coalesce, letting abbreviations like "ECE" resolve correctly even when
// the LLM generated a plain department-name comparison (spec §4.8,
// grounded on original_source pattern 8's
// `OR toLower(coalesce(d.abbr, '')) = toLower(deptName)` shape).
func PatchDepartmentClause(query string) string {
	return departmentEqualityRE.ReplaceAllString(query,
		`(toLower($1.department) = toLower($2) OR toLower(coalesce($1.abbr, '')) = toLower($2))`)
}
