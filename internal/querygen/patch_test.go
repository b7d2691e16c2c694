package querygen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatchDepartmentClause_BroadensToAbbrCoalesce(t *testing.T) {
	query := `MATCH (d:Department) WHERE toLower(d.department) = toLower($dept) RETURN d`
	got := PatchDepartmentClause(query)

	want := `MATCH (d:Department) WHERE (toLower(d.department) = toLower($dept) OR toLower(coalesce(d.abbr, '')) = toLower($dept)) RETURN d`
	assert.Equal(t, want, got)
}

func TestPatchDepartmentClause_NoMatchLeavesQueryUnchanged(t *testing.T) {
	query := `MATCH (r:Researcher) RETURN r`
	assert.Equal(t, query, PatchDepartmentClause(query))
}

func TestPatchDepartmentClause_LiteralStringValue(t *testing.T) {
	query := `WHERE toLower(d.department) = toLower('Physics')`
	got := PatchDepartmentClause(query)

	assert.Equal(t, `WHERE (toLower(d.department) = toLower('Physics') OR toLower(coalesce(d.abbr, '')) = toLower('Physics'))`, got)
}
