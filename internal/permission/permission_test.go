package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpec_BareTool(t *testing.T) {
	spec, err := ParseSpec("bash")
	require.NoError(t, err)

	assert.Equal(t, "bash", spec.Tool)
	assert.False(t, spec.HasPattern)
}

func TestParseSpec_LowercasesTool(t *testing.T) {
	spec, err := ParseSpec("Bash(git add:*)")
	require.NoError(t, err)

	assert.Equal(t, "bash", spec.Tool)
	assert.True(t, spec.HasPattern)
	assert.Equal(t, "git add:*", spec.Pattern)
}

func TestParseSpec_Empty(t *testing.T) {
	_, err := ParseSpec("")
	assert.Error(t, err)

	_, err = ParseSpec("   ")
	assert.Error(t, err)
}

func TestParseSpec_Invalid(t *testing.T) {
	_, err := ParseSpec("Bash(unclosed")
	assert.Error(t, err)

	_, err = ParseSpec("Bash()extra")
	assert.Error(t, err)
}

func TestParseSpecs_PreservesOrder(t *testing.T) {
	specs, err := ParseSpecs([]string{"Bash(git status)", "Bash(git diff:*)", "read"})
	require.NoError(t, err)
	require.Len(t, specs, 3)

	assert.Equal(t, "git status", specs[0].Pattern)
	assert.Equal(t, "git diff:*", specs[1].Pattern)
	assert.Equal(t, "read", specs[2].Tool)
}

func TestSpec_String(t *testing.T) {
	spec, err := ParseSpec("Bash(git add:*)")
	require.NoError(t, err)
	assert.Equal(t, "bash(git add:*)", spec.String())

	bare, err := ParseSpec("bash")
	require.NoError(t, err)
	assert.Equal(t, "bash", bare.String())
}

func TestAllows_NoPattern(t *testing.T) {
	spec := Spec{Tool: "bash"}

	assert.True(t, spec.Allows([]string{"rm", "-rf", "/"}))
	assert.True(t, spec.Allows(nil))
}

func TestAllows_WildcardContinuation(t *testing.T) {
	spec := Spec{Tool: "bash", Pattern: "git add:*", HasPattern: true}

	assert.True(t, spec.Allows([]string{"git", "add", "."}))
	assert.True(t, spec.Allows([]string{"git", "add", "-p", "src/main.go"}))
	assert.True(t, spec.Allows([]string{"git", "add"}))

	assert.False(t, spec.Allows([]string{"git", "commit"}))
	assert.False(t, spec.Allows([]string{"git"}))
}

func TestAllows_TokenNotSubstring(t *testing.T) {
	spec := Spec{Tool: "bash", Pattern: "git add:*", HasPattern: true}

	// "git adder" must not satisfy the "git add" prefix.
	assert.False(t, spec.Allows([]string{"git", "adder"}))
	assert.False(t, spec.Allows([]string{"git", "add-remote", "x"}))
}

func TestAllows_ExactRemainder(t *testing.T) {
	spec := Spec{Tool: "bash", Pattern: "npm run:build", HasPattern: true}

	assert.True(t, spec.Allows([]string{"npm", "run", "build"}))
	assert.False(t, spec.Allows([]string{"npm", "run", "test"}))
	assert.False(t, spec.Allows([]string{"npm", "run", "build", "--watch"}))
	assert.False(t, spec.Allows([]string{"npm", "run"}))
}

func TestAllows_NoColonExactMatch(t *testing.T) {
	spec := Spec{Tool: "bash", Pattern: "git status", HasPattern: true}

	assert.True(t, spec.Allows([]string{"git", "status"}))
	assert.False(t, spec.Allows([]string{"git", "status", "-s"}))
	assert.False(t, spec.Allows([]string{"git"}))
}

func TestCheckBash_NoBashSpecs(t *testing.T) {
	d := CheckBash("ls", nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, "bash not in allowed-tools", d.Reason)

	specs, err := ParseSpecs([]string{"read", "write"})
	require.NoError(t, err)
	d = CheckBash("ls", specs)
	assert.False(t, d.Allowed)
}

func TestCheckBash_BareToolAllowsEverything(t *testing.T) {
	specs, err := ParseSpecs([]string{"bash"})
	require.NoError(t, err)

	d := CheckBash("rm -rf build && make all", specs)
	assert.True(t, d.Allowed)
}

func TestCheckBash_EveryCallMustBeAllowed(t *testing.T) {
	specs, err := ParseSpecs([]string{"Bash(git add:*)", "Bash(git commit:*)"})
	require.NoError(t, err)

	assert.True(t, CheckBash("git add . && git commit -m wip", specs).Allowed)

	d := CheckBash("git add . && rm -rf /", specs)
	assert.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "git add:*")
}

func TestCheckBash_Pipeline(t *testing.T) {
	specs, err := ParseSpecs([]string{"Bash(git log:*)", "Bash(head:*)"})
	require.NoError(t, err)

	assert.True(t, CheckBash("git log --oneline | head -5", specs).Allowed)
	assert.False(t, CheckBash("git log | wc -l", specs).Allowed)
}

func TestCheckBash_EmptyCommand(t *testing.T) {
	specs, err := ParseSpecs([]string{"bash"})
	require.NoError(t, err)

	d := CheckBash("", specs)
	assert.False(t, d.Allowed)
	assert.Equal(t, "empty command", d.Reason)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "no bash commands allowed", Summary(nil))

	all, err := ParseSpecs([]string{"bash"})
	require.NoError(t, err)
	assert.Equal(t, "all bash commands", Summary(all))

	scoped, err := ParseSpecs([]string{"Bash(git status)", "Bash(git diff:*)"})
	require.NoError(t, err)
	assert.Equal(t, "git status, git diff:*", Summary(scoped))
}
