package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_Simple(t *testing.T) {
	calls := Tokenize("ls -la")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"ls", "-la"}, calls[0])
}

func TestTokenize_AndChain(t *testing.T) {
	calls := Tokenize("git add . && git commit -m 'wip'")
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"git", "add", "."}, calls[0])
	assert.Equal(t, []string{"git", "commit", "-m", "wip"}, calls[1])
}

func TestTokenize_Pipeline(t *testing.T) {
	calls := Tokenize("cat notes.txt | grep TODO | wc -l")
	require.Len(t, calls, 3)
	assert.Equal(t, []string{"cat", "notes.txt"}, calls[0])
	assert.Equal(t, []string{"grep", "TODO"}, calls[1])
	assert.Equal(t, []string{"wc", "-l"}, calls[2])
}

func TestTokenize_Semicolons(t *testing.T) {
	calls := Tokenize("pwd; ls")
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"pwd"}, calls[0])
	assert.Equal(t, []string{"ls"}, calls[1])
}

func TestTokenize_DoubleQuoted(t *testing.T) {
	calls := Tokenize(`echo "hello world"`)
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"echo", "hello world"}, calls[0])
}

func TestTokenize_ParamExpansionOpaque(t *testing.T) {
	calls := Tokenize("rm $FILE")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"rm", "$FILE"}, calls[0])
}

func TestTokenize_CommandSubstitution(t *testing.T) {
	calls := Tokenize("echo $(date)")
	// The substitution body is walked as its own call.
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"echo", "$()"}, calls[0])
	assert.Equal(t, []string{"date"}, calls[1])
}

func TestTokenize_FallbackOnParseError(t *testing.T) {
	calls := Tokenize("echo 'unterminated")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"echo", "'unterminated"}, calls[0])
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   "))
}
