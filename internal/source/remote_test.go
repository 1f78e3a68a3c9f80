package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseURL_Plain(t *testing.T) {
	r := ParseURL("https://github.com/org/repo")
	assert.Equal(t, "https://github.com/org/repo", r.URL)
	assert.Empty(t, r.Revision)
	assert.Empty(t, r.Subpath)
}

func TestParseURL_GitPrefix(t *testing.T) {
	r := ParseURL("git+https://github.com/org/repo")
	assert.Equal(t, "https://github.com/org/repo", r.URL)
}

func TestParseURL_Revision(t *testing.T) {
	r := ParseURL("git+https://github.com/org/repo@v1.2")
	assert.Equal(t, "https://github.com/org/repo", r.URL)
	assert.Equal(t, "v1.2", r.Revision)
}

func TestParseURL_RevisionAndSubpath(t *testing.T) {
	r := ParseURL("git+https://github.com/org/repo@main:tools/commands")
	assert.Equal(t, "https://github.com/org/repo", r.URL)
	assert.Equal(t, "main", r.Revision)
	assert.Equal(t, "tools/commands", r.Subpath)
}

func TestParseURL_HEADIsDefault(t *testing.T) {
	r := ParseURL("git+https://github.com/org/repo@HEAD")
	assert.Empty(t, r.Revision)
}

func TestParseURL_SSHUserPreserved(t *testing.T) {
	// The @ in the user part is not a revision separator.
	r := ParseURL("git+ssh://git@github.com/org/repo")
	assert.Equal(t, "ssh://git@github.com/org/repo", r.URL)
	assert.Empty(t, r.Revision)

	r = ParseURL("git+ssh://git@github.com/org/repo@v2")
	assert.Equal(t, "ssh://git@github.com/org/repo", r.URL)
	assert.Equal(t, "v2", r.Revision)
}

func TestRemote_Name(t *testing.T) {
	assert.Equal(t, "repo", ParseURL("https://github.com/org/repo").Name())
	assert.Equal(t, "repo", ParseURL("https://github.com/org/repo.git").Name())
	assert.Equal(t, "repo", ParseURL("https://github.com/org/repo/").Name())
	assert.Equal(t, "tools", ParseURL("git+https://example.com/infra/tools@v1:cmds").Name())
}

func TestRemote_CacheKeyStable(t *testing.T) {
	a := ParseURL("git+https://example.com/org/repo@v1:cmds")
	b := ParseURL("git+https://example.com/org/repo@v1:cmds")
	assert.Equal(t, a.CacheKey(), b.CacheKey())
	assert.Len(t, a.CacheKey(), 16)
}

func TestRemote_CacheKeyVariesByParts(t *testing.T) {
	base := ParseURL("git+https://example.com/org/repo")
	rev := ParseURL("git+https://example.com/org/repo@v1")
	sub := ParseURL("git+https://example.com/org/repo@v1:cmds")

	assert.NotEqual(t, base.CacheKey(), rev.CacheKey())
	assert.NotEqual(t, rev.CacheKey(), sub.CacheKey())
}

func TestUntrustedSourceError(t *testing.T) {
	err := &UntrustedSourceError{URL: "https://example.com/org/repo"}
	assert.Contains(t, err.Error(), "untrusted source")
	assert.Contains(t, err.Error(), MarkerFile)
}
