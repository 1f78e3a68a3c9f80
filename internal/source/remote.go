// Package source fetches remote command collections from git URLs into a
// local content-addressed cache.
//
// Sources are declared as URLs of the form
//
//	git+https://github.com/org/repo@v1:commands
//
// where the revision and subpath are optional. A fetched source must carry
// the marker file at its resolved root to be trusted; anything else
// contributes zero commands.
package source

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// MarkerFile identifies a directory as an intentional command collection.
const MarkerFile = ".slashcmd-commands"

// Remote identifies one remote command collection.
type Remote struct {
	URL      string // git URL without the git+ prefix
	Revision string // branch or tag, empty for the default branch
	Subpath  string // directory within the repository, empty for the root
}

// ParseURL parses a source URL into its remote parts. The revision suffix is
// only recognized after the final path segment, so ssh-style URLs such as
// git@host:org/repo keep their @ intact.
func ParseURL(raw string) Remote {
	url := strings.TrimPrefix(raw, "git+")

	var revision, subpath string
	if at := strings.LastIndex(url, "@"); at > strings.LastIndex(url, "/") {
		refPart := url[at+1:]
		url = url[:at]
		revision, subpath, _ = strings.Cut(refPart, ":")
		if revision == "HEAD" {
			revision = ""
		}
	}

	return Remote{URL: url, Revision: revision, Subpath: subpath}
}

// Name returns the repository basename, used as the default namespace scope
// for the source's commands.
func (r Remote) Name() string {
	trimmed := strings.TrimSuffix(strings.TrimRight(r.URL, "/"), ".git")
	if i := strings.LastIndexAny(trimmed, "/:"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return trimmed
}

// CacheKey returns a stable key for this remote's cache entry, derived from
// the URL, revision, and subpath.
func (r Remote) CacheKey() string {
	revision := r.Revision
	if revision == "" {
		revision = "HEAD"
	}
	seed := fmt.Sprintf("%s@%s", r.URL, revision)
	if r.Subpath != "" {
		seed += ":" + r.Subpath
	}
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])[:16]
}

// UntrustedSourceError reports a fetched source missing the marker file.
// The source contributes no commands; trust is never partial.
type UntrustedSourceError struct {
	URL string
}

func (e *UntrustedSourceError) Error() string {
	return fmt.Sprintf("untrusted source %s: missing %s marker", e.URL, MarkerFile)
}
