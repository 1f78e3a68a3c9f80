package command

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
)

// LoadDir recursively loads all command definition files under root.
// Subdirectory segments become the definitions' namespace. Files that fail to
// parse are skipped with a warning; they never abort the scan. Results are in
// deterministic lexical order.
func LoadDir(root, scope string) ([]*Definition, []string) {
	var defs []*Definition
	var warnings []string

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(root), "**/*.md")
	if err != nil {
		log.Warn().Err(err).Str("dir", root).Msg("command directory scan failed")
		return nil, []string{err.Error()}
	}

	for _, rel := range matches {
		namespace := namespaceSegments(rel)
		if namespace == nil {
			continue // hidden directory
		}

		full := filepath.Join(root, filepath.FromSlash(rel))
		def, err := ParseFile(full, scope, namespace)
		if err != nil {
			log.Warn().Err(err).Str("file", full).Msg("skipping malformed command file")
			warnings = append(warnings, err.Error())
			continue
		}

		log.Debug().
			Str("command", def.Qualified()).
			Str("file", full).
			Msg("loaded command")
		defs = append(defs, def)
	}

	return defs, warnings
}

// namespaceSegments derives the namespace from a slash-separated relative
// path, or nil when the path passes through a hidden directory.
func namespaceSegments(rel string) []string {
	dir := path.Dir(rel)
	if dir == "." {
		return []string{}
	}
	segments := strings.Split(dir, "/")
	for _, seg := range segments {
		if strings.HasPrefix(seg, ".") {
			return nil
		}
	}
	return segments
}
