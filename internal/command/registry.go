package command

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog/log"

	"github.com/slashcmd/slashcmd/pkg/types"
)

// SourceResolver resolves a remote source to a local directory of command
// files. Implemented by source.Fetcher.
type SourceResolver interface {
	// Resolve fetches src if needed and returns the local directory holding
	// its command files and the scope its commands register under.
	Resolve(ctx context.Context, src types.SourceConfig) (dir, scope string, err error)
}

// Registry is the in-memory index of discovered commands. Definitions are
// immutable once constructed; concurrent lookups share the index without
// locking beyond the swap guard. Reload builds a fresh index off to the side
// and swaps it in atomically.
type Registry struct {
	projectDir string
	userDir    string
	sources    []types.SourceConfig
	resolver   SourceResolver

	mu  sync.RWMutex
	idx *index
}

// index holds one generation of discovered commands.
type index struct {
	// byName maps bare names to definitions in precedence order:
	// project, user, then remote sources in configured order.
	byName map[string][]*Definition

	// byQualified maps "scope:ns/name" references to definitions.
	byQualified map[string]*Definition

	// order preserves discovery order for listings.
	order []*Definition
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithSources sets the remote sources scanned after local directories.
func WithSources(sources []types.SourceConfig, resolver SourceResolver) RegistryOption {
	return func(r *Registry) {
		r.sources = sources
		r.resolver = resolver
	}
}

// NewRegistry creates an empty registry over the given local directories.
// Call Reload to populate it.
func NewRegistry(projectDir, userDir string, opts ...RegistryOption) *Registry {
	r := &Registry{
		projectDir: projectDir,
		userDir:    userDir,
		idx:        newIndex(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newIndex() *index {
	return &index{
		byName:      make(map[string][]*Definition),
		byQualified: make(map[string]*Definition),
	}
}

// Reload discards the current index and rebuilds it from all configured
// sources. Individual file or source failures are logged and skipped; the
// rebuild itself always succeeds.
func (r *Registry) Reload(ctx context.Context) {
	idx := newIndex()

	if r.projectDir != "" {
		defs, _ := LoadDir(r.projectDir, ScopeProject)
		idx.add(defs)
	}
	if r.userDir != "" {
		defs, _ := LoadDir(r.userDir, ScopeUser)
		idx.add(defs)
	}

	for _, src := range r.sources {
		if r.resolver == nil {
			break
		}
		dir, scope, err := r.resolver.Resolve(ctx, src)
		if err != nil {
			// The source contributes zero commands; others still load.
			log.Warn().Err(err).Str("url", src.URL).Msg("skipping remote source")
			continue
		}
		defs, _ := LoadDir(dir, scope)
		idx.add(defs)
	}

	r.mu.Lock()
	r.idx = idx
	r.mu.Unlock()

	log.Info().Int("commands", len(idx.order)).Msg("command registry loaded")
}

func (ix *index) add(defs []*Definition) {
	for _, def := range defs {
		ix.byName[def.Name] = append(ix.byName[def.Name], def)
		qualified := def.Qualified()
		if _, exists := ix.byQualified[qualified]; !exists {
			ix.byQualified[qualified] = def
		}
		ix.order = append(ix.order, def)
	}
}

// Lookup resolves a command reference. A bare name returns the highest
// precedence definition; a "scope:ns/name" reference disambiguates.
func (r *Registry) Lookup(ref string) (*Definition, bool) {
	r.mu.RLock()
	idx := r.idx
	r.mu.RUnlock()

	if strings.Contains(ref, ":") {
		def, ok := idx.byQualified[ref]
		return def, ok
	}
	defs := idx.byName[ref]
	if len(defs) == 0 {
		return nil, false
	}
	return defs[0], true
}

// Definitions returns all discovered definitions in precedence order.
func (r *Registry) Definitions() []*Definition {
	r.mu.RLock()
	idx := r.idx
	r.mu.RUnlock()

	out := make([]*Definition, len(idx.order))
	copy(out, idx.order)
	return out
}

// Names returns the sorted set of bare command names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	idx := r.idx
	r.mu.RUnlock()

	names := make([]string, 0, len(idx.byName))
	for name := range idx.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// maxSuggestionDistance bounds how far a name may be from the request to be
// offered as a "did you mean" candidate.
const maxSuggestionDistance = 3

// Suggest returns up to three known names closest to ref by edit distance.
func (r *Registry) Suggest(ref string) []string {
	type candidate struct {
		name string
		dist int
	}

	var candidates []candidate
	for _, name := range r.Names() {
		d := levenshtein.ComputeDistance(ref, name)
		if d <= maxSuggestionDistance {
			candidates = append(candidates, candidate{name, d})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].name < candidates[j].name
	})

	var out []string
	for _, c := range candidates {
		out = append(out, c.name)
		if len(out) == 3 {
			break
		}
	}
	return out
}
