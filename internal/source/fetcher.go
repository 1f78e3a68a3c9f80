package source

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog/log"

	"github.com/slashcmd/slashcmd/pkg/types"
)

const (
	// cloneTimeout bounds a single clone attempt.
	cloneTimeout = 60 * time.Second

	// cloneRetries is how many times a failed clone is retried.
	cloneRetries = 2
)

// Fetcher lazily clones remote sources into a cache directory keyed by
// (url, revision, subpath). Concurrent fetches of the same source serialize
// on a per-key mutex; different sources fetch independently.
type Fetcher struct {
	cacheDir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFetcher creates a fetcher caching under cacheDir.
func NewFetcher(cacheDir string) *Fetcher {
	return &Fetcher{
		cacheDir: cacheDir,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Resolve implements the registry's source resolution: it fetches src if
// needed and returns the local command directory plus the scope its commands
// register under.
func (f *Fetcher) Resolve(ctx context.Context, src types.SourceConfig) (string, string, error) {
	remote := ParseURL(src.URL)
	scope := src.Name
	if scope == "" {
		scope = remote.Name()
	}
	dir, err := f.Fetch(ctx, remote)
	if err != nil {
		return "", "", err
	}
	return dir, scope, nil
}

// Fetch returns the local directory for remote, cloning on a cache miss.
// A cached entry is reused until Refresh.
func (f *Fetcher) Fetch(ctx context.Context, remote Remote) (string, error) {
	return f.fetch(ctx, remote, false)
}

// Refresh discards any cache entry for remote and clones it again.
func (f *Fetcher) Refresh(ctx context.Context, remote Remote) (string, error) {
	return f.fetch(ctx, remote, true)
}

func (f *Fetcher) fetch(ctx context.Context, remote Remote, refresh bool) (string, error) {
	lock := f.keyLock(remote.CacheKey())
	lock.Lock()
	defer lock.Unlock()

	repoDir := filepath.Join(f.cacheDir, remote.Name()+"-"+remote.CacheKey())
	commandDir := repoDir
	if remote.Subpath != "" {
		commandDir = filepath.Join(repoDir, filepath.FromSlash(remote.Subpath))
	}

	if _, err := os.Stat(repoDir); err == nil {
		if !refresh && hasMarker(commandDir) {
			log.Debug().Str("dir", commandDir).Msg("using cached source")
			return commandDir, nil
		}
		// Stale or invalid cache entry
		if err := os.RemoveAll(repoDir); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(f.cacheDir, 0755); err != nil {
		return "", err
	}

	log.Info().Str("url", remote.URL).Str("revision", remote.Revision).Msg("fetching remote source")
	if err := f.clone(ctx, remote, repoDir); err != nil {
		os.RemoveAll(repoDir)
		return "", err
	}

	if !hasMarker(commandDir) {
		os.RemoveAll(repoDir)
		return "", &UntrustedSourceError{URL: remote.URL}
	}

	log.Debug().Str("dir", commandDir).Msg("fetched remote source")
	return commandDir, nil
}

// clone performs a shallow clone with retry on transient failures.
func (f *Fetcher) clone(ctx context.Context, remote Remote, dir string) error {
	op := func() error {
		cloneCtx, cancel := context.WithTimeout(ctx, cloneTimeout)
		defer cancel()

		err := cloneAt(cloneCtx, remote, dir)
		if err != nil {
			os.RemoveAll(dir)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), cloneRetries), ctx)
	return backoff.Retry(op, policy)
}

// cloneAt clones remote into dir. A named revision is tried as a branch
// first, then as a tag.
func cloneAt(ctx context.Context, remote Remote, dir string) error {
	opts := git.CloneOptions{
		URL:          remote.URL,
		Depth:        1,
		SingleBranch: true,
	}

	if remote.Revision == "" {
		_, err := git.PlainCloneContext(ctx, dir, false, &opts)
		return err
	}

	opts.ReferenceName = plumbing.NewBranchReferenceName(remote.Revision)
	_, branchErr := git.PlainCloneContext(ctx, dir, false, &opts)
	if branchErr == nil {
		return nil
	}

	// The revision may name a tag rather than a branch
	os.RemoveAll(dir)
	opts.ReferenceName = plumbing.NewTagReferenceName(remote.Revision)
	if _, tagErr := git.PlainCloneContext(ctx, dir, false, &opts); tagErr == nil {
		return nil
	}
	return branchErr
}

// Cached reports whether remote has a valid cache entry and returns its
// command directory.
func (f *Fetcher) Cached(remote Remote) (string, bool) {
	repoDir := filepath.Join(f.cacheDir, remote.Name()+"-"+remote.CacheKey())
	commandDir := repoDir
	if remote.Subpath != "" {
		commandDir = filepath.Join(repoDir, filepath.FromSlash(remote.Subpath))
	}
	if hasMarker(commandDir) {
		return commandDir, true
	}
	return "", false
}

func (f *Fetcher) keyLock(key string) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	lock, ok := f.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		f.locks[key] = lock
	}
	return lock
}

func hasMarker(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, MarkerFile))
	return err == nil
}
