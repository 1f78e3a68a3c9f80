package command

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

// Executor is the programmatic surface exposed to the host: command listing
// and invocation against a shared registry.
type Executor struct {
	registry  *Registry
	processor *Processor
	workDir   string
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*executorConfig)

type executorConfig struct {
	bashTimeout time.Duration
}

// WithBashTimeout overrides the per-snippet shell timeout.
func WithBashTimeout(timeout time.Duration) ExecutorOption {
	return func(c *executorConfig) {
		c.bashTimeout = timeout
	}
}

// NewExecutor creates an executor over the given registry, with file
// references and shell snippets resolved against workDir.
func NewExecutor(registry *Registry, workDir string, opts ...ExecutorOption) *Executor {
	cfg := executorConfig{bashTimeout: DefaultBashTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	runner := NewRunner(workDir, cfg.bashTimeout)
	return &Executor{
		registry:  registry,
		processor: NewProcessor(registry, runner, workDir),
		workDir:   workDir,
	}
}

// Execute expands the referenced command with the given positional arguments.
// ref is a bare name or a "scope:ns/name" qualified reference. Returns a
// NotFoundError when no definition resolves, or a DepthExceededError when
// composition recursion exceeds its bound; everything else that goes wrong is
// folded into the result's warnings.
func (e *Executor) Execute(ctx context.Context, ref string, args []string) (*ExecutionResult, error) {
	def, ok := e.registry.Lookup(ref)
	if !ok {
		return nil, &NotFoundError{Ref: ref, Suggestions: e.registry.Suggest(ref)}
	}

	id := ulid.Make().String()
	log.Info().
		Str("invocation", id).
		Str("command", def.Qualified()).
		Str("args", truncateForLog(strings.Join(args, " "))).
		Msg("executing command")

	res, err := e.processor.Expand(ctx, def, args, 0)
	if err != nil {
		return nil, err
	}

	res.InvocationID = id
	res.ModelOverride = def.Model
	res.RequiresApproval = def.RequiresApproval
	res.ApprovalMessage = def.ApprovalMessage

	log.Debug().
		Str("invocation", id).
		Int("chars", len(res.Prompt)).
		Int("bash", res.BashCommands).
		Int("files", res.FilesIncluded).
		Int("warnings", len(res.Warnings)).
		Msg("command expanded")
	return res, nil
}

// List returns discovery entries for all commands not marked
// non-discoverable, in precedence order.
func (e *Executor) List() []Info {
	defs := e.registry.Definitions()
	infos := make([]Info, 0, len(defs))
	for _, def := range defs {
		if def.DisableModelInvocation {
			continue
		}
		infos = append(infos, Info{
			Name:         def.Name,
			Namespace:    def.Qualified(),
			Description:  def.Description,
			ArgumentHint: def.ArgumentHint,
		})
	}
	return infos
}
