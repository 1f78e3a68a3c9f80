package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/slashcmd/slashcmd/internal/permission"
)

var (
	// inlineBashPattern matches !`command` snippets.
	inlineBashPattern = regexp.MustCompile("!`([^`]+)`")

	// blockBashPattern matches !``` fenced snippets.
	blockBashPattern = regexp.MustCompile("(?s)!```\n(.*?)\n```")

	// fileRefPattern matches @path/to/file references.
	fileRefPattern = regexp.MustCompile(`@([\w./-]+)`)

	// fallbackPattern matches {{$1 or "default"}} expressions.
	fallbackPattern = regexp.MustCompile(`\{\{(\$\d+|\$ARGUMENTS)\s+or\s+"([^"]*)"\}\}`)

	// variablePattern matches $ARGUMENTS and $N.
	variablePattern = regexp.MustCompile(`\$(\d+|ARGUMENTS\b)`)

	// refPattern validates a composition reference: a bare name or a
	// scope-qualified "scope:ns/name" form.
	refPattern = regexp.MustCompile(`^[\w-]+(?::[\w-]+(?:/[\w-]+)*)?$`)
)

// Processor expands a command definition into its final prompt text.
//
// Expansion order is fixed: composition, bash, file references, variables,
// truncation. Each pass runs exactly once over the current text state; tokens
// introduced by an earlier pass are not re-scanned by it.
type Processor struct {
	registry *Registry
	runner   *Runner
	workDir  string
}

// NewProcessor creates a processor. The registry is used to resolve nested
// /command compositions.
func NewProcessor(registry *Registry, runner *Runner, workDir string) *Processor {
	return &Processor{
		registry: registry,
		runner:   runner,
		workDir:  workDir,
	}
}

// Expand produces the execution result for def invoked with args. depth
// tracks composition nesting; callers start at zero.
func (p *Processor) Expand(ctx context.Context, def *Definition, args []string, depth int) (*ExecutionResult, error) {
	if depth > MaxCompositionDepth {
		return nil, &DepthExceededError{Limit: MaxCompositionDepth}
	}

	res := &ExecutionResult{}

	text, err := p.composePass(ctx, def.Body, depth, res)
	if err != nil {
		return nil, err
	}
	text = p.bashPass(ctx, text, def.AllowedTools, res)
	text = p.filePass(text, res)
	text = substituteVariables(text, args)
	text = truncatePass(text, def.MaxChars, res)

	res.Prompt = text
	return res, nil
}

// composePass expands lines of the form "/name args" by recursively
// executing the referenced command. Lines naming no registered command are
// left untouched.
func (p *Processor) composePass(ctx context.Context, text string, depth int, res *ExecutionResult) (string, error) {
	if !strings.Contains(text, "/") {
		return text, nil
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "//") {
			continue
		}

		ref, rest, _ := strings.Cut(trimmed[1:], " ")
		if !refPattern.MatchString(ref) {
			continue
		}
		def, ok := p.registry.Lookup(ref)
		if !ok {
			// Might be intentional text, e.g. a file path
			continue
		}

		log.Debug().Str("command", ref).Int("depth", depth+1).Msg("expanding nested command")

		nested, err := p.Expand(ctx, def, strings.Fields(rest), depth+1)
		if err != nil {
			return "", err
		}

		lines[i] = nested.Prompt
		res.BashCommands += nested.BashCommands
		res.FilesIncluded += nested.FilesIncluded
		for _, w := range nested.Warnings {
			res.Warnings = append(res.Warnings, fmt.Sprintf("[/%s] %s", ref, w))
		}
	}
	return strings.Join(lines, "\n"), nil
}

// bashPass executes fenced and inline shell snippets gated by the command's
// allowed-tools specs. Blocked snippets become a diagnostic marker; execution
// failures never abort expansion.
func (p *Processor) bashPass(ctx context.Context, text string, specs []permission.Spec, res *ExecutionResult) string {
	expand := func(snippet string) string {
		snippet = strings.TrimSpace(snippet)

		decision := permission.CheckBash(snippet, specs)
		if !decision.Allowed {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("blocked bash command %q: %s", snippet, decision.Reason))
			return fmt.Sprintf("[Command blocked: %s]", decision.Reason)
		}

		output, timedOut := p.runner.Run(ctx, snippet)
		if timedOut {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("bash command %q timed out", snippet))
			return output
		}
		res.BashCommands++
		return output
	}

	// Blocks first, so the inline pattern never sees fence backticks.
	text = blockBashPattern.ReplaceAllStringFunc(text, func(match string) string {
		return expand(blockBashPattern.FindStringSubmatch(match)[1])
	})
	text = inlineBashPattern.ReplaceAllStringFunc(text, func(match string) string {
		return expand(inlineBashPattern.FindStringSubmatch(match)[1])
	})
	return text
}

// filePass inlines @path references resolved against the working directory.
// Paths outside the working directory and missing files yield an inline
// notice and a warning, never an error.
func (p *Processor) filePass(text string, res *ExecutionResult) string {
	return fileRefPattern.ReplaceAllStringFunc(text, func(match string) string {
		ref := fileRefPattern.FindStringSubmatch(match)[1]

		resolved := ref
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(p.workDir, resolved)
		}
		resolved = filepath.Clean(resolved)

		if !isWithinDir(resolved, p.workDir) {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("file reference @%s is outside the working directory", ref))
			return fmt.Sprintf("[File not included: %s is outside the working directory]", ref)
		}

		content, err := os.ReadFile(resolved)
		if err != nil {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("file not found: @%s", ref))
			return fmt.Sprintf("[File not found: %s]", ref)
		}

		res.FilesIncluded++
		return string(content)
	})
}

// isWithinDir checks if path is within or under dir.
func isWithinDir(path, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// substituteVariables applies the variable pass: fallback expressions first,
// then $ARGUMENTS and positional $N. Missing positions substitute the empty
// string.
func substituteVariables(text string, args []string) string {
	joined := strings.Join(args, " ")

	text = fallbackPattern.ReplaceAllStringFunc(text, func(match string) string {
		m := fallbackPattern.FindStringSubmatch(match)
		name, fallback := m[1], m[2]

		if name == "$ARGUMENTS" {
			if joined != "" {
				return joined
			}
			return fallback
		}

		pos, _ := strconv.Atoi(name[1:])
		if pos >= 1 && pos <= len(args) && args[pos-1] != "" {
			return args[pos-1]
		}
		return fallback
	})

	return variablePattern.ReplaceAllStringFunc(text, func(match string) string {
		name := variablePattern.FindStringSubmatch(match)[1]
		if name == "ARGUMENTS" {
			return joined
		}
		pos, _ := strconv.Atoi(name)
		if pos >= 1 && pos <= len(args) {
			return args[pos-1]
		}
		return ""
	})
}

// truncationNotice is appended to content cut by the character budget.
const truncationNotice = "\n\n[...truncated due to character limit...]"

// truncatePass enforces the max-chars budget, preferring a paragraph
// boundary, then a line, sentence, or word boundary, before a hard cut.
// Truncating already-truncated text at the same limit is a no-op.
func truncatePass(text string, maxChars int, res *ExecutionResult) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}

	original := len(text)
	truncated := truncate(text, maxChars)
	res.Warnings = append(res.Warnings,
		fmt.Sprintf("content truncated from %d to %d chars (max-chars: %d)",
			original, len(truncated), maxChars))
	return truncated
}

func truncate(text string, maxChars int) string {
	available := maxChars - len(truncationNotice)
	if available <= 0 {
		return text[:maxChars]
	}

	cut := text[:available]
	// A boundary only counts if it lands past 70% of the budget.
	for _, sep := range []string{"\n\n", "\n", ". ", " "} {
		if i := strings.LastIndex(cut, sep); i > available*7/10 {
			cut = cut[:i+len(sep)]
			break
		}
	}

	return strings.TrimRight(cut, " \t\n") + truncationNotice
}
