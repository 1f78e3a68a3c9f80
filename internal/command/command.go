// Package command implements discovery, resolution, and template expansion of
// reusable slash commands.
//
// A command is defined by a Markdown file with a YAML frontmatter header and a
// template body. Templates support positional variables ($1, $ARGUMENTS,
// {{$1 or "default"}} fallbacks), shell interpolation gated by allowed-tools
// permissions, @path file inclusion, and /name composition of other commands.
package command

import (
	"strings"

	"github.com/slashcmd/slashcmd/internal/permission"
)

// Scopes for command definitions. Remote sources use their source name.
const (
	ScopeProject = "project"
	ScopeUser    = "user"
)

// Definition is an immutable parsed command.
type Definition struct {
	// Name is the file stem, without extension or path separators.
	Name string

	// Scope identifies the source the file came from: "project", "user",
	// or a remote source name.
	Scope string

	// Namespace holds the subdirectory segments under the scope root.
	Namespace []string

	Description  string
	ArgumentHint string

	// AllowedTools is the ordered list of permission specs gating shell
	// interpolation.
	AllowedTools []permission.Spec

	// Model optionally overrides the model used for the expanded prompt.
	Model string

	// MaxChars is the character budget for the expanded prompt; zero means
	// unlimited.
	MaxChars int

	RequiresApproval bool
	ApprovalMessage  string

	// DisableModelInvocation hides the command from discovery listings.
	DisableModelInvocation bool

	// Body is the raw template text, verbatim from the file.
	Body string

	// SourcePath is the file the definition was parsed from.
	SourcePath string
}

// Qualified returns the namespace-qualified reference for this definition,
// e.g. "project:frontend/review" or "user:deploy".
func (d *Definition) Qualified() string {
	parts := append(append([]string{}, d.Namespace...), d.Name)
	return d.Scope + ":" + strings.Join(parts, "/")
}

// Info is the discovery listing entry for a command.
type Info struct {
	Name         string `json:"name"`
	Namespace    string `json:"namespace"`
	Description  string `json:"description,omitempty"`
	ArgumentHint string `json:"argumentHint,omitempty"`
}

// ExecutionResult is the transient outcome of one command invocation.
type ExecutionResult struct {
	// InvocationID identifies this invocation in logs.
	InvocationID string `json:"invocationId"`

	// Prompt is the fully expanded template text.
	Prompt string `json:"prompt"`

	// Warnings lists non-fatal conditions hit during expansion: blocked
	// commands, truncation, missing files.
	Warnings []string `json:"warnings,omitempty"`

	// BashCommands counts shell snippets actually executed.
	BashCommands int `json:"bashCommands"`

	// FilesIncluded counts @path references successfully inlined.
	FilesIncluded int `json:"filesIncluded"`

	ModelOverride    string `json:"modelOverride,omitempty"`
	RequiresApproval bool   `json:"requiresApproval,omitempty"`
	ApprovalMessage  string `json:"approvalMessage,omitempty"`
}
