package command

import (
	"fmt"
	"strings"
)

// MaxCompositionDepth bounds recursive /command composition. A cycle is
// caught by this bound rather than explicit cycle tracking.
const MaxCompositionDepth = 5

// MalformedDefinitionError reports a command file that could not be parsed.
// Discovery logs it and skips the file; it never aborts a discovery pass.
type MalformedDefinitionError struct {
	Path string
	Err  error
}

func (e *MalformedDefinitionError) Error() string {
	return fmt.Sprintf("malformed command definition %s: %v", e.Path, e.Err)
}

func (e *MalformedDefinitionError) Unwrap() error { return e.Err }

// NotFoundError reports an execution request for an unknown command.
type NotFoundError struct {
	Ref         string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("command not found: /%s", e.Ref)
	}
	return fmt.Sprintf("command not found: /%s (did you mean: %s)",
		e.Ref, strings.Join(e.Suggestions, ", "))
}

// DepthExceededError reports that recursive command composition exceeded
// MaxCompositionDepth. It aborts the invocation that hit it.
type DepthExceededError struct {
	Limit int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("maximum command composition depth (%d) exceeded; check for circular command references", e.Limit)
}
