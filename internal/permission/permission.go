// Package permission implements the granular allowed-tools grammar that gates
// shell execution during template expansion.
//
// A permission spec is either a bare tool identifier, which grants
// unconditional use of that tool, or an identifier with a parenthesized
// pattern:
//
//	bash
//	Bash(git add:*)
//	Bash(git status)
//
// Pattern matching is deliberately narrow: the text left of the first colon is
// a space-delimited command prefix matched token-for-token, and the only
// wildcard is a trailing ":*" meaning "this prefix followed by anything".
package permission

import (
	"fmt"
	"regexp"
	"strings"
)

// Spec is a parsed (tool, optional pattern) pair.
type Spec struct {
	Tool       string // lower-cased tool identifier
	Pattern    string // raw pattern text, empty when HasPattern is false
	HasPattern bool
}

// specPattern matches "Tool" or "Tool(pattern)".
var specPattern = regexp.MustCompile(`^(\w+)(?:\(([^)]+)\))?$`)

// ParseSpec parses a single allowed-tools entry.
func ParseSpec(raw string) (Spec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Spec{}, fmt.Errorf("empty permission specification")
	}

	m := specPattern.FindStringSubmatch(raw)
	if m == nil {
		return Spec{}, fmt.Errorf("invalid permission format: %q", raw)
	}

	return Spec{
		Tool:       strings.ToLower(m[1]),
		Pattern:    m[2],
		HasPattern: m[2] != "",
	}, nil
}

// ParseSpecs parses a list of allowed-tools entries, preserving order.
func ParseSpecs(raws []string) ([]Spec, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	specs := make([]Spec, 0, len(raws))
	for _, raw := range raws {
		spec, err := ParseSpec(raw)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// String renders the spec back in its source form.
func (s Spec) String() string {
	if !s.HasPattern {
		return s.Tool
	}
	return fmt.Sprintf("%s(%s)", s.Tool, s.Pattern)
}

// Allows reports whether this spec permits a command with the given tokens.
// A spec without a pattern allows everything for its tool. Otherwise the
// pattern is split on the first colon: the left side must match the command's
// leading tokens exactly; a right side of "*" matches any continuation
// including none; any other right side must match the remaining tokens
// exactly. A pattern with no colon requires an exact token-for-token match.
func (s Spec) Allows(tokens []string) bool {
	if !s.HasPattern {
		return true
	}

	prefix, rest, hasColon := strings.Cut(s.Pattern, ":")
	want := strings.Fields(prefix)
	if len(tokens) < len(want) {
		return false
	}
	for i := range want {
		if tokens[i] != want[i] {
			return false
		}
	}

	remainder := tokens[len(want):]
	if !hasColon {
		return len(remainder) == 0
	}
	if rest == "*" {
		return true
	}
	return strings.Join(remainder, " ") == rest
}

// Decision is the outcome of a permission check.
type Decision struct {
	Allowed bool
	Reason  string // set when not allowed
}

// CheckBash decides whether a shell command may execute under the given
// specs. Every simple command in the input (pipelines, && chains) must be
// allowed by some bash spec; the first matching spec per command grants
// approval. No bash spec at all means the tool is entirely denied.
func CheckBash(command string, specs []Spec) Decision {
	var bashSpecs []Spec
	for _, s := range specs {
		if s.Tool == "bash" {
			bashSpecs = append(bashSpecs, s)
		}
	}
	if len(bashSpecs) == 0 {
		return Decision{Reason: "bash not in allowed-tools"}
	}

	calls := Tokenize(command)
	if len(calls) == 0 {
		return Decision{Reason: "empty command"}
	}

	for _, tokens := range calls {
		if !anyAllows(bashSpecs, tokens) {
			return Decision{Reason: blockReason(bashSpecs)}
		}
	}
	return Decision{Allowed: true}
}

func anyAllows(specs []Spec, tokens []string) bool {
	for _, s := range specs {
		if s.Allows(tokens) {
			return true
		}
	}
	return false
}

func blockReason(specs []Spec) string {
	var patterns []string
	for _, s := range specs {
		if s.HasPattern {
			patterns = append(patterns, s.Pattern)
		}
	}
	if len(patterns) == 0 {
		return "no matching bash permission"
	}
	return fmt.Sprintf("command does not match allowed patterns: %s", strings.Join(patterns, ", "))
}

// Summary returns a human-readable description of the bash grants in specs,
// for listings and diagnostics.
func Summary(specs []Spec) string {
	var patterns []string
	found := false
	for _, s := range specs {
		if s.Tool != "bash" {
			continue
		}
		found = true
		if s.HasPattern {
			patterns = append(patterns, s.Pattern)
		}
	}
	if !found {
		return "no bash commands allowed"
	}
	if len(patterns) == 0 {
		return "all bash commands"
	}
	return strings.Join(patterns, ", ")
}
