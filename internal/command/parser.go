package command

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/slashcmd/slashcmd/internal/permission"
)

// metadata mirrors the recognized frontmatter keys. Unknown keys are ignored
// by the YAML decode for forward compatibility.
type metadata struct {
	Description            string   `yaml:"description"`
	ArgumentHint           string   `yaml:"argument-hint"`
	AllowedTools           []string `yaml:"allowed-tools"`
	Model                  string   `yaml:"model"`
	MaxChars               int      `yaml:"max-chars"`
	RequiresApproval       bool     `yaml:"requires-approval"`
	ApprovalMessage        string   `yaml:"approval-message"`
	DisableModelInvocation bool     `yaml:"disable-model-invocation"`
}

// ParseFile parses a command definition file. The name is the file stem and
// the namespace comes from the caller's directory walk.
func ParseFile(path, scope string, namespace []string) (*Definition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &MalformedDefinitionError{Path: path, Err: err}
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	def, err := Parse(string(content), name, scope, namespace)
	if err != nil {
		return nil, err
	}
	def.SourcePath = path
	return def, nil
}

// Parse parses raw command file content into a Definition.
func Parse(content, name, scope string, namespace []string) (*Definition, error) {
	fail := func(err error) (*Definition, error) {
		return nil, &MalformedDefinitionError{Path: name, Err: err}
	}

	if name == "" || strings.ContainsAny(name, `/\`) {
		return fail(fmt.Errorf("invalid command name %q", name))
	}

	front, body, err := splitFrontmatter(content)
	if err != nil {
		return fail(err)
	}

	var meta metadata
	if err := yaml.Unmarshal([]byte(front), &meta); err != nil {
		return fail(fmt.Errorf("invalid YAML frontmatter: %w", err))
	}
	if meta.Description == "" {
		return fail(fmt.Errorf("missing required 'description' field"))
	}
	if meta.MaxChars < 0 {
		return fail(fmt.Errorf("'max-chars' must be a positive integer, got %d", meta.MaxChars))
	}

	specs, err := permission.ParseSpecs(meta.AllowedTools)
	if err != nil {
		return fail(fmt.Errorf("invalid 'allowed-tools' entry: %w", err))
	}

	return &Definition{
		Name:                   name,
		Scope:                  scope,
		Namespace:              append([]string{}, namespace...),
		Description:            meta.Description,
		ArgumentHint:           meta.ArgumentHint,
		AllowedTools:           specs,
		Model:                  meta.Model,
		MaxChars:               meta.MaxChars,
		RequiresApproval:       meta.RequiresApproval,
		ApprovalMessage:        meta.ApprovalMessage,
		DisableModelInvocation: meta.DisableModelInvocation,
		Body:                   body,
	}, nil
}

// splitFrontmatter splits content into the YAML header and the template body.
// The body is returned verbatim, with its original whitespace intact, so byte
// offsets of bash and file-reference markers are preserved.
func splitFrontmatter(content string) (front, body string, err error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || !isDelimiter(lines[0]) {
		return "", "", fmt.Errorf("missing frontmatter delimiter")
	}

	for i := 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), nil
		}
	}
	return "", "", fmt.Errorf("unterminated frontmatter block")
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\r") == "---"
}
