package permission

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Tokenize splits a shell command into the word tokens of each simple command
// it contains, using the bash grammar. "git add . && rm -rf x" yields two
// token lists. Falls back to whitespace splitting when the input does not
// parse as shell.
func Tokenize(command string) [][]string {
	parser := syntax.NewParser(
		syntax.Variant(syntax.LangBash),
		syntax.KeepComments(false),
	)

	file, err := parser.Parse(strings.NewReader(command), "")
	if err != nil {
		fields := strings.Fields(command)
		if len(fields) == 0 {
			return nil
		}
		return [][]string{fields}
	}

	var calls [][]string
	syntax.Walk(file, func(node syntax.Node) bool {
		if call, ok := node.(*syntax.CallExpr); ok {
			if tokens := callTokens(call); len(tokens) > 0 {
				calls = append(calls, tokens)
			}
		}
		return true
	})
	return calls
}

func callTokens(call *syntax.CallExpr) []string {
	tokens := make([]string, 0, len(call.Args))
	for _, arg := range call.Args {
		if tok := wordToString(arg); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// wordToString flattens a syntax.Word to its literal text. Dynamic parts are
// kept as opaque placeholders so they can never satisfy a literal pattern
// token by accident.
func wordToString(word *syntax.Word) string {
	var sb strings.Builder
	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, qp := range p.Parts {
				if lit, ok := qp.(*syntax.Lit); ok {
					sb.WriteString(lit.Value)
				}
			}
		case *syntax.ParamExp:
			sb.WriteString("$" + p.Param.Value)
		case *syntax.CmdSubst:
			sb.WriteString("$()")
		}
	}
	return sb.String()
}
