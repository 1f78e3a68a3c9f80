package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(t *testing.T, files map[string]string) *Executor {
	t.Helper()

	commandDir := t.TempDir()
	writeCommands(t, commandDir, files)

	registry := NewRegistry(commandDir, "")
	registry.Reload(context.Background())

	return NewExecutor(registry, t.TempDir())
}

func TestExecute_FillsResultMetadata(t *testing.T) {
	e := newTestExecutor(t, map[string]string{
		"deploy.md": `---
description: Deploy
model: fast-model
requires-approval: true
approval-message: Touches production
---
Deploy $1.
`,
	})

	res, err := e.Execute(context.Background(), "deploy", []string{"staging"})
	require.NoError(t, err)

	assert.Equal(t, "Deploy staging.\n", res.Prompt)
	assert.NotEmpty(t, res.InvocationID)
	assert.Equal(t, "fast-model", res.ModelOverride)
	assert.True(t, res.RequiresApproval)
	assert.Equal(t, "Touches production", res.ApprovalMessage)
}

func TestExecute_UniqueInvocationIDs(t *testing.T) {
	e := newTestExecutor(t, map[string]string{
		"ping.md": defFile("ping", "pong"),
	})

	a, err := e.Execute(context.Background(), "ping", nil)
	require.NoError(t, err)
	b, err := e.Execute(context.Background(), "ping", nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.InvocationID, b.InvocationID)
}

func TestExecute_NotFound(t *testing.T) {
	e := newTestExecutor(t, map[string]string{
		"deploy.md": defFile("deploy", "x"),
	})

	_, err := e.Execute(context.Background(), "depoy", nil)
	require.Error(t, err)

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "depoy", notFound.Ref)
	assert.Contains(t, notFound.Suggestions, "deploy")
	assert.Contains(t, notFound.Error(), "did you mean")
}

func TestExecute_NotFoundNoSuggestions(t *testing.T) {
	e := newTestExecutor(t, map[string]string{})

	_, err := e.Execute(context.Background(), "ghost", nil)
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Empty(t, notFound.Suggestions)
	assert.Equal(t, "command not found: /ghost", notFound.Error())
}

func TestList_SkipsNonDiscoverable(t *testing.T) {
	e := newTestExecutor(t, map[string]string{
		"visible.md": defFile("shown", "x"),
		"helper.md":  "---\ndescription: hidden\ndisable-model-invocation: true\n---\nx",
	})

	infos := e.List()
	require.Len(t, infos, 1)
	assert.Equal(t, "visible", infos[0].Name)
	assert.Equal(t, "project:visible", infos[0].Namespace)
	assert.Equal(t, "shown", infos[0].Description)
}
