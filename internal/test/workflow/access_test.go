package workflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"newsflow-backend/internal/workflow"
)

func TestCanView(t *testing.T) {
	store := newFakeStore()
	engine := workflow.NewEngine(store)
	owner := store.addUser("owner")
	writer := store.addUser("writer")
	editor := store.addUser("editor")
	publisher := store.addUser("publisher")
	outsider := store.addUser("outsider")
	res := newProject(t, store, engine, owner, writer, editor, publisher)

	ctx := context.Background()

	ok, err := workflow.CanView(ctx, store, owner, res.Project)
	require.NoError(t, err)
	assert.True(t, ok, "owner can view")

	// Assignees of any step can view, not just the active one.
	ok, err = workflow.CanView(ctx, store, publisher, res.Project)
	require.NoError(t, err)
	assert.True(t, ok, "pending-step assignee can view")

	ok, err = workflow.CanView(ctx, store, outsider, res.Project)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsCurrentAssignee(t *testing.T) {
	store := newFakeStore()
	engine := workflow.NewEngine(store)
	owner := store.addUser("owner")
	writer := store.addUser("writer")
	editor := store.addUser("editor")
	publisher := store.addUser("publisher")
	res := newProject(t, store, engine, owner, writer, editor, publisher)

	ctx := context.Background()

	ok, err := workflow.IsCurrentAssignee(ctx, store, writer, res.Project)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = workflow.IsCurrentAssignee(ctx, store, editor, res.Project)
	require.NoError(t, err)
	assert.False(t, ok, "editor waits at step 2")

	// A completed project has no active step.
	_, err = engine.Forward(ctx, writer, res.Project.ID, "")
	require.NoError(t, err)
	_, err = engine.Forward(ctx, editor, res.Project.ID, "")
	require.NoError(t, err)
	final, err := engine.Forward(ctx, publisher, res.Project.ID, "")
	require.NoError(t, err)

	ok, err = workflow.IsCurrentAssignee(ctx, store, publisher, final.Project)
	require.NoError(t, err)
	assert.False(t, ok)
}
