package raven

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/strongdm/raven-observe/pkg/raven/contexts"
)

func TestContextWithTags_Merges(t *testing.T) {
	ctx := ContextWithTags(context.Background(), map[string]string{"a": "1", "b": "1"})
	child := ContextWithTags(ctx, map[string]string{"b": "2"})

	assert.Equal(t, map[string]string{"a": "1", "b": "1"}, TagsFromContext(ctx), "parent is unchanged")
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, TagsFromContext(child))
	assert.Nil(t, TagsFromContext(context.Background()))
}

func TestContextWithUser(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithUser(context.Background(), contexts.User{ID: "1"})
	u, ok := UserFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "1", u.ID)
}

func TestRunID(t *testing.T) {
	_, ok := RunIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = RunIDFromContext(WithRunID(context.Background(), ""))
	assert.False(t, ok, "empty run ID is treated as unset")

	id, ok := RunIDFromContext(WithRunID(context.Background(), "run-1"))
	assert.True(t, ok)
	assert.Equal(t, "run-1", id)
}

func TestContextID(t *testing.T) {
	_, ok := ContextIDFromContext(context.Background())
	assert.False(t, ok)

	id, ok := ContextIDFromContext(WithContextID(context.Background(), 0))
	assert.True(t, ok, "zero is a valid context ID")
	assert.Equal(t, uint64(0), id)

	id, ok = ContextIDFromContext(WithContextID(context.Background(), 42))
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)
}
