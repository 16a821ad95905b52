package raven

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreadcrumbTrail_EvictsOldest(t *testing.T) {
	ctx := WithBreadcrumbs(context.Background(), 3)

	for i := 1; i <= 5; i++ {
		require.True(t, AddBreadcrumb(ctx, Breadcrumb{Message: fmt.Sprintf("op%d", i)}))
	}

	crumbs := BreadcrumbsFromContext(ctx)
	require.Len(t, crumbs, 3)
	assert.Equal(t, "op3", crumbs[0].Message, "oldest surviving record first")
	assert.Equal(t, "op4", crumbs[1].Message)
	assert.Equal(t, "op5", crumbs[2].Message)
}

func TestBreadcrumbTrail_PartiallyFilled(t *testing.T) {
	ctx := WithBreadcrumbs(context.Background(), 0)

	AddBreadcrumb(ctx, Breadcrumb{Message: "a"})
	AddBreadcrumb(ctx, Breadcrumb{Message: "b"})

	crumbs := BreadcrumbsFromContext(ctx)
	require.Len(t, crumbs, 2)
	assert.Equal(t, "a", crumbs[0].Message)
	assert.Equal(t, "b", crumbs[1].Message)
}

func TestAddBreadcrumb_WithoutTrail(t *testing.T) {
	assert.False(t, AddBreadcrumb(context.Background(), Breadcrumb{Message: "lost"}))
	assert.Nil(t, BreadcrumbsFromContext(context.Background()))
}

func TestAddBreadcrumb_FillsTimestamp(t *testing.T) {
	ctx := WithBreadcrumbs(context.Background(), 5)
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	AddBreadcrumb(ctx, Breadcrumb{Message: "now"})
	AddBreadcrumb(ctx, Breadcrumb{Message: "fixed", Timestamp: fixed})

	crumbs := BreadcrumbsFromContext(ctx)
	assert.False(t, crumbs[0].Timestamp.IsZero())
	assert.Equal(t, fixed, crumbs[1].Timestamp)
}

func TestBreadcrumbsFromContext_ReturnsCopy(t *testing.T) {
	ctx := WithBreadcrumbs(context.Background(), 5)
	AddBreadcrumb(ctx, Breadcrumb{Message: "original"})

	crumbs := BreadcrumbsFromContext(ctx)
	crumbs[0].Message = "changed"

	assert.Equal(t, "original", BreadcrumbsFromContext(ctx)[0].Message)
}
