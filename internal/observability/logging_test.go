package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextAccumulatesIdentifiers(t *testing.T) {
	ctx := context.Background()
	ctx = WithRunID(ctx, "run-1")
	ctx = WithStage(ctx, "generation")
	ctx = WithProject(ctx, "demo")

	lc := GetContext(ctx)
	assert.Equal(t, "run-1", lc.RunID)
	assert.Equal(t, "generation", lc.Stage)
	assert.Equal(t, "demo", lc.Project)
}

func TestContextOverwriteKeepsOtherFields(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithStage(ctx, "validation")
	ctx = WithStage(ctx, "packaging")

	lc := GetContext(ctx)
	assert.Equal(t, "run-1", lc.RunID)
	assert.Equal(t, "packaging", lc.Stage)
}

func TestEmptyContext(t *testing.T) {
	lc := GetContext(context.Background())
	assert.Empty(t, lc.RunID)
	assert.Empty(t, getLogAttrs(context.Background()))
}
