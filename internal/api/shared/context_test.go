package shared

import (
	"context"
	"testing"

	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))

	ctx := SetTraceID(context.Background())
	first := GetTraceID(ctx)
	assert.Len(t, first, 32)
	assert.NotContains(t, first, "-")

	assert.NotEqual(t, first, GetTraceID(SetTraceID(context.Background())))
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	_, ok := GetIdentity(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), auth.Identity{Subject: "frank"})
	id, ok := GetIdentity(ctx)
	assert.True(t, ok)
	assert.Equal(t, "frank", id.Subject)
	assert.False(t, id.Anonymous)
}
