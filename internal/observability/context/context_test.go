package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = WithRequestID(ctx, "  01HZX  ")
	ctx = WithActor(ctx, "scheduler", "overdue_sweep")
	ctx = WithClient(ctx, "10.0.0.1", "curl/8")

	assert.Equal(t, "01HZX", RequestIDFromContext(ctx))
	kind, id := ActorFromContext(ctx)
	assert.Equal(t, "scheduler", kind)
	assert.Equal(t, "overdue_sweep", id)
	ip, ua := ClientFromContext(ctx)
	assert.Equal(t, "10.0.0.1", ip)
	assert.Equal(t, "curl/8", ua)
}

func TestWithRequestIDIgnoresBlank(t *testing.T) {
	ctx := WithRequestID(context.Background(), "   ")
	assert.Empty(t, RequestIDFromContext(ctx))
}
