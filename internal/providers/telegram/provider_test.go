package telegram

import (
	"context"
	"testing"

	"github.com/smallbiznis/nasiya/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewFromConfigWithoutTokenIsNoOp(t *testing.T) {
	p := NewFromConfig(config.Config{})
	assert.False(t, p.Enabled())
	assert.NoError(t, p.PostMessage(context.Background(), 1, "salom"))
}

func TestBotProviderRequiresChat(t *testing.T) {
	p := NewFromConfig(config.Config{TelegramBotToken: "123:abc"})
	assert.True(t, p.Enabled())
	assert.ErrorIs(t, p.PostMessage(context.Background(), 0, "salom"), ErrNoChat)
}
