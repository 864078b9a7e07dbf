package telegram

import (
	"context"
	"errors"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrNoChat = errors.New("telegram_chat_not_configured")

type Provider interface {
	PostMessage(ctx context.Context, chatID int64, message string) error
	Enabled() bool
}

type NoOpProvider struct{}

func (p *NoOpProvider) PostMessage(ctx context.Context, chatID int64, message string) error {
	return nil
}

func (p *NoOpProvider) Enabled() bool { return false }

type Config struct {
	Token   string
	Timeout time.Duration
}

// BotProvider sends plain text messages through the Bot API. It skips the
// getMe handshake so an unreachable API never blocks startup.
type BotProvider struct {
	api *tgbotapi.BotAPI
}

func NewBot(cfg Config) *BotProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	api := &tgbotapi.BotAPI{
		Token:  cfg.Token,
		Client: &http.Client{Timeout: timeout},
		Buffer: 100,
	}
	api.SetAPIEndpoint(tgbotapi.APIEndpoint)
	return &BotProvider{api: api}
}

func (p *BotProvider) Enabled() bool { return true }

func (p *BotProvider) PostMessage(ctx context.Context, chatID int64, message string) error {
	if chatID == 0 {
		return ErrNoChat
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, message)
	msg.DisableWebPagePreview = true
	_, err := p.api.Send(msg)
	return err
}
