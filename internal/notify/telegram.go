// Package notify pushes short run notifications to Telegram. Delivery is
// best effort: the digest email is the primary output and a failed
// notification never fails the pipeline.
package notify

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"
)

type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type Telegram struct {
	bot    sender
	chatID int64
}

// NewTelegram creates a one-shot notifier. Unlike an interactive bot there
// is no poller; the bot handle is only used to push messages.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tele.NewBot(tele.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

func (t *Telegram) Notify(ctx context.Context, text string) error {
	done := make(chan error, 1)
	go func() {
		_, err := t.bot.Send(tele.ChatID(t.chatID), text)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send telegram notification: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(15 * time.Second):
		return fmt.Errorf("send telegram notification: timed out")
	}
}
