package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dendyfood/dendyfood-api/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// OrderNotifier tells the restaurant about a freshly created order.
type OrderNotifier interface {
	NotifyOrder(ctx context.Context, order models.Order) error
}

// Notifiers fans an order out to every configured channel.
type Notifiers []OrderNotifier

func (n Notifiers) NotifyOrder(ctx context.Context, order models.Order) error {
	var errs []error
	for _, notifier := range n {
		if err := notifier.NotifyOrder(ctx, order); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// telegramRequestTimeout bounds each Bot API call, the library has no context support.
const telegramRequestTimeout = 10 * time.Second

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts new orders into the restaurant's Telegram chat.
// The bot is created on first use so that startup does not depend on Telegram.
type TelegramNotifier struct {
	token  string
	chatID int64

	mu  sync.Mutex
	api telegramSender
}

func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{token: token, chatID: chatID}
}

func (t *TelegramNotifier) sender() (telegramSender, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.api != nil {
		return t.api, nil
	}
	api, err := tgbotapi.NewBotAPIWithClient(t.token, tgbotapi.APIEndpoint, &http.Client{Timeout: telegramRequestTimeout})
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	t.api = api
	return api, nil
}

func (t *TelegramNotifier) NotifyOrder(ctx context.Context, order models.Order) error {
	api, err := t.sender()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("telegram send order %d: %w", order.ID, err)
	}

	msg := tgbotapi.NewMessage(t.chatID, SummarizeOrder(order).Text())
	sent := make(chan error, 1)
	go func() {
		_, err := api.Send(msg)
		sent <- err
	}()
	select {
	case err := <-sent:
		if err != nil {
			return fmt.Errorf("telegram send order %d: %w", order.ID, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("telegram send order %d: %w", order.ID, ctx.Err())
	}
}
