package telegram

import (
	"context"

	"heatmap-telegram-bot/internal/delivery"
	"heatmap-telegram-bot/internal/timeframe"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotConfig configuration of the bot
type BotConfig struct {
	Token          string
	Debug          bool
	UpdatesTimeout int
	DefaultPeriod  timeframe.Period
	IntervalHours  int
}

// Deliverer runs one heatmap request to a terminal state.
type Deliverer interface {
	Deliver(ctx context.Context, req delivery.Request) error
}

// Bot telegram interaction client. The underlying API client is a
// stateless wrapper over http.Client and is safe for concurrent use,
// so requests running on separate goroutines share it without a
// send queue.
type Bot struct {
	Bot    *tgbotapi.BotAPI
	Config BotConfig

	// Deliverer is set once at wiring time, before updates flow.
	Deliverer Deliverer

	// reply sends command acknowledgements. It is an indirection over
	// SendMessage so dispatch logic stays testable without a live
	// API client.
	reply func(Message) error
}

// Message a telegram reply struct
type Message struct {
	ChatID    int64
	MessageID int
	Text      string
}
