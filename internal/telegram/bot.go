package telegram

import (
	"context"
	"fmt"
	"strings"

	"heatmap-telegram-bot/internal/delivery"
	"heatmap-telegram-bot/internal/timeframe"
	"heatmap-telegram-bot/lib/translation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// NewBot creates new telegram bot
func NewBot(c BotConfig) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	b := &Bot{
		Bot:    bot,
		Config: c,
	}
	b.reply = b.SendMessage
	return b, nil
}

// GetUpdatesChannel gets new updates
func (b *Bot) GetUpdatesChannel() (tgbotapi.UpdatesChannel, error) {
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	return b.Bot.GetUpdatesChan(updatesConfig), nil
}

// SendMessage sends a telegram reply message
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyToMessageID = m.MessageID
	msg.DisableWebPagePreview = true
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message to chat %d", m.ChatID)
}

// SendText implements delivery.Sender for plain notices.
func (b *Bot) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send text to chat %d", chatID)
}

// SendPhoto implements delivery.Sender for the heatmap image.
func (b *Bot) SendPhoto(chatID int64, name string, png []byte, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
		Name:  name,
		Bytes: png,
	})
	photo.Caption = caption
	_, err := b.Bot.Send(photo)
	return errors.Wrapf(err, "could not send photo to chat %d", chatID)
}

// HandleUpdate processes one Telegram command and returns the reply
// text. An empty return means the handler already sent its own
// replies. Heatmap deliveries are spawned onto their own goroutines so
// concurrent requests never block each other or the update loop.
func (b *Bot) HandleUpdate(u tgbotapi.Update) string {
	log.Debugf("received command: %s", u.Message.Command())

	switch u.Message.Command() {
	case "start", "help":
		return fmt.Sprintf(
			translation.Translate("Bot started! I will send the %s Bitcoin liquidation heatmap every %d hours. Use /heatmap [timeframe] to get one now."),
			b.Config.DefaultPeriod, b.Config.IntervalHours,
		)
	case "heatmap":
		return b.handleHeatmapCommand(u)
	}

	return fmt.Sprintf(
		translation.Translate("Unknown command. Use /heatmap [timeframe] or /help. Valid timeframes: %s"),
		timeframe.AllowedList(),
	)
}

func (b *Bot) handleHeatmapCommand(u tgbotapi.Update) string {
	period, ok := ResolvePeriod(u.Message.CommandArguments(), b.Config.DefaultPeriod)
	if !ok {
		return fmt.Sprintf(
			translation.Translate("Invalid time frame. Use one of: %s"),
			timeframe.AllowedList(),
		)
	}

	chatID := u.Message.Chat.ID

	// Acknowledge before the delivery goroutine exists, otherwise a
	// fast capture can put the photo ahead of the "please wait" reply.
	ack := fmt.Sprintf(
		translation.Translate("Capturing the latest %s Bitcoin liquidation heatmap, please wait..."),
		period,
	)
	if err := b.reply(Message{ChatID: chatID, MessageID: u.Message.MessageID, Text: ack}); err != nil {
		log.Errorf("could not acknowledge heatmap command in chat %d: %v", chatID, err)
	}

	go func() {
		_ = b.Deliverer.Deliver(context.Background(), delivery.Request{
			ChatID: chatID,
			Period: period,
		})
	}()

	return ""
}

// ResolvePeriod joins the trailing command words and matches them
// against the allow-list. Empty input falls back to the default; an
// unrecognized value is rejected, never silently replaced.
func ResolvePeriod(args string, def timeframe.Period) (timeframe.Period, bool) {
	words := strings.Fields(args)
	if len(words) == 0 {
		return def, true
	}
	return timeframe.Parse(strings.Join(words, " "))
}
