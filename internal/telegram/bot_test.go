package telegram

import (
	"context"
	"testing"
	"time"

	"heatmap-telegram-bot/internal/delivery"
	"heatmap-telegram-bot/internal/timeframe"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeliverer struct {
	reqs chan delivery.Request
}

func (f *fakeDeliverer) Deliver(_ context.Context, req delivery.Request) error {
	f.reqs <- req
	return nil
}

func newTestBot(d Deliverer) (*Bot, *[]Message) {
	var acks []Message
	b := &Bot{
		Config:    BotConfig{DefaultPeriod: timeframe.Month1, IntervalHours: 4},
		Deliverer: d,
	}
	b.reply = func(m Message) error {
		acks = append(acks, m)
		return nil
	}
	return b, &acks
}

func commandUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 7,
			Text:      text,
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len("/heatmap")}},
			Chat:      &tgbotapi.Chat{ID: 42},
		},
	}
}

func TestHandleUpdateRejectsUnknownTimeframeWithoutDelivering(t *testing.T) {
	d := &fakeDeliverer{reqs: make(chan delivery.Request, 1)}
	b, acks := newTestBot(d)

	reply := b.HandleUpdate(commandUpdate("/heatmap 2 hour"))

	assert.Contains(t, reply, "Invalid time frame")
	assert.Contains(t, reply, timeframe.AllowedList())
	assert.Empty(t, *acks)

	select {
	case req := <-d.reqs:
		t.Fatalf("delivery started for a rejected timeframe: %+v", req)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandleUpdateAcknowledgesThenDeliversOnce(t *testing.T) {
	d := &fakeDeliverer{reqs: make(chan delivery.Request, 2)}
	b, acks := newTestBot(d)

	reply := b.HandleUpdate(commandUpdate("/heatmap 24 hour"))
	assert.Empty(t, reply, "the handler replies on its own")

	var req delivery.Request
	select {
	case req = <-d.reqs:
	case <-time.After(2 * time.Second):
		t.Fatal("delivery never started")
	}
	assert.Equal(t, int64(42), req.ChatID)
	assert.Equal(t, timeframe.Hour24, req.Period)

	// The acknowledgement precedes the delivery goroutine, so it must
	// already be recorded by the time Deliver runs.
	require.Len(t, *acks, 1)
	ack := (*acks)[0]
	assert.Equal(t, int64(42), ack.ChatID)
	assert.Equal(t, 7, ack.MessageID)
	assert.Contains(t, ack.Text, "24 hour")
	assert.Contains(t, ack.Text, "please wait")

	select {
	case req = <-d.reqs:
		t.Fatalf("delivery started twice: %+v", req)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestResolvePeriodDefaultsWhenEmpty(t *testing.T) {
	period, ok := ResolvePeriod("", timeframe.Month1)
	assert.True(t, ok)
	assert.Equal(t, timeframe.Month1, period)

	period, ok = ResolvePeriod("   ", timeframe.Hour24)
	assert.True(t, ok)
	assert.Equal(t, timeframe.Hour24, period)
}

func TestResolvePeriodJoinsTrailingWords(t *testing.T) {
	period, ok := ResolvePeriod("24 hour", timeframe.Month1)
	assert.True(t, ok)
	assert.Equal(t, timeframe.Hour24, period)

	period, ok = ResolvePeriod("  1   week ", timeframe.Month1)
	assert.True(t, ok)
	assert.Equal(t, timeframe.Week1, period)
}

func TestResolvePeriodRejectsUnknownValues(t *testing.T) {
	for _, raw := range []string{"2 hour", "24 Hour", "1 month extra", "soon"} {
		_, ok := ResolvePeriod(raw, timeframe.Month1)
		assert.False(t, ok, "expected %q to be rejected", raw)
	}
}
