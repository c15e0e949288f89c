package delivery

import (
	"context"
	"fmt"

	"heatmap-telegram-bot/internal/capture"
	"heatmap-telegram-bot/internal/price"
	"heatmap-telegram-bot/internal/timeframe"
	"heatmap-telegram-bot/lib/translation"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Request is one user- or scheduler-initiated ask. It is terminal on
// success (photo sent) or failure (error notice sent); requests are
// never retried, cached or deduplicated.
type Request struct {
	ChatID int64
	Period timeframe.Period
}

// Sender is the messaging collaborator. Implementations must be safe
// for concurrent use: requests run on independent goroutines.
type Sender interface {
	SendText(chatID int64, text string) error
	SendPhoto(chatID int64, name string, png []byte, caption string) error
}

// Quoter supplies the optional price line. Absence is an expected
// outcome, not an error.
type Quoter interface {
	Current(ctx context.Context) (price.Quote, bool)
}

// Orchestrator sequences one request through
// Acquiring -> Pricing -> Composing -> Delivered|Failed.
type Orchestrator struct {
	acquirer capture.Acquirer
	quoter   Quoter
	sender   Sender
}

func NewOrchestrator(acquirer capture.Acquirer, quoter Quoter, sender Sender) *Orchestrator {
	return &Orchestrator{acquirer: acquirer, quoter: quoter, sender: sender}
}

// Deliver runs the request to a terminal state. Acquisition failure
// sends exactly one text apology and no photo; everything after a
// successful acquisition that still fails sends a generic notice. The
// returned error is for callers that want to observe the outcome; the
// user-facing reporting has already happened either way.
func (o *Orchestrator) Deliver(ctx context.Context, req Request) (err error) {
	logger := log.WithFields(log.Fields{
		"chat_id": req.ChatID,
		"period":  req.Period.String(),
	})

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("delivery panicked: %v", r)
			logger.Errorf("delivery panicked: %v", r)
			o.reportFailure(logger, req.ChatID, translation.Translate("Something went wrong while preparing the heatmap. Please try again later."))
			requestsTotal.WithLabelValues(outcomeFailed).Inc()
		}
	}()

	logger.Debug("acquiring heatmap snapshot")
	snap, err := o.acquirer.Capture(ctx, req.Period)
	if err != nil {
		logger.Errorf("acquisition failed (%s): %v", capture.KindOf(err), err)
		o.reportFailure(logger, req.ChatID, fmt.Sprintf(
			translation.Translate("❌ Failed to capture the %s heatmap. Please try again later."),
			req.Period,
		))
		requestsTotal.WithLabelValues(outcomeFailed).Inc()
		return err
	}

	logger.Debug("fetching price quote")
	var priceDisplay string
	if quote, ok := o.quoter.Current(ctx); ok {
		priceDisplay = quote.Display
	} else {
		logger.Debug("price unavailable, caption will omit the price line")
	}

	caption := BuildCaption(req.Period, snap.TakenAt, priceDisplay)

	if err := o.sender.SendPhoto(req.ChatID, "heatmap.png", snap.PNG, caption); err != nil {
		logger.Errorf("photo send failed: %v", err)
		o.reportFailure(logger, req.ChatID, translation.Translate("Something went wrong while sending the heatmap. Please try again later."))
		requestsTotal.WithLabelValues(outcomeFailed).Inc()
		return errors.Wrap(err, "could not send heatmap photo")
	}

	logger.Info("heatmap delivered")
	requestsTotal.WithLabelValues(outcomeDelivered).Inc()
	return nil
}

// reportFailure sends the failure notice. If even that send fails it
// is logged and swallowed; a notice must never crash the request's
// goroutine.
func (o *Orchestrator) reportFailure(logger *log.Entry, chatID int64, notice string) {
	if err := o.sender.SendText(chatID, notice); err != nil {
		logger.Errorf("failure notice could not be sent: %v", err)
	}
}
