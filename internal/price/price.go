package price

import (
	"context"
	"net/http"
	"time"

	"github.com/coinpaprika/coinpaprika-api-go-client/v2/coinpaprika"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	trackedCoinID = "btc-bitcoin"
	fetchTimeout  = 10 * time.Second
)

// Quote is one spot-price reading, already formatted for captions.
type Quote struct {
	Display   string
	FetchedAt time.Time
}

// Service fetches the tracked asset's spot price. Every failure mode
// (transport error, non-200, missing quote) collapses into absence so
// caption composition can proceed without a price line.
type Service struct {
	client *coinpaprika.Client
	coinID string
}

func NewService(apiKey string) *Service {
	httpClient := &http.Client{Timeout: fetchTimeout}

	var client *coinpaprika.Client
	if apiKey != "" {
		client = coinpaprika.NewClient(httpClient, coinpaprika.WithAPIKey(apiKey))
	} else {
		client = coinpaprika.NewClient(httpClient)
	}

	return &Service{client: client, coinID: trackedCoinID}
}

// Current returns the formatted spot price, or false when no usable
// quote could be fetched. ctx is accepted for signature symmetry with
// the other remote calls but goes unused: the coinpaprika client
// exposes no context-aware methods, so fetchTimeout on the underlying
// HTTP client is the only bound.
func (s *Service) Current(ctx context.Context) (Quote, bool) {
	ticker, err := s.client.Tickers.GetByID(s.coinID, &coinpaprika.TickersOptions{Quotes: "USD"})
	if err != nil {
		log.Errorf("price lookup failed for %s: %v", s.coinID, err)
		return Quote{}, false
	}

	usd, ok := ticker.Quotes["USD"]
	if !ok || usd.Price == nil {
		log.Errorf("price lookup returned no USD quote for %s", s.coinID)
		return Quote{}, false
	}

	return Quote{
		Display:   FormatUSD(*usd.Price),
		FetchedAt: time.Now().UTC(),
	}, true
}

// FormatUSD renders a price with a currency symbol, thousands
// separators and two decimals, e.g. 64321.5 -> "$64,321.50".
func FormatUSD(value float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("$%.2f", value)
}
