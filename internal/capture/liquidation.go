package capture

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"heatmap-telegram-bot/internal/chart"
	"heatmap-telegram-bot/internal/timeframe"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// LiquidationConfig configures the raw-data strategy.
type LiquidationConfig struct {
	APIURL  string
	Timeout time.Duration
}

// LiquidationAcquirer fetches the numeric series behind the heatmap and
// renders the raster locally. It does not depend on the chart site's
// markup at all, only on the data API's field layout:
//
//	data.y   - price levels, ascending
//	data.x   - time buckets, unix seconds, ascending
//	data.liq - flat [long, short] pairs, time-major: the pair for
//	           (time t, price p) sits at index t*len(y)+p
//
// The flat series is reshaped to [times][prices] and transposed to
// [prices][times] for rendering. A length that does not match
// len(x)*len(y) is a shape mismatch, never a silently garbled image.
type LiquidationAcquirer struct {
	cfg    LiquidationConfig
	client *http.Client
}

func NewLiquidationAcquirer(cfg LiquidationConfig) *LiquidationAcquirer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &LiquidationAcquirer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (a *LiquidationAcquirer) Capture(ctx context.Context, period timeframe.Period) (*Snapshot, error) {
	payload, err := a.fetch(ctx, period)
	if err != nil {
		return nil, err
	}

	prices := gjson.GetBytes(payload, "data.y").Array()
	times := gjson.GetBytes(payload, "data.x").Array()
	cells := gjson.GetBytes(payload, "data.liq").Array()

	matrix, err := reshapeLiquidations(cells, len(times), len(prices))
	if err != nil {
		if log.IsLevelEnabled(log.TraceLevel) {
			log.Tracef("liquidation payload dump: %s", spew.Sdump(cells))
		}
		return nil, err
	}

	priceLabels := make([]string, len(prices))
	for i, p := range prices {
		priceLabels[i] = fmt.Sprintf("%.0f", p.Float())
	}
	timeLabels := make([]string, len(times))
	for i, t := range times {
		timeLabels[i] = time.Unix(t.Int(), 0).UTC().Format("02-Jan 15:04")
	}

	png, err := chart.RenderHeatmap(chart.HeatmapData{
		Title:       fmt.Sprintf("%s Bitcoin Liquidation Heatmap", period.Title()),
		Matrix:      matrix,
		PriceLabels: priceLabels,
		TimeLabels:  timeLabels,
	})
	if err != nil {
		return nil, failf(RenderFailure, err, "could not render heatmap (period %q)", period)
	}

	log.Infof("rendered %s heatmap locally (%dx%d cells)", period, len(prices), len(times))
	return &Snapshot{PNG: png, Period: period, TakenAt: time.Now().UTC()}, nil
}

func (a *LiquidationAcquirer) fetch(ctx context.Context, period timeframe.Period) ([]byte, error) {
	q := url.Values{}
	q.Set("symbol", "BTC")
	q.Set("interval", string(period))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.APIURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, failf(ServiceHTTPError, err, "could not build liquidation data request")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, failf(ServiceHTTPError, err, "liquidation data request failed (period %q)", period)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, failf(ServiceHTTPError,
			errors.Errorf("status %d", resp.StatusCode),
			"liquidation data API rejected request (period %q)", period)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, failf(ServiceHTTPError, err, "could not read liquidation data body")
	}
	if !gjson.ValidBytes(payload) {
		return nil, failf(DataShapeMismatch, errors.New("response is not valid JSON"), "liquidation data unusable")
	}
	return payload, nil
}

// reshapeLiquidations turns the flat time-major [long, short] series
// into a [prices][times] magnitude matrix, summing long and short per
// cell.
func reshapeLiquidations(cells []gjson.Result, numTimes, numPrices int) ([][]float64, error) {
	if numTimes == 0 || numPrices == 0 {
		return nil, failf(DataShapeMismatch,
			errors.Errorf("empty axes: %d times, %d prices", numTimes, numPrices),
			"liquidation data unusable")
	}
	if len(cells) != numTimes*numPrices {
		return nil, failf(DataShapeMismatch,
			errors.Errorf("flat series has %d cells, want %d times x %d prices = %d",
				len(cells), numTimes, numPrices, numTimes*numPrices),
			"liquidation data unusable")
	}

	matrix := make([][]float64, numPrices)
	for p := range matrix {
		matrix[p] = make([]float64, numTimes)
	}
	for i, cell := range cells {
		pair := cell.Array()
		if len(pair) != 2 {
			return nil, failf(DataShapeMismatch,
				errors.Errorf("cell %d has %d components, want [long, short]", i, len(pair)),
				"liquidation data unusable")
		}
		t := i / numPrices
		p := i % numPrices
		matrix[p][t] = pair[0].Float() + pair[1].Float()
	}
	return matrix, nil
}
