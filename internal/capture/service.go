package capture

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"heatmap-telegram-bot/internal/timeframe"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ServiceConfig configures the remote screenshot-service strategy.
type ServiceConfig struct {
	APIURL           string
	APIKey           string
	PageURL          string
	DropdownSelector string
	ChartSelector    string
	Timeout          time.Duration
}

// ServiceAcquirer delegates rendering to a screenshot API: one request
// carrying the page URL, the chart selector to crop to, and an inline
// script that switches the time-period dropdown before capture. The
// service answers with PNG bytes or an HTTP error.
type ServiceAcquirer struct {
	cfg    ServiceConfig
	client *http.Client
}

func NewServiceAcquirer(cfg ServiceConfig) *ServiceAcquirer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &ServiceAcquirer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (a *ServiceAcquirer) Capture(ctx context.Context, period timeframe.Period) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.requestURL(period), nil)
	if err != nil {
		return nil, failf(ServiceHTTPError, err, "could not build screenshot request")
	}

	log.Debugf("requesting remote screenshot for %q", period)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, failf(ServiceHTTPError, err, "screenshot service request failed (period %q)", period)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, failf(ServiceHTTPError,
			errors.Errorf("status %d: %s", resp.StatusCode, body),
			"screenshot service rejected request (period %q)", period)
	}

	png, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, failf(ServiceHTTPError, err, "could not read screenshot body")
	}

	log.Infof("received %s heatmap screenshot from service (%s)", period, humanize.Bytes(uint64(len(png))))
	return &Snapshot{PNG: png, Period: period, TakenAt: time.Now().UTC()}, nil
}

func (a *ServiceAcquirer) requestURL(period timeframe.Period) string {
	q := url.Values{}
	q.Set("access_key", a.cfg.APIKey)
	q.Set("url", a.cfg.PageURL)
	q.Set("selector", a.cfg.ChartSelector)
	q.Set("format", "png")
	q.Set("js", a.selectPeriodScript(period))
	return a.cfg.APIURL + "?" + q.Encode()
}

// selectPeriodScript reproduces the dropdown-select sequence on the
// remote renderer: open the dropdown, click the option matching the
// requested label, then let the chart redraw before capture.
func (a *ServiceAcquirer) selectPeriodScript(period timeframe.Period) string {
	return fmt.Sprintf(
		`var d=document.querySelector(%q);`+
			`if(d&&d.textContent.trim()!==%q){d.click();`+
			`setTimeout(function(){`+
			`var o=Array.from(document.querySelectorAll('li[role="option"]')).find(function(e){return e.textContent.trim()===%q;});`+
			`if(o){o.click();}},1000);}`,
		a.cfg.DropdownSelector, string(period), string(period),
	)
}
