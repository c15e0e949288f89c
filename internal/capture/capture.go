package capture

import (
	"context"
	"fmt"
	"time"

	"heatmap-telegram-bot/config"
	"heatmap-telegram-bot/internal/timeframe"

	"github.com/pkg/errors"
)

// Snapshot is one acquired heatmap image. It is single-use: the
// orchestrator consumes it once and nothing caches it.
type Snapshot struct {
	PNG     []byte
	Period  timeframe.Period
	TakenAt time.Time
}

// Acquirer produces a complete PNG for the requested period or an
// error, never a partial image. Implementations must bound every wait
// and release any session they open on all exit paths.
type Acquirer interface {
	Capture(ctx context.Context, period timeframe.Period) (*Snapshot, error)
}

// Kind tags the failure modes an acquisition can hit. All of them are
// per-request: the caller reports them and moves on.
type Kind string

const (
	NavigationTimeout Kind = "navigation_timeout"
	SelectorNotFound  Kind = "selector_not_found"
	ServiceHTTPError  Kind = "service_http_error"
	DataShapeMismatch Kind = "data_shape_mismatch"
	RenderFailure     Kind = "render_failure"
)

// Error is a tagged acquisition failure.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.err)
}

func (e *Error) Unwrap() error { return e.err }

func failf(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, err: errors.Wrapf(err, format, args...)}
}

// KindOf extracts the failure kind from an acquisition error, or ""
// when the error did not come from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// FromConfig builds the acquirer selected by capture_strategy.
func FromConfig() (Acquirer, error) {
	strategy := config.GetString("capture_strategy")
	switch strategy {
	case "browser":
		return NewBrowserAcquirer(BrowserConfig{
			PageURL:          config.GetString("heatmap_url"),
			DropdownSelector: config.GetString("dropdown_selector"),
			ChartSelector:    config.GetString("chart_selector"),
			RemoteURL:        config.GetString("remote_browser_url"),
		}), nil
	case "service":
		return NewServiceAcquirer(ServiceConfig{
			APIURL:           config.GetString("screenshot_api_url"),
			APIKey:           config.GetString("screenshot_api_key"),
			PageURL:          config.GetString("heatmap_url"),
			DropdownSelector: config.GetString("dropdown_selector"),
			ChartSelector:    config.GetString("chart_selector"),
		}), nil
	case "render":
		return NewLiquidationAcquirer(LiquidationConfig{
			APIURL: config.GetString("liquidation_api_url"),
		}), nil
	}
	return nil, errors.Errorf("unknown capture strategy: %s", strategy)
}
