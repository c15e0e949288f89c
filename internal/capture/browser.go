package capture

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"heatmap-telegram-bot/internal/timeframe"

	"github.com/chromedp/chromedp"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// captureScale raises the device pixel ratio of the element shot so
	// the heatmap stays legible inside Telegram previews.
	captureScale = 2.0

	defaultSessionTimeout = 90 * time.Second
	defaultSettleDelay    = 4 * time.Second
	debugScreenshotPath   = "debug_screenshot.png"
)

// BrowserConfig configures the headless-browser strategy.
type BrowserConfig struct {
	PageURL          string
	DropdownSelector string
	ChartSelector    string
	// RemoteURL is a DevTools websocket address. When set, the capture
	// attaches to that browser instead of launching a local one.
	RemoteURL      string
	SessionTimeout time.Duration
	SettleDelay    time.Duration
}

// BrowserAcquirer drives a headless Chrome session: navigate, switch
// the time-period dropdown when needed, and screenshot the chart
// container. A fresh isolated session is opened per capture and torn
// down on every exit path.
type BrowserAcquirer struct {
	cfg BrowserConfig
}

func NewBrowserAcquirer(cfg BrowserConfig) *BrowserAcquirer {
	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = defaultSessionTimeout
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = defaultSettleDelay
	}
	return &BrowserAcquirer{cfg: cfg}
}

func (a *BrowserAcquirer) Capture(ctx context.Context, period timeframe.Period) (*Snapshot, error) {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.cfg.SessionTimeout)
	defer cancelTimeout()

	ctx, closeSession := a.newSession(ctx)
	defer closeSession()

	log.Debugf("starting browser capture for %q", period)

	var current string
	err := chromedp.Run(ctx,
		chromedp.Navigate(a.cfg.PageURL),
		chromedp.WaitReady("#root", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.Text(a.cfg.DropdownSelector, &current, chromedp.ByQuery, chromedp.NodeVisible),
	)
	if err != nil {
		return nil, a.fail(ctx, period, err, "heatmap page did not load")
	}

	current = strings.TrimSpace(current)
	log.Debugf("period on page: %q, requested: %q", current, period)

	if current != string(period) {
		option := fmt.Sprintf(`//li[@role='option' and text()=%q]`, string(period))
		err = chromedp.Run(ctx,
			chromedp.Click(a.cfg.DropdownSelector, chromedp.ByQuery, chromedp.NodeVisible),
			chromedp.WaitVisible(option, chromedp.BySearch),
			chromedp.Click(option, chromedp.BySearch),
			// The chart redraws asynchronously after the option click.
			chromedp.Sleep(a.cfg.SettleDelay),
		)
		if err != nil {
			return nil, a.fail(ctx, period, err, "could not switch time period")
		}
	} else {
		// Already selected; give the chart a moment to finish painting.
		_ = chromedp.Run(ctx, chromedp.Sleep(2*time.Second))
	}

	var png []byte
	err = chromedp.Run(ctx,
		chromedp.WaitVisible(a.cfg.ChartSelector, chromedp.ByQuery),
		chromedp.ScreenshotScale(a.cfg.ChartSelector, captureScale, &png, chromedp.NodeVisible, chromedp.ByQuery),
	)
	if err != nil {
		return nil, a.fail(ctx, period, err, "could not screenshot chart container")
	}

	// A working pipeline should not leave a stale diagnostic behind.
	removeDebugArtifact(debugScreenshotPath)

	log.Infof("captured %s heatmap screenshot (%s)", period, humanize.Bytes(uint64(len(png))))
	return &Snapshot{PNG: png, Period: period, TakenAt: time.Now().UTC()}, nil
}

// newSession opens an isolated browser context, remote when configured.
func (a *BrowserAcquirer) newSession(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.RemoteURL != "" {
		allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, a.cfg.RemoteURL)
		taskCtx, cancelTask := chromedp.NewContext(allocCtx)
		return taskCtx, func() {
			cancelTask()
			cancelAlloc()
		}
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.WindowSize(2400, 1600),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	return taskCtx, func() {
		cancelTask()
		cancelAlloc()
	}
}

func (a *BrowserAcquirer) fail(ctx context.Context, period timeframe.Period, cause error, msg string) error {
	a.saveDebugScreenshot(ctx)

	kind := SelectorNotFound
	if errors.Is(cause, context.DeadlineExceeded) {
		kind = NavigationTimeout
	}
	return failf(kind, cause, "%s (period %q)", msg, period)
}

// saveDebugScreenshot grabs a best-effort full-page shot so a failed
// run can be diagnosed without reproducing it.
func (a *BrowserAcquirer) saveDebugScreenshot(ctx context.Context) {
	shotCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	var png []byte
	if err := chromedp.Run(shotCtx, chromedp.FullScreenshot(&png, 90)); err != nil {
		log.Errorf("debug screenshot failed: %v", err)
		return
	}
	if err := os.WriteFile(debugScreenshotPath, png, 0o644); err != nil {
		log.Errorf("could not write %s: %v", debugScreenshotPath, err)
		return
	}
	log.Errorf("saved full-page %s for diagnosis", debugScreenshotPath)
}

// removeDebugArtifact clears the diagnostic left by an earlier failed
// run. Missing files are fine; only real filesystem trouble is logged.
func removeDebugArtifact(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Errorf("could not remove %s: %v", path, err)
	}
}
