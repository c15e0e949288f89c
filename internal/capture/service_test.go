package capture

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"heatmap-telegram-bot/internal/timeframe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceAcquirerPassesCaptureParameters(t *testing.T) {
	fakePNG := []byte{0x89, 'P', 'N', 'G', 0, 0}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("access_key"))
		assert.Equal(t, "https://example.com/heatmap", q.Get("url"))
		assert.Equal(t, "div.chart", q.Get("selector"))
		// The inline script must carry the dropdown-select sequence
		// for the requested period.
		assert.Contains(t, q.Get("js"), "1 week")
		assert.Contains(t, q.Get("js"), "li[role=\"option\"]")
		w.Write(fakePNG)
	}))
	defer srv.Close()

	a := NewServiceAcquirer(ServiceConfig{
		APIURL:           srv.URL,
		APIKey:           "secret",
		PageURL:          "https://example.com/heatmap",
		DropdownSelector: "div.dropdown",
		ChartSelector:    "div.chart",
	})

	snap, err := a.Capture(context.Background(), timeframe.Week1)
	require.NoError(t, err)
	assert.Equal(t, fakePNG, snap.PNG)
	assert.Equal(t, timeframe.Week1, snap.Period)
}

func TestServiceAcquirerMapsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	a := NewServiceAcquirer(ServiceConfig{APIURL: srv.URL})
	_, err := a.Capture(context.Background(), timeframe.Hour4)
	require.Error(t, err)
	assert.Equal(t, ServiceHTTPError, KindOf(err))
	assert.Contains(t, err.Error(), "402")
}

func TestServiceAcquirerMapsTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	a := NewServiceAcquirer(ServiceConfig{APIURL: srv.URL})
	_, err := a.Capture(context.Background(), timeframe.Hour4)
	require.Error(t, err)
	assert.Equal(t, ServiceHTTPError, KindOf(err))
}
