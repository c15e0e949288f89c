package capture

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorCarriesKindThroughWrapping(t *testing.T) {
	base := failf(NavigationTimeout, errors.New("deadline"), "page did not load")
	assert.Equal(t, NavigationTimeout, KindOf(base))
	assert.Contains(t, base.Error(), "navigation_timeout")
	assert.Contains(t, base.Error(), "page did not load")

	wrapped := errors.Wrap(base, "capture failed")
	assert.Equal(t, NavigationTimeout, KindOf(wrapped))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}
