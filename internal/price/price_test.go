package price

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$64,321.50", FormatUSD(64321.5))
	assert.Equal(t, "$1,000,000.00", FormatUSD(1000000))
	assert.Equal(t, "$0.99", FormatUSD(0.99))
	assert.Equal(t, "$999.90", FormatUSD(999.9))
}
