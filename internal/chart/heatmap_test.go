package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeData(rows, cols int) HeatmapData {
	matrix := make([][]float64, rows)
	priceLabels := make([]string, rows)
	for p := range matrix {
		matrix[p] = make([]float64, cols)
		priceLabels[p] = "p"
		for t := range matrix[p] {
			matrix[p][t] = float64(p * t)
		}
	}
	timeLabels := make([]string, cols)
	for t := range timeLabels {
		timeLabels[t] = "t"
	}
	return HeatmapData{
		Title:       "test heatmap",
		Matrix:      matrix,
		PriceLabels: priceLabels,
		TimeLabels:  timeLabels,
	}
}

func TestRenderHeatmapProducesDecodablePNG(t *testing.T) {
	out, err := RenderHeatmap(makeData(40, 60))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())
}

func TestRenderHeatmapRejectsBadInput(t *testing.T) {
	_, err := RenderHeatmap(HeatmapData{})
	assert.Error(t, err)

	ragged := makeData(4, 4)
	ragged.Matrix[2] = ragged.Matrix[2][:2]
	_, err = RenderHeatmap(ragged)
	assert.Error(t, err)

	mislabeled := makeData(4, 4)
	mislabeled.PriceLabels = mislabeled.PriceLabels[:1]
	_, err = RenderHeatmap(mislabeled)
	assert.Error(t, err)
}

func TestColormapRamp(t *testing.T) {
	assert.Equal(t, colorStops[0], Colormap(-1))
	assert.Equal(t, colorStops[0], Colormap(0))
	assert.Equal(t, colorStops[len(colorStops)-1], Colormap(1))
	assert.Equal(t, colorStops[len(colorStops)-1], Colormap(2))

	// The ramp must get brighter as the magnitude climbs.
	low, high := Colormap(0.2), Colormap(0.9)
	assert.Greater(t, int(high.R)+int(high.G), int(low.R)+int(low.G))
}
