package chart

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"github.com/wcharczuk/go-chart/v2/roboto"
)

const (
	imageWidth  = 1200
	imageHeight = 800

	marginLeft   = 90
	marginRight  = 20
	marginTop    = 48
	marginBottom = 56

	labelFontSize = 13
	titleFontSize = 18
)

var (
	backgroundColor = drawing.Color{R: 20, G: 20, B: 30, A: 255}
	labelColor      = drawing.Color{R: 200, G: 200, B: 200, A: 255}

	// colorStops is the dark-to-bright ramp: low liquidation volume
	// stays near the background, high volume burns yellow.
	colorStops = []drawing.Color{
		{R: 20, G: 20, B: 30, A: 255},
		{R: 28, G: 60, B: 160, A: 255},
		{R: 30, G: 160, B: 180, A: 255},
		{R: 80, G: 210, B: 120, A: 255},
		{R: 250, G: 230, B: 80, A: 255},
	}
)

// HeatmapData is everything the renderer needs. Matrix is indexed
// [price level][time bucket], price levels ascending, time ascending.
type HeatmapData struct {
	Title       string
	Matrix      [][]float64
	PriceLabels []string
	TimeLabels  []string
}

// RenderHeatmap paints the matrix as a false-color raster with price
// on the Y axis and time on the X axis, and encodes it to PNG in
// memory. Pure: no I/O besides the returned bytes.
func RenderHeatmap(data HeatmapData) ([]byte, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, imageWidth, imageHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(rgba(backgroundColor)), image.Point{}, draw.Src)

	plot := image.Rect(marginLeft, marginTop, imageWidth-marginRight, imageHeight-marginBottom)
	paintCells(img, plot, data.Matrix)

	if err := paintLabels(img, plot, data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "could not encode heatmap PNG")
	}
	return buf.Bytes(), nil
}

func validate(data HeatmapData) error {
	if len(data.Matrix) == 0 || len(data.Matrix[0]) == 0 {
		return errors.New("empty heatmap matrix")
	}
	numTimes := len(data.Matrix[0])
	for _, row := range data.Matrix {
		if len(row) != numTimes {
			return errors.New("ragged heatmap matrix")
		}
	}
	if len(data.PriceLabels) != len(data.Matrix) {
		return errors.Errorf("%d price labels for %d rows", len(data.PriceLabels), len(data.Matrix))
	}
	if len(data.TimeLabels) != numTimes {
		return errors.Errorf("%d time labels for %d columns", len(data.TimeLabels), numTimes)
	}
	return nil
}

// paintCells fills the plot area. Row 0 of the matrix is the lowest
// price level and is drawn at the bottom.
func paintCells(img *image.RGBA, plot image.Rectangle, matrix [][]float64) {
	maxValue := 0.0
	for _, row := range matrix {
		for _, v := range row {
			if v > maxValue {
				maxValue = v
			}
		}
	}

	numPrices := len(matrix)
	numTimes := len(matrix[0])

	for y := plot.Min.Y; y < plot.Max.Y; y++ {
		// Invert: top of the plot is the highest price level.
		row := numPrices - 1 - (y-plot.Min.Y)*numPrices/plot.Dy()
		for x := plot.Min.X; x < plot.Max.X; x++ {
			col := (x - plot.Min.X) * numTimes / plot.Dx()
			norm := 0.0
			if maxValue > 0 {
				norm = matrix[row][col] / maxValue
			}
			img.Set(x, y, rgba(Colormap(norm)))
		}
	}
}

// Colormap maps a normalized magnitude in [0, 1] onto the ramp.
func Colormap(v float64) drawing.Color {
	if v <= 0 {
		return colorStops[0]
	}
	if v >= 1 {
		return colorStops[len(colorStops)-1]
	}
	scaled := v * float64(len(colorStops)-1)
	i := int(scaled)
	frac := scaled - float64(i)
	a, b := colorStops[i], colorStops[i+1]
	return drawing.Color{
		R: lerp(a.R, b.R, frac),
		G: lerp(a.G, b.G, frac),
		B: lerp(a.B, b.B, frac),
		A: 255,
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func paintLabels(img *image.RGBA, plot image.Rectangle, data HeatmapData) error {
	font, err := truetype.Parse(roboto.Roboto)
	if err != nil {
		return errors.Wrap(err, "could not parse label font")
	}

	fc := freetype.NewContext()
	fc.SetDPI(72)
	fc.SetFont(font)
	fc.SetClip(img.Bounds())
	fc.SetDst(img)
	fc.SetSrc(image.NewUniform(rgba(labelColor)))

	fc.SetFontSize(titleFontSize)
	if _, err := fc.DrawString(data.Title, freetype.Pt(plot.Min.X, marginTop-16)); err != nil {
		return errors.Wrap(err, "could not draw title")
	}

	fc.SetFontSize(labelFontSize)

	// Y axis: a handful of price ticks, highest at the top.
	numPrices := len(data.PriceLabels)
	for _, frac := range []float64{0, 0.25, 0.5, 0.75, 1} {
		row := int(frac * float64(numPrices-1))
		y := plot.Max.Y - int(frac*float64(plot.Dy()))
		if _, err := fc.DrawString(data.PriceLabels[row], freetype.Pt(8, y+4)); err != nil {
			return errors.Wrap(err, "could not draw price label")
		}
	}

	// X axis: evenly spaced time ticks.
	numTimes := len(data.TimeLabels)
	for _, frac := range []float64{0, 0.25, 0.5, 0.75} {
		col := int(frac * float64(numTimes-1))
		x := plot.Min.X + int(frac*float64(plot.Dx()))
		if _, err := fc.DrawString(data.TimeLabels[col], freetype.Pt(x, plot.Max.Y+24)); err != nil {
			return errors.Wrap(err, "could not draw time label")
		}
	}
	return nil
}

func rgba(c drawing.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
