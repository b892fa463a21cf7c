// Package luma detects blank page captures from their luminance statistics.
package luma

import (
	"image"
	"image/color"
	"math"

	"github.com/fwojciec/site2pdf"
)

// DefaultThreshold is the luminance standard deviation on the 0-255 scale
// below which an image is considered blank.
const DefaultThreshold = 5.0

// Compile-time interface verification.
var _ site2pdf.BlankDetector = (*Detector)(nil)

// Detector flags images whose luminance barely varies. Solid-colour pages
// are indistinguishable from failed renders and are dropped as well.
type Detector struct {
	Threshold float64
}

// NewDetector creates a Detector. A non-positive threshold selects DefaultThreshold.
func NewDetector(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{Threshold: threshold}
}

// IsBlank reports whether the luminance standard deviation of img is
// strictly below the threshold.
func (d *Detector) IsBlank(img image.Image) bool {
	return Stddev(img) < d.Threshold
}

// Stddev returns the population standard deviation of the 8-bit luminance
// of img. Luminance uses the ITU-R 601-2 weights of color.GrayModel.
// An empty image has a deviation of zero.
func Stddev(img image.Image) float64 {
	var hist [256]uint64
	b := img.Bounds()

	if gray, ok := img.(*image.Gray); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := gray.Pix[gray.PixOffset(b.Min.X, y):gray.PixOffset(b.Max.X, y)]
			for _, v := range row {
				hist[v]++
			}
		}
	} else {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				hist[color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y]++
			}
		}
	}

	var n, sum, sumSq float64
	for v, count := range hist {
		if count == 0 {
			continue
		}
		c := float64(count)
		n += c
		sum += c * float64(v)
		sumSq += c * float64(v) * float64(v)
	}
	if n == 0 {
		return 0
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}
