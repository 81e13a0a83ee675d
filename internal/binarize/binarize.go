// Package binarize holds the deterministic single-channel transforms used to
// turn a card photo into a clean digit silhouette. The pixel work is done by
// OpenCV so the masks match what the recognizer was tuned against.
package binarize

import (
	"image"
	"image/draw"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

const MaxValue = 0xff

// MatFromImage copies img into a new 8-bit BGR Mat anchored at the origin.
// The caller owns the Mat. img must not be empty.
func MatFromImage(img image.Image) (gocv.Mat, error) {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)

	mat, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC4, rgba.Pix)
	if err != nil {
		return gocv.NewMat(), errors.Wrap(err, "gocv.NewMatFromBytes")
	}
	defer mat.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)
	return bgr, nil
}

func matFromGray(src *image.Gray) (gocv.Mat, error) {
	b := src.Bounds()
	pix := make([]uint8, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		pix = append(pix, src.Pix[src.PixOffset(b.Min.X, y):src.PixOffset(b.Max.X, y)]...)
	}
	mat, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC1, pix)
	return mat, errors.Wrap(err, "gocv.NewMatFromBytes")
}

// GrayFromMat copies a single channel 8-bit Mat into an image.Gray.
func GrayFromMat(m gocv.Mat) *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, m.Cols(), m.Rows()))
	copy(gray.Pix, m.ToBytes())
	return gray
}

// apply runs one Mat transform over a gray image. Empty images pass through.
func apply(src *image.Gray, f func(src gocv.Mat, dst *gocv.Mat)) (*image.Gray, error) {
	if src.Bounds().Empty() {
		return image.NewGray(image.Rectangle{}), nil
	}
	in, err := matFromGray(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	out := gocv.NewMat()
	defer out.Close()
	f(in, &out)
	return GrayFromMat(out), nil
}

// Grayscale collapses img to luminance with OpenCV's BGR to gray weights.
// The result is anchored at the origin.
func Grayscale(img image.Image) (*image.Gray, error) {
	if img.Bounds().Empty() {
		return image.NewGray(image.Rectangle{}), nil
	}
	bgr, err := MatFromImage(img)
	if err != nil {
		return nil, err
	}
	defer bgr.Close()
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)
	return GrayFromMat(gray), nil
}

// Threshold sets pixels brighter than t to MaxValue and the rest to 0.
func Threshold(src *image.Gray, t uint8) (*image.Gray, error) {
	return apply(src, func(in gocv.Mat, out *gocv.Mat) {
		gocv.Threshold(in, out, float32(t), MaxValue, gocv.ThresholdBinary)
	})
}

// ThresholdInv sets pixels brighter than t to 0 and the rest to MaxValue, so
// dark ink becomes foreground.
func ThresholdInv(src *image.Gray, t uint8) (*image.Gray, error) {
	return apply(src, func(in gocv.Mat, out *gocv.Mat) {
		gocv.Threshold(in, out, float32(t), MaxValue, gocv.ThresholdBinaryInv)
	})
}

// Open is erosion followed by dilation with a size x size square. It removes
// foreground specks smaller than the square and keeps larger shapes.
func Open(src *image.Gray, size int) (*image.Gray, error) {
	return apply(src, func(in gocv.Mat, out *gocv.Mat) {
		kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{size, size})
		defer kernel.Close()
		gocv.MorphologyEx(in, out, gocv.MorphOpen, kernel)
	})
}

// GaussianBlur convolves src with a size x size Gaussian whose sigma OpenCV
// derives from the size. size must be odd. Borders are mirrored.
func GaussianBlur(src *image.Gray, size int) (*image.Gray, error) {
	return apply(src, func(in gocv.Mat, out *gocv.Mat) {
		gocv.GaussianBlur(in, out, image.Point{size, size}, 0, 0, gocv.BorderDefault)
	})
}
