package binarize

import (
	"image"

	"gocv.io/x/gocv"
)

// Pipeline parameters for isolating the printed rank. The recognizer was
// tuned against masks produced with exactly these values.
type Pipeline struct {
	InkThreshold  uint8 // darker than or equal to this is ink
	OpenSize      int
	BlurSize      int
	BlobThreshold uint8 // brighter than this after blurring is kept
}

var RankPipeline = Pipeline{
	InkThreshold:  155,
	OpenSize:      10,
	BlurSize:      127,
	BlobThreshold: 220,
}

// StageFunc observes each intermediate image. Titles are numbered in
// pipeline order.
type StageFunc func(title string, img *image.Gray)

// Run executes the five transforms and returns the final two-valued mask.
// stage may be nil. An empty image yields an empty mask.
func (p Pipeline) Run(img image.Image, stage StageFunc) (*image.Gray, error) {
	if img.Bounds().Empty() {
		return image.NewGray(image.Rectangle{}), nil
	}
	show := func(title string, m gocv.Mat) {
		if stage != nil {
			stage(title, GrayFromMat(m))
		}
	}

	src, err := MatFromImage(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	show("1 - gray", gray)

	ink := gocv.NewMat()
	defer ink.Close()
	gocv.Threshold(gray, &ink, float32(p.InkThreshold), MaxValue, gocv.ThresholdBinaryInv)
	show("2 - mask", ink)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{p.OpenSize, p.OpenSize})
	defer kernel.Close()
	clean := gocv.NewMat()
	defer clean.Close()
	gocv.MorphologyEx(ink, &clean, gocv.MorphOpen, kernel)
	show("3 - clean", clean)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(clean, &blurred, image.Point{p.BlurSize, p.BlurSize}, 0, 0, gocv.BorderDefault)
	show("4 - blur", blurred)

	final := gocv.NewMat()
	defer final.Close()
	gocv.Threshold(blurred, &final, float32(p.BlobThreshold), MaxValue, gocv.ThresholdBinary)
	out := GrayFromMat(final)
	if stage != nil {
		stage("5 - final", out)
	}
	return out, nil
}

// RankMask runs RankPipeline.
func RankMask(img image.Image, stage StageFunc) (*image.Gray, error) {
	return RankPipeline.Run(img, stage)
}

// Foreground counts pixels set to a non-zero value.
func Foreground(img *image.Gray) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for _, v := range img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)] {
			if v != 0 {
				n++
			}
		}
	}
	return n
}
