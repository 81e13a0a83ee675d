package colorclass

import (
	"image"

	"github.com/WIZARDISHUNGRY/uno-await/internal/binarize"
	"gocv.io/x/gocv"
)

const HueBuckets = 180

// HSV holds one image in 8-bit hue/saturation/value planes. Hue is in half
// degrees, [0, 180); saturation and value are [0, 255].
type HSV struct {
	Rect    image.Rectangle
	H, S, V []uint8
}

// ToHSV converts img into HSV planes with OpenCV's 8-bit BGR to HSV
// conversion. Fully transparent pixels come out black.
func ToHSV(img image.Image) (*HSV, error) {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	out := &HSV{
		Rect: b,
		H:    make([]uint8, n),
		S:    make([]uint8, n),
		V:    make([]uint8, n),
	}
	if n == 0 {
		return out, nil
	}

	bgr, err := binarize.MatFromImage(img)
	if err != nil {
		return nil, err
	}
	defer bgr.Close()
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)

	px := hsv.ToBytes()
	for i := 0; i < n; i++ {
		out.H[i], out.S[i], out.V[i] = px[3*i], px[3*i+1], px[3*i+2]
	}
	return out, nil
}

// Image renders the planes the way an HSV buffer looks when displayed as if
// it were device color: hue, saturation and value land in blue, green, red.
func (p *HSV) Image() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, p.Rect.Dx(), p.Rect.Dy()))
	for i := range p.H {
		j := i * 4
		img.Pix[j+0] = p.V[i]
		img.Pix[j+1] = p.S[i]
		img.Pix[j+2] = p.H[i]
		img.Pix[j+3] = 0xff
	}
	return img
}
