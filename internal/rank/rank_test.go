package rank

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/WIZARDISHUNGRY/uno-await/internal/binarize"
	"github.com/WIZARDISHUNGRY/uno-await/internal/card"
	"github.com/WIZARDISHUNGRY/uno-await/internal/diag"
	"github.com/WIZARDISHUNGRY/uno-await/internal/ocr"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// silhouetteReader answers with words only when the mask it is handed has a
// foreground, the way a real recognizer sees nothing in an empty frame.
type silhouetteReader struct {
	words []string
	masks []*image.Gray
}

func (s *silhouetteReader) Recognize(ctx context.Context, mask *image.Gray) ([]string, error) {
	s.masks = append(s.masks, mask)
	if binarize.Foreground(mask) == 0 {
		return nil, nil
	}
	return s.words, nil
}

func lightCard(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 240, 238, 232, 255
	}
	return img
}

func ink(img *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, color.RGBA{R: 15, G: 15, B: 20, A: 255})
		}
	}
}

// seven draws a bold 7: a top bar and a right-hand stem.
func seven() *image.RGBA {
	img := lightCard(400, 600)
	ink(img, image.Rect(60, 80, 340, 180))
	ink(img, image.Rect(240, 80, 340, 520))
	return img
}

func TestExtractSeven(t *testing.T) {
	r := &silhouetteReader{words: []string{"7"}}
	got, err := New(r).Extract(context.Background(), seven())
	require.NoError(t, err)
	require.Equal(t, card.Rank("7"), got)

	require.Len(t, r.masks, 1)
	mask := r.masks[0]
	require.Equal(t, uint8(255), mask.GrayAt(290, 300).Y, "stem survives")
	require.Equal(t, uint8(0), mask.GrayAt(20, 580).Y, "background stays clear")
}

func TestExtractBlank(t *testing.T) {
	r := &silhouetteReader{words: []string{"7"}}
	got, err := New(r).Extract(context.Background(), lightCard(300, 450))
	require.NoError(t, err)
	require.False(t, got.Present())
}

func TestExtractEmptyImage(t *testing.T) {
	r := &silhouetteReader{words: []string{"7"}}
	got, err := New(r).Extract(context.Background(), image.NewRGBA(image.Rectangle{}))
	require.NoError(t, err)
	require.Equal(t, card.NoRank, got)
	require.Empty(t, r.masks)
}

func TestExtractLongestWins(t *testing.T) {
	img := lightCard(600, 400)
	ink(img, image.Rect(40, 100, 160, 300))
	ink(img, image.Rect(300, 100, 560, 300))
	r := &silhouetteReader{words: []string{"1", " 12 ", "I2", "", "9"}}
	got, err := New(r).Extract(context.Background(), img)
	require.NoError(t, err)
	require.Equal(t, card.Rank("12"), got)
}

func TestExtractRecognizerFails(t *testing.T) {
	boom := errors.New("boom")
	r := ocr.Func(func(context.Context, *image.Gray) ([]string, error) {
		return nil, boom
	})
	got, err := New(r).Extract(context.Background(), seven())
	require.ErrorIs(t, err, boom)
	require.Equal(t, card.NoRank, got)
}

func TestExtractIdempotent(t *testing.T) {
	img := seven()
	before := append([]uint8(nil), img.Pix...)
	r := &silhouetteReader{words: []string{"7"}}
	e := New(r)
	ctx := context.Background()

	first, err := e.Extract(ctx, img)
	require.NoError(t, err)
	second, err := e.Extract(ctx, img)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, before, img.Pix)
	require.Equal(t, ocr.MaskKey(r.masks[0]), ocr.MaskKey(r.masks[1]))
}

func TestExtractSink(t *testing.T) {
	rec := &diag.Recorder{}
	r := &silhouetteReader{words: []string{"7"}}
	_, err := New(r, WithSink(rec)).Extract(context.Background(), seven())
	require.NoError(t, err)
	require.Equal(t, []string{"1 - gray", "2 - mask", "3 - clean", "4 - blur", "5 - final"}, rec.Titles())
	require.Equal(t, 1, rec.Waits())
}

func TestLongestDigits(t *testing.T) {
	testCases := []struct {
		desc string
		in   []string
		want card.Rank
	}{
		{"none", nil, card.NoRank},
		{"letters only", []string{"skip", "O", "l"}, card.NoRank},
		{"mixed token", []string{"7a", "a7"}, card.NoRank},
		{"trimmed", []string{"\t5\n"}, "5"},
		{"first of equal length", []string{"3", "8"}, "3"},
		{"longest", []string{"1", "12", "4"}, "12"},
		{"inner space", []string{"1 2", "4"}, "4"},
		{"non ascii digits", []string{"٣", "²"}, card.NoRank},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			require.Equal(t, tC.want, LongestDigits(tC.in))
		})
	}
}
