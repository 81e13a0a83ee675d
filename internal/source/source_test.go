package source

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Card_10.png", "Card_02.png", "Card_1.png", "card_03.png", "Card_04.jpg", "notes.txt"} {
		writePNG(t, filepath.Join(dir, name), color.White)
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Card_dir.png"), 0o755))

	d, err := Open(dir, "Card_", ".png")
	require.NoError(t, err)
	names := []string{}
	for _, e := range d.Entries() {
		names = append(names, e.Name)
	}
	// lexicographic, not numeric
	require.Equal(t, []string{"Card_02.png", "Card_1.png", "Card_10.png"}, names)
	require.Equal(t, 3, d.Len())

	img, err := d.Load(0)
	require.NoError(t, err)
	require.Equal(t, 4, img.Bounds().Dx())
	require.Equal(t, 6, img.Bounds().Dy())
}

func TestOpenNoCards(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "other.png"), color.White)
	_, err := Open(dir, DefaultPrefix, DefaultSuffix)
	require.ErrorIs(t, err, ErrNoCards)

	_, err = Open(filepath.Join(dir, "missing"), DefaultPrefix, DefaultSuffix)
	require.Error(t, err)
}

func TestDecodeUnreadable(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "Card_01.jpg")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err := Decode(bad)
	require.Error(t, err)
}
