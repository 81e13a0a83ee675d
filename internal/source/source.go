// Package source enumerates the card photos of one run.
package source

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultPrefix = "Card_"
	DefaultSuffix = ".jpg"
)

var ErrNoCards = errors.New("no card images")

// Entry is one matching file.
type Entry struct {
	Name string
	Path string
}

// Dir lists the files in a directory whose names carry the card prefix and
// suffix, sorted byte-wise by name.
type Dir struct {
	path    string
	entries []Entry
}

func Open(dir, prefix, suffix string) (*Dir, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "os.ReadDir")
	}
	var names []string
	for _, de := range des {
		name := de.Name()
		if de.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, errors.Wrapf(ErrNoCards, "%s/%s*%s", dir, prefix, suffix)
	}
	slices.Sort(names)

	d := &Dir{path: dir, entries: make([]Entry, 0, len(names))}
	for _, name := range names {
		d.entries = append(d.entries, Entry{Name: name, Path: filepath.Join(dir, name)})
	}
	return d, nil
}

func (d *Dir) Path() string { return d.path }

func (d *Dir) Len() int { return len(d.entries) }

func (d *Dir) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Load decodes the i-th entry, honoring EXIF orientation like a camera
// viewer would.
func (d *Dir) Load(i int) (image.Image, error) {
	return Decode(d.entries[i].Path)
}

// Decode opens a single image file. A file that decodes to zero pixels is
// treated as unreadable.
func Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "imaging.Open")
	}
	if img.Bounds().Empty() {
		return nil, errors.Errorf("%s: empty image", path)
	}
	return img, nil
}
