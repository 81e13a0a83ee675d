package card

import (
	"fmt"

	"github.com/fatih/color"
)

// Label is one of the four UNO card colors. There is no unknown value.
type Label int

const (
	Red Label = iota
	Yellow
	Green
	Blue
)

var labelNames = [...]string{
	Red:    "red",
	Yellow: "yellow",
	Green:  "green",
	Blue:   "blue",
}

var labelPaint = [...]func(string, ...interface{}) string{
	Red:    color.New(color.FgHiRed).SprintfFunc(),
	Yellow: color.New(color.FgHiYellow).SprintfFunc(),
	Green:  color.New(color.FgHiGreen).SprintfFunc(),
	Blue:   color.New(color.FgHiCyan).SprintfFunc(),
}

func (l Label) String() string {
	if l < Red || l > Blue {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

// Paint renders the label name in its own terminal color.
func (l Label) Paint() string {
	if l < Red || l > Blue {
		return l.String()
	}
	return labelPaint[l]("%s", labelNames[l])
}

// LabelByName is the inverse of String.
func LabelByName(name string) (Label, error) {
	for i, n := range labelNames {
		if n == name {
			return Label(i), nil
		}
	}
	return Red, fmt.Errorf("invalid color %q", name)
}

func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Label) UnmarshalText(b []byte) error {
	v, err := LabelByName(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
