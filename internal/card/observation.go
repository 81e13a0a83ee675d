package card

import "fmt"

// Observation is what was read from one card photo.
type Observation struct {
	File  string `yaml:"file"`
	Label Label  `yaml:"color"`
	Rank  Rank   `yaml:"rank,omitempty"`
}

func (o Observation) String() string {
	return fmt.Sprintf("%s %s", o.Label, o.Rank)
}

// Compatible reports whether cur may follow prev: same color, or same
// present rank.
func Compatible(prev, cur Observation) bool {
	return prev.Label == cur.Label || prev.Rank.Matches(cur.Rank)
}
