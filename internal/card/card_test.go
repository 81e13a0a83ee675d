package card

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCompatible(t *testing.T) {
	testCases := []struct {
		desc      string
		prev, cur Observation
		want      bool
	}{
		{"same color", Observation{Label: Red, Rank: "3"}, Observation{Label: Red, Rank: "7"}, true},
		{"same rank", Observation{Label: Red, Rank: "7"}, Observation{Label: Blue, Rank: "7"}, true},
		{"neither", Observation{Label: Blue, Rank: "7"}, Observation{Label: Green, Rank: "9"}, false},
		{"both absent", Observation{Label: Blue}, Observation{Label: Green}, false},
		{"one absent", Observation{Label: Blue, Rank: "4"}, Observation{Label: Green}, false},
		{"absent same color", Observation{Label: Yellow}, Observation{Label: Yellow}, true},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			require.Equal(t, tC.want, Compatible(tC.prev, tC.cur))
		})
	}
}

func TestLabelNames(t *testing.T) {
	for _, l := range []Label{Red, Yellow, Green, Blue} {
		got, err := LabelByName(l.String())
		require.NoError(t, err)
		require.Equal(t, l, got)
		require.Contains(t, l.Paint(), l.String())
	}
	_, err := LabelByName("purple")
	require.Error(t, err)
}

func TestObservationYAML(t *testing.T) {
	b, err := yaml.Marshal(Observation{File: "Card_01.jpg", Label: Green, Rank: "12"})
	require.NoError(t, err)
	require.Contains(t, string(b), "color: green")

	var o Observation
	require.NoError(t, yaml.Unmarshal([]byte("file: x.jpg\ncolor: blue\n"), &o))
	require.Equal(t, Blue, o.Label)
	require.False(t, o.Rank.Present())
}
