package card

// Rank is the digit string read off a card. The zero value means no rank was
// detected.
type Rank string

const NoRank Rank = ""

func (r Rank) Present() bool { return r != NoRank }

// Matches reports whether both ranks are present and equal. Two absent ranks
// never match.
func (r Rank) Matches(o Rank) bool {
	return r.Present() && r == o
}

func (r Rank) String() string {
	if !r.Present() {
		return "none"
	}
	return string(r)
}
