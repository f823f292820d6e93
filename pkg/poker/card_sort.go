package poker

import "holdem-server/pkg/deck"

// sortByRank sorts cards by rank with Ace high. Suits break ties so sorts
// stay deterministic for equal ranks.
type sortByRank []deck.Card

func (s sortByRank) Len() int {
	return len(s)
}

func (s sortByRank) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

func (s sortByRank) Less(i, j int) bool {
	if s[i].Rank == s[j].Rank {
		return s[i].Suit < s[j].Suit
	}

	return s[i].Rank < s[j].Rank
}
