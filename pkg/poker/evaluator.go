package poker

import (
	"fmt"
	"sort"

	"holdem-server/pkg/deck"
)

// Result is the outcome of evaluating a set of cards for the best five-card
// poker hand. Best holds the winning five cards in the category's comparison
// order (i.e., trips before kickers), and Tiebreak holds the ranks compared
// pairwise when two results share a category.
type Result struct {
	Category Category  `json:"category"`
	Best     deck.Hand `json:"best"`
	Tiebreak []int     `json:"-"`
}

// Evaluate returns the best five-card hand from the given cards.
// It expects between five and seven cards (two hole cards plus the community).
func Evaluate(cards []deck.Card) Result {
	sorted := make([]deck.Card, len(cards))
	copy(sorted, cards)
	sort.Sort(sort.Reverse(sortByRank(sorted)))

	bySuit := make(map[deck.Suit][]deck.Card)
	for _, card := range sorted {
		bySuit[card.Suit] = append(bySuit[card.Suit], card)
	}

	byRank := make(map[int][]deck.Card)
	ranks := make([]int, 0, len(sorted))
	for _, card := range sorted {
		if len(byRank[card.Rank]) == 0 {
			ranks = append(ranks, card.Rank)
		}
		byRank[card.Rank] = append(byRank[card.Rank], card)
	}

	if res, ok := findStraightFlush(bySuit); ok {
		return res
	}

	if res, ok := findFourOfAKind(sorted, byRank, ranks); ok {
		return res
	}

	if res, ok := findFullHouse(byRank, ranks); ok {
		return res
	}

	if res, ok := findFlush(bySuit); ok {
		return res
	}

	if straight, ok := findStraight(sorted); ok {
		return Result{
			Category: Straight,
			Best:     straight,
			Tiebreak: []int{straight[0].Rank},
		}
	}

	if res, ok := findThreeOfAKind(sorted, byRank, ranks); ok {
		return res
	}

	if res, ok := findPairs(sorted, byRank, ranks); ok {
		return res
	}

	best := topCards(sorted, 5)
	return Result{
		Category: HighCard,
		Best:     best,
		Tiebreak: handRanks(best),
	}
}

// Compare returns a positive number if a beats b, a negative number if b
// beats a, and zero if the hands are an exact tie.
func Compare(a, b Result) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}

	for i, rank := range a.Tiebreak {
		if rank != b.Tiebreak[i] {
			return rank - b.Tiebreak[i]
		}
	}

	return 0
}

// Description returns a human-readable summary like "Full house, kings full of 4s"
func (r Result) Description() string {
	name := func(rank int) string {
		return deck.Card{Rank: rank}.RankName()
	}

	switch r.Category {
	case RoyalFlush:
		return "Royal flush"
	case StraightFlush:
		return fmt.Sprintf("Straight flush, %s-high", name(r.Tiebreak[0]))
	case FourOfAKind:
		return fmt.Sprintf("Four of a kind, %ss", name(r.Tiebreak[0]))
	case FullHouse:
		return fmt.Sprintf("Full house, %ss full of %ss", name(r.Tiebreak[0]), name(r.Tiebreak[1]))
	case Flush:
		return fmt.Sprintf("Flush, %s-high", name(r.Tiebreak[0]))
	case Straight:
		return fmt.Sprintf("Straight, %s-high", name(r.Tiebreak[0]))
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a kind, %ss", name(r.Tiebreak[0]))
	case TwoPair:
		return fmt.Sprintf("Two pair, %ss and %ss", name(r.Tiebreak[0]), name(r.Tiebreak[1]))
	case OnePair:
		return fmt.Sprintf("Pair of %ss", name(r.Tiebreak[0]))
	}

	return fmt.Sprintf("%s-high", name(r.Tiebreak[0]))
}

func findStraightFlush(bySuit map[deck.Suit][]deck.Card) (Result, bool) {
	for _, suit := range deck.Suits {
		suited := bySuit[suit]
		if len(suited) < 5 {
			continue
		}

		straight, ok := findStraight(suited)
		if !ok {
			continue
		}

		category := StraightFlush
		if straight[0].Rank == deck.Ace {
			category = RoyalFlush
		}

		return Result{
			Category: category,
			Best:     straight,
			Tiebreak: []int{straight[0].Rank},
		}, true
	}

	return Result{}, false
}

// findStraight searches the cards (sorted by rank, descending) for five
// consecutive ranks, reducing to one card per rank first. The wheel
// (A-2-3-4-5) is returned as 5-4-3-2-A so comparisons treat the ace as low.
func findStraight(sorted []deck.Card) (deck.Hand, bool) {
	distinct := make([]deck.Card, 0, len(sorted))
	prevRank := 0
	for _, card := range sorted {
		if card.Rank != prevRank {
			distinct = append(distinct, card)
			prevRank = card.Rank
		}
	}

	for i := 0; i+5 <= len(distinct); i++ {
		if distinct[i].Rank-distinct[i+4].Rank == 4 {
			return deck.Hand(distinct[i : i+5]).Clone(), true
		}
	}

	// wheel: ace counts low
	if len(distinct) >= 4 && distinct[0].Rank == deck.Ace && distinct[len(distinct)-1].Rank == 2 {
		tail := distinct[len(distinct)-4:]
		if tail[0].Rank == 5 {
			wheel := deck.Hand(tail).Clone()
			wheel.AddCard(distinct[0])
			return wheel, true
		}
	}

	return nil, false
}

func findFourOfAKind(sorted []deck.Card, byRank map[int][]deck.Card, ranks []int) (Result, bool) {
	for _, rank := range ranks {
		if len(byRank[rank]) != 4 {
			continue
		}

		best := deck.Hand(byRank[rank]).Clone()
		kicker := topCards(sorted, 1, rank)
		best = append(best, kicker...)

		return Result{
			Category: FourOfAKind,
			Best:     best,
			Tiebreak: []int{rank, kicker[0].Rank},
		}, true
	}

	return Result{}, false
}

func findFullHouse(byRank map[int][]deck.Card, ranks []int) (Result, bool) {
	trips := 0
	for _, rank := range ranks {
		if len(byRank[rank]) >= 3 {
			trips = rank
			break
		}
	}

	if trips == 0 {
		return Result{}, false
	}

	pair := 0
	for _, rank := range ranks {
		if rank != trips && len(byRank[rank]) >= 2 {
			pair = rank
			break
		}
	}

	if pair == 0 {
		return Result{}, false
	}

	best := deck.Hand(byRank[trips][:3]).Clone()
	best = append(best, byRank[pair][:2]...)

	return Result{
		Category: FullHouse,
		Best:     best,
		Tiebreak: []int{trips, pair},
	}, true
}

func findFlush(bySuit map[deck.Suit][]deck.Card) (Result, bool) {
	for _, suit := range deck.Suits {
		suited := bySuit[suit]
		if len(suited) < 5 {
			continue
		}

		best := deck.Hand(suited[:5]).Clone()
		return Result{
			Category: Flush,
			Best:     best,
			Tiebreak: handRanks(best),
		}, true
	}

	return Result{}, false
}

func findThreeOfAKind(sorted []deck.Card, byRank map[int][]deck.Card, ranks []int) (Result, bool) {
	for _, rank := range ranks {
		if len(byRank[rank]) != 3 {
			continue
		}

		best := deck.Hand(byRank[rank]).Clone()
		kickers := topCards(sorted, 2, rank)
		best = append(best, kickers...)

		return Result{
			Category: ThreeOfAKind,
			Best:     best,
			Tiebreak: []int{rank, kickers[0].Rank, kickers[1].Rank},
		}, true
	}

	return Result{}, false
}

// findPairs handles both two pair and one pair
func findPairs(sorted []deck.Card, byRank map[int][]deck.Card, ranks []int) (Result, bool) {
	pairs := make([]int, 0, 2)
	for _, rank := range ranks {
		if len(byRank[rank]) == 2 {
			pairs = append(pairs, rank)
			if len(pairs) == 2 {
				break
			}
		}
	}

	switch len(pairs) {
	case 2:
		best := deck.Hand(byRank[pairs[0]]).Clone()
		best = append(best, byRank[pairs[1]]...)
		kicker := topCards(sorted, 1, pairs[0], pairs[1])
		best = append(best, kicker...)

		return Result{
			Category: TwoPair,
			Best:     best,
			Tiebreak: []int{pairs[0], pairs[1], kicker[0].Rank},
		}, true
	case 1:
		best := deck.Hand(byRank[pairs[0]]).Clone()
		kickers := topCards(sorted, 3, pairs[0])
		best = append(best, kickers...)

		return Result{
			Category: OnePair,
			Best:     best,
			Tiebreak: []int{pairs[0], kickers[0].Rank, kickers[1].Rank, kickers[2].Rank},
		}, true
	}

	return Result{}, false
}

// topCards returns the n highest cards, excluding any of the given ranks
func topCards(sorted []deck.Card, n int, excludeRanks ...int) deck.Hand {
	excluded := func(rank int) bool {
		for _, ex := range excludeRanks {
			if rank == ex {
				return true
			}
		}
		return false
	}

	top := make(deck.Hand, 0, n)
	for _, card := range sorted {
		if excluded(card.Rank) {
			continue
		}

		top = append(top, card)
		if len(top) == n {
			break
		}
	}

	return top
}

func handRanks(hand deck.Hand) []int {
	ranks := make([]int, len(hand))
	for i, card := range hand {
		ranks[i] = card.Rank
	}

	return ranks
}
