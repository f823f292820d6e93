package deck

import "strings"

// Hand is a collection of cards
type Hand []Card

// AddCard adds a card to the hand
func (h *Hand) AddCard(card Card) {
	*h = append(*h, card)
}

// Clone returns a copy of the hand
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}

	clone := make(Hand, len(h))
	copy(clone, h)
	return clone
}

func (h Hand) String() string {
	cards := make([]string, len(h))
	for i, card := range h {
		cards[i] = card.String()
	}

	return strings.Join(cards, ",")
}
