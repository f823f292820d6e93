package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardFromString(t *testing.T) {
	a := assert.New(t)

	card := CardFromString("14s")
	a.Equal(Ace, card.Rank)
	a.Equal(Spades, card.Suit)

	card = CardFromString("2c")
	a.Equal(2, card.Rank)
	a.Equal(Clubs, card.Suit)

	card = CardFromString("11D")
	a.Equal(Jack, card.Rank)
	a.Equal(Diamonds, card.Suit)

	a.PanicsWithValue("could not parse card: 15s", func() {
		CardFromString("15s")
	})

	a.Panics(func() {
		CardFromString("5x")
	})
}

func TestCard_String(t *testing.T) {
	a := assert.New(t)
	a.Equal("A♠", CardFromString("14s").String())
	a.Equal("K♡", CardFromString("13h").String())
	a.Equal("Q♢", CardFromString("12d").String())
	a.Equal("J♣", CardFromString("11c").String())
	a.Equal("10♠", CardFromString("10s").String())
	a.Equal("2♣", CardFromString("2c").String())
}

func TestCard_Equal(t *testing.T) {
	a := assert.New(t)
	a.True(CardFromString("5h").Equal(CardFromString("5h")))
	a.False(CardFromString("5h").Equal(CardFromString("5s")))
	a.False(CardFromString("5h").Equal(CardFromString("6h")))
}

func TestCard_AceLowRank(t *testing.T) {
	a := assert.New(t)
	a.Equal(1, CardFromString("14s").AceLowRank())
	a.Equal(13, CardFromString("13s").AceLowRank())
	a.Equal(2, CardFromString("2s").AceLowRank())
}

func TestCardsFromString(t *testing.T) {
	a := assert.New(t)

	cards := CardsFromString("14s,2c,11h")
	a.Len(cards, 3)
	a.Equal(Ace, cards[0].Rank)
	a.Equal(Clubs, cards[1].Suit)
	a.Equal(Jack, cards[2].Rank)

	a.Len(CardsFromString(""), 0)

	a.Equal("14s,2c,11h", CardsToString(cards))
}
