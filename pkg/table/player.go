package table

import "holdem-server/pkg/deck"

// Player is a seat at a table. A player is owned exclusively by the table
// that seats it; all access goes through the table's lock.
type Player struct {
	ID    string
	Name  string
	Chips int

	hand deck.Hand

	// per-street state
	bet     int
	checked bool
	acted   bool

	// per-hand state
	folded       bool
	allIn        bool
	isDealer     bool
	isSmallBlind bool
	isBigBlind   bool
	active       bool
}

func newPlayer(id, name string, chips int) *Player {
	return &Player{
		ID:    id,
		Name:  name,
		Chips: chips,
	}
}

// wager moves up to amount chips into the player's street bet. A wager of
// the player's full stack (or more) puts them all-in for what they have.
// Returns the amount actually contributed.
func (p *Player) wager(amount int) int {
	if amount >= p.Chips {
		amount = p.Chips
		p.allIn = true
	}

	p.Chips -= amount
	p.bet += amount

	return amount
}

func (p *Player) resetForHand() {
	p.hand = nil
	p.bet = 0
	p.checked = false
	p.acted = false
	p.folded = false
	p.allIn = false
	p.isDealer = false
	p.isSmallBlind = false
	p.isBigBlind = false
	p.active = false
}

func (p *Player) resetForStreet() {
	p.bet = 0
	p.checked = false
	p.acted = false
}

// contesting returns true if the player can still win the hand
func (p *Player) contesting() bool {
	return !p.folded
}

// canAct returns true if the player can still take actions this hand
func (p *Player) canAct() bool {
	return !p.folded && !p.allIn
}
