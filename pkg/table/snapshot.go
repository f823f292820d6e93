package table

import (
	"math"

	"holdem-server/pkg/deck"
)

// State is a serializable projection of a table. Hole cards are only
// populated for the viewer's own seat unless the state was built with
// StateRevealAll.
type State struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Stage               Stage          `json:"stage"`
	Community           deck.Hand      `json:"community"`
	Pot                 int            `json:"pot"`
	CurrentBet          int            `json:"currentBet"`
	SmallBlind          int            `json:"smallBlind"`
	BigBlind            int            `json:"bigBlind"`
	HandNumber          int            `json:"handNumber"`
	RemainingActionTime int            `json:"remainingActionTime"`
	Players             []*PlayerState `json:"players"`
}

// PlayerState is the public view of a seat
type PlayerState struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Chips        int       `json:"chips"`
	Bet          int       `json:"bet"`
	Folded       bool      `json:"folded"`
	AllIn        bool      `json:"allIn"`
	IsDealer     bool      `json:"isDealer"`
	IsSmallBlind bool      `json:"isSmallBlind"`
	IsBigBlind   bool      `json:"isBigBlind"`
	IsActive     bool      `json:"isActive"`
	IsChecked    bool      `json:"isChecked"`
	Hand         deck.Hand `json:"hand,omitempty"`
}

// State returns a snapshot of the table for the given viewer. The viewer
// sees their own hole cards; everyone else's stay hidden.
func (t *Table) State(viewerID string) *State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state(func(p *Player) bool {
		return p.ID == viewerID
	})
}

// StateRevealAll returns a snapshot with every seat's hole cards visible,
// for observer and replay views
func (t *Table) StateRevealAll() *State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state(func(*Player) bool {
		return true
	})
}

func (t *Table) state(showHand func(*Player) bool) *State {
	players := make([]*PlayerState, len(t.players))
	for i, p := range t.players {
		ps := &PlayerState{
			ID:           p.ID,
			Name:         p.Name,
			Chips:        p.Chips,
			Bet:          p.bet,
			Folded:       p.folded,
			AllIn:        p.allIn,
			IsDealer:     p.isDealer,
			IsSmallBlind: p.isSmallBlind,
			IsBigBlind:   p.isBigBlind,
			IsActive:     p.active,
			IsChecked:    p.checked,
		}

		if showHand(p) {
			ps.Hand = p.hand.Clone()
		}

		players[i] = ps
	}

	community := t.community.Clone()
	if community == nil {
		community = deck.Hand{}
	}

	// the displayed pot includes the street's live bets
	pot := t.pot
	for _, p := range t.players {
		pot += p.bet
	}

	return &State{
		ID:                  t.ID,
		Name:                t.opts.Name,
		Stage:               t.stage,
		Community:           community,
		Pot:                 pot,
		CurrentBet:          t.currentBet,
		SmallBlind:          t.opts.SmallBlind,
		BigBlind:            t.opts.BigBlind,
		HandNumber:          t.handNum,
		RemainingActionTime: int(math.Ceil(t.remainingActionTime().Seconds())),
		Players:             players,
	}
}
