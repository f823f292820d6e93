package table

import (
	"encoding/json"
	"fmt"
)

// Stage represents where the table is in the life of a hand
type Stage int

// Constants for Stage, in the order a hand progresses
const (
	StageWaiting Stage = iota
	StagePreFlop
	StageFlop
	StageTurn
	StageRiver
	StageShowdown
)

// IsBettingRound returns true if players may act during the stage
func (s Stage) IsBettingRound() bool {
	switch s {
	case StagePreFlop, StageFlop, StageTurn, StageRiver:
		return true
	}

	return false
}

// String returns the string representation of a stage
func (s Stage) String() string {
	switch s {
	case StageWaiting:
		return "waiting"
	case StagePreFlop:
		return "pre-flop"
	case StageFlop:
		return "flop"
	case StageTurn:
		return "turn"
	case StageRiver:
		return "river"
	case StageShowdown:
		return "showdown"
	default:
		panic(fmt.Sprintf("unknown stage: %d", s))
	}
}

// MarshalJSON encodes the stage into JSON
func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(s),
		Name: s.String(),
	})
}
