package action

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Action is a betting action a player can take
type Action int

// Constants for Action
const (
	Fold Action = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

// FromString returns the Action for the given name, i.e., "all-in"
func FromString(s string) (Action, error) {
	switch strings.ToLower(s) {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "bet":
		return Bet, nil
	case "raise":
		return Raise, nil
	case "all-in":
		return AllIn, nil
	}

	return 0, fmt.Errorf("%s is not a valid action", s)
}

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	case Raise:
		return "raise"
	case AllIn:
		return "all-in"
	default:
		panic(fmt.Sprintf("unknown action: %d", a))
	}
}

// IsValid returns true if the action is one of the known constants
func (a Action) IsValid() bool {
	return a >= Fold && a <= AllIn
}

// LogMessage returns a human-readable description of a player taking
// the action, i.e., "Ted raised to $20"
func (a Action) LogMessage(name string, amount int) string {
	switch a {
	case Fold:
		return fmt.Sprintf("%s folded", name)
	case Check:
		return fmt.Sprintf("%s checked", name)
	case Call:
		return fmt.Sprintf("%s called $%d", name, amount)
	case Bet:
		return fmt.Sprintf("%s bet $%d", name, amount)
	case Raise:
		return fmt.Sprintf("%s raised to $%d", name, amount)
	case AllIn:
		return fmt.Sprintf("%s went ALL IN with $%d", name, amount)
	default:
		panic(fmt.Sprintf("unknown action: %d", a))
	}
}

// MarshalJSON encodes the action into JSON
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(a),
		Name: a.String(),
	})
}
