package table

import "holdem-server/pkg/table/action"

// Notifier receives callbacks from a table after every accepted mutation.
// Callbacks are invoked while the table's lock is held, so implementations
// must not call back into the table and should return quickly.
type Notifier interface {
	// TableChanged is called after any state change on the table
	TableChanged(tableID string)

	// PlayerAction is called when a player takes an explicit or automatic
	// action. The description is human-readable, i.e., "Ted bet $10".
	PlayerAction(tableID, playerID string, act action.Action, amount int, description string)
}

// NopNotifier is a Notifier that discards all notifications
type NopNotifier struct{}

// TableChanged does nothing
func (NopNotifier) TableChanged(string) {}

// PlayerAction does nothing
func (NopNotifier) PlayerAction(string, string, action.Action, int, string) {}
