package table

import "errors"

// Errors returned by table operations. These are expected game-flow
// outcomes, not failures: the caller decides how to surface them.
var (
	// ErrTableFull is returned when a player tries to join a full table
	ErrTableFull = errors.New("table is full")

	// ErrPlayerNotSeated is returned when the player is not at the table
	ErrPlayerNotSeated = errors.New("player is not seated at the table")

	// ErrPlayerAlreadySeated is returned when the player already has a seat
	ErrPlayerAlreadySeated = errors.New("player is already seated at the table")

	// ErrNotYourTurn is returned when a player acts out of turn
	ErrNotYourTurn = errors.New("it is not your turn")

	// ErrInvalidAction is returned when an action violates the betting rules
	ErrInvalidAction = errors.New("invalid action")
)
