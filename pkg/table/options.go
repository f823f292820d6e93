package table

import "time"

// Options configure a table
type Options struct {
	Name          string        `json:"name"`
	SmallBlind    int           `json:"smallBlind"`
	BigBlind      int           `json:"bigBlind"`
	MinPlayers    int           `json:"minPlayers"`
	MaxPlayers    int           `json:"maxPlayers"`
	ActionTimeout time.Duration `json:"-"`
	NewHandDelay  time.Duration `json:"-"`
}

// DefaultOptions returns the standard table configuration
func DefaultOptions() Options {
	return Options{
		Name:          "",
		SmallBlind:    25,
		BigBlind:      50,
		MinPlayers:    2,
		MaxPlayers:    9,
		ActionTimeout: 120 * time.Second,
		NewHandDelay:  5 * time.Second,
	}
}

// applyDefaults fills in zero values with the defaults
func (o *Options) applyDefaults() {
	def := DefaultOptions()

	if o.SmallBlind <= 0 {
		o.SmallBlind = def.SmallBlind
	}

	if o.BigBlind <= 0 {
		o.BigBlind = def.BigBlind
	}

	if o.MinPlayers < 2 {
		o.MinPlayers = def.MinPlayers
	}

	if o.MaxPlayers <= 0 || o.MaxPlayers > 9 {
		o.MaxPlayers = def.MaxPlayers
	}

	if o.ActionTimeout <= 0 {
		o.ActionTimeout = def.ActionTimeout
	}

	if o.NewHandDelay <= 0 {
		o.NewHandDelay = def.NewHandDelay
	}
}
