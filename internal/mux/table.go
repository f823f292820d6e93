package mux

import (
	"errors"
	"net/http"

	gmux "github.com/gorilla/mux"

	"holdem-server/internal/config"
	"holdem-server/pkg/room"
	"holdem-server/pkg/table"
	"holdem-server/pkg/table/action"
)

type okResponse struct {
	Status string `json:"status"`
}

var statusOK = okResponse{Status: "OK"}

// tableSummary is the list view of a table
type tableSummary struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Stage      table.Stage `json:"stage"`
	Players    int         `json:"players"`
	MaxPlayers int         `json:"maxPlayers"`
	SmallBlind int         `json:"smallBlind"`
	BigBlind   int         `json:"bigBlind"`
}

func tableOptionsFromConfig() table.Options {
	cfg := config.Instance()

	return table.Options{
		SmallBlind:    cfg.Table.SmallBlind,
		BigBlind:      cfg.Table.BigBlind,
		MinPlayers:    cfg.Table.MinPlayers,
		MaxPlayers:    cfg.Table.MaxPlayers,
		ActionTimeout: cfg.ActionTimeout(),
		NewHandDelay:  cfg.NewHandDelay(),
	}
}

func (m *Mux) postTable() http.HandlerFunc {
	type payload struct {
		Name       string `json:"name"`
		SmallBlind int    `json:"smallBlind"`
		BigBlind   int    `json:"bigBlind"`
		MinPlayers int    `json:"minPlayers"`
		MaxPlayers int    `json:"maxPlayers"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var p payload
		if !decodeRequest(w, r, &p) {
			return
		}

		opts := tableOptionsFromConfig()
		opts.Name = p.Name
		if p.SmallBlind > 0 {
			opts.SmallBlind = p.SmallBlind
		}

		if p.BigBlind > 0 {
			opts.BigBlind = p.BigBlind
		}

		if p.MinPlayers > 0 {
			opts.MinPlayers = p.MinPlayers
		}

		if p.MaxPlayers > 0 {
			opts.MaxPlayers = p.MaxPlayers
		}

		tbl := m.registry.CreateTable(opts)
		writeJSON(w, http.StatusCreated, tbl.State(""))
	}
}

func (m *Mux) getTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tables := m.registry.Tables()
		summaries := make([]tableSummary, len(tables))
		for i, tbl := range tables {
			state := tbl.State("")
			summaries[i] = tableSummary{
				ID:         state.ID,
				Name:       state.Name,
				Stage:      state.Stage,
				Players:    len(state.Players),
				MaxPlayers: tbl.Options().MaxPlayers,
				SmallBlind: state.SmallBlind,
				BigBlind:   state.BigBlind,
			}
		}

		writeJSON(w, http.StatusOK, summaries)
	}
}

func (m *Mux) postTableUUIDSeat() http.HandlerFunc {
	type payload struct {
		PlayerID string `json:"playerId"`
		Name     string `json:"name"`
		Chips    int    `json:"chips"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var p payload
		if !decodeRequest(w, r, &p) {
			return
		}

		if p.PlayerID == "" {
			writeJSONError(w, http.StatusBadRequest, errors.New("playerId is required"))
			return
		}

		if p.Name == "" {
			p.Name = p.PlayerID
		}

		if p.Chips <= 0 {
			p.Chips = config.Instance().Table.DefaultBuyIn
		}

		tbl := tableFromContext(r)
		if err := m.registry.SeatPlayer(tbl.ID, p.PlayerID, p.Name, p.Chips); err != nil {
			writeTableError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, tbl.State(p.PlayerID))
	}
}

func (m *Mux) deleteTableUUIDSeat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tbl := tableFromContext(r)
		playerID := gmux.Vars(r)["playerId"]

		if err := m.registry.RemovePlayer(tbl.ID, playerID); err != nil {
			writeTableError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, statusOK)
	}
}

func (m *Mux) postTableUUIDAction() http.HandlerFunc {
	type payload struct {
		PlayerID string `json:"playerId"`
		Action   string `json:"action"`
		Amount   int    `json:"amount"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var p payload
		if !decodeRequest(w, r, &p) {
			return
		}

		act, err := action.FromString(p.Action)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		tbl := tableFromContext(r)
		if err := tbl.PerformAction(p.PlayerID, act, p.Amount); err != nil {
			writeTableError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, tbl.State(p.PlayerID))
	}
}

func (m *Mux) getTableUUIDState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tbl := tableFromContext(r)

		if r.FormValue("reveal") == "true" {
			writeJSON(w, http.StatusOK, tbl.StateRevealAll())
			return
		}

		writeJSON(w, http.StatusOK, tbl.State(r.FormValue("playerId")))
	}
}

// writeTableError maps game-flow errors onto HTTP status codes
func writeTableError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, room.ErrTableNotFound), errors.Is(err, table.ErrPlayerNotSeated):
		writeJSONError(w, http.StatusNotFound, err)
	case errors.Is(err, table.ErrTableFull),
		errors.Is(err, table.ErrPlayerAlreadySeated),
		errors.Is(err, room.ErrAlreadySeated):
		writeJSONError(w, http.StatusConflict, err)
	case errors.Is(err, table.ErrNotYourTurn), errors.Is(err, table.ErrInvalidAction):
		writeJSONError(w, http.StatusBadRequest, err)
	default:
		writeJSONError(w, http.StatusInternalServerError, err)
	}
}
