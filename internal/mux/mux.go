package mux

import (
	"context"
	"net/http"

	gmux "github.com/gorilla/mux"

	"holdem-server/pkg/room"
	"holdem-server/pkg/table"
)

type ctxKey int

const (
	ctxTableKey ctxKey = iota
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version  string
	registry *room.Registry
}

// NewMux returns a new HTTP mux backed by the table registry
func NewMux(version string, registry *room.Registry) *Mux {
	this := &Mux{
		Router:   gmux.NewRouter(),
		version:  version,
		registry: registry,
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodGet).Path("/table").Handler(this.getTable())
	r.Methods(http.MethodPost).Path("/table").Handler(this.postTable())

	tr := r.PathPrefix("/table/{uuid:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}").Subrouter()
	tr.Use(this.tableMiddleware)

	tr.Methods(http.MethodGet).Path("/state").Handler(this.getTableUUIDState())
	tr.Methods(http.MethodGet).Path("/ws").Handler(this.getTableUUIDWS())
	tr.Methods(http.MethodPost).Path("/seat").Handler(this.postTableUUIDSeat())
	tr.Methods(http.MethodDelete).Path("/seat/{playerId}").Handler(this.deleteTableUUIDSeat())
	tr.Methods(http.MethodPost).Path("/action").Handler(this.postTableUUIDAction())

	return this
}

// tableMiddleware loads the table from the uuid path segment
func (m *Mux) tableMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vars := gmux.Vars(r)
		tbl, found := m.registry.GetTable(vars["uuid"])
		if !found {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxTableKey, tbl)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func tableFromContext(r *http.Request) *table.Table {
	return r.Context().Value(ctxTableKey).(*table.Table)
}
