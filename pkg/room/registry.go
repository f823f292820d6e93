package room

import (
	"errors"
	"sort"
	"sync"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"holdem-server/internal/rng"
	"holdem-server/internal/util"
	"holdem-server/pkg/table"
	"holdem-server/pkg/table/action"
)

// Errors returned by the registry
var (
	// ErrTableNotFound is returned for an unknown table id
	ErrTableNotFound = errors.New("table not found")

	// ErrAlreadySeated is returned when the player is seated at another table
	ErrAlreadySeated = errors.New("player is already seated at a table")
)

// Registry owns the tables for the process: it creates them, looks them up,
// and seats players, enforcing that a player sits at one table at a time.
// It is created once at process start and lives for the process.
type Registry struct {
	log         logrus.FieldLogger
	clock       quartz.Clock
	random      rng.Generator
	broadcaster *Broadcaster

	mu      sync.RWMutex
	tables  map[string]*table.Table
	players map[string]string // player id -> table id
}

// NewRegistry returns a new table registry. The clock and random generator
// may be nil; tables then use the real clock and a crypto-backed generator.
func NewRegistry(log logrus.FieldLogger, clk quartz.Clock, random rng.Generator) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}

	r := &Registry{
		log:     log,
		clock:   clk,
		random:  random,
		tables:  make(map[string]*table.Table),
		players: make(map[string]string),
	}

	r.broadcaster = NewBroadcaster(log, r)
	r.broadcaster.StartShift()

	return r
}

// Broadcaster returns the broadcaster that fans out this registry's table
// events
func (r *Registry) Broadcaster() *Broadcaster {
	return r.broadcaster
}

// CreateTable creates a new table. An empty name gets a random one.
func (r *Registry) CreateTable(opts table.Options) *table.Table {
	if opts.Name == "" {
		opts.Name = util.GetRandomName()
	}

	id := uuid.New().String()
	tbl := table.New(id, opts, r.log, r.broadcaster, r.clock, r.random)

	r.mu.Lock()
	r.tables[id] = tbl
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{
		"table": id,
		"name":  opts.Name,
	}).Info("table created")

	return tbl
}

// GetTable returns the table with the given id
func (r *Registry) GetTable(id string) (*table.Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tbl, found := r.tables[id]
	return tbl, found
}

// Tables returns all tables, sorted by name
func (r *Registry) Tables() []*table.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tables := make([]*table.Table, 0, len(r.tables))
	for _, tbl := range r.tables {
		tables = append(tables, tbl)
	}

	sort.Slice(tables, func(i, j int) bool {
		if tables[i].Name() == tables[j].Name() {
			return tables[i].ID < tables[j].ID
		}

		return tables[i].Name() < tables[j].Name()
	})

	return tables
}

// SeatPlayer seats the player at the table with the given chips. A player
// holds at most one seat across all tables; moving tables is leave then
// join.
func (r *Registry) SeatPlayer(tableID, playerID, name string, chips int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tbl, found := r.tables[tableID]
	if !found {
		return ErrTableNotFound
	}

	if seatedAt, seated := r.players[playerID]; seated {
		// the table may have already let the player go (elimination,
		// timeout fold on a bust); only a live seat blocks
		if other, ok := r.tables[seatedAt]; ok && other.HasPlayer(playerID) {
			return ErrAlreadySeated
		}

		delete(r.players, playerID)
	}

	if err := tbl.AddPlayer(playerID, name, chips); err != nil {
		return err
	}

	r.players[playerID] = tableID
	return nil
}

// RemovePlayer removes the player from the table
func (r *Registry) RemovePlayer(tableID, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tbl, found := r.tables[tableID]
	if !found {
		return ErrTableNotFound
	}

	if err := tbl.RemovePlayer(playerID); err != nil {
		return err
	}

	delete(r.players, playerID)
	return nil
}

// PerformAction applies a betting action on behalf of the player
func (r *Registry) PerformAction(tableID, playerID string, act action.Action, amount int) error {
	tbl, found := r.GetTable(tableID)
	if !found {
		return ErrTableNotFound
	}

	return tbl.PerformAction(playerID, act, amount)
}
