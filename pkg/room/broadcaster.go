package room

import (
	"github.com/sirupsen/logrus"

	"holdem-server/pkg/table"
	"holdem-server/pkg/table/action"
)

// TableSource looks up tables when the broadcaster builds snapshots
type TableSource interface {
	GetTable(id string) (*table.Table, bool)
}

// PlayerActionEvent describes an action a player took, for fan-out to
// everyone watching the table
type PlayerActionEvent struct {
	TableID     string        `json:"-"`
	PlayerID    string        `json:"playerId"`
	Action      action.Action `json:"action"`
	Amount      int           `json:"amount"`
	Description string        `json:"description"`
}

// Broadcaster fans table events out to connected clients. It satisfies
// table.Notifier: tables call it while holding their lock, so the notifier
// methods only enqueue and the run loop does the real work, including
// taking per-viewer snapshots.
type Broadcaster struct {
	log    logrus.FieldLogger
	source TableSource

	connect       chan *Client
	disconnect    chan *Client
	stateChanged  chan string
	playerActions chan *PlayerActionEvent
	close         chan bool

	// only touched in the run loop
	clients map[string]map[*Client]bool
}

// NewBroadcaster returns a new broadcaster for the given table source
func NewBroadcaster(log logrus.FieldLogger, source TableSource) *Broadcaster {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Broadcaster{
		log:           log,
		source:        source,
		connect:       make(chan *Client, 256),
		disconnect:    make(chan *Client, 256),
		stateChanged:  make(chan string, 256),
		playerActions: make(chan *PlayerActionEvent, 256),
		close:         make(chan bool),
		clients:       make(map[string]map[*Client]bool),
	}
}

// StartShift starts the broadcaster run loop
func (b *Broadcaster) StartShift() {
	go b.runLoop()
}

// EndShift terminates the run loop
func (b *Broadcaster) EndShift() {
	close(b.close)
}

// TableChanged implements table.Notifier. It must not block.
func (b *Broadcaster) TableChanged(tableID string) {
	select {
	case b.stateChanged <- tableID:
	default:
		b.log.WithField("table", tableID).Warn("state change notification dropped")
	}
}

// PlayerAction implements table.Notifier. It must not block.
func (b *Broadcaster) PlayerAction(tableID, playerID string, act action.Action, amount int, description string) {
	event := &PlayerActionEvent{
		TableID:     tableID,
		PlayerID:    playerID,
		Action:      act,
		Amount:      amount,
		Description: description,
	}

	select {
	case b.playerActions <- event:
	default:
		b.log.WithField("table", tableID).Warn("player action notification dropped")
	}
}

// ClientConnected is called when a client connects to the server
func (b *Broadcaster) ClientConnected(client *Client) {
	b.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (b *Broadcaster) ClientDisconnected(client *Client) {
	b.disconnect <- client
}

func (b *Broadcaster) runLoop() {
	for {
		select {
		case client := <-b.connect:
			b.log.WithField("client", client.String()).Debug("client connected")
			clients, found := b.clients[client.TableID]
			if !found {
				clients = make(map[*Client]bool)
				b.clients[client.TableID] = clients
			}

			clients[client] = true
			b.sendState(client)
		case client := <-b.disconnect:
			b.log.WithField("client", client.String()).Debug("client disconnected")
			if clients, found := b.clients[client.TableID]; found {
				delete(clients, client)
				if len(clients) == 0 {
					delete(b.clients, client.TableID)
				}
			}
		case tableID := <-b.stateChanged:
			for client := range b.clients[tableID] {
				b.sendState(client)
			}
		case event := <-b.playerActions:
			response := &Response{
				Key:  "playerAction",
				Data: event,
			}

			for client := range b.clients[event.TableID] {
				if !client.Send(response) {
					b.log.WithField("client", client.String()).Warn("client send buffer full")
				}
			}
		case <-b.close:
			return
		}
	}
}

// sendState pushes a viewer-scoped snapshot to the client
func (b *Broadcaster) sendState(client *Client) {
	tbl, found := b.source.GetTable(client.TableID)
	if !found {
		b.log.WithField("table", client.TableID).Warn("state change for unknown table")
		return
	}

	response := &Response{
		Key:  "state",
		Data: tbl.State(client.PlayerID),
	}

	if !client.Send(response) {
		b.log.WithField("client", client.String()).Warn("client send buffer full")
	}
}
