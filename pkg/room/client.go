package room

import (
	"fmt"

	"github.com/gorilla/websocket"
)

// Client is a viewer connected to the server via websockets. A client is
// tied to one table; the same player connecting to another table is a
// separate client.
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	PlayerID string
	TableID  string

	send chan interface{}
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, playerID, tableID string) *Client {
	return &Client{
		Conn:     conn,
		Close:    make(chan string),
		PlayerID: playerID,
		TableID:  tableID,
		send:     make(chan interface{}, 256),
	}
}

// Send sends a message to the web client. It never blocks; false means the
// client's buffer is full and the message was dropped.
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel of outbound messages
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the player and table
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.PlayerID, c.TableID)
}
