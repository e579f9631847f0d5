package ws

import (
	"context"
	"net/http"
	"sync"

	"freightflow/internal/mylogger"
	"freightflow/internal/order-service/core/domain/events"

	"github.com/gorilla/websocket"
)

var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Dispatcher keeps the live feed connections grouped by audience scope
// and pushes each created notification to whoever is listening.
type Dispatcher struct {
	clients map[string]map[*Client]bool // audience -> clients
	mu      sync.RWMutex
	log     mylogger.Logger
}

func NewDispatcher(log mylogger.Logger) *Dispatcher {
	return &Dispatcher{
		clients: make(map[string]map[*Client]bool),
		log:     log,
	}
}

// FeedHandler upgrades the request and registers the client under the
// audience scope the auth middleware resolved.
func (d *Dispatcher) FeedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := d.log.Action("FeedHandler")

		audience := r.Header.Get("X-Audience")
		if audience == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		client := NewClient(context.Background(), conn, d, audience)
		d.AddClient(client)
		log.Info("feed client connected", "audience", audience)

		go client.ReadMessage()
		go client.WriteMessage()
	}
}

// WriteToAudience pushes an event to every client on one scope. A slow
// client just misses the push; the feed endpoint remains authoritative.
func (d *Dispatcher) WriteToAudience(audience string, ev events.NotificationEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for client := range d.clients[audience] {
		select {
		case client.egress <- ev:
		default:
		}
	}
}

func (d *Dispatcher) AddClient(client *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.clients[client.audience] == nil {
		d.clients[client.audience] = make(map[*Client]bool)
	}
	d.clients[client.audience][client] = true
}

func (d *Dispatcher) RemoveClient(client *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if set, ok := d.clients[client.audience]; ok {
		if set[client] {
			delete(set, client)
			client.conn.Close()
			// stops the write loop; WriteToAudience cannot be sending
			// here since it holds the same lock
			close(client.egress)
		}
		if len(set) == 0 {
			delete(d.clients, client.audience)
		}
	}
}
