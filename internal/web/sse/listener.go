package sse

import (
	"encoding/json"
	"fmt"
)

// Listener adapts a Hub to the broadcast.Listener interface, encoding each
// payload as JSON. Listeners wrapping the same hub compare equal, so setting
// up a session twice for one hub is recognised as the same session.
type Listener struct {
	hub *Hub
}

// NewListener wraps hub as a broadcast listener
func NewListener(hub *Hub) Listener {
	return Listener{hub: hub}
}

// ID returns the listener session ID
func (l Listener) ID() string {
	return l.hub.ID()
}

// Closed reports whether the hub has been closed
func (l Listener) Closed() bool {
	return l.hub.Closed()
}

// Emit encodes payload and queues it on the hub
func (l Listener) Emit(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", event, err)
	}
	return l.hub.BroadcastEvent(event, string(data))
}
