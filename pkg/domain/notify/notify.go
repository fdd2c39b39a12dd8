// Package notify turns host plugin messages into operator notifications.
package notify

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Title is shown on every notification raised for the webhooks plugin.
const Title = "Webhooks"

// Notification types understood by the operator UI.
const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeNotice  = "notice"
	TypeError   = "error"
)

// Message is one inbound host push message addressed to a plugin.
type Message struct {
	Plugin string          `json:"plugin"`
	Data   json.RawMessage `json:"data"`
}

// Payload is the body the plugin sends in Message.Data.
type Payload struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
	Hide *bool  `json:"hide,omitempty"`
}

// Notification is what the operator sees.
type Notification struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Type  string `json:"type"`
	// Hide is true when the notification should dismiss itself.
	Hide bool `json:"hide"`
}

// New builds a notification with a fresh id.
func New(typ, text string, hide bool) Notification {
	return Notification{
		ID:    uuid.NewString(),
		Title: Title,
		Text:  text,
		Type:  typ,
		Hide:  hide,
	}
}

// Filter converts messages from pluginID into notifications. Messages from
// any other plugin, and messages whose data is not a payload, are dropped.
func Filter(pluginID string, msg Message) (Notification, bool) {
	if msg.Plugin != pluginID {
		return Notification{}, false
	}
	var p Payload
	if err := json.Unmarshal(msg.Data, &p); err != nil {
		return Notification{}, false
	}
	hide := true
	if p.Hide != nil {
		hide = *p.Hide
	}
	return New(p.Type, p.Msg, hide), true
}

// Observer receives notifications.
type Observer func(Notification)

// Hub delivers notifications to registered observers in registration order.
type Hub struct {
	mu        sync.RWMutex
	pluginID  string
	observers []Observer
}

// NewHub creates a hub that accepts messages from pluginID.
func NewHub(pluginID string) *Hub {
	return &Hub{pluginID: pluginID}
}

// Subscribe registers o.
func (h *Hub) Subscribe(o Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers = append(h.observers, o)
}

// Receive filters msg and publishes the resulting notification. It reports
// whether a notification was published.
func (h *Hub) Receive(msg Message) bool {
	n, ok := Filter(h.pluginID, msg)
	if !ok {
		return false
	}
	h.Publish(n)
	return true
}

// Publish delivers n to every observer.
func (h *Hub) Publish(n Notification) {
	h.mu.RLock()
	observers := append([]Observer(nil), h.observers...)
	h.mu.RUnlock()
	for _, o := range observers {
		o(n)
	}
}
