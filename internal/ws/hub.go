package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/kadigal/go-whatsapp-session-gateway/pkg/log"
)

// FirehoseSession subscribes a client to events from every session.
const FirehoseSession = "all"

// event mirrors the webhook envelope so both transports deliver the same
// JSON shape.
type event struct {
	SessionID string      `json:"sessionId"`
	DataType  string      `json:"dataType"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

type subscriber struct {
	session string
	send    chan []byte
}

// Hub fans session events out to connected WebSocket clients. It implements
// the whatsapp.Notifier interface.
type Hub struct {
	mu    sync.RWMutex
	conns map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*subscriber]struct{})}
}

// Notify broadcasts one event. The payload is marshaled once; slow
// consumers lose events instead of blocking the emitting session.
func (h *Hub) Notify(sessionID string, dataType string, data interface{}) {
	payload, err := json.Marshal(event{
		SessionID: sessionID,
		DataType:  dataType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		log.Event(sessionID, dataType).Error("Failed marshal WebSocket event: " + err.Error())
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.conns {
		if sub.session != FirehoseSession && sub.session != sessionID {
			continue
		}
		select {
		case sub.send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribe(session string) *subscriber {
	sub := &subscriber{session: session, send: make(chan []byte, 64)}
	h.mu.Lock()
	h.conns[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	delete(h.conns, sub)
	h.mu.Unlock()
}
