package webhook

// Event is the envelope posted to the configured endpoint. It carries the
// same sessionId/dataType/data triple as the WebSocket stream so one
// consumer can handle both transports.
type Event struct {
	SessionID string      `json:"sessionId"`
	DataType  string      `json:"dataType"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// URLResolver maps a session to its webhook override. Empty means the
// session has none and the global WEBHOOK_URL applies.
type URLResolver func(sessionID string) string
