package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// setWebhookEnv pins every knob the engine reads at construction time.
// WEBHOOK_ALLOW_INSECURE defaults to true here because httptest binds to
// 127.0.0.1, which the production URL filter rejects.
func setWebhookEnv(t *testing.T, overrides map[string]string) {
	t.Helper()
	base := map[string]string{
		"WEBHOOK_URL":            "",
		"WEBHOOK_SECRET":         "",
		"WEBHOOK_ALLOWED_EVENTS": "",
		"WEBHOOK_ALLOW_INSECURE": "true",
		"WEBHOOKS_ENABLED":       "true",
		"WEBHOOK_WORKERS":        "2",
		"WEBHOOK_RETRY_LIMIT":    "3",
		"WEBHOOK_RETRY_DELAY":    "10ms",
		"WEBHOOK_QUEUE_SIZE":     "16",
	}
	for key, value := range overrides {
		base[key] = value
	}
	for key, value := range base {
		t.Setenv(key, value)
	}
}

type capturedRequest struct {
	header http.Header
	body   []byte
}

func captureServer(t *testing.T) (*httptest.Server, chan capturedRequest) {
	t.Helper()
	received := make(chan capturedRequest, 16)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- capturedRequest{header: r.Header.Clone(), body: body}
	}))
	t.Cleanup(server.Close)
	return server, received
}

func waitRequest(t *testing.T, received <-chan capturedRequest) capturedRequest {
	t.Helper()
	select {
	case req := <-received:
		return req
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for webhook delivery")
		return capturedRequest{}
	}
}

func TestDeliverySignsAndWrapsPayload(t *testing.T) {
	server, received := captureServer(t)
	setWebhookEnv(t, map[string]string{
		"WEBHOOK_URL":    server.URL,
		"WEBHOOK_SECRET": "hook-secret",
	})

	engine := NewEngine(nil)
	defer engine.Shutdown(time.Second)

	engine.Notify("session-a", "message", map[string]string{"body": "hi"})
	req := waitRequest(t, received)

	if got := req.header.Get("Content-Type"); got != "application/json" {
		t.Errorf("content type = %q", got)
	}
	if got := req.header.Get("X-Webhook-Event"); got != "message" {
		t.Errorf("event header = %q", got)
	}
	if got := req.header.Get("User-Agent"); got != "WhatsApp-Session-Gateway/1.0" {
		t.Errorf("user agent = %q", got)
	}

	mac := hmac.New(sha256.New, []byte("hook-secret"))
	mac.Write(req.body)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	if got := req.header.Get("X-Webhook-Signature"); got != want {
		t.Errorf("signature = %q, want %q", got, want)
	}
	if got := req.header.Get("X-Hub-Signature-256"); got != want {
		t.Errorf("hub signature = %q, want %q", got, want)
	}

	var event Event
	if err := json.Unmarshal(req.body, &event); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if event.SessionID != "session-a" || event.DataType != "message" {
		t.Errorf("envelope = %q/%q", event.SessionID, event.DataType)
	}
	if event.Timestamp == 0 {
		t.Error("timestamp missing from envelope")
	}
	data, ok := event.Data.(map[string]interface{})
	if !ok || data["body"] != "hi" {
		t.Errorf("data = %#v", event.Data)
	}
}

func TestDeliveryRetriesAfterServerError(t *testing.T) {
	var calls int32
	attempts := make(chan int32, 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			w.WriteHeader(http.StatusInternalServerError)
		}
		attempts <- n
	}))
	t.Cleanup(server.Close)

	setWebhookEnv(t, map[string]string{"WEBHOOK_URL": server.URL})
	engine := NewEngine(nil)

	engine.Notify("session-a", "message", nil)

	for want := int32(1); want <= 2; want++ {
		select {
		case got := <-attempts:
			if got != want {
				t.Fatalf("attempt %d arrived, want %d", got, want)
			}
		case <-time.After(3 * time.Second):
			t.Fatalf("timed out waiting for attempt %d", want)
		}
	}

	engine.Shutdown(2 * time.Second)
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("total attempts = %d, want 2 (stop after first success)", got)
	}
}

func TestAllowedEventsFilter(t *testing.T) {
	server, received := captureServer(t)
	setWebhookEnv(t, map[string]string{
		"WEBHOOK_URL":            server.URL,
		"WEBHOOK_ALLOWED_EVENTS": "message, ack",
	})

	engine := NewEngine(nil)

	engine.Notify("session-a", "qr", "ignored")
	engine.Notify("session-a", "message", "kept")

	req := waitRequest(t, received)
	var event Event
	if err := json.Unmarshal(req.body, &event); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if event.DataType != "message" {
		t.Errorf("delivered %q, want message", event.DataType)
	}

	engine.Shutdown(2 * time.Second)
	select {
	case req := <-received:
		t.Errorf("filtered event was delivered: %s", req.body)
	default:
	}
}

func TestResolverOverridesDefaultURL(t *testing.T) {
	defaultServer, defaultReceived := captureServer(t)
	overrideServer, overrideReceived := captureServer(t)
	setWebhookEnv(t, map[string]string{"WEBHOOK_URL": defaultServer.URL})

	engine := NewEngine(func(sessionID string) string {
		if sessionID == "custom" {
			return overrideServer.URL
		}
		return ""
	})
	defer engine.Shutdown(2 * time.Second)

	engine.Notify("custom", "message", nil)
	engine.Notify("plain", "message", nil)

	var event Event
	if err := json.Unmarshal(waitRequest(t, overrideReceived).body, &event); err != nil {
		t.Fatalf("unmarshal override payload: %v", err)
	}
	if event.SessionID != "custom" {
		t.Errorf("override endpoint got session %q", event.SessionID)
	}

	if err := json.Unmarshal(waitRequest(t, defaultReceived).body, &event); err != nil {
		t.Fatalf("unmarshal default payload: %v", err)
	}
	if event.SessionID != "plain" {
		t.Errorf("default endpoint got session %q", event.SessionID)
	}
}

func TestDisabledEngineDeliversNothing(t *testing.T) {
	server, received := captureServer(t)
	setWebhookEnv(t, map[string]string{
		"WEBHOOK_URL":      server.URL,
		"WEBHOOKS_ENABLED": "false",
	})

	engine := NewEngine(nil)
	engine.Notify("session-a", "message", nil)
	engine.Shutdown(time.Second)

	select {
	case req := <-received:
		t.Errorf("disabled engine delivered: %s", req.body)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestShutdownDrainsQueue(t *testing.T) {
	server, received := captureServer(t)
	setWebhookEnv(t, map[string]string{"WEBHOOK_URL": server.URL})

	engine := NewEngine(nil)
	for i := 0; i < 5; i++ {
		engine.Notify("session-a", "message", i)
	}

	engine.Shutdown(5 * time.Second)
	if got := len(received); got != 5 {
		t.Errorf("delivered %d events before shutdown returned, want 5", got)
	}

	// repeat calls are no-ops
	engine.Shutdown(time.Second)
}

func TestQueueFullDropsEvent(t *testing.T) {
	started := make(chan struct{}, 8)
	release := make(chan struct{})
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		started <- struct{}{}
		<-release
	}))
	t.Cleanup(server.Close)

	setWebhookEnv(t, map[string]string{
		"WEBHOOK_URL":        server.URL,
		"WEBHOOK_WORKERS":    "1",
		"WEBHOOK_QUEUE_SIZE": "1",
	})
	engine := NewEngine(nil)

	// first event occupies the single worker inside the blocked handler
	engine.Notify("session-a", "message", 1)
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("worker never picked up the first event")
	}

	// second fills the queue, third has nowhere to go
	engine.Notify("session-a", "message", 2)
	engine.Notify("session-a", "message", 3)

	close(release)
	engine.Shutdown(5 * time.Second)

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("delivered %d events, want 2 (one dropped)", got)
	}
}

func TestValidateTargetURL(t *testing.T) {
	setWebhookEnv(t, map[string]string{"WEBHOOK_ALLOW_INSECURE": "false", "WEBHOOKS_ENABLED": "false"})
	strict := NewEngine(nil)
	defer strict.Shutdown(time.Second)

	if err := strict.validateURL("https://example.com/hook"); err != nil {
		t.Errorf("public https rejected: %v", err)
	}
	blocked := []string{
		"http://example.com/hook",
		"https://localhost/hook",
		"https://127.0.0.1/hook",
		"https://192.168.1.10/hook",
		"https://10.1.2.3/hook",
	}
	for _, raw := range blocked {
		if err := strict.validateURL(raw); err == nil {
			t.Errorf("validateURL(%q) = nil, want error", raw)
		}
	}

	setWebhookEnv(t, map[string]string{"WEBHOOK_ALLOW_INSECURE": "true", "WEBHOOKS_ENABLED": "false"})
	insecure := NewEngine(nil)
	defer insecure.Shutdown(time.Second)

	if err := insecure.validateURL("http://127.0.0.1:9000/hook"); err != nil {
		t.Errorf("insecure mode rejected local http: %v", err)
	}
	if err := insecure.validateURL("ftp://example.com/hook"); err == nil {
		t.Error("insecure mode accepted a non-http scheme")
	}
}
