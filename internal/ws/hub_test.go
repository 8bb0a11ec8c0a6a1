package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func receivePayload(t *testing.T, sub *subscriber) event {
	t.Helper()
	select {
	case payload := <-sub.send:
		var evt event
		if err := json.Unmarshal(payload, &evt); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return event{}
	}
}

func assertEmpty(t *testing.T, sub *subscriber) {
	t.Helper()
	select {
	case payload := <-sub.send:
		t.Errorf("unexpected event: %s", payload)
	default:
	}
}

func TestNotifyScopedSubscriber(t *testing.T) {
	hub := NewHub()
	subA := hub.subscribe("session-a")
	subB := hub.subscribe("session-b")

	hub.Notify("session-a", "message", map[string]string{"body": "hi"})

	evt := receivePayload(t, subA)
	if evt.SessionID != "session-a" || evt.DataType != "message" {
		t.Errorf("envelope = %q/%q", evt.SessionID, evt.DataType)
	}
	if evt.Timestamp == 0 {
		t.Error("timestamp missing from envelope")
	}
	assertEmpty(t, subB)
}

func TestNotifyFirehoseSeesEverySession(t *testing.T) {
	hub := NewHub()
	firehose := hub.subscribe(FirehoseSession)

	hub.Notify("session-a", "message", nil)
	hub.Notify("session-b", "ack", nil)

	first := receivePayload(t, firehose)
	second := receivePayload(t, firehose)
	if first.SessionID != "session-a" || second.SessionID != "session-b" {
		t.Errorf("firehose order = %q, %q", first.SessionID, second.SessionID)
	}
}

func TestNotifyAfterUnsubscribe(t *testing.T) {
	hub := NewHub()
	sub := hub.subscribe("session-a")
	hub.unsubscribe(sub)

	hub.Notify("session-a", "message", nil)
	assertEmpty(t, sub)
}

func TestNotifyDropsWhenSubscriberFull(t *testing.T) {
	hub := NewHub()
	sub := hub.subscribe("session-a")

	for i := 0; i < cap(sub.send)+10; i++ {
		hub.Notify("session-a", "message", i)
	}

	if got := len(sub.send); got != cap(sub.send) {
		t.Errorf("buffered %d events, want full buffer of %d", got, cap(sub.send))
	}

	// the retained events are the oldest ones
	if evt := receivePayload(t, sub); evt.Data != float64(0) {
		t.Errorf("first buffered event data = %v, want 0", evt.Data)
	}
}

func TestNotifyMarshalsOncePerEvent(t *testing.T) {
	hub := NewHub()
	subA := hub.subscribe("session-a")
	subB := hub.subscribe(FirehoseSession)

	hub.Notify("session-a", "message", map[string]string{"body": "shared"})

	payloadA := <-subA.send
	payloadB := <-subB.send
	if string(payloadA) != string(payloadB) {
		t.Errorf("subscribers received different payloads:\n%s\n%s", payloadA, payloadB)
	}
}
