package whatsapp

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waCommon"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	t.Setenv("WHATSAPP_SESSIONS_ROOT", t.TempDir())
	t.Setenv("WHATSAPP_AUTO_START", "false")
	t.Setenv("WHATSAPP_RECONNECT_DELAY", "5ms")
	t.Setenv("WHATSAPP_RECONNECT_MAX_ATTEMPTS", "2")
	t.Setenv("WHATSAPP_STOP_GRACE_PERIOD", "50ms")
	t.Setenv("WHATSAPP_STORE_DEBOUNCE", "1h")
	t.Setenv("WHATSAPP_STORE_MAX_MESSAGES", "0")
	t.Setenv("WHATSAPP_SEND_RATE_LIMIT", "0")
	return NewManager()
}

// newBareSession builds a session with no socket behind it, enough for the
// event ingestion and reconnect paths.
func newBareSession(m *Manager, id string) *Session {
	session := &Session{
		ID:     id,
		mgr:    m,
		store:  NewStore(id, "", time.Hour, 0),
		keys:   newKeyIndex(),
		status: StatusConnected,
	}
	session.connect = func() error { return errors.New("no socket") }
	return session
}

// reactionEvent builds an inbound reaction from sender targeting one of
// their earlier messages in the same one-on-one chat.
func reactionEvent(sender types.JID, id string, targetID string, text string) *events.Message {
	return incomingEvent(sender, sender, id, &waE2E.Message{
		ReactionMessage: &waE2E.ReactionMessage{
			Key: &waCommon.MessageKey{
				RemoteJID: proto.String(sender.String()),
				FromMe:    proto.Bool(false),
				ID:        proto.String(targetID),
			},
			Text:              proto.String(text),
			SenderTimestampMS: proto.Int64(time.Now().UnixMilli()),
		},
	})
}

type recordedEvent struct {
	sessionID string
	dataType  string
	data      interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingNotifier) Notify(sessionID string, dataType string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{sessionID: sessionID, dataType: dataType, data: data})
}

func (r *recordingNotifier) byType(dataType string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedEvent
	for _, evt := range r.events {
		if evt.dataType == dataType {
			out = append(out, evt)
		}
	}
	return out
}

func (r *recordingNotifier) waitFor(t *testing.T, dataType string) recordedEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if events := r.byType(dataType); len(events) > 0 {
			return events[0]
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q event", dataType)
	return recordedEvent{}
}

func TestMaskJIDForLog(t *testing.T) {
	cases := []struct{ in, want string }{
		{"6281234567890@s.whatsapp.net", "6281234567890@s.whatsappxxxx"},
		{"abc", "abc"},
		{"", ""},
		{"abcd", "xxxx"},
	}
	for _, tc := range cases {
		if got := maskJIDForLog(tc.in); got != tc.want {
			t.Errorf("maskJIDForLog(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSessionDSN(t *testing.T) {
	dsn := sessionDSN("/data/session-a")
	if want := "file:/data/session-a/whatsmeow.db"; len(dsn) < len(want) || dsn[:len(want)] != want {
		t.Errorf("dsn = %q, want prefix %q", dsn, want)
	}
}

func TestGetUnknownSession(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get = %v, want ErrSessionNotFound", err)
	}
	if _, err := m.GetConnected("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("GetConnected = %v, want ErrSessionNotFound", err)
	}
	if _, _, err := m.QR("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("QR = %v, want ErrSessionNotFound", err)
	}
	if got := m.WebhookURLFor("nope"); got != "" {
		t.Errorf("WebhookURLFor = %q, want empty", got)
	}
}

func TestGetConnectedRequiresSocket(t *testing.T) {
	m := newTestManager(t)
	session := newBareSession(m, "idle")
	m.sessions[session.ID] = session

	if _, err := m.GetConnected("idle"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("GetConnected = %v, want ErrNotConnected", err)
	}
}

func TestSessionsSnapshotSorted(t *testing.T) {
	m := newTestManager(t)
	m.sessions["bravo"] = newBareSession(m, "bravo")
	m.sessions["alpha"] = newBareSession(m, "alpha")

	infos := m.Sessions()
	if len(infos) != 2 || infos[0].ID != "alpha" || infos[1].ID != "bravo" {
		t.Errorf("Sessions() = %+v, want sorted by id", infos)
	}
}

func TestEmitFansOutToNotifiers(t *testing.T) {
	m := newTestManager(t)
	first := &recordingNotifier{}
	second := &recordingNotifier{}
	m.AddNotifier(first)
	m.AddNotifier(second)

	m.emit("session-a", EventReady, nil)

	for _, notifier := range []*recordingNotifier{first, second} {
		events := notifier.byType(EventReady)
		if len(events) != 1 || events[0].sessionID != "session-a" {
			t.Errorf("notifier got %+v", events)
		}
	}
}

func TestInboundMessageIngestion(t *testing.T) {
	m := newTestManager(t)
	notifier := &recordingNotifier{}
	m.AddNotifier(notifier)
	session := newBareSession(m, "ingest")

	sender := types.NewJID("6281234567890", types.DefaultUserServer)
	session.handleEvent(incomingEvent(sender, sender, "A1", &waE2E.Message{
		Conversation: proto.String("hello"),
	}))

	stored := session.store.Messages("6281234567890@c.us", 0)
	if len(stored) != 1 || stored[0].Body != "hello" {
		t.Fatalf("stored = %+v", stored)
	}

	if events := notifier.byType(EventMessage); len(events) != 1 {
		t.Errorf("message events = %d, want 1", len(events))
	}
	if events := notifier.byType(EventMessageCreate); len(events) != 1 {
		t.Errorf("message_create events = %d, want 1", len(events))
	}

	unread := notifier.waitFor(t, EventUnreadCount)
	payload := unread.data.(map[string]interface{})
	if payload["chatId"] != "6281234567890@c.us" || payload["unreadCount"] != 1 {
		t.Errorf("unread payload = %+v", payload)
	}
}

func TestOwnMessageSkipsInboundNotification(t *testing.T) {
	m := newTestManager(t)
	notifier := &recordingNotifier{}
	m.AddNotifier(notifier)
	session := newBareSession(m, "own")

	chat := types.NewJID("6281234567890", types.DefaultUserServer)
	evt := incomingEvent(chat, testOwnJID, "A1", &waE2E.Message{
		Conversation: proto.String("sent from phone"),
	})
	evt.Info.IsFromMe = true
	session.handleEvent(evt)

	if events := notifier.byType(EventMessage); len(events) != 0 {
		t.Errorf("own message produced %d inbound notifications", len(events))
	}
	if events := notifier.byType(EventMessageCreate); len(events) != 1 {
		t.Errorf("message_create events = %d, want 1", len(events))
	}
	if events := notifier.byType(EventUnreadCount); len(events) != 0 {
		t.Errorf("own message bumped the unread counter: %+v", events)
	}
}

func TestReceiptAdvancesAck(t *testing.T) {
	m := newTestManager(t)
	notifier := &recordingNotifier{}
	m.AddNotifier(notifier)
	session := newBareSession(m, "receipt")

	sender := types.NewJID("6281234567890", types.DefaultUserServer)
	session.handleEvent(incomingEvent(sender, sender, "A1", &waE2E.Message{
		Conversation: proto.String("hello"),
	}))

	session.handleEvent(&events.Receipt{
		MessageSource: types.MessageSource{Chat: sender, Sender: sender},
		MessageIDs:    []types.MessageID{"A1"},
		Timestamp:     time.Now(),
		Type:          types.ReceiptTypeRead,
	})

	stored := session.store.Messages("6281234567890@c.us", 0)
	if len(stored) != 1 || stored[0].Ack != AckRead {
		t.Fatalf("ack = %d, want %d", stored[0].Ack, AckRead)
	}

	ackEvent := notifier.waitFor(t, EventMessageAck)
	payload := ackEvent.data.(map[string]interface{})
	if payload["ack"] != AckRead {
		t.Errorf("ack payload = %+v", payload)
	}
}

func TestReactionAttachesToTarget(t *testing.T) {
	m := newTestManager(t)
	notifier := &recordingNotifier{}
	m.AddNotifier(notifier)
	session := newBareSession(m, "react")

	sender := types.NewJID("6281234567890", types.DefaultUserServer)
	session.handleEvent(incomingEvent(sender, sender, "A1", &waE2E.Message{
		Conversation: proto.String("hello"),
	}))

	session.handleEvent(reactionEvent(sender, "R1", "A1", "👍"))

	stored := session.store.Messages("6281234567890@c.us", 0)
	if len(stored) != 1 {
		t.Fatalf("reaction became a standalone message: %+v", stored)
	}
	if stored[0].Reaction == nil || stored[0].Reaction.Text != "👍" {
		t.Errorf("reaction not attached: %+v", stored[0].Reaction)
	}
	if events := notifier.byType(EventMessageReaction); len(events) != 1 {
		t.Errorf("reaction events = %d, want 1", len(events))
	}
}

func TestReconnectGivesUpAfterCap(t *testing.T) {
	m := newTestManager(t)
	notifier := &recordingNotifier{}
	m.AddNotifier(notifier)
	session := newBareSession(m, "flaky")

	session.onSocketClosed()

	terminal := notifier.waitFor(t, EventDisconnected)
	payload := terminal.data.(map[string]interface{})
	if payload["reason"] != ReasonConnectionLost {
		t.Errorf("reason = %v, want %q", payload["reason"], ReasonConnectionLost)
	}

	time.Sleep(50 * time.Millisecond)
	if events := notifier.byType(EventDisconnected); len(events) != 1 {
		t.Errorf("terminal event emitted %d times, want once", len(events))
	}
	if got := session.Status(); got != StatusDisconnected {
		t.Errorf("status = %q, want %q", got, StatusDisconnected)
	}
}

func TestTemporaryBanEntersReconnect(t *testing.T) {
	m := newTestManager(t)
	notifier := &recordingNotifier{}
	m.AddNotifier(notifier)
	session := newBareSession(m, "banned")

	var dials int32
	session.connect = func() error {
		atomic.AddInt32(&dials, 1)
		return errors.New("no socket")
	}

	session.handleEvent(&events.TemporaryBan{})

	terminal := notifier.waitFor(t, EventDisconnected)
	payload := terminal.data.(map[string]interface{})
	if payload["reason"] != ReasonConnectionLost {
		t.Errorf("reason = %v, want %q", payload["reason"], ReasonConnectionLost)
	}
	if got := atomic.LoadInt32(&dials); got != int32(m.reconnectMax) {
		t.Errorf("dialed %d times, want %d", got, m.reconnectMax)
	}
	if got := session.Status(); got != StatusDisconnected {
		t.Errorf("status = %q, want %q", got, StatusDisconnected)
	}
}

func TestManualStopSuppressesReconnect(t *testing.T) {
	m := newTestManager(t)
	notifier := &recordingNotifier{}
	m.AddNotifier(notifier)
	session := newBareSession(m, "stopping")

	var dials int32
	session.connect = func() error {
		atomic.AddInt32(&dials, 1)
		return errors.New("no socket")
	}

	session.beginManualStop(500 * time.Millisecond)
	session.onSocketClosed()

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&dials); got != 0 {
		t.Errorf("reconnect dialed %d times during manual stop", got)
	}
	if events := notifier.byType(EventDisconnected); len(events) != 0 {
		t.Errorf("manual stop produced %d disconnect events", len(events))
	}
	session.stopTimers()
}

func TestStopRemovesSessionAndEmits(t *testing.T) {
	m := newTestManager(t)
	notifier := &recordingNotifier{}
	m.AddNotifier(notifier)
	session := newBareSession(m, "stop-me")
	m.sessions[session.ID] = session

	if err := m.Stop(context.Background(), "stop-me"); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if _, err := m.Get("stop-me"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("session still registered after stop: %v", err)
	}

	stopped := notifier.waitFor(t, EventDisconnected)
	payload := stopped.data.(map[string]interface{})
	if payload["reason"] != ReasonManualStop {
		t.Errorf("reason = %v, want %q", payload["reason"], ReasonManualStop)
	}
}

func TestStartReusesConnectedSession(t *testing.T) {
	m := newTestManager(t)
	notifier := &recordingNotifier{}
	m.AddNotifier(notifier)

	var dials int32
	session := newBareSession(m, "idem")
	session.connected = func() bool { return true }
	session.connect = func() error {
		atomic.AddInt32(&dials, 1)
		return errors.New("no socket")
	}
	m.sessions[session.ID] = session

	got, err := m.Start(context.Background(), "idem", StartOptions{})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got != session {
		t.Fatal("Start replaced a connected session")
	}
	if n := atomic.LoadInt32(&dials); n != 0 {
		t.Errorf("Start dialed %d times for a connected session, want 0", n)
	}
	if events := notifier.byType(EventDisconnected); len(events) != 0 {
		t.Errorf("Start stopped a connected session: %+v", events)
	}
}

func TestWatchQRStoresRawPayload(t *testing.T) {
	m := newTestManager(t)
	notifier := &recordingNotifier{}
	m.AddNotifier(notifier)
	session := newBareSession(m, "pairing")
	session.status = StatusConnecting

	qrChan := make(chan whatsmeow.QRChannelItem, 1)
	qrChan <- whatsmeow.QRChannelItem{Event: "code", Code: "QR123", Timeout: 20 * time.Second}
	close(qrChan)
	session.watchQR(qrChan)

	payload, timeout := session.QR()
	if payload != "QR123" {
		t.Fatalf("payload = %q, want the raw code %q", payload, "QR123")
	}
	if timeout != 20 {
		t.Errorf("timeout = %d, want 20", timeout)
	}
	if got := session.Status(); got != StatusQR {
		t.Errorf("status = %q, want %q", got, StatusQR)
	}

	qrEvents := notifier.byType(EventQR)
	if len(qrEvents) != 1 {
		t.Fatalf("qr events = %d, want 1", len(qrEvents))
	}
	data := qrEvents[0].data.(map[string]interface{})
	if data["qr"] != "QR123" {
		t.Errorf("event payload = %v, want the raw code", data["qr"])
	}
}

func TestQRTimeoutSurfacesDisconnected(t *testing.T) {
	m := newTestManager(t)
	notifier := &recordingNotifier{}
	m.AddNotifier(notifier)
	session := newBareSession(m, "pairing")
	session.status = StatusConnecting

	qrChan := make(chan whatsmeow.QRChannelItem, 2)
	qrChan <- whatsmeow.QRChannelItem{Event: "code", Code: "QR123", Timeout: 20 * time.Second}
	qrChan <- whatsmeow.QRChannelTimeout
	close(qrChan)
	session.watchQR(qrChan)

	if got := session.Status(); got != StatusDisconnected {
		t.Errorf("status = %q, want %q", got, StatusDisconnected)
	}
	if payload, _ := session.QR(); payload != "" {
		t.Errorf("payload = %q, want cleared after timeout", payload)
	}

	disconnects := notifier.byType(EventDisconnected)
	if len(disconnects) != 1 {
		t.Fatalf("disconnected events = %d, want 1", len(disconnects))
	}
	data := disconnects[0].data.(map[string]interface{})
	if data["reason"] != ReasonConnectionLost {
		t.Errorf("reason = %v, want %q", data["reason"], ReasonConnectionLost)
	}
}

func TestQRTimeoutDuringManualStopIsSilent(t *testing.T) {
	m := newTestManager(t)
	notifier := &recordingNotifier{}
	m.AddNotifier(notifier)
	session := newBareSession(m, "pairing")
	session.status = StatusQR
	session.beginManualStop(time.Hour)

	qrChan := make(chan whatsmeow.QRChannelItem, 1)
	qrChan <- whatsmeow.QRChannelTimeout
	close(qrChan)
	session.watchQR(qrChan)

	if events := notifier.byType(EventDisconnected); len(events) != 0 {
		t.Errorf("disconnected events during stop = %d, want 0", len(events))
	}
	session.stopTimers()
}

func TestConnectedClearsQR(t *testing.T) {
	m := newTestManager(t)
	notifier := &recordingNotifier{}
	m.AddNotifier(notifier)
	session := newBareSession(m, "pairing")
	session.status = StatusConnecting

	qrChan := make(chan whatsmeow.QRChannelItem, 1)
	qrChan <- whatsmeow.QRChannelItem{Event: "code", Code: "QR123", Timeout: 20 * time.Second}
	close(qrChan)
	session.watchQR(qrChan)

	session.handleEvent(&events.Connected{})

	if got := session.Status(); got != StatusConnected {
		t.Errorf("status = %q, want %q", got, StatusConnected)
	}
	if payload, _ := session.QR(); payload != "" {
		t.Errorf("payload = %q, want cleared after connect", payload)
	}
	if events := notifier.byType(EventReady); len(events) != 1 {
		t.Errorf("ready events = %d, want 1", len(events))
	}
}
