package whatsapp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waCompanionReg"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/protobuf/proto"
	_ "modernc.org/sqlite" // registers the "sqlite" driver for the credential containers

	"github.com/kadigal/go-whatsapp-session-gateway/pkg/env"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/log"
)

const sessionDirPrefix = "session-"

const (
	pairPhoneRequestTimeout = 90 * time.Second
	logoutRequestTimeout    = 30 * time.Second
	presenceRequestTimeout  = 10 * time.Second
	groupRefreshTimeout     = 15 * time.Second
	storeDeleteTimeout      = 15 * time.Second
	autoStartConcurrency    = 4
)

// Manager owns the live session map and the per-session lifecycle. Every
// session keeps its credential container and local store under its own
// directory, <sessionsRoot>/session-<id>/, so terminating one tenant never
// touches another's state.
type Manager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	notifiers []Notifier

	sessionsRoot   string
	autoStart      bool
	proxyURL       string
	reconnectDelay time.Duration
	reconnectMax   int
	stopGrace      time.Duration
	storeDebounce  time.Duration
	maxPerChat     int
	sendPerMinute  int
}

// StartOptions carries the per-session overrides accepted on start.
type StartOptions struct {
	WebhookURL string
}

func NewManager() *Manager {
	return &Manager{
		sessions:       make(map[string]*Session),
		sessionsRoot:   env.GetEnvStringOrDefault("WHATSAPP_SESSIONS_ROOT", "./sessions"),
		autoStart:      env.GetEnvBoolOrDefault("WHATSAPP_AUTO_START", true),
		proxyURL:       env.GetEnvStringOrDefault("WHATSAPP_CLIENT_PROXY_URL", ""),
		reconnectDelay: env.GetEnvDurationOrDefault("WHATSAPP_RECONNECT_DELAY", 5*time.Second),
		reconnectMax:   env.GetEnvIntOrDefault("WHATSAPP_RECONNECT_MAX_ATTEMPTS", 5),
		stopGrace:      env.GetEnvDurationOrDefault("WHATSAPP_STOP_GRACE_PERIOD", 2*time.Second),
		storeDebounce:  env.GetEnvDurationOrDefault("WHATSAPP_STORE_DEBOUNCE", 1200*time.Millisecond),
		maxPerChat:     env.GetEnvIntOrDefault("WHATSAPP_STORE_MAX_MESSAGES", 1000),
		sendPerMinute:  env.GetEnvIntOrDefault("WHATSAPP_SEND_RATE_LIMIT", 0),
	}
}

// AddNotifier registers an outbound sink for every emitted event.
func (m *Manager) AddNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifiers = append(m.notifiers, n)
}

func (m *Manager) emit(sessionID string, dataType string, data interface{}) {
	m.mu.RLock()
	notifiers := make([]Notifier, len(m.notifiers))
	copy(notifiers, m.notifiers)
	m.mu.RUnlock()

	log.Event(sessionID, dataType).Debug("Emitting event")
	for _, notifier := range notifiers {
		notifier.Notify(sessionID, dataType, data)
	}
}

func (m *Manager) sessionDir(sessionID string) string {
	return filepath.Join(m.sessionsRoot, sessionDirPrefix+sessionID)
}

func sessionDSN(dir string) string {
	return "file:" + filepath.Join(dir, "whatsmeow.db") + "?_pragma=foreign_keys(1)&_journal_mode=WAL&_busy_timeout=10000"
}

// Get returns the live session for the id.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetConnected returns the session only when its socket is up and logged
// in. Per-session operations fail fast through here.
func (m *Manager) GetConnected(sessionID string) (*Session, error) {
	session, err := m.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Connected() {
		return nil, ErrNotConnected
	}
	return session, nil
}

// Sessions snapshots every live session, sorted by id.
func (m *Manager) Sessions() []SessionInfo {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, session.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Start brings up the session for the id. A connected session is returned
// as-is; a stale one is fully stopped first so two sockets never share an
// id. The connection itself completes asynchronously: the returned session
// starts out in connecting state.
func (m *Manager) Start(ctx context.Context, sessionID string, opts StartOptions) (*Session, error) {
	m.mu.RLock()
	existing := m.sessions[sessionID]
	m.mu.RUnlock()

	if existing != nil {
		if existing.Connected() {
			return existing, nil
		}
		if err := m.Stop(ctx, sessionID); err != nil && err != ErrSessionNotFound {
			log.Session(sessionID).Warn("Failed to stop stale session: " + err.Error())
		}
	}

	dir := m.sessionDir(sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	container, err := sqlstore.New(ctx, "sqlite", sessionDSN(dir), nil)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		_ = container.Close()
		return nil, fmt.Errorf("load device: %w", err)
	}

	store.DeviceProps.Os = proto.String(runtime.GOOS)
	store.DeviceProps.PlatformType = waCompanionReg.DeviceProps_CHROME.Enum()
	store.DeviceProps.RequireFullSync = proto.Bool(false)
	applyClientVersion()

	client := whatsmeow.NewClient(device, nil)
	if len(m.proxyURL) > 0 {
		if err := client.SetProxyAddress(m.proxyURL); err != nil {
			log.Session(sessionID).Warn("Failed to set proxy address: " + err.Error())
		}
	}
	// The manager owns the retry policy; the library one stays off.
	client.EnableAutoReconnect = false
	client.AutoTrustIdentity = true

	session := &Session{
		ID:         sessionID,
		Dir:        dir,
		mgr:        m,
		client:     client,
		container:  container,
		store:      NewStore(sessionID, dir, m.storeDebounce, m.maxPerChat),
		keys:       newKeyIndex(),
		status:     StatusConnecting,
		webhookURL: opts.WebhookURL,
	}
	if m.sendPerMinute > 0 {
		session.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.sendPerMinute)), m.sendPerMinute)
	}
	session.connect = func() error { return client.Connect() }
	session.connected = func() bool { return client.IsConnected() && client.IsLoggedIn() }
	session.store.Load()

	client.AddEventHandler(session.handleEvent)

	m.mu.Lock()
	m.sessions[sessionID] = session
	m.mu.Unlock()

	if client.Store.ID == nil {
		qrChan, err := client.GetQRChannel(context.Background())
		if err != nil {
			log.Session(sessionID).Warn("QR channel unavailable: " + err.Error())
		} else {
			go session.watchQR(qrChan)
		}
	}

	if err := session.connect(); err != nil {
		m.removeSession(session)
		return nil, fmt.Errorf("connect: %w", err)
	}

	log.Session(sessionID).Info("Session started")
	return session, nil
}

// Stop tears the session down but keeps its on-disk credentials and store.
// The store is flushed synchronously before the socket closes.
func (m *Manager) Stop(ctx context.Context, sessionID string) error {
	session, err := m.Get(sessionID)
	if err != nil {
		return err
	}

	wasDisconnected := session.Status() == StatusDisconnected

	session.beginManualStop(m.stopGrace)
	session.store.Flush()
	if session.client != nil {
		session.client.Disconnect()
	}
	session.setStatus(StatusDisconnected)

	m.removeSession(session)

	if !wasDisconnected {
		m.emit(sessionID, EventDisconnected, map[string]interface{}{
			"reason": ReasonManualStop,
		})
	}
	log.Session(sessionID).Info("Session stopped")
	return nil
}

// removeSession drops the session from the live map and releases its
// store and credential container.
func (m *Manager) removeSession(session *Session) {
	m.mu.Lock()
	if m.sessions[session.ID] == session {
		delete(m.sessions, session.ID)
	}
	m.mu.Unlock()

	session.store.Close()
	if session.container != nil {
		if err := session.container.Close(); err != nil {
			log.Session(session.ID).Warn("Failed to close credential store: " + err.Error())
		}
	}
}

// Terminate stops the session and deletes its on-disk directory,
// credentials included. Irreversible.
func (m *Manager) Terminate(ctx context.Context, sessionID string) error {
	stopErr := m.Stop(ctx, sessionID)
	if stopErr != nil && stopErr != ErrSessionNotFound {
		log.Session(sessionID).Warn("Stop before terminate failed: " + stopErr.Error())
	}

	dir := m.sessionDir(sessionID)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return stopErr
		}
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove session directory: %w", err)
	}

	log.Session(sessionID).Info("Session terminated")
	return nil
}

// Logout invalidates the device on the remote side, then terminates. When
// the remote call fails the local credentials are deleted directly so the
// session never comes back half-paired.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	session, err := m.Get(sessionID)
	if err != nil {
		return err
	}

	session.beginManualStop(m.stopGrace)

	client := session.client
	if client != nil && client.Store.ID != nil {
		presenceCtx, cancelPresence := context.WithTimeout(ctx, presenceRequestTimeout)
		_ = client.SendPresence(presenceCtx, types.PresenceUnavailable)
		cancelPresence()

		logoutCtx, cancelLogout := context.WithTimeout(ctx, logoutRequestTimeout)
		err = client.Logout(logoutCtx)
		cancelLogout()
		if err != nil {
			log.Session(sessionID).Warn("Remote logout failed, deleting local credentials: " + err.Error())
			client.Disconnect()
			deleteCtx, cancelDelete := context.WithTimeout(ctx, storeDeleteTimeout)
			if err := client.Store.Delete(deleteCtx); err != nil {
				log.Session(sessionID).Warn("Failed to delete credentials: " + err.Error())
			}
			cancelDelete()
		}
	}

	return m.Terminate(ctx, sessionID)
}

// RequestPairingCode asks the socket for a phone-pairing code. The phone
// number is reduced to digits first; the code is kept on the session for
// later reads.
func (m *Manager) RequestPairingCode(ctx context.Context, sessionID string, phone string) (string, error) {
	session, err := m.Get(sessionID)
	if err != nil {
		return "", err
	}
	if session.client == nil {
		return "", ErrNotConnected
	}
	if session.client.Store.ID != nil {
		return "", fmt.Errorf("session %s is already paired", sessionID)
	}

	phone = NormalizePhone(phone)
	if phone == "" {
		return "", fmt.Errorf("phone number must contain digits")
	}

	session.mu.Lock()
	session.status = StatusPairing
	session.pairingPhone = phone
	session.mu.Unlock()

	if !session.client.IsConnected() {
		if err := session.connect(); err != nil {
			return "", fmt.Errorf("connect: %w", err)
		}
	}

	pairCtx, cancel := context.WithTimeout(ctx, pairPhoneRequestTimeout)
	defer cancel()
	code, err := session.client.PairPhone(pairCtx, phone, true, whatsmeow.PairClientChrome, "Chrome ("+runtime.GOOS+")")
	if err != nil {
		return "", err
	}

	session.mu.Lock()
	session.pairingCode = code
	session.mu.Unlock()

	log.Session(sessionID).Info("Issued pairing code for +" + phone)
	return code, nil
}

// QR returns the session's current raw QR payload.
func (m *Manager) QR(sessionID string) (string, int, error) {
	session, err := m.Get(sessionID)
	if err != nil {
		return "", 0, err
	}
	payload, timeout := session.QR()
	if payload == "" {
		return "", 0, ErrQRNotAvailable
	}
	return payload, timeout, nil
}

// AutoStart discovers session directories on disk and starts each one.
// Failures are isolated per session: one broken directory never aborts
// the scan.
func (m *Manager) AutoStart(ctx context.Context) {
	if !m.autoStart {
		return
	}

	entries, err := os.ReadDir(m.sessionsRoot)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Print(nil).Error("Failed to scan sessions directory: " + err.Error())
		}
		return
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(autoStartConcurrency)

	restored := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), sessionDirPrefix) {
			continue
		}
		sessionID := strings.TrimPrefix(entry.Name(), sessionDirPrefix)
		if sessionID == "" {
			continue
		}
		restored++
		group.Go(func() error {
			if _, err := m.Start(groupCtx, sessionID, StartOptions{}); err != nil {
				log.Session(sessionID).Error("Auto start failed: " + err.Error())
			}
			return nil
		})
	}
	_ = group.Wait()

	if restored > 0 {
		log.Print(nil).Info(fmt.Sprintf("Auto start finished for %d session(s)", restored))
	}
}

// StopAll stops every live session, used on shutdown.
func (m *Manager) StopAll(ctx context.Context) {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		if err := m.Stop(ctx, id); err != nil && err != ErrSessionNotFound {
			log.Session(id).Warn("Failed to stop session on shutdown: " + err.Error())
		}
	}
}

// CheckHealth re-enters the reconnect path for sessions whose socket
// silently died underneath a connected status.
func (m *Manager) CheckHealth() {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.mu.RUnlock()

	for _, session := range sessions {
		if session.Status() == StatusConnected && !session.Connected() {
			log.Session(session.ID).Warn("Health check found dead socket")
			session.onSocketClosed()
		}
	}
}

// FlushDirty persists every store with unsaved changes. The debounce
// writer covers the normal path; this sweep is the backstop.
func (m *Manager) FlushDirty() {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.mu.RUnlock()

	for _, session := range sessions {
		if session.store.Dirty() {
			session.store.Flush()
		}
	}
}

// WebhookURLFor exposes the per-session webhook override to the
// notification engine.
func (m *Manager) WebhookURLFor(sessionID string) string {
	session, err := m.Get(sessionID)
	if err != nil {
		return ""
	}
	return session.WebhookURL()
}

func maskJIDForLog(jid string) string {
	if len(jid) < 4 {
		return jid
	}
	return jid[0:len(jid)-4] + "xxxx"
}
