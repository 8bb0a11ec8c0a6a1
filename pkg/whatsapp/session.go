package whatsapp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/appstate"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/kadigal/go-whatsapp-session-gateway/pkg/log"
)

// Session owns one linked-device socket and everything scoped to it: the
// credential container, the local store, the message key index and the
// reconnect bookkeeping. All mutation of the mutable fields goes through
// mu; the socket client is set once at creation and never swapped.
type Session struct {
	ID  string
	Dir string

	mgr       *Manager
	client    *whatsmeow.Client
	container *sqlstore.Container
	store     *Store
	keys      *keyIndex
	limiter   *rate.Limiter
	sf        singleflight.Group

	// connect dials the socket; connected reports its state. Split out so
	// the lifecycle paths can be exercised without a live socket.
	connect   func() error
	connected func() bool

	mu           sync.Mutex
	status       string
	qrPayload    string
	qrTimeout    int
	pairingCode  string
	pairingPhone string
	webhookURL   string
	manualStop   bool
	retries      int
	lostEmitted  bool
	connectedAt  time.Time
	retryTimer   *time.Timer
	graceTimer   *time.Timer
}

func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) setStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// QR returns the last raw QR payload plus its validity window in
// seconds. Empty until the socket delivers a code.
func (s *Session) QR() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.qrPayload, s.qrTimeout
}

func (s *Session) PairingCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pairingCode
}

func (s *Session) WebhookURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.webhookURL
}

func (s *Session) Client() *whatsmeow.Client {
	return s.client
}

func (s *Session) Store() *Store {
	return s.store
}

// Info snapshots the session for status endpoints.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	info := SessionInfo{
		ID:         s.ID,
		Status:     s.status,
		WebhookURL: s.webhookURL,
		Reconnects: s.retries,
	}
	if !s.connectedAt.IsZero() {
		info.ConnectedAt = s.connectedAt.Unix()
	}
	s.mu.Unlock()

	if s.client != nil && s.client.Store.ID != nil {
		info.JID = ToLegacyID(*s.client.Store.ID)
		info.PushName = s.client.Store.PushName
	}
	return info
}

func (s *Session) ownJID() types.JID {
	if s.client != nil && s.client.Store != nil && s.client.Store.ID != nil {
		return *s.client.Store.ID
	}
	return types.EmptyJID
}

// Connected reports whether the socket is up and logged in.
func (s *Session) Connected() bool {
	if s.connected == nil {
		return false
	}
	return s.connected()
}

func (s *Session) emit(kind string, data interface{}) {
	s.mgr.emit(s.ID, kind, data)
}

// beginManualStop suppresses the reconnect path while a stop is in
// flight. The flag clears itself after the grace window so a lingering
// close event from the dying socket cannot trigger a reconnect.
func (s *Session) beginManualStop(grace time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.manualStop = true
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
	if s.graceTimer != nil {
		s.graceTimer.Stop()
	}
	s.graceTimer = time.AfterFunc(grace, func() {
		s.mu.Lock()
		s.manualStop = false
		s.mu.Unlock()
	})
}

func (s *Session) stopTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
	if s.graceTimer != nil {
		s.graceTimer.Stop()
		s.graceTimer = nil
	}
}

// =============================================================================
// Connection lifecycle
// =============================================================================

// watchQR consumes the pairing channel. Each fresh code replaces the
// stored payload as-is; rendering is left to the image endpoint. The
// channel closes once pairing succeeds or times out.
func (s *Session) watchQR(qrChan <-chan whatsmeow.QRChannelItem) {
	for item := range qrChan {
		switch {
		case item.Event == "code":
			timeout := int(item.Timeout.Seconds())

			s.mu.Lock()
			s.qrPayload = item.Code
			s.qrTimeout = timeout
			if s.status != StatusPairing {
				s.status = StatusQR
			}
			s.mu.Unlock()

			s.emit(EventQR, map[string]interface{}{
				"qr":      item.Code,
				"timeout": timeout,
			})
		case item.Event == whatsmeow.QRChannelSuccess.Event:
			log.Session(s.ID).Info("QR pairing succeeded")
			s.mu.Lock()
			s.qrPayload = ""
			s.qrTimeout = 0
			s.mu.Unlock()
		default:
			// Timeout and the other failure endings close the socket from
			// inside whatsmeow without a Disconnected event, so the terminal
			// transition has to happen here. No redial: without a fresh QR
			// channel a reconnect cannot surface new codes for an unpaired
			// device, so the session settles in disconnected until the
			// caller starts it again.
			log.Session(s.ID).Warn("QR channel ended: " + item.Event)

			s.mu.Lock()
			if s.manualStop {
				s.mu.Unlock()
				continue
			}
			s.qrPayload = ""
			s.qrTimeout = 0
			s.status = StatusDisconnected
			s.mu.Unlock()

			s.emit(EventDisconnected, map[string]interface{}{
				"reason": ReasonConnectionLost,
			})
		}
	}
}

func (s *Session) onConnected() {
	s.mu.Lock()
	s.status = StatusConnected
	s.retries = 0
	s.lostEmitted = false
	s.qrPayload = ""
	s.qrTimeout = 0
	s.pairingCode = ""
	s.connectedAt = time.Now()
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
	s.mu.Unlock()

	identity := map[string]interface{}{
		"jid": ToLegacyID(s.ownJID()),
	}
	if s.client != nil {
		identity["pushName"] = s.client.Store.PushName
	}

	log.Session(s.ID).Info("Client connected as " + maskJIDForLog(s.ownJID().String()))
	s.emit(EventAuthenticated, identity)
	s.emit(EventReady, identity)

	if s.client != nil && s.client.Store.PushName != "" {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), presenceRequestTimeout)
			defer cancel()
			if err := s.client.SendPresence(ctx, types.PresenceAvailable); err != nil {
				log.Session(s.ID).Warn("Failed to send available presence: " + err.Error())
			}
		}()
	}
}

// onSocketClosed classifies a transient disconnect. Retries run on a fixed
// delay up to the configured cap; past the cap the session settles in
// disconnected and the terminal notification goes out exactly once.
func (s *Session) onSocketClosed() {
	s.mu.Lock()
	if s.manualStop {
		s.mu.Unlock()
		return
	}

	if s.retries >= s.mgr.reconnectMax {
		first := !s.lostEmitted
		s.lostEmitted = true
		s.status = StatusDisconnected
		s.mu.Unlock()

		if first {
			log.Session(s.ID).Error(fmt.Sprintf("Giving up after %d reconnect attempts", s.mgr.reconnectMax))
			s.emit(EventDisconnected, map[string]interface{}{
				"reason": ReasonConnectionLost,
			})
		}
		return
	}

	s.retries++
	attempt := s.retries
	s.status = StatusConnecting
	if s.retryTimer != nil {
		s.retryTimer.Stop()
	}
	s.retryTimer = time.AfterFunc(s.mgr.reconnectDelay, func() {
		if err := s.connect(); err != nil {
			log.Session(s.ID).Warn("Reconnect attempt failed: " + err.Error())
			s.onSocketClosed()
		}
	})
	s.mu.Unlock()

	log.Session(s.ID).Warn(fmt.Sprintf("Connection lost, reconnecting in %s (attempt %d/%d)", s.mgr.reconnectDelay, attempt, s.mgr.reconnectMax))
}

// onLoggedOut handles the remote side invalidating the device. Terminal:
// credentials are gone server-side, so the on-disk state is purged too.
func (s *Session) onLoggedOut() {
	s.mu.Lock()
	s.status = StatusDisconnected
	s.manualStop = true
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
	s.mu.Unlock()

	log.Session(s.ID).Warn("Device was logged out remotely")
	s.emit(EventDisconnected, map[string]interface{}{
		"reason": ReasonLoggedOut,
	})

	go func() {
		if err := s.mgr.Terminate(context.Background(), s.ID); err != nil && err != ErrSessionNotFound {
			log.Session(s.ID).Error("Failed to purge session after remote logout: " + err.Error())
		}
	}()
}

// =============================================================================
// Event ingestion
// =============================================================================

func (s *Session) handleEvent(rawEvt interface{}) {
	switch evt := rawEvt.(type) {
	case *events.Connected:
		s.onConnected()
	case *events.PairSuccess:
		log.Session(s.ID).Info("Paired with " + maskJIDForLog(evt.ID.String()))
		s.setStatus(StatusConnecting)
	case *events.PairError:
		log.Session(s.ID).Error("Pairing failed: " + evt.Error.Error())
	case *events.LoggedOut:
		s.onLoggedOut()
	case *events.StreamReplaced:
		log.Session(s.ID).Warn("Stream replaced by another client")
		s.onSocketClosed()
	case *events.Disconnected:
		s.onSocketClosed()
	case *events.ConnectFailure:
		log.Session(s.ID).Error(fmt.Sprintf("Connect failure: reason=%s, message=%s", evt.Reason, evt.Message))
		s.onSocketClosed()
	case *events.KeepAliveTimeout:
		log.Session(s.ID).Warn(fmt.Sprintf("Keepalive timeout: errors=%d, lastSuccess=%s", evt.ErrorCount, evt.LastSuccess.Format(time.RFC3339)))
	case *events.TemporaryBan:
		log.Session(s.ID).Error(fmt.Sprintf("Temporarily banned: reason=%s, expires=%s", evt.Code, evt.Expire))
		s.onSocketClosed()
	case *events.AppStateSyncComplete:
		if evt.Name == appstate.WAPatchCriticalBlock && s.client != nil && s.client.Store.PushName != "" {
			ctx, cancel := context.WithTimeout(context.Background(), presenceRequestTimeout)
			if err := s.client.SendPresence(ctx, types.PresenceAvailable); err != nil {
				log.Session(s.ID).Warn("Failed to send available presence: " + err.Error())
			}
			cancel()
		}
	case *events.OfflineSyncCompleted:
		log.Session(s.ID).Info(fmt.Sprintf("Offline sync completed, %d events", evt.Count))

	case *events.Message:
		s.onMessage(evt)
	case *events.Receipt:
		s.onReceipt(evt)
	case *events.HistorySync:
		s.onHistorySync(evt)

	case *events.Contact:
		name := evt.Action.GetFullName()
		if name == "" {
			name = evt.Action.GetFirstName()
		}
		s.onContactChanged(evt.JID, Contact{Name: name})
	case *events.PushName:
		s.onContactChanged(evt.JID, Contact{PushName: evt.NewPushName})
	case *events.BusinessName:
		s.onContactChanged(evt.JID, Contact{VerifiedName: evt.NewBusinessName, IsBusiness: true})
	case *events.Picture:
		s.emit(EventContactChanged, map[string]interface{}{
			"id":      ToLegacyID(evt.JID),
			"picture": true,
		})

	case *events.JoinedGroup:
		meta := groupMetaFromInfo(&evt.GroupInfo)
		s.store.UpsertGroup(*meta)
		s.emit(EventGroupJoin, map[string]interface{}{
			"groupId": meta.ID,
			"subject": meta.Subject,
		})
	case *events.GroupInfo:
		s.onGroupInfo(evt)

	case *events.CallOffer:
		s.emit(EventCall, map[string]interface{}{
			"id":        evt.CallID,
			"from":      ToLegacyID(evt.CallCreator),
			"timestamp": evt.Timestamp.Unix(),
			"status":    "offer",
		})
	case *events.CallTerminate:
		s.emit(EventCall, map[string]interface{}{
			"id":        evt.CallID,
			"from":      ToLegacyID(evt.CallCreator),
			"timestamp": evt.Timestamp.Unix(),
			"status":    "terminate",
			"reason":    evt.Reason,
		})

	case *events.Archive:
		archived := evt.Action.GetArchived()
		s.store.UpdateChat(ToLegacyID(evt.JID), func(meta *ChatMeta) {
			meta.Archived = archived
		})
		s.emit(EventChatArchived, map[string]interface{}{
			"chatId":   ToLegacyID(evt.JID),
			"archived": archived,
		})
	case *events.Pin:
		pinned := evt.Action.GetPinned()
		s.store.UpdateChat(ToLegacyID(evt.JID), func(meta *ChatMeta) {
			meta.Pinned = pinned
		})
	case *events.Mute:
		muted := evt.Action.GetMuted()
		muteEnd := evt.Action.GetMuteEndTimestamp()
		s.store.UpdateChat(ToLegacyID(evt.JID), func(meta *ChatMeta) {
			if muted {
				meta.MutedUntil = muteEnd
			} else {
				meta.MutedUntil = 0
			}
		})
	case *events.MarkChatAsRead:
		chatID := ToLegacyID(evt.JID)
		if evt.Action.GetRead() {
			s.store.ResetUnread(chatID)
			s.emit(EventUnreadCount, map[string]interface{}{
				"chatId":      chatID,
				"unreadCount": 0,
			})
		} else {
			s.store.UpdateChat(chatID, func(meta *ChatMeta) {
				meta.UnreadCount = -1
			})
			s.emit(EventUnreadCount, map[string]interface{}{
				"chatId":      chatID,
				"unreadCount": -1,
			})
		}
	case *events.DeleteChat:
		chatID := ToLegacyID(evt.JID)
		s.store.RemoveChat(chatID)
		s.emit(EventChatRemoved, map[string]interface{}{
			"chatId": chatID,
		})
	case *events.ClearChat:
		s.store.ClearChatMessages(ToLegacyID(evt.JID))
	}
}

func (s *Session) onMessage(evt *events.Message) {
	record := formatMessage(s.ownJID(), evt)
	s.keys.register(&record.Key, record.ChatID)

	if record.Type == TypeReaction && record.Reaction != nil {
		s.onReaction(record)
		return
	}

	isNew := s.store.UpsertMessage(record)

	if !record.FromMe {
		if isNew {
			count := s.store.IncrementUnread(record.ChatID)
			s.emit(EventUnreadCount, map[string]interface{}{
				"chatId":      record.ChatID,
				"unreadCount": count,
			})
		}
		s.emit(EventMessage, record)
	}
	s.emit(EventMessageCreate, record)
}

func (s *Session) onReaction(record *Message) {
	reaction := record.Reaction
	key, _, err := resolveMessageKey(s.store, s.keys, record.ChatID, reaction.MessageID)
	if err == nil {
		s.store.AttachReaction(key.RemoteJID, key.ID, reaction)
	}
	s.emit(EventMessageReaction, map[string]interface{}{
		"id":       record.ID,
		"chatId":   record.ChatID,
		"reaction": reaction,
	})
}

func (s *Session) onReceipt(evt *events.Receipt) {
	ack := ackFromReceipt(evt.Type)
	if ack == AckPending {
		return
	}
	chatID := ToLegacyID(evt.Chat)
	for _, messageID := range evt.MessageIDs {
		for _, touched := range s.store.UpdateAck(chatID, messageID, ack) {
			s.emit(EventMessageAck, map[string]interface{}{
				"id":     touched.ID,
				"chatId": touched.ChatID,
				"ack":    touched.Ack,
			})
		}
	}
}

// onHistorySync replays server-held history into the local store. Bulk
// load only: no per-message notifications go out for replayed records.
func (s *Session) onHistorySync(evt *events.HistorySync) {
	if s.client == nil || evt.Data == nil {
		return
	}

	conversations := evt.Data.GetConversations()
	total := 0
	for _, conversation := range conversations {
		chatJID, err := types.ParseJID(conversation.GetID())
		if err != nil {
			continue
		}
		chatID := ToLegacyID(chatJID)

		if name := conversation.GetName(); name != "" {
			s.store.UpdateChat(chatID, func(meta *ChatMeta) {
				if meta.Name == "" {
					meta.Name = name
				}
			})
		}
		if conversation.GetArchived() {
			s.store.UpdateChat(chatID, func(meta *ChatMeta) {
				meta.Archived = true
			})
		}
		if unread := conversation.GetUnreadCount(); unread > 0 {
			s.store.UpdateChat(chatID, func(meta *ChatMeta) {
				if meta.UnreadCount == 0 {
					meta.UnreadCount = int(unread)
				}
			})
		}

		for _, historyMsg := range conversation.GetMessages() {
			webMsg := historyMsg.GetMessage()
			if webMsg == nil {
				continue
			}
			parsed, err := s.client.ParseWebMessage(chatJID, webMsg)
			if err != nil {
				continue
			}
			record := formatMessage(s.ownJID(), parsed)
			record.Ack = ackFromWebStatus(webMsg.GetStatus())
			s.store.UpsertMessage(record)
			s.keys.register(&record.Key, record.ChatID)
			total++
		}
	}

	log.Session(s.ID).Info(fmt.Sprintf("History sync: %d conversations, %d messages", len(conversations), total))
}

func (s *Session) onContactChanged(jid types.JID, partial Contact) {
	partial.ID = ToLegacyID(jid)
	partial.Number = jid.User
	s.store.UpsertContact(partial)

	payload := map[string]interface{}{
		"id": partial.ID,
	}
	if partial.Name != "" {
		payload["name"] = partial.Name
	}
	if partial.PushName != "" {
		payload["pushname"] = partial.PushName
	}
	if partial.VerifiedName != "" {
		payload["verifiedName"] = partial.VerifiedName
	}
	s.emit(EventContactChanged, payload)
}

func (s *Session) onGroupInfo(evt *events.GroupInfo) {
	groupID := ToLegacyID(evt.JID)

	if len(evt.Join) > 0 {
		s.emit(EventGroupJoin, map[string]interface{}{
			"groupId":      groupID,
			"participants": legacyIDs(evt.Join),
		})
	}
	if len(evt.Leave) > 0 {
		s.emit(EventGroupLeave, map[string]interface{}{
			"groupId":      groupID,
			"participants": legacyIDs(evt.Leave),
		})
	}

	changed := map[string]interface{}{"groupId": groupID}
	if evt.Name != nil {
		changed["subject"] = evt.Name.Name
		s.store.UpdateChat(groupID, func(meta *ChatMeta) {
			meta.Name = evt.Name.Name
		})
	}
	if evt.Topic != nil {
		changed["description"] = evt.Topic.Topic
	}
	if evt.Announce != nil {
		changed["announce"] = evt.Announce.IsAnnounce
	}
	if evt.Locked != nil {
		changed["locked"] = evt.Locked.IsLocked
	}
	if len(evt.Promote) > 0 {
		changed["promoted"] = legacyIDs(evt.Promote)
	}
	if len(evt.Demote) > 0 {
		changed["demoted"] = legacyIDs(evt.Demote)
	}
	if len(changed) > 1 {
		s.emit(EventGroupUpdate, changed)
	}

	// The change events carry deltas only; pull the authoritative state.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), groupRefreshTimeout)
		defer cancel()
		if _, err := s.refreshGroup(ctx, evt.JID); err != nil {
			log.Session(s.ID).Warn("Failed to refresh group " + groupID + ": " + err.Error())
		}
	}()
}

// refreshGroup reloads group metadata from the socket into the store.
// Concurrent refreshes of the same group collapse into one fetch.
func (s *Session) refreshGroup(ctx context.Context, jid types.JID) (*GroupMeta, error) {
	result, err, _ := s.sf.Do(jid.String(), func() (interface{}, error) {
		if s.client == nil {
			return nil, ErrNotConnected
		}
		info, err := s.client.GetGroupInfo(ctx, jid)
		if err != nil {
			return nil, err
		}
		meta := groupMetaFromInfo(info)
		s.store.UpsertGroup(*meta)
		return meta, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*GroupMeta), nil
}

func groupMetaFromInfo(info *types.GroupInfo) *GroupMeta {
	meta := &GroupMeta{
		ID:          ToLegacyID(info.JID),
		Subject:     info.Name,
		Owner:       ToLegacyID(info.OwnerJID),
		Description: info.Topic,
		Announce:    info.IsAnnounce,
		Locked:      info.IsLocked,
	}
	if !info.GroupCreated.IsZero() {
		meta.CreatedAt = info.GroupCreated.Unix()
	}
	for _, participant := range info.Participants {
		meta.Participants = append(meta.Participants, GroupParticipant{
			ID:           ToLegacyID(participant.JID),
			IsAdmin:      participant.IsAdmin,
			IsSuperAdmin: participant.IsSuperAdmin,
		})
	}
	return meta
}

func legacyIDs(jids []types.JID) []string {
	ids := make([]string, 0, len(jids))
	for _, jid := range jids {
		ids = append(ids, ToLegacyID(jid))
	}
	return ids
}
