package whatsapp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/kadigal/go-whatsapp-session-gateway/pkg/log"
)

const storeFileName = "store.json"

// chatMessages keeps one chat's records in arrival order with a dedupe map
// keyed by (remoteJid, id, fromMe). Upserts for a known key overwrite the
// existing record instead of appending.
type chatMessages struct {
	order []*Message
	byKey map[string]*Message
}

// Store is the per-session mirror of chats, contacts, groups and message
// history, rebuilt from protocol events and optionally persisted to
// store.json inside the session directory. All maps are guarded by one
// mutex; every mutator schedules a coalesced save instead of writing
// synchronously.
type Store struct {
	mu sync.Mutex

	sessionID string
	path      string

	messages map[string]*chatMessages
	chats    map[string]*ChatMeta
	contacts map[string]*Contact
	groups   map[string]*GroupMeta

	debounce    time.Duration
	maxPerChat  int
	saveTimer   *time.Timer
	dirty       bool
	saveEnabled bool
}

type storeSnapshot struct {
	Version  int                   `json:"version"`
	SavedAt  int64                 `json:"savedAt"`
	Messages map[string][]*Message `json:"messages"`
	Chats    map[string]*ChatMeta  `json:"chats"`
	Contacts map[string]*Contact   `json:"contacts"`
	Groups   map[string]*GroupMeta `json:"groups"`
}

const storeSnapshotVersion = 1

// NewStore creates an empty store. dir may be empty to keep the store
// memory-only (used by tests and by sessions before their directory exists).
func NewStore(sessionID string, dir string, debounce time.Duration, maxPerChat int) *Store {
	path := ""
	if dir != "" {
		path = filepath.Join(dir, storeFileName)
	}
	if debounce <= 0 {
		debounce = 1200 * time.Millisecond
	}
	return &Store{
		sessionID:   sessionID,
		path:        path,
		messages:    make(map[string]*chatMessages),
		chats:       make(map[string]*ChatMeta),
		contacts:    make(map[string]*Contact),
		groups:      make(map[string]*GroupMeta),
		debounce:    debounce,
		maxPerChat:  maxPerChat,
		saveEnabled: path != "",
	}
}

// Load reads a previously persisted snapshot. Absence is normal; a corrupt
// file is logged and skipped so the session starts with a fresh store.
func (s *Store) Load() {
	if s.path == "" {
		return
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Session(s.sessionID).WithError(err).Warn("Failed to read store file")
		}
		return
	}

	var snap storeSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Session(s.sessionID).WithError(err).Warn("Store file is corrupt, starting with a fresh store")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for chatID, msgs := range snap.Messages {
		bucket := &chatMessages{byKey: make(map[string]*Message, len(msgs))}
		for _, msg := range msgs {
			if msg == nil || msg.Key.ID == "" {
				continue
			}
			k := dedupeKey(msg.Key)
			if _, seen := bucket.byKey[k]; seen {
				continue
			}
			bucket.order = append(bucket.order, msg)
			bucket.byKey[k] = msg
		}
		if len(bucket.order) > 0 {
			s.messages[chatID] = bucket
		}
	}
	if snap.Chats != nil {
		s.chats = snap.Chats
	}
	if snap.Contacts != nil {
		s.contacts = snap.Contacts
	}
	if snap.Groups != nil {
		s.groups = snap.Groups
	}
}

func dedupeKey(key MessageKey) string {
	return fmt.Sprintf("%s|%s|%t", ToJID(key.RemoteJID).String(), key.ID, key.FromMe)
}

// =============================================================================
// Mutation
// =============================================================================

// UpsertMessage inserts or overwrites the record for its key and returns
// whether the key was new. An overwrite keeps the previous ack when the new
// record arrives with a plain pending ack, so receipts seen before a
// history replay are not lost.
func (s *Store) UpsertMessage(msg *Message) bool {
	if msg == nil || msg.Key.ID == "" {
		return false
	}
	chatID := LegacyID(msg.ChatID)
	msg.ChatID = chatID

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.messages[chatID]
	if bucket == nil {
		bucket = &chatMessages{byKey: make(map[string]*Message)}
		s.messages[chatID] = bucket
	}

	k := dedupeKey(msg.Key)
	if existing, ok := bucket.byKey[k]; ok {
		if msg.Ack == AckPending && existing.Ack > AckPending {
			msg.Ack = existing.Ack
		}
		if msg.Raw == nil {
			msg.Raw = existing.Raw
		}
		*existing = *msg
		s.scheduleSaveLocked()
		return false
	}

	bucket.order = append(bucket.order, msg)
	bucket.byKey[k] = msg
	if s.maxPerChat > 0 && len(bucket.order) > s.maxPerChat {
		oldest := bucket.order[0]
		bucket.order = bucket.order[1:]
		delete(bucket.byKey, dedupeKey(oldest.Key))
	}

	meta := s.chatMetaLocked(chatID)
	if msg.Timestamp > meta.LastActivity {
		meta.LastActivity = msg.Timestamp
	}

	s.scheduleSaveLocked()
	return true
}

// UpdateAck raises the ack level of every record matching the native
// message id inside one chat and returns the touched records. Acks only
// move forward, except the error level which always sticks.
func (s *Store) UpdateAck(chatID string, messageID string, ack int) []*Message {
	chatID = LegacyID(chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.messages[chatID]
	if bucket == nil {
		return nil
	}

	var touched []*Message
	for _, msg := range bucket.order {
		if msg.Key.ID != messageID {
			continue
		}
		if ack == AckError || ack > msg.Ack {
			msg.Ack = ack
			touched = append(touched, msg)
		}
	}
	if len(touched) > 0 {
		s.scheduleSaveLocked()
	}
	return touched
}

// AttachReaction sets the latest reaction on the record matching the
// native message id inside one chat. An empty reaction text clears it.
func (s *Store) AttachReaction(chatID string, messageID string, reaction *Reaction) *Message {
	chatID = LegacyID(chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.messages[chatID]
	if bucket == nil {
		return nil
	}

	for _, msg := range bucket.order {
		if msg.Key.ID != messageID {
			continue
		}
		if reaction != nil && reaction.Text == "" {
			msg.Reaction = nil
		} else {
			msg.Reaction = reaction
		}
		s.scheduleSaveLocked()
		return msg
	}
	return nil
}

// RemoveMessage drops a record from its chat bucket. Returns the removed
// record, or nil when nothing matched.
func (s *Store) RemoveMessage(chatID string, messageID string) *Message {
	chatID = LegacyID(chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.messages[chatID]
	if bucket == nil {
		return nil
	}
	for i, msg := range bucket.order {
		if msg.Key.ID != messageID {
			continue
		}
		bucket.order = append(bucket.order[:i], bucket.order[i+1:]...)
		delete(bucket.byKey, dedupeKey(msg.Key))
		s.scheduleSaveLocked()
		return msg
	}
	return nil
}

// TouchMessage applies fn to a stored record under the store lock and
// schedules a save. Returns nil when the chat or message is unknown.
func (s *Store) TouchMessage(chatID string, messageID string, fn func(msg *Message)) *Message {
	chatID = LegacyID(chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.messages[chatID]
	if bucket == nil {
		return nil
	}
	for _, msg := range bucket.order {
		if msg.Key.ID != messageID {
			continue
		}
		fn(msg)
		s.scheduleSaveLocked()
		return msg
	}
	return nil
}

func (s *Store) chatMetaLocked(chatID string) *ChatMeta {
	meta := s.chats[chatID]
	if meta == nil {
		meta = &ChatMeta{ID: chatID}
		s.chats[chatID] = meta
	}
	return meta
}

// UpdateChat applies fn to the chat's metadata record, creating it first
// when unknown.
func (s *Store) UpdateChat(chatID string, fn func(meta *ChatMeta)) {
	chatID = LegacyID(chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.chatMetaLocked(chatID))
	s.scheduleSaveLocked()
}

// IncrementUnread bumps the unread counter and returns the new value.
func (s *Store) IncrementUnread(chatID string) int {
	chatID = LegacyID(chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	meta := s.chatMetaLocked(chatID)
	meta.UnreadCount++
	s.scheduleSaveLocked()
	return meta.UnreadCount
}

// ResetUnread zeroes the unread counter, reporting whether it changed.
func (s *Store) ResetUnread(chatID string) bool {
	chatID = LegacyID(chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	meta := s.chats[chatID]
	if meta == nil || meta.UnreadCount == 0 {
		return false
	}
	meta.UnreadCount = 0
	s.scheduleSaveLocked()
	return true
}

// UpsertContact merges the given fields over the stored contact; empty
// fields never erase known ones.
func (s *Store) UpsertContact(contact Contact) {
	contact.ID = LegacyID(contact.ID)
	if contact.Number == "" {
		contact.Number = DecomposeID(contact.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.contacts[contact.ID]
	if existing == nil {
		c := contact
		s.contacts[contact.ID] = &c
		s.scheduleSaveLocked()
		return
	}

	if contact.Name != "" {
		existing.Name = contact.Name
	}
	if contact.PushName != "" {
		existing.PushName = contact.PushName
	}
	if contact.VerifiedName != "" {
		existing.VerifiedName = contact.VerifiedName
	}
	if contact.IsBusiness {
		existing.IsBusiness = true
	}
	s.scheduleSaveLocked()
}

// UpsertGroup replaces the stored metadata for a group.
func (s *Store) UpsertGroup(group GroupMeta) {
	group.ID = LegacyID(group.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	g := group
	s.groups[group.ID] = &g

	meta := s.chatMetaLocked(group.ID)
	if group.Subject != "" {
		meta.Name = group.Subject
	}
	s.scheduleSaveLocked()
}

// RemoveChat drops the chat's metadata, messages and group record.
func (s *Store) RemoveChat(chatID string) {
	chatID = LegacyID(chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.chats, chatID)
	delete(s.messages, chatID)
	delete(s.groups, chatID)
	s.scheduleSaveLocked()
}

// ClearChatMessages drops the chat's message history but keeps metadata.
func (s *Store) ClearChatMessages(chatID string) {
	chatID = LegacyID(chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, chatID)
	s.scheduleSaveLocked()
}

// =============================================================================
// Read APIs
// =============================================================================

// Chats merges three independent sources into one list: tracked chat
// metadata, tracked group metadata, and chats observed only through
// messages. Deduplicated by chat id, sorted by most recent activity.
func (s *Store) Chats() []*Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make(map[string]*Chat)

	view := func(chatID string) *Chat {
		chat := merged[chatID]
		if chat == nil {
			chat = &Chat{ID: chatID, IsGroup: IsGroupID(chatID)}
			merged[chatID] = chat
		}
		return chat
	}

	for chatID, meta := range s.chats {
		chat := view(chatID)
		chat.Name = meta.Name
		chat.Archived = meta.Archived
		chat.Pinned = meta.Pinned
		chat.MutedUntil = meta.MutedUntil
		chat.IsMuted = meta.MutedUntil != 0 && (meta.MutedUntil < 0 || meta.MutedUntil > time.Now().Unix())
		chat.UnreadCount = meta.UnreadCount
		chat.Timestamp = meta.LastActivity
	}

	for groupID, group := range s.groups {
		chat := view(groupID)
		if chat.Name == "" {
			chat.Name = group.Subject
		}
	}

	for chatID, bucket := range s.messages {
		chat := view(chatID)
		last := latestMessage(bucket)
		if last != nil {
			chat.LastMessage = last
			if last.Timestamp > chat.Timestamp {
				chat.Timestamp = last.Timestamp
			}
		}
	}

	for _, chat := range merged {
		if chat.Name == "" && !chat.IsGroup {
			if contact := s.contacts[chat.ID]; contact != nil {
				chat.Name = contactDisplayName(contact)
			}
		}
	}

	chats := make([]*Chat, 0, len(merged))
	for _, chat := range merged {
		chats = append(chats, chat)
	}
	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].Timestamp > chats[j].Timestamp
	})
	return chats
}

// ChatByID returns the merged view of one chat.
func (s *Store) ChatByID(chatID string) (*Chat, bool) {
	chatID = LegacyID(chatID)

	s.mu.Lock()
	meta := s.chats[chatID]
	group := s.groups[chatID]
	bucket := s.messages[chatID]
	contact := s.contacts[chatID]
	s.mu.Unlock()

	if meta == nil && group == nil && bucket == nil {
		return nil, false
	}

	chat := &Chat{ID: chatID, IsGroup: IsGroupID(chatID)}
	if meta != nil {
		chat.Name = meta.Name
		chat.Archived = meta.Archived
		chat.Pinned = meta.Pinned
		chat.MutedUntil = meta.MutedUntil
		chat.IsMuted = meta.MutedUntil != 0 && (meta.MutedUntil < 0 || meta.MutedUntil > time.Now().Unix())
		chat.UnreadCount = meta.UnreadCount
		chat.Timestamp = meta.LastActivity
	}
	if chat.Name == "" && group != nil {
		chat.Name = group.Subject
	}
	if chat.Name == "" && contact != nil {
		chat.Name = contactDisplayName(contact)
	}
	if bucket != nil {
		s.mu.Lock()
		last := latestMessage(bucket)
		s.mu.Unlock()
		if last != nil {
			chat.LastMessage = last
			if last.Timestamp > chat.Timestamp {
				chat.Timestamp = last.Timestamp
			}
		}
	}
	return chat, true
}

// GroupByID returns tracked group metadata.
func (s *Store) GroupByID(groupID string) (*GroupMeta, bool) {
	groupID = LegacyID(groupID)

	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[groupID]
	return group, ok
}

// Contacts merges contact records, chat names and message-observed senders,
// deduplicated by id and sorted by number.
func (s *Store) Contacts() []*Contact {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make(map[string]*Contact)

	for id, contact := range s.contacts {
		c := *contact
		merged[id] = &c
	}

	for chatID, meta := range s.chats {
		if IsGroupID(chatID) {
			continue
		}
		if existing := merged[chatID]; existing != nil {
			if existing.Name == "" {
				existing.Name = meta.Name
			}
			continue
		}
		merged[chatID] = &Contact{ID: chatID, Number: DecomposeID(chatID), Name: meta.Name}
	}

	for _, bucket := range s.messages {
		for _, msg := range bucket.order {
			senderID := msg.Author
			if senderID == "" && !msg.FromMe {
				senderID = msg.From
			}
			if senderID == "" || IsGroupID(senderID) {
				continue
			}
			senderID = LegacyID(senderID)
			if _, ok := merged[senderID]; !ok {
				merged[senderID] = &Contact{ID: senderID, Number: DecomposeID(senderID)}
			}
		}
	}

	contacts := make([]*Contact, 0, len(merged))
	for _, contact := range merged {
		contacts = append(contacts, contact)
	}
	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].Number < contacts[j].Number
	})
	return contacts
}

// ContactByID returns one stored contact record.
func (s *Store) ContactByID(id string) (*Contact, bool) {
	id = LegacyID(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	contact, ok := s.contacts[id]
	return contact, ok
}

// Messages returns a chat's records sorted by timestamp descending,
// bounded by limit when limit > 0.
func (s *Store) Messages(chatID string, limit int) []*Message {
	chatID = LegacyID(chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.messages[chatID]
	if bucket == nil {
		return nil
	}

	msgs := make([]*Message, len(bucket.order))
	copy(msgs, bucket.order)
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp > msgs[j].Timestamp
	})
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs
}

// LastMessage returns the chat's most recent record by timestamp.
func (s *Store) LastMessage(chatID string) *Message {
	chatID = LegacyID(chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	return latestMessage(s.messages[chatID])
}

// LastInboundIDs returns native ids of the newest messages not sent by us,
// oldest first, for read receipts.
func (s *Store) LastInboundIDs(chatID string, max int) (ids []string, sender string) {
	chatID = LegacyID(chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.messages[chatID]
	if bucket == nil {
		return nil, ""
	}

	for i := len(bucket.order) - 1; i >= 0 && len(ids) < max; i-- {
		msg := bucket.order[i]
		if msg.FromMe {
			continue
		}
		ids = append(ids, msg.Key.ID)
		if sender == "" {
			sender = msg.Key.Participant
			if sender == "" {
				sender = msg.Key.RemoteJID
			}
		}
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids, sender
}

// FindByNativeID scans one chat for a record with the given protocol id.
func (s *Store) FindByNativeID(chatID string, messageID string) *Message {
	chatID = LegacyID(chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.messages[chatID]
	if bucket == nil {
		return nil
	}
	for i := len(bucket.order) - 1; i >= 0; i-- {
		if bucket.order[i].Key.ID == messageID {
			return bucket.order[i]
		}
	}
	return nil
}

// FindAnywhereByNativeID scans every chat for a record with the given
// protocol id. Last-resort path for the key resolver.
func (s *Store) FindAnywhereByNativeID(messageID string) *Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, bucket := range s.messages {
		for i := len(bucket.order) - 1; i >= 0; i-- {
			if bucket.order[i].Key.ID == messageID {
				return bucket.order[i]
			}
		}
	}
	return nil
}

// FindBySerializedID looks a record up by its composite caller-facing id.
func (s *Store) FindBySerializedID(serialized string) *Message {
	fromMe, remote, id, ok := ParseSerializedMessageID(serialized)
	if !ok {
		return nil
	}
	k := dedupeKey(MessageKey{RemoteJID: remote, ID: id, FromMe: fromMe})

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, bucket := range s.messages {
		if msg, ok := bucket.byKey[k]; ok {
			return msg
		}
	}
	return nil
}

func latestMessage(bucket *chatMessages) *Message {
	if bucket == nil || len(bucket.order) == 0 {
		return nil
	}
	last := bucket.order[0]
	for _, msg := range bucket.order[1:] {
		if msg.Timestamp >= last.Timestamp {
			last = msg
		}
	}
	return last
}

func contactDisplayName(contact *Contact) string {
	if contact.Name != "" {
		return contact.Name
	}
	if contact.VerifiedName != "" {
		return contact.VerifiedName
	}
	return contact.PushName
}

// =============================================================================
// Persistence
// =============================================================================

// scheduleSaveLocked arms (or re-arms) the debounce timer. Burst traffic
// coalesces into one write per window.
func (s *Store) scheduleSaveLocked() {
	s.dirty = true
	if !s.saveEnabled {
		return
	}
	if s.saveTimer == nil {
		s.saveTimer = time.AfterFunc(s.debounce, func() {
			s.Flush()
		})
		return
	}
	s.saveTimer.Reset(s.debounce)
}

// Flush cancels any pending debounce and writes the snapshot out now.
// Persistence failures are logged and swallowed: the in-memory store stays
// authoritative for the process lifetime.
func (s *Store) Flush() {
	s.mu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	if !s.dirty || !s.saveEnabled {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	s.dirty = false
	path := s.path
	s.mu.Unlock()

	raw, err := json.Marshal(snap)
	if err != nil {
		log.Session(s.sessionID).WithError(err).Warn("Failed to encode store snapshot")
		return
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		log.Session(s.sessionID).WithError(err).Warn("Failed to write store snapshot")
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		log.Session(s.sessionID).WithError(err).Warn("Failed to move store snapshot in place")
	}
}

// Close stops the debounce timer without flushing. Used on terminate where
// the session directory is going away anyway.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	s.saveEnabled = false
}

func (s *Store) snapshotLocked() *storeSnapshot {
	snap := &storeSnapshot{
		Version:  storeSnapshotVersion,
		SavedAt:  time.Now().Unix(),
		Messages: make(map[string][]*Message, len(s.messages)),
		Chats:    make(map[string]*ChatMeta, len(s.chats)),
		Contacts: make(map[string]*Contact, len(s.contacts)),
		Groups:   make(map[string]*GroupMeta, len(s.groups)),
	}
	for chatID, bucket := range s.messages {
		msgs := make([]*Message, 0, len(bucket.order))
		for _, msg := range bucket.order {
			clone := *msg
			clone.Raw = nil
			msgs = append(msgs, &clone)
		}
		snap.Messages[chatID] = msgs
	}
	for id, meta := range s.chats {
		clone := *meta
		snap.Chats[id] = &clone
	}
	for id, contact := range s.contacts {
		clone := *contact
		snap.Contacts[id] = &clone
	}
	for id, group := range s.groups {
		clone := *group
		snap.Groups[id] = &clone
	}
	return snap
}

// MessageCount reports how many records the store holds, for health logs.
func (s *Store) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, bucket := range s.messages {
		total += len(bucket.order)
	}
	return total
}

// Dirty reports whether changes are waiting for the next flush.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}
