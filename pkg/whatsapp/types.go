package whatsapp

import (
	"go.mau.fi/whatsmeow/proto/waE2E"
)

// Session status values. A session moves connecting -> qr|pairing ->
// connected, and from anywhere to disconnected.
const (
	StatusConnecting   = "connecting"
	StatusQR           = "qr"
	StatusPairing      = "pairing"
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// Disconnect reasons carried in the disconnected event payload.
const (
	ReasonLoggedOut      = "logged_out"
	ReasonConnectionLost = "connection_lost"
	ReasonManualStop     = "manual_stop"
)

// Event kinds emitted to the notification sinks (webhook + WebSocket).
const (
	EventQR              = "qr"
	EventAuthenticated   = "authenticated"
	EventReady           = "ready"
	EventDisconnected    = "disconnected"
	EventMessage         = "message"
	EventMessageCreate   = "message_create"
	EventMessageAck      = "message_ack"
	EventMessageReaction = "message_reaction"
	EventGroupJoin       = "group_join"
	EventGroupLeave      = "group_leave"
	EventGroupUpdate     = "group_update"
	EventCall            = "call"
	EventChatArchived    = "chat_archived"
	EventChatRemoved     = "chat_removed"
	EventUnreadCount     = "unread_count"
	EventContactChanged  = "contact_changed"
)

// Message delivery (ack) ordinals. Error is the only negative level;
// unknown receipt states stay at pending.
const (
	AckError     = -1
	AckPending   = 0
	AckServer    = 1
	AckDelivered = 2
	AckRead      = 3
	AckPlayed    = 4
)

// Message type values produced by the formatter.
const (
	TypeChat         = "chat"
	TypeImage        = "image"
	TypeVideo        = "video"
	TypeAudio        = "audio"
	TypeVoice        = "ptt"
	TypeDocument     = "document"
	TypeSticker      = "sticker"
	TypeVCard        = "vcard"
	TypeMultiVCard   = "multi_vcard"
	TypeLocation     = "location"
	TypeLiveLocation = "live_location"
	TypePollCreation = "poll_creation"
	TypeReaction     = "reaction"
	TypeRevoked      = "revoked"
)

// MessageKey is the protocol-level triple needed to act on a message:
// chat address (native convention), message id, and the sent-by-self flag.
// Participant carries the sender inside group chats.
type MessageKey struct {
	RemoteJID   string `json:"remoteJid"`
	ID          string `json:"id"`
	FromMe      bool   `json:"fromMe"`
	Participant string `json:"participant,omitempty"`
}

// Message is the API-shaped record kept in the local store. ID is the
// composite "<fromMe>_<remoteJid>_<id>" serialization handed to callers.
// Raw holds the full protocol message for forwarding and media download;
// it is memory-only and does not survive a restart.
type Message struct {
	ID              string        `json:"id"`
	Key             MessageKey    `json:"key"`
	ChatID          string        `json:"chatId"`
	From            string        `json:"from"`
	To              string        `json:"to"`
	Author          string        `json:"author,omitempty"`
	FromMe          bool          `json:"fromMe"`
	Type            string        `json:"type"`
	Body            string        `json:"body"`
	Timestamp       int64         `json:"timestamp"`
	Ack             int           `json:"ack"`
	HasMedia        bool          `json:"hasMedia,omitempty"`
	MimeType        string        `json:"mimetype,omitempty"`
	Filename        string        `json:"filename,omitempty"`
	FileSize        uint64        `json:"filesize,omitempty"`
	IsViewOnce      bool          `json:"isViewOnce,omitempty"`
	Starred         bool          `json:"starred,omitempty"`
	IsForwarded     bool          `json:"isForwarded,omitempty"`
	ForwardingScore uint32        `json:"forwardingScore,omitempty"`
	QuotedMessageID string        `json:"quotedMsgId,omitempty"`
	MentionedIDs    []string      `json:"mentionedIds,omitempty"`
	Location        *Location     `json:"location,omitempty"`
	VCards          []string      `json:"vcards,omitempty"`
	Poll            *Poll         `json:"poll,omitempty"`
	Reaction        *Reaction     `json:"reaction,omitempty"`
	Raw             *waE2E.Message `json:"-"`
}

// ChatMeta is the tracked per-chat metadata, fed by app-state sync events.
type ChatMeta struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	Archived     bool   `json:"archived,omitempty"`
	Pinned       bool   `json:"pinned,omitempty"`
	MutedUntil   int64  `json:"mutedUntil,omitempty"`
	UnreadCount  int    `json:"unreadCount"`
	LastActivity int64  `json:"lastActivity,omitempty"`
}

// Chat is the merged read view returned by Store.Chats: chat metadata,
// group metadata and message-derived chats folded into one record.
type Chat struct {
	ID          string   `json:"id"`
	Name        string   `json:"name,omitempty"`
	IsGroup     bool     `json:"isGroup"`
	Archived    bool     `json:"archived,omitempty"`
	Pinned      bool     `json:"pinned,omitempty"`
	IsMuted     bool     `json:"isMuted,omitempty"`
	MutedUntil  int64    `json:"mutedUntil,omitempty"`
	UnreadCount int      `json:"unreadCount"`
	Timestamp   int64    `json:"timestamp,omitempty"`
	LastMessage *Message `json:"lastMessage,omitempty"`
}

// Contact mirrors a protocol contact entry.
type Contact struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	Name         string `json:"name,omitempty"`
	PushName     string `json:"pushname,omitempty"`
	VerifiedName string `json:"verifiedName,omitempty"`
	IsBusiness   bool   `json:"isBusiness,omitempty"`
}

// GroupMeta mirrors group metadata. Announce means only admins may send,
// Locked means only admins may edit group info.
type GroupMeta struct {
	ID           string             `json:"id"`
	Subject      string             `json:"subject"`
	Owner        string             `json:"owner,omitempty"`
	Description  string             `json:"description,omitempty"`
	Participants []GroupParticipant `json:"participants"`
	Announce     bool               `json:"announce,omitempty"`
	Locked       bool               `json:"locked,omitempty"`
	CreatedAt    int64              `json:"createdAt,omitempty"`
}

type GroupParticipant struct {
	ID           string `json:"id"`
	IsAdmin      bool   `json:"isAdmin,omitempty"`
	IsSuperAdmin bool   `json:"isSuperAdmin,omitempty"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
	IsLive    bool    `json:"isLive,omitempty"`
}

type Poll struct {
	Name                 string   `json:"name"`
	Options              []string `json:"options"`
	AllowMultipleAnswers bool     `json:"allowMultipleAnswers,omitempty"`
}

type Reaction struct {
	MessageID string `json:"msgId"`
	Text      string `json:"text"`
	SenderID  string `json:"senderId"`
	Timestamp int64  `json:"timestamp"`
}

// SessionInfo is the status snapshot returned by list/status endpoints.
type SessionInfo struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	JID         string `json:"jid,omitempty"`
	PushName    string `json:"pushName,omitempty"`
	WebhookURL  string `json:"webhookUrl,omitempty"`
	Reconnects  int    `json:"reconnects,omitempty"`
	ConnectedAt int64  `json:"connectedAt,omitempty"`
}

// Notifier receives every event the session engine emits. Delivery is
// fire-and-forget: implementations own retries and filtering, and their
// failures never reach session state.
type Notifier interface {
	Notify(sessionID string, dataType string, data interface{})
}
