package whatsapp

import (
	"fmt"
	"strings"

	"go.mau.fi/whatsmeow/types"
)

// Two textual JID conventions meet at this boundary: the legacy wrapper
// convention ("@c.us" for users, "@g.us" for groups) and whatsmeow's native
// one ("@s.whatsapp.net" for users, "@g.us" for groups). Callers may send
// either, or a bare phone number. Everything internal runs on native JIDs;
// everything returned to callers uses the legacy convention.

const (
	legacyUserSuffix  = "@c.us"
	legacyGroupSuffix = "@g.us"
)

// DecomposeID strips the server suffix and any leading '+' from an id.
func DecomposeID(id string) string {
	if strings.ContainsRune(id, '@') {
		id = strings.SplitN(id, "@", 2)[0]
	}
	if strings.HasPrefix(id, "+") {
		id = id[1:]
	}
	return strings.TrimSpace(id)
}

// isGroupUser reports whether a bare id part denotes a group: old-style
// group ids contain '-', new-style ones are 18+ digit timestamps.
func isGroupUser(user string) bool {
	return strings.ContainsRune(user, '-') || len(user) >= 18
}

// ToJID normalizes any accepted textual form to a native JID.
func ToJID(id string) types.JID {
	trimmed := strings.TrimSpace(id)
	if strings.ContainsRune(trimmed, '@') {
		server := strings.SplitN(trimmed, "@", 2)[1]
		user := DecomposeID(trimmed)
		switch server {
		case types.GroupServer:
			return types.NewJID(user, types.GroupServer)
		case "c.us", types.DefaultUserServer:
			return types.NewJID(user, types.DefaultUserServer)
		case types.NewsletterServer, types.BroadcastServer, types.HiddenUserServer:
			jid, err := types.ParseJID(trimmed)
			if err == nil {
				return jid
			}
		}
	}

	user := DecomposeID(trimmed)
	if isGroupUser(user) {
		return types.NewJID(user, types.GroupServer)
	}
	return types.NewJID(user, types.DefaultUserServer)
}

// ToLegacyID renders a JID in the legacy wrapper convention.
func ToLegacyID(jid types.JID) string {
	if jid.IsEmpty() {
		return ""
	}
	if jid.Server == types.GroupServer {
		return jid.User + legacyGroupSuffix
	}
	return jid.User + legacyUserSuffix
}

// LegacyID normalizes a textual id straight to the legacy convention.
func LegacyID(id string) string {
	return ToLegacyID(ToJID(id))
}

// ChatIDVariants returns both textual renderings of a chat id, used when
// generating message-id aliases. The native form is always first.
func ChatIDVariants(id string) []string {
	jid := ToJID(id)
	native := jid.String()
	legacy := ToLegacyID(jid)
	if native == legacy {
		return []string{native}
	}
	return []string{native, legacy}
}

// SameChat reports whether two textual ids denote the same chat in either
// convention.
func SameChat(a, b string) bool {
	return ToJID(a).String() == ToJID(b).String()
}

// IsGroupID reports whether a textual id denotes a group chat.
func IsGroupID(id string) bool {
	return ToJID(id).Server == types.GroupServer
}

// NormalizePhone strips everything but digits from a phone number.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SerializeMessageID builds the composite message id handed to callers:
// "<fromMe>_<remoteJid>_<id>" with the remote jid in legacy convention.
func SerializeMessageID(fromMe bool, remoteID string, messageID string) string {
	return fmt.Sprintf("%t_%s_%s", fromMe, LegacyID(remoteID), messageID)
}

// ParseSerializedMessageID splits a composite "<fromMe>_<remoteJid>_<id>"
// back apart. ok is false when the input does not follow the convention.
func ParseSerializedMessageID(serialized string) (fromMe bool, remoteID string, messageID string, ok bool) {
	parts := strings.SplitN(serialized, "_", 3)
	if len(parts) != 3 {
		return false, "", "", false
	}
	switch parts[0] {
	case "true":
		fromMe = true
	case "false":
		fromMe = false
	default:
		return false, "", "", false
	}
	if !strings.ContainsRune(parts[1], '@') {
		return false, "", "", false
	}
	return fromMe, parts[1], parts[2], true
}

// ParseChatPrefixedID splits a "<chatJid>_<id>" composite. ok is false when
// the prefix does not look like a JID.
func ParseChatPrefixedID(composite string) (chatID string, messageID string, ok bool) {
	parts := strings.SplitN(composite, "_", 2)
	if len(parts) != 2 || !strings.ContainsRune(parts[0], '@') {
		return "", "", false
	}
	return parts[0], parts[1], true
}
