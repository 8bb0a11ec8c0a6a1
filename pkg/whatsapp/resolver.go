package whatsapp

import (
	"sync"
)

// keyIndex maps many textual aliases of a message id to the one canonical
// protocol key. The external composite id format does not carry enough
// information to rebuild the key by itself, and callers supply ids in
// several shapes, so every observed message registers its full alias set.
// Last write wins; aliases are never evicted.
type keyIndex struct {
	mu      sync.RWMutex
	aliases map[string]*MessageKey
}

func newKeyIndex() *keyIndex {
	return &keyIndex{aliases: make(map[string]*MessageKey)}
}

// aliasSet derives every textual alias for a key observed in a chat: the
// raw protocol id, the chat-prefixed form, and the serialized
// "<fromMe>_<remoteJid>_<id>" form for both fromMe values, each across
// both JID conventions.
func aliasSet(key *MessageKey, chatID string) []string {
	aliases := []string{key.ID}
	for _, chat := range ChatIDVariants(chatID) {
		aliases = append(aliases, chat+"_"+key.ID)
	}
	for _, remote := range ChatIDVariants(key.RemoteJID) {
		aliases = append(aliases,
			"true_"+remote+"_"+key.ID,
			"false_"+remote+"_"+key.ID,
		)
	}
	return aliases
}

func (i *keyIndex) register(key *MessageKey, chatID string) {
	if key == nil || key.ID == "" {
		return
	}
	aliases := aliasSet(key, chatID)

	i.mu.Lock()
	defer i.mu.Unlock()
	for _, alias := range aliases {
		i.aliases[alias] = key
	}
}

func (i *keyIndex) lookup(alias string) (*MessageKey, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	key, ok := i.aliases[alias]
	return key, ok
}

func (i *keyIndex) size() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.aliases)
}

// resolveCandidates builds the lookup candidates for a caller-supplied id:
// the raw id, the id under the target chat in every accepted encoding, and,
// when the id itself parses as a composite form, the same set against the
// remote hint embedded in it. Order is insignificant: valid candidates all
// resolve to the same key.
func resolveCandidates(chatID string, messageID string) []string {
	candidates := []string{messageID}

	appendForChat := func(chat string, id string) {
		for _, variant := range ChatIDVariants(chat) {
			candidates = append(candidates,
				variant+"_"+id,
				"true_"+variant+"_"+id,
				"false_"+variant+"_"+id,
			)
		}
	}

	if chatID != "" {
		appendForChat(chatID, messageID)
	}

	if _, remote, embedded, ok := ParseSerializedMessageID(messageID); ok {
		candidates = append(candidates, embedded)
		appendForChat(remote, embedded)
	} else if chat, embedded, ok := ParseChatPrefixedID(messageID); ok {
		candidates = append(candidates, embedded)
		appendForChat(chat, embedded)
	}

	return candidates
}

// rawMessageID extracts the native protocol id from any accepted encoding.
func rawMessageID(messageID string) string {
	if _, _, embedded, ok := ParseSerializedMessageID(messageID); ok {
		return embedded
	}
	if _, embedded, ok := ParseChatPrefixedID(messageID); ok {
		return embedded
	}
	return messageID
}

// resolveMessageKey finds the authoritative protocol key for a
// caller-supplied opaque message id. Index candidates first; then the
// chat's own records by raw id; then the serialized form across chats;
// then an exhaustive scan of every chat. Each successful resolution
// re-registers the full alias set, self-healing the index.
func resolveMessageKey(store *Store, index *keyIndex, chatID string, messageID string) (*MessageKey, *Message, error) {
	for _, candidate := range resolveCandidates(chatID, messageID) {
		if key, ok := index.lookup(candidate); ok {
			index.register(key, chatID)
			return key, store.FindByNativeID(key.RemoteJID, key.ID), nil
		}
	}

	raw := rawMessageID(messageID)

	if msg := store.FindByNativeID(chatID, raw); msg != nil {
		index.register(&msg.Key, msg.ChatID)
		return &msg.Key, msg, nil
	}

	if msg := store.FindBySerializedID(messageID); msg != nil {
		index.register(&msg.Key, msg.ChatID)
		return &msg.Key, msg, nil
	}

	if msg := store.FindAnywhereByNativeID(raw); msg != nil {
		index.register(&msg.Key, msg.ChatID)
		return &msg.Key, msg, nil
	}

	return nil, nil, ErrMessageNotFound
}
