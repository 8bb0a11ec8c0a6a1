package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mau.fi/whatsmeow/appstate"
	"go.mau.fi/whatsmeow/proto/waCommon"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/proto/waSyncAction"
	"go.mau.fi/whatsmeow/types"
	"google.golang.org/protobuf/proto"
)

// Chat-level actions ride on app state patches, which the protocol anchors
// on a concrete message key. A chat with no locally observed message has no
// key to anchor on, so those actions fail with ErrNoChatMessages.

func waMessageKey(key *MessageKey) *waCommon.MessageKey {
	waKey := &waCommon.MessageKey{
		RemoteJID: proto.String(ToJID(key.RemoteJID).String()),
		ID:        proto.String(key.ID),
		FromMe:    proto.Bool(key.FromMe),
	}
	if key.Participant != "" {
		waKey.Participant = proto.String(ToJID(key.Participant).String())
	}
	return waKey
}

// chatAnchor returns the newest stored message of the chat as the
// app-state anchor.
func (s *Session) chatAnchor(chatID string) (*Message, types.JID, error) {
	last := s.store.LastMessage(chatID)
	if last == nil {
		return nil, types.EmptyJID, ErrNoChatMessages
	}
	return last, ToJID(last.Key.RemoteJID), nil
}

func anchorRange(last *Message) *waSyncAction.SyncActionMessageRange {
	return &waSyncAction.SyncActionMessageRange{
		LastMessageTimestamp: proto.Int64(last.Timestamp),
		Messages: []*waSyncAction.SyncActionMessage{{
			Key:       waMessageKey(&last.Key),
			Timestamp: proto.Int64(last.Timestamp),
		}},
	}
}

func (s *Session) ArchiveChat(ctx context.Context, chatID string, archive bool) error {
	last, chatJID, err := s.chatAnchor(chatID)
	if err != nil {
		return err
	}
	patch := appstate.BuildArchive(chatJID, archive, time.Unix(last.Timestamp, 0), waMessageKey(&last.Key))
	if err := s.client.SendAppState(ctx, patch); err != nil {
		return err
	}

	legacy := ToLegacyID(chatJID)
	s.store.UpdateChat(legacy, func(meta *ChatMeta) {
		meta.Archived = archive
	})
	s.emit(EventChatArchived, map[string]interface{}{
		"chatId":   legacy,
		"archived": archive,
	})
	return nil
}

func (s *Session) PinChat(ctx context.Context, chatID string, pin bool) error {
	_, chatJID, err := s.chatAnchor(chatID)
	if err != nil {
		return err
	}
	if err := s.client.SendAppState(ctx, appstate.BuildPin(chatJID, pin)); err != nil {
		return err
	}
	s.store.UpdateChat(ToLegacyID(chatJID), func(meta *ChatMeta) {
		meta.Pinned = pin
	})
	return nil
}

// MuteChat mutes the chat for the given duration; zero means until
// explicitly unmuted.
func (s *Session) MuteChat(ctx context.Context, chatID string, duration time.Duration) error {
	return s.setChatMute(ctx, chatID, true, duration)
}

func (s *Session) UnmuteChat(ctx context.Context, chatID string) error {
	return s.setChatMute(ctx, chatID, false, 0)
}

func (s *Session) setChatMute(ctx context.Context, chatID string, mute bool, duration time.Duration) error {
	_, chatJID, err := s.chatAnchor(chatID)
	if err != nil {
		return err
	}
	if err := s.client.SendAppState(ctx, appstate.BuildMute(chatJID, mute, duration)); err != nil {
		return err
	}
	s.store.UpdateChat(ToLegacyID(chatJID), func(meta *ChatMeta) {
		switch {
		case !mute:
			meta.MutedUntil = 0
		case duration > 0:
			meta.MutedUntil = time.Now().Add(duration).Unix()
		default:
			meta.MutedUntil = -1
		}
	})
	return nil
}

// MarkChatRead sends read receipts for the newest inbound messages and
// zeroes the local unread counter. A chat with nothing inbound only gets
// the local reset.
func (s *Session) MarkChatRead(ctx context.Context, chatID string) error {
	ids, sender := s.store.LastInboundIDs(chatID, 3)
	if len(ids) > 0 {
		msgIDs := make([]types.MessageID, len(ids))
		for i, id := range ids {
			msgIDs[i] = types.MessageID(id)
		}
		if err := s.client.MarkRead(ctx, msgIDs, time.Now(), ToJID(chatID), ToJID(sender)); err != nil {
			return err
		}
	}
	legacy := LegacyID(chatID)
	if s.store.ResetUnread(legacy) {
		s.emit(EventUnreadCount, map[string]interface{}{
			"chatId":      legacy,
			"unreadCount": 0,
		})
	}
	return nil
}

func (s *Session) MarkChatUnread(ctx context.Context, chatID string) error {
	last, chatJID, err := s.chatAnchor(chatID)
	if err != nil {
		return err
	}
	patch := appstate.PatchInfo{
		Type: appstate.WAPatchRegularLow,
		Mutations: []appstate.MutationInfo{{
			Index:   []string{appstate.IndexMarkChatAsRead, chatJID.String()},
			Version: 3,
			Value: &waSyncAction.SyncActionValue{
				MarkChatAsReadAction: &waSyncAction.MarkChatAsReadAction{
					Read:         proto.Bool(false),
					MessageRange: anchorRange(last),
				},
			},
		}},
	}
	if err := s.client.SendAppState(ctx, patch); err != nil {
		return err
	}

	legacy := ToLegacyID(chatJID)
	s.store.UpdateChat(legacy, func(meta *ChatMeta) {
		meta.UnreadCount = -1
	})
	s.emit(EventUnreadCount, map[string]interface{}{
		"chatId":      legacy,
		"unreadCount": -1,
	})
	return nil
}

func (s *Session) DeleteChat(ctx context.Context, chatID string) error {
	last, chatJID, err := s.chatAnchor(chatID)
	if err != nil {
		return err
	}
	patch := appstate.PatchInfo{
		Type: appstate.WAPatchRegularHigh,
		Mutations: []appstate.MutationInfo{{
			Index:   []string{appstate.IndexDeleteChat, chatJID.String(), "1"},
			Version: 6,
			Value: &waSyncAction.SyncActionValue{
				DeleteChatAction: &waSyncAction.DeleteChatAction{
					MessageRange: anchorRange(last),
				},
			},
		}},
	}
	if err := s.client.SendAppState(ctx, patch); err != nil {
		return err
	}

	legacy := ToLegacyID(chatJID)
	s.store.RemoveChat(legacy)
	s.emit(EventChatRemoved, map[string]interface{}{
		"chatId": legacy,
	})
	return nil
}

func (s *Session) ClearChat(ctx context.Context, chatID string) error {
	last, chatJID, err := s.chatAnchor(chatID)
	if err != nil {
		return err
	}
	patch := appstate.PatchInfo{
		Type: appstate.WAPatchRegularHigh,
		Mutations: []appstate.MutationInfo{{
			Index:   []string{appstate.IndexClearChat, chatJID.String(), "1", "0"},
			Version: 6,
			Value: &waSyncAction.SyncActionValue{
				ClearChatAction: &waSyncAction.ClearChatAction{
					MessageRange: anchorRange(last),
				},
			},
		}},
	}
	if err := s.client.SendAppState(ctx, patch); err != nil {
		return err
	}
	s.store.ClearChatMessages(ToLegacyID(chatJID))
	return nil
}

// SetPresence publishes global availability.
func (s *Session) SetPresence(ctx context.Context, available bool) error {
	presence := types.PresenceUnavailable
	if available {
		presence = types.PresenceAvailable
	}
	return s.client.SendPresence(ctx, presence)
}

// SendTyping toggles the typing (or recording) indicator in a chat.
func (s *Session) SendTyping(ctx context.Context, chatID string, typing bool, recording bool) error {
	state := types.ChatPresencePaused
	if typing {
		state = types.ChatPresenceComposing
	}
	media := types.ChatPresenceMediaText
	if recording {
		media = types.ChatPresenceMediaAudio
	}
	return s.client.SendChatPresence(ctx, ToJID(chatID), state, media)
}

func (s *Session) StarMessage(ctx context.Context, chatID string, messageID string, starred bool) (*Message, error) {
	key, _, err := resolveMessageKey(s.store, s.keys, chatID, messageID)
	if err != nil {
		return nil, err
	}
	chatJID := ToJID(key.RemoteJID)
	sender := types.EmptyJID
	if key.Participant != "" {
		sender = ToJID(key.Participant)
	}
	patch := appstate.BuildStar(chatJID, sender, types.MessageID(key.ID), key.FromMe, starred)
	if err := s.client.SendAppState(ctx, patch); err != nil {
		return nil, err
	}
	touched := s.store.TouchMessage(key.RemoteJID, key.ID, func(msg *Message) {
		msg.Starred = starred
	})
	return touched, nil
}

// EditMessage rewrites the body of one of our own sent messages.
func (s *Session) EditMessage(ctx context.Context, chatID string, messageID string, newText string) (*Message, error) {
	key, _, err := resolveMessageKey(s.store, s.keys, chatID, messageID)
	if err != nil {
		return nil, err
	}
	if !key.FromMe {
		return nil, errors.New("only own messages can be edited")
	}
	chatJID := ToJID(key.RemoteJID)
	edit := s.client.BuildEdit(chatJID, key.ID, &waE2E.Message{
		Conversation: proto.String(newText),
	})
	if _, err := s.client.SendMessage(ctx, chatJID, edit); err != nil {
		return nil, err
	}
	touched := s.store.TouchMessage(key.RemoteJID, key.ID, func(msg *Message) {
		msg.Body = newText
	})
	return touched, nil
}

// DeleteMessageForEveryone revokes a message. Own messages revoke with an
// empty participant; revoking someone else's requires group admin rights
// and carries their JID.
func (s *Session) DeleteMessageForEveryone(ctx context.Context, chatID string, messageID string) (*Message, error) {
	key, _, err := resolveMessageKey(s.store, s.keys, chatID, messageID)
	if err != nil {
		return nil, err
	}
	chatJID := ToJID(key.RemoteJID)
	sender := types.EmptyJID
	if !key.FromMe && key.Participant != "" {
		sender = ToJID(key.Participant)
	}
	revoke := s.client.BuildRevoke(chatJID, sender, key.ID)
	if _, err := s.client.SendMessage(ctx, chatJID, revoke); err != nil {
		return nil, err
	}
	touched := s.store.TouchMessage(key.RemoteJID, key.ID, func(msg *Message) {
		msg.Type = TypeRevoked
		msg.Body = ""
	})
	return touched, nil
}

// DeleteMessageForMe drops a message locally without revoking it for the
// other side.
func (s *Session) DeleteMessageForMe(chatID string, messageID string) (*Message, error) {
	key, _, err := resolveMessageKey(s.store, s.keys, chatID, messageID)
	if err != nil {
		return nil, err
	}
	removed := s.store.RemoveMessage(key.RemoteJID, key.ID)
	if removed == nil {
		return nil, ErrMessageNotFound
	}
	return removed, nil
}

// MessageByID resolves any accepted message-id form to the stored record.
func (s *Session) MessageByID(chatID string, messageID string) (*Message, error) {
	_, msg, err := resolveMessageKey(s.store, s.keys, chatID, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	return msg, nil
}

// SetDisappearingTimer configures disappearing messages for one chat, or
// the account default when chatID is empty.
func (s *Session) SetDisappearingTimer(ctx context.Context, chatID string, duration time.Duration) error {
	if chatID == "" {
		return s.client.SetDefaultDisappearingTimer(ctx, duration)
	}
	return s.client.SetDisappearingTimer(ctx, ToJID(chatID), duration, time.Now())
}

// PinMessage pins or unpins a message for everyone in the chat. Duration
// only applies when pinning; zero defaults to seven days.
func (s *Session) PinMessage(ctx context.Context, chatID string, messageID string, pin bool, duration time.Duration) error {
	key, _, err := resolveMessageKey(s.store, s.keys, chatID, messageID)
	if err != nil {
		return err
	}
	chatJID := ToJID(key.RemoteJID)

	pinType := waE2E.PinInChatMessage_PIN_FOR_ALL
	if !pin {
		pinType = waE2E.PinInChatMessage_UNPIN_FOR_ALL
	}
	content := &waE2E.Message{
		PinInChatMessage: &waE2E.PinInChatMessage{
			Key:               waMessageKey(key),
			Type:              pinType.Enum(),
			SenderTimestampMS: proto.Int64(time.Now().UnixMilli()),
		},
	}
	if pin {
		secs := uint32(duration.Seconds())
		if secs == 0 {
			secs = uint32((7 * 24 * time.Hour).Seconds())
		}
		content.MessageContextInfo = &waE2E.MessageContextInfo{
			MessageAddOnDurationInSecs: proto.Uint32(secs),
		}
	}
	_, err = s.client.SendMessage(ctx, chatJID, content)
	return err
}

// ForwardMessage re-sends a stored message to another chat. The raw
// protocol payload is required: messages that predate this process (and
// were not replayed by history sync) cannot be forwarded.
func (s *Session) ForwardMessage(ctx context.Context, chatID string, messageID string, toChatID string) (*Message, error) {
	_, original, err := resolveMessageKey(s.store, s.keys, chatID, messageID)
	if err != nil {
		return nil, err
	}
	if original == nil || original.Raw == nil {
		return nil, fmt.Errorf("%w: original payload is not available for forwarding", ErrMessageNotFound)
	}

	toJID, err := s.resolveChatJID(ctx, toChatID)
	if err != nil {
		return nil, err
	}
	if err := s.waitSendSlot(ctx); err != nil {
		return nil, err
	}

	content, score := forwardedContent(original.Raw)

	record, err := s.deliver(ctx, toJID, content, original.Type, original.Body)
	if err != nil {
		return nil, err
	}
	record.IsForwarded = true
	record.ForwardingScore = score
	record.HasMedia = original.HasMedia
	record.MimeType = original.MimeType
	record.Filename = original.Filename
	record.FileSize = original.FileSize
	return record, nil
}

// forwardedContent rebuilds the payload with forwarding markers. Plain
// conversations become extended text, everything else reuses the original
// content with the context info swapped in.
func forwardedContent(original *waE2E.Message) (*waE2E.Message, uint32) {
	content := &waE2E.Message{}

	if original.Conversation != nil {
		content.Conversation = proto.String(*original.Conversation)
	} else if original.ExtendedTextMessage != nil {
		content.ExtendedTextMessage = proto.Clone(original.ExtendedTextMessage).(*waE2E.ExtendedTextMessage)
	} else if original.ImageMessage != nil {
		content.ImageMessage = proto.Clone(original.ImageMessage).(*waE2E.ImageMessage)
	} else if original.VideoMessage != nil {
		content.VideoMessage = proto.Clone(original.VideoMessage).(*waE2E.VideoMessage)
	} else if original.AudioMessage != nil {
		content.AudioMessage = proto.Clone(original.AudioMessage).(*waE2E.AudioMessage)
	} else if original.DocumentMessage != nil {
		content.DocumentMessage = proto.Clone(original.DocumentMessage).(*waE2E.DocumentMessage)
	} else if original.StickerMessage != nil {
		content.StickerMessage = proto.Clone(original.StickerMessage).(*waE2E.StickerMessage)
	} else if original.ContactMessage != nil {
		content.ContactMessage = proto.Clone(original.ContactMessage).(*waE2E.ContactMessage)
	} else if original.LocationMessage != nil {
		content.LocationMessage = proto.Clone(original.LocationMessage).(*waE2E.LocationMessage)
	} else if original.PollCreationMessage != nil {
		content.PollCreationMessage = proto.Clone(original.PollCreationMessage).(*waE2E.PollCreationMessage)
	} else {
		content.Conversation = proto.String("Forwarded message")
	}

	score := uint32(1)
	if prev := forwardingScore(original); prev > 0 {
		score = prev + 1
	}
	contextInfo := &waE2E.ContextInfo{
		IsForwarded:     proto.Bool(true),
		ForwardingScore: proto.Uint32(score),
	}

	switch {
	case content.Conversation != nil:
		content.ExtendedTextMessage = &waE2E.ExtendedTextMessage{
			Text:        content.Conversation,
			ContextInfo: contextInfo,
		}
		content.Conversation = nil
	case content.ExtendedTextMessage != nil:
		content.ExtendedTextMessage.ContextInfo = contextInfo
	case content.ImageMessage != nil:
		content.ImageMessage.ContextInfo = contextInfo
	case content.VideoMessage != nil:
		content.VideoMessage.ContextInfo = contextInfo
	case content.AudioMessage != nil:
		content.AudioMessage.ContextInfo = contextInfo
	case content.DocumentMessage != nil:
		content.DocumentMessage.ContextInfo = contextInfo
	case content.StickerMessage != nil:
		content.StickerMessage.ContextInfo = contextInfo
	case content.ContactMessage != nil:
		content.ContactMessage.ContextInfo = contextInfo
	case content.LocationMessage != nil:
		content.LocationMessage.ContextInfo = contextInfo
	case content.PollCreationMessage != nil:
		content.PollCreationMessage.ContextInfo = contextInfo
	}
	return content, score
}

func forwardingScore(msg *waE2E.Message) uint32 {
	if msg.ExtendedTextMessage != nil && msg.ExtendedTextMessage.ContextInfo != nil {
		return msg.ExtendedTextMessage.ContextInfo.GetForwardingScore()
	}
	if msg.ImageMessage != nil && msg.ImageMessage.ContextInfo != nil {
		return msg.ImageMessage.ContextInfo.GetForwardingScore()
	}
	if msg.VideoMessage != nil && msg.VideoMessage.ContextInfo != nil {
		return msg.VideoMessage.ContextInfo.GetForwardingScore()
	}
	if msg.DocumentMessage != nil && msg.DocumentMessage.ContextInfo != nil {
		return msg.DocumentMessage.ContextInfo.GetForwardingScore()
	}
	return 0
}
