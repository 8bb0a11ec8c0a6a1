package whatsapp

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore("test", "", time.Hour, 0)
}

func testMessage(chatID string, id string, fromMe bool, ts int64) *Message {
	return &Message{
		ID: SerializeMessageID(fromMe, chatID, id),
		Key: MessageKey{
			RemoteJID: ToJID(chatID).String(),
			ID:        id,
			FromMe:    fromMe,
		},
		ChatID:    chatID,
		FromMe:    fromMe,
		Type:      TypeChat,
		Body:      "body-" + id,
		Timestamp: ts,
	}
}

func TestUpsertMessageDedupes(t *testing.T) {
	s := newTestStore(t)
	chat := "6281234567890@c.us"

	if !s.UpsertMessage(testMessage(chat, "A1", false, 100)) {
		t.Fatal("first upsert should report a new key")
	}
	if s.UpsertMessage(testMessage(chat, "A1", false, 100)) {
		t.Error("second upsert of the same key should report an overwrite")
	}
	if got := s.MessageCount(); got != 1 {
		t.Errorf("message count = %d, want 1", got)
	}
}

func TestUpsertOverwriteKeepsAckAndRaw(t *testing.T) {
	s := newTestStore(t)
	chat := "6281234567890@c.us"

	s.UpsertMessage(testMessage(chat, "A1", false, 100))
	s.UpdateAck(chat, "A1", AckDelivered)

	// A history replay delivers the same message again with a plain
	// pending ack; the receipt seen earlier must survive.
	s.UpsertMessage(testMessage(chat, "A1", false, 100))

	msg := s.FindByNativeID(chat, "A1")
	if msg == nil {
		t.Fatal("message disappeared after overwrite")
	}
	if msg.Ack != AckDelivered {
		t.Errorf("ack = %d, want %d", msg.Ack, AckDelivered)
	}
}

func TestUpsertNormalizesChatID(t *testing.T) {
	s := newTestStore(t)

	msg := testMessage("6281234567890@s.whatsapp.net", "A1", false, 100)
	s.UpsertMessage(msg)

	if msg.ChatID != "6281234567890@c.us" {
		t.Errorf("chat id = %q, want legacy convention", msg.ChatID)
	}
	if found := s.FindByNativeID("6281234567890@s.whatsapp.net", "A1"); found == nil {
		t.Error("lookup through the native convention should still resolve")
	}
}

func TestUpdateAckOnlyMovesForward(t *testing.T) {
	s := newTestStore(t)
	chat := "6281234567890@c.us"
	s.UpsertMessage(testMessage(chat, "A1", true, 100))

	if touched := s.UpdateAck(chat, "A1", AckRead); len(touched) != 1 {
		t.Fatalf("read ack touched %d records, want 1", len(touched))
	}
	if touched := s.UpdateAck(chat, "A1", AckDelivered); len(touched) != 0 {
		t.Error("delivered after read should not regress the ack")
	}
	// The error level always sticks.
	if touched := s.UpdateAck(chat, "A1", AckError); len(touched) != 1 {
		t.Error("error ack should always apply")
	}
	if msg := s.FindByNativeID(chat, "A1"); msg.Ack != AckError {
		t.Errorf("ack = %d, want %d", msg.Ack, AckError)
	}
}

func TestMaxPerChatEvictsOldest(t *testing.T) {
	s := NewStore("test", "", time.Hour, 2)
	chat := "6281234567890@c.us"

	s.UpsertMessage(testMessage(chat, "A1", false, 100))
	s.UpsertMessage(testMessage(chat, "A2", false, 200))
	s.UpsertMessage(testMessage(chat, "A3", false, 300))

	if got := s.MessageCount(); got != 2 {
		t.Fatalf("message count = %d, want 2", got)
	}
	if s.FindByNativeID(chat, "A1") != nil {
		t.Error("oldest record should have been evicted")
	}
	if s.FindByNativeID(chat, "A3") == nil {
		t.Error("newest record should survive")
	}
}

func TestAttachReactionAndClear(t *testing.T) {
	s := newTestStore(t)
	chat := "6281234567890@c.us"
	s.UpsertMessage(testMessage(chat, "A1", false, 100))

	msg := s.AttachReaction(chat, "A1", &Reaction{Text: "👍", SenderID: chat})
	if msg == nil || msg.Reaction == nil || msg.Reaction.Text != "👍" {
		t.Fatal("reaction was not attached")
	}

	// An empty reaction text clears it.
	msg = s.AttachReaction(chat, "A1", &Reaction{Text: ""})
	if msg == nil || msg.Reaction != nil {
		t.Error("empty reaction should clear the stored one")
	}

	if s.AttachReaction(chat, "unknown", &Reaction{Text: "x"}) != nil {
		t.Error("unknown message should not accept a reaction")
	}
}

func TestRemoveMessage(t *testing.T) {
	s := newTestStore(t)
	chat := "6281234567890@c.us"
	s.UpsertMessage(testMessage(chat, "A1", false, 100))

	removed := s.RemoveMessage(chat, "A1")
	if removed == nil || removed.Key.ID != "A1" {
		t.Fatal("remove did not return the dropped record")
	}
	if s.FindByNativeID(chat, "A1") != nil {
		t.Error("record still present after remove")
	}
	if s.RemoveMessage(chat, "A1") != nil {
		t.Error("second remove should find nothing")
	}
}

func TestUnreadCounters(t *testing.T) {
	s := newTestStore(t)
	chat := "6281234567890@c.us"

	if got := s.IncrementUnread(chat); got != 1 {
		t.Errorf("unread = %d, want 1", got)
	}
	if got := s.IncrementUnread(chat); got != 2 {
		t.Errorf("unread = %d, want 2", got)
	}
	if !s.ResetUnread(chat) {
		t.Error("reset should report a change")
	}
	if s.ResetUnread(chat) {
		t.Error("second reset should report no change")
	}
}

func TestChatsMergeAndSort(t *testing.T) {
	s := newTestStore(t)

	s.UpsertMessage(testMessage("6281111111111@c.us", "A1", false, 100))
	s.UpsertMessage(testMessage("6282222222222@c.us", "B1", false, 300))
	s.UpsertGroup(GroupMeta{ID: "123456789012345678@g.us", Subject: "Team"})
	s.UpsertMessage(testMessage("123456789012345678@g.us", "C1", false, 200))
	s.UpsertContact(Contact{ID: "6281111111111@c.us", Name: "Alice"})

	chats := s.Chats()
	if len(chats) != 3 {
		t.Fatalf("got %d chats, want 3", len(chats))
	}
	// Sorted by most recent activity.
	if chats[0].ID != "6282222222222@c.us" {
		t.Errorf("first chat = %q, want the most recently active", chats[0].ID)
	}
	for _, chat := range chats {
		switch chat.ID {
		case "123456789012345678@g.us":
			if !chat.IsGroup || chat.Name != "Team" {
				t.Errorf("group chat merged wrong: %+v", chat)
			}
		case "6281111111111@c.us":
			if chat.Name != "Alice" {
				t.Errorf("contact name not folded in: %+v", chat)
			}
		}
		if chat.LastMessage == nil {
			t.Errorf("chat %s has no last message", chat.ID)
		}
	}
}

func TestMessagesNewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t)
	chat := "6281234567890@c.us"
	s.UpsertMessage(testMessage(chat, "A1", false, 100))
	s.UpsertMessage(testMessage(chat, "A2", false, 300))
	s.UpsertMessage(testMessage(chat, "A3", false, 200))

	msgs := s.Messages(chat, 2)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Key.ID != "A2" || msgs[1].Key.ID != "A3" {
		t.Errorf("order = [%s %s], want [A2 A3]", msgs[0].Key.ID, msgs[1].Key.ID)
	}

	if all := s.Messages(chat, 0); len(all) != 3 {
		t.Errorf("limit 0 returned %d messages, want all 3", len(all))
	}
}

func TestLastInboundIDs(t *testing.T) {
	s := newTestStore(t)
	chat := "6281234567890@c.us"
	s.UpsertMessage(testMessage(chat, "IN1", false, 100))
	s.UpsertMessage(testMessage(chat, "OUT1", true, 200))
	s.UpsertMessage(testMessage(chat, "IN2", false, 300))

	ids, sender := s.LastInboundIDs(chat, 10)
	if len(ids) != 2 {
		t.Fatalf("got %d inbound ids, want 2", len(ids))
	}
	// Oldest first, for read receipts.
	if ids[0] != "IN1" || ids[1] != "IN2" {
		t.Errorf("ids = %v, want [IN1 IN2]", ids)
	}
	if sender != "6281234567890@s.whatsapp.net" {
		t.Errorf("sender = %q", sender)
	}
}

func TestFindBySerializedIDAcrossConventions(t *testing.T) {
	s := newTestStore(t)
	s.UpsertMessage(testMessage("6281234567890@c.us", "A1", false, 100))

	// The composite id carries the legacy convention; the stored key keeps
	// the native one. The dedupe key bridges the two.
	if s.FindBySerializedID("false_6281234567890@c.us_A1") == nil {
		t.Error("serialized lookup with legacy remote failed")
	}
	if s.FindBySerializedID("true_6281234567890@c.us_A1") != nil {
		t.Error("fromMe mismatch should not resolve")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := NewStore("test", dir, time.Hour, 0)
	s.UpsertMessage(testMessage("6281234567890@c.us", "A1", false, 100))
	s.UpsertContact(Contact{ID: "6281234567890@c.us", Name: "Alice"})
	s.UpsertGroup(GroupMeta{ID: "123456789012345678@g.us", Subject: "Team"})
	s.UpdateChat("6281234567890@c.us", func(meta *ChatMeta) { meta.Archived = true })

	if !s.Dirty() {
		t.Fatal("store should be dirty before flush")
	}
	s.Flush()
	if s.Dirty() {
		t.Fatal("store should be clean after flush")
	}

	reloaded := NewStore("test", dir, time.Hour, 0)
	reloaded.Load()

	if got := reloaded.MessageCount(); got != 1 {
		t.Errorf("reloaded message count = %d, want 1", got)
	}
	chat, ok := reloaded.ChatByID("6281234567890@c.us")
	if !ok || !chat.Archived {
		t.Errorf("chat metadata lost in round trip: %+v", chat)
	}
	if contact, ok := reloaded.ContactByID("6281234567890@c.us"); !ok || contact.Name != "Alice" {
		t.Error("contact lost in round trip")
	}
	if group, ok := reloaded.GroupByID("123456789012345678@g.us"); !ok || group.Subject != "Team" {
		t.Error("group lost in round trip")
	}
}

func TestContactMergeNeverErasesFields(t *testing.T) {
	s := newTestStore(t)
	id := "6281234567890@c.us"

	s.UpsertContact(Contact{ID: id, Name: "Alice", PushName: "alice"})
	s.UpsertContact(Contact{ID: id, PushName: "alice2"})

	contact, ok := s.ContactByID(id)
	if !ok {
		t.Fatal("contact missing")
	}
	if contact.Name != "Alice" {
		t.Errorf("name = %q, empty update must not erase it", contact.Name)
	}
	if contact.PushName != "alice2" {
		t.Errorf("pushname = %q, want the newer value", contact.PushName)
	}
	if contact.Number != "6281234567890" {
		t.Errorf("number = %q, want derived from id", contact.Number)
	}
}

func TestRemoveChatDropsEverything(t *testing.T) {
	s := newTestStore(t)
	group := "123456789012345678@g.us"
	s.UpsertGroup(GroupMeta{ID: group, Subject: "Team"})
	s.UpsertMessage(testMessage(group, "A1", false, 100))

	s.RemoveChat(group)

	if _, ok := s.ChatByID(group); ok {
		t.Error("chat view still resolves after remove")
	}
	if _, ok := s.GroupByID(group); ok {
		t.Error("group metadata still present after remove")
	}
	if s.MessageCount() != 0 {
		t.Error("messages still present after remove")
	}
}
