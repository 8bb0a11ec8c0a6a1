package whatsapp

import (
	"errors"
	"testing"
	"time"
)

func TestKeyIndexRegistersAllAliases(t *testing.T) {
	index := newKeyIndex()
	key := &MessageKey{RemoteJID: "6281234567890@s.whatsapp.net", ID: "A1", FromMe: false}

	index.register(key, "6281234567890@c.us")

	for _, alias := range []string{
		"A1",
		"6281234567890@s.whatsapp.net_A1",
		"6281234567890@c.us_A1",
		"true_6281234567890@s.whatsapp.net_A1",
		"false_6281234567890@c.us_A1",
	} {
		if _, ok := index.lookup(alias); !ok {
			t.Errorf("alias %q not registered", alias)
		}
	}
}

func TestKeyIndexIgnoresEmptyKeys(t *testing.T) {
	index := newKeyIndex()
	index.register(nil, "6281234567890@c.us")
	index.register(&MessageKey{RemoteJID: "6281234567890@c.us"}, "6281234567890@c.us")
	if index.size() != 0 {
		t.Errorf("index size = %d, want 0", index.size())
	}
}

func TestResolveThroughIndex(t *testing.T) {
	store := NewStore("test", "", time.Hour, 0)
	index := newKeyIndex()
	chat := "6281234567890@c.us"

	msg := testMessage(chat, "A1", false, 100)
	store.UpsertMessage(msg)
	index.register(&msg.Key, chat)

	key, record, err := resolveMessageKey(store, index, chat, "false_6281234567890@c.us_A1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if key.ID != "A1" {
		t.Errorf("key id = %q, want A1", key.ID)
	}
	if record == nil || record.Key.ID != "A1" {
		t.Error("stored record not returned alongside the key")
	}
}

func TestResolveFallsBackToStoreScan(t *testing.T) {
	store := NewStore("test", "", time.Hour, 0)
	index := newKeyIndex()
	chat := "6281234567890@c.us"

	store.UpsertMessage(testMessage(chat, "A1", false, 100))

	// Cold index: the raw id only resolves through the store.
	key, _, err := resolveMessageKey(store, index, chat, "A1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if key.ID != "A1" {
		t.Errorf("key id = %q, want A1", key.ID)
	}

	// The successful resolution re-registers the alias set.
	if index.size() == 0 {
		t.Error("resolution did not self-heal the index")
	}
	if _, ok := index.lookup("false_6281234567890@c.us_A1"); !ok {
		t.Error("serialized alias missing after self-heal")
	}
}

func TestResolveAcrossChats(t *testing.T) {
	store := NewStore("test", "", time.Hour, 0)
	index := newKeyIndex()

	store.UpsertMessage(testMessage("6281111111111@c.us", "A1", false, 100))

	// Caller names the wrong chat; the exhaustive scan still finds it.
	key, _, err := resolveMessageKey(store, index, "6282222222222@c.us", "A1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if ToJID(key.RemoteJID).String() != "6281111111111@s.whatsapp.net" {
		t.Errorf("resolved remote = %q", key.RemoteJID)
	}
}

func TestResolveSerializedWithoutChatHint(t *testing.T) {
	store := NewStore("test", "", time.Hour, 0)
	index := newKeyIndex()
	chat := "6281234567890@c.us"

	store.UpsertMessage(testMessage(chat, "A1", false, 100))

	// The composite form embeds its own chat; no chat hint needed.
	if _, _, err := resolveMessageKey(store, index, "", "false_6281234567890@c.us_A1"); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
}

func TestResolveUnknownMessage(t *testing.T) {
	store := NewStore("test", "", time.Hour, 0)
	index := newKeyIndex()

	_, _, err := resolveMessageKey(store, index, "6281234567890@c.us", "missing")
	if !errors.Is(err, ErrMessageNotFound) {
		t.Errorf("err = %v, want ErrMessageNotFound", err)
	}
}

func TestRawMessageID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"A1", "A1"},
		{"false_6281234567890@c.us_A1", "A1"},
		{"6281234567890@c.us_A1", "A1"},
	}
	for _, tc := range cases {
		if got := rawMessageID(tc.in); got != tc.want {
			t.Errorf("rawMessageID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
