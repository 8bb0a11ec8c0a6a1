package whatsapp

import (
	"testing"

	"go.mau.fi/whatsmeow/types"
)

func TestToJID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"6281234567890", "6281234567890@s.whatsapp.net"},
		{"+6281234567890", "6281234567890@s.whatsapp.net"},
		{"6281234567890@c.us", "6281234567890@s.whatsapp.net"},
		{"6281234567890@s.whatsapp.net", "6281234567890@s.whatsapp.net"},
		{"6281234567890-1631234567@g.us", "6281234567890-1631234567@g.us"},
		{"123456789012345678@g.us", "123456789012345678@g.us"},
		// Old-style group ids carry a dash even without a server suffix.
		{"6281234567890-1631234567", "6281234567890-1631234567@g.us"},
		// New-style group ids are long timestamps.
		{"123456789012345678", "123456789012345678@g.us"},
		{" 6281234567890 ", "6281234567890@s.whatsapp.net"},
	}
	for _, tc := range cases {
		if got := ToJID(tc.in).String(); got != tc.want {
			t.Errorf("ToJID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToLegacyID(t *testing.T) {
	user := types.NewJID("6281234567890", types.DefaultUserServer)
	if got := ToLegacyID(user); got != "6281234567890@c.us" {
		t.Errorf("user legacy id = %q, want 6281234567890@c.us", got)
	}

	group := types.NewJID("123456789012345678", types.GroupServer)
	if got := ToLegacyID(group); got != "123456789012345678@g.us" {
		t.Errorf("group legacy id = %q, want 123456789012345678@g.us", got)
	}

	if got := ToLegacyID(types.EmptyJID); got != "" {
		t.Errorf("empty jid legacy id = %q, want empty", got)
	}
}

func TestChatIDVariants(t *testing.T) {
	variants := ChatIDVariants("6281234567890@c.us")
	if len(variants) != 2 {
		t.Fatalf("got %d variants, want 2: %v", len(variants), variants)
	}
	if variants[0] != "6281234567890@s.whatsapp.net" {
		t.Errorf("native variant = %q, want 6281234567890@s.whatsapp.net", variants[0])
	}
	if variants[1] != "6281234567890@c.us" {
		t.Errorf("legacy variant = %q, want 6281234567890@c.us", variants[1])
	}

	// Group ids render identically in both conventions.
	if got := ChatIDVariants("123456789012345678@g.us"); len(got) != 1 {
		t.Errorf("group variants = %v, want exactly one", got)
	}
}

func TestSameChat(t *testing.T) {
	if !SameChat("6281234567890@c.us", "6281234567890@s.whatsapp.net") {
		t.Error("same user in both conventions should match")
	}
	if !SameChat("6281234567890", "+6281234567890@c.us") {
		t.Error("bare number and legacy id should match")
	}
	if SameChat("6281234567890@c.us", "6289999999999@c.us") {
		t.Error("different users should not match")
	}
}

func TestIsGroupID(t *testing.T) {
	if !IsGroupID("123456789012345678@g.us") {
		t.Error("g.us id should be a group")
	}
	if IsGroupID("6281234567890@c.us") {
		t.Error("c.us id should not be a group")
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone("+62 812-3456-7890"); got != "6281234567890" {
		t.Errorf("NormalizePhone = %q, want 6281234567890", got)
	}
	if got := NormalizePhone("abc"); got != "" {
		t.Errorf("NormalizePhone(abc) = %q, want empty", got)
	}
}

func TestSerializeMessageIDRoundTrip(t *testing.T) {
	serialized := SerializeMessageID(true, "6281234567890@s.whatsapp.net", "3EB0ABC123")
	if serialized != "true_6281234567890@c.us_3EB0ABC123" {
		t.Fatalf("serialized = %q", serialized)
	}

	fromMe, remote, id, ok := ParseSerializedMessageID(serialized)
	if !ok {
		t.Fatal("round trip did not parse")
	}
	if !fromMe || remote != "6281234567890@c.us" || id != "3EB0ABC123" {
		t.Errorf("parsed (%v, %q, %q)", fromMe, remote, id)
	}
}

func TestParseSerializedMessageIDRejectsMalformed(t *testing.T) {
	for _, in := range []string{
		"3EB0ABC123",
		"true_3EB0ABC123",
		"maybe_6281234567890@c.us_3EB0ABC123",
		"true_no-at-sign_3EB0ABC123",
	} {
		if _, _, _, ok := ParseSerializedMessageID(in); ok {
			t.Errorf("ParseSerializedMessageID(%q) accepted malformed input", in)
		}
	}
}

func TestParseSerializedMessageIDKeepsUnderscoresInID(t *testing.T) {
	_, _, id, ok := ParseSerializedMessageID("false_628@c.us_AB_CD_EF")
	if !ok {
		t.Fatal("did not parse")
	}
	if id != "AB_CD_EF" {
		t.Errorf("id = %q, want AB_CD_EF", id)
	}
}

func TestParseChatPrefixedID(t *testing.T) {
	chat, id, ok := ParseChatPrefixedID("6281234567890@c.us_3EB0ABC123")
	if !ok {
		t.Fatal("did not parse")
	}
	if chat != "6281234567890@c.us" || id != "3EB0ABC123" {
		t.Errorf("parsed (%q, %q)", chat, id)
	}

	if _, _, ok := ParseChatPrefixedID("3EB0ABC123"); ok {
		t.Error("bare id should not parse as chat-prefixed")
	}
	if _, _, ok := ParseChatPrefixedID("no-at-sign_3EB0ABC123"); ok {
		t.Error("prefix without a JID should not parse")
	}
}
