package whatsapp

import (
	"testing"
	"time"

	"go.mau.fi/whatsmeow/proto/waCommon"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"
)

var testOwnJID = types.NewJID("6280000000000", types.DefaultUserServer)

func incomingEvent(chat types.JID, sender types.JID, id string, msg *waE2E.Message) *events.Message {
	return &events.Message{
		Info: types.MessageInfo{
			MessageSource: types.MessageSource{
				Chat:     chat,
				Sender:   sender,
				IsFromMe: false,
				IsGroup:  chat.Server == types.GroupServer,
			},
			ID:        id,
			Timestamp: time.Unix(1700000000, 0),
		},
		Message: msg,
	}
}

func TestFormatTextMessage(t *testing.T) {
	sender := types.NewJID("6281234567890", types.DefaultUserServer)
	evt := incomingEvent(sender, sender, "A1", &waE2E.Message{
		Conversation: proto.String("hello"),
	})

	record := formatMessage(testOwnJID, evt)

	if record.Type != TypeChat || record.Body != "hello" {
		t.Errorf("type/body = %q/%q", record.Type, record.Body)
	}
	if record.ID != "false_6281234567890@c.us_A1" {
		t.Errorf("composite id = %q", record.ID)
	}
	if record.ChatID != "6281234567890@c.us" {
		t.Errorf("chat id = %q", record.ChatID)
	}
	if record.From != "6281234567890@c.us" || record.To != "6280000000000@c.us" {
		t.Errorf("from/to = %q/%q", record.From, record.To)
	}
	if record.Key.RemoteJID != "6281234567890@s.whatsapp.net" {
		t.Errorf("key remote = %q, want the native convention", record.Key.RemoteJID)
	}
	if record.Ack != AckPending {
		t.Errorf("ack = %d, want pending", record.Ack)
	}
}

func TestFormatOwnMessage(t *testing.T) {
	chat := types.NewJID("6281234567890", types.DefaultUserServer)
	evt := incomingEvent(chat, testOwnJID, "A1", &waE2E.Message{
		Conversation: proto.String("hi"),
	})
	evt.Info.IsFromMe = true

	record := formatMessage(testOwnJID, evt)

	if !record.FromMe {
		t.Fatal("fromMe flag lost")
	}
	if record.From != "6280000000000@c.us" || record.To != "6281234567890@c.us" {
		t.Errorf("from/to = %q/%q", record.From, record.To)
	}
	if record.ID != "true_6281234567890@c.us_A1" {
		t.Errorf("composite id = %q", record.ID)
	}
}

func TestFormatGroupMessageCarriesAuthor(t *testing.T) {
	group := types.NewJID("123456789012345678", types.GroupServer)
	sender := types.NewJID("6281234567890", types.DefaultUserServer)
	evt := incomingEvent(group, sender, "A1", &waE2E.Message{
		Conversation: proto.String("hello group"),
	})

	record := formatMessage(testOwnJID, evt)

	if record.Author != "6281234567890@c.us" {
		t.Errorf("author = %q", record.Author)
	}
	if record.Key.Participant != "6281234567890@s.whatsapp.net" {
		t.Errorf("key participant = %q", record.Key.Participant)
	}
	if record.ChatID != "123456789012345678@g.us" {
		t.Errorf("chat id = %q", record.ChatID)
	}
}

func TestFormatImageMessage(t *testing.T) {
	sender := types.NewJID("6281234567890", types.DefaultUserServer)
	evt := incomingEvent(sender, sender, "A1", &waE2E.Message{
		ImageMessage: &waE2E.ImageMessage{
			Caption:    proto.String("look"),
			Mimetype:   proto.String("image/jpeg"),
			FileLength: proto.Uint64(1234),
		},
	})

	record := formatMessage(testOwnJID, evt)

	if record.Type != TypeImage {
		t.Errorf("type = %q, want %q", record.Type, TypeImage)
	}
	if !record.HasMedia || record.MimeType != "image/jpeg" || record.FileSize != 1234 {
		t.Errorf("media fields = %v/%q/%d", record.HasMedia, record.MimeType, record.FileSize)
	}
	if record.Body != "look" {
		t.Errorf("body = %q, want the caption", record.Body)
	}
}

func TestFormatVoiceNote(t *testing.T) {
	sender := types.NewJID("6281234567890", types.DefaultUserServer)
	evt := incomingEvent(sender, sender, "A1", &waE2E.Message{
		AudioMessage: &waE2E.AudioMessage{
			PTT:      proto.Bool(true),
			Mimetype: proto.String("audio/ogg; codecs=opus"),
		},
	})

	if record := formatMessage(testOwnJID, evt); record.Type != TypeVoice {
		t.Errorf("type = %q, want %q", record.Type, TypeVoice)
	}

	evt.Message.AudioMessage.PTT = proto.Bool(false)
	if record := formatMessage(testOwnJID, evt); record.Type != TypeAudio {
		t.Errorf("type = %q, want %q", record.Type, TypeAudio)
	}
}

func TestFormatReactionMessage(t *testing.T) {
	sender := types.NewJID("6281234567890", types.DefaultUserServer)
	evt := incomingEvent(sender, sender, "R1", &waE2E.Message{
		ReactionMessage: &waE2E.ReactionMessage{
			Key: &waCommon.MessageKey{
				RemoteJID: proto.String("6281234567890@s.whatsapp.net"),
				FromMe:    proto.Bool(false),
				ID:        proto.String("A1"),
			},
			Text:              proto.String("👍"),
			SenderTimestampMS: proto.Int64(1700000000000),
		},
	})

	record := formatMessage(testOwnJID, evt)

	if record.Type != TypeReaction {
		t.Fatalf("type = %q, want %q", record.Type, TypeReaction)
	}
	if record.Reaction == nil {
		t.Fatal("reaction payload missing")
	}
	if record.Reaction.MessageID != "false_6281234567890@c.us_A1" {
		t.Errorf("target id = %q", record.Reaction.MessageID)
	}
	if record.Reaction.Text != "👍" || record.Reaction.Timestamp != 1700000000 {
		t.Errorf("reaction = %+v", record.Reaction)
	}
}

func TestFormatRevokeMessage(t *testing.T) {
	sender := types.NewJID("6281234567890", types.DefaultUserServer)
	evt := incomingEvent(sender, sender, "P1", &waE2E.Message{
		ProtocolMessage: &waE2E.ProtocolMessage{
			Type: waE2E.ProtocolMessage_REVOKE.Enum(),
			Key:  &waCommon.MessageKey{ID: proto.String("A1")},
		},
	})

	record := formatMessage(testOwnJID, evt)

	if record.Type != TypeRevoked {
		t.Errorf("type = %q, want %q", record.Type, TypeRevoked)
	}
	if record.QuotedMessageID != "A1" {
		t.Errorf("revoked target = %q, want A1", record.QuotedMessageID)
	}
}

func TestFormatContextInfo(t *testing.T) {
	sender := types.NewJID("6281234567890", types.DefaultUserServer)
	evt := incomingEvent(sender, sender, "A1", &waE2E.Message{
		ExtendedTextMessage: &waE2E.ExtendedTextMessage{
			Text: proto.String("quoted reply"),
			ContextInfo: &waE2E.ContextInfo{
				StanzaID:        proto.String("Q1"),
				MentionedJID:    []string{"6289999999999@s.whatsapp.net"},
				IsForwarded:     proto.Bool(true),
				ForwardingScore: proto.Uint32(2),
			},
		},
	})

	record := formatMessage(testOwnJID, evt)

	if record.QuotedMessageID != "Q1" {
		t.Errorf("quoted id = %q", record.QuotedMessageID)
	}
	if len(record.MentionedIDs) != 1 || record.MentionedIDs[0] != "6289999999999@c.us" {
		t.Errorf("mentions = %v", record.MentionedIDs)
	}
	if !record.IsForwarded || record.ForwardingScore != 2 {
		t.Errorf("forward flags = %v/%d", record.IsForwarded, record.ForwardingScore)
	}
}

func TestFormatEmptyMessage(t *testing.T) {
	sender := types.NewJID("6281234567890", types.DefaultUserServer)
	evt := incomingEvent(sender, sender, "A1", nil)

	if record := formatMessage(testOwnJID, evt); record.Type != TypeChat {
		t.Errorf("type = %q, want default %q", record.Type, TypeChat)
	}
}

func TestAckFromReceipt(t *testing.T) {
	cases := []struct {
		in   types.ReceiptType
		want int
	}{
		{types.ReceiptTypeDelivered, AckDelivered},
		{types.ReceiptTypeRead, AckRead},
		{types.ReceiptTypeReadSelf, AckRead},
		{types.ReceiptTypePlayed, AckPlayed},
		{types.ReceiptTypeRetry, AckPending},
	}
	for _, tc := range cases {
		if got := ackFromReceipt(tc.in); got != tc.want {
			t.Errorf("ackFromReceipt(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
