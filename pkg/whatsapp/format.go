package whatsapp

import (
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/proto/waWeb"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
)

// formatMessage maps a protocol message to the API-shaped record. The
// type/body derivation is a priority-ordered classification; the first
// matching content wins.
func formatMessage(ownJID types.JID, evt *events.Message) *Message {
	chat := evt.Info.Chat
	sender := evt.Info.Sender
	fromMe := evt.Info.IsFromMe

	record := &Message{
		ID: SerializeMessageID(fromMe, chat.String(), evt.Info.ID),
		Key: MessageKey{
			RemoteJID: chat.String(),
			ID:        evt.Info.ID,
			FromMe:    fromMe,
		},
		ChatID:     ToLegacyID(chat),
		FromMe:     fromMe,
		Timestamp:  evt.Info.Timestamp.Unix(),
		Ack:        AckPending,
		IsViewOnce: evt.IsViewOnce,
		Raw:        evt.Message,
	}

	if evt.Info.IsGroup {
		record.Key.Participant = sender.ToNonAD().String()
		record.Author = ToLegacyID(sender)
	}

	if fromMe {
		record.From = ToLegacyID(ownJID)
		record.To = record.ChatID
	} else {
		record.From = ToLegacyID(sender)
		if record.From == "" {
			record.From = record.ChatID
		}
		record.To = ToLegacyID(ownJID)
	}

	msg := evt.Message
	if msg == nil {
		record.Type = TypeChat
		return record
	}

	classifyMessage(record, msg)
	applyContextInfo(record, msg)
	return record
}

func classifyMessage(record *Message, msg *waE2E.Message) {
	switch {
	case msg.GetConversation() != "":
		record.Type = TypeChat
		record.Body = msg.GetConversation()

	case msg.GetExtendedTextMessage() != nil:
		record.Type = TypeChat
		record.Body = msg.GetExtendedTextMessage().GetText()

	case msg.GetImageMessage() != nil:
		img := msg.GetImageMessage()
		record.Type = TypeImage
		record.Body = img.GetCaption()
		record.HasMedia = true
		record.MimeType = img.GetMimetype()
		record.FileSize = img.GetFileLength()

	case msg.GetVideoMessage() != nil:
		vid := msg.GetVideoMessage()
		record.Type = TypeVideo
		record.Body = vid.GetCaption()
		record.HasMedia = true
		record.MimeType = vid.GetMimetype()
		record.FileSize = vid.GetFileLength()

	case msg.GetAudioMessage() != nil:
		aud := msg.GetAudioMessage()
		if aud.GetPTT() {
			record.Type = TypeVoice
		} else {
			record.Type = TypeAudio
		}
		record.HasMedia = true
		record.MimeType = aud.GetMimetype()
		record.FileSize = aud.GetFileLength()

	case msg.GetDocumentMessage() != nil:
		doc := msg.GetDocumentMessage()
		record.Type = TypeDocument
		record.Body = doc.GetCaption()
		record.HasMedia = true
		record.MimeType = doc.GetMimetype()
		record.FileSize = doc.GetFileLength()
		record.Filename = doc.GetFileName()

	case msg.GetStickerMessage() != nil:
		stk := msg.GetStickerMessage()
		record.Type = TypeSticker
		record.HasMedia = true
		record.MimeType = stk.GetMimetype()
		record.FileSize = stk.GetFileLength()

	case msg.GetContactMessage() != nil:
		cm := msg.GetContactMessage()
		record.Type = TypeVCard
		record.Body = cm.GetDisplayName()
		record.VCards = []string{cm.GetVcard()}

	case msg.GetContactsArrayMessage() != nil:
		arr := msg.GetContactsArrayMessage()
		record.Type = TypeMultiVCard
		record.Body = arr.GetDisplayName()
		for _, contact := range arr.GetContacts() {
			record.VCards = append(record.VCards, contact.GetVcard())
		}

	case msg.GetLocationMessage() != nil:
		loc := msg.GetLocationMessage()
		record.Type = TypeLocation
		record.Body = loc.GetName()
		record.Location = &Location{
			Latitude:  loc.GetDegreesLatitude(),
			Longitude: loc.GetDegreesLongitude(),
			Name:      loc.GetName(),
			Address:   loc.GetAddress(),
		}

	case msg.GetLiveLocationMessage() != nil:
		live := msg.GetLiveLocationMessage()
		record.Type = TypeLiveLocation
		record.Body = live.GetCaption()
		record.Location = &Location{
			Latitude:  live.GetDegreesLatitude(),
			Longitude: live.GetDegreesLongitude(),
			IsLive:    true,
		}

	case pollCreation(msg) != nil:
		poll := pollCreation(msg)
		record.Type = TypePollCreation
		record.Body = poll.GetName()
		options := make([]string, 0, len(poll.GetOptions()))
		for _, option := range poll.GetOptions() {
			options = append(options, option.GetOptionName())
		}
		record.Poll = &Poll{
			Name:                 poll.GetName(),
			Options:              options,
			AllowMultipleAnswers: poll.GetSelectableOptionsCount() != 1,
		}

	case msg.GetReactionMessage() != nil:
		re := msg.GetReactionMessage()
		record.Type = TypeReaction
		record.Body = re.GetText()
		key := re.GetKey()
		record.Reaction = &Reaction{
			MessageID: SerializeMessageID(key.GetFromMe(), key.GetRemoteJID(), key.GetID()),
			Text:      re.GetText(),
			SenderID:  record.From,
			Timestamp: re.GetSenderTimestampMS() / 1000,
		}

	case msg.GetProtocolMessage() != nil && msg.GetProtocolMessage().GetType() == waE2E.ProtocolMessage_REVOKE:
		prot := msg.GetProtocolMessage()
		record.Type = TypeRevoked
		if key := prot.GetKey(); key != nil {
			record.QuotedMessageID = key.GetID()
		}

	default:
		record.Type = TypeChat
	}
}

// applyContextInfo reads forwarding, quote and mention metadata from
// whichever media-specific context substructure is present. First non-nil
// wins.
func applyContextInfo(record *Message, msg *waE2E.Message) {
	var info *waE2E.ContextInfo
	switch {
	case msg.GetExtendedTextMessage().GetContextInfo() != nil:
		info = msg.GetExtendedTextMessage().GetContextInfo()
	case msg.GetImageMessage().GetContextInfo() != nil:
		info = msg.GetImageMessage().GetContextInfo()
	case msg.GetVideoMessage().GetContextInfo() != nil:
		info = msg.GetVideoMessage().GetContextInfo()
	case msg.GetDocumentMessage().GetContextInfo() != nil:
		info = msg.GetDocumentMessage().GetContextInfo()
	case msg.GetAudioMessage().GetContextInfo() != nil:
		info = msg.GetAudioMessage().GetContextInfo()
	}
	if info == nil {
		return
	}

	record.IsForwarded = info.GetIsForwarded()
	record.ForwardingScore = info.GetForwardingScore()
	if info.GetStanzaID() != "" {
		record.QuotedMessageID = info.GetStanzaID()
	}
	for _, jid := range info.GetMentionedJID() {
		record.MentionedIDs = append(record.MentionedIDs, LegacyID(jid))
	}
}

func pollCreation(msg *waE2E.Message) *waE2E.PollCreationMessage {
	if poll := msg.GetPollCreationMessage(); poll != nil {
		return poll
	}
	if poll := msg.GetPollCreationMessageV2(); poll != nil {
		return poll
	}
	return msg.GetPollCreationMessageV3()
}

// ackFromReceipt maps receipt kinds to ack ordinals. Unknown kinds return
// pending so they never regress a stored ack.
func ackFromReceipt(receiptType types.ReceiptType) int {
	switch receiptType {
	case types.ReceiptTypeRead, types.ReceiptTypeReadSelf:
		return AckRead
	case types.ReceiptTypePlayed:
		return AckPlayed
	case types.ReceiptTypeDelivered:
		return AckDelivered
	default:
		return AckPending
	}
}

// ackFromWebStatus maps a history-sync message status to an ack ordinal.
func ackFromWebStatus(status waWeb.WebMessageInfo_Status) int {
	switch status {
	case waWeb.WebMessageInfo_ERROR:
		return AckError
	case waWeb.WebMessageInfo_PENDING:
		return AckPending
	case waWeb.WebMessageInfo_SERVER_ACK:
		return AckServer
	case waWeb.WebMessageInfo_DELIVERY_ACK:
		return AckDelivered
	case waWeb.WebMessageInfo_READ:
		return AckRead
	case waWeb.WebMessageInfo_PLAYED:
		return AckPlayed
	default:
		return AckPending
	}
}
