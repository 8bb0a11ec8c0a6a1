package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waCommon"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"google.golang.org/protobuf/proto"

	"github.com/kadigal/go-whatsapp-session-gateway/pkg/log"
)

// Outgoing content type values accepted by SendContent. Closed set: any
// other value is rejected by name.
const (
	ContentText        = "text"
	ContentMedia       = "media"
	ContentMediaURL    = "media-url"
	ContentLocation    = "location"
	ContentPoll        = "poll"
	ContentContactCard = "contact-card"
	ContentButtons     = "buttons"
	ContentList        = "list"
)

// SendOptions carries the cross-type options of a send.
type SendOptions struct {
	QuotedMessageID string
	Mentions        []string
	LinkPreview     bool
}

// MediaPayload is a decoded media attachment ready for upload.
type MediaPayload struct {
	Data     []byte
	MimeType string
	Filename string
	Caption  string
	Voice    bool
	GIF      bool
	Sticker  bool
	ViewOnce bool
}

type VCardPayload struct {
	Name  string
	VCard string
}

type ButtonsPayload struct {
	Title   string
	Body    string
	Footer  string
	Buttons []string
}

type ListSection struct {
	Title string
	Rows  []string
}

type ListPayload struct {
	Title      string
	Body       string
	ButtonText string
	Sections   []ListSection
}

// OutgoingContent is the request side of sendMessage: exactly one payload
// field matching Type is expected to be set.
type OutgoingContent struct {
	Type     string
	Text     string
	Media    *MediaPayload
	MediaURL string
	Location *Location
	Poll     *Poll
	VCard    *VCardPayload
	Buttons  *ButtonsPayload
	List     *ListPayload
	Options  SendOptions
}

// SendContent dispatches on the closed content-type set. Unknown types
// fail fast naming the offending type.
func (s *Session) SendContent(ctx context.Context, chatID string, content *OutgoingContent) (*Message, error) {
	switch content.Type {
	case ContentText, "":
		return s.SendText(ctx, chatID, content.Text, &content.Options)
	case ContentMedia:
		return s.SendMedia(ctx, chatID, content.Media, &content.Options)
	case ContentMediaURL:
		return s.SendMediaFromURL(ctx, chatID, content.MediaURL, content.Media, &content.Options)
	case ContentLocation:
		return s.SendLocation(ctx, chatID, content.Location)
	case ContentPoll:
		return s.SendPoll(ctx, chatID, content.Poll)
	case ContentContactCard:
		return s.SendContactCard(ctx, chatID, content.VCard)
	case ContentButtons:
		// Interactive buttons no longer render on multi-device clients;
		// degrade to a numbered text fallback.
		if content.Buttons == nil {
			return nil, errors.New("buttons content requires a buttons payload")
		}
		return s.SendText(ctx, chatID, buttonsFallbackText(content.Buttons), &content.Options)
	case ContentList:
		if content.List == nil {
			return nil, errors.New("list content requires a list payload")
		}
		return s.SendText(ctx, chatID, listFallbackText(content.List), &content.Options)
	default:
		return nil, fmt.Errorf("%w: content type %q", ErrUnsupported, content.Type)
	}
}

// resolveChatJID validates and normalizes the target chat. Group ids pass
// through; personal ids are checked against the directory so sends to
// unregistered numbers fail before upload work happens.
func (s *Session) resolveChatJID(ctx context.Context, chatID string) (types.JID, error) {
	remoteJID := ToJID(chatID)
	if remoteJID.IsEmpty() {
		return types.EmptyJID, fmt.Errorf("invalid chat id %q", chatID)
	}
	if remoteJID.Server == types.GroupServer || remoteJID.Server == types.NewsletterServer || remoteJID.Server == types.BroadcastServer {
		return remoteJID, nil
	}

	infos, err := s.client.IsOnWhatsApp(ctx, []string{"+" + remoteJID.User})
	if err != nil {
		return types.EmptyJID, fmt.Errorf("verify number: %w", err)
	}
	if len(infos) == 0 || !infos[0].IsIn {
		return types.EmptyJID, errors.New("number is not registered on WhatsApp")
	}
	return infos[0].JID, nil
}

func (s *Session) waitSendSlot(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

// composeStatus flashes the typing (or recording) indicator around a send.
func (s *Session) composeStatus(ctx context.Context, chat types.JID, composing bool, audio bool) {
	state := types.ChatPresencePaused
	if composing {
		state = types.ChatPresenceComposing
	}
	media := types.ChatPresenceMediaText
	if audio {
		media = types.ChatPresenceMediaAudio
	}
	if err := s.client.SendChatPresence(ctx, chat, state, media); err != nil {
		log.Session(s.ID).Debug("Failed to send chat presence: " + err.Error())
	}
}

// quotedContext resolves the quoted message reference, best-effort. A
// failed resolution drops the quote rather than blocking the send.
func (s *Session) quotedContext(quotedID string, chatID string) *waE2E.ContextInfo {
	if quotedID == "" {
		return nil
	}
	key, msg, err := resolveMessageKey(s.store, s.keys, chatID, quotedID)
	if err != nil {
		log.Session(s.ID).Warn("Quoted message not found, sending without quote: " + quotedID)
		return nil
	}

	info := &waE2E.ContextInfo{
		StanzaID:    proto.String(key.ID),
		Participant: proto.String(quotedParticipant(key)),
	}
	if msg != nil && msg.Raw != nil {
		info.QuotedMessage = msg.Raw
	} else if msg != nil && msg.Body != "" {
		info.QuotedMessage = &waE2E.Message{Conversation: proto.String(msg.Body)}
	} else {
		info.QuotedMessage = &waE2E.Message{Conversation: proto.String("")}
	}
	return info
}

func quotedParticipant(key *MessageKey) string {
	if key.Participant != "" {
		return key.Participant
	}
	return ToJID(key.RemoteJID).ToNonAD().String()
}

func mentionContext(info *waE2E.ContextInfo, mentions []string) *waE2E.ContextInfo {
	if len(mentions) == 0 {
		return info
	}
	if info == nil {
		info = &waE2E.ContextInfo{}
	}
	for _, mention := range mentions {
		jid := ToJID(mention)
		if jid.IsEmpty() {
			continue
		}
		info.MentionedJID = append(info.MentionedJID, jid.String())
	}
	return info
}

// SendText sends a plain or extended text message. Quotes and mentions
// promote the payload to an extended text message; so does a link preview,
// fetched best-effort for the first http(s) URL in the body.
func (s *Session) SendText(ctx context.Context, chatID string, text string, opts *SendOptions) (*Message, error) {
	if opts == nil {
		opts = &SendOptions{}
	}
	remoteJID, err := s.resolveChatJID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if err := s.waitSendSlot(ctx); err != nil {
		return nil, err
	}

	contextInfo := mentionContext(s.quotedContext(opts.QuotedMessageID, chatID), opts.Mentions)

	var extended *waE2E.ExtendedTextMessage
	if opts.LinkPreview {
		extended = s.linkPreview(ctx, text)
	}

	content := &waE2E.Message{}
	if extended != nil || contextInfo != nil {
		if extended == nil {
			extended = &waE2E.ExtendedTextMessage{Text: proto.String(text)}
		}
		extended.ContextInfo = contextInfo
		content.ExtendedTextMessage = extended
	} else {
		content.Conversation = proto.String(text)
	}

	s.composeStatus(ctx, remoteJID, true, false)
	defer s.composeStatus(ctx, remoteJID, false, false)

	return s.deliver(ctx, remoteJID, content, TypeChat, text)
}

// SendMedia classifies the payload by MIME prefix and sends it as image,
// video, audio or document. Caption falls back to the filename.
func (s *Session) SendMedia(ctx context.Context, chatID string, media *MediaPayload, opts *SendOptions) (*Message, error) {
	if media == nil || len(media.Data) == 0 {
		return nil, errors.New("media content requires a media payload")
	}
	if opts == nil {
		opts = &SendOptions{}
	}
	remoteJID, err := s.resolveChatJID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if err := s.waitSendSlot(ctx); err != nil {
		return nil, err
	}

	caption := media.Caption
	if caption == "" {
		caption = media.Filename
	}
	contextInfo := mentionContext(s.quotedContext(opts.QuotedMessageID, chatID), opts.Mentions)

	var (
		content *waE2E.Message
		msgType string
	)
	switch {
	case media.Sticker:
		content, err = s.buildStickerMessage(ctx, media)
		msgType = TypeSticker
		caption = ""
	case strings.HasPrefix(media.MimeType, "image/"):
		content, err = s.buildImageMessage(ctx, media, caption, contextInfo)
		msgType = TypeImage
	case strings.HasPrefix(media.MimeType, "video/"):
		content, err = s.buildVideoMessage(ctx, media, caption, contextInfo)
		msgType = TypeVideo
	case strings.HasPrefix(media.MimeType, "audio/"):
		content, err = s.buildAudioMessage(ctx, media, contextInfo)
		msgType = TypeAudio
		if media.Voice {
			msgType = TypeVoice
		}
		caption = ""
	default:
		content, err = s.buildDocumentMessage(ctx, media, caption, contextInfo)
		msgType = TypeDocument
	}
	if err != nil {
		return nil, err
	}

	s.composeStatus(ctx, remoteJID, true, media.Voice)
	defer s.composeStatus(ctx, remoteJID, false, media.Voice)

	record, err := s.deliver(ctx, remoteJID, content, msgType, caption)
	if err != nil {
		return nil, err
	}
	record.HasMedia = true
	record.MimeType = media.MimeType
	record.Filename = media.Filename
	record.FileSize = uint64(len(media.Data))
	return record, nil
}

// SendMediaFromURL downloads the target under a bounded timeout and
// re-enters the media path.
func (s *Session) SendMediaFromURL(ctx context.Context, chatID string, mediaURL string, media *MediaPayload, opts *SendOptions) (*Message, error) {
	if mediaURL == "" {
		return nil, errors.New("media-url content requires a url")
	}
	downloaded, err := s.downloadMediaURL(ctx, mediaURL)
	if err != nil {
		return nil, err
	}
	if media != nil {
		downloaded.Caption = media.Caption
		downloaded.Voice = downloaded.Voice || media.Voice
		downloaded.GIF = downloaded.GIF || media.GIF
		downloaded.ViewOnce = media.ViewOnce
		if media.Filename != "" {
			downloaded.Filename = media.Filename
		}
		if media.MimeType != "" {
			downloaded.MimeType = media.MimeType
		}
	}
	return s.SendMedia(ctx, chatID, downloaded, opts)
}

func (s *Session) SendLocation(ctx context.Context, chatID string, location *Location) (*Message, error) {
	if location == nil {
		return nil, errors.New("location content requires a location payload")
	}
	remoteJID, err := s.resolveChatJID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if err := s.waitSendSlot(ctx); err != nil {
		return nil, err
	}

	content := &waE2E.Message{
		LocationMessage: &waE2E.LocationMessage{
			DegreesLatitude:  proto.Float64(location.Latitude),
			DegreesLongitude: proto.Float64(location.Longitude),
			Name:             proto.String(location.Name),
			Address:          proto.String(location.Address),
		},
	}
	record, err := s.deliver(ctx, remoteJID, content, TypeLocation, location.Name)
	if err != nil {
		return nil, err
	}
	record.Location = location
	return record, nil
}

func (s *Session) SendPoll(ctx context.Context, chatID string, poll *Poll) (*Message, error) {
	if poll == nil || poll.Name == "" || len(poll.Options) < 2 {
		return nil, errors.New("poll content requires a name and at least two options")
	}
	remoteJID, err := s.resolveChatJID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if err := s.waitSendSlot(ctx); err != nil {
		return nil, err
	}

	selectable := 1
	if poll.AllowMultipleAnswers {
		selectable = len(poll.Options)
	}
	content := s.client.BuildPollCreation(poll.Name, poll.Options, selectable)

	record, err := s.deliver(ctx, remoteJID, content, TypePollCreation, poll.Name)
	if err != nil {
		return nil, err
	}
	record.Poll = poll
	return record, nil
}

func (s *Session) SendContactCard(ctx context.Context, chatID string, card *VCardPayload) (*Message, error) {
	if card == nil || card.VCard == "" {
		return nil, errors.New("contact-card content requires a vcard payload")
	}
	remoteJID, err := s.resolveChatJID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if err := s.waitSendSlot(ctx); err != nil {
		return nil, err
	}

	content := &waE2E.Message{
		ContactMessage: &waE2E.ContactMessage{
			DisplayName: proto.String(card.Name),
			Vcard:       proto.String(card.VCard),
		},
	}
	record, err := s.deliver(ctx, remoteJID, content, TypeVCard, card.Name)
	if err != nil {
		return nil, err
	}
	record.VCards = []string{card.VCard}
	return record, nil
}

// isSingleEmoji accepts one emoji or one grapheme cluster. Multi-rune
// emoji (skin tones, flags) count as one cluster.
func isSingleEmoji(emoji string) bool {
	return gomoji.ContainsEmoji(emoji) || uniseg.GraphemeClusterCount(emoji) == 1
}

// SendReaction reacts to a resolved message. The emoji must be a single
// grapheme; an empty string removes a previous reaction.
func (s *Session) SendReaction(ctx context.Context, chatID string, messageID string, emoji string) (*Message, error) {
	if emoji != "" && !isSingleEmoji(emoji) {
		return nil, errors.New("reaction must be a single emoji")
	}
	key, _, err := resolveMessageKey(s.store, s.keys, chatID, messageID)
	if err != nil {
		return nil, err
	}
	remoteJID := ToJID(key.RemoteJID)

	content := &waE2E.Message{
		ReactionMessage: &waE2E.ReactionMessage{
			Key: &waCommon.MessageKey{
				RemoteJID: proto.String(remoteJID.String()),
				ID:        proto.String(key.ID),
				FromMe:    proto.Bool(key.FromMe),
			},
			Text:              proto.String(emoji),
			SenderTimestampMS: proto.Int64(time.Now().UnixMilli()),
		},
	}
	if key.Participant != "" {
		content.ReactionMessage.Key.Participant = proto.String(key.Participant)
	}

	record, err := s.deliver(ctx, remoteJID, content, TypeReaction, emoji)
	if err != nil {
		return nil, err
	}
	reaction := &Reaction{
		MessageID: SerializeMessageID(key.FromMe, key.RemoteJID, key.ID),
		Text:      emoji,
		SenderID:  ToLegacyID(s.ownJID()),
		Timestamp: record.Timestamp,
	}
	record.Reaction = reaction
	s.store.AttachReaction(key.RemoteJID, key.ID, reaction)
	s.emit(EventMessageReaction, map[string]interface{}{
		"id":       record.ID,
		"chatId":   record.ChatID,
		"reaction": reaction,
	})
	return record, nil
}

// deliver pushes the composed content over the socket, then mirrors it
// into the local store and key index and emits message_create. Own sends
// are not echoed back by the server, so the send path is the only place
// the outgoing record can be captured.
func (s *Session) deliver(ctx context.Context, remoteJID types.JID, content *waE2E.Message, msgType string, body string) (*Message, error) {
	extra := whatsmeow.SendRequestExtra{ID: s.client.GenerateMessageID()}
	resp, err := s.client.SendMessage(ctx, remoteJID, content, extra)
	if err != nil {
		return nil, err
	}

	record := &Message{
		ID: SerializeMessageID(true, remoteJID.String(), extra.ID),
		Key: MessageKey{
			RemoteJID: remoteJID.String(),
			ID:        extra.ID,
			FromMe:    true,
		},
		ChatID:    ToLegacyID(remoteJID),
		From:      ToLegacyID(s.ownJID()),
		To:        ToLegacyID(remoteJID),
		FromMe:    true,
		Type:      msgType,
		Body:      body,
		Timestamp: resp.Timestamp.Unix(),
		Ack:       AckServer,
		Raw:       content,
	}
	if record.Timestamp == 0 {
		record.Timestamp = time.Now().Unix()
	}

	if msgType != TypeReaction {
		s.store.UpsertMessage(record)
	}
	s.keys.register(&record.Key, record.ChatID)
	s.emit(EventMessageCreate, record)
	return record, nil
}

func buttonsFallbackText(payload *ButtonsPayload) string {
	var sb strings.Builder
	if payload.Title != "" {
		sb.WriteString("*" + payload.Title + "*\n\n")
	}
	sb.WriteString(payload.Body)
	for i, button := range payload.Buttons {
		sb.WriteString(fmt.Sprintf("\n%d. %s", i+1, button))
	}
	if payload.Footer != "" {
		sb.WriteString("\n\n_" + payload.Footer + "_")
	}
	return sb.String()
}

func listFallbackText(payload *ListPayload) string {
	var sb strings.Builder
	if payload.Title != "" {
		sb.WriteString("*" + payload.Title + "*\n\n")
	}
	sb.WriteString(payload.Body)
	for _, section := range payload.Sections {
		if section.Title != "" {
			sb.WriteString("\n\n*" + section.Title + "*")
		}
		for i, row := range section.Rows {
			sb.WriteString(fmt.Sprintf("\n%d. %s", i+1, row))
		}
	}
	return sb.String()
}
