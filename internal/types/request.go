package types

import "encoding/json"

// Request bodies bind from JSON. Wire names follow the whatsapp-web.js
// conventions downstream consumers already speak (chatId, contentType, ...),
// with a few legacy aliases kept where older clients send them.

type RequestStartSession struct {
	WebhookURL string `json:"webhookUrl"`
}

type RequestPairingCode struct {
	Phone  string `json:"phone"`
	Number string `json:"number"`
}

func (r RequestPairingCode) PhoneNumber() string {
	if r.Phone != "" {
		return r.Phone
	}
	return r.Number
}

// RequestSendMessage is the polymorphic send endpoint body. Content is
// decoded per ContentType: a bare string for text and media-url, an object
// for everything else.
type RequestSendMessage struct {
	ChatID      string              `json:"chatId"`
	ContentType string              `json:"contentType"`
	Content     json.RawMessage     `json:"content"`
	Options     *MessageSendOptions `json:"options"`
}

// MessageSendOptions mirrors the whatsapp-web.js MessageSendOptions fields
// this gateway honors. Media flags live here, not on the content object.
type MessageSendOptions struct {
	QuotedMessageID    string   `json:"quotedMessageId"`
	Mentions           []string `json:"mentions"`
	LinkPreview        *bool    `json:"linkPreview"`
	Caption            string   `json:"caption"`
	SendAudioAsVoice   bool     `json:"sendAudioAsVoice"`
	SendVideoAsGif     bool     `json:"sendVideoAsGif"`
	SendMediaAsSticker bool     `json:"sendMediaAsSticker"`
	IsViewOnce         bool     `json:"isViewOnce"`
}

// MediaContent is the wire shape of a MessageMedia object, base64 payload
// included. The same shape is returned by downloadMedia.
type MediaContent struct {
	MimeType string `json:"mimetype"`
	Data     string `json:"data"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type LocationContent struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Description string  `json:"description"`
}

type PollContent struct {
	PollName    string   `json:"pollName"`
	Name        string   `json:"name"`
	PollOptions []string `json:"pollOptions"`
	Choices     []string `json:"choices"`
	Options     struct {
		AllowMultipleAnswers bool `json:"allowMultipleAnswers"`
	} `json:"options"`
}

func (p PollContent) PollTitle() string {
	if p.PollName != "" {
		return p.PollName
	}
	return p.Name
}

func (p PollContent) PollChoices() []string {
	if len(p.PollOptions) > 0 {
		return p.PollOptions
	}
	return p.Choices
}

type ContactCardContent struct {
	DisplayName string `json:"displayName"`
	Name        string `json:"name"`
	VCard       string `json:"vcard"`
}

func (c ContactCardContent) CardName() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}

type ButtonsContent struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Footer  string   `json:"footer"`
	Buttons []string `json:"buttons"`
}

type ListContent struct {
	Title      string           `json:"title"`
	Body       string           `json:"body"`
	ButtonText string           `json:"buttonText"`
	Sections   []ListSectionRow `json:"sections"`
}

type ListSectionRow struct {
	Title string   `json:"title"`
	Rows  []string `json:"rows"`
}

type RequestChatID struct {
	ChatID string `json:"chatId"`
}

type RequestGetMessages struct {
	ChatID        string `json:"chatId"`
	Limit         int    `json:"limit"`
	SearchOptions struct {
		Limit int `json:"limit"`
	} `json:"searchOptions"`
}

func (r RequestGetMessages) EffectiveLimit() int {
	if r.Limit > 0 {
		return r.Limit
	}
	return r.SearchOptions.Limit
}

type RequestPhoneNumber struct {
	Number string `json:"number"`
	Phone  string `json:"phone"`
}

func (r RequestPhoneNumber) Value() string {
	if r.Number != "" {
		return r.Number
	}
	return r.Phone
}

type RequestProfilePicture struct {
	ContactID string `json:"contactId"`
	ChatID    string `json:"chatId"`
	Preview   bool   `json:"preview"`
}

func (r RequestProfilePicture) TargetID() string {
	if r.ContactID != "" {
		return r.ContactID
	}
	return r.ChatID
}

type RequestSetStatus struct {
	Status string `json:"status"`
}

type RequestSetDisplayName struct {
	DisplayName string `json:"displayName"`
	Name        string `json:"name"`
}

func (r RequestSetDisplayName) Value() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Name
}

type RequestCreateGroup struct {
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Participants []string `json:"participants"`
}

func (r RequestCreateGroup) GroupName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Title
}

type RequestAcceptInvite struct {
	InviteCode string `json:"inviteCode"`
	Code       string `json:"code"`
}

func (r RequestAcceptInvite) Value() string {
	if r.InviteCode != "" {
		return r.InviteCode
	}
	return r.Code
}

type RequestMuteChat struct {
	ChatID string `json:"chatId"`
	// Duration in seconds; 0 mutes forever.
	Duration   int64 `json:"duration"`
	UnmuteDate int64 `json:"unmuteDate"`
}

type RequestDisappearing struct {
	ChatID string `json:"chatId"`
	// Duration in seconds; 0 disables. Empty chatId sets the account default.
	Duration int64 `json:"duration"`
}

type RequestMessageRef struct {
	ChatID    string `json:"chatId"`
	MessageID string `json:"messageId"`
}

type RequestReaction struct {
	ChatID    string `json:"chatId"`
	MessageID string `json:"messageId"`
	Reaction  string `json:"reaction"`
	Emoji     string `json:"emoji"`
}

func (r RequestReaction) Value() string {
	if r.Reaction != "" {
		return r.Reaction
	}
	return r.Emoji
}

type RequestEditMessage struct {
	ChatID    string `json:"chatId"`
	MessageID string `json:"messageId"`
	Content   string `json:"content"`
	Text      string `json:"text"`
}

func (r RequestEditMessage) NewBody() string {
	if r.Content != "" {
		return r.Content
	}
	return r.Text
}

type RequestDeleteMessage struct {
	ChatID    string `json:"chatId"`
	MessageID string `json:"messageId"`
	Everyone  bool   `json:"everyone"`
}

type RequestPinMessage struct {
	ChatID    string `json:"chatId"`
	MessageID string `json:"messageId"`
	// Duration in seconds the pin should last; 0 uses the server default.
	Duration int64 `json:"duration"`
}

type RequestForwardMessage struct {
	ChatID            string `json:"chatId"`
	MessageID         string `json:"messageId"`
	DestinationChatID string `json:"destinationChatId"`
	ToChatID          string `json:"toChatId"`
}

func (r RequestForwardMessage) Destination() string {
	if r.DestinationChatID != "" {
		return r.DestinationChatID
	}
	return r.ToChatID
}

type RequestContactID struct {
	ContactID string `json:"contactId"`
	ChatID    string `json:"chatId"`
}

func (r RequestContactID) Value() string {
	if r.ContactID != "" {
		return r.ContactID
	}
	return r.ChatID
}

type RequestGroupParticipants struct {
	ChatID       string   `json:"chatId"`
	GroupID      string   `json:"groupId"`
	Participants []string `json:"participants"`
}

func (r RequestGroupParticipants) Group() string {
	if r.ChatID != "" {
		return r.ChatID
	}
	return r.GroupID
}

type RequestGroupSubject struct {
	ChatID  string `json:"chatId"`
	Subject string `json:"subject"`
	Name    string `json:"name"`
}

func (r RequestGroupSubject) Value() string {
	if r.Subject != "" {
		return r.Subject
	}
	return r.Name
}

type RequestGroupDescription struct {
	ChatID      string `json:"chatId"`
	Description string `json:"description"`
}

type RequestGroupPicture struct {
	ChatID string `json:"chatId"`
	// Either an inline media object or a bare base64 payload.
	Media *MediaContent `json:"media"`
	Data  string        `json:"data"`
}

func (r RequestGroupPicture) Base64() string {
	if r.Media != nil && r.Media.Data != "" {
		return r.Media.Data
	}
	return r.Data
}

type RequestGroupSetting struct {
	ChatID   string `json:"chatId"`
	Locked   *bool  `json:"locked"`
	Announce *bool  `json:"announce"`
	Approval *bool  `json:"approval"`
}

type RequestGroupMode struct {
	ChatID string `json:"chatId"`
	Mode   string `json:"mode"`
}

type RequestGroupTopic struct {
	ChatID string `json:"chatId"`
	Topic  string `json:"topic"`
}

// RequestAcceptV4Invite carries a direct group invite (the kind delivered
// inside a message, not a link).
type RequestAcceptV4Invite struct {
	ChatID     string `json:"chatId"`
	Inviter    string `json:"inviter"`
	Code       string `json:"code"`
	Expiration int64  `json:"expiration"`
}

type RequestWSToken struct {
	SessionID string `json:"sessionId"`
}
