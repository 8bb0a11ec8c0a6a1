package client

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kadigal/go-whatsapp-session-gateway/internal/controller"
	typGateway "github.com/kadigal/go-whatsapp-session-gateway/internal/types"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/log"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/router"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/validation"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/whatsapp"
)

type Controller struct {
	controller.Base
}

func New(manager *whatsapp.Manager) *Controller {
	return &Controller{controller.Base{Manager: manager}}
}

// SendMessage is the polymorphic send endpoint: contentType selects how the
// content payload is decoded, options apply across all types.
func (ctl *Controller) SendMessage(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestSendMessage
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if err := validation.ValidateChatID(req.ChatID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	content, err := buildContent(&req)
	if err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	log.Print(c).Info("Sending " + content.Type + " message on session " + sess.ID)
	msg, err := sess.SendContent(c.UserContext(), req.ChatID, content)
	if err != nil {
		log.Print(c).Error("Failed to send message on session " + sess.ID + ": " + err.Error())
		return controller.Fail(c, err)
	}

	return router.ResponseCreatedWithData(c, "Success send message", msg)
}

// buildContent maps the wire payload onto the engine's outgoing content.
// Text and media-url accept a bare JSON string as shorthand.
func buildContent(req *typGateway.RequestSendMessage) (*whatsapp.OutgoingContent, error) {
	opts := req.Options
	if opts == nil {
		opts = &typGateway.MessageSendOptions{}
	}

	content := &whatsapp.OutgoingContent{
		Type: req.ContentType,
		Options: whatsapp.SendOptions{
			QuotedMessageID: opts.QuotedMessageID,
			Mentions:        opts.Mentions,
			LinkPreview:     opts.LinkPreview == nil || *opts.LinkPreview,
		},
	}

	switch req.ContentType {
	case whatsapp.ContentText, "":
		text, err := decodeString(req.Content)
		if err != nil {
			return nil, errors.New("content must be a string for text messages")
		}
		if strings.TrimSpace(text) == "" {
			return nil, errors.New("content must not be empty")
		}
		content.Type = whatsapp.ContentText
		content.Text = text

	case whatsapp.ContentMedia:
		var media typGateway.MediaContent
		if err := json.Unmarshal(req.Content, &media); err != nil {
			return nil, errors.New("content must be a media object")
		}
		payload, err := mediaPayload(&media, opts)
		if err != nil {
			return nil, err
		}
		content.Media = payload

	case whatsapp.ContentMediaURL:
		mediaURL, err := decodeString(req.Content)
		if err != nil {
			var media typGateway.MediaContent
			if err := json.Unmarshal(req.Content, &media); err != nil || media.URL == "" {
				return nil, errors.New("content must be a URL for media-url messages")
			}
			mediaURL = media.URL
			content.Media = &whatsapp.MediaPayload{
				MimeType: media.MimeType,
				Filename: media.Filename,
			}
		}
		if err := validation.ValidateURL(mediaURL); err != nil {
			return nil, err
		}
		if content.Media == nil {
			content.Media = &whatsapp.MediaPayload{}
		}
		applyMediaOptions(content.Media, opts)
		content.MediaURL = mediaURL

	case whatsapp.ContentLocation:
		var loc typGateway.LocationContent
		if err := json.Unmarshal(req.Content, &loc); err != nil {
			return nil, errors.New("content must be a location object")
		}
		name, address := loc.Name, loc.Address
		if name == "" && loc.Description != "" {
			parts := strings.SplitN(loc.Description, "\n", 2)
			name = parts[0]
			if len(parts) > 1 {
				address = parts[1]
			}
		}
		content.Location = &whatsapp.Location{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			Name:      name,
			Address:   address,
		}

	case whatsapp.ContentPoll:
		var poll typGateway.PollContent
		if err := json.Unmarshal(req.Content, &poll); err != nil {
			return nil, errors.New("content must be a poll object")
		}
		content.Poll = &whatsapp.Poll{
			Name:                 poll.PollTitle(),
			Options:              poll.PollChoices(),
			AllowMultipleAnswers: poll.Options.AllowMultipleAnswers,
		}

	case whatsapp.ContentContactCard:
		var card typGateway.ContactCardContent
		if err := json.Unmarshal(req.Content, &card); err != nil {
			return nil, errors.New("content must be a contact card object")
		}
		content.VCard = &whatsapp.VCardPayload{
			Name:  card.CardName(),
			VCard: card.VCard,
		}

	case whatsapp.ContentButtons:
		var buttons typGateway.ButtonsContent
		if err := json.Unmarshal(req.Content, &buttons); err != nil {
			return nil, errors.New("content must be a buttons object")
		}
		content.Buttons = &whatsapp.ButtonsPayload{
			Title:   buttons.Title,
			Body:    buttons.Body,
			Footer:  buttons.Footer,
			Buttons: buttons.Buttons,
		}

	case whatsapp.ContentList:
		var list typGateway.ListContent
		if err := json.Unmarshal(req.Content, &list); err != nil {
			return nil, errors.New("content must be a list object")
		}
		payload := &whatsapp.ListPayload{
			Title:      list.Title,
			Body:       list.Body,
			ButtonText: list.ButtonText,
		}
		for _, section := range list.Sections {
			payload.Sections = append(payload.Sections, whatsapp.ListSection{
				Title: section.Title,
				Rows:  section.Rows,
			})
		}
		content.List = payload

	default:
		return nil, fmt.Errorf("unsupported content type %q", req.ContentType)
	}

	return content, nil
}

func decodeString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

func mediaPayload(media *typGateway.MediaContent, opts *typGateway.MessageSendOptions) (*whatsapp.MediaPayload, error) {
	if media.Data == "" {
		return nil, errors.New("media content requires base64 data")
	}

	encoded := media.Data
	// Tolerate data URIs; clients paste them straight from browsers.
	if idx := strings.Index(encoded, ";base64,"); idx >= 0 {
		encoded = encoded[idx+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.New("media data is not valid base64")
	}

	payload := &whatsapp.MediaPayload{
		Data:     data,
		MimeType: media.MimeType,
		Filename: media.Filename,
	}
	applyMediaOptions(payload, opts)
	return payload, nil
}

func applyMediaOptions(payload *whatsapp.MediaPayload, opts *typGateway.MessageSendOptions) {
	payload.Caption = opts.Caption
	payload.Voice = opts.SendAudioAsVoice
	payload.GIF = opts.SendVideoAsGif
	payload.Sticker = opts.SendMediaAsSticker
	payload.ViewOnce = opts.IsViewOnce
}

func (ctl *Controller) GetChats(c *fiber.Ctx) error {
	sess, err := ctl.Session(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success get chats", sess.Store().Chats())
}

func (ctl *Controller) GetContacts(c *fiber.Ctx) error {
	sess, err := ctl.Session(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success get contacts", sess.Store().Contacts())
}

func (ctl *Controller) GetChatByID(c *fiber.Ctx) error {
	sess, err := ctl.Session(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestChatID
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if err := validation.ValidateChatID(req.ChatID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	chat, ok := sess.Store().ChatByID(req.ChatID)
	if !ok {
		return router.ResponseNotFound(c, "chat not found")
	}
	return router.ResponseSuccessWithData(c, "Success get chat", chat)
}

func (ctl *Controller) GetMessages(c *fiber.Ctx) error {
	sess, err := ctl.Session(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestGetMessages
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if err := validation.ValidateChatID(req.ChatID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	messages := sess.Store().Messages(req.ChatID, req.EffectiveLimit())
	return router.ResponseSuccessWithData(c, "Success get messages", messages)
}

func (ctl *Controller) IsRegisteredUser(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestPhoneNumber
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if err := validation.ValidatePhone(req.Value()); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	info, err := sess.NumberExists(c.UserContext(), req.Value())
	if err != nil {
		return controller.Fail(c, err)
	}

	resp := typGateway.ResponseRegistered{Registered: info.IsIn}
	if info.IsIn {
		resp.JID = whatsapp.ToLegacyID(info.JID)
	}
	return router.ResponseSuccessWithData(c, "Success check registered user", resp)
}

// GetNumberID resolves a phone number to its authoritative user id; the
// directory may route the digits to a different id than they suggest.
func (ctl *Controller) GetNumberID(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestPhoneNumber
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if err := validation.ValidatePhone(req.Value()); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	info, err := sess.NumberExists(c.UserContext(), req.Value())
	if err != nil {
		return controller.Fail(c, err)
	}
	if !info.IsIn {
		return router.ResponseNotFound(c, "number is not registered on WhatsApp")
	}

	return router.ResponseSuccessWithData(c, "Success get number id", typGateway.ResponseNumberID{
		Server:     info.JID.Server,
		User:       info.JID.User,
		Serialized: whatsapp.ToLegacyID(info.JID),
	})
}

func (ctl *Controller) GetProfilePicURL(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestProfilePicture
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.TargetID() == "" {
		return router.ResponseBadRequest(c, "contactId is required")
	}

	pic, err := sess.ProfilePicture(c.UserContext(), req.TargetID(), req.Preview)
	if err != nil {
		return controller.Fail(c, err)
	}
	if pic == nil || pic.URL == "" {
		return router.ResponseNotFound(c, "profile picture not set")
	}

	return router.ResponseSuccessWithData(c, "Success get profile picture", typGateway.ResponseProfilePicture{
		URL: pic.URL,
		ID:  pic.ID,
	})
}

func (ctl *Controller) SendPresenceAvailable(c *fiber.Ctx) error {
	return ctl.setPresence(c, true)
}

func (ctl *Controller) SendPresenceUnavailable(c *fiber.Ctx) error {
	return ctl.setPresence(c, false)
}

func (ctl *Controller) setPresence(c *fiber.Ctx, available bool) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	if err := sess.SetPresence(c.UserContext(), available); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success update presence")
}

func (ctl *Controller) SetStatus(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestSetStatus
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	if err := sess.SetStatusMessage(c.UserContext(), req.Status); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success set status")
}

func (ctl *Controller) SetDisplayName(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestSetDisplayName
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.Value() == "" {
		return router.ResponseBadRequest(c, "displayName is required")
	}

	if err := sess.SetDisplayName(c.UserContext(), req.Value()); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success set display name")
}

func (ctl *Controller) CreateGroup(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestCreateGroup
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.GroupName() == "" {
		return router.ResponseBadRequest(c, "name is required")
	}
	if len(req.Participants) == 0 {
		return router.ResponseBadRequest(c, "participants are required")
	}

	log.Print(c).Info("Creating group on session " + sess.ID)
	group, err := sess.CreateGroup(c.UserContext(), req.GroupName(), req.Participants)
	if err != nil {
		log.Print(c).Error("Failed to create group on session " + sess.ID + ": " + err.Error())
		return controller.Fail(c, err)
	}

	return router.ResponseCreatedWithData(c, "Success create group", group)
}

func (ctl *Controller) AcceptInvite(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestAcceptInvite
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.Value() == "" {
		return router.ResponseBadRequest(c, "inviteCode is required")
	}

	group, err := sess.JoinGroupWithLink(c.UserContext(), req.Value())
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success accept invite", group)
}

func (ctl *Controller) GetState(c *fiber.Ctx) error {
	sess, err := ctl.Session(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success get state", typGateway.ResponseState{
		State: sess.Status(),
	})
}
