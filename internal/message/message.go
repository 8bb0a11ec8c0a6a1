package message

import (
	"encoding/base64"
	"errors"
	"time"

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

// messageRef binds the common {chatId, messageId} body and resolves the
// session in one step.
func (ctl *Controller) messageRef(c *fiber.Ctx) (*whatsapp.Session, typGateway.RequestMessageRef, error) {
	var ref typGateway.RequestMessageRef

	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return nil, ref, err
	}

	if err := c.BodyParser(&ref); err != nil {
		return nil, ref, controller.RequestError(errParseBody)
	}
	if err := validation.ValidateChatID(ref.ChatID); err != nil {
		return nil, ref, controller.RequestError(err)
	}
	if ref.MessageID == "" {
		return nil, ref, controller.RequestError(errMissingMessageID)
	}
	return sess, ref, nil
}

var (
	errParseBody        = errors.New("Failed parse body request")
	errMissingMessageID = errors.New("messageId is required")
)

func (ctl *Controller) React(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestReaction
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if err := validation.ValidateChatID(req.ChatID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}
	if req.MessageID == "" {
		return router.ResponseBadRequest(c, "messageId is required")
	}
	if req.Value() == "" {
		return router.ResponseBadRequest(c, "reaction is required")
	}

	msg, err := sess.SendReaction(c.UserContext(), req.ChatID, req.MessageID, req.Value())
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success react to message", msg)
}

// Unreact sends the empty reaction, which removes a previous one.
func (ctl *Controller) Unreact(c *fiber.Ctx) error {
	sess, ref, err := ctl.messageRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	msg, err := sess.SendReaction(c.UserContext(), ref.ChatID, ref.MessageID, "")
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success remove reaction", msg)
}

func (ctl *Controller) Star(c *fiber.Ctx) error {
	sess, ref, err := ctl.messageRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	msg, err := sess.StarMessage(c.UserContext(), ref.ChatID, ref.MessageID, true)
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success star message", msg)
}

func (ctl *Controller) Unstar(c *fiber.Ctx) error {
	sess, ref, err := ctl.messageRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	msg, err := sess.StarMessage(c.UserContext(), ref.ChatID, ref.MessageID, false)
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success unstar message", msg)
}

// Delete removes a message, revoking it for every participant when
// everyone is set and only locally otherwise.
func (ctl *Controller) Delete(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestDeleteMessage
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if err := validation.ValidateChatID(req.ChatID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}
	if req.MessageID == "" {
		return router.ResponseBadRequest(c, "messageId is required")
	}

	if req.Everyone {
		msg, err := sess.DeleteMessageForEveryone(c.UserContext(), req.ChatID, req.MessageID)
		if err != nil {
			return controller.Fail(c, err)
		}
		return router.ResponseSuccessWithData(c, "Success delete message for everyone", msg)
	}

	if _, err := sess.DeleteMessageForMe(req.ChatID, req.MessageID); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success delete message")
}

func (ctl *Controller) Edit(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestEditMessage
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if err := validation.ValidateChatID(req.ChatID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}
	if req.MessageID == "" {
		return router.ResponseBadRequest(c, "messageId is required")
	}
	if req.NewBody() == "" {
		return router.ResponseBadRequest(c, "content is required")
	}

	msg, err := sess.EditMessage(c.UserContext(), req.ChatID, req.MessageID, req.NewBody())
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success edit message", msg)
}

func (ctl *Controller) Pin(c *fiber.Ctx) error {
	return ctl.setPinned(c, true, "Success pin message")
}

func (ctl *Controller) Unpin(c *fiber.Ctx) error {
	return ctl.setPinned(c, false, "Success unpin message")
}

func (ctl *Controller) setPinned(c *fiber.Ctx, pin bool, message string) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestPinMessage
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if err := validation.ValidateChatID(req.ChatID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}
	if req.MessageID == "" {
		return router.ResponseBadRequest(c, "messageId is required")
	}

	duration := time.Duration(req.Duration) * time.Second
	if err := sess.PinMessage(c.UserContext(), req.ChatID, req.MessageID, pin, duration); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, message)
}

func (ctl *Controller) Forward(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestForwardMessage
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if err := validation.ValidateChatID(req.ChatID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}
	if req.MessageID == "" {
		return router.ResponseBadRequest(c, "messageId is required")
	}
	if req.Destination() == "" {
		return router.ResponseBadRequest(c, "destinationChatId is required")
	}

	log.Print(c).Info("Forwarding message on session " + sess.ID)
	msg, err := sess.ForwardMessage(c.UserContext(), req.ChatID, req.MessageID, req.Destination())
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseCreatedWithData(c, "Success forward message", msg)
}

// DownloadMedia fetches the attachment bytes from WhatsApp's media servers
// and returns them wwebjs-style: base64 payload plus mimetype.
func (ctl *Controller) DownloadMedia(c *fiber.Ctx) error {
	sess, ref, err := ctl.messageRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	download, err := sess.DownloadMessageMedia(c.UserContext(), ref.ChatID, ref.MessageID)
	if err != nil {
		return controller.Fail(c, err)
	}

	return router.ResponseSuccessWithData(c, "Success download media", typGateway.MediaContent{
		MimeType: download.MimeType,
		Data:     base64.StdEncoding.EncodeToString(download.Data),
		Filename: download.Filename,
	})
}

func (ctl *Controller) GetInfo(c *fiber.Ctx) error {
	sess, err := ctl.Session(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestMessageRef
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if err := validation.ValidateChatID(req.ChatID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}
	if req.MessageID == "" {
		return router.ResponseBadRequest(c, "messageId is required")
	}

	msg, err := sess.MessageByID(req.ChatID, req.MessageID)
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success get message", msg)
}
