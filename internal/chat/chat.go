package chat

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kadigal/go-whatsapp-session-gateway/internal/controller"
	typGateway "github.com/kadigal/go-whatsapp-session-gateway/internal/types"
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

// chatRef binds the common {chatId} body and resolves the session in one
// step; every chat action starts this way.
func (ctl *Controller) chatRef(c *fiber.Ctx) (*whatsapp.Session, string, error) {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return nil, "", err
	}

	var req typGateway.RequestChatID
	if err := c.BodyParser(&req); err != nil {
		return nil, "", controller.RequestError(errParseBody)
	}
	if err := validation.ValidateChatID(req.ChatID); err != nil {
		return nil, "", controller.RequestError(err)
	}
	return sess, req.ChatID, nil
}

var errParseBody = errors.New("Failed parse body request")

func (ctl *Controller) Archive(c *fiber.Ctx) error {
	sess, chatID, err := ctl.chatRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	if err := sess.ArchiveChat(c.UserContext(), chatID, true); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success archive chat")
}

func (ctl *Controller) Unarchive(c *fiber.Ctx) error {
	sess, chatID, err := ctl.chatRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	if err := sess.ArchiveChat(c.UserContext(), chatID, false); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success unarchive chat")
}

func (ctl *Controller) Pin(c *fiber.Ctx) error {
	sess, chatID, err := ctl.chatRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	if err := sess.PinChat(c.UserContext(), chatID, true); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success pin chat")
}

func (ctl *Controller) Unpin(c *fiber.Ctx) error {
	sess, chatID, err := ctl.chatRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	if err := sess.PinChat(c.UserContext(), chatID, false); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success unpin chat")
}

// Mute silences a chat for the requested window. duration in seconds,
// 0 mutes forever; unmuteDate (unix) wins when both are present.
func (ctl *Controller) Mute(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestMuteChat
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if err := validation.ValidateChatID(req.ChatID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	duration := time.Duration(req.Duration) * time.Second
	if req.UnmuteDate > 0 {
		if until := time.Until(time.Unix(req.UnmuteDate, 0)); until > 0 {
			duration = until
		}
	}

	if err := sess.MuteChat(c.UserContext(), req.ChatID, duration); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success mute chat")
}

func (ctl *Controller) Unmute(c *fiber.Ctx) error {
	sess, chatID, err := ctl.chatRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	if err := sess.UnmuteChat(c.UserContext(), chatID); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success unmute chat")
}

func (ctl *Controller) MarkRead(c *fiber.Ctx) error {
	sess, chatID, err := ctl.chatRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	if err := sess.MarkChatRead(c.UserContext(), chatID); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success mark chat read")
}

func (ctl *Controller) MarkUnread(c *fiber.Ctx) error {
	sess, chatID, err := ctl.chatRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	if err := sess.MarkChatUnread(c.UserContext(), chatID); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success mark chat unread")
}

func (ctl *Controller) Delete(c *fiber.Ctx) error {
	sess, chatID, err := ctl.chatRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	if err := sess.DeleteChat(c.UserContext(), chatID); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success delete chat")
}

func (ctl *Controller) Clear(c *fiber.Ctx) error {
	sess, chatID, err := ctl.chatRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	if err := sess.ClearChat(c.UserContext(), chatID); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success clear chat")
}

func (ctl *Controller) SendTyping(c *fiber.Ctx) error {
	return ctl.sendChatPresence(c, true, false, "Success send typing state")
}

func (ctl *Controller) SendRecording(c *fiber.Ctx) error {
	return ctl.sendChatPresence(c, true, true, "Success send recording state")
}

func (ctl *Controller) StopTyping(c *fiber.Ctx) error {
	return ctl.sendChatPresence(c, false, false, "Success stop typing state")
}

func (ctl *Controller) sendChatPresence(c *fiber.Ctx, typing bool, recording bool, message string) error {
	sess, chatID, err := ctl.chatRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	if err := sess.SendTyping(c.UserContext(), chatID, typing, recording); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, message)
}

func (ctl *Controller) FetchMessages(c *fiber.Ctx) error {
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
	return router.ResponseSuccessWithData(c, "Success fetch messages", messages)
}

// SetDisappearing sets the disappearing-message timer for one chat, or the
// account default when chatId is omitted. duration in seconds, 0 disables.
func (ctl *Controller) SetDisappearing(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestDisappearing
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	duration := time.Duration(req.Duration) * time.Second
	if err := sess.SetDisappearingTimer(c.UserContext(), req.ChatID, duration); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success set disappearing timer")
}
