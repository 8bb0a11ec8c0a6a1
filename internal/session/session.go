package session

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	qrCode "github.com/skip2/go-qrcode"

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

// Start brings a session up. Idempotent: starting a connected session
// reports success without touching it.
func (ctl *Controller) Start(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if err := validation.ValidateSessionID(sessionID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	var req typGateway.RequestStartSession
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return router.ResponseBadRequest(c, "Failed parse body request")
		}
	}
	if req.WebhookURL != "" {
		if err := validation.ValidateURL(req.WebhookURL); err != nil {
			return router.ResponseBadRequest(c, "webhookUrl must be a valid URL")
		}
	}

	if existing, err := ctl.Manager.Get(sessionID); err == nil && existing.Connected() {
		return router.ResponseSuccessWithData(c, "Session already started", existing.Info())
	}

	log.Print(c).Info("Starting session " + sessionID)
	sess, err := ctl.Manager.Start(c.UserContext(), sessionID, whatsapp.StartOptions{
		WebhookURL: req.WebhookURL,
	})
	if err != nil {
		log.Print(c).Error("Failed to start session " + sessionID + ": " + err.Error())
		return controller.Fail(c, err)
	}

	return router.ResponseCreatedWithData(c, "Session started", sess.Info())
}

func (ctl *Controller) Status(c *fiber.Ctx) error {
	sess, err := ctl.Session(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success get session status", sess.Info())
}

func (ctl *Controller) QR(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if err := validation.ValidateSessionID(sessionID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	payload, timeout, err := ctl.Manager.QR(sessionID)
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success get QR code", typGateway.ResponseQR{
		QR:      payload,
		Timeout: timeout,
	})
}

// QRImage renders the current QR payload as a PNG so it can be dropped
// into an <img> tag or a terminal preview.
func (ctl *Controller) QRImage(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if err := validation.ValidateSessionID(sessionID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	payload, _, err := ctl.Manager.QR(sessionID)
	if err != nil {
		return controller.Fail(c, err)
	}

	png, err := qrCode.Encode(payload, qrCode.Medium, 256)
	if err != nil {
		return router.ResponseInternalError(c, "Failed to render QR image")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

func (ctl *Controller) RequestPairingCode(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if err := validation.ValidateSessionID(sessionID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	var req typGateway.RequestPairingCode
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if err := validation.ValidatePhone(req.PhoneNumber()); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	code, err := ctl.Manager.RequestPairingCode(c.UserContext(), sessionID, req.PhoneNumber())
	if err != nil {
		log.Print(c).Error("Failed to request pairing code for " + sessionID + ": " + err.Error())
		return controller.Fail(c, err)
	}

	return router.ResponseSuccessWithData(c, "Success request pairing code", typGateway.ResponsePairingCode{
		PairingCode: code,
	})
}

// Restart tears the socket down and brings it back up with the same
// webhook override.
func (ctl *Controller) Restart(c *fiber.Ctx) error {
	sess, err := ctl.Session(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	sessionID := sess.ID
	webhookURL := sess.WebhookURL()

	log.Print(c).Info("Restarting session " + sessionID)
	if err := ctl.Manager.Stop(c.UserContext(), sessionID); err != nil && !errors.Is(err, whatsapp.ErrSessionNotFound) {
		return controller.Fail(c, err)
	}

	restarted, err := ctl.Manager.Start(c.UserContext(), sessionID, whatsapp.StartOptions{
		WebhookURL: webhookURL,
	})
	if err != nil {
		log.Print(c).Error("Failed to restart session " + sessionID + ": " + err.Error())
		return controller.Fail(c, err)
	}

	return router.ResponseSuccessWithData(c, "Session restarted", restarted.Info())
}

func (ctl *Controller) Stop(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if err := validation.ValidateSessionID(sessionID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	log.Print(c).Info("Stopping session " + sessionID)
	if err := ctl.Manager.Stop(c.UserContext(), sessionID); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Session stopped")
}

func (ctl *Controller) Terminate(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if err := validation.ValidateSessionID(sessionID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	log.Print(c).Info("Terminating session " + sessionID)
	if err := ctl.Manager.Terminate(c.UserContext(), sessionID); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Session terminated")
}

func (ctl *Controller) Logout(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if err := validation.ValidateSessionID(sessionID); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	log.Print(c).Info("Logging out session " + sessionID)
	if err := ctl.Manager.Logout(c.UserContext(), sessionID); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Session logged out")
}

func (ctl *Controller) List(c *fiber.Ctx) error {
	return router.ResponseSuccessWithData(c, "Success list sessions", ctl.Manager.Sessions())
}

// TerminateInactive removes every session that sits in the disconnected
// state, reclaiming their on-disk directories.
func (ctl *Controller) TerminateInactive(c *fiber.Ctx) error {
	terminated := make([]string, 0)
	for _, info := range ctl.Manager.Sessions() {
		if info.Status != whatsapp.StatusDisconnected {
			continue
		}
		if err := ctl.Manager.Terminate(c.UserContext(), info.ID); err != nil {
			log.Print(c).Warn("Failed to terminate inactive session " + info.ID + ": " + err.Error())
			continue
		}
		terminated = append(terminated, info.ID)
	}

	log.Print(c).Info("Terminated inactive sessions")
	return router.ResponseSuccessWithData(c, "Success terminate inactive sessions", map[string]interface{}{
		"terminated": terminated,
	})
}
