package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kadigal/go-whatsapp-session-gateway/pkg/router"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/validation"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/whatsapp"
)

// Base carries what every HTTP controller needs: the live session manager
// plus shared :sessionId handling. Controllers embed it.
type Base struct {
	Manager *whatsapp.Manager
}

// Session resolves the :sessionId route parameter to a live session
// regardless of its connection state.
func (b Base) Session(c *fiber.Ctx) (*whatsapp.Session, error) {
	sessionID := c.Params("sessionId")
	if err := validation.ValidateSessionID(sessionID); err != nil {
		return nil, RequestError(err)
	}
	return b.Manager.Get(sessionID)
}

// ConnectedSession resolves :sessionId and additionally requires an open
// socket. Store-only reads should use Session instead so they keep working
// through reconnects.
func (b Base) ConnectedSession(c *fiber.Ctx) (*whatsapp.Session, error) {
	sessionID := c.Params("sessionId")
	if err := validation.ValidateSessionID(sessionID); err != nil {
		return nil, RequestError(err)
	}
	return b.Manager.GetConnected(sessionID)
}

type requestError struct{ error }

// RequestError marks err as a request-shape problem so Fail renders it as
// a 400 instead of a 500.
func RequestError(err error) error {
	return requestError{err}
}

// Fail translates engine errors into the response envelope. Unrecognized
// errors surface as internal errors with their message intact.
func Fail(c *fiber.Ctx, err error) error {
	var reqErr requestError
	if errors.As(err, &reqErr) {
		return router.ResponseBadRequest(c, reqErr.Error())
	}
	switch {
	case errors.Is(err, whatsapp.ErrSessionNotFound),
		errors.Is(err, whatsapp.ErrMessageNotFound):
		return router.ResponseNotFound(c, err.Error())
	case errors.Is(err, whatsapp.ErrNotConnected),
		errors.Is(err, whatsapp.ErrSessionExists),
		errors.Is(err, whatsapp.ErrQRNotAvailable),
		errors.Is(err, whatsapp.ErrNoChatMessages):
		return router.ResponseUnprocessable(c, err.Error())
	case errors.Is(err, whatsapp.ErrUnsupported),
		errors.Is(err, whatsapp.ErrInvalidGroupID),
		errors.Is(err, whatsapp.ErrParticipantMustBeUser):
		return router.ResponseBadRequest(c, err.Error())
	default:
		return router.ResponseInternalError(c, err.Error())
	}
}
