package ws

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/kadigal/go-whatsapp-session-gateway/internal/controller"
	typGateway "github.com/kadigal/go-whatsapp-session-gateway/internal/types"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/auth"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/log"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/router"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/validation"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/whatsapp"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

type Controller struct {
	controller.Base
	Hub *Hub
}

func New(manager *whatsapp.Manager, hub *Hub) *Controller {
	return &Controller{Base: controller.Base{Manager: manager}, Hub: hub}
}

// Token exchanges the API key for a short-lived WebSocket token. Browsers
// cannot set headers on the upgrade request, so the token travels in the
// query string instead.
func (ctl *Controller) Token(c *fiber.Ctx) error {
	var req typGateway.RequestWSToken
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.SessionID == "" {
		return router.ResponseBadRequest(c, "sessionId is required")
	}
	if req.SessionID != FirehoseSession {
		if err := validation.ValidateSessionID(req.SessionID); err != nil {
			return router.ResponseBadRequest(c, err.Error())
		}
	}

	token, err := auth.GenerateSessionToken(req.SessionID)
	if err != nil {
		return router.ResponseInternalError(c, err.Error())
	}
	return router.ResponseSuccessWithData(c, "Success generate token", typGateway.ResponseWSToken{
		Token:     token,
		ExpiresAt: time.Now().Add(auth.TokenTTL).Unix(),
	})
}

// Upgrade admits only real upgrade requests; anything else gets 426.
func (ctl *Controller) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve runs one subscriber connection until the peer goes away or a write
// fails. The subscription scope comes from the token claims; a firehose
// token may narrow itself to one session via the sessionId query parameter.
func (ctl *Controller) Serve(conn *websocket.Conn) {
	defer conn.Close()

	claims, err := auth.ValidateSessionToken(conn.Query("token"))
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid or missing token"}`))
		return
	}

	session := claims.SessionID
	if requested := conn.Query("session"); requested != "" && requested != session {
		if session != FirehoseSession {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"token does not grant this session"}`))
			return
		}
		session = requested
	}

	sub := ctl.Hub.subscribe(session)
	defer ctl.Hub.unsubscribe(sub)

	log.Session(session).Info("WebSocket subscriber connected")
	defer log.Session(session).Info("WebSocket subscriber disconnected")

	ctl.sendSnapshot(conn, session)

	_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case payload := <-sub.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// sendSnapshot pushes the current session state right after subscribing so
// clients do not have to poll for it.
func (ctl *Controller) sendSnapshot(conn *websocket.Conn, session string) {
	if session == FirehoseSession {
		return
	}
	sess, err := ctl.Manager.Get(session)
	if err != nil {
		return
	}

	payload, err := json.Marshal(event{
		SessionID: session,
		DataType:  "status",
		Data:      sess.Info(),
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = conn.WriteMessage(websocket.TextMessage, payload)
}
