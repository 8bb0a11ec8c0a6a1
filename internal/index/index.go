package index

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kadigal/go-whatsapp-session-gateway/internal/controller"
	typGateway "github.com/kadigal/go-whatsapp-session-gateway/internal/types"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/router"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/whatsapp"
)

var startTime = time.Now()

type Controller struct {
	controller.Base
}

func New(manager *whatsapp.Manager) *Controller {
	return &Controller{controller.Base{Manager: manager}}
}

// Index
// @Summary     Show The Status of The Server
// @Description Get The Server Status
// @Tags        Root
// @Produce     json
// @Success     200
// @Router      / [get]
func Index(c *fiber.Ctx) error {
	return router.ResponseSuccess(c, "Go WhatsApp Session Gateway is running")
}

// Ping
// @Summary     Liveness Probe
// @Description Respond with pong while the server is up
// @Tags        Root
// @Produce     json
// @Success     200
// @Router      /ping [get]
func Ping(c *fiber.Ctx) error {
	return router.ResponseSuccess(c, "pong")
}

// Health
// @Summary     Readiness Probe
// @Description Report uptime and the number of live sessions
// @Tags        Root
// @Produce     json
// @Success     200
// @Router      /health [get]
func (ctl *Controller) Health(c *fiber.Ctx) error {
	return router.ResponseSuccessWithData(c, "Success get health", typGateway.ResponseHealth{
		Status:   "ok",
		Uptime:   int64(time.Since(startTime).Seconds()),
		Sessions: len(ctl.Manager.Sessions()),
	})
}
