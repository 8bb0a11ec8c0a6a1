package main

// @title Go WhatsApp Session Gateway
// @version 1.0.0
// @description Multi-session WhatsApp REST + WebSocket gateway. Sessions live on the linked-device protocol; chats, contacts, and messages are mirrored into a per-session local store so reads never touch the phone.

// @contact.name kadigal
// @contact.url https://github.com/kadigal/go-whatsapp-session-gateway

// @license.name MIT
// @license.url https://github.com/kadigal/go-whatsapp-session-gateway/blob/main/LICENSE

// @host localhost:7001
// @BasePath /

// @securityDefinitions.apikey APIKeyAuth
// @in header
// @name X-Api-Key
// @description API key guarding every REST endpoint

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cron "github.com/robfig/cron/v3"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"

	_ "github.com/kadigal/go-whatsapp-session-gateway/docs"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/env"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/log"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/router"
	pkgWhatsApp "github.com/kadigal/go-whatsapp-session-gateway/pkg/whatsapp"

	"github.com/kadigal/go-whatsapp-session-gateway/internal"
	"github.com/kadigal/go-whatsapp-session-gateway/internal/webhook"
	"github.com/kadigal/go-whatsapp-session-gateway/internal/ws"
)

type Server struct {
	Address string
	Port    string
}

func main() {
	var err error

	// Intialize Cron
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DiscardLogger),
	), cron.WithSeconds())

	// Initialize Fiber
	app := fiber.New(fiber.Config{
		ErrorHandler:   router.HttpErrorHandler,
		BodyLimit:      router.BodyLimitBytes(),
		ReadBufferSize: 8192, // Increase from default 4096 to handle larger headers
	})

	// Request ID + panic recovery (structured JSON)
	app.Use(router.HttpRequestID())
	app.Use(router.RecoveryMiddleware())

	// Router Compression
	app.Use(compress.New(compress.Config{
		Level: compress.Level(router.GZipLevel),
		Next: func(c *fiber.Ctx) bool {
			return strings.Contains(c.Path(), "docs")
		},
	}))

	// Router CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins: router.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, X-Api-Key",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
	}))

	// Router Security
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
	}))

	// Router Cache
	app.Use(router.HttpCacheInMemory(router.CacheTTLSeconds))

	// Router RealIP + request context enrichment
	app.Use(router.HttpRealIP())

	// Router Default Handler
	app.Get("/favicon.ico", router.ResponseNoContent)

	// Initialize Session Manager and Notification Sinks
	manager := pkgWhatsApp.NewManager()
	webhookEngine := webhook.NewEngine(manager.WebhookURLFor)
	hub := ws.NewHub()
	manager.AddNotifier(webhookEngine)
	manager.AddNotifier(hub)

	// Load Internal Routes
	internal.Routes(app, manager, hub)

	// Running Startup Tasks
	internal.Startup(manager)

	// Running Routines Tasks
	internal.Routines(c, manager)

	// Get Server Configuration with defaults
	var serverConfig Server

	// SERVER_ADDRESS: default "0.0.0.0" (all interfaces)
	serverConfig.Address = env.GetEnvStringOrDefault("SERVER_ADDRESS", "0.0.0.0")

	// SERVER_PORT: default "7001"
	serverConfig.Port = env.GetEnvStringOrDefault("SERVER_PORT", "7001")

	// Start Server
	go func() {
		if err := app.Listen(serverConfig.Address + ":" + serverConfig.Port); err != nil {
			log.Print(nil).Fatal(err.Error())
		}
	}()

	// Watch for Shutdown Signal
	sigShutdown := make(chan os.Signal, 1)
	signal.Notify(sigShutdown, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-sigShutdown

	// Stop Cron First So Sweeps Cannot Race the Teardown
	c.Stop()

	// Try To Shutdown Server
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	err = app.ShutdownWithContext(ctxShutdown)
	if err != nil {
		log.Print(nil).Error(err.Error())
	}

	// Stop Sessions, Then Drain the Webhook Queue So Their Final Events
	// Still Get Delivered
	ctxStop, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStop()
	manager.StopAll(ctxStop)
	webhookEngine.Shutdown(10 * time.Second)
}
