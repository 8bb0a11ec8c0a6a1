package log

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/kadigal/go-whatsapp-session-gateway/pkg/env"
)

var logger = logrus.New()

func init() {
	logger.Formatter = &logrus.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
		DisableColors:   false,
		ForceColors:     true,
	}

	level, err := logrus.ParseLevel(env.GetEnvStringOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

// Print returns a request-scoped entry. Passing nil is fine for non-HTTP
// call sites (startup, routines, event handlers).
func Print(c *fiber.Ctx) *logrus.Entry {
	if c == nil {
		return logger.WithFields(logrus.Fields{})
	}

	remoteIP := c.IP()
	if v := c.Locals("remote_ip"); v != nil {
		if ip, ok := v.(string); ok && ip != "" {
			remoteIP = ip
		}
	}

	fields := logrus.Fields{
		"remote_ip": remoteIP,
		"method":    c.Method(),
		"uri":       c.OriginalURL(),
	}
	if v := c.Locals("request_id"); v != nil {
		if id, ok := v.(string); ok && id != "" {
			fields["request_id"] = id
		}
	}
	return logger.WithFields(fields)
}

// Session returns an entry scoped to one gateway session.
func Session(sessionID string) *logrus.Entry {
	return logger.WithField("session", sessionID)
}

// Event returns an entry scoped to one session event emission.
func Event(sessionID string, dataType string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"session": sessionID,
		"event":   dataType,
	})
}
