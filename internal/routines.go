package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kadigal/go-whatsapp-session-gateway/pkg/env"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/log"
	pkgWhatsApp "github.com/kadigal/go-whatsapp-session-gateway/pkg/whatsapp"
)

// Routines registers the recurring maintenance jobs: a health sweep that
// re-enters the reconnect path for dead sockets, a store flush backstop,
// and an optional WhatsApp Web version refresh.
func Routines(c *cron.Cron, manager *pkgWhatsApp.Manager) {
	log.Print(nil).Info("Running Routine Tasks")

	if env.GetEnvBoolOrDefault("WHATSAPP_ENABLE_HEALTH_CHECK_CRON", true) {
		if _, err := c.AddFunc("0 */5 * * * *", manager.CheckHealth); err != nil {
			log.Print(nil).Error("Failed to add health check cron job: " + err.Error())
		}
	} else {
		log.Print(nil).Info("Health check cron disabled; relying on socket close events")
	}

	if _, err := c.AddFunc("30 */5 * * * *", manager.FlushDirty); err != nil {
		log.Print(nil).Error("Failed to add store flush cron job: " + err.Error())
	}

	if env.GetEnvBoolOrDefault("WHATSAPP_ENABLE_VERSION_REFRESH_CRON", false) {
		spec := env.GetEnvStringOrDefault("WHATSAPP_VERSION_REFRESH_CRON", "0 0 3 * * *")
		force := env.GetEnvBoolOrDefault("WHATSAPP_VERSION_REFRESH_CRON_FORCE", false)
		_, err := c.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			status, refreshed, err := pkgWhatsApp.RefreshClientVersion(ctx, force)
			v := status.CurrentVersion
			versionStr := fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2])
			if err != nil {
				log.Print(nil).WithField("version", versionStr).Error("WhatsApp Web version refresh failed: " + err.Error())
				return
			}
			log.Print(nil).WithField("version", versionStr).WithField("refreshed", refreshed).Info("WhatsApp Web version refresh completed")
		})
		if err != nil {
			log.Print(nil).Error("Failed to add version refresh cron job: " + err.Error())
		} else {
			log.Print(nil).WithField("spec", spec).Info("WhatsApp Web version refresh cron enabled")
		}
	}

	c.Start()
}
