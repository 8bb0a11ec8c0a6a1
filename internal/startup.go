package internal

import (
	"context"

	"github.com/kadigal/go-whatsapp-session-gateway/pkg/log"
	pkgWhatsApp "github.com/kadigal/go-whatsapp-session-gateway/pkg/whatsapp"
)

// Startup restores every session persisted under the sessions root. The
// manager bounds restore concurrency and logs per-session failures; one
// failed restore never aborts the rest.
func Startup(manager *pkgWhatsApp.Manager) {
	log.Print(nil).Info("Running Startup Tasks")

	manager.AutoStart(context.Background())

	for _, info := range manager.Sessions() {
		log.Session(info.ID).Info("Session restored with status " + info.Status)
	}
}
