package whatsapp

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store"
	"golang.org/x/sync/singleflight"
	"google.golang.org/protobuf/proto"

	"github.com/kadigal/go-whatsapp-session-gateway/pkg/env"
)

// VersionStatus reports the WhatsApp Web version the clients advertise and
// when it was last refreshed from upstream.
type VersionStatus struct {
	CurrentVersion store.WAVersionContainer `json:"currentVersion"`
	LastRefreshed  *time.Time               `json:"lastRefreshed,omitempty"`
	LastError      string                   `json:"lastError,omitempty"`
}

var (
	versionRefreshGroup singleflight.Group

	versionMu            sync.RWMutex
	versionLastRefreshed *time.Time
	versionLastError     string
)

// applyClientVersion applies the pinned version override from the
// environment, when set. Without an override the library default (or the
// last refreshed value) stays in place.
func applyClientVersion() {
	if major, err := env.GetEnvInt("WHATSAPP_VERSION_MAJOR"); err == nil {
		store.DeviceProps.Version.Primary = proto.Uint32(uint32(major))
	}
	if minor, err := env.GetEnvInt("WHATSAPP_VERSION_MINOR"); err == nil {
		store.DeviceProps.Version.Secondary = proto.Uint32(uint32(minor))
	}
	if patch, err := env.GetEnvInt("WHATSAPP_VERSION_PATCH"); err == nil {
		store.DeviceProps.Version.Tertiary = proto.Uint32(uint32(patch))
	}
}

// ClientVersionStatus snapshots the advertised version state.
func ClientVersionStatus() VersionStatus {
	versionMu.RLock()
	defer versionMu.RUnlock()

	var last *time.Time
	if versionLastRefreshed != nil {
		t := *versionLastRefreshed
		last = &t
	}
	return VersionStatus{
		CurrentVersion: store.GetWAVersion(),
		LastRefreshed:  last,
		LastError:      versionLastError,
	}
}

// RefreshClientVersion fetches the latest WhatsApp Web version and applies
// it globally. Unforced calls are throttled by
// WHATSAPP_VERSION_REFRESH_MIN_INTERVAL (default 10m); concurrent calls
// collapse into one fetch.
func RefreshClientVersion(ctx context.Context, force bool) (VersionStatus, bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	minInterval := env.GetEnvDurationOrDefault("WHATSAPP_VERSION_REFRESH_MIN_INTERVAL", 10*time.Minute)
	if !force && minInterval > 0 {
		versionMu.RLock()
		last := versionLastRefreshed
		versionMu.RUnlock()
		if last != nil && time.Since(*last) < minInterval {
			return ClientVersionStatus(), false, nil
		}
	}

	_, err, _ := versionRefreshGroup.Do("refresh", func() (interface{}, error) {
		httpClient := &http.Client{Timeout: 15 * time.Second}
		latest, err := whatsmeow.GetLatestVersion(ctx, httpClient)
		if err == nil && latest == nil {
			err = errors.New("latest WhatsApp Web version is nil")
		}

		versionMu.Lock()
		now := time.Now()
		versionLastRefreshed = &now
		if err != nil {
			versionLastError = err.Error()
			versionMu.Unlock()
			return nil, err
		}
		versionLastError = ""
		versionMu.Unlock()

		store.SetWAVersion(*latest)
		return store.GetWAVersion(), nil
	})
	if err != nil {
		return ClientVersionStatus(), true, err
	}
	return ClientVersionStatus(), true, nil
}
