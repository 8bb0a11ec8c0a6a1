package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kadigal/go-whatsapp-session-gateway/pkg/env"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/log"
)

// Engine fans session events out to HTTP endpoints. It implements the
// whatsapp.Notifier interface; when the queue is full events are dropped
// rather than blocking the emitting session.
type Engine struct {
	resolve       URLResolver
	defaultURL    string
	secret        string
	allowedEvents map[string]struct{}
	allowInsecure bool
	enabled       bool

	httpClient *http.Client
	queue      chan *deliveryTask
	workers    int
	retryLimit int
	retryDelay time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

type deliveryTask struct {
	url   string
	event Event
}

func NewEngine(resolve URLResolver) *Engine {
	workers := env.GetEnvIntOrDefault("WEBHOOK_WORKERS", 4)
	if workers <= 0 {
		workers = 4
	}
	retryLimit := env.GetEnvIntOrDefault("WEBHOOK_RETRY_LIMIT", 3)
	if retryLimit <= 0 {
		retryLimit = 3
	}
	queueSize := env.GetEnvIntOrDefault("WEBHOOK_QUEUE_SIZE", 1000)
	if queueSize <= 0 {
		queueSize = 1000
	}

	allowed := make(map[string]struct{})
	for _, name := range env.GetEnvStringSliceOrDefault("WEBHOOK_ALLOWED_EVENTS", nil) {
		name = strings.TrimSpace(name)
		if name != "" {
			allowed[name] = struct{}{}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	engine := &Engine{
		resolve:       resolve,
		defaultURL:    env.GetEnvStringOrDefault("WEBHOOK_URL", ""),
		secret:        env.GetEnvStringOrDefault("WEBHOOK_SECRET", ""),
		allowedEvents: allowed,
		allowInsecure: env.GetEnvBoolOrDefault("WEBHOOK_ALLOW_INSECURE", false),
		enabled:       env.GetEnvBoolOrDefault("WEBHOOKS_ENABLED", true),
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		queue:         make(chan *deliveryTask, queueSize),
		workers:       workers,
		retryLimit:    retryLimit,
		retryDelay:    env.GetEnvDurationOrDefault("WEBHOOK_RETRY_DELAY", 2*time.Second),
		ctx:           ctx,
		cancel:        cancel,
	}

	if engine.enabled {
		for i := 0; i < workers; i++ {
			engine.wg.Add(1)
			go engine.worker()
		}
	}

	return engine
}

// Notify queues one event for delivery. The target URL is resolved here so
// events emitted during teardown still reach the endpoint the session had.
func (e *Engine) Notify(sessionID string, dataType string, data interface{}) {
	if !e.enabled {
		return
	}
	if len(e.allowedEvents) > 0 {
		if _, ok := e.allowedEvents[dataType]; !ok {
			return
		}
	}

	targetURL := ""
	if e.resolve != nil {
		targetURL = e.resolve(sessionID)
	}
	if targetURL == "" {
		targetURL = e.defaultURL
	}
	if targetURL == "" {
		return
	}

	task := &deliveryTask{
		url: targetURL,
		event: Event{
			SessionID: sessionID,
			DataType:  dataType,
			Data:      data,
			Timestamp: time.Now().UnixMilli(),
		},
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	select {
	case e.queue <- task:
	default:
		log.Event(sessionID, dataType).Warn("Webhook queue full, event dropped")
	}
}

// Shutdown drains queued deliveries, abandoning whatever is left once the
// timeout passes. Safe to call more than once.
func (e *Engine) Shutdown(timeout time.Duration) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()
	close(e.queue)

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
	e.cancel()
	<-done
}

func (e *Engine) worker() {
	defer e.wg.Done()
	for {
		select {
		case <-e.ctx.Done():
			return
		case task, ok := <-e.queue:
			if !ok {
				return
			}
			e.deliver(task)
		}
	}
}

func (e *Engine) deliver(task *deliveryTask) {
	if err := e.validateURL(task.url); err != nil {
		log.Event(task.event.SessionID, task.event.DataType).Error("Webhook URL rejected: " + err.Error())
		return
	}

	payload, err := json.Marshal(task.event)
	if err != nil {
		log.Event(task.event.SessionID, task.event.DataType).Error("Failed marshal webhook payload: " + err.Error())
		return
	}

	var lastErr error
	for attempt := 1; attempt <= e.retryLimit; attempt++ {
		req, err := http.NewRequestWithContext(e.ctx, "POST", task.url, bytes.NewReader(payload))
		if err != nil {
			lastErr = err
			continue
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Webhook-Event", task.event.DataType)
		req.Header.Set("User-Agent", "WhatsApp-Session-Gateway/1.0")
		if e.secret != "" {
			signature := e.sign(payload)
			req.Header.Set("X-Webhook-Signature", signature)
			req.Header.Set("X-Hub-Signature-256", signature)
		}

		resp, err := e.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < e.retryLimit && !e.sleepBetween(attempt) {
				return
			}
			continue
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			log.Event(task.event.SessionID, task.event.DataType).WithField("attempt", attempt).Debug("Webhook delivered")
			return
		}

		lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		if attempt < e.retryLimit && !e.sleepBetween(attempt) {
			return
		}
	}

	if lastErr != nil {
		log.Event(task.event.SessionID, task.event.DataType).Error("Webhook delivery failed: " + lastErr.Error())
	}
}

// sleepBetween waits out the linear backoff before the next attempt; false
// means the engine is shutting down.
func (e *Engine) sleepBetween(attempt int) bool {
	select {
	case <-e.ctx.Done():
		return false
	case <-time.After(time.Duration(attempt) * e.retryDelay):
		return true
	}
}

func (e *Engine) sign(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(e.secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// validateURL rejects private and non-HTTPS endpoints.
// WEBHOOK_ALLOW_INSECURE lifts the restriction for local development.
func (e *Engine) validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}

	if e.allowInsecure {
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("unsupported scheme %q", u.Scheme)
		}
		return nil
	}

	if u.Scheme != "https" {
		return fmt.Errorf("only HTTPS URLs are allowed")
	}

	host := strings.ToLower(u.Hostname())
	if host == "localhost" || host == "127.0.0.1" || host == "0.0.0.0" || strings.HasPrefix(host, "192.168.") || strings.HasPrefix(host, "10.") || strings.HasPrefix(host, "172.") {
		return fmt.Errorf("private/local network URLs are not allowed")
	}

	return nil
}
