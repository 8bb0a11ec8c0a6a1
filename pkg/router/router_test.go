package router

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func decodeEnvelope(t *testing.T, body io.Reader) Response {
	t.Helper()
	var envelope Response
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope
}

func TestResponseSuccessEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return ResponseSuccessWithData(c, "Success fetch data", map[string]string{"key": "value"})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp.Body)
	if !envelope.Status || envelope.Code != 200 || envelope.Message != "Success fetch data" {
		t.Errorf("envelope = %+v", envelope)
	}
	data, ok := envelope.Data.(map[string]interface{})
	if !ok || data["key"] != "value" {
		t.Errorf("data = %#v", envelope.Data)
	}
}

func TestResponseErrorEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return ResponseBadRequest(c, "chatId is required")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp.Body)
	if envelope.Status || envelope.Code != 400 || envelope.Error != "chatId is required" {
		t.Errorf("envelope = %+v", envelope)
	}
}

func TestResponseEmptyMessageFallsBackToStatusText(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return ResponseSuccess(c, "")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if envelope := decodeEnvelope(t, resp.Body); envelope.Message != "OK" {
		t.Errorf("message = %q, want OK", envelope.Message)
	}
}

func TestHttpErrorHandlerWrapsFiberErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: HttpErrorHandler})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	app.Get("/broken", func(c *fiber.Ctx) error {
		return fmt.Errorf("socket write failed")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	envelope := decodeEnvelope(t, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != 404 || envelope.Code != 404 || envelope.Status {
		t.Errorf("fiber error envelope = %+v (status %d)", envelope, resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/broken", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	envelope = decodeEnvelope(t, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != 500 || envelope.Error != "socket write failed" {
		t.Errorf("plain error envelope = %+v (status %d)", envelope, resp.StatusCode)
	}
}

func TestHttpRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(HttpRequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("request_id").(string))
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "inbound-id")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "inbound-id" || resp.Header.Get("X-Request-ID") != "inbound-id" {
		t.Errorf("inbound id not honored: body=%q header=%q", body, resp.Header.Get("X-Request-ID"))
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if len(body) == 0 || resp.Header.Get("X-Request-ID") == "" {
		t.Error("no id generated for a bare request")
	}
}

func TestHttpRealIP(t *testing.T) {
	app := fiber.New()
	app.Use(HttpRealIP())
	app.Get("/", func(c *fiber.Ctx) error {
		ip, _ := c.Locals("remote_ip").(string)
		return c.SendString(ip)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "203.0.113.7" {
		t.Errorf("forwarded ip = %q, want first hop", body)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.9")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "198.51.100.9" {
		t.Errorf("real ip = %q", body)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(RecoveryMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp.Body)
	if envelope.Status || envelope.Error != "boom" {
		t.Errorf("envelope = %+v", envelope)
	}
}

func TestHttpCacheInMemoryCachesGetOnly(t *testing.T) {
	app := fiber.New()
	app.Use(HttpCacheInMemory(5))

	gets, posts := 0, 0
	app.Get("/data", func(c *fiber.Ctx) error {
		gets++
		return c.SendString(fmt.Sprintf("gets=%d", gets))
	})
	app.Post("/data", func(c *fiber.Ctx) error {
		posts++
		return c.SendString(fmt.Sprintf("posts=%d", posts))
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/data", nil))
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if string(body) != "gets=1" {
			t.Errorf("request %d: body = %q, want cached gets=1", i+1, body)
		}
	}
	if gets != 1 {
		t.Errorf("handler ran %d times, want 1", gets)
	}

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/data", nil))
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		resp.Body.Close()
	}
	if posts != 2 {
		t.Errorf("POST handler ran %d times, want 2 (never cached)", posts)
	}
}
