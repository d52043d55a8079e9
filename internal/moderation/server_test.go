package moderation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/yourusername/wordguard/internal/config"
	"github.com/yourusername/wordguard/internal/detect"
	"github.com/yourusername/wordguard/internal/logger"
	"github.com/yourusername/wordguard/internal/packs"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	table := packs.NewMemory(map[string][]string{"en": {"shit", "bastard"}})
	detector, err := detect.NewDefault(table)
	if err != nil {
		t.Fatalf("failed to build detector: %v", err)
	}

	cfg := config.GetDefaults()
	cfg.Server.Port = 0
	cfg.WebSocket.Enabled = false
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RequestsPerMin = 120

	log := &logger.Logger{Logger: zap.NewNop()}

	return New(cfg, log, Deps{Detector: detector})
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandleDetect(t *testing.T) {
	s := newTestServer(t)

	t.Run("FlagsProfaneText", func(t *testing.T) {
		body, _ := json.Marshal(detectRequest{Text: "you absolute shit"})
		req := httptest.NewRequest(http.MethodPost, "/v1/detect", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		s.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp detectResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !resp.HasProfanity {
			t.Error("expected has_profanity=true")
		}
		if len(resp.Matches) == 0 {
			t.Error("expected at least one match")
		}
	})

	t.Run("CleanTextIsNotFlagged", func(t *testing.T) {
		body, _ := json.Marshal(detectRequest{Text: "have a nice day"})
		req := httptest.NewRequest(http.MethodPost, "/v1/detect", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		s.router.ServeHTTP(rec, req)

		var resp detectResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.HasProfanity {
			t.Error("expected has_profanity=false for clean text")
		}
	})

	t.Run("RejectsMalformedJSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/detect", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()

		s.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHandleSanitize(t *testing.T) {
	s := newTestServer(t)

	body, _ := json.Marshal(detectRequest{Text: "you absolute shit"})
	req := httptest.NewRequest(http.MethodPost, "/v1/sanitize", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	var resp sanitizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Text == "you absolute shit" {
		t.Error("expected profane word to be masked")
	}
}

func TestHandleLanguages(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/languages", nil)
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	var resp languagesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Active) == 0 {
		t.Error("expected at least one active language")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	table := packs.NewMemory(map[string][]string{"en": {"shit"}})
	detector, err := detect.NewDefault(table)
	if err != nil {
		t.Fatalf("failed to build detector: %v", err)
	}
	cfg := config.GetDefaults()
	cfg.WebSocket.Enabled = false
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RequestsPerMin = 1
	log := &logger.Logger{Logger: zap.NewNop()}
	s := New(cfg, log, Deps{Detector: detector})

	body, _ := json.Marshal(detectRequest{Text: "hello"})

	req1 := httptest.NewRequest(http.MethodPost, "/v1/detect", bytes.NewReader(body))
	req1.RemoteAddr = "10.0.0.1:1234"
	rec1 := httptest.NewRecorder()
	s.router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("first request should succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/v1/detect", bytes.NewReader(body))
	req2.RemoteAddr = "10.0.0.1:1234"
	rec2 := httptest.NewRecorder()
	s.router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 on second request from same client, got %d", rec2.Code)
	}
}
