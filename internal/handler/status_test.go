package handler

import (
	"encoding/json"
	"framedetect/internal/logger"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fixedCounter int

func (c fixedCounter) GetClientCount() int { return int(c) }

func TestStatusHandler(t *testing.T) {
	w := httptest.NewRecorder()
	StatusHandler(&fakeProcessor{}, fixedCounter(3)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp statusResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Model != "fake" || resp.Clients != 3 {
		t.Errorf("Unexpected status response: %+v", resp)
	}
}

func TestLogsHandlers(t *testing.T) {
	_, l := newTestEnv(t)
	l.Info("stream started for %s", "test-client")

	w := httptest.NewRecorder()
	ShowLogsHandler(l, logger.InfoFile).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logs/info", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "stream started for test-client") {
		t.Errorf("Expected log line in response, got %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	ClearLogsHandler(l, logger.InfoFile).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logs/info/clear", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405 for GET clear, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	ClearLogsHandler(l, logger.InfoFile).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logs/info/clear", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	ShowLogsHandler(l, "missing.log").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logs/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
