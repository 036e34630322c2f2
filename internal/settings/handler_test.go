package settings

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(store *Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(store).RegisterRoutes(r)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSettingsPartialUpdateThenGet(t *testing.T) {
	store := NewStore(Default())
	r := newTestRouter(store)

	resp := doJSON(r, http.MethodPut, "/settings", `{"psm": 3}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(r, http.MethodGet, "/settings", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var got Settings
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != (Settings{PSM: 3, OEM: 3, Lang: "eng"}) {
		t.Fatalf("unexpected settings %+v", got)
	}
}

func TestSettingsRejectsMalformedBody(t *testing.T) {
	store := NewStore(Default())
	r := newTestRouter(store)

	for _, body := range []string{`{"psm":`, `not json`, `{"psm": "three"}`, `{"lang": 5}`, ``} {
		resp := doJSON(r, http.MethodPut, "/settings", body)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, resp.Code)
		}
		var payload map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if _, ok := payload["error"].(string); !ok {
			t.Fatalf("expected string error field, got %v", payload)
		}
	}
	if store.Get() != Default() {
		t.Fatalf("settings changed by rejected requests: %+v", store.Get())
	}
}
