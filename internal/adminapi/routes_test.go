package adminapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/i1is/trustplane/internal/dnsserver"
	"github.com/i1is/trustplane/internal/zonebuild"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testHandler(t *testing.T) *Handler {
	t.Helper()
	authority := dnsserver.NewAuthority()
	authority.Store(&zonebuild.Catalog{
		Zones:      map[string]*zonebuild.Zone{"bin.i1.is.": {Origin: "bin.i1.is."}},
		EntryCount: 3,
		BuiltAt:    time.Unix(1_700_000_000, 0),
	})
	hub := NewHub()
	go hub.Run()
	return NewHandler(authority, hub, "verify.i1.is", zonebuild.NewPublishedStore())
}

func TestHandleStatusReportsLoadedCatalog(t *testing.T) {
	h := testHandler(t)
	r := SetupRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["entryCount"].(float64) != 3 {
		t.Fatalf("entryCount = %v, want 3", body["entryCount"])
	}
}

func TestHandleStatusBeforeFirstLoad(t *testing.T) {
	authority := dnsserver.NewAuthority()
	hub := NewHub()
	go hub.Run()
	h := NewHandler(authority, hub, "verify.i1.is", zonebuild.NewPublishedStore())
	r := SetupRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestHandlePublishBinaryRequiresHash(t *testing.T) {
	h := testHandler(t)
	r := SetupRouter(h)

	body, _ := json.Marshal(map[string]interface{}{"name": "missing-hash"})
	req := httptest.NewRequest(http.MethodPost, "/publish/binary", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body=%s", w.Code, w.Body.String())
	}
}

func TestHandlePublishBinaryAcceptsAndAccumulatesConsensus(t *testing.T) {
	h := testHandler(t)
	r := SetupRouter(h)

	rec := map[string]interface{}{"hash": "deadbeef", "name": "/usr/bin/foo", "size": 1024, "trust": 0.5}
	body, _ := json.Marshal(rec)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/publish/binary", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusAccepted {
			t.Fatalf("publish %d: status = %d, want 202, body=%s", i, w.Code, w.Body.String())
		}
	}

	published := h.published.Binaries()
	if len(published) != 1 || published[0].Nodes != 2 {
		t.Fatalf("expected one binary record with Nodes=2 after two publishes, got %+v", published)
	}
}

func TestHandlePublishCertRequiresFingerprint(t *testing.T) {
	h := testHandler(t)
	r := SetupRouter(h)

	body, _ := json.Marshal(map[string]interface{}{"issuer": "no-fp"})
	req := httptest.NewRequest(http.MethodPost, "/publish/cert", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body=%s", w.Code, w.Body.String())
	}
}

func TestHandleVerifyRequiresDigest(t *testing.T) {
	h := testHandler(t)
	r := SetupRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/verify/abcd1234", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleVerifyRendersTokenAndQR(t *testing.T) {
	h := testHandler(t)
	r := SetupRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/verify/abcd1234?digest=feedface", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["verificationUrl"] == "" {
		t.Fatalf("expected a non-empty verificationUrl, got %+v", body)
	}
	if body["qrAnsi"] == "" {
		t.Fatalf("expected non-empty ANSI QR rendering")
	}
}
