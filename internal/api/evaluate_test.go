package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shobhitraaj/skytarget/internal/audience"
	"github.com/shobhitraaj/skytarget/internal/store"
)

func seedAndRebuild(t *testing.T, srv *Server, st *store.MemoryStore, params []store.UpsertParams) {
	t.Helper()
	ctx := context.Background()
	for _, p := range params {
		if err := st.UpsertMessage(ctx, p); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := srv.RebuildSnapshot(ctx); err != nil {
		t.Fatalf("rebuild snapshot: %v", err)
	}
}

func evaluate(t *testing.T, handler http.Handler, body string) (*httptest.ResponseRecorder, EvaluationResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/audience/evaluate", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var resp EvaluationResponse
	if rr.Code == http.StatusOK {
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return rr, resp
}

func TestEvaluateAllMessages(t *testing.T) {
	srv, st := newTestServer("prod")
	handler := srv.Router()

	seedAndRebuild(t, srv, st, []store.UpsertParams{
		{Key: "welcome", Env: "prod", Enabled: true, Audience: json.RawMessage(`{"new_user": true}`)},
		{Key: "promo", Env: "prod", Enabled: true, Audience: json.RawMessage(`{"tags": {"tag": "vip"}}`)},
		{Key: "retired", Env: "prod", Enabled: false},
	})

	rr, resp := evaluate(t, handler, `{
		"context": {
			"is_new_user": true,
			"channel_tags": ["beta"],
			"platform": "android"
		}
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	want := map[string]bool{"promo": false, "retired": false, "welcome": true}
	if len(resp.Results) != len(want) {
		t.Fatalf("results = %d, want %d", len(resp.Results), len(want))
	}
	for _, res := range resp.Results {
		expected, ok := want[res.Key]
		if !ok {
			t.Errorf("unexpected result key %q", res.Key)
			continue
		}
		if res.Matched != expected {
			t.Errorf("%s: matched = %v, want %v", res.Key, res.Matched, expected)
		}
	}
}

func TestEvaluateSingleMessage(t *testing.T) {
	srv, st := newTestServer("prod")
	handler := srv.Router()

	seedAndRebuild(t, srv, st, []store.UpsertParams{
		{Key: "update-nag", Env: "prod", Enabled: true, Audience: json.RawMessage(
			`{"app_version": {"and": [{"key": "android", "value": {"at_most": 40}}]}}`,
		)},
	})

	rr, resp := evaluate(t, handler, `{
		"messageKey": "update-nag",
		"context": {"app_version_code": 35, "platform": "android"}
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(resp.Results) != 1 || !resp.Results[0].Matched {
		t.Errorf("unexpected results: %+v", resp.Results)
	}

	// the same rule keyed on "android" does not apply to an amazon device
	rr, resp = evaluate(t, handler, `{
		"messageKey": "update-nag",
		"context": {"app_version_code": 35, "platform": "amazon"}
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if resp.Results[0].Matched {
		t.Error("android version rule matched an amazon device")
	}
}

func TestEvaluateUnknownMessage(t *testing.T) {
	srv, st := newTestServer("prod")
	handler := srv.Router()
	seedAndRebuild(t, srv, st, nil)

	rr, _ := evaluate(t, handler, `{"messageKey": "nope", "context": {}}`)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestEvaluateValidation(t *testing.T) {
	srv, st := newTestServer("prod")
	handler := srv.Router()
	seedAndRebuild(t, srv, st, nil)

	rr, _ := evaluate(t, handler, `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON: expected status 400, got %d", rr.Code)
	}

	rr, _ = evaluate(t, handler, `{"context": {"platform": "ios"}}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad platform: expected status 400, got %d", rr.Code)
	}
}

func TestEvaluateDefaultsPlatformToAndroid(t *testing.T) {
	srv, st := newTestServer("prod")
	handler := srv.Router()

	seedAndRebuild(t, srv, st, []store.UpsertParams{
		{Key: "versioned", Env: "prod", Enabled: true, Audience: json.RawMessage(
			`{"app_version": {"and": [{"key": "android", "value": {"at_least": 10}}]}}`,
		)},
	})

	rr, resp := evaluate(t, handler, `{"context": {"app_version_code": 12}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if len(resp.Results) != 1 || !resp.Results[0].Matched {
		t.Errorf("platform default did not apply: %+v", resp.Results)
	}
}

func TestEvaluateUsesConfiguredPlatformDefault(t *testing.T) {
	srv, st := newTestServerForPlatform("prod", audience.PlatformAmazon)
	handler := srv.Router()

	seedAndRebuild(t, srv, st, []store.UpsertParams{
		{Key: "fire-only", Env: "prod", Enabled: true, Audience: json.RawMessage(
			`{"app_version": {"and": [{"key": "amazon", "value": {"at_least": 10}}]}}`,
		)},
	})

	// no platform in the request: the server's configured default applies
	rr, resp := evaluate(t, handler, `{"context": {"app_version_code": 12}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if len(resp.Results) != 1 || !resp.Results[0].Matched {
		t.Errorf("configured platform default did not apply: %+v", resp.Results)
	}

	// an explicit platform still overrides the default
	rr, resp = evaluate(t, handler, `{"context": {"app_version_code": 12, "platform": "android"}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if resp.Results[0].Matched {
		t.Error("explicit platform did not override the configured default")
	}
}
