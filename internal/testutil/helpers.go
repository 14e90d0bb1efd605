package testutil

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shobhitraaj/skytarget/internal/api"
	"github.com/shobhitraaj/skytarget/internal/audience"
	"github.com/shobhitraaj/skytarget/internal/auth"
	"github.com/shobhitraaj/skytarget/internal/store"
)

// NewTestServer creates a test server with in-memory store for testing.
func NewTestServer(t *testing.T, env, adminKey string) (*api.Server, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore()
	authn := auth.NewAuthenticator(adminKey, nil)
	server := api.NewServer(memStore, env, audience.PlatformAndroid, authn)
	return server, memStore
}

// HTTPRequest is a helper for making test HTTP requests.
type HTTPRequest struct {
	Method  string
	Path    string
	Body    string
	Headers map[string]string
}

// Do executes the HTTP request and returns the response recorder.
func (r *HTTPRequest) Do(t *testing.T, handler http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.Body != "" {
		body = bytes.NewBufferString(r.Body)
	}
	req := httptest.NewRequest(r.Method, r.Path, body)
	if r.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// SeedMessages populates the store with test messages.
func SeedMessages(ctx context.Context, st store.Store, messages []store.UpsertParams) error {
	for _, m := range messages {
		if err := st.UpsertMessage(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
