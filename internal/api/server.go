package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shobhitraaj/skytarget/internal/audience"
	"github.com/shobhitraaj/skytarget/internal/auth"
	"github.com/shobhitraaj/skytarget/internal/snapshot"
	"github.com/shobhitraaj/skytarget/internal/store"
	"github.com/shobhitraaj/skytarget/internal/telemetry"
)

type Server struct {
	store    store.Store
	env      string
	platform audience.Platform
	authn    *auth.Authenticator
}

// NewServer creates the API server. platform is the device platform assumed
// when an evaluate request omits one.
func NewServer(st store.Store, env string, platform audience.Platform, authn *auth.Authenticator) *Server {
	return &Server{store: st, env: env, platform: platform, authn: authn}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))
	r.Use(telemetry.Middleware)

	// health
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// public: snapshot (ETag)
	r.Get("/v1/messages/snapshot", s.handleSnapshot)

	// public: evaluate a device context against the snapshot
	r.Post("/v1/audience/evaluate", s.handleEvaluate)

	// admin (protected)
	r.Group(func(r chi.Router) {
		r.Use(s.authAdmin)
		r.Get("/v1/messages", s.handleListMessages)
		r.Get("/v1/messages/{key}", s.handleGetMessage)
		r.Post("/v1/messages", s.handleUpsertMessage)
		r.Delete("/v1/messages/{key}", s.handleDeleteMessage)
	})

	return r
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := snapshot.Load()
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == snap.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", snap.ETag)
	_ = json.NewEncoder(w).Encode(snap)
}

// ---- admin handlers ----

type upsertRequest struct {
	Key         string          `json:"key"`
	Description string          `json:"description"`
	Enabled     bool            `json:"enabled"`
	Audience    json.RawMessage `json:"audience,omitempty"`
	Env         *string         `json:"env,omitempty"` // defaults to s.env
}

type upsertResponse struct {
	OK   bool   `json:"ok"`
	ETag string `json:"etag"`
}

func (s *Server) handleUpsertMessage(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestError(w, r, ErrCodeInvalidJSON, "invalid JSON")
		return
	}

	// default env
	env := s.env
	if req.Env != nil && strings.TrimSpace(*req.Env) != "" {
		env = strings.TrimSpace(*req.Env)
	}

	if strings.TrimSpace(req.Key) == "" {
		BadRequestError(w, r, ErrCodeInvalidKey, "key is required")
		return
	}

	// the audience document must parse before it is stored; an invalid
	// rule is rejected here, never persisted and silently skipped later
	if len(req.Audience) > 0 {
		if _, err := audience.Parse(req.Audience); err != nil {
			telemetry.ParseFailures.Inc()
			ParseErrorResponse(w, r, err)
			return
		}
	}

	params := store.UpsertParams{
		Key:         req.Key,
		Description: req.Description,
		Enabled:     req.Enabled,
		Audience:    req.Audience,
		Env:         env,
	}
	if err := s.store.UpsertMessage(r.Context(), params); err != nil {
		InternalError(w, r, "store upsert failed")
		return
	}

	if err := s.RebuildSnapshot(r.Context()); err != nil {
		InternalError(w, r, "snapshot rebuild failed")
		return
	}

	writeJSON(w, http.StatusOK, upsertResponse{
		OK:   true,
		ETag: snapshot.Load().ETag,
	})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.store.GetAllMessages(r.Context(), s.env)
	if err != nil {
		InternalError(w, r, "store read failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (s *Server) handleGetMessage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	msg, err := s.store.GetMessageByKey(r.Context(), key, s.env)
	if err != nil {
		if errors.Is(err, store.ErrMessageNotFound) {
			NotFoundError(w, r, "message not found")
			return
		}
		InternalError(w, r, "store read failed")
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := s.store.DeleteMessage(r.Context(), key, s.env); err != nil {
		InternalError(w, r, "store delete failed")
		return
	}
	if err := s.RebuildSnapshot(r.Context()); err != nil {
		InternalError(w, r, "snapshot rebuild failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RebuildSnapshot loads messages for the server env and swaps the atomic
// snapshot.
func (s *Server) RebuildSnapshot(ctx context.Context) error {
	messages, err := s.store.GetAllMessages(ctx, s.env)
	if err != nil {
		return err
	}
	snap, err := snapshot.Build(messages)
	if err != nil {
		return err
	}
	snapshot.Update(snap)
	telemetry.SnapshotMessages.Set(float64(len(snap.Messages)))
	return nil
}

// ---- middleware & helpers ----

func (s *Server) authAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authn.Authenticate(r.Header.Get("Authorization")) {
			UnauthorizedError(w, r, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
