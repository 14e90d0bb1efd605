package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/shobhitraaj/skytarget/internal/audience"
	"github.com/shobhitraaj/skytarget/internal/snapshot"
	"github.com/shobhitraaj/skytarget/internal/tagselector"
	"github.com/shobhitraaj/skytarget/internal/telemetry"
)

// handleEvaluate evaluates a device context against the current snapshot.
// Evaluation is total: a context that fails a condition produces matched
// false, never an error. Disabled messages always report matched false.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestError(w, r, ErrCodeInvalidJSON, "invalid JSON")
		return
	}

	platform := audience.Platform(req.Context.Platform)
	if platform == "" {
		platform = s.platform
	}
	if !platform.Valid() {
		BadRequestError(w, r, ErrCodeValidation, "platform must be android or amazon")
		return
	}

	ctx := audience.Context{
		IsNewUser:          req.Context.IsNewUser,
		NotificationsOptIn: req.Context.NotificationsOptIn,
		LocationOptIn:      req.Context.LocationOptIn,
		Locale:             req.Context.Locale,
		AppVersionCode:     req.Context.AppVersionCode,
		ChannelTags:        tagselector.NewTagSet(req.Context.ChannelTags...),
		DeviceHash:         req.Context.DeviceHash,
		Platform:           platform,
	}

	snap := snapshot.Load()

	var results []MessageResult
	if req.MessageKey != "" {
		view, ok := snap.Messages[req.MessageKey]
		if !ok {
			NotFoundError(w, r, "message not found")
			return
		}
		results = append(results, evaluateView(view, ctx))
	} else {
		for _, view := range snap.Messages {
			results = append(results, evaluateView(view, ctx))
		}
		sort.Slice(results, func(i, j int) bool { return results[i].Key < results[j].Key })
	}
	if results == nil {
		results = []MessageResult{}
	}

	writeJSON(w, http.StatusOK, EvaluationResponse{Results: results})
}

func evaluateView(view snapshot.MessageView, ctx audience.Context) MessageResult {
	matched := view.Enabled && view.Rule.Matches(ctx)
	outcome := "miss"
	if matched {
		outcome = "match"
	}
	telemetry.Evaluations.WithLabelValues(outcome).Inc()
	return MessageResult{Key: view.Key, Matched: matched}
}
