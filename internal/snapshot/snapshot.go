// Package snapshot holds the immutable, atomically-swapped view of all
// targeted messages the server evaluates against. Audience rules are parsed
// exactly once per snapshot build; evaluation then reuses the immutable
// trees from any number of goroutines without synchronization.
package snapshot

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/shobhitraaj/skytarget/internal/audience"
	"github.com/shobhitraaj/skytarget/internal/store"
)

// MessageView is the evaluation-ready projection of a stored message.
// Rule is the parsed audience; AudienceDoc is the wire form it came from.
type MessageView struct {
	ID          string             `json:"id"`
	Key         string             `json:"key"`
	Description string             `json:"description"`
	Enabled     bool               `json:"enabled"`
	AudienceDoc json.RawMessage    `json:"audience,omitempty"`
	Env         string             `json:"env"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	Rule        *audience.Audience `json:"-"`
}

// Snapshot is one immutable view of the message set.
type Snapshot struct {
	ETag      string                 `json:"etag"`
	Messages  map[string]MessageView `json:"messages"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

var current atomic.Pointer[Snapshot]

// Load returns the current snapshot. Before the first Update it returns an
// empty snapshot rather than nil.
func Load() *Snapshot {
	if s := current.Load(); s != nil {
		return s
	}
	return &Snapshot{Messages: map[string]MessageView{}, UpdatedAt: time.Now().UTC()}
}

// Update swaps in a new snapshot.
func Update(s *Snapshot) {
	current.Store(s)
}

// Build parses every stored message's audience rule and assembles a
// snapshot. A message whose audience does not parse fails the whole build;
// an invalid rule is surfaced, never silently treated as match-everything
// or match-nothing.
func Build(messages []store.Message) (*Snapshot, error) {
	views := make(map[string]MessageView, len(messages))
	for _, msg := range messages {
		rule := &audience.Audience{}
		if len(msg.Audience) > 0 {
			parsed, err := audience.Parse(msg.Audience)
			if err != nil {
				return nil, fmt.Errorf("message %q: %w", msg.Key, err)
			}
			rule = parsed
		}
		views[msg.Key] = MessageView{
			ID:          msg.ID,
			Key:         msg.Key,
			Description: msg.Description,
			Enabled:     msg.Enabled,
			AudienceDoc: msg.Audience,
			Env:         msg.Env,
			UpdatedAt:   msg.UpdatedAt,
			Rule:        rule,
		}
	}

	blob, err := json.Marshal(views)
	if err != nil {
		return nil, err
	}
	etag := fmt.Sprintf(`W/"%016x"`, xxhash.Sum64(blob))

	return &Snapshot{ETag: etag, Messages: views, UpdatedAt: time.Now().UTC()}, nil
}
