package snapshot

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shobhitraaj/skytarget/internal/audience"
	"github.com/shobhitraaj/skytarget/internal/store"
)

func testMessages() []store.Message {
	return []store.Message{
		{
			ID:       "11111111-1111-1111-1111-111111111111",
			Key:      "welcome",
			Enabled:  true,
			Audience: json.RawMessage(`{"new_user": true}`),
			Env:      "prod",
		},
		{
			ID:      "22222222-2222-2222-2222-222222222222",
			Key:     "promo",
			Enabled: false,
			Env:     "prod",
		},
	}
}

func TestBuildParsesAudiences(t *testing.T) {
	snap, err := Build(testMessages())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(snap.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(snap.Messages))
	}
	view, ok := snap.Messages["welcome"]
	if !ok {
		t.Fatal("welcome missing from snapshot")
	}
	if view.Rule == nil {
		t.Fatal("welcome rule not parsed")
	}

	newUser := audience.Context{IsNewUser: true, Platform: audience.PlatformAndroid}
	if !view.Rule.Matches(newUser) {
		t.Error("welcome rule did not match a new user")
	}
	returning := audience.Context{IsNewUser: false, Platform: audience.PlatformAndroid}
	if view.Rule.Matches(returning) {
		t.Error("welcome rule matched a returning user")
	}

	// a message without an audience document matches everyone
	promo := snap.Messages["promo"]
	if promo.Rule == nil || !promo.Rule.Matches(returning) {
		t.Error("empty audience should match any context")
	}
}

func TestBuildRejectsInvalidAudience(t *testing.T) {
	messages := []store.Message{
		{Key: "broken", Audience: json.RawMessage(`{"bogus_field": 1}`), Env: "prod"},
	}
	if _, err := Build(messages); err == nil {
		t.Fatal("Build accepted an invalid audience document")
	}
}

func TestETagChangesWithContent(t *testing.T) {
	snap1, err := Build(testMessages())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if snap1.ETag == "" {
		t.Fatal("empty ETag")
	}

	snap2, err := Build(testMessages())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if snap1.ETag != snap2.ETag {
		t.Error("same content produced different ETags")
	}

	changed := testMessages()
	changed[1].Enabled = true
	snap3, err := Build(changed)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if snap3.ETag == snap1.ETag {
		t.Error("different content produced the same ETag")
	}
}

func TestLoadAndUpdate(t *testing.T) {
	// Load before any Update returns an empty, usable snapshot
	initial := Load()
	if initial == nil || initial.Messages == nil {
		t.Fatal("Load returned unusable snapshot")
	}

	snap, err := Build(testMessages())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	Update(snap)

	got := Load()
	if got.ETag != snap.ETag {
		t.Errorf("Load ETag = %s, want %s", got.ETag, snap.ETag)
	}
	if got.UpdatedAt.After(time.Now()) {
		t.Error("UpdatedAt is in the future")
	}
}
