package profile_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/felixgeelhaar/printhooks/pkg/domain/profile"
)

func TestMigrate_FromFlatVersion1(t *testing.T) {
	doc := map[string]any{
		"settings_version": 1,
		"url":              "https://hooks.example.com",
		"apiSecret":        "abc",
		"http_method":      "GET",
		"unrelated":        "ignored",
	}

	s, err := profile.Migrate(doc)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if s.Version != profile.SettingsVersion {
		t.Errorf("version = %d", s.Version)
	}
	if len(s.Hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(s.Hooks))
	}
	h := s.Hooks[0]
	if h.URL != "https://hooks.example.com" || h.APISecret != "abc" || h.HTTPMethod != "GET" {
		t.Errorf("legacy values not carried over: %+v", h)
	}
	if h.CustomEvents == nil || h.EventCooldown != 0 || !h.VerifySSL {
		t.Error("later migrations not applied")
	}
}

func TestMigrate_AddsVerifySSLFromVersion4(t *testing.T) {
	doc := map[string]any{
		"settings_version": 4,
		"hooks": []any{
			map[string]any{"url": "a", "verify_ssl": false},
		},
	}
	s, err := profile.Migrate(doc)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !s.Hooks[0].VerifySSL {
		t.Error("v4 -> v5 sets verify_ssl to true")
	}
}

func TestMigrate_CurrentVersionUntouched(t *testing.T) {
	doc := map[string]any{
		"settings_version": float64(5),
		"hooks": []any{
			map[string]any{"url": "a", "verify_ssl": false, "event_cooldown": 12},
		},
	}
	s, err := profile.Migrate(doc)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if s.Hooks[0].VerifySSL || s.Hooks[0].EventCooldown != 12 {
		t.Errorf("current document should not be rewritten: %+v", s.Hooks[0])
	}
}

func TestMigrate_UnsupportedVersion(t *testing.T) {
	_, err := profile.Migrate(map[string]any{"settings_version": 9})
	if !errors.Is(err, profile.ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestSettings_RoundTripThroughCollection(t *testing.T) {
	c := profile.NewCollection()
	p := c.Add()
	p.URL = "https://hooks.example.com"
	p.CustomEvents = append(p.CustomEvents, profile.CustomEvent{Name: "door", Message: "open"})

	data, err := json.Marshal(profile.SettingsFrom(c))
	if err != nil {
		t.Fatal(err)
	}
	var s profile.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatal(err)
	}
	back := s.Collection()
	if back.Len() != 1 || back.Selected() != 0 {
		t.Fatalf("unexpected collection: len=%d sel=%d", back.Len(), back.Selected())
	}
	got := back.Current()
	if got == p {
		t.Error("decoded collection must not share profiles")
	}
	if got.URL != p.URL || len(got.CustomEvents) != 1 {
		t.Errorf("profile not preserved: %+v", got)
	}
}

func TestProfile_UnmarshalFillsDefaults(t *testing.T) {
	var p profile.Profile
	if err := json.Unmarshal([]byte(`{"url":"x","event_print_progress_interval":20}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.URL != "x" || p.PrintProgressInterval != "20" {
		t.Errorf("decoded values wrong: %+v", p)
	}
	if p.HTTPMethod != "POST" || p.TestEvent != profile.EventNamePrintStarted || p.CustomEvents == nil {
		t.Error("missing fields should take default values")
	}
}
