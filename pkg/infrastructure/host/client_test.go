package host

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/felixgeelhaar/printhooks/pkg/domain/profile"
)

func TestClient_SaveSettings(t *testing.T) {
	var got map[string]json.RawMessage
	var apiKey, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("X-Api-Key")
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := profile.NewCollection()
	c.Add().URL = "https://hooks.example.com"

	client := NewClient(server.URL+"/", "key-1", "webhooks", time.Second)
	if err := client.SaveSettings(context.Background(), profile.SettingsFrom(c)); err != nil {
		t.Fatalf("save: %v", err)
	}

	if apiKey != "key-1" || path != "/api/plugin/webhooks" {
		t.Errorf("apiKey=%q path=%q", apiKey, path)
	}
	var cmd string
	_ = json.Unmarshal(got["command"], &cmd)
	if cmd != CommandSaveHooks {
		t.Errorf("command = %q", cmd)
	}
	var settings profile.Settings
	if err := json.Unmarshal(got["settings"], &settings); err != nil {
		t.Fatal(err)
	}
	if len(settings.Hooks) != 1 || settings.Hooks[0].URL != "https://hooks.example.com" {
		t.Errorf("settings = %+v", settings)
	}
}

func TestClient_TestFire(t *testing.T) {
	var got testHookRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "webhooks", time.Second)
	if err := client.TestFire(context.Background(), "PrintDone", 2); err != nil {
		t.Fatalf("test fire: %v", err)
	}
	if got.Command != CommandTestHook || got.Event != "PrintDone" || got.HookIndex != 2 {
		t.Errorf("request = %+v", got)
	}
}

func TestClient_ErrorStatusIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "conflict", http.StatusConflict)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "webhooks", time.Second)
	err := client.SaveSettings(context.Background(), profile.Settings{})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusConflict || statusErr.Body != "conflict" {
		t.Fatalf("expected StatusError 409, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", calls.Load())
	}
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, "", "webhooks", time.Second)
	if err := client.TestFire(context.Background(), "PrintStarted", 0); err == nil {
		t.Fatal("expected error for a closed server")
	}
}
