package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/printhooks/pkg/domain/notify"
	"github.com/felixgeelhaar/printhooks/pkg/domain/profile"
)

// TestFireResult describes a completed save-and-test.
type TestFireResult struct {
	Event string
	Index int
}

// TestFireService persists the collection and, only once the save has been
// acknowledged, fires the selected profile's test event. One workflow runs
// at a time.
type TestFireService struct {
	profiles *ProfileService
	store    profile.SettingsStore
	trigger  profile.EventTrigger
	hub      *notify.Hub
	logger   *slog.Logger

	mu  sync.Mutex
	fsm *profile.TestFireMachine
}

// NewTestFireService wires the workflow. hub and logger may be nil.
func NewTestFireService(profiles *ProfileService, store profile.SettingsStore, trigger profile.EventTrigger, hub *notify.Hub, logger *slog.Logger) (*TestFireService, error) {
	fsm, err := profile.NewTestFireMachine("save-and-test")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TestFireService{
		profiles: profiles,
		store:    store,
		trigger:  trigger,
		hub:      hub,
		logger:   logger,
		fsm:      fsm,
	}, nil
}

// State returns the workflow state.
func (s *TestFireService) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fsm.Current()
}

// SaveAndTest saves the whole collection and then test-fires the selected
// profile. The target profile is resolved by its index in the saved
// settings, never from the live collection, which may change while the
// save is in flight.
func (s *TestFireService) SaveAndTest(ctx context.Context) (*TestFireResult, error) {
	settings, index := s.profiles.Snapshot()
	if index == profile.NoSelection {
		return nil, profile.ErrNoSelection
	}

	if err := s.begin(); err != nil {
		return nil, err
	}

	s.logger.Info("saving settings", "profiles", len(settings.Hooks))
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		s.step(profile.EventSaveFailed)
		s.step(profile.EventReported)
		s.logger.Error("failed to save settings", "error", err)
		s.publish(notify.TypeError, fmt.Sprintf("Failed to save settings: %v", err))
		return nil, &SaveError{Err: err}
	}
	s.step(profile.EventSaved)

	// The host resolves index against the settings it just stored, so the
	// event is read from the same document.
	if index < 0 || index >= len(settings.Hooks) || settings.Hooks[index] == nil {
		s.step(profile.EventTestFailed)
		err := &profile.IndexError{Kind: "profile", Index: index, Len: len(settings.Hooks)}
		s.logger.Error("test profile not in saved settings", "index", index, "error", err)
		s.publish(notify.TypeError, fmt.Sprintf("Test not sent: %v", err))
		return nil, &TestFireError{Index: index, Err: err}
	}
	event := settings.Hooks[index].TestEvent

	s.logger.Info("sending test event", "event", event, "index", index)
	if err := s.trigger.TestFire(ctx, event, index); err != nil {
		s.step(profile.EventTestFailed)
		s.logger.Error("test event failed", "event", event, "index", index, "error", err)
		s.publish(notify.TypeError, fmt.Sprintf("Test %s failed: %v", event, err))
		return nil, &TestFireError{Event: event, Index: index, Err: err}
	}
	s.step(profile.EventTested)

	s.publish(notify.TypeSuccess, fmt.Sprintf("Settings saved, test %s sent", event))
	return &TestFireResult{Event: event, Index: index}, nil
}

func (s *TestFireService) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fsm.Idle() {
		return ErrBusy
	}
	return s.fsm.Transition(profile.EventSave)
}

func (s *TestFireService) step(event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fsm.Transition(event); err != nil {
		s.logger.Error("test-fire state out of sync", "error", err)
	}
}

func (s *TestFireService) publish(typ, text string) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(notify.New(typ, text, true))
}
