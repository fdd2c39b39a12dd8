package application_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/felixgeelhaar/printhooks/pkg/application"
	"github.com/felixgeelhaar/printhooks/pkg/domain/notify"
	"github.com/felixgeelhaar/printhooks/pkg/domain/profile"
)

type fakeStore struct {
	calls   atomic.Int32
	err     error
	release chan struct{}
	saved   profile.Settings
}

func (f *fakeStore) SaveSettings(ctx context.Context, s profile.Settings) error {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	f.saved = s
	return f.err
}

type fireCall struct {
	event string
	index int
}

type fakeTrigger struct {
	calls []fireCall
	err   error
}

func (f *fakeTrigger) TestFire(ctx context.Context, event string, index int) error {
	f.calls = append(f.calls, fireCall{event, index})
	return f.err
}

func newServices(t *testing.T, n int) (*application.ProfileService, *notify.Hub) {
	t.Helper()
	svc := application.NewProfileService(nil, nil, nil, nil)
	for i := 0; i < n; i++ {
		svc.Add()
	}
	return svc, notify.NewHub("webhooks")
}

func TestSaveAndTest_Success(t *testing.T) {
	profiles, hub := newServices(t, 2)
	profiles.Select(1)
	if err := profiles.SetField("test_event", []byte(`"PrintDone"`)); err != nil {
		t.Fatal(err)
	}

	var got []notify.Notification
	hub.Subscribe(func(n notify.Notification) { got = append(got, n) })

	store := &fakeStore{}
	trigger := &fakeTrigger{}
	svc, err := application.NewTestFireService(profiles, store, trigger, hub, nil)
	if err != nil {
		t.Fatal(err)
	}

	res, err := svc.SaveAndTest(context.Background())
	if err != nil {
		t.Fatalf("save and test: %v", err)
	}
	if res.Event != "PrintDone" || res.Index != 1 {
		t.Errorf("result = %+v", res)
	}
	if len(store.saved.Hooks) != 2 {
		t.Errorf("expected the whole collection to be saved, got %d hooks", len(store.saved.Hooks))
	}
	if len(trigger.calls) != 1 || trigger.calls[0] != (fireCall{"PrintDone", 1}) {
		t.Errorf("trigger calls = %+v", trigger.calls)
	}
	if svc.State() != profile.StateIdle {
		t.Errorf("state = %s", svc.State())
	}
	if len(got) != 1 || got[0].Type != notify.TypeSuccess {
		t.Errorf("notifications = %+v", got)
	}
}

func TestSaveAndTest_SaveFailureSkipsTrigger(t *testing.T) {
	profiles, hub := newServices(t, 1)
	store := &fakeStore{err: errors.New("unreachable")}
	trigger := &fakeTrigger{}
	svc, _ := application.NewTestFireService(profiles, store, trigger, hub, nil)

	_, err := svc.SaveAndTest(context.Background())

	var saveErr *application.SaveError
	if !errors.As(err, &saveErr) {
		t.Fatalf("expected SaveError, got %v", err)
	}
	if len(trigger.calls) != 0 {
		t.Errorf("test fire must not be issued after a failed save, got %d calls", len(trigger.calls))
	}
	if svc.State() != profile.StateIdle {
		t.Errorf("state = %s, want idle after reporting", svc.State())
	}
	if profiles.Len() != 1 || profiles.Selected() != 0 {
		t.Error("collection must be unchanged")
	}
}

func TestSaveAndTest_TriggerFailure(t *testing.T) {
	profiles, hub := newServices(t, 1)
	store := &fakeStore{}
	trigger := &fakeTrigger{err: errors.New("boom")}
	svc, _ := application.NewTestFireService(profiles, store, trigger, hub, nil)

	_, err := svc.SaveAndTest(context.Background())

	var fireErr *application.TestFireError
	if !errors.As(err, &fireErr) {
		t.Fatalf("expected TestFireError, got %v", err)
	}
	if fireErr.Event != profile.EventNamePrintStarted || fireErr.Index != 0 {
		t.Errorf("error = %+v", fireErr)
	}
	if store.calls.Load() != 1 {
		t.Errorf("save should run once, got %d", store.calls.Load())
	}
	if svc.State() != profile.StateIdle {
		t.Errorf("state = %s", svc.State())
	}
}

func TestSaveAndTest_EmptyCollection(t *testing.T) {
	profiles, hub := newServices(t, 0)
	store := &fakeStore{}
	svc, _ := application.NewTestFireService(profiles, store, &fakeTrigger{}, hub, nil)

	if _, err := svc.SaveAndTest(context.Background()); !errors.Is(err, profile.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if store.calls.Load() != 0 {
		t.Error("nothing should be saved")
	}
}

func TestSaveAndTest_RejectsWhileBusy(t *testing.T) {
	profiles, hub := newServices(t, 1)
	store := &fakeStore{release: make(chan struct{})}
	trigger := &fakeTrigger{}
	svc, _ := application.NewTestFireService(profiles, store, trigger, hub, nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.SaveAndTest(context.Background())
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for store.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first save never started")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if svc.State() != profile.StateSaving {
		t.Fatalf("state = %s, want saving", svc.State())
	}

	if _, err := svc.SaveAndTest(context.Background()); !errors.Is(err, application.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("first run: %v", err)
	}
	if store.calls.Load() != 1 || len(trigger.calls) != 1 {
		t.Errorf("saves=%d fires=%d", store.calls.Load(), len(trigger.calls))
	}
}

func TestSaveAndTest_FiresEventOfSavedProfile(t *testing.T) {
	profiles, hub := newServices(t, 3)
	for i, ev := range []string{profile.EventNamePrintDone, profile.EventNamePrintFailed, profile.EventNameError} {
		profiles.Select(i)
		if err := profiles.SetField("test_event", []byte(`"`+ev+`"`)); err != nil {
			t.Fatal(err)
		}
	}
	profiles.Select(1)

	store := &fakeStore{}
	trigger := &fakeTrigger{}
	svc, _ := application.NewTestFireService(profiles, &removingStore{fakeStore: store, profiles: profiles}, trigger, hub, nil)

	res, err := svc.SaveAndTest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if store.saved.Hooks[1].TestEvent != profile.EventNamePrintFailed {
		t.Fatalf("stored test_event = %q", store.saved.Hooks[1].TestEvent)
	}
	if len(trigger.calls) != 1 || trigger.calls[0] != (fireCall{profile.EventNamePrintFailed, 1}) {
		t.Fatalf("trigger calls = %+v", trigger.calls)
	}
	if res.Event != profile.EventNamePrintFailed || res.Index != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestSaveAndTest_LastProfileRemovedDuringSave(t *testing.T) {
	profiles, hub := newServices(t, 2)
	profiles.Select(1)

	var notes []notify.Notification
	hub.Subscribe(func(n notify.Notification) { notes = append(notes, n) })

	store := &fakeStore{}
	trigger := &fakeTrigger{}
	svc, _ := application.NewTestFireService(profiles, &removingStore{fakeStore: store, profiles: profiles}, trigger, hub, nil)

	if _, err := svc.SaveAndTest(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(trigger.calls) != 1 || trigger.calls[0].index != 1 {
		t.Fatalf("trigger calls = %+v", trigger.calls)
	}
	if profiles.Len() != 1 {
		t.Fatalf("expected the removal to apply locally, got %d profiles", profiles.Len())
	}
	if len(notes) != 1 || notes[0].Type != notify.TypeSuccess {
		t.Errorf("notifications = %+v", notes)
	}
	if svc.State() != profile.StateIdle {
		t.Errorf("state = %q", svc.State())
	}
}

// removingStore removes the first profile while the save is in flight.
type removingStore struct {
	*fakeStore
	profiles *application.ProfileService
}

func (r *removingStore) SaveSettings(ctx context.Context, s profile.Settings) error {
	_ = r.profiles.RemoveAt(0)
	return r.fakeStore.SaveSettings(ctx, s)
}
