package profile

import "context"

// SettingsStore persists the whole collection. A save replaces every stored
// profile.
type SettingsStore interface {
	SaveSettings(ctx context.Context, settings Settings) error
}

// EventTrigger fires a synthetic event against the stored profile at index.
type EventTrigger interface {
	TestFire(ctx context.Context, event string, index int) error
}

// Draft is the locally edited state: the collection, its selection and the
// active template.
type Draft struct {
	Settings
	Selected int    `json:"selected"`
	Template string `json:"template,omitempty"`
}

// DraftRepository stores the draft between operator sessions.
type DraftRepository interface {
	SaveDraft(d *Draft) error
	LoadDraft() (*Draft, error)
}
