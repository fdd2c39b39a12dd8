package application

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/printhooks/pkg/domain/profile"
)

// TemplateCatalog is the read-only set of presets a profile can be seeded
// from.
type TemplateCatalog interface {
	Get(name string) (profile.Template, bool)
	Default() (profile.Template, bool)
}

// Change kinds reported to observers.
const (
	ChangeSelect   = "select"
	ChangeAdd      = "add"
	ChangeCopy     = "copy"
	ChangeRemove   = "remove"
	ChangeOverlay  = "overlay"
	ChangeEdit     = "edit"
	ChangeTemplate = "template"
	ChangeReplace  = "replace"
)

// Change describes a mutation of the collection or selection.
type Change struct {
	Kind     string
	Selected int
}

// ChangeObserver is notified after every mutation.
type ChangeObserver func(Change)

// ProfileService owns the profile collection, its selection and the active
// template. All mutations are serialized.
type ProfileService struct {
	mu         sync.Mutex
	collection *profile.Collection
	catalog    TemplateCatalog
	template   string
	drafts     profile.DraftRepository
	observers  []ChangeObserver
	logger     *slog.Logger
}

// NewProfileService creates a service over c. catalog and drafts may be nil.
func NewProfileService(c *profile.Collection, catalog TemplateCatalog, drafts profile.DraftRepository, logger *slog.Logger) *ProfileService {
	if c == nil {
		c = profile.NewCollection()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &ProfileService{
		collection: c,
		catalog:    catalog,
		drafts:     drafts,
		logger:     logger,
	}
	if catalog != nil {
		if t, ok := catalog.Default(); ok {
			s.template = t.Name()
		}
	}
	return s
}

// LoadProfileService restores the last saved draft from drafts.
func LoadProfileService(drafts profile.DraftRepository, catalog TemplateCatalog, logger *slog.Logger) (*ProfileService, error) {
	d, err := drafts.LoadDraft()
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	c := d.Settings.Collection()
	c.Select(d.Selected)
	s := NewProfileService(c, catalog, drafts, logger)
	if d.Template != "" {
		s.template = d.Template
	}
	return s, nil
}

// Subscribe registers o for change notifications.
func (s *ProfileService) Subscribe(o ChangeObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Save writes the draft to the draft repository.
func (s *ProfileService) Save() error {
	if s.drafts == nil {
		return nil
	}
	s.mu.Lock()
	d := &profile.Draft{
		Settings: profile.SettingsFrom(s.collection),
		Selected: s.collection.Selected(),
		Template: s.template,
	}
	s.mu.Unlock()
	return s.drafts.SaveDraft(d)
}

// Len returns the number of profiles.
func (s *ProfileService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection.Len()
}

// Selected returns the selection index.
func (s *ProfileService) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection.Selected()
}

// Current returns a copy of the selected profile.
func (s *ProfileService) Current() (*profile.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.collection.Current()
	if p == nil {
		return nil, profile.ErrNoSelection
	}
	return p.Clone(), nil
}

// ProfileAt returns a copy of the profile at index i.
func (s *ProfileService) ProfileAt(i int) (*profile.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.collection.At(i)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// Profiles returns copies of every profile in order.
func (s *ProfileService) Profiles() []*profile.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*profile.Profile, 0, s.collection.Len())
	for _, p := range s.collection.Profiles() {
		out = append(out, p.Clone())
	}
	return out
}

// Snapshot serializes the collection together with the selection index.
func (s *ProfileService) Snapshot() (profile.Settings, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return profile.SettingsFrom(s.collection), s.collection.Selected()
}

// Select makes profile i current, see profile.Collection.Select.
func (s *ProfileService) Select(i int) int {
	s.mu.Lock()
	s.collection.Select(i)
	sel := s.collection.Selected()
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeSelect, Selected: sel})
	return sel
}

// Add appends a default profile and selects it.
func (s *ProfileService) Add() int {
	s.mu.Lock()
	s.collection.Add()
	sel := s.collection.Selected()
	s.mu.Unlock()
	s.logger.Info("profile added", "index", sel)
	s.notify(Change{Kind: ChangeAdd, Selected: sel})
	return sel
}

// CopyAt appends a deep copy of profile i and selects it.
func (s *ProfileService) CopyAt(i int) (int, error) {
	s.mu.Lock()
	p, err := s.collection.At(i)
	if err == nil {
		_, err = s.collection.Copy(p)
	}
	sel := s.collection.Selected()
	s.mu.Unlock()
	if err != nil {
		return sel, err
	}
	s.logger.Info("profile copied", "source", i, "index", sel)
	s.notify(Change{Kind: ChangeCopy, Selected: sel})
	return sel, nil
}

// RemoveAt removes the profile at i and selects the first remaining one.
func (s *ProfileService) RemoveAt(i int) error {
	s.mu.Lock()
	p, err := s.collection.At(i)
	if err == nil {
		err = s.collection.Remove(p)
	}
	sel := s.collection.Selected()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.logger.Info("profile removed", "index", i)
	s.notify(Change{Kind: ChangeRemove, Selected: sel})
	return nil
}

// Replace swaps the whole collection for the profiles in settings, for
// example after importing a host configuration.
func (s *ProfileService) Replace(settings profile.Settings) int {
	s.mu.Lock()
	s.collection = settings.Collection()
	sel := s.collection.Selected()
	n := s.collection.Len()
	s.mu.Unlock()
	s.logger.Info("profiles replaced", "profiles", n)
	s.notify(Change{Kind: ChangeReplace, Selected: sel})
	return n
}

// TemplateName returns the active template's name.
func (s *ProfileService) TemplateName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template
}

// ChooseTemplate makes name the active template.
func (s *ProfileService) ChooseTemplate(name string) (profile.Template, error) {
	t, err := s.lookupTemplate(name)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.template = name
	sel := s.collection.Selected()
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeTemplate, Selected: sel})
	return t, nil
}

// ApplyTemplate overlays the named template, or the active one when name is
// empty, onto the current profile.
func (s *ProfileService) ApplyTemplate(name string) (profile.OverlayResult, error) {
	if name == "" {
		name = s.TemplateName()
	}
	t, err := s.lookupTemplate(name)
	if err != nil {
		return profile.OverlayResult{}, err
	}
	return s.Overlay(t)
}

// Overlay applies t onto the current profile.
func (s *ProfileService) Overlay(t profile.Template) (profile.OverlayResult, error) {
	s.mu.Lock()
	p := s.collection.Current()
	if p == nil {
		s.mu.Unlock()
		return profile.OverlayResult{}, profile.ErrNoSelection
	}
	res := profile.ApplyTemplate(p, t)
	sel := s.collection.Selected()
	s.mu.Unlock()

	if len(res.Skipped) > 0 {
		s.logger.Warn("template values skipped", "template", t.Name(), "keys", res.Skipped)
	}
	s.logger.Info("template applied", "template", t.Name(), "index", sel, "fields", len(res.Applied))
	s.notify(Change{Kind: ChangeOverlay, Selected: sel})
	return res, nil
}

// ExportCurrent reduces the current profile to a shareable template.
func (s *ProfileService) ExportCurrent() (profile.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.collection.Current()
	if p == nil {
		return nil, profile.ErrNoSelection
	}
	return profile.ExportTemplate(p)
}

// SetField decodes raw into field key of the current profile.
func (s *ProfileService) SetField(key string, raw json.RawMessage) error {
	return s.edit(func(p *profile.Profile) error {
		return p.SetField(key, raw)
	})
}

// AddCustomEvent appends a custom event to the current profile.
func (s *ProfileService) AddCustomEvent(name, message string) error {
	return s.edit(func(p *profile.Profile) error {
		i := p.AddCustomEvent()
		p.CustomEvents[i] = profile.CustomEvent{Name: name, Message: message}
		return nil
	})
}

// RemoveCustomEvent deletes custom event i of the current profile.
func (s *ProfileService) RemoveCustomEvent(i int) error {
	return s.edit(func(p *profile.Profile) error {
		return p.RemoveCustomEvent(i)
	})
}

// Reset restores one of the text templates of the current profile. field is
// one of data, headers, oauth_data or oauth_headers.
func (s *ProfileService) Reset(field string) error {
	return s.edit(func(p *profile.Profile) error {
		switch field {
		case "data":
			p.ResetData()
		case "headers":
			p.ResetHeaders()
		case "oauth_data":
			p.ResetOAuthData()
		case "oauth_headers":
			p.ResetOAuthHeaders()
		default:
			return fmt.Errorf("%w: %s cannot be reset", profile.ErrUnknownField, field)
		}
		return nil
	})
}

// edit runs fn on a copy of the current profile and commits it on success.
func (s *ProfileService) edit(fn func(*profile.Profile) error) error {
	s.mu.Lock()
	p := s.collection.Current()
	if p == nil {
		s.mu.Unlock()
		return profile.ErrNoSelection
	}
	next := p.Clone()
	if err := fn(next); err != nil {
		s.mu.Unlock()
		return err
	}
	*p = *next
	sel := s.collection.Selected()
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeEdit, Selected: sel})
	return nil
}

func (s *ProfileService) lookupTemplate(name string) (profile.Template, error) {
	if s.catalog == nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	t, ok := s.catalog.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return t, nil
}

func (s *ProfileService) notify(c Change) {
	s.mu.Lock()
	observers := append([]ChangeObserver(nil), s.observers...)
	s.mu.Unlock()
	for _, o := range observers {
		o(c)
	}
}
