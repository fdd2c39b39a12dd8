// Package templates loads the preset catalog that profiles can be seeded
// from.
package templates

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/felixgeelhaar/printhooks/pkg/domain/profile"
	"golang.org/x/sync/errgroup"
)

// DefaultNames are the presets shipped with the webhooks plugin.
var DefaultNames = []string{
	"simple.json",
	"fulldata.json",
	"snapshot.json",
	"oauth.json",
	"dotnotation.json",
	"slack.json",
	"plivo.json",
	"alexa_notify_me.json",
}

// Entry is one loaded template and the file it came from.
type Entry struct {
	ID       string
	Template profile.Template
}

// LoadError records a template that could not be loaded.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load template %s: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Catalog is the immutable set of loaded templates.
type Catalog struct {
	entries  []Entry
	failures []*LoadError
}

// Templates returns the loaded entries in declared order.
func (c *Catalog) Templates() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Failures returns the templates that were left out.
func (c *Catalog) Failures() []*LoadError {
	return append([]*LoadError(nil), c.failures...)
}

// Len returns the number of loaded templates.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Get finds a template by file id ("slack" or "slack.json") or by its
// _name, case-insensitively.
func (c *Catalog) Get(name string) (profile.Template, bool) {
	id := strings.TrimSuffix(name, ".json")
	for _, e := range c.entries {
		if e.ID == id || strings.EqualFold(e.Template.Name(), name) {
			return e.Template, true
		}
	}
	return nil, false
}

// Default returns the first loaded template.
func (c *Catalog) Default() (profile.Template, bool) {
	if len(c.entries) == 0 {
		return nil, false
	}
	return c.entries[0].Template, true
}

// Loader fetches a fixed list of template documents.
type Loader struct {
	source  Source
	names   []string
	timeout time.Duration
	logger  *slog.Logger
}

// NewLoader creates a loader. A nil names list loads DefaultNames.
func NewLoader(source Source, names []string, fetchTimeout time.Duration, logger *slog.Logger) *Loader {
	if names == nil {
		names = DefaultNames
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{source: source, names: names, timeout: fetchTimeout, logger: logger}
}

// Load fetches every template concurrently and returns once all of them
// have settled. Templates that fail to load are logged and left out. The
// catalog keeps the declared order regardless of completion order, so the
// default is the first template that loaded.
func (l *Loader) Load(ctx context.Context) *Catalog {
	entries := make([]*Entry, len(l.names))
	failures := make([]*LoadError, len(l.names))

	var g errgroup.Group
	for i, name := range l.names {
		g.Go(func() error {
			t, err := l.fetch(ctx, name)
			if err != nil {
				l.logger.Warn("failed to load template", "template", name, "error", err)
				failures[i] = &LoadError{Name: name, Err: err}
				return nil
			}
			l.logger.Debug("template loaded", "template", name, "name", t.Name())
			entries[i] = &Entry{ID: strings.TrimSuffix(name, ".json"), Template: t}
			return nil
		})
	}
	_ = g.Wait()

	c := &Catalog{}
	for i := range l.names {
		if entries[i] != nil {
			c.entries = append(c.entries, *entries[i])
		}
		if failures[i] != nil {
			c.failures = append(c.failures, failures[i])
		}
	}
	return c
}

func (l *Loader) fetch(ctx context.Context, name string) (profile.Template, error) {
	t := timeout.New[[]byte](timeout.Config{DefaultTimeout: l.timeout})
	data, err := t.Execute(ctx, l.timeout, func(ctx context.Context) ([]byte, error) {
		return l.source.Fetch(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	if err := validate(data); err != nil {
		return nil, err
	}
	return profile.ParseTemplate(data)
}
