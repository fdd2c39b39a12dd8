package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/printhooks/pkg/domain/profile"
)

// SaveDraft writes the edited collection and selection.
func (r *FilesystemRepository) SaveDraft(d *profile.Draft) error {
	if d == nil {
		return fmt.Errorf("draft is nil")
	}
	path, err := r.ResolvePath(DraftFile)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	// G306: Use 0600 for files, the draft holds API secrets
	return os.WriteFile(path, data, 0600)
}

// LoadDraft reads the draft. Without a draft file the workspace starts with
// a single default profile, the same as a fresh host install.
func (r *FilesystemRepository) LoadDraft() (*profile.Draft, error) {
	retryer := retry.New[*profile.Draft](r.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) (*profile.Draft, error) {
		path, err := r.ResolvePath(DraftFile)
		if err != nil {
			return nil, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return &profile.Draft{
				Settings: profile.Settings{
					Version: profile.SettingsVersion,
					Hooks:   []*profile.Profile{profile.NewProfile()},
				},
				Selected: 0,
			}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read draft: %w", err)
		}

		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
		}
		settings, err := profile.Migrate(doc)
		if err != nil {
			return nil, err
		}

		var meta struct {
			Selected *int   `json:"selected"`
			Template string `json:"template"`
		}
		_ = json.Unmarshal(data, &meta)

		d := &profile.Draft{Settings: settings, Selected: 0, Template: meta.Template}
		if meta.Selected != nil {
			d.Selected = *meta.Selected
		}
		return d, nil
	})
}
