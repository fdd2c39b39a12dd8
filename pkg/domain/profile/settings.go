package profile

import (
	"encoding/json"
	"fmt"
)

// SettingsVersion is the settings layout this package reads and writes.
const SettingsVersion = 5

// Settings is the host's persisted plugin settings document.
type Settings struct {
	Version int        `json:"settings_version" yaml:"settings_version"`
	Hooks   []*Profile `json:"hooks" yaml:"hooks"`
}

// SettingsFrom serializes every profile of c.
func SettingsFrom(c *Collection) Settings {
	hooks := make([]*Profile, 0, c.Len())
	for _, p := range c.profiles {
		hooks = append(hooks, p.Clone())
	}
	return Settings{Version: SettingsVersion, Hooks: hooks}
}

// Collection returns a collection holding copies of the settings hooks.
func (s Settings) Collection() *Collection {
	profiles := make([]*Profile, 0, len(s.Hooks))
	for _, p := range s.Hooks {
		if p != nil {
			profiles = append(profiles, p.Clone())
		}
	}
	return NewCollection(profiles...)
}

// legacyKeys are the single-hook keys stored at the top level of a
// version 1 settings document.
var legacyKeys = []string{
	"url", "apiSecret", "deviceIdentifier", "eventPrintStarted", "eventPrintDone",
	"eventPrintFailed", "eventPrintPaused", "eventUserActionNeeded", "eventError",
	"event_print_progress", "event_print_progress_interval", "eventPrintStartedMessage",
	"eventPrintDoneMessage", "eventPrintFailedMessage", "eventPrintPausedMessage",
	"eventUserActionNeededMessage", "eventPrintProgressMessage", "eventErrorMessage",
	"headers", "data", "http_method", "content_type", "oauth", "oauth_url", "oauth_headers",
	"oauth_data", "oauth_http_method", "oauth_content_type", "test_event", "webhook_enabled",
	"event_cooldown", "verify_ssl",
}

// Migrate upgrades a raw settings document of any known version to the
// current layout and decodes it.
func Migrate(doc map[string]any) (Settings, error) {
	if doc == nil {
		doc = map[string]any{}
	}
	version, err := detectVersion(doc)
	if err != nil {
		return Settings{}, err
	}
	if version > SettingsVersion {
		return Settings{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	if version == 1 {
		hook := make(map[string]any, len(legacyKeys))
		for _, k := range legacyKeys {
			if v, ok := doc[k]; ok {
				hook[k] = v
			}
		}
		doc = map[string]any{"hooks": []any{hook}}
		version = 2
	}

	hooks, _ := doc["hooks"].([]any)
	upgrade := func(apply func(map[string]any)) {
		for _, h := range hooks {
			if m, ok := h.(map[string]any); ok {
				apply(m)
			}
		}
	}
	if version == 2 {
		upgrade(func(h map[string]any) { h["customEvents"] = []any{} })
		version = 3
	}
	if version == 3 {
		upgrade(func(h map[string]any) { h["event_cooldown"] = 0 })
		version = 4
	}
	if version == 4 {
		upgrade(func(h map[string]any) { h["verify_ssl"] = true })
		version = 5
	}

	data, err := json.Marshal(map[string]any{"settings_version": version, "hooks": hooks})
	if err != nil {
		return Settings{}, fmt.Errorf("encode migrated settings: %w", err)
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("decode migrated settings: %w", err)
	}
	if s.Hooks == nil {
		s.Hooks = []*Profile{}
	}
	return s, nil
}

// detectVersion reads settings_version. Documents without one are version 1
// when they carry top-level hook keys and current otherwise.
func detectVersion(doc map[string]any) (int, error) {
	v, ok := doc["settings_version"]
	if !ok {
		if _, flat := doc["url"]; flat {
			return 1, nil
		}
		return SettingsVersion, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("settings_version: unexpected type %T", v)
	}
}
