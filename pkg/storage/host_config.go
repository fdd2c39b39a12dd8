package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/felixgeelhaar/printhooks/pkg/domain/profile"
	"gopkg.in/yaml.v3"
)

// ErrNoPluginSettings is returned when a host config has no section for the
// plugin.
var ErrNoPluginSettings = errors.New("no plugin settings in host config")

// ImportHostConfig reads the plugin section of a host config.yaml
// (plugins.<pluginID>) and migrates it to the current settings layout.
func ImportHostConfig(path, pluginID string) (profile.Settings, error) {
	// #nosec G304 -- path is chosen by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return profile.Settings{}, fmt.Errorf("failed to read host config: %w", err)
	}

	var doc struct {
		Plugins map[string]map[string]any `yaml:"plugins"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return profile.Settings{}, fmt.Errorf("failed to unmarshal host config: %w", err)
	}

	section, ok := doc.Plugins[pluginID]
	if !ok {
		return profile.Settings{}, fmt.Errorf("%w: plugins.%s", ErrNoPluginSettings, pluginID)
	}
	return profile.Migrate(section)
}
