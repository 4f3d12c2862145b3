package bot

import (
	"gopkg.in/yaml.v3"

	"github.com/mrlokans/abbrbot/internal/abbr"
)

// Metadata describes the plugin to a plugin host.
type Metadata struct {
	Name        string   `yaml:"name"`
	Author      string   `yaml:"author"`
	Description string   `yaml:"desc"`
	Version     string   `yaml:"version"`
	Commands    []string `yaml:"commands"`
	Tools       []string `yaml:"tools"`
}

// PluginMetadata returns the manifest for the given build version.
func PluginMetadata(version string) Metadata {
	return Metadata{
		Name:        abbr.CommandName,
		Author:      "XSana",
		Description: "调用nbnhhsh，获取缩写",
		Version:     version,
		Commands:    append([]string(nil), abbr.Aliases...),
		Tools:       []string{abbr.CommandName},
	}
}

// YAML renders the manifest.
func (m Metadata) YAML() ([]byte, error) {
	return yaml.Marshal(m)
}
