package config

import (
	"strings"

	"github.com/arthur-debert/rah/pkg/errors"
	gotoml "github.com/pelletier/go-toml/v2"
)

// GenerateConfigContent returns the default configuration with every value
// commented out, ready to be saved and edited
func GenerateConfigContent() string {
	return commentOutConfigValues(DefaultContent())
}

// commentOutConfigValues comments out every assignment, keeping comments,
// blank lines and section headers
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}

// TOML renders the effective configuration, after all layers were merged,
// with the resolved cache path filled in
func (c *Config) TOML() ([]byte, error) {
	raw := make(map[string]interface{}, len(c.raw)+1)
	for k, v := range c.raw {
		raw[k] = v
	}
	raw["cache_path"] = c.CachePath
	out, err := gotoml.Marshal(raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return out, nil
}
