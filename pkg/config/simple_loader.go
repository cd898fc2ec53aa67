package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
)

// Load loads a configuration from a YAML or TOML file into config,
// substituting ${VAR} references with environment variables first. Files
// ending in .toml are parsed as TOML.
func Load(filePath string, config interface{}) error {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: File path is controlled by caller
	if err != nil {
		return poolerrors.Wrap(err, poolerrors.ErrorTypeFile, "failed to read config file").
			WithDetail("path", filePath)
	}

	content := substituteEnvVars(string(data))

	if isTOML(filePath) {
		if err := toml.Unmarshal([]byte(content), config); err != nil {
			return poolerrors.Wrap(err, poolerrors.ErrorTypeConfig, "failed to parse TOML").
				WithDetail("path", filePath)
		}
		return nil
	}
	if err := yaml.Unmarshal([]byte(content), config); err != nil {
		return poolerrors.Wrap(err, poolerrors.ErrorTypeConfig, "failed to parse YAML").
			WithDetail("path", filePath)
	}

	return nil
}

// LoadFile reads path on top of DefaultConfig and validates the result.
func LoadFile(filePath string) (*Config, error) {
	cfg := DefaultConfig()
	defaults := cfg.Pools
	// a pools list in the file replaces the defaults instead of merging
	cfg.Pools = nil
	if err := Load(filePath, cfg); err != nil {
		return nil, err
	}
	if cfg.Pools == nil {
		cfg.Pools = defaults
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves a configuration to a YAML file, or TOML when the path ends
// in .toml.
func Save(filePath string, config interface{}) error {
	var (
		data []byte
		err  error
	)
	if isTOML(filePath) {
		data, err = toml.Marshal(config)
	} else {
		data, err = yaml.Marshal(config)
	}
	if err != nil {
		return poolerrors.Wrap(err, poolerrors.ErrorTypeConfig, "failed to marshal config").
			WithDetail("path", filePath)
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil { //nolint:gosec
		return poolerrors.Wrap(err, poolerrors.ErrorTypeFile, "failed to write config file").
			WithDetail("path", filePath)
	}

	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		b.WriteString(content[:start])
		b.WriteString(os.Getenv(content[start+2 : end]))
		content = content[end+1:]
	}
	b.WriteString(content)
	return b.String()
}
