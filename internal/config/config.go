// Package config loads the per-directory sync configuration file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the sync directory.
const FileName = ".texsync.yaml"

// Defaults applied when neither a flag nor the config file sets a value.
const (
	DefaultServerURL  = "https://www.overleaf.com"
	DefaultIgnoreFile = ".texsyncignore"
	DefaultAuthFile   = ".texsync-auth"
)

// Config is the on-disk configuration. Every field is optional; command
// line flags take precedence over it.
type Config struct {
	Project    string `yaml:"project"`
	ServerURL  string `yaml:"server_url"`
	IgnoreFile string `yaml:"ignore_file"`
	AuthFile   string `yaml:"auth_file"`
}

// ValidationError reports the problems found in a configuration file.
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Path, strings.Join(e.Problems, "; "))
}

// Load reads the configuration file in dir. A missing file is not an
// error; it yields a zero Config so defaults apply.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Path: path, Problems: problems}
	}
	return &cfg, nil
}

// Validate returns a list of problems, empty when the config is usable.
func (c *Config) Validate() []string {
	var problems []string
	if c.ServerURL != "" {
		u, err := url.Parse(c.ServerURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			problems = append(problems, fmt.Sprintf("server_url %q is not an http(s) URL", c.ServerURL))
		}
	}
	return problems
}
