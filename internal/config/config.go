package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const configDir = ".brief-cli"
const configFile = "config.json"

// Environment variables that override the stored server and token.
const (
	EnvServer = "BRIEF_SERVER"
	EnvToken  = "BRIEF_TOKEN"
)

type Config struct {
	Server           string `json:"server"`
	Username         string `json:"username,omitempty"`
	Token            string `json:"token,omitempty"`
	Locale           string `json:"locale,omitempty"`
	ExportDir        string `json:"export_dir,omitempty"`
	LogLevel         string `json:"log_level,omitempty"`
	VocabularyPath   string `json:"vocabulary_path,omitempty"`
	LastConversation string `json:"last_conversation,omitempty"`
	Profile          string `json:"-"`
}

// Dir returns the directory holding configs, logs, the transcript database
// and default exports.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot find home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

func configPath(profile string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	filename := configFile
	if profile != "" {
		filename = fmt.Sprintf("config-%s.json", profile)
	}
	return filepath.Join(dir, filename), nil
}

func Load(profile string) (*Config, error) {
	path, err := configPath(profile)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg.Profile = profile
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvServer); v != "" {
		c.Server = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Token = v
	}
}

func (c *Config) Save() error {
	path, err := configPath(c.Profile)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) profileFlag() string {
	if c.Profile == "" {
		return ""
	}
	return " --profile " + c.Profile
}

func (c *Config) Validate() error {
	pf := c.profileFlag()
	if c.Server == "" {
		return fmt.Errorf("not logged in. Run: brief%s login <server-url> -u <username> -p <password>", pf)
	}
	if c.Token == "" {
		return fmt.Errorf("not authenticated. Run: brief%s login <server-url> -u <username> -p <password>", pf)
	}
	return nil
}

// LocaleOrDefault returns the configured locale, "en" when unset.
func (c *Config) LocaleOrDefault() string {
	if c.Locale == "" {
		return "en"
	}
	return c.Locale
}

// ExportDirOrDefault returns where exported briefs are written.
func (c *Config) ExportDirOrDefault() (string, error) {
	if c.ExportDir != "" {
		return c.ExportDir, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "exports"), nil
}

// Set updates a user-settable key by name.
func (c *Config) Set(key, value string) error {
	switch key {
	case "server":
		c.Server = value
	case "token":
		c.Token = value
	case "locale":
		c.Locale = value
	case "export_dir", "export-dir":
		c.ExportDir = value
	case "log_level", "log-level":
		c.LogLevel = value
	case "vocabulary", "vocabulary_path":
		c.VocabularyPath = value
	default:
		return fmt.Errorf("unknown config key: %s (valid: server, token, locale, export_dir, log_level, vocabulary)", key)
	}
	return nil
}

func ListProfiles() ([]string, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config directory: %w", err)
	}
	var profiles []string
	for _, e := range entries {
		name := e.Name()
		if name == configFile {
			profiles = append(profiles, "default")
			continue
		}
		if strings.HasPrefix(name, "config-") && strings.HasSuffix(name, ".json") {
			profiles = append(profiles, strings.TrimSuffix(strings.TrimPrefix(name, "config-"), ".json"))
		}
	}
	return profiles, nil
}

func ProfileName(profile string) string {
	if profile == "" {
		return "default"
	}
	return profile
}
