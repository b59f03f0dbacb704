package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/samuelreed/devopstools/configs"
)

const (
	configDir  = ".devopstools"
	configFile = "config.toml"

	// ConfigPathEnv points at an alternative config file.
	ConfigPathEnv = "DEVOPSTOOLS_CONFIG"
	// HomeEnv overrides the directory holding the tag helper and templates.
	HomeEnv = "DEVOPSTOOLS_HOME"
	// LogLevelEnv overrides log.level.
	LogLevelEnv = "DEVOPSTOOLS_LOG_LEVEL"
)

// Tag sources understood by the tag package.
const (
	TagSourceHelper = "helper"
	TagSourceGit    = "git"
)

// Settings holds the user-tunable defaults for devopstools.
// Values come from the embedded defaults, then ~/.devopstools/config.toml,
// then environment variables.
type Settings struct {
	ComposeCommand   []string    `toml:"compose_command"`
	ComposeFile      string      `toml:"compose_file"`
	DefaultService   string      `toml:"default_service"`
	Home             string      `toml:"home"`
	TemplateDir      string      `toml:"template_dir"`
	DefaultImageName string      `toml:"default_image_name"`
	TagSource        string      `toml:"tag_source"`
	Log              LogSettings `toml:"log"`
}

// LogSettings configures the logger.
type LogSettings struct {
	Level string `toml:"level"`
}

// ConfigDir returns the path to the devopstools config directory (~/.devopstools)
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir), nil
}

// ConfigPath returns the full path to the settings file
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(ConfigPathEnv)); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Defaults returns the settings embedded in the binary.
func Defaults() (*Settings, error) {
	var s Settings
	if _, err := toml.NewDecoder(bytes.NewReader(configs.DefaultConfig)).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode embedded defaults: %w", err)
	}
	return &s, nil
}

// Load builds the effective settings.
// A missing config file is not an error; a malformed one is.
func Load() (*Settings, error) {
	s, err := Defaults()
	if err != nil {
		return nil, err
	}

	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, s); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(statErr) {
		return nil, statErr
	}

	s.applyEnv()

	if s.Home == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locate executable: %w", err)
		}
		s.Home = filepath.Dir(exe)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

func (s *Settings) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(HomeEnv)); v != "" {
		s.Home = v
	}
	if v := strings.TrimSpace(os.Getenv(LogLevelEnv)); v != "" {
		s.Log.Level = v
	}
}

func (s *Settings) validate() error {
	if len(s.ComposeCommand) == 0 || s.ComposeCommand[0] == "" {
		return fmt.Errorf("compose_command must not be empty")
	}
	switch s.TagSource {
	case TagSourceHelper, TagSourceGit:
	default:
		return fmt.Errorf("unknown tag_source %q (want %q or %q)", s.TagSource, TagSourceHelper, TagSourceGit)
	}
	return nil
}

// TemplatePath returns the scaffold template directory.
func (s *Settings) TemplatePath() string {
	if s.TemplateDir != "" {
		return s.TemplateDir
	}
	return filepath.Join(s.Home, "generator")
}

// TagHelperPath returns the branch-to-tag helper script.
func (s *Settings) TagHelperPath() string {
	return filepath.Join(s.Home, "git-helper", "git_helper_docker.sh")
}
