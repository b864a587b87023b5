package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the client settings.
type Config struct {
	APIBind          string
	APIPrefix        string
	PollInterval     time.Duration
	PlayDelay        time.Duration
	ProgressInterval time.Duration
	LogDir           string
	LogLevel         string
}

const (
	defaultConfigPath       = "~/.config/bctl/config.toml"
	defaultLogDir           = "~/.local/share/bctl"
	defaultAPIBind          = "127.0.0.1:8080"
	defaultLogLevel         = "info"
	defaultPollSeconds      = 10
	defaultPlayDelayMS      = 750
	defaultProgressInterval = 1000
	logFileName             = "bctl.log"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBind:          defaultAPIBind,
		PollInterval:     defaultPollSeconds * time.Second,
		PlayDelay:        defaultPlayDelayMS * time.Millisecond,
		ProgressInterval: defaultProgressInterval * time.Millisecond,
		LogDir:           mustExpand(defaultLogDir),
		LogLevel:         defaultLogLevel,
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBind            string `toml:"api_bind"`
		APIPrefix          string `toml:"api_prefix"`
		PollSeconds        int    `toml:"poll_seconds"`
		PlayDelayMS        int    `toml:"play_delay_ms"`
		ProgressIntervalMS int    `toml:"progress_interval_ms"`
		LogDir             string `toml:"log_dir"`
		LogLevel           string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBind); v != "" {
		cfg.APIBind = v
	}
	cfg.APIPrefix = strings.TrimSpace(raw.APIPrefix)
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if raw.PlayDelayMS > 0 {
		cfg.PlayDelay = time.Duration(raw.PlayDelayMS) * time.Millisecond
	}
	if raw.ProgressIntervalMS > 0 {
		cfg.ProgressInterval = time.Duration(raw.ProgressIntervalMS) * time.Millisecond
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	return cfg, nil
}

// LogPath returns the path of the client log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return filepath.Join(mustExpand(defaultLogDir), logFileName)
	}
	return filepath.Join(c.LogDir, logFileName)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
