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

// Config captures everything flowdo needs to reach the backend and media host.
type Config struct {
	APIBaseURL       string
	RequestTimeout   time.Duration
	LogPath          string
	SessionPath      string
	CloudinaryCloud  string
	CloudinaryPreset string
}

const (
	defaultConfigPath     = "~/.config/flowdo/config.toml"
	defaultAPIBaseURL     = "http://localhost:4000"
	defaultRequestTimeout = 15 * time.Second
	defaultLogPath        = "~/.local/state/flowdo/flowdo.log"
	defaultSessionPath    = "~/.config/flowdo/session.toml"

	envAPIBaseURL       = "FLOWDO_API_BASE_URL"
	envCloudinaryCloud  = "CLOUDINARY_CLOUD_NAME"
	envCloudinaryPreset = "CLOUDINARY_UPLOAD_PRESET"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBaseURL:     defaultAPIBaseURL,
		RequestTimeout: defaultRequestTimeout,
		LogPath:        mustExpand(defaultLogPath),
		SessionPath:    mustExpand(defaultSessionPath),
	}
}

// Load locates and parses the flowdo config, falling back to defaults when
// missing. Environment variables override file values.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
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
		APIBaseURL     string `toml:"api_base_url"`
		RequestTimeout string `toml:"request_timeout"`
		LogFile        string `toml:"log_file"`
		SessionFile    string `toml:"session_file"`
		Cloudinary     struct {
			CloudName    string `toml:"cloud_name"`
			UploadPreset string `toml:"upload_preset"`
		} `toml:"cloudinary"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("parse config: invalid request_timeout %q", v)
		}
		cfg.RequestTimeout = d
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.SessionFile); v != "" {
		cfg.SessionPath = mustExpand(v)
	}
	cfg.CloudinaryCloud = strings.TrimSpace(raw.Cloudinary.CloudName)
	cfg.CloudinaryPreset = strings.TrimSpace(raw.Cloudinary.UploadPreset)

	applyEnv(&cfg)
	return cfg, nil
}

// PrefsPath returns the preferences file that sits next to the session file.
func (c Config) PrefsPath() string {
	if strings.TrimSpace(c.SessionPath) == "" {
		return mustExpand("~/.config/flowdo/prefs.toml")
	}
	return filepath.Join(filepath.Dir(c.SessionPath), "prefs.toml")
}

// ExpandPath expands a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
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

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(envAPIBaseURL)); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(envCloudinaryCloud)); v != "" {
		cfg.CloudinaryCloud = v
	}
	if v := strings.TrimSpace(os.Getenv(envCloudinaryPreset)); v != "" {
		cfg.CloudinaryPreset = v
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}
