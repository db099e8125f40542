// Package config loads and persists the FxHabit cloud client configuration.
//
// The config lives in a plain key=value file so it stays hand-editable. A
// missing file is created with defaults on first load, including a freshly
// generated app id that scopes all remote files to this installation.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/itachi2230/fxHabit/internal/utils"
)

const (
	KeyServer  = "server"
	KeyAppID   = "app_id"
	KeyDataDir = "data_dir"
)

var (
	home, _           = os.UserHomeDir()
	DefaultDir        = filepath.Join(home, ".fxhabit")
	DefaultConfigPath = filepath.Join(DefaultDir, "fxcloud.conf")
	DefaultServerURL  = "http://localhost:8080"
	DefaultDataDir    = filepath.Join(home, "FxHabit")
)

type Config struct {
	ServerURL string
	AppID     string
	DataDir   string

	// Path is the file this config was loaded from. Not persisted.
	Path string
}

// Load reads the key=value config file at path, creating it with defaults if
// it does not exist yet.
func Load(path string) (*Config, error) {
	path, err := utils.ResolvePath(path)
	if err != nil {
		return nil, err
	}

	if !utils.FileExists(path) {
		cfg := defaults(path)
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("config init %q: %w", path, err)
		}
		return cfg, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("config read %q: %w", path, err)
	}

	cfg := &Config{
		ServerURL: values[KeyServer],
		AppID:     values[KeyAppID],
		DataDir:   values[KeyDataDir],
		Path:      path,
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config back to its file.
func (c *Config) Save() error {
	if err := utils.EnsureParent(c.Path); err != nil {
		return err
	}
	return godotenv.Write(map[string]string{
		KeyServer:  c.ServerURL,
		KeyAppID:   c.AppID,
		KeyDataDir: c.DataDir,
	}, c.Path)
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: invalid server url %q", c.ServerURL)
	}
	if c.AppID == "" {
		return fmt.Errorf("config: app_id is empty")
	}
	return nil
}

// Dir returns the directory holding the config file. Session and log files
// are stored alongside it.
func (c *Config) Dir() string {
	return filepath.Dir(c.Path)
}

func (c *Config) applyDefaults() {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	c.ServerURL = strings.TrimRight(c.ServerURL, "/")
	if c.AppID == "" {
		c.AppID = uuid.NewString()
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
}

func defaults(path string) *Config {
	cfg := &Config{Path: path}
	cfg.applyDefaults()
	return cfg
}
