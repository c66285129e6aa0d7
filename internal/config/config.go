// internal/config/config.go
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Config represents the application configuration
type Config struct {
	DefaultProfile string    `toml:"default_profile"`
	MaxResults     int       `toml:"max_results"`
	LogLevel       string    `toml:"log_level"`
	History        History   `toml:"history"`
	Profiles       []Profile `toml:"profiles"`
	Server         Server    `toml:"server"`
	Theme          Theme     `toml:"theme_colors"`
	Keys           KeyMap    `toml:"keys"`

	path string
}

// History configures where past searches are kept
type History struct {
	Driver string `toml:"driver"` // sqlite3, postgres, mysql
	DSN    string `toml:"dsn"`    // empty means the XDG data file for sqlite3
	Limit  int    `toml:"limit"`  // entries kept per profile
}

// Server configures `irfinder serve`
type Server struct {
	Listen       string   `toml:"listen"`
	CatalogFile  string   `toml:"catalog_file"`
	DiscoveryURL string   `toml:"discovery_url"`
	CacheTTL     int      `toml:"cache_ttl_seconds"`
	RateLimit    float64  `toml:"rate_limit"` // requests per second per client IP
	RateBurst    int      `toml:"rate_burst"`
	AllowOrigins []string `toml:"allow_origins"`

	// Server-held credentials injected into /search when the client sends none
	OpenAIKey          string `toml:"-"`
	EncryptedOpenAIKey string `toml:"openai_api_key,omitempty"`
	SerperKey          string `toml:"-"`
	EncryptedSerperKey string `toml:"serper_api_key,omitempty"`
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	Warning       string `toml:"warning"`
	BgPrimary     string `toml:"bg_primary"`
	BgSecondary   string `toml:"bg_secondary"`
	CardBg        string `toml:"card_bg"`
	BorderColor   string `toml:"border_color"`
}

// KeyMap defines key bindings
type KeyMap struct {
	Submit    []string `toml:"submit"`
	Exit      []string `toml:"exit"`
	NextField []string `toml:"next_field"`
	PrevField []string `toml:"prev_field"`
	Settings  []string `toml:"settings"`
	History   []string `toml:"history"`
	Help      []string `toml:"help"`
	Results   []string `toml:"results"`
	Companies []string `toml:"companies"`
}

// Profile is a named report-finder endpoint with its credentials
type Profile struct {
	Name           string `toml:"name"`
	BaseURL        string `toml:"base_url"`
	OpenAIProvider string `toml:"openai_provider,omitempty"` // openai, openrouter
	OpenAIBaseURL  string `toml:"openai_base_url,omitempty"`

	// Keys are kept in memory for usage
	OpenAIKey string `toml:"-"`
	SerperKey string `toml:"-"`
	// Encrypted variants are the ones persisted in the config file
	EncryptedOpenAIKey string `toml:"openai_api_key,omitempty"`
	EncryptedSerperKey string `toml:"serper_api_key,omitempty"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		DefaultProfile: "local",
		MaxResults:     8,
		LogLevel:       "info",
		History: History{
			Driver: "sqlite3",
			Limit:  500,
		},
		Profiles: []Profile{
			{Name: "local", BaseURL: "http://localhost:8000", OpenAIProvider: "openai"},
		},
		Server: Server{
			Listen:       ":8000",
			CacheTTL:     300,
			RateLimit:    5,
			RateBurst:    15,
			AllowOrigins: []string{"*"},
		},
		Theme: Theme{
			// Nord Theme Defaults
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			Warning:       "#D08770",
			BgPrimary:     "#2E3440",
			BgSecondary:   "#3B4252",
			CardBg:        "#434C5E",
			BorderColor:   "#4C566A",
		},
		Keys: KeyMap{
			Submit:    []string{"ctrl+d"},
			Exit:      []string{"ctrl+c"},
			NextField: []string{"tab"},
			PrevField: []string{"shift+tab"},
			Settings:  []string{"ctrl+s"},
			History:   []string{"ctrl+r"},
			Help:      []string{"ctrl+g"},
			Results:   []string{"ctrl+t"},
			Companies: []string{"ctrl+o"},
		},
	}
}

// ConfigPath returns the XDG-compliant config file path
func ConfigPath() (string, error) {
	return xdg.ConfigFile("irfinder/config.toml")
}

// Load loads the config from disk or creates default
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the config at path, creating it with defaults on first run
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// First run: create default
		cfg := DefaultConfig()
		cfg.path = path
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	cfg.path = path

	// Decrypt first so a migration save re-seals the same secrets
	cfg.decryptSecrets()

	// Populate defaults for missing fields (migration)
	if cfg.migrate(DefaultConfig()) {
		// Persist defaults so the user can see/edit them; in-memory values
		// are still usable if the write fails.
		_ = cfg.Save()
	}

	return &cfg, nil
}

// migrate fills sections missing from older config files
func (c *Config) migrate(defaults *Config) bool {
	updated := false
	if c.Theme.TextPrimary == "" {
		c.Theme = defaults.Theme
		updated = true
	}
	if c.Theme.BorderColor == "" {
		c.Theme.BorderColor = defaults.Theme.BorderColor
		updated = true
	}
	if len(c.Keys.Submit) == 0 {
		c.Keys = defaults.Keys
		updated = true
	}
	if len(c.Keys.Companies) == 0 {
		c.Keys.Companies = defaults.Keys.Companies
		updated = true
	}
	if c.MaxResults <= 0 {
		c.MaxResults = defaults.MaxResults
		updated = true
	}
	if c.History.Driver == "" {
		c.History = defaults.History
		updated = true
	}
	if c.Server.Listen == "" {
		c.Server = defaults.Server
		updated = true
	}
	if len(c.Profiles) == 0 {
		c.Profiles = defaults.Profiles
		c.DefaultProfile = defaults.DefaultProfile
		updated = true
	}
	return updated
}

func (c *Config) decryptSecrets() {
	sealer := loadSealer()
	if sealer == nil {
		return
	}
	open := func(enc string) string {
		if enc == "" {
			return ""
		}
		plain, err := sealer.Open(enc)
		if err != nil {
			return ""
		}
		return plain
	}
	for i := range c.Profiles {
		c.Profiles[i].OpenAIKey = open(c.Profiles[i].EncryptedOpenAIKey)
		c.Profiles[i].SerperKey = open(c.Profiles[i].EncryptedSerperKey)
	}
	c.Server.OpenAIKey = open(c.Server.EncryptedOpenAIKey)
	c.Server.SerperKey = open(c.Server.EncryptedSerperKey)
}

func (c *Config) encryptSecrets() {
	sealer := loadSealer()
	if sealer == nil {
		return
	}
	seal := func(plain string, enc *string) {
		if plain == "" {
			*enc = ""
			return
		}
		if sealed, err := sealer.Seal(plain); err == nil {
			*enc = sealed
		}
	}
	for i := range c.Profiles {
		seal(c.Profiles[i].OpenAIKey, &c.Profiles[i].EncryptedOpenAIKey)
		seal(c.Profiles[i].SerperKey, &c.Profiles[i].EncryptedSerperKey)
	}
	seal(c.Server.OpenAIKey, &c.Server.EncryptedOpenAIKey)
	seal(c.Server.SerperKey, &c.Server.EncryptedSerperKey)
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
		c.path = p
	}

	// Ensure directory exists with secure permissions
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	// Create/truncate file with secure permissions (owner read/write only)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	c.encryptSecrets()
	return toml.NewEncoder(f).Encode(c)
}
