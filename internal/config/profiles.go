// internal/config/profiles.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrProfileNotFound is returned when no profile has the requested name
var ErrProfileNotFound = errors.New("profile not found")

// LLM providers understood by the report finder backend
const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
)

var providerBaseURLs = map[string]string{
	ProviderOpenAI:     "https://api.openai.com/v1",
	ProviderOpenRouter: "https://openrouter.ai/api/v1",
}

// GetProfile retrieves a profile by name
func (c *Config) GetProfile(name string) (*Profile, error) {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// ActiveProfile returns the named profile, falling back to the default one
// and then to the first configured profile
func (c *Config) ActiveProfile(name string) (*Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	if p, err := c.GetProfile(name); err == nil {
		return p, nil
	}
	if name == c.DefaultProfile && len(c.Profiles) > 0 {
		return &c.Profiles[0], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// AddProfile adds a new profile to the config
func (c *Config) AddProfile(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for _, existing := range c.Profiles {
		if existing.Name == p.Name {
			return fmt.Errorf("profile already exists: %s", p.Name)
		}
	}
	c.Profiles = append(c.Profiles, p)
	return c.Save()
}

// UpdateProfile replaces an existing profile
func (c *Config) UpdateProfile(name string, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			c.Profiles[i] = p
			return c.Save()
		}
	}
	return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// DeleteProfile removes a profile from the config
func (c *Config) DeleteProfile(name string) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			return c.Save()
		}
	}
	return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// ListProfiles returns all profile names
func (c *Config) ListProfiles() []string {
	names := make([]string, len(c.Profiles))
	for i, p := range c.Profiles {
		names[i] = p.Name
	}
	return names
}

// Validate checks the profile name and endpoint
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("profile name is required")
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base url %q", p.BaseURL)
	}
	if p.OpenAIProvider != "" {
		if _, ok := providerBaseURLs[p.OpenAIProvider]; !ok {
			return fmt.Errorf("unknown provider %q", p.OpenAIProvider)
		}
	}
	return nil
}

// LLMBaseURL returns the explicit LLM base URL or the provider default
func (p *Profile) LLMBaseURL() string {
	if p.OpenAIBaseURL != "" {
		return p.OpenAIBaseURL
	}
	return ProviderBaseURL(p.OpenAIProvider)
}

// ProviderBaseURL is the default API base for provider, empty if unknown
func ProviderBaseURL(provider string) string {
	return providerBaseURLs[strings.ToLower(provider)]
}

// SetProvider switches provider; the base URL follows unless overridden
func (p *Profile) SetProvider(provider, baseURL string) error {
	if _, ok := providerBaseURLs[provider]; !ok {
		return fmt.Errorf("unknown provider %q", provider)
	}
	p.OpenAIProvider = provider
	p.OpenAIBaseURL = baseURL
	return nil
}

// MaskKey renders an API key for display: ****last4, or "Not configured"
// for anything shorter than 8 characters
func MaskKey(key string) string {
	if len(key) < 8 {
		return "Not configured"
	}
	return "****" + key[len(key)-4:]
}

// Settings is the masked, display-safe view of a profile
type Settings struct {
	Profile        string
	BaseURL        string
	OpenAIKey      string
	SerperKey      string
	OpenAIProvider string
	OpenAIBaseURL  string
}

// Masked returns the display view of the profile
func (p *Profile) Masked() Settings {
	provider := p.OpenAIProvider
	if provider == "" {
		provider = ProviderOpenAI
	}
	baseURL := p.OpenAIBaseURL
	if baseURL == "" {
		baseURL = providerBaseURLs[provider]
	}
	return Settings{
		Profile:        p.Name,
		BaseURL:        p.BaseURL,
		OpenAIKey:      MaskKey(p.OpenAIKey),
		SerperKey:      MaskKey(p.SerperKey),
		OpenAIProvider: provider,
		OpenAIBaseURL:  baseURL,
	}
}
