package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMasterKey(t *testing.T, key []byte, err error) {
	t.Helper()
	orig := masterKey
	masterKey = func() ([]byte, error) { return key, err }
	t.Cleanup(func() { masterKey = orig })
}

func TestLoadFrom_CreatesDefaults(t *testing.T) {
	withMasterKey(t, bytes.Repeat([]byte{7}, 32), nil)
	path := filepath.Join(t.TempDir(), "irfinder", "config.toml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, "local", cfg.DefaultProfile)
	assert.Equal(t, 8, cfg.MaxResults)
	assert.Equal(t, "sqlite3", cfg.History.Driver)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSaveLoad_EncryptsKeys(t *testing.T) {
	withMasterKey(t, bytes.Repeat([]byte{1}, 32), nil)
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	cfg.Profiles[0].OpenAIKey = "sk-openai-1234567890"
	cfg.Profiles[0].SerperKey = "serper-abcdefgh"
	cfg.Server.SerperKey = "server-serper-key"
	require.NoError(t, cfg.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "sk-openai-1234567890")
	assert.NotContains(t, string(raw), "server-serper-key")
	assert.Contains(t, string(raw), "openai_api_key")

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-openai-1234567890", loaded.Profiles[0].OpenAIKey)
	assert.Equal(t, "serper-abcdefgh", loaded.Profiles[0].SerperKey)
	assert.Equal(t, "server-serper-key", loaded.Server.SerperKey)
}

func TestLoad_NoKeyringKeepsSecretsInMemory(t *testing.T) {
	withMasterKey(t, nil, errors.New("no keyring"))
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	cfg.Profiles[0].OpenAIKey = "sk-never-written"
	require.NoError(t, cfg.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "sk-never-written")
}

func TestLoad_MigratesMissingSections(t *testing.T) {
	withMasterKey(t, bytes.Repeat([]byte{2}, 32), nil)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("default_profile = \"prod\"\n\n[[profiles]]\nname = \"prod\"\nbase_url = \"https://irf.example.com\"\n"), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.DefaultProfile)
	assert.Equal(t, 8, cfg.MaxResults)
	assert.NotEmpty(t, cfg.Keys.Submit)
	assert.Equal(t, ":8000", cfg.Server.Listen)

	p, err := cfg.ActiveProfile("")
	require.NoError(t, err)
	assert.Equal(t, "https://irf.example.com", p.BaseURL)
}

func TestSealer(t *testing.T) {
	s, err := NewSealer(bytes.Repeat([]byte{3}, 32))
	require.NoError(t, err)

	sealed, err := s.Seal("secret")
	require.NoError(t, err)
	again, err := s.Seal("secret")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per seal")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "secret", plain)

	_, err = s.Open("abcd")
	assert.ErrorIs(t, err, ErrCiphertextTooShort)

	_, err = NewSealer([]byte("short"))
	assert.Error(t, err)
}

func TestProfiles(t *testing.T) {
	withMasterKey(t, bytes.Repeat([]byte{4}, 32), nil)
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	require.NoError(t, cfg.AddProfile(Profile{Name: "prod", BaseURL: "https://irf.example.com", OpenAIProvider: ProviderOpenRouter}))
	assert.Equal(t, []string{"local", "prod"}, cfg.ListProfiles())

	err = cfg.AddProfile(Profile{Name: "prod", BaseURL: "https://other.example.com"})
	assert.Error(t, err)

	err = cfg.AddProfile(Profile{Name: "bad", BaseURL: "not a url"})
	assert.Error(t, err)

	p, err := cfg.GetProfile("prod")
	require.NoError(t, err)
	assert.Equal(t, "https://openrouter.ai/api/v1", p.LLMBaseURL())

	_, err = cfg.GetProfile("missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
	_, err = cfg.ActiveProfile("missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	require.NoError(t, cfg.DeleteProfile("prod"))
	assert.ErrorIs(t, cfg.DeleteProfile("prod"), ErrProfileNotFound)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "Not configured", MaskKey(""))
	assert.Equal(t, "Not configured", MaskKey("1234567"))
	assert.Equal(t, "****5678", MaskKey("12345678"))
	assert.Equal(t, "****wxyz", MaskKey("sk-abcdefwxyz"))
}

func TestProfileMasked(t *testing.T) {
	p := Profile{Name: "local", BaseURL: "http://localhost:8000", SerperKey: "serper-0000-9999"}
	s := p.Masked()
	assert.Equal(t, "Not configured", s.OpenAIKey)
	assert.Equal(t, "****9999", s.SerperKey)
	assert.Equal(t, ProviderOpenAI, s.OpenAIProvider)
	assert.Equal(t, "https://api.openai.com/v1", s.OpenAIBaseURL)

	require.NoError(t, p.SetProvider(ProviderOpenRouter, ""))
	assert.Equal(t, "https://openrouter.ai/api/v1", p.Masked().OpenAIBaseURL)
	assert.Error(t, p.SetProvider("anthropic", ""))
}
