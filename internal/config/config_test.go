package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghsearch/internal/eventbus"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigServiceAt(filepath.Join(t.TempDir(), "nope", "config.toml"), nil)

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghsearch", "config.toml")
	svc := NewConfigServiceAt(path, nil)

	cfg := DefaultConfig()
	cfg.Token = "ghp_example"
	cfg.UISettings.Theme = ThemeDark
	cfg.UISettings.Debounce = "0s"
	cfg.Log.Level = "debug"

	require.NoError(t, svc.Save(cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
api_base_url = "https://ghe.example.com/api/v3"

[ui]
theme = "dark"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := NewConfigServiceAt(path, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, "https://ghe.example.com/api/v3/", cfg.APIBaseURL)
	assert.True(t, cfg.IsDark())
	assert.Equal(t, DefaultDebounce, cfg.UISettings.Debounce)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultLogFile, cfg.Log.File)
	assert.Equal(t, "ghe.example.com", cfg.Host())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "version = = 1"},
		{"bad theme", "[ui]\ntheme = \"solarized\""},
		{"bad debounce", "[ui]\ndebounce = \"soon\""},
		{"negative timeout", "timeout = \"-1s\""},
		{"bad scheme", "api_base_url = \"ftp://api.github.com/\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := NewConfigServiceAt(path, nil).Load()
			require.Error(t, err)
		})
	}
}

func TestLoadFromPathMissing(t *testing.T) {
	_, err := NewConfigServiceAt("", nil).LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestDurationsAndTheme(t *testing.T) {
	cfg := DefaultConfig()

	d, err := cfg.DebounceDuration()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	timeout, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)

	cfg.UISettings.Theme = ThemeLight
	assert.False(t, cfg.IsDark())
	assert.Equal(t, ThemeDark, cfg.ToggleTheme())
	assert.True(t, cfg.IsDark())
	assert.Equal(t, ThemeLight, cfg.ToggleTheme())
}

func stubSystemTheme(t *testing.T, dark bool) {
	t.Helper()
	prev := systemIsDark
	systemIsDark = func() bool { return dark }
	t.Cleanup(func() { systemIsDark = prev })
}

func TestUnsetThemeFollowsTerminal(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, ThemeSystem, cfg.UISettings.Theme)
	require.NoError(t, cfg.Validate())

	stubSystemTheme(t, true)
	assert.True(t, cfg.IsDark())
	assert.Equal(t, ThemeLight, cfg.ToggleTheme(), "toggling from a dark terminal picks light")

	cfg.UISettings.Theme = ThemeSystem
	stubSystemTheme(t, false)
	assert.False(t, cfg.IsDark())
	assert.Equal(t, ThemeDark, cfg.ToggleTheme())
}

func TestUnsetThemeIsNotWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, NewConfigServiceAt(path, nil).Save(DefaultConfig()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "theme")

	loaded, err := NewConfigServiceAt(path, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, ThemeSystem, loaded.UISettings.Theme)
}

func TestHost(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "github.com", cfg.Host())

	cfg.APIBaseURL = "http://127.0.0.1:8080/"
	assert.Equal(t, "127.0.0.1", cfg.Host())

	cfg.APIBaseURL = "://bad"
	assert.Equal(t, "github.com", cfg.Host())
}

func TestSavePublishesEvent(t *testing.T) {
	bus := eventbus.New()
	var mu sync.Mutex
	var saved []string
	bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
		mu.Lock()
		defer mu.Unlock()
		saved = append(saved, e.(eventbus.ConfigSavedEvent).Path)
	})

	path := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigServiceAt(path, bus)
	require.NoError(t, svc.Save(DefaultConfig()))
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{path}, saved)
}

func TestResolveToken(t *testing.T) {
	lookup := func(host string) (string, string) {
		if host == "github.com" {
			return "env-token", "GH_TOKEN"
		}
		return "", ""
	}
	cfg := DefaultConfig()

	token, source := ResolveToken("flag-token", cfg, lookup)
	assert.Equal(t, "flag-token", token)
	assert.Equal(t, TokenSourceFlag, source)

	cfg.Token = "file-token"
	token, source = ResolveToken("", cfg, lookup)
	assert.Equal(t, "file-token", token)
	assert.Equal(t, TokenSourceConfig, source)

	cfg.Token = ""
	token, source = ResolveToken("", cfg, lookup)
	assert.Equal(t, "env-token", token)
	assert.Equal(t, "GH_TOKEN", source)

	cfg.APIBaseURL = "https://ghe.example.com/api/v3/"
	token, source = ResolveToken("", cfg, lookup)
	assert.Equal(t, "", token)
	assert.Equal(t, TokenSourceNone, source)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "<empty>", MaskToken(""))
	assert.Equal(t, "****", MaskToken("short"))
	assert.Equal(t, "ghp_****", MaskToken("ghp_0123456789abcdef"))
}
