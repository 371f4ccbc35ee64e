package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vcrobe/nojs-pwa/manifest"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pwa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
app:
  name: Field Notes
manifest:
  display: minimal-ui
  theme_color: "#123"
  icons:
    - src: icon-192.png
      sizes: 192x192
      type: image/png
server:
  addr: 127.0.0.1:9000
  shutdown_timeout: 30s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Field Notes", cfg.App.Name)
	assert.Equal(t, "minimal-ui", cfg.Manifest.Display)
	assert.Equal(t, "#123", cfg.Manifest.ThemeColor)
	assert.Equal(t, "#ffffff", cfg.Manifest.BackgroundColor, "unset keys keep defaults")
	assert.Equal(t, []manifest.Icon{{Src: "icon-192.png", Sizes: "192x192", Type: "image/png"}}, cfg.Manifest.Icons)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout.Std())
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout.Std())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "app:\n  name: From File\n")
	t.Setenv("NOJSPWA_APP_NAME", "From Env")
	t.Setenv("NOJSPWA_SERVER_METRICS", "true")
	t.Setenv("NOJSPWA_SERVICE_WORKER_MODE", "unregister")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.App.Name)
	assert.True(t, cfg.Server.Metrics)
	assert.Equal(t, "unregister", cfg.ServiceWorker.Mode)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeFile(t, `
app:
  name: ""
service_worker:
  mode: sometimes
manifest:
  theme_color: blue
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, manifest.ErrInvalid)
	assert.Contains(t, err.Error(), "app.name is required")
	assert.Contains(t, err.Error(), "service_worker.mode")
}

func TestWebManifest_NamesMatchAppName(t *testing.T) {
	cfg := Default()
	cfg.App.Name = "Trail Log"

	m := cfg.WebManifest()
	assert.Equal(t, "Trail Log", m.ShortName)
	assert.Equal(t, "Trail Log", m.Name)
	assert.Equal(t, ".", m.StartURL)
	assert.Equal(t, manifest.Standalone, m.Display)
	require.NoError(t, m.Validate())
}

func TestWebManifest_ExplicitShortName(t *testing.T) {
	cfg := Default()
	cfg.App.Name = "Trail Log Deluxe"
	cfg.App.ShortName = "Trail"

	m := cfg.WebManifest()
	assert.Equal(t, "Trail", m.ShortName)
	assert.Equal(t, "Trail Log Deluxe", m.Name)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, WriteDefault(path, false))

	// Arrange: the written file must load back to the defaults
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// Act / Assert: no silent overwrite
	err = WriteDefault(path, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrExist)
	require.NoError(t, WriteDefault(path, true))
}

func TestDuration_YAML(t *testing.T) {
	t.Parallel()

	var s struct {
		D Duration `yaml:"d"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("d: 1m30s\n"), &s))
	assert.Equal(t, 90*time.Second, s.D.Std())

	out, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, "d: 1m30s\n", string(out))

	assert.Error(t, yaml.Unmarshal([]byte("d: soon\n"), &s))
}
