// Package config loads pwa.yaml, the single file that drives the build,
// the static server and the generated web app manifest.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/vcrobe/nojs-pwa/manifest"
	"github.com/vcrobe/nojs-pwa/serviceworker"
)

// DefaultFile is the config file looked up when no path is given.
const DefaultFile = "pwa.yaml"

// EnvPrefix prefixes environment overrides, e.g. NOJSPWA_SERVER_ADDR.
const EnvPrefix = "NOJSPWA"

// Config is the full pwa.yaml document.
type Config struct {
	App           App           `mapstructure:"app" yaml:"app"`
	Manifest      Manifest      `mapstructure:"manifest" yaml:"manifest"`
	ServiceWorker ServiceWorker `mapstructure:"service_worker" yaml:"service_worker"`
	Build         Build         `mapstructure:"build" yaml:"build"`
	Server        Server        `mapstructure:"server" yaml:"server"`
	Log           Log           `mapstructure:"log" yaml:"log"`
}

type App struct {
	Name        string `mapstructure:"name" yaml:"name"`
	ShortName   string `mapstructure:"short_name" yaml:"short_name,omitempty"`
	Description string `mapstructure:"description" yaml:"description,omitempty"`
}

type Manifest struct {
	StartURL        string          `mapstructure:"start_url" yaml:"start_url"`
	Display         string          `mapstructure:"display" yaml:"display"`
	ThemeColor      string          `mapstructure:"theme_color" yaml:"theme_color"`
	BackgroundColor string          `mapstructure:"background_color" yaml:"background_color"`
	Icons           []manifest.Icon `mapstructure:"icons" yaml:"icons"`
}

type ServiceWorker struct {
	Mode    string `mapstructure:"mode" yaml:"mode"`
	Script  string `mapstructure:"script" yaml:"script"`
	Workbox string `mapstructure:"workbox" yaml:"workbox"`
}

type Build struct {
	OutDir    string   `mapstructure:"out_dir" yaml:"out_dir"`
	Wasm      string   `mapstructure:"wasm" yaml:"wasm"`
	WasmExec  string   `mapstructure:"wasm_exec" yaml:"wasm_exec"`
	Styles    []string `mapstructure:"styles" yaml:"styles,omitempty"`
	PublicDir string   `mapstructure:"public_dir" yaml:"public_dir"`
}

type Server struct {
	Addr            string   `mapstructure:"addr" yaml:"addr"`
	Dir             string   `mapstructure:"dir" yaml:"dir"`
	Metrics         bool     `mapstructure:"metrics" yaml:"metrics"`
	ReadTimeout     Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	ShutdownTimeout Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default is the configuration of a freshly initialised project.
func Default() Config {
	m := manifest.Default("nojs PWA")
	return Config{
		App: App{
			Name:        "nojs PWA",
			Description: "An installable Go/WASM app with two routes.",
		},
		Manifest: Manifest{
			StartURL:        m.StartURL,
			Display:         string(m.Display),
			ThemeColor:      m.ThemeColor,
			BackgroundColor: m.BackgroundColor,
			Icons:           m.Icons,
		},
		ServiceWorker: ServiceWorker{
			Mode:    serviceworker.Register.String(),
			Script:  serviceworker.DefaultScriptURL,
			Workbox: serviceworker.DefaultWorkboxVersion,
		},
		Build: Build{
			OutDir:    "dist",
			Wasm:      "main.wasm",
			WasmExec:  "wasm_exec.js",
			PublicDir: "public",
		},
		Server: Server{
			Addr:            ":8080",
			Dir:             "dist",
			ReadTimeout:     Duration(10 * time.Second),
			ShutdownTimeout: Duration(5 * time.Second),
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("app.name", d.App.Name)
	v.SetDefault("app.short_name", d.App.ShortName)
	v.SetDefault("app.description", d.App.Description)
	v.SetDefault("manifest.start_url", d.Manifest.StartURL)
	v.SetDefault("manifest.display", d.Manifest.Display)
	v.SetDefault("manifest.theme_color", d.Manifest.ThemeColor)
	v.SetDefault("manifest.background_color", d.Manifest.BackgroundColor)
	v.SetDefault("manifest.icons", d.Manifest.Icons)
	v.SetDefault("service_worker.mode", d.ServiceWorker.Mode)
	v.SetDefault("service_worker.script", d.ServiceWorker.Script)
	v.SetDefault("service_worker.workbox", d.ServiceWorker.Workbox)
	v.SetDefault("build.out_dir", d.Build.OutDir)
	v.SetDefault("build.wasm", d.Build.Wasm)
	v.SetDefault("build.wasm_exec", d.Build.WasmExec)
	v.SetDefault("build.styles", d.Build.Styles)
	v.SetDefault("build.public_dir", d.Build.PublicDir)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.dir", d.Server.Dir)
	v.SetDefault("server.metrics", d.Server.Metrics)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout.String())
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout.String())
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load reads path (or DefaultFile when path is empty) over the defaults and
// applies NOJSPWA_* environment overrides. A missing DefaultFile is not an
// error; a missing explicit path is.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook())); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields the build depends on.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.App.Name) == "" {
		errs = append(errs, errors.New("app.name is required"))
	}
	if _, err := serviceworker.ParseMode(c.ServiceWorker.Mode); err != nil {
		errs = append(errs, fmt.Errorf("service_worker.mode: %w", err))
	}
	if !strings.HasPrefix(c.ServiceWorker.Script, "/") {
		errs = append(errs, fmt.Errorf("service_worker.script must be absolute, got %q", c.ServiceWorker.Script))
	}
	if err := c.WebManifest().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// WebManifest builds manifest.json from the config. Both names are the
// configured app name; short_name only differs when set explicitly.
func (c Config) WebManifest() manifest.Manifest {
	m := manifest.Default(c.App.Name)
	if c.App.ShortName != "" {
		m.ShortName = c.App.ShortName
	}
	if c.Manifest.StartURL != "" {
		m.StartURL = c.Manifest.StartURL
	}
	if c.Manifest.Display != "" {
		m.Display = manifest.Display(c.Manifest.Display)
	}
	if c.Manifest.ThemeColor != "" {
		m.ThemeColor = c.Manifest.ThemeColor
	}
	if c.Manifest.BackgroundColor != "" {
		m.BackgroundColor = c.Manifest.BackgroundColor
	}
	if len(c.Manifest.Icons) > 0 {
		m.Icons = append([]manifest.Icon(nil), c.Manifest.Icons...)
	}
	return m
}

// WriteDefault writes the default config to path. It refuses to overwrite
// an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	cfg := Default()
	if err := enc.Encode(&cfg); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
