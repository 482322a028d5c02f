package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gsivak487/emrgent-labs/internal/model"
)

// EnvPrefix is prepended to every environment override, e.g. FOLIO_BACKEND_URL.
const EnvPrefix = "FOLIO"

type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Server  ServerConfig  `mapstructure:"server"`
	Site    SiteConfig    `mapstructure:"site"`
	Log     LogConfig     `mapstructure:"log"`
}

// BackendConfig locates the content API.
type BackendConfig struct {
	URL          string        `mapstructure:"url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SiteConfig is the chrome around the content plus the build directories.
type SiteConfig struct {
	Brand      string `mapstructure:"brand"`
	LogoURL    string `mapstructure:"logo_url"`
	Tagline    string `mapstructure:"tagline"`
	LayoutsDir string `mapstructure:"layouts_dir"`
	OutputDir  string `mapstructure:"output_dir"`
	StaticDir  string `mapstructure:"static_dir"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ErrConfigNotFound is returned when an explicitly named config file is missing.
var ErrConfigNotFound = errors.New("config file not found")

// SetDefaults registers every key on v. Keys must be known to viper for
// environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend.url", "")
	v.SetDefault("backend.timeout", 15*time.Second)
	v.SetDefault("backend.max_body_bytes", int64(1<<20))

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("site.brand", "Emergent Labs")
	v.SetDefault("site.logo_url", "")
	v.SetDefault("site.tagline", "")
	v.SetDefault("site.layouts_dir", "")
	v.SetDefault("site.output_dir", "public")
	v.SetDefault("site.static_dir", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load resolves configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. An empty cfgFile searches
// the working directory for config.yaml and tolerates its absence. The
// returned string is the config file used, if any.
func Load(cfgFile string) (*Config, string, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && cfgFile == "":
		case cfgFile != "" && isNotExist(err):
			return nil, "", fmt.Errorf("%w: %s", ErrConfigNotFound, cfgFile)
		default:
			return nil, "", fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, used, nil
}

// Validate checks values that would otherwise fail late, at request time.
// An empty backend URL is allowed here; commands that need it check it.
func (c *Config) Validate() error {
	if c.Backend.URL != "" {
		u, err := url.Parse(c.Backend.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("backend.url %q is not an absolute URL", c.Backend.URL)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("backend.url %q must use http or https", c.Backend.URL)
		}
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive, got %s", c.Backend.Timeout)
	}
	if c.Backend.MaxBodyBytes <= 0 {
		return fmt.Errorf("backend.max_body_bytes must be positive, got %d", c.Backend.MaxBodyBytes)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// Data builds the page chrome, overriding the built-in defaults with any
// values set in configuration.
func (s SiteConfig) Data() model.SiteData {
	site := model.DefaultSite()
	if s.Brand != "" {
		site.Brand = s.Brand
	}
	if s.LogoURL != "" {
		site.LogoURL = s.LogoURL
	}
	if s.Tagline != "" {
		site.Tagline = s.Tagline
	}
	return site
}
