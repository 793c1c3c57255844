package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Strategy selects how a profile is provisioned.
type Strategy string

const (
	// StrategyDirect writes the account straight into the profiles store.
	StrategyDirect Strategy = "direct"

	// StrategyImport hands a PRF file to Outlook's importer and repairs
	// the result afterwards.
	StrategyImport Strategy = "import"
)

// OutlookConfig describes where the target mail client keeps its state.
type OutlookConfig struct {
	// Version is the Office version segment of the profiles key, e.g. "16.0".
	Version string `mapstructure:"version" yaml:"version"`

	// Executables is the ordered list of well-known OUTLOOK.EXE locations.
	Executables []string `mapstructure:"executables" yaml:"executables"`
}

// ProfilesPath returns the per-user profiles key for the configured version.
func (o OutlookConfig) ProfilesPath() string {
	return `Software\Microsoft\Office\` + o.Version + `\Outlook\Profiles`
}

// ProvisionConfig tunes the provisioning run.
type ProvisionConfig struct {
	Strategy       Strategy      `mapstructure:"strategy" yaml:"strategy"`
	ImportTimeout  time.Duration `mapstructure:"import_timeout" yaml:"import_timeout"`
	SettleTimeout  time.Duration `mapstructure:"settle_timeout" yaml:"settle_timeout"`
	SettleInterval time.Duration `mapstructure:"settle_interval" yaml:"settle_interval"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Servers   ServerSettings  `mapstructure:"servers" yaml:"servers"`
	Outlook   OutlookConfig   `mapstructure:"outlook" yaml:"outlook"`
	Provision ProvisionConfig `mapstructure:"provision" yaml:"provision"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

const defaultMailHost = "mail.kurumsaleposta.com"

// DefaultExecutables lists the install locations probed for OUTLOOK.EXE,
// Click-to-Run first.
var DefaultExecutables = []string{
	`C:\Program Files\Microsoft Office\root\Office16\OUTLOOK.EXE`,
	`C:\Program Files (x86)\Microsoft Office\root\Office16\OUTLOOK.EXE`,
	`C:\Program Files\Microsoft Office\Office16\OUTLOOK.EXE`,
	`C:\Program Files (x86)\Microsoft Office\Office16\OUTLOOK.EXE`,
}

// DefaultConfigPath returns the default path for the configuration file,
// located at <user config dir>/clerk/config.yaml.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(dir, "clerk", "config.yaml")
}

// DefaultAppConfig returns the built-in deployment configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Servers: ServerSettings{
			Incoming: Endpoint{Host: defaultMailHost, Port: 110},
			Outgoing: Endpoint{Host: defaultMailHost, Port: 587},
		},
		Outlook: OutlookConfig{
			Version:     "16.0",
			Executables: append([]string(nil), DefaultExecutables...),
		},
		Provision: ProvisionConfig{
			Strategy:       StrategyImport,
			ImportTimeout:  30 * time.Second,
			SettleTimeout:  10 * time.Second,
			SettleInterval: 250 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Values may be overridden with CLERK_-prefixed environment variables.
// If the file does not exist, the defaults are used.
func LoadConfig(path string) (*AppConfig, error) {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CLERK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("servers.incoming.host", def.Servers.Incoming.Host)
	v.SetDefault("servers.incoming.port", def.Servers.Incoming.Port)
	v.SetDefault("servers.outgoing.host", def.Servers.Outgoing.Host)
	v.SetDefault("servers.outgoing.port", def.Servers.Outgoing.Port)
	v.SetDefault("outlook.version", def.Outlook.Version)
	v.SetDefault("outlook.executables", def.Outlook.Executables)
	v.SetDefault("provision.strategy", string(def.Provision.Strategy))
	v.SetDefault("provision.import_timeout", def.Provision.ImportTimeout)
	v.SetDefault("provision.settle_timeout", def.Provision.SettleTimeout)
	v.SetDefault("provision.settle_interval", def.Provision.SettleInterval)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the settings provisioning depends on.
func (c *AppConfig) Validate() error {
	switch c.Provision.Strategy {
	case StrategyDirect, StrategyImport:
	default:
		return fmt.Errorf("unknown provision strategy %q", c.Provision.Strategy)
	}

	for name, ep := range map[string]Endpoint{
		"incoming": c.Servers.Incoming,
		"outgoing": c.Servers.Outgoing,
	} {
		if strings.TrimSpace(ep.Host) == "" {
			return fmt.Errorf("%s server host is required", name)
		}
		if ep.Port <= 0 || ep.Port > 65535 {
			return fmt.Errorf("%s server port %d out of range", name, ep.Port)
		}
	}

	if strings.TrimSpace(c.Outlook.Version) == "" {
		return fmt.Errorf("outlook version is required")
	}
	if c.Provision.SettleInterval <= 0 {
		return fmt.Errorf("settle interval must be positive")
	}

	return nil
}
