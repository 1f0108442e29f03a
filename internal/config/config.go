package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultSourceDir = "site"
	DefaultOutputDir = "build"
	EnvPrefix        = "XMTPSITE"
)

// Config holds the generator's own settings. The site itself is described by Site.
type Config struct {
	SourceDir string `mapstructure:"sourceDir"`
	OutputDir string `mapstructure:"outputDir"`
	SiteFile  string `mapstructure:"siteFile"`
	Port      int    `mapstructure:"port"`
	LogLevel  string `mapstructure:"logLevel"`
	Workers   int    `mapstructure:"workers"`
}

// Load reads settings from cfgFile (or ./xmtp-site.yaml when present), the
// XMTPSITE_* environment and any bound flags, in viper's usual precedence.
// It returns the config file used, if any.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, string, error) {
	v := viper.New()

	v.SetDefault("sourceDir", DefaultSourceDir)
	v.SetDefault("outputDir", DefaultOutputDir)
	v.SetDefault("siteFile", "site.yaml")
	v.SetDefault("port", 3000)
	v.SetDefault("logLevel", "info")
	v.SetDefault("workers", runtime.NumCPU())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("xmtp-site")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range map[string]string{
			"sourceDir": "source",
			"outputDir": "out",
			"logLevel":  "log-level",
			"port":      "port",
			"workers":   "workers",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, "", fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return Config{}, "", fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, used, nil
}
