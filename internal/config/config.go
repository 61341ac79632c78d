// Package config loads run settings from an optional YAML file, an optional
// dotenv file and VISITFACTS_* environment variables. Defaults reproduce the
// original hardcoded share links and output path.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/nulllvoid/visitfacts"
)

const (
	DefaultPatientsURL = "https://drive.google.com/file/d/1-ChQ1qSMeHdt4u1ALCrxRzXhF42_F_R6/view?usp=drive_link"
	DefaultVisitsURL   = "https://drive.google.com/file/d/1-GMpBVPbJyFWxrxO9E3LM5gOD1joHqBu/view?usp=drive_link"
	DefaultDoctorsURL  = "https://drive.google.com/file/d/1-MXken9pABaO5g1PrZIqFfc4VAIjAw2f/view?usp=drive_link"

	EnvPrefix = "VISITFACTS"
)

type Config struct {
	Datasets DatasetsConfig `mapstructure:"datasets"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Output   OutputConfig   `mapstructure:"output"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type DatasetsConfig struct {
	Patients string `mapstructure:"patients"`
	Visits   string `mapstructure:"visits"`
	Doctors  string `mapstructure:"doctors"`
}

type FetchConfig struct {
	DownloadBaseURL string        `mapstructure:"download_base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	UserAgent       string        `mapstructure:"user_agent"`
}

type OutputConfig struct {
	Path       string `mapstructure:"path"`
	SQLitePath string `mapstructure:"sqlite_path"` // empty disables the SQLite sink
}

type PipelineConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	TimestampColumn string        `mapstructure:"timestamp_column"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"` // node-exporter textfile; empty disables
}

// Load reads configuration. envFile and configFile are optional; an explicit
// path that does not exist is an error.
func Load(configFile, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("visitfacts")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	err := v.Unmarshal(&cfg, func(c *mapstructure.DecoderConfig) {
		c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := visitfacts.DefaultConfig()

	v.SetDefault("datasets.patients", DefaultPatientsURL)
	v.SetDefault("datasets.visits", DefaultVisitsURL)
	v.SetDefault("datasets.doctors", DefaultDoctorsURL)

	v.SetDefault("fetch.download_base_url", def.DownloadBaseURL)
	v.SetDefault("fetch.timeout", def.HTTPTimeout.String())
	v.SetDefault("fetch.user_agent", "visitfacts")

	v.SetDefault("output.path", def.OutputPath)
	v.SetDefault("output.sqlite_path", "")

	v.SetDefault("pipeline.timeout", def.Timeout.String())
	v.SetDefault("pipeline.timestamp_column", def.TimestampColumn)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("metrics.textfile", "")
}

func (c *Config) Validate() error {
	if c.Datasets.Patients == "" || c.Datasets.Visits == "" || c.Datasets.Doctors == "" {
		return errors.New("datasets.patients, datasets.visits and datasets.doctors are required")
	}
	if c.Output.Path == "" {
		return errors.New("output.path is required")
	}
	if c.Fetch.Timeout < 0 {
		return errors.New("fetch.timeout must not be negative")
	}
	if c.Pipeline.Timeout < 0 {
		return errors.New("pipeline.timeout must not be negative")
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	if !slices.Contains([]string{"text", "json"}, strings.ToLower(c.Logging.Format)) {
		return fmt.Errorf("logging.format %q is not one of text, json", c.Logging.Format)
	}
	return nil
}

func (c *Config) Request() *visitfacts.Request {
	return visitfacts.NewRequest(c.Datasets.Patients, c.Datasets.Visits, c.Datasets.Doctors)
}

func (c *Config) PipelineConfig() visitfacts.Config {
	return visitfacts.Config{
		Timeout:         c.Pipeline.Timeout,
		HTTPTimeout:     c.Fetch.Timeout,
		DownloadBaseURL: c.Fetch.DownloadBaseURL,
		UserAgent:       c.Fetch.UserAgent,
		OutputPath:      c.Output.Path,
		SQLitePath:      c.Output.SQLitePath,
		TimestampColumn: c.Pipeline.TimestampColumn,
	}
}
