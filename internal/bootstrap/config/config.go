package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/chittyos/intake/internal/bootstrap/logging"
	"github.com/chittyos/intake/internal/errs"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Stream   StreamConfig   `mapstructure:"stream"`
	Workflow WorkflowConfig `mapstructure:"workflow"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	Bucket        string `mapstructure:"bucket"`
	ArchiveBucket string `mapstructure:"archive_bucket"`
	Region        string `mapstructure:"region"`
	Endpoint      string `mapstructure:"endpoint"`
}

type StreamConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	URL              string `mapstructure:"url"`
	ConsiderSubject  string `mapstructure:"consider_subject"`
	QualifiedSubject string `mapstructure:"qualified_subject"`
}

type WorkflowConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	ProfileFile string        `mapstructure:"profile_file"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// FetchConfig carries per-source origin endpoints. The fetch timeout bounds
// every source call; a timed-out fetch is a definite failure, never retried
// internally.
type FetchConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	CloudDriveURL    string        `mapstructure:"cloud_drive_url"`
	EmailStoreURL    string        `mapstructure:"email_store_url"`
	CourtGatewayURL  string        `mapstructure:"court_gateway_url"`
	CourtGatewayKey  string        `mapstructure:"court_gateway_key"`
	ClientPortalURL  string        `mapstructure:"client_portal_url"`
	ClientPortalKey  string        `mapstructure:"client_portal_key"`
	StagingBucket    string        `mapstructure:"staging_bucket"`
	StagingKeyPrefix string        `mapstructure:"staging_key_prefix"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CHITTY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is provided.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Bool("stream_enabled", cfg.Stream.Enabled),
	)

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if cfg.Storage.Bucket == "" {
		return errors.New("storage.bucket is required")
	}
	if cfg.Stream.Enabled && strings.TrimSpace(cfg.Stream.URL) == "" {
		return errors.New("stream.url is required when stream.enabled")
	}
	if cfg.Fetch.Timeout <= 0 {
		return errors.New("fetch.timeout must be positive")
	}
	if cfg.Workflow.Timeout <= 0 {
		return errors.New("workflow.timeout must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "chittyintake")
	v.SetDefault("app.env", "local")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".chitty/state/intake.sqlite")
	v.SetDefault("server.addr", ":8084")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("storage.bucket", "chitty-intake-documents")
	v.SetDefault("storage.archive_bucket", "chitty-intake-rejections")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("stream.enabled", false)
	v.SetDefault("stream.consider_subject", "intake.consider")
	v.SetDefault("stream.qualified_subject", "intake.qualified")
	v.SetDefault("workflow.base_url", "http://localhost:8090")
	v.SetDefault("workflow.profile_file", "configs/workflow.toml")
	v.SetDefault("workflow.timeout", 20*time.Second)
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.staging_key_prefix", "staging/")
}
