package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"illitworld/internal/storage"
)

// Config holds all illitworld configuration.
type Config struct {
	// DataDir holds the database, the session file and the optional .env.
	DataDir string `yaml:"data_dir"`

	Storage     StorageConfig     `yaml:"storage"`
	Progression ProgressionConfig `yaml:"progression"`
	Player      PlayerConfig      `yaml:"player"`
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type StorageConfig struct {
	Driver      string `yaml:"driver"` // sqlite, postgres, dynamodb
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresURL string `yaml:"postgres_url"`
	DynamoTable string `yaml:"dynamo_table"`
	AWSRegion   string `yaml:"aws_region"`
}

type ProgressionConfig struct {
	XPPerLevel      int     `yaml:"xp_per_level"`
	RewardThreshold float64 `yaml:"reward_threshold"`
}

type PlayerConfig struct {
	PollInterval string `yaml:"poll_interval"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	JWTSecret string `yaml:"jwt_secret"`
	TokenTTL  string `yaml:"token_ttl"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// DefaultDataDir returns ~/.illitworld.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".illitworld"
	}
	return filepath.Join(home, ".illitworld")
}

// DefaultPath returns the config file location inside the default data dir.
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

func DefaultConfig() *Config {
	dir := DefaultDataDir()
	return &Config{
		DataDir: dir,
		Storage: StorageConfig{
			Driver:      storage.DriverSQLite,
			SQLitePath:  filepath.Join(dir, "illitworld.db"),
			DynamoTable: storage.DefaultDynamoTable,
			AWSRegion:   "us-east-1",
		},
		Progression: ProgressionConfig{
			XPPerLevel:      200,
			RewardThreshold: 0.9,
		},
		Player: PlayerConfig{
			PollInterval: "1s",
		},
		Server: ServerConfig{
			Addr:     "127.0.0.1:8420",
			TokenTTL: "24h",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path. A missing file yields defaults. A .env
// file in the data dir is loaded into the environment before overrides are
// applied; variables already set win.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := godotenv.Load(filepath.Join(cfg.DataDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ILLITWORLD_DB"); v != "" {
		c.Storage.SQLitePath = v
	}
	if v := os.Getenv("ILLITWORLD_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("ILLITWORLD_POSTGRES_URL"); v != "" {
		c.Storage.PostgresURL = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.Storage.AWSRegion = v
	}
	if v := os.Getenv("ILLITWORLD_DYNAMO_TABLE"); v != "" {
		c.Storage.DynamoTable = v
	}
	if v := os.Getenv("ILLITWORLD_JWT_SECRET"); v != "" {
		c.Server.JWTSecret = v
	}
	if v := os.Getenv("ILLITWORLD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case storage.DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for sqlite")
		}
	case storage.DriverPostgres:
		if c.Storage.PostgresURL == "" {
			return errors.New("storage.postgres_url is required for postgres")
		}
	case storage.DriverDynamo:
		if c.Storage.DynamoTable == "" {
			return errors.New("storage.dynamo_table is required for dynamodb")
		}
	default:
		return fmt.Errorf("unsupported storage driver: %q", c.Storage.Driver)
	}
	if c.Progression.XPPerLevel <= 0 {
		return fmt.Errorf("progression.xp_per_level must be positive, got %d", c.Progression.XPPerLevel)
	}
	if t := c.Progression.RewardThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("progression.reward_threshold must be in (0, 1], got %v", t)
	}
	if _, err := time.ParseDuration(c.Player.PollInterval); err != nil {
		return fmt.Errorf("player.poll_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Server.TokenTTL); err != nil {
		return fmt.Errorf("server.token_ttl: %w", err)
	}
	return nil
}

func (c *Config) StoreOptions() storage.Options {
	return storage.Options{
		Driver:      c.Storage.Driver,
		SQLitePath:  c.Storage.SQLitePath,
		PostgresURL: c.Storage.PostgresURL,
		DynamoTable: c.Storage.DynamoTable,
		AWSRegion:   c.Storage.AWSRegion,
	}
}

// GetPollInterval returns the player poll interval, defaulting to one second.
func (c *Config) GetPollInterval() time.Duration {
	d, err := time.ParseDuration(c.Player.PollInterval)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

func (c *Config) GetTokenTTL() time.Duration {
	d, err := time.ParseDuration(c.Server.TokenTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// SessionPath is where the local sign-in session is kept.
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.yaml")
}
