package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server   ServerConfig
	Bot      BotConfig
	Store    StoreConfig
	Cache    CacheConfig
	Database DatabaseConfig
	Reaper   ReaperConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// BotConfig holds chat-platform settings. Token is the only required value;
// everything else keeps the defaults the bot shipped with.
type BotConfig struct {
	Token        string `envconfig:"BOT_TOKEN" default:""`
	UserID       string `envconfig:"BOT_USER_ID" default:""`
	AdminRole    string `envconfig:"ADMIN_ROLE" default:"Admin"`
	Prefix       string `envconfig:"BOT_PREFIX" default:"$"`
	Watermark    string `envconfig:"WATERMARK" default:"Powered by Semicloud Gen"`
	VouchChannel string `envconfig:"VOUCH_CHANNEL" default:"bot-vouch"`
	PlatformURL  string `envconfig:"PLATFORM_BASE_URL" default:""`
	AdminKey     string `envconfig:"ADMIN_KEY" default:""` // static fallback for the admin API
}

// StoreConfig holds persistence settings for the core stores.
type StoreConfig struct {
	Type       string `envconfig:"STOCK_STORE_TYPE" default:"file"` // file or sqlite
	StockDir   string `envconfig:"STOCK_DIR" default:"./stock"`
	SQLitePath string `envconfig:"STOCK_DB_PATH" default:"./data/stock.db"`
	VouchPath  string `envconfig:"VOUCH_FILE" default:"./data/vouches.json"`
	GenLogPath string `envconfig:"GEN_LOG_FILE" default:"./logs/gen_logs.txt"`
}

// CacheConfig holds Redis settings (operator session tokens).
type CacheConfig struct {
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// DatabaseConfig holds MySQL connection settings (audit mirror + operators).
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"3306"`
	Name     string `envconfig:"DB_NAME" default:"semicloud"`
	User     string `envconfig:"DB_USER" default:"root"`
	Password string `envconfig:"DB_PASS" default:""`
}

// ReaperConfig holds settings for the empty-service reaper.
type ReaperConfig struct {
	Enabled   bool          `envconfig:"REAPER_ENABLED" default:"false"`
	Interval  time.Duration `envconfig:"REAPER_INTERVAL" default:"24h"`
	Threshold time.Duration `envconfig:"REAPER_THRESHOLD" default:"720h"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// DSN returns the MySQL data source name.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
