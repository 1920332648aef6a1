package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/questdb"
)

// Source drivers selectable via SOURCE_DRIVER.
const (
	DriverQuestDB = "questdb"
	DriverSQLite  = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	App       AppConfig       `envPrefix:"APP_"`
	Cache     CacheConfig     `envPrefix:"CACHE_"`
	Source    SourceConfig    `envPrefix:"SOURCE_"`
	QuestDB   questdb.Config  `envPrefix:"QUESTDB_"`
	SQLite    SQLiteConfig    `envPrefix:"SQLITE_"`
	FillKafka FillKafkaConfig `envPrefix:"FILL_KAFKA_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"orderbook-proxy"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// CacheConfig represents the hour cache configuration.
type CacheConfig struct {
	// Capacity is the number of hour buckets kept in memory, one week by default.
	Capacity int `env:"CAPACITY" envDefault:"168"`
}

// SourceConfig selects the fill source backing the cache.
type SourceConfig struct {
	Driver string `env:"DRIVER" envDefault:"questdb"`
}

// SQLiteConfig represents the sqlite-backed fill dataset configuration.
type SQLiteConfig struct {
	Path string `env:"PATH" envDefault:"./data/fills.db"`
}

// FillKafkaConfig represents the Kafka configuration for the fill ingest.
type FillKafkaConfig struct {
	Brokers       []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic         string   `env:"TOPIC" envDefault:"fills"`
	ConsumerGroup string   `env:"CONSUMER_GROUP" envDefault:"orderbook-proxy"`
}

// Validate checks cross-field constraints that env tags cannot express.
func (c *Config) Validate() error {
	if c.Cache.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be positive, got %d", c.Cache.Capacity)
	}
	if c.Source.Driver != DriverQuestDB && c.Source.Driver != DriverSQLite {
		return fmt.Errorf("unknown source driver: %s", c.Source.Driver)
	}
	return nil
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
