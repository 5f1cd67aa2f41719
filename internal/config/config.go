package config

import (
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Sync     SyncConfig
	Kafka    KafkaConfig
}

var (
	ConfigInstance *Config
	once           sync.Once
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type JWTConfig struct {
	Secret         string
	ExpirationTime time.Duration
}

// SyncConfig tunes the flush scheduler and the persistence bypass switch.
type SyncConfig struct {
	FlushInterval     time.Duration
	MaxBatchSize      int
	PersistenceBypass bool
}

// KafkaConfig enables the batch mirror when at least one broker is set.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func LoadConfig() (*Config, error) {
	// Viper setup
	once.Do(func() {
		viper.SetDefault("BOARD_PORT", "8080")
		viper.SetDefault("BOARD_READ_TIMEOUT", 30*time.Second)
		viper.SetDefault("BOARD_WRITE_TIMEOUT", 30*time.Second)
		viper.SetDefault("BOARD_IDLE_TIMEOUT", 60*time.Second)
		viper.SetDefault("BOARD_JWT_SECRET", "secret")
		viper.SetDefault("BOARD_JWT_EXPIRE", "24h")
		viper.SetDefault("BOARD_FLUSH_INTERVAL", 100*time.Millisecond)
		viper.SetDefault("BOARD_MAX_BATCH_SIZE", 200)
		viper.SetDefault("BOARD_PERSISTENCE_BYPASS", false)
		viper.SetDefault("BOARD_KAFKA_BROKERS", "")
		viper.SetDefault("BOARD_KAFKA_TOPIC", "board.batches")
		viper.SetDefault("MYSQL_USER", "root")
		viper.SetDefault("MYSQL_PASSWORD", "password")
		viper.SetDefault("MYSQL_HOST", "localhost")
		viper.SetDefault("MYSQL_PORT", "3306")
		viper.SetDefault("MYSQL_DB", "board")
		viper.AutomaticEnv()

		var brokers []string
		if raw := viper.GetString("BOARD_KAFKA_BROKERS"); raw != "" {
			for _, broker := range strings.Split(raw, ",") {
				brokers = append(brokers, strings.TrimSpace(broker))
			}
		}

		ConfigInstance = &Config{
			Server: ServerConfig{
				Host:         viper.GetString("BOARD_HOST"),
				Port:         viper.GetString("BOARD_PORT"),
				ReadTimeout:  viper.GetDuration("BOARD_READ_TIMEOUT"),
				WriteTimeout: viper.GetDuration("BOARD_WRITE_TIMEOUT"),
				IdleTimeout:  viper.GetDuration("BOARD_IDLE_TIMEOUT"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("MYSQL_HOST"),
				Port:     viper.GetString("MYSQL_PORT"),
				User:     viper.GetString("MYSQL_USER"),
				Password: viper.GetString("MYSQL_PASSWORD"),
				DBName:   viper.GetString("MYSQL_DB"),
			},
			JWT: JWTConfig{
				Secret:         viper.GetString("BOARD_JWT_SECRET"),
				ExpirationTime: viper.GetDuration("BOARD_JWT_EXPIRE"),
			},
			Sync: SyncConfig{
				FlushInterval:     viper.GetDuration("BOARD_FLUSH_INTERVAL"),
				MaxBatchSize:      viper.GetInt("BOARD_MAX_BATCH_SIZE"),
				PersistenceBypass: viper.GetBool("BOARD_PERSISTENCE_BYPASS"),
			},
			Kafka: KafkaConfig{
				Brokers: brokers,
				Topic:   viper.GetString("BOARD_KAFKA_TOPIC"),
			},
		}
	})

	return ConfigInstance, nil
}
