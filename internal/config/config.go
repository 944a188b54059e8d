// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration parameters for the alerts service.
type Config struct {
	KafkaBrokers      string
	AccountEntryTopic string
	EmailTopic        string
	SMSTopic          string
	PushTopic         string
	ConsumerGroupID   string
	DatabaseURL       string
	RedisAddr         string
	SettingsCacheTTL  time.Duration
	HTTPAddr          string
	LogLevel          string
}

// Default returns the configuration used for local development.
func Default() *Config {
	return &Config{
		KafkaBrokers:      "localhost:9092",
		AccountEntryTopic: "accountentry",
		EmailTopic:        "outboundemailmessage",
		SMSTopic:          "outboundsmsmessage",
		PushTopic:         "outboundcustomerpushmessage",
		ConsumerGroupID:   "balance-alerts",
		RedisAddr:         "localhost:6379",
		SettingsCacheTTL:  5 * time.Minute,
		HTTPAddr:          ":8080",
		LogLevel:          "info",
	}
}

// Load reads an optional .env file, then overrides the defaults with any
// environment variables that are set, and validates the result.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := Default()
	setString(&cfg.KafkaBrokers, "KAFKA_BROKERS")
	setString(&cfg.AccountEntryTopic, "ACCOUNT_ENTRY_TOPIC")
	setString(&cfg.EmailTopic, "EMAIL_TOPIC")
	setString(&cfg.SMSTopic, "SMS_TOPIC")
	setString(&cfg.PushTopic, "PUSH_TOPIC")
	setString(&cfg.ConsumerGroupID, "CONSUMER_GROUP_ID")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	if v, ok := os.LookupEnv("SETTINGS_CACHE_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SETTINGS_CACHE_TTL: %w", err)
		}
		cfg.SettingsCacheTTL = ttl
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

// Validate checks that all required configuration fields are set and have valid values.
// An empty DatabaseURL or RedisAddr is allowed: the service then keeps
// settings in memory or runs without the cache.
func (c *Config) Validate() error {
	if c.KafkaBrokers == "" {
		return fmt.Errorf("kafka-brokers cannot be empty")
	}
	if c.AccountEntryTopic == "" {
		return fmt.Errorf("account-entry-topic cannot be empty")
	}
	if c.EmailTopic == "" {
		return fmt.Errorf("email-topic cannot be empty")
	}
	if c.SMSTopic == "" {
		return fmt.Errorf("sms-topic cannot be empty")
	}
	if c.PushTopic == "" {
		return fmt.Errorf("push-topic cannot be empty")
	}
	if c.ConsumerGroupID == "" {
		return fmt.Errorf("consumer-group-id cannot be empty")
	}
	if c.SettingsCacheTTL <= 0 {
		return fmt.Errorf("settings-cache-ttl must be > 0")
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("http-addr cannot be empty")
	}
	return nil
}
