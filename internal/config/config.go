package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	Reminder  ReminderConfig
	Retention RetentionConfig
	Booking   BookingConfig
	SMS       SMSConfig
	Health    HealthConfig
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

type ReminderConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	GracePeriod  time.Duration `mapstructure:"grace_period"`
}

type RetentionConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type BookingConfig struct {
	SlotBuffer time.Duration `mapstructure:"slot_buffer"`
	Timezone   string        `mapstructure:"timezone"`
}

type SMSConfig struct {
	GatewayURL string        `mapstructure:"gateway_url"`
	APIToken   string        `mapstructure:"api_token"`
	Sender     string        `mapstructure:"sender"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type HealthConfig struct {
	Port int `mapstructure:"port"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("reminder.tick_interval", time.Minute)
	viper.SetDefault("reminder.grace_period", 10*time.Minute)
	viper.SetDefault("retention.sweep_interval", time.Hour)
	viper.SetDefault("booking.slot_buffer", 15*time.Minute)
	viper.SetDefault("health.port", 8081)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
