package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Booking  BookingConfig  `mapstructure:"booking"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	// Environment gates how much error detail leaks to clients.
	// "development" includes store error messages in 500 responses.
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// BookingConfig defines the business rules for the booking lifecycle.
type BookingConfig struct {
	// UTCOffset converts the server instant to business-local time.
	// The service stores wall-clock strings, so every "is this in the
	// past" decision goes through this single offset.
	UTCOffset time.Duration `mapstructure:"utc_offset"`
	// CancelCutoffHours is the minimum number of hours before the
	// scheduled start at which a cancellation is still allowed.
	CancelCutoffHours float64 `mapstructure:"cancel_cutoff_hours"`
}

// IsDevelopment reports whether detailed error output is allowed.
func (c Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// --- Environment Variable Handling ---
	viper.AutomaticEnv()
	// Use replacer for nested keys e.g., server.address -> SERVER_ADDRESS,
	// booking.utc_offset -> BOOKING_UTC_OFFSET
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// --- Set default values ---
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.environment", "production")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "fitbook")
	// IST offset; the deployment this was built for books in Indian time
	// while the servers run on UTC.
	viper.SetDefault("booking.utc_offset", "5h30m")
	viper.SetDefault("booking.cancel_cutoff_hours", 24)

	// --- Read Config File ---
	err = viper.ReadInConfig()
	// If config file not found, continue (might rely solely on env vars).
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	// Viper parses the duration string ("5h30m") directly into the
	// time.Duration field during unmarshalling.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
