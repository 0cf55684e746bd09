// Package config provides shared configuration utilities.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the runtime tuning surface of the game and its servers.
type Config struct {
	TickRate     int    `mapstructure:"tick_rate"`
	PoolCapacity int    `mapstructure:"pool_capacity"`
	ShotCapacity int    `mapstructure:"shot_capacity"`
	ItemCapacity int    `mapstructure:"item_capacity"`
	Lives        int    `mapstructure:"lives"`
	Bombs        int    `mapstructure:"bombs"`
	Sound        bool   `mapstructure:"sound"`
	SSHHost      string `mapstructure:"ssh_host"`
	SSHPort      string `mapstructure:"ssh_port"`
	LogLevel     string `mapstructure:"log_level"`
}

// Load reads configuration from barrage.yaml in the working directory (if
// present) layered under BARRAGE_* environment variables, on top of the
// defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("tick_rate", 60)
	v.SetDefault("pool_capacity", 4096)
	v.SetDefault("shot_capacity", 256)
	v.SetDefault("item_capacity", 512)
	v.SetDefault("lives", 3)
	v.SetDefault("bombs", 2)
	v.SetDefault("sound", true)
	v.SetDefault("ssh_host", "0.0.0.0")
	v.SetDefault("ssh_port", "2222")
	v.SetDefault("log_level", "info")

	v.SetConfigName("barrage")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("BARRAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
