package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ChatConfig holds the settings of the real-time chat subsystem, read from CHAT_* variables.
type ChatConfig struct {
	MaxMessageLength int           `envconfig:"MAX_MESSAGE_LENGTH" default:"4096"`
	WriteTimeout     time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
	StoreTimeout     time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`
	PingSchedule     string        `envconfig:"PING_SCHEDULE" default:"@every 30s"`
	PageSize         int           `envconfig:"PAGE_SIZE" default:"50"`
}

func LoadChatConfig() (ChatConfig, error) {
	loadEnv()

	var cfg ChatConfig
	if err := envconfig.Process("chat", &cfg); err != nil {
		return ChatConfig{}, fmt.Errorf("chat config: %w", err)
	}
	if cfg.MaxMessageLength <= 0 {
		return ChatConfig{}, fmt.Errorf("chat config: CHAT_MAX_MESSAGE_LENGTH must be positive, got %d", cfg.MaxMessageLength)
	}
	if cfg.PageSize <= 0 {
		return ChatConfig{}, fmt.Errorf("chat config: CHAT_PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	return cfg, nil
}
