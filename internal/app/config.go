package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/logger"
	"github.com/openhearth/charity-backend/internal/utils"
)

type Config struct {
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	ListenAddr     string

	AllowedOrigins []string
	// Channels drives the donation notification fan-out. Empty means no
	// notifications are synthesized; donations still commit.
	Channels []domain.NotificationChannel

	Environment string
	Version     string
}

// fileConfig is the optional YAML layer (CONFIG_FILE). Env vars win over
// the file for scalar settings.
type fileConfig struct {
	AllowedOrigins       []string `yaml:"allowed_origins"`
	NotificationChannels []string `yaml:"notification_channels"`
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		JWTSecretKey:   utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL: time.Duration(utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,
		ListenAddr:     utils.GetEnv("LISTEN_ADDR", ":8080", log),
		Environment:    utils.GetEnv("APP_ENV", "development", log),
		Version:        utils.GetEnv("APP_VERSION", "dev", log),
		Channels:       []domain.NotificationChannel{domain.ChannelEmail, domain.ChannelSms},
	}

	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		cfg.AllowedOrigins = fc.AllowedOrigins
		if fc.NotificationChannels != nil {
			channels, err := parseChannels(fc.NotificationChannels)
			if err != nil {
				return Config{}, err
			}
			cfg.Channels = channels
		}
	}

	if raw := strings.TrimSpace(os.Getenv("NOTIFICATION_CHANNELS")); raw != "" {
		channels, err := parseChannels(strings.Split(raw, ","))
		if err != nil {
			return Config{}, err
		}
		cfg.Channels = channels
	}
	return cfg, nil
}

// parseChannels validates channel names; an explicitly empty list is
// allowed and disables the fan-out.
func parseChannels(names []string) ([]domain.NotificationChannel, error) {
	out := make([]domain.NotificationChannel, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		ch := domain.NotificationChannel(name)
		if !ch.Valid() {
			return nil, fmt.Errorf("unknown notification channel %q", name)
		}
		out = append(out, ch)
	}
	return out, nil
}
