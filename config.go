package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`
	To   string `mapstructure:"to"`
}

type Config struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`

	DBPath           string        `mapstructure:"db_path"`
	TrackVisitors    bool          `mapstructure:"track_visitors"`
	VisitorRetention time.Duration `mapstructure:"visitor_retention"`
	CleanupInterval  time.Duration `mapstructure:"cleanup_interval"`

	TypingInterval  time.Duration `mapstructure:"typing_interval"`
	CursorBlink     time.Duration `mapstructure:"cursor_blink"`
	CounterDuration time.Duration `mapstructure:"counter_duration"`
	CounterTick     time.Duration `mapstructure:"counter_tick"`

	ContactMode     string        `mapstructure:"contact_mode"`
	ContactDelay    time.Duration `mapstructure:"contact_delay"`
	ConfirmationTTL time.Duration `mapstructure:"confirmation_ttl"`
	SMTP            SMTPConfig    `mapstructure:"smtp"`

	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
}

const (
	contactModeSimulated = "simulated"
	contactModeSMTP      = "smtp"
)

var configDefaults = map[string]any{
	"port":              "8080",
	"mode":              gin.DebugMode,
	"db_path":           "portfolio.db",
	"track_visitors":    true,
	"visitor_retention": 365 * 24 * time.Hour,
	"cleanup_interval":  24 * time.Hour,
	"typing_interval":   100 * time.Millisecond,
	"cursor_blink":      530 * time.Millisecond,
	"counter_duration":  2 * time.Second,
	"counter_tick":      50 * time.Millisecond,
	"contact_mode":      contactModeSimulated,
	"contact_delay":     time.Second,
	"confirmation_ttl":  5 * time.Second,
	"smtp.host":         "smtp.gmail.com",
	"smtp.port":         "587",
	"admin_username":    "admin",
	"admin_password":    "admin123",
}

// envBindings maps config keys to the environment variables that can set them.
var envBindings = map[string][]string{
	"port":              {"PORT"},
	"mode":              {"GIN_MODE"},
	"db_path":           {"DB_PATH"},
	"track_visitors":    {"TRACK_VISITORS"},
	"visitor_retention": {"VISITOR_RETENTION"},
	"cleanup_interval":  {"CLEANUP_INTERVAL"},
	"typing_interval":   {"TYPING_INTERVAL"},
	"cursor_blink":      {"CURSOR_BLINK"},
	"counter_duration":  {"COUNTER_DURATION"},
	"counter_tick":      {"COUNTER_TICK"},
	"contact_mode":      {"CONTACT_MODE"},
	"contact_delay":     {"CONTACT_DELAY"},
	"confirmation_ttl":  {"CONFIRMATION_TTL"},
	"smtp.host":         {"SMTP_HOST"},
	"smtp.port":         {"SMTP_PORT"},
	"smtp.user":         {"SMTP_USER"},
	"smtp.pass":         {"SMTP_PASS"},
	"smtp.to":           {"TO_EMAIL"},
	"admin_username":    {"ADMIN_USERNAME"},
	"admin_password":    {"ADMIN_PASSWORD"},
}

// LoadConfig reads the environment (a .env file is loaded by godotenv/autoload
// before main runs) on top of the defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()
	for key, val := range configDefaults {
		v.SetDefault(key, val)
	}
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, err
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
