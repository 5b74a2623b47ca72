package main

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearConfigEnv blanks every bound variable so the host environment
// cannot leak into the assertions. Empty values count as unset.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, envs := range envBindings {
		for _, env := range envs {
			t.Setenv(env, "")
		}
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, gin.DebugMode, cfg.Mode)
	assert.True(t, cfg.TrackVisitors)
	assert.Equal(t, 365*24*time.Hour, cfg.VisitorRetention)
	assert.Equal(t, 100*time.Millisecond, cfg.TypingInterval)
	assert.Equal(t, 530*time.Millisecond, cfg.CursorBlink)
	assert.Equal(t, 2*time.Second, cfg.CounterDuration)
	assert.Equal(t, contactModeSimulated, cfg.ContactMode)
	assert.Equal(t, time.Second, cfg.ContactDelay)
	assert.Equal(t, 5*time.Second, cfg.ConfirmationTTL)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, "587", cfg.SMTP.Port)
	assert.Empty(t, cfg.SMTP.User)
}

func TestLoadConfig_Environment(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("GIN_MODE", gin.ReleaseMode)
	t.Setenv("TRACK_VISITORS", "false")
	t.Setenv("TYPING_INTERVAL", "40ms")
	t.Setenv("CONTACT_MODE", contactModeSMTP)
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("SMTP_PASS", "app-password")
	t.Setenv("TO_EMAIL", "inbox@example.com")
	t.Setenv("ADMIN_USERNAME", "owner")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, gin.ReleaseMode, cfg.Mode)
	assert.False(t, cfg.TrackVisitors)
	assert.Equal(t, 40*time.Millisecond, cfg.TypingInterval)
	assert.Equal(t, contactModeSMTP, cfg.ContactMode)
	assert.Equal(t, SMTPConfig{
		Host: "smtp.gmail.com",
		Port: "587",
		User: "me@example.com",
		Pass: "app-password",
		To:   "inbox@example.com",
	}, cfg.SMTP)
	assert.Equal(t, "owner", cfg.AdminUsername)
	assert.Equal(t, "admin123", cfg.AdminPassword)
}
