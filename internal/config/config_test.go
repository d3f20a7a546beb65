package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.App.Port)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, "memory", cfg.OTP.Store)
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 6, cfg.OTP.Length)
	assert.Equal(t, "plain", cfg.Auth.PasswordMode)
	assert.False(t, cfg.Auth.AllowAdminSignup)
	assert.Equal(t, "9661778393@ikwik", cfg.Payment.DestinationAccount)
	assert.Equal(t, "log", cfg.Notification.EmailProvider)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("OTP_STORE", "redis")
	t.Setenv("OTP_TTL", "90s")
	t.Setenv("OTP_SEND_LIMIT", "not-a-number")
	t.Setenv("AUTH_ALLOW_ADMIN_SIGNUP", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	assert.Equal(t, "redis", cfg.OTP.Store)
	assert.Equal(t, 90*time.Second, cfg.OTP.TTL)
	assert.Equal(t, 5, cfg.OTP.SendLimit)
	assert.True(t, cfg.Auth.AllowAdminSignup)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "store driver", key: "STORE_DRIVER", val: "sqlite"},
		{name: "otp store", key: "OTP_STORE", val: "memcached"},
		{name: "password mode", key: "AUTH_PASSWORD_MODE", val: "md5"},
		{name: "otp ttl", key: "OTP_TTL", val: "-1m"},
		{name: "redis db", key: "REDIS_DB", val: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadRequiresBackendLocation(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("MONGODB_URI", "")

	t.Setenv("STORE_DRIVER", "postgres")
	_, err := Load()
	assert.ErrorContains(t, err, "POSTGRES_DSN")

	t.Setenv("STORE_DRIVER", "mongo")
	_, err = Load()
	assert.ErrorContains(t, err, "MONGODB_URI")
}

func TestAppConfigHelpers(t *testing.T) {
	app := AppConfig{Host: "0.0.0.0", Port: "5001", RequestTimeoutSeconds: 0}
	assert.Equal(t, "0.0.0.0:5001", app.Addr())
	assert.Zero(t, app.RequestTimeout())

	app.RequestTimeoutSeconds = 3
	assert.Equal(t, 3*time.Second, app.RequestTimeout())
}
