package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":3000", c.ServerPort)
	assert.Equal(t, int64(5*1024*1024), c.UploadMaxBytes)
	assert.Equal(t, 15, c.AdminPageSize)
	assert.Equal(t, "cloudinary", c.StorageDriver)
	assert.False(t, c.GoogleEnabled())
}

func TestApplyEnv_OverridesDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", ":8080")
	t.Setenv("UPLOAD_MAX_BYTES", "2097152")
	t.Setenv("ADMIN_PAGE_SIZE", "20")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("STORAGE_DRIVER", "s3")

	var c Config
	c.LoadDefaults()
	c.applyEnv()

	assert.Equal(t, ":8080", c.ServerPort)
	assert.Equal(t, int64(2*1024*1024), c.UploadMaxBytes)
	assert.Equal(t, 20, c.AdminPageSize)
	assert.Equal(t, 2*time.Hour, c.SessionTTL)
	assert.Equal(t, "s3", c.StorageDriver)
}

func TestApplyEnv_InvalidNumbersKeepDefaults(t *testing.T) {
	t.Setenv("UPLOAD_MAX_BYTES", "lots")
	t.Setenv("ADMIN_PAGE_SIZE", "x")
	t.Setenv("SESSION_TTL", "forever")

	var c Config
	c.LoadDefaults()
	c.applyEnv()

	assert.Equal(t, int64(5*1024*1024), c.UploadMaxBytes)
	assert.Equal(t, 15, c.AdminPageSize)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
}

func TestGoogleEnabled(t *testing.T) {
	c := Config{GoogleClientID: "id", GoogleClientSecret: "secret"}
	assert.False(t, c.GoogleEnabled())

	c.GoogleRedirectURL = "http://localhost:3000/auth/google/callback"
	assert.True(t, c.GoogleEnabled())
}

func TestLoadConfig_ProdWithoutSecretRefusesToStart(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("ACCESS_SECRET", "")

	c := LoadConfig()

	assert.Equal(t, "prod", c.Env)
	assert.NotEqual(t, devAccessSecret, c.AccessSecret)
	assert.ErrorIs(t, c.Validate(), ErrMissingAccessSecret)
}

func TestLoadConfig_ProdWithSecret(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("ACCESS_SECRET", "s3cr3t-from-vault")

	c := LoadConfig()

	assert.Equal(t, "s3cr3t-from-vault", c.AccessSecret)
	require.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"dev keeps the local secret", Config{Env: "dev", AccessSecret: devAccessSecret}, false},
		{"prod with the local secret", Config{Env: "prod", AccessSecret: devAccessSecret}, true},
		{"prod with no secret", Config{Env: "prod"}, true},
		{"prod with a real secret", Config{Env: "prod", AccessSecret: "x9"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMissingAccessSecret)
				return
			}
			assert.NoError(t, err)
		})
	}
}
