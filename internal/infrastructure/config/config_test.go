package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"S15_APP_NAME":                os.Getenv("S15_APP_NAME"),
		"S15_APP_ENV":                 os.Getenv("S15_APP_ENV"),
		"S15_APP_PORT":                os.Getenv("S15_APP_PORT"),
		"S15_DATABASE_HOST":           os.Getenv("S15_DATABASE_HOST"),
		"S15_DATABASE_PORT":           os.Getenv("S15_DATABASE_PORT"),
		"S15_DATABASE_USER":           os.Getenv("S15_DATABASE_USER"),
		"S15_DATABASE_PASSWORD":       os.Getenv("S15_DATABASE_PASSWORD"),
		"S15_DATABASE_DBNAME":         os.Getenv("S15_DATABASE_DBNAME"),
		"S15_DATABASE_SSLMODE":        os.Getenv("S15_DATABASE_SSLMODE"),
		"S15_DATABASE_MAX_OPEN_CONNS": os.Getenv("S15_DATABASE_MAX_OPEN_CONNS"),
		"S15_DATABASE_MAX_IDLE_CONNS": os.Getenv("S15_DATABASE_MAX_IDLE_CONNS"),
		"S15_JWT_SECRET":              os.Getenv("S15_JWT_SECRET"),
		"APP_ENV":                     os.Getenv("APP_ENV"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "square15-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "square15", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	})

	t.Run("loads values from environment variables with S15 prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("S15_APP_NAME", "test-app")
		os.Setenv("S15_APP_ENV", "testing")
		os.Setenv("S15_APP_PORT", "9000")
		os.Setenv("S15_DATABASE_HOST", "testdb.local")
		os.Setenv("S15_DATABASE_PORT", "5433")
		os.Setenv("S15_DATABASE_USER", "testuser")
		os.Setenv("S15_DATABASE_PASSWORD", "testpass")
		os.Setenv("S15_DATABASE_DBNAME", "testdb")
		os.Setenv("S15_DATABASE_SSLMODE", "require")
		os.Setenv("S15_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("S15_DATABASE_MAX_IDLE_CONNS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("S15_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("S15_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("S15_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("S15_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns may not be negative")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"S15_APP_ENV":              os.Getenv("S15_APP_ENV"),
		"S15_JWT_SECRET":           os.Getenv("S15_JWT_SECRET"),
		"S15_DATABASE_PASSWORD":    os.Getenv("S15_DATABASE_PASSWORD"),
		"S15_DATABASE_SSLMODE":     os.Getenv("S15_DATABASE_SSLMODE"),
		"S15_COOKIE_SECURE":        os.Getenv("S15_COOKIE_SECURE"),
		"S15_SWAGGER_ENABLED":      os.Getenv("S15_SWAGGER_ENABLED"),
		"S15_SWAGGER_REQUIRE_AUTH": os.Getenv("S15_SWAGGER_REQUIRE_AUTH"),
		"S15_SWAGGER_ALLOWED_IPS":  os.Getenv("S15_SWAGGER_ALLOWED_IPS"),
		"APP_ENV":                  os.Getenv("APP_ENV"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	// Helper to set valid production base config
	setValidProductionBase := func() {
		os.Setenv("S15_APP_ENV", "production")
		os.Setenv("S15_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("S15_DATABASE_PASSWORD", "secure-password")
		os.Setenv("S15_DATABASE_SSLMODE", "require")
		os.Setenv("S15_COOKIE_SECURE", "true")
		os.Setenv("S15_SWAGGER_ENABLED", "false") // Disabled by default for security
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("S15_APP_ENV", "production")
		os.Setenv("S15_DATABASE_PASSWORD", "secure-password")
		os.Setenv("S15_DATABASE_SSLMODE", "require")
		os.Setenv("S15_COOKIE_SECURE", "true")
		os.Setenv("S15_SWAGGER_ENABLED", "false")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must set jwt.secret")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("S15_APP_ENV", "production")
		os.Setenv("S15_JWT_SECRET", "short-secret")
		os.Setenv("S15_DATABASE_PASSWORD", "secure-password")
		os.Setenv("S15_DATABASE_SSLMODE", "require")
		os.Setenv("S15_COOKIE_SECURE", "true")
		os.Setenv("S15_SWAGGER_ENABLED", "false")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret of at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("S15_APP_ENV", "production")
		os.Setenv("S15_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("S15_DATABASE_SSLMODE", "require")
		os.Setenv("S15_COOKIE_SECURE", "true")
		os.Setenv("S15_SWAGGER_ENABLED", "false")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must set database.password")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("S15_APP_ENV", "production")
		os.Setenv("S15_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("S15_DATABASE_PASSWORD", "secure-password")
		os.Setenv("S15_DATABASE_SSLMODE", "disable")
		os.Setenv("S15_COOKIE_SECURE", "true")
		os.Setenv("S15_SWAGGER_ENABLED", "false")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode 'disable'")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("fails if swagger enabled without protection in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("S15_SWAGGER_ENABLED", "true")
		os.Setenv("S15_SWAGGER_REQUIRE_AUTH", "false")
		// No IP whitelist set

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "swagger disabled, authenticated or IP restricted")
	})

	t.Run("passes with swagger enabled and require_auth in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("S15_SWAGGER_ENABLED", "true")
		os.Setenv("S15_SWAGGER_REQUIRE_AUTH", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Swagger.Enabled)
		assert.True(t, cfg.Swagger.RequireAuth)
	})

	t.Run("passes with swagger disabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("S15_SWAGGER_ENABLED", "false")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.Swagger.Enabled)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		// URL-encoded password should be in the DSN
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("handles empty password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotEmpty(t, dsn)
	})
}

func TestLoad_Integrations(t *testing.T) {
	keys := []string{
		"S15_STORAGE_ENABLED", "S15_STORAGE_BUCKET",
		"S15_MAIL_ENABLED", "S15_MAIL_HOST", "S15_MAIL_FROM",
		"S15_AI_ENABLED", "S15_AI_API_KEY", "S15_AI_MODEL",
	}
	originalEnv := map[string]string{}
	for _, k := range keys {
		originalEnv[k] = os.Getenv(k)
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	}

	t.Run("integrations disabled by default", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.Storage.Enabled)
		assert.False(t, cfg.Mail.Enabled)
		assert.False(t, cfg.AI.Enabled)
		assert.Equal(t, "af-south-1", cfg.Storage.Region)
		assert.Equal(t, 587, cfg.Mail.Port)
	})

	t.Run("requires bucket when storage enabled", func(t *testing.T) {
		clearEnv()
		os.Setenv("S15_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket is required")
	})

	t.Run("requires host and from when mail enabled", func(t *testing.T) {
		clearEnv()
		os.Setenv("S15_MAIL_ENABLED", "true")
		os.Setenv("S15_MAIL_HOST", "smtp.sendgrid.net")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mail.from is required")
	})

	t.Run("requires api key when ai enabled", func(t *testing.T) {
		clearEnv()
		os.Setenv("S15_AI_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ai.api_key is required")
	})

	t.Run("loads full storage config", func(t *testing.T) {
		clearEnv()
		os.Setenv("S15_STORAGE_ENABLED", "true")
		os.Setenv("S15_STORAGE_BUCKET", "square15-documents")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Storage.Enabled)
		assert.Equal(t, "square15-documents", cfg.Storage.Bucket)
	})
}
