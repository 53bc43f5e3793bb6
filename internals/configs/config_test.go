package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormLogger "gorm.io/gorm/logger"
)

func TestNormalizeDatabaseURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"postgres://u:p@db:5432/app", "postgresql://u:p@db:5432/app?sslmode=require"},
		{"postgresql://u:p@db/app?application_name=x", "postgresql://u:p@db/app?application_name=x&sslmode=require"},
		{"postgres://u:p@db/app?sslmode=disable", "postgresql://u:p@db/app?sslmode=disable"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeDatabaseURL(tc.in))
	}
}

func TestLoadSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CorsOrigins)
	assert.Empty(t, cfg.DB.DSN)
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_HOST", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://u:p@db/app")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://u:p@db/app?sslmode=require", cfg.DB.DSN)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	_, err := Load()
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, gormLogger.Silent, ParseLogLevel("silent"))
	assert.Equal(t, gormLogger.Info, ParseLogLevel(" INFO "))
	assert.Equal(t, gormLogger.Warn, ParseLogLevel("whatever"))
}
