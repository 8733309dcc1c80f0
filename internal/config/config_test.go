package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boddenberg/smb-dashboard-bfa/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATA_BACKEND", "CACHE_TTL", "REPORT_MONTHS", "LEGACY_MONTH_KEYS", "JWT_SECRET"} {
		t.Setenv(k, "")
	}

	cfg := config.Load()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, config.BackendSupabase, cfg.DataBackend)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 12, cfg.ReportMonths)
	assert.False(t, cfg.LegacyMonthKeys)
	assert.Equal(t, config.DevJWTSecret, cfg.JWTSecret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "SQLite")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("LEGACY_MONTH_KEYS", "true")
	t.Setenv("MAX_RETRIES", "not-a-number")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co/")

	cfg := config.Load()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, config.BackendSQLite, cfg.DataBackend)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.LegacyMonthKeys)
	assert.Equal(t, 3, cfg.MaxRetries, "invalid ints fall back to the default")
	assert.Equal(t, "https://example.supabase.co", cfg.SupabaseURL)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{Port: 8080, DataBackend: config.BackendMemory, ReportMonths: 12, ActivityLimit: 5}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.DataBackend = "mongo"
	assert.ErrorContains(t, cfg.Validate(), "DATA_BACKEND")

	cfg = valid()
	cfg.DataBackend = config.BackendSupabase
	err := cfg.Validate()
	assert.ErrorContains(t, err, "SUPABASE_URL")
	assert.ErrorContains(t, err, "SUPABASE_SERVICE_ROLE_KEY")

	cfg = valid()
	cfg.Port = 0
	cfg.ActivityLimit = 80
	err = cfg.Validate()
	assert.ErrorContains(t, err, "PORT")
	assert.ErrorContains(t, err, "ACTIVITY_LIMIT")
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DASH_TEST_A=from-file\nDASH_TEST_B=\"quoted\"\n"), 0o600))

	t.Setenv("DASH_TEST_A", "from-env")
	t.Setenv("DASH_TEST_B", "")
	os.Unsetenv("DASH_TEST_B")

	require.NoError(t, config.LoadDotEnv(path))
	t.Cleanup(func() { os.Unsetenv("DASH_TEST_B") })

	assert.Equal(t, "from-env", os.Getenv("DASH_TEST_A"))
	assert.Equal(t, "quoted", os.Getenv("DASH_TEST_B"))
}
