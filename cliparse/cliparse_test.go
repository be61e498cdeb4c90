// cliparse/cliparse_test.go
package cliparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_URL", "DATABASE_TYPE", "ADMIN_KEY", "USER_TOKEN_SALT", "BOT_TOKEN",
		"BOT_API_URL", "PAIRS_PER_USER", "DELIVERY_DELAY", "TEST_RECIPIENTS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func setServerEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADMIN_KEY", "admin")
	t.Setenv("USER_TOKEN_SALT", "salt")
	t.Setenv("BOT_TOKEN", "123:abc")
}

func TestParseFlags_EnvVars(t *testing.T) {
	setServerEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("PAIRS_PER_USER", "3")
	t.Setenv("DELIVERY_DELAY", "30s")
	t.Setenv("TEST_RECIPIENTS", "870424192, 1291534395")

	cfg, err := ParseFlags([]string{})
	require.NoError(t, err)

	assert.Equal(t, CommandServe, cfg.Command)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, 3, cfg.PairsPerUser)
	assert.Equal(t, 30*time.Second, cfg.DeliveryDelay)
	assert.Equal(t, []int64{870424192, 1291534395}, cfg.TestRecipients)
	assert.Equal(t, "https://api.telegram.org", cfg.BotAPIURL)
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	setServerEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-key", "k1", "-user-salt", "s2"})
	require.NoError(t, err)

	// CLI should override env
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "k1", cfg.AdminKey)
	assert.Equal(t, "s2", cfg.UserTokenSalt)
}

func TestParseFlags_Defaults(t *testing.T) {
	setServerEnv(t)

	cfg, err := ParseFlags(nil)
	require.NoError(t, err)

	assert.Equal(t, 3318, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "file:users.db", cfg.DatabaseURL)
	assert.Equal(t, 0, cfg.PairsPerUser)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.DeliveryDelay)
}

func TestParseFlags_Commands(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{"distribute", "-k", "3"})
	require.NoError(t, err)
	assert.Equal(t, CommandDistribute, cfg.Command)
	assert.Equal(t, 3, cfg.PairsPerUser)

	cfg, err = ParseFlags([]string{"remind", "-test", "-dry-run"})
	require.NoError(t, err)
	assert.Equal(t, CommandRemind, cfg.Command)
	assert.True(t, cfg.TestMode)
	assert.True(t, cfg.DryRun)

	cfg, err = ParseFlags([]string{"timeline", "-bucket", "5m"})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Bucket)

	_, err = ParseFlags([]string{"plot"})
	assert.Error(t, err)
}

func TestParseFlags_MissingSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")

	_, err := ParseFlags(nil)
	assert.ErrorContains(t, err, "ADMIN_KEY")

	t.Setenv("ADMIN_KEY", "admin")
	_, err = ParseFlags(nil)
	assert.ErrorContains(t, err, "USER_TOKEN_SALT")
}

func TestParseFlags_BotTokenRequiredForSending(t *testing.T) {
	clearEnv(t)

	_, err := ParseFlags([]string{"send-assignments"})
	assert.ErrorContains(t, err, "BOT_TOKEN")

	_, err = ParseFlags([]string{"show"})
	assert.NoError(t, err)
}

func TestParseFlags_Invalid(t *testing.T) {
	clearEnv(t)

	_, err := ParseFlags([]string{"show", "-t", "mysql"})
	assert.Error(t, err)

	t.Setenv("DATABASE_TYPE", "postgres")
	_, err = ParseFlags([]string{"show"})
	assert.ErrorContains(t, err, "database URL required")
}
