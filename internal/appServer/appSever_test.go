package appServer

import (
	"testing"

	"github.com/Ansh-Mishra04/project/config"

	"github.com/stretchr/testify/assert"
)

// TestSecretsFromEnv тестирует подмену секретов значениями из окружения
func TestSecretsFromEnv(t *testing.T) {
	t.Setenv("DB_PASSWORD", "pg-env-secret")
	t.Setenv("REDIS_PASSWORD", "redis-env-secret")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_env")
	t.Setenv("RAZORPAY_KEY_SECRET", "rzp-env-secret")
	t.Setenv("TELEGRAM_BOT_TOKEN", "1001:env-token")

	cfg := &config.Config{}
	cfg.Database.Password = "pg-file"
	cfg.Redis.Password = "redis-file"
	cfg.Razorpay.KeyID = "rzp_test_file"
	cfg.Razorpay.KeySecret = "rzp-file"
	cfg.Telegram.BotToken = "1001:file-token"

	secretsFromEnv(cfg)

	assert.Equal(t, "pg-env-secret", cfg.Database.Password)
	assert.Equal(t, "redis-env-secret", cfg.Redis.Password)
	assert.Equal(t, "rzp_test_env", cfg.Razorpay.KeyID)
	assert.Equal(t, "rzp-env-secret", cfg.Razorpay.KeySecret)
	assert.Equal(t, "1001:env-token", cfg.Telegram.BotToken)
}

// TestSecretsFromEnvFallback тестирует сохранение файловых значений без переменных окружения
func TestSecretsFromEnvFallback(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("REDIS_PASSWORD", "")
	t.Setenv("RAZORPAY_KEY_ID", "")
	t.Setenv("RAZORPAY_KEY_SECRET", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	cfg := &config.Config{}
	cfg.Database.Password = "pg-file"
	cfg.Redis.Password = "redis-file"
	cfg.Razorpay.KeyID = "rzp_test_file"
	cfg.Razorpay.KeySecret = "rzp-file"
	cfg.Telegram.BotToken = "1001:file-token"

	secretsFromEnv(cfg)

	assert.Equal(t, "pg-file", cfg.Database.Password)
	assert.Equal(t, "redis-file", cfg.Redis.Password)
	assert.Equal(t, "rzp_test_file", cfg.Razorpay.KeyID)
	assert.Equal(t, "rzp-file", cfg.Razorpay.KeySecret)
	assert.Equal(t, "1001:file-token", cfg.Telegram.BotToken)
}
