package config_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/aegis/pkg/cli/config"
)

func TestSlack_Configure(t *testing.T) {
	t.Run("disabled without bot token", func(t *testing.T) {
		cfg := config.NewSlackForTest("", "", "", time.Hour, 10)
		gt.Bool(t, cfg.IsConfigured()).False()

		notifier, err := cfg.Configure()
		gt.NoError(t, err)
		gt.Value(t, notifier).Nil()
	})

	t.Run("creates notifier with bot token", func(t *testing.T) {
		cfg := config.NewSlackForTest("xoxb-test", "http://127.0.0.1:0/api/", "https://aegis.example.com", time.Hour, 10)
		gt.Bool(t, cfg.IsConfigured()).True()
		gt.Value(t, cfg.DigestInterval()).Equal(time.Hour)

		notifier, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, notifier).NotNil()
	})
}
