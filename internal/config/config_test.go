package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "http://api.fanyi.baidu.com", cfg.Baidu.Endpoint)
	assert.Equal(t, "/api/trans/vip/translate", cfg.Baidu.Path)
	assert.Equal(t, 10*time.Second, cfg.Baidu.Timeout)
	assert.Equal(t, "auto-zh", cfg.DefaultDirection)
	assert.Equal(t, "Ctrl+Alt+A", cfg.Hotkey)
	assert.True(t, cfg.HotkeyEnabled)
	assert.False(t, cfg.ControlServer.Enabled)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("BAIDU_APP_ID", "20240101000000001")
	t.Setenv("BAIDU_APP_KEY", "secret")
	t.Setenv("BAIDU_TIMEOUT", "3s")
	t.Setenv("HOTKEY", "Ctrl+Shift+T")
	t.Setenv("START_MINIMIZED", "true")

	cfg, err := NewConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "20240101000000001", cfg.Baidu.AppID)
	assert.Equal(t, "secret", cfg.Baidu.AppKey)
	assert.Equal(t, 3*time.Second, cfg.Baidu.Timeout)
	assert.Equal(t, "Ctrl+Shift+T", cfg.Hotkey)
	assert.True(t, cfg.StartMinimized)
}

func TestNewConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("BAIDU_APP_ID", "from-env")
	t.Setenv("BAIDU_APP_KEY", "secret")

	cfg, err := NewConfig([]string{"-baidu-app-id", "from-flag", "-direction", "en-zh"})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.Baidu.AppID)
	assert.Equal(t, "en-zh", cfg.DefaultDirection)
}

func TestNewConfigKeepsPositionalArgs(t *testing.T) {
	t.Setenv("BAIDU_APP_ID", "id")
	t.Setenv("BAIDU_APP_KEY", "secret")

	cfg, err := NewConfig([]string{"-history-size", "5", "hello", "world"})
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.HistorySize)
	assert.Equal(t, []string{"hello", "world"}, cfg.Args)
}

func TestNewConfigMissingCredentials(t *testing.T) {
	t.Setenv("BAIDU_APP_ID", "")
	t.Setenv("BAIDU_APP_KEY", "")

	cfg, err := NewConfig(nil)
	require.Error(t, err)
	assert.Nil(t, cfg)

	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "BAIDU_APP_ID", cerr.Field)
	assert.Contains(t, err.Error(), "BAIDU_APP_KEY")
}

func TestValidateResetsQueueSize(t *testing.T) {
	cfg := Defaults()
	cfg.Baidu.AppID = "id"
	cfg.Baidu.AppKey = "key"
	cfg.EventQueueSize = 0

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 64, cfg.EventQueueSize)
}
