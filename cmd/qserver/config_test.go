package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Qthai16/strqueue/common/console"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	conf, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), conf)
	require.NoError(t, conf.Validate())
}

func TestLoadConfigLayers(t *testing.T) {
	path := writeConfig(t, `
addr: 127.0.0.1:19000
max_sessions: 10
hash: murmur
compare: natural
stop_timeout: 2s
`)
	t.Setenv("QSERVER_MAX_SESSIONS", "20")
	t.Setenv("QSERVER_LOG_LEVEL", "debug")

	conf, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:19000", conf.Addr)
	require.Equal(t, uint32(20), conf.MaxSessions)
	require.Equal(t, "debug", conf.LogLevel)
	require.Equal(t, "murmur", conf.Hash)
	require.Equal(t, 2*time.Second, conf.StopTimeout)

	applyFlags(conf, CmdlineOpts{Addr: ":1", Daemon: true})
	require.Equal(t, ":1", conf.Addr)
	require.True(t, conf.Daemon)
	require.Equal(t, "debug", conf.LogLevel)
	require.NoError(t, conf.Validate())
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "no_such_key: 1\n"))
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(c *Config)
	}{
		{name: "addr", modify: func(c *Config) { c.Addr = "" }},
		{name: "sessions", modify: func(c *Config) { c.MaxSessions = 0 }},
		{name: "hash", modify: func(c *Config) { c.Hash = "md5" }},
		{name: "compare", modify: func(c *Config) { c.Compare = "reverse" }},
		{name: "length", modify: func(c *Config) { c.Length = 1 }},
		{name: "length-cap", modify: func(c *Config) { c.Length = console.MaxLength + 1 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			conf := DefaultConfig()
			tc.modify(conf)
			require.ErrorIs(t, conf.Validate(), ErrInvalidConfig)
		})
	}
}
