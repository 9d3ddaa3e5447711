package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t testing.TB, contents string) string {
	path := filepath.Join(t.TempDir(), "config.json5")
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadDefaults(t *testing.T) {
	path := writeConfig(t, `{username: "12345678", password: "secret"}`)

	cfg, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, "12345678", cfg.Username)
	require.Equal(t, "secret", cfg.Password)
	require.Equal(t, 900*time.Second, cfg.ScanInterval.Std())
	require.Equal(t, 30*time.Second, cfg.Timeout.Std())
	require.Equal(t, "https://www.iliad.it", cfg.BaseUrl)
	require.Equal(t, 0, cfg.Http.Port)
	require.Equal(t, "", cfg.SQLite.Database)
}

func TestReadOverrides(t *testing.T) {
	path := writeConfig(t, `{
		username: "12345678",
		password: "secret",
		scan_interval: 60,
		sqlite: { database: "iliad.db" },
		http: { port: 8000 },
	}`)

	cfg, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, time.Minute, cfg.ScanInterval.Std())
	require.Equal(t, "iliad.db", cfg.SQLite.Database)
	require.Equal(t, 8000, cfg.Http.Port)
}

func TestReadMissingCredentials(t *testing.T) {
	path := writeConfig(t, `{scan_interval: "10m"}`)

	_, err := Read(path)
	require.ErrorIs(t, err, ErrMissingField)
	require.ErrorContains(t, err, "username")
	require.ErrorContains(t, err, "password")
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "config.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
