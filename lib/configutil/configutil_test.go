package configutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Interval Duration `json:"interval"`
	Port     int      `json:"port"`
}

func writeFile(t testing.TB, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, filepath.Join("a", "b", "config.local.json5"), LocalPath(filepath.Join("a", "b", "config.json5")))
	require.Equal(t, "config.local.", LocalPath("config"))
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")

	_, err := ReadConfig[testConfig](name)
	require.ErrorIs(t, err, os.ErrNotExist)

	writeFile(t, name, `{
		// comments are allowed
		username: "user",
		password: 'pass',
		interval: "15m",
	}`)
	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "user", cfg.Username)
	require.Equal(t, "pass", cfg.Password)
	require.Equal(t, 15*time.Minute, cfg.Interval.Std())

	writeFile(t, filepath.Join(dir, "config.local.json5"), `{password: "local", port: 8000}`)
	cfg, err = ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "user", cfg.Username)
	require.Equal(t, "local", cfg.Password)
	require.Equal(t, 8000, cfg.Port)
}

func TestReadConfigWithDefaults(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")
	writeFile(t, name, `{username: "user", port: 9000}`)

	cfg, err := ReadConfigWithDefaults(name, testConfig{
		Interval: Duration(900 * time.Second),
		Port:     8000,
	})
	require.NoError(t, err)
	require.Equal(t, "user", cfg.Username)
	require.Equal(t, 900*time.Second, cfg.Interval.Std())
	require.Equal(t, 9000, cfg.Port)
}

func TestDurationUnmarshal(t *testing.T) {
	testCases := []struct {
		raw      string
		expected time.Duration
		fails    bool
	}{
		{raw: `"15m"`, expected: 15 * time.Minute},
		{raw: `'1h30m'`, expected: 90 * time.Minute},
		{raw: `900`, expected: 900 * time.Second},
		{raw: `"90"`, expected: 90 * time.Second},
		{raw: `0.5`, expected: 500 * time.Millisecond},
		{raw: `"soon"`, fails: true},
		{raw: `true`, fails: true},
	}

	for _, test := range testCases {
		var d Duration
		err := d.UnmarshalJSON([]byte(test.raw))
		if test.fails {
			require.Error(t, err, test.raw)
			continue
		}
		require.NoError(t, err, test.raw)
		require.Equal(t, test.expected, d.Std(), test.raw)
	}
}
