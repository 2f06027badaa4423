package common

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newContext(t *testing.T, args []string, flags map[string]string, quiet bool) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("config", "", "")
	set.String("db", "", "")
	set.Bool("quiet", false, "")
	for k, v := range flags {
		require.NoError(t, set.Set(k, v))
	}
	if quiet {
		require.NoError(t, set.Set("quiet", "true"))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestLoadRuntime(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SBC_DB_PATH", "")
	chdirTemp(t)

	dbPath := filepath.Join(t.TempDir(), "prices.db")
	c := newContext(t, nil, map[string]string{
		"config": filepath.Join(t.TempDir(), "missing.yaml"),
		"db":     dbPath,
	}, true)

	cfg, log, err := LoadRuntime(c)
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Storage.Driver)
	require.Equal(t, dbPath, cfg.Storage.Path)
	require.Equal(t, logrus.ErrorLevel, log.GetLevel())
}

func TestLoadRuntime_BadConfig(t *testing.T) {
	chdirTemp(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fetch:\n  mode: carrier-pigeon\n"), 0644))

	_, _, err := LoadRuntime(newContext(t, nil, map[string]string{"config": path}, false))
	require.Error(t, err)
	exitErr, ok := err.(cli.ExitCoder)
	require.True(t, ok)
	require.Equal(t, ExitSetup, exitErr.ExitCode())
}

func TestRatingArg(t *testing.T) {
	r, err := RatingArg(newContext(t, []string{"87"}, nil, false))
	require.NoError(t, err)
	require.Equal(t, models.Rating(87), r)

	_, err = RatingArg(newContext(t, []string{"95"}, nil, false))
	require.Error(t, err)

	_, err = RatingArg(newContext(t, nil, nil, false))
	require.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "x.db")
	store, err := OpenStore(&cfg)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

// chdirTemp changes into a fresh temp dir for the test and restores the
// previous working directory on cleanup (equivalent to t.Chdir on Go 1.24+).
func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
