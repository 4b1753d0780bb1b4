package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gallery/internal/config"
	"gallery/ui/prefs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func parse(t *testing.T, args ...string) (*rootOptions, []string, func(*prefs.Prefs, func(string) (string, bool)) (config.Config, error)) {
	t.Helper()
	cmd := NewRootCmd()
	require.NoError(t, cmd.ParseFlags(args))
	opts := rootOptions{}
	opts.configPath, _ = cmd.Flags().GetString("config")
	opts.catalog, _ = cmd.Flags().GetString("catalog")
	opts.logLevel, _ = cmd.Flags().GetString("log-level")
	opts.watch, _ = cmd.Flags().GetBool("watch")
	rest := cmd.Flags().Args()
	return &opts, rest, func(p *prefs.Prefs, lookup func(string) (string, bool)) (config.Config, error) {
		return resolveConfig(cmd, opts, rest, p, lookup)
	}
}

func emptyPrefs(t *testing.T) *prefs.Prefs {
	return prefs.LoadFrom(filepath.Join(t.TempDir(), "prefs.json"))
}

func TestResolveDefaults(t *testing.T) {
	_, _, resolve := parse(t, "--config", "")
	cfg, err := resolve(emptyPrefs(t), noEnv)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestResolvePrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("catalog: from-file.json\nlog_level: warn\n"), 0o644))

	p := emptyPrefs(t)
	p.SetString(prefs.KeyLastCatalog, "from-prefs.json")

	_, _, resolve := parse(t, "--config", cfgPath)
	cfg, err := resolve(p, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "from-prefs.json", cfg.Catalog)
	assert.Equal(t, "warn", cfg.LogLevel)

	env := func(k string) (string, bool) {
		if k == config.EnvCatalog {
			return "from-env.json", true
		}
		return "", false
	}
	cfg, err = resolve(p, env)
	require.NoError(t, err)
	assert.Equal(t, "from-env.json", cfg.Catalog)

	_, _, resolve = parse(t, "--config", cfgPath, "--catalog", "from-flag.json", "--log-level", "debug", "--watch")
	cfg, err = resolve(p, env)
	require.NoError(t, err)
	assert.Equal(t, "from-flag.json", cfg.Catalog)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Watch)

	_, _, resolve = parse(t, "--config", cfgPath, "--catalog", "from-flag.json", "from-arg.json")
	cfg, err = resolve(p, env)
	require.NoError(t, err)
	assert.Equal(t, "from-arg.json", cfg.Catalog)
}

func TestResolveExplicitConfigMustExist(t *testing.T) {
	_, _, resolve := parse(t, "--config", filepath.Join(t.TempDir(), "none.yaml"))
	_, err := resolve(emptyPrefs(t), noEnv)
	assert.Error(t, err)
}

func TestResolveRejectsInvalid(t *testing.T) {
	_, _, resolve := parse(t, "--config", "")
	env := func(k string) (string, bool) {
		if k == config.EnvZoomStep {
			return "0.5", true
		}
		return "", false
	}
	_, err := resolve(emptyPrefs(t), env)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestRootCommandRuns(t *testing.T) {
	var got config.Config
	runApp = func(_ context.Context, cfg config.Config) error {
		got = cfg
		return nil
	}
	t.Cleanup(func() { runApp = run })

	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvCatalog, "")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--config", "", "--watch", "shop/products.json"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "shop/products.json", got.Catalog)
	assert.True(t, got.Watch)
}
