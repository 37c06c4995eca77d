// FILE: lixenwraith/hiconfig/builder_test.go
package hiconfig

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuilder(t *testing.T, root *Provider) *Builder {
	t.Helper()
	return NewBuilder(root).
		WithName("test").
		WithArgs(nil).
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		WithOutput(io.Discard)
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuilderPrecedence(t *testing.T) {
	file := writeConfig(t, "car.toml", `
name = "from-file"
unit = "mm"

[tire]
radius = 10.0
tag = ["file"]
`)

	t.Run("CLIOverEnvOverFileOverDefault", func(t *testing.T) {
		t.Setenv("CAR_NAME", "from-env")
		t.Setenv("CAR_UNIT", "in")

		ns, err := testBuilder(t, carProvider(t)).
			WithFile(file).
			WithEnvPrefix("CAR_").
			WithArgs([]string{"--name=from-cli"}).
			Build()
		require.NoError(t, err)

		assert.Equal(t, "from-cli", ns.flat["name"])
		assert.Equal(t, "in", ns.flat["unit"])
		assert.Equal(t, 10.0, ns.flat["[tire]radius"])
		assert.Equal(t, false, ns.flat["verbose"])
	})

	t.Run("RepeatableValueReplacedByHigherSource", func(t *testing.T) {
		t.Setenv("CAR_TIRE_TAG", "env1,env2")

		ns, err := testBuilder(t, carProvider(t)).
			WithFile(file).
			WithEnvPrefix("CAR_").
			Build()
		require.NoError(t, err)
		assert.Equal(t, []string{"env1", "env2"}, ns.flat["[tire]tag"])
	})

	t.Run("CustomSourceOrder", func(t *testing.T) {
		t.Setenv("CAR_NAME", "from-env")

		ns, err := testBuilder(t, carProvider(t)).
			WithFile(file).
			WithEnvPrefix("CAR_").
			WithSources(SourceEnv, SourceFile, SourceCLI, SourceDefault).
			WithArgs([]string{"--name=from-cli", "--unit=cm"}).
			Build()
		require.NoError(t, err)
		assert.Equal(t, "from-env", ns.flat["name"])
		assert.Equal(t, "mm", ns.flat["unit"], "file outranks cli")
	})

	t.Run("OmittedSourceIsNotRead", func(t *testing.T) {
		t.Setenv("CAR_NAME", "from-env")

		ns, err := testBuilder(t, carProvider(t)).
			WithFile(file).
			WithEnvPrefix("CAR_").
			WithSources(SourceCLI, SourceDefault).
			Build()
		require.NoError(t, err)
		assert.Equal(t, "roadster", ns.flat["name"])
	})

	t.Run("UnknownSource", func(t *testing.T) {
		_, err := testBuilder(t, carProvider(t)).WithSources(Source("vault")).Build()
		assert.Error(t, err)
	})
}

func TestBuilderBuild(t *testing.T) {
	t.Run("MissingFileIsNotFatal", func(t *testing.T) {
		ns, err := testBuilder(t, carProvider(t)).
			WithFile(filepath.Join(t.TempDir(), "absent.toml")).
			WithArgs([]string{"-n", "cli"}).
			Build()
		assert.ErrorIs(t, err, ErrConfigNotFound)
		require.NotNil(t, ns)
		assert.Equal(t, "cli", ns.flat["name"])

		assert.NotPanics(t, func() {
			testBuilder(t, carProvider(t)).WithFile("/nonexistent/car.toml").MustBuild()
		})
	})

	t.Run("ForcedFormat", func(t *testing.T) {
		path := writeConfig(t, "car.cfg", "name: yaml-file\n")
		ns, err := testBuilder(t, carProvider(t)).WithFile(path).WithFormat(FormatYAML).Build()
		require.NoError(t, err)
		assert.Equal(t, "yaml-file", ns.flat["name"])
	})

	t.Run("BrokenFileIsFatal", func(t *testing.T) {
		path := writeConfig(t, "car.json", `{"name":`)
		_, err := testBuilder(t, carProvider(t)).WithFile(path).Build()
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrConfigNotFound)

		assert.Panics(t, func() {
			testBuilder(t, carProvider(t)).WithFile(path).MustBuild()
		})
	})

	t.Run("Help", func(t *testing.T) {
		var out bytes.Buffer
		_, err := testBuilder(t, carProvider(t)).
			WithArgs([]string{"--help"}).
			WithOutput(&out).
			Build()
		assert.True(t, errors.Is(err, pflag.ErrHelp))
		assert.Contains(t, out.String(), "Usage of test:")
		assert.Contains(t, out.String(), "--tire-radius")
	})

	t.Run("ArgsAndWarnings", func(t *testing.T) {
		car := NewProviderBuilder().
			WithValues(Value{Names: []string{"radius"}, Default: 1.0}).
			WithChild("tire", tireProvider(t)).
			MustBuild()

		b := testBuilder(t, car).WithArgs([]string{"--radius=2", "input.txt"})
		assert.Nil(t, b.Args())
		assert.Nil(t, b.Warnings())

		ns, err := b.Build()
		require.NoError(t, err)
		assert.Equal(t, 2.0, ns.flat["radius"])
		assert.Equal(t, []string{"input.txt"}, b.Args())
		require.Len(t, b.Warnings(), 1)
		assert.Equal(t, "/tire/radius", b.Warnings()[0].Site)
	})

	t.Run("Usage", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, testBuilder(t, carProvider(t)).WithOutput(&out).Usage())
		assert.Contains(t, out.String(), "\n/tire/:\n")
	})

	t.Run("NoRoot", func(t *testing.T) {
		_, err := NewBuilder(nil).Build()
		assert.Error(t, err)
	})
}

func TestBuilderScan(t *testing.T) {
	type tireConfig struct {
		Radius float64  `hiconfig:"radius"`
		Tags   []string `hiconfig:"tag"`
	}
	type carConfig struct {
		Name    string     `hiconfig:"name"`
		Verbose bool       `hiconfig:"verbose"`
		Unit    string     `hiconfig:"unit"`
		Tire    tireConfig `hiconfig:"tire"`
	}

	var cfg carConfig
	err := testBuilder(t, carProvider(t)).
		WithArgs([]string{"--tire-radius=19", "--tire-tag=a", "--tire-tag=b", "-v"}).
		BuildAndScan(&cfg)
	require.NoError(t, err)

	assert.Equal(t, "roadster", cfg.Name)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "cm", cfg.Unit)
	assert.Equal(t, 19.0, cfg.Tire.Radius)
	assert.Equal(t, []string{"a", "b"}, cfg.Tire.Tags)
}

func TestFileDiscovery(t *testing.T) {
	t.Run("CLIFlagIsExtracted", func(t *testing.T) {
		path := writeConfig(t, "car.toml", "name = \"discovered\"\n")
		for _, args := range [][]string{
			{"--config", path, "-v"},
			{"-v", "--config=" + path},
		} {
			b := testBuilder(t, carProvider(t)).
				WithArgs(args).
				WithFileDiscovery(DefaultDiscoveryOptions("car"))

			ns, err := b.Build()
			require.NoError(t, err)
			assert.Equal(t, "discovered", ns.flat["name"])
			assert.Equal(t, true, ns.flat["verbose"])
		}
	})

	t.Run("AfterTerminatorIsPositional", func(t *testing.T) {
		path, rest, ok := extractFlag([]string{"-v", "--", "--config", "x"}, "--config")
		assert.False(t, ok)
		assert.Empty(t, path)
		assert.Equal(t, []string{"-v", "--", "--config", "x"}, rest)
	})

	t.Run("EnvVar", func(t *testing.T) {
		path := writeConfig(t, "custom.yaml", "name: from-env-path\n")
		t.Setenv("CAR_CONFIG", path)

		ns, err := testBuilder(t, carProvider(t)).
			WithFileDiscovery(DefaultDiscoveryOptions("car")).
			Build()
		require.NoError(t, err)
		assert.Equal(t, "from-env-path", ns.flat["name"])
	})

	t.Run("SearchPaths", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "car.json"), []byte(`{"unit": "in"}`), 0644))

		opts := DefaultDiscoveryOptions("car")
		opts.EnvVar = ""
		opts.UseCurrentDir = false
		opts.UseXDG = false
		opts.Paths = []string{filepath.Join(dir, "missing"), dir}

		ns, err := testBuilder(t, carProvider(t)).WithFileDiscovery(opts).Build()
		require.NoError(t, err)
		assert.Equal(t, "in", ns.flat["unit"])
	})

	t.Run("XDGPaths", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/home/u/.cfg")
		t.Setenv("XDG_CONFIG_DIRS", "/opt/a:/opt/b")
		assert.Equal(t, []string{"/home/u/.cfg/car", "/opt/a/car", "/opt/b/car"}, getXDGConfigPaths("car"))
	})
}
