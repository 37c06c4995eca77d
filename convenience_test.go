// FILE: lixenwraith/hiconfig/convenience_test.go
package hiconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuick(t *testing.T) {
	// Quick reads the process arguments, which belong to the test binary here.
	args := os.Args
	t.Cleanup(func() { os.Args = args })
	os.Args = []string{"car"}

	path := filepath.Join(t.TempDir(), "car.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tire]\nradius = 15.0\n"), 0644))
	t.Setenv("QCAR_NAME", "quick")

	ns, err := Quick(carProvider(t), "QCAR_", path)
	require.NoError(t, err)
	assert.Equal(t, "quick", ns.flat["name"])
	assert.Equal(t, 15.0, ns.flat["[tire]radius"])

	ns, err = Quick(carProvider(t), "QCAR_", filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
	require.NotNil(t, ns)

	assert.NotPanics(t, func() {
		MustQuick(carProvider(t), "QCAR_", "")
	})
}

func TestRequire(t *testing.T) {
	ns := NewNamespace()
	require.NoError(t, ns.Set("name", "roadster"))
	require.NoError(t, ns.Set("label", nil))

	assert.NoError(t, ns.Require("name"))

	err := ns.Require("name", "label", "[tire]radius")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label")
	assert.Contains(t, err.Error(), "[tire]radius (not declared)")
	assert.NotContains(t, err.Error(), "name")
}

func TestDebugAndDump(t *testing.T) {
	ns := NewNamespace()
	require.NoError(t, ns.Set("name", "roadster"))
	require.NoError(t, ns.Set("[tire]radius", 21.0))

	debug := ns.Debug()
	assert.Contains(t, debug, "  name = roadster (string)\n")
	assert.Contains(t, debug, "  [tire]radius = 21 (float64)\n")

	var buf bytes.Buffer
	require.NoError(t, ns.Dump(&buf))

	var decoded map[string]any
	_, err := toml.Decode(buf.String(), &decoded)
	require.NoError(t, err)
	assert.Equal(t, "roadster", decoded["name"])
	assert.Equal(t, map[string]any{"radius": 21.0}, decoded["tire"])
}
