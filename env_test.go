// FILE: lixenwraith/hiconfig/env_test.go
package hiconfig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("DefaultTransform", func(t *testing.T) {
		transform := DefaultEnvTransform("CAR_")
		assert.Equal(t, "CAR_TIRE_RADIUS", transform("tire-radius"))
		assert.Equal(t, "NAME", DefaultEnvTransform("")("name"))
	})

	t.Run("CollectsDeclaredFlags", func(t *testing.T) {
		t.Setenv("CAR_NAME", "estate")
		t.Setenv("CAR_TIRE_RADIUS", "24")
		t.Setenv("CAR_TIRE_TAG", "winter, studded")
		t.Setenv("CAR_WINGS", "2")

		overrides, err := carProvider(t).EnvOverrides("CAR_", nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"name":        "estate",
			"tire-radius": "24",
			"tire-tag":    []string{"winter", "studded"},
		}, overrides)
	})

	t.Run("CustomTransform", func(t *testing.T) {
		t.Setenv("X_RADIUS", "12")
		transform := func(flag string) string {
			if flag != "tire-radius" {
				return ""
			}
			return "X_RADIUS"
		}

		overrides, err := carProvider(t).EnvOverrides("", transform)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"tire-radius": "12"}, overrides)
	})

	t.Run("ValueTooLarge", func(t *testing.T) {
		t.Setenv("CAR_NAME", strings.Repeat("x", MaxValueSize+1))
		_, err := carProvider(t).EnvOverrides("CAR_", nil)
		assert.ErrorIs(t, err, ErrValueSize)
	})

	t.Run("FeedsTheEngine", func(t *testing.T) {
		t.Setenv("CAR_TIRE_RADIUS", "24")
		car := carProvider(t)

		overrides, err := car.EnvOverrides("CAR_", nil)
		require.NoError(t, err)
		args, err := OverrideArgs(overrides)
		require.NoError(t, err)

		e, _ := registeredEngine(t, car)
		ns, err := e.Parse(args)
		require.NoError(t, err)
		assert.Equal(t, 24.0, ns.flat["[tire]radius"])
	})
}

func TestDiscoverEnv(t *testing.T) {
	t.Setenv("CAR_UNIT", "in")
	t.Setenv("CAR_VERBOSE", "")

	found, err := carProvider(t).DiscoverEnv("CAR_", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"unit":    "CAR_UNIT",
		"verbose": "CAR_VERBOSE",
	}, found)
}
