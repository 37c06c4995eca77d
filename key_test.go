// FILE: lixenwraith/hiconfig/key_test.go
package hiconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyCodec(t *testing.T) {
	t.Run("EncodeDecodeRoundTrip", func(t *testing.T) {
		cases := []struct {
			segments []string
			leaf     string
			encoded  string
		}{
			{nil, "radius", "radius"},
			{[]string{"car"}, "radius", "[car]radius"},
			{[]string{"car", "front_tire"}, "radius", "[car][front_tire]radius"},
			{[]string{"a-b", "c d"}, "e.f", "[a-b][c d]e.f"},
		}

		for _, tc := range cases {
			encoded := EncodeKey(tc.segments, tc.leaf)
			assert.Equal(t, tc.encoded, encoded)

			segments, leaf, err := DecodeKey(encoded)
			require.NoError(t, err)
			assert.Equal(t, len(tc.segments), len(segments))
			for i := range tc.segments {
				assert.Equal(t, tc.segments[i], segments[i])
			}
			assert.Equal(t, tc.leaf, leaf)
		}
	})

	t.Run("SplitKey", func(t *testing.T) {
		head, rest, nested, err := SplitKey("[car][front_tire]radius")
		require.NoError(t, err)
		assert.True(t, nested)
		assert.Equal(t, "car", head)
		assert.Equal(t, "[front_tire]radius", rest)

		head, rest, nested, err = SplitKey("radius")
		require.NoError(t, err)
		assert.False(t, nested)
		assert.Empty(t, head)
		assert.Equal(t, "radius", rest)
	})

	t.Run("MalformedKeys", func(t *testing.T) {
		for _, key := range []string{
			"",
			"[car",
			"[]radius",
			"[car]",
			"[car]ra]dius",
			"rad[ius",
			"[car][wheel",
		} {
			_, _, err := DecodeKey(key)
			assert.ErrorIs(t, err, ErrMalformedKey, "key %q", key)
		}
	})

	t.Run("IsNestedKey", func(t *testing.T) {
		assert.True(t, IsNestedKey("[car]radius"))
		assert.False(t, IsNestedKey("radius"))
	})

	t.Run("Sites", func(t *testing.T) {
		assert.Equal(t, "/car/front_tire/radius", keyToSite("[car][front_tire]radius"))
		assert.Equal(t, "/radius", keyToSite("radius"))
		assert.Equal(t, "/", formatGroup(nil))
		assert.Equal(t, "/car/front_tire/", formatGroup([]string{"car", "front_tire"}))
	})
}
