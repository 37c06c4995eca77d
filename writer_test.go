// FILE: lixenwraith/hiconfig/writer_test.go
package hiconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTemplate(t *testing.T) {
	t.Run("TOML", func(t *testing.T) {
		data, err := carProvider(t).WriteTemplate(FormatTOML)
		require.NoError(t, err)
		tmpl := string(data)

		assert.Contains(t, tmpl, "## car name\n# name = \"roadster\"\n")
		assert.Contains(t, tmpl, "## --verbose\n# verbose = false\n")
		assert.Contains(t, tmpl, "## (one of: mm, cm, in)\n# unit = \"cm\"\n")
		assert.Contains(t, tmpl, "# label = LABEL\n")
		assert.Contains(t, tmpl, "[tire]\n## tire radius\n# radius = 21.0\n")
		assert.Contains(t, tmpl, "# tag = []\n")
		assert.Less(t, strings.Index(tmpl, "# label"), strings.Index(tmpl, "[tire]"), "root values precede sections")
	})

	t.Run("YAML", func(t *testing.T) {
		data, err := carProvider(t).WriteTemplate(FormatYAML)
		require.NoError(t, err)
		tmpl := string(data)

		assert.True(t, strings.HasPrefix(tmpl, "---\n"))
		assert.Contains(t, tmpl, "# name: roadster\n")
		assert.Contains(t, tmpl, "tire:\n  ## tire radius\n  # radius: 21\n")
		assert.Contains(t, tmpl, "  # tag:\n")
	})

	t.Run("UncommentedTOMLReadsBack", func(t *testing.T) {
		car := carProvider(t)
		data, err := car.WriteTemplate(FormatTOML)
		require.NoError(t, err)

		edited := strings.Replace(string(data), "# radius = 21.0", "radius = 30.0", 1)
		edited = strings.Replace(edited, "# unit = \"cm\"", "unit = \"mm\"", 1)

		ns, err := car.ReadDocument([]byte(edited), FormatTOML, quiet)
		require.NoError(t, err)
		assert.Equal(t, 30.0, ns.flat["[tire]radius"])
		assert.Equal(t, "mm", ns.flat["unit"])
		assert.Equal(t, "roadster", ns.flat["name"])
	})

	t.Run("UncommentedYAMLReadsBack", func(t *testing.T) {
		car := carProvider(t)
		data, err := car.WriteTemplate(FormatYAML)
		require.NoError(t, err)

		edited := strings.Replace(string(data), "# radius: 21", "radius: 30", 1)
		ns, err := car.ReadDocument([]byte(edited), FormatYAML, quiet)
		require.NoError(t, err)
		assert.Equal(t, 30.0, ns.flat["[tire]radius"])
	})

	t.Run("UntouchedTemplateKeepsDefaults", func(t *testing.T) {
		car := carProvider(t)
		for _, format := range []Format{FormatTOML, FormatYAML} {
			data, err := car.WriteTemplate(format)
			require.NoError(t, err)
			ns, err := car.ReadDocument(data, format, quiet)
			require.NoError(t, err, format)
			assert.Equal(t, 21.0, ns.flat["[tire]radius"], format)
		}
	})

	t.Run("SectionsFollowFlagPrefixes", func(t *testing.T) {
		tire := tireProvider(t)
		axle := NewProviderBuilder().
			WithValues(Value{Names: []string{"width"}, Default: 1.5}).
			WithChild("front-tire", tire).
			MustBuild()
		car := NewProviderBuilder().
			WithChild("axle", axle, WithPrefix("")).
			MustBuild()

		data, err := car.WriteTemplate(FormatTOML)
		require.NoError(t, err)
		tmpl := string(data)
		assert.NotContains(t, tmpl, "[axle]")
		assert.Contains(t, tmpl, "# width = 1.5\n")
		assert.Contains(t, tmpl, "[front-tire]\n")

		edited := strings.Replace(tmpl, "# radius = 21.0", "radius = 18.0", 1)
		ns, err := car.ReadDocument([]byte(edited), FormatTOML, quiet)
		require.NoError(t, err)
		assert.Equal(t, 18.0, ns.flat["[axle][front_tire]radius"])
	})

	t.Run("PropagatedTargetsAreOmitted", func(t *testing.T) {
		car := NewProviderBuilder().
			WithPropagated(Value{Names: []string{"unit"}, Default: "cm"}).
			WithChild("tire", tireProvider(t)).
			MustBuild()

		data, err := car.WriteTemplate(FormatTOML)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(data), "# unit = "))
	})

	t.Run("Unsupported", func(t *testing.T) {
		_, err := carProvider(t).WriteTemplate(FormatHCL)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestWriteTemplateFile(t *testing.T) {
	dir := t.TempDir()
	car := carProvider(t)

	path := filepath.Join(dir, "nested", "car.yaml")
	require.NoError(t, car.WriteTemplateFile(path, FormatAuto))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := car.WriteTemplate(FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(written))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")

	err = car.WriteTemplateFile(filepath.Join(dir, "car.ini"), FormatAuto)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
