package adapters

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"target-platform/internal/types"
)

const sampleRepository = `name: ee
units:
  - id: javax.xml
    version: 0.0.1.SNAPSHOT
    provides:
      - namespace: package
        name: javax.xml.parsers
  - id: dom-client
    version: 0.0.1.SNAPSHOT
    provenance: ignored
    synthetic: true
    requires:
      - namespace: package
        name: org.w3c.dom
        filter: os == "linux"
`

func writeRepository(t *testing.T, dir string, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestRepositoryFileAdapterListUnits(t *testing.T) {
	path := writeRepository(t, t.TempDir(), "repo.yaml", []byte(sampleRepository))

	units, err := NewRepositoryFileAdapter(path).ListUnits(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "javax.xml", units[0].ID)
	assert.Equal(t, types.VersionSchemeOSGi, units[0].Scheme)
	assert.Equal(t, "dom-client", units[1].ID)
	assert.Empty(t, units[1].Provenance)
	assert.False(t, units[1].Synthetic)
}

func TestRepositoryFileAdapterDirectoryUsesContentFile(t *testing.T) {
	dir := t.TempDir()
	writeRepository(t, dir, RepositoryContentFile, []byte(sampleRepository))

	adapter := NewRepositoryFileAdapter("file://" + dir)
	assert.Equal(t, filepath.Join(dir, RepositoryContentFile), adapter.Name())

	units, err := adapter.ListUnits(context.Background())
	require.NoError(t, err)
	assert.Len(t, units, 2)
}

func TestRepositoryFileAdapterGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(sampleRepository))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	path := writeRepository(t, t.TempDir(), "repo.yaml.gz", buf.Bytes())

	units, err := NewRepositoryFileAdapter(path).ListUnits(context.Background())
	require.NoError(t, err)
	assert.Len(t, units, 2)
}

func TestRepositoryFileAdapterSchemeDefaults(t *testing.T) {
	content := `version_scheme: debian
units:
  - id: libfoo
    version: 1.2-3
  - id: tool
    version: 2.0.0
    scheme: pep440
`
	path := writeRepository(t, t.TempDir(), "repo.yaml", []byte(content))

	units, err := NewRepositoryFileAdapter(path).ListUnits(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, types.VersionSchemeDebian, units[0].Scheme)
	assert.Equal(t, types.VersionSchemePEP440, units[1].Scheme)
}

func TestRepositoryFileAdapterRejectsInvalidContent(t *testing.T) {
	cases := map[string]string{
		"missing id":       "units:\n  - version: 1.0.0\n",
		"bad scheme":       "version_scheme: semver2\nunits: []\n",
		"bad yaml":         "units: [\n",
		"bad filter":       "units:\n  - id: a\n    version: 1.0.0\n    filter: 'os == &&'\n",
		"bad range":        "units:\n  - id: a\n    version: 1.0.0\n    requires:\n      - namespace: unit\n        name: b\n        range: '[2.0.0,1.0.0'\n",
		"empty capability": "units:\n  - id: a\n    version: 1.0.0\n    provides:\n      - namespace: package\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeRepository(t, t.TempDir(), "repo.yaml", []byte(content))
			_, err := NewRepositoryFileAdapter(path).ListUnits(context.Background())
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
		})
	}
}

func TestRepositoryFileAdapterMissingFile(t *testing.T) {
	_, err := NewRepositoryFileAdapter(filepath.Join(t.TempDir(), "absent.yaml")).ListUnits(context.Background())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestRepositoryFileAdapterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRepositoryFileAdapter("unused.yaml").ListUnits(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
