package assets

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetResolver_FromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"manifest.json": &fstest.MapFile{Data: []byte(`{"css/app.css":"css/app.1a2b3c4d.css"}`)},
	}
	ar, err := NewAssetResolverFromFS(fsys, "manifest.json")
	require.NoError(t, err)

	href, ok := ar.Lookup("css/app.css")
	assert.True(t, ok)
	assert.Equal(t, "/static/css/app.1a2b3c4d.css", href)

	_, ok = ar.Lookup("js/app.js")
	assert.False(t, ok)
}

func TestAssetResolver_MissingManifest(t *testing.T) {
	ar, err := NewAssetResolverFromFS(fstest.MapFS{}, "manifest.json")
	require.NoError(t, err)
	_, ok := ar.Lookup("css/app.css")
	assert.False(t, ok)

	disk, err := NewAssetResolverFromDisk(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	_, ok = disk.Lookup("css/app.css")
	assert.False(t, ok)
}

func TestAssetResolver_InvalidManifest(t *testing.T) {
	fsys := fstest.MapFS{"manifest.json": &fstest.MapFile{Data: []byte(`{not json`)}}
	_, err := NewAssetResolverFromFS(fsys, "manifest.json")
	require.Error(t, err)
}

func TestAssetResolver_ReloadIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"css/app.css":"css/app.aaaaaaaa.css"}`), 0o600))

	ar, err := NewAssetResolverFromDisk(path)
	require.NoError(t, err)
	href, _ := ar.Lookup("css/app.css")
	assert.Equal(t, "/static/css/app.aaaaaaaa.css", href)

	require.NoError(t, os.WriteFile(path, []byte(`{"css/app.css":"css/app.bbbbbbbb.css"}`), 0o600))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	ar.ReloadIfChanged()
	href, _ = ar.Lookup("css/app.css")
	assert.Equal(t, "/static/css/app.bbbbbbbb.css", href)
}
