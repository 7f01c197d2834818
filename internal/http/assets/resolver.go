package assets

// Package assets maps logical asset names (css/app.css) to the fingerprinted
// files listed in the frontend build manifest.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"
)

// StaticPrefix is the URL prefix static files are served under.
const StaticPrefix = "/static/"

// AssetResolver resolves logical asset names using manifest.json.
type AssetResolver struct {
	mu          sync.RWMutex
	manifest    map[string]string
	path        string
	fsys        fs.FS // nil means path is read from disk
	lastModTime time.Time
	logger      *slog.Logger
}

// NewAssetResolverFromDisk creates an asset resolver that reads the manifest from the local filesystem.
// A missing manifest is not an error; every lookup then misses.
func NewAssetResolverFromDisk(manifestPath string) (*AssetResolver, error) {
	ar := &AssetResolver{path: manifestPath, logger: slog.Default()}
	return ar, ar.Reload()
}

// NewAssetResolverFromFS creates an asset resolver that reads the manifest from an fs.FS implementation.
func NewAssetResolverFromFS(fsys fs.FS, manifestPath string) (*AssetResolver, error) {
	ar := &AssetResolver{path: manifestPath, fsys: fsys, logger: slog.Default()}
	return ar, ar.Reload()
}

// SetLogger updates the resolver's logger. If logger is nil, slog.Default() is used.
func (ar *AssetResolver) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	ar.mu.Lock()
	ar.logger = logger
	ar.mu.Unlock()
}

// Reload re-reads the manifest.
func (ar *AssetResolver) Reload() error {
	data, modTime, err := ar.read()
	if err != nil {
		return fmt.Errorf("read asset manifest %s: %w", ar.path, err)
	}

	manifest := map[string]string{}
	if len(data) > 0 {
		if jsonErr := json.Unmarshal(data, &manifest); jsonErr != nil {
			return fmt.Errorf("parse asset manifest %s: %w", ar.path, jsonErr)
		}
	}

	ar.mu.Lock()
	ar.manifest = manifest
	ar.lastModTime = modTime
	ar.mu.Unlock()
	return nil
}

func (ar *AssetResolver) read() ([]byte, time.Time, error) {
	if ar.path == "" {
		return nil, time.Time{}, nil
	}
	if ar.fsys != nil {
		data, err := fs.ReadFile(ar.fsys, ar.path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, time.Time{}, nil
		}
		return data, time.Time{}, err
	}

	info, err := os.Stat(ar.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	data, err := os.ReadFile(ar.path)
	return data, info.ModTime(), err
}

// ReloadIfChanged reloads a disk manifest whose modification time moved forward.
// Embedded manifests never change and are left alone.
func (ar *AssetResolver) ReloadIfChanged() {
	if ar == nil || ar.fsys != nil || ar.path == "" {
		return
	}
	info, err := os.Stat(ar.path)
	if err != nil {
		return
	}

	ar.mu.RLock()
	stale := info.ModTime().After(ar.lastModTime)
	logger := ar.logger
	ar.mu.RUnlock()
	if !stale {
		return
	}

	if reloadErr := ar.Reload(); reloadErr != nil {
		logger.Error("failed to reload asset manifest",
			slog.String("manifest", ar.path),
			slog.Any("error", reloadErr),
		)
	}
}

// Lookup returns the public URL for a logical asset and whether the manifest lists it.
func (ar *AssetResolver) Lookup(logicalName string) (string, bool) {
	if ar == nil {
		return "", false
	}
	ar.mu.RLock()
	defer ar.mu.RUnlock()
	hashed, ok := ar.manifest[logicalName]
	if !ok || hashed == "" {
		return "", false
	}
	return StaticPrefix + hashed, true
}
