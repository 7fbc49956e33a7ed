package middleware

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"io/fs"
	"sync"

	"go.uber.org/zap"
)

// StaticPrefix is the URL path the embedded static files are served under.
const StaticPrefix = "/static/"

var (
	assetVersions   = map[string]string{}
	assetVersionsMu sync.RWMutex
)

// InitAssetVersions computes file hashes for cache busting at startup.
func InitAssetVersions(fsys fs.FS, files ...string) {
	versions := make(map[string]string, len(files))
	for _, file := range files {
		version := computeFileHash(fsys, file)
		if version == "" {
			version = "1"
		}
		versions[file] = version
	}

	assetVersionsMu.Lock()
	assetVersions = versions
	assetVersionsMu.Unlock()
	zap.L().Info("asset versions initialized", zap.Int("files", len(versions)))
}

// computeFileHash returns the first 8 characters of the MD5 hash of a file
func computeFileHash(fsys fs.FS, path string) string {
	file, err := fsys.Open(path)
	if err != nil {
		zap.L().Warn("failed to open file for hashing", zap.String("path", path), zap.Error(err))
		return ""
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		zap.L().Warn("failed to hash file", zap.String("path", path), zap.Error(err))
		return ""
	}

	return hex.EncodeToString(hash.Sum(nil))[:8]
}

// AssetVersion returns the version hash of a static file, "1" when unknown.
func AssetVersion(name string) string {
	assetVersionsMu.RLock()
	defer assetVersionsMu.RUnlock()
	if version, ok := assetVersions[name]; ok {
		return version
	}
	return "1"
}

// AssetURL is the versioned URL of a static file.
func AssetURL(name string) string {
	return StaticPrefix + name + "?v=" + AssetVersion(name)
}
