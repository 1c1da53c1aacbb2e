// Package cache stores HTTP responses fetched by Lua plugins so repeated lookups do not hit the network.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urlresolver/urlresolver/filesystem"
	"github.com/urlresolver/urlresolver/where"
)

// TTL is how long an entry stays valid.
const TTL = 24 * time.Hour

func dir() string {
	path := filepath.Join(where.Cache(), "responses")
	_ = filesystem.API().MkdirAll(path, os.ModePerm)
	return path
}

// GenerateKey derives a cache key from a request identifier and a namespace.
func GenerateKey(request, namespace string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(strings.ReplaceAll(request, " ", "")) + namespace))
	return hex.EncodeToString(hash[:])
}

// Read decodes the entry stored under key into target. It reports false when the entry is missing, expired or unreadable.
func Read(key string, target any) bool {
	fs := filesystem.API()
	path := filepath.Join(dir(), key)

	info, err := fs.Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return false
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, target) == nil
}

// Write stores data under key, replacing the file atomically.
func Write(key string, data any) error {
	fs := filesystem.API()
	path := filepath.Join(dir(), key)

	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := fs.WriteFile(tmp, encoded, 0644); err != nil {
		return err
	}
	return fs.Rename(tmp, path)
}

// CollectGarbage removes expired entries.
func CollectGarbage() {
	fs := filesystem.API()
	entries, err := fs.ReadDir(dir())
	if err != nil {
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() && time.Since(entry.ModTime()) > TTL {
			_ = fs.Remove(filepath.Join(dir(), entry.Name()))
		}
	}
}
