// Package where resolves the application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/urlresolver/urlresolver/constant"
	"github.com/urlresolver/urlresolver/filesystem"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "URLRESOLVER_CONFIG_PATH"

func mkdir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config returns the configuration directory, honouring EnvConfigPath.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return mkdir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return mkdir(filepath.Join(base, constant.Urlresolver))
}

// Sources returns the directory holding the Lua resolver plugins.
func Sources() string {
	return mkdir(filepath.Join(Config(), "sources"))
}

// Logs returns the log directory.
func Logs() string {
	return mkdir(filepath.Join(Config(), "logs"))
}

// Cache returns the cache directory, falling back to ./cache when the user cache dir is unknown.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return mkdir(filepath.Join(base, constant.Urlresolver))
}

// History returns the path of the resolution history file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Temp returns a scratch directory for transient files.
func Temp() string {
	return mkdir(filepath.Join(os.TempDir(), constant.Urlresolver))
}
