// Package version checks the running release against the latest published one.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/urlresolver/urlresolver/filesystem"
	"github.com/urlresolver/urlresolver/network"
	"github.com/urlresolver/urlresolver/util"
	"github.com/urlresolver/urlresolver/where"
)

// ReleasesURL points at the latest release metadata.
var ReleasesURL = "https://api.github.com/repos/urlresolver/urlresolver/releases/latest"

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// Latest returns the latest released version. The answer is cached for two days.
func Latest(ctx context.Context) (version string, err error) {
	ver, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	body, err := network.Get(ctx, ReleasesURL)
	if err != nil {
		return
	}
	defer util.Ignore(body.Close)

	var release struct {
		TagName string `json:"tag_name"`
	}

	if err = json.NewDecoder(body).Decode(&release); err != nil {
		return
	}

	if release.TagName == "" {
		err = errors.New("empty tag name")
		return
	}

	version = strings.TrimPrefix(release.TagName, "v")
	_ = versionCacher.Set(version)
	return
}
