package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/urlresolver/urlresolver/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Directories are created on demand", t, func() {
		for name, fn := range map[string]func() string{
			"Config":  Config,
			"Sources": Sources,
			"Logs":    Logs,
			"Cache":   Cache,
			"Temp":    Temp,
		} {
			Convey(name, func() {
				path := fn()
				So(path, ShouldNotBeEmpty)
				So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			})
		}
	})

	Convey("The config path can be overridden", t, func() {
		t.Setenv(EnvConfigPath, "/custom/urlresolver")
		So(Config(), ShouldEqual, "/custom/urlresolver")
		So(Sources(), ShouldEqual, filepath.Join("/custom/urlresolver", "sources"))
		So(History(), ShouldEqual, filepath.Join("/custom/urlresolver", "history.json"))
	})
}
