package scraper

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/urlresolver/urlresolver/filesystem"
	lua "github.com/yuin/gopher-lua"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPreCompileAndLoad(t *testing.T) {
	Convey("Given a script on disk", t, func() {
		path := "/plugins/answer.lua"
		So(filesystem.API().WriteFile(path, []byte("Answer = 42"), 0644), ShouldBeNil)
		Forget(path)

		Convey("It runs in the state", func() {
			L := lua.NewState()
			defer L.Close()

			So(PreCompileAndLoad(L, path), ShouldBeNil)
			So(L.GetGlobal("Answer").String(), ShouldEqual, "42")
		})

		Convey("The bytecode is reused until forgotten", func() {
			first, err := Compile(path)
			So(err, ShouldBeNil)

			So(filesystem.API().WriteFile(path, []byte("Answer = 7"), 0644), ShouldBeNil)
			second, err := Compile(path)
			So(err, ShouldBeNil)
			So(second, ShouldEqual, first)

			Forget(path)
			third, err := Compile(path)
			So(err, ShouldBeNil)
			So(third, ShouldNotEqual, first)
		})
	})

	Convey("Syntax errors are reported", t, func() {
		path := "/plugins/broken.lua"
		So(filesystem.API().WriteFile(path, []byte("function ("), 0644), ShouldBeNil)
		Forget(path)

		_, err := Compile(path)
		So(err, ShouldNotBeNil)
	})

	Convey("Missing files are reported", t, func() {
		_, err := Compile("/plugins/missing.lua")
		So(err, ShouldNotBeNil)
	})
}
