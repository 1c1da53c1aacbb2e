package history

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/urlresolver/urlresolver/filesystem"
	"github.com/urlresolver/urlresolver/media"
	"github.com/urlresolver/urlresolver/plugin"
	"github.com/urlresolver/urlresolver/plugin/plugintest"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given a resolved media file", t, func() {
		So(Clear(), ShouldBeNil)

		stub := &plugintest.Stub{ID: "tube", Weight: 100, Hosts: []string{"tube.com"}, Extract: plugintest.WatchURL}
		reg := plugin.NewRegistry()
		reg.Add(stub)

		file, err := media.New(reg, media.Options{Host: "tube.com", MediaID: "abc", Title: "Clip"})
		So(err, ShouldBeNil)

		entry := NewEntry(file, stub, "https://cdn.tube.com/abc.mp4")

		Convey("When saving the entry", func() {
			So(Save(entry), ShouldBeNil)

			Convey("Then it can be read back by page URL", func() {
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldContainKey, "http://tube.com/watch?v=abc")

				got := saved["http://tube.com/watch?v=abc"]
				So(got.MediaURL, ShouldEqual, "https://cdn.tube.com/abc.mp4")
				So(got.Resolver, ShouldEqual, "tube")
				So(got.Count, ShouldEqual, 1)
				So(got.String(), ShouldEqual, "Clip (tube)")
			})

			Convey("And saving it again bumps the counter", func() {
				So(Save(NewEntry(file, stub, "https://cdn.tube.com/abc.mp4")), ShouldBeNil)

				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldHaveLength, 1)
				So(saved[entry.URL].Count, ShouldEqual, 2)
			})

			Convey("And removing it leaves the history empty", func() {
				So(Remove(entry.URL), ShouldBeNil)

				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldBeEmpty)
			})
		})

		Convey("List orders entries by recency", func() {
			older := &Entry{URL: "http://a.com/1", ResolvedAt: time.Now().Add(-time.Hour)}
			newer := &Entry{URL: "http://b.com/2", ResolvedAt: time.Now()}
			So(Save(older), ShouldBeNil)
			So(Save(newer), ShouldBeNil)

			entries, err := List()
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 2)
			So(entries[0].URL, ShouldEqual, newer.URL)
		})
	})
}
