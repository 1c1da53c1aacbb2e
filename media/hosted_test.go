package media_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/urlresolver/urlresolver/media"
	"github.com/urlresolver/urlresolver/plugin"
	"github.com/urlresolver/urlresolver/plugin/plugintest"
)

func registryOf(stubs ...*plugintest.Stub) *plugin.Registry {
	reg := plugin.NewRegistry()
	for _, s := range stubs {
		reg.Add(s)
	}
	return reg
}

func TestNewValidation(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		reg := plugin.NewRegistry()

		valid := []media.Options{
			{URL: "http://youtube.com/watch?v=1"},
			{Host: "youtube.com", MediaID: "1"},
			{URL: "http://youtube.com/watch?v=1", Title: "A title"},
		}
		for _, opts := range valid {
			_, err := media.New(reg, opts)
			So(err, ShouldBeNil)
		}

		invalid := []media.Options{
			{},
			{Title: "only a title"},
			{Host: "youtube.com"},
			{MediaID: "1"},
			{URL: "http://youtube.com/watch?v=1", Host: "youtube.com"},
			{URL: "http://youtube.com/watch?v=1", MediaID: "1"},
			{URL: "http://youtube.com/watch?v=1", Host: "youtube.com", MediaID: "1"},
		}
		for _, opts := range invalid {
			_, err := media.New(reg, opts)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, media.ErrInvalidArgument), ShouldBeTrue)
		}
	})
}

func TestNoResolver(t *testing.T) {
	Convey("Given a domain without resolvers", t, func() {
		reg := registryOf(&plugintest.Stub{ID: "tube", Weight: 100, Hosts: []string{"youtube.com"}, Media: "http://cdn/video.mp4"})

		hmf, err := media.New(reg, media.Options{URL: "http://unknown.org/watch?v=1"})
		So(err, ShouldBeNil)

		Convey("It is not resolvable", func() {
			So(hmf.IsResolvable(), ShouldBeFalse)
			So(hmf.Domain(), ShouldEqual, "unknown.org")

			result, ok := hmf.Resolve(context.Background())
			So(ok, ShouldBeFalse)
			So(result, ShouldBeEmpty)

			labels, ok := hmf.MediaLabels(context.Background())
			So(ok, ShouldBeFalse)
			So(labels, ShouldBeNil)
		})
	})
}

func TestEquivalentConstructions(t *testing.T) {
	Convey("Given a youtube.com resolver", t, func() {
		reg := registryOf(&plugintest.Stub{ID: "youtube", Weight: 100, Hosts: []string{"youtube.com"}})

		fromURL, err := media.New(reg, media.Options{URL: "http://youtube.com/watch?v=ABC123XYZ"})
		So(err, ShouldBeNil)

		fromPair, err := media.New(reg, media.Options{Host: "youtube.com", MediaID: "ABC123XYZ"})
		So(err, ShouldBeNil)

		Convey("Host and media id agree", func() {
			So(fromURL.Host(), ShouldEqual, "youtube.com")
			So(fromURL.MediaID(), ShouldEqual, "ABC123XYZ")
			So(fromPair.Host(), ShouldEqual, fromURL.Host())
			So(fromPair.MediaID(), ShouldEqual, fromURL.MediaID())
		})

		Convey("The url is derived from the host and media id", func() {
			So(fromPair.URL(), ShouldEqual, "http://youtube.com/watch?v=ABC123XYZ")
		})

		Convey("The title defaults to the host", func() {
			So(fromURL.Title(), ShouldEqual, "youtube.com")
			So(fromPair.IsResolvable(), ShouldBeTrue)
		})

		Convey("String lists url, host and media id", func() {
			So(fromPair.String(), ShouldEqual, "{'url': 'http://youtube.com/watch?v=ABC123XYZ', 'host': 'youtube.com', 'media_id': 'ABC123XYZ'}")
		})
	})
}

func TestExplicitTitle(t *testing.T) {
	Convey("An explicit title is kept", t, func() {
		hmf, err := media.New(plugin.NewRegistry(), media.Options{Host: "example.com", MediaID: "1", Title: "Trailer"})
		So(err, ShouldBeNil)
		So(hmf.Title(), ShouldEqual, "Trailer")
	})
}

func TestUniversalCanonicalization(t *testing.T) {
	Convey("Given a universal resolver that cannot parse raw page URLs", t, func() {
		universal := &plugintest.Stub{
			ID:        "debrid",
			Weight:    200,
			Hosts:     []string{"youtube.com"},
			Universal: true,
			Extract: func(url string) (string, string, bool) {
				if url == "http://youtube.com/watch?v=ABC" {
					return "youtube.com", "canonical-ABC", true
				}
				return "", "", false
			},
		}

		Convey("With a second resolver, the canonical url comes from it", func() {
			second := &plugintest.Stub{ID: "youtube", Weight: 100, Hosts: []string{"youtube.com"}}
			reg := registryOf(universal, second)

			hmf, err := media.New(reg, media.Options{Host: "youtube.com", MediaID: "ABC"})
			So(err, ShouldBeNil)
			So(hmf.IsResolvable(), ShouldBeTrue)
			So(hmf.URL(), ShouldEqual, "http://youtube.com/watch?v=ABC")
			So(hmf.MediaID(), ShouldEqual, "canonical-ABC")

			fromURL, err := media.New(reg, media.Options{URL: "https://youtube.com/watch?v=ABC"})
			So(err, ShouldBeNil)
			So(fromURL.URL(), ShouldEqual, "http://youtube.com/watch?v=ABC")
			So(fromURL.Host(), ShouldEqual, "youtube.com")
			So(fromURL.MediaID(), ShouldEqual, "canonical-ABC")
		})

		Convey("Alone, the media is unresolvable", func() {
			reg := registryOf(universal)

			hmf, err := media.New(reg, media.Options{URL: "https://youtube.com/watch?v=ABC"})
			So(err, ShouldBeNil)
			So(hmf.IsResolvable(), ShouldBeFalse)
			So(hmf.Resolvers(), ShouldBeEmpty)
		})
	})

	Convey("A universal resolver that parses the url directly is used as is", t, func() {
		universal := &plugintest.Stub{ID: "debrid", Weight: 200, Hosts: []string{"youtube.com"}, Universal: true}
		reg := registryOf(universal)

		hmf, err := media.New(reg, media.Options{URL: "http://youtube.com/watch?v=XYZ"})
		So(err, ShouldBeNil)
		So(hmf.IsResolvable(), ShouldBeTrue)
		So(hmf.MediaID(), ShouldEqual, "XYZ")
	})
}

func TestResolve(t *testing.T) {
	Convey("Given three resolvers where only the last succeeds", t, func() {
		first := &plugintest.Stub{ID: "a", Weight: 300, Hosts: []string{"example.com"}}
		second := &plugintest.Stub{ID: "b", Weight: 200, Hosts: []string{"example.com"}}
		third := &plugintest.Stub{ID: "c", Weight: 100, Hosts: []string{"example.com"}, Media: "http://cdn.example.com/v.mp4"}
		reg := registryOf(third, first, second)

		hmf, err := media.New(reg, media.Options{Host: "example.com", MediaID: "42"})
		So(err, ShouldBeNil)

		Convey("The third resolver's url is returned", func() {
			result, resolver, ok := hmf.ResolveWith(context.Background())
			So(ok, ShouldBeTrue)
			So(result, ShouldEqual, "http://cdn.example.com/v.mp4")
			So(resolver.Name(), ShouldEqual, "c")

			So(first.MediaCalls, ShouldEqual, 1)
			So(second.MediaCalls, ShouldEqual, 1)
			So(third.MediaCalls, ShouldEqual, 1)
			So(third.LastHost, ShouldEqual, "example.com")
			So(third.LastMediaID, ShouldEqual, "42")
		})

		Convey("Candidates are tried in priority order and stop at the first hit", func() {
			second.Media = "http://cdn.example.com/second.mp4"

			result, ok := hmf.Resolve(context.Background())
			So(ok, ShouldBeTrue)
			So(result, ShouldEqual, "http://cdn.example.com/second.mp4")
			So(first.MediaCalls, ShouldEqual, 1)
			So(third.MediaCalls, ShouldEqual, 0)
		})

		Convey("A failing resolver does not abort the fallback", func() {
			first.Err = errors.New("network down")

			result, ok := hmf.Resolve(context.Background())
			So(ok, ShouldBeTrue)
			So(result, ShouldEqual, "http://cdn.example.com/v.mp4")
		})

		Convey("When every resolver fails there is no result", func() {
			third.Media = ""

			_, ok := hmf.Resolve(context.Background())
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a resolver that needs to log in", t, func() {
		secure := &plugintest.Stub{ID: "secure", Weight: 200, Hosts: []string{"example.com"}, Auth: true, Media: "http://cdn/secure.mp4"}
		open := &plugintest.Stub{ID: "open", Weight: 100, Hosts: []string{"example.com"}, Media: "http://cdn/open.mp4"}
		reg := registryOf(secure, open)

		hmf, err := media.New(reg, media.Options{Host: "example.com", MediaID: "1"})
		So(err, ShouldBeNil)

		Convey("It logs in before resolving", func() {
			result, ok := hmf.Resolve(context.Background())
			So(ok, ShouldBeTrue)
			So(result, ShouldEqual, "http://cdn/secure.mp4")
			So(secure.Logins, ShouldEqual, 1)
			So(open.Logins, ShouldEqual, 0)
		})

		Convey("A failed login skips to the next candidate", func() {
			secure.LoginErr = errors.New("bad password")

			result, ok := hmf.Resolve(context.Background())
			So(ok, ShouldBeTrue)
			So(result, ShouldEqual, "http://cdn/open.mp4")
			So(secure.MediaCalls, ShouldEqual, 0)
		})
	})
}

func TestMediaLabels(t *testing.T) {
	Convey("Given two resolvers where only the second has labels", t, func() {
		first := &plugintest.Stub{ID: "first", Weight: 200, Hosts: []string{"example.com"}}
		second := &plugintest.Stub{ID: "second", Weight: 100, Hosts: []string{"example.com"}, Labels: plugin.Labels{"title": "Second"}}
		reg := registryOf(first, second)

		hmf, err := media.New(reg, media.Options{Host: "example.com", MediaID: "1"})
		So(err, ShouldBeNil)

		Convey("Only the top resolver is consulted", func() {
			labels, ok := hmf.MediaLabels(context.Background())
			So(ok, ShouldBeFalse)
			So(labels, ShouldBeEmpty)
			So(first.LabelCalls, ShouldEqual, 1)
			So(second.LabelCalls, ShouldEqual, 0)
		})

		Convey("The top resolver's labels are returned", func() {
			first.Labels = plugin.Labels{"title": "First"}
			first.Auth = true

			labels, ok := hmf.MediaLabels(context.Background())
			So(ok, ShouldBeTrue)
			So(labels["title"], ShouldEqual, "First")
			So(first.Logins, ShouldEqual, 1)
		})
	})
}
