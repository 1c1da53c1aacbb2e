package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/urlresolver/urlresolver/media"
	"github.com/urlresolver/urlresolver/plugin"
	"github.com/urlresolver/urlresolver/plugin/plugintest"
)

func registry() *plugin.Registry {
	reg := plugin.NewRegistry()
	reg.Add(&plugintest.Stub{
		ID:     "tube",
		Weight: 100,
		Hosts:  []string{"tube.com"},
		Media:  "https://cdn.tube.com/v.mp4",
		Labels: plugin.Labels{"title": "Clip"},
	})
	reg.Add(&plugintest.Stub{
		ID:     "broken",
		Weight: 100,
		Hosts:  []string{"broken.com"},
		Err:    errors.New("offline"),
	})
	return reg
}

func TestWriteJson(t *testing.T) {
	Convey("writeJson", t, func() {
		Convey("Should produce valid JSON for an empty batch", func() {
			var buf bytes.Buffer
			So(writeJson(&buf, nil), ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Total, ShouldEqual, 0)
			So(output.Result, ShouldHaveLength, 0)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a registry with a working and a failing resolver", t, func() {
		var buf bytes.Buffer
		options := &Options{
			Out:    &buf,
			Finder: registry(),
			URLs: []string{
				"http://tube.com/watch?v=1",
				"http://broken.com/watch?v=2",
				"http://unknown.org/page",
			},
		}

		Convey("Plain output lists only resolved media URLs", func() {
			So(Run(context.Background(), options), ShouldBeNil)
			So(buf.String(), ShouldEqual, "https://cdn.tube.com/v.mp4\n")
		})

		Convey("JSON output reports every page", func() {
			options.Json = true
			options.Labels = true
			So(Run(context.Background(), options), ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Total, ShouldEqual, 3)
			So(output.Resolved, ShouldEqual, 1)

			first := output.Result[0]
			So(first.Resolver, ShouldEqual, "tube")
			So(first.Host, ShouldEqual, "tube.com")
			So(first.MediaID, ShouldEqual, "1")
			So(first.Labels["title"], ShouldEqual, "Clip")

			So(output.Result[1].Error, ShouldNotBeEmpty)
			So(output.Result[2].Domain, ShouldEqual, "unknown.org")
			So(output.Result[2].Error, ShouldEqual, ErrNoResolver.Error())
		})

		Convey("The recorder sees successful resolutions only", func() {
			var recorded []string
			options.Recorder = mo.Some[Recorder](func(file *media.HostedMediaFile, _ plugin.Resolver, r *Result) error {
				recorded = append(recorded, file.URL())
				return nil
			})

			So(Run(context.Background(), options), ShouldBeNil)
			So(recorded, ShouldResemble, []string{"http://tube.com/watch?v=1"})
		})

		Convey("A cancelled context stops the batch", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			So(errors.Is(Run(ctx, options), context.Canceled), ShouldBeTrue)
		})
	})
}
