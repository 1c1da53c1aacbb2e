package open

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	const media = "https://cdn.example.com/v.mp4?a=1&b=2"

	Convey("Given a media URL", t, func() {
		Convey("The default handler is used when no app is set", func() {
			cmd, err := Command("linux", media, "")
			So(err, ShouldBeNil)
			So(cmd.Args, ShouldResemble, []string{"xdg-open", media})

			cmd, err = Command("darwin", media, "")
			So(err, ShouldBeNil)
			So(cmd.Args, ShouldResemble, []string{"open", media})
		})

		Convey("A chosen app receives the URL", func() {
			cmd, err := Command("linux", media, "mpv")
			So(err, ShouldBeNil)
			So(cmd.Args, ShouldResemble, []string{"mpv", media})

			cmd, err = Command("darwin", media, "IINA")
			So(err, ShouldBeNil)
			So(cmd.Args, ShouldResemble, []string{"open", "-a", "IINA", media})
		})

		Convey("Ampersands are escaped for cmd on Windows", func() {
			cmd, err := Command("windows", media, "vlc")
			So(err, ShouldBeNil)
			So(cmd.Args[len(cmd.Args)-1], ShouldEqual, "https://cdn.example.com/v.mp4?a=1^&b=2")
		})

		Convey("Unknown systems are rejected", func() {
			_, err := Command("plan9", media, "")
			So(err, ShouldNotBeNil)
		})
	})
}
