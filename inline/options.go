package inline

import (
	"io"

	"github.com/samber/mo"
	"github.com/urlresolver/urlresolver/media"
	"github.com/urlresolver/urlresolver/plugin"
)

// Recorder receives every successful resolution together with the resolver that produced it.
type Recorder func(file *media.HostedMediaFile, resolver plugin.Resolver, result *Result) error

type Options struct {
	Out    io.Writer
	Finder media.Finder
	URLs   []string
	Json   bool
	// Labels also fetches the display labels of every resolvable file.
	Labels   bool
	Recorder mo.Option[Recorder]
}
