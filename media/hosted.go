// Package media implements the hosted media entity that picks resolver plugins for a page URL or a host and media id.
package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/urlresolver/urlresolver/log"
	"github.com/urlresolver/urlresolver/plugin"
)

// ErrInvalidArgument is returned by New when the options do not name exactly one of a URL or a host and media id pair.
var ErrInvalidArgument = errors.New("invalid argument")

// Finder looks up the resolvers claiming a domain. *plugin.Registry implements it.
type Finder interface {
	FindResolvers(domain string) []plugin.Resolver
}

// Options describes a piece of hosted media.
// Either URL, or Host and MediaID, must be set.
type Options struct {
	URL     string
	Host    string
	MediaID string
	Title   string
}

// HostedMediaFile represents media hosted somewhere on the internet, together with the resolvers able to handle it.
type HostedMediaFile struct {
	url       string
	host      string
	mediaID   string
	domain    string
	title     string
	resolvers []plugin.Resolver
}

// New validates opts, derives the domain, discovers candidate resolvers and canonicalizes the url, host and media id.
func New(finder Finder, opts Options) (*HostedMediaFile, error) {
	hasURL := opts.URL != ""
	hasPair := opts.Host != "" && opts.MediaID != ""
	if hasURL == hasPair || (hasURL && (opts.Host != "" || opts.MediaID != "")) {
		return nil, fmt.Errorf("%w: set either url, or host and media id", ErrInvalidArgument)
	}

	h := &HostedMediaFile{
		url:     opts.URL,
		host:    opts.Host,
		mediaID: opts.MediaID,
	}

	if hasURL {
		h.domain = TopDomain(h.url)
	} else {
		h.domain = TopDomain(h.host)
	}

	h.resolvers = finder.FindResolvers(h.domain)
	log.Debugf("found %d resolvers for domain %s", len(h.resolvers), h.domain)
	h.canonicalize(hasURL)

	h.title = opts.Title
	if h.title == "" {
		h.title = h.host
	}

	return h, nil
}

func (h *HostedMediaFile) canonicalize(fromURL bool) {
	if len(h.resolvers) == 0 {
		return
	}

	top := h.resolvers[0]
	if fromURL {
		if host, id, ok := top.HostAndID(h.url); ok {
			h.host, h.mediaID = host, id
			return
		}
	}

	if !top.IsUniversal() {
		if !fromURL {
			h.url = top.URL(h.host, h.mediaID)
		}
		return
	}

	if len(h.resolvers) < 2 {
		log.Debugf("universal resolver %s has no companion for %s", top.Name(), h.domain)
		h.resolvers = nil
		return
	}

	second := h.resolvers[1]
	if fromURL {
		if host, id, ok := second.HostAndID(h.url); ok {
			h.host, h.mediaID = host, id
		}
	}

	h.url = second.URL(h.host, h.mediaID)
	if host, id, ok := top.HostAndID(h.url); ok {
		h.host, h.mediaID = host, id
	}
}

// URL returns the page URL of the media.
func (h *HostedMediaFile) URL() string {
	return h.url
}

// Host returns the host of the media.
func (h *HostedMediaFile) Host() string {
	return h.host
}

// MediaID returns the id given to the media by its host.
func (h *HostedMediaFile) MediaID() string {
	return h.mediaID
}

// Domain returns the registrable domain used to select resolvers.
func (h *HostedMediaFile) Domain() string {
	return h.domain
}

// Title returns the display title, which defaults to the host.
func (h *HostedMediaFile) Title() string {
	return h.title
}

// Resolvers returns a copy of the candidate resolvers in priority order.
func (h *HostedMediaFile) Resolvers() []plugin.Resolver {
	out := make([]plugin.Resolver, len(h.resolvers))
	copy(out, h.resolvers)
	return out
}

// IsResolvable reports whether at least one resolver can handle the media.
func (h *HostedMediaFile) IsResolvable() bool {
	return len(h.resolvers) > 0
}

// Resolve tries every candidate resolver in priority order and returns the first direct media URL.
// A resolver that fails to log in or to resolve is skipped.
func (h *HostedMediaFile) Resolve(ctx context.Context) (mediaURL string, ok bool) {
	mediaURL, _, ok = h.ResolveWith(ctx)
	return
}

// ResolveWith behaves like Resolve and also returns the resolver that produced the URL.
func (h *HostedMediaFile) ResolveWith(ctx context.Context) (string, plugin.Resolver, bool) {
	for _, resolver := range h.resolvers {
		log.Debugf("resolving using %s plugin", resolver.Name())

		if err := login(ctx, resolver); err != nil {
			log.Errorf("%s: login failed: %v", resolver.Name(), err)
			continue
		}

		result, err := resolver.MediaURL(ctx, h.host, h.mediaID)
		if err != nil {
			log.Errorf("%s: resolve %s: %v", resolver.Name(), h, err)
			continue
		}

		if result != "" {
			return result, resolver, true
		}
	}

	return "", nil, false
}

// MediaLabels returns display metadata from the highest priority resolver only.
func (h *HostedMediaFile) MediaLabels(ctx context.Context) (plugin.Labels, bool) {
	if len(h.resolvers) == 0 {
		return nil, false
	}

	resolver := h.resolvers[0]
	log.Debugf("fetching labels using %s plugin", resolver.Name())

	if err := login(ctx, resolver); err != nil {
		log.Errorf("%s: login failed: %v", resolver.Name(), err)
		return nil, false
	}

	labels, err := resolver.MediaLabels(ctx, h.host, h.mediaID)
	if err != nil {
		log.Errorf("%s: labels for %s: %v", resolver.Name(), h, err)
		return nil, false
	}

	return labels, len(labels) > 0
}

func (h *HostedMediaFile) String() string {
	return fmt.Sprintf("{'url': '%s', 'host': '%s', 'media_id': '%s'}", h.url, h.host, h.mediaID)
}

func login(ctx context.Context, p plugin.Plugin) error {
	auth, ok := plugin.AsAuthenticator(p)
	if !ok {
		return nil
	}

	log.Debug("logging in")
	return auth.Login(ctx)
}
