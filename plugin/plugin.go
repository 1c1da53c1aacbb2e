// Package plugin defines the resolver plugin capabilities and the priority-ordered registry that stores them.
package plugin

import (
	"context"

	"github.com/samber/lo"
)

// Capability names a contract a plugin may implement.
type Capability string

const (
	// CapResolver marks plugins that turn hosted media references into direct media URLs.
	CapResolver Capability = "resolver"

	// CapAuth marks plugins that must log in before resolving.
	CapAuth Capability = "auth"
)

// Labels holds display metadata about a piece of hosted media, such as its title or thumbnail.
type Labels map[string]string

// Plugin is the common part of every registered plugin.
type Plugin interface {
	// Name returns the unique plugin name. It is the secondary ordering key.
	Name() string

	// Priority returns the ordering weight. Higher values are preferred.
	Priority() int

	// Implements lists the capabilities the plugin provides.
	Implements() []Capability
}

// Resolver is a plugin able to resolve media hosted on one or more domains.
type Resolver interface {
	Plugin

	// Domains returns the registrable domains the resolver claims.
	Domains() []string

	// IsUniversal reports whether the resolver relies on another resolver to build canonical URLs.
	IsUniversal() bool

	// HostAndID extracts the host and media id from a page URL.
	HostAndID(url string) (host, mediaID string, ok bool)

	// URL builds the canonical page URL for a host and media id.
	URL(host, mediaID string) string

	// MediaURL returns a direct, playable media URL. An empty string means the media could not be resolved.
	MediaURL(ctx context.Context, host, mediaID string) (string, error)

	// MediaLabels returns display metadata for the media.
	MediaLabels(ctx context.Context, host, mediaID string) (Labels, error)
}

// Authenticator is a plugin that has to log in to its site before use.
type Authenticator interface {
	Plugin

	Login(ctx context.Context) error
}

// HasCapability reports whether p declares capability c.
func HasCapability(p Plugin, c Capability) bool {
	return lo.Contains(p.Implements(), c)
}

// AsAuthenticator returns p as an Authenticator when it declares the auth capability and implements Login.
func AsAuthenticator(p Plugin) (Authenticator, bool) {
	if !HasCapability(p, CapAuth) {
		return nil, false
	}

	a, ok := p.(Authenticator)
	return a, ok
}

// Claims reports whether r declares domain as one of its domains.
func Claims(r Resolver, domain string) bool {
	return lo.Contains(r.Domains(), domain)
}
