// Package plugintest provides configurable in-memory plugins for tests.
package plugintest

import (
	"context"
	"strings"

	"github.com/urlresolver/urlresolver/plugin"
)

// Stub is a resolver whose behaviour is set through its fields.
// Calls to Login, MediaURL and MediaLabels are counted.
type Stub struct {
	ID        string
	Weight    int
	Hosts     []string
	Universal bool
	Auth      bool

	// Extract parses a page URL. When nil, URLs of the form "http://<host>/watch?v=<id>" are parsed.
	Extract func(url string) (host, mediaID string, ok bool)

	// Media is returned by MediaURL together with Err.
	Media string
	Err   error

	// Labels is returned by MediaLabels together with LabelsErr.
	Labels    plugin.Labels
	LabelsErr error

	LoginErr error

	Logins      int
	MediaCalls  int
	LabelCalls  int
	LastHost    string
	LastMediaID string
}

var (
	_ plugin.Resolver      = (*Stub)(nil)
	_ plugin.Authenticator = (*Stub)(nil)
)

func (s *Stub) Name() string  { return s.ID }
func (s *Stub) Priority() int { return s.Weight }

func (s *Stub) Implements() []plugin.Capability {
	caps := []plugin.Capability{plugin.CapResolver}
	if s.Auth {
		caps = append(caps, plugin.CapAuth)
	}
	return caps
}

func (s *Stub) Domains() []string { return s.Hosts }
func (s *Stub) IsUniversal() bool { return s.Universal }

func (s *Stub) HostAndID(url string) (string, string, bool) {
	if s.Extract != nil {
		return s.Extract(url)
	}
	return WatchURL(url)
}

func (s *Stub) URL(host, mediaID string) string {
	return "http://" + host + "/watch?v=" + mediaID
}

func (s *Stub) MediaURL(_ context.Context, host, mediaID string) (string, error) {
	s.MediaCalls++
	s.LastHost, s.LastMediaID = host, mediaID
	return s.Media, s.Err
}

func (s *Stub) MediaLabels(_ context.Context, _, _ string) (plugin.Labels, error) {
	s.LabelCalls++
	return s.Labels, s.LabelsErr
}

func (s *Stub) Login(context.Context) error {
	s.Logins++
	return s.LoginErr
}

// WatchURL parses "http://<host>/watch?v=<id>" style URLs.
func WatchURL(url string) (host, mediaID string, ok bool) {
	rest := url
	for _, scheme := range []string{"https://", "http://"} {
		rest = strings.TrimPrefix(rest, scheme)
	}

	host, query, found := strings.Cut(rest, "/watch?v=")
	if !found || host == "" || query == "" {
		return "", "", false
	}
	return host, query, true
}

// NoExtract is an Extract function that never parses anything.
func NoExtract(string) (string, string, bool) {
	return "", "", false
}
