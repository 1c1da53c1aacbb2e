// Package generic implements the builtin resolver that reads media URLs from OpenGraph tags and HTML5 video elements.
package generic

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/urlresolver/urlresolver/network"
	"github.com/urlresolver/urlresolver/plugin"
)

// Name is the plugin name of the generic resolver.
const Name = "generic"

var _ plugin.Resolver = (*Resolver)(nil)

// Resolver handles the domains it is configured with. It is never universal.
type Resolver struct {
	priority int
	domains  []string
}

// New returns a generic resolver claiming domains.
func New(priority int, domains []string) *Resolver {
	return &Resolver{priority: priority, domains: domains}
}

func (r *Resolver) Name() string                    { return Name }
func (r *Resolver) Priority() int                   { return r.priority }
func (r *Resolver) Implements() []plugin.Capability { return []plugin.Capability{plugin.CapResolver} }
func (r *Resolver) Domains() []string               { return r.domains }
func (r *Resolver) IsUniversal() bool               { return false }

// plainHTTP marks media ids of pages served over plain http.
const plainHTTP = "http:"

// HostAndID uses the URL host as host and the path with its query as media id.
// Pages served over plain http keep the scheme as a prefix of the media id.
func (r *Resolver) HostAndID(rawURL string) (string, string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", "", false
	}

	id := u.EscapedPath()
	if id == "" {
		id = "/"
	}
	if u.RawQuery != "" {
		id += "?" + u.RawQuery
	}
	if strings.EqualFold(u.Scheme, "http") {
		id = plainHTTP + id
	}
	return u.Host, id, true
}

func (r *Resolver) URL(host, mediaID string) string {
	scheme := "https://"
	if rest, ok := strings.CutPrefix(mediaID, plainHTTP); ok {
		scheme, mediaID = "http://", rest
	}

	if !strings.HasPrefix(mediaID, "/") {
		mediaID = "/" + mediaID
	}
	return scheme + host + mediaID
}

var videoSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="og:video:secure_url"]`, "content"},
	{`meta[property="og:video:url"]`, "content"},
	{`meta[property="og:video"]`, "content"},
	{`video[src]`, "src"},
	{`video source[src]`, "src"},
}

func (r *Resolver) MediaURL(ctx context.Context, host, mediaID string) (string, error) {
	page := r.URL(host, mediaID)
	doc, err := fetch(ctx, page)
	if err != nil {
		return "", err
	}

	for _, s := range videoSelectors {
		if value := firstAttr(doc, s.selector, s.attr); value != "" {
			return absolute(page, value), nil
		}
	}
	return "", nil
}

func (r *Resolver) MediaLabels(ctx context.Context, host, mediaID string) (plugin.Labels, error) {
	page := r.URL(host, mediaID)
	doc, err := fetch(ctx, page)
	if err != nil {
		return nil, err
	}

	labels := make(plugin.Labels)

	title := firstAttr(doc, `meta[property="og:title"]`, "content")
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title != "" {
		labels["title"] = title
	}

	if thumb := firstAttr(doc, `meta[property="og:image"]`, "content"); thumb != "" {
		labels["thumbnail"] = absolute(page, thumb)
	}
	if kind := firstAttr(doc, `meta[property="og:video:type"]`, "content"); kind != "" {
		labels["type"] = kind
	}

	return labels, nil
}

func fetch(ctx context.Context, page string) (*goquery.Document, error) {
	body, err := network.Get(ctx, page)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", page, err)
	}
	return doc, nil
}

func firstAttr(doc *goquery.Document, selector, attr string) string {
	value, _ := doc.Find(selector).First().Attr(attr)
	return strings.TrimSpace(value)
}

func absolute(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
