package history

import (
	"fmt"
	"time"

	"github.com/urlresolver/urlresolver/media"
	"github.com/urlresolver/urlresolver/plugin"
)

// Entry is a single successful resolution.
type Entry struct {
	URL        string    `json:"url"`
	Host       string    `json:"host"`
	MediaID    string    `json:"media_id"`
	Title      string    `json:"title,omitempty"`
	Resolver   string    `json:"resolver"`
	MediaURL   string    `json:"media_url"`
	ResolvedAt time.Time `json:"resolved_at"`
	// Count is how many times the same page has been resolved.
	Count int `json:"count"`
}

func (e *Entry) encode() string {
	return e.URL
}

func (e *Entry) String() string {
	if e.Title != "" {
		return fmt.Sprintf("%s (%s)", e.Title, e.Resolver)
	}
	return fmt.Sprintf("%s (%s)", e.URL, e.Resolver)
}

// NewEntry records that file was resolved to mediaURL by resolver.
func NewEntry(file *media.HostedMediaFile, resolver plugin.Resolver, mediaURL string) *Entry {
	return &Entry{
		URL:        file.URL(),
		Host:       file.Host(),
		MediaID:    file.MediaID(),
		Title:      file.Title(),
		Resolver:   resolver.Name(),
		MediaURL:   mediaURL,
		ResolvedAt: time.Now(),
	}
}
