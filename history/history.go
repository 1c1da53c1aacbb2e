// Package history keeps a persistent record of resolved media files.
package history

import (
	"sort"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/urlresolver/urlresolver/filesystem"
	"github.com/urlresolver/urlresolver/where"
)

var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every saved entry keyed by page URL.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// List returns the saved entries, most recent first.
func List() ([]*Entry, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	entries := lo.Values(saved)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ResolvedAt.After(entries[j].ResolvedAt)
	})
	return entries, nil
}

// Save stores entry, replacing an earlier resolution of the same page.
func Save(entry *Entry) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	entry.Count = 1
	if existing, ok := saved[entry.encode()]; ok {
		entry.Count += existing.Count
	}

	saved[entry.encode()] = entry
	return cacher.Set(saved)
}

// Remove deletes the entry of the page at url.
func Remove(url string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, url)
	return cacher.Set(saved)
}

// Clear deletes every entry.
func Clear() error {
	return cacher.Set(make(map[string]*Entry))
}
