// Package inline resolves batches of page URLs without any interaction.
package inline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urlresolver/urlresolver/log"
	"github.com/urlresolver/urlresolver/media"
)

// ErrNoResolver is recorded for pages no resolver claims.
var ErrNoResolver = errors.New("no resolver found")

// Run resolves every URL in options and writes one media URL per line, or a JSON document.
// A page that fails does not stop the batch.
func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	results := make([]*Result, 0, len(options.URLs))
	for _, url := range options.URLs {
		if err := ctx.Err(); err != nil {
			return err
		}
		results = append(results, resolve(ctx, url, options))
	}

	if options.Json {
		return writeJson(options.Out, results)
	}

	for _, r := range results {
		if !r.Resolved() {
			log.Warnf("%s: %s", r.URL, r.Error)
			continue
		}
		if _, err := fmt.Fprintln(options.Out, r.MediaURL); err != nil {
			return err
		}
	}

	return nil
}

func resolve(ctx context.Context, url string, options *Options) *Result {
	result := &Result{URL: url}

	file, err := media.New(options.Finder, media.Options{URL: url})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Domain = file.Domain()
	result.Host = file.Host()
	result.MediaID = file.MediaID()
	if file.URL() != url {
		result.Canonical = file.URL()
	}

	if !file.IsResolvable() {
		result.Error = ErrNoResolver.Error()
		return result
	}

	mediaURL, resolver, ok := file.ResolveWith(ctx)
	if !ok {
		result.Error = "every resolver failed"
		return result
	}

	result.MediaURL = mediaURL
	result.Resolver = resolver.Name()

	if options.Labels {
		if labels, ok := file.MediaLabels(ctx); ok {
			result.Labels = labels
		}
	}

	if options.Recorder.IsPresent() {
		if err := options.Recorder.MustGet()(file, resolver, result); err != nil {
			log.Warnf("record %s: %v", url, err)
		}
	}

	return result
}
