package inline

import (
	"encoding/json"
	"io"

	"github.com/urlresolver/urlresolver/plugin"
)

type Result struct {
	// URL is the page URL as given.
	URL string `json:"url"`
	// Canonical is the page URL rebuilt by the top resolver.
	Canonical string        `json:"canonical,omitempty"`
	Host      string        `json:"host,omitempty"`
	MediaID   string        `json:"media_id,omitempty"`
	Domain    string        `json:"domain"`
	Resolver  string        `json:"resolver,omitempty"`
	MediaURL  string        `json:"media_url,omitempty"`
	Labels    plugin.Labels `json:"labels,omitempty"`
	Error     string        `json:"error,omitempty"`
}

func (r *Result) Resolved() bool {
	return r.MediaURL != ""
}

type Output struct {
	Resolved int       `json:"resolved"`
	Total    int       `json:"total"`
	Result   []*Result `json:"result"`
}

func writeJson(out io.Writer, results []*Result) error {
	output := &Output{
		Total:  len(results),
		Result: results,
	}
	if output.Result == nil {
		output.Result = []*Result{}
	}

	for _, r := range results {
		if r.Resolved() {
			output.Resolved++
		}
	}

	data, err := json.Marshal(output)
	if err != nil {
		return err
	}

	_, err = out.Write(data)
	return err
}
