// Package search wires the hosted Algolia DocSearch integration into pages.
// Indexing itself happens outside of the build.
package search

import (
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/xmtp/xmtp-dot-org/internal/config"
)

const docsearchVersion = "3"

// DocSearch is an enabled search integration.
type DocSearch struct {
	AppID            string
	APIKey           string
	IndexName        string
	ContextualSearch bool
	PageRoute        string
	Params           map[string]string
	// Tags are the docusaurus_tag facet values used for contextual search.
	Tags []string
}

// FromConfig returns the integration and true when all three credentials are
// present. Otherwise search is left out of the site.
func FromConfig(site *config.Site) (DocSearch, bool) {
	a := site.Algolia
	if strings.TrimSpace(a.AppID) == "" || strings.TrimSpace(a.APIKey) == "" || strings.TrimSpace(a.IndexName) == "" {
		return DocSearch{}, false
	}
	ds := DocSearch{
		AppID:            a.AppID,
		APIKey:           a.APIKey,
		IndexName:        a.IndexName,
		ContextualSearch: a.ContextualSearch,
		PageRoute:        site.Route(a.SearchPagePath),
		Params:           a.SearchParameters,
	}
	ds.Tags = append(ds.Tags, "default")
	for _, d := range site.Docs {
		ds.Tags = append(ds.Tags, "docs-"+d.ID+"-current")
	}
	if site.Blog.Path != "" {
		ds.Tags = append(ds.Tags, "blog_posts_list", "blog_post")
	}
	sort.Strings(ds.Tags[1:])
	return ds, true
}

// Options is the JSON object passed to docsearch() in the browser.
func (d DocSearch) Options(container string) map[string]any {
	params := map[string]any{}
	for k, v := range d.Params {
		params[k] = v
	}
	if d.ContextualSearch {
		tags := make([]string, 0, len(d.Tags))
		for _, t := range d.Tags {
			tags = append(tags, "docusaurus_tag:"+t)
		}
		params["facetFilters"] = []any{"language:en", tags}
	}
	return map[string]any{
		"container":        container,
		"appId":            d.AppID,
		"apiKey":           d.APIKey,
		"indexName":        d.IndexName,
		"searchParameters": params,
	}
}

// HeadHTML links the DocSearch stylesheet and preconnects to the Algolia host.
func (d DocSearch) HeadHTML() template.HTML {
	return template.HTML(fmt.Sprintf(
		`<link rel="preconnect" href="https://%s-dsn.algolia.net" crossorigin>`+
			`<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/@docsearch/css@%s">`,
		template.HTMLEscapeString(strings.ToLower(d.AppID)), docsearchVersion))
}

// ScriptHTML loads DocSearch and mounts it into container.
func (d DocSearch) ScriptHTML(container string) (template.HTML, error) {
	opts, err := json.Marshal(d.Options(container))
	if err != nil {
		return "", fmt.Errorf("encode docsearch options: %w", err)
	}
	safe := strings.ReplaceAll(string(opts), "</", `<\/`)
	return template.HTML(fmt.Sprintf(
		`<script src="https://cdn.jsdelivr.net/npm/@docsearch/js@%s"></script>`+
			`<script>docsearch(%s);</script>`, docsearchVersion, safe)), nil
}

// PageConfig is the client configuration of the full search page.
func (d DocSearch) PageConfig() (template.JS, error) {
	opts := d.Options("")
	b, err := json.Marshal(map[string]any{
		"appId":     d.AppID,
		"apiKey":    d.APIKey,
		"indexName": d.IndexName,
		"params":    opts["searchParameters"],
	})
	if err != nil {
		return "", fmt.Errorf("encode search page config: %w", err)
	}
	return template.JS(b), nil
}
