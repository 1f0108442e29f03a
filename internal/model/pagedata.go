package model

import "strings"

// PageKind selects the layout a planned page is rendered with.
type PageKind string

const (
	KindHome      PageKind = "home"
	KindComponent PageKind = "page"
	KindDoc       PageKind = "doc"
	KindBlogList  PageKind = "blog-list"
	KindBlogPost  PageKind = "blog-post"
	KindBlogTags  PageKind = "blog-tags"
	KindBlogTag   PageKind = "blog-tag"
	KindSearch    PageKind = "search"
	KindNotFound  PageKind = "notfound"
)

// Page is one entry of the route plan.
type Page struct {
	Route       string
	Kind        PageKind
	Title       string
	Description string
	Item        *ContentItem
	Docs        *DocsSet
	Posts       []*ContentItem
	Tag         string
	// Component names the static page component for KindHome and KindComponent.
	Component string
}

// File returns the output file of the page relative to the output directory.
// base is the site base path, which is not part of the output layout.
func (p *Page) File(base string) string {
	if p.Kind == KindNotFound {
		return "404.html"
	}
	route := strings.TrimPrefix(p.Route, strings.TrimSuffix(base, "/"))
	route = strings.Trim(route, "/")
	if route == "" {
		return "index.html"
	}
	return route + "/index.html"
}
