package seo

import (
	"encoding/json"
	"html/template"

	"github.com/xmtp/xmtp-dot-org/internal/config"
)

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
}

type Twitter struct {
	Card  string
	Image string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	Twitter     Twitter
}

// ForPage builds the metadata of the page at route. An empty image uses the
// site's social card.
func ForPage(site *config.Site, route, title, description, image, ogType string) Meta {
	if image == "" {
		image = site.Image
	}
	if description == "" {
		description = site.Tagline
	}
	if ogType == "" {
		ogType = "website"
	}
	full := site.PageTitle(title)
	canonical := site.AbsURL(route)
	m := Meta{
		Title:       full,
		Description: description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       full,
			Description: description,
			Type:        ogType,
			URL:         canonical,
		},
		Twitter: Twitter{Card: "summary_large_image"},
	}
	if image != "" {
		m.OG.Image = site.AbsURL(image)
		m.Twitter.Image = m.OG.Image
	}
	return m
}

// JSON marshals v for a ld+json script. It returns an empty value on error.
func JSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b)
}

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	return m
}

// WebSite returns a minimal WebSite schema with optional SearchAction.
func WebSite(name, url, searchActionURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if searchActionURL != "" {
		m["potentialAction"] = map[string]any{
			"@type":       "SearchAction",
			"target":      searchActionURL + "?q={search_term_string}",
			"query-input": "required name=search_term_string",
		}
	}
	return m
}

// Article returns a minimal BlogPosting schema payload.
func Article(headline, url, imageURL string, authors []string, datePublished string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "BlogPosting",
		"headline": headline,
	}
	if url != "" {
		m["url"] = url
	}
	if imageURL != "" {
		m["image"] = imageURL
	}
	if len(authors) > 0 {
		people := make([]map[string]any, 0, len(authors))
		for _, a := range authors {
			people = append(people, map[string]any{"@type": "Person", "name": a})
		}
		m["author"] = people
	}
	if datePublished != "" {
		m["datePublished"] = datePublished
	}
	return m
}
