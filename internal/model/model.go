package model

import (
	"html/template"
	"time"

	"github.com/xmtp/xmtp-dot-org/internal/config"
)

// Heading is an h2/h3 entry of a page's table of contents.
type Heading struct {
	ID    string
	Text  string
	Level int
}

// LastUpdate records when and by whom a document was last changed.
type LastUpdate struct {
	Date   time.Time
	Author string
}

// ContentItem represents a single markdown document (doc page or blog post).
type ContentItem struct {
	ID          string
	Title       string
	Description string
	Date        time.Time
	Type        string
	SourcePath  string
	// Dir is the document directory relative to its instance root, "" at the top.
	Dir             string
	Permalink       string
	ContentHTML     template.HTML
	HasTitleHeading bool
	Headings        []Heading
	Frontmatter     map[string]interface{}
	SidebarLabel    string
	SidebarPosition *float64
	Tags            []string
	Authors         []string
	Image           string
	HideTOC         bool
	EditURL         string
	LastUpdate      LastUpdate
}

// Label is the name shown in sidebars.
func (c *ContentItem) Label() string {
	if c.SidebarLabel != "" {
		return c.SidebarLabel
	}
	return c.Title
}

// DocsSet is a loaded docs instance.
type DocsSet struct {
	Instance config.DocsInstance
	Items    []*ContentItem
}

// SiteData holds all site-wide data, including configuration and content.
type SiteData struct {
	Config *config.Site
	Docs   []*DocsSet
	Posts  []*ContentItem
	// PostsByTag maps a tag slug to its posts, newest first.
	PostsByTag map[string][]*ContentItem
	TagLabels  map[string]string
}
