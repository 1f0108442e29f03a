package render

import (
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xmtp/xmtp-dot-org/internal/config"
	"github.com/xmtp/xmtp-dot-org/internal/model"
	"github.com/xmtp/xmtp-dot-org/internal/nav"
	"github.com/xmtp/xmtp-dot-org/internal/seo"
	"github.com/xmtp/xmtp-dot-org/internal/theme"
)

//go:embed layouts
var layoutFS embed.FS

// layoutFiles maps each page kind onto the template that defines its "content".
var layoutFiles = map[model.PageKind]string{
	model.KindHome:      "page.html",
	model.KindComponent: "page.html",
	model.KindDoc:       "doc.html",
	model.KindBlogList:  "blog-list.html",
	model.KindBlogTag:   "blog-list.html",
	model.KindBlogPost:  "blog-post.html",
	model.KindBlogTags:  "blog-tags.html",
	model.KindSearch:    "search.html",
	model.KindNotFound:  "notfound.html",
}

// TagCount is a blog tag with the number of posts carrying it.
type TagCount struct {
	Label string
	Href  string
	Count int
}

// PageData is the view model every layout executes against.
type PageData struct {
	Site         *config.Site
	Route        string
	Home         string
	Kind         model.PageKind
	Meta         seo.Meta
	JSONLD       []template.JS
	Navbar       nav.Navbar
	Footer       nav.Footer
	Theme        theme.Theme
	Favicon      string
	Stylesheets  []string
	HighlightCSS string
	ScriptTags   template.HTML
	SearchHead   template.HTML
	SearchScript template.HTML
	SearchPage   string
	SearchConfig template.JS

	Body        template.HTML
	Item        *model.ContentItem
	Sidebar     []*nav.SidebarItem
	Breadcrumbs []nav.Crumb
	Prev, Next  *nav.SidebarItem

	BlogTitle       string
	BlogDescription string
	BlogSidebar     []*model.ContentItem
	BlogSidebarName string
	Posts           []*model.ContentItem
	Tag             string
	Tags            []TagCount
	TagsRoute       string
}

// Renderer executes the embedded layouts.
type Renderer struct {
	pages map[model.PageKind]*template.Template
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("January 2, 2006")
	},
	"isoDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"tagSlug": TagSlug,
	"join":    strings.Join,
}

// New parses the layouts. Every page kind gets its own template set so each
// can define "content" independently.
func New() (*Renderer, error) {
	base, err := template.New("base.html").Funcs(funcs).ParseFS(layoutFS, "layouts/base.html", "layouts/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base layout and partials: %w", err)
	}
	r := &Renderer{pages: map[model.PageKind]*template.Template{}}
	for kind, file := range layoutFiles {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base layout for %s: %w", kind, err)
		}
		if _, err := t.ParseFS(layoutFS, "layouts/"+file); err != nil {
			return nil, fmt.Errorf("failed to parse layout %s: %w", file, err)
		}
		r.pages[kind] = t
	}
	return r, nil
}

// Render writes the full HTML document for data.
func (r *Renderer) Render(w io.Writer, data *PageData) error {
	t, ok := r.pages[data.Kind]
	if !ok {
		return fmt.Errorf("no layout for page kind %q", data.Kind)
	}
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("failed to execute layout for %s: %w", data.Route, err)
	}
	return nil
}

// TagSlug turns a tag label into its URL segment.
func TagSlug(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	var b strings.Builder
	dash := false
	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ScriptTags renders the configured external scripts.
func ScriptTags(scripts []config.Script) template.HTML {
	var b strings.Builder
	for _, s := range scripts {
		fmt.Fprintf(&b, `<script src="%s"`, html.EscapeString(s.Src))
		if s.Async {
			b.WriteString(" async")
		}
		if s.Defer {
			b.WriteString(" defer")
		}
		keys := make([]string, 0, len(s.Attrs))
		for k := range s.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, ` %s="%s"`, html.EscapeString(k), html.EscapeString(s.Attrs[k]))
		}
		b.WriteString("></script>")
	}
	return template.HTML(b.String())
}
