package build

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/xmtp/xmtp-dot-org/internal/config"
	"github.com/xmtp/xmtp-dot-org/internal/model"
	"github.com/xmtp/xmtp-dot-org/internal/nav"
	"github.com/xmtp/xmtp-dot-org/internal/pages"
	"github.com/xmtp/xmtp-dot-org/internal/render"
	"github.com/xmtp/xmtp-dot-org/internal/search"
	"github.com/xmtp/xmtp-dot-org/internal/seo"
	"github.com/xmtp/xmtp-dot-org/internal/theme"
)

// views assembles render.PageData from the loaded site. It is read-only
// once built and shared by all render workers.
type views struct {
	data       *model.SiteData
	theme      theme.Theme
	footer     nav.Footer
	components map[string]pages.Component
	scripts    template.HTML

	search       bool
	searchHead   template.HTML
	searchScript template.HTML
	searchPage   string
	searchConfig template.JS
}

func newViews(data *model.SiteData, th theme.Theme, ds search.DocSearch, withSearch bool) (*views, error) {
	site := data.Config
	v := &views{
		data:       data,
		theme:      th,
		footer:     nav.BuildFooter(site),
		components: map[string]pages.Component{},
		scripts:    render.ScriptTags(site.Scripts),
		search:     withSearch,
	}
	for _, c := range pages.All(site) {
		v.components[c.Name] = c
	}
	if withSearch {
		var err error
		v.searchHead = ds.HeadHTML()
		if v.searchScript, err = ds.ScriptHTML("#docsearch"); err != nil {
			return nil, err
		}
		if v.searchConfig, err = ds.PageConfig(); err != nil {
			return nil, err
		}
		v.searchPage = ds.PageRoute
	}
	return v, nil
}

func (v *views) pageData(p *model.Page) (*render.PageData, error) {
	site := v.data.Config
	pd := &render.PageData{
		Site:         site,
		Route:        p.Route,
		Home:         site.Route(),
		Kind:         p.Kind,
		Navbar:       nav.Build(site, p.Route),
		Footer:       v.footer,
		Theme:        v.theme,
		Favicon:      site.Resolve(site.Favicon),
		HighlightCSS: site.Route(theme.StylesheetRoute),
		ScriptTags:   v.scripts,
		SearchHead:   v.searchHead,
		SearchScript: v.searchScript,
		SearchPage:   v.searchPage,
		TagsRoute:    site.Route(site.Blog.RouteBasePath, "tags"),
		Item:         p.Item,
		Posts:        p.Posts,
		Tag:          p.Tag,
	}
	for _, s := range site.Stylesheets {
		pd.Stylesheets = append(pd.Stylesheets, site.Resolve(s))
	}

	image, ogType := "", ""
	if p.Item != nil {
		image = p.Item.Image
	}

	switch p.Kind {
	case model.KindHome, model.KindComponent:
		c, ok := v.components[p.Component]
		if !ok {
			return nil, fmt.Errorf("unknown page component %q", p.Component)
		}
		body, err := c.Render()
		if err != nil {
			return nil, err
		}
		if pd.Body, err = rebase(site, body); err != nil {
			return nil, fmt.Errorf("page %s: %w", c.Name, err)
		}
		image = c.Image
		if p.Kind == model.KindHome {
			pd.JSONLD = append(pd.JSONLD,
				seo.JSON(seo.Organization(site.OrganizationName, site.URL, site.AbsURL(site.Navbar.Logo.Src))),
				seo.JSON(seo.WebSite(site.OrganizationName, site.AbsURL(site.Route()), v.searchURL())))
		}
	case model.KindDoc:
		pd.Sidebar = nav.Sidebar(p.Docs.Items, p.Route)
		pd.Breadcrumbs = nav.Breadcrumbs(pd.Home, pd.Sidebar)
		pd.Prev, pd.Next = nav.Pagination(pd.Sidebar, p.Route)
	case model.KindBlogPost:
		ogType = "article"
		pd.Prev, pd.Next = v.postNeighbours(p.Item)
		var articleImage, published string
		if p.Item.Image != "" {
			articleImage = site.AbsURL(p.Item.Image)
		}
		if !p.Item.Date.IsZero() {
			published = p.Item.Date.Format("2006-01-02")
		}
		pd.JSONLD = append(pd.JSONLD, seo.JSON(seo.Article(p.Item.Title, site.AbsURL(p.Route), articleImage, p.Item.Authors, published)))
	case model.KindBlogTags:
		for _, slug := range sortedKeys(v.data.PostsByTag) {
			pd.Tags = append(pd.Tags, render.TagCount{
				Label: v.data.TagLabels[slug],
				Href:  site.Route(site.Blog.RouteBasePath, "tags", slug),
				Count: len(v.data.PostsByTag[slug]),
			})
		}
	case model.KindSearch:
		pd.SearchConfig = v.searchConfig
	}

	if isBlogKind(p.Kind) {
		pd.BlogTitle = blogTitle(site.Blog)
		pd.BlogDescription = site.Blog.Description
		pd.BlogSidebarName = site.Blog.SidebarTitle
		pd.BlogSidebar = v.data.Posts[:sidebarCount(site.Blog.SidebarCount, len(v.data.Posts))]
	}

	pd.Meta = seo.ForPage(site, p.Route, p.Title, p.Description, image, ogType)
	return pd, nil
}

// postNeighbours links a post to the newer and older post around it.
func (v *views) postNeighbours(item *model.ContentItem) (newer, older *nav.SidebarItem) {
	posts := v.data.Posts
	for i, p := range posts {
		if p != item {
			continue
		}
		if i > 0 {
			newer = &nav.SidebarItem{Label: posts[i-1].Title, Href: posts[i-1].Permalink}
		}
		if i < len(posts)-1 {
			older = &nav.SidebarItem{Label: posts[i+1].Title, Href: posts[i+1].Permalink}
		}
		break
	}
	return newer, older
}

func (v *views) searchURL() string {
	if !v.search {
		return ""
	}
	return v.data.Config.AbsURL(v.searchPage)
}

// rebase prefixes the site-rooted href and src attributes of body with the
// base path. Bodies are returned unchanged when the site lives at "/".
func rebase(site *config.Site, body template.HTML) (template.HTML, error) {
	if site.BaseURL == "/" {
		return body, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", err
	}
	for _, attr := range []string{"href", "src"} {
		doc.Find("[" + attr + "]").Each(func(_ int, s *goquery.Selection) {
			v := s.AttrOr(attr, "")
			if strings.HasPrefix(v, "/") && !strings.HasPrefix(v, "//") {
				s.SetAttr(attr, site.Resolve(v))
			}
		})
	}
	out, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}

func isBlogKind(k model.PageKind) bool {
	switch k {
	case model.KindBlogList, model.KindBlogPost, model.KindBlogTags, model.KindBlogTag:
		return true
	}
	return false
}

func sortedKeys(m map[string][]*model.ContentItem) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
