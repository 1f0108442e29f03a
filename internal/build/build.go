// Package build turns a site source tree into rendered output.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xmtp/xmtp-dot-org/internal/config"
	"github.com/xmtp/xmtp-dot-org/internal/content"
	"github.com/xmtp/xmtp-dot-org/internal/linkcheck"
	"github.com/xmtp/xmtp-dot-org/internal/model"
	"github.com/xmtp/xmtp-dot-org/internal/pages"
	"github.com/xmtp/xmtp-dot-org/internal/render"
	"github.com/xmtp/xmtp-dot-org/internal/search"
	"github.com/xmtp/xmtp-dot-org/internal/theme"
)

const (
	staticDir   = "static"
	sitemapFile = "sitemap.xml"
)

// ErrDuplicateRoute is returned when two pages claim the same route.
var ErrDuplicateRoute = errors.New("duplicate route")

// Builder renders a site from Source.
type Builder struct {
	Source   fs.FS
	SiteFile string
	Workers  int
	Log      *zap.Logger
	// Getenv supplies build-time environment values. Defaults to os.Getenv.
	Getenv func(string) string
}

// Result is a fully rendered site held in memory.
type Result struct {
	Site   *config.Site
	Data   *model.SiteData
	Pages  []*model.Page
	Files  map[string][]byte
	Broken []linkcheck.Broken
	// BrokenMarkdown lists markdown file links with no loaded document,
	// keyed by source file.
	BrokenMarkdown []linkcheck.Broken
	Warnings       []string
	Search         bool
}

// Routes lists the routes of every rendered page in order.
func (r *Result) Routes() []string {
	out := make([]string, 0, len(r.Pages))
	for _, p := range r.Pages {
		out = append(out, p.Route)
	}
	return out
}

// Build loads, renders and link checks the site. Broken links fail the build
// only when the descriptor's onBrokenLinks is "throw".
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	log := b.Log
	if log == nil {
		log = zap.NewNop()
	}
	getenv := b.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	siteFile := b.SiteFile
	if siteFile == "" {
		siteFile = "site.yaml"
	}

	site, err := config.LoadSite(b.Source, siteFile)
	if err != nil {
		return nil, err
	}
	site.ApplyEnv(getenv)
	site.Normalize()
	if err := site.Validate(); err != nil {
		return nil, err
	}
	res := &Result{Site: site, Files: map[string][]byte{}}

	th, warnings := theme.New(site.Theme)
	res.Warnings = append(res.Warnings, warnings...)

	ds, ok := search.FromConfig(site)
	res.Search = ok
	if !ok {
		res.Warnings = append(res.Warnings, "search disabled: ALGOLIA_APP_ID, ALGOLIA_API_KEY and ALGOLIA_INDEX_NAME are required")
	}
	for _, w := range res.Warnings {
		log.Warn(w)
	}

	log.Info("Loading content", zap.Int("docsInstances", len(site.Docs)), zap.String("blog", site.Blog.Path))
	data, brokenMarkdown, err := b.load(site)
	if err != nil {
		return nil, err
	}
	res.Data = data
	res.BrokenMarkdown = brokenMarkdown
	if err := linkcheck.EnforceMarkdown(site.OnBrokenMarkdownLinks, brokenMarkdown, log); err != nil {
		return res, err
	}

	res.Pages, err = plan(data, res.Search)
	if err != nil {
		return nil, err
	}

	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	views, err := newViews(data, th, ds, res.Search)
	if err != nil {
		return nil, err
	}

	rendered := make([][]byte, len(res.Pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.Workers, 1))
	for i, p := range res.Pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pd, err := views.pageData(p)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := renderer.Render(&buf, pd); err != nil {
				return err
			}
			log.Debug("Rendered page", zap.String("route", p.Route), zap.String("kind", string(p.Kind)))
			rendered[i] = buf.Bytes()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render pages: %w", err)
	}

	byRoute := make(map[string][]byte, len(res.Pages))
	for i, p := range res.Pages {
		res.Files[p.File(site.BaseURL)] = rendered[i]
		byRoute[p.Route] = rendered[i]
	}

	css, err := th.CSS()
	if err != nil {
		return nil, err
	}
	res.Files[theme.StylesheetRoute] = css

	sitemap, err := Sitemap(site, res.Pages)
	if err != nil {
		return nil, err
	}
	res.Files[sitemapFile] = sitemap

	known, err := b.knownRoutes(site, res.Files)
	if err != nil {
		return nil, err
	}
	res.Broken, err = linkcheck.Check(byRoute, known)
	if err != nil {
		return nil, err
	}
	if err := linkcheck.Enforce(site.OnBrokenLinks, res.Broken, log); err != nil {
		return res, err
	}

	log.Info("Site built", zap.Int("pages", len(res.Pages)), zap.Int("brokenLinks", len(res.Broken)))
	return res, nil
}

func (b *Builder) load(site *config.Site) (*model.SiteData, []linkcheck.Broken, error) {
	loader := &content.Loader{FS: b.Source, Site: site, Markdown: content.NewMarkdown()}
	data := &model.SiteData{
		Config:     site,
		PostsByTag: map[string][]*model.ContentItem{},
		TagLabels:  map[string]string{},
	}
	for _, inst := range site.Docs {
		set, err := loader.LoadDocs(inst)
		if err != nil {
			return nil, nil, err
		}
		data.Docs = append(data.Docs, set)
	}
	if site.Blog.Path != "" {
		posts, err := loader.LoadBlog(site.Blog)
		if err != nil {
			return nil, nil, err
		}
		data.Posts = posts
		for _, p := range posts {
			for _, tag := range p.Tags {
				slug := render.TagSlug(tag)
				if slug == "" {
					continue
				}
				if _, ok := data.TagLabels[slug]; !ok {
					data.TagLabels[slug] = tag
				}
				data.PostsByTag[slug] = append(data.PostsByTag[slug], p)
			}
		}
	}
	broken, err := loader.Render()
	if err != nil {
		return nil, nil, err
	}
	return data, broken, nil
}

// plan lists every page of the site in a stable order.
func plan(data *model.SiteData, withSearch bool) ([]*model.Page, error) {
	site := data.Config
	var out []*model.Page
	owner := map[string]string{}
	add := func(p *model.Page, source string) error {
		if prev, ok := owner[p.Route]; ok {
			return fmt.Errorf("%w %s: %s and %s", ErrDuplicateRoute, p.Route, prev, source)
		}
		owner[p.Route] = source
		out = append(out, p)
		return nil
	}

	for _, c := range pages.All(site) {
		kind := model.KindComponent
		if c.Path == "" {
			kind = model.KindHome
		}
		p := &model.Page{Route: site.Route(c.Path), Kind: kind, Title: c.Title, Description: c.Description, Component: c.Name}
		if err := add(p, "page "+c.Name); err != nil {
			return nil, err
		}
	}
	for _, set := range data.Docs {
		for _, item := range set.Items {
			p := &model.Page{Route: item.Permalink, Kind: model.KindDoc, Title: item.Title, Description: item.Description, Item: item, Docs: set}
			if err := add(p, item.SourcePath); err != nil {
				return nil, err
			}
		}
	}
	if site.Blog.Path != "" {
		blog := site.Blog
		if err := add(&model.Page{Route: site.Route(blog.RouteBasePath), Kind: model.KindBlogList, Title: blogTitle(blog), Description: blog.Description, Posts: data.Posts}, "blog list"); err != nil {
			return nil, err
		}
		for _, post := range data.Posts {
			p := &model.Page{Route: post.Permalink, Kind: model.KindBlogPost, Title: post.Title, Description: post.Description, Item: post}
			if err := add(p, post.SourcePath); err != nil {
				return nil, err
			}
		}
		if len(data.PostsByTag) > 0 {
			if err := add(&model.Page{Route: site.Route(blog.RouteBasePath, "tags"), Kind: model.KindBlogTags, Title: "Tags"}, "blog tags"); err != nil {
				return nil, err
			}
		}
		slugs := make([]string, 0, len(data.PostsByTag))
		for slug := range data.PostsByTag {
			slugs = append(slugs, slug)
		}
		sort.Strings(slugs)
		for _, slug := range slugs {
			label := data.TagLabels[slug]
			p := &model.Page{
				Route: site.Route(blog.RouteBasePath, "tags", slug),
				Kind:  model.KindBlogTag,
				Title: fmt.Sprintf("%d post%s tagged with %q", len(data.PostsByTag[slug]), plural(len(data.PostsByTag[slug])), label),
				Posts: data.PostsByTag[slug],
				Tag:   label,
			}
			if err := add(p, "tag "+slug); err != nil {
				return nil, err
			}
		}
	}
	if withSearch {
		if err := add(&model.Page{Route: site.Route(site.Algolia.SearchPagePath), Kind: model.KindSearch, Title: "Search the documentation"}, "search page"); err != nil {
			return nil, err
		}
	}
	if err := add(&model.Page{Route: site.Route("404.html"), Kind: model.KindNotFound, Title: "Page Not Found"}, "not found page"); err != nil {
		return nil, err
	}
	return out, nil
}

// knownRoutes is every path a link may point at: pages, generated files and
// static assets.
func (b *Builder) knownRoutes(site *config.Site, files map[string][]byte) (map[string]bool, error) {
	known := map[string]bool{}
	for name := range files {
		known[site.Route(strings.TrimSuffix(name, "index.html"))] = true
	}
	if _, err := fs.Stat(b.Source, staticDir); errors.Is(err, fs.ErrNotExist) {
		return known, nil
	}
	err := fs.WalkDir(b.Source, staticDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			known[site.Route(strings.TrimPrefix(p, staticDir+"/"))] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list static assets: %w", err)
	}
	return known, nil
}

func blogTitle(b config.Blog) string {
	if b.Title != "" {
		return b.Title
	}
	return "Blog"
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// sidebarCount parses the blog sidebar size; "ALL" shows every post.
func sidebarCount(v string, total int) int {
	if strings.EqualFold(v, "all") {
		return total
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		n = 5
	}
	return min(n, total)
}
