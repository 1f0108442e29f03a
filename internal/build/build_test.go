package build

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xmtp/xmtp-dot-org/internal/config"
	"github.com/xmtp/xmtp-dot-org/internal/linkcheck"
	"github.com/xmtp/xmtp-dot-org/site"
)

func noEnv(string) string { return "" }

func searchEnv(k string) string {
	return map[string]string{
		"ALGOLIA_APP_ID":     "BH4D9OD16A",
		"ALGOLIA_API_KEY":    "public-key",
		"ALGOLIA_INDEX_NAME": "xmtp",
	}[k]
}

func buildSite(t *testing.T, getenv func(string) string) *Result {
	t.Helper()
	b := &Builder{Source: site.FS, Workers: 4, Log: zaptest.NewLogger(t), Getenv: getenv}
	res, err := b.Build(context.Background())
	require.NoError(t, err)
	return res
}

func page(t *testing.T, res *Result, file string) *goquery.Document {
	t.Helper()
	body, ok := res.Files[file]
	require.True(t, ok, "missing %s", file)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	require.NoError(t, err)
	return doc
}

func TestBuildEmbeddedSite(t *testing.T) {
	res := buildSite(t, noEnv)
	require.Empty(t, res.Broken)
	require.False(t, res.Search)

	routes := res.Routes()
	for _, r := range []string{
		"/",
		"/notifi-case-study",
		"/docs/introduction",
		"/docs/build/get-started",
		"/docs/faq",
		"/built-with-xmtp",
		"/roadmap",
		"/blog",
		"/blog/notifi-coinbase-wallet",
		"/blog/tags",
		"/blog/tags/case-study",
		"/404.html",
	} {
		assert.Contains(t, routes, r)
	}
	assert.NotContains(t, routes, "/search")
	assert.NotContains(t, routes, "/blog/roadmap-update", "drafts are not published")

	for _, f := range []string{"index.html", "docs/introduction/index.html", "404.html", "sitemap.xml", "assets/css/highlight.css"} {
		assert.Contains(t, res.Files, f)
	}
}

func TestNotifiCaseStudyPage(t *testing.T) {
	res := buildSite(t, noEnv)
	doc := page(t, res, "notifi-case-study/index.html")
	require.Equal(t, "Notifi uses XMTP to deliver real-time alerts on Coinbase Wallet", doc.Find("main h1").First().Text())
	require.Equal(t, "https://xmtp.org/img/notifiGraphic.png", doc.Find(`meta[property="og:image"]`).AttrOr("content", ""))
}

func TestNavbarHasSingleDocumentationEntry(t *testing.T) {
	res := buildSite(t, noEnv)
	doc := page(t, res, "index.html")
	docs := doc.Find("nav.navbar a").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == "Documentation"
	})
	require.Equal(t, 1, docs.Length())
	require.Equal(t, "/docs/introduction", docs.AttrOr("href", ""))
}

func TestNavAndFooterTargetsAreRoutes(t *testing.T) {
	res := buildSite(t, noEnv)
	known, err := (&Builder{Source: site.FS}).knownRoutes(res.Site, res.Files)
	require.NoError(t, err)

	check := func(label, target string) {
		href := res.Site.Resolve(target)
		if href == "" || strings.HasPrefix(href, "http") || strings.HasPrefix(href, "mailto:") {
			return
		}
		if i := strings.IndexAny(href, "#?"); i >= 0 {
			href = href[:i]
		}
		assert.True(t, known[linkcheck.Normalize(href)], "%s -> %s", label, target)
	}
	var walk func(items []config.NavItem)
	walk = func(items []config.NavItem) {
		for _, it := range items {
			check(it.Label, it.Target())
			walk(it.Items)
		}
	}
	walk(res.Site.Navbar.Items)
	for _, g := range res.Site.Footer.Links {
		for _, it := range g.Items {
			check(it.Label, it.Target())
		}
	}
}

func TestSearchRequiresCredentials(t *testing.T) {
	without := buildSite(t, noEnv)
	require.Equal(t, 0, page(t, without, "docs/introduction/index.html").Find("#docsearch").Length())

	with := buildSite(t, searchEnv)
	require.True(t, with.Search)
	require.Contains(t, with.Routes(), "/search")

	doc := page(t, with, "docs/introduction/index.html")
	require.Equal(t, 1, doc.Find("#docsearch").Length())
	html, _ := doc.Html()
	require.Contains(t, html, "docusaurus_tag:docs-default-current")

	searchPage := string(with.Files["search/index.html"])
	require.Contains(t, searchPage, `"indexName":"xmtp"`)
}

func TestDocPageChrome(t *testing.T) {
	res := buildSite(t, noEnv)
	doc := page(t, res, "docs/faq/index.html")

	require.Equal(t, "Protocol FAQ", doc.Find("title").Text())
	require.Equal(t, "FAQ", doc.Find(".menu__link--active").Text())
	require.Equal(t, 1, doc.Find(`.table-of-contents a[href="#security"]`).Length())
	require.Equal(t, "https://github.com/xmtp/xmtp-dot-org/edit/main/docs/faq.md", doc.Find(".theme-edit-this-page").AttrOr("href", ""))

	community := page(t, res, "roadmap/index.html")
	require.Contains(t, community.Find(".lastUpdated").Text(), "XMTP Labs")
}

func TestDuplicateRoute(t *testing.T) {
	src := fstest.MapFS{
		"site.yaml":            {Data: []byte("url: https://example.com\ndocs:\n  - id: community\n    path: community\n    routeBasePath: /\n")},
		"community/index.md":   {Data: []byte("# Welcome\n")},
		"community/roadmap.md": {Data: []byte("# Roadmap\n")},
	}
	_, err := (&Builder{Source: src, Getenv: noEnv}).Build(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDuplicateRoute))
}

func TestBrokenLinkModes(t *testing.T) {
	src := func(mode string) fstest.MapFS {
		return fstest.MapFS{
			"site.yaml":                 {Data: []byte("url: https://example.com\nonBrokenLinks: " + mode + "\ndocs:\n  - path: docs\n")},
			"docs/introduction.md":      {Data: []byte("# Intro\n\nSee [the guide](/docs/build/get-started) and [nowhere](/docs/nowhere).\n")},
			"docs/build/get-started.md": {Data: []byte("# Get started\n")},
			"static/robots.txt":         {Data: []byte("User-agent: *\n")},
		}
	}

	_, err := (&Builder{Source: src("throw"), Getenv: noEnv}).Build(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, linkcheck.ErrBrokenLinks))

	res, err := (&Builder{Source: src("warn"), Getenv: noEnv}).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, []linkcheck.Broken{{Page: "/docs/introduction", Href: "/docs/nowhere"}}, res.Broken)
}

func TestBrokenMarkdownLinkModes(t *testing.T) {
	src := func(mode string) fstest.MapFS {
		return fstest.MapFS{
			"site.yaml":                 {Data: []byte("url: https://example.com\nonBrokenLinks: ignore\nonBrokenMarkdownLinks: " + mode + "\ndocs:\n  - path: docs\n")},
			"docs/introduction.md":      {Data: []byte("# Intro\n\nSee [the FAQ](./faq.md) and [missing](./missing.md).\n")},
			"docs/faq.md":               {Data: []byte("# FAQ\n")},
			"docs/build/get-started.md": {Data: []byte("# Get started\n")},
		}
	}
	want := []linkcheck.Broken{{Page: "docs/introduction.md", Href: "./missing.md"}}

	res, err := (&Builder{Source: src("throw"), Getenv: noEnv}).Build(context.Background())
	require.ErrorIs(t, err, linkcheck.ErrBrokenMarkdownLinks)
	require.ErrorContains(t, err, "docs/introduction.md: ./missing.md")
	require.Equal(t, want, res.BrokenMarkdown)

	for _, mode := range []string{"warn", "ignore"} {
		res, err := (&Builder{Source: src(mode), Getenv: noEnv}).Build(context.Background())
		require.NoError(t, err, mode)
		require.Equal(t, want, res.BrokenMarkdown, mode)

		intro := page(t, res, "docs/introduction/index.html")
		require.Equal(t, 1, intro.Find(`.markdown a[href="/docs/faq"]`).Length(), mode)
		require.Equal(t, []linkcheck.Broken{{Page: "/docs/introduction", Href: "./missing.md"}}, res.Broken, mode)
	}
}

// rebasedSite is the embedded site with its descriptor served under baseURL.
type rebasedSite struct {
	fs.FS
	descriptor []byte
}

func (r rebasedSite) Open(name string) (fs.File, error) {
	if name == "site.yaml" {
		return fstest.MapFS{name: {Data: r.descriptor}}.Open(name)
	}
	return r.FS.Open(name)
}

func TestBuildUnderBasePath(t *testing.T) {
	raw, err := fs.ReadFile(site.FS, "site.yaml")
	require.NoError(t, err)
	require.Contains(t, string(raw), "\nbaseUrl: /\n")
	src := rebasedSite{FS: site.FS, descriptor: []byte(strings.Replace(string(raw), "\nbaseUrl: /\n", "\nbaseUrl: /xmtp/\n", 1))}

	res, err := (&Builder{Source: src, Workers: 4, Log: zaptest.NewLogger(t), Getenv: noEnv}).Build(context.Background())
	require.NoError(t, err)
	require.Empty(t, res.Broken)
	require.Empty(t, res.BrokenMarkdown)
	require.Contains(t, res.Routes(), "/xmtp/notifi-case-study")

	notifi := page(t, res, "notifi-case-study/index.html")
	require.Equal(t, "Notifi uses XMTP to deliver real-time alerts on Coinbase Wallet", notifi.Find("main h1").First().Text())
	require.Equal(t, "/xmtp/docs/build/get-started", notifi.Find("main a[href]").First().AttrOr("href", ""))
	require.Equal(t, 0, notifi.Find(`main [src^="/img/"]`).Length())
	require.Greater(t, notifi.Find(`main img[src="/xmtp/img/notifiGraphic.png"]`).Length(), 0)

	intro := page(t, res, "docs/introduction/index.html")
	intro.Find("article a[href]").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		if strings.HasPrefix(href, "/") {
			assert.True(t, strings.HasPrefix(href, "/xmtp/"), href)
		}
	})
}

func TestInvalidDescriptor(t *testing.T) {
	src := fstest.MapFS{"site.yaml": {Data: []byte("url: example.com\n")}}
	_, err := (&Builder{Source: src, Getenv: noEnv}).Build(context.Background())
	require.ErrorIs(t, err, config.ErrInvalidSite)
}

func TestWrite(t *testing.T) {
	res := buildSite(t, noEnv)
	out := filepath.Join(t.TempDir(), "build")
	require.NoError(t, os.MkdirAll(filepath.Join(out, "stale"), 0o755))

	require.NoError(t, Write(res, site.FS, out, zaptest.NewLogger(t)))

	for _, f := range []string{"index.html", "docs/introduction/index.html", "404.html", "sitemap.xml", "assets/css/highlight.css", "img/favicon.svg", "robots.txt"} {
		_, err := os.Stat(filepath.Join(out, filepath.FromSlash(f)))
		assert.NoError(t, err, f)
	}
	_, err := os.Stat(filepath.Join(out, "stale"))
	require.True(t, os.IsNotExist(err))

	sitemap, err := os.ReadFile(filepath.Join(out, "sitemap.xml"))
	require.NoError(t, err)
	require.Contains(t, string(sitemap), "<loc>https://xmtp.org/docs/introduction</loc>")
	require.NotContains(t, string(sitemap), "404.html")
}
