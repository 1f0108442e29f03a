package content

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xmtp/xmtp-dot-org/internal/config"
	"github.com/xmtp/xmtp-dot-org/internal/linkcheck"
)

func testSite() *config.Site {
	s := &config.Site{URL: "https://xmtp.org"}
	s.Normalize()
	return s
}

func TestLoadDocsPermalinksAndTitles(t *testing.T) {
	fsys := fstest.MapFS{
		"docs/introduction.md":           {Data: []byte("---\ntitle: Introduction\nsidebar_position: 1\n---\n\nXMTP is a protocol.\n\n## Why\n\ntext\n")},
		"docs/02-use-cases/messaging.md": {Data: []byte("# Chat apps\n\nBuild chat.\n")},
		"docs/build/index.md":            {Data: []byte("---\nslug: start\n---\nBody\n")},
		"docs/dev-faqs.md":               {Data: []byte("Just text\n")},
		"docs/_partials/skip.md":         {Data: []byte("# hidden\n")},
		"docs/notes.txt":                 {Data: []byte("ignored")},
	}
	inst := config.DocsInstance{ID: "default", Path: "docs", RouteBasePath: "docs", EditURL: "https://github.com/xmtp/xmtp-dot-org/edit/main"}
	l := &Loader{FS: fsys, Site: testSite(), Markdown: NewMarkdown()}

	set, err := l.LoadDocs(inst)
	require.NoError(t, err)
	require.Len(t, set.Items, 4)
	broken, err := l.Render()
	require.NoError(t, err)
	require.Empty(t, broken)

	byRoute := map[string]string{}
	for _, it := range set.Items {
		byRoute[it.Permalink] = it.Title
	}
	require.Equal(t, map[string]string{
		"/docs/introduction":        "Introduction",
		"/docs/use-cases/messaging": "Chat apps",
		"/docs/build/start":         "Build",
		"/docs/dev-faqs":            "Dev Faqs",
	}, byRoute)

	var intro = set.Items[2]
	require.Equal(t, "/docs/introduction", intro.Permalink)
	require.Equal(t, "XMTP is a protocol.", intro.Description)
	require.NotNil(t, intro.SidebarPosition)
	require.Equal(t, 1.0, *intro.SidebarPosition)
	require.Equal(t, "https://github.com/xmtp/xmtp-dot-org/edit/main/docs/introduction.md", intro.EditURL)
	require.Len(t, intro.Headings, 1)
	require.Equal(t, "why", intro.Headings[0].ID)
	require.Contains(t, string(intro.ContentHTML), `id="why"`)
}

func TestLoadDocsUsesFirstHeadingAsTitle(t *testing.T) {
	fsys := fstest.MapFS{
		"community/roadmap.md": {Data: []byte("# XMTP roadmap\n\nMilestones.\n")},
	}
	l := &Loader{FS: fsys, Site: testSite(), Markdown: NewMarkdown()}
	set, err := l.LoadDocs(config.DocsInstance{ID: "community", Path: "community", RouteBasePath: "/"})
	require.NoError(t, err)
	require.Len(t, set.Items, 1)
	require.Equal(t, "/roadmap", set.Items[0].Permalink)
	require.Equal(t, "XMTP roadmap", set.Items[0].Title)
	require.True(t, set.Items[0].HasTitleHeading)
}

func TestLoadBlogOrdersNewestFirstAndSkipsDrafts(t *testing.T) {
	fsys := fstest.MapFS{
		"blog/2023-01-10-older.md": {Data: []byte("---\ntitle: Older\ntags: [news]\n---\nOld post.\n")},
		"blog/2023-06-01-newer.md": {Data: []byte("---\ntitle: Newer\n---\nNew post.\n")},
		"blog/undated.md":          {Data: []byte("---\ntitle: Custom\ndate: 2023-03-01\nslug: custom-slug\n---\nMid.\n")},
		"blog/2023-07-01-draft.md": {Data: []byte("---\ntitle: Draft\ndraft: true\n---\nWIP\n")},
	}
	s := testSite()
	s.Blog = config.Blog{Path: "blog"}
	s.Normalize()
	l := &Loader{FS: fsys, Site: s, Markdown: NewMarkdown()}

	posts, err := l.LoadBlog(s.Blog)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	require.Equal(t, "/blog/newer", posts[0].Permalink)
	require.Equal(t, "/blog/custom-slug", posts[1].Permalink)
	require.Equal(t, time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), posts[1].Date)
	require.Equal(t, "/blog/older", posts[2].Permalink)
	require.Equal(t, []string{"news"}, posts[2].Tags)
}

func TestMarkdownHighlightsAndSanitizes(t *testing.T) {
	md := NewMarkdown()
	doc, err := md.Parse([]byte("# Title\n\n```go\nfunc main() {}\n```\n\n<script>alert(1)</script>\n"))
	require.NoError(t, err)
	out, err := md.Render(doc, nil)
	require.NoError(t, err)
	html := string(out)
	require.Equal(t, "Title", doc.Title)
	require.Contains(t, html, `class="chroma"`)
	require.NotContains(t, html, "<script>")
}

func TestRenderResolvesMarkdownFileLinks(t *testing.T) {
	fsys := fstest.MapFS{
		"docs/introduction.md":      {Data: []byte("# Intro\n\nRead [the FAQ](./faq.md#security), [the guide](build/get-started.md), [a post](/blog/2023-06-15-launch.md) and [missing](./missing.md).\n\n![logo](/img/logo.svg)\n")},
		"docs/faq.md":               {Data: []byte("# FAQ\n\nBack to [intro](introduction.md).\n")},
		"docs/build/get-started.md": {Data: []byte("# Get started\n\n[Home](/docs/introduction) and [GitHub](https://github.com/xmtp).\n")},
		"blog/2023-06-15-launch.md": {Data: []byte("# Launch\n\nSee [the docs](../docs/faq.md).\n")},
	}
	s := &config.Site{URL: "https://xmtp.org", BaseURL: "/xmtp/", Blog: config.Blog{Path: "blog"}}
	s.Normalize()
	l := &Loader{FS: fsys, Site: s, Markdown: NewMarkdown()}

	set, err := l.LoadDocs(config.DocsInstance{ID: "default", Path: "docs", RouteBasePath: "docs"})
	require.NoError(t, err)
	posts, err := l.LoadBlog(s.Blog)
	require.NoError(t, err)
	require.Empty(t, set.Items[0].ContentHTML, "html is produced by Render")

	broken, err := l.Render()
	require.NoError(t, err)
	require.Equal(t, []linkcheck.Broken{{Page: "docs/introduction.md", Href: "./missing.md"}}, broken)

	html := map[string]string{}
	for _, it := range append(set.Items, posts...) {
		html[it.Permalink] = string(it.ContentHTML)
	}
	intro := html["/xmtp/docs/introduction"]
	require.Contains(t, intro, `href="/xmtp/docs/faq#security"`)
	require.Contains(t, intro, `href="/xmtp/docs/build/get-started"`)
	require.Contains(t, intro, `href="/xmtp/blog/launch"`)
	require.Contains(t, intro, `href="./missing.md"`)
	require.Contains(t, intro, `src="/xmtp/img/logo.svg"`)
	require.Contains(t, html["/xmtp/docs/faq"], `href="/xmtp/docs/introduction"`)
	require.Contains(t, html["/xmtp/docs/build/get-started"], `href="/xmtp/docs/introduction"`)
	require.Contains(t, html["/xmtp/docs/build/get-started"], `href="https://github.com/xmtp"`)
	require.Contains(t, html["/xmtp/blog/launch"], `href="/xmtp/docs/faq"`)
}

func TestLoadBlogRejectsRootIndex(t *testing.T) {
	fsys := fstest.MapFS{
		"blog/index.md":                 {Data: []byte("# Blog\n")},
		"blog/2023-06-01-post/index.md": {Data: []byte("# Post\n")},
	}
	s := testSite()
	s.Blog = config.Blog{Path: "blog"}
	s.Normalize()
	l := &Loader{FS: fsys, Site: s, Markdown: NewMarkdown()}

	_, err := l.LoadBlog(s.Blog)
	require.ErrorIs(t, err, ErrBlogIndex)

	delete(fsys, "blog/index.md")
	posts, err := l.LoadBlog(s.Blog)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "/blog/post", posts[0].Permalink)
}

func TestPrettifyName(t *testing.T) {
	require.Equal(t, "Use Cases", PrettifyName("01-use-cases"))
	require.Equal(t, "Built With Xmtp", PrettifyName("built_with_xmtp"))
	require.Equal(t, "", strings.TrimSpace(PrettifyName("")))
}
