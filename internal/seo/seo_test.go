package seo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xmtp/xmtp-dot-org/internal/config"
)

func TestForPageUsesSiteDefaults(t *testing.T) {
	site := &config.Site{
		Title:          " ",
		TitleDelimiter: " ",
		Tagline:        "Build with XMTP",
		URL:            "https://xmtp.org",
		Image:          "img/xmtp-new.png",
	}
	site.Normalize()

	m := ForPage(site, "/docs/introduction", "Introduction", "", "", "")
	require.Equal(t, "Introduction", m.Title)
	require.Equal(t, "Build with XMTP", m.Description)
	require.Equal(t, "https://xmtp.org/docs/introduction", m.Canonical)
	require.Equal(t, "https://xmtp.org/img/xmtp-new.png", m.OG.Image)
	require.Equal(t, "website", m.OG.Type)
	require.Equal(t, m.OG.Image, m.Twitter.Image)
}

func TestWebSiteSearchAction(t *testing.T) {
	require.NotContains(t, WebSite("XMTP", "https://xmtp.org", ""), "potentialAction")
	js := string(JSON(WebSite("XMTP", "https://xmtp.org", "https://xmtp.org/search")))
	require.Contains(t, js, `"target":"https://xmtp.org/search?q={search_term_string}"`)
}

func TestArticleAuthors(t *testing.T) {
	a := Article("Hello", "https://xmtp.org/blog/hello", "", []string{"Ana"}, "2023-06-01")
	require.Equal(t, "BlogPosting", a["@type"])
	require.Len(t, a["author"], 1)
}
