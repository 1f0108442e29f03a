package build

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/xmtp/xmtp-dot-org/internal/config"
	"github.com/xmtp/xmtp-dot-org/internal/model"
)

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

// Sitemap lists every page except the not found page.
func Sitemap(site *config.Site, pages []*model.Page) ([]byte, error) {
	set := urlset{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range pages {
		if p.Kind == model.KindNotFound {
			continue
		}
		set.URLs = append(set.URLs, sitemapURL{Loc: site.AbsURL(p.Route), ChangeFreq: "weekly", Priority: 0.5})
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	return buf.Bytes(), nil
}
