package nav

import "github.com/xmtp/xmtp-dot-org/internal/config"

// FooterGroup is a titled column of footer links.
type FooterGroup struct {
	Title string
	Links []Link
}

type Footer struct {
	Style     string
	Groups    []FooterGroup
	Copyright string
}

// BuildFooter renders the footer groups in authored order.
func BuildFooter(site *config.Site) Footer {
	f := Footer{Style: site.Footer.Style, Copyright: site.Footer.Copyright}
	if f.Style == "" {
		f.Style = "light"
	}
	for _, g := range site.Footer.Links {
		group := FooterGroup{Title: g.Title}
		for _, it := range g.Items {
			href := site.Resolve(it.Target())
			group.Links = append(group.Links, Link{
				Label:    it.Label,
				Href:     href,
				External: IsExternal(href),
			})
		}
		f.Groups = append(f.Groups, group)
	}
	return f
}
