package nav

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/xmtp/xmtp-dot-org/internal/config"
)

// Link is a rendered anchor in the navbar or footer.
type Link struct {
	Label       string
	Href        string
	Title       string
	ClassName   string
	Icon        string
	IconAlt     string
	Description string
	External    bool
	Active      bool
}

// Item is a rendered top-level navbar entry.
type Item struct {
	Kind     string
	Link     Link
	Children []Link
	HTML     template.HTML
	Active   bool
}

// Navbar is the header view model.
type Navbar struct {
	Title string
	Logo  config.Logo
	Left  []Item
	Right []Item
}

// Build renders the navbar with active state for currentPath.
func Build(site *config.Site, currentPath string) Navbar {
	if currentPath == "" {
		currentPath = "/"
	}
	nb := Navbar{Title: site.Navbar.Title, Logo: site.Navbar.Logo}
	nb.Logo.Src = site.Resolve(nb.Logo.Src)
	nb.Logo.SrcDark = site.Resolve(nb.Logo.SrcDark)
	for _, it := range site.Navbar.Items {
		rendered := buildItem(site, it, currentPath)
		if it.Position == "left" {
			nb.Left = append(nb.Left, rendered)
		} else {
			nb.Right = append(nb.Right, rendered)
		}
	}
	return nb
}

func buildItem(site *config.Site, it config.NavItem, currentPath string) Item {
	switch it.Kind() {
	case config.NavHTML:
		// Authored in the descriptor, never user input.
		return Item{Kind: config.NavHTML, HTML: template.HTML(it.Value)}
	case config.NavDropdown:
		out := Item{Kind: config.NavDropdown, Link: Link{Label: it.Label, ClassName: it.ClassName}}
		for _, child := range it.Items {
			l := buildLink(site, child, currentPath)
			out.Active = out.Active || l.Active
			out.Children = append(out.Children, l)
		}
		out.Link.Active = out.Active
		return out
	}
	l := buildLink(site, it, currentPath)
	return Item{Kind: config.NavLink, Link: l, Active: l.Active}
}

func buildLink(site *config.Site, it config.NavItem, currentPath string) Link {
	href := site.Resolve(it.Target())
	l := Link{
		Label:       it.Label,
		Href:        href,
		Title:       it.Title,
		ClassName:   it.ClassName,
		Icon:        site.Resolve(it.Icon),
		IconAlt:     it.IconAlt,
		Description: it.Description,
		External:    IsExternal(href),
	}
	if l.External {
		return l
	}
	if it.ActiveBaseRegex != "" {
		if re, err := regexp.Compile(it.ActiveBaseRegex); err == nil {
			l.Active = re.MatchString(currentPath)
		}
		return l
	}
	l.Active = IsActive(stripFragment(href), currentPath)
	return l
}

// IsActive reports whether currentPath is itemPath or below it.
func IsActive(itemPath, currentPath string) bool {
	itemPath = strings.TrimSuffix(itemPath, "/")
	currentPath = strings.TrimSuffix(currentPath, "/")
	if itemPath == "" {
		return currentPath == ""
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// IsExternal reports whether href leaves the site.
func IsExternal(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") ||
		strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "//")
}

func stripFragment(href string) string {
	if i := strings.IndexAny(href, "#?"); i >= 0 {
		return href[:i]
	}
	return href
}
