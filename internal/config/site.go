package config

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v2"
)

// Site is the site configuration descriptor. It is read once per build and
// treated as immutable afterwards.
type Site struct {
	Title                 string         `yaml:"title"`
	Tagline               string         `yaml:"tagline"`
	TitleDelimiter        string         `yaml:"titleDelimiter"`
	URL                   string         `yaml:"url"`
	BaseURL               string         `yaml:"baseUrl"`
	Favicon               string         `yaml:"favicon"`
	Image                 string         `yaml:"image"`
	OrganizationName      string         `yaml:"organizationName"`
	ProjectName           string         `yaml:"projectName"`
	OnBrokenLinks         string         `yaml:"onBrokenLinks"`
	OnBrokenMarkdownLinks string         `yaml:"onBrokenMarkdownLinks"`
	CustomFields          CustomFields   `yaml:"customFields"`
	Scripts               []Script       `yaml:"scripts"`
	Stylesheets           []string       `yaml:"stylesheets"`
	Docs                  []DocsInstance `yaml:"docs"`
	Blog                  Blog           `yaml:"blog"`
	Theme                 Theme          `yaml:"theme"`
	Navbar                Navbar         `yaml:"navbar"`
	Footer                Footer         `yaml:"footer"`
	Algolia               Algolia        `yaml:"algolia"`
}

// CustomFields are passed through to templates untouched.
type CustomFields struct {
	GithubAPI     string `yaml:"githubAPI"`
	PersonalToken string `yaml:"personalToken"`
}

// Script is an external script tag injected into every page head.
type Script struct {
	Src   string            `yaml:"src"`
	Async bool              `yaml:"async"`
	Defer bool              `yaml:"defer"`
	Attrs map[string]string `yaml:"attrs"`
}

// DocsInstance is one documentation tree with its own routing root and sidebar.
type DocsInstance struct {
	ID                   string `yaml:"id"`
	Path                 string `yaml:"path"`
	RouteBasePath        string `yaml:"routeBasePath"`
	EditURL              string `yaml:"editUrl"`
	ShowLastUpdateTime   bool   `yaml:"showLastUpdateTime"`
	ShowLastUpdateAuthor bool   `yaml:"showLastUpdateAuthor"`
}

type Blog struct {
	Path          string `yaml:"path"`
	RouteBasePath string `yaml:"routeBasePath"`
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	SidebarTitle  string `yaml:"sidebarTitle"`
	// SidebarCount is a number or "ALL".
	SidebarCount string `yaml:"sidebarCount"`
	EditURL      string `yaml:"editUrl"`
}

type Theme struct {
	ColorMode ColorMode `yaml:"colorMode"`
	Prism     Prism     `yaml:"prism"`
}

type ColorMode struct {
	DefaultMode   string `yaml:"defaultMode"`
	DisableSwitch bool   `yaml:"disableSwitch"`
}

// Prism names the code highlighting palettes, using prism theme names.
type Prism struct {
	Theme               string   `yaml:"theme"`
	DarkTheme           string   `yaml:"darkTheme"`
	AdditionalLanguages []string `yaml:"additionalLanguages"`
}

type Navbar struct {
	Title string    `yaml:"title"`
	Logo  Logo      `yaml:"logo"`
	Items []NavItem `yaml:"items"`
}

type Logo struct {
	Alt       string `yaml:"alt"`
	Src       string `yaml:"src"`
	SrcDark   string `yaml:"srcDark"`
	ClassName string `yaml:"className"`
}

// Navigation item kinds.
const (
	NavLink     = "link"
	NavDropdown = "dropdown"
	NavHTML     = "html"
)

// NavItem is a navigation entry: a direct link, a dropdown group of links or a
// raw HTML fragment.
type NavItem struct {
	Type            string    `yaml:"type"`
	Label           string    `yaml:"label"`
	To              string    `yaml:"to"`
	Href            string    `yaml:"href"`
	Title           string    `yaml:"title"`
	Position        string    `yaml:"position"`
	ClassName       string    `yaml:"className"`
	ActiveBaseRegex string    `yaml:"activeBaseRegex"`
	Icon            string    `yaml:"icon"`
	IconAlt         string    `yaml:"iconAlt"`
	Description     string    `yaml:"description"`
	Value           string    `yaml:"value"`
	Items           []NavItem `yaml:"items"`
}

// Target returns the authored destination of the item.
func (n NavItem) Target() string {
	if n.To != "" {
		return n.To
	}
	return n.Href
}

// Kind returns the item type, defaulting to a plain link.
func (n NavItem) Kind() string {
	if n.Type == "" {
		return NavLink
	}
	return n.Type
}

type Footer struct {
	Style     string        `yaml:"style"`
	Links     []FooterGroup `yaml:"links"`
	Copyright string        `yaml:"copyright"`
}

type FooterGroup struct {
	Title string       `yaml:"title"`
	Items []FooterLink `yaml:"items"`
}

type FooterLink struct {
	Label string `yaml:"label"`
	To    string `yaml:"to"`
	Href  string `yaml:"href"`
}

func (l FooterLink) Target() string {
	if l.To != "" {
		return l.To
	}
	return l.Href
}

// Algolia holds the hosted search credentials and search page settings.
type Algolia struct {
	AppID            string            `yaml:"appId"`
	APIKey           string            `yaml:"apiKey"`
	IndexName        string            `yaml:"indexName"`
	ContextualSearch bool              `yaml:"contextualSearch"`
	SearchPagePath   string            `yaml:"searchPagePath"`
	SearchParameters map[string]string `yaml:"searchParameters"`
}

// LoadSite parses the descriptor called name from fsys.
func LoadSite(fsys fs.FS, name string) (*Site, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", name, err)
	}
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("error unmarshalling config file %s: %w", name, err)
	}
	return &site, nil
}

// ApplyEnv overlays build-time environment values. Unset variables keep the
// descriptor's value, which is empty unless the descriptor sets one.
func (s *Site) ApplyEnv(getenv func(string) string) {
	for name, field := range map[string]*string{
		"PUBLIC_URL":          &s.CustomFields.GithubAPI,
		"AUTH_PERSONAL_TOKEN": &s.CustomFields.PersonalToken,
		"ALGOLIA_APP_ID":      &s.Algolia.AppID,
		"ALGOLIA_API_KEY":     &s.Algolia.APIKey,
		"ALGOLIA_INDEX_NAME":  &s.Algolia.IndexName,
	} {
		if v := getenv(name); v != "" {
			*field = v
		}
	}
}

// Normalize fills in defaults for omitted fields.
func (s *Site) Normalize() {
	if s.BaseURL == "" {
		s.BaseURL = "/"
	}
	if !strings.HasSuffix(s.BaseURL, "/") {
		s.BaseURL += "/"
	}
	if s.TitleDelimiter == "" {
		s.TitleDelimiter = "|"
	}
	if s.OnBrokenLinks == "" {
		s.OnBrokenLinks = "throw"
	}
	if s.OnBrokenMarkdownLinks == "" {
		s.OnBrokenMarkdownLinks = "warn"
	}
	if s.Theme.ColorMode.DefaultMode == "" {
		s.Theme.ColorMode.DefaultMode = "light"
	}
	if s.Algolia.SearchPagePath == "" {
		s.Algolia.SearchPagePath = "search"
	}
	if s.Blog.RouteBasePath == "" && s.Blog.Path != "" {
		s.Blog.RouteBasePath = "blog"
	}
	if s.Blog.SidebarTitle == "" {
		s.Blog.SidebarTitle = "Recent posts"
	}
	for i := range s.Docs {
		if s.Docs[i].ID == "" {
			s.Docs[i].ID = "default"
		}
		if s.Docs[i].RouteBasePath == "" {
			s.Docs[i].RouteBasePath = s.Docs[i].Path
		}
	}
	for i := range s.Navbar.Items {
		normalizeNavItem(&s.Navbar.Items[i])
	}
}

func normalizeNavItem(n *NavItem) {
	if n.Type == "" {
		n.Type = NavLink
	}
	if n.Position == "" {
		n.Position = "right"
	}
	for i := range n.Items {
		normalizeNavItem(&n.Items[i])
	}
}

// Resolve turns an authored target into a site URL. Targets without a leading
// slash are relative to the base path; absolute URLs are returned untouched.
func (s *Site) Resolve(target string) string {
	if target == "" || isAbsoluteURL(target) || strings.HasPrefix(target, "#") {
		return target
	}
	base := s.BaseURL
	if base == "" {
		base = "/"
	}
	if strings.HasPrefix(target, "/") {
		if base == "/" || strings.HasPrefix(target, base) {
			return target
		}
		return strings.TrimSuffix(base, "/") + target
	}
	return base + target
}

// Route joins base path and a site-relative route.
func (s *Site) Route(elem ...string) string {
	parts := append([]string{"/", s.BaseURL}, elem...)
	return path.Join(parts...)
}

// AbsURL returns the absolute URL of a site path.
func (s *Site) AbsURL(p string) string {
	if isAbsoluteURL(p) {
		return p
	}
	return strings.TrimSuffix(s.URL, "/") + s.Resolve(p)
}

// PageTitle composes a document title from a page title, the delimiter and
// the site title. Blank parts are dropped.
func (s *Site) PageTitle(title string) string {
	title = strings.TrimSpace(title)
	site := strings.TrimSpace(s.Title)
	switch {
	case site == "":
		return title
	case title == "":
		return site
	}
	delim := strings.TrimSpace(s.TitleDelimiter)
	if delim == "" {
		return title + " " + site
	}
	return title + " " + delim + " " + site
}

func isAbsoluteURL(s string) bool {
	i := strings.Index(s, ":")
	if i <= 0 {
		return false
	}
	for _, r := range s[:i] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}
