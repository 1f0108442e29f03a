package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// ErrInvalidSite wraps every descriptor validation failure.
var ErrInvalidSite = errors.New("invalid site config")

// Validate reports every structural problem of the descriptor at once. It is
// meant to run after Normalize.
func (s *Site) Validate() error {
	var err error
	fail := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf("%w: "+format, append([]any{ErrInvalidSite}, args...)...))
	}

	if u, perr := url.Parse(s.URL); perr != nil || u.Scheme == "" || u.Host == "" {
		fail("url %q must be an absolute URL", s.URL)
	}
	if !strings.HasPrefix(s.BaseURL, "/") || !strings.HasSuffix(s.BaseURL, "/") {
		fail("baseUrl %q must start and end with /", s.BaseURL)
	}
	switch s.OnBrokenLinks {
	case "throw", "warn", "ignore":
	default:
		fail("onBrokenLinks %q must be one of throw, warn, ignore", s.OnBrokenLinks)
	}
	switch s.OnBrokenMarkdownLinks {
	case "throw", "warn", "ignore":
	default:
		fail("onBrokenMarkdownLinks %q must be one of throw, warn, ignore", s.OnBrokenMarkdownLinks)
	}
	switch s.Theme.ColorMode.DefaultMode {
	case "light", "dark":
	default:
		fail("colorMode.defaultMode %q must be light or dark", s.Theme.ColorMode.DefaultMode)
	}

	seenBase := map[string]string{}
	seenID := map[string]bool{}
	for _, d := range s.Docs {
		if d.Path == "" {
			fail("docs instance %q has no path", d.ID)
		}
		if seenID[d.ID] {
			fail("docs instance id %q is used twice", d.ID)
		}
		seenID[d.ID] = true
		base := s.Route(d.RouteBasePath)
		if other, ok := seenBase[base]; ok {
			fail("docs instances %q and %q share routeBasePath %s", other, d.ID, base)
		}
		seenBase[base] = d.ID
	}

	s.validateMenu("navbar", s.Navbar.Items, fail)

	for _, g := range s.Footer.Links {
		seen := map[string]bool{}
		for _, l := range g.Items {
			if l.Label == "" {
				fail("footer group %q has an item without label", g.Title)
			}
			if terr := validTarget(l.To, l.Href); terr != nil {
				fail("footer group %q item %q: %v", g.Title, l.Label, terr)
			}
			key := l.Label + "\x00" + s.Resolve(l.Target())
			if seen[key] {
				fail("footer group %q lists %q -> %s twice", g.Title, l.Label, l.Target())
			}
			seen[key] = true
		}
	}
	return err
}

func (s *Site) validateMenu(menu string, items []NavItem, fail func(string, ...any)) {
	seen := map[string]bool{}
	for _, it := range items {
		name := it.Label
		if name == "" {
			name = it.Title
		}
		switch it.Kind() {
		case NavLink:
			if terr := validTarget(it.To, it.Href); terr != nil {
				fail("%s item %q: %v", menu, name, terr)
			}
			if it.ActiveBaseRegex != "" {
				if _, rerr := regexp.Compile(it.ActiveBaseRegex); rerr != nil {
					fail("%s item %q: activeBaseRegex: %v", menu, name, rerr)
				}
			}
		case NavDropdown:
			if len(it.Items) == 0 {
				fail("%s dropdown %q has no items", menu, name)
			}
			s.validateMenu(menu+" dropdown "+strconv.Quote(name), it.Items, fail)
		case NavHTML:
			if strings.TrimSpace(it.Value) == "" {
				fail("%s html item has no value", menu)
			}
			continue
		default:
			fail("%s item %q has unknown type %q", menu, name, it.Type)
			continue
		}
		key := it.Kind() + "\x00" + name + "\x00" + s.Resolve(it.Target())
		if seen[key] {
			fail("%s lists %q -> %s twice", menu, name, it.Target())
		}
		seen[key] = true
	}
}

func validTarget(to, href string) error {
	switch {
	case to == "" && href == "":
		return errors.New("missing to or href")
	case to != "" && href != "":
		return errors.New("to and href are mutually exclusive")
	case to != "":
		if isAbsoluteURL(to) {
			return fmt.Errorf("to %q must be a site path, use href for URLs", to)
		}
		if strings.ContainsAny(to, " \t\n") {
			return fmt.Errorf("to %q contains whitespace", to)
		}
		return nil
	}
	u, err := url.Parse(href)
	if err != nil {
		return fmt.Errorf("href %q: %w", href, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("href %q has no host", href)
		}
	case "mailto":
	case "":
		if !strings.HasPrefix(href, "/") {
			return fmt.Errorf("href %q must be an absolute URL or start with /", href)
		}
	default:
		return fmt.Errorf("href %q has unsupported scheme %q", href, u.Scheme)
	}
	return nil
}
