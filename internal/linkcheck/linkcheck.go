// Package linkcheck verifies that rendered pages only link to routes the
// build produced.
package linkcheck

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrBrokenLinks is wrapped by every error Enforce returns in throw mode.
var ErrBrokenLinks = errors.New("broken link")

// ErrBrokenMarkdownLinks is wrapped by every error EnforceMarkdown returns in
// throw mode.
var ErrBrokenMarkdownLinks = errors.New("broken markdown link")

// Broken is an internal link whose target is not a known route.
type Broken struct {
	Page string
	Href string
}

func (b Broken) String() string {
	return fmt.Sprintf("%s -> %s", b.Page, b.Href)
}

// Normalize reduces an internal URL path to the form used as a route key.
func Normalize(p string) string {
	p = strings.TrimSuffix(p, "index.html")
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}

// Check scans the anchors of every page (keyed by route) and reports those
// pointing at internal paths missing from known. Fragment-only, external and
// non-http links are skipped.
func Check(pages map[string][]byte, known map[string]bool) ([]Broken, error) {
	index := make(map[string]bool, len(known))
	for k := range known {
		index[Normalize(k)] = true
	}

	var broken []Broken
	for route, body := range pages {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", route, err)
		}
		base, err := url.Parse(route)
		if err != nil {
			return nil, fmt.Errorf("parse route %s: %w", route, err)
		}
		seen := map[string]bool{}
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			href := strings.TrimSpace(s.AttrOr("href", ""))
			target, ok := internalPath(base, href)
			if !ok || index[target] || seen[href] {
				return
			}
			seen[href] = true
			broken = append(broken, Broken{Page: route, Href: href})
		})
	}
	sort.Slice(broken, func(i, j int) bool {
		if broken[i].Page != broken[j].Page {
			return broken[i].Page < broken[j].Page
		}
		return broken[i].Href < broken[j].Href
	})
	return broken, nil
}

func internalPath(base *url.URL, href string) (string, bool) {
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	u = base.ResolveReference(u)
	return Normalize(u.Path), true
}

// Enforce applies the onBrokenLinks policy: "throw" returns every broken link
// as an error, "warn" logs them and "ignore" drops them.
func Enforce(mode string, broken []Broken, log *zap.Logger) error {
	return enforce(mode, broken, log, ErrBrokenLinks, "Broken link")
}

// EnforceMarkdown applies the onBrokenMarkdownLinks policy to links between
// markdown files. Page is the linking source file.
func EnforceMarkdown(mode string, broken []Broken, log *zap.Logger) error {
	return enforce(mode, broken, log, ErrBrokenMarkdownLinks, "Broken markdown link")
}

func enforce(mode string, broken []Broken, log *zap.Logger, sentinel error, msg string) error {
	switch mode {
	case "ignore":
		return nil
	case "warn":
		for _, b := range broken {
			log.Warn(msg, zap.String("page", b.Page), zap.String("href", b.Href))
		}
		return nil
	}
	var err error
	for _, b := range broken {
		err = multierr.Append(err, fmt.Errorf("%w on page %s: %s", sentinel, b.Page, b.Href))
	}
	return err
}
