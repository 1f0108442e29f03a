// Package pages holds the site's hand-written promotional pages. Each page is
// a fixed template rendered without inputs beyond the site identity.
package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/xmtp/xmtp-dot-org/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Component is a static page mounted at Path (relative to the site base).
type Component struct {
	Name        string
	Path        string
	Title       string
	Description string
	Image       string
	data        any
}

// Render executes the component's template.
func (c Component) Render() (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, c.Name, c.data); err != nil {
		return "", fmt.Errorf("render page %s: %w", c.Name, err)
	}
	return template.HTML(buf.String()), nil
}

const NotifiCaseStudyPath = "notifi-case-study"

// NotifiCaseStudy is the Notifi + Coinbase Wallet case study landing page.
func NotifiCaseStudy() Component {
	return Component{
		Name:        "notifi-case-study",
		Path:        NotifiCaseStudyPath,
		Title:       "Notifi case study",
		Description: "Notifi uses XMTP to deliver real-time alerts on Coinbase Wallet",
		Image:       "img/notifiGraphic.png",
	}
}

// Home is the landing page.
func Home(site *config.Site) Component {
	return Component{
		Name:        "home",
		Path:        "",
		Title:       "XMTP: The open protocol and network for secure web3 messaging",
		Description: site.Tagline,
		data: struct {
			Tagline, GetStarted, Docs, CaseStudy string
		}{
			Tagline:    site.Tagline,
			GetStarted: site.Resolve("docs/build/get-started"),
			Docs:       site.Resolve("docs/introduction"),
			CaseStudy:  site.Resolve(NotifiCaseStudyPath),
		},
	}
}

// All lists every static page of the site.
func All(site *config.Site) []Component {
	return []Component{
		Home(site),
		NotifiCaseStudy(),
	}
}
