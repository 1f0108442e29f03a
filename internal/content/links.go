package content

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/xmtp/xmtp-dot-org/internal/linkcheck"
)

// Render converts every document loaded so far to HTML. Links to markdown
// files are replaced by the permalink of the document loaded from that file,
// and site-rooted links get the base path. Markdown links whose file was not
// loaded are left as written and returned, keyed by the linking source file.
func (l *Loader) Render() ([]linkcheck.Broken, error) {
	bySource := make(map[string]string, len(l.pending))
	for _, p := range l.pending {
		bySource[p.item.SourcePath] = p.item.Permalink
	}

	var broken []linkcheck.Broken
	for _, p := range l.pending {
		from := p.item.SourcePath
		html, err := l.Markdown.Render(p.doc, func(dest string) string {
			out, ok := l.resolveLink(bySource, from, dest)
			if !ok {
				broken = append(broken, linkcheck.Broken{Page: from, Href: dest})
			}
			return out
		})
		if err != nil {
			return nil, fmt.Errorf("failed to convert markdown to HTML for file '%s': %w", from, err)
		}
		p.item.ContentHTML = html
	}
	l.pending = nil
	return broken, nil
}

// resolveLink rewrites dest as found in the markdown file from. ok is false
// for a markdown file link with no loaded document behind it.
func (l *Loader) resolveLink(bySource map[string]string, from, dest string) (string, bool) {
	if dest == "" || strings.HasPrefix(dest, "#") {
		return dest, true
	}
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return dest, true
	}

	if isMarkdownFile(u.Path) {
		target := strings.TrimPrefix(u.Path, "/")
		if !strings.HasPrefix(u.Path, "/") {
			target = path.Join(path.Dir(from), u.Path)
		}
		permalink, ok := bySource[target]
		if !ok {
			return dest, false
		}
		if u.RawQuery != "" {
			permalink += "?" + u.RawQuery
		}
		if u.Fragment != "" {
			permalink += "#" + u.Fragment
		}
		return permalink, true
	}

	if strings.HasPrefix(dest, "/") && !strings.HasPrefix(dest, "//") {
		return l.Site.Resolve(dest), true
	}
	return dest, true
}

func isMarkdownFile(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	return ext == ".md" || ext == ".mdx"
}
