package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/xmtp/xmtp-dot-org/internal/config"
	"github.com/xmtp/xmtp-dot-org/internal/model"
)

type frontMatter struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	Slug            string   `yaml:"slug"`
	SidebarLabel    string   `yaml:"sidebar_label"`
	SidebarPosition *float64 `yaml:"sidebar_position"`
	Tags            []string `yaml:"tags"`
	Authors         []string `yaml:"authors"`
	Date            string   `yaml:"date"`
	Draft           bool     `yaml:"draft"`
	Image           string   `yaml:"image"`
	HideTOC         bool     `yaml:"hide_table_of_contents"`
	LastUpdate      struct {
		Date   string `yaml:"date"`
		Author string `yaml:"author"`
	} `yaml:"last_update"`
}

var (
	numberPrefix = regexp.MustCompile(`^\d+[-_.]`)
	datedPost    = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)
)

// Loader reads markdown documents from a source tree. Documents are parsed by
// LoadDocs and LoadBlog; their HTML is filled in by Render once every document
// is known, so links between them can be resolved.
type Loader struct {
	FS       fs.FS
	Site     *config.Site
	Markdown *Markdown

	pending []pendingDoc
}

type pendingDoc struct {
	item *model.ContentItem
	doc  *Document
}

// ErrBlogIndex is returned for an index.md placed directly in the blog root.
var ErrBlogIndex = errors.New("blog index file outside a post directory")

// LoadDocs reads every document of a docs instance.
func (l *Loader) LoadDocs(inst config.DocsInstance) (*model.DocsSet, error) {
	set := &model.DocsSet{Instance: inst}
	err := l.walk(inst.Path, func(rel string, fm frontMatter, doc *Document, data map[string]interface{}) error {
		dir := path.Dir(rel)
		if dir == "." {
			dir = ""
		}
		base := strings.TrimSuffix(path.Base(rel), path.Ext(rel))

		item := &model.ContentItem{
			ID:              fm.ID,
			Type:            "doc",
			SourcePath:      path.Join(inst.Path, rel),
			Dir:             dir,
			SidebarLabel:    fm.SidebarLabel,
			SidebarPosition: fm.SidebarPosition,
			Tags:            fm.Tags,
			Authors:         fm.Authors,
			Image:           fm.Image,
			HideTOC:         fm.HideTOC,
			Frontmatter:     data,
		}
		if item.ID == "" {
			item.ID = strings.TrimSuffix(rel, path.Ext(rel))
		}
		name := base
		if dir != "" && (strings.EqualFold(base, "index") || strings.EqualFold(base, "readme")) {
			name = path.Base(dir)
		}
		fill(item, fm, doc, name)
		item.Permalink = l.Site.Route(inst.RouteBasePath, docPath(dir, base, fm.Slug))
		if inst.EditURL != "" {
			item.EditURL = strings.TrimSuffix(inst.EditURL, "/") + "/" + path.Join(inst.Path, rel)
		}
		if inst.ShowLastUpdateTime {
			item.LastUpdate.Date = parseDate(fm.LastUpdate.Date)
		}
		if inst.ShowLastUpdateAuthor {
			item.LastUpdate.Author = fm.LastUpdate.Author
		}
		set.Items = append(set.Items, item)
		l.pending = append(l.pending, pendingDoc{item: item, doc: doc})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load docs %q: %w", inst.ID, err)
	}
	sort.SliceStable(set.Items, func(i, j int) bool { return set.Items[i].Permalink < set.Items[j].Permalink })
	return set, nil
}

// LoadBlog reads blog posts, newest first. Drafts are skipped.
func (l *Loader) LoadBlog(blog config.Blog) ([]*model.ContentItem, error) {
	var posts []*model.ContentItem
	err := l.walk(blog.Path, func(rel string, fm frontMatter, doc *Document, data map[string]interface{}) error {
		if fm.Draft {
			return nil
		}
		base := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
		if base == "index" {
			if path.Dir(rel) == "." {
				return fmt.Errorf("%w: %s", ErrBlogIndex, path.Join(blog.Path, rel))
			}
			base = path.Base(path.Dir(rel))
		}
		slug := base
		var date time.Time
		if m := datedPost.FindStringSubmatch(base); m != nil {
			date = parseDate(m[1])
			slug = m[2]
		}
		if d := parseDate(fm.Date); !d.IsZero() {
			date = d
		}
		if fm.Slug != "" {
			slug = strings.Trim(fm.Slug, "/")
		}

		item := &model.ContentItem{
			ID:          slug,
			Type:        "post",
			SourcePath:  path.Join(blog.Path, rel),
			Date:        date,
			Tags:        fm.Tags,
			Authors:     fm.Authors,
			Image:       fm.Image,
			HideTOC:     fm.HideTOC,
			Frontmatter: data,
		}
		fill(item, fm, doc, slug)
		item.Permalink = l.Site.Route(blog.RouteBasePath, slug)
		if blog.EditURL != "" {
			item.EditURL = strings.TrimSuffix(blog.EditURL, "/") + "/" + path.Join(blog.Path, rel)
		}
		posts = append(posts, item)
		l.pending = append(l.pending, pendingDoc{item: item, doc: doc})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load blog: %w", err)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Title < posts[j].Title
		}
		return posts[i].Date.After(posts[j].Date)
	})
	return posts, nil
}

type visitFunc func(rel string, fm frontMatter, doc *Document, data map[string]interface{}) error

func (l *Loader) walk(root string, visit visitFunc) error {
	return fs.WalkDir(l.FS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path '%s' during walk: %w", p, err)
		}
		name := d.Name()
		if p != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".md") {
			return nil
		}

		raw, err := fs.ReadFile(l.FS, p)
		if err != nil {
			return fmt.Errorf("failed to read file '%s': %w", p, err)
		}
		var fm frontMatter
		body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
		if err != nil {
			return fmt.Errorf("parse front matter %s: %w", p, err)
		}
		var data map[string]interface{}
		if _, err := frontmatter.Parse(bytes.NewReader(raw), &data); err != nil {
			return fmt.Errorf("parse front matter %s: %w", p, err)
		}
		doc, err := l.Markdown.Parse(body)
		if err != nil {
			return fmt.Errorf("failed to parse markdown file '%s': %w", p, err)
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		return visit(rel, fm, doc, data)
	})
}

func fill(item *model.ContentItem, fm frontMatter, doc *Document, base string) {
	item.Headings = doc.Headings
	switch {
	case fm.Title != "":
		item.Title = fm.Title
	case doc.Title != "":
		item.Title = doc.Title
		item.HasTitleHeading = true
	default:
		item.Title = PrettifyName(base)
	}
	if doc.Title != "" && doc.Title == item.Title {
		item.HasTitleHeading = true
	}
	item.Description = fm.Description
	if item.Description == "" {
		item.Description = doc.Summary
	}
}

// docPath returns the route of a document relative to its instance root.
func docPath(dir, base, slug string) string {
	if strings.HasPrefix(slug, "/") {
		return slug
	}
	segs := []string{}
	if dir != "" {
		for _, s := range strings.Split(dir, "/") {
			segs = append(segs, numberPrefix.ReplaceAllString(s, ""))
		}
	}
	switch {
	case slug != "":
		segs = append(segs, slug)
	case strings.EqualFold(base, "index") || strings.EqualFold(base, "readme"):
	default:
		segs = append(segs, numberPrefix.ReplaceAllString(base, ""))
	}
	return path.Join(segs...)
}

// PrettifyName turns a file or directory name into a label: "01-use-cases" becomes "Use Cases".
func PrettifyName(name string) string {
	name = numberPrefix.ReplaceAllString(name, "")
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.English).String(strings.TrimSpace(name))
}

func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
