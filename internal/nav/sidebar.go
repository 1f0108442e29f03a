package nav

import (
	"math"
	"sort"
	"strings"

	"github.com/xmtp/xmtp-dot-org/internal/content"
	"github.com/xmtp/xmtp-dot-org/internal/model"
)

// SidebarItem is either a document link or a category of items.
type SidebarItem struct {
	Label    string
	Href     string
	Category bool
	Active   bool
	Items    []*SidebarItem

	position float64
}

// Sidebar builds the autogenerated sidebar of a docs instance: one category
// per directory, ordered by sidebar_position and then label.
func Sidebar(docs []*model.ContentItem, currentPath string) []*SidebarItem {
	root := &SidebarItem{Category: true}
	categories := map[string]*SidebarItem{"": root}

	var category func(dir string) *SidebarItem
	category = func(dir string) *SidebarItem {
		if c, ok := categories[dir]; ok {
			return c
		}
		parentDir := ""
		if i := strings.LastIndex(dir, "/"); i >= 0 {
			parentDir = dir[:i]
		}
		parent := category(parentDir)
		c := &SidebarItem{
			Label:    content.PrettifyName(dir[strings.LastIndex(dir, "/")+1:]),
			Category: true,
			position: math.Inf(1),
		}
		categories[dir] = c
		parent.Items = append(parent.Items, c)
		return c
	}

	for _, d := range docs {
		leaf := &SidebarItem{
			Label:    d.Label(),
			Href:     d.Permalink,
			Active:   samePath(d.Permalink, currentPath),
			position: math.Inf(1),
		}
		if d.SidebarPosition != nil {
			leaf.position = *d.SidebarPosition
		}
		parent := category(d.Dir)
		parent.Items = append(parent.Items, leaf)
	}

	finish(root)
	return root.Items
}

// finish orders children, propagates active state and gives each category
// the position of its first child.
func finish(c *SidebarItem) {
	for _, child := range c.Items {
		if child.Category {
			finish(child)
		}
	}
	sort.SliceStable(c.Items, func(i, j int) bool {
		a, b := c.Items[i], c.Items[j]
		if a.position != b.position {
			return a.position < b.position
		}
		return a.Label < b.Label
	})
	for _, child := range c.Items {
		c.Active = c.Active || child.Active
		if child.position < c.position {
			c.position = child.position
		}
	}
}

// Flatten lists the document links of a sidebar in reading order.
func Flatten(items []*SidebarItem) []*SidebarItem {
	var out []*SidebarItem
	for _, it := range items {
		if it.Category {
			out = append(out, Flatten(it.Items)...)
			continue
		}
		out = append(out, it)
	}
	return out
}

// Pagination returns the documents before and after currentPath in reading order.
func Pagination(items []*SidebarItem, currentPath string) (prev, next *SidebarItem) {
	flat := Flatten(items)
	for i, it := range flat {
		if !samePath(it.Href, currentPath) {
			continue
		}
		if i > 0 {
			prev = flat[i-1]
		}
		if i < len(flat)-1 {
			next = flat[i+1]
		}
		return prev, next
	}
	return nil, nil
}

func samePath(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}
