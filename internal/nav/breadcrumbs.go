package nav

// Crumb is a breadcrumb entry. Categories have no Href.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// Breadcrumbs follows the active branch of a sidebar down to the current
// document. It always starts with Home.
func Breadcrumbs(home string, items []*SidebarItem) []Crumb {
	crumbs := []Crumb{{Href: home, Label: "Home"}}
	for level := items; level != nil; {
		var next []*SidebarItem
		for _, it := range level {
			if !it.Active {
				continue
			}
			if it.Category {
				crumbs = append(crumbs, Crumb{Label: it.Label})
				next = it.Items
			} else {
				crumbs = append(crumbs, Crumb{Href: it.Href, Label: it.Label, Active: true})
			}
			break
		}
		level = next
	}
	return crumbs
}
