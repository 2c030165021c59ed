package view

// Crumb is one breadcrumb link. The last crumb is the current page.
type Crumb struct {
	Label   string
	Href    string
	Current bool
}

// Breadcrumbs starts at Home, skips crumbs without a label and marks the
// last one current.
func Breadcrumbs(items ...Crumb) []Crumb {
	out := make([]Crumb, 0, len(items)+1)
	out = append(out, Crumb{Label: "Home", Href: "/"})
	for _, c := range items {
		if c.Label == "" {
			continue
		}
		c.Current = false
		out = append(out, c)
	}
	out[len(out)-1].Current = true
	return out
}
