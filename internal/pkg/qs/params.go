package qs

// Pagination selects a page. Zero fields are omitted. Page/PageSize and
// Start/Limit are alternative styles; the CMS rejects mixing them.
type Pagination struct {
	Page     int
	PageSize int
	Start    int
	Limit    int
}

// Limit is shorthand for a start/limit window starting at 0.
func Limit(n int) *Pagination { return &Pagination{Limit: n} }

// Page is shorthand for page-based pagination.
func Page(page, size int) *Pagination { return &Pagination{Page: page, PageSize: size} }

// Relation selects which fields (and nested relations) of one relation
// the CMS includes. An empty Relation populates the relation with all
// of its fields.
type Relation struct {
	Fields   []string
	Populate Populate
}

// Populate maps relation name to its selection.
type Populate map[string]Relation

// Fields builds a Relation that only carries the named fields.
func Fields(names ...string) Relation { return Relation{Fields: names} }

// Params is a full CMS query.
type Params struct {
	Filters    Filter
	Sort       []string
	Pagination *Pagination
	Populate   Populate
	Fields     []string
}

func (p *Pagination) tree() map[string]any {
	if p == nil {
		return nil
	}
	out := map[string]any{}
	if p.Page > 0 {
		out["page"] = p.Page
	}
	if p.PageSize > 0 {
		out["pageSize"] = p.PageSize
	}
	if p.Start > 0 {
		out["start"] = p.Start
	}
	if p.Limit > 0 {
		out["limit"] = p.Limit
	}
	return out
}

func (p Populate) tree() map[string]any {
	if len(p) == 0 {
		return nil
	}
	out := make(map[string]any, len(p))
	for name, rel := range p {
		if len(rel.Fields) == 0 && len(rel.Populate) == 0 {
			out[name] = true
			continue
		}
		node := map[string]any{}
		if len(rel.Fields) > 0 {
			node["fields"] = rel.Fields
		}
		if nested := rel.Populate.tree(); nested != nil {
			node["populate"] = nested
		}
		out[name] = node
	}
	return out
}
