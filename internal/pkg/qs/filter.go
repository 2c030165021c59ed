// Package qs builds CMS REST query strings: nested filters, sort,
// pagination and populate directives in bracket notation
// (filters[category][slug][$eq]=news, sort[0]=date:desc).
package qs

// Filter is a node of the recursive filter tree. Keys are field names,
// relation names or operators ($eq, $or, ...). Values are scalars,
// slices, Filter or []Filter.
type Filter map[string]any

// Merge returns a copy of f with the keys of other applied on top.
func (f Filter) Merge(other Filter) Filter {
	out := make(Filter, len(f)+len(other))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

func op(name string, v any) Filter { return Filter{name: v} }

func Eq(v any) Filter         { return op("$eq", v) }
func Ne(v any) Filter         { return op("$ne", v) }
func Lt(v any) Filter         { return op("$lt", v) }
func Lte(v any) Filter        { return op("$lte", v) }
func Gt(v any) Filter         { return op("$gt", v) }
func Gte(v any) Filter        { return op("$gte", v) }
func Contains(v any) Filter   { return op("$contains", v) }
func Containsi(v any) Filter  { return op("$containsi", v) }
func StartsWith(v any) Filter { return op("$startsWith", v) }
func EndsWith(v any) Filter   { return op("$endsWith", v) }
func Null(v bool) Filter      { return op("$null", v) }
func NotNull(v bool) Filter   { return op("$notNull", v) }

// In matches any of vs. Serialised as indexed keys, never comma-joined.
func In[T any](vs ...T) Filter { return op("$in", toAny(vs)) }

// NotIn matches none of vs.
func NotIn[T any](vs ...T) Filter { return op("$notIn", toAny(vs)) }

// Or matches when any sub-filter matches.
func Or(fs ...Filter) Filter { return op("$or", fs) }

// And matches when every sub-filter matches.
func And(fs ...Filter) Filter { return op("$and", fs) }

// Not negates f.
func Not(f Filter) Filter { return op("$not", f) }

// Rel filters on a relation field: Rel("category", Filter{"slug": Eq("news")}).
func Rel(field string, f Filter) Filter { return Filter{field: f} }

func toAny[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
