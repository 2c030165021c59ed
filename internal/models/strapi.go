package models

import "time"

// Entity is the CMS record wrapper: {id, attributes}.
type Entity[A any] struct {
	ID         int `json:"id"`
	Attributes A   `json:"attributes"`
}

// Relation is a to-one relation wrapper. Data is nil when nothing is linked.
type Relation[A any] struct {
	Data *Entity[A] `json:"data"`
}

// Get returns the linked entity or nil. Safe on a nil receiver.
func (r *Relation[A]) Get() *Entity[A] {
	if r == nil {
		return nil
	}
	return r.Data
}

// RelationList is a to-many relation wrapper.
type RelationList[A any] struct {
	Data []Entity[A] `json:"data"`
}

// Items returns the linked entities. Safe on a nil receiver.
func (r *RelationList[A]) Items() []Entity[A] {
	if r == nil {
		return nil
	}
	return r.Data
}

// IDs returns the ids of the linked entities in order.
func (r *RelationList[A]) IDs() []int {
	items := r.Items()
	if len(items) == 0 {
		return nil
	}
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

// Timestamps are present on every CMS entity.
type Timestamps struct {
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

type MediaFormat struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Mime   string `json:"mime,omitempty"`
}

type MediaAttributes struct {
	Name            string                 `json:"name"`
	AlternativeText string                 `json:"alternativeText"`
	Caption         string                 `json:"caption"`
	Width           int                    `json:"width"`
	Height          int                    `json:"height"`
	URL             string                 `json:"url"`
	Mime            string                 `json:"mime,omitempty"`
	Formats         map[string]MediaFormat `json:"formats,omitempty"`
}

type Media = Entity[MediaAttributes]

// MediaRelation is how the CMS links an uploaded file.
type MediaRelation = Relation[MediaAttributes]

// MediaURL returns the linked media url, or "" when nothing is linked.
func MediaURL(r *MediaRelation) string {
	if m := r.Get(); m != nil {
		return m.Attributes.URL
	}
	return ""
}

// Pagination is the CMS-reported page meta.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Meta is the envelope meta block.
type Meta struct {
	Pagination *Pagination `json:"pagination,omitempty"`
}

// APIError is the envelope error block.
type APIError struct {
	Status  int    `json:"status"`
	Name    string `json:"name"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope is the CMS response shape: {data, meta, error}.
type Envelope[T any] struct {
	Data  T         `json:"data"`
	Meta  *Meta     `json:"meta,omitempty"`
	Error *APIError `json:"error,omitempty"`
}

// PaginationOf returns the envelope pagination or nil.
func (e *Envelope[T]) PaginationOf() *Pagination {
	if e == nil || e.Meta == nil {
		return nil
	}
	return e.Meta.Pagination
}
