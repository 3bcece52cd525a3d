package repo

import "strconv"

const (
	defaultPage    = 1
	defaultPerPage = 5
)

// Page is a validated page request. PageFromQuery falls back to page 1 and
// 5 items per page when a parameter is absent, non-numeric, or not positive.
type Page struct {
	Number int
	Size   int
}

func PageFromQuery(page, perPage string) Page {
	p := Page{Number: defaultPage, Size: defaultPerPage}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(perPage); err == nil && n > 0 {
		p.Size = n
	}
	return p
}

func (p Page) Limit() int  { return p.Size }
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// Meta is the pagination metadata attached to every list response. The key
// names are the same on every endpoint.
type Meta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

// MetaFor computes the metadata for a page over total items. A page past
// the end is not an error; the caller returns an empty item list with the
// metadata intact.
func MetaFor(p Page, total int) Meta {
	pages := total / p.Size
	if total%p.Size != 0 {
		pages++
	}
	return Meta{
		Page:       p.Number,
		PerPage:    p.Size,
		TotalPages: pages,
		TotalItems: total,
	}
}
