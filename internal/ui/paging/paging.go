// Package paging slices an in-memory collection into fixed-size pages.
package paging

import "github.com/charmbracelet/bubbles/paginator"

// Pager is the (page, page size) window over a collection of known length.
// Pages are 1-based. Moves outside 1..Pages are ignored.
type Pager struct {
	model paginator.Model
	total int
}

func New(perPage int) Pager {
	m := paginator.New(paginator.WithPerPage(max(perPage, 1)))
	m.Type = paginator.Arabic
	return Pager{model: m}
}

// SetTotal records the collection length. If the current page no longer
// exists the window moves to the last page.
func (p *Pager) SetTotal(n int) {
	p.total = max(n, 0)
	p.model.TotalPages = max(p.Pages(), 1)
	if p.model.Page >= p.model.TotalPages {
		p.model.Page = p.model.TotalPages - 1
	}
}

func (p Pager) Total() int   { return p.total }
func (p Pager) PerPage() int { return p.model.PerPage }

// Pages is ceil(total / perPage); zero for an empty collection.
func (p Pager) Pages() int {
	return (p.total + p.model.PerPage - 1) / p.model.PerPage
}

// Page returns the current 1-based page.
func (p Pager) Page() int { return p.model.Page + 1 }

func (p Pager) HasPrev() bool { return p.Page() > 1 }
func (p Pager) HasNext() bool { return p.Page() < p.Pages() }

// GoTo moves to page and reports whether anything changed.
func (p *Pager) GoTo(page int) bool {
	if page < 1 || page > p.Pages() || page == p.Page() {
		return false
	}
	p.model.Page = page - 1
	return true
}

func (p *Pager) Prev() bool {
	if !p.HasPrev() {
		return false
	}
	p.model.PrevPage()
	return true
}

func (p *Pager) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.model.NextPage()
	return true
}

// Offset is the index of the current page's first item in the collection.
func (p Pager) Offset() int {
	return p.model.Page * p.model.PerPage
}

// Summary renders "page/pages".
func (p Pager) Summary() string {
	return p.model.View()
}

// Window returns the items on the pager's current page.
func Window[T any](items []T, p Pager) []T {
	if len(items) == 0 {
		return nil
	}
	start, end := p.model.GetSliceBounds(len(items))
	if start >= len(items) {
		return nil
	}
	return items[start:end]
}
