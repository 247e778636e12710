package entity

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is a zero-based page selector.
type PageRequest struct {
	Page int
	Size int
}

// Normalize clamps the request to sane bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int { return p.Page * p.Size }

// Page is one slice of a larger result set.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalPages int `json:"total_pages"`
}

// NewPage assembles a Page from a normalized request.
func NewPage[T any](items []T, total int, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = (total + req.Size - 1) / req.Size
	}
	return Page[T]{Items: items, Total: total, Page: req.Page, Size: req.Size, TotalPages: pages}
}
