package models

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit to usable values
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Paginated[T any] struct {
	Items      []T
	Pagination Pagination
	Total      int64
}

func (p Paginated[T]) TotalPages() int64 {
	if p.Pagination.Limit <= 0 {
		return 0
	}
	return (p.Total + int64(p.Pagination.Limit) - 1) / int64(p.Pagination.Limit)
}
