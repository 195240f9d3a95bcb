package pagination

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination is a page-number window over an ordered result set.
type Pagination struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

// Normalize applies defaults to non-positive values and caps the limit.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset is the number of rows skipped before the page starts.
func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

type PageInfo struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

// Trim cuts a limit+1 fetch down to the page and reports whether more rows exist.
func Trim[T any](rows []T, p Pagination) ([]T, PageInfo) {
	n := p.Normalize()
	info := PageInfo{Page: n.Page, Limit: n.Limit}
	if len(rows) > n.Limit {
		info.HasMore = true
		rows = rows[:n.Limit]
	}
	return rows, info
}
