package store

// Page size limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageParams selects one page of a listing. Pages are 1-based.
type PageParams struct {
	Page int
	Size int
}

// Validate fills in defaults and clamps out-of-range values.
func (p *PageParams) Validate(defaultSize int) {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size <= 0 {
		p.Size = defaultSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
}

// Offset returns the number of rows to skip.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Size
}

// Page is one page of a listing with its position in the whole.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	Size       int  `json:"size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// NewPage assembles a page from the items fetched for params and the total row count.
func NewPage[T any](items []T, params PageParams, total int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if params.Size > 0 {
		pages = (total + params.Size - 1) / params.Size
	}
	return &Page[T]{
		Items:      items,
		Page:       params.Page,
		Size:       params.Size,
		Total:      total,
		TotalPages: pages,
		HasMore:    params.Page < pages,
	}
}

// MapPage projects every item of p with f, keeping the page metadata.
func MapPage[T, U any](p *Page[T], f func(T) U) *Page[U] {
	out := make([]U, len(p.Items))
	for i, item := range p.Items {
		out[i] = f(item)
	}
	return &Page[U]{
		Items:      out,
		Page:       p.Page,
		Size:       p.Size,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		HasMore:    p.HasMore,
	}
}
