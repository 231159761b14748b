package domain

const (
	DefaultPage     = 1
	DefaultPageSize = 10

	// AllRecords as a page size puts every matching record on a single page.
	AllRecords = 0
)

// PageSizeOptions are the page sizes offered to the user, AllRecords last.
var PageSizeOptions = []int{10, 20, 50, 100, AllRecords}

type MovieFilters struct {
	Genre    string
	Page     int
	PageSize int
}

// Limit returns nil for AllRecords so the query runs without a LIMIT.
func (f MovieFilters) Limit() *int {
	if f.PageSize == AllRecords {
		return nil
	}

	limit := f.PageSize
	return &limit
}

func (f MovieFilters) Offset() int {
	if f.PageSize == AllRecords || f.Page < 1 {
		return 0
	}

	return (f.Page - 1) * f.PageSize
}

// TotalPages is ceil(totalRecords/pageSize) with a floor of one page. A page size of
// AllRecords always yields a single page.
func TotalPages(totalRecords, pageSize int) int {
	if pageSize <= AllRecords || totalRecords <= 0 {
		return 1
	}

	return (totalRecords + pageSize - 1) / pageSize
}

// PaginationState is the browsing position of a catalog view.
type PaginationState struct {
	PageSize      int
	CurrentPage   int
	TotalCount    int
	SelectedGenre string
}

func NewPaginationState() PaginationState {
	return PaginationState{
		PageSize:    DefaultPageSize,
		CurrentPage: DefaultPage,
	}
}

func (s PaginationState) TotalPages() int {
	return TotalPages(s.TotalCount, s.PageSize)
}

func (s PaginationState) HasPrev() bool {
	return s.CurrentPage > 1
}

func (s PaginationState) HasNext() bool {
	return s.CurrentPage < s.TotalPages()
}

func (s PaginationState) Filters() MovieFilters {
	return MovieFilters{
		Genre:    s.SelectedGenre,
		Page:     s.CurrentPage,
		PageSize: s.PageSize,
	}
}
