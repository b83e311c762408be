package service

// Pagination describes one page of a listing.
type Pagination struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	Total       int64 `json:"total"`
	NumPages    int   `json:"num_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// paginate validates page against total.  An empty listing still has one
// (empty) page; any other page outside 1..NumPages is ErrInvalidPage.
func paginate(page, size int, total int64) (Pagination, error) {
	numPages := 1
	if total > 0 {
		numPages = int((total + int64(size) - 1) / int64(size))
	}
	if page < 1 || page > numPages {
		return Pagination{}, ErrInvalidPage
	}
	return Pagination{
		Page:        page,
		PageSize:    size,
		Total:       total,
		NumPages:    numPages,
		HasNext:     page < numPages,
		HasPrevious: page > 1,
	}, nil
}
