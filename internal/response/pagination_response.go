package response

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
	HasMore    bool  `json:"has_more"`
	From       int   `json:"from"`
	To         int   `json:"to"`
}

// NewPagination describes the window [From, To] (1-based, inclusive) of
// totalItems covered by page. From and To are 0 when the page is empty.
func NewPagination(page, pageSize int, totalItems int64) *Pagination {
	if pageSize <= 0 {
		pageSize = 1
	}
	if page <= 0 {
		page = 1
	}

	totalPages := (totalItems + int64(pageSize) - 1) / int64(pageSize)
	offset := int64((page - 1) * pageSize)

	p := &Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: totalItems,
		HasMore:    int64(page) < totalPages,
	}
	if offset < totalItems {
		p.From = int(offset) + 1
		p.To = int(min(offset+int64(pageSize), totalItems))
	}
	return p
}
