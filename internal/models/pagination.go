package models

// PageSize is the fixed number of records per list page.
const PageSize = 10

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page         int `json:"page"`
	PageSize     int `json:"page_size"`
	TotalRecords int `json:"total_records"`
	TotalPages   int `json:"total_pages"`
}

// NewPagination derives page metadata from a clamped page and a total count.
func NewPagination(page, total int) *Pagination {
	if page < 1 {
		page = 1
	}
	totalPages := (total + PageSize - 1) / PageSize
	return &Pagination{Page: page, PageSize: PageSize, TotalRecords: total, TotalPages: totalPages}
}
