// internal/domain/customer/dto.go
package customer

type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"max=500"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=255"`
	Phone   *string `json:"phone"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	// Version is the version the caller last read. Zero skips the check.
	Version int64 `json:"version"`
}

// Filter values accepted by CustomerListFilters.
const (
	FilterAll   = "all"
	FilterDue   = "due"
	FilterClear = "clear"
)

type CustomerListFilters struct {
	// Search matches name or phone, case-insensitive.
	Search string `form:"search"`
	// Filter is one of: all, due, clear.
	Filter string `form:"filter" binding:"omitempty,oneof=all due clear"`
}

type CustomerListResponse struct {
	Customers []Customer `json:"customers"`
	Total     int        `json:"total"`
}
