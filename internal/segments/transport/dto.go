package transport

// CriteriaDTO is the lead filter of a segment.
type CriteriaDTO struct {
	MinScore     *int     `json:"min_score,omitempty" validate:"omitempty,min=0,max=100"`
	Status       []string `json:"status,omitempty" validate:"omitempty,dive,oneof=new contacted qualified converted lost"`
	MinBudget    *float64 `json:"min_budget,omitempty" validate:"omitempty,gte=0"`
	SiteTypes    []string `json:"site_types,omitempty" validate:"omitempty,dive,min=1,max=50"`
	InactiveDays *int     `json:"inactive_days,omitempty" validate:"omitempty,min=1,max=3650"`
}

type CreateSegmentRequest struct {
	Name        string      `json:"name" validate:"required,min=1,max=120"`
	Description string      `json:"description" validate:"max=1000"`
	Criteria    CriteriaDTO `json:"criteria"`
}

type UpdateSegmentRequest struct {
	Name        *string      `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=1000"`
	Criteria    *CriteriaDTO `json:"criteria,omitempty"`
}

type ListMembersRequest struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type ExportRequest struct {
	Members   bool `form:"members"`
	Analytics bool `form:"analytics"`
}

type SegmentResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Criteria    CriteriaDTO `json:"criteria"`
	LeadCount   int         `json:"leadCount"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
}

type MemberResponse struct {
	ID              string   `json:"id"`
	CompanyName     string   `json:"companyName"`
	ContactName     string   `json:"contactName"`
	Email           string   `json:"email"`
	SiteType        string   `json:"siteType"`
	ElectricityBill float64  `json:"electricityBill"`
	Budget          *float64 `json:"budget,omitempty"`
	Status          string   `json:"status"`
	Score           int      `json:"score"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

type MemberListResponse struct {
	Items      []MemberResponse `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}
