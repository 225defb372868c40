package analytics

// RecordVisitRequest is posted by the public site on every page view.
type RecordVisitRequest struct {
	Path      string  `json:"path" validate:"required,max=500"`
	VisitorID string  `json:"visitorId" validate:"required,max=100"`
	Referrer  *string `json:"referrer" validate:"omitempty,max=1000"`
}

// TrendsQuery selects the trends window.
type TrendsQuery struct {
	Range string `form:"range" validate:"omitempty,oneof=3m 6m 1y"`
}
