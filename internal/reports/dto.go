package reports

import (
	rectransport "sakkanal_backend/internal/recommendation/transport"

	"github.com/google/uuid"
)

// UserRequest identifies the prospect the report is addressed to.
type UserRequest struct {
	FullName string `json:"fullName" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Company  string `json:"company" validate:"max=200"`
	Phone    string `json:"phone" validate:"max=50"`
}

// GenerateRequest asks for the PDF report of a scenario.
type GenerateRequest struct {
	ScenarioID    uuid.UUID                         `json:"scenarioId" validate:"required"`
	LeadID        *uuid.UUID                        `json:"leadId"`
	User          UserRequest                       `json:"user"`
	Questionnaire rectransport.QuestionnaireRequest `json:"questionnaire"`
}

// ToInput converts the request to the service input.
func (r GenerateRequest) ToInput() Input {
	return Input{
		ScenarioID:    r.ScenarioID,
		LeadID:        r.LeadID,
		FullName:      r.User.FullName,
		Email:         r.User.Email,
		Company:       r.User.Company,
		Phone:         r.User.Phone,
		Questionnaire: r.Questionnaire.ToEngine(),
	}
}

// ListQuery bounds the admin listing.
type ListQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=200"`
}

// StoredReportResponse is returned when the PDF was uploaded to object storage.
type StoredReportResponse struct {
	ReportID    uuid.UUID `json:"reportId"`
	FileName    string    `json:"fileName"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   string    `json:"expiresAt"`
	Savings     Savings   `json:"savings"`
}
