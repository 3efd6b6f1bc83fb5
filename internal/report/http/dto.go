package reporthttp

import (
	"time"

	"github.com/google/uuid"
)

// CreateReportRequest is the JSON payload for creating a report definition.
type CreateReportRequest struct {
	OrganisationID   uuid.UUID   `json:"organisationId" validate:"required"`
	Name             string      `json:"name" validate:"required,max=200"`
	Description      string      `json:"description" validate:"max=2000"`
	SourceDataTypes  []string    `json:"sourceDataTypes" validate:"required,min=1,dive,required"`
	MimeType         string      `json:"mimeType" validate:"required"`
	BodyTemplate     string      `json:"bodyTemplate" validate:"required"`
	FilenameTemplate string      `json:"filenameTemplate" validate:"required"`
	ProductIDs       []uuid.UUID `json:"productIds"`
}

// UpdateReportRequest carries optional field changes; omitted fields stay
// untouched.
type UpdateReportRequest struct {
	Name             *string      `json:"name,omitempty" validate:"omitempty,max=200"`
	Description      *string      `json:"description,omitempty" validate:"omitempty,max=2000"`
	SourceDataTypes  []string     `json:"sourceDataTypes,omitempty" validate:"omitempty,min=1,dive,required"`
	MimeType         *string      `json:"mimeType,omitempty"`
	BodyTemplate     *string      `json:"bodyTemplate,omitempty"`
	FilenameTemplate *string      `json:"filenameTemplate,omitempty"`
	ProductIDs       *[]uuid.UUID `json:"productIds,omitempty"`
}

// GenerateRequest is the JSON payload for queueing a generation.
type GenerateRequest struct {
	Environment     string    `json:"environment" validate:"required,oneof=development staging production"`
	From            time.Time `json:"from" validate:"required"`
	To              time.Time `json:"to" validate:"required,gtfield=From"`
	TimeZone        string    `json:"timeZone"`
	IncludeTestData bool      `json:"includeTestData"`
}

// ReportResponse is the JSON projection of a definition.
type ReportResponse struct {
	ID               uuid.UUID   `json:"id"`
	OrganisationID   uuid.UUID   `json:"organisationId"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	SourceDataTypes  []string    `json:"sourceDataTypes"`
	MimeType         string      `json:"mimeType"`
	BodyTemplate     string      `json:"bodyTemplate"`
	FilenameTemplate string      `json:"filenameTemplate"`
	ProductIDs       []uuid.UUID `json:"productIds"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}
