// Package report implements the report generation engine: projection of
// business records into template-safe rows, period summary aggregation,
// template rendering, and optimistic-concurrency-safe artifact persistence.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SourceKind enumerates the record categories a report may include.
type SourceKind string

const (
	SourceNewBusiness  SourceKind = "NewBusiness"
	SourceRenewal      SourceKind = "Renewal"
	SourceAdjustment   SourceKind = "Adjustment"
	SourceCancellation SourceKind = "Cancellation"
	SourceQuote        SourceKind = "Quote"
	SourceSystemEmail  SourceKind = "SystemEmail"
	SourceProductEmail SourceKind = "ProductEmail"
	SourceClaim        SourceKind = "Claim"
)

var sourceKinds = map[string]SourceKind{
	"newbusiness":   SourceNewBusiness,
	"new business":  SourceNewBusiness,
	"renewal":       SourceRenewal,
	"adjustment":    SourceAdjustment,
	"cancellation":  SourceCancellation,
	"quote":         SourceQuote,
	"systememail":   SourceSystemEmail,
	"system email":  SourceSystemEmail,
	"productemail":  SourceProductEmail,
	"product email": SourceProductEmail,
	"claim":         SourceClaim,
}

// ParseSourceKind converts a stored free-text token back into a SourceKind.
// An unrecognised token is a fatal input error.
func ParseSourceKind(token string) (SourceKind, error) {
	kind, ok := sourceKinds[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMalformedSourceData, token)
	}
	return kind, nil
}

// ParseSourceKinds parses every token, failing on the first unrecognised one.
func ParseSourceKinds(tokens []string) ([]SourceKind, error) {
	kinds := make([]SourceKind, 0, len(tokens))
	for _, token := range tokens {
		kind, err := ParseSourceKind(token)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// IsPolicyTransaction reports whether the kind maps to a policy transaction type.
func (k SourceKind) IsPolicyTransaction() bool {
	switch k {
	case SourceNewBusiness, SourceRenewal, SourceAdjustment, SourceCancellation:
		return true
	}
	return false
}

// Granularity is the period size used for summary bucketing.
type Granularity string

const (
	GranularityDaily   Granularity = "Daily"
	GranularityWeekly  Granularity = "Weekly"
	GranularityMonthly Granularity = "Monthly"
)

// Granularities lists the supported period sizes in rendering order.
var Granularities = []Granularity{GranularityDaily, GranularityWeekly, GranularityMonthly}

// Definition holds the user-authored configuration of a report.
type Definition struct {
	ID               uuid.UUID
	TenantID         uuid.UUID
	OrganisationID   uuid.UUID
	Name             string
	Description      string
	SourceDataTypes  []string
	MimeType         string
	BodyTemplate     string
	FilenameTemplate string
	ProductIDs       []uuid.UUID
	IsDeleted        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// GeneratedFile is one immutable produced artifact.
type GeneratedFile struct {
	ID          uuid.UUID
	ReportID    uuid.UUID
	Environment string
	Filename    string
	Content     []byte
	MimeType    string
	SizeBytes   int64
	Checksum    string
	CreatedAt   time.Time
}

// FileSummary is the listing projection of a generated file, without content.
type FileSummary struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	SizeBytes   int64     `json:"sizeBytes"`
	MimeType    string    `json:"mimeType"`
	Environment string    `json:"environment"`
	CreatedAt   time.Time `json:"createdAt"`
}

var (
	// ErrReportNotFound indicates the report aggregate does not exist.
	ErrReportNotFound = errors.New("report: not found")
	// ErrFileNotFound indicates the generated file does not exist.
	ErrFileNotFound = errors.New("report: file not found")
	// ErrTenantMismatch indicates the requesting tenant does not own the report.
	ErrTenantMismatch = errors.New("report: tenant mismatch")
	// ErrMalformedSourceData indicates a stored source data type token could not be parsed.
	ErrMalformedSourceData = errors.New("report: unrecognised source data type")
	// ErrVersionConflict indicates a concurrent writer advanced the aggregate version.
	ErrVersionConflict = errors.New("report: aggregate version conflict")
	// ErrStaleAggregate indicates the optimistic concurrency retry budget was exhausted.
	ErrStaleAggregate = errors.New("report: concurrency retries exhausted")
	// ErrTemplate indicates a template failed to parse or referenced an undefined field.
	ErrTemplate = errors.New("report: template error")
	// ErrMalformedAmount indicates a monetary string could not be parsed during aggregation.
	ErrMalformedAmount = errors.New("report: malformed amount")
	// ErrMalformedDate indicates a row date string could not be parsed during aggregation.
	ErrMalformedDate = errors.New("report: malformed date")
)
