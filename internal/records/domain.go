// Package records is the thin read-model query layer for report source data.
// It returns raw repository rows; all normalization happens in the report
// engine.
package records

import (
	"time"

	"github.com/google/uuid"
)

// Filter bounds a read-model query. OrganisationID is nil when the
// requesting organisation is the tenant's default, meaning no filter.
type Filter struct {
	TenantID        uuid.UUID
	OrganisationID  *uuid.UUID
	ProductIDs      []uuid.UUID
	Environment     string
	From            time.Time
	To              time.Time
	IncludeTestData bool
}

// PolicyTransactionRecord is one raw policy transaction row.
type PolicyTransactionRecord struct {
	ID              uuid.UUID
	PolicyID        uuid.UUID
	PolicyNumber    string
	InvoiceNumber   *string
	TransactionType string
	Status          string
	ProductName     string
	CustomerName    string
	CustomerEmail   string
	BasePremium     *float64
	Taxes           *float64
	Fees            *float64
	TotalPayable    *float64
	IsTestData      bool
	CreatedAt       time.Time
	EffectiveAt     *time.Time
	FormDataJSON    []byte
	CalculationJSON []byte
}

// QuoteRecord is one raw quote row.
type QuoteRecord struct {
	ID              uuid.UUID
	QuoteNumber     string
	QuoteType       string
	Status          string
	ProductName     string
	CustomerName    string
	CustomerEmail   string
	InvoiceNumber   *string
	BasePremium     *float64
	Taxes           *float64
	Fees            *float64
	TotalPayable    *float64
	IsTestData      bool
	CreatedAt       time.Time
	LastModifiedAt  time.Time
	FormDataJSON    []byte
	CalculationJSON []byte
}

// ClaimRecord is one raw claim row.
type ClaimRecord struct {
	ID              uuid.UUID
	ClaimNumber     string
	ClaimReference  string
	PolicyNumber    string
	Status          string
	Description     string
	ProductName     string
	CustomerName    string
	Amount          *float64
	IsTestData      bool
	IncidentAt      *time.Time
	CreatedAt       time.Time
	FormDataJSON    []byte
	CalculationJSON []byte
}

// EmailKind distinguishes the two email read models.
type EmailKind string

const (
	EmailKindSystem  EmailKind = "System"
	EmailKindProduct EmailKind = "Product"
)

// EmailRecord is one raw email row from either email read model.
type EmailRecord struct {
	ID             uuid.UUID
	Kind           EmailKind
	Recipient      string
	Sender         string
	Subject        string
	ProductName    string
	HasAttachments bool
	IsTestData     bool
	SentAt         time.Time
}
