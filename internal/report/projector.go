package report

import (
	"time"

	"github.com/coverdesk/coverdesk/internal/records"
)

// Display formats fixed across all reports: US-style date and 12-hour time.
const (
	displayDateFormat = "01/02/2006"
	displayTimeFormat = "3:04 PM"
)

// DefaultTimeZone is used when the caller supplies no (or an unknown) zone.
const DefaultTimeZone = "Australia/Melbourne"

// Projector converts raw repository records into normalized report rows.
// It is a pure transform: no I/O, no mutation of its inputs.
type Projector struct {
	loc *time.Location
}

// NewProjector resolves the display timezone, falling back to AET and then
// UTC when the named zone cannot be loaded.
func NewProjector(timeZone string) *Projector {
	loc, err := time.LoadLocation(timeZone)
	if timeZone == "" || err != nil {
		loc, err = time.LoadLocation(DefaultTimeZone)
		if err != nil {
			loc = time.UTC
		}
	}
	return &Projector{loc: loc}
}

// Location returns the resolved display timezone.
func (p *Projector) Location() *time.Location {
	return p.loc
}

func (p *Projector) formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(p.loc).Format(displayDateFormat)
}

func (p *Projector) formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(p.loc).Format(displayTimeFormat)
}

func (p *Projector) formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return p.formatDate(*t)
}

func formatString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// ProjectQuote normalizes one quote record.
func (p *Projector) ProjectQuote(rec records.QuoteRecord) QuoteRow {
	return QuoteRow{
		ID:               rec.ID.String(),
		QuoteNumber:      rec.QuoteNumber,
		QuoteType:        rec.QuoteType,
		Status:           rec.Status,
		ProductName:      rec.ProductName,
		CustomerName:     rec.CustomerName,
		CustomerEmail:    rec.CustomerEmail,
		InvoiceNumber:    formatString(rec.InvoiceNumber),
		BasePremium:      FormatAmount(rec.BasePremium),
		Taxes:            FormatAmount(rec.Taxes),
		Fees:             FormatAmount(rec.Fees),
		TotalPayable:     FormatAmount(rec.TotalPayable),
		TestData:         formatBool(rec.IsTestData),
		CreatedDate:      p.formatDate(rec.CreatedAt),
		CreatedTime:      p.formatTime(rec.CreatedAt),
		LastModifiedDate: p.formatDate(rec.LastModifiedAt),
		form:             newCalculationData(rec.FormDataJSON),
		calc:             newCalculationData(rec.CalculationJSON),
	}
}

// ProjectPolicyTransaction normalizes one policy transaction record.
func (p *Projector) ProjectPolicyTransaction(rec records.PolicyTransactionRecord) PolicyTransactionRow {
	return PolicyTransactionRow{
		ID:              rec.ID.String(),
		PolicyID:        rec.PolicyID.String(),
		PolicyNumber:    rec.PolicyNumber,
		InvoiceNumber:   formatString(rec.InvoiceNumber),
		TransactionType: rec.TransactionType,
		Status:          rec.Status,
		ProductName:     rec.ProductName,
		CustomerName:    rec.CustomerName,
		CustomerEmail:   rec.CustomerEmail,
		BasePremium:     FormatAmount(rec.BasePremium),
		Taxes:           FormatAmount(rec.Taxes),
		Fees:            FormatAmount(rec.Fees),
		TotalPayable:    FormatAmount(rec.TotalPayable),
		TestData:        formatBool(rec.IsTestData),
		CreatedDate:     p.formatDate(rec.CreatedAt),
		CreatedTime:     p.formatTime(rec.CreatedAt),
		EffectiveDate:   p.formatOptionalDate(rec.EffectiveAt),
		form:            newCalculationData(rec.FormDataJSON),
		calc:            newCalculationData(rec.CalculationJSON),
	}
}

// ProjectClaim normalizes one claim record.
func (p *Projector) ProjectClaim(rec records.ClaimRecord) ClaimRow {
	return ClaimRow{
		ID:             rec.ID.String(),
		ClaimNumber:    rec.ClaimNumber,
		ClaimReference: rec.ClaimReference,
		PolicyNumber:   rec.PolicyNumber,
		Status:         rec.Status,
		Description:    rec.Description,
		ProductName:    rec.ProductName,
		CustomerName:   rec.CustomerName,
		Amount:         FormatAmount(rec.Amount),
		TestData:       formatBool(rec.IsTestData),
		IncidentDate:   p.formatOptionalDate(rec.IncidentAt),
		CreatedDate:    p.formatDate(rec.CreatedAt),
		CreatedTime:    p.formatTime(rec.CreatedAt),
		form:           newCalculationData(rec.FormDataJSON),
		calc:           newCalculationData(rec.CalculationJSON),
	}
}

// ProjectEmail normalizes one email record.
func (p *Projector) ProjectEmail(rec records.EmailRecord) EmailRow {
	return EmailRow{
		ID:             rec.ID.String(),
		Kind:           string(rec.Kind),
		Recipient:      rec.Recipient,
		Sender:         rec.Sender,
		Subject:        rec.Subject,
		ProductName:    rec.ProductName,
		HasAttachments: formatBool(rec.HasAttachments),
		TestData:       formatBool(rec.IsTestData),
		SentDate:       p.formatDate(rec.SentAt),
		SentTime:       p.formatTime(rec.SentAt),
	}
}
