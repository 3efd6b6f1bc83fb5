package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/coverdesk/coverdesk/internal/records"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestProjectQuoteRoundTrip(t *testing.T) {
	projector := NewProjector("UTC")
	id := uuid.New()
	created := time.Date(2024, 5, 2, 14, 30, 0, 0, time.UTC)

	row := projector.ProjectQuote(records.QuoteRecord{
		ID:             id,
		QuoteNumber:    "Q-0042",
		QuoteType:      "NewBusiness",
		Status:         "Complete",
		ProductName:    "Home Cover",
		CustomerName:   "Ada Lovelace",
		CustomerEmail:  "ada@example.com",
		InvoiceNumber:  strPtr("INV-7"),
		BasePremium:    floatPtr(100),
		Taxes:          floatPtr(10.5),
		Fees:           floatPtr(2),
		TotalPayable:   floatPtr(112.5),
		IsTestData:     false,
		CreatedAt:      created,
		LastModifiedAt: created.Add(48 * time.Hour),
	})

	require.Equal(t, id.String(), row.ID)
	require.Equal(t, "Q-0042", row.QuoteNumber)
	require.Equal(t, "NewBusiness", row.QuoteType)
	require.Equal(t, "Complete", row.Status)
	require.Equal(t, "Home Cover", row.ProductName)
	require.Equal(t, "Ada Lovelace", row.CustomerName)
	require.Equal(t, "INV-7", row.InvoiceNumber)
	require.Equal(t, "$100.00", row.BasePremium)
	require.Equal(t, "$10.50", row.Taxes)
	require.Equal(t, "$2.00", row.Fees)
	require.Equal(t, "$112.50", row.TotalPayable)
	require.Equal(t, "No", row.TestData)
	require.Equal(t, "05/02/2024", row.CreatedDate)
	require.Equal(t, "2:30 PM", row.CreatedTime)
	require.Equal(t, "05/04/2024", row.LastModifiedDate)
}

func TestProjectQuoteAbsentValuesAreEmptyStrings(t *testing.T) {
	projector := NewProjector("UTC")
	row := projector.ProjectQuote(records.QuoteRecord{
		ID:          uuid.New(),
		QuoteNumber: "Q-1",
		Status:      "Incomplete",
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	require.Equal(t, "", row.InvoiceNumber)
	require.Equal(t, "", row.BasePremium)
	require.Equal(t, "", row.TotalPayable)

	m := row.TemplateMap()
	require.Equal(t, "", m["InvoiceNumber"])
	require.NotContains(t, m, "Form")
	require.NotContains(t, m, "Calculation")
}

func TestProjectQuoteTimezoneConversion(t *testing.T) {
	projector := NewProjector("Australia/Melbourne")
	// 14:30 UTC on 2 May is 00:30 on 3 May in Melbourne (AEST, +10).
	created := time.Date(2024, 5, 2, 14, 30, 0, 0, time.UTC)
	row := projector.ProjectQuote(records.QuoteRecord{
		ID: uuid.New(), QuoteNumber: "Q-2", Status: "Complete", CreatedAt: created,
	})
	require.Equal(t, "05/03/2024", row.CreatedDate)
	require.Equal(t, "12:30 AM", row.CreatedTime)
}

func TestProjectorUnknownZoneFallsBackToDefault(t *testing.T) {
	projector := NewProjector("Not/AZone")
	require.Equal(t, DefaultTimeZone, projector.Location().String())
}

func TestProjectPolicyTransaction(t *testing.T) {
	projector := NewProjector("UTC")
	effective := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	row := projector.ProjectPolicyTransaction(records.PolicyTransactionRecord{
		ID:              uuid.New(),
		PolicyID:        uuid.New(),
		PolicyNumber:    "POL-9",
		TransactionType: "Renewal",
		Status:          "Complete",
		TotalPayable:    floatPtr(500),
		IsTestData:      true,
		CreatedAt:       time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC),
		EffectiveAt:     &effective,
		CalculationJSON: []byte(`{"Json":{"basePremium":450}}`),
	})

	require.Equal(t, "Renewal", row.TransactionType)
	require.Equal(t, "Yes", row.TestData)
	require.Equal(t, "06/01/2024", row.EffectiveDate)
	require.Equal(t, "$500.00", row.TotalPayable)

	m := row.TemplateMap()
	calc := m["Calculation"].(map[string]any)
	require.Equal(t, float64(450), calc["BasePremium"])
}

func TestProjectClaimSummarizableFields(t *testing.T) {
	projector := NewProjector("UTC")
	row := projector.ProjectClaim(records.ClaimRecord{
		ID:          uuid.New(),
		ClaimNumber: "CLM-3",
		Status:      "Incomplete",
		Amount:      floatPtr(80),
		CreatedAt:   time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC),
	})

	require.Equal(t, "Incomplete", row.RecordStatus())
	require.Equal(t, "05/10/2024", row.RecordDate())
	require.Equal(t, "$80.00", row.RecordAmount())
}

func TestProjectEmail(t *testing.T) {
	projector := NewProjector("UTC")
	row := projector.ProjectEmail(records.EmailRecord{
		ID:             uuid.New(),
		Kind:           records.EmailKindProduct,
		Recipient:      "customer@example.com",
		Sender:         "noreply@coverdesk.example",
		Subject:        "Your policy documents",
		HasAttachments: true,
		SentAt:         time.Date(2024, 5, 2, 23, 5, 0, 0, time.UTC),
	})

	require.Equal(t, "Product", row.Kind)
	require.Equal(t, "Yes", row.HasAttachments)
	require.Equal(t, "05/02/2024", row.SentDate)
	require.Equal(t, "11:05 PM", row.SentTime)

	m := row.TemplateMap()
	require.Equal(t, "Your policy documents", m["Subject"])
}

func TestProjectQuoteFormDataExposed(t *testing.T) {
	projector := NewProjector("UTC")
	row := projector.ProjectQuote(records.QuoteRecord{
		ID:           uuid.New(),
		QuoteNumber:  "Q-3",
		Status:       "Complete",
		CreatedAt:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		FormDataJSON: []byte(`{"contactName":"Grace"}`),
	})

	m := row.TemplateMap()
	form := m["Form"].(map[string]any)
	require.Equal(t, "Grace", form["ContactName"])
}
