package report

// Row is a normalized, template-safe projection of one business record.
// TemplateMap produces the flat key -> value map the renderer binds; every
// scalar is a display string so templates never deal with nulls or raw
// numerics.
type Row interface {
	TemplateMap() map[string]any
}

// SummarizableRow additionally exposes the fields the period summary
// aggregator groups and sums on. Emails carry no amounts and are not
// summarizable.
type SummarizableRow interface {
	Row
	RecordStatus() string
	RecordDate() string
	RecordAmount() string
}

// QuoteRow is the normalized projection of a quote record.
type QuoteRow struct {
	ID               string
	QuoteNumber      string
	QuoteType        string
	Status           string
	ProductName      string
	CustomerName     string
	CustomerEmail    string
	InvoiceNumber    string
	BasePremium      string
	Taxes            string
	Fees             string
	TotalPayable     string
	TestData         string
	CreatedDate      string
	CreatedTime      string
	LastModifiedDate string

	calc *calculationData
	form *calculationData
}

func (r QuoteRow) RecordStatus() string { return r.Status }
func (r QuoteRow) RecordDate() string   { return r.CreatedDate }
func (r QuoteRow) RecordAmount() string { return r.TotalPayable }

// TemplateMap exposes every template-addressable field.
func (r QuoteRow) TemplateMap() map[string]any {
	m := map[string]any{
		"Id":               r.ID,
		"QuoteNumber":      r.QuoteNumber,
		"QuoteType":        r.QuoteType,
		"Status":           r.Status,
		"ProductName":      r.ProductName,
		"CustomerName":     r.CustomerName,
		"CustomerEmail":    r.CustomerEmail,
		"InvoiceNumber":    r.InvoiceNumber,
		"BasePremium":      r.BasePremium,
		"Taxes":            r.Taxes,
		"Fees":             r.Fees,
		"TotalPayable":     r.TotalPayable,
		"TestData":         r.TestData,
		"CreatedDate":      r.CreatedDate,
		"CreatedTime":      r.CreatedTime,
		"LastModifiedDate": r.LastModifiedDate,
	}
	attachDynamic(m, r.form, r.calc)
	return m
}

// PolicyTransactionRow is the normalized projection of a policy transaction.
type PolicyTransactionRow struct {
	ID              string
	PolicyID        string
	PolicyNumber    string
	InvoiceNumber   string
	TransactionType string
	Status          string
	ProductName     string
	CustomerName    string
	CustomerEmail   string
	BasePremium     string
	Taxes           string
	Fees            string
	TotalPayable    string
	TestData        string
	CreatedDate     string
	CreatedTime     string
	EffectiveDate   string

	calc *calculationData
	form *calculationData
}

func (r PolicyTransactionRow) RecordStatus() string { return r.Status }
func (r PolicyTransactionRow) RecordDate() string   { return r.CreatedDate }
func (r PolicyTransactionRow) RecordAmount() string { return r.TotalPayable }

// TemplateMap exposes every template-addressable field.
func (r PolicyTransactionRow) TemplateMap() map[string]any {
	m := map[string]any{
		"Id":              r.ID,
		"PolicyId":        r.PolicyID,
		"PolicyNumber":    r.PolicyNumber,
		"InvoiceNumber":   r.InvoiceNumber,
		"TransactionType": r.TransactionType,
		"Status":          r.Status,
		"ProductName":     r.ProductName,
		"CustomerName":    r.CustomerName,
		"CustomerEmail":   r.CustomerEmail,
		"BasePremium":     r.BasePremium,
		"Taxes":           r.Taxes,
		"Fees":            r.Fees,
		"TotalPayable":    r.TotalPayable,
		"TestData":        r.TestData,
		"CreatedDate":     r.CreatedDate,
		"CreatedTime":     r.CreatedTime,
		"EffectiveDate":   r.EffectiveDate,
	}
	attachDynamic(m, r.form, r.calc)
	return m
}

// ClaimRow is the normalized projection of a claim record.
type ClaimRow struct {
	ID             string
	ClaimNumber    string
	ClaimReference string
	PolicyNumber   string
	Status         string
	Description    string
	ProductName    string
	CustomerName   string
	Amount         string
	TestData       string
	IncidentDate   string
	CreatedDate    string
	CreatedTime    string

	calc *calculationData
	form *calculationData
}

func (r ClaimRow) RecordStatus() string { return r.Status }
func (r ClaimRow) RecordDate() string   { return r.CreatedDate }
func (r ClaimRow) RecordAmount() string { return r.Amount }

// TemplateMap exposes every template-addressable field.
func (r ClaimRow) TemplateMap() map[string]any {
	m := map[string]any{
		"Id":             r.ID,
		"ClaimNumber":    r.ClaimNumber,
		"ClaimReference": r.ClaimReference,
		"PolicyNumber":   r.PolicyNumber,
		"Status":         r.Status,
		"Description":    r.Description,
		"ProductName":    r.ProductName,
		"CustomerName":   r.CustomerName,
		"Amount":         r.Amount,
		"TestData":       r.TestData,
		"IncidentDate":   r.IncidentDate,
		"CreatedDate":    r.CreatedDate,
		"CreatedTime":    r.CreatedTime,
	}
	attachDynamic(m, r.form, r.calc)
	return m
}

// EmailRow is the normalized projection of an email record.
type EmailRow struct {
	ID             string
	Kind           string
	Recipient      string
	Sender         string
	Subject        string
	ProductName    string
	HasAttachments string
	TestData       string
	SentDate       string
	SentTime       string
}

// TemplateMap exposes every template-addressable field.
func (r EmailRow) TemplateMap() map[string]any {
	return map[string]any{
		"Id":             r.ID,
		"Kind":           r.Kind,
		"Recipient":      r.Recipient,
		"Sender":         r.Sender,
		"Subject":        r.Subject,
		"ProductName":    r.ProductName,
		"HasAttachments": r.HasAttachments,
		"TestData":       r.TestData,
		"SentDate":       r.SentDate,
		"SentTime":       r.SentTime,
	}
}

// attachDynamic adds the Form and Calculation maps when present. Absent
// embedded documents yield no key at all rather than a nil value.
func attachDynamic(m map[string]any, form, calc *calculationData) {
	if data := form.Data(); data != nil {
		m["Form"] = data
	}
	if data := calc.Data(); data != nil {
		m["Calculation"] = data
	}
}
