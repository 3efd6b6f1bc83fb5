package records

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs read-only queries against the reporting read-model tables.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository wrapper.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// filterArgs appends the shared filter parameters in a fixed order:
// tenant, organisation, product ids, environment, window, test data.
func filterArgs(f Filter) []any {
	var org any
	if f.OrganisationID != nil {
		org = *f.OrganisationID
	}
	var products any
	if len(f.ProductIDs) > 0 {
		products = f.ProductIDs
	}
	return []any{f.TenantID, org, products, f.Environment, f.From, f.To, f.IncludeTestData}
}

const filterClause = `tenant_id = $1
  AND ($2::uuid IS NULL OR organisation_id = $2)
  AND ($3::uuid[] IS NULL OR product_id = ANY($3))
  AND environment = $4
  AND created_at >= $5 AND created_at < $6
  AND ($7 OR NOT is_test_data)`

// PolicyTransactions returns policy transaction rows within the window,
// optionally restricted to a set of transaction types.
func (r *Repository) PolicyTransactions(ctx context.Context, f Filter, transactionTypes []string) ([]PolicyTransactionRecord, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("records: repository not initialised")
	}
	query := `SELECT id, policy_id, policy_number, invoice_number, transaction_type, status,
  COALESCE(product_name,''), COALESCE(customer_name,''), COALESCE(customer_email,''),
  base_premium, taxes, fees, total_payable, is_test_data, created_at, effective_at,
  form_data, calculation_result
FROM policy_transactions
WHERE ` + filterClause + `
  AND ($8::text[] IS NULL OR transaction_type = ANY($8))
ORDER BY created_at`
	var types any
	if len(transactionTypes) > 0 {
		types = transactionTypes
	}
	args := append(filterArgs(f), types)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("records: policy transactions: %w", err)
	}
	defer rows.Close()
	var out []PolicyTransactionRecord
	for rows.Next() {
		var rec PolicyTransactionRecord
		if err := rows.Scan(
			&rec.ID, &rec.PolicyID, &rec.PolicyNumber, &rec.InvoiceNumber, &rec.TransactionType, &rec.Status,
			&rec.ProductName, &rec.CustomerName, &rec.CustomerEmail,
			&rec.BasePremium, &rec.Taxes, &rec.Fees, &rec.TotalPayable, &rec.IsTestData, &rec.CreatedAt, &rec.EffectiveAt,
			&rec.FormDataJSON, &rec.CalculationJSON,
		); err != nil {
			return nil, fmt.Errorf("records: scan policy transaction: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// QuoteData returns quote rows within the window.
func (r *Repository) QuoteData(ctx context.Context, f Filter) ([]QuoteRecord, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("records: repository not initialised")
	}
	query := `SELECT id, quote_number, quote_type, status,
  COALESCE(product_name,''), COALESCE(customer_name,''), COALESCE(customer_email,''),
  invoice_number, base_premium, taxes, fees, total_payable, is_test_data,
  created_at, last_modified_at, form_data, calculation_result
FROM report_quotes
WHERE ` + filterClause + `
ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, filterArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("records: quotes: %w", err)
	}
	defer rows.Close()
	return scanQuotes(rows)
}

func scanQuotes(rows pgx.Rows) ([]QuoteRecord, error) {
	var out []QuoteRecord
	for rows.Next() {
		var rec QuoteRecord
		if err := rows.Scan(
			&rec.ID, &rec.QuoteNumber, &rec.QuoteType, &rec.Status,
			&rec.ProductName, &rec.CustomerName, &rec.CustomerEmail,
			&rec.InvoiceNumber, &rec.BasePremium, &rec.Taxes, &rec.Fees, &rec.TotalPayable, &rec.IsTestData,
			&rec.CreatedAt, &rec.LastModifiedAt, &rec.FormDataJSON, &rec.CalculationJSON,
		); err != nil {
			return nil, fmt.Errorf("records: scan quote: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ClaimsData returns claim rows within the window.
func (r *Repository) ClaimsData(ctx context.Context, f Filter) ([]ClaimRecord, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("records: repository not initialised")
	}
	query := `SELECT id, claim_number, COALESCE(claim_reference,''), COALESCE(policy_number,''), status,
  COALESCE(description,''), COALESCE(product_name,''), COALESCE(customer_name,''),
  amount, is_test_data, incident_at, created_at, form_data, calculation_result
FROM report_claims
WHERE ` + filterClause + `
ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, filterArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("records: claims: %w", err)
	}
	defer rows.Close()
	var out []ClaimRecord
	for rows.Next() {
		var rec ClaimRecord
		if err := rows.Scan(
			&rec.ID, &rec.ClaimNumber, &rec.ClaimReference, &rec.PolicyNumber, &rec.Status,
			&rec.Description, &rec.ProductName, &rec.CustomerName,
			&rec.Amount, &rec.IsTestData, &rec.IncidentAt, &rec.CreatedAt, &rec.FormDataJSON, &rec.CalculationJSON,
		); err != nil {
			return nil, fmt.Errorf("records: scan claim: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SystemEmails returns system email rows within the window.
func (r *Repository) SystemEmails(ctx context.Context, f Filter) ([]EmailRecord, error) {
	return r.emails(ctx, "system_emails", EmailKindSystem, f)
}

// ProductEmails returns product email rows within the window.
func (r *Repository) ProductEmails(ctx context.Context, f Filter) ([]EmailRecord, error) {
	return r.emails(ctx, "product_emails", EmailKindProduct, f)
}

func (r *Repository) emails(ctx context.Context, table string, kind EmailKind, f Filter) ([]EmailRecord, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("records: repository not initialised")
	}
	query := `SELECT id, recipient, COALESCE(sender,''), COALESCE(subject,''),
  COALESCE(product_name,''), has_attachments, is_test_data, sent_at
FROM ` + table + `
WHERE ` + emailFilterClause + `
ORDER BY sent_at`
	rows, err := r.pool.Query(ctx, query, filterArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("records: %s emails: %w", kind, err)
	}
	defer rows.Close()
	var out []EmailRecord
	for rows.Next() {
		rec := EmailRecord{Kind: kind}
		if err := rows.Scan(
			&rec.ID, &rec.Recipient, &rec.Sender, &rec.Subject,
			&rec.ProductName, &rec.HasAttachments, &rec.IsTestData, &rec.SentAt,
		); err != nil {
			return nil, fmt.Errorf("records: scan email: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Email tables key the window on sent_at instead of created_at.
const emailFilterClause = `tenant_id = $1
  AND ($2::uuid IS NULL OR organisation_id = $2)
  AND ($3::uuid[] IS NULL OR product_id = ANY($3))
  AND environment = $4
  AND sent_at >= $5 AND sent_at < $6
  AND ($7 OR NOT is_test_data)`
