package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coverdesk/coverdesk/internal/platform/db"
)

const uniqueViolationCode = "23505"

// Repository is the pgx-backed aggregate store. The reports table carries a
// version column guarding every write; report_events is append-only;
// generated_report_files rows are written in the same transaction as the
// aggregate save.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository wrapper.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const definitionColumns = `id, tenant_id, organisation_id, name, COALESCE(description,''),
  source_data_types, mime_type, body_template, filename_template, product_ids,
  is_deleted, version, created_at, updated_at`

// GetByID loads the report aggregate, enforcing tenant ownership.
func (r *Repository) GetByID(ctx context.Context, tenantID, reportID uuid.UUID) (*Aggregate, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("report: repository not initialised")
	}
	query := `SELECT ` + definitionColumns + ` FROM reports WHERE id = $1`
	var def Definition
	var version int64
	err := r.pool.QueryRow(ctx, query, reportID).Scan(
		&def.ID, &def.TenantID, &def.OrganisationID, &def.Name, &def.Description,
		&def.SourceDataTypes, &def.MimeType, &def.BodyTemplate, &def.FilenameTemplate, &def.ProductIDs,
		&def.IsDeleted, &version, &def.CreatedAt, &def.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("report: get by id: %w", err)
	}
	if def.TenantID != tenantID {
		return nil, ErrTenantMismatch
	}
	return LoadedAggregate(def, version), nil
}

// ListByTenant returns non-deleted definitions for the tenant.
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]Definition, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("report: repository not initialised")
	}
	query := `SELECT ` + definitionColumns + `
FROM reports
WHERE tenant_id = $1 AND NOT is_deleted
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("report: list by tenant: %w", err)
	}
	defer rows.Close()
	var defs []Definition
	for rows.Next() {
		var def Definition
		var version int64
		if err := rows.Scan(
			&def.ID, &def.TenantID, &def.OrganisationID, &def.Name, &def.Description,
			&def.SourceDataTypes, &def.MimeType, &def.BodyTemplate, &def.FilenameTemplate, &def.ProductIDs,
			&def.IsDeleted, &version, &def.CreatedAt, &def.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("report: scan definition: %w", err)
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

// Save persists the aggregate under optimistic concurrency. A version
// mismatch returns ErrVersionConflict and writes nothing, including the
// artifact bytes.
func (r *Repository) Save(ctx context.Context, agg *Aggregate, file *GeneratedFile) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("report: repository not initialised")
	}
	events := agg.UnsavedEvents()
	if len(events) == 0 && file == nil {
		return nil
	}
	newVersion := agg.Version + 1
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if agg.Version == 0 {
			if err := insertDefinition(ctx, tx, agg.Definition); err != nil {
				return err
			}
		} else {
			if err := updateDefinition(ctx, tx, agg.Definition, agg.Version); err != nil {
				return err
			}
		}
		if err := appendEvents(ctx, tx, agg.Definition.ID, events); err != nil {
			return err
		}
		if file != nil {
			if err := insertFile(ctx, tx, file); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	agg.MarkSaved(newVersion)
	return nil
}

func insertDefinition(ctx context.Context, tx pgx.Tx, def Definition) error {
	const query = `INSERT INTO reports
  (id, tenant_id, organisation_id, name, description, source_data_types,
   mime_type, body_template, filename_template, product_ids, is_deleted, version)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,1)`
	_, err := tx.Exec(ctx, query,
		def.ID, def.TenantID, def.OrganisationID, def.Name, def.Description, def.SourceDataTypes,
		def.MimeType, def.BodyTemplate, def.FilenameTemplate, def.ProductIDs, def.IsDeleted,
	)
	if isUniqueViolation(err) {
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("report: insert definition: %w", err)
	}
	return nil
}

func updateDefinition(ctx context.Context, tx pgx.Tx, def Definition, expectedVersion int64) error {
	const query = `UPDATE reports SET
  name = $3, description = $4, source_data_types = $5, mime_type = $6,
  body_template = $7, filename_template = $8, product_ids = $9,
  is_deleted = $10, version = version + 1, updated_at = now()
WHERE id = $1 AND version = $2`
	tag, err := tx.Exec(ctx, query,
		def.ID, expectedVersion,
		def.Name, def.Description, def.SourceDataTypes, def.MimeType,
		def.BodyTemplate, def.FilenameTemplate, def.ProductIDs, def.IsDeleted,
	)
	if err != nil {
		return fmt.Errorf("report: update definition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}

func appendEvents(ctx context.Context, tx pgx.Tx, reportID uuid.UUID, events []Event) error {
	const query = `INSERT INTO report_events (report_id, sequence, event_type, payload, recorded_at)
VALUES ($1, (SELECT COALESCE(MAX(sequence),0)+1 FROM report_events WHERE report_id = $1), $2, $3, $4)`
	for _, ev := range events {
		payload, err := json.Marshal(ev.Payload)
		if err != nil {
			return fmt.Errorf("report: marshal event payload: %w", err)
		}
		if _, err := tx.Exec(ctx, query, reportID, ev.Type, payload, ev.RecordedAt); err != nil {
			if isUniqueViolation(err) {
				return ErrVersionConflict
			}
			return fmt.Errorf("report: append event: %w", err)
		}
	}
	return nil
}

func insertFile(ctx context.Context, tx pgx.Tx, file *GeneratedFile) error {
	const query = `INSERT INTO generated_report_files
  (id, report_id, environment, filename, content, mime_type, size_bytes, checksum, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := tx.Exec(ctx, query,
		file.ID, file.ReportID, file.Environment, file.Filename, file.Content,
		file.MimeType, file.SizeBytes, file.Checksum, file.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("report: insert generated file: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsDefaultOrganisation reports whether the organisation is the tenant's
// default, in which case source queries apply no organisation filter.
func (r *Repository) IsDefaultOrganisation(ctx context.Context, tenantID, organisationID uuid.UUID) (bool, error) {
	if r == nil || r.pool == nil {
		return false, fmt.Errorf("report: repository not initialised")
	}
	const query = `SELECT default_organisation_id FROM tenants WHERE id = $1`
	var defaultOrg uuid.UUID
	if err := r.pool.QueryRow(ctx, query, tenantID).Scan(&defaultOrg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("report: default organisation: %w", err)
	}
	return defaultOrg == organisationID, nil
}

// ListFileSummaries lists generated files for a report without content.
func (r *Repository) ListFileSummaries(ctx context.Context, reportID uuid.UUID, environment string, limit, offset int) ([]FileSummary, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("report: repository not initialised")
	}
	const query = `SELECT id, filename, size_bytes, mime_type, environment, created_at
FROM generated_report_files
WHERE report_id = $1 AND ($2 = '' OR environment = $2)
ORDER BY created_at DESC
LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, reportID, environment, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("report: list file summaries: %w", err)
	}
	defer rows.Close()
	var out []FileSummary
	for rows.Next() {
		var s FileSummary
		if err := rows.Scan(&s.ID, &s.Filename, &s.SizeBytes, &s.MimeType, &s.Environment, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("report: scan file summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetFile loads one generated file with content, enforcing tenant ownership
// through the owning report.
func (r *Repository) GetFile(ctx context.Context, tenantID, reportID, fileID uuid.UUID) (*GeneratedFile, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("report: repository not initialised")
	}
	const query = `SELECT f.id, f.report_id, f.environment, f.filename, f.content,
  f.mime_type, f.size_bytes, f.checksum, f.created_at, rep.tenant_id
FROM generated_report_files f
JOIN reports rep ON rep.id = f.report_id
WHERE f.id = $1 AND f.report_id = $2`
	var file GeneratedFile
	var owner uuid.UUID
	err := r.pool.QueryRow(ctx, query, fileID, reportID).Scan(
		&file.ID, &file.ReportID, &file.Environment, &file.Filename, &file.Content,
		&file.MimeType, &file.SizeBytes, &file.Checksum, &file.CreatedAt, &owner,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("report: get file: %w", err)
	}
	if owner != tenantID {
		return nil, ErrTenantMismatch
	}
	return &file, nil
}

var _ AggregateStore = (*Repository)(nil)
