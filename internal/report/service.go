package report

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Store is the persistence surface the service depends on.
type Store interface {
	AggregateStore
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]Definition, error)
	ListFileSummaries(ctx context.Context, reportID uuid.UUID, environment string, limit, offset int) ([]FileSummary, error)
	GetFile(ctx context.Context, tenantID, reportID, fileID uuid.UUID) (*GeneratedFile, error)
}

// Service manages report definitions and generated file access. Definition
// mutations follow the same optimistic-concurrency save pattern as artifact
// persistence.
type Service struct {
	store        Store
	cache        *Cache
	now          func() time.Time
	saveAttempts int
}

// NewService constructs a Service.
func NewService(store Store, cache *Cache) *Service {
	return &Service{store: store, cache: cache, now: time.Now, saveAttempts: DefaultSaveAttempts}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateParams carries a new report definition.
type CreateParams struct {
	TenantID         uuid.UUID
	OrganisationID   uuid.UUID
	Name             string
	Description      string
	SourceDataTypes  []string
	MimeType         string
	BodyTemplate     string
	FilenameTemplate string
	ProductIDs       []uuid.UUID
}

// Create validates the source data type tokens and persists a new aggregate.
func (s *Service) Create(ctx context.Context, params CreateParams) (Definition, error) {
	if _, err := ParseSourceKinds(params.SourceDataTypes); err != nil {
		return Definition{}, err
	}
	now := s.now()
	def := Definition{
		ID:               uuid.New(),
		TenantID:         params.TenantID,
		OrganisationID:   params.OrganisationID,
		Name:             params.Name,
		Description:      params.Description,
		SourceDataTypes:  params.SourceDataTypes,
		MimeType:         params.MimeType,
		BodyTemplate:     params.BodyTemplate,
		FilenameTemplate: params.FilenameTemplate,
		ProductIDs:       params.ProductIDs,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	agg := NewAggregate(def, now)
	if err := s.store.Save(ctx, agg, nil); err != nil {
		return Definition{}, err
	}
	return agg.Definition, nil
}

// List returns the tenant's non-deleted definitions.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]Definition, error) {
	return s.store.ListByTenant(ctx, tenantID, limit, offset)
}

// Get loads one definition. Soft-deleted reports behave as missing.
func (s *Service) Get(ctx context.Context, tenantID, reportID uuid.UUID) (Definition, error) {
	agg, err := s.store.GetByID(ctx, tenantID, reportID)
	if err != nil {
		return Definition{}, err
	}
	if agg.Definition.IsDeleted {
		return Definition{}, ErrReportNotFound
	}
	return agg.Definition, nil
}

// Update applies field changes, raising one event per field that actually
// differs, and saves under the optimistic concurrency retry policy.
func (s *Service) Update(ctx context.Context, tenantID, reportID uuid.UUID, req UpdateRequest) (Definition, error) {
	if req.SourceDataTypes != nil {
		if _, err := ParseSourceKinds(req.SourceDataTypes); err != nil {
			return Definition{}, err
		}
	}
	var updated Definition
	err := retrySave(ctx, s.saveAttempts,
		func(ctx context.Context) (*Aggregate, error) {
			return s.store.GetByID(ctx, tenantID, reportID)
		},
		func(agg *Aggregate) error {
			if agg.Definition.IsDeleted {
				return ErrReportNotFound
			}
			agg.ApplyUpdate(req, s.now())
			updated = agg.Definition
			return nil
		},
		func(ctx context.Context, agg *Aggregate) error {
			return s.store.Save(ctx, agg, nil)
		},
	)
	if err != nil {
		return Definition{}, err
	}
	return updated, nil
}

// Delete soft-deletes the report; the aggregate and its generated files
// remain physically stored.
func (s *Service) Delete(ctx context.Context, tenantID, reportID uuid.UUID) error {
	return retrySave(ctx, s.saveAttempts,
		func(ctx context.Context) (*Aggregate, error) {
			return s.store.GetByID(ctx, tenantID, reportID)
		},
		func(agg *Aggregate) error {
			agg.MarkDeleted(s.now())
			return nil
		},
		func(ctx context.Context, agg *Aggregate) error {
			return s.store.Save(ctx, agg, nil)
		},
	)
}

// Files lists generated file summaries after verifying ownership, serving
// from the cache when available.
func (s *Service) Files(ctx context.Context, tenantID, reportID uuid.UUID, environment string, limit, offset int) ([]FileSummary, error) {
	if _, err := s.store.GetByID(ctx, tenantID, reportID); err != nil {
		return nil, err
	}
	load := func(ctx context.Context) ([]FileSummary, error) {
		return s.store.ListFileSummaries(ctx, reportID, environment, limit, offset)
	}
	if s.cache == nil {
		return load(ctx)
	}
	return s.cache.FileSummaries(ctx, reportID, environment, limit, offset, load)
}

// DownloadFile loads one generated file with content, verifying the stored
// checksum against the bytes read back.
func (s *Service) DownloadFile(ctx context.Context, tenantID, reportID, fileID uuid.UUID) (*GeneratedFile, error) {
	file, err := s.store.GetFile(ctx, tenantID, reportID, fileID)
	if err != nil {
		return nil, err
	}
	if file.Checksum != "" {
		sum := blake2b.Sum256(file.Content)
		if hex.EncodeToString(sum[:]) != file.Checksum {
			return nil, fmt.Errorf("report: file %s checksum mismatch", fileID)
		}
	}
	return file, nil
}
