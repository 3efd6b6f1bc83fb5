package report

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/coverdesk/coverdesk/internal/records"
)

// DefaultSaveAttempts bounds the optimistic concurrency retry loop.
const DefaultSaveAttempts = 5

// RecordSource is the read-only query surface the coordinator retrieves
// source data from.
type RecordSource interface {
	PolicyTransactions(ctx context.Context, f records.Filter, transactionTypes []string) ([]records.PolicyTransactionRecord, error)
	QuoteData(ctx context.Context, f records.Filter) ([]records.QuoteRecord, error)
	ClaimsData(ctx context.Context, f records.Filter) ([]records.ClaimRecord, error)
	SystemEmails(ctx context.Context, f records.Filter) ([]records.EmailRecord, error)
	ProductEmails(ctx context.Context, f records.Filter) ([]records.EmailRecord, error)
}

// AggregateStore persists report aggregates with optimistic concurrency.
// Save rejects with ErrVersionConflict when a concurrent writer advanced the
// version; when file is non-nil its bytes are stored in the same transaction
// so a rejected save never leaves a partial artifact.
type AggregateStore interface {
	GetByID(ctx context.Context, tenantID, reportID uuid.UUID) (*Aggregate, error)
	Save(ctx context.Context, agg *Aggregate, file *GeneratedFile) error
	IsDefaultOrganisation(ctx context.Context, tenantID, organisationID uuid.UUID) (bool, error)
}

// GenerateParams carries one generation request.
type GenerateParams struct {
	TenantID        uuid.UUID
	TenantAlias     string
	ReportID        uuid.UUID
	Environment     string
	From            time.Time
	To              time.Time
	TimeZone        string
	IncludeTestData bool
}

// Coordinator orchestrates retrieval, projection, aggregation, rendering,
// and artifact persistence for one generation request.
type Coordinator struct {
	store        AggregateStore
	source       RecordSource
	renderer     *Renderer
	logger       *slog.Logger
	now          func() time.Time
	saveAttempts int
	timeZone     string
}

// NewCoordinator constructs a Coordinator.
func NewCoordinator(store AggregateStore, source RecordSource, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		store:        store,
		source:       source,
		renderer:     NewRenderer(),
		logger:       logger,
		now:          time.Now,
		saveAttempts: DefaultSaveAttempts,
		timeZone:     DefaultTimeZone,
	}
}

// WithNow overrides the clock for deterministic tests.
func (c *Coordinator) WithNow(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// WithSaveAttempts overrides the concurrency retry budget.
func (c *Coordinator) WithSaveAttempts(attempts int) {
	if attempts > 0 {
		c.saveAttempts = attempts
	}
}

// WithTimeZone sets the display timezone used when a generation request
// carries none.
func (c *Coordinator) WithTimeZone(timeZone string) {
	if timeZone != "" {
		c.timeZone = timeZone
	}
}

// GenerateReportFile runs the full generation workflow. Its only side effect
// is one new persisted GeneratedFile; every failure leaves no artifact.
func (c *Coordinator) GenerateReportFile(ctx context.Context, params GenerateParams) error {
	agg, err := c.store.GetByID(ctx, params.TenantID, params.ReportID)
	if err != nil {
		return err
	}
	def := agg.Definition
	if def.TenantID != params.TenantID {
		return ErrTenantMismatch
	}

	// Fail fast on unparseable tokens before any data retrieval.
	kinds, err := ParseSourceKinds(def.SourceDataTypes)
	if err != nil {
		return err
	}

	filter, err := c.buildFilter(ctx, def, params)
	if err != nil {
		return err
	}

	timeZone := params.TimeZone
	if timeZone == "" {
		timeZone = c.timeZone
	}
	projector := NewProjector(timeZone)
	transactions, quotes, claims, emails, err := c.retrieve(ctx, projector, filter, kinds)
	if err != nil {
		return err
	}

	model, err := buildDataGraph(transactions, quotes, claims, emails)
	if err != nil {
		return err
	}

	generatedAt := c.now().In(projector.Location())
	filename, err := c.renderFilename(def, params, projector, generatedAt)
	if err != nil {
		return err
	}
	body, err := c.renderer.Render(def.BodyTemplate, model)
	if err != nil {
		return err
	}

	// UTF-8, no BOM.
	content := []byte(body)
	sum := blake2b.Sum256(content)
	file := &GeneratedFile{
		ID:          uuid.New(),
		ReportID:    def.ID,
		Environment: params.Environment,
		Filename:    filename,
		Content:     content,
		MimeType:    def.MimeType,
		SizeBytes:   int64(len(content)),
		Checksum:    hex.EncodeToString(sum[:]),
		CreatedAt:   generatedAt,
	}

	// Only the final load-mutate-save participates in the retry loop; two
	// concurrent generations both succeed with independent artifacts.
	err = retrySave(ctx, c.saveAttempts,
		func(ctx context.Context) (*Aggregate, error) {
			return c.store.GetByID(ctx, params.TenantID, params.ReportID)
		},
		func(fresh *Aggregate) error {
			fresh.RecordFileGenerated(file, generatedAt)
			return nil
		},
		func(ctx context.Context, fresh *Aggregate) error {
			return c.store.Save(ctx, fresh, file)
		},
	)
	if err != nil {
		return err
	}

	if c.logger != nil {
		c.logger.Info("report file generated",
			slog.String("report_id", def.ID.String()),
			slog.String("file_id", file.ID.String()),
			slog.String("filename", file.Filename),
			slog.Int64("size_bytes", file.SizeBytes),
		)
	}
	return nil
}

func (c *Coordinator) buildFilter(ctx context.Context, def Definition, params GenerateParams) (records.Filter, error) {
	filter := records.Filter{
		TenantID:        params.TenantID,
		ProductIDs:      def.ProductIDs,
		Environment:     params.Environment,
		From:            params.From,
		To:              params.To,
		IncludeTestData: params.IncludeTestData,
	}
	isDefault, err := c.store.IsDefaultOrganisation(ctx, def.TenantID, def.OrganisationID)
	if err != nil {
		return records.Filter{}, fmt.Errorf("report: resolve organisation: %w", err)
	}
	if !isDefault {
		org := def.OrganisationID
		filter.OrganisationID = &org
	}
	return filter, nil
}

// retrieve issues one filtered query per requested record category. The
// categories are independent until assembled, so they run concurrently.
func (c *Coordinator) retrieve(ctx context.Context, projector *Projector, filter records.Filter, kinds []SourceKind) (
	[]PolicyTransactionRow, []QuoteRow, []ClaimRow, []EmailRow, error,
) {
	var transactionTypes []string
	var wantQuotes, wantClaims, wantSystemEmails, wantProductEmails bool
	for _, kind := range kinds {
		switch {
		case kind.IsPolicyTransaction():
			transactionTypes = append(transactionTypes, string(kind))
		case kind == SourceQuote:
			wantQuotes = true
		case kind == SourceClaim:
			wantClaims = true
		case kind == SourceSystemEmail:
			wantSystemEmails = true
		case kind == SourceProductEmail:
			wantProductEmails = true
		}
	}

	var (
		transactions  []PolicyTransactionRow
		quotes        []QuoteRow
		claims        []ClaimRow
		systemEmails  []EmailRow
		productEmails []EmailRow
	)

	g, ctx := errgroup.WithContext(ctx)
	if len(transactionTypes) > 0 {
		g.Go(func() error {
			recs, err := c.source.PolicyTransactions(ctx, filter, transactionTypes)
			if err != nil {
				return err
			}
			transactions = make([]PolicyTransactionRow, 0, len(recs))
			for _, rec := range recs {
				transactions = append(transactions, projector.ProjectPolicyTransaction(rec))
			}
			return nil
		})
	}
	if wantQuotes {
		g.Go(func() error {
			recs, err := c.source.QuoteData(ctx, filter)
			if err != nil {
				return err
			}
			quotes = make([]QuoteRow, 0, len(recs))
			for _, rec := range recs {
				quotes = append(quotes, projector.ProjectQuote(rec))
			}
			return nil
		})
	}
	if wantClaims {
		g.Go(func() error {
			recs, err := c.source.ClaimsData(ctx, filter)
			if err != nil {
				return err
			}
			claims = make([]ClaimRow, 0, len(recs))
			for _, rec := range recs {
				claims = append(claims, projector.ProjectClaim(rec))
			}
			return nil
		})
	}
	if wantSystemEmails {
		g.Go(func() error {
			recs, err := c.source.SystemEmails(ctx, filter)
			if err != nil {
				return err
			}
			systemEmails = make([]EmailRow, 0, len(recs))
			for _, rec := range recs {
				systemEmails = append(systemEmails, projector.ProjectEmail(rec))
			}
			return nil
		})
	}
	if wantProductEmails {
		g.Go(func() error {
			recs, err := c.source.ProductEmails(ctx, filter)
			if err != nil {
				return err
			}
			productEmails = make([]EmailRow, 0, len(recs))
			for _, rec := range recs {
				productEmails = append(productEmails, projector.ProjectEmail(rec))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, nil, err
	}
	return transactions, quotes, claims, append(systemEmails, productEmails...), nil
}

func (c *Coordinator) renderFilename(def Definition, params GenerateParams, projector *Projector, generatedAt time.Time) (string, error) {
	model := map[string]any{
		"Name":          def.Name,
		"Description":   def.Description,
		"MimeType":      def.MimeType,
		"FromDate":      params.From.In(projector.Location()).Format(displayDateFormat),
		"ToDate":        params.To.In(projector.Location()).Format(displayDateFormat),
		"GeneratedDate": generatedAt.Format(displayDateFormat),
	}
	filename, err := c.renderer.Render(def.FilenameTemplate, model)
	if err != nil {
		return "", err
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = def.Name
	}
	if filepath.Ext(filename) == "" {
		if exts, _ := mime.ExtensionsByType(def.MimeType); len(exts) > 0 {
			filename += exts[0]
		}
	}
	return filename, nil
}

// retrySave is the optimistic concurrency retry combinator: reload a fresh
// aggregate, reapply the mutation, and save, until the save sticks or the
// attempt budget runs out.
func retrySave(
	ctx context.Context,
	attempts int,
	load func(context.Context) (*Aggregate, error),
	mutate func(*Aggregate) error,
	save func(context.Context, *Aggregate) error,
) error {
	for attempt := 0; attempt < attempts; attempt++ {
		agg, err := load(ctx)
		if err != nil {
			return err
		}
		if err := mutate(agg); err != nil {
			return err
		}
		err = save(ctx, agg)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return err
		}
	}
	return ErrStaleAggregate
}
