package report

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Event types appended to the report aggregate's log.
const (
	EventInitialized             = "report.initialized"
	EventNameUpdated             = "report.name_updated"
	EventDescriptionUpdated      = "report.description_updated"
	EventSourceDataTypesUpdated  = "report.source_data_types_updated"
	EventMimeTypeUpdated         = "report.mime_type_updated"
	EventBodyTemplateUpdated     = "report.body_template_updated"
	EventFilenameTemplateUpdated = "report.filename_template_updated"
	EventProductIDsUpdated       = "report.product_ids_updated"
	EventDeleted                 = "report.deleted"
	EventFileGenerated           = "report.file_generated"
)

// Event is one recorded state change of the aggregate.
type Event struct {
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload,omitempty"`
	RecordedAt time.Time      `json:"recordedAt"`
}

// Aggregate is the versioned report entity. Mutations append events; the
// store rejects a save when the persisted version no longer matches Version.
type Aggregate struct {
	Definition Definition

	// Version is the persisted version this aggregate was loaded at.
	// Zero means the aggregate has never been saved.
	Version int64

	unsaved []int
	events  []Event
}

// NewAggregate initialises a fresh, unsaved report aggregate.
func NewAggregate(def Definition, now time.Time) *Aggregate {
	agg := &Aggregate{Definition: def}
	agg.record(Event{
		Type: EventInitialized,
		Payload: map[string]any{
			"tenantId":       def.TenantID.String(),
			"organisationId": def.OrganisationID.String(),
			"name":           def.Name,
		},
		RecordedAt: now,
	})
	return agg
}

// LoadedAggregate wraps a persisted definition at a known version.
func LoadedAggregate(def Definition, version int64) *Aggregate {
	return &Aggregate{Definition: def, Version: version}
}

func (a *Aggregate) record(ev Event) {
	a.unsaved = append(a.unsaved, len(a.events))
	a.events = append(a.events, ev)
}

// UnsavedEvents returns events recorded since the aggregate was loaded.
func (a *Aggregate) UnsavedEvents() []Event {
	out := make([]Event, 0, len(a.unsaved))
	for _, i := range a.unsaved {
		out = append(out, a.events[i])
	}
	return out
}

// MarkSaved flushes the pending event list after a successful save.
func (a *Aggregate) MarkSaved(version int64) {
	a.Version = version
	a.unsaved = nil
}

// UpdateRequest carries optional field changes for the definition.
// Nil pointers leave the corresponding field untouched.
type UpdateRequest struct {
	Name             *string
	Description      *string
	SourceDataTypes  []string
	MimeType         *string
	BodyTemplate     *string
	FilenameTemplate *string
	ProductIDs       []uuid.UUID
}

// ApplyUpdate raises one event per field that actually differs from current
// state, keeping event volume minimal. It returns the number of events raised.
func (a *Aggregate) ApplyUpdate(req UpdateRequest, now time.Time) int {
	raised := 0
	def := &a.Definition

	if req.Name != nil && *req.Name != def.Name {
		def.Name = *req.Name
		a.record(Event{Type: EventNameUpdated, Payload: map[string]any{"name": def.Name}, RecordedAt: now})
		raised++
	}
	if req.Description != nil && *req.Description != def.Description {
		def.Description = *req.Description
		a.record(Event{Type: EventDescriptionUpdated, Payload: map[string]any{"description": def.Description}, RecordedAt: now})
		raised++
	}
	if req.SourceDataTypes != nil && !slices.Equal(req.SourceDataTypes, def.SourceDataTypes) {
		def.SourceDataTypes = slices.Clone(req.SourceDataTypes)
		a.record(Event{Type: EventSourceDataTypesUpdated, Payload: map[string]any{"sourceDataTypes": def.SourceDataTypes}, RecordedAt: now})
		raised++
	}
	if req.MimeType != nil && *req.MimeType != def.MimeType {
		def.MimeType = *req.MimeType
		a.record(Event{Type: EventMimeTypeUpdated, Payload: map[string]any{"mimeType": def.MimeType}, RecordedAt: now})
		raised++
	}
	if req.BodyTemplate != nil && *req.BodyTemplate != def.BodyTemplate {
		def.BodyTemplate = *req.BodyTemplate
		a.record(Event{Type: EventBodyTemplateUpdated, RecordedAt: now})
		raised++
	}
	if req.FilenameTemplate != nil && *req.FilenameTemplate != def.FilenameTemplate {
		def.FilenameTemplate = *req.FilenameTemplate
		a.record(Event{Type: EventFilenameTemplateUpdated, RecordedAt: now})
		raised++
	}
	if req.ProductIDs != nil && !slices.Equal(req.ProductIDs, def.ProductIDs) {
		def.ProductIDs = slices.Clone(req.ProductIDs)
		ids := make([]string, len(def.ProductIDs))
		for i, id := range def.ProductIDs {
			ids[i] = id.String()
		}
		a.record(Event{Type: EventProductIDsUpdated, Payload: map[string]any{"productIds": ids}, RecordedAt: now})
		raised++
	}
	return raised
}

// MarkDeleted soft-deletes the report. Deleting twice is a no-op.
func (a *Aggregate) MarkDeleted(now time.Time) bool {
	if a.Definition.IsDeleted {
		return false
	}
	a.Definition.IsDeleted = true
	a.record(Event{Type: EventDeleted, RecordedAt: now})
	return true
}

// RecordFileGenerated appends a file-generated event referencing the artifact.
func (a *Aggregate) RecordFileGenerated(file *GeneratedFile, now time.Time) {
	a.record(Event{
		Type: EventFileGenerated,
		Payload: map[string]any{
			"fileId":      file.ID.String(),
			"filename":    file.Filename,
			"environment": file.Environment,
			"sizeBytes":   file.SizeBytes,
			"checksum":    file.Checksum,
		},
		RecordedAt: now,
	})
}
