package dataset

import (
	"context"

	"github.com/propline/estatedesk/internal/domain"
	"github.com/propline/estatedesk/internal/metrics"
)

// PropertiesHandler serves the property inventory dataset.
type PropertiesHandler struct {
	service *Service
}

// NewPropertiesHandler creates the handler.
func NewPropertiesHandler(service *Service) *PropertiesHandler {
	return &PropertiesHandler{service: service}
}

// Load returns the normalized property records, falling back to the
// local backup when the sheet is unavailable.
func (h *PropertiesHandler) Load(ctx context.Context) []domain.Record {
	return h.service.load(ctx, domain.DatasetProperties)
}

// Replace overwrites the local property backup with an uploaded record
// set. Writing back to the remote sheet is out of scope; the backup is
// what offline callers read.
func (h *PropertiesHandler) Replace(records []domain.Record, actor domain.Identity) {
	h.service.backup.Save(domain.DatasetProperties, records)
	h.service.audit.Append(actor.Username, "replace_properties", "")
}

// Metrics summarizes the current inventory.
func (h *PropertiesHandler) Metrics(ctx context.Context) metrics.InventorySummary {
	return metrics.SummarizeInventory(h.Load(ctx))
}
