package dataset

import (
	"context"

	"github.com/propline/estatedesk/internal/domain"
)

// ActivityHandler serves the activity-log dataset.
type ActivityHandler struct {
	service *Service
}

// NewActivityHandler creates the handler.
func NewActivityHandler(service *Service) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// Load returns up to limit activity entries. A non-positive limit
// returns everything.
func (h *ActivityHandler) Load(ctx context.Context, limit int) []domain.Record {
	records := h.service.load(ctx, domain.DatasetActivity)
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}
