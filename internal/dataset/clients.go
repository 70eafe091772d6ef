package dataset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/propline/estatedesk/internal/access"
	"github.com/propline/estatedesk/internal/domain"
	"github.com/propline/estatedesk/internal/metrics"
)

// ErrNameRequired rejects client additions without a name.
var ErrNameRequired = errors.New("client name is required")

// LeadSources is the fixed vocabulary offered for new leads.
var LeadSources = []string{"Website", "Referral", "Walk-in", "Social Media", "Advertisement", "Direct"}

const initialStage = "Lead"

// ClientsHandler serves the leads dataset with role-based row
// filtering.
type ClientsHandler struct {
	service *Service
	now     func() time.Time
}

// NewClientsHandler creates the handler.
func NewClientsHandler(service *Service) *ClientsHandler {
	return &ClientsHandler{service: service, now: time.Now}
}

// Load returns the client records visible to the acting identity. The
// access filter is applied on every entry point, including the backup
// fallback path.
func (h *ClientsHandler) Load(ctx context.Context, actor domain.Identity) []domain.Record {
	records := h.service.load(ctx, domain.DatasetClients)
	return access.FilterClients(records, actor.Role, actor.Username)
}

// Add appends a new client and returns the assigned client id. The id
// is the current record count plus one. Sales callers who leave
// assigned_to blank get the record assigned to themselves.
func (h *ClientsHandler) Add(ctx context.Context, actor domain.Identity, client domain.Record) (int, error) {
	if strings.TrimSpace(client.String("name")) == "" {
		return 0, ErrNameRequired
	}

	// Assignment and the id are computed over the full record set, not
	// the actor's filtered view.
	existing := h.service.load(ctx, domain.DatasetClients)

	record := client.Clone()
	if record.String("assigned_to") == "" && actor.Role == domain.RoleSales {
		record["assigned_to"] = actor.Username
	}

	assignedID := len(existing) + 1
	now := h.now().Format(time.RFC3339)
	record["client_id"] = float64(assignedID)
	record["created_at"] = now
	record["last_contact"] = now
	record["conversion_stage"] = initialStage

	updated := append(domain.CloneRecords(existing), record)
	h.service.backup.Save(domain.DatasetClients, updated)

	value, _ := record.Number("value")
	h.service.audit.Append(actor.Username, "add_client",
		fmt.Sprintf("Client: %s, Value: %g", record.String("name"), value))

	return assignedID, nil
}

// Metrics summarizes the clients visible to the acting identity.
func (h *ClientsHandler) Metrics(ctx context.Context, actor domain.Identity) metrics.ClientSummary {
	return metrics.SummarizeClients(h.Load(ctx, actor))
}
