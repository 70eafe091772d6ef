package dataset

import (
	"context"

	"github.com/propline/estatedesk/internal/domain"
	"github.com/propline/estatedesk/internal/metrics"
)

// TransactionsHandler serves the financial transactions dataset.
type TransactionsHandler struct {
	service *Service
}

// NewTransactionsHandler creates the handler.
func NewTransactionsHandler(service *Service) *TransactionsHandler {
	return &TransactionsHandler{service: service}
}

// Load returns the normalized transaction records, or an empty set when
// neither the sheet nor a backup is available.
func (h *TransactionsHandler) Load(ctx context.Context) []domain.Record {
	return h.service.load(ctx, domain.DatasetTransactions)
}

// TransactionSummary holds the transaction statistics shown on
// dashboards.
type TransactionSummary struct {
	Total       int            `json:"total"`
	TotalAmount float64        `json:"total_amount"`
	ByAgent     map[string]int `json:"by_agent"`
}

// Metrics summarizes the transaction history.
func (h *TransactionsHandler) Metrics(ctx context.Context) TransactionSummary {
	records := h.Load(ctx)
	summary := TransactionSummary{
		Total:       metrics.Count(records),
		TotalAmount: metrics.Sum(records, "amount"),
		ByAgent:     metrics.GroupCount(records, "agent"),
	}
	if summary.Total == 0 {
		summary.ByAgent = map[string]int{}
	}
	return summary
}
