// Package httpapi exposes the data-access layer to presentation
// clients as a JSON API. It holds no business rules of its own.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/propline/estatedesk/internal/auth"
	"github.com/propline/estatedesk/internal/dataset"
	"github.com/propline/estatedesk/internal/domain"
	"github.com/propline/estatedesk/internal/export"
	"github.com/propline/estatedesk/internal/importer"
	"github.com/propline/estatedesk/internal/registry"
)

// SnapshotCache is the fetch layer: it yields remote snapshots and
// drops its memoized entries after configuration changes.
type SnapshotCache interface {
	GetOrFetch(ctx context.Context, dt domain.DatasetType) (domain.TableSnapshot, error)
	InvalidateAll()
}

// Handler carries the wired dataset handlers and registry.
type Handler struct {
	registry     *registry.Registry
	cache        SnapshotCache
	properties   *dataset.PropertiesHandler
	clients      *dataset.ClientsHandler
	users        *dataset.UsersHandler
	activity     *dataset.ActivityHandler
	transactions *dataset.TransactionsHandler
}

// New creates the API handler.
func New(
	reg *registry.Registry,
	cache SnapshotCache,
	properties *dataset.PropertiesHandler,
	clients *dataset.ClientsHandler,
	users *dataset.UsersHandler,
	activity *dataset.ActivityHandler,
	transactions *dataset.TransactionsHandler,
) *Handler {
	return &Handler{
		registry:     reg,
		cache:        cache,
		properties:   properties,
		clients:      clients,
		users:        users,
		activity:     activity,
		transactions: transactions,
	}
}

// Routes builds the route table. Every route except /api/login requires
// basic-auth credentials resolved against the user store.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", h.handleLogin)

	mux.Handle("GET /api/registry", h.requireAuth(h.handleRegistryGet))
	mux.Handle("PUT /api/registry", h.requireAuth(h.handleRegistryPut))
	mux.Handle("GET /api/registry/status", h.requireAuth(h.handleRegistryStatus))

	mux.Handle("GET /api/properties", h.requireAuth(h.handleProperties))
	mux.Handle("GET /api/properties/metrics", h.requireAuth(h.handlePropertyMetrics))

	mux.Handle("GET /api/clients", h.requireAuth(h.handleClients))
	mux.Handle("POST /api/clients", h.requireAuth(h.handleClientAdd))
	mux.Handle("GET /api/clients/metrics", h.requireAuth(h.handleClientMetrics))

	mux.Handle("GET /api/users", h.requireAuth(h.handleUsers))
	mux.Handle("POST /api/users", h.requireAuth(h.handleUserAdd))
	mux.Handle("DELETE /api/users/{username}", h.requireAuth(h.handleUserRemove))

	mux.Handle("GET /api/activity", h.requireAuth(h.handleActivity))

	mux.Handle("GET /api/transactions", h.requireAuth(h.handleTransactions))
	mux.Handle("GET /api/transactions/metrics", h.requireAuth(h.handleTransactionMetrics))

	mux.Handle("POST /api/import/{dataset}", h.requireAuth(h.handleImport))
	mux.Handle("GET /api/export/{dataset}", h.requireAuth(h.handleExport))

	return mux
}

// requireAuth resolves basic-auth credentials to an identity and stores
// it on the request context.
func (h *Handler) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="estatedesk"`)
			http.Error(w, "credentials required", http.StatusUnauthorized)
			return
		}
		identity, ok := h.users.Authenticate(r.Context(), username, password)
		if !ok {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), identity)))
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	identity, ok := h.users.Authenticate(r.Context(), body.Username, body.Password)
	if !ok {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

func (h *Handler) handleRegistryGet(w http.ResponseWriter, r *http.Request) {
	descriptors, err := h.registry.All()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sheets": descriptors})
}

func (h *Handler) handleRegistryPut(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	if identity.Role != domain.RoleOwner && identity.Role != domain.RoleManager {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var body struct {
		Sheets []domain.SourceDescriptor `json:"sheets"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	for i := range body.Sheets {
		if body.Sheets[i].ConfiguredAt.IsZero() {
			body.Sheets[i].ConfiguredAt = time.Now()
		}
	}

	if err := h.registry.PutAll(body.Sheets); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Cached snapshots may reference superseded locations.
	h.cache.InvalidateAll()
	writeJSON(w, http.StatusOK, map[string]any{"saved": len(body.Sheets)})
}

// ConnectionStatus reports one dataset's reachability.
type ConnectionStatus struct {
	Type       domain.DatasetType `json:"type"`
	Configured bool               `json:"configured"`
	Connected  bool               `json:"connected"`
	Records    int                `json:"records"`
	Error      string             `json:"error,omitempty"`
}

func (h *Handler) handleRegistryStatus(w http.ResponseWriter, r *http.Request) {
	statuses := make([]ConnectionStatus, 0, len(domain.AllDatasetTypes()))
	for _, dt := range domain.AllDatasetTypes() {
		status := ConnectionStatus{Type: dt}
		_, configured, err := h.registry.Get(dt)
		if err != nil {
			status.Error = err.Error()
			statuses = append(statuses, status)
			continue
		}
		status.Configured = configured
		if configured {
			// Probe the fetch path itself. The backup fallback must not
			// make a dead remote look reachable.
			snapshot, err := h.cache.GetOrFetch(r.Context(), dt)
			if err != nil {
				status.Error = err.Error()
			} else {
				status.Connected = true
				status.Records = len(snapshot.Rows)
			}
		}
		statuses = append(statuses, status)
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (h *Handler) handleProperties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, recordsPayload(h.properties.Load(r.Context())))
}

func (h *Handler) handlePropertyMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.properties.Metrics(r.Context()))
}

func (h *Handler) handleClients(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	payload := recordsPayload(h.clients.Load(r.Context(), identity))
	// The intake vocabulary rides along so clients can offer it when
	// capturing a new lead.
	payload["lead_sources"] = dataset.LeadSources
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleClientAdd(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var record domain.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	id, err := h.clients.Add(r.Context(), identity, record)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"client_id": id})
}

func (h *Handler) handleClientMetrics(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.clients.Metrics(r.Context(), identity))
}

// userView is a UserAccount without the password hash.
type userView struct {
	Username   string      `json:"username"`
	FullName   string      `json:"full_name"`
	Role       domain.Role `json:"role"`
	Email      string      `json:"email"`
	Department string      `json:"department"`
	ID         int         `json:"id"`
}

func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	accounts := h.users.All(r.Context())
	views := make([]userView, 0, len(accounts))
	for username, account := range accounts {
		views = append(views, userView{
			Username:   username,
			FullName:   account.FullName,
			Role:       account.Role,
			Email:      account.Email,
			Department: account.Department,
			ID:         account.ID,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) handleUserAdd(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	if identity.Role != domain.RoleOwner && identity.Role != domain.RoleManager {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req dataset.NewUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if err := h.users.Add(r.Context(), identity, req); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, dataset.ErrUserExists) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"username": req.Username})
}

func (h *Handler) handleUserRemove(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	if identity.Role != domain.RoleOwner && identity.Role != domain.RoleManager {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	username := r.PathValue("username")
	if err := h.users.Remove(r.Context(), identity, username); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"removed": username})
}

func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	writeJSON(w, http.StatusOK, recordsPayload(h.activity.Load(r.Context(), limit)))
}

func (h *Handler) handleTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, recordsPayload(h.transactions.Load(r.Context())))
}

func (h *Handler) handleTransactionMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.transactions.Metrics(r.Context()))
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	if identity.Role == domain.RoleSales {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	dt, err := domain.ParseDatasetType(r.PathValue("dataset"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dt != domain.DatasetProperties {
		http.Error(w, "only property imports are supported", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	summary, err := importer.Import(header.Filename, payload, dt)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.properties.Replace(summary.Records, identity)
	writeJSON(w, http.StatusOK, map[string]any{
		"imported": summary.TotalRows,
		"columns":  summary.Columns,
	})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	dt, err := domain.ParseDatasetType(r.PathValue("dataset"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records := h.recordsFor(r, dt)
	payload, err := export.Workbook(records, dt)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	name := export.FileName(dt, time.Now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// recordsFor routes a dataset type to its handler so the access rules
// stay attached.
func (h *Handler) recordsFor(r *http.Request, dt domain.DatasetType) []domain.Record {
	ctx := r.Context()
	switch dt {
	case domain.DatasetProperties:
		return h.properties.Load(ctx)
	case domain.DatasetClients:
		identity, _ := auth.IdentityFromContext(ctx)
		return h.clients.Load(ctx, identity)
	case domain.DatasetActivity:
		return h.activity.Load(ctx, 0)
	case domain.DatasetTransactions:
		return h.transactions.Load(ctx)
	case domain.DatasetUsers:
		accounts := h.users.All(ctx)
		records := make([]domain.Record, 0, len(accounts))
		for username, account := range accounts {
			records = append(records, domain.Record{
				"username":   username,
				"full_name":  account.FullName,
				"role":       string(account.Role),
				"email":      account.Email,
				"department": account.Department,
				"id":         float64(account.ID),
			})
		}
		return records
	}
	return nil
}

func recordsPayload(records []domain.Record) map[string]any {
	if records == nil {
		records = []domain.Record{}
	}
	return map[string]any{"records": records, "count": len(records)}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
