package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/propline/estatedesk/internal/domain"
	"github.com/propline/estatedesk/internal/schema"

	"golang.org/x/crypto/bcrypt"
)

// ErrUserExists rejects an Add for a username that is already taken.
var ErrUserExists = errors.New("username already exists")

// ErrMissingUserFields rejects an Add with incomplete required fields.
var ErrMissingUserFields = errors.New("username, full name, email and password are required")

// UsersHandler serves user accounts. The users sheet is the source of
// truth; a local JSON mirror (the credential store) is refreshed on
// every successful sheet read and serves reads when the sheet is
// unavailable. Add and Remove operate on the mirror.
type UsersHandler struct {
	mu      sync.Mutex
	service *Service
	mirror  string
}

// NewUsersHandler creates the handler with its mirror at mirrorPath.
func NewUsersHandler(service *Service, mirrorPath string) *UsersHandler {
	return &UsersHandler{service: service, mirror: mirrorPath}
}

// NewUserRequest carries the fields for a staff account addition.
type NewUserRequest struct {
	Username   string      `json:"username"`
	Password   string      `json:"password"`
	FullName   string      `json:"full_name"`
	Role       domain.Role `json:"role"`
	Email      string      `json:"email"`
	Department string      `json:"department"`
}

// All returns every known account keyed by username. Read path: sheet
// (through the cache) refreshing the mirror, then the mirror, then the
// seeded defaults for a pristine install.
func (h *UsersHandler) All(ctx context.Context) map[string]domain.UserAccount {
	snapshot, err := h.service.source.GetOrFetch(ctx, domain.DatasetUsers)
	if err == nil {
		accounts := accountsFromRecords(schema.Normalize(snapshot, domain.DatasetUsers))
		if len(accounts) > 0 {
			h.saveMirror(accounts)
			return accounts
		}
	}

	if accounts, ok := h.loadMirror(); ok && len(accounts) > 0 {
		return accounts
	}

	accounts := defaultAccounts()
	h.saveMirror(accounts)
	return accounts
}

// Add registers a new account. Required fields must be present and the
// username must be free. The stored password is a bcrypt hash; the new
// id is one past the highest id in use.
func (h *UsersHandler) Add(ctx context.Context, actor domain.Identity, req NewUserRequest) error {
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.FullName) == "" ||
		strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return ErrMissingUserFields
	}

	accounts := h.All(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, taken := accounts[req.Username]; taken {
		return ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	maxID := 0
	for _, account := range accounts {
		if account.ID > maxID {
			maxID = account.ID
		}
	}

	accounts[req.Username] = domain.UserAccount{
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         req.Role,
		Email:        req.Email,
		Department:   req.Department,
		ID:           maxID + 1,
	}

	if err := h.writeMirror(accounts); err != nil {
		return err
	}
	h.service.audit.Append(actor.Username, "add_user", fmt.Sprintf("Added: %s as %s", req.Username, req.Role))
	return nil
}

// Remove deletes an account. Removing the acting user's own account is
// forbidden and leaves the store unchanged.
func (h *UsersHandler) Remove(ctx context.Context, actor domain.Identity, username string) error {
	if username == actor.Username {
		return fmt.Errorf("%w: cannot remove your own account", domain.ErrForbidden)
	}

	accounts := h.All(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := accounts[username]; !ok {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
	}
	delete(accounts, username)

	if err := h.writeMirror(accounts); err != nil {
		return err
	}
	h.service.audit.Append(actor.Username, "remove_user", fmt.Sprintf("Removed: %s", username))
	return nil
}

// Authenticate verifies a username/password pair against the stored
// bcrypt hash. There is deliberately no plaintext comparison fallback
// for malformed hash entries.
func (h *UsersHandler) Authenticate(ctx context.Context, username, password string) (domain.Identity, bool) {
	if username == "" || password == "" {
		return domain.Identity{}, false
	}

	account, ok := h.All(ctx)[username]
	if !ok {
		return domain.Identity{}, false
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return domain.Identity{}, false
	}

	h.service.audit.Append(username, "login", "")
	return domain.Identity{
		Username:   username,
		Role:       account.Role,
		FullName:   account.FullName,
		Email:      account.Email,
		Department: account.Department,
		ID:         account.ID,
	}, true
}

func accountsFromRecords(records []domain.Record) map[string]domain.UserAccount {
	accounts := make(map[string]domain.UserAccount, len(records))
	for _, record := range records {
		username := strings.TrimSpace(record.String("username"))
		if username == "" {
			continue
		}
		id, _ := record.Number("id")
		fullName := record.String("full_name")
		if fullName == "" {
			fullName = username
		}
		department := record.String("department")
		if department == "" {
			department = "General"
		}
		accounts[username] = domain.UserAccount{
			Username:     username,
			PasswordHash: record.String("password"),
			FullName:     fullName,
			Role:         domain.Role(strings.ToLower(record.String("role"))),
			Email:        record.String("email"),
			Department:   department,
			ID:           int(id),
		}
	}
	return accounts
}

func (h *UsersHandler) saveMirror(accounts map[string]domain.UserAccount) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.writeMirror(accounts); err != nil {
		log.Printf("[USERS] mirror save failed: %v", err)
	}
}

// writeMirror persists the credential store; callers hold h.mu.
func (h *UsersHandler) writeMirror(accounts map[string]domain.UserAccount) error {
	payload, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode user store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(h.mirror), 0o755); err != nil {
		return fmt.Errorf("failed to create user store directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(h.mirror), "users-*.json")
	if err != nil {
		return fmt.Errorf("failed to stage user store write: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write user store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush user store: %w", err)
	}
	if err := os.Rename(tmpName, h.mirror); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace user store: %w", err)
	}
	return nil
}

func (h *UsersHandler) loadMirror() (map[string]domain.UserAccount, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	payload, err := os.ReadFile(h.mirror)
	if err != nil {
		return nil, false
	}
	var accounts map[string]domain.UserAccount
	if err := json.Unmarshal(payload, &accounts); err != nil {
		log.Printf("[USERS] mirror unreadable, treating as absent: %v", err)
		return nil, false
	}
	for username, account := range accounts {
		account.Username = username
		accounts[username] = account
	}
	return accounts, true
}

// defaultAccounts seeds a pristine install with one account per role so
// the system is reachable before the users sheet is configured.
func defaultAccounts() map[string]domain.UserAccount {
	seeds := []struct {
		username   string
		password   string
		fullName   string
		role       domain.Role
		email      string
		department string
	}{
		{"admin", "admin123", "System Administrator", domain.RoleOwner, "admin@realestate.com", "Management"},
		{"manager", "manager123", "Operations Manager", domain.RoleManager, "manager@realestate.com", "Management"},
		{"analyst", "analyst123", "Data Analyst", domain.RoleDataAnalyst, "analyst@realestate.com", "Analytics"},
		{"sales1", "sales123", "John Smith", domain.RoleSales, "john.smith@realestate.com", "Sales"},
		{"sales2", "sales123", "Sarah Jones", domain.RoleSales, "sarah.jones@realestate.com", "Sales"},
		{"data_entry", "data123", "Data Specialist", domain.RoleDataEntry, "data@realestate.com", "Operations"},
	}

	accounts := make(map[string]domain.UserAccount, len(seeds))
	for i, seed := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			continue
		}
		accounts[seed.username] = domain.UserAccount{
			Username:     seed.username,
			PasswordHash: string(hash),
			FullName:     seed.fullName,
			Role:         seed.role,
			Email:        seed.email,
			Department:   seed.department,
			ID:           i + 1,
		}
	}
	return accounts
}
