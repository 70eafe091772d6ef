package domain

// Role enumerates the staff roles recognized by the access layer.
type Role string

const (
	RoleOwner       Role = "owner"
	RoleManager     Role = "manager"
	RoleDataAnalyst Role = "data_analyst"
	RoleSales       Role = "sales"
	RoleDataEntry   Role = "data_entry"
)

// UserAccount is a system login backed by the users sheet, with a local
// JSON mirror as fallback. Username is the unique key.
type UserAccount struct {
	Username     string `json:"-"`
	PasswordHash string `json:"password"`
	FullName     string `json:"full_name"`
	Role         Role   `json:"role"`
	Email        string `json:"email"`
	Department   string `json:"department"`
	ID           int    `json:"id"`
}

// Identity is the authenticated caller passed explicitly through the
// data-access layer. There is no ambient session state.
type Identity struct {
	Username   string `json:"username"`
	Role       Role   `json:"role"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	ID         int    `json:"id"`
}
