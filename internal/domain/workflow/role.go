package workflow

// Role identifies an approval actor class. Roles are resolved server-side
// from the authenticated session, never taken from request payloads.
type Role string

const (
	RoleSales       Role = "sales"
	RoleAdmin       Role = "admin"
	RoleManager     Role = "manager"
	RoleOwner       Role = "owner"
	RoleFinance     Role = "finance"
	RoleStorekeeper Role = "storekeeper"
	RoleGuard       Role = "guard"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RoleSales, RoleAdmin, RoleManager, RoleOwner, RoleFinance, RoleStorekeeper, RoleGuard:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Actor is an authenticated identity performing a workflow action
type Actor struct {
	Name string
	Role Role
}
