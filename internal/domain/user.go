package domain

// Role is the capability class of a user.
type Role string

const (
	RoleAgency     Role = "Agency"
	RoleStaff      Role = "Staff"
	RoleIndividual Role = "Individual"
	RoleAdmin      Role = "Admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAgency, RoleStaff, RoleIndividual, RoleAdmin:
		return true
	}
	return false
}

// User is a member of the tenancy directory. AgencyID points at the User
// (role Agency) that owns the tenant; it is nil for Agencies themselves,
// for standalone Individuals and for Staff that have not joined yet. Only
// the invitation flow ever sets it.
type User struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Role     Role    `json:"role"`
	AgencyID *string `json:"agencyId,omitempty"`
}
