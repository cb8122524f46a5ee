package entity

// Role is the authorization tag carried as a token claim.
// It is not enforced anywhere inside the auth core.
type Role string

const (
	RoleCustomer Role = "Customer"
	RoleAdmin    Role = "Admin"
)

// DefaultRole is assigned when a user is created without an explicit role.
const DefaultRole = RoleCustomer

func (r Role) String() string { return string(r) }
