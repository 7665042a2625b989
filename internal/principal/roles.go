package principal

// Role names. Keep these stable; they are part of the token contract
// and mirror the auth_role enum in postgres.
const (
	RoleCompanyAdmin = "company_admin"
	RoleCompanyUser  = "company_user"
	RoleClientUser   = "client_user"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleCompanyAdmin, RoleCompanyUser, RoleClientUser:
		return true
	default:
		return false
	}
}

func IsCompanyRole(role string) bool {
	return role == RoleCompanyAdmin || role == RoleCompanyUser
}

// KindForRole derives the principal kind a role implies. A role never
// changes kind mid-session, so claims only need to carry the role.
func KindForRole(role string) (Kind, bool) {
	switch {
	case IsCompanyRole(role):
		return KindCompany, true
	case role == RoleClientUser:
		return KindClient, true
	default:
		return "", false
	}
}
