// Package domain defines identity domain models: companies, users, roles and
// the per-user permission grant sets consumed by the access resolver.
package domain

// Role identifies the authorization behavior of a user.
type Role string

const (
	// RoleMasterAdmin is the platform operator role. It sees every company.
	RoleMasterAdmin Role = "master_admin"

	// RoleCompanySuperAdmin administers a single company and sees everything
	// inside it.
	RoleCompanySuperAdmin Role = "company_super_admin"

	// RoleCompanyUser is a restricted user whose visibility is derived from
	// explicit permission grants.
	RoleCompanyUser Role = "company_user"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMasterAdmin, RoleCompanySuperAdmin, RoleCompanyUser:
		return true
	}
	return false
}
