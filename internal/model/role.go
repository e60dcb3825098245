package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Built-in role names seeded at install time.
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleSales      = "sales"
	RoleProduction = "production"
	RoleInspector  = "inspector"
)

// PermissionAll grants every permission.
const PermissionAll = "*"

// Permission strings are "<resource>:<action>".
const (
	PermSalesOrdersRead   = "sales_orders:read"
	PermSalesOrdersWrite  = "sales_orders:write"
	PermAllotmentsRead    = "allotments:read"
	PermAllotmentsWrite   = "allotments:write"
	PermInspectionsRead   = "inspections:read"
	PermInspectionsWrite  = "inspections:write"
	PermUsersManage       = "users:manage"
	PermRolesManage       = "roles:manage"
	PermChatUse           = "chat:use"
	PermNotificationsRead = "notifications:read"
)

// KnownPermissions lists every permission a role may carry besides the wildcard.
var KnownPermissions = []string{
	PermSalesOrdersRead, PermSalesOrdersWrite,
	PermAllotmentsRead, PermAllotmentsWrite,
	PermInspectionsRead, PermInspectionsWrite,
	PermUsersManage, PermRolesManage,
	PermChatUse, PermNotificationsRead,
}

// IsKnownPermission reports whether perm is the wildcard or one of KnownPermissions.
func IsKnownPermission(perm string) bool {
	if perm == PermissionAll {
		return true
	}
	for _, p := range KnownPermissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Role groups a set of permissions under a name referenced by users.
type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(40);uniqueIndex;not null"`
	Description *string
	Permissions pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Grants reports whether the role carries perm, directly or via the wildcard.
func (r *Role) Grants(perm string) bool {
	for _, p := range r.Permissions {
		if p == PermissionAll || p == perm {
			return true
		}
	}
	return false
}

// DefaultRoles is the permission matrix installed by the seed command.
func DefaultRoles() []Role {
	return []Role{
		{Name: RoleAdmin, Permissions: pq.StringArray{PermissionAll}},
		{Name: RoleManager, Permissions: pq.StringArray{
			PermSalesOrdersRead, PermSalesOrdersWrite, PermAllotmentsRead, PermAllotmentsWrite,
			PermInspectionsRead, PermUsersManage, PermChatUse, PermNotificationsRead,
		}},
		{Name: RoleSales, Permissions: pq.StringArray{
			PermSalesOrdersRead, PermSalesOrdersWrite, PermAllotmentsRead, PermChatUse, PermNotificationsRead,
		}},
		{Name: RoleProduction, Permissions: pq.StringArray{
			PermSalesOrdersRead, PermAllotmentsRead, PermAllotmentsWrite, PermInspectionsRead,
			PermChatUse, PermNotificationsRead,
		}},
		{Name: RoleInspector, Permissions: pq.StringArray{
			PermAllotmentsRead, PermInspectionsRead, PermInspectionsWrite, PermChatUse, PermNotificationsRead,
		}},
	}
}
