package service_test

import (
	"context"
	"testing"
	"time"

	"avyyan/internal/dto"
	"avyyan/internal/model"
	"avyyan/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRoleSvc(users ...*model.User) (service.RoleService, service.PermissionService, *stubRoleRepo) {
	roles := newStubRoleRepo()
	perms := service.NewPermissionService(roles, nil, time.Minute)
	return service.NewRoleService(roles, newStubUserRepo(users...), perms), perms, roles
}

func TestRole_CreateAndList(t *testing.T) {
	svc, _, _ := buildRoleSvc()
	ctx := context.Background()

	resp, err := svc.Create(ctx, dto.CreateRoleRequest{
		Name:        " Dispatch ",
		Permissions: []string{model.PermSalesOrdersRead, model.PermChatUse},
	})
	require.NoError(t, err)
	assert.Equal(t, "dispatch", resp.Name)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(model.DefaultRoles())+1)
}

func TestRole_CreateRejectsUnknownPermission(t *testing.T) {
	svc, _, _ := buildRoleSvc()
	_, err := svc.Create(context.Background(), dto.CreateRoleRequest{
		Name: "dispatch", Permissions: []string{"looms:fly"},
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestRole_CreateDuplicate(t *testing.T) {
	svc, _, _ := buildRoleSvc()
	_, err := svc.Create(context.Background(), dto.CreateRoleRequest{
		Name: "Sales", Permissions: []string{model.PermChatUse},
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestRole_UpdatePermissionsIsVisible(t *testing.T) {
	svc, perms, roles := buildRoleSvc()
	ctx := context.Background()
	sales := roles.byName(model.RoleSales)

	ok, err := perms.HasPermission(ctx, model.RoleSales, model.PermInspectionsRead)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Update(ctx, sales.ID, dto.UpdateRoleRequest{
		Permissions: []string{model.PermSalesOrdersRead, model.PermInspectionsRead},
	})
	require.NoError(t, err)

	ok, err = perms.HasPermission(ctx, model.RoleSales, model.PermInspectionsRead)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRole_AdminKeepsWildcard(t *testing.T) {
	svc, _, roles := buildRoleSvc()
	admin := roles.byName(model.RoleAdmin)

	_, err := svc.Update(context.Background(), admin.ID, dto.UpdateRoleRequest{
		Permissions: []string{model.PermChatUse},
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	err = svc.Delete(context.Background(), admin.ID)
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

func TestRole_DeleteRefusedWhileAssigned(t *testing.T) {
	svc, _, roles := buildRoleSvc(&model.User{Username: "ravi", RoleName: model.RoleSales, Active: true})
	ctx := context.Background()

	err := svc.Delete(ctx, roles.byName(model.RoleSales).ID)
	assert.ErrorIs(t, err, service.ErrConflict)

	require.NoError(t, svc.Delete(ctx, roles.byName(model.RoleInspector).ID))
	assert.Nil(t, roles.byName(model.RoleInspector))
}

func TestPermission_WildcardAndUnknownRole(t *testing.T) {
	_, perms, _ := buildRoleSvc()
	ctx := context.Background()

	ok, err := perms.HasPermission(ctx, model.RoleAdmin, model.PermRolesManage)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = perms.HasPermission(ctx, "weaver", model.PermChatUse)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
