package service

import (
	"context"
	"fmt"
	"strings"

	"avyyan/internal/dto"
	"avyyan/internal/model"
	"avyyan/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type RoleService interface {
	Create(ctx context.Context, req dto.CreateRoleRequest) (*dto.RoleResponse, error)
	List(ctx context.Context) ([]dto.RoleResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateRoleRequest) (*dto.RoleResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type roleService struct {
	roles repository.RoleRepository
	users repository.UserRepository
	perms PermissionService
}

func NewRoleService(roles repository.RoleRepository, users repository.UserRepository, perms PermissionService) RoleService {
	return &roleService{roles: roles, users: users, perms: perms}
}

func (s *roleService) Create(ctx context.Context, req dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	if err := checkPermissions(req.Permissions); err != nil {
		return nil, err
	}
	name := strings.ToLower(strings.TrimSpace(req.Name))
	if _, err := s.roles.FindByName(ctx, name); err == nil {
		return nil, fmt.Errorf("role %q already exists: %w", name, ErrConflict)
	}
	role := &model.Role{
		Name:        name,
		Description: req.Description,
		Permissions: pq.StringArray(req.Permissions),
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, writeErr(err, "role")
	}
	return roleToResponse(role), nil
}

func (s *roleService) List(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RoleResponse, len(roles))
	for i := range roles {
		resp[i] = *roleToResponse(&roles[i])
	}
	return resp, nil
}

func (s *roleService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateRoleRequest) (*dto.RoleResponse, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "role")
	}
	if req.Description != nil {
		role.Description = req.Description
	}
	if req.Permissions != nil {
		if err := checkPermissions(req.Permissions); err != nil {
			return nil, err
		}
		if role.Name == model.RoleAdmin && !contains(req.Permissions, model.PermissionAll) {
			return nil, fmt.Errorf("the admin role must keep %q: %w", model.PermissionAll, ErrInvalidInput)
		}
		role.Permissions = pq.StringArray(req.Permissions)
	}
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}
	s.perms.Invalidate(ctx, role.Name)
	return roleToResponse(role), nil
}

// Delete refuses to remove a role that users still reference.
func (s *roleService) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return lookupErr(err, "role")
	}
	if role.Name == model.RoleAdmin {
		return fmt.Errorf("the admin role cannot be deleted: %w", ErrInvalidState)
	}
	n, err := s.users.CountByRole(ctx, role.Name)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("role %q is assigned to %d user(s): %w", role.Name, n, ErrConflict)
	}
	if err := s.roles.Delete(ctx, id); err != nil {
		return err
	}
	s.perms.Invalidate(ctx, role.Name)
	return nil
}

func checkPermissions(perms []string) error {
	for _, p := range perms {
		if !model.IsKnownPermission(p) {
			return fmt.Errorf("unknown permission %q: %w", p, ErrInvalidInput)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func roleToResponse(r *model.Role) *dto.RoleResponse {
	perms := []string(r.Permissions)
	if perms == nil {
		perms = []string{}
	}
	return &dto.RoleResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		Permissions: perms,
	}
}
