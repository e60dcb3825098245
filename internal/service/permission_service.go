package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"avyyan/internal/model"
	"avyyan/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const permissionCachePrefix = "perms:role:"

// PermissionService resolves the permissions of a role, caching the result
// in Redis. A nil Redis client disables the cache.
type PermissionService interface {
	Permissions(ctx context.Context, role string) ([]string, error)
	HasPermission(ctx context.Context, role, perm string) (bool, error)
	Invalidate(ctx context.Context, role string)
}

type permissionService struct {
	roles repository.RoleRepository
	rdb   redis.Cmdable
	ttl   time.Duration
}

func NewPermissionService(roles repository.RoleRepository, rdb redis.Cmdable, ttl time.Duration) PermissionService {
	return &permissionService{roles: roles, rdb: rdb, ttl: ttl}
}

func cacheKey(role string) string { return permissionCachePrefix + role }

func (s *permissionService) Permissions(ctx context.Context, role string) ([]string, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey(role)).Bytes(); err == nil {
			var perms []string
			if json.Unmarshal(raw, &perms) == nil {
				return perms, nil
			}
		}
	}

	r, err := s.roles.FindByName(ctx, role)
	if err != nil {
		return nil, lookupErr(err, fmt.Sprintf("role %q", role))
	}
	perms := []string(r.Permissions)
	if perms == nil {
		perms = []string{}
	}

	if s.rdb != nil {
		if data, err := json.Marshal(perms); err == nil {
			if err := s.rdb.Set(ctx, cacheKey(role), data, s.ttl).Err(); err != nil {
				log.Warn().Err(err).Str("role", role).Msg("permissions: cache write failed")
			}
		}
	}
	return perms, nil
}

func (s *permissionService) HasPermission(ctx context.Context, role, perm string) (bool, error) {
	perms, err := s.Permissions(ctx, role)
	if err != nil {
		return false, err
	}
	r := model.Role{Permissions: perms}
	return r.Grants(perm), nil
}

func (s *permissionService) Invalidate(ctx context.Context, role string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, cacheKey(role)).Err(); err != nil {
		log.Warn().Err(err).Str("role", role).Msg("permissions: cache invalidation failed")
	}
}
