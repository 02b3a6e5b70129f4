package rbacsvc

import (
	"fmt"

	"rbac_admin/internal/global"
)

// NewMongoRepositories tạo các repository Mongo từ các collection đã đăng ký trong registry
func NewMongoRepositories() (*Repositories, error) {
	names := global.MongoDB_ColNames
	permissions, err := global.RegistryCollections.Lookup(names.Permissions)
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions collection: %w", err)
	}
	roles, err := global.RegistryCollections.Lookup(names.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles collection: %w", err)
	}
	users, err := global.RegistryCollections.Lookup(names.Users)
	if err != nil {
		return nil, fmt.Errorf("failed to get users collection: %w", err)
	}
	counters, err := global.RegistryCollections.Lookup(names.Counters)
	if err != nil {
		return nil, fmt.Errorf("failed to get counters collection: %w", err)
	}

	return &Repositories{
		Permissions: NewMongoPermissionRepository(permissions),
		Roles:       NewMongoRoleRepository(roles),
		Users:       NewMongoUserRepository(users, counters, names.Roles),
	}, nil
}

var (
	_ PermissionRepository = (*MongoPermissionRepository)(nil)
	_ RoleRepository       = (*MongoRoleRepository)(nil)
	_ UserRepository       = (*MongoUserRepository)(nil)
)
