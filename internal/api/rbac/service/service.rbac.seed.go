package rbacsvc

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedData là dữ liệu mặc định đọc từ file yaml
type SeedData struct {
	Permissions []string   `yaml:"permissions"`
	Roles       []SeedRole `yaml:"roles"`
}

// SeedRole là một role mặc định và tên các permission của nó
type SeedRole struct {
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

// SeedReport cho biết số bản ghi đã tạo
type SeedReport struct {
	PermissionsCreated int `json:"permissionsCreated"`
	RolesCreated       int `json:"rolesCreated"`
}

// LoadSeedFile đọc file yaml dữ liệu mặc định
func LoadSeedFile(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &data, nil
}

// Seed tạo các permission và role còn thiếu; bản ghi đã có được giữ nguyên
func (s *Services) Seed(ctx context.Context, data *SeedData) (SeedReport, error) {
	report := SeedReport{}

	for _, name := range data.Permissions {
		existing, err := s.Permissions.FindByName(ctx, name)
		if err != nil {
			return report, err
		}
		if existing != nil {
			continue
		}
		if _, err := s.Permissions.Create(ctx, name); err != nil {
			return report, fmt.Errorf("seed permission %s: %w", name, err)
		}
		report.PermissionsCreated++
	}

	for _, role := range data.Roles {
		existing, err := s.Roles.FindByName(ctx, role.Name)
		if err != nil {
			return report, err
		}
		if existing != nil {
			continue
		}
		if _, err := s.Roles.Create(ctx, role.Name, role.Permissions); err != nil {
			return report, fmt.Errorf("seed role %s: %w", role.Name, err)
		}
		report.RolesCreated++
	}

	return report, nil
}
