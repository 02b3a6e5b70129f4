package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"rbac_admin/config"
	"rbac_admin/internal/api/initsvc"
	"rbac_admin/internal/api/rbac/memstore"
	rbacsvc "rbac_admin/internal/api/rbac/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedPath = "../../config/seed.yaml"

// run chạy rbacctl trên một memstore dùng chung giữa các lệnh
func run(t *testing.T, store *memstore.Store, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LOG_OUTPUT", "stdout")

	var out bytes.Buffer
	c := &cli{
		out: &out,
		open: func(ctx context.Context, cfg *config.Configuration, ensureIndexes bool) (*initsvc.Storage, error) {
			return &initsvc.Storage{Repositories: store.Repositories()}, nil
		},
	}
	root := newRootCmd(c)
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSeedThenRoleUsage(t *testing.T) {
	store := memstore.New()

	out, err := run(t, store, "seed", "--file", seedPath, "--out", "json")
	require.NoError(t, err)
	var report rbacsvc.SeedReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 4, report.PermissionsCreated)
	assert.Equal(t, 3, report.RolesCreated)

	// Seed lần hai không tạo gì mới
	out, err = run(t, store, "seed", "--file", seedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "permissions created: 0")

	services := rbacsvc.NewServices(store.Repositories())
	_, err = services.Users.Create(context.Background(), rbacsvc.UserSpec{
		Name:      "Bo",
		Email:     "bo@example.com",
		Birthdate: time.Date(1985, 5, 5, 0, 0, 0, 0, time.UTC),
		RoleName:  "EDITOR",
	})
	require.NoError(t, err)

	out, err = run(t, store, "role-usage", "--out", "json")
	require.NoError(t, err)
	var usage []roleUsage
	require.NoError(t, json.Unmarshal([]byte(out), &usage))
	counts := map[string]int64{}
	for _, u := range usage {
		counts[u.RoleName] = u.Count
	}
	assert.Equal(t, map[string]int64{"ADMIN": 0, "EDITOR": 1, "VIEWER": 0}, counts)

	out, err = run(t, store, "role-usage", "editor")
	require.NoError(t, err)
	assert.Contains(t, out, "ROLE")
	assert.Contains(t, out, "editor")
}

func TestSyncUsercode(t *testing.T) {
	store := memstore.New()
	out, err := run(t, store, "sync-usercode", "--out", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"seq":0}`, out)
}

func TestEnsureIndexesRequiresMongo(t *testing.T) {
	_, err := run(t, memstore.New(), "ensure-indexes")
	assert.ErrorContains(t, err, "STORAGE_DRIVER=mongo")
}

func TestInvalidOutFormat(t *testing.T) {
	_, err := run(t, memstore.New(), "sync-usercode", "--out", "xml")
	assert.Error(t, err)
}
