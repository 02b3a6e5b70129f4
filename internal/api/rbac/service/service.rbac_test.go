package rbacsvc_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"rbac_admin/internal/api/events"
	"rbac_admin/internal/api/rbac/memstore"
	rbacsvc "rbac_admin/internal/api/rbac/service"
	"rbac_admin/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServices(t *testing.T) *rbacsvc.Services {
	t.Helper()
	return rbacsvc.NewServices(memstore.New().Repositories())
}

func requireConflict(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, rbacsvc.IsConflict(err), "expected conflict, got %v", err)
	var appErr *common.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.ErrCodeBusinessState.Code, appErr.Code.Code)
	assert.Equal(t, message, appErr.Message)
}

func seedBasics(t *testing.T, svc *rbacsvc.Services) {
	t.Helper()
	ctx := context.Background()
	for _, name := range []string{"READ", "WRITE"} {
		_, err := svc.Permissions.Create(ctx, name)
		require.NoError(t, err)
	}
	_, err := svc.Roles.Create(ctx, "VIEWER", []string{"READ"})
	require.NoError(t, err)
}

func birthdate() time.Time {
	return time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
}

func TestPermission_CreateIsCaseInsensitiveUnique(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()

	created, err := svc.Permissions.Create(ctx, "  read ")
	require.NoError(t, err)
	assert.Equal(t, "READ", created.Name)

	_, err = svc.Permissions.Create(ctx, "Read")
	requireConflict(t, err, "Permission already exists")
}

func TestPermission_UpdateRenamesOrCreates(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	seedBasics(t, svc)

	renamed, err := svc.Permissions.Update(ctx, "read", "view")
	require.NoError(t, err)
	assert.Equal(t, "VIEW", renamed.Name)

	// Role vẫn tham chiếu cùng ID nên thấy tên mới
	role, err := svc.Roles.List(ctx, "viewer")
	require.NoError(t, err)
	require.Len(t, role, 1)
	assert.Equal(t, []string{"VIEW"}, role[0].PermissionNames())

	_, err = svc.Permissions.Update(ctx, "view", "write")
	requireConflict(t, err, "Permission WRITE already exists")

	// Tên gốc chưa tồn tại: tạo mới theo tên gốc
	created, err := svc.Permissions.Update(ctx, "export", "ignored")
	require.NoError(t, err)
	assert.Equal(t, "EXPORT", created.Name)
}

func TestPermission_DeleteBlockedWhileReferenced(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	seedBasics(t, svc)

	requireConflict(t, svc.Permissions.Delete(ctx, "read"), "Permission READ is used by 1 role(s)")
	requireConflict(t, svc.Permissions.Delete(ctx, "missing"), "Permission not exists")

	require.NoError(t, svc.Permissions.Delete(ctx, "write"))
	found, err := svc.Permissions.FindByName(ctx, "WRITE")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestPermission_ListFilterTreatsInputLiterally(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	for _, name := range []string{"USER.READ", "USERXREAD", "AUDIT"} {
		_, err := svc.Permissions.Create(ctx, name)
		require.NoError(t, err)
	}

	all, err := svc.Permissions.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "AUDIT", all[0].Name)

	dotted, err := svc.Permissions.List(ctx, "r.r")
	require.NoError(t, err)
	require.Len(t, dotted, 1)
	assert.Equal(t, "USER.READ", dotted[0].Name)
}

func TestRole_CreateFailsFastOnUnknownPermission(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	seedBasics(t, svc)

	_, err := svc.Roles.Create(ctx, "EDITOR", []string{"READ", "NOPE", "ALSO_NOPE"})
	requireConflict(t, err, "Permission NOPE not exists")

	role, err := svc.Roles.FindByName(ctx, "editor")
	require.NoError(t, err)
	assert.Nil(t, role, "role must not be created when a permission is missing")

	_, err = svc.Roles.Create(ctx, "viewer", nil)
	requireConflict(t, err, "Role already exists")
}

func TestRole_CreateDeduplicatesPermissions(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	seedBasics(t, svc)

	view, err := svc.Roles.Create(ctx, "EDITOR", []string{"read", "WRITE", "Read"})
	require.NoError(t, err)
	assert.Equal(t, []string{"READ", "WRITE"}, view.PermissionNames())
}

func TestRole_AddRemovePermissionGuards(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	seedBasics(t, svc)

	view, err := svc.Roles.AddPermission(ctx, "viewer", "write")
	require.NoError(t, err)
	assert.Equal(t, []string{"READ", "WRITE"}, view.PermissionNames())

	_, err = svc.Roles.AddPermission(ctx, "viewer", "write")
	requireConflict(t, err, "Permission already exists on this role")

	_, err = svc.Roles.AddPermission(ctx, "ghost", "write")
	requireConflict(t, err, "Role not exists")

	_, err = svc.Roles.AddPermission(ctx, "viewer", "ghost")
	requireConflict(t, err, "Permission not exists")

	view, err = svc.Roles.RemovePermission(ctx, "viewer", "read")
	require.NoError(t, err)
	assert.Equal(t, []string{"WRITE"}, view.PermissionNames())

	_, err = svc.Roles.RemovePermission(ctx, "viewer", "read")
	requireConflict(t, err, "Permission not exists on this role")
}

func TestRole_UpdateReplacesOrCreates(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	seedBasics(t, svc)
	_, err := svc.Roles.Create(ctx, "EDITOR", nil)
	require.NoError(t, err)

	view, err := svc.Roles.Update(ctx, "viewer", "reader", []string{"write"})
	require.NoError(t, err)
	assert.Equal(t, "READER", view.Name)
	assert.Equal(t, []string{"WRITE"}, view.PermissionNames())

	_, err = svc.Roles.Update(ctx, "reader", "editor", nil)
	requireConflict(t, err, "Role EDITOR already exists")

	created, err := svc.Roles.Update(ctx, "auditor", "auditor", []string{"read"})
	require.NoError(t, err)
	assert.Equal(t, "AUDITOR", created.Name)
}

func TestRole_DeleteBlockedWhileAssigned(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	seedBasics(t, svc)

	_, err := svc.Users.Create(ctx, rbacsvc.UserSpec{Name: "An", Email: "an@example.com", Birthdate: birthdate(), RoleName: "viewer"})
	require.NoError(t, err)

	requireConflict(t, svc.Roles.Delete(ctx, "viewer"), "Role VIEWER is assigned to 1 user(s)")
	requireConflict(t, svc.Roles.Delete(ctx, "ghost"), "Role not exists")

	_, err = svc.Users.RemoveRole(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Roles.Delete(ctx, "viewer"))
}

func TestUser_CreateResolvesAndHydratesRole(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	seedBasics(t, svc)

	user, err := svc.Users.Create(ctx, rbacsvc.UserSpec{Name: "An", Email: " An@Example.com ", Birthdate: birthdate(), RoleName: "viewer"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.Usercode)
	assert.Equal(t, "an@example.com", user.Email)
	assert.False(t, user.Deleted)
	require.NotNil(t, user.Role)
	assert.Equal(t, "VIEWER", user.Role.Name)
	assert.Equal(t, []string{"READ"}, user.Role.PermissionNames())

	_, err = svc.Users.Create(ctx, rbacsvc.UserSpec{Name: "Dup", Email: "AN@example.com", Birthdate: birthdate()})
	requireConflict(t, err, "User with email: an@example.com. Already exists")

	_, err = svc.Users.Create(ctx, rbacsvc.UserSpec{Name: "Bao", Email: "bao@example.com", Birthdate: birthdate(), RoleName: "admin"})
	requireConflict(t, err, "Role: ADMIN not allowed")

	noRole, err := svc.Users.Create(ctx, rbacsvc.UserSpec{Name: "Bao", Email: "bao@example.com", Birthdate: birthdate()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), noRole.Usercode)
	assert.Nil(t, noRole.Role)
}

func TestUser_UsercodesStrictlyIncreaseUnderConcurrency(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()

	const n = 20
	codes := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := svc.Users.Create(ctx, rbacsvc.UserSpec{
				Name:      "user",
				Email:     string(rune('a'+i)) + "@example.com",
				Birthdate: birthdate(),
			})
			if assert.NoError(t, err) {
				codes <- user.Usercode
			}
		}(i)
	}
	wg.Wait()
	close(codes)

	seen := map[int64]bool{}
	for code := range codes {
		assert.False(t, seen[code], "duplicate usercode %d", code)
		seen[code] = true
	}
	assert.Len(t, seen, n)
	for i := int64(1); i <= n; i++ {
		assert.True(t, seen[i], "missing usercode %d", i)
	}
}

func TestUser_RoleCardinality(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	seedBasics(t, svc)
	_, err := svc.Users.Create(ctx, rbacsvc.UserSpec{Name: "An", Email: "an@example.com", Birthdate: birthdate()})
	require.NoError(t, err)

	_, err = svc.Users.RemoveRole(ctx, 1)
	requireConflict(t, err, "User with usercode: 1. Has no role assigned")

	_, err = svc.Users.AddRole(ctx, 1, "admin")
	requireConflict(t, err, "Role ADMIN is not available")

	user, err := svc.Users.AddRole(ctx, 1, "viewer")
	require.NoError(t, err)
	require.NotNil(t, user.Role)
	assert.Equal(t, "VIEWER", user.Role.Name)

	_, err = svc.Users.AddRole(ctx, 1, "viewer")
	requireConflict(t, err, "User with usercode: 1 already have a role")

	_, err = svc.Users.AddRole(ctx, 42, "viewer")
	requireConflict(t, err, "User with usercode 42 not exists")

	count, err := svc.Users.CountUsersWithRole(ctx, "Viewer")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUser_SoftDeleteStateMachine(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	_, err := svc.Users.Create(ctx, rbacsvc.UserSpec{Name: "An", Email: "an@example.com", Birthdate: birthdate()})
	require.NoError(t, err)

	_, err = svc.Users.Restore(ctx, 1)
	requireConflict(t, err, "User with usercode 1 is not deleted")

	deleted, err := svc.Users.SoftDelete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	_, err = svc.Users.SoftDelete(ctx, 1)
	requireConflict(t, err, "User with usercode 1 is already deleted")

	// Xóa mềm không xóa bản ghi
	found, err := svc.Users.FindByUsercode(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, found)

	restored, err := svc.Users.Restore(ctx, 1)
	require.NoError(t, err)
	assert.False(t, restored.Deleted)
}

func TestUser_UpdateKeepsIdentityAndChecksEmail(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	seedBasics(t, svc)
	for _, email := range []string{"an@example.com", "bao@example.com"} {
		_, err := svc.Users.Create(ctx, rbacsvc.UserSpec{Name: "x", Email: email, Birthdate: birthdate()})
		require.NoError(t, err)
	}

	_, err := svc.Users.Update(ctx, 1, rbacsvc.UserSpec{Name: "An", Email: "bao@example.com", Birthdate: birthdate()})
	requireConflict(t, err, "Email: bao@example.com. Already exists")

	updated, err := svc.Users.Update(ctx, 1, rbacsvc.UserSpec{Name: "An Nguyen", Email: "an@example.com", Birthdate: birthdate(), RoleName: "viewer"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Usercode)
	assert.Equal(t, "An Nguyen", updated.Name)
	require.NotNil(t, updated.Role)

	// Usercode chưa có: tạo mới với usercode tiếp theo
	created, err := svc.Users.Update(ctx, 99, rbacsvc.UserSpec{Name: "Chi", Email: "chi@example.com", Birthdate: birthdate()})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.Usercode)
}

func TestUser_ListPaginatesAndFiltersDeleted(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	for _, email := range []string{"c@example.com", "a@example.com", "b@example.com"} {
		_, err := svc.Users.Create(ctx, rbacsvc.UserSpec{Name: email[:1], Email: email, Birthdate: birthdate()})
		require.NoError(t, err)
	}
	_, err := svc.Users.SoftDelete(ctx, 2)
	require.NoError(t, err)

	sortBy, dir := rbacsvc.ParseSort("email", "asc")
	page, err := svc.Users.List(ctx, rbacsvc.UserQuery{Page: 1, Size: 2, SortBy: sortBy, SortDir: dir})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, int64(2), page.TotalPages)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "a@example.com", page.Content[0].Email)
	assert.True(t, page.HasNextPage)

	deleted := true
	onlyDeleted, err := svc.Users.List(ctx, rbacsvc.UserQuery{Deleted: &deleted, Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, onlyDeleted.Content, 1)
	assert.Equal(t, int64(2), onlyDeleted.Content[0].Usercode)

	active := false
	onlyActive, err := svc.Users.List(ctx, rbacsvc.UserQuery{Deleted: &active, Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), onlyActive.Total)
}

func TestParseSort(t *testing.T) {
	cases := []struct {
		sortBy, sort string
		field        string
		dir          rbacsvc.SortDirection
	}{
		{"name", "", "name", rbacsvc.SortAsc},
		{"name", "desc", "name", rbacsvc.SortDesc},
		{"name", "sideways", "", rbacsvc.SortNone},
		{"password", "asc", "", rbacsvc.SortNone},
		{"", "asc", "", rbacsvc.SortNone},
	}
	for _, tc := range cases {
		field, dir := rbacsvc.ParseSort(tc.sortBy, tc.sort)
		assert.Equal(t, tc.field, field, "%s/%s", tc.sortBy, tc.sort)
		assert.Equal(t, tc.dir, dir, "%s/%s", tc.sortBy, tc.sort)
	}
}

func TestHydrator_SkipsDanglingPermission(t *testing.T) {
	store := memstore.New()
	svc := rbacsvc.NewServices(store.Repositories())
	ctx := context.Background()
	seedBasics(t, svc)

	// Xóa trực tiếp qua repository để tạo tham chiếu treo
	perm, err := svc.Permissions.FindByName(ctx, "READ")
	require.NoError(t, err)
	require.NoError(t, store.Permissions().Delete(ctx, perm.ID))

	roles, err := svc.Roles.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Empty(t, roles[0].Permissions)
}

func TestSeed_IsIdempotent(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	data, err := rbacsvc.LoadSeedFile("../../../../config/seed.yaml")
	require.NoError(t, err)

	first, err := svc.Seed(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, len(data.Permissions), first.PermissionsCreated)
	assert.Equal(t, len(data.Roles), first.RolesCreated)

	second, err := svc.Seed(ctx, data)
	require.NoError(t, err)
	assert.Zero(t, second.PermissionsCreated)
	assert.Zero(t, second.RolesCreated)
}

func TestSyncUsercode(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	_, err := svc.Users.Create(ctx, rbacsvc.UserSpec{Name: "An", Email: "an@example.com", Birthdate: birthdate()})
	require.NoError(t, err)

	seq, err := svc.Users.SyncUsercode(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestMutationsEmitEvents(t *testing.T) {
	events.Reset()
	t.Cleanup(events.Reset)

	var got []events.DataChangeEvent
	events.OnDataChanged(func(_ context.Context, e events.DataChangeEvent) {
		got = append(got, e)
	})

	svc := newServices(t)
	ctx := context.Background()
	_, err := svc.Permissions.Create(ctx, "read")
	require.NoError(t, err)
	user, err := svc.Users.Create(ctx, rbacsvc.UserSpec{Name: "An", Email: "an@example.com", Birthdate: birthdate()})
	require.NoError(t, err)
	_, err = svc.Users.SoftDelete(ctx, user.Usercode)
	require.NoError(t, err)
	_, err = svc.Users.Restore(ctx, user.Usercode)
	require.NoError(t, err)

	// Thao tác bị từ chối không phát sự kiện
	_, err = svc.Permissions.Create(ctx, "READ")
	require.Error(t, err)

	assert.Equal(t, []events.DataChangeEvent{
		{Entity: events.EntityPermission, Operation: events.OpCreate, Key: "READ"},
		{Entity: events.EntityUser, Operation: events.OpCreate, Key: "1"},
		{Entity: events.EntityUser, Operation: events.OpDelete, Key: "1"},
		{Entity: events.EntityUser, Operation: events.OpRestore, Key: "1"},
	}, got)
}

func TestUser_AddRoleReplacesDanglingRole(t *testing.T) {
	store := memstore.New()
	svc := rbacsvc.NewServices(store.Repositories())
	ctx := context.Background()
	seedBasics(t, svc)
	_, err := svc.Roles.Create(ctx, "EDITOR", []string{"WRITE"})
	require.NoError(t, err)

	user, err := svc.Users.Create(ctx, rbacsvc.UserSpec{Name: "An", Email: "an@example.com", Birthdate: birthdate(), RoleName: "VIEWER"})
	require.NoError(t, err)

	// Xóa role trực tiếp qua repository: user còn id treo
	viewer, err := svc.Roles.FindByName(ctx, "VIEWER")
	require.NoError(t, err)
	require.NoError(t, store.Roles().Delete(ctx, viewer.ID))

	reloaded, err := svc.Users.FindByUsercode(ctx, user.Usercode)
	require.NoError(t, err)
	assert.Nil(t, reloaded.Role)

	updated, err := svc.Users.AddRole(ctx, user.Usercode, "editor")
	require.NoError(t, err)
	require.NotNil(t, updated.Role)
	assert.Equal(t, "EDITOR", updated.Role.Name)

	// Role còn tồn tại thì vẫn Conflict
	_, err = svc.Users.AddRole(ctx, user.Usercode, "EDITOR")
	requireConflict(t, err, "User with usercode: 1 already have a role")
}
