package controller_test

import (
	"bytes"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	database "gerejaku_backend/internals/databases"
	groupRoute "gerejaku_backend/internals/features/groups/route"
	memberModel "gerejaku_backend/internals/features/members/model"
	helper "gerejaku_backend/internals/helpers"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	api := app.Group("/api")
	groupRoute.GroupRoutes(api, db)
	return app, db
}

func request(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 {
		require.NoError(t, sonic.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func data(t *testing.T, out map[string]any) map[string]any {
	t.Helper()
	d, ok := out["data"].(map[string]any)
	require.True(t, ok, "data bukan objek: %v", out)
	return d
}

func seedMember(t *testing.T, db *gorm.DB, name string, seq int) uint {
	t.Helper()
	code := fmt.Sprintf("MEM%04d", seq)
	mo := memberModel.MemberModel{Name: name, MemberID: &code, IsActive: true}
	require.NoError(t, db.Create(&mo).Error)
	return mo.ID
}

func createGroup(t *testing.T, app *fiber.App, name string) int {
	t.Helper()
	code, out := request(t, app, "POST", "/api/groups", fiber.Map{"name": name})
	require.Equal(t, fiber.StatusCreated, code)
	return int(data(t, out)["id"].(float64))
}

func TestCreateGroupDefaultsAndUniqueName(t *testing.T) {
	app, _ := setupApp(t)

	code, out := request(t, app, "POST", "/api/groups", fiber.Map{"name": "Pemuda"})
	require.Equal(t, fiber.StatusCreated, code)
	d := data(t, out)
	assert.Equal(t, "#3B82F6", d["color"])
	assert.Equal(t, float64(0), d["member_count"])

	code, _ = request(t, app, "POST", "/api/groups", fiber.Map{"name": "Pemuda"})
	assert.Equal(t, fiber.StatusBadRequest, code)

	// warna tidak valid ditolak
	code, _ = request(t, app, "POST", "/api/groups", fiber.Map{
		"name": "Wanita", "color": "biru",
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestGroupMembershipLifecycle(t *testing.T) {
	app, db := setupApp(t)
	gid := createGroup(t, app, "Pemuda")
	m1 := seedMember(t, db, "Ana", 1)
	m2 := seedMember(t, db, "Beto", 2)
	m3 := seedMember(t, db, "Carla", 3)

	// tambah dua anggota; duplikat dilewati
	code, out := request(t, app, "POST", fmt.Sprintf("/api/groups/%d/members", gid),
		fiber.Map{"member_ids": []uint{m1, m2}})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(2), data(t, out)["added"])

	code, out = request(t, app, "POST", fmt.Sprintf("/api/groups/%d/members", gid),
		fiber.Map{"member_ids": []uint{m1, m3}})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(1), data(t, out)["added"])

	_, out = request(t, app, "GET", fmt.Sprintf("/api/groups/%d/members", gid), nil)
	rows := out["data"].([]any)
	require.Len(t, rows, 3)
	assert.Equal(t, "Ana", rows[0].(map[string]any)["name"])

	// member_count di detail kelompok
	_, out = request(t, app, "GET", fmt.Sprintf("/api/groups/%d", gid), nil)
	assert.Equal(t, float64(3), data(t, out)["member_count"])

	// keluarkan satu
	code, _ = request(t, app, "DELETE", fmt.Sprintf("/api/groups/%d/members/%d", gid, m2), nil)
	require.Equal(t, fiber.StatusOK, code)
	code, _ = request(t, app, "DELETE", fmt.Sprintf("/api/groups/%d/members/%d", gid, m2), nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	// anggota nonaktif tidak dihitung dan tidak muncul
	require.NoError(t, db.Table("members").Where("id = ?", m3).
		Update("is_active", false).Error)
	_, out = request(t, app, "GET", fmt.Sprintf("/api/groups/%d", gid), nil)
	assert.Equal(t, float64(1), data(t, out)["member_count"])
	_, out = request(t, app, "GET", fmt.Sprintf("/api/groups/%d/members", gid), nil)
	assert.Len(t, out["data"].([]any), 1)
}

func TestAssociateReplacesMembership(t *testing.T) {
	app, db := setupApp(t)
	gid := createGroup(t, app, "Pemuda")
	m1 := seedMember(t, db, "Ana", 1)
	m2 := seedMember(t, db, "Beto", 2)

	request(t, app, "POST", fmt.Sprintf("/api/groups/%d/members", gid),
		fiber.Map{"member_ids": []uint{m1}})

	// associate mengganti seluruh keanggotaan, bukan menambah
	code, out := request(t, app, "POST", fmt.Sprintf("/api/groups/%d/associate", gid),
		fiber.Map{"member_ids": []uint{m2}})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(1), data(t, out)["member_count"])

	_, out = request(t, app, "GET", fmt.Sprintf("/api/groups/%d/members", gid), nil)
	rows := out["data"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Beto", rows[0].(map[string]any)["name"])
}

func TestDeleteGroupKeepsMembers(t *testing.T) {
	app, db := setupApp(t)
	gid := createGroup(t, app, "Pemuda")
	m1 := seedMember(t, db, "Ana", 1)

	request(t, app, "POST", fmt.Sprintf("/api/groups/%d/members", gid),
		fiber.Map{"member_ids": []uint{m1}})

	code, _ := request(t, app, "DELETE", fmt.Sprintf("/api/groups/%d", gid), nil)
	require.Equal(t, fiber.StatusOK, code)

	code, _ = request(t, app, "GET", fmt.Sprintf("/api/groups/%d", gid), nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	// keanggotaan ikut terhapus, anggotanya tidak
	var joins int64
	db.Table("group_members").Count(&joins)
	assert.Equal(t, int64(0), joins)
	var members int64
	db.Table("members").Where("is_active = ?", true).Count(&members)
	assert.Equal(t, int64(1), members)
}
