package controller_test

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	database "gerejaku_backend/internals/databases"
	attendanceModel "gerejaku_backend/internals/features/attendance/model"
	groupModel "gerejaku_backend/internals/features/groups/model"
	memberModel "gerejaku_backend/internals/features/members/model"
	reportRoute "gerejaku_backend/internals/features/reports/route"
	serviceTypeModel "gerejaku_backend/internals/features/service_types/model"
	helper "gerejaku_backend/internals/helpers"
	"gerejaku_backend/internals/helpers/dbtime"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	api := app.Group("/api")
	reportRoute.ReportRoutes(api, db)
	return app, db
}

func get(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, sonic.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

type fixture struct {
	emptyGroup  uint
	activeGroup uint
	member      uint
}

// satu kelompok kosong, satu kelompok berisi satu anggota yang hadir hari ini
func seed(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	empty := groupModel.GroupModel{Name: "Lansia", Color: "#3B82F6", IsActive: true}
	require.NoError(t, db.Create(&empty).Error)
	active := groupModel.GroupModel{Name: "Pemuda", Color: "#EF4444", IsActive: true}
	require.NoError(t, db.Create(&active).Error)

	code := "MEM0001"
	mo := memberModel.MemberModel{Name: "Ana", MemberID: &code, IsActive: true}
	require.NoError(t, db.Create(&mo).Error)
	require.NoError(t, db.Create(&groupModel.GroupMemberModel{
		GroupID: active.ID, MemberID: mo.ID,
	}).Error)

	st := serviceTypeModel.ServiceTypeModel{Name: "Ibadah Minggu"}
	require.NoError(t, db.Create(&st).Error)
	require.NoError(t, db.Create(&attendanceModel.AttendanceModel{
		MemberID: mo.ID, Date: dbtime.Today(), ServiceTypeID: st.ID,
	}).Error)

	return fixture{emptyGroup: empty.ID, activeGroup: active.ID, member: mo.ID}
}

func groupByName(t *testing.T, groups []any, name string) map[string]any {
	t.Helper()
	for _, g := range groups {
		row := g.(map[string]any)
		if row["name"] == name {
			return row
		}
	}
	t.Fatalf("kelompok %q tidak ada di laporan", name)
	return nil
}

func TestMonthlyReportEmptyGroupScoresZero(t *testing.T) {
	app, db := setupApp(t)
	seed(t, db)

	now := time.Now()
	code, out := get(t, app,
		fmt.Sprintf("/api/reports/monthly?year=%d&month=%d", now.Year(), int(now.Month())))
	require.Equal(t, fiber.StatusOK, code)
	d := out["data"].(map[string]any)

	assert.Equal(t, float64(1), d["totalMembers"])
	assert.Equal(t, float64(1), d["totalAttendance"])

	groups := d["groups"].([]any)
	require.Len(t, groups, 2)

	// kelompok kosong: skor 0, bukan NaN / error pembagian
	lansia := groupByName(t, groups, "Lansia")
	assert.Equal(t, float64(0), lansia["score"])
	assert.Equal(t, float64(0), lansia["member_count"])

	// 1 anggota × 1 hari ibadah, 1 kehadiran → 100
	pemuda := groupByName(t, groups, "Pemuda")
	assert.Equal(t, float64(100), pemuda["score"])
	assert.Equal(t, float64(1), pemuda["present"])

	top := d["topMembers"].([]any)
	require.Len(t, top, 1)
	assert.Equal(t, "Ana", top[0].(map[string]any)["name"])

	members := d["members"].([]any)
	require.Len(t, members, 1)
	ana := members[0].(map[string]any)
	assert.Equal(t, "Hadir", ana["status"])
	assert.Equal(t, float64(1), ana["total"])
}

func TestMonthlyReportGroupFilter(t *testing.T) {
	app, db := setupApp(t)
	fx := seed(t, db)

	now := time.Now()
	code, out := get(t, app, fmt.Sprintf(
		"/api/reports/monthly?year=%d&month=%d&group_id=%d",
		now.Year(), int(now.Month()), fx.emptyGroup))
	require.Equal(t, fiber.StatusOK, code)
	d := out["data"].(map[string]any)

	assert.Equal(t, float64(0), d["totalMembers"])
	assert.Equal(t, float64(0), d["totalAttendance"])
	groups := d["groups"].([]any)
	require.Len(t, groups, 1)
	assert.Equal(t, float64(0), groups[0].(map[string]any)["score"])
	assert.Len(t, d["topMembers"].([]any), 0)
}

func TestMonthlyReportValidatesParams(t *testing.T) {
	app, _ := setupApp(t)

	code, _ := get(t, app, "/api/reports/monthly?month=13")
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = get(t, app, "/api/reports/monthly?year=abc")
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestDashboardStats(t *testing.T) {
	app, db := setupApp(t)
	seed(t, db)

	code, out := get(t, app, "/api/reports/dashboard-stats")
	require.Equal(t, fiber.StatusOK, code)
	d := out["data"].(map[string]any)

	assert.Equal(t, float64(1), d["totalMembers"])
	assert.Equal(t, float64(2), d["totalGroups"])
	assert.Equal(t, float64(1), d["totalServiceTypes"])
	assert.Equal(t, float64(1), d["attendanceToday"])
	assert.Equal(t, float64(1), d["attendanceWeek"])
	assert.Equal(t, float64(1), d["attendanceMonth"])

	scores := d["groupScores"].([]any)
	require.Len(t, scores, 2)
	// skor tertinggi dulu
	assert.Equal(t, "Pemuda", scores[0].(map[string]any)["name"])
	assert.Equal(t, "Lansia", scores[1].(map[string]any)["name"])
	assert.Equal(t, float64(0), scores[1].(map[string]any)["score"])
}
