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
	attendanceModel "gerejaku_backend/internals/features/attendance/model"
	memberModel "gerejaku_backend/internals/features/members/model"
	serviceTypeRoute "gerejaku_backend/internals/features/service_types/route"
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
	serviceTypeRoute.ServiceTypeRoutes(api, db)
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

func TestCreateServiceTypeNormalizesSchedule(t *testing.T) {
	app, _ := setupApp(t)

	code, out := request(t, app, "POST", "/api/service-types", fiber.Map{
		"name":     "Ibadah Minggu",
		"schedule": " 08:00 ,17:30",
	})
	require.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "08:00, 17:30", data(t, out)["schedule"])

	// token jam rusak ditolak
	code, _ = request(t, app, "POST", "/api/service-types", fiber.Map{
		"name":     "Doa Subuh",
		"schedule": "5am",
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestServiceTypeUniqueName(t *testing.T) {
	app, _ := setupApp(t)

	code, _ := request(t, app, "POST", "/api/service-types", fiber.Map{"name": "Ibadah Minggu"})
	require.Equal(t, fiber.StatusCreated, code)

	code, out := request(t, app, "POST", "/api/service-types", fiber.Map{"name": "Ibadah Minggu"})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, false, out["success"])

	// rename ke nama yang sudah dipakai juga ditolak
	_, out = request(t, app, "POST", "/api/service-types", fiber.Map{"name": "Doa Malam"})
	id := int(data(t, out)["id"].(float64))
	code, _ = request(t, app, "PUT", fmt.Sprintf("/api/service-types/%d", id),
		fiber.Map{"name": "Ibadah Minggu"})
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestDeleteServiceTypeBlockedByAttendance(t *testing.T) {
	app, db := setupApp(t)

	_, out := request(t, app, "POST", "/api/service-types", fiber.Map{"name": "Ibadah Minggu"})
	usedID := int(data(t, out)["id"].(float64))
	_, out = request(t, app, "POST", "/api/service-types", fiber.Map{"name": "Doa Malam"})
	freeID := int(data(t, out)["id"].(float64))

	code := "MEM0001"
	mo := memberModel.MemberModel{Name: "Ana", MemberID: &code, IsActive: true}
	require.NoError(t, db.Create(&mo).Error)
	require.NoError(t, db.Create(&attendanceModel.AttendanceModel{
		MemberID:      mo.ID,
		Date:          dbtime.Today(),
		ServiceTypeID: uint(usedID),
	}).Error)

	// masih dirujuk → ditolak
	status, out := request(t, app, "DELETE", fmt.Sprintf("/api/service-types/%d", usedID), nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, out["success"])

	// tanpa rujukan → sukses
	status, _ = request(t, app, "DELETE", fmt.Sprintf("/api/service-types/%d", freeID), nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = request(t, app, "GET", fmt.Sprintf("/api/service-types/%d", freeID), nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestUpdateServiceTypePartial(t *testing.T) {
	app, _ := setupApp(t)

	_, out := request(t, app, "POST", "/api/service-types", fiber.Map{
		"name":        "Ibadah Minggu",
		"pastor_name": "Pdt. Budi",
	})
	id := int(data(t, out)["id"].(float64))

	code, out := request(t, app, "PUT", fmt.Sprintf("/api/service-types/%d", id), fiber.Map{
		"schedule": "09:00",
	})
	require.Equal(t, fiber.StatusOK, code)
	d := data(t, out)
	assert.Equal(t, "Ibadah Minggu", d["name"])
	assert.Equal(t, "Pdt. Budi", d["pastor_name"])
	assert.Equal(t, "09:00", d["schedule"])
}
