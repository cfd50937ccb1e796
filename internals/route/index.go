package route

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gerejaku_backend/internals/configs"
	attendanceRoute "gerejaku_backend/internals/features/attendance/route"
	groupRoute "gerejaku_backend/internals/features/groups/route"
	memberRoute "gerejaku_backend/internals/features/members/route"
	reportRoute "gerejaku_backend/internals/features/reports/route"
	serviceTypeRoute "gerejaku_backend/internals/features/service_types/route"
	"gerejaku_backend/internals/helpers/storage"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, store *storage.LocalStorage) {
	// 🏠 banner
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "🙏 Gerejaku API aktif",
			"env":     configs.AppEnv,
		})
	})

	app.Get("/api/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		status := "ok"
		if err != nil || sqlDB.Ping() != nil {
			status = "degraded"
		}
		return c.JSON(fiber.Map{
			"success": true,
			"status":  status,
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// 📁 file upload disajikan statik
	app.Static("/api/uploads", store.Dir)

	api := app.Group("/api")
	memberRoute.MemberRoutes(api, db, store)
	attendanceRoute.AttendanceRoutes(api, db)
	serviceTypeRoute.ServiceTypeRoutes(api, db)
	groupRoute.GroupRoutes(api, db)
	reportRoute.ReportRoutes(api, db)
}
