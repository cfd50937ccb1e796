package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reportController "gerejaku_backend/internals/features/reports/controller"
)

func ReportRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := &reportController.ReportController{DB: db}

	r := api.Group("/reports")
	r.Get("/dashboard-stats", ctrl.DashboardStats)
	r.Get("/monthly", ctrl.Monthly)
}
