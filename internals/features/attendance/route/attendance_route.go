package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceController "gerejaku_backend/internals/features/attendance/controller"
)

func AttendanceRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := &attendanceController.AttendanceController{DB: db}

	r := api.Group("/attendance")
	r.Get("/", ctrl.List)
	r.Get("/stats", ctrl.Stats)
	r.Get("/absent", ctrl.Absent)
	r.Post("/", ctrl.Mark)
	r.Post("/bulk", ctrl.BulkMark)

	r.Get("/:id", ctrl.GetByID)
	r.Put("/:id", ctrl.Update)
	r.Delete("/:id", ctrl.Delete)
}
