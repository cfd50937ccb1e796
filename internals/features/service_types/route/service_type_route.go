package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	serviceTypeController "gerejaku_backend/internals/features/service_types/controller"
)

func ServiceTypeRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := &serviceTypeController.ServiceTypeController{DB: db}

	r := api.Group("/service-types")
	r.Get("/", ctrl.List)
	r.Post("/", ctrl.Create)
	r.Get("/:id", ctrl.GetByID)
	r.Put("/:id", ctrl.Update)
	r.Delete("/:id", ctrl.Delete)
}
