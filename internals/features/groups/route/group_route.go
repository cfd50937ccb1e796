package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	groupController "gerejaku_backend/internals/features/groups/controller"
)

func GroupRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := &groupController.GroupController{DB: db}

	r := api.Group("/groups")
	r.Get("/", ctrl.List)
	r.Post("/", ctrl.Create)
	r.Get("/:id", ctrl.GetByID)
	r.Put("/:id", ctrl.Update)
	r.Delete("/:id", ctrl.Delete)

	r.Get("/:id/members", ctrl.Members)
	r.Post("/:id/members", ctrl.AddMembers)
	r.Delete("/:id/members/:memberId", ctrl.RemoveMember)
	r.Post("/:id/associate", ctrl.Associate)
}
