package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	memberController "gerejaku_backend/internals/features/members/controller"
	"gerejaku_backend/internals/helpers/storage"
	"gerejaku_backend/internals/middlewares"
)

// Rute statik (absent, upload-photo) didaftarkan sebelum /:id supaya
// tidak tertangkap parameter.
func MemberRoutes(api fiber.Router, db *gorm.DB, store *storage.LocalStorage) {
	ctrl := &memberController.MemberController{DB: db, Storage: store}

	r := api.Group("/members")
	r.Get("/", ctrl.List)
	r.Get("/absent", ctrl.Absent)
	r.Post("/upload-photo", middlewares.UploadRateLimiter(), ctrl.UploadPhoto)
	r.Post("/", ctrl.Create)

	r.Get("/:id", ctrl.GetByID)
	r.Put("/:id", ctrl.Update)
	r.Delete("/:id", ctrl.Delete)
	r.Patch("/:id/soft-delete", ctrl.SoftDelete)
	r.Get("/:id/stats", ctrl.Stats)
	r.Post("/:id/photo", middlewares.UploadRateLimiter(), ctrl.ReplacePhoto)
	r.Get("/:id/files", ctrl.ListFiles)
	r.Post("/:id/files", middlewares.UploadRateLimiter(), ctrl.UploadFiles)
}
