package controller

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	helper "gerejaku_backend/internals/helpers"
	"gerejaku_backend/internals/helpers/storage"
)

// POST /api/members/upload-photo
// Upload foto sebelum anggota dibuat; hasilnya (nama file) dikirim balik
// sebagai photo_path pada POST /api/members.
func (h *MemberController) UploadPhoto(c *fiber.Ctx) error {
	fh, err := c.FormFile("photo")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "File foto tidak ditemukan")
	}

	name, err := h.Storage.SavePhoto(fh)
	if err != nil {
		return err
	}

	log.Printf("[INFO] foto diupload: %s", name)
	return helper.JsonOK(c, "Foto berhasil diupload", fiber.Map{
		"photo_path": name,
		"url":        "/api/uploads/" + name,
	})
}

// POST /api/members/:id/photo — ganti foto anggota yang sudah ada.
func (h *MemberController) ReplacePhoto(c *fiber.Ctx) error {
	mo, err := h.findActive(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "File foto tidak ditemukan")
	}

	name, err := h.Storage.SavePhoto(fh)
	if err != nil {
		return err
	}

	old := mo.PhotoPath
	mo.PhotoPath = &name
	if err := h.DB.Save(mo).Error; err != nil {
		return fmt.Errorf("simpan foto anggota: %w", err)
	}

	// foto lama dibersihkan best-effort; gagal hapus tidak membatalkan
	if old != nil && *old != name {
		if err := h.Storage.Delete(*old); err != nil {
			log.Printf("[WARN] gagal hapus foto lama %s: %v", *old, err)
		}
	}

	return helper.JsonOK(c, "Foto anggota berhasil diganti", fiber.Map{
		"photo_path": name,
		"url":        "/api/uploads/" + name,
	})
}

// POST /api/members/:id/files — lampiran dokumen (pdf/jpg/png), maks 10 per request.
func (h *MemberController) UploadFiles(c *fiber.Ctx) error {
	mo, err := h.findActive(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Form multipart tidak valid")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Tidak ada file yang diupload")
	}
	if len(files) > 10 {
		return fiber.NewError(fiber.StatusBadRequest, "Maksimal 10 file per upload")
	}

	saved := make([]storage.FileInfo, 0, len(files))
	for _, fh := range files {
		info, err := h.Storage.SaveMemberFile(mo.ID, fh)
		if err != nil {
			return err
		}
		saved = append(saved, info)
	}

	log.Printf("[INFO] %d file diupload untuk anggota id=%d", len(saved), mo.ID)
	return helper.JsonCreated(c, "File berhasil diupload", fiber.Map{"files": saved})
}

// GET /api/members/:id/files
func (h *MemberController) ListFiles(c *fiber.Ctx) error {
	mo, err := h.findActive(c)
	if err != nil {
		return err
	}

	files, err := h.Storage.ListMemberFiles(mo.ID)
	if err != nil {
		return fmt.Errorf("daftar file anggota: %w", err)
	}
	return helper.JsonOK(c, "Daftar file anggota", files)
}
