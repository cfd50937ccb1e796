package controller

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceModel "gerejaku_backend/internals/features/attendance/model"
	serviceTypeDTO "gerejaku_backend/internals/features/service_types/dto"
	serviceTypeModel "gerejaku_backend/internals/features/service_types/model"
	helper "gerejaku_backend/internals/helpers"
)

var validate = validator.New()

type ServiceTypeController struct {
	DB *gorm.DB
}

// GET /api/service-types
func (h *ServiceTypeController) List(c *fiber.Ctx) error {
	var rows []serviceTypeModel.ServiceTypeModel
	if err := h.DB.Order("name ASC").Find(&rows).Error; err != nil {
		return fmt.Errorf("ambil jenis ibadah: %w", err)
	}
	return helper.JsonOK(c, "Daftar jenis ibadah", rows)
}

// GET /api/service-types/:id
func (h *ServiceTypeController) GetByID(c *fiber.Ctx) error {
	mo, err := h.find(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Jenis ibadah ditemukan", mo)
}

// POST /api/service-types
func (h *ServiceTypeController) Create(c *fiber.Ctx) error {
	var req serviceTypeDTO.CreateServiceTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := req.Normalize(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	// cek nama duplikat lebih dulu supaya pesannya jelas
	var count int64
	if err := h.DB.Model(&serviceTypeModel.ServiceTypeModel{}).
		Where("name = ?", req.Name).Count(&count).Error; err != nil {
		return fmt.Errorf("cek nama jenis ibadah: %w", err)
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Nama jenis ibadah sudah dipakai")
	}

	mo := req.ToModel()
	if err := h.DB.Create(&mo).Error; err != nil {
		return fmt.Errorf("buat jenis ibadah: %w", err)
	}

	log.Printf("[INFO] jenis ibadah dibuat id=%d name=%s", mo.ID, mo.Name)
	return helper.JsonCreated(c, "Jenis ibadah berhasil dibuat", mo)
}

// PUT /api/service-types/:id
func (h *ServiceTypeController) Update(c *fiber.Ctx) error {
	mo, err := h.find(c)
	if err != nil {
		return err
	}

	var req serviceTypeDTO.UpdateServiceTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := req.Normalize(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if req.Name != nil && *req.Name != "" && *req.Name != mo.Name {
		var count int64
		if err := h.DB.Model(&serviceTypeModel.ServiceTypeModel{}).
			Where("name = ? AND id <> ?", *req.Name, mo.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("cek nama jenis ibadah: %w", err)
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Nama jenis ibadah sudah dipakai")
		}
	}

	req.Apply(mo)
	if err := h.DB.Save(mo).Error; err != nil {
		return fmt.Errorf("update jenis ibadah: %w", err)
	}
	return helper.JsonOK(c, "Jenis ibadah berhasil diupdate", mo)
}

// DELETE /api/service-types/:id
// Ditolak selama masih ada baris kehadiran yang menunjuk ke sini (FK RESTRICT);
// riwayat kehadiran tidak boleh kehilangan rujukannya.
func (h *ServiceTypeController) Delete(c *fiber.Ctx) error {
	mo, err := h.find(c)
	if err != nil {
		return err
	}

	var refs int64
	if err := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Where("service_type_id = ?", mo.ID).Count(&refs).Error; err != nil {
		return fmt.Errorf("cek rujukan kehadiran: %w", err)
	}
	if refs > 0 {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Jenis ibadah masih dipakai %d catatan kehadiran", refs))
	}

	if err := h.DB.Delete(mo).Error; err != nil {
		return fmt.Errorf("hapus jenis ibadah: %w", err)
	}

	log.Printf("[INFO] jenis ibadah dihapus id=%d name=%s", mo.ID, mo.Name)
	return helper.JsonOK(c, "Jenis ibadah berhasil dihapus", nil)
}

func (h *ServiceTypeController) find(c *fiber.Ctx) (*serviceTypeModel.ServiceTypeModel, error) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || id < 1 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	var mo serviceTypeModel.ServiceTypeModel
	if err := h.DB.First(&mo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Jenis ibadah tidak ditemukan")
		}
		return nil, fmt.Errorf("ambil jenis ibadah: %w", err)
	}
	return &mo, nil
}
