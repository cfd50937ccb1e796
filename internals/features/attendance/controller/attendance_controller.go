package controller

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	attendanceDTO "gerejaku_backend/internals/features/attendance/dto"
	attendanceModel "gerejaku_backend/internals/features/attendance/model"
	memberModel "gerejaku_backend/internals/features/members/model"
	serviceTypeModel "gerejaku_backend/internals/features/service_types/model"
	helper "gerejaku_backend/internals/helpers"
	"gerejaku_backend/internals/helpers/dbtime"
)

var validate = validator.New()

type AttendanceController struct {
	DB *gorm.DB
}

/* =========================================================
   MARK — idempoten lewat ON CONFLICT DO NOTHING pada triple
   (member_id, date, service_type_id). Penandaan ganda tidak
   pernah error dan tidak pernah membuat baris kedua.
   ========================================================= */

// POST /api/attendance
func (h *AttendanceController) Mark(c *fiber.Ctx) error {
	var req attendanceDTO.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	member, err := h.activeMember(req.MemberID)
	if err != nil {
		return err
	}
	st, err := h.serviceTypeByName(req.ServiceType)
	if err != nil {
		return err
	}

	result, err := h.markOne(member, st, req.EffectiveDate(), req.Notes)
	if err != nil {
		return err
	}

	if result.AlreadyMarked {
		return helper.JsonOK(c, "Kehadiran sudah tercatat sebelumnya", result)
	}
	log.Printf("[INFO] kehadiran dicatat member=%d date=%s type=%s",
		member.ID, result.Date.String(), st.Name)
	return helper.JsonCreated(c, "Kehadiran berhasil dicatat", result)
}

// POST /api/attendance/bulk — satu tanggal + jenis ibadah untuk banyak
// anggota; kegagalan per anggota dilaporkan, tidak membatalkan sisanya.
func (h *AttendanceController) BulkMark(c *fiber.Ctx) error {
	var req attendanceDTO.BulkMarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.ServiceType = strings.TrimSpace(req.ServiceType)
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	st, err := h.serviceTypeByName(req.ServiceType)
	if err != nil {
		return err
	}
	date := req.EffectiveDate()

	out := attendanceDTO.BulkMarkResult{
		Success: []attendanceDTO.MarkResult{},
		Errors:  []attendanceDTO.BulkMarkError{},
	}
	for _, memberID := range req.MemberIDs {
		member, err := h.activeMember(memberID)
		if err != nil {
			out.Errors = append(out.Errors, attendanceDTO.BulkMarkError{
				MemberID: memberID,
				Message:  errMessage(err),
			})
			continue
		}
		result, err := h.markOne(member, st, date, req.Notes)
		if err != nil {
			out.Errors = append(out.Errors, attendanceDTO.BulkMarkError{
				MemberID: memberID,
				Message:  errMessage(err),
			})
			continue
		}
		out.Success = append(out.Success, *result)
	}

	log.Printf("[INFO] bulk kehadiran: %d sukses, %d gagal (type=%s date=%s)",
		len(out.Success), len(out.Errors), st.Name, date.String())
	return helper.JsonOK(c, "Pencatatan massal selesai", out)
}

/* =========================================================
   LIST / DETAIL
   ========================================================= */

type listRow struct {
	ID              uint            `json:"id"`
	MemberID        uint            `json:"member_id"`
	Date            dbtime.DateOnly `json:"date"`
	ServiceTypeID   uint            `json:"service_type_id"`
	Notes           *string         `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	MemberName      string          `json:"member_name"`
	MemberCode      *string         `json:"member_code"`
	ServiceTypeName string          `json:"service_type"`
}

// GET /api/attendance?memberId=&date=&startDate=&endDate=&serviceType=
// Tanpa filter tanggal sama sekali = hari ini.
func (h *AttendanceController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c)

	q := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Joins("JOIN members ON members.id = attendance.member_id").
		Joins("JOIN service_types ON service_types.id = attendance.service_type_id")

	if v := strings.TrimSpace(c.Query("memberId")); v != "" {
		memberID, err := strconv.Atoi(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "memberId tidak valid")
		}
		q = q.Where("attendance.member_id = ?", memberID)
	}
	if v := strings.TrimSpace(c.Query("serviceType")); v != "" {
		q = q.Where("service_types.name = ?", v)
	}

	date := strings.TrimSpace(c.Query("date"))
	start := strings.TrimSpace(c.Query("startDate"))
	end := strings.TrimSpace(c.Query("endDate"))
	switch {
	case date != "":
		d, err := dbtime.ParseDate(date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date tidak valid (YYYY-MM-DD)")
		}
		q = q.Where("attendance.date = ?", d)
	case start != "" && end != "":
		ds, err1 := dbtime.ParseDate(start)
		de, err2 := dbtime.ParseDate(end)
		if err1 != nil || err2 != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Rentang tanggal tidak valid (YYYY-MM-DD)")
		}
		q = q.Where("attendance.date BETWEEN ? AND ?", ds, de)
	case c.Query("memberId") == "" && c.Query("serviceType") == "":
		q = q.Where("attendance.date = ?", dbtime.Today())
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fmt.Errorf("hitung kehadiran: %w", err)
	}

	var rows []listRow
	if err := q.
		Select("attendance.*, members.name AS member_name, members.member_id AS member_code, service_types.name AS service_type_name").
		Order("attendance.date DESC, attendance.created_at DESC").
		Limit(p.Limit()).Offset(p.Offset()).
		Scan(&rows).Error; err != nil {
		return fmt.Errorf("ambil kehadiran: %w", err)
	}

	return helper.JsonList(c, rows, helper.BuildMeta(total, p))
}

// GET /api/attendance/:id
func (h *AttendanceController) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var row listRow
	res := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Select("attendance.*, members.name AS member_name, members.member_id AS member_code, service_types.name AS service_type_name").
		Joins("JOIN members ON members.id = attendance.member_id").
		Joins("JOIN service_types ON service_types.id = attendance.service_type_id").
		Where("attendance.id = ?", id).
		Scan(&row)
	if res.Error != nil {
		return fmt.Errorf("ambil kehadiran: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Catatan kehadiran tidak ditemukan")
	}
	return helper.JsonOK(c, "Catatan kehadiran ditemukan", row)
}

// PUT /api/attendance/:id — koreksi tanggal/jenis/catatan.
func (h *AttendanceController) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var row attendanceModel.AttendanceModel
	if err := h.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Catatan kehadiran tidak ditemukan")
		}
		return fmt.Errorf("ambil kehadiran: %w", err)
	}

	var req attendanceDTO.UpdateAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}

	if req.Date != nil && !req.Date.IsZero() {
		row.Date = *req.Date
	}
	if req.ServiceType != nil {
		st, err := h.serviceTypeByName(strings.TrimSpace(*req.ServiceType))
		if err != nil {
			return err
		}
		row.ServiceTypeID = st.ID
	}
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	// koreksi tidak boleh menabrak baris lain pada triple yang sama
	var dup int64
	if err := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Where("member_id = ? AND date = ? AND service_type_id = ? AND id <> ?",
			row.MemberID, row.Date, row.ServiceTypeID, row.ID).
		Count(&dup).Error; err != nil {
		return fmt.Errorf("cek duplikasi kehadiran: %w", err)
	}
	if dup > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Kehadiran untuk kombinasi itu sudah tercatat")
	}

	if err := h.DB.Save(&row).Error; err != nil {
		return fmt.Errorf("update kehadiran: %w", err)
	}
	return helper.JsonOK(c, "Catatan kehadiran berhasil diupdate", row)
}

// DELETE /api/attendance/:id
func (h *AttendanceController) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	res := h.DB.Delete(&attendanceModel.AttendanceModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("hapus kehadiran: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Catatan kehadiran tidak ditemukan")
	}
	return helper.JsonOK(c, "Catatan kehadiran berhasil dihapus", nil)
}

/* =========================================================
   Internal
   ========================================================= */

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || id < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	return uint(id), nil
}

func errMessage(err error) string {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return "Terjadi kesalahan internal"
}

func (h *AttendanceController) activeMember(id uint) (*memberModel.MemberModel, error) {
	var mo memberModel.MemberModel
	if err := h.DB.Where("id = ? AND is_active = ?", id, true).First(&mo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Anggota tidak ditemukan")
		}
		return nil, fmt.Errorf("ambil anggota: %w", err)
	}
	return &mo, nil
}

func (h *AttendanceController) serviceTypeByName(name string) (*serviceTypeModel.ServiceTypeModel, error) {
	var st serviceTypeModel.ServiceTypeModel
	if err := h.DB.Where("name = ?", name).First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Jenis ibadah tidak ditemukan")
		}
		return nil, fmt.Errorf("ambil jenis ibadah: %w", err)
	}
	return &st, nil
}

// markOne: insert idempoten; kalau triple sudah ada, baris lama dikembalikan
// dengan alreadyMarked=true.
func (h *AttendanceController) markOne(member *memberModel.MemberModel, st *serviceTypeModel.ServiceTypeModel, date dbtime.DateOnly, notes *string) (*attendanceDTO.MarkResult, error) {
	row := attendanceModel.AttendanceModel{
		MemberID:      member.ID,
		Date:          date,
		ServiceTypeID: st.ID,
		Notes:         notes,
	}

	res := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "date"}, {Name: "service_type_id"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("catat kehadiran: %w", res.Error)
	}

	already := res.RowsAffected == 0
	if already {
		if err := h.DB.Where("member_id = ? AND date = ? AND service_type_id = ?",
			member.ID, date, st.ID).First(&row).Error; err != nil {
			return nil, fmt.Errorf("ambil kehadiran tercatat: %w", err)
		}
	}

	return &attendanceDTO.MarkResult{
		AttendanceResponse: attendanceDTO.FromModel(row, member.Name, member.MemberID, st.Name),
		AlreadyMarked:      already,
	}, nil
}
