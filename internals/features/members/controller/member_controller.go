package controller

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceModel "gerejaku_backend/internals/features/attendance/model"
	memberDTO "gerejaku_backend/internals/features/members/dto"
	memberModel "gerejaku_backend/internals/features/members/model"
	helper "gerejaku_backend/internals/helpers"
	"gerejaku_backend/internals/helpers/dbtime"
	"gerejaku_backend/internals/helpers/storage"
)

// Ambang tetap "3 minggu" untuk framing isAbsent per anggota.
// Query daftar absen punya ambang sendiri yang bisa diatur (?days=).
const absentThresholdDays = 21

// Sentinel jarak untuk anggota yang belum pernah hadir sama sekali;
// selalu lebih besar dari gap nyata manapun.
const neverAttendedSentinel = 999

var validate = validator.New()

type MemberController struct {
	DB      *gorm.DB
	Storage *storage.LocalStorage
}

// GET /api/members?page=&limit=&search=&group_id=
func (h *MemberController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c)

	q := h.DB.Model(&memberModel.MemberModel{}).Where("is_active = ?", true)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if gid := strings.TrimSpace(c.Query("group_id")); gid != "" {
		groupID, err := strconv.Atoi(gid)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "group_id tidak valid")
		}
		q = q.Where("id IN (SELECT member_id FROM group_members WHERE group_id = ?)", groupID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fmt.Errorf("hitung anggota: %w", err)
	}

	var rows []memberModel.MemberModel
	if err := q.Order("name ASC").Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return fmt.Errorf("ambil anggota: %w", err)
	}

	return helper.JsonList(c, memberDTO.FromModels(rows), helper.BuildMeta(total, p))
}

// GET /api/members/:id
func (h *MemberController) GetByID(c *fiber.Ctx) error {
	mo, err := h.findActive(c)
	if err != nil {
		return err
	}

	resp := memberDTO.FromModel(*mo)
	if files, err := h.Storage.ListMemberFiles(mo.ID); err == nil {
		resp.Files = files
	}
	if stats, err := h.memberStats(mo.ID); err == nil {
		resp.Stats = &stats
	}
	return helper.JsonOK(c, "Anggota ditemukan", resp)
}

// POST /api/members
func (h *MemberController) Create(c *fiber.Ctx) error {
	var req memberDTO.CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Nama wajib diisi")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	mo := req.ToModel()

	// kode MEM0001 dst: scan suffix tertinggi lalu +1, di dalam transaksi
	// yang sama dengan insert supaya dua create beruntun tidak bentrok.
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		code, err := nextMemberCode(tx)
		if err != nil {
			return err
		}
		mo.MemberID = &code
		return tx.Create(&mo).Error
	}); err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate") {
			return fiber.NewError(fiber.StatusBadRequest, "Duplikasi data anggota")
		}
		return fmt.Errorf("buat anggota: %w", err)
	}

	log.Printf("[INFO] anggota dibuat id=%d code=%s name=%s", mo.ID, *mo.MemberID, mo.Name)
	return helper.JsonCreated(c, "Anggota berhasil dibuat", memberDTO.FromModel(mo))
}

// PUT /api/members/:id — partial merge, field yang tidak dikirim tetap.
func (h *MemberController) Update(c *fiber.Ctx) error {
	mo, err := h.findActive(c)
	if err != nil {
		return err
	}

	var req memberDTO.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	req.Apply(mo)
	if err := h.DB.Save(mo).Error; err != nil {
		return fmt.Errorf("update anggota: %w", err)
	}

	log.Printf("[INFO] anggota diupdate id=%d name=%s", mo.ID, mo.Name)
	return helper.JsonOK(c, "Anggota berhasil diupdate", memberDTO.FromModel(*mo))
}

// DELETE /api/members/:id — soft delete tanpa alasan.
func (h *MemberController) Delete(c *fiber.Ctx) error {
	mo, err := h.findActive(c)
	if err != nil {
		return err
	}

	now := time.Now()
	mo.IsActive = false
	mo.DeletedAt = &now
	if err := h.DB.Save(mo).Error; err != nil {
		return fmt.Errorf("hapus anggota: %w", err)
	}

	log.Printf("[INFO] anggota dinonaktifkan id=%d name=%s", mo.ID, mo.Name)
	return helper.JsonOK(c, "Anggota berhasil dihapus", nil)
}

// PATCH /api/members/:id/soft-delete — nonaktifkan dengan alasan.
func (h *MemberController) SoftDelete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var mo memberModel.MemberModel
	if err := h.DB.First(&mo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Anggota tidak ditemukan")
		}
		return fmt.Errorf("ambil anggota: %w", err)
	}
	if !mo.IsActive {
		return fiber.NewError(fiber.StatusBadRequest, "Anggota sudah nonaktif")
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&body)

	now := time.Now()
	mo.IsActive = false
	mo.DeletedAt = &now
	if r := strings.TrimSpace(body.Reason); r != "" {
		mo.DeleteReason = &r
	}
	if err := h.DB.Save(&mo).Error; err != nil {
		return fmt.Errorf("soft delete anggota: %w", err)
	}

	log.Printf("[INFO] anggota soft-delete id=%d reason=%q", mo.ID, body.Reason)
	return helper.JsonOK(c, "Anggota berhasil dinonaktifkan", memberDTO.FromModel(mo))
}

// GET /api/members/absent?days=21
// Framing per-anggota: gap hari kalender sejak kehadiran terakhir,
// belum pernah hadir dihitung sentinel 999. Paling lama absen dulu,
// seri diurutkan nama.
func (h *MemberController) Absent(c *fiber.Ctx) error {
	days := absentThresholdDays
	if v := strings.TrimSpace(c.Query("days")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "days tidak valid")
		}
		days = n
	}

	rows, err := h.absentRows(days)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Daftar anggota absen", rows)
}

// GET /api/members/:id/stats
func (h *MemberController) Stats(c *fiber.Ctx) error {
	mo, err := h.findActive(c)
	if err != nil {
		return err
	}

	stats, err := h.memberStats(mo.ID)
	if err != nil {
		return fmt.Errorf("statistik anggota: %w", err)
	}

	isAbsent := stats.DaysSinceLastAttendance == nil ||
		*stats.DaysSinceLastAttendance > absentThresholdDays

	return helper.JsonOK(c, "Statistik anggota", fiber.Map{
		"totalAttendance":         stats.TotalAttendance,
		"monthlyAttendance":       stats.MonthlyAttendance,
		"lastAttendance":          stats.LastAttendance,
		"daysSinceLastAttendance": stats.DaysSinceLastAttendance,
		"isAbsent":                isAbsent,
	})
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

func (h *MemberController) findActive(c *fiber.Ctx) (*memberModel.MemberModel, error) {
	id, err := paramID(c)
	if err != nil {
		return nil, err
	}
	var mo memberModel.MemberModel
	if err := h.DB.Where("id = ? AND is_active = ?", id, true).First(&mo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Anggota tidak ditemukan")
		}
		return nil, fmt.Errorf("ambil anggota: %w", err)
	}
	return &mo, nil
}

// nextMemberCode: suffix numerik tertinggi dari kode MEMxxxx + 1.
func nextMemberCode(tx *gorm.DB) (string, error) {
	var last *string
	if err := tx.Model(&memberModel.MemberModel{}).
		Where("member_id LIKE ?", "MEM%").
		Select("MAX(member_id)").
		Scan(&last).Error; err != nil {
		return "", fmt.Errorf("scan kode anggota: %w", err)
	}

	next := 1
	if last != nil {
		if n, err := strconv.Atoi(strings.TrimPrefix(*last, "MEM")); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("MEM%04d", next), nil
}

func (h *MemberController) memberStats(memberID uint) (memberDTO.MemberStats, error) {
	var stats memberDTO.MemberStats

	if err := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Where("member_id = ?", memberID).
		Count(&stats.TotalAttendance).Error; err != nil {
		return stats, err
	}

	now := time.Now()
	monthStart := dbtime.FromTime(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC))
	monthEnd := dbtime.FromTime(monthStart.AddDate(0, 1, -1))
	if err := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Where("member_id = ? AND date BETWEEN ? AND ?", memberID, monthStart, monthEnd).
		Count(&stats.MonthlyAttendance).Error; err != nil {
		return stats, err
	}

	var last *dbtime.DateOnly
	if err := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Where("member_id = ?", memberID).
		Select("MAX(date)").
		Scan(&last).Error; err != nil {
		return stats, err
	}
	if last != nil && !last.IsZero() {
		stats.LastAttendance = last
		days := last.DaysUntil(dbtime.Today())
		stats.DaysSinceLastAttendance = &days
	}

	return stats, nil
}

type attendanceAgg struct {
	MemberID       uint
	LastAttendance *dbtime.DateOnly
	Total          int64
}

// absentRows: agregasi MAX(date)/COUNT per anggota (LEFT JOIN semantik,
// dikerjakan dua query portabel), lalu filter & sort di memori.
func (h *MemberController) absentRows(days int) ([]memberDTO.AbsentMemberResponse, error) {
	var members []memberModel.MemberModel
	if err := h.DB.Where("is_active = ?", true).Order("name ASC").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("ambil anggota: %w", err)
	}

	var aggs []attendanceAgg
	if err := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Select("member_id, MAX(date) AS last_attendance, COUNT(id) AS total").
		Group("member_id").
		Scan(&aggs).Error; err != nil {
		return nil, fmt.Errorf("agregasi kehadiran: %w", err)
	}
	byMember := make(map[uint]attendanceAgg, len(aggs))
	for _, a := range aggs {
		byMember[a.MemberID] = a
	}

	today := dbtime.Today()
	out := make([]memberDTO.AbsentMemberResponse, 0)
	for i := range members {
		row := memberDTO.AbsentMemberResponse{
			MemberResponse:          memberDTO.FromModel(members[i]),
			DaysSinceLastAttendance: neverAttendedSentinel,
		}
		if agg, ok := byMember[members[i].ID]; ok {
			row.TotalAttendance = agg.Total
			if agg.LastAttendance != nil && !agg.LastAttendance.IsZero() {
				row.LastAttendance = agg.LastAttendance
				row.DaysSinceLastAttendance = agg.LastAttendance.DaysUntil(today)
			}
		}
		if row.DaysSinceLastAttendance > days {
			out = append(out, row)
		}
	}

	// paling lama absen dulu; nama sebagai tie-break (members sudah urut nama)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysSinceLastAttendance > out[j].DaysSinceLastAttendance
	})
	return out, nil
}
