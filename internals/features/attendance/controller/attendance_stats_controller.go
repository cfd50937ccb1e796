package controller

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	attendanceModel "gerejaku_backend/internals/features/attendance/model"
	memberModel "gerejaku_backend/internals/features/members/model"
	helper "gerejaku_backend/internals/helpers"
	"gerejaku_backend/internals/helpers/dbtime"
)

// Ambang tetap "3 minggu" pada framing daftar absen dari sisi kehadiran.
const absentAfterDays = 21

// Anggota tanpa kehadiran sama sekali.
const neverAttendedGap = 999

// GET /api/attendance/stats?startDate=&endDate=
// Default 30 hari terakhir. Breakdown per jenis ibadah, per hari dalam
// minggu, dan 10 anggota paling rajin.
func (h *AttendanceController) Stats(c *fiber.Ctx) error {
	end := dbtime.Today()
	start := dbtime.FromTime(end.AddDate(0, 0, -29))

	if v := strings.TrimSpace(c.Query("startDate")); v != "" {
		d, err := dbtime.ParseDate(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "startDate tidak valid (YYYY-MM-DD)")
		}
		start = d
	}
	if v := strings.TrimSpace(c.Query("endDate")); v != "" {
		d, err := dbtime.ParseDate(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "endDate tidak valid (YYYY-MM-DD)")
		}
		end = d
	}

	var total int64
	if err := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Where("date BETWEEN ? AND ?", start, end).
		Count(&total).Error; err != nil {
		return fmt.Errorf("hitung kehadiran: %w", err)
	}

	var uniqueMembers int64
	if err := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Where("date BETWEEN ? AND ?", start, end).
		Distinct("member_id").Count(&uniqueMembers).Error; err != nil {
		return fmt.Errorf("hitung anggota unik: %w", err)
	}

	type typeRow struct {
		ServiceType string `json:"service_type"`
		Total       int64  `json:"total"`
	}
	var byType []typeRow
	if err := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Select("service_types.name AS service_type, COUNT(*) AS total").
		Joins("JOIN service_types ON service_types.id = attendance.service_type_id").
		Where("attendance.date BETWEEN ? AND ?", start, end).
		Group("service_types.name").
		Order("total DESC").
		Scan(&byType).Error; err != nil {
		return fmt.Errorf("breakdown jenis ibadah: %w", err)
	}

	// breakdown hari dihitung di Go — fungsi weekday SQL beda-beda antar
	// sqlite/postgres
	var dates []dbtime.DateOnly
	if err := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Where("date BETWEEN ? AND ?", start, end).
		Pluck("date", &dates).Error; err != nil {
		return fmt.Errorf("ambil tanggal kehadiran: %w", err)
	}
	weekdayCounts := make(map[string]int64, 7)
	for _, d := range dates {
		weekdayCounts[d.Weekday().String()]++
	}

	type memberRow struct {
		MemberID   uint    `json:"member_id"`
		Name       string  `json:"name"`
		MemberCode *string `json:"member_code"`
		Total      int64   `json:"total"`
	}
	var topMembers []memberRow
	if err := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Select("attendance.member_id, members.name AS name, members.member_id AS member_code, COUNT(*) AS total").
		Joins("JOIN members ON members.id = attendance.member_id").
		Where("attendance.date BETWEEN ? AND ?", start, end).
		Group("attendance.member_id, members.name, members.member_id").
		Order("total DESC, name ASC").
		Limit(10).
		Scan(&topMembers).Error; err != nil {
		return fmt.Errorf("top anggota: %w", err)
	}

	return helper.JsonOK(c, "Statistik kehadiran", fiber.Map{
		"startDate":     start,
		"endDate":       end,
		"total":         total,
		"uniqueMembers": uniqueMembers,
		"byServiceType": byType,
		"byWeekday":     weekdayCounts,
		"topMembers":    topMembers,
	})
}

// GET /api/attendance/absent
// Anggota aktif yang tidak hadir lebih dari 3 minggu; belum pernah hadir
// masuk daftar dengan gap sentinel 999. Kehadiran hari ini mengecualikan.
func (h *AttendanceController) Absent(c *fiber.Ctx) error {
	var members []memberModel.MemberModel
	if err := h.DB.Where("is_active = ?", true).Order("name ASC").Find(&members).Error; err != nil {
		return fmt.Errorf("ambil anggota: %w", err)
	}

	type agg struct {
		MemberID       uint
		LastAttendance *dbtime.DateOnly
	}
	var aggs []agg
	if err := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Select("member_id, MAX(date) AS last_attendance").
		Group("member_id").
		Scan(&aggs).Error; err != nil {
		return fmt.Errorf("agregasi kehadiran: %w", err)
	}
	lastByMember := make(map[uint]*dbtime.DateOnly, len(aggs))
	for _, a := range aggs {
		lastByMember[a.MemberID] = a.LastAttendance
	}

	type absentRow struct {
		MemberID       uint             `json:"member_id"`
		Name           string           `json:"name"`
		MemberCode     *string          `json:"member_code"`
		Phone          *string          `json:"phone"`
		Whatsapp       *string          `json:"whatsapp"`
		LastAttendance *dbtime.DateOnly `json:"last_attendance"`
		DaysAbsent     int              `json:"days_absent"`
	}

	today := dbtime.Today()
	out := make([]absentRow, 0)
	for i := range members {
		row := absentRow{
			MemberID:   members[i].ID,
			Name:       members[i].Name,
			MemberCode: members[i].MemberID,
			Phone:      members[i].Phone,
			Whatsapp:   members[i].Whatsapp,
			DaysAbsent: neverAttendedGap,
		}
		if d, ok := lastByMember[members[i].ID]; ok && d != nil && !d.IsZero() {
			row.LastAttendance = d
			row.DaysAbsent = d.DaysUntil(today)
		}
		if row.DaysAbsent > absentAfterDays {
			out = append(out, row)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysAbsent > out[j].DaysAbsent
	})
	return helper.JsonOK(c, "Anggota absen lebih dari 3 minggu", out)
}
