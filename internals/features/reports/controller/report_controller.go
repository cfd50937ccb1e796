package controller

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceModel "gerejaku_backend/internals/features/attendance/model"
	groupModel "gerejaku_backend/internals/features/groups/model"
	memberModel "gerejaku_backend/internals/features/members/model"
	serviceTypeModel "gerejaku_backend/internals/features/service_types/model"
	helper "gerejaku_backend/internals/helpers"
	"gerejaku_backend/internals/helpers/dbtime"
)

// Laporan = agregasi baca murni, dihitung ulang dari nol setiap panggilan.
// Tidak ada cache atau pemeliharaan inkremental.

type ReportController struct {
	DB *gorm.DB
}

type groupScore struct {
	GroupID     uint   `json:"group_id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	MemberCount int64  `json:"member_count"`
	Present     int64  `json:"present"`
	Score       int    `json:"score"`
}

type topMemberRow struct {
	MemberID   uint    `json:"member_id"`
	Name       string  `json:"name"`
	MemberCode *string `json:"member_code"`
	Total      int64   `json:"total"`
}

// GET /api/reports/dashboard-stats?group_id=
// Ringkasan untuk halaman depan: total entitas, kehadiran hari
// ini/minggu/bulan ini, dan skor kelompok 30 hari terakhir
// (group_id membatasi skor ke satu kelompok).
func (h *ReportController) DashboardStats(c *fiber.Ctx) error {
	var groupID *uint
	if v := strings.TrimSpace(c.Query("group_id")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "group_id tidak valid")
		}
		g := uint(n)
		groupID = &g
	}

	var totalMembers, totalGroups, totalServiceTypes int64
	if err := h.DB.Model(&memberModel.MemberModel{}).
		Where("is_active = ?", true).Count(&totalMembers).Error; err != nil {
		return fmt.Errorf("hitung anggota: %w", err)
	}
	if err := h.DB.Model(&groupModel.GroupModel{}).
		Where("is_active = ?", true).Count(&totalGroups).Error; err != nil {
		return fmt.Errorf("hitung kelompok: %w", err)
	}
	if err := h.DB.Model(&serviceTypeModel.ServiceTypeModel{}).
		Count(&totalServiceTypes).Error; err != nil {
		return fmt.Errorf("hitung jenis ibadah: %w", err)
	}

	today := dbtime.Today()
	weekStart := dbtime.FromTime(today.AddDate(0, 0, -6))
	now := time.Now()
	monthStart := dbtime.FromTime(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC))

	countBetween := func(start, end dbtime.DateOnly) (int64, error) {
		var n int64
		err := h.DB.Model(&attendanceModel.AttendanceModel{}).
			Where("date BETWEEN ? AND ?", start, end).Count(&n).Error
		return n, err
	}

	attendanceToday, err := countBetween(today, today)
	if err != nil {
		return fmt.Errorf("kehadiran hari ini: %w", err)
	}
	attendanceWeek, err := countBetween(weekStart, today)
	if err != nil {
		return fmt.Errorf("kehadiran minggu ini: %w", err)
	}
	attendanceMonth, err := countBetween(monthStart, today)
	if err != nil {
		return fmt.Errorf("kehadiran bulan ini: %w", err)
	}

	windowStart := dbtime.FromTime(today.AddDate(0, 0, -29))
	scores, err := h.groupScores(windowStart, today, groupID)
	if err != nil {
		return err
	}

	return helper.JsonOK(c, "Statistik dashboard", fiber.Map{
		"totalMembers":      totalMembers,
		"totalGroups":       totalGroups,
		"totalServiceTypes": totalServiceTypes,
		"attendanceToday":   attendanceToday,
		"attendanceWeek":    attendanceWeek,
		"attendanceMonth":   attendanceMonth,
		"groupScores":       scores,
	})
}

// GET /api/reports/monthly?year=&month=&group_id=
// Default bulan berjalan. group_id membatasi total anggota & top list
// ke satu kelompok.
func (h *ReportController) Monthly(c *fiber.Ctx) error {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if v := strings.TrimSpace(c.Query("year")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1900 || n > 2200 {
			return fiber.NewError(fiber.StatusBadRequest, "year tidak valid")
		}
		year = n
	}
	if v := strings.TrimSpace(c.Query("month")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month tidak valid (1-12)")
		}
		month = n
	}

	var groupID *uint
	if v := strings.TrimSpace(c.Query("group_id")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "group_id tidak valid")
		}
		g := uint(n)
		groupID = &g
	}

	start := dbtime.FromTime(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
	end := dbtime.FromTime(start.AddDate(0, 1, -1))

	memberQ := h.DB.Model(&memberModel.MemberModel{}).Where("is_active = ?", true)
	if groupID != nil {
		memberQ = memberQ.Where("id IN (SELECT member_id FROM group_members WHERE group_id = ?)", *groupID)
	}
	var totalMembers int64
	if err := memberQ.Count(&totalMembers).Error; err != nil {
		return fmt.Errorf("hitung anggota: %w", err)
	}

	attQ := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Where("date BETWEEN ? AND ?", start, end)
	if groupID != nil {
		attQ = attQ.Where("member_id IN (SELECT member_id FROM group_members WHERE group_id = ?)", *groupID)
	}
	var totalAttendance int64
	if err := attQ.Count(&totalAttendance).Error; err != nil {
		return fmt.Errorf("hitung kehadiran: %w", err)
	}

	scores, err := h.groupScores(start, end, groupID)
	if err != nil {
		return err
	}

	topQ := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Select("attendance.member_id, members.name AS name, members.member_id AS member_code, COUNT(*) AS total").
		Joins("JOIN members ON members.id = attendance.member_id").
		Where("attendance.date BETWEEN ? AND ?", start, end).
		Group("attendance.member_id, members.name, members.member_id").
		Order("total DESC, name ASC").
		Limit(10)
	if groupID != nil {
		topQ = topQ.Where("attendance.member_id IN (SELECT member_id FROM group_members WHERE group_id = ?)", *groupID)
	}
	var topMembers []topMemberRow
	if err := topQ.Scan(&topMembers).Error; err != nil {
		return fmt.Errorf("top anggota: %w", err)
	}

	memberRows, err := h.monthlyMemberRows(start, end, groupID)
	if err != nil {
		return err
	}

	return helper.JsonOK(c, "Laporan bulanan", fiber.Map{
		"year":            year,
		"month":           month,
		"startDate":       start,
		"endDate":         end,
		"totalMembers":    totalMembers,
		"totalAttendance": totalAttendance,
		"groups":          scores,
		"topMembers":      topMembers,
		"members":         memberRows,
	})
}

type monthlyMemberRow struct {
	MemberID   uint    `json:"member_id"`
	Name       string  `json:"name"`
	MemberCode *string `json:"member_code"`
	Total      int64   `json:"total"`
	Status     string  `json:"status"` // "Hadir" bila minimal sekali hadir di bulan itu
}

// monthlyMemberRows: satu baris per anggota aktif dengan jumlah kehadiran
// pada bulan laporan; anggota tanpa kehadiran tetap muncul (status "Absen").
func (h *ReportController) monthlyMemberRows(start, end dbtime.DateOnly, groupID *uint) ([]monthlyMemberRow, error) {
	memberQ := h.DB.Model(&memberModel.MemberModel{}).
		Where("is_active = ?", true).Order("name ASC")
	if groupID != nil {
		memberQ = memberQ.Where("id IN (SELECT member_id FROM group_members WHERE group_id = ?)", *groupID)
	}
	var members []memberModel.MemberModel
	if err := memberQ.Find(&members).Error; err != nil {
		return nil, fmt.Errorf("ambil anggota: %w", err)
	}

	type countRow struct {
		MemberID uint
		Total    int64
	}
	var counts []countRow
	if err := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Select("member_id, COUNT(*) AS total").
		Where("date BETWEEN ? AND ?", start, end).
		Group("member_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("hitung kehadiran anggota: %w", err)
	}
	byMember := make(map[uint]int64, len(counts))
	for _, r := range counts {
		byMember[r.MemberID] = r.Total
	}

	out := make([]monthlyMemberRow, 0, len(members))
	for i := range members {
		row := monthlyMemberRow{
			MemberID:   members[i].ID,
			Name:       members[i].Name,
			MemberCode: members[i].MemberID,
			Total:      byMember[members[i].ID],
			Status:     "Absen",
		}
		if row.Total > 0 {
			row.Status = "Hadir"
		}
		out = append(out, row)
	}
	return out, nil
}

/* =========================================================
   Internal
   ========================================================= */

// groupScores: persentase kehadiran per kelompok dalam rentang tanggal.
// Ekspektasi = jumlah anggota aktif kelompok × jumlah hari ibadah unik
// dalam rentang; skor = round(present/ekspektasi × 100). Kelompok kosong
// (atau rentang tanpa ibadah) memberi skor 0, bukan pembagian nol.
func (h *ReportController) groupScores(start, end dbtime.DateOnly, onlyGroup *uint) ([]groupScore, error) {
	groupQ := h.DB.Model(&groupModel.GroupModel{}).Where("is_active = ?", true)
	if onlyGroup != nil {
		groupQ = groupQ.Where("id = ?", *onlyGroup)
	}
	var groups []groupModel.GroupModel
	if err := groupQ.Order("name ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("ambil kelompok: %w", err)
	}

	var serviceDays int64
	if err := h.DB.Model(&attendanceModel.AttendanceModel{}).
		Where("date BETWEEN ? AND ?", start, end).
		Distinct("date").Count(&serviceDays).Error; err != nil {
		return nil, fmt.Errorf("hitung hari ibadah: %w", err)
	}

	type memberCountRow struct {
		GroupID uint
		Total   int64
	}
	var memberCounts []memberCountRow
	if err := h.DB.Table("group_members").
		Select("group_members.group_id, COUNT(*) AS total").
		Joins("JOIN members ON members.id = group_members.member_id AND members.is_active = ?", true).
		Group("group_members.group_id").
		Scan(&memberCounts).Error; err != nil {
		return nil, fmt.Errorf("hitung anggota kelompok: %w", err)
	}
	membersByGroup := make(map[uint]int64, len(memberCounts))
	for _, r := range memberCounts {
		membersByGroup[r.GroupID] = r.Total
	}

	type presentRow struct {
		GroupID uint
		Total   int64
	}
	var presents []presentRow
	if err := h.DB.Table("attendance").
		Select("group_members.group_id, COUNT(*) AS total").
		Joins("JOIN group_members ON group_members.member_id = attendance.member_id").
		Where("attendance.date BETWEEN ? AND ?", start, end).
		Group("group_members.group_id").
		Scan(&presents).Error; err != nil {
		return nil, fmt.Errorf("hitung kehadiran kelompok: %w", err)
	}
	presentByGroup := make(map[uint]int64, len(presents))
	for _, r := range presents {
		presentByGroup[r.GroupID] = r.Total
	}

	out := make([]groupScore, 0, len(groups))
	for i := range groups {
		g := groups[i]
		row := groupScore{
			GroupID:     g.ID,
			Name:        g.Name,
			Color:       g.Color,
			MemberCount: membersByGroup[g.ID],
			Present:     presentByGroup[g.ID],
		}
		expected := row.MemberCount * serviceDays
		if expected > 0 {
			row.Score = int(math.Round(float64(row.Present) / float64(expected) * 100))
		}
		out = append(out, row)
	}

	// skor tertinggi dulu, nama sebagai tie-break
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
