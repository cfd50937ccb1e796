package dto

import (
	"strings"
	"time"

	m "gerejaku_backend/internals/features/attendance/model"
	"gerejaku_backend/internals/helpers/dbtime"
)

/* =========================================================
   REQUEST — API berbicara nama jenis ibadah; resolusi ke
   service_type_id terjadi di controller.
   ========================================================= */

type MarkAttendanceRequest struct {
	MemberID    uint             `json:"memberId" validate:"required,min=1"`
	Date        *dbtime.DateOnly `json:"date"` // kosong = hari ini
	ServiceType string           `json:"serviceType" validate:"required,min=1,max=120"`
	Notes       *string          `json:"notes"`
}

func (r *MarkAttendanceRequest) Normalize() {
	r.ServiceType = strings.TrimSpace(r.ServiceType)
	if r.Notes != nil {
		v := strings.TrimSpace(*r.Notes)
		if v == "" {
			r.Notes = nil
		} else {
			r.Notes = &v
		}
	}
}

func (r MarkAttendanceRequest) EffectiveDate() dbtime.DateOnly {
	if r.Date != nil && !r.Date.IsZero() {
		return *r.Date
	}
	return dbtime.Today()
}

type BulkMarkAttendanceRequest struct {
	MemberIDs   []uint           `json:"memberIds" validate:"required,min=1,dive,min=1"`
	Date        *dbtime.DateOnly `json:"date"`
	ServiceType string           `json:"serviceType" validate:"required,min=1,max=120"`
	Notes       *string          `json:"notes"`
}

func (r BulkMarkAttendanceRequest) EffectiveDate() dbtime.DateOnly {
	if r.Date != nil && !r.Date.IsZero() {
		return dbtime.FromTime(r.Date.Time)
	}
	return dbtime.Today()
}

type UpdateAttendanceRequest struct {
	Date        *dbtime.DateOnly `json:"date"`
	ServiceType *string          `json:"serviceType" validate:"omitempty,min=1,max=120"`
	Notes       *string          `json:"notes"`
}

/* =========================================================
   RESPONSE
   ========================================================= */

type AttendanceResponse struct {
	ID          uint            `json:"id"`
	MemberID    uint            `json:"member_id"`
	MemberName  string          `json:"member_name"`
	MemberCode  *string         `json:"member_code"`
	Date        dbtime.DateOnly `json:"date"`
	ServiceType string          `json:"service_type"`
	Notes       *string         `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}

// MarkResult menandai apakah baris sudah ada sebelumnya (penandaan ganda).
type MarkResult struct {
	AttendanceResponse
	AlreadyMarked bool `json:"alreadyMarked"`
}

// Hasil bulk: sukses dan gagal dilaporkan per anggota, operasi tidak
// berhenti di kegagalan pertama.
type BulkMarkResult struct {
	Success []MarkResult    `json:"success"`
	Errors  []BulkMarkError `json:"errors"`
}

type BulkMarkError struct {
	MemberID uint   `json:"member_id"`
	Message  string `json:"message"`
}

// FromModel merangkai response dari baris attendance + nama yang sudah
// di-resolve (join dikerjakan controller).
func FromModel(a m.AttendanceModel, memberName string, memberCode *string, serviceType string) AttendanceResponse {
	return AttendanceResponse{
		ID:          a.ID,
		MemberID:    a.MemberID,
		MemberName:  memberName,
		MemberCode:  memberCode,
		Date:        a.Date,
		ServiceType: serviceType,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
	}
}
