package dto

import (
	"strings"
	"time"

	m "gerejaku_backend/internals/features/members/model"
	"gerejaku_backend/internals/helpers/dbtime"
	"gerejaku_backend/internals/helpers/storage"
)

/* =========================================================
   CREATE
   ========================================================= */

// Hanya name yang wajib; sisanya opsional (boleh null).
type CreateMemberRequest struct {
	Name  string  `json:"name" validate:"required,min=1,max=160"`
	Email *string `json:"email" validate:"omitempty,max=160"`
	Phone *string `json:"phone" validate:"omitempty,max=40"`

	Address      *string `json:"address"`
	Street       *string `json:"street"`
	Neighborhood *string `json:"neighborhood"`
	City         *string `json:"city"`

	HomePhone *string `json:"home_phone"`
	CellPhone *string `json:"cell_phone"`
	Whatsapp  *string `json:"whatsapp"`
	Instagram *string `json:"instagram"`
	Facebook  *string `json:"facebook"`

	MaritalStatus *string          `json:"marital_status"`
	BirthDate     *dbtime.DateOnly `json:"birth_date"`
	MemberSince   *dbtime.DateOnly `json:"member_since"`

	// diisi dari hasil POST /upload-photo (nama file saja)
	PhotoPath *string `json:"photo_path"`
	FilesPath *string `json:"files_path"`
}

func (r *CreateMemberRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	trimPtr(&r.Email)
	trimPtr(&r.Phone)
	trimPtr(&r.Address)
	trimPtr(&r.Street)
	trimPtr(&r.Neighborhood)
	trimPtr(&r.City)
	trimPtr(&r.HomePhone)
	trimPtr(&r.CellPhone)
	trimPtr(&r.Whatsapp)
	trimPtr(&r.Instagram)
	trimPtr(&r.Facebook)
	trimPtr(&r.MaritalStatus)
	trimPtr(&r.FilesPath)

	// photo_path: buang komponen direktori, simpan nama file saja
	if r.PhotoPath != nil {
		p := storage.NormalizePhotoPath(*r.PhotoPath)
		if p == "" {
			r.PhotoPath = nil
		} else {
			r.PhotoPath = &p
		}
	}
}

func (r CreateMemberRequest) ToModel() m.MemberModel {
	return m.MemberModel{
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		Street:        r.Street,
		Neighborhood:  r.Neighborhood,
		City:          r.City,
		HomePhone:     r.HomePhone,
		CellPhone:     r.CellPhone,
		Whatsapp:      r.Whatsapp,
		Instagram:     r.Instagram,
		Facebook:      r.Facebook,
		MaritalStatus: r.MaritalStatus,
		BirthDate:     r.BirthDate,
		MemberSince:   r.MemberSince,
		PhotoPath:     r.PhotoPath,
		FilesPath:     r.FilesPath,
		IsActive:      true,
	}
}

/* =========================================================
   UPDATE — partial merge: field nil = pertahankan nilai lama.
   Daftar field di sini sekaligus allowlist kolom yang boleh
   ditulis; tidak ada SET clause yang dirakit dari input bebas.
   ========================================================= */

type UpdateMemberRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=160"`
	Email *string `json:"email" validate:"omitempty,max=160"`
	Phone *string `json:"phone" validate:"omitempty,max=40"`

	Address      *string `json:"address"`
	Street       *string `json:"street"`
	Neighborhood *string `json:"neighborhood"`
	City         *string `json:"city"`

	HomePhone *string `json:"home_phone"`
	CellPhone *string `json:"cell_phone"`
	Whatsapp  *string `json:"whatsapp"`
	Instagram *string `json:"instagram"`
	Facebook  *string `json:"facebook"`

	MaritalStatus *string          `json:"marital_status"`
	BirthDate     *dbtime.DateOnly `json:"birth_date"`
	MemberSince   *dbtime.DateOnly `json:"member_since"`

	PhotoPath *string `json:"photo_path"`
	FilesPath *string `json:"files_path"`
}

func (r *UpdateMemberRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.PhotoPath != nil {
		p := storage.NormalizePhotoPath(*r.PhotoPath)
		r.PhotoPath = &p
	}
}

func (r UpdateMemberRequest) Apply(mo *m.MemberModel) {
	if r.Name != nil && *r.Name != "" {
		mo.Name = *r.Name
	}
	applyPtr(&mo.Email, r.Email)
	applyPtr(&mo.Phone, r.Phone)
	applyPtr(&mo.Address, r.Address)
	applyPtr(&mo.Street, r.Street)
	applyPtr(&mo.Neighborhood, r.Neighborhood)
	applyPtr(&mo.City, r.City)
	applyPtr(&mo.HomePhone, r.HomePhone)
	applyPtr(&mo.CellPhone, r.CellPhone)
	applyPtr(&mo.Whatsapp, r.Whatsapp)
	applyPtr(&mo.Instagram, r.Instagram)
	applyPtr(&mo.Facebook, r.Facebook)
	applyPtr(&mo.MaritalStatus, r.MaritalStatus)
	applyPtr(&mo.PhotoPath, r.PhotoPath)
	applyPtr(&mo.FilesPath, r.FilesPath)
	if r.BirthDate != nil {
		mo.BirthDate = r.BirthDate
	}
	if r.MemberSince != nil {
		mo.MemberSince = r.MemberSince
	}
	mo.UpdatedAt = time.Now()
}

/* =========================================================
   RESPONSE
   ========================================================= */

type MemberStats struct {
	TotalAttendance         int64            `json:"totalAttendance"`
	MonthlyAttendance       int64            `json:"monthlyAttendance"`
	LastAttendance          *dbtime.DateOnly `json:"lastAttendance"`
	DaysSinceLastAttendance *int             `json:"daysSinceLastAttendance"`
}

type MemberResponse struct {
	m.MemberModel
	Files []storage.FileInfo `json:"files,omitempty"`
	Stats *MemberStats       `json:"stats,omitempty"`
}

func FromModel(mo m.MemberModel) MemberResponse {
	if mo.PhotoPath != nil {
		p := storage.NormalizePhotoPath(*mo.PhotoPath)
		mo.PhotoPath = &p
	}
	return MemberResponse{MemberModel: mo}
}

func FromModels(rows []m.MemberModel) []MemberResponse {
	out := make([]MemberResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(rows[i]))
	}
	return out
}

// Baris hasil query ketidakhadiran (member + agregat kehadiran).
type AbsentMemberResponse struct {
	MemberResponse
	LastAttendance          *dbtime.DateOnly `json:"last_attendance"`
	DaysSinceLastAttendance int              `json:"days_since_last_attendance"`
	TotalAttendance         int64            `json:"total_attendance"`
}

/* ================= helpers ================= */

func trimPtr(pp **string) {
	if pp == nil || *pp == nil {
		return
	}
	v := strings.TrimSpace(**pp)
	if v == "" {
		*pp = nil
		return
	}
	*pp = &v
}

func applyPtr(dst **string, src *string) {
	if src != nil {
		*dst = src
	}
}
