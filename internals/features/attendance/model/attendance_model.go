package model

import (
	"time"

	memberModel "gerejaku_backend/internals/features/members/model"
	serviceTypeModel "gerejaku_backend/internals/features/service_types/model"
	"gerejaku_backend/internals/helpers/dbtime"
)

// Satu baris = satu kehadiran (member, tanggal, jenis ibadah).
// Unik pada triple → penandaan ganda tidak mungkin menghasilkan dua baris;
// insert memakai ON CONFLICT DO NOTHING (lihat controller).
// service_type_id adalah FK sungguhan (RESTRICT), bukan nama bebas.
type AttendanceModel struct {
	ID            uint            `gorm:"column:id;primaryKey" json:"id"`
	MemberID      uint            `gorm:"column:member_id;not null;uniqueIndex:uq_attendance_triple,priority:1" json:"member_id"`
	Date          dbtime.DateOnly `gorm:"column:date;type:date;not null;uniqueIndex:uq_attendance_triple,priority:2;index" json:"date"`
	ServiceTypeID uint            `gorm:"column:service_type_id;not null;uniqueIndex:uq_attendance_triple,priority:3;index" json:"service_type_id"`

	Notes     *string   `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`

	Member      memberModel.MemberModel           `gorm:"foreignKey:MemberID;constraint:OnDelete:RESTRICT" json:"-"`
	ServiceType serviceTypeModel.ServiceTypeModel `gorm:"foreignKey:ServiceTypeID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (AttendanceModel) TableName() string { return "attendance" }
