package model

import (
	"time"

	"gerejaku_backend/internals/helpers/dbtime"
)

// NOTE:
// - member_id: kode manusia "MEM0001", diberikan saat create (lihat controller)
// - soft delete pakai is_active + deleted_at + delete_reason; baris TIDAK
//   pernah dihapus supaya riwayat kehadiran tetap utuh
// - keanggotaan kelompok HANYA lewat tabel group_members (bukan kolom di sini)
type MemberModel struct {
	ID       uint    `gorm:"column:id;primaryKey" json:"id"`
	MemberID *string `gorm:"column:member_id;type:varchar(20);uniqueIndex" json:"member_id"`

	Name  string  `gorm:"column:name;type:varchar(160);not null" json:"name"`
	Email *string `gorm:"column:email;type:varchar(160)" json:"email"`
	Phone *string `gorm:"column:phone;type:varchar(40)" json:"phone"`

	Address      *string `gorm:"column:address;type:text" json:"address"`
	Street       *string `gorm:"column:street;type:varchar(160)" json:"street"`
	Neighborhood *string `gorm:"column:neighborhood;type:varchar(120)" json:"neighborhood"`
	City         *string `gorm:"column:city;type:varchar(120)" json:"city"`

	HomePhone *string `gorm:"column:home_phone;type:varchar(40)" json:"home_phone"`
	CellPhone *string `gorm:"column:cell_phone;type:varchar(40)" json:"cell_phone"`
	Whatsapp  *string `gorm:"column:whatsapp;type:varchar(40)" json:"whatsapp"`
	Instagram *string `gorm:"column:instagram;type:varchar(80)" json:"instagram"`
	Facebook  *string `gorm:"column:facebook;type:varchar(80)" json:"facebook"`

	MaritalStatus *string          `gorm:"column:marital_status;type:varchar(40)" json:"marital_status"`
	BirthDate     *dbtime.DateOnly `gorm:"column:birth_date;type:date" json:"birth_date"`
	MemberSince   *dbtime.DateOnly `gorm:"column:member_since;type:date" json:"member_since"`

	// nama file saja, tanpa komponen direktori
	PhotoPath *string `gorm:"column:photo_path;type:text" json:"photo_path"`
	FilesPath *string `gorm:"column:files_path;type:text" json:"files_path"`

	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	DeletedAt    *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	DeleteReason *string    `gorm:"column:delete_reason;type:text" json:"delete_reason,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
}

func (MemberModel) TableName() string { return "members" }
