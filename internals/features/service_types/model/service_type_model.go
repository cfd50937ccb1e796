package model

import "time"

// ServiceType: kategori ibadah (mis. "Ibadah Minggu").
// schedule: token "HH:MM" digabung koma, divalidasi di DTO — bukan list
// terstruktur.
type ServiceTypeModel struct {
	ID          uint    `gorm:"column:id;primaryKey" json:"id"`
	Name        string  `gorm:"column:name;type:varchar(120);not null;uniqueIndex" json:"name"`
	Description *string `gorm:"column:description;type:text" json:"description"`
	Schedule    *string `gorm:"column:schedule;type:text" json:"schedule"`

	FaithCampaign *string `gorm:"column:faith_campaign;type:text" json:"faith_campaign"`
	PastorName    *string `gorm:"column:pastor_name;type:varchar(160)" json:"pastor_name"`
	PastorTitle   *string `gorm:"column:pastor_title;type:varchar(120)" json:"pastor_title"`

	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
}

func (ServiceTypeModel) TableName() string { return "service_types" }
