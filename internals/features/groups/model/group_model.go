package model

import "time"

type GroupModel struct {
	ID          uint    `gorm:"column:id;primaryKey" json:"id"`
	Name        string  `gorm:"column:name;type:varchar(120);not null;uniqueIndex" json:"name"`
	Description *string `gorm:"column:description;type:text" json:"description"`
	Color       string  `gorm:"column:color;type:varchar(16);not null;default:'#3B82F6'" json:"color"`
	IsActive    bool    `gorm:"column:is_active;not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
}

func (GroupModel) TableName() string { return "groups" }
