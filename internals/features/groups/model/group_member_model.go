package model

import (
	"time"

	memberModel "gerejaku_backend/internals/features/members/model"
)

// Satu-satunya mekanisme keanggotaan kelompok: join table group_members.
// Pasangan (group_id, member_id) unik.
type GroupMemberModel struct {
	ID       uint      `gorm:"column:id;primaryKey" json:"id"`
	GroupID  uint      `gorm:"column:group_id;not null;uniqueIndex:uq_group_members,priority:1" json:"group_id"`
	MemberID uint      `gorm:"column:member_id;not null;uniqueIndex:uq_group_members,priority:2;index" json:"member_id"`
	JoinedAt time.Time `gorm:"column:joined_at;not null;autoCreateTime" json:"joined_at"`

	Group  GroupModel              `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	Member memberModel.MemberModel `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"-"`
}

func (GroupMemberModel) TableName() string { return "group_members" }
