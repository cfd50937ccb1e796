package dto

import (
	"strings"

	m "gerejaku_backend/internals/features/groups/model"
)

const defaultGroupColor = "#3B82F6"

type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=120"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
}

func (r *CreateGroupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	trimPtr(&r.Description)
	trimPtr(&r.Color)
}

func (r CreateGroupRequest) ToModel() m.GroupModel {
	color := defaultGroupColor
	if r.Color != nil {
		color = *r.Color
	}
	return m.GroupModel{
		Name:        r.Name,
		Description: r.Description,
		Color:       color,
		IsActive:    true,
	}
}

type UpdateGroupRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	IsActive    *bool   `json:"is_active"`
}

func (r *UpdateGroupRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	trimPtr(&r.Color)
}

func (r UpdateGroupRequest) Apply(mo *m.GroupModel) {
	if r.Name != nil && *r.Name != "" {
		mo.Name = *r.Name
	}
	if r.Description != nil {
		mo.Description = r.Description
	}
	if r.Color != nil {
		mo.Color = *r.Color
	}
	if r.IsActive != nil {
		mo.IsActive = *r.IsActive
	}
}

// GroupResponse menambahkan jumlah anggota aktif di kelompok.
type GroupResponse struct {
	m.GroupModel
	MemberCount int64 `json:"member_count"`
}

// AddMembersRequest dipakai POST /:id/members dan /:id/associate.
// Terima member_ids (array) atau member_id tunggal.
type AddMembersRequest struct {
	MemberID  *uint  `json:"member_id"`
	MemberIDs []uint `json:"member_ids"`
}

// All menggabungkan kedua bentuk payload jadi satu daftar.
func (r AddMembersRequest) All() []uint {
	ids := r.MemberIDs
	if r.MemberID != nil {
		ids = append(ids, *r.MemberID)
	}
	return ids
}

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
