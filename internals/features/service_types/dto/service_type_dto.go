package dto

import (
	"strings"

	m "gerejaku_backend/internals/features/service_types/model"
	"gerejaku_backend/internals/helpers/dbtime"
)

type CreateServiceTypeRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=120"`
	Description *string `json:"description"`
	Schedule    *string `json:"schedule"`

	FaithCampaign *string `json:"faith_campaign"`
	PastorName    *string `json:"pastor_name" validate:"omitempty,max=160"`
	PastorTitle   *string `json:"pastor_title" validate:"omitempty,max=120"`
}

// Normalize merapikan input; schedule divalidasi sebagai daftar "HH:MM"
// dipisah koma dan disimpan dalam bentuk kanonik ("08:00, 17:00").
func (r *CreateServiceTypeRequest) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	trimPtr(&r.Description)
	trimPtr(&r.FaithCampaign)
	trimPtr(&r.PastorName)
	trimPtr(&r.PastorTitle)

	if r.Schedule != nil {
		s, err := dbtime.NormalizeSchedule(*r.Schedule)
		if err != nil {
			return err
		}
		if s == "" {
			r.Schedule = nil
		} else {
			r.Schedule = &s
		}
	}
	return nil
}

func (r CreateServiceTypeRequest) ToModel() m.ServiceTypeModel {
	return m.ServiceTypeModel{
		Name:          r.Name,
		Description:   r.Description,
		Schedule:      r.Schedule,
		FaithCampaign: r.FaithCampaign,
		PastorName:    r.PastorName,
		PastorTitle:   r.PastorTitle,
	}
}

type UpdateServiceTypeRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description"`
	Schedule    *string `json:"schedule"`

	FaithCampaign *string `json:"faith_campaign"`
	PastorName    *string `json:"pastor_name" validate:"omitempty,max=160"`
	PastorTitle   *string `json:"pastor_title" validate:"omitempty,max=120"`
}

func (r *UpdateServiceTypeRequest) Normalize() error {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.Schedule != nil {
		s, err := dbtime.NormalizeSchedule(*r.Schedule)
		if err != nil {
			return err
		}
		r.Schedule = &s
	}
	return nil
}

func (r UpdateServiceTypeRequest) Apply(mo *m.ServiceTypeModel) {
	if r.Name != nil && *r.Name != "" {
		mo.Name = *r.Name
	}
	applyPtr(&mo.Description, r.Description)
	applyPtr(&mo.Schedule, r.Schedule)
	applyPtr(&mo.FaithCampaign, r.FaithCampaign)
	applyPtr(&mo.PastorName, r.PastorName)
	applyPtr(&mo.PastorTitle, r.PastorTitle)
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

func applyPtr(dst **string, src *string) {
	if src != nil {
		*dst = src
	}
}
