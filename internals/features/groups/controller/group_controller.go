package controller

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	groupDTO "gerejaku_backend/internals/features/groups/dto"
	groupModel "gerejaku_backend/internals/features/groups/model"
	memberDTO "gerejaku_backend/internals/features/members/dto"
	memberModel "gerejaku_backend/internals/features/members/model"
	helper "gerejaku_backend/internals/helpers"
)

var validate = validator.New()

type GroupController struct {
	DB *gorm.DB
}

// GET /api/groups — kelompok aktif + jumlah anggota aktif masing-masing.
func (h *GroupController) List(c *fiber.Ctx) error {
	var rows []groupModel.GroupModel
	if err := h.DB.Where("is_active = ?", true).Order("name ASC").Find(&rows).Error; err != nil {
		return fmt.Errorf("ambil kelompok: %w", err)
	}

	counts, err := h.memberCounts()
	if err != nil {
		return err
	}

	out := make([]groupDTO.GroupResponse, 0, len(rows))
	for i := range rows {
		out = append(out, groupDTO.GroupResponse{
			GroupModel:  rows[i],
			MemberCount: counts[rows[i].ID],
		})
	}
	return helper.JsonOK(c, "Daftar kelompok", out)
}

// GET /api/groups/:id
func (h *GroupController) GetByID(c *fiber.Ctx) error {
	mo, err := h.find(c)
	if err != nil {
		return err
	}

	var count int64
	if err := h.DB.Table("group_members").
		Joins("JOIN members ON members.id = group_members.member_id AND members.is_active = ?", true).
		Where("group_members.group_id = ?", mo.ID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("hitung anggota kelompok: %w", err)
	}

	return helper.JsonOK(c, "Kelompok ditemukan", groupDTO.GroupResponse{
		GroupModel:  *mo,
		MemberCount: count,
	})
}

// POST /api/groups
func (h *GroupController) Create(c *fiber.Ctx) error {
	var req groupDTO.CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var count int64
	if err := h.DB.Model(&groupModel.GroupModel{}).
		Where("name = ?", req.Name).Count(&count).Error; err != nil {
		return fmt.Errorf("cek nama kelompok: %w", err)
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Nama kelompok sudah dipakai")
	}

	mo := req.ToModel()
	if err := h.DB.Create(&mo).Error; err != nil {
		return fmt.Errorf("buat kelompok: %w", err)
	}

	log.Printf("[INFO] kelompok dibuat id=%d name=%s", mo.ID, mo.Name)
	return helper.JsonCreated(c, "Kelompok berhasil dibuat", groupDTO.GroupResponse{GroupModel: mo})
}

// PUT /api/groups/:id
func (h *GroupController) Update(c *fiber.Ctx) error {
	mo, err := h.find(c)
	if err != nil {
		return err
	}

	var req groupDTO.UpdateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if req.Name != nil && *req.Name != "" && *req.Name != mo.Name {
		var count int64
		if err := h.DB.Model(&groupModel.GroupModel{}).
			Where("name = ? AND id <> ?", *req.Name, mo.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("cek nama kelompok: %w", err)
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Nama kelompok sudah dipakai")
		}
	}

	req.Apply(mo)
	if err := h.DB.Save(mo).Error; err != nil {
		return fmt.Errorf("update kelompok: %w", err)
	}
	return helper.JsonOK(c, "Kelompok berhasil diupdate", mo)
}

// DELETE /api/groups/:id — kelompok dan seluruh keanggotaannya dihapus;
// anggota sendiri tidak tersentuh.
func (h *GroupController) Delete(c *fiber.Ctx) error {
	mo, err := h.find(c)
	if err != nil {
		return err
	}

	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", mo.ID).
			Delete(&groupModel.GroupMemberModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(mo).Error
	}); err != nil {
		return fmt.Errorf("hapus kelompok: %w", err)
	}

	log.Printf("[INFO] kelompok dihapus id=%d name=%s", mo.ID, mo.Name)
	return helper.JsonOK(c, "Kelompok berhasil dihapus", nil)
}

// GET /api/groups/:id/members — anggota aktif di kelompok, urut nama.
func (h *GroupController) Members(c *fiber.Ctx) error {
	mo, err := h.find(c)
	if err != nil {
		return err
	}

	var members []memberModel.MemberModel
	if err := h.DB.Model(&memberModel.MemberModel{}).
		Joins("JOIN group_members ON group_members.member_id = members.id").
		Where("group_members.group_id = ? AND members.is_active = ?", mo.ID, true).
		Order("members.name ASC").
		Find(&members).Error; err != nil {
		return fmt.Errorf("ambil anggota kelompok: %w", err)
	}

	return helper.JsonOK(c, "Anggota kelompok", memberDTO.FromModels(members))
}

// POST /api/groups/:id/members — tambah anggota; yang sudah terdaftar dilewati.
func (h *GroupController) AddMembers(c *fiber.Ctx) error {
	mo, err := h.find(c)
	if err != nil {
		return err
	}

	req, err := parseMemberIDs(c)
	if err != nil {
		return err
	}

	added, err := h.attachMembers(h.DB, mo.ID, req.All())
	if err != nil {
		return err
	}

	log.Printf("[INFO] %d anggota ditambahkan ke kelompok id=%d", added, mo.ID)
	return helper.JsonOK(c, "Anggota berhasil ditambahkan", fiber.Map{"added": added})
}

// DELETE /api/groups/:id/members/:memberId
func (h *GroupController) RemoveMember(c *fiber.Ctx) error {
	mo, err := h.find(c)
	if err != nil {
		return err
	}
	memberID, err := strconv.Atoi(strings.TrimSpace(c.Params("memberId")))
	if err != nil || memberID < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "ID anggota tidak valid")
	}

	res := h.DB.Where("group_id = ? AND member_id = ?", mo.ID, memberID).
		Delete(&groupModel.GroupMemberModel{})
	if res.Error != nil {
		return fmt.Errorf("keluarkan anggota: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Anggota tidak terdaftar di kelompok ini")
	}

	return helper.JsonOK(c, "Anggota dikeluarkan dari kelompok", nil)
}

// POST /api/groups/:id/associate — ganti seluruh keanggotaan kelompok
// dengan daftar yang dikirim (replace-all, transaksional).
func (h *GroupController) Associate(c *fiber.Ctx) error {
	mo, err := h.find(c)
	if err != nil {
		return err
	}

	req, err := parseMemberIDs(c)
	if err != nil {
		return err
	}

	var added int64
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", mo.ID).
			Delete(&groupModel.GroupMemberModel{}).Error; err != nil {
			return err
		}
		n, err := h.attachMembers(tx, mo.ID, req.All())
		added = n
		return err
	}); err != nil {
		return fmt.Errorf("asosiasi kelompok: %w", err)
	}

	log.Printf("[INFO] keanggotaan kelompok id=%d diganti, %d anggota", mo.ID, added)
	return helper.JsonOK(c, "Keanggotaan kelompok berhasil diganti", fiber.Map{"member_count": added})
}

/* ================= internal ================= */

func (h *GroupController) find(c *fiber.Ctx) (*groupModel.GroupModel, error) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || id < 1 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	var mo groupModel.GroupModel
	if err := h.DB.Where("id = ? AND is_active = ?", id, true).First(&mo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Kelompok tidak ditemukan")
		}
		return nil, fmt.Errorf("ambil kelompok: %w", err)
	}
	return &mo, nil
}

func parseMemberIDs(c *fiber.Ctx) (*groupDTO.AddMembersRequest, error) {
	var req groupDTO.AddMembersRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	ids := req.All()
	if len(ids) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "member_ids wajib diisi")
	}
	for _, id := range ids {
		if id < 1 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "member_ids memuat ID tidak valid")
		}
	}
	return &req, nil
}

// attachMembers: validasi anggota aktif lalu insert; pasangan yang sudah
// ada dilewati (unik di uq_group_members).
func (h *GroupController) attachMembers(tx *gorm.DB, groupID uint, memberIDs []uint) (int64, error) {
	var valid []uint
	if err := tx.Model(&memberModel.MemberModel{}).
		Where("id IN ? AND is_active = ?", memberIDs, true).
		Pluck("id", &valid).Error; err != nil {
		return 0, fmt.Errorf("validasi anggota: %w", err)
	}
	if len(valid) == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Tidak ada anggota aktif yang valid")
	}

	var added int64
	for _, id := range valid {
		var exists int64
		if err := tx.Model(&groupModel.GroupMemberModel{}).
			Where("group_id = ? AND member_id = ?", groupID, id).
			Count(&exists).Error; err != nil {
			return added, err
		}
		if exists > 0 {
			continue
		}
		if err := tx.Create(&groupModel.GroupMemberModel{GroupID: groupID, MemberID: id}).Error; err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// memberCounts: jumlah anggota aktif per kelompok dalam satu query.
func (h *GroupController) memberCounts() (map[uint]int64, error) {
	type row struct {
		GroupID uint
		Total   int64
	}
	var rows []row
	if err := h.DB.Table("group_members").
		Select("group_members.group_id, COUNT(*) AS total").
		Joins("JOIN members ON members.id = group_members.member_id AND members.is_active = ?", true).
		Group("group_members.group_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("hitung anggota kelompok: %w", err)
	}
	out := make(map[uint]int64, len(rows))
	for _, r := range rows {
		out[r.GroupID] = r.Total
	}
	return out, nil
}
