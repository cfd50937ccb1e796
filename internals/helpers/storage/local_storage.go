package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"gerejaku_backend/internals/configs"
	helper "gerejaku_backend/internals/helpers"
)

// LocalStorage: penyimpanan upload di disk lokal, disajikan statik
// lewat /api/uploads/<filename>. Dokumen per anggota masuk subfolder
// member_<id>.

type LocalStorage struct {
	Dir string
}

type FileInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	Created time.Time `json:"created"`
}

func NewFromEnv() (*LocalStorage, error) {
	dir := configs.UploadDir
	if strings.TrimSpace(dir) == "" {
		dir = "./uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("gagal membuat direktori upload: %w", err)
	}
	return &LocalStorage{Dir: dir}, nil
}

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

func checkUpload(fh *multipart.FileHeader) error {
	if fh == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Tidak ada file dikirim")
	}
	if fh.Size > configs.MaxUploadSize {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "File terlalu besar")
	}
	ct := strings.ToLower(strings.TrimSpace(fh.Header.Get("Content-Type")))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	if !allowedUploadTypes[ct] {
		return fiber.NewError(fiber.StatusBadRequest, "Tipe file tidak diizinkan. Hanya JPG, PNG dan PDF")
	}
	return nil
}

// SavePhoto: re-encode ke WebP (resize bila perlu) lalu simpan dengan nama unik.
// Mengembalikan NAMA FILE saja; itu yang dipersist di kolom photo_path.
func (s *LocalStorage) SavePhoto(fh *multipart.FileHeader) (string, error) {
	if err := checkUpload(fh); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("gagal membuka file: %w", err)
	}
	defer src.Close()

	data, err := helper.ConvertToWebP(src, fh.Filename)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "File bukan gambar yang valid")
	}

	name := helper.GeneratePhotoFilename()
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("gagal menyimpan foto: %w", err)
	}
	return name, nil
}

// SaveMemberFile: simpan dokumen apa adanya ke folder member_<id>.
func (s *LocalStorage) SaveMemberFile(memberID uint, fh *multipart.FileHeader) (FileInfo, error) {
	if err := checkUpload(fh); err != nil {
		return FileInfo{}, err
	}

	dir := s.memberDir(memberID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return FileInfo{}, fmt.Errorf("gagal membuat folder anggota: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return FileInfo{}, fmt.Errorf("gagal membuka file: %w", err)
	}
	defer src.Close()

	name := helper.GenerateUniqueFilename(fh.Filename)
	dstPath := filepath.Join(dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return FileInfo{}, fmt.Errorf("gagal menyimpan file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		_ = os.Remove(dstPath)
		return FileInfo{}, fmt.Errorf("gagal menulis file: %w", err)
	}

	return FileInfo{
		Name:    fh.Filename,
		Path:    filepath.Join(fmt.Sprintf("member_%d", memberID), name),
		Size:    size,
		Created: time.Now(),
	}, nil
}

// ListMemberFiles: daftar dokumen di folder anggota (kosong bila belum ada).
func (s *LocalStorage) ListMemberFiles(memberID uint) ([]FileInfo, error) {
	dir := s.memberDir(memberID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []FileInfo{}, nil
		}
		return nil, err
	}

	out := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, FileInfo{
			Name:    e.Name(),
			Path:    filepath.Join(fmt.Sprintf("member_%d", memberID), e.Name()),
			Size:    info.Size(),
			Created: info.ModTime(),
		})
	}
	return out, nil
}

// Delete: hapus satu file upload berdasarkan nama (tanpa komponen direktori).
func (s *LocalStorage) Delete(name string) error {
	name = NormalizePhotoPath(name)
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *LocalStorage) memberDir(memberID uint) string {
	return filepath.Join(s.Dir, fmt.Sprintf("member_%d", memberID))
}

// NormalizePhotoPath: buang komponen direktori (termasuk backslash Windows
// dari data lama), sisakan nama file saja.
func NormalizePhotoPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return p
}
