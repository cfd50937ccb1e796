package storage

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gerejaku_backend/internals/configs"
)

func makeFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestSaveAndListMemberFiles(t *testing.T) {
	configs.MaxUploadSize = 10 << 20
	s := &LocalStorage{Dir: t.TempDir()}

	fh := makeFileHeader(t, "surat baptis.pdf", "application/pdf", []byte("%PDF-1.4 dummy"))
	info, err := s.SaveMemberFile(7, fh)
	require.NoError(t, err)
	assert.Equal(t, "surat baptis.pdf", info.Name)
	assert.Equal(t, int64(len("%PDF-1.4 dummy")), info.Size)
	assert.Contains(t, info.Path, "member_7/")

	files, err := s.ListMemberFiles(7)
	require.NoError(t, err)
	require.Len(t, files, 1)

	// anggota tanpa folder → slice kosong, bukan error
	files, err = s.ListMemberFiles(99)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestUploadRejections(t *testing.T) {
	configs.MaxUploadSize = 16
	s := &LocalStorage{Dir: t.TempDir()}

	// tipe tidak diizinkan
	fh := makeFileHeader(t, "virus.exe", "application/octet-stream", []byte("MZ"))
	_, err := s.SaveMemberFile(1, fh)
	assert.Error(t, err)

	// terlalu besar
	fh = makeFileHeader(t, "big.pdf", "application/pdf", bytes.Repeat([]byte("a"), 32))
	_, err = s.SaveMemberFile(1, fh)
	assert.Error(t, err)
}

func TestDeleteTolerant(t *testing.T) {
	s := &LocalStorage{Dir: t.TempDir()}
	// file tidak ada bukan error
	assert.NoError(t, s.Delete("tidak-ada.webp"))
	assert.NoError(t, s.Delete(""))
}

func TestNormalizePhotoPath(t *testing.T) {
	assert.Equal(t, "foto.webp", NormalizePhotoPath("uploads/foto.webp"))
	assert.Equal(t, "foto.webp", NormalizePhotoPath(`C:\uploads\foto.webp`))
	assert.Equal(t, "foto.webp", NormalizePhotoPath("  foto.webp "))
	assert.Equal(t, "", NormalizePhotoPath(""))
	assert.Equal(t, "x.webp", NormalizePhotoPath("../../x.webp"))
}
