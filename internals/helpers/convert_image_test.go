package helper

import (
	"bytes"
	"image"
	"image/png"
	"regexp"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "surat_baptis.pdf", SanitizeFilename("surat baptis.pdf"))
	assert.Equal(t, "foto-1_a.b_c.png", SanitizeFilename("foto-1 a.b/c.png"))
	assert.Equal(t, "_", SanitizeFilename("日本語"))
}

func TestGenerateUniqueFilename(t *testing.T) {
	a := GenerateUniqueFilename("kartu anggota.pdf")
	b := GenerateUniqueFilename("kartu anggota.pdf")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "kartu_anggota.pdf"))
}

func TestGeneratePhotoFilename(t *testing.T) {
	name := GeneratePhotoFilename()
	assert.Regexp(t, regexp.MustCompile(`^photo-\d+-[0-9a-f]{8}\.webp$`), name)
}

func TestConvertToWebPResizes(t *testing.T) {
	// PNG 200×100 → muat di kotak 50×50 dengan aspek terjaga
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := ConvertToWebPWithOptions(nopFile{bytes.NewReader(buf.Bytes())}, "foto.png",
		WebPOptions{MaxW: 50, MaxH: 50, Quality: 80})
	require.NoError(t, err)

	img, err := webp.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())
}

func TestConvertToWebPRejectsGarbage(t *testing.T) {
	_, err := ConvertToWebPWithOptions(nopFile{bytes.NewReader([]byte("bukan gambar"))}, "data.txt",
		WebPOptions{MaxW: 100, MaxH: 100, Quality: 80})
	assert.Error(t, err)
}

// adaptor kecil supaya io.Reader memenuhi multipart.File
type nopFile struct{ *bytes.Reader }

func (nopFile) Close() error { return nil }
