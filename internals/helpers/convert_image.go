package helper

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

/* =======================================================================
   Re-encode foto ke WebP (resize keep-aspect + lossy quality)
======================================================================= */

type WebPOptions struct {
	MaxW    int     // batas lebar (resize keep-aspect)
	MaxH    int     // batas tinggi
	Quality float32 // lossy quality
}

func defaultWebPOptionsFromEnv() WebPOptions {
	return WebPOptions{
		MaxW:    envInt("IMAGE_WEBP_MAX_W", 1600),
		MaxH:    envInt("IMAGE_WEBP_MAX_H", 1600),
		Quality: envFloat("IMAGE_WEBP_QUALITY", 80),
	}
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float32) float32 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil && f > 0 {
			return float32(f)
		}
	}
	return def
}

// decodeImage: jpeg/png/webp dari []byte dengan sniff MIME, fallback ekstensi.
func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		return png.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		return webp.Decode(bytes.NewReader(all))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return jpeg.Decode(bytes.NewReader(all))
	case ".png":
		return png.Decode(bytes.NewReader(all))
	case ".webp":
		return webp.Decode(bytes.NewReader(all))
	}
	return nil, fmt.Errorf("format tidak didukung: %s / %s", ct, ext)
}

// ConvertToWebP: baca → decode → resize bila perlu → encode webp (opsi dari ENV).
func ConvertToWebP(file multipart.File, filename string) ([]byte, error) {
	return ConvertToWebPWithOptions(file, filename, defaultWebPOptionsFromEnv())
}

func ConvertToWebPWithOptions(file multipart.File, filename string, opts WebPOptions) ([]byte, error) {
	all, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	img, err := decodeImage(all, filename)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if (opts.MaxW > 0 && b.Dx() > opts.MaxW) || (opts.MaxH > 0 && b.Dy() > opts.MaxH) {
		img = imaging.Fit(img, opts.MaxW, opts.MaxH, imaging.Lanczos)
	}

	q := opts.Quality
	if q <= 0 {
		q = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

/* =======================================================================
   Nama file unik
======================================================================= */

var unsafeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

// sanitizeFilename: hapus karakter selain huruf, angka, titik, dash, underscore.
func SanitizeFilename(filename string) string {
	return unsafeFilenameRe.ReplaceAllString(filename, "_")
}

func GenerateUniqueFilename(originalFilename string) string {
	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("%s-%s-%s", timestamp, uuid.New().String(), SanitizeFilename(originalFilename))
}

// GeneratePhotoFilename: nama untuk foto anggota hasil re-encode.
func GeneratePhotoFilename() string {
	return fmt.Sprintf("photo-%d-%s.webp", time.Now().UnixMilli(), uuid.New().String()[:8])
}
