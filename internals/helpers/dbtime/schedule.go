package dbtime

import (
	"fmt"
	"strings"
	"time"
)

// Jadwal ibadah disimpan sebagai string token "HH:MM" yang digabung koma
// (mis. "09:00, 18:30"). Bukan list terstruktur; di sini hanya divalidasi
// dan dinormalisasi.

// ParseClock: validasi satu token "HH:MM".
func ParseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", fmt.Errorf("token jam tidak valid: %q", s)
	}
	return t.Format("15:04"), nil
}

// NormalizeSchedule: trim tiap token, validasi, gabung ulang dengan ", ".
// String kosong dianggap sah (jadwal belum diisi).
func NormalizeSchedule(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		tok, err := ParseClock(p)
		if err != nil {
			return "", err
		}
		out = append(out, tok)
	}
	return strings.Join(out, ", "), nil
}
