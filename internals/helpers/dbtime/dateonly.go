package dbtime

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateOnly: tanggal kalender tanpa jam (kolom DATE).
type DateOnly struct{ time.Time }

// FromTime: ambil tanggal, buang jam & zona.
func FromTime(t time.Time) DateOnly {
	return DateOnly{
		Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// ParseDate: bikin DateOnly dari string "YYYY-MM-DD".
func ParseDate(s string) (DateOnly, error) {
	var d DateOnly
	return d, d.parse(s)
}

func Today() DateOnly { return FromTime(time.Now()) }

// Scan: terima time.Time atau string ("YYYY-MM-DD[...]")
func (d *DateOnly) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*d = FromTime(x)
		return nil
	case []byte:
		return d.parse(string(x))
	case string:
		return d.parse(x)
	case nil:
		d.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("dateonly: unsupported Scan type %T", v)
	}
}

func (d *DateOnly) parse(s string) error {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) { // buang komponen waktu ("2024-01-07 00:00:00" / RFC3339)
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Value: kirim "YYYY-MM-DD" agar kolom DATE paham di kedua backend.
func (d DateOnly) Value() (driver.Value, error) {
	if d.Time.IsZero() {
		return nil, nil
	}
	return d.Format(dateLayout), nil
}

func (DateOnly) GormDataType() string { return "date" }

func (d DateOnly) String() string { return d.Format(dateLayout) }

func (d DateOnly) IsZero() bool { return d.Time.IsZero() }

// DaysUntil: selisih hari kalender d → other (positif jika other setelah d).
func (d DateOnly) DaysUntil(other DateOnly) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

// JSON codec konsisten "YYYY-MM-DD"
func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.parse(s)
}
