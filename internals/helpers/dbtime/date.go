package dbtime

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ISODate = format nama sheet & kolom DATE.
const ISODate = "2006-01-02"

// Date = tanggal kalender tanpa jam/zona (kolom checkin_date).
type Date struct{ time.Time }

// DateOf mengambil tanggal kalender dari t pada zonanya sendiri.
// Panggil dengan t yang sudah di-.In(loc) deployment.
func DateOf(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate hanya menerima tepat YYYY-MM-DD (input dari query/CLI).
func ParseDate(s string) (Date, error) {
	var d Date
	return d, d.parse(s)
}

// parseLoose untuk nilai dari driver: "2024-01-11T00:00:00Z" → 2024-01-11.
func (d *Date) parseLoose(s string) error {
	s = strings.TrimSpace(s)
	if len(s) > len(ISODate) {
		s = s[:len(ISODate)]
	}
	return d.parse(s)
}

func (d *Date) parse(s string) error {
	s = strings.TrimSpace(s)
	tt, err := time.Parse(ISODate, s)
	if err != nil {
		return fmt.Errorf("date: %q bukan YYYY-MM-DD", s)
	}
	*d = DateOf(tt)
	return nil
}

func (d Date) String() string {
	return d.Format(ISODate)
}

func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

// Scan: sqlite (mattn) mengembalikan time.Time untuk kolom DATE,
// postgres via pgx juga time.Time; string untuk jaga-jaga.
func (d *Date) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*d = DateOf(x)
		return nil
	case []byte:
		return d.parseLoose(string(x))
	case string:
		return d.parseLoose(x)
	case nil:
		d.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("date: unsupported Scan type %T", v)
	}
}

func (d Date) Value() (driver.Value, error) {
	if d.Time.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.parse(s)
}
