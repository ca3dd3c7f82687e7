package utils

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const DateOnlyLayout = "2006-01-02"

type DateOnly time.Time

// NewDateOnly truncates t to its calendar day in UTC.
func NewDateOnly(t time.Time) DateOnly {
	return DateOnly(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}

func ParseDateOnly(s string) (DateOnly, error) {
	t, err := time.Parse(DateOnlyLayout, s)
	if err != nil {
		return DateOnly{}, err
	}
	return DateOnly(t), nil
}

func (d DateOnly) Time() time.Time {
	return time.Time(d)
}

func (d DateOnly) String() string {
	return time.Time(d).Format(DateOnlyLayout)
}

func (d DateOnly) Before(other DateOnly) bool {
	return time.Time(d).Before(time.Time(other))
}

func (d DateOnly) After(other DateOnly) bool {
	return time.Time(d).After(time.Time(other))
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	t, err := time.Parse(DateOnlyLayout, s)
	if err != nil {
		return err
	}
	*d = DateOnly(t)
	return nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Value implements the driver.Valuer interface for database writes
func (d DateOnly) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements the sql.Scanner interface for database reads
func (d *DateOnly) Scan(value interface{}) error {
	if value == nil {
		*d = DateOnly(time.Time{})
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*d = NewDateOnly(v)
		return nil
	case string:
		t, err := time.Parse(DateOnlyLayout, v)
		if err != nil {
			return err
		}
		*d = DateOnly(t)
		return nil
	default:
		return fmt.Errorf("cannot scan type %T into DateOnly", value)
	}
}
