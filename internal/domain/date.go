package domain

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-day format sent by date pickers.
const DateLayout = "2006-01-02"

// Date is a rental boundary day. It decodes from either a plain calendar day
// ("2026-05-01") or an RFC 3339 timestamp; null and "" decode to the zero value.
type Date struct {
	time.Time
}

// NewDate returns the UTC midnight of the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d *Date) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*d = Date{}
		return nil
	}
	s, err := strconv.Unquote(string(raw))
	if err != nil {
		return fmt.Errorf("date must be a string: %s", raw)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*d = Date{}
		return nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		*d = Date{Time: t}
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	*d = Date{Time: t}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return d.Time.MarshalJSON()
}
