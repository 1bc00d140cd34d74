package sqlstore

import (
	"fmt"
	"time"
)

// parseTime parses the timestamp strings stored in SQLite, which has no
// native datetime type.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlstore: parse time %q: %w", s, err)
	}
	return t.UTC(), nil
}

// timeCol scans a timestamp column from either driver: pgx yields
// time.Time, SQLite yields the TEXT we wrote.
type timeCol struct {
	dst *time.Time
}

func (c timeCol) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*c.dst = v.UTC()
		return nil
	case string:
		t, err := parseTime(v)
		if err != nil {
			return err
		}
		*c.dst = t
		return nil
	case []byte:
		return c.Scan(string(v))
	case nil:
		*c.dst = time.Time{}
		return nil
	}
	return fmt.Errorf("sqlstore: cannot scan %T into time", src)
}

// nullTimeCol scans a nullable timestamp, leaving dst nil for NULL.
type nullTimeCol struct {
	dst **time.Time
}

func (c nullTimeCol) Scan(src any) error {
	if src == nil {
		*c.dst = nil
		return nil
	}
	var t time.Time
	if err := (timeCol{dst: &t}).Scan(src); err != nil {
		return err
	}
	*c.dst = &t
	return nil
}

// nullable returns nil for empty strings so the column stores NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
