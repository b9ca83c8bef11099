package store

import (
	"database/sql"
	"fmt"
	"time"
)

// TimeFormat is the layout timestamps are stored in.
const TimeFormat = "2006-01-02 15:04:05.999999999-07:00"

var timeLayouts = []string{
	TimeFormat,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func timeValue(t sql.NullTime) any {
	if !t.Valid {
		return nil
	}
	return t.Time.Format(TimeFormat)
}

// nullTime scans DATETIME columns whether the driver hands back text or time.Time.
type nullTime struct {
	target *sql.NullTime
}

func (n nullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n.target = sql.NullTime{}
		return nil
	case time.Time:
		*n.target = sql.NullTime{Time: v, Valid: true}
		return nil
	case []byte:
		return n.parse(string(v))
	case string:
		return n.parse(v)
	case int64:
		*n.target = sql.NullTime{Time: time.Unix(v, 0), Valid: true}
		return nil
	default:
		return fmt.Errorf("store: cannot scan %T into timestamp", src)
	}
}

func (n nullTime) parse(text string) error {
	if text == "" {
		*n.target = sql.NullTime{}
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			*n.target = sql.NullTime{Time: t, Valid: true}
			return nil
		}
	}
	return fmt.Errorf("store: invalid timestamp %q", text)
}
