package report

import "database/sql"

// timeCell returns the cell value of an optional timestamp; missing values stay blank.
func timeCell(value sql.NullTime) any {
	if !value.Valid {
		return nil
	}
	return value.Time
}
