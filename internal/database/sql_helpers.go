package database

import (
	"database/sql"
	"strconv"
	"time"
)

// nullableTime converts an optional instant to nanoseconds for storage.
func nullableTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

// timeFromNullable reverses nullableTime.
func timeFromNullable(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(0, v.Int64).UTC()
	return &t
}

// nullableID encodes an optional id as a meta value.
func nullableID(id *int64) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: strconv.FormatInt(*id, 10), Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
