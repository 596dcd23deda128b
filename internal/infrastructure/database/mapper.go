package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// Scan helpers for nullable columns.

func textOrEmpty(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

func float8Ptr(f pgtype.Float8) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func int4OrZero(n pgtype.Int4) int {
	if !n.Valid {
		return 0
	}
	return int(n.Int32)
}
