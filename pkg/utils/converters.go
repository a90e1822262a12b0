package utils

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

func ToPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func FromPgUUID(u pgtype.UUID) uuid.UUID {
	if !u.Valid {
		return uuid.Nil
	}
	return uuid.UUID(u.Bytes)
}

func ToPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func FromPgText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func ToPgInt8(i *int64) pgtype.Int8 {
	if i == nil {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: *i, Valid: true}
}

func FromPgInt8(i pgtype.Int8) *int64 {
	if !i.Valid {
		return nil
	}
	v := i.Int64
	return &v
}

// ToPgMillis stores a latency as fractional milliseconds.
func ToPgMillis(d *time.Duration) pgtype.Float8 {
	if d == nil {
		return pgtype.Float8{Valid: false}
	}
	return pgtype.Float8{Float64: float64(*d) / float64(time.Millisecond), Valid: true}
}

func FromPgMillis(f pgtype.Float8) *time.Duration {
	if !f.Valid {
		return nil
	}
	d := time.Duration(f.Float64 * float64(time.Millisecond))
	return &d
}

func ToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func FromPgTimestamptz(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}
	if ts.InfinityModifier != pgtype.Finite {
		return time.Time{}
	}
	return ts.Time
}

func FromPgTimestamptzPtr(ts pgtype.Timestamptz) *time.Time {
	t := FromPgTimestamptz(ts)
	if t.IsZero() {
		return nil
	}
	return &t
}
