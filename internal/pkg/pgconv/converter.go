package pgconv

import (
	"errors"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var ErrInvalidNumericValue = errors.New("pgtype.Numeric value does not fit in int64")

func UUIDPtrFromPgtype(pu pgtype.UUID) *uuid.UUID {
	if !pu.Valid {
		return nil
	}
	id := uuid.UUID(pu.Bytes)
	return &id
}

func StringPtrFromPgtype(pt pgtype.Text) *string {
	if !pt.Valid {
		return nil
	}
	return &pt.String
}

func Int64PtrFromPgtype(pi pgtype.Int8) *int64 {
	if !pi.Valid {
		return nil
	}
	return &pi.Int64
}

func IntPtrFromPgtype(pi pgtype.Int4) *int {
	if !pi.Valid {
		return nil
	}
	v := int(pi.Int32)
	return &v
}

func TimePtrFromPgtype(pt pgtype.Timestamptz) *time.Time {
	if !pt.Valid {
		return nil
	}
	return &pt.Time
}

// MinutesPtrFromPgtype converts a TIME column to minutes after midnight.
func MinutesPtrFromPgtype(pt pgtype.Time) *int {
	if !pt.Valid {
		return nil
	}
	m := int(pt.Microseconds / int64(time.Minute/time.Microsecond))
	return &m
}

// ScaledInt64FromNumeric returns pn * 10^scale truncated toward zero, without
// passing through float64.
func ScaledInt64FromNumeric(pn pgtype.Numeric, scale int32) (int64, error) {
	if !pn.Valid || pn.Int == nil {
		return 0, nil
	}
	if pn.NaN || pn.InfinityModifier != pgtype.Finite {
		return 0, ErrInvalidNumericValue
	}

	exp := pn.Exp + scale
	shift := int64(exp)
	if shift < 0 {
		shift = -shift
	}
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(shift), nil)

	n := new(big.Int).Set(pn.Int)
	if exp >= 0 {
		n.Mul(n, pow)
	} else {
		n.Quo(n, pow)
	}
	if !n.IsInt64() {
		return 0, ErrInvalidNumericValue
	}
	return n.Int64(), nil
}

func UUIDPtrToPgtype(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func StringPtrToPgtype(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func Int64PtrToPgtype(v *int64) pgtype.Int8 {
	if v == nil {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: *v, Valid: true}
}

func TimePtrToPgtype(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
