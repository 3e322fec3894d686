//go:build unit

package pgconv_test

import (
	"math/big"
	"testing"
	"time"

	"smart-parking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinutesPtrFromPgtype(t *testing.T) {
	assert.Nil(t, pgconv.MinutesPtrFromPgtype(pgtype.Time{}))

	us := (23*time.Hour + 15*time.Minute + 30*time.Second).Microseconds()
	got := pgconv.MinutesPtrFromPgtype(pgtype.Time{Microseconds: us, Valid: true})
	require.NotNil(t, got)
	assert.Equal(t, 23*60+15, *got)
}

func TestScaledInt64FromNumeric(t *testing.T) {
	tests := []struct {
		name    string
		in      pgtype.Numeric
		want    int64
		wantErr bool
	}{
		{name: "two decimals", in: pgtype.Numeric{Int: big.NewInt(113), Exp: -2, Valid: true}, want: 113},
		{name: "trailing zeros trimmed", in: pgtype.Numeric{Int: big.NewInt(57), Exp: -2, Valid: true}, want: 57},
		{name: "positive exponent", in: pgtype.Numeric{Int: big.NewInt(5), Exp: 3, Valid: true}, want: 500000},
		{name: "extra precision truncated", in: pgtype.Numeric{Int: big.NewInt(12349), Exp: -3, Valid: true}, want: 1234},
		{name: "null", in: pgtype.Numeric{}, want: 0},
		{name: "nan", in: pgtype.Numeric{NaN: true, Valid: true}, wantErr: true},
		{name: "overflow", in: pgtype.Numeric{Int: big.NewInt(1), Exp: 30, Valid: true}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pgconv.ScaledInt64FromNumeric(tt.in, 2)
			if tt.wantErr {
				assert.ErrorIs(t, err, pgconv.ErrInvalidNumericValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNullableRoundTrips(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, &id, pgconv.UUIDPtrFromPgtype(pgconv.UUIDPtrToPgtype(&id)))
	assert.Nil(t, pgconv.UUIDPtrFromPgtype(pgconv.UUIDPtrToPgtype(nil)))

	price := int64(9000)
	assert.Equal(t, &price, pgconv.Int64PtrFromPgtype(pgconv.Int64PtrToPgtype(&price)))
	assert.Nil(t, pgconv.Int64PtrFromPgtype(pgconv.Int64PtrToPgtype(nil)))
}
