//go:build unit

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/infra"
	"smart-parking/internal/infra/repository"
	"smart-parking/internal/pkg/errs"
	"smart-parking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test doubles
// =============================================================================

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	return r.scan(dest...)
}

type stubDBTX struct {
	sql  []string
	args [][]any

	execTag  pgconn.CommandTag
	execErr  error
	queryErr error
	row      stubRow
}

func (m *stubDBTX) record(sql string, args []any) {
	m.sql = append(m.sql, sql)
	m.args = append(m.args, args)
}

func (m *stubDBTX) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.record(sql, args)
	return m.execTag, m.execErr
}

func (m *stubDBTX) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	m.record(sql, args)
	return nil, m.queryErr
}

func (m *stubDBTX) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	m.record(sql, args)
	return m.row
}

// =============================================================================
// BookingRepository
// =============================================================================

func TestBookingRepository_Create(t *testing.T) {
	ctx := context.Background()
	b := builder.NewBookingBuilder().BuildDomain()

	testCases := []struct {
		name       string
		execErr    error
		expectKind infra.RepositoryErrorKind
	}{
		{name: "success: booking inserted"},
		{
			name:       "error: duplicate reference",
			execErr:    &pgconn.PgError{Code: pgerrcode.UniqueViolation, Message: "duplicate key value violates unique constraint"},
			expectKind: infra.KindDuplicateKey,
		},
		{
			name:       "error: unknown vehicle",
			execErr:    &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation},
			expectKind: infra.KindForeignKeyViolated,
		},
		{
			name:       "error: connection lost",
			execErr:    errors.New("connection reset by peer"),
			expectKind: infra.KindDBFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := &stubDBTX{execTag: pgconn.NewCommandTag("INSERT 0 1"), execErr: tc.execErr}
			err := repository.NewBookingRepository(db).Create(ctx, b)

			require.Len(t, db.sql, 1)
			assert.Contains(t, db.sql[0], "INSERT INTO bookings")
			assert.Len(t, db.args[0], 18)

			if tc.expectKind == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, infra.IsKind(err, tc.expectKind), "got %v", err)
		})
	}
}

func TestBookingRepository_FindByIDForUpdate(t *testing.T) {
	db := &stubDBTX{row: stubRow{scan: func(...any) error { return pgx.ErrNoRows }}}

	_, err := repository.NewBookingRepository(db).FindByIDForUpdate(context.Background(), uuid.New())

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrKindNotFound))
	assert.Contains(t, db.sql[0], "FOR UPDATE")
}

func TestBookingRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	b := builder.NewBookingBuilder().BuildDomain()
	_, err := b.Cancel("user:x", "", time.Now())
	require.NoError(t, err)

	t.Run("success: status written", func(t *testing.T) {
		db := &stubDBTX{execTag: pgconn.NewCommandTag("UPDATE 1")}
		require.NoError(t, repository.NewBookingRepository(db).UpdateStatus(ctx, b))
		assert.Contains(t, db.sql[0], "UPDATE bookings SET booking_status = $1")
		assert.Equal(t, "cancelled", db.args[0][0])
	})

	t.Run("error: no such booking", func(t *testing.T) {
		db := &stubDBTX{execTag: pgconn.NewCommandTag("UPDATE 0")}
		err := repository.NewBookingRepository(db).UpdateStatus(ctx, b)
		assert.True(t, infra.IsKind(err, infra.KindNotFound), "got %v", err)
	})
}

func TestBookingRepository_HasActiveOverlap(t *testing.T) {
	entry := time.Date(2030, 3, 4, 10, 0, 0, 0, time.UTC)
	iv, err := booking.NewInterval(entry, entry.Add(time.Hour))
	require.NoError(t, err)
	slotID := uuid.New()

	db := &stubDBTX{row: stubRow{scan: func(dest ...any) error {
		*(dest[0].(*bool)) = true
		return nil
	}}}

	overlap, err := repository.NewBookingRepository(db).HasActiveOverlap(context.Background(), slotID, iv)
	require.NoError(t, err)
	assert.True(t, overlap)

	sql := db.sql[0]
	assert.Contains(t, sql, "SELECT EXISTS (SELECT 1 FROM bookings")
	assert.Contains(t, sql, "booking_status IN ($2,$3,$4)")
	assert.Contains(t, sql, "scheduled_entry <= $5")
	assert.Contains(t, sql, "scheduled_exit >= $6")
	assert.Equal(t, []any{slotID.String(), "pending", "confirmed", "active", iv.End(), iv.Start()}, db.args[0])
}

func TestBookingRepository_ListStalePendingForUpdate(t *testing.T) {
	db := &stubDBTX{queryErr: errors.New("canceling statement due to lock timeout")}

	_, err := repository.NewBookingRepository(db).ListStalePendingForUpdate(context.Background(), time.Now(), 5)

	assert.True(t, infra.IsKind(err, infra.KindDBFailure), "got %v", err)
	assert.Contains(t, db.sql[0], "LIMIT 5")
	assert.Contains(t, db.sql[0], "FOR UPDATE SKIP LOCKED")
}
