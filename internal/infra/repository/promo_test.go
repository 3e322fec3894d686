//go:build unit

package repository_test

import (
	"context"
	"testing"

	"smart-parking/internal/infra"
	"smart-parking/internal/infra/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// PromoRepository
// =============================================================================

func TestPromoRepository_FindByIDForUpdate(t *testing.T) {
	id := uuid.New()
	db := &stubDBTX{row: stubRow{scan: func(...any) error { return pgx.ErrNoRows }}}

	_, err := repository.NewPromoRepository(db).FindByIDForUpdate(context.Background(), id)

	assert.True(t, infra.IsKind(err, infra.KindNotFound), "got %v", err)
	assert.Contains(t, db.sql[0], "FROM promo_codes WHERE id = $1 FOR UPDATE")
	assert.Equal(t, []any{id.String()}, db.args[0])
}

func TestPromoRepository_IncrementUsage(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name       string
		tag        string
		expectKind infra.RepositoryErrorKind
	}{
		{name: "success: use counted", tag: "UPDATE 1"},
		{name: "error: usage limit reached", tag: "UPDATE 0", expectKind: infra.KindNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := &stubDBTX{execTag: pgconn.NewCommandTag(tc.tag)}
			err := repository.NewPromoRepository(db).IncrementUsage(ctx, uuid.New())

			require.Len(t, db.sql, 1)
			assert.Contains(t, db.sql[0], "SET usage_count = usage_count + 1")
			assert.Contains(t, db.sql[0], "AND (usage_limit IS NULL OR usage_count < usage_limit)")

			if tc.expectKind == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, infra.IsKind(err, tc.expectKind), "got %v", err)
		})
	}
}
