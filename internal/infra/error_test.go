//go:build unit

package infra_test

import (
	"testing"

	"smart-parking/internal/infra"
	"smart-parking/internal/pkg/errs"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapRepoErr(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     []infra.RepositoryErrorKind
		wantKind infra.RepositoryErrorKind
		wantMark error
	}{
		{"no rows", pgx.ErrNoRows, nil, infra.KindNotFound, errs.ErrKindNotFound},
		{"unique violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, nil, infra.KindDuplicateKey, errs.ErrKindConflict},
		{"foreign key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, nil, infra.KindForeignKeyViolated, errs.ErrKindInternal},
		{"serialization failure", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, nil, infra.KindRetryable, errs.ErrKindInternal},
		{"other failure", errs.New("connection refused"), nil, infra.KindDBFailure, errs.ErrKindInternal},
		{"explicit kind wins", errs.New("zero rows updated"), []infra.RepositoryErrorKind{infra.KindNotFound}, infra.KindNotFound, errs.ErrKindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := infra.WrapRepoErr("failed to load slot", tt.err, tt.kind...)
			require.Error(t, err)
			assert.True(t, infra.IsKind(err, tt.wantKind))
			assert.Equal(t, tt.wantMark, errs.KindOf(err))
			assert.Contains(t, err.Error(), "failed to load slot")
		})
	}
}

func TestIsRetryable(t *testing.T) {
	deadlock := infra.WrapRepoErr("failed to lock slot", &pgconn.PgError{Code: pgerrcode.DeadlockDetected})
	assert.True(t, infra.IsRetryable(deadlock))
	assert.False(t, infra.IsRetryable(infra.NotFound("slot not found")))
	assert.False(t, infra.IsRetryable(nil))
}
