package repository

import (
	"context"

	"smart-parking/internal/domain/promo"
	"smart-parking/internal/infra"
	"smart-parking/internal/infra/db"
	"smart-parking/internal/infra/repository/converter"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type PromoRepository struct {
	db db.DBTX
}

func NewPromoRepository(db db.DBTX) *PromoRepository {
	return &PromoRepository{db: db}
}

func (r *PromoRepository) FindByID(ctx context.Context, id uuid.UUID) (*promo.PromoCode, error) {
	return r.find(ctx, id, "")
}

func (r *PromoRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*promo.PromoCode, error) {
	return r.find(ctx, id, "FOR UPDATE")
}

func (r *PromoRepository) find(ctx context.Context, id uuid.UUID, lock string) (*promo.PromoCode, error) {
	builder := psql.Select(
		"id", "code", "discount_type", "discount_value", "minimum_spend",
		"valid_from", "valid_until", "usage_limit", "usage_count", "is_active",
	).
		From("promo_codes").
		Where(squirrel.Eq{"id": id})
	if lock != "" {
		builder = builder.Suffix(lock)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build select promo query", err)
	}

	var row converter.PromoRow
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&row.ID, &row.Code, &row.DiscountType, &row.DiscountValue, &row.MinimumSpend,
		&row.ValidFrom, &row.ValidUntil, &row.UsageLimit, &row.UsageCount, &row.IsActive,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to select promo code", err)
	}
	return converter.PromoToDomain(row)
}

func (r *PromoRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Update("promo_codes").
		Set("usage_count", squirrel.Expr("usage_count + 1")).
		Where(squirrel.Eq{"id": id}).
		Where("(usage_limit IS NULL OR usage_count < usage_limit)").
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build promo usage query", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to increment promo usage", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NotFound("promo code not found or usage limit reached")
	}
	return nil
}
