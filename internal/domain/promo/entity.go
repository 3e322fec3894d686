package promo

import (
	"time"

	"smart-parking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidDiscountType = errs.NewKind("invalid discount type", errs.ErrKindValidation)
	ErrPromoExhausted      = errs.NewKind("promo code usage limit reached", errs.ErrKindConflict)
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

func ParseDiscountType(s string) (DiscountType, error) {
	switch t := DiscountType(s); t {
	case DiscountPercentage, DiscountFixed:
		return t, nil
	default:
		return "", ErrInvalidDiscountType
	}
}

type PromoCode struct {
	ID           uuid.UUID
	Code         string
	DiscountType DiscountType
	// DiscountHundredths is the discount value scaled by 100: 1130 means
	// 11.30 percent or 11.30 currency units.
	DiscountHundredths int64
	MinimumSpend       int64
	ValidFrom          *time.Time
	ValidUntil         *time.Time
	UsageLimit         *int
	UsageCount         int
	IsActive           bool
}

// UsableAt reports whether the code is active, inside its validity window and
// below its usage limit.
func (p PromoCode) UsableAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.ValidFrom != nil && now.Before(*p.ValidFrom) {
		return false
	}
	if p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return false
	}
	if p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit {
		return false
	}
	return true
}

// DiscountFor returns the discount for amount, zero below the minimum spend and
// never more than amount.
func (p PromoCode) DiscountFor(amount int64) int64 {
	if amount <= 0 || amount < p.MinimumSpend {
		return 0
	}

	var discount int64
	switch p.DiscountType {
	case DiscountPercentage:
		discount = amount * p.DiscountHundredths / 10000
	case DiscountFixed:
		discount = p.DiscountHundredths / 100
	}

	if discount < 0 {
		return 0
	}
	return min(discount, amount)
}
