package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/TekNegr/Projet-Ecommerce/app/repositories"
	"github.com/TekNegr/Projet-Ecommerce/app/utils/format"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrCouponAlreadyUsed is the race-loser error: the coupon passed the first
// validation but was consumed by a concurrent checkout before this
// transaction could mark it used.
var ErrCouponAlreadyUsed = errors.New("coupon has already been used")

const (
	couponCodeLength  = 8
	couponCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	dissatisfactionCouponValidityDays = 30
)

// Floor for the minimum order amount on generated retention coupons.
var dissatisfactionMinOrderFloor = decimal.NewFromInt(10)

type ApplyCouponResult struct {
	Success        bool             `json:"success"`
	Message        string           `json:"message"`
	Coupon         *models.Coupon   `json:"coupon,omitempty"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	FinalAmount    decimal.Decimal  `json:"final_amount"`
}

type CreateCouponInput struct {
	DiscountAmount     *decimal.Decimal
	DiscountPercentage *decimal.Decimal
	MinOrderAmount     decimal.Decimal
	UserID             *string
	ExpiresAt          *time.Time
	Reason             string
}

type CouponService struct {
	couponRepo repositories.CouponRepository
}

func NewCouponService(couponRepo repositories.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// ApplyCoupon validates a code for a user against the current order total.
// Business rejections come back as an unsuccessful result with a message;
// the error return is for storage failures only.
func (s *CouponService) ApplyCoupon(ctx context.Context, code, userID string, orderTotal decimal.Decimal) (*ApplyCouponResult, error) {
	coupon, err := s.couponRepo.FindByCodeForUser(ctx, code, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon %q: %w", code, err)
	}

	if coupon == nil {
		return &ApplyCouponResult{
			Success: false,
			Message: "Coupon not found or invalid for this user",
		}, nil
	}

	if !coupon.IsValid() {
		return &ApplyCouponResult{
			Success: false,
			Message: "Coupon is not valid (already used or expired)",
		}, nil
	}

	if orderTotal.LessThan(coupon.MinOrderAmount) {
		return &ApplyCouponResult{
			Success: false,
			Message: fmt.Sprintf("Minimum order amount of %s required", format.Money(coupon.MinOrderAmount)),
		}, nil
	}

	discount := coupon.CalculateDiscount(orderTotal)

	return &ApplyCouponResult{
		Success:        true,
		Message:        "Coupon applied successfully",
		Coupon:         coupon,
		DiscountAmount: discount,
		FinalAmount:    orderTotal.Sub(discount),
	}, nil
}

// MarkAsUsed flips the used flag and binds the consuming order, inside the
// caller's transaction. The coupon row is re-read under a row lock so two
// concurrent checkouts cannot both consume it.
func (s *CouponService) MarkAsUsed(ctx context.Context, tx *gorm.DB, code, orderID string) (*models.Coupon, error) {
	coupon, err := s.couponRepo.FindByCodeForUpdate(ctx, tx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to lock coupon %q: %w", code, err)
	}
	if coupon == nil {
		return nil, fmt.Errorf("coupon %q disappeared before use", code)
	}

	if !coupon.IsValid() {
		return nil, ErrCouponAlreadyUsed
	}

	if err := s.couponRepo.MarkUsed(ctx, tx, coupon.ID, orderID); err != nil {
		return nil, fmt.Errorf("failed to mark coupon %q used: %w", code, err)
	}

	now := time.Now()
	coupon.IsUsed = true
	coupon.UsedAt = &now
	coupon.OrderID = &orderID
	return coupon, nil
}

// GenerateDissatisfactionCoupon mints a retention coupon after a negative
// satisfaction prediction. The 10-20% range, the 50%-of-order minimum and
// the 30-day validity are policy knobs, not a tuned model.
func (s *CouponService) GenerateDissatisfactionCoupon(ctx context.Context, userID string, orderAmount decimal.Decimal, reason string) (*models.Coupon, error) {
	if reason == "" {
		reason = "AI predicted dissatisfaction"
	}

	discountPercentage := decimal.NewFromInt(int64(rand.Intn(11) + 10))
	discountAmount := orderAmount.Mul(discountPercentage).Div(decimal.NewFromInt(100)).Round(2)

	minOrderAmount := orderAmount.Mul(decimal.NewFromFloat(0.5)).Round(2)
	if minOrderAmount.LessThan(dissatisfactionMinOrderFloor) {
		minOrderAmount = dissatisfactionMinOrderFloor
	}

	code, err := s.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().AddDate(0, 0, dissatisfactionCouponValidityDays)
	coupon := &models.Coupon{
		Code:               code,
		DiscountAmount:     &discountAmount,
		DiscountPercentage: &discountPercentage,
		MinOrderAmount:     minOrderAmount,
		UserID:             &userID,
		ExpiresAt:          &expiresAt,
		Reason:             reason,
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("failed to create dissatisfaction coupon: %w", err)
	}

	log.Printf("CouponService: generated dissatisfaction coupon %s for user %s (%s%%, min order %s)",
		coupon.Code, userID, discountPercentage.String(), format.Money(minOrderAmount))

	return coupon, nil
}

// CreateCoupon is the admin creation path.
func (s *CouponService) CreateCoupon(ctx context.Context, input CreateCouponInput) (*models.Coupon, error) {
	if input.DiscountAmount == nil && input.DiscountPercentage == nil {
		return nil, errors.New("either discount_amount or discount_percentage must be provided")
	}

	code, err := s.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	reason := input.Reason
	if reason == "" {
		reason = "Manual creation by admin"
	}

	coupon := &models.Coupon{
		Code:               code,
		DiscountAmount:     input.DiscountAmount,
		DiscountPercentage: input.DiscountPercentage,
		MinOrderAmount:     input.MinOrderAmount,
		UserID:             input.UserID,
		ExpiresAt:          input.ExpiresAt,
		Reason:             reason,
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	return coupon, nil
}

// GenerateCode produces a unique 8-character uppercase code.
func (s *CouponService) GenerateCode(ctx context.Context) (string, error) {
	for {
		b := make([]byte, couponCodeLength)
		for i := range b {
			b[i] = couponCodeCharset[rand.Intn(len(couponCodeCharset))]
		}
		code := string(b)

		exists, err := s.couponRepo.ExistsByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check coupon code uniqueness: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
}

func (s *CouponService) GetUserCoupons(ctx context.Context, userID string) ([]models.Coupon, error) {
	return s.couponRepo.FindValidByUserID(ctx, userID)
}
