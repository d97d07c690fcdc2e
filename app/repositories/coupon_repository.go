package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CouponStatistics struct {
	TotalCoupons       int64           `json:"total_coupons"`
	UsedCoupons        int64           `json:"used_coupons"`
	ActiveCoupons      int64           `json:"active_coupons"`
	TotalDiscountGiven decimal.Decimal `json:"total_discount_given"`
}

type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	GetByID(ctx context.Context, id string) (*models.Coupon, error)
	// FindByCodeForUser matches an exact code that is either public or
	// owned by the given user.
	FindByCodeForUser(ctx context.Context, code, userID string) (*models.Coupon, error)
	// FindByCodeForUpdate re-reads the coupon row under a row lock; the
	// used-flag re-check and MarkUsed must share this lock scope with order
	// creation.
	FindByCodeForUpdate(ctx context.Context, tx *gorm.DB, code string) (*models.Coupon, error)
	MarkUsed(ctx context.Context, tx *gorm.DB, couponID, orderID string) error
	FindValidByUserID(ctx context.Context, userID string) ([]models.Coupon, error)
	ListPaginated(ctx context.Context, limit, offset int) ([]models.Coupon, int64, error)
	Delete(ctx context.Context, id string) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Statistics(ctx context.Context) (*CouponStatistics, error)
}

type gormCouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &gormCouponRepository{db: db}
}

func (r *gormCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *gormCouponRepository) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *gormCouponRepository) FindByCodeForUser(ctx context.Context, code, userID string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		Where("user_id IS NULL OR user_id = ?", userID).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *gormCouponRepository) FindByCodeForUpdate(ctx context.Context, tx *gorm.DB, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *gormCouponRepository) MarkUsed(ctx context.Context, tx *gorm.DB, couponID, orderID string) error {
	return tx.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ?", couponID).
		Updates(map[string]interface{}{
			"is_used":  true,
			"used_at":  time.Now(),
			"order_id": orderID,
		}).Error
}

func (r *gormCouponRepository) FindValidByUserID(ctx context.Context, userID string) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("is_used = ?", false).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("created_at DESC").
		Find(&coupons).Error
	if err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *gormCouponRepository) ListPaginated(ctx context.Context, limit, offset int) ([]models.Coupon, int64, error) {
	var coupons []models.Coupon
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Coupon{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&coupons).Error
	if err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

func (r *gormCouponRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Coupon{}, "id = ?", id).Error
}

func (r *gormCouponRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormCouponRepository) Statistics(ctx context.Context) (*CouponStatistics, error) {
	stats := &CouponStatistics{TotalDiscountGiven: decimal.Zero}

	if err := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Count(&stats.TotalCoupons).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("is_used = ?", true).
		Count(&stats.UsedCoupons).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("is_used = ?", false).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Count(&stats.ActiveCoupons).Error; err != nil {
		return nil, err
	}

	var totalDiscount decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Select("SUM(orders.discount_amount)").
		Joins("JOIN orders ON orders.coupon_id = coupons.id").
		Where("coupons.is_used = ?", true).
		Scan(&totalDiscount).Error
	if err != nil {
		return nil, err
	}
	if totalDiscount.Valid {
		stats.TotalDiscountGiven = totalDiscount.Decimal
	}

	return stats, nil
}
