package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Order, error)
	FindBySellerID(ctx context.Context, sellerID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, status string) error
	Save(ctx context.Context, tx *gorm.DB, order *models.Order) error
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order

	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Preload("Coupon").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Order, error) {
	var order models.Order

	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := tx.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Find(&order.OrderItems).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) FindByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order

	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindBySellerID lists orders that still contain items from this seller.
// Joining through order_items avoids querying the seller_ids JSON column.
func (r *gormOrderRepository) FindBySellerID(ctx context.Context, sellerID string) ([]models.Order, error) {
	var orders []models.Order

	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Joins("JOIN order_items oi ON oi.order_id = orders.id").
		Where("oi.seller_id = ?", sellerID).
		Group("orders.id").
		Order("orders.created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, status string) error {
	return tx.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *gormOrderRepository) Save(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	order.UpdatedAt = time.Now()
	return tx.WithContext(ctx).Save(order).Error
}
