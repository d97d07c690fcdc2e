package repositories

import (
	"context"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"gorm.io/gorm"
)

type OrderItemRepository interface {
	BulkCreate(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error
	GetByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error)
	MarkShippedForSeller(ctx context.Context, tx *gorm.DB, orderID, sellerID string) error
	DeleteForSeller(ctx context.Context, tx *gorm.DB, orderID, sellerID string) error
}

type gormOrderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &gormOrderItemRepository{db: db}
}

func (r *gormOrderItemRepository) BulkCreate(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *gormOrderItemRepository) GetByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormOrderItemRepository) MarkShippedForSeller(ctx context.Context, tx *gorm.DB, orderID, sellerID string) error {
	return tx.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("order_id = ? AND seller_id = ?", orderID, sellerID).
		UpdateColumn("shipped", true).Error
}

func (r *gormOrderItemRepository) DeleteForSeller(ctx context.Context, tx *gorm.DB, orderID, sellerID string) error {
	return tx.WithContext(ctx).
		Where("order_id = ? AND seller_id = ?", orderID, sellerID).
		Delete(&models.OrderItem{}).Error
}
