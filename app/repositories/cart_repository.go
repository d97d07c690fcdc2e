package repositories

import (
	"context"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartRepository interface {
	GetCartWithItems(ctx context.Context, cartID string) (*models.Cart, error)
	UpdateCartSummary(ctx context.Context, cartID string) error
	GetCartItemCount(ctx context.Context, cartID string) (int, error)
	ClearCart(ctx context.Context, cartID string) error
	ClearCartTx(ctx context.Context, tx *gorm.DB, cartID string) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db}
}

func (r *cartRepository) GetCartWithItems(ctx context.Context, cartID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("CartItems.Product.ProductImages").
		Preload("CartItems.Product").
		Preload("CartItems").
		FirstOrCreate(&cart, models.Cart{ID: cartID}).Error
	if err != nil {
		return nil, err
	}

	for _, item := range cart.CartItems {
		cart.TotalItems += item.Qty
	}
	return &cart, nil
}

func (r *cartRepository) UpdateCartSummary(ctx context.Context, cartID string) error {
	var items []models.CartItem

	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Find(&items).Error; err != nil {
		return err
	}

	var baseTotal decimal.Decimal
	for _, item := range items {
		baseTotal = baseTotal.Add(item.Subtotal)
	}

	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"base_total_price": baseTotal,
			"grand_total":      baseTotal,
		}).Error
}

func (r *cartRepository) GetCartItemCount(ctx context.Context, cartID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("cart_items").
		Where("cart_id = ?", cartID).
		Count(&count).Error

	return int(count), err
}

func (r *cartRepository) ClearCart(ctx context.Context, cartID string) error {
	return r.ClearCartTx(ctx, r.db, cartID)
}

func (r *cartRepository) ClearCartTx(ctx context.Context, tx *gorm.DB, cartID string) error {
	if err := tx.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	return tx.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"base_total_price": decimal.Zero,
			"grand_total":      decimal.Zero,
		}).Error
}
