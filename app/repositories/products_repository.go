package repositories

import (
	"context"
	"errors"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientStock is returned when a guarded stock decrement affects no
// rows, meaning the requested quantity exceeded the stock on hand.
var ErrInsufficientStock = errors.New("insufficient product stock")

type ProductRepository interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetPaginated(ctx context.Context, limit, offset int) ([]models.Product, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	GetBySellerID(ctx context.Context, sellerID string) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error

	// GetByIDForUpdate locks the product row for the rest of the
	// transaction.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Product, error)
	// DecrementStock performs the guarded check-and-decrement. The stock
	// condition lives in the UPDATE itself so two concurrent checkouts can
	// never both pass on stale reads.
	DecrementStock(ctx context.Context, tx *gorm.DB, productID string, qty int) error
	RestoreStock(ctx context.Context, tx *gorm.DB, productID string, qty int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db}
}

func (p *productRepository) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := p.db.WithContext(ctx).
		Where("status = ?", models.ProductStatusActive).
		Limit(20).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepository) GetPaginated(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	base := p.db.WithContext(ctx).Model(&models.Product{}).
		Where("status = ?", models.ProductStatusActive)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := base.
		Preload("ProductImages").
		Limit(limit).
		Offset(offset).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (p *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := p.db.WithContext(ctx).
		Preload("ProductImages").
		Where("slug = ?", slug).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := p.db.WithContext(ctx).
		Preload("ProductImages").
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	var products []models.Product
	if err := p.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepository) GetBySellerID(ctx context.Context, sellerID string) ([]models.Product, error) {
	var products []models.Product
	if err := p.db.WithContext(ctx).
		Preload("ProductImages").
		Where("user_id = ?", sellerID).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Create(product).Error
}

func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Save(product).Error
}

func (p *productRepository) Delete(ctx context.Context, id string) error {
	return p.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

func (p *productRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Product, error) {
	var product models.Product
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) DecrementStock(ctx context.Context, tx *gorm.DB, productID string, qty int) error {
	result := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (p *productRepository) RestoreStock(ctx context.Context, tx *gorm.DB, productID string, qty int) error {
	return tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}
