package repositories

import (
	"context"
	"errors"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	FindByUserAndOrder(ctx context.Context, userID, orderID string) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
}

type gormReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &gormReviewRepository{db: db}
}

func (r *gormReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *gormReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *gormReviewRepository) FindByUserAndOrder(ctx context.Context, userID, orderID string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND order_id = ?", userID, orderID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *gormReviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}
