package repositories

import (
	"context"
	"errors"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateTx(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	FindByUserID(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error)
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type gormNotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *gormNotificationRepository) CreateTx(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	return tx.WithContext(ctx).Create(notification).Error
}

func (r *gormNotificationRepository) FindByUserID(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	err := query.Order("created_at DESC").Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *gormNotificationRepository) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *gormNotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

func (r *gormNotificationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Notification{}, "id = ?", id).Error
}
