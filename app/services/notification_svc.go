package services

import (
	"context"
	"fmt"
	"log"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/TekNegr/Projet-Ecommerce/app/repositories"
	"gorm.io/gorm"
)

// NotificationService persists in-app notifications. The Tx variants run
// inside a caller-owned transaction so notifications commit or roll back
// with the order they describe.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) NotifyTx(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	if err := s.notificationRepo.CreateTx(ctx, tx, notification); err != nil {
		return fmt.Errorf("failed to create notification for user %s: %w", notification.UserID, err)
	}
	return nil
}

func (s *NotificationService) Notify(ctx context.Context, notification *models.Notification) error {
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification for user %s: %w", notification.UserID, err)
	}
	return nil
}

// NotifyBestEffort logs and swallows failures. Used on paths where a missed
// notification must not fail the surrounding operation.
func (s *NotificationService) NotifyBestEffort(ctx context.Context, notification *models.Notification) {
	if err := s.Notify(ctx, notification); err != nil {
		log.Printf("NotificationService: %v", err)
	}
}

func (s *NotificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	return s.notificationRepo.FindByUserID(ctx, userID, unreadOnly)
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification == nil || notification.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	return s.notificationRepo.MarkRead(ctx, notificationID)
}

func (s *NotificationService) Delete(ctx context.Context, notificationID, userID string) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification == nil || notification.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	return s.notificationRepo.Delete(ctx, notificationID)
}
