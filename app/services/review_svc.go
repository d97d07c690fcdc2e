package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/TekNegr/Projet-Ecommerce/app/repositories"
)

var (
	ErrOrderNotDelivered     = errors.New("only delivered orders can be reviewed")
	ErrReviewExists          = errors.New("order has already been reviewed")
	ErrReviewNotFound        = errors.New("review not found")
	ErrReviewAlreadyAnswered = errors.New("review has already been answered")
	ErrInvalidRating         = errors.New("rating must be between 1 and 5")
)

type ReviewService struct {
	reviewRepo    repositories.ReviewRepository
	orderRepo     repositories.OrderRepository
	notifications *NotificationService
}

func NewReviewService(reviewRepo repositories.ReviewRepository, orderRepo repositories.OrderRepository, notifications *NotificationService) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		orderRepo:     orderRepo,
		notifications: notifications,
	}
}

// PostReview creates the customer's review of a delivered order and tells
// every seller on the order about it.
func (s *ReviewService) PostReview(ctx context.Context, userID, orderID string, rating int, title, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrOrderNotOwned
	}
	if !order.IsDelivered() {
		return nil, ErrOrderNotDelivered
	}

	existing, err := s.reviewRepo.FindByUserAndOrder(ctx, userID, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	review := &models.Review{
		UserID:  userID,
		OrderID: orderID,
		Rating:  rating,
		Title:   title,
		Comment: comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	for _, sellerID := range order.SellerIDs {
		s.notifications.NotifyBestEffort(ctx, models.NewSellerReviewPosted(sellerID, order))
	}
	return review, nil
}

// AnswerReview records a seller's one-time answer and notifies the customer.
func (s *ReviewService) AnswerReview(ctx context.Context, reviewID, sellerID, answer string) (*models.Review, error) {
	if answer == "" {
		return nil, errors.New("answer cannot be empty")
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review %s: %w", reviewID, err)
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	if review.IsAnswered() {
		return nil, ErrReviewAlreadyAnswered
	}

	order, err := s.orderRepo.GetByID(ctx, review.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", review.OrderID, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.HasSeller(sellerID) {
		return nil, ErrNotSellerOrder
	}

	review.AnswerRaw = &answer
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to save review answer: %w", err)
	}

	s.notifications.NotifyBestEffort(ctx, models.NewCustomerReviewAnswered(order.UserID, order, review))
	return review, nil
}

func (s *ReviewService) GetOrderReview(ctx context.Context, userID, orderID string) (*models.Review, error) {
	return s.reviewRepo.FindByUserAndOrder(ctx, userID, orderID)
}
