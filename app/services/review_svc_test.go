package services

import (
	"context"
	"testing"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	svc              *ReviewService
	reviewRepo       *fakeReviewRepo
	orderRepo        *fakeOrderRepo
	notificationRepo *fakeNotificationRepo
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		reviewRepo:       &fakeReviewRepo{},
		orderRepo:        &fakeOrderRepo{},
		notificationRepo: &fakeNotificationRepo{},
	}
	f.svc = NewReviewService(f.reviewRepo, f.orderRepo, NewNotificationService(f.notificationRepo))
	return f
}

func deliveredOrder() *models.Order {
	return &models.Order{
		ID:        "order-1",
		UserID:    "user-1",
		OrderCode: "ORD-20260101-abc12345",
		Status:    models.OrderStatusDelivered,
		SellerIDs: []string{"seller-1", "seller-2"},
	}
}

func TestPostReviewNotifiesSellers(t *testing.T) {
	f := newReviewFixture()
	f.orderRepo.getByIDFn = func(ctx context.Context, id string) (*models.Order, error) {
		return deliveredOrder(), nil
	}

	var created *models.Review
	f.reviewRepo.createFn = func(ctx context.Context, review *models.Review) error {
		created = review
		return nil
	}

	review, err := f.svc.PostReview(context.Background(), "user-1", "order-1", 4, "Great", "Arrived on time")

	require.NoError(t, err)
	assert.Equal(t, created, review)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "order-1", review.OrderID)

	require.Len(t, f.notificationRepo.created, 2)
	assert.Equal(t, "seller-1", f.notificationRepo.created[0].UserID)
	assert.Equal(t, "seller-2", f.notificationRepo.created[1].UserID)
}

func TestPostReviewRejectsBadRating(t *testing.T) {
	f := newReviewFixture()
	for _, rating := range []int{0, 6, -1} {
		_, err := f.svc.PostReview(context.Background(), "user-1", "order-1", rating, "t", "c")
		assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", rating)
	}
}

func TestPostReviewRequiresDeliveredOrder(t *testing.T) {
	f := newReviewFixture()
	f.orderRepo.getByIDFn = func(ctx context.Context, id string) (*models.Order, error) {
		order := deliveredOrder()
		order.Status = models.OrderStatusShipped
		return order, nil
	}

	_, err := f.svc.PostReview(context.Background(), "user-1", "order-1", 5, "t", "c")
	assert.ErrorIs(t, err, ErrOrderNotDelivered)
}

func TestPostReviewRejectsForeignOrder(t *testing.T) {
	f := newReviewFixture()
	f.orderRepo.getByIDFn = func(ctx context.Context, id string) (*models.Order, error) {
		return deliveredOrder(), nil
	}

	_, err := f.svc.PostReview(context.Background(), "somebody-else", "order-1", 5, "t", "c")
	assert.ErrorIs(t, err, ErrOrderNotOwned)
}

func TestPostReviewOncePerOrder(t *testing.T) {
	f := newReviewFixture()
	f.orderRepo.getByIDFn = func(ctx context.Context, id string) (*models.Order, error) {
		return deliveredOrder(), nil
	}
	f.reviewRepo.findByUserAndOrderFn = func(ctx context.Context, userID, orderID string) (*models.Review, error) {
		return &models.Review{ID: "review-1"}, nil
	}

	_, err := f.svc.PostReview(context.Background(), "user-1", "order-1", 5, "t", "c")
	assert.ErrorIs(t, err, ErrReviewExists)
}

func TestAnswerReviewNotifiesCustomer(t *testing.T) {
	f := newReviewFixture()
	f.reviewRepo.getByIDFn = func(ctx context.Context, id string) (*models.Review, error) {
		return &models.Review{ID: "review-1", UserID: "user-1", OrderID: "order-1", Rating: 4}, nil
	}
	f.orderRepo.getByIDFn = func(ctx context.Context, id string) (*models.Order, error) {
		return deliveredOrder(), nil
	}

	var updated *models.Review
	f.reviewRepo.updateFn = func(ctx context.Context, review *models.Review) error {
		updated = review
		return nil
	}

	review, err := f.svc.AnswerReview(context.Background(), "review-1", "seller-1", "Thanks!")

	require.NoError(t, err)
	assert.Equal(t, "Thanks!", review.Answer())
	assert.Equal(t, updated, review)

	require.Len(t, f.notificationRepo.created, 1)
	assert.Equal(t, "user-1", f.notificationRepo.created[0].UserID)
	assert.Contains(t, f.notificationRepo.created[0].Message, `"Thanks!"`)
}

func TestAnswerReviewOnlyOnce(t *testing.T) {
	f := newReviewFixture()
	answer := "already answered"
	f.reviewRepo.getByIDFn = func(ctx context.Context, id string) (*models.Review, error) {
		return &models.Review{ID: "review-1", AnswerRaw: &answer}, nil
	}

	_, err := f.svc.AnswerReview(context.Background(), "review-1", "seller-1", "again")
	assert.ErrorIs(t, err, ErrReviewAlreadyAnswered)
}

func TestAnswerReviewRejectsForeignSeller(t *testing.T) {
	f := newReviewFixture()
	f.reviewRepo.getByIDFn = func(ctx context.Context, id string) (*models.Review, error) {
		return &models.Review{ID: "review-1", OrderID: "order-1"}, nil
	}
	f.orderRepo.getByIDFn = func(ctx context.Context, id string) (*models.Order, error) {
		return deliveredOrder(), nil
	}

	_, err := f.svc.AnswerReview(context.Background(), "review-1", "seller-99", "hello")
	assert.ErrorIs(t, err, ErrNotSellerOrder)
}
