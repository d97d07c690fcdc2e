package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/TekNegr/Projet-Ecommerce/app/repositories"
	"github.com/TekNegr/Projet-Ecommerce/app/utils/calc"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotSellerOrder      = errors.New("order has no items from this seller")
	ErrOrderNotContinuable = errors.New("order cannot be advanced from its current status")
	ErrItemsAlreadyShipped = errors.New("items already shipped cannot be cancelled")
)

// SellerOrderService is the seller side of order fulfilment: advancing an
// order through its lifecycle and withdrawing a seller's own items.
type SellerOrderService struct {
	db            *gorm.DB
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	productRepo   repositories.ProductRepository
	notifications *NotificationService
}

func NewSellerOrderService(
	db *gorm.DB,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	productRepo repositories.ProductRepository,
	notifications *NotificationService,
) *SellerOrderService {
	return &SellerOrderService{
		db:            db,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		productRepo:   productRepo,
		notifications: notifications,
	}
}

func (s *SellerOrderService) ListOrders(ctx context.Context, sellerID string) ([]models.Order, error) {
	return s.orderRepo.FindBySellerID(ctx, sellerID)
}

func (s *SellerOrderService) GetOrder(ctx context.Context, orderID, sellerID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.HasSeller(sellerID) {
		return nil, ErrNotSellerOrder
	}
	return order, nil
}

// ContinueOrder advances the order one step for this seller. Pending orders
// move to processing. Continuing past processing moves the order to shipped
// and flags this seller's own items; a continue on a shipped order flags the
// remaining seller's items. The moment every item is flagged the order
// auto-advances to delivered, which also asks the customer for a review.
func (s *SellerOrderService) ContinueOrder(ctx context.Context, orderID, sellerID string) (*models.Order, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC: rolling back continue transaction: %v", r)
			tx.Rollback()
		}
	}()

	order, err := s.orderRepo.GetByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to lock order %s: %w", orderID, err)
	}
	if order == nil {
		tx.Rollback()
		return nil, ErrOrderNotFound
	}
	if !order.HasSeller(sellerID) {
		tx.Rollback()
		return nil, ErrNotSellerOrder
	}

	switch order.Status {
	case models.OrderStatusPending:
		if err := s.transitionTx(ctx, tx, order, models.OrderStatusProcessing); err != nil {
			tx.Rollback()
			return nil, err
		}

	case models.OrderStatusProcessing, models.OrderStatusShipped:
		if order.Status == models.OrderStatusProcessing {
			if err := s.transitionTx(ctx, tx, order, models.OrderStatusShipped); err != nil {
				tx.Rollback()
				return nil, err
			}
		}
		if err := s.orderItemRepo.MarkShippedForSeller(ctx, tx, order.ID, sellerID); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to mark items shipped: %w", err)
		}
		for i := range order.OrderItems {
			if order.OrderItems[i].SellerID == sellerID {
				order.OrderItems[i].Shipped = true
			}
		}
		if order.AllItemsShipped() {
			if err := s.transitionTx(ctx, tx, order, models.OrderStatusDelivered); err != nil {
				tx.Rollback()
				return nil, err
			}
			if err := s.notifications.NotifyTx(ctx, tx, models.NewReviewRequest(order.UserID, order)); err != nil {
				tx.Rollback()
				return nil, err
			}
		}

	default:
		tx.Rollback()
		return nil, ErrOrderNotContinuable
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit continue transaction: %w", err)
	}

	log.Printf("SellerOrderService: seller %s advanced order %s to %s", sellerID, order.OrderCode, order.Status)
	return order, nil
}

// CancelItems withdraws all of this seller's items from the order. Stock
// comes back, totals are recomputed from the remaining items, and the seller
// leaves the order's seller set. An order left with no items is cancelled
// outright.
func (s *SellerOrderService) CancelItems(ctx context.Context, orderID, sellerID string) (*models.Order, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC: rolling back item cancellation transaction: %v", r)
			tx.Rollback()
		}
	}()

	order, err := s.orderRepo.GetByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to lock order %s: %w", orderID, err)
	}
	if order == nil {
		tx.Rollback()
		return nil, ErrOrderNotFound
	}
	if !order.HasSeller(sellerID) {
		tx.Rollback()
		return nil, ErrNotSellerOrder
	}
	if order.IsDelivered() || order.IsCancelled() {
		tx.Rollback()
		return nil, ErrOrderNotContinuable
	}

	sellerItems := order.ItemsForSeller(sellerID)
	for _, item := range sellerItems {
		if item.Shipped {
			tx.Rollback()
			return nil, ErrItemsAlreadyShipped
		}
	}

	for _, item := range sellerItems {
		if err := s.productRepo.RestoreStock(ctx, tx, item.ProductID, item.Qty); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to restore stock for product %s: %w", item.ProductID, err)
		}
	}

	if err := s.orderItemRepo.DeleteForSeller(ctx, tx, order.ID, sellerID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to remove seller items: %w", err)
	}

	remaining := make([]models.OrderItem, 0, len(order.OrderItems))
	baseTotal := decimal.Zero
	for _, item := range order.OrderItems {
		if item.SellerID == sellerID {
			continue
		}
		remaining = append(remaining, item)
		baseTotal = baseTotal.Add(item.Subtotal)
	}
	order.OrderItems = remaining

	sellerIDs := make([]string, 0, len(order.SellerIDs))
	for _, id := range order.SellerIDs {
		if id != sellerID {
			sellerIDs = append(sellerIDs, id)
		}
	}
	order.SellerIDs = sellerIDs

	if len(remaining) == 0 {
		order.Status = models.OrderStatusCancelled
		order.BaseTotalPrice = decimal.Zero
		order.TotalAmount = decimal.Zero
		if err := s.orderRepo.Save(ctx, tx, order); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to save order: %w", err)
		}
		if err := s.notifications.NotifyTx(ctx, tx, models.NewOrderStatusChange(order.UserID, order, models.OrderStatusCancelled)); err != nil {
			tx.Rollback()
			return nil, err
		}
	} else {
		order.BaseTotalPrice = baseTotal
		total := calc.CalculateOrderTotal(baseTotal, order.FreightCost, order.DiscountAmount).Round(2)
		if total.IsNegative() {
			total = decimal.Zero
		}
		order.TotalAmount = total
		if err := s.orderRepo.Save(ctx, tx, order); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to save order: %w", err)
		}
		if err := s.notifications.NotifyTx(ctx, tx, models.NewSellerItemsRemoved(order)); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit item cancellation transaction: %w", err)
	}

	log.Printf("SellerOrderService: seller %s removed their items from order %s", sellerID, order.OrderCode)
	return order, nil
}

func (s *SellerOrderService) transitionTx(ctx context.Context, tx *gorm.DB, order *models.Order, newStatus string) error {
	if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, newStatus); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = newStatus
	return s.notifications.NotifyTx(ctx, tx, models.NewOrderStatusChange(order.UserID, order, newStatus))
}
