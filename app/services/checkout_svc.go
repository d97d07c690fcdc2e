package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/TekNegr/Projet-Ecommerce/app/repositories"
	"github.com/TekNegr/Projet-Ecommerce/app/utils/calc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCartEmpty              = errors.New("cart is empty or not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderNotPending        = errors.New("only pending orders can be cancelled")
	ErrOrderNotOwned          = errors.New("order does not belong to this user")
	ErrCouponNotApplied       = errors.New("coupon could not be applied")
	ErrShippingAddressInvalid = errors.New("shipping address failed validation")
)

// PlaceOrderResult carries everything the checkout response needs, including
// the retention coupon when the post-commit prediction generated one.
type PlaceOrderResult struct {
	Order           *models.Order   `json:"order"`
	Travel          *TravelEstimate `json:"travel"`
	GeneratedCoupon *models.Coupon  `json:"generated_coupon,omitempty"`
	AppliedCoupon   *models.Coupon  `json:"applied_coupon,omitempty"`
}

// ShippingAddress is a customer-supplied destination for one order, used when
// the customer does not ship to their stored address.
type ShippingAddress struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type CheckoutService struct {
	db               *gorm.DB
	cartRepo         repositories.CartRepository
	productRepo      repositories.ProductRepository
	userRepo         repositories.UserRepository
	orderRepo        repositories.OrderRepository
	orderItemRepo    repositories.OrderItemRepository
	travelEstimator  *TravelEstimatorService
	couponService    *CouponService
	notifications    *NotificationService
	addressValidator *AddressValidationService
	aiBridge         *AICouponBridge
}

func NewCheckoutService(
	db *gorm.DB,
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	travelEstimator *TravelEstimatorService,
	couponService *CouponService,
	notifications *NotificationService,
	addressValidator *AddressValidationService,
	aiBridge *AICouponBridge,
) *CheckoutService {
	return &CheckoutService{
		db:               db,
		cartRepo:         cartRepo,
		productRepo:      productRepo,
		userRepo:         userRepo,
		orderRepo:        orderRepo,
		orderItemRepo:    orderItemRepo,
		travelEstimator:  travelEstimator,
		couponService:    couponService,
		notifications:    notifications,
		addressValidator: addressValidator,
		aiBridge:         aiBridge,
	}
}

// BuildDraft assembles the not-yet-placed order view: cart lines priced at
// current product prices, the distinct sellers involved, and totals. Used by
// the checkout preview and by PlaceOrder itself.
func (s *CheckoutService) BuildDraft(ctx context.Context, userID, cartID string) (*models.OrderDraft, error) {
	cart, err := s.cartRepo.GetCartWithItems(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart with items: %w", err)
	}
	if cart == nil || len(cart.CartItems) == 0 {
		return nil, ErrCartEmpty
	}

	customer, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if customer == nil {
		return nil, errors.New("user not found")
	}

	draft := &models.OrderDraft{Customer: customer}
	sellerIDSet := map[string]bool{}

	for _, cartItem := range cart.CartItems {
		product, err := s.productRepo.GetByID(ctx, cartItem.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to get product %s: %w", cartItem.ProductID, err)
		}
		if product == nil {
			return nil, fmt.Errorf("product %s not found", cartItem.ProductID)
		}

		draft.Lines = append(draft.Lines, models.DraftLine{Product: product, Qty: cartItem.Qty})
		draft.TotalAmount = draft.TotalAmount.Add(product.Price.Mul(decimal.NewFromInt(int64(cartItem.Qty))))
		draft.TotalItems += cartItem.Qty
		sellerIDSet[product.UserID] = true
	}

	sellerIDs := make([]string, 0, len(sellerIDSet))
	for id := range sellerIDSet {
		sellerIDs = append(sellerIDs, id)
	}
	sellers, err := s.userRepo.FindByIDs(ctx, sellerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load sellers: %w", err)
	}
	draft.Sellers = sellers

	return draft, nil
}

// EstimateFreight runs the travel estimator for the draft's customer and
// sellers. A failed estimate degrades to zero freight rather than blocking
// the checkout.
func (s *CheckoutService) EstimateFreight(ctx context.Context, draft *models.OrderDraft) *TravelEstimate {
	return s.travelEstimator.EstimateTravel(ctx, draft)
}

// PlaceOrder turns the session cart into a persisted order. Orders ship to
// the customer's stored address unless a new one is passed, which must pass
// address validation first. Stock decrement, order creation, coupon
// redemption, cart clearing and notifications all commit or roll back
// together. The satisfaction prediction runs after the commit and can never
// fail the order.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID, cartID, couponCode, notes string, shipping *ShippingAddress) (*PlaceOrderResult, error) {
	draft, err := s.BuildDraft(ctx, userID, cartID)
	if err != nil {
		return nil, err
	}
	customer := draft.Customer

	shipName := customer.FullName()
	if shipping != nil {
		dest := &models.User{
			Street:  shipping.Street,
			City:    shipping.City,
			ZipCode: shipping.ZipCode,
			State:   shipping.State,
			Country: shipping.Country,
		}
		if s.addressValidator != nil {
			validation := s.addressValidator.Validate(ctx, dest)
			if !validation.Valid {
				return nil, fmt.Errorf("%w: %s", ErrShippingAddressInvalid, strings.Join(validation.Issues, ", "))
			}
		}
		if shipping.Name != "" {
			shipName = shipping.Name
		}
		// Freight is estimated toward the address the order actually
		// ships to.
		destCustomer := *customer
		destCustomer.Street = dest.Street
		destCustomer.City = dest.City
		destCustomer.ZipCode = dest.ZipCode
		destCustomer.State = dest.State
		destCustomer.Country = dest.Country
		draft.Customer = &destCustomer
		customer = &destCustomer
	}

	// Geocoding happens before the transaction opens so external latency
	// never holds row locks.
	travel := s.travelEstimator.EstimateTravel(ctx, draft)
	freightCost := travel.TotalFreightCost

	// Coupons gate and discount against what the customer actually pays,
	// items plus freight.
	var appliedCoupon *models.Coupon
	discountAmount := decimal.Zero
	if couponCode != "" {
		result, err := s.couponService.ApplyCoupon(ctx, couponCode, userID, draft.TotalAmount.Add(freightCost))
		if err != nil {
			return nil, err
		}
		if !result.Success {
			return nil, fmt.Errorf("%w: %s", ErrCouponNotApplied, result.Message)
		}
		appliedCoupon = result.Coupon
		discountAmount = result.DiscountAmount
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC: rolling back checkout transaction: %v", r)
			tx.Rollback()
		}
	}()

	orderItems := make([]models.OrderItem, 0, len(draft.Lines))
	baseTotal := decimal.Zero

	for _, line := range draft.Lines {
		product, err := s.productRepo.GetByIDForUpdate(ctx, tx, line.Product.ID)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to lock product %s: %w", line.Product.ID, err)
		}
		if product == nil {
			tx.Rollback()
			return nil, fmt.Errorf("product %s not found", line.Product.ID)
		}

		if err := s.productRepo.DecrementStock(ctx, tx, product.ID, line.Qty); err != nil {
			tx.Rollback()
			if errors.Is(err, repositories.ErrInsufficientStock) {
				return nil, fmt.Errorf("product '%s' has insufficient stock, available: %d, requested: %d: %w",
					product.Name, product.Stock, line.Qty, err)
			}
			return nil, fmt.Errorf("failed to decrement stock for product %s: %w", product.ID, err)
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Qty)))
		baseTotal = baseTotal.Add(subtotal)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			SellerID:    product.UserID,
			Qty:         line.Qty,
			Price:       product.Price,
			Subtotal:    subtotal,
		})
	}

	sellerIDs := make([]string, 0, len(draft.Sellers))
	for _, seller := range draft.Sellers {
		sellerIDs = append(sellerIDs, seller.ID)
	}

	orderCode := fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), uuid.New().String()[:8])
	order := &models.Order{
		UserID:         userID,
		OrderCode:      orderCode,
		OrderDate:      time.Now(),
		SellerIDs:      sellerIDs,
		BaseTotalPrice: baseTotal,
		FreightCost:    freightCost,
		DiscountAmount: discountAmount,
		TotalAmount:    calc.CalculateOrderTotal(baseTotal, freightCost, discountAmount).Round(2),
		Status:         models.OrderStatusPending,
		Notes:          notes,

		ShippingName:       shipName,
		ShippingStreet:     customer.Street,
		ShippingCity:       customer.City,
		ShippingPostalCode: customer.ZipCode,
		ShippingState:      customer.State,
		ShippingCountry:    customer.Country,
	}
	if appliedCoupon != nil {
		order.CouponID = &appliedCoupon.ID
	}

	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for i := range orderItems {
		orderItems[i].OrderID = order.ID
	}
	if err := s.orderItemRepo.BulkCreate(ctx, tx, orderItems); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}
	order.OrderItems = orderItems

	// Coupon redemption shares the transaction with order creation. The
	// row lock inside MarkAsUsed makes the loser of a concurrent double
	// spend fail here and roll back its whole order.
	if appliedCoupon != nil {
		if _, err := s.couponService.MarkAsUsed(ctx, tx, appliedCoupon.Code, order.ID); err != nil {
			tx.Rollback()
			if errors.Is(err, ErrCouponAlreadyUsed) {
				return nil, fmt.Errorf("%w: coupon is not valid (already used or expired)", ErrCouponNotApplied)
			}
			return nil, err
		}
	}

	if err := s.cartRepo.ClearCartTx(ctx, tx, cartID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := s.notifications.NotifyTx(ctx, tx, models.NewCustomerOrderPlaced(order)); err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, sellerID := range sellerIDs {
		if err := s.notifications.NotifyTx(ctx, tx, models.NewSellerNewOrder(sellerID, order)); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit checkout transaction: %w", err)
	}

	log.Printf("CheckoutService: order %s placed for user %s, total %s", order.OrderCode, userID, order.TotalAmount.String())

	result := &PlaceOrderResult{
		Order:         order,
		Travel:        travel,
		AppliedCoupon: appliedCoupon,
	}
	if s.aiBridge != nil {
		result.GeneratedCoupon = s.aiBridge.PredictAndHandleCoupon(ctx, order, draft.DominantCategory(), travel.TotalTimeHours)
	}
	return result, nil
}

// CancelOrder is the customer-side cancellation. Only pending orders can be
// cancelled, and every line item's stock goes back in full.
func (s *CheckoutService) CancelOrder(ctx context.Context, orderID, userID string) (*models.Order, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC: rolling back cancellation transaction: %v", r)
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
	if order.UserID != userID {
		tx.Rollback()
		return nil, ErrOrderNotOwned
	}
	if !order.IsPending() {
		tx.Rollback()
		return nil, ErrOrderNotPending
	}

	for _, item := range order.OrderItems {
		if err := s.productRepo.RestoreStock(ctx, tx, item.ProductID, item.Qty); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to restore stock for product %s: %w", item.ProductID, err)
		}
	}

	if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, models.OrderStatusCancelled); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = models.OrderStatusCancelled

	if err := s.notifications.NotifyTx(ctx, tx, models.NewOrderStatusChange(order.UserID, order, models.OrderStatusCancelled)); err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, sellerID := range order.SellerIDs {
		if err := s.notifications.NotifyTx(ctx, tx, models.NewSellerOrderCancellation(sellerID, order)); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit cancellation transaction: %w", err)
	}

	log.Printf("CheckoutService: order %s cancelled by customer %s", order.OrderCode, userID)
	return order, nil
}

func (s *CheckoutService) GetOrder(ctx context.Context, orderID, userID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrOrderNotOwned
	}
	return order, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.FindByUserID(ctx, userID)
}
