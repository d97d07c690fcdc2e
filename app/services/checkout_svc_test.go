package services

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/TekNegr/Projet-Ecommerce/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

type checkoutFixture struct {
	svc              *CheckoutService
	mock             sqlmock.Sqlmock
	cartRepo         *fakeCartRepo
	productRepo      *fakeProductRepo
	userRepo         *fakeUserRepo
	orderRepo        *fakeOrderRepo
	orderItemRepo    *fakeOrderItemRepo
	couponRepo       *fakeCouponRepo
	notificationRepo *fakeNotificationRepo
}

func newCheckoutFixture(t *testing.T, geocoder GeocodingClient) *checkoutFixture {
	t.Helper()
	db, mock := newMockDB(t)

	f := &checkoutFixture{
		mock:             mock,
		cartRepo:         &fakeCartRepo{},
		productRepo:      &fakeProductRepo{},
		userRepo:         &fakeUserRepo{},
		orderRepo:        &fakeOrderRepo{},
		orderItemRepo:    &fakeOrderItemRepo{},
		couponRepo:       &fakeCouponRepo{},
		notificationRepo: &fakeNotificationRepo{},
	}

	couponSvc := NewCouponService(f.couponRepo)
	f.svc = NewCheckoutService(
		db,
		f.cartRepo,
		f.productRepo,
		f.userRepo,
		f.orderRepo,
		f.orderItemRepo,
		NewTravelEstimatorService(geocoder, 1.0),
		couponSvc,
		NewNotificationService(f.notificationRepo),
		NewAddressValidationService(geocoder),
		nil,
	)
	return f
}

var checkoutProducts = map[string]*models.Product{
	"p1": {ID: "p1", UserID: "seller-1", Name: "Paperback", Price: dec("10"), Stock: 5, Category: "books", Status: models.ProductStatusActive},
	"p2": {ID: "p2", UserID: "seller-2", Name: "Headphones", Price: dec("20"), Stock: 3, Category: "electronics", Status: models.ProductStatusActive},
}

func (f *checkoutFixture) wireHappyPath() {
	f.cartRepo.getCartWithItemsFn = func(ctx context.Context, cartID string) (*models.Cart, error) {
		return &models.Cart{
			ID: cartID,
			CartItems: []models.CartItem{
				{CartID: cartID, ProductID: "p1", Qty: 2},
				{CartID: cartID, ProductID: "p2", Qty: 1},
			},
		}, nil
	}
	f.productRepo.getByIDFn = func(ctx context.Context, id string) (*models.Product, error) {
		return checkoutProducts[id], nil
	}
	f.productRepo.getByIDForUpdateFn = func(ctx context.Context, tx *gorm.DB, id string) (*models.Product, error) {
		return checkoutProducts[id], nil
	}
	f.userRepo.findByIDFn = func(ctx context.Context, id string) (*models.User, error) {
		return &models.User{ID: id, FirstName: "Alice", City: "Paris", Country: "France"}, nil
	}
	f.userRepo.findByIDsFn = func(ctx context.Context, ids []string) ([]models.User, error) {
		users := make([]models.User, 0, len(ids))
		for _, id := range ids {
			users = append(users, models.User{ID: id, FirstName: id, City: "Lyon", Country: "France"})
		}
		return users, nil
	}
}

func cityGeocoder() *fakeGeocoder {
	return &fakeGeocoder{
		geocodeFn: func(ctx context.Context, text string) (*GeoLocation, error) {
			if strings.Contains(text, "Paris") {
				return &GeoLocation{Lat: 48.8566, Lon: 2.3522}, nil
			}
			return &GeoLocation{Lat: 45.7640, Lon: 4.8357}, nil
		},
	}
}

func TestPlaceOrderTotalInvariant(t *testing.T) {
	f := newCheckoutFixture(t, cityGeocoder())
	f.wireHappyPath()

	var createdOrder *models.Order
	f.orderRepo.createFn = func(ctx context.Context, tx *gorm.DB, order *models.Order) error {
		order.ID = "order-1"
		createdOrder = order
		return nil
	}

	decremented := map[string]int{}
	f.productRepo.decrementStockFn = func(ctx context.Context, tx *gorm.DB, productID string, qty int) error {
		decremented[productID] += qty
		return nil
	}

	cartCleared := false
	f.cartRepo.clearCartTxFn = func(ctx context.Context, tx *gorm.DB, cartID string) error {
		cartCleared = true
		return nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	result, err := f.svc.PlaceOrder(context.Background(), "user-1", "cart-1", "", "leave at door", nil)

	require.NoError(t, err)
	require.NotNil(t, createdOrder)
	assert.Equal(t, models.OrderStatusPending, createdOrder.Status)
	assert.True(t, dec("40").Equal(createdOrder.BaseTotalPrice))
	assert.True(t, createdOrder.FreightCost.IsPositive())
	assert.True(t, createdOrder.DiscountAmount.IsZero())

	// total = items + freight - discount
	expectedTotal := createdOrder.BaseTotalPrice.
		Add(createdOrder.FreightCost).
		Sub(createdOrder.DiscountAmount).
		Round(2)
	assert.True(t, expectedTotal.Equal(createdOrder.TotalAmount))

	assert.Equal(t, map[string]int{"p1": 2, "p2": 1}, decremented)
	assert.ElementsMatch(t, []string{"seller-1", "seller-2"}, createdOrder.SellerIDs)
	assert.True(t, cartCleared)
	assert.Equal(t, "leave at door", createdOrder.Notes)
	assert.Equal(t, "Alice", createdOrder.ShippingName)

	// One customer notification plus one per seller, all in-transaction.
	require.Len(t, f.notificationRepo.created, 3)
	assert.Contains(t, f.notificationRepo.created[0].Message, "placed successfully")

	assert.True(t, result.Travel.OptimalRoute)
	assert.True(t, result.Travel.TotalFreightCost.Equal(createdOrder.FreightCost))
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	f := newCheckoutFixture(t, cityGeocoder())
	f.wireHappyPath()

	f.productRepo.decrementStockFn = func(ctx context.Context, tx *gorm.DB, productID string, qty int) error {
		return repositories.ErrInsufficientStock
	}

	orderCreated := false
	f.orderRepo.createFn = func(ctx context.Context, tx *gorm.DB, order *models.Order) error {
		orderCreated = true
		return nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.PlaceOrder(context.Background(), "user-1", "cart-1", "", "", nil)

	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)
	assert.False(t, orderCreated)
	assert.Empty(t, f.notificationRepo.created)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, cityGeocoder())
	f.cartRepo.getCartWithItemsFn = func(ctx context.Context, cartID string) (*models.Cart, error) {
		return &models.Cart{ID: cartID}, nil
	}

	_, err := f.svc.PlaceOrder(context.Background(), "user-1", "cart-1", "", "", nil)

	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestPlaceOrderWithCoupon(t *testing.T) {
	f := newCheckoutFixture(t, cityGeocoder())
	f.wireHappyPath()

	amount := dec("5")
	coupon := &models.Coupon{ID: "coupon-1", Code: "SAVE5AAA", DiscountAmount: &amount}
	f.couponRepo.findByCodeForUserFn = func(ctx context.Context, code, userID string) (*models.Coupon, error) {
		return coupon, nil
	}
	f.couponRepo.findByCodeForUpdateFn = func(ctx context.Context, tx *gorm.DB, code string) (*models.Coupon, error) {
		return coupon, nil
	}

	var markedOrderID string
	f.couponRepo.markUsedFn = func(ctx context.Context, tx *gorm.DB, couponID, orderID string) error {
		markedOrderID = orderID
		return nil
	}

	var createdOrder *models.Order
	f.orderRepo.createFn = func(ctx context.Context, tx *gorm.DB, order *models.Order) error {
		order.ID = "order-1"
		createdOrder = order
		return nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	result, err := f.svc.PlaceOrder(context.Background(), "user-1", "cart-1", "SAVE5AAA", "", nil)

	require.NoError(t, err)
	assert.True(t, dec("5").Equal(createdOrder.DiscountAmount))
	require.NotNil(t, createdOrder.CouponID)
	assert.Equal(t, "coupon-1", *createdOrder.CouponID)
	assert.Equal(t, "order-1", markedOrderID)

	expectedTotal := createdOrder.BaseTotalPrice.
		Add(createdOrder.FreightCost).
		Sub(dec("5")).
		Round(2)
	assert.True(t, expectedTotal.Equal(createdOrder.TotalAmount))
	assert.Equal(t, coupon, result.AppliedCoupon)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestPlaceOrderCouponMinimumCountsFreight(t *testing.T) {
	f := newCheckoutFixture(t, cityGeocoder())
	f.wireHappyPath()

	// Items alone are 40, below the 45 minimum; freight lifts the payable
	// total past the gate.
	amount := dec("5")
	coupon := &models.Coupon{ID: "coupon-1", Code: "SAVE5AAA", DiscountAmount: &amount, MinOrderAmount: dec("45")}
	f.couponRepo.findByCodeForUserFn = func(ctx context.Context, code, userID string) (*models.Coupon, error) {
		return coupon, nil
	}
	f.couponRepo.findByCodeForUpdateFn = func(ctx context.Context, tx *gorm.DB, code string) (*models.Coupon, error) {
		return coupon, nil
	}

	var createdOrder *models.Order
	f.orderRepo.createFn = func(ctx context.Context, tx *gorm.DB, order *models.Order) error {
		order.ID = "order-1"
		createdOrder = order
		return nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	_, err := f.svc.PlaceOrder(context.Background(), "user-1", "cart-1", "SAVE5AAA", "", nil)

	require.NoError(t, err)
	assert.True(t, dec("5").Equal(createdOrder.DiscountAmount))
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestPlaceOrderCouponRaceLoserRollsBack(t *testing.T) {
	f := newCheckoutFixture(t, cityGeocoder())
	f.wireHappyPath()

	amount := dec("5")
	f.couponRepo.findByCodeForUserFn = func(ctx context.Context, code, userID string) (*models.Coupon, error) {
		return &models.Coupon{ID: "coupon-1", Code: code, DiscountAmount: &amount}, nil
	}
	// The locked re-read sees the coupon consumed by a concurrent checkout.
	f.couponRepo.findByCodeForUpdateFn = func(ctx context.Context, tx *gorm.DB, code string) (*models.Coupon, error) {
		return &models.Coupon{ID: "coupon-1", Code: code, DiscountAmount: &amount, IsUsed: true}, nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.PlaceOrder(context.Background(), "user-1", "cart-1", "SAVE5AAA", "", nil)

	assert.ErrorIs(t, err, ErrCouponNotApplied)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestPlaceOrderInvalidCouponFailsBeforeTransaction(t *testing.T) {
	f := newCheckoutFixture(t, cityGeocoder())
	f.wireHappyPath()

	_, err := f.svc.PlaceOrder(context.Background(), "user-1", "cart-1", "NOPE1234", "", nil)

	assert.ErrorIs(t, err, ErrCouponNotApplied)
	assert.Contains(t, err.Error(), "Coupon not found or invalid for this user")
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestPlaceOrderGeocodeFailureMeansZeroFreight(t *testing.T) {
	f := newCheckoutFixture(t, &fakeGeocoder{})
	f.wireHappyPath()

	var createdOrder *models.Order
	f.orderRepo.createFn = func(ctx context.Context, tx *gorm.DB, order *models.Order) error {
		createdOrder = order
		return nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	result, err := f.svc.PlaceOrder(context.Background(), "user-1", "cart-1", "", "", nil)

	require.NoError(t, err)
	assert.True(t, createdOrder.FreightCost.IsZero())
	assert.True(t, dec("40").Equal(createdOrder.TotalAmount))
	assert.False(t, result.Travel.OptimalRoute)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

// validatingGeocoder resolves known cities with the fields the address
// validator compares against.
func validatingGeocoder() *fakeGeocoder {
	cities := map[string]*GeoLocation{
		"Paris":     {Lat: 48.8566, Lon: 2.3522, City: "Paris", Country: "France", Confidence: 0.9},
		"Lyon":      {Lat: 45.7640, Lon: 4.8357, City: "Lyon", Country: "France", Confidence: 0.9},
		"Marseille": {Lat: 43.2965, Lon: 5.3698, City: "Marseille", Country: "France", Confidence: 0.9},
	}
	return &fakeGeocoder{
		geocodeFn: func(ctx context.Context, text string) (*GeoLocation, error) {
			for name, loc := range cities {
				if strings.Contains(text, name) {
					return loc, nil
				}
			}
			return nil, nil
		},
	}
}

func TestPlaceOrderShipsToNewAddress(t *testing.T) {
	f := newCheckoutFixture(t, validatingGeocoder())
	f.wireHappyPath()

	var createdOrder *models.Order
	f.orderRepo.createFn = func(ctx context.Context, tx *gorm.DB, order *models.Order) error {
		createdOrder = order
		return nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	shipping := &ShippingAddress{
		Name:    "Bob Martin",
		Street:  "5 rue de la Canebiere",
		City:    "Marseille",
		Country: "France",
	}
	_, err := f.svc.PlaceOrder(context.Background(), "user-1", "cart-1", "", "", shipping)

	require.NoError(t, err)
	assert.Equal(t, "Bob Martin", createdOrder.ShippingName)
	assert.Equal(t, "Marseille", createdOrder.ShippingCity)
	assert.Equal(t, "5 rue de la Canebiere", createdOrder.ShippingStreet)
	assert.True(t, createdOrder.FreightCost.IsPositive())
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestPlaceOrderRejectsInvalidNewAddress(t *testing.T) {
	f := newCheckoutFixture(t, validatingGeocoder())
	f.wireHappyPath()

	orderCreated := false
	f.orderRepo.createFn = func(ctx context.Context, tx *gorm.DB, order *models.Order) error {
		orderCreated = true
		return nil
	}

	shipping := &ShippingAddress{
		Street:  "1 nowhere lane",
		City:    "Atlantis",
		Country: "France",
	}
	_, err := f.svc.PlaceOrder(context.Background(), "user-1", "cart-1", "", "", shipping)

	assert.ErrorIs(t, err, ErrShippingAddressInvalid)
	assert.False(t, orderCreated)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func pendingOrder() *models.Order {
	return &models.Order{
		ID:        "order-1",
		UserID:    "user-1",
		OrderCode: "ORD-20260101-abc12345",
		Status:    models.OrderStatusPending,
		SellerIDs: []string{"seller-1", "seller-2"},
		OrderItems: []models.OrderItem{
			{OrderID: "order-1", ProductID: "p1", SellerID: "seller-1", Qty: 2, Price: dec("10"), Subtotal: dec("20")},
			{OrderID: "order-1", ProductID: "p2", SellerID: "seller-2", Qty: 1, Price: dec("20"), Subtotal: dec("20")},
		},
		BaseTotalPrice: dec("40"),
		FreightCost:    dec("3.50"),
		TotalAmount:    dec("43.50"),
	}
}

func TestCancelOrderRestoresStock(t *testing.T) {
	f := newCheckoutFixture(t, cityGeocoder())

	f.orderRepo.getByIDForUpdateFn = func(ctx context.Context, tx *gorm.DB, id string) (*models.Order, error) {
		return pendingOrder(), nil
	}

	restored := map[string]int{}
	f.productRepo.restoreStockFn = func(ctx context.Context, tx *gorm.DB, productID string, qty int) error {
		restored[productID] += qty
		return nil
	}

	var newStatus string
	f.orderRepo.updateStatusFn = func(ctx context.Context, tx *gorm.DB, orderID string, status string) error {
		newStatus = status
		return nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	order, err := f.svc.CancelOrder(context.Background(), "order-1", "user-1")

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, newStatus)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	assert.Equal(t, map[string]int{"p1": 2, "p2": 1}, restored)

	// Customer notification plus one per seller.
	require.Len(t, f.notificationRepo.created, 3)
	assert.Contains(t, f.notificationRepo.created[0].Message, "cancelled")
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCancelOrderOnlyPending(t *testing.T) {
	f := newCheckoutFixture(t, cityGeocoder())

	f.orderRepo.getByIDForUpdateFn = func(ctx context.Context, tx *gorm.DB, id string) (*models.Order, error) {
		order := pendingOrder()
		order.Status = models.OrderStatusShipped
		return order, nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.CancelOrder(context.Background(), "order-1", "user-1")

	assert.ErrorIs(t, err, ErrOrderNotPending)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCancelOrderWrongUser(t *testing.T) {
	f := newCheckoutFixture(t, cityGeocoder())

	f.orderRepo.getByIDForUpdateFn = func(ctx context.Context, tx *gorm.DB, id string) (*models.Order, error) {
		return pendingOrder(), nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.CancelOrder(context.Background(), "order-1", "somebody-else")

	assert.ErrorIs(t, err, ErrOrderNotOwned)
	require.NoError(t, f.mock.ExpectationsWereMet())
}
