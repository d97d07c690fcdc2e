package services

import (
	"context"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/TekNegr/Projet-Ecommerce/app/repositories"
	"gorm.io/gorm"
)

// Function-field fakes for the repository interfaces. Unset fields return
// zero values so each test only wires what it exercises.

type fakeGeocoder struct {
	geocodeFn func(ctx context.Context, text string) (*GeoLocation, error)
}

func (f *fakeGeocoder) Geocode(ctx context.Context, text string) (*GeoLocation, error) {
	if f.geocodeFn == nil {
		return nil, nil
	}
	return f.geocodeFn(ctx, text)
}

type fakeCouponRepo struct {
	createFn              func(ctx context.Context, coupon *models.Coupon) error
	getByIDFn             func(ctx context.Context, id string) (*models.Coupon, error)
	findByCodeForUserFn   func(ctx context.Context, code, userID string) (*models.Coupon, error)
	findByCodeForUpdateFn func(ctx context.Context, tx *gorm.DB, code string) (*models.Coupon, error)
	markUsedFn            func(ctx context.Context, tx *gorm.DB, couponID, orderID string) error
	existsByCodeFn        func(ctx context.Context, code string) (bool, error)
}

func (f *fakeCouponRepo) Create(ctx context.Context, coupon *models.Coupon) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, coupon)
}

func (f *fakeCouponRepo) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	if f.getByIDFn == nil {
		return nil, nil
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeCouponRepo) FindByCodeForUser(ctx context.Context, code, userID string) (*models.Coupon, error) {
	if f.findByCodeForUserFn == nil {
		return nil, nil
	}
	return f.findByCodeForUserFn(ctx, code, userID)
}

func (f *fakeCouponRepo) FindByCodeForUpdate(ctx context.Context, tx *gorm.DB, code string) (*models.Coupon, error) {
	if f.findByCodeForUpdateFn == nil {
		return nil, nil
	}
	return f.findByCodeForUpdateFn(ctx, tx, code)
}

func (f *fakeCouponRepo) MarkUsed(ctx context.Context, tx *gorm.DB, couponID, orderID string) error {
	if f.markUsedFn == nil {
		return nil
	}
	return f.markUsedFn(ctx, tx, couponID, orderID)
}

func (f *fakeCouponRepo) FindValidByUserID(ctx context.Context, userID string) ([]models.Coupon, error) {
	return nil, nil
}

func (f *fakeCouponRepo) ListPaginated(ctx context.Context, limit, offset int) ([]models.Coupon, int64, error) {
	return nil, 0, nil
}

func (f *fakeCouponRepo) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeCouponRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if f.existsByCodeFn == nil {
		return false, nil
	}
	return f.existsByCodeFn(ctx, code)
}

func (f *fakeCouponRepo) Statistics(ctx context.Context) (*repositories.CouponStatistics, error) {
	return nil, nil
}

type fakeCartRepo struct {
	getCartWithItemsFn func(ctx context.Context, cartID string) (*models.Cart, error)
	clearCartTxFn      func(ctx context.Context, tx *gorm.DB, cartID string) error
}

func (f *fakeCartRepo) GetCartWithItems(ctx context.Context, cartID string) (*models.Cart, error) {
	if f.getCartWithItemsFn == nil {
		return nil, nil
	}
	return f.getCartWithItemsFn(ctx, cartID)
}

func (f *fakeCartRepo) UpdateCartSummary(ctx context.Context, cartID string) error { return nil }

func (f *fakeCartRepo) GetCartItemCount(ctx context.Context, cartID string) (int, error) {
	return 0, nil
}

func (f *fakeCartRepo) ClearCart(ctx context.Context, cartID string) error { return nil }

func (f *fakeCartRepo) ClearCartTx(ctx context.Context, tx *gorm.DB, cartID string) error {
	if f.clearCartTxFn == nil {
		return nil
	}
	return f.clearCartTxFn(ctx, tx, cartID)
}

type fakeProductRepo struct {
	getByIDFn          func(ctx context.Context, id string) (*models.Product, error)
	getByIDForUpdateFn func(ctx context.Context, tx *gorm.DB, id string) (*models.Product, error)
	decrementStockFn   func(ctx context.Context, tx *gorm.DB, productID string, qty int) error
	restoreStockFn     func(ctx context.Context, tx *gorm.DB, productID string, qty int) error
}

func (f *fakeProductRepo) GetProducts(ctx context.Context) ([]models.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) GetPaginated(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if f.getByIDFn == nil {
		return nil, nil
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) GetBySellerID(ctx context.Context, sellerID string) ([]models.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) Create(ctx context.Context, product *models.Product) error { return nil }
func (f *fakeProductRepo) Update(ctx context.Context, product *models.Product) error { return nil }
func (f *fakeProductRepo) Delete(ctx context.Context, id string) error               { return nil }

func (f *fakeProductRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Product, error) {
	if f.getByIDForUpdateFn == nil {
		return nil, nil
	}
	return f.getByIDForUpdateFn(ctx, tx, id)
}

func (f *fakeProductRepo) DecrementStock(ctx context.Context, tx *gorm.DB, productID string, qty int) error {
	if f.decrementStockFn == nil {
		return nil
	}
	return f.decrementStockFn(ctx, tx, productID, qty)
}

func (f *fakeProductRepo) RestoreStock(ctx context.Context, tx *gorm.DB, productID string, qty int) error {
	if f.restoreStockFn == nil {
		return nil
	}
	return f.restoreStockFn(ctx, tx, productID, qty)
}

type fakeUserRepo struct {
	findByIDFn  func(ctx context.Context, id string) (*models.User, error)
	findByIDsFn func(ctx context.Context, ids []string) ([]models.User, error)
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if f.findByIDFn == nil {
		return nil, nil
	}
	return f.findByIDFn(ctx, id)
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if f.findByIDsFn == nil {
		return nil, nil
	}
	return f.findByIDsFn(ctx, ids)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error { return nil }
func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error { return nil }

type fakeOrderRepo struct {
	createFn           func(ctx context.Context, tx *gorm.DB, order *models.Order) error
	getByIDFn          func(ctx context.Context, id string) (*models.Order, error)
	getByIDForUpdateFn func(ctx context.Context, tx *gorm.DB, id string) (*models.Order, error)
	updateStatusFn     func(ctx context.Context, tx *gorm.DB, orderID string, status string) error
	saveFn             func(ctx context.Context, tx *gorm.DB, order *models.Order) error
}

func (f *fakeOrderRepo) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, tx, order)
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	if f.getByIDFn == nil {
		return nil, nil
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeOrderRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Order, error) {
	if f.getByIDForUpdateFn == nil {
		return nil, nil
	}
	return f.getByIDForUpdateFn(ctx, tx, id)
}

func (f *fakeOrderRepo) FindByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) FindBySellerID(ctx context.Context, sellerID string) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, status string) error {
	if f.updateStatusFn == nil {
		return nil
	}
	return f.updateStatusFn(ctx, tx, orderID, status)
}

func (f *fakeOrderRepo) Save(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if f.saveFn == nil {
		return nil
	}
	return f.saveFn(ctx, tx, order)
}

type fakeOrderItemRepo struct {
	bulkCreateFn           func(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error
	markShippedForSellerFn func(ctx context.Context, tx *gorm.DB, orderID, sellerID string) error
	deleteForSellerFn      func(ctx context.Context, tx *gorm.DB, orderID, sellerID string) error
}

func (f *fakeOrderItemRepo) BulkCreate(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	if f.bulkCreateFn == nil {
		return nil
	}
	return f.bulkCreateFn(ctx, tx, items)
}

func (f *fakeOrderItemRepo) GetByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	return nil, nil
}

func (f *fakeOrderItemRepo) MarkShippedForSeller(ctx context.Context, tx *gorm.DB, orderID, sellerID string) error {
	if f.markShippedForSellerFn == nil {
		return nil
	}
	return f.markShippedForSellerFn(ctx, tx, orderID, sellerID)
}

func (f *fakeOrderItemRepo) DeleteForSeller(ctx context.Context, tx *gorm.DB, orderID, sellerID string) error {
	if f.deleteForSellerFn == nil {
		return nil
	}
	return f.deleteForSellerFn(ctx, tx, orderID, sellerID)
}

type fakeNotificationRepo struct {
	created []*models.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	f.created = append(f.created, notification)
	return nil
}

func (f *fakeNotificationRepo) CreateTx(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	f.created = append(f.created, notification)
	return nil
}

func (f *fakeNotificationRepo) FindByUserID(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id string) error { return nil }
func (f *fakeNotificationRepo) Delete(ctx context.Context, id string) error   { return nil }

type fakeReviewRepo struct {
	createFn             func(ctx context.Context, review *models.Review) error
	getByIDFn            func(ctx context.Context, id string) (*models.Review, error)
	findByUserAndOrderFn func(ctx context.Context, userID, orderID string) (*models.Review, error)
	updateFn             func(ctx context.Context, review *models.Review) error
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *models.Review) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, review)
}

func (f *fakeReviewRepo) GetByID(ctx context.Context, id string) (*models.Review, error) {
	if f.getByIDFn == nil {
		return nil, nil
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeReviewRepo) FindByUserAndOrder(ctx context.Context, userID, orderID string) (*models.Review, error) {
	if f.findByUserAndOrderFn == nil {
		return nil, nil
	}
	return f.findByUserAndOrderFn(ctx, userID, orderID)
}

func (f *fakeReviewRepo) Update(ctx context.Context, review *models.Review) error {
	if f.updateFn == nil {
		return nil
	}
	return f.updateFn(ctx, review)
}
