package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/TekNegr/Projet-Ecommerce/app/repositories"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")
	ErrCartItemNotFound   = errors.New("item not found in cart")
)

type CartService struct {
	cartRepo     repositories.CartRepository
	cartItemRepo repositories.CartItemRepository
	productRepo  repositories.ProductRepository
}

func NewCartService(cartRepo repositories.CartRepository, cartItemRepo repositories.CartItemRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

func (s *CartService) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	return s.cartRepo.GetCartWithItems(ctx, cartID)
}

func (s *CartService) AddItem(ctx context.Context, cartID, productID string, qty int) (*models.Cart, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	cart, err := s.cartRepo.GetCartWithItems(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create cart: %w", err)
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.Status != models.ProductStatusActive {
		return nil, ErrProductUnavailable
	}

	existingItem, err := s.cartItemRepo.GetByCartAndProduct(ctx, cart.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing cart item: %w", err)
	}

	newQty := qty
	if existingItem != nil {
		newQty += existingItem.Qty
	}
	if product.Stock < newQty {
		return nil, fmt.Errorf("not enough stock for product %s: %w", product.Name, repositories.ErrInsufficientStock)
	}

	if existingItem != nil {
		existingItem.Qty = newQty
		existingItem.BasePrice = product.Price
		existingItem.Subtotal = product.Price.Mul(decimal.NewFromInt(int64(newQty)))
		if err := s.cartItemRepo.Update(ctx, existingItem); err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	} else {
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Qty:       qty,
			BasePrice: product.Price,
			Subtotal:  product.Price.Mul(decimal.NewFromInt(int64(qty))),
		}
		if err := s.cartItemRepo.Add(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	}

	if err := s.cartRepo.UpdateCartSummary(ctx, cart.ID); err != nil {
		return nil, fmt.Errorf("failed to update cart summary: %w", err)
	}
	return s.cartRepo.GetCartWithItems(ctx, cart.ID)
}

func (s *CartService) UpdateItemQty(ctx context.Context, cartID, productID string, qty int) (*models.Cart, error) {
	if qty <= 0 {
		return s.RemoveItem(ctx, cartID, productID)
	}

	item, err := s.cartItemRepo.GetByCartAndProduct(ctx, cartID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.Stock < qty {
		return nil, fmt.Errorf("not enough stock for product %s: %w", product.Name, repositories.ErrInsufficientStock)
	}

	item.Qty = qty
	item.BasePrice = product.Price
	item.Subtotal = product.Price.Mul(decimal.NewFromInt(int64(qty)))
	if err := s.cartItemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	if err := s.cartRepo.UpdateCartSummary(ctx, cartID); err != nil {
		return nil, fmt.Errorf("failed to update cart summary: %w", err)
	}
	return s.cartRepo.GetCartWithItems(ctx, cartID)
}

func (s *CartService) RemoveItem(ctx context.Context, cartID, productID string) (*models.Cart, error) {
	if err := s.cartItemRepo.Delete(ctx, cartID, productID); err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	if err := s.cartRepo.UpdateCartSummary(ctx, cartID); err != nil {
		return nil, fmt.Errorf("failed to update cart summary: %w", err)
	}
	return s.cartRepo.GetCartWithItems(ctx, cartID)
}

func (s *CartService) ClearCart(ctx context.Context, cartID string) error {
	return s.cartRepo.ClearCart(ctx, cartID)
}

func (s *CartService) ItemCount(ctx context.Context, cartID string) (int, error) {
	return s.cartRepo.GetCartItemCount(ctx, cartID)
}
