package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationTypeCustomer             = "customer"
	NotificationTypeSeller               = "seller"
	NotificationTypeSellerReview         = "seller_review"
	NotificationTypeCustomerReviewAnswer = "customer_review_answer"
)

type Notification struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID"`
	OrderID   string    `gorm:"size:36;index" json:"order_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:30;not null" json:"type"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}

// Message builders. Keeping every template in one place makes the copy easy
// to audit.

func NewCustomerOrderPlaced(order *Order) *Notification {
	return &Notification{
		UserID:  order.UserID,
		OrderID: order.ID,
		Message: fmt.Sprintf("Your order #%s has been placed successfully!", order.OrderCode),
		Type:    NotificationTypeCustomer,
	}
}

func NewSellerNewOrder(sellerID string, order *Order) *Notification {
	return &Notification{
		UserID:  sellerID,
		OrderID: order.ID,
		Message: fmt.Sprintf("You have a new order #%s with items from your store!", order.OrderCode),
		Type:    NotificationTypeSeller,
	}
}

func NewOrderStatusChange(userID string, order *Order, newStatus string) *Notification {
	var message string
	switch newStatus {
	case OrderStatusProcessing:
		message = fmt.Sprintf("Your order #%s is now being processed.", order.OrderCode)
	case OrderStatusShipped:
		message = fmt.Sprintf("Your order #%s has been shipped!", order.OrderCode)
	case OrderStatusDelivered:
		message = fmt.Sprintf("Your order #%s has been delivered successfully!", order.OrderCode)
	case OrderStatusCancelled:
		message = fmt.Sprintf("Your order #%s has been cancelled.", order.OrderCode)
	default:
		message = fmt.Sprintf("Order #%s status has been updated.", order.OrderCode)
	}
	return &Notification{
		UserID:  userID,
		OrderID: order.ID,
		Message: message,
		Type:    NotificationTypeCustomer,
	}
}

func NewSellerOrderCancellation(sellerID string, order *Order) *Notification {
	return &Notification{
		UserID:  sellerID,
		OrderID: order.ID,
		Message: fmt.Sprintf("Your items from order #%s have been cancelled by the customer.", order.OrderCode),
		Type:    NotificationTypeSeller,
	}
}

func NewSellerItemsRemoved(order *Order) *Notification {
	return &Notification{
		UserID:  order.UserID,
		OrderID: order.ID,
		Message: fmt.Sprintf("Some items from order #%s have been removed by the seller.", order.OrderCode),
		Type:    NotificationTypeCustomer,
	}
}

func NewReviewRequest(userID string, order *Order) *Notification {
	return &Notification{
		UserID:  userID,
		OrderID: order.ID,
		Message: fmt.Sprintf("Your order #%s has been delivered! Please leave a review to help us improve.", order.OrderCode),
		Type:    NotificationTypeCustomer,
	}
}

func NewSellerReviewPosted(sellerID string, order *Order) *Notification {
	return &Notification{
		UserID:  sellerID,
		OrderID: order.ID,
		Message: fmt.Sprintf("A customer has posted a review for order #%s. You can now answer the review.", order.OrderCode),
		Type:    NotificationTypeSellerReview,
	}
}

func NewCustomerReviewAnswered(customerID string, order *Order, review *Review) *Notification {
	return &Notification{
		UserID:  customerID,
		OrderID: order.ID,
		Message: fmt.Sprintf("A seller has responded to your review for order #%s saying: %q.", order.OrderCode, review.Answer()),
		Type:    NotificationTypeCustomerReviewAnswer,
	}
}
