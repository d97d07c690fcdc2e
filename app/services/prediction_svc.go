package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/shopspring/decimal"
)

// PredictionRequest is the feature vector sent to the satisfaction model.
type PredictionRequest struct {
	TotalPrice          float64 `json:"total_price"`
	TotalItems          int     `json:"total_items"`
	TotalPayment        float64 `json:"total_payment"`
	PaymentCount        int     `json:"payment_count"`
	Distance            float64 `json:"distance"`
	DeliveryTime        float64 `json:"delivery_time"`
	ProductCategoryName string  `json:"product_category_name"`
}

type PredictionResponse struct {
	Data struct {
		Prediction int     `json:"prediction"`
		Confidence float64 `json:"confidence"`
	} `json:"data"`
}

// PredictionClient talks to the external satisfaction-prediction API.
type PredictionClient interface {
	Predict(ctx context.Context, req PredictionRequest) (*PredictionResponse, error)
	Health(ctx context.Context) error
}

type PredictionService struct {
	client  *http.Client
	baseURL string
}

func NewPredictionService(baseURL string, timeout time.Duration) *PredictionService {
	return &PredictionService{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func (s *PredictionService) Predict(ctx context.Context, req PredictionRequest) (*PredictionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode prediction request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build prediction request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("prediction API unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("prediction API returned status %d: %s", resp.StatusCode, string(raw))
	}

	var out PredictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode prediction response: %w", err)
	}
	return &out, nil
}

func (s *PredictionService) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("prediction API unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("prediction API unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// AICouponBridge runs the satisfaction model after checkout and hands out a
// retention coupon on a negative prediction. Every failure on this path is
// logged and swallowed: an order must never fail because the model is down.
type AICouponBridge struct {
	predictions         PredictionClient
	coupons             *CouponService
	paymentCountAssumed int
}

func NewAICouponBridge(predictions PredictionClient, coupons *CouponService, paymentCountAssumed int) *AICouponBridge {
	if paymentCountAssumed <= 0 {
		paymentCountAssumed = 1
	}
	return &AICouponBridge{
		predictions:         predictions,
		coupons:             coupons,
		paymentCountAssumed: paymentCountAssumed,
	}
}

// PredictAndHandleCoupon returns the generated coupon, or nil when the
// prediction was positive or anything failed.
func (b *AICouponBridge) PredictAndHandleCoupon(ctx context.Context, order *models.Order, category string, deliveryTimeHours float64) *models.Coupon {
	if b.predictions == nil {
		return nil
	}

	// The model was trained with the payment total equal to the order
	// total, and with the freight cost as its distance input.
	total, _ := order.TotalAmount.Float64()
	freight, _ := order.FreightCost.Float64()

	req := PredictionRequest{
		TotalPrice:          total,
		TotalItems:          order.TotalItemCount(),
		TotalPayment:        total,
		PaymentCount:        b.paymentCountAssumed,
		Distance:            freight,
		DeliveryTime:        math.Round(deliveryTimeHours),
		ProductCategoryName: category,
	}

	resp, err := b.predictions.Predict(ctx, req)
	if err != nil {
		log.Printf("AICouponBridge: prediction failed for order %s: %v", order.OrderCode, err)
		return nil
	}

	log.Printf("AICouponBridge: order %s prediction=%d confidence=%.2f",
		order.OrderCode, resp.Data.Prediction, resp.Data.Confidence)

	if resp.Data.Prediction != 0 {
		return nil
	}

	coupon, err := b.coupons.GenerateDissatisfactionCoupon(ctx, order.UserID, order.TotalAmount,
		fmt.Sprintf("AI predicted dissatisfaction for order #%s", order.OrderCode))
	if err != nil {
		log.Printf("AICouponBridge: failed to generate coupon for order %s: %v", order.OrderCode, err)
		return nil
	}
	return coupon
}

// PreviewPrediction runs the model against a not-yet-placed order draft.
func (b *AICouponBridge) PreviewPrediction(ctx context.Context, draft *models.OrderDraft, freightCost decimal.Decimal, deliveryTimeHours float64) (*PredictionResponse, error) {
	total, _ := draft.TotalAmount.Add(freightCost).Float64()
	freight, _ := freightCost.Float64()

	return b.predictions.Predict(ctx, PredictionRequest{
		TotalPrice:          total,
		TotalItems:          draft.TotalItems,
		TotalPayment:        total,
		PaymentCount:        b.paymentCountAssumed,
		Distance:            freight,
		DeliveryTime:        math.Round(deliveryTimeHours),
		ProductCategoryName: draft.DominantCategory(),
	})
}
