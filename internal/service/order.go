package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dathuynh/watch-store-api/internal/events"
	"github.com/dathuynh/watch-store-api/internal/logging"
	"github.com/dathuynh/watch-store-api/internal/models"
	"github.com/dathuynh/watch-store-api/internal/repo"
	"github.com/dathuynh/watch-store-api/internal/transport"
)

// ShippingFee is a flat per-order fee in VND.
var ShippingFee = decimal.NewFromInt(30000)

var paymentMethods = map[string]bool{
	models.PaymentMethodCOD:          true,
	models.PaymentMethodBankTransfer: true,
	models.PaymentMethodCreditCard:   true,
}

type OrderService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
}

func NewOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

func (s *OrderService) Create(ctx context.Context, userID uint, req transport.CreateOrderRequest) (*models.Order, error) {
	if req.ShippingAddress == "" {
		return nil, fmt.Errorf("%w: shipping_address required", ErrValidation)
	}
	if req.ShippingPhone == "" {
		return nil, fmt.Errorf("%w: shipping_phone required", ErrValidation)
	}
	if !paymentMethods[req.PaymentMethod] {
		return nil, fmt.Errorf("%w: unknown payment_method %q", ErrValidation, req.PaymentMethod)
	}

	order := &models.Order{
		OrderNumber:     NewOrderNumber(),
		Status:          models.OrderStatusPending,
		ShippingFee:     ShippingFee,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		ShippingAddress: req.ShippingAddress,
		ShippingPhone:   req.ShippingPhone,
		Notes:           req.Notes,
	}
	if err := s.Repo.PlaceOrder(ctx, userID, order); err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type":         "order_created",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      userID,
		"total":        order.Total,
	}, order.ID)

	return order, nil
}

func (s *OrderService) List(ctx context.Context, userID uint, isAdmin bool, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListOrders(ctx, userID, isAdmin, offset, limit)
}

func (s *OrderService) Get(ctx context.Context, id, userID uint, isAdmin bool) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id, userID, isAdmin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Cancel(ctx context.Context, id, userID uint, isAdmin bool) (*models.Order, error) {
	order, err := s.Repo.CancelOrder(ctx, id, userID, isAdmin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type":         "order_cancelled",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
	}, order.ID)

	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	status = strings.ToUpper(status)
	switch status {
	case models.OrderStatusPending, models.OrderStatusPaid, models.OrderStatusProcessing,
		models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	order, err := s.Repo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type":         "order_status_updated",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       order.Status,
	}, order.ID)

	return order, nil
}

func (s *OrderService) publish(ctx context.Context, event map[string]any, orderID uint) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.PublishEvent(pubCtx, events.TopicOrderEvents, strconv.FormatUint(uint64(orderID), 10), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "topic", events.TopicOrderEvents, "error", err)
	}
}
