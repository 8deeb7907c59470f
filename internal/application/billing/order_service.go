package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/billing"
	"github.com/square15/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService handles customer order operations
type OrderService struct {
	orderRepo billing.OrderRepository
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo billing.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// OrderResponse is the order DTO returned to clients
type OrderResponse struct {
	ID            uuid.UUID          `json:"id"`
	OrderNumber   string             `json:"order_number"`
	CustomerID    uuid.UUID          `json:"customer_id"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	Lines         []LineItemResponse `json:"lines"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	VATAmount     decimal.Decimal    `json:"vat_amount"`
	Total         decimal.Decimal    `json:"total"`
	Status        string             `json:"status"`
	ConfirmedAt   *time.Time         `json:"confirmed_at,omitempty"`
	FulfilledAt   *time.Time         `json:"fulfilled_at,omitempty"`
	CancelReason  string             `json:"cancel_reason,omitempty"`
	Remark        string             `json:"remark,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	Version       int                `json:"version"`
}

// CreateOrderRequest contains fields for creating an order
type CreateOrderRequest struct {
	CustomerID    uuid.UUID         `json:"customer_id" binding:"required"`
	CustomerName  string            `json:"customer_name" binding:"required"`
	CustomerEmail string            `json:"customer_email"`
	Lines         []LineItemRequest `json:"lines"`
	Remark        string            `json:"remark"`
}

// CancelOrderRequest carries the cancellation reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// OrderListFilter defines filtering options for listing orders
type OrderListFilter struct {
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"`
	Search     string `form:"search"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// CreateOrder creates a pending order with optional initial lines
func (s *OrderService) CreateOrder(ctx context.Context, tenantID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	number, err := s.orderRepo.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to generate order number", zap.Error(err))
		return nil, err
	}

	order, err := billing.NewOrder(tenantID, number, req.CustomerID, req.CustomerName, req.CustomerEmail)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Lines {
		if err := order.AddLine(line.Description, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		order.SetRemark(req.Remark)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.Total.StringFixed(2)))

	return toOrderResponse(order), nil
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.findOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// ListOrders lists orders for the tenant with filtering
func (s *OrderService) ListOrders(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := billing.OrderFilter{
		Filter: shared.Filter{
			Search:   filter.Search,
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
	}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID is not a valid UUID")
		}
		domainFilter.CustomerID = &customerID
	}
	if filter.Status != "" {
		status := billing.OrderStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Order status is not valid")
		}
		domainFilter.Status = &status
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, *toOrderResponse(&orders[i]))
	}
	return responses, total, nil
}

// AddOrderLine appends a line to a pending order
func (s *OrderService) AddOrderLine(ctx context.Context, tenantID, orderID uuid.UUID, req LineItemRequest) (*OrderResponse, error) {
	order, err := s.findOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.AddLine(req.Description, req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// ConfirmOrder accepts the order for processing
func (s *OrderService) ConfirmOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.findOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Confirm(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order confirmed", zap.String("order_number", order.OrderNumber))

	return toOrderResponse(order), nil
}

// FulfillOrder completes delivery of the order
func (s *OrderService) FulfillOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.findOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Fulfill(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// CancelOrder voids the order
func (s *OrderService) CancelOrder(ctx context.Context, tenantID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	order, err := s.findOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// DeleteOrder removes a pending or cancelled order
func (s *OrderService) DeleteOrder(ctx context.Context, tenantID, orderID uuid.UUID) error {
	order, err := s.findOrder(ctx, tenantID, orderID)
	if err != nil {
		return err
	}

	if order.Status != billing.OrderStatusPending && order.Status != billing.OrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Only pending or cancelled orders can be deleted")
	}

	return s.orderRepo.DeleteForTenant(ctx, tenantID, orderID)
}

func (s *OrderService) findOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*billing.Order, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Order not found")
	}
	return order, nil
}

// toOrderResponse maps an order aggregate to the response DTO
func toOrderResponse(order *billing.Order) *OrderResponse {
	resp := &OrderResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.CustomerID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Lines:         make([]LineItemResponse, 0, len(order.Lines)),
		Subtotal:      order.Subtotal,
		VATAmount:     order.VATAmount,
		Total:         order.Total,
		Status:        order.Status.String(),
		ConfirmedAt:   order.ConfirmedAt,
		FulfilledAt:   order.FulfilledAt,
		CancelReason:  order.CancelReason,
		Remark:        order.Remark,
		CreatedAt:     order.CreatedAt,
		Version:       order.Version,
	}
	for _, line := range order.Lines {
		resp.Lines = append(resp.Lines, LineItemResponse{
			ID:          line.ID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal,
		})
	}
	return resp
}
