package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/PauGgimenez/Practica4/internal/clock"
	"github.com/PauGgimenez/Practica4/internal/domain"
	"github.com/PauGgimenez/Practica4/internal/events"
)

// OrderRepository is the storage contract consumed by OrderService. Methods
// invoked inside the WithTx closure run on one transaction; the whole write
// set commits or rolls back together.
type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	CreateOrder(ctx context.Context, order domain.Order) error
	CreateOrderLines(ctx context.Context, orderID string, lines []domain.OrderLine) error
	DecrementStock(ctx context.Context, productID string, quantity int) error
	GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.Status, updatedAt time.Time) error
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	AppendEvent(ctx context.Context, topic, eventType, key string, payload any) error
}

const defaultMaxAttempts = 3

type OrderService struct {
	repo        OrderRepository
	clock       clock.Clock
	maxAttempts int

	onCreated func()
}

func NewOrderService(repo OrderRepository, clk clock.Clock, opts ...OrderServiceOption) *OrderService {
	svc := &OrderService{
		repo:        repo,
		clock:       clk,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type OrderServiceOption func(*OrderService)

// WithMaxAttempts overrides how often CreateOrder is retried on write
// conflicts before ErrConflict is surfaced.
func WithMaxAttempts(n int) OrderServiceOption {
	return func(s *OrderService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithCreatedHook installs a callback invoked after each committed order,
// used to feed the created-orders counter.
func WithCreatedHook(fn func()) OrderServiceOption {
	return func(s *OrderService) {
		s.onCreated = fn
	}
}

type LineInput struct {
	ProductID string
	Quantity  int
}

type CreateOrderInput struct {
	UserID string
	Lines  []LineInput
}

// CreateOrder builds an order from the requested lines using the catalog's
// current prices, decrements stock under the same transaction, and returns
// the fully populated order. On a reported write conflict the whole operation
// restarts with fresh reads, a bounded number of times.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	if in.UserID == "" {
		return domain.Order{}, domain.ErrUserRequired
	}
	if len(in.Lines) == 0 {
		return domain.Order{}, domain.ErrEmptyOrder
	}
	for _, line := range in.Lines {
		if line.ProductID == "" {
			return domain.Order{}, domain.ErrInvalidID
		}
		if line.Quantity <= 0 {
			return domain.Order{}, domain.ErrInvalidQuantity
		}
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		order, err := s.createOnce(ctx, in)
		if err == domain.ErrConflict {
			continue
		}
		if err == nil && s.onCreated != nil {
			s.onCreated()
		}
		return order, err
	}
	return domain.Order{}, domain.ErrConflict
}

func (s *OrderService) createOnce(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	now := s.clock.Now()
	var result domain.Order

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		lines := make([]domain.OrderLine, 0, len(in.Lines))
		for _, line := range in.Lines {
			product, err := s.repo.GetProduct(txCtx, line.ProductID)
			if err != nil {
				return err
			}
			lines = append(lines, domain.OrderLine{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
			})
		}

		order := domain.NewOrder(uuid.NewString(), in.UserID, lines, now)

		if err := s.repo.CreateOrder(txCtx, order); err != nil {
			return err
		}
		if err := s.repo.CreateOrderLines(txCtx, order.ID, order.Lines); err != nil {
			return err
		}
		for _, line := range order.Lines {
			if err := s.repo.DecrementStock(txCtx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		if err := s.repo.AppendEvent(txCtx, events.TopicOrders, events.TypeOrderCreated, order.ID, orderCreatedPayload(order)); err != nil {
			return err
		}

		result = order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return result, nil
}

// TransitionStatus moves an order along the status graph. Illegal edges,
// including any edge out of a terminal state, fail with ErrInvalidTransition
// and leave the order untouched.
func (s *OrderService) TransitionStatus(ctx context.Context, orderID string, next domain.Status) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.ErrInvalidID
	}
	if _, err := domain.ParseStatus(string(next)); err != nil {
		return domain.Order{}, err
	}

	now := s.clock.Now()
	var result domain.Order

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}

		from := order.Status
		if err := order.TransitionTo(next, now); err != nil {
			return err
		}
		if err := s.repo.UpdateOrderStatus(txCtx, order.ID, order.Status, order.UpdatedAt); err != nil {
			return err
		}
		if err := s.repo.AppendEvent(txCtx, events.TopicOrders, events.TypeOrderStatusChanged, order.ID, events.OrderStatusChanged{
			OrderID:   order.ID,
			From:      string(from),
			To:        string(order.Status),
			ChangedAt: now,
		}); err != nil {
			return err
		}

		result = order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return result, nil
}

// GetOrder loads the full aggregate (header plus ordered lines) in one
// consistent read.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.ErrInvalidID
	}
	return s.repo.GetOrder(ctx, orderID)
}

func orderCreatedPayload(order domain.Order) events.OrderCreated {
	lines := make([]events.OrderLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, events.OrderLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
			LineTotal: l.LineTotal.StringFixed(2),
		})
	}
	return events.OrderCreated{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Total:     order.Total.StringFixed(2),
		Lines:     lines,
		CreatedAt: order.CreatedAt,
	}
}
