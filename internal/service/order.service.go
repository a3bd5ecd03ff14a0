package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"laundromat/internal/domain"
	"laundromat/internal/infrastructure/receipt"
	"laundromat/internal/pricing"
	"laundromat/internal/repo"
)

// Cache is the read-side cache for order listings. A nil Cache disables
// caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

const ordersCachePrefix = "orders:"

type OrderService interface {
	Submit(ctx context.Context, userID, serviceID int64, weight float64) (*domain.Order, error)
	Get(ctx context.Context, orderID int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.OrderWithCustomer, error)
	UpdateStatus(ctx context.Context, orderID int64, next domain.Status, pickupAt *time.Time) (*domain.Order, error)
	SelectCashPayment(ctx context.Context, orderID int64) (*domain.Order, error)
	ConfirmOnlinePayment(ctx context.Context, orderID int64) (*domain.Receipt, error)
	PaymentInstructions(ctx context.Context, orderID int64) (*domain.PaymentInstructions, error)
	Receipt(ctx context.Context, orderID int64) (*domain.Receipt, error)
}

type orderService struct {
	db       *sql.DB
	orders   repo.OrderRepo
	services repo.ServiceRepo
	users    repo.UserRepo
	renderer receipt.Renderer
	cache    Cache
	logger   *slog.Logger
	strict   bool
	now      func() time.Time
}

func NewOrderService(
	db *sql.DB,
	orders repo.OrderRepo,
	services repo.ServiceRepo,
	users repo.UserRepo,
	renderer receipt.Renderer,
	cache Cache,
	logger *slog.Logger,
	strict bool,
) OrderService {
	return &orderService{
		db:       db,
		orders:   orders,
		services: services,
		users:    users,
		renderer: renderer,
		cache:    cache,
		logger:   logger,
		strict:   strict,
		now:      time.Now,
	}
}

// Submit prices the order, promises a pickup time and persists it in one
// transaction. The receipt artifact is rendered after the insert, from
// the real row id, and attached before commit; a render failure leaves
// the artifact empty rather than losing the sale, and the backfill
// worker repairs it later.
func (s *orderService) Submit(ctx context.Context, userID, serviceID int64, weight float64) (*domain.Order, error) {
	svc, err := s.services.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, fmt.Errorf("service %d: %w", serviceID, domain.ErrNotFound)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}

	price, err := pricing.Quote(svc.PricePerKg, weight)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &domain.Order{
		UserID:        userID,
		ServiceID:     serviceID,
		OrderDate:     now,
		PickupDate:    pricing.PromisedPickup(now, svc.EstimatedTimeHours),
		Status:        domain.StatusPending,
		Weight:        weight,
		TotalPrice:    price,
		PaymentStatus: domain.PaymentPending,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.orders.Create(ctx, tx, order); err != nil {
		return nil, err
	}

	summary := receipt.OrderSummary(order.ID, user.Username, svc.Name, weight, price, order.PickupDate)
	if artifact, rerr := s.renderer.Render(summary); rerr == nil {
		order.Receipt = artifact
		if err := s.orders.SetReceipt(ctx, tx, order.ID, artifact); err != nil {
			return nil, err
		}
	} else {
		s.logger.Warn("receipt render failed, leaving for backfill", "order_id", order.ID, "err", rerr)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return order, nil
}

func (s *orderService) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
	}
	return order, nil
}

func (s *orderService) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	key := fmt.Sprintf("%suser:%d", ordersCachePrefix, userID)
	var orders []domain.Order
	if s.cacheGet(ctx, key, &orders) {
		return orders, nil
	}
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, orders)
	return orders, nil
}

func (s *orderService) ListAll(ctx context.Context) ([]domain.OrderWithCustomer, error) {
	key := ordersCachePrefix + "all"
	var orders []domain.OrderWithCustomer
	if s.cacheGet(ctx, key, &orders) {
		return orders, nil
	}
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, orders)
	return orders, nil
}

// UpdateStatus sets the new lifecycle status. Only a transition into
// Ready for Pickup touches the pickup date: the supplied timestamp, or
// now when omitted, becomes the authoritative ready time.
func (s *orderService) UpdateStatus(ctx context.Context, orderID int64, next domain.Status, pickupAt *time.Time) (*domain.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", next, domain.ErrInvalidInput)
	}

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if s.strict && next != order.Status && !order.CanTransitionTo(next) {
		return nil, fmt.Errorf("%s -> %s: %w", order.Status, next, domain.ErrInvalidTransition)
	}

	var newPickup *time.Time
	if next == domain.StatusReady {
		t := s.now()
		if pickupAt != nil {
			t = *pickupAt
		}
		newPickup = &t
	}

	ok, err := s.orders.UpdateStatus(ctx, orderID, next, newPickup)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
	}

	order.Status = next
	if newPickup != nil {
		order.PickupDate = *newPickup
	}
	s.invalidate(ctx)
	return order, nil
}

// SelectCashPayment records that the customer will pay at pickup. The
// payment status stays Pending; settlement happens at the counter.
func (s *orderService) SelectCashPayment(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.paymentTarget(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ok, err := s.orders.RecordPayment(ctx, orderID, domain.PaymentCash, domain.PaymentPending)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("order %d: %w", orderID, domain.ErrAlreadyPaid)
	}

	order.PaymentMethod = domain.PaymentCash
	order.PaymentStatus = domain.PaymentPending
	s.invalidate(ctx)
	return order, nil
}

// ConfirmOnlinePayment marks the order paid by online transfer and
// returns the receipt projection for immediate display.
func (s *orderService) ConfirmOnlinePayment(ctx context.Context, orderID int64) (*domain.Receipt, error) {
	if _, err := s.paymentTarget(ctx, orderID); err != nil {
		return nil, err
	}

	ok, err := s.orders.RecordPayment(ctx, orderID, domain.PaymentOnline, domain.PaymentPaid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("order %d: %w", orderID, domain.ErrAlreadyPaid)
	}

	s.invalidate(ctx)
	return s.Receipt(ctx, orderID)
}

func (s *orderService) paymentTarget(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == domain.PaymentPaid {
		return nil, fmt.Errorf("order %d: %w", orderID, domain.ErrAlreadyPaid)
	}
	return order, nil
}

// PaymentInstructions builds the bank-transfer details and QR for the
// online payment flow.
func (s *orderService) PaymentInstructions(ctx context.Context, orderID int64) (*domain.PaymentInstructions, error) {
	order, err := s.paymentTarget(ctx, orderID)
	if err != nil {
		return nil, err
	}

	qr, err := s.renderer.Render(receipt.PaymentSummary(order.ID, order.TotalPrice))
	if err != nil {
		return nil, err
	}

	return &domain.PaymentInstructions{
		OrderID:   order.ID,
		Bank:      "Laundry Services Bank",
		Account:   "1234 5678 9012",
		Amount:    pricing.DisplayPrice(order.TotalPrice),
		Reference: fmt.Sprintf("ORDER%d", order.ID),
		QR:        qr,
	}, nil
}

func (s *orderService) Receipt(ctx context.Context, orderID int64) (*domain.Receipt, error) {
	rec, err := s.orders.GetReceipt(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
	}
	return rec, nil
}

func (s *orderService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (s *orderService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("cache set failed", "key", key, "err", err)
	}
}

func (s *orderService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPrefix(ctx, ordersCachePrefix); err != nil {
		s.logger.Warn("cache invalidation failed", "err", err)
	}
}
