package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"laundromat/internal/domain"
)

// The order service owns real sql transactions; tests satisfy that with
// a driver whose transactions are no-ops while the fake store holds the
// actual state.

type noopDriver struct{}

func (noopDriver) Open(string) (driver.Conn, error) { return &noopConn{}, nil }

type noopConn struct{}

func (*noopConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("unsupported") }
func (*noopConn) Close() error                        { return nil }
func (*noopConn) Begin() (driver.Tx, error)           { return noopTx{}, nil }

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

var registerOnce sync.Once

func newTestDB() *sql.DB {
	registerOnce.Do(func() {
		sql.Register("laundrotest", noopDriver{})
	})
	db, _ := sql.Open("laundrotest", "")
	return db
}

// fakeStore implements repo.UserRepo, repo.ServiceRepo and
// repo.OrderRepo over in-memory maps.
type fakeStore struct {
	users    map[int64]domain.User
	services map[int64]domain.Service
	orders   map[int64]domain.Order

	nextUser    int64
	nextService int64
	nextOrder   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]domain.User),
		services: make(map[int64]domain.Service),
		orders:   make(map[int64]domain.Order),
	}
}

func (f *fakeStore) Create(ctx context.Context, user *domain.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return fmt.Errorf("username %w", domain.ErrDuplicate)
		}
		if u.Email == user.Email {
			return fmt.Errorf("email %w", domain.ErrDuplicate)
		}
	}
	f.nextUser++
	user.ID = f.nextUser
	user.CreatedAt = time.Now()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (f *fakeStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) List(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// serviceStore adapts fakeStore to repo.ServiceRepo; separate receivers
// keep the method sets from colliding on Create/FindByID/List.
type serviceStore struct{ *fakeStore }

func (f serviceStore) Create(ctx context.Context, svc *domain.Service) error {
	f.nextService++
	svc.ID = f.nextService
	f.services[svc.ID] = *svc
	return nil
}

func (f serviceStore) FindByID(ctx context.Context, id int64) (*domain.Service, error) {
	if s, ok := f.services[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (f serviceStore) List(ctx context.Context) ([]domain.Service, error) {
	out := make([]domain.Service, 0, len(f.services))
	for _, s := range f.services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f serviceStore) Update(ctx context.Context, svc *domain.Service) (bool, error) {
	if _, ok := f.services[svc.ID]; !ok {
		return false, nil
	}
	f.services[svc.ID] = *svc
	return true, nil
}

func (f serviceStore) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := f.services[id]; !ok {
		return false, nil
	}
	for _, o := range f.orders {
		if o.ServiceID == id {
			return false, domain.ErrServiceInUse
		}
	}
	delete(f.services, id)
	return true, nil
}

type orderStore struct{ *fakeStore }

func (f orderStore) Create(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	f.nextOrder++
	order.ID = f.nextOrder
	f.orders[order.ID] = *order
	return nil
}

func (f orderStore) SetReceipt(ctx context.Context, tx *sql.Tx, orderID int64, artifact []byte) error {
	o, ok := f.orders[orderID]
	if !ok {
		return nil
	}
	o.Receipt = artifact
	f.orders[orderID] = o
	return nil
}

func (f orderStore) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	if o, ok := f.orders[id]; ok {
		return &o, nil
	}
	return nil, nil
}

func (f orderStore) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f orderStore) ListAll(ctx context.Context) ([]domain.OrderWithCustomer, error) {
	var out []domain.OrderWithCustomer
	for _, o := range f.orders {
		row := domain.OrderWithCustomer{Order: o}
		if u, ok := f.users[o.UserID]; ok {
			row.Customer = u.Username
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f orderStore) UpdateStatus(ctx context.Context, id int64, status domain.Status, pickupDate *time.Time) (bool, error) {
	o, ok := f.orders[id]
	if !ok {
		return false, nil
	}
	o.Status = status
	if pickupDate != nil {
		o.PickupDate = *pickupDate
	}
	f.orders[id] = o
	return true, nil
}

func (f orderStore) RecordPayment(ctx context.Context, id int64, method domain.PaymentMethod, status domain.PaymentStatus) (bool, error) {
	o, ok := f.orders[id]
	if !ok || o.PaymentStatus == domain.PaymentPaid {
		return false, nil
	}
	o.PaymentMethod = method
	o.PaymentStatus = status
	f.orders[id] = o
	return true, nil
}

func (f orderStore) GetReceipt(ctx context.Context, id int64) (*domain.Receipt, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	rec := &domain.Receipt{
		OrderID:       o.ID,
		UserID:        o.UserID,
		Weight:        o.Weight,
		TotalPrice:    o.TotalPrice,
		OrderDate:     o.OrderDate,
		PickupDate:    o.PickupDate,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		Artifact:      o.Receipt,
	}
	if u, ok := f.users[o.UserID]; ok {
		rec.Customer = u.Username
	}
	if s, ok := f.services[o.ServiceID]; ok {
		rec.Service = s.Name
	}
	return rec, nil
}

func (f orderStore) FindMissingReceipts(ctx context.Context, limit int) ([]domain.Receipt, error) {
	var out []domain.Receipt
	for id, o := range f.orders {
		if o.Receipt == nil && len(out) < limit {
			rec, _ := f.GetReceipt(ctx, id)
			out = append(out, *rec)
		}
	}
	return out, nil
}

// stubRenderer encodes the summary text verbatim so tests can assert on
// artifact contents; fail switches it to error mode.
type stubRenderer struct {
	fail bool
}

func (r *stubRenderer) Render(text string) ([]byte, error) {
	if r.fail {
		return nil, errors.New("render failed")
	}
	return []byte("QR|" + text), nil
}

type fakeCache struct {
	entries     map[string][]byte
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	if data, ok := c.entries[key]; ok {
		return data, nil
	}
	return nil, errors.New("cache miss")
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}) error {
	// Mirrors the redis adapter: values are stored as JSON.
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *fakeCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	c.invalidated++
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}
