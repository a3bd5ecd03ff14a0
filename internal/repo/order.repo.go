package repo

import (
	"context"
	"database/sql"
	"time"

	"laundromat/internal/domain"
)

type OrderRepo interface {
	// Create inserts the order and fills in its assigned id. The receipt
	// artifact is attached afterwards via SetReceipt, inside the same
	// transaction, once the real id is known.
	Create(ctx context.Context, tx *sql.Tx, order *domain.Order) error
	SetReceipt(ctx context.Context, tx *sql.Tx, orderID int64, artifact []byte) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.OrderWithCustomer, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status, pickupDate *time.Time) (bool, error)
	// RecordPayment refuses to touch rows that are already Paid, so a
	// racing second confirmation cannot double-apply.
	RecordPayment(ctx context.Context, id int64, method domain.PaymentMethod, status domain.PaymentStatus) (bool, error)
	GetReceipt(ctx context.Context, id int64) (*domain.Receipt, error)
	FindMissingReceipts(ctx context.Context, limit int) ([]domain.Receipt, error)
}

type orderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepo {
	return &orderRepo{db: db}
}

const orderColumns = "id, user_id, service_id, order_date, pickup_date, status, weight, total_price, payment_method, payment_status, receipt"

func (r *orderRepo) Create(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	return tx.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, service_id, order_date, pickup_date, status, weight, total_price, payment_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		order.UserID, order.ServiceID, order.OrderDate, order.PickupDate,
		order.Status, order.Weight, order.TotalPrice, order.PaymentStatus,
	).Scan(&order.ID)
}

func (r *orderRepo) SetReceipt(ctx context.Context, tx *sql.Tx, orderID int64, artifact []byte) error {
	_, err := tx.ExecContext(ctx, "UPDATE orders SET receipt = $2 WHERE id = $1", orderID, artifact)
	return err
}

func scanOrder(row interface{ Scan(dest ...any) error }, o *domain.Order) error {
	var method sql.NullString
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.ServiceID,
		&o.OrderDate,
		&o.PickupDate,
		&o.Status,
		&o.Weight,
		&o.TotalPrice,
		&method,
		&o.PaymentStatus,
		&o.Receipt,
	)
	if err != nil {
		return err
	}
	o.PaymentMethod = domain.PaymentMethod(method.String)
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := scanOrder(r.db.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id), &order)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = $1 ORDER BY order_date DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *orderRepo) ListAll(ctx context.Context) ([]domain.OrderWithCustomer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.user_id, o.service_id, o.order_date, o.pickup_date, o.status,
		        o.weight, o.total_price, o.payment_method, o.payment_status, o.receipt,
		        u.username
		 FROM orders o
		 JOIN users u ON o.user_id = u.id
		 ORDER BY o.order_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.OrderWithCustomer
	for rows.Next() {
		var o domain.OrderWithCustomer
		var method sql.NullString
		err := rows.Scan(
			&o.ID, &o.UserID, &o.ServiceID, &o.OrderDate, &o.PickupDate, &o.Status,
			&o.Weight, &o.TotalPrice, &method, &o.PaymentStatus, &o.Receipt,
			&o.Customer,
		)
		if err != nil {
			return nil, err
		}
		o.PaymentMethod = domain.PaymentMethod(method.String)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id int64, status domain.Status, pickupDate *time.Time) (bool, error) {
	var res sql.Result
	var err error
	if pickupDate != nil {
		res, err = r.db.ExecContext(ctx,
			"UPDATE orders SET status = $2, pickup_date = $3 WHERE id = $1", id, status, *pickupDate)
	} else {
		res, err = r.db.ExecContext(ctx,
			"UPDATE orders SET status = $2 WHERE id = $1", id, status)
	}
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *orderRepo) RecordPayment(ctx context.Context, id int64, method domain.PaymentMethod, status domain.PaymentStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders
		 SET payment_method = $2, payment_status = $3
		 WHERE id = $1 AND payment_status <> $4`,
		id, string(method), status, domain.PaymentPaid,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

const receiptJoin = `
	SELECT o.id, o.user_id, u.username, s.name, o.weight, o.total_price,
	       o.order_date, o.pickup_date, o.status, o.payment_status, o.payment_method,
	       o.receipt
	FROM orders o
	JOIN users u ON o.user_id = u.id
	JOIN services s ON o.service_id = s.id`

func scanReceipt(row interface{ Scan(dest ...any) error }, rec *domain.Receipt) error {
	var method sql.NullString
	err := row.Scan(
		&rec.OrderID,
		&rec.UserID,
		&rec.Customer,
		&rec.Service,
		&rec.Weight,
		&rec.TotalPrice,
		&rec.OrderDate,
		&rec.PickupDate,
		&rec.Status,
		&rec.PaymentStatus,
		&method,
		&rec.Artifact,
	)
	if err != nil {
		return err
	}
	rec.PaymentMethod = domain.PaymentMethod(method.String)
	return nil
}

func (r *orderRepo) GetReceipt(ctx context.Context, id int64) (*domain.Receipt, error) {
	var rec domain.Receipt
	err := scanReceipt(r.db.QueryRowContext(ctx, receiptJoin+" WHERE o.id = $1", id), &rec)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *orderRepo) FindMissingReceipts(ctx context.Context, limit int) ([]domain.Receipt, error) {
	rows, err := r.db.QueryContext(ctx, receiptJoin+" WHERE o.receipt IS NULL LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []domain.Receipt
	for rows.Next() {
		var rec domain.Receipt
		if err := scanReceipt(rows, &rec); err != nil {
			return nil, err
		}
		receipts = append(receipts, rec)
	}
	return receipts, rows.Err()
}
