package repo

import (
	"context"
	"database/sql"

	"laundromat/internal/domain"
)

type ServiceRepo interface {
	Create(ctx context.Context, svc *domain.Service) error
	FindByID(ctx context.Context, id int64) (*domain.Service, error)
	List(ctx context.Context) ([]domain.Service, error)
	Update(ctx context.Context, svc *domain.Service) (bool, error)
	// Delete fails with domain.ErrServiceInUse while orders reference
	// the service.
	Delete(ctx context.Context, id int64) (bool, error)
}

type serviceRepo struct {
	db *sql.DB
}

func NewServiceRepo(db *sql.DB) ServiceRepo {
	return &serviceRepo{db: db}
}

func (r *serviceRepo) Create(ctx context.Context, svc *domain.Service) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO services (name, price_per_kg, description, estimated_time_hours)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		svc.Name, svc.PricePerKg, svc.Description, svc.EstimatedTimeHours,
	).Scan(&svc.ID)
}

func (r *serviceRepo) FindByID(ctx context.Context, id int64) (*domain.Service, error) {
	var s domain.Service
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, price_per_kg, description, estimated_time_hours FROM services WHERE id = $1", id,
	).Scan(&s.ID, &s.Name, &s.PricePerKg, &s.Description, &s.EstimatedTimeHours)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serviceRepo) List(ctx context.Context) ([]domain.Service, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, price_per_kg, description, estimated_time_hours FROM services ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.PricePerKg, &s.Description, &s.EstimatedTimeHours); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *serviceRepo) Update(ctx context.Context, svc *domain.Service) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE services
		 SET name = $2, price_per_kg = $3, description = $4, estimated_time_hours = $5
		 WHERE id = $1`,
		svc.ID, svc.Name, svc.PricePerKg, svc.Description, svc.EstimatedTimeHours,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *serviceRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM services WHERE id = $1", id)
	if err != nil {
		return false, translateConstraint(err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
