package worker

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"laundromat/internal/infrastructure/receipt"
	"laundromat/internal/repo"
)

// ReceiptBackfillWorker repairs orders whose receipt artifact failed to
// render at submission. Submission commits the sale and leaves the
// artifact empty; this worker re-renders it from the persisted row.
type ReceiptBackfillWorker struct {
	db       *sql.DB
	orders   repo.OrderRepo
	renderer receipt.Renderer
	interval time.Duration
	batch    int
	logger   *slog.Logger
}

func NewReceiptBackfillWorker(
	db *sql.DB,
	orders repo.OrderRepo,
	renderer receipt.Renderer,
	interval time.Duration,
	logger *slog.Logger,
) *ReceiptBackfillWorker {
	return &ReceiptBackfillWorker{
		db:       db,
		orders:   orders,
		renderer: renderer,
		interval: interval,
		batch:    50,
		logger:   logger,
	}
}

func (w *ReceiptBackfillWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("receipt backfill worker started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.process(ctx); err != nil {
				w.logger.Error("receipt backfill failed", "err", err)
			}
		}
	}
}

func (w *ReceiptBackfillWorker) process(ctx context.Context) error {
	missing, err := w.orders.FindMissingReceipts(ctx, w.batch)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}

	w.logger.Info("backfilling receipts", "count", len(missing))

	for _, rec := range missing {
		// The artifact captures the order as submitted, so the summary is
		// rebuilt from the snapshotted fields, not the current status.
		summary := receipt.OrderSummary(rec.OrderID, rec.Customer, rec.Service, rec.Weight, rec.TotalPrice, rec.PickupDate)
		artifact, err := w.renderer.Render(summary)
		if err != nil {
			w.logger.Error("render failed during backfill", "order_id", rec.OrderID, "err", err)
			continue
		}

		tx, err := w.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if err := w.orders.SetReceipt(ctx, tx, rec.OrderID, artifact); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
