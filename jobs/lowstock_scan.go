package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/varejo-erp/varejo/internal/jobs"
	"github.com/varejo-erp/varejo/internal/reports"
)

// LowStockScanJob queries the catalog for critical products and fans out one
// alert dispatch task per product found.
type LowStockScanJob struct {
	Repo    reports.Repository
	Client  *Client
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewLowStockScanJob initialises the scan handler.
func NewLowStockScanJob(repo reports.Repository, client *Client, logger *slog.Logger, metrics *jobmetrics.Metrics) *LowStockScanJob {
	return &LowStockScanJob{Repo: repo, Client: client, Logger: logger, Metrics: metrics}
}

// Handle executes the scan.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Repo == nil {
		return errors.New("lowstock scan: handler not configured")
	}

	start := time.Now()
	tracker := j.Metrics.Track(TaskLowStockScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	j.Logger.Info("starting low stock scan")

	critical, err := j.Repo.CriticalProducts(ctx)
	if err != nil {
		resultErr = err
		j.Logger.Error("low stock scan failed", slog.Any("error", err))
		return resultErr
	}

	dispatched := 0
	for _, p := range critical {
		payload := AlertDispatchPayload{
			ProductID: p.ProductID,
			Product:   p.Name,
			StockQty:  p.StockQty,
			MinQty:    p.MinQty,
			Status:    p.Status,
		}
		if _, err := j.Client.EnqueueAlertDispatch(ctx, payload); err != nil {
			resultErr = err
			j.Logger.Error("alert enqueue failed",
				slog.Int64("product_id", p.ProductID),
				slog.Any("error", err),
			)
			return resultErr
		}
		j.Metrics.AddAlerts(p.Status, 1)
		dispatched++
	}

	j.Logger.Info("completed low stock scan",
		slog.Int("critical", len(critical)),
		slog.Int("dispatched", dispatched),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}
