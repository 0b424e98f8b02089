package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLowStockScan scans the catalog for products at or below their
	// minimum stock threshold.
	TaskLowStockScan = "report:lowstock_scan"
	// TaskAlertDispatch delivers a single stock alert.
	TaskAlertDispatch = "alert:dispatch"
)

// AlertDispatchPayload describes one stock alert to deliver.
type AlertDispatchPayload struct {
	ProductID int64  `json:"product_id"`
	Product   string `json:"product"`
	StockQty  int    `json:"stock_qty"`
	MinQty    int    `json:"min_qty"`
	Status    string `json:"status"`
}

// NewLowStockScanTask constructs the scan task. It carries no payload.
func NewLowStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskLowStockScan, nil)
}

// NewAlertDispatchTask constructs an alert dispatch task.
func NewAlertDispatchTask(payload AlertDispatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAlertDispatch, data), nil
}

// AlertDispatcher processes TaskAlertDispatch tasks. Delivery is log only;
// SMTP integration is a later phase.
type AlertDispatcher struct {
	Logger *slog.Logger
}

// Handle logs the alert.
func (d *AlertDispatcher) Handle(ctx context.Context, t *asynq.Task) error {
	var payload AlertDispatchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	d.Logger.Warn("stock alert",
		slog.Int64("product_id", payload.ProductID),
		slog.String("product", payload.Product),
		slog.Int("stock_qty", payload.StockQty),
		slog.Int("min_qty", payload.MinQty),
		slog.String("status", payload.Status),
	)
	return nil
}
