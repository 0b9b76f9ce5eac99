package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/seunsodimu/lag-int-sub001/pkg/logger"
	"github.com/seunsodimu/lag-int-sub001/pkg/notify"
)

// InventorySyncer propagates NetSuite stock levels to 3DCart and reports the
// outcome as a single summary notification per run.
type InventorySyncer struct {
	netsuite NetSuiteClient
	store    ThreeDCartClient
	notifier Notifier
	log      *slog.Logger
}

func NewInventorySyncer(netsuite NetSuiteClient, store ThreeDCartClient, notifier Notifier, log *slog.Logger) *InventorySyncer {
	return &InventorySyncer{netsuite: netsuite, store: store, notifier: notifier, log: log}
}

// Run syncs every inventory item once. Per-item failures are collected into
// the report instead of aborting the pass; only a failure to list the
// inventory at all is returned as an error.
func (s *InventorySyncer) Run(ctx context.Context) (notify.InventoryRun, error) {
	runID := uuid.New().String()
	log := s.log.With(logger.Component("inventory_sync"), logger.RunID(runID))
	started := time.Now()

	items, err := s.netsuite.ListInventory(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Inventory listing failed", logger.Error(err))
		run := notify.InventoryRun{
			RunID:    runID,
			Duration: time.Since(started),
			Details:  []string{fmt.Sprintf("listing NetSuite inventory failed: %v", err)},
		}
		s.notifier.InventoryReport(ctx, run)
		return run, fmt.Errorf("inventory sync: %w", err)
	}

	run := notify.InventoryRun{RunID: runID}
	for _, item := range items {
		if err := s.store.UpdateStock(ctx, item.SKU, item.Quantity); err != nil {
			run.ItemsFailed++
			run.Details = append(run.Details, fmt.Sprintf("%s: %v", item.SKU, err))
			log.WarnContext(ctx, "Stock update failed", slog.String("sku", item.SKU), logger.Error(err))
			continue
		}
		run.ItemsSynced++
	}
	run.Duration = time.Since(started)

	log.InfoContext(ctx, "Inventory sync finished",
		slog.Int("synced", run.ItemsSynced),
		slog.Int("failed", run.ItemsFailed),
		slog.Duration("duration", run.Duration),
	)
	s.notifier.InventoryReport(ctx, run)
	return run, nil
}
