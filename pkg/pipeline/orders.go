package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/seunsodimu/lag-int-sub001/pkg/logger"
	"github.com/seunsodimu/lag-int-sub001/pkg/notify"
)

// Notifier is the slice of the notification router the pipelines use.
// Notification outcomes are observed for logging only; they never change the
// pipeline's own result.
type Notifier interface {
	OrderSuccess(ctx context.Context, ev notify.OrderEvent) notify.SendResult
	OrderFailure(ctx context.Context, ev notify.OrderEvent) notify.SendResult
	LeadSuccess(ctx context.Context, ev notify.LeadEvent) notify.SendResult
	LeadFailure(ctx context.Context, ev notify.LeadEvent) notify.SendResult
	InventoryReport(ctx context.Context, run notify.InventoryRun) notify.SendResult
	LookupFailure(ctx context.Context, ev notify.LookupEvent) notify.SendResult
}

// OrderPipeline pushes 3DCart orders into NetSuite.
type OrderPipeline struct {
	store    ThreeDCartClient
	netsuite NetSuiteClient
	notifier Notifier
	log      *slog.Logger
}

func NewOrderPipeline(store ThreeDCartClient, netsuite NetSuiteClient, notifier Notifier, log *slog.Logger) *OrderPipeline {
	return &OrderPipeline{store: store, netsuite: netsuite, notifier: notifier, log: log}
}

// ProcessOrder fetches an order, finds or creates its NetSuite customer and
// creates the sales order. The outcome notification is sent either way; its
// delivery result never affects the returned error.
func (p *OrderPipeline) ProcessOrder(ctx context.Context, orderID string) error {
	runID := uuid.New().String()
	log := p.log.With(logger.Component("order_pipeline"), logger.RunID(runID), logger.OrderID(orderID))

	order, err := p.store.GetOrder(ctx, orderID)
	if err != nil {
		log.ErrorContext(ctx, "Order fetch failed", logger.Error(err))
		p.notifier.OrderFailure(ctx, notify.OrderEvent{
			RunID:   runID,
			OrderID: orderID,
			Error:   fmt.Sprintf("fetching the order from 3DCart failed: %v", err),
		})
		return fmt.Errorf("process order %s: %w", orderID, err)
	}

	customerID, err := p.resolveCustomer(ctx, log, *order)
	if err != nil {
		p.notifier.OrderFailure(ctx, notify.OrderEvent{
			RunID:        runID,
			OrderID:      orderID,
			CustomerName: order.CustomerName,
			Total:        order.Total,
			Error:        fmt.Sprintf("resolving the NetSuite customer failed: %v", err),
		})
		return fmt.Errorf("process order %s: %w", orderID, err)
	}

	salesOrderID, err := p.netsuite.CreateSalesOrder(ctx, customerID, *order)
	if err != nil {
		log.ErrorContext(ctx, "Sales order creation failed", logger.Error(err))
		p.notifier.OrderFailure(ctx, notify.OrderEvent{
			RunID:        runID,
			OrderID:      orderID,
			CustomerName: order.CustomerName,
			Total:        order.Total,
			Error:        fmt.Sprintf("creating the NetSuite sales order failed: %v", err),
		})
		return fmt.Errorf("process order %s: %w", orderID, err)
	}

	log.InfoContext(ctx, "Order synced", slog.String("netsuite_id", salesOrderID))
	p.notifier.OrderSuccess(ctx, notify.OrderEvent{
		RunID:        runID,
		OrderID:      orderID,
		CustomerName: order.CustomerName,
		Total:        order.Total,
		NetSuiteID:   salesOrderID,
	})
	return nil
}

func (p *OrderPipeline) resolveCustomer(ctx context.Context, log *slog.Logger, order Order) (string, error) {
	cust, err := p.netsuite.FindCustomerByEmail(ctx, order.CustomerEmail)
	if err == nil {
		return cust.InternalID, nil
	}
	if !errors.Is(err, ErrCustomerNotFound) {
		log.ErrorContext(ctx, "Customer lookup failed", logger.Error(err))
		p.notifier.LookupFailure(ctx, notify.LookupEvent{
			Entity: "customer",
			Key:    order.CustomerEmail,
			Detail: err.Error(),
		})
		return "", err
	}

	log.InfoContext(ctx, "Customer not found, creating")
	return p.netsuite.CreateCustomer(ctx, Customer{
		Email: order.CustomerEmail,
		Name:  order.CustomerName,
	})
}
