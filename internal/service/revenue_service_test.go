package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/marketplace-next/internal/constants"
	"github.com/marketplace-next/internal/models"

	"github.com/shopspring/decimal"
)

func seedDeliveredOrder(t *testing.T, env *orderTestEnv, shopID uint, total int64, deliveredAt time.Time) models.Order {
	t.Helper()
	order := models.Order{
		OrderNo:       generateOrderNo(),
		CustomerID:    testCustomerID,
		ShopID:        shopID,
		AddressID:     env.address.ID,
		ShippingID:    env.shipping.ID,
		PaymentID:     env.payment.ID,
		Status:        constants.OrderStatusDelivered,
		OriginalPrice: models.NewMoneyFromInt(total),
		TotalPrice:    models.NewMoneyFromInt(total),
		DeliveredAt:   &deliveredAt,
	}
	if err := env.db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := env.revenue.RecognizeOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("recognize order failed: %v", err)
	}
	return order
}

func TestBuildRevenueRecordRounding(t *testing.T) {
	order := &models.Order{ID: 1, ShopID: 2, TotalPrice: models.NewMoneyFromDecimal(decimal.RequireFromString("100.05"))}
	record := buildRevenueRecord(order, decimal.NewFromFloat(0.1), time.Now())
	if record.CommissionAmount.String() != "10.01" || record.ShopEarning.String() != "90.04" {
		t.Fatalf("unexpected split: commission=%s earning=%s", record.CommissionAmount, record.ShopEarning)
	}
	if !record.TotalAmount.Decimal.Equal(record.CommissionAmount.Decimal.Add(record.ShopEarning.Decimal)) {
		t.Fatalf("earning must equal total minus commission")
	}
}

func TestRecognizeOrderRequiresDelivered(t *testing.T) {
	env := newOrderTestEnv(t, "revenue_requires_delivered")
	product := env.createProduct(t, 100, 5)
	order, err := env.orders.CommitOrder(context.Background(), env.input(CartLine{ProductID: product.ID, Quantity: 1}))
	if err != nil {
		t.Fatalf("commit order failed: %v", err)
	}
	if _, err := env.revenue.RecognizeOrder(context.Background(), order.ID); !errors.Is(err, ErrOrderNotDelivered) {
		t.Fatalf("expected not delivered, got %v", err)
	}
	if _, err := env.revenue.RecognizeOrder(context.Background(), 9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecognizeOrderUniqueIndexMapsToAlreadyRecorded(t *testing.T) {
	env := newOrderTestEnv(t, "revenue_unique")
	order := seedDeliveredOrder(t, env, env.shop.ID, 1000, time.Now())

	duplicate := buildRevenueRecord(&order, decimal.NewFromFloat(0.1), time.Now())
	err := env.revenueRepo.Create(duplicate)
	if err == nil || !isUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
	_, err = env.revenue.RecognizeOrder(context.Background(), order.ID)
	if !errors.Is(err, ErrRevenueAlreadyRecorded) || KindOf(err) != KindAlreadyRecorded {
		t.Fatalf("expected already recorded, got %v", err)
	}
}

func TestCreatePaymentBatchAndSettle(t *testing.T) {
	env := newOrderTestEnv(t, "revenue_batch")
	otherShop := models.Shop{Name: "east shop"}
	if err := env.db.Create(&otherShop).Error; err != nil {
		t.Fatalf("create shop failed: %v", err)
	}
	now := time.Now()
	old := now.AddDate(0, 0, -5)
	first := seedDeliveredOrder(t, env, env.shop.ID, 1000, old)
	seedDeliveredOrder(t, env, env.shop.ID, 500, old.Add(time.Hour))
	seedDeliveredOrder(t, env, otherShop.ID, 2000, old.Add(2*time.Hour))
	recent := seedDeliveredOrder(t, env, otherShop.ID, 700, now.Add(-time.Hour))

	ctx := context.Background()
	batch, err := env.revenue.CreateDuePaymentBatch(ctx, now)
	if err != nil {
		t.Fatalf("create batch failed: %v", err)
	}
	if !strings.HasPrefix(batch.BatchID, "PB"+now.Format("20060102")) {
		t.Fatalf("unexpected batch id: %s", batch.BatchID)
	}
	if batch.TotalShops != 2 || batch.TotalAmount.String() != "3150.00" || batch.Status != constants.PaymentBatchStatusPending {
		t.Fatalf("unexpected batch: %+v", batch)
	}

	firstRecord, _ := env.revenueRepo.GetByOrderID(first.ID)
	if firstRecord == nil || firstRecord.PaymentBatch == nil || *firstRecord.PaymentBatch != batch.BatchID {
		t.Fatalf("record not stamped: %+v", firstRecord)
	}
	recentRecord, _ := env.revenueRepo.GetByOrderID(recent.ID)
	if recentRecord == nil || recentRecord.PaymentBatch != nil {
		t.Fatalf("record after cutoff must stay unbatched: %+v", recentRecord)
	}

	if _, err := env.revenue.CreateDuePaymentBatch(ctx, now); !errors.Is(err, ErrNoUnpaidRecords) {
		t.Fatalf("expected no unpaid records, got %v", err)
	}

	if _, err := env.revenue.SettleBatch(ctx, batch.BatchID, " "); !errors.Is(err, ErrInvalidBatchReference) {
		t.Fatalf("expected invalid reference, got %v", err)
	}
	settled, err := env.revenue.SettleBatch(ctx, batch.BatchID, "TRX-1")
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if settled.Status != constants.PaymentBatchStatusCompleted || settled.ProcessedAt == nil || settled.PaymentReference != "TRX-1" {
		t.Fatalf("unexpected settled batch: %+v", settled)
	}
	records, err := env.revenueRepo.ListByBatch(batch.BatchID)
	if err != nil {
		t.Fatalf("list batch records failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records in batch, got %d", len(records))
	}
	for _, record := range records {
		if !record.IsPaid || record.PaymentDate == nil || record.PaymentID != "TRX-1" {
			t.Fatalf("record not marked paid: %+v", record)
		}
	}

	_, err = env.revenue.SettleBatch(ctx, batch.BatchID, "TRX-2")
	if !errors.Is(err, ErrBatchAlreadyCompleted) || KindOf(err) != KindState {
		t.Fatalf("expected already completed, got %v", err)
	}
	again, _ := env.revenue.GetBatch(batch.BatchID)
	if again.PaymentReference != "TRX-1" {
		t.Fatalf("completed batch must not change, got %s", again.PaymentReference)
	}
	if _, err := env.revenue.SettleBatch(ctx, "PB-missing", "TRX-3"); !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("expected batch not found, got %v", err)
	}
}

func TestCreatePaymentBatchWithoutRecords(t *testing.T) {
	env := newOrderTestEnv(t, "revenue_batch_empty")
	_, err := env.revenue.CreatePaymentBatch(context.Background(), time.Now())
	if !errors.Is(err, ErrNoUnpaidRecords) || KindOf(err) != KindState {
		t.Fatalf("expected no unpaid records, got %v", err)
	}
	var count int64
	env.db.Model(&models.PaymentBatch{}).Count(&count)
	if count != 0 {
		t.Fatalf("no batch should be created, got %d", count)
	}
}
