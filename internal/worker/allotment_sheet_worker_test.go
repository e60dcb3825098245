package worker

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"avyyan/internal/model"
	"avyyan/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAllotmentRepo struct {
	repository.AllotmentRepository
	a         *model.ProductionAllotment
	sheetPath string
}

func (r *stubAllotmentRepo) FindByID(context.Context, uuid.UUID) (*model.ProductionAllotment, error) {
	return r.a, nil
}

func (r *stubAllotmentRepo) SetSheetPath(_ context.Context, _ uuid.UUID, path string) error {
	r.sheetPath = path
	return nil
}

type stubOrderRepo struct {
	repository.SalesOrderRepository
	order *model.SalesOrder
}

func (r *stubOrderRepo) FindByID(context.Context, uuid.UUID) (*model.SalesOrder, error) {
	return r.order, nil
}

func (r *stubOrderRepo) FindItemByID(context.Context, uuid.UUID) (*model.SalesOrderItem, error) {
	return &r.order.Items[0], nil
}

func TestAllotmentSheetWorker_GeneratesAndStoresPath(t *testing.T) {
	order := &model.SalesOrder{
		ID: uuid.New(), VoucherNumber: "SO-2025-014", PartyName: "Kaveri Garments",
		Items: []model.SalesOrderItem{{ID: uuid.New(), ItemName: "30s SJ", FabricType: "single jersey"}},
	}
	allotments := &stubAllotmentRepo{a: &model.ProductionAllotment{
		ID: uuid.New(), AllotID: "AL25010003", SalesOrderID: order.ID, SalesOrderItemID: order.Items[0].ID,
		MachineName: "M-02", Needle: 2640, Feeder: 90,
		Count: decimal.NewFromInt(30), StitchLength: decimal.RequireFromString("2.7"),
		RollPerKg: decimal.NewFromInt(20), ActualQuantity: decimal.NewFromInt(100),
		Counter: "42.75", TotalWholeRolls: 5,
	}}
	dir := t.TempDir()
	w := NewAllotmentSheetWorker(allotments, &stubOrderRepo{order: order}, dir, "Avyyan Knitfab")

	raw, err := json.Marshal(AllotmentSheetPayload{AllotmentID: allotments.a.ID})
	require.NoError(t, err)
	require.NoError(t, w.Process(context.Background(), raw))

	require.NotEmpty(t, allotments.sheetPath)
	assert.Contains(t, allotments.sheetPath, "allotment_AL25010003.pdf")
	_, err = os.Stat(allotments.sheetPath)
	assert.NoError(t, err)
}

func TestAllotmentSheetWorker_InvalidPayload(t *testing.T) {
	w := NewAllotmentSheetWorker(&stubAllotmentRepo{}, &stubOrderRepo{}, t.TempDir(), "")
	assert.Error(t, w.Process(context.Background(), json.RawMessage(`"nope"`)))
}
