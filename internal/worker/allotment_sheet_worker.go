package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"avyyan/internal/infra"
	"avyyan/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AllotmentSheetPayload is the job payload for QueueAllotmentSheet.
type AllotmentSheetPayload struct {
	AllotmentID uuid.UUID `json:"allotment_id"`
}

// AllotmentSheetWorker renders the PDF production sheet of an allotment and
// stores its path. Errors re-queue the job up to MaxJobAttempts.
type AllotmentSheetWorker struct {
	allotments  repository.AllotmentRepository
	orders      repository.SalesOrderRepository
	storagePath string
	companyName string
}

func NewAllotmentSheetWorker(
	allotments repository.AllotmentRepository,
	orders repository.SalesOrderRepository,
	storagePath, companyName string,
) *AllotmentSheetWorker {
	return &AllotmentSheetWorker{
		allotments:  allotments,
		orders:      orders,
		storagePath: storagePath,
		companyName: companyName,
	}
}

func (w *AllotmentSheetWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var p AllotmentSheetPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("allotment_sheet: invalid payload: %w", err)
	}

	a, err := w.allotments.FindByID(ctx, p.AllotmentID)
	if err != nil {
		return fmt.Errorf("allotment_sheet: load allotment %s: %w", p.AllotmentID, err)
	}
	order, err := w.orders.FindByID(ctx, a.SalesOrderID)
	if err != nil {
		return fmt.Errorf("allotment_sheet: load order %s: %w", a.SalesOrderID, err)
	}
	item, err := w.orders.FindItemByID(ctx, a.SalesOrderItemID)
	if err != nil {
		return fmt.Errorf("allotment_sheet: load item %s: %w", a.SalesOrderItemID, err)
	}

	path, err := infra.GenerateAllotmentSheet(infra.AllotmentSheet{
		CompanyName:   w.companyName,
		Allotment:     a,
		VoucherNumber: order.VoucherNumber,
		PartyName:     order.PartyName,
		ItemName:      item.ItemName,
		FabricType:    item.FabricType,
	}, w.storagePath)
	if err != nil {
		return err
	}
	if err := w.allotments.SetSheetPath(ctx, a.ID, path); err != nil {
		return fmt.Errorf("allotment_sheet: save path: %w", err)
	}

	log.Info().Str("allot_id", a.AllotID).Str("path", path).Msg("allotment_sheet: generated")
	return nil
}
