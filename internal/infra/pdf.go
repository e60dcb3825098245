package infra

// pdf.go: production allotment sheet (go-pdf/fpdf).
// One A5 page per allotment: header, order reference, machine setup,
// yarn parameters, the computed counter and the roll plan. The file is saved
// as storagePath/allotment_{allot_id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"avyyan/internal/model"

	"github.com/go-pdf/fpdf"
)

// AllotmentSheet bundles what the sheet prints.
type AllotmentSheet struct {
	CompanyName   string
	Allotment     *model.ProductionAllotment
	VoucherNumber string
	PartyName     string
	ItemName      string
	FabricType    string
}

// GenerateAllotmentSheet renders the sheet and returns the file path.
func GenerateAllotmentSheet(sheet AllotmentSheet, storagePath string) (string, error) {
	a := sheet.Allotment
	if a == nil {
		return "", fmt.Errorf("pdf: nil allotment")
	}
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("allotment_%s.pdf", a.AllotID))

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, sheet.CompanyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Production Allotment Sheet", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW/2, 6, "Allot ID: "+a.AllotID, "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 6, a.CreatedAt.Format("02/01/2006 15:04"), "", 1, "R", false, 0, "")
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	labelW := contentW * 0.4
	valueW := contentW * 0.6
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(labelW, 6, label, "B", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(valueW, 6, value, "B", 1, "L", false, 0, "")
	}
	section := func(title string) {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(contentW, 6, title, "", 1, "L", true, 0, "")
	}

	section("Order")
	row("Voucher", sheet.VoucherNumber)
	row("Party", sheet.PartyName)
	row("Item", sheet.ItemName)
	row("Fabric", sheet.FabricType)

	section("Machine")
	row("Machine", a.MachineName)
	row("Needle / Feeder", fmt.Sprintf("%d / %d", a.Needle, a.Feeder))
	row("Diameter / Gauge", fmt.Sprintf("%d\" / %dG", a.Diameter, a.Gauge))

	section("Yarn & Plan")
	row("Count", a.Count.String())
	row("Stitch length", a.StitchLength.String())
	row("Roll weight (kg)", a.RollPerKg.StringFixed(3))
	row("Actual quantity (kg)", a.ActualQuantity.StringFixed(3))
	row("Whole rolls", fmt.Sprintf("%d", a.TotalWholeRolls))
	if a.FractionalWeight.IsPositive() {
		row("Partial roll (kg)", a.FractionalWeight.StringFixed(3))
	}

	// ── Counter ──────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 10, "COUNTER: "+a.Counter, "1", 1, "C", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW/2, 5, "Prepared by", "T", 0, "C", false, 0, "")
	pdf.CellFormat(contentW/2, 5, "Floor supervisor", "T", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
