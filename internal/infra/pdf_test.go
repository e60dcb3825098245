package infra

import (
	"os"
	"testing"
	"time"

	"avyyan/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAllotmentSheet(t *testing.T) {
	dir := t.TempDir()
	a := &model.ProductionAllotment{
		AllotID:          "AL25010001",
		MachineName:      "M-07",
		Needle:           2640,
		Feeder:           90,
		Diameter:         30,
		Gauge:            28,
		Count:            decimal.NewFromInt(30),
		StitchLength:     decimal.RequireFromString("2.7"),
		RollPerKg:        decimal.RequireFromString("20"),
		ActualQuantity:   decimal.RequireFromString("110"),
		Counter:          "158.36",
		TotalWholeRolls:  5,
		FractionalWeight: decimal.RequireFromString("10"),
		CreatedAt:        time.Now(),
	}

	path, err := GenerateAllotmentSheet(AllotmentSheet{
		CompanyName: "Avyyan Knitfab", Allotment: a,
		VoucherNumber: "SO-1", PartyName: "Acme", ItemName: "SJ 30s", FabricType: "single jersey",
	}, dir)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Contains(t, path, "allotment_AL25010001.pdf")
}

func TestGenerateAllotmentSheet_NilAllotment(t *testing.T) {
	_, err := GenerateAllotmentSheet(AllotmentSheet{}, t.TempDir())
	assert.Error(t, err)
}
