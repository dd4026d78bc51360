package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-inventario/internal/application/dto"
)

func TestFormatInt(t *testing.T) {
	cases := map[int]string{0: "0", 999: "999", 1000: "1.000", 25000: "25.000", 1234567: "1.234.567", -4500: "-4.500"}
	for in, want := range cases {
		assert.Equal(t, want, formatInt(in))
	}
}

func TestGenerateInventoryPDF(t *testing.T) {
	hi := 15
	report := &dto.InventoryReport{
		WarehouseID:   "wh-1",
		WarehouseName: "Bodega Principal",
		GeneratedAt:   time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC),
		Rows: []dto.InventoryReportRow{
			{SKU: "CAM-01", ProductName: "Camiseta", Stock: 3, MinStockLevel: 5, Threshold: "LOW"},
			{SKU: "GOR-02", ProductName: "Gorra", Stock: 20, MinStockLevel: 2, MaxStockLevel: &hi, Threshold: "HIGH"},
		},
		LowCount:  1,
		HighCount: 1,
	}

	out, err := NewMarotoPDFGenerator().GenerateInventoryPDF(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
}

func TestGenerateInventoryPDF_SinFilas(t *testing.T) {
	out, err := NewMarotoPDFGenerator().GenerateInventoryPDF(context.Background(), &dto.InventoryReport{WarehouseID: "wh-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
