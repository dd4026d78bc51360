package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/stock"
)

func intPtr(v int) *int { return &v }

func TestClassifyThreshold(t *testing.T) {
	cases := []struct {
		name   string
		record entity.InventoryRecord
		want   entity.ThresholdState
	}{
		{"stock bajo el mínimo", entity.InventoryRecord{Stock: 3, MinStockLevel: 5}, entity.ThresholdLow},
		{"stock sobre el máximo", entity.InventoryRecord{Stock: 20, MinStockLevel: 2, MaxStockLevel: intPtr(15)}, entity.ThresholdHigh},
		{"stock igual al mínimo", entity.InventoryRecord{Stock: 5, MinStockLevel: 5}, entity.ThresholdNormal},
		{"stock igual al máximo", entity.InventoryRecord{Stock: 15, MinStockLevel: 2, MaxStockLevel: intPtr(15)}, entity.ThresholdNormal},
		{"sin máximo nunca es HIGH", entity.InventoryRecord{Stock: 1000, MinStockLevel: 0}, entity.ThresholdNormal},
		{"mínimo cero y stock cero", entity.InventoryRecord{Stock: 0}, entity.ThresholdNormal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stock.ClassifyThreshold(tc.record))
		})
	}
}

// LOW y HIGH nunca coinciden cuando máximo >= mínimo.
func TestClassifyThreshold_LowYHighExcluyentes(t *testing.T) {
	for lo := 0; lo <= 6; lo++ {
		for hi := lo; hi <= 8; hi++ {
			for s := 0; s <= 10; s++ {
				r := entity.InventoryRecord{Stock: s, MinStockLevel: lo, MaxStockLevel: intPtr(hi)}
				got := stock.ClassifyThreshold(r)
				isLow := s < lo
				isHigh := s > hi
				assert.False(t, isLow && isHigh)
				switch {
				case isLow:
					assert.Equal(t, entity.ThresholdLow, got)
				case isHigh:
					assert.Equal(t, entity.ThresholdHigh, got)
				default:
					assert.Equal(t, entity.ThresholdNormal, got)
				}
			}
		}
	}
}

func TestClassifyThreshold_Idempotente(t *testing.T) {
	r := entity.InventoryRecord{Stock: 3, MinStockLevel: 5}
	assert.Equal(t, stock.ClassifyThreshold(r), stock.ClassifyThreshold(r))
}

func TestNeedsWarning(t *testing.T) {
	assert.True(t, stock.NeedsWarning(0))
	assert.True(t, stock.NeedsWarning(4))
	assert.False(t, stock.NeedsWarning(5))
	assert.False(t, stock.NeedsWarning(-1))
}
