// Package xlsx exporta reportes de inventario e importa registros desde hojas de cálculo (excelize).
package xlsx

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/tienda-inventario/internal/application/dto"
	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/domain"
)

var (
	_ inventory.SpreadsheetExporter = (*InventorySheet)(nil)
	_ inventory.SpreadsheetParser   = (*InventorySheet)(nil)
)

const reportSheet = "Inventario"

var reportHeader = []any{"SKU", "Producto", "Stock", "Stock mínimo", "Stock máximo", "Estado", "Última actualización"}

// InventorySheet exporta el reporte por bodega y lee archivos de importación.
type InventorySheet struct{}

// NewInventorySheet construye el adaptador.
func NewInventorySheet() *InventorySheet { return &InventorySheet{} }

// ExportInventory escribe una fila por registro; la columna de máximo queda vacía si no hay tope.
func (s *InventorySheet) ExportInventory(ctx context.Context, report *dto.InventoryReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(reportSheet, "A1", &reportHeader); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#00467F"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	if err := f.SetCellStyle(reportSheet, "A1", "G1", headerStyle); err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}
	_ = f.SetColWidth(reportSheet, "A", "A", 16)
	_ = f.SetColWidth(reportSheet, "B", "B", 36)
	_ = f.SetColWidth(reportSheet, "C", "F", 14)
	_ = f.SetColWidth(reportSheet, "G", "G", 22)

	for i, r := range report.Rows {
		var maxLevel any
		if r.MaxStockLevel != nil {
			maxLevel = *r.MaxStockLevel
		}
		values := []any{r.SKU, r.ProductName, r.Stock, r.MinStockLevel, maxLevel, r.Threshold, r.LastUpdated.Format("2006-01-02 15:04")}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseInventoryRows lee la primera hoja con columnas sku | stock | mínimo | máximo.
// Una primera fila cuyo primer valor es "sku" se toma como cabecera. Las filas vacías se omiten.
// Los valores no numéricos se reportan en ImportRow.Err sin detener la lectura.
func (s *InventorySheet) ParseInventoryRows(r io.Reader) ([]inventory.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("archivo xlsx ilegible: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el archivo no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}

	start := 0
	if len(rows) > 0 && len(rows[0]) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), "sku") {
		start = 1
	}
	out := make([]inventory.ImportRow, 0, len(rows)-start)
	for i := start; i < len(rows); i++ {
		cells := rows[i]
		if isBlank(cells) {
			continue
		}
		out = append(out, parseRow(i+1, cells))
	}
	return out, nil
}

func parseRow(n int, cells []string) inventory.ImportRow {
	row := inventory.ImportRow{Row: n, SKU: strings.TrimSpace(cell(cells, 0))}
	var err error
	if row.Stock, err = parseInt(cell(cells, 1), "stock"); err != nil {
		row.Err = err
		return row
	}
	if row.MinStockLevel, err = parseInt(cell(cells, 2), "min_stock_level"); err != nil {
		row.Err = err
		return row
	}
	if raw := strings.TrimSpace(cell(cells, 3)); raw != "" {
		maxLevel, err := parseInt(raw, "max_stock_level")
		if err != nil {
			row.Err = err
			return row
		}
		row.MaxStockLevel = &maxLevel
	}
	return row
}

// parseInt una celda vacía vale 0.
func parseInt(raw, field string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// Excel puede guardar enteros como "12.0".
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, domain.NewValidationError(field, fmt.Sprintf("valor no entero en %s: %q", field, raw))
		}
		n = int(f)
	}
	return n, nil
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
