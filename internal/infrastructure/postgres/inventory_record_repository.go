package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

const inventoryRecordColumns = `id, company_id, warehouse_id, product_id, stock, min_stock_level, max_stock_level, last_updated`

// InventoryRecordRepo implementación de InventoryRecordRepository sobre PostgreSQL.
// La unicidad (warehouse_id, product_id) la garantiza el índice uq_inventory_records_pair.
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

func (r *InventoryRecordRepo) GetByID(ctx context.Context, id string) (*entity.InventoryRecord, error) {
	return r.getOne(ctx, `SELECT `+inventoryRecordColumns+` FROM inventory_records WHERE id = $1`, id)
}

func (r *InventoryRecordRepo) Find(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	return r.getOne(ctx, `SELECT `+inventoryRecordColumns+`
		FROM inventory_records WHERE warehouse_id = $1 AND product_id = $2`, warehouseID, productID)
}

// FindForUpdate bloquea la fila del par hasta el fin de la transacción. Solo tiene efecto con un Querier tx.
func (r *InventoryRecordRepo) FindForUpdate(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	return r.getOne(ctx, `SELECT `+inventoryRecordColumns+`
		FROM inventory_records WHERE warehouse_id = $1 AND product_id = $2
		FOR UPDATE`, warehouseID, productID)
}

func (r *InventoryRecordRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.InventoryRecord, error) {
	return r.getOne(ctx, `SELECT `+inventoryRecordColumns+` FROM inventory_records WHERE id = $1 FOR UPDATE`, id)
}

func (r *InventoryRecordRepo) Insert(ctx context.Context, record *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (` + inventoryRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		record.ID, record.CompanyID, record.WarehouseID, record.ProductID,
		record.Stock, record.MinStockLevel, record.MaxStockLevel, record.LastUpdated,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: bodega o producto inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("insert inventory record: %w", err)
	}
	return nil
}

func (r *InventoryRecordRepo) Update(ctx context.Context, record *entity.InventoryRecord) error {
	query := `
		UPDATE inventory_records
		SET stock = $2, min_stock_level = $3, max_stock_level = $4, last_updated = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		record.ID, record.Stock, record.MinStockLevel, record.MaxStockLevel, record.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("update inventory record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InventoryRecordRepo) DeleteMany(ctx context.Context, companyID string, ids []string) (int64, error) {
	cmd, err := r.q.Exec(ctx,
		`DELETE FROM inventory_records WHERE company_id = $1 AND id = ANY($2)`,
		companyID, ids,
	)
	if err != nil {
		return 0, fmt.Errorf("delete inventory records: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// List filtra por empresa y opcionalmente por bodega, producto y estado de umbral.
// El estado se evalúa en SQL con las mismas reglas que stock.ClassifyThreshold.
func (r *InventoryRecordRepo) List(ctx context.Context, f repository.InventoryRecordFilter) ([]*entity.InventoryRecord, error) {
	where := []string{"company_id = $1"}
	args := []any{f.CompanyID}
	if f.WarehouseID != "" {
		args = append(args, f.WarehouseID)
		where = append(where, fmt.Sprintf("warehouse_id = $%d", len(args)))
	}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}
	switch f.State {
	case entity.ThresholdLow:
		where = append(where, "stock < min_stock_level")
	case entity.ThresholdHigh:
		where = append(where, "stock >= min_stock_level AND max_stock_level IS NOT NULL AND stock > max_stock_level")
	case entity.ThresholdNormal:
		where = append(where, "stock >= min_stock_level AND (max_stock_level IS NULL OR stock <= max_stock_level)")
	}
	var query string
	if f.ByID {
		if f.AfterID != "" {
			args = append(args, f.AfterID)
			where = append(where, fmt.Sprintf("id > $%d", len(args)))
		}
		args = append(args, f.Limit)
		query = fmt.Sprintf(`SELECT %s FROM inventory_records WHERE %s
			ORDER BY id LIMIT $%d`,
			inventoryRecordColumns, strings.Join(where, " AND "), len(args))
	} else {
		args = append(args, f.Limit, f.Offset)
		query = fmt.Sprintf(`SELECT %s FROM inventory_records WHERE %s
			ORDER BY last_updated DESC, id LIMIT $%d OFFSET $%d`,
			inventoryRecordColumns, strings.Join(where, " AND "), len(args)-1, len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory records: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		rec, err := scanInventoryRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func (r *InventoryRecordRepo) getOne(ctx context.Context, query string, args ...any) (*entity.InventoryRecord, error) {
	rec, err := scanInventoryRecord(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return rec, nil
}

func scanInventoryRecord(row pgx.Row) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := row.Scan(
		&rec.ID, &rec.CompanyID, &rec.WarehouseID, &rec.ProductID,
		&rec.Stock, &rec.MinStockLevel, &rec.MaxStockLevel, &rec.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
