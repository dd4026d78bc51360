package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/tienda-inventario/internal/application/dto"
	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
	"github.com/jhoicas/tienda-inventario/internal/domain/stock"
)

// maxConflictAttempts intentos ante ErrConflict (alta concurrente del mismo par bodega/producto).
const maxConflictAttempts = 3

// StockAdjustmentUseCase motor de ajuste de inventario: entradas, salidas, altas y ediciones
// de InventoryRecord. Cada mutación es un ciclo leer-validar-escribir dentro de una transacción
// con la fila bloqueada (SELECT FOR UPDATE), de modo que dos ajustes simultáneos no se pisan.
type StockAdjustmentUseCase struct {
	txRunner      TxRunner
	records       repository.InventoryRecordRepository
	movements     repository.StockTransactionRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	alerts        AlertPublisher

	now   func() time.Time
	newID func() string
}

// NewStockAdjustmentUseCase construye el caso de uso. alerts puede ser nil (sin publicación de alertas).
func NewStockAdjustmentUseCase(
	txRunner TxRunner,
	records repository.InventoryRecordRepository,
	movements repository.StockTransactionRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	alerts AlertPublisher,
) *StockAdjustmentUseCase {
	return &StockAdjustmentUseCase{
		txRunner:      txRunner,
		records:       records,
		movements:     movements,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		alerts:        alerts,
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
}

// MovementInput entrada para ApplyEntry / ApplyExit.
type MovementInput struct {
	CompanyID   string
	UserID      string
	WarehouseID string
	ProductID   string
	Quantity    int
}

// AddItemInput entrada para dar de alta un producto en el inventario de una bodega.
type AddItemInput struct {
	CompanyID     string
	UserID        string
	WarehouseID   string
	ProductID     string
	Stock         int
	MinStockLevel int
	MaxStockLevel *int
}

// EditItemInput entrada para editar un registro existente por su ID.
type EditItemInput struct {
	CompanyID     string
	UserID        string
	RecordID      string
	Stock         int
	MinStockLevel int
	MaxStockLevel *int
}

// ApplyEntry suma quantity al stock del par (bodega, producto). Si el producto aún no está en
// la bodega crea el registro con stock = quantity, mínimo 0 y sin máximo.
// Superar el máximo no se rechaza; solo se refleja como HIGH.
func (uc *StockAdjustmentUseCase) ApplyEntry(ctx context.Context, in MovementInput) (*dto.StockResult, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}
	if err := uc.resolve(ctx, in.CompanyID, in.WarehouseID, in.ProductID); err != nil {
		return nil, err
	}

	var (
		record  *entity.InventoryRecord
		created bool
	)
	err := uc.runTx(ctx, func(records repository.InventoryRecordRepository, movements repository.StockTransactionRepository) error {
		now := uc.now()
		created = false
		current, err := records.FindForUpdate(ctx, in.WarehouseID, in.ProductID)
		if err != nil {
			return err
		}
		before := 0
		if current == nil {
			current = stock.NewRecord(uc.newID(), in.CompanyID, in.WarehouseID, in.ProductID, in.Quantity, now)
			if err := records.Insert(ctx, current); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					// Otra transacción creó el registro entre la lectura y el insert.
					return domain.ErrConflict
				}
				return err
			}
			created = true
		} else {
			before = current.Stock
			if err := stock.ApplyEntry(current, in.Quantity, now); err != nil {
				return err
			}
			if err := records.Update(ctx, current); err != nil {
				return err
			}
		}
		record = current
		return movements.Create(ctx, uc.transaction(current, entity.TransactionEntry, in.Quantity, before, in.UserID, now))
	})
	if err != nil {
		return nil, domain.Persistence(err)
	}

	result := toStockResult(record, false)
	result.Created = created
	uc.publishAlert(ctx, record)
	return result, nil
}

// ApplyExit descuenta quantity del stock. El registro debe existir y la cantidad no puede superar
// el stock actual (ErrInsufficientStock, sin escritura). Warning indica stock resultante < 5.
func (uc *StockAdjustmentUseCase) ApplyExit(ctx context.Context, in MovementInput) (*dto.StockResult, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}
	if err := uc.resolve(ctx, in.CompanyID, in.WarehouseID, in.ProductID); err != nil {
		return nil, err
	}

	var (
		record  *entity.InventoryRecord
		warning bool
	)
	err := uc.runTx(ctx, func(records repository.InventoryRecordRepository, movements repository.StockTransactionRepository) error {
		now := uc.now()
		current, err := records.FindForUpdate(ctx, in.WarehouseID, in.ProductID)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: el producto %s no está registrado en la bodega %s", domain.ErrNotFound, in.ProductID, in.WarehouseID)
		}
		before := current.Stock
		warning, err = stock.ApplyExit(current, in.Quantity, now)
		if err != nil {
			return err
		}
		if err := records.Update(ctx, current); err != nil {
			return err
		}
		record = current
		return movements.Create(ctx, uc.transaction(current, entity.TransactionExit, -in.Quantity, before, in.UserID, now))
	})
	if err != nil {
		return nil, domain.Persistence(err)
	}

	uc.publishAlert(ctx, record)
	return toStockResult(record, warning), nil
}

// AddToInventory da de alta un producto en una bodega con valores absolutos.
// Falla con ErrDuplicate si el par ya existe: en ese caso se edita el registro existente.
func (uc *StockAdjustmentUseCase) AddToInventory(ctx context.Context, in AddItemInput) (*dto.StockResult, error) {
	levels := stock.Levels{Stock: in.Stock, MinStockLevel: in.MinStockLevel, MaxStockLevel: in.MaxStockLevel}
	if err := stock.ValidateLevels(in.ProductID, "product_id", stock.MsgProductRequired, levels); err != nil {
		return nil, err
	}
	if in.WarehouseID == "" {
		return nil, domain.NewValidationError("warehouse_id", stock.MsgWarehouseRequired)
	}
	if err := uc.resolve(ctx, in.CompanyID, in.WarehouseID, in.ProductID); err != nil {
		return nil, err
	}

	var record *entity.InventoryRecord
	err := uc.txRunner.Run(ctx, func(records repository.InventoryRecordRepository, movements repository.StockTransactionRepository) error {
		now := uc.now()
		existing, err := records.FindForUpdate(ctx, in.WarehouseID, in.ProductID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: el producto ya está en el inventario de la bodega", domain.ErrDuplicate)
		}
		record = &entity.InventoryRecord{
			ID:          uc.newID(),
			CompanyID:   in.CompanyID,
			WarehouseID: in.WarehouseID,
			ProductID:   in.ProductID,
		}
		stock.SetLevels(record, levels, now)
		if err := records.Insert(ctx, record); err != nil {
			return err
		}
		return movements.Create(ctx, uc.transaction(record, entity.TransactionCreate, record.Stock, 0, in.UserID, now))
	})
	if err != nil {
		return nil, domain.Persistence(err)
	}

	result := toStockResult(record, false)
	result.Created = true
	uc.publishAlert(ctx, record)
	return result, nil
}

// EditInventoryItem sobrescribe stock, mínimo y máximo de un registro existente.
func (uc *StockAdjustmentUseCase) EditInventoryItem(ctx context.Context, in EditItemInput) (*dto.StockResult, error) {
	levels := stock.Levels{Stock: in.Stock, MinStockLevel: in.MinStockLevel, MaxStockLevel: in.MaxStockLevel}
	if err := stock.ValidateLevels(in.RecordID, "id", stock.MsgRecordRequired, levels); err != nil {
		return nil, err
	}

	var record *entity.InventoryRecord
	err := uc.txRunner.Run(ctx, func(records repository.InventoryRecordRepository, movements repository.StockTransactionRepository) error {
		now := uc.now()
		current, err := records.GetByIDForUpdate(ctx, in.RecordID)
		if err != nil {
			return err
		}
		if current == nil || current.CompanyID != in.CompanyID {
			return fmt.Errorf("%w: registro de inventario %s", domain.ErrNotFound, in.RecordID)
		}
		before := current.Stock
		stock.SetLevels(current, levels, now)
		if err := records.Update(ctx, current); err != nil {
			return err
		}
		record = current
		return movements.Create(ctx, uc.transaction(current, entity.TransactionEdit, current.Stock-before, before, in.UserID, now))
	})
	if err != nil {
		return nil, domain.Persistence(err)
	}

	uc.publishAlert(ctx, record)
	return toStockResult(record, false), nil
}

// Classify devuelve la clasificación de umbral vigente de un registro.
func (uc *StockAdjustmentUseCase) Classify(ctx context.Context, companyID, id string) (entity.ThresholdState, error) {
	record, err := uc.load(ctx, companyID, id)
	if err != nil {
		return "", err
	}
	return stock.ClassifyThreshold(*record), nil
}

// GetItem obtiene un registro con su clasificación.
func (uc *StockAdjustmentUseCase) GetItem(ctx context.Context, companyID, id string) (*dto.StockResult, error) {
	record, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toStockResult(record, false), nil
}

// ListItems lista registros de la empresa, opcionalmente por bodega y estado de umbral.
func (uc *StockAdjustmentUseCase) ListItems(ctx context.Context, companyID, warehouseID, state string, page dto.PageRequest) (*dto.InventoryItemListResponse, error) {
	page = page.Normalize()
	filter := repository.InventoryRecordFilter{
		CompanyID:   companyID,
		WarehouseID: warehouseID,
		Limit:       page.Limit,
		Offset:      page.Offset,
	}
	if state != "" {
		parsed, ok := entity.ParseThresholdState(state)
		if !ok {
			return nil, domain.NewValidationError("state", "estado de umbral inválido: use low, high o normal")
		}
		filter.State = parsed
	}
	list, err := uc.records.List(ctx, filter)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	items := make([]dto.InventoryItemResponse, 0, len(list))
	for _, r := range list {
		items = append(items, toItemResponse(r))
	}
	return &dto.InventoryItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListMovements devuelve el historial de transacciones de un registro.
func (uc *StockAdjustmentUseCase) ListMovements(ctx context.Context, companyID, recordID string, page dto.PageRequest) (*dto.StockTransactionListResponse, error) {
	if _, err := uc.load(ctx, companyID, recordID); err != nil {
		return nil, err
	}
	page = page.Normalize()
	list, err := uc.movements.ListByRecord(ctx, recordID, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	items := make([]dto.StockTransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, toTransactionResponse(t))
	}
	return &dto.StockTransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// DeleteItems elimina los registros seleccionados de la empresa y devuelve cuántos se borraron.
func (uc *StockAdjustmentUseCase) DeleteItems(ctx context.Context, companyID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.NewValidationError("ids", stock.MsgNoRecordsSelected)
	}
	n, err := uc.records.DeleteMany(ctx, companyID, ids)
	if err != nil {
		return 0, domain.Persistence(err)
	}
	return n, nil
}

func validateMovement(in MovementInput) error {
	if in.ProductID == "" {
		return domain.NewValidationError("product_id", stock.MsgProductRequired)
	}
	if in.WarehouseID == "" {
		return domain.NewValidationError("warehouse_id", stock.MsgWarehouseRequired)
	}
	return stock.ValidateQuantity(in.Quantity)
}

// resolve verifica que bodega y producto existan y sean de la empresa.
func (uc *StockAdjustmentUseCase) resolve(ctx context.Context, companyID, warehouseID, productID string) error {
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return domain.Persistence(err)
	}
	if !wh.BelongsTo(companyID) {
		return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, warehouseID)
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return domain.Persistence(err)
	}
	if !product.BelongsTo(companyID) {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return nil
}

func (uc *StockAdjustmentUseCase) load(ctx context.Context, companyID, id string) (*entity.InventoryRecord, error) {
	record, err := uc.records.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	if record == nil || record.CompanyID != companyID {
		return nil, fmt.Errorf("%w: registro de inventario %s", domain.ErrNotFound, id)
	}
	return record, nil
}

// runTx reintenta la transacción completa solo ante ErrConflict.
func (uc *StockAdjustmentUseCase) runTx(ctx context.Context, fn func(repository.InventoryRecordRepository, repository.StockTransactionRepository) error) error {
	var err error
	for attempt := 1; attempt <= maxConflictAttempts; attempt++ {
		err = uc.txRunner.Run(ctx, fn)
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
		log.Debug().Int("attempt", attempt).Msg("conflicto de concurrencia en inventario, reintentando")
	}
	return err
}

func (uc *StockAdjustmentUseCase) transaction(r *entity.InventoryRecord, typ string, delta, before int, userID string, now time.Time) *entity.StockTransaction {
	return &entity.StockTransaction{
		ID:          uc.newID(),
		CompanyID:   r.CompanyID,
		RecordID:    r.ID,
		WarehouseID: r.WarehouseID,
		ProductID:   r.ProductID,
		Type:        typ,
		Quantity:    delta,
		StockBefore: before,
		StockAfter:  r.Stock,
		CreatedBy:   userID,
		CreatedAt:   now,
	}
}

// publishAlert notifica LOW/HIGH tras una mutación confirmada. Un fallo de publicación se
// registra y no revierte ni invalida el ajuste.
func (uc *StockAdjustmentUseCase) publishAlert(ctx context.Context, r *entity.InventoryRecord) {
	if uc.alerts == nil || r == nil {
		return
	}
	state := stock.ClassifyThreshold(*r)
	if state == entity.ThresholdNormal {
		return
	}
	alert := StockAlert{
		CompanyID:     r.CompanyID,
		WarehouseID:   r.WarehouseID,
		ProductID:     r.ProductID,
		RecordID:      r.ID,
		State:         state,
		Stock:         r.Stock,
		MinStockLevel: r.MinStockLevel,
		MaxStockLevel: r.MaxStockLevel,
		OccurredAt:    r.LastUpdated,
	}
	if err := uc.alerts.PublishStockAlert(ctx, alert); err != nil {
		log.Warn().Err(err).
			Str("record_id", r.ID).
			Str("state", string(state)).
			Msg("no se pudo publicar la alerta de stock")
	}
}
