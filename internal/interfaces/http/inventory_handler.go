package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-inventario/internal/application/dto"
	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/domain"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

// InventoryHandler maneja las peticiones HTTP del motor de inventario (protegido).
type InventoryHandler struct {
	stock    *inventory.StockAdjustmentUseCase
	reports  *inventory.ReportUseCase
	importer *inventory.ImportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *inventory.StockAdjustmentUseCase, reports *inventory.ReportUseCase, importer *inventory.ImportUseCase) *InventoryHandler {
	return &InventoryHandler{stock: stock, reports: reports, importer: importer}
}

// RegisterEntry godoc
// @Summary      Registrar entrada de stock
// @Description  Suma la cantidad al stock del producto en la bodega. Si el producto no estaba en la bodega crea el registro.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.StockMovementRequest  true  "warehouse_id, product_id, quantity"
// @Success      200   {object}  dto.StockResult
// @Success      201   {object}  dto.StockResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/entries [post]
func (h *InventoryHandler) RegisterEntry(c *fiber.Ctx) error {
	in, err := movementInput(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.stock.ApplyEntry(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	status := fiber.StatusOK
	if out.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// RegisterExit godoc
// @Summary      Registrar salida de stock
// @Description  Descuenta la cantidad. warning=true cuando el stock resultante queda por debajo de 5.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.StockMovementRequest  true  "warehouse_id, product_id, quantity"
// @Success      200   {object}  dto.StockResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/exits [post]
func (h *InventoryHandler) RegisterExit(c *fiber.Ctx) error {
	in, err := movementInput(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.stock.ApplyExit(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// movementInput arma la entrada común de entradas y salidas.
func movementInput(c *fiber.Ctx) (inventory.MovementInput, error) {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" {
		return inventory.MovementInput{}, domain.ErrUnauthorized
	}
	var req dto.StockMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return inventory.MovementInput{}, domain.NewValidationError("body", "cuerpo inválido")
	}
	return inventory.MovementInput{
		CompanyID:   companyID,
		UserID:      userID,
		WarehouseID: strings.TrimSpace(req.WarehouseID),
		ProductID:   strings.TrimSpace(req.ProductID),
		Quantity:    req.Quantity,
	}, nil
}

// AddItem godoc
// @Summary      Dar de alta un producto en el inventario de una bodega
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AddInventoryItemRequest  true  "Niveles iniciales"
// @Success      201   {object}  dto.StockResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/items [post]
func (h *InventoryHandler) AddItem(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var req dto.AddInventoryItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.AddToInventory(c.UserContext(), inventory.AddItemInput{
		CompanyID:     companyID,
		UserID:        GetUserID(c),
		WarehouseID:   strings.TrimSpace(req.WarehouseID),
		ProductID:     strings.TrimSpace(req.ProductID),
		Stock:         req.Stock,
		MinStockLevel: req.MinStockLevel,
		MaxStockLevel: req.MaxStockLevel,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// EditItem godoc
// @Summary      Editar stock y umbrales de un registro
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                        true  "ID del registro"
// @Param        body  body      dto.EditInventoryItemRequest  true  "Valores absolutos"
// @Success      200   {object}  dto.StockResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id} [put]
func (h *InventoryHandler) EditItem(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var req dto.EditInventoryItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.EditInventoryItem(c.UserContext(), inventory.EditItemInput{
		CompanyID:     companyID,
		UserID:        GetUserID(c),
		RecordID:      c.Params("id"),
		Stock:         req.Stock,
		MinStockLevel: req.MinStockLevel,
		MaxStockLevel: req.MaxStockLevel,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetItem godoc
// @Summary      Obtener un registro con su clasificación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del registro"
// @Success      200  {object}  dto.StockResult
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id} [get]
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.stock.GetItem(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListItems godoc
// @Summary      Listar inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query     string  false  "Filtrar por bodega"
// @Param        state         query     string  false  "low | high | normal"
// @Param        limit         query     int     false  "Máximo 100"
// @Param        offset        query     int     false  "Desplazamiento"
// @Success      200           {object}  dto.InventoryItemListResponse
// @Failure      400           {object}  dto.ErrorResponse
// @Router       /api/inventory/items [get]
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return writeError(c, domain.NewValidationError("limit", "paginación inválida"))
	}
	out, err := h.stock.ListItems(c.UserContext(), companyID, c.Query("warehouse_id"), c.Query("state"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos de un registro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true   "ID del registro"
// @Param        limit   query     int     false  "Máximo 100"
// @Param        offset  query     int     false  "Desplazamiento"
// @Success      200     {object}  dto.StockTransactionListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return writeError(c, domain.NewValidationError("limit", "paginación inválida"))
	}
	out, err := h.stock.ListMovements(c.UserContext(), companyID, c.Params("id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteItems godoc
// @Summary      Borrar registros seleccionados
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.DeleteInventoryItemsRequest  true  "IDs a borrar"
// @Success      200   {object}  dto.DeleteInventoryItemsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/items [delete]
func (h *InventoryHandler) DeleteItems(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var req dto.DeleteInventoryItemsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	n, err := h.stock.DeleteItems(c.UserContext(), companyID, req.IDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeleteInventoryItemsResponse{Deleted: n})
}

// Report godoc
// @Summary      Reporte de inventario de una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        warehouseID  path  string  true  "ID de la bodega"
// @Param        format       path  string  true  "pdf | xlsx"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/reports/{warehouseID}.{format} [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	warehouseID := c.Params("warehouseID")
	var (
		body []byte
		mime string
		err  error
	)
	switch format := strings.ToLower(c.Params("format")); format {
	case "pdf":
		body, err = h.reports.ExportPDF(c.UserContext(), companyID, warehouseID)
		mime = mimePDF
	case "xlsx":
		body, err = h.reports.ExportXLSX(c.UserContext(), companyID, warehouseID)
		mime = mimeXLSX
	default:
		return writeError(c, domain.NewValidationError("format", "formato no soportado: use pdf o xlsx"))
	}
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventario-`+warehouseID+`.`+strings.ToLower(c.Params("format"))+`"`)
	return c.Send(body)
}

// Import godoc
// @Summary      Importar inventario desde xlsx
// @Description  Columnas: sku, stock, min_stock_level, max_stock_level. Cada fila se da de alta por separado.
// @Tags         inventory
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        warehouse_id  formData  string  true  "Bodega destino"
// @Param        file          formData  file    true  "Archivo .xlsx"
// @Success      200           {object}  dto.ImportResult
// @Failure      400           {object}  dto.ErrorResponse
// @Router       /api/inventory/import [post]
func (h *InventoryHandler) Import(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, domain.NewValidationError("file", "el archivo es obligatorio"))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, domain.NewValidationError("file", "no se pudo leer el archivo"))
	}
	defer f.Close()

	out, err := h.importer.ImportItems(c.UserContext(), companyID, GetUserID(c), strings.TrimSpace(c.FormValue("warehouse_id")), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
