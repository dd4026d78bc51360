package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/tienda-inventario/internal/application/dto"
	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/application/usecase"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/pdf"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/tienda-inventario/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/tienda-inventario/pkg/jwt"
)

type apiFixture struct {
	app         *fiber.App
	warehouseID string
	productID   string
}

// newAPI arma la API completa sobre el almacén en memoria con una bodega y un producto.
func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	productUC := usecase.NewProductUseCase(store.Products())
	warehouseUC := usecase.NewWarehouseUseCase(store.Warehouses())
	stockUC := inventory.NewStockAdjustmentUseCase(
		memory.NewTxRunner(store), store.Records(), store.Movements(),
		store.Products(), store.Warehouses(), nil,
	)
	reportUC := inventory.NewReportUseCase(store.Records(), store.Products(), store.Warehouses(),
		pdf.NewMarotoPDFGenerator(), xlsx.NewInventorySheet())
	importUC := inventory.NewImportUseCase(xlsx.NewInventorySheet(), store.Products(), stockUC)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		WarehouseUC: warehouseUC,
		ProductUC:   productUC,
		StockUC:     stockUC,
		ReportUC:    reportUC,
		ImportUC:    importUC,
		JWTSecret:   testJWTSecret,
	})

	ctx := context.Background()
	wh, err := warehouseUC.Create(ctx, testCompanyID, dto.CreateWarehouseRequest{Name: "Principal"})
	require.NoError(t, err)
	p, err := productUC.Create(ctx, testCompanyID, dto.CreateProductRequest{SKU: "CAM-01", Name: "Camiseta", Price: decimal.NewFromInt(25000)})
	require.NoError(t, err)
	return &apiFixture{app: app, warehouseID: wh.ID, productID: p.ID}
}

func (f *apiFixture) call(t *testing.T, role, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (f *apiFixture) movement(q int) dto.StockMovementRequest {
	return dto.StockMovementRequest{WarehouseID: f.warehouseID, ProductID: f.productID, Quantity: q}
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestInventoryAPI_EntradasYSalidas(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, pkgjwt.RoleBodeguero, http.MethodPost, "/api/inventory/entries", f.movement(8))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.StockResult](t, resp)
	assert.True(t, created.Created)
	assert.Equal(t, 8, created.Item.Stock)
	assert.Equal(t, "NORMAL", created.Threshold)

	resp = f.call(t, pkgjwt.RoleBodeguero, http.MethodPost, "/api/inventory/entries", f.movement(2))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 10, decode[dto.StockResult](t, resp).Item.Stock)

	resp = f.call(t, pkgjwt.RoleAdmin, http.MethodPost, "/api/inventory/exits", f.movement(7))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	exit := decode[dto.StockResult](t, resp)
	assert.Equal(t, 3, exit.Item.Stock)
	assert.True(t, exit.Warning)

	resp = f.call(t, pkgjwt.RoleAdmin, http.MethodPost, "/api/inventory/exits", f.movement(4))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)

	resp = f.call(t, pkgjwt.RoleAdmin, http.MethodGet, "/api/inventory/items/"+created.Item.ID+"/movements", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[dto.StockTransactionListResponse](t, resp).Items, 3)
}

func TestInventoryAPI_ErroresDeValidacionYAcceso(t *testing.T) {
	f := newAPI(t)

	cases := []struct {
		name   string
		role   string
		body   dto.StockMovementRequest
		status int
		code   string
	}{
		{"cantidad cero", pkgjwt.RoleAdmin, f.movement(0), http.StatusBadRequest, "VALIDATION"},
		{"bodega inexistente", pkgjwt.RoleAdmin, dto.StockMovementRequest{WarehouseID: "nope", ProductID: f.productID, Quantity: 1}, http.StatusNotFound, "NOT_FOUND"},
		{"vendedor no mueve stock", pkgjwt.RoleVendedor, f.movement(1), http.StatusForbidden, "FORBIDDEN"},
		{"sin token", "", f.movement(1), http.StatusUnauthorized, "MISSING_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := f.call(t, tc.role, http.MethodPost, "/api/inventory/entries", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

func TestInventoryAPI_AltaEdicionYListado(t *testing.T) {
	f := newAPI(t)
	hi := 15

	resp := f.call(t, pkgjwt.RoleAdmin, http.MethodPost, "/api/inventory/items", dto.AddInventoryItemRequest{
		WarehouseID: f.warehouseID, ProductID: f.productID, Stock: 3, MinStockLevel: 5, MaxStockLevel: &hi,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	item := decode[dto.StockResult](t, resp)
	assert.Equal(t, "LOW", item.Threshold)

	resp = f.call(t, pkgjwt.RoleAdmin, http.MethodPost, "/api/inventory/items", dto.AddInventoryItemRequest{
		WarehouseID: f.warehouseID, ProductID: f.productID, Stock: 1,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = f.call(t, pkgjwt.RoleVendedor, http.MethodGet, "/api/inventory/items?state=low", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[dto.InventoryItemListResponse](t, resp).Items, 1)

	resp = f.call(t, pkgjwt.RoleBodeguero, http.MethodPut, "/api/inventory/items/"+item.Item.ID, dto.EditInventoryItemRequest{
		Stock: 20, MinStockLevel: 5, MaxStockLevel: &hi,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "HIGH", decode[dto.StockResult](t, resp).Threshold)

	resp = f.call(t, pkgjwt.RoleVendedor, http.MethodGet, "/api/inventory/items?state=raro", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = f.call(t, pkgjwt.RoleBodeguero, http.MethodDelete, "/api/inventory/items", dto.DeleteInventoryItemsRequest{IDs: []string{item.Item.ID}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.call(t, pkgjwt.RoleAdmin, http.MethodDelete, "/api/inventory/items", dto.DeleteInventoryItemsRequest{IDs: []string{item.Item.ID}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), decode[dto.DeleteInventoryItemsResponse](t, resp).Deleted)

	resp = f.call(t, pkgjwt.RoleAdmin, http.MethodGet, "/api/inventory/items/"+item.Item.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestInventoryAPI_Reportes(t *testing.T) {
	f := newAPI(t)
	resp := f.call(t, pkgjwt.RoleAdmin, http.MethodPost, "/api/inventory/entries", f.movement(4))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = f.call(t, pkgjwt.RoleVendedor, http.MethodGet, "/api/inventory/reports/"+f.warehouseID+".xlsx", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	book, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Inventario")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "CAM-01", rows[1][0])

	resp = f.call(t, pkgjwt.RoleVendedor, http.MethodGet, "/api/inventory/reports/"+f.warehouseID+".pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp = f.call(t, pkgjwt.RoleVendedor, http.MethodGet, "/api/inventory/reports/"+f.warehouseID+".csv", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestInventoryAPI_Importacion(t *testing.T) {
	f := newAPI(t)

	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]any{"sku", "stock", "min", "max"}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]any{"CAM-01", 12, 2, 20}))
	require.NoError(t, book.SetSheetRow(sheet, "A3", &[]any{"NO-EXISTE", 1, 0, ""}))
	xlsxBuf, err := book.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, book.Close())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("warehouse_id", f.warehouseID))
	part, err := mw.CreateFormFile("file", "inventario.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsxBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/inventory/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleBodeguero))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[dto.ImportResult](t, resp)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Failed)
}

func TestCatalogAPI_PublicoYProtegido(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, "", http.MethodGet, "/api/public/companies/"+testCompanyID+"/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ProductListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "CAM-01", list.Items[0].SKU)

	resp = f.call(t, pkgjwt.RoleBodeguero, http.MethodPost, "/api/products", dto.CreateProductRequest{SKU: "CAM-01", Name: "Otra"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = f.call(t, pkgjwt.RoleBodeguero, http.MethodPost, "/api/warehouses", dto.CreateWarehouseRequest{Name: "Norte"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.call(t, pkgjwt.RoleAdmin, http.MethodPost, "/api/warehouses", dto.CreateWarehouseRequest{Name: "Norte"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	wh := decode[dto.WarehouseResponse](t, resp)

	resp = f.call(t, pkgjwt.RoleAdmin, http.MethodDelete, "/api/warehouses/"+wh.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}
