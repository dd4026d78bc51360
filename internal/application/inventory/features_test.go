package inventory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/jhoicas/tienda-inventario/internal/application/dto"
	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/memory"
)

type stockScenario struct {
	store  *memory.Store
	uc     *inventory.StockAdjustmentUseCase
	result *dto.StockResult
	state  entity.ThresholdState
	err    error
}

func (s *stockScenario) reset() {
	s.store = memory.NewStore()
	s.uc = inventory.NewStockAdjustmentUseCase(
		memory.NewTxRunner(s.store), s.store.Records(), s.store.Movements(),
		s.store.Products(), s.store.Warehouses(), nil,
	)
	s.result = nil
	s.state = ""
	s.err = nil
}

func (s *stockScenario) aWarehouseAndProduct(wh, product string) error {
	ctx := context.Background()
	if err := s.store.Warehouses().Create(ctx, &entity.Warehouse{ID: wh, CompanyID: companyID, Name: "Principal"}); err != nil {
		return err
	}
	return s.store.Products().Create(ctx, &entity.Product{ID: product, CompanyID: companyID, SKU: "SKU-" + product, Name: product})
}

func (s *stockScenario) inventoryIsEmpty() error {
	return s.inventoryStillEmpty()
}

func (s *stockScenario) aRecordWithoutMax(stock, lo int) error {
	return s.seed(stock, lo, nil)
}

func (s *stockScenario) aRecordWithMax(stock, lo, hi int) error {
	return s.seed(stock, lo, &hi)
}

func (s *stockScenario) seed(stock, lo int, hi *int) error {
	return s.store.Records().Insert(context.Background(), &entity.InventoryRecord{
		ID: "rec-1", CompanyID: companyID, WarehouseID: warehouseID, ProductID: productID,
		Stock: stock, MinStockLevel: lo, MaxStockLevel: hi, LastUpdated: time.Now(),
	})
}

func (s *stockScenario) iRegisterAnEntry(q int) error {
	s.result, s.err = s.uc.ApplyEntry(context.Background(), movement(q))
	return nil
}

func (s *stockScenario) iRegisterAnExit(q int) error {
	s.result, s.err = s.uc.ApplyExit(context.Background(), movement(q))
	return nil
}

func (s *stockScenario) iClassifyTheRecord() error {
	s.state, s.err = s.uc.Classify(context.Background(), companyID, "rec-1")
	return nil
}

func (s *stockScenario) iAddTheProduct(stock, lo, hi int) error {
	s.result, s.err = s.uc.AddToInventory(context.Background(), inventory.AddItemInput{
		CompanyID: companyID, UserID: userID, WarehouseID: warehouseID, ProductID: productID,
		Stock: stock, MinStockLevel: lo, MaxStockLevel: &hi,
	})
	return nil
}

func (s *stockScenario) theOperationSucceeds() error {
	if s.err != nil {
		return fmt.Errorf("se esperaba éxito, llegó: %v", s.err)
	}
	return nil
}

func (s *stockScenario) theOperationFailsWith(code string) error {
	if s.err == nil {
		return fmt.Errorf("se esperaba el error %s", code)
	}
	if got := domain.Code(s.err); got != code {
		return fmt.Errorf("código esperado %s, llegó %s (%v)", code, got, s.err)
	}
	return nil
}

func (s *stockScenario) theRecordHasDefaults(stock, lo int) error {
	rec, err := s.current()
	if err != nil {
		return err
	}
	if rec.Stock != stock || rec.MinStockLevel != lo || rec.MaxStockLevel != nil {
		return fmt.Errorf("registro inesperado: stock %d, mínimo %d, máximo %v", rec.Stock, rec.MinStockLevel, rec.MaxStockLevel)
	}
	return nil
}

func (s *stockScenario) theStockRemains(stock int) error {
	rec, err := s.current()
	if err != nil {
		return err
	}
	if rec.Stock != stock {
		return fmt.Errorf("stock esperado %d, actual %d", stock, rec.Stock)
	}
	return nil
}

func (s *stockScenario) theClassificationIs(want string) error {
	got := string(s.state)
	if s.result != nil {
		got = s.result.Threshold
	}
	if got != want {
		return fmt.Errorf("clasificación esperada %s, llegó %s", want, got)
	}
	return nil
}

func (s *stockScenario) thereIsALowStockWarning() error {
	if s.result == nil || !s.result.Warning {
		return fmt.Errorf("se esperaba advertencia de stock bajo")
	}
	return nil
}

func (s *stockScenario) inventoryStillEmpty() error {
	rec, err := s.store.Records().Find(context.Background(), warehouseID, productID)
	if err != nil {
		return err
	}
	if rec != nil {
		return fmt.Errorf("el inventario no está vacío: %+v", rec)
	}
	return nil
}

func (s *stockScenario) current() (*entity.InventoryRecord, error) {
	rec, err := s.store.Records().Find(context.Background(), warehouseID, productID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("no existe registro para %s/%s", warehouseID, productID)
	}
	return rec, nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	s := &stockScenario{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		s.reset()
		return ctx, nil
	})

	ctx.Step(`^una bodega "([^"]*)" y un producto "([^"]*)" de la empresa$`, s.aWarehouseAndProduct)
	ctx.Step(`^el inventario está vacío$`, s.inventoryIsEmpty)
	ctx.Step(`^un registro con stock (\d+), mínimo (\d+) y sin máximo$`, s.aRecordWithoutMax)
	ctx.Step(`^un registro con stock (\d+), mínimo (\d+) y máximo (\d+)$`, s.aRecordWithMax)

	ctx.Step(`^registro una entrada de (-?\d+) unidades$`, s.iRegisterAnEntry)
	ctx.Step(`^registro una salida de (-?\d+) unidades$`, s.iRegisterAnExit)
	ctx.Step(`^clasifico el registro$`, s.iClassifyTheRecord)
	ctx.Step(`^doy de alta el producto con stock (-?\d+), mínimo (-?\d+) y máximo (-?\d+)$`, s.iAddTheProduct)

	ctx.Step(`^la operación es exitosa$`, s.theOperationSucceeds)
	ctx.Step(`^la operación falla con "([^"]*)"$`, s.theOperationFailsWith)
	ctx.Step(`^el registro queda con stock (\d+), mínimo (\d+) y sin máximo$`, s.theRecordHasDefaults)
	ctx.Step(`^el stock del registro sigue en (\d+)$`, s.theStockRemains)
	ctx.Step(`^la clasificación es "([^"]*)"$`, s.theClassificationIs)
	ctx.Step(`^hay advertencia de stock bajo$`, s.thereIsALowStockWarning)
	ctx.Step(`^el inventario sigue vacío$`, s.inventoryStillEmpty)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
