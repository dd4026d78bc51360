// Package memory implementa los puertos de persistencia en memoria (STORAGE_DRIVER=memory y pruebas).
// Una transacción trabaja sobre una copia del estado y la publica solo si fn termina sin error.
package memory

import (
	"sync"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

type pairKey struct {
	warehouseID string
	productID   string
}

type state struct {
	records    map[string]entity.InventoryRecord
	pairs      map[pairKey]string
	movements  []entity.StockTransaction
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
}

func newState() *state {
	return &state{
		records:    map[string]entity.InventoryRecord{},
		pairs:      map[pairKey]string{},
		products:   map[string]entity.Product{},
		warehouses: map[string]entity.Warehouse{},
	}
}

// clone copia lo que una transacción puede modificar; catálogo y bodegas se comparten.
func (s *state) clone() *state {
	c := &state{
		records:    make(map[string]entity.InventoryRecord, len(s.records)),
		pairs:      make(map[pairKey]string, len(s.pairs)),
		movements:  append([]entity.StockTransaction(nil), s.movements...),
		products:   s.products,
		warehouses: s.warehouses,
	}
	for k, v := range s.records {
		c.records[k] = v
	}
	for k, v := range s.pairs {
		c.pairs[k] = v
	}
	return c
}

// Store agrupa el estado compartido por todos los repositorios en memoria.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

// access abstrae si una operación toma el lock del Store o corre dentro de una transacción ya bloqueada.
type access interface {
	read(fn func(*state) error) error
	write(fn func(*state) error) error
}

type storeAccess struct{ s *Store }

func (a storeAccess) read(fn func(*state) error) error {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return fn(a.s.state)
}

func (a storeAccess) write(fn func(*state) error) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return fn(a.s.state)
}

type txAccess struct{ st *state }

func (a txAccess) read(fn func(*state) error) error  { return fn(a.st) }
func (a txAccess) write(fn func(*state) error) error { return fn(a.st) }

// Records repositorio de registros de inventario fuera de transacción.
func (s *Store) Records() *InventoryRecordRepo {
	return &InventoryRecordRepo{a: storeAccess{s}}
}

// Movements repositorio del historial fuera de transacción.
func (s *Store) Movements() *StockTransactionRepo {
	return &StockTransactionRepo{a: storeAccess{s}}
}

// Products repositorio del catálogo.
func (s *Store) Products() *ProductRepo {
	return &ProductRepo{a: storeAccess{s}}
}

// Warehouses repositorio de bodegas.
func (s *Store) Warehouses() *WarehouseRepo {
	return &WarehouseRepo{a: storeAccess{s}}
}

func copyRecord(r entity.InventoryRecord) *entity.InventoryRecord {
	if r.MaxStockLevel != nil {
		v := *r.MaxStockLevel
		r.MaxStockLevel = &v
	}
	return &r
}
