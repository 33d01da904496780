package repository

import "github.com/vyomerp/vyom-api/internal/domain/entity"

// WarehouseRepository is the persistence port for warehouses.
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	List(companyID string, limit, offset int) ([]*entity.Warehouse, error)
}
