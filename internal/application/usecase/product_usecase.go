// Package usecase holds the master-data CRUD use cases.
package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/vyomerp/vyom-api/internal/application/dto"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/gst"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// ProductUseCase is CRUD for products. Cost and stock are never set here,
// they come from the movement history.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase builds the use case.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create creates a product. The GST rate must be a valid slab and the HSN
// code, when given, must be 4, 6 or 8 digits.
func (uc *ProductUseCase) Create(companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if !gst.ValidRate(in.GSTRate) {
		return nil, gst.ErrInvalidRate
	}
	if err := gst.ValidateHSN(in.HSNCode); err != nil {
		return nil, err
	}
	if in.UnitPrice.IsNegative() || in.PurchasePrice.IsNegative() || in.MinStockLevel.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		SKU:           in.SKU,
		Name:          in.Name,
		Description:   in.Description,
		HSNCode:       in.HSNCode,
		UnitPrice:     in.UnitPrice,
		PurchasePrice: in.PurchasePrice,
		GSTRate:       in.GSTRate,
		UnitMeasure:   in.UnitMeasure,
		TracksBatches: in.TracksBatches || in.TracksExpiry,
		TracksExpiry:  in.TracksExpiry,
		MinStockLevel: in.MinStockLevel,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID returns a product scoped to the company.
func (uc *ProductUseCase) GetByID(companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update patches a product. Batch tracking flags are immutable once set,
// existing movements depend on them.
func (uc *ProductUseCase) Update(companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.HSNCode != nil {
		if err := gst.ValidateHSN(*in.HSNCode); err != nil {
			return nil, err
		}
		product.HSNCode = *in.HSNCode
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.UnitPrice = *in.UnitPrice
	}
	if in.PurchasePrice != nil {
		if in.PurchasePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.GSTRate != nil {
		if !gst.ValidRate(*in.GSTRate) {
			return nil, gst.ErrInvalidRate
		}
		product.GSTRate = *in.GSTRate
	}
	if in.MinStockLevel != nil {
		if in.MinStockLevel.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.MinStockLevel = *in.MinStockLevel
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lists the company's products with pagination.
func (uc *ProductUseCase) List(companyID string, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.repo.List(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		CompanyID:     p.CompanyID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		HSNCode:       p.HSNCode,
		UnitPrice:     p.UnitPrice,
		PurchasePrice: p.PurchasePrice,
		GSTRate:       p.GSTRate,
		UnitMeasure:   p.UnitMeasure,
		TracksBatches: p.TracksBatches,
		TracksExpiry:  p.TracksExpiry,
		MinStockLevel: p.MinStockLevel,
		Active:        p.Active,
	}
}
