package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/vyomerp/vyom-api/internal/application/dto"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// CustomerUseCase is CRUD for customers. State is mandatory, the GST split
// on every sales invoice depends on it.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase builds the use case.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create creates a customer.
func (uc *CustomerUseCase) Create(companyID string, in dto.CreatePartyRequest) (*dto.PartyResponse, error) {
	if in.Name == "" || in.State == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		GSTIN:     in.GSTIN,
		State:     in.State,
		Address:   in.Address,
		Email:     in.Email,
		Phone:     in.Phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID returns a customer scoped to the company.
func (uc *CustomerUseCase) GetByID(companyID, id string) (*dto.PartyResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(customer), nil
}

// List lists the company's customers with pagination.
func (uc *CustomerUseCase) List(companyID string, page dto.PageRequest) ([]*dto.PartyResponse, error) {
	page.DefaultPage()
	customers, err := uc.repo.List(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PartyResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

func toCustomerResponse(c *entity.Customer) *dto.PartyResponse {
	return &dto.PartyResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		GSTIN:     c.GSTIN,
		State:     c.State,
		Address:   c.Address,
		Email:     c.Email,
		Phone:     c.Phone,
		Active:    c.Active,
	}
}

// VendorUseCase is CRUD for vendors, mirroring CustomerUseCase on the
// purchase side.
type VendorUseCase struct {
	repo repository.VendorRepository
}

// NewVendorUseCase builds the use case.
func NewVendorUseCase(repo repository.VendorRepository) *VendorUseCase {
	return &VendorUseCase{repo: repo}
}

// Create creates a vendor.
func (uc *VendorUseCase) Create(companyID string, in dto.CreatePartyRequest) (*dto.PartyResponse, error) {
	if in.Name == "" || in.State == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	vendor := &entity.Vendor{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		GSTIN:     in.GSTIN,
		State:     in.State,
		Address:   in.Address,
		Email:     in.Email,
		Phone:     in.Phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(vendor); err != nil {
		return nil, err
	}
	return toVendorResponse(vendor), nil
}

// GetByID returns a vendor scoped to the company.
func (uc *VendorUseCase) GetByID(companyID, id string) (*dto.PartyResponse, error) {
	vendor, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vendor == nil || vendor.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toVendorResponse(vendor), nil
}

// List lists the company's vendors with pagination.
func (uc *VendorUseCase) List(companyID string, page dto.PageRequest) ([]*dto.PartyResponse, error) {
	page.DefaultPage()
	vendors, err := uc.repo.List(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PartyResponse, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, toVendorResponse(v))
	}
	return out, nil
}

func toVendorResponse(v *entity.Vendor) *dto.PartyResponse {
	return &dto.PartyResponse{
		ID:        v.ID,
		CompanyID: v.CompanyID,
		Name:      v.Name,
		GSTIN:     v.GSTIN,
		State:     v.State,
		Address:   v.Address,
		Email:     v.Email,
		Phone:     v.Phone,
		Active:    v.Active,
	}
}
