package dto

import "github.com/shopspring/decimal"

// CreateProductRequest creates a product.
type CreateProductRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	HSNCode       string          `json:"hsn_code"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	GSTRate       decimal.Decimal `json:"gst_rate"`
	UnitMeasure   string          `json:"unit_measure"`
	TracksBatches bool            `json:"tracks_batches"`
	TracksExpiry  bool            `json:"tracks_expiry"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
}

// CreatePartyRequest creates a customer or vendor.
type CreatePartyRequest struct {
	Name    string `json:"name"`
	GSTIN   string `json:"gstin"`
	State   string `json:"state"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// CreateWarehouseRequest creates a warehouse.
type CreateWarehouseRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// CreateCompanyRequest creates a tenant.
type CreateCompanyRequest struct {
	Name    string `json:"name"`
	GSTIN   string `json:"gstin"`
	State   string `json:"state"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// UpdateProductRequest patches a product; nil fields are left untouched.
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	HSNCode       *string          `json:"hsn_code"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	GSTRate       *decimal.Decimal `json:"gst_rate"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level"`
	Active        *bool            `json:"active"`
}

// ProductResponse is a product in responses.
type ProductResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	HSNCode       string          `json:"hsn_code,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	GSTRate       decimal.Decimal `json:"gst_rate"`
	UnitMeasure   string          `json:"unit_measure,omitempty"`
	TracksBatches bool            `json:"tracks_batches"`
	TracksExpiry  bool            `json:"tracks_expiry"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	Active        bool            `json:"active"`
}

// PartyResponse is a customer or vendor in responses.
type PartyResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	GSTIN     string `json:"gstin,omitempty"`
	State     string `json:"state"`
	Address   string `json:"address,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Active    bool   `json:"active"`
}

// WarehouseResponse is a warehouse in responses.
type WarehouseResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	Active    bool   `json:"active"`
}

// CompanyResponse is a tenant in responses.
type CompanyResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GSTIN   string `json:"gstin,omitempty"`
	State   string `json:"state"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}
