package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable SKU. GSTRate is a whole percentage from the GST slab
// set (0, 5, 12, 18, 28). When TracksBatches is set, outbound movements are
// allocated earliest-expiry-first; TracksExpiry additionally requires an
// expiry date on every inbound batch.
type Product struct {
	ID            string
	CompanyID     string
	SKU           string
	Name          string
	Description   string
	HSNCode       string
	UnitPrice     decimal.Decimal // selling price
	PurchasePrice decimal.Decimal
	GSTRate       decimal.Decimal
	UnitMeasure   string
	TracksBatches bool
	TracksExpiry  bool
	MinStockLevel decimal.Decimal
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
