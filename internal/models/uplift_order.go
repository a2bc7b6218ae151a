package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpliftOrder is the transport leg of a supply request: fuel collected from a
// manufacturer and hauled to the delivery site by a transporter.
type UpliftOrder struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestID uint64 `gorm:"not null;index" json:"request_id"`

	PickupTime time.Time `gorm:"type:timestamptz" json:"pickup_time"`
	// MABD is the "must arrive by" date for the collection leg.
	MABD time.Time `gorm:"column:mabd;type:timestamptz" json:"mabd"`

	Volume               decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"volume"`
	Origin               string          `gorm:"type:text" json:"origin"`
	Destination          string          `gorm:"type:text" json:"destination"`
	FuelType             string          `gorm:"type:varchar(50)" json:"fuel_type"`
	QualitySpecification string          `gorm:"type:text" json:"quality_specification"`

	TransportCompany string `gorm:"type:varchar(100)" json:"transport_company"`
	ManufacturerID   string `gorm:"type:varchar(100);index" json:"manufacturer_id"`
	TransporterID    string `gorm:"type:varchar(100);index" json:"transporter_id"`

	CollectionDateConfirmed bool `gorm:"not null;default:false" json:"collection_date_confirmed"`

	CollectionOrderHash       string `gorm:"type:varchar(128)" json:"collection_order_hash"`
	CollectionOrderURL        string `gorm:"type:text" json:"collection_order_url"`
	CollectionReceiptHash     string `gorm:"type:varchar(128)" json:"collection_receipt_hash"`
	CollectionReceiptURL      string `gorm:"type:text" json:"collection_receipt_url"`
	ManufacturerInvoiceHash   string `gorm:"type:varchar(128)" json:"manufacturer_invoice_hash"`
	ManufacturerInvoiceURL    string `gorm:"type:text" json:"manufacturer_invoice_url"`
	TransportationInvoiceHash string `gorm:"type:varchar(128)" json:"transportation_invoice_hash"`
	TransportationInvoiceURL  string `gorm:"type:text" json:"transportation_invoice_url"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (UpliftOrder) TableName() string {
	return "uplift_orders"
}
