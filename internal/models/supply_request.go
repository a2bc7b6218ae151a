package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RequestStatePending   = "PENDING"
	RequestStateConfirmed = "CONFIRMED"
	RequestStateLate      = "LATE"
	RequestStateFailed    = "FAILED"
	RequestStateCompleted = "COMPLETED"
)

// RequestStateTerminal reports whether a request state admits no further
// transitions. CONFIRMED is not terminal: it is PENDING plus the
// supply-confirmed flag.
func RequestStateTerminal(state string) bool {
	switch state {
	case RequestStateLate, RequestStateFailed, RequestStateCompleted:
		return true
	}
	return false
}

// SupplyRequest is one fuel delivery ask placed under an agreement. It is
// created in PENDING and moves to exactly one terminal state (LATE, FAILED,
// COMPLETED) when the delivery is checked against the rules engine.
type SupplyRequest struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	AgreementID uint64 `gorm:"not null;index" json:"agreement_id"`

	RequestDate  time.Time `gorm:"type:timestamptz;not null" json:"request_date"`
	DeliveryDate time.Time `gorm:"type:timestamptz;not null" json:"delivery_date"`
	// MABT is the contractual "must arrive by" deadline.
	MABT time.Time `gorm:"column:mabt;type:timestamptz" json:"mabt"`

	Volume               decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"volume"`
	FuelType             string          `gorm:"type:varchar(50);not null" json:"fuel_type"`
	QualitySpecification string          `gorm:"type:text" json:"quality_specification"`
	DeliveryLocation     string          `gorm:"type:text" json:"delivery_location"`
	DeliveryMethod       string          `gorm:"type:varchar(50)" json:"delivery_method"`

	State           string `gorm:"type:varchar(10);not null;default:'PENDING';index" json:"state"`
	SupplyConfirmed bool   `gorm:"not null;default:false" json:"supply_confirmed"`

	Cost              decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0" json:"cost"`
	PricePerLitre     decimal.Decimal `gorm:"type:numeric(20,10);not null;default:0" json:"price_per_litre"`
	PenaltyPercentage decimal.Decimal `gorm:"type:numeric(20,10);not null;default:0" json:"penalty_percentage"`
	ReasonFailed      string          `gorm:"type:text" json:"reason_failed"`
	DeliveryTime      *time.Time      `gorm:"type:timestamptz" json:"delivery_time,omitempty"`

	SupplyRequestRecordHash string `gorm:"type:varchar(128)" json:"supply_request_record_hash"`
	SupplyRequestRecordURL  string `gorm:"type:text" json:"supply_request_record_url"`
	PurchaseOrderHash       string `gorm:"type:varchar(128)" json:"purchase_order_hash"`
	PurchaseOrderURL        string `gorm:"type:text" json:"purchase_order_url"`
	DistributorInvoiceHash  string `gorm:"type:varchar(128)" json:"distributor_invoice_hash"`
	DistributorInvoiceURL   string `gorm:"type:text" json:"distributor_invoice_url"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (SupplyRequest) TableName() string {
	return "supply_requests"
}
