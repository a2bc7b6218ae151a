package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	AgreementStateDraft  = "DRAFT"
	AgreementStateActive = "ACTIVE"
)

// SupplyAgreement is the long-lived contract between one customer and one
// distributor. The lifecycle engine only ever reads its terms; the single
// state transition (DRAFT -> ACTIVE) happens when both parties have signed.
type SupplyAgreement struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	CustomerID    string `gorm:"type:varchar(100);not null;index" json:"customer_id"`
	DistributorID string `gorm:"type:varchar(100);not null;index" json:"distributor_id"`

	EffectiveDate time.Time `gorm:"type:timestamptz;not null" json:"effective_date"`
	ExpiryDate    time.Time `gorm:"type:timestamptz;not null" json:"expiry_date"`
	PriceSetDate  time.Time `gorm:"type:timestamptz" json:"price_set_date"`

	// RequestDatePrior is the minimum lead time, in days, between placing a
	// request and its delivery date.
	RequestDatePrior int `gorm:"not null;default:0" json:"request_date_prior"`
	// SupplyFailTime is the "HH:MM" time of day after which an undelivered
	// request counts as a supply failure.
	SupplyFailTime string `gorm:"type:varchar(5)" json:"supply_fail_time"`

	AnnualBaseQuantity decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0" json:"annual_base_quantity"`
	PenaltyPercentage  decimal.Decimal `gorm:"type:numeric(20,10);not null;default:0" json:"penalty_percentage"`
	CapPercentage      decimal.Decimal `gorm:"type:numeric(20,10);not null;default:0" json:"cap_percentage"`

	QualitySpecification string `gorm:"type:text" json:"quality_specification"`

	// Reference tables are opaque to the engine; carried through as JSON.
	SiteTable   datatypes.JSON `gorm:"type:jsonb" json:"site_table,omitempty"`
	PriceTable  datatypes.JSON `gorm:"type:jsonb" json:"price_table,omitempty"`
	RebateTable datatypes.JSON `gorm:"type:jsonb" json:"rebate_table,omitempty"`

	CustomerSigned    bool `gorm:"not null;default:false" json:"customer_signed"`
	DistributorSigned bool `gorm:"not null;default:false" json:"distributor_signed"`

	// Binding to the external rules engine. Metadata only: attaching a
	// contract never activates the agreement.
	CiceroContractID string `gorm:"type:varchar(100)" json:"cicero_contract_id"`
	CiceroResourceID string `gorm:"type:varchar(100)" json:"cicero_resource_id"`

	State string `gorm:"type:varchar(10);not null;default:'DRAFT';index" json:"state"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (SupplyAgreement) TableName() string {
	return "supply_agreements"
}
