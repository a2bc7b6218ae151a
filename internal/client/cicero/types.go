package cicero

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Decimal tolerates the engine returning numbers either as JSON strings or as
// raw numbers.
type Decimal struct {
	decimal.Decimal
}

func (d *Decimal) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		d.Decimal = decimal.Zero
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		val, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		d.Decimal = val
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		d.Decimal = decimal.NewFromFloat(f)
		return nil
	}
	return fmt.Errorf("invalid decimal: %s", string(b))
}

// LateSupplyCheck asks the engine whether a new request's delivery date clears
// the agreement's minimum lead time.
type LateSupplyCheck struct {
	ResourceID string
	ContractID string

	RequestDate  time.Time
	DeliveryDate time.Time
	// RequestDatePrior is the agreement's minimum lead time in days.
	RequestDatePrior int
	Counterparty     string
}

type LateSupplyResult struct {
	SupplyRequestValid bool `json:"supplyRequestValid"`
}

// DeliveryCheck asks the engine to classify a completed delivery and price it.
type DeliveryCheck struct {
	ResourceID string
	ContractID string

	// MABT is the contractual deadline; ActualDeliveryTime is when the fuel
	// actually arrived.
	MABT               time.Time
	ActualDeliveryTime time.Time

	FuelType             string
	Volume               decimal.Decimal
	QualitySpecification string
	DeliveryLocation     string
}

// DeliveryResult carries the engine's classification flags and pricing. The
// flags are not guaranteed to be mutually exclusive on the wire; callers apply
// a fixed priority order.
type DeliveryResult struct {
	LateDelivery         bool `json:"lateDelivery"`
	SupplyFailure        bool `json:"supplyFailure"`
	SpecificationFailure bool `json:"specificationFailure"`

	Price             Decimal `json:"price"`
	PricePerLitre     Decimal `json:"pricePerLitre"`
	PenaltyPercentage Decimal `json:"penaltyPercentage"`
}

// Wire shapes. The engine expects a tagged payload and answers with the result
// nested under body.response.

type executePayload struct {
	ResourceID string          `json:"resourceId"`
	ContractID string          `json:"contractId"`
	Timestamp  time.Time       `json:"timestamp"`
	Request    json.RawMessage `json:"request"`
}

type lateSupplyRequestBody struct {
	Class            string    `json:"$class"`
	RequestDate      time.Time `json:"requestDate"`
	DeliveryDate     time.Time `json:"deliveryDate"`
	RequestDatePrior int       `json:"requestDatePrior"`
	Counterparty     string    `json:"counterparty"`
}

type deliveryRequestBody struct {
	Class                string          `json:"$class"`
	MABT                 time.Time       `json:"mabt"`
	ActualDeliveryTime   time.Time       `json:"actualDeliveryTime"`
	FuelType             string          `json:"fuelType"`
	Volume               decimal.Decimal `json:"volume"`
	QualitySpecification string          `json:"qualitySpecification"`
	DeliveryLocation     string          `json:"deliveryLocation"`
}

type executeEnvelope struct {
	Body struct {
		Response json.RawMessage `json:"response"`
	} `json:"body"`
}

const (
	classLateSupply = "org.catena.checkLateSupply"
	classDelivery   = "org.catena.checkDelivery"
)
