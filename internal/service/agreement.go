package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"catena/internal/events"
	"catena/internal/models"
	"catena/internal/repository"
)

const (
	PartyCustomer    = "customer"
	PartyDistributor = "distributor"
)

type AgreementService struct {
	Repo   repository.Repository
	Events events.Sink
	Logger *zap.Logger
}

type CreateAgreementInput struct {
	CustomerID    string
	DistributorID string

	EffectiveDate time.Time
	ExpiryDate    time.Time
	PriceSetDate  time.Time

	RequestDatePrior   int
	SupplyFailTime     string
	AnnualBaseQuantity decimal.Decimal
	PenaltyPercentage  decimal.Decimal
	CapPercentage      decimal.Decimal

	QualitySpecification string
	SiteTable            datatypes.JSON
	PriceTable           datatypes.JSON
	RebateTable          datatypes.JSON
}

func (s *AgreementService) Create(ctx context.Context, in CreateAgreementInput) (*models.SupplyAgreement, error) {
	if strings.TrimSpace(in.CustomerID) == "" || strings.TrimSpace(in.DistributorID) == "" {
		return nil, &ValidationError{Reason: "customer and distributor are required"}
	}
	if in.ExpiryDate.Before(in.EffectiveDate) {
		return nil, &ValidationError{Reason: "expiry date precedes effective date"}
	}
	if in.RequestDatePrior < 0 {
		return nil, &ValidationError{Reason: "request date prior must not be negative"}
	}

	agreement := &models.SupplyAgreement{
		CustomerID:           strings.TrimSpace(in.CustomerID),
		DistributorID:        strings.TrimSpace(in.DistributorID),
		EffectiveDate:        in.EffectiveDate,
		ExpiryDate:           in.ExpiryDate,
		PriceSetDate:         in.PriceSetDate,
		RequestDatePrior:     in.RequestDatePrior,
		SupplyFailTime:       strings.TrimSpace(in.SupplyFailTime),
		AnnualBaseQuantity:   in.AnnualBaseQuantity,
		PenaltyPercentage:    in.PenaltyPercentage,
		CapPercentage:        in.CapPercentage,
		QualitySpecification: in.QualitySpecification,
		SiteTable:            in.SiteTable,
		PriceTable:           in.PriceTable,
		RebateTable:          in.RebateTable,
		State:                models.AgreementStateDraft,
	}
	if err := s.Repo.InsertAgreement(ctx, agreement); err != nil {
		return nil, err
	}
	s.emit(ctx, events.TypeAgreementCreated, map[string]any{"agreement_id": agreement.ID})
	return agreement, nil
}

// Sign records one party's signature. The agreement activates on the second
// signature; signing twice as the same party is a no-op, not an error.
func (s *AgreementService) Sign(ctx context.Context, id uint64, party string) (*models.SupplyAgreement, error) {
	agreement, err := s.Repo.GetAgreementByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if agreement == nil {
		return nil, &NotFoundError{Kind: "agreement", ID: id}
	}

	switch strings.ToLower(strings.TrimSpace(party)) {
	case PartyCustomer:
		agreement.CustomerSigned = true
	case PartyDistributor:
		agreement.DistributorSigned = true
	default:
		return nil, &ValidationError{Reason: "signer must be customer or distributor"}
	}

	activated := false
	if agreement.CustomerSigned && agreement.DistributorSigned && agreement.State == models.AgreementStateDraft {
		agreement.State = models.AgreementStateActive
		activated = true
	}

	if err := s.Repo.UpdateAgreement(ctx, agreement); err != nil {
		return nil, err
	}
	s.emit(ctx, events.TypeAgreementSigned, map[string]any{
		"agreement_id": agreement.ID,
		"party":        strings.ToLower(strings.TrimSpace(party)),
	})
	if activated {
		s.emit(ctx, events.TypeAgreementActivated, map[string]any{"agreement_id": agreement.ID})
	}
	return agreement, nil
}

// AttachContractBinding stores the external rules-engine identifiers on the
// agreement. It is metadata only: the DRAFT/ACTIVE state is driven solely by
// the two signatures.
func (s *AgreementService) AttachContractBinding(ctx context.Context, id uint64, contractID, resourceID string) (*models.SupplyAgreement, error) {
	if strings.TrimSpace(contractID) == "" {
		return nil, &ValidationError{Reason: "contract id is required"}
	}
	agreement, err := s.Repo.GetAgreementByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if agreement == nil {
		return nil, &NotFoundError{Kind: "agreement", ID: id}
	}
	agreement.CiceroContractID = strings.TrimSpace(contractID)
	agreement.CiceroResourceID = strings.TrimSpace(resourceID)
	if err := s.Repo.UpdateAgreement(ctx, agreement); err != nil {
		return nil, err
	}
	return agreement, nil
}

func (s *AgreementService) Get(ctx context.Context, id uint64) (*models.SupplyAgreement, error) {
	agreement, err := s.Repo.GetAgreementByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if agreement == nil {
		return nil, &NotFoundError{Kind: "agreement", ID: id}
	}
	return agreement, nil
}

func (s *AgreementService) emit(ctx context.Context, eventType string, data map[string]any) {
	if s.Events != nil {
		s.Events.Emit(ctx, eventType, data)
	}
}
