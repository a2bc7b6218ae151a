package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"catena/internal/client/cicero"
	"catena/internal/events"
	"catena/internal/models"
	"catena/internal/repository"
)

// ErrRequestDatePrior is the validation message for a delivery date that falls
// inside the agreement's minimum lead window.
const ErrRequestDatePrior = "Delivery Date does not fall within the request date prior range"

// Document kinds accepted by AddDocument on a supply request.
const (
	DocSupplyRequestRecord = "supply_request_record"
	DocPurchaseOrder       = "purchase_order"
	DocDistributorInvoice  = "distributor_invoice"
)

// RequestLifecycleService drives a supply request from creation to its single
// terminal state. Validation and pricing are delegated to the rules engine;
// every mutation is persisted together with a revision snapshot in one
// transaction.
type RequestLifecycleService struct {
	Repo   repository.Repository
	Rules  RulesService
	Events events.Sink
	Logger *zap.Logger
}

type CreateRequestInput struct {
	AgreementID uint64

	RequestDate  time.Time
	DeliveryDate time.Time
	MABT         time.Time

	Volume               decimal.Decimal
	FuelType             string
	QualitySpecification string
	DeliveryLocation     string
	DeliveryMethod       string
}

type CompleteDeliveryInput struct {
	DeliveryLocation     string
	FuelType             string
	Volume               decimal.Decimal
	QualitySpecification string
}

// CreateRequest validates the ask against its agreement's lead-time window and
// persists it in PENDING. The rules engine is consulted before anything is
// written: a failed or invalid check leaves no trace in the store.
func (s *RequestLifecycleService) CreateRequest(ctx context.Context, in CreateRequestInput) (*models.SupplyRequest, error) {
	agreement, err := s.Repo.GetAgreementByID(ctx, in.AgreementID)
	if err != nil {
		return nil, err
	}
	if agreement == nil {
		return nil, &NotFoundError{Kind: "agreement", ID: in.AgreementID}
	}
	if in.RequestDate.IsZero() || in.DeliveryDate.IsZero() {
		return nil, &ValidationError{Reason: "request date and delivery date are required"}
	}
	if in.DeliveryDate.Before(in.RequestDate) {
		return nil, &ValidationError{Reason: "delivery date precedes request date"}
	}
	if strings.TrimSpace(in.FuelType) == "" {
		return nil, &ValidationError{Reason: "fuel type is required"}
	}
	if in.Volume.Sign() <= 0 {
		return nil, &ValidationError{Reason: "volume must be positive"}
	}

	result, err := s.Rules.CheckLateSupply(ctx, cicero.LateSupplyCheck{
		ResourceID:       agreement.CiceroResourceID,
		ContractID:       agreement.CiceroContractID,
		RequestDate:      in.RequestDate,
		DeliveryDate:     in.DeliveryDate,
		RequestDatePrior: agreement.RequestDatePrior,
		Counterparty:     agreement.DistributorID,
	})
	if err != nil {
		return nil, &ServiceError{Op: "check late supply", Err: err}
	}
	if !result.SupplyRequestValid {
		return nil, &ValidationError{Reason: ErrRequestDatePrior}
	}

	request := &models.SupplyRequest{
		AgreementID:          agreement.ID,
		RequestDate:          in.RequestDate,
		DeliveryDate:         in.DeliveryDate,
		MABT:                 in.MABT,
		Volume:               in.Volume,
		FuelType:             strings.TrimSpace(in.FuelType),
		QualitySpecification: in.QualitySpecification,
		DeliveryLocation:     in.DeliveryLocation,
		DeliveryMethod:       in.DeliveryMethod,
		State:                models.RequestStatePending,
	}

	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Repo.InsertRequestTx(ctx, tx, request); err != nil {
			return err
		}
		return s.writeRevision(ctx, tx, request)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.TypeRequestCreated, map[string]any{"request_id": request.ID})
	return request, nil
}

// CompleteDelivery classifies and prices the delivery by consulting the rules
// engine, then moves the request into exactly one terminal state. A request
// already in a terminal state is rejected, never overwritten.
func (s *RequestLifecycleService) CompleteDelivery(ctx context.Context, id uint64, in CompleteDeliveryInput) (*models.SupplyRequest, error) {
	request, err := s.Repo.GetRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, &NotFoundError{Kind: "request", ID: id}
	}
	if models.RequestStateTerminal(request.State) {
		return nil, &ValidationError{Reason: fmt.Sprintf("request %d is already %s", id, request.State)}
	}
	agreement, err := s.Repo.GetAgreementByID(ctx, request.AgreementID)
	if err != nil {
		return nil, err
	}
	if agreement == nil {
		return nil, &NotFoundError{Kind: "agreement", ID: request.AgreementID}
	}

	now := time.Now().UTC()
	result, err := s.Rules.CheckDelivery(ctx, cicero.DeliveryCheck{
		ResourceID:           agreement.CiceroResourceID,
		ContractID:           agreement.CiceroContractID,
		MABT:                 request.MABT,
		ActualDeliveryTime:   now,
		FuelType:             in.FuelType,
		Volume:               in.Volume,
		QualitySpecification: in.QualitySpecification,
		DeliveryLocation:     in.DeliveryLocation,
	})
	if err != nil {
		return nil, &ServiceError{Op: "check delivery", Err: err}
	}

	applyDeliveryOutcome(request, result, now)

	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Repo.UpdateRequestTx(ctx, tx, request); err != nil {
			return err
		}
		return s.writeRevision(ctx, tx, request)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.TypeDeliveryCompleted, map[string]any{
		"request_id": request.ID,
		"state":      request.State,
	})
	return request, nil
}

// applyDeliveryOutcome maps the engine's flags onto a terminal state. The
// flags are checked in a fixed priority order and the first true one wins;
// a response could in principle set several.
func applyDeliveryOutcome(request *models.SupplyRequest, result cicero.DeliveryResult, now time.Time) {
	switch {
	case result.LateDelivery:
		request.State = models.RequestStateLate
		request.Cost = result.Price.Decimal
		request.PenaltyPercentage = result.PenaltyPercentage.Decimal
		request.PricePerLitre = result.PricePerLitre.Decimal
		request.DeliveryTime = &now
	case result.SupplyFailure:
		request.State = models.RequestStateFailed
		request.ReasonFailed = "Supply Failure"
	case result.SpecificationFailure:
		request.State = models.RequestStateFailed
		request.ReasonFailed = "Specification Failure"
		request.PricePerLitre = result.PricePerLitre.Decimal
		request.DeliveryTime = &now
	default:
		request.State = models.RequestStateCompleted
		request.Cost = result.Price.Decimal
		request.PricePerLitre = result.PricePerLitre.Decimal
		request.DeliveryTime = &now
	}
}

// ConfirmSupply marks a pending request as confirmed by the distributor.
func (s *RequestLifecycleService) ConfirmSupply(ctx context.Context, id uint64) (*models.SupplyRequest, error) {
	request, err := s.Repo.GetRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, &NotFoundError{Kind: "request", ID: id}
	}
	if models.RequestStateTerminal(request.State) {
		return nil, &ValidationError{Reason: fmt.Sprintf("request %d is already %s", id, request.State)}
	}
	request.SupplyConfirmed = true
	request.State = models.RequestStateConfirmed

	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Repo.UpdateRequestTx(ctx, tx, request); err != nil {
			return err
		}
		return s.writeRevision(ctx, tx, request)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.TypeSupplyConfirmed, map[string]any{"request_id": request.ID})
	return request, nil
}

// AddDocument attaches a content hash and URL for one of the request's
// document slots.
func (s *RequestLifecycleService) AddDocument(ctx context.Context, id uint64, kind, hash, url string) (*models.SupplyRequest, error) {
	request, err := s.Repo.GetRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, &NotFoundError{Kind: "request", ID: id}
	}

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case DocSupplyRequestRecord:
		request.SupplyRequestRecordHash = hash
		request.SupplyRequestRecordURL = url
	case DocPurchaseOrder:
		request.PurchaseOrderHash = hash
		request.PurchaseOrderURL = url
	case DocDistributorInvoice:
		request.DistributorInvoiceHash = hash
		request.DistributorInvoiceURL = url
	default:
		return nil, &ValidationError{Reason: "unknown document kind: " + kind}
	}

	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Repo.UpdateRequestTx(ctx, tx, request); err != nil {
			return err
		}
		return s.writeRevision(ctx, tx, request)
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestLifecycleService) Get(ctx context.Context, id uint64) (*models.SupplyRequest, error) {
	request, err := s.Repo.GetRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, &NotFoundError{Kind: "request", ID: id}
	}
	return request, nil
}

// History replays every persisted revision of one request, oldest first.
func (s *RequestLifecycleService) History(ctx context.Context, id uint64) ([]models.RequestRevision, error) {
	request, err := s.Repo.GetRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, &NotFoundError{Kind: "request", ID: id}
	}
	return s.Repo.ListRevisionsByRequestID(ctx, id)
}

func (s *RequestLifecycleService) writeRevision(ctx context.Context, tx *gorm.DB, request *models.SupplyRequest) error {
	snapshot, err := json.Marshal(request)
	if err != nil {
		return err
	}
	return s.Repo.InsertRevisionTx(ctx, tx, &models.RequestRevision{
		RequestID: request.ID,
		TxID:      uuid.NewString(),
		Snapshot:  snapshot,
	})
}

func (s *RequestLifecycleService) emit(ctx context.Context, eventType string, data map[string]any) {
	if s.Events != nil {
		s.Events.Emit(ctx, eventType, data)
	}
}
