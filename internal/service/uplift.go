package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"catena/internal/events"
	"catena/internal/models"
	"catena/internal/repository"
)

// Document kinds accepted by AddDocument on an uplift order.
const (
	DocCollectionOrder       = "collection_order"
	DocCollectionReceipt     = "collection_receipt"
	DocManufacturerInvoice   = "manufacturer_invoice"
	DocTransportationInvoice = "transportation_invoice"
)

// UpliftService manages the transport leg of a supply request: collection from
// the manufacturer, the location trail, and the paperwork around both.
type UpliftService struct {
	Repo   repository.Repository
	Events events.Sink
	Logger *zap.Logger
}

type CreateUpliftOrderInput struct {
	RequestID uint64

	PickupTime time.Time
	MABD       time.Time

	Volume               decimal.Decimal
	Origin               string
	Destination          string
	FuelType             string
	QualitySpecification string

	TransportCompany string
	ManufacturerID   string
	TransporterID    string
}

func (s *UpliftService) Create(ctx context.Context, in CreateUpliftOrderInput) (*models.UpliftOrder, error) {
	request, err := s.Repo.GetRequestByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, &NotFoundError{Kind: "request", ID: in.RequestID}
	}
	if in.Volume.Sign() <= 0 {
		return nil, &ValidationError{Reason: "volume must be positive"}
	}

	order := &models.UpliftOrder{
		RequestID:            request.ID,
		PickupTime:           in.PickupTime,
		MABD:                 in.MABD,
		Volume:               in.Volume,
		Origin:               in.Origin,
		Destination:          in.Destination,
		FuelType:             in.FuelType,
		QualitySpecification: in.QualitySpecification,
		TransportCompany:     in.TransportCompany,
		ManufacturerID:       in.ManufacturerID,
		TransporterID:        in.TransporterID,
	}
	if err := s.Repo.InsertUpliftOrder(ctx, order); err != nil {
		return nil, err
	}
	if s.Events != nil {
		s.Events.Emit(ctx, events.TypeUpliftOrderCreated, map[string]any{
			"uplift_order_id": order.ID,
			"request_id":      order.RequestID,
		})
	}
	return order, nil
}

func (s *UpliftService) ConfirmCollectionDate(ctx context.Context, id uint64) (*models.UpliftOrder, error) {
	order, err := s.Repo.GetUpliftOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &NotFoundError{Kind: "uplift order", ID: id}
	}
	order.CollectionDateConfirmed = true
	if err := s.Repo.UpdateUpliftOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *UpliftService) AddDocument(ctx context.Context, id uint64, kind, hash, url string) (*models.UpliftOrder, error) {
	order, err := s.Repo.GetUpliftOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &NotFoundError{Kind: "uplift order", ID: id}
	}

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case DocCollectionOrder:
		order.CollectionOrderHash = hash
		order.CollectionOrderURL = url
	case DocCollectionReceipt:
		order.CollectionReceiptHash = hash
		order.CollectionReceiptURL = url
	case DocManufacturerInvoice:
		order.ManufacturerInvoiceHash = hash
		order.ManufacturerInvoiceURL = url
	case DocTransportationInvoice:
		order.TransportationInvoiceHash = hash
		order.TransportationInvoiceURL = url
	default:
		return nil, &ValidationError{Reason: "unknown document kind: " + kind}
	}

	if err := s.Repo.UpdateUpliftOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// AddLocationPing appends one position to the order's location trail. The
// trail is append-only and stays writable for the life of the order.
func (s *UpliftService) AddLocationPing(ctx context.Context, id uint64, longitude, latitude float64) (*models.LocationPing, error) {
	order, err := s.Repo.GetUpliftOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &NotFoundError{Kind: "uplift order", ID: id}
	}
	ping := &models.LocationPing{
		UpliftOrderID: order.ID,
		Longitude:     longitude,
		Latitude:      latitude,
	}
	if err := s.Repo.InsertLocationPing(ctx, ping); err != nil {
		return nil, err
	}
	return ping, nil
}

func (s *UpliftService) Get(ctx context.Context, id uint64) (*models.UpliftOrder, error) {
	order, err := s.Repo.GetUpliftOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &NotFoundError{Kind: "uplift order", ID: id}
	}
	return order, nil
}

func (s *UpliftService) LocationHistory(ctx context.Context, id uint64) ([]models.LocationPing, error) {
	order, err := s.Repo.GetUpliftOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &NotFoundError{Kind: "uplift order", ID: id}
	}
	return s.Repo.ListLocationPingsByUpliftOrderID(ctx, id)
}
