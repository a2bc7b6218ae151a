package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"catena/internal/models"
)

// Repository is the single store surface for the lifecycle engine. Every
// record is read and written as an atomic single-row operation; lifecycle
// mutations that must land together with their revision snapshot go through
// InTx and the Tx-suffixed methods.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Agreements
	InsertAgreement(ctx context.Context, item *models.SupplyAgreement) error
	GetAgreementByID(ctx context.Context, id uint64) (*models.SupplyAgreement, error)
	UpdateAgreement(ctx context.Context, item *models.SupplyAgreement) error
	ListAgreements(ctx context.Context, params ListAgreementsParams) ([]models.SupplyAgreement, error)
	CountAgreements(ctx context.Context, params ListAgreementsParams) (int64, error)

	// Requests
	InsertRequestTx(ctx context.Context, tx *gorm.DB, item *models.SupplyRequest) error
	UpdateRequestTx(ctx context.Context, tx *gorm.DB, item *models.SupplyRequest) error
	GetRequestByID(ctx context.Context, id uint64) (*models.SupplyRequest, error)
	ListRequests(ctx context.Context, params ListRequestsParams) ([]models.SupplyRequest, error)
	CountRequests(ctx context.Context, params ListRequestsParams) (int64, error)
	ListUndeliveredBefore(ctx context.Context, before time.Time) ([]models.SupplyRequest, error)

	// Revisions
	InsertRevisionTx(ctx context.Context, tx *gorm.DB, item *models.RequestRevision) error
	ListRevisionsByRequestID(ctx context.Context, requestID uint64) ([]models.RequestRevision, error)
	DeleteRevisionsBefore(ctx context.Context, before time.Time) (int64, error)

	// Uplift orders
	InsertUpliftOrder(ctx context.Context, item *models.UpliftOrder) error
	GetUpliftOrderByID(ctx context.Context, id uint64) (*models.UpliftOrder, error)
	UpdateUpliftOrder(ctx context.Context, item *models.UpliftOrder) error
	ListUpliftOrders(ctx context.Context, params ListUpliftOrdersParams) ([]models.UpliftOrder, error)
	CountUpliftOrders(ctx context.Context, params ListUpliftOrdersParams) (int64, error)

	// Location history (append-only)
	InsertLocationPing(ctx context.Context, item *models.LocationPing) error
	ListLocationPingsByUpliftOrderID(ctx context.Context, upliftOrderID uint64) ([]models.LocationPing, error)
}

type ListAgreementsParams struct {
	Limit         int
	Offset        int
	State         *string
	CustomerID    *string
	DistributorID *string
	OrderBy       string
	Asc           *bool
}

type ListRequestsParams struct {
	Limit       int
	Offset      int
	AgreementID *uint64
	State       *string
	Since       *time.Time
	OrderBy     string
	Asc         *bool
}

type ListUpliftOrdersParams struct {
	Limit     int
	Offset    int
	RequestID *uint64
	OrderBy   string
	Asc       *bool
}
