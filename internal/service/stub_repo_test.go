package service

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"catena/internal/models"
	"catena/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
type stubRepo struct {
	mu sync.Mutex

	agreements map[uint64]models.SupplyAgreement
	requests   map[uint64]models.SupplyRequest
	uplifts    map[uint64]models.UpliftOrder
	revisions  []models.RequestRevision
	pings      []models.LocationPing

	nextAgreementID uint64
	nextRequestID   uint64
	nextUpliftID    uint64
	nextRevisionID  uint64
	nextPingID      uint64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		agreements: map[uint64]models.SupplyAgreement{},
		requests:   map[uint64]models.SupplyRequest{},
		uplifts:    map[uint64]models.UpliftOrder{},
	}
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (s *stubRepo) InsertAgreement(ctx context.Context, item *models.SupplyAgreement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAgreementID++
	item.ID = s.nextAgreementID
	s.agreements[item.ID] = *item
	return nil
}

func (s *stubRepo) GetAgreementByID(ctx context.Context, id uint64) (*models.SupplyAgreement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.agreements[id]
	if !ok {
		return nil, nil
	}
	out := item
	return &out, nil
}

func (s *stubRepo) UpdateAgreement(ctx context.Context, item *models.SupplyAgreement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agreements[item.ID] = *item
	return nil
}

func (s *stubRepo) ListAgreements(ctx context.Context, params repository.ListAgreementsParams) ([]models.SupplyAgreement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SupplyAgreement
	for _, item := range s.agreements {
		out = append(out, item)
	}
	return out, nil
}

func (s *stubRepo) CountAgreements(ctx context.Context, params repository.ListAgreementsParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.agreements)), nil
}

func (s *stubRepo) InsertRequestTx(ctx context.Context, tx *gorm.DB, item *models.SupplyRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRequestID++
	item.ID = s.nextRequestID
	s.requests[item.ID] = *item
	return nil
}

func (s *stubRepo) UpdateRequestTx(ctx context.Context, tx *gorm.DB, item *models.SupplyRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[item.ID] = *item
	return nil
}

func (s *stubRepo) GetRequestByID(ctx context.Context, id uint64) (*models.SupplyRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.requests[id]
	if !ok {
		return nil, nil
	}
	out := item
	return &out, nil
}

func (s *stubRepo) ListRequests(ctx context.Context, params repository.ListRequestsParams) ([]models.SupplyRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SupplyRequest
	for _, item := range s.requests {
		out = append(out, item)
	}
	return out, nil
}

func (s *stubRepo) CountRequests(ctx context.Context, params repository.ListRequestsParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.requests)), nil
}

func (s *stubRepo) ListUndeliveredBefore(ctx context.Context, before time.Time) ([]models.SupplyRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SupplyRequest
	for _, item := range s.requests {
		if models.RequestStateTerminal(item.State) {
			continue
		}
		if item.DeliveryDate.Before(before) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubRepo) InsertRevisionTx(ctx context.Context, tx *gorm.DB, item *models.RequestRevision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRevisionID++
	item.ID = s.nextRevisionID
	item.RecordedAt = time.Now().UTC()
	s.revisions = append(s.revisions, *item)
	return nil
}

func (s *stubRepo) ListRevisionsByRequestID(ctx context.Context, requestID uint64) ([]models.RequestRevision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.RequestRevision
	for _, item := range s.revisions {
		if item.RequestID == requestID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubRepo) DeleteRevisionsBefore(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []models.RequestRevision
	var removed int64
	for _, item := range s.revisions {
		if item.RecordedAt.Before(before) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	s.revisions = kept
	return removed, nil
}

func (s *stubRepo) InsertUpliftOrder(ctx context.Context, item *models.UpliftOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUpliftID++
	item.ID = s.nextUpliftID
	s.uplifts[item.ID] = *item
	return nil
}

func (s *stubRepo) GetUpliftOrderByID(ctx context.Context, id uint64) (*models.UpliftOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.uplifts[id]
	if !ok {
		return nil, nil
	}
	out := item
	return &out, nil
}

func (s *stubRepo) UpdateUpliftOrder(ctx context.Context, item *models.UpliftOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uplifts[item.ID] = *item
	return nil
}

func (s *stubRepo) ListUpliftOrders(ctx context.Context, params repository.ListUpliftOrdersParams) ([]models.UpliftOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.UpliftOrder
	for _, item := range s.uplifts {
		out = append(out, item)
	}
	return out, nil
}

func (s *stubRepo) CountUpliftOrders(ctx context.Context, params repository.ListUpliftOrdersParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.uplifts)), nil
}

func (s *stubRepo) InsertLocationPing(ctx context.Context, item *models.LocationPing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPingID++
	item.ID = s.nextPingID
	item.RecordedAt = time.Now().UTC()
	s.pings = append(s.pings, *item)
	return nil
}

func (s *stubRepo) ListLocationPingsByUpliftOrderID(ctx context.Context, upliftOrderID uint64) ([]models.LocationPing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.LocationPing
	for _, item := range s.pings {
		if item.UpliftOrderID == upliftOrderID {
			out = append(out, item)
		}
	}
	return out, nil
}
