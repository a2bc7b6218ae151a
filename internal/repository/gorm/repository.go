package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"catena/internal/models"
	"catena/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- agreements -------------------------------------------------------------

func (s *Store) InsertAgreement(ctx context.Context, item *models.SupplyAgreement) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetAgreementByID(ctx context.Context, id uint64) (*models.SupplyAgreement, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.SupplyAgreement
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpdateAgreement(ctx context.Context, item *models.SupplyAgreement) error {
	if s == nil || s.db == nil || item == nil || item.ID == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) ListAgreements(ctx context.Context, params repository.ListAgreementsParams) ([]models.SupplyAgreement, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyAgreementFilters(s.db.WithContext(ctx).Model(&models.SupplyAgreement{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	var items []models.SupplyAgreement
	if err := query.Limit(normalizeLimit(params.Limit, 200)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountAgreements(ctx context.Context, params repository.ListAgreementsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	err := applyAgreementFilters(s.db.WithContext(ctx).Model(&models.SupplyAgreement{}), params).Count(&total).Error
	return total, err
}

func applyAgreementFilters(query *gorm.DB, params repository.ListAgreementsParams) *gorm.DB {
	if params.State != nil && strings.TrimSpace(*params.State) != "" {
		query = query.Where("state = ?", strings.TrimSpace(*params.State))
	}
	if params.CustomerID != nil && strings.TrimSpace(*params.CustomerID) != "" {
		query = query.Where("customer_id = ?", strings.TrimSpace(*params.CustomerID))
	}
	if params.DistributorID != nil && strings.TrimSpace(*params.DistributorID) != "" {
		query = query.Where("distributor_id = ?", strings.TrimSpace(*params.DistributorID))
	}
	return query
}

// --- requests ---------------------------------------------------------------

func (s *Store) InsertRequestTx(ctx context.Context, tx *gorm.DB, item *models.SupplyRequest) error {
	if item == nil {
		return nil
	}
	db := s.txOrDB(ctx, tx)
	if db == nil {
		return nil
	}
	return db.Create(item).Error
}

func (s *Store) UpdateRequestTx(ctx context.Context, tx *gorm.DB, item *models.SupplyRequest) error {
	if item == nil || item.ID == 0 {
		return nil
	}
	db := s.txOrDB(ctx, tx)
	if db == nil {
		return nil
	}
	return db.Save(item).Error
}

func (s *Store) GetRequestByID(ctx context.Context, id uint64) (*models.SupplyRequest, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.SupplyRequest
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListRequests(ctx context.Context, params repository.ListRequestsParams) ([]models.SupplyRequest, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyRequestFilters(s.db.WithContext(ctx).Model(&models.SupplyRequest{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	var items []models.SupplyRequest
	if err := query.Limit(normalizeLimit(params.Limit, 200)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountRequests(ctx context.Context, params repository.ListRequestsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	err := applyRequestFilters(s.db.WithContext(ctx).Model(&models.SupplyRequest{}), params).Count(&total).Error
	return total, err
}

func (s *Store) ListUndeliveredBefore(ctx context.Context, before time.Time) ([]models.SupplyRequest, error) {
	if s == nil || s.db == nil || before.IsZero() {
		return nil, nil
	}
	var items []models.SupplyRequest
	err := s.db.WithContext(ctx).
		Where("state IN ?", []string{models.RequestStatePending, models.RequestStateConfirmed}).
		Where("delivery_date < ?", before).
		Order("delivery_date asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func applyRequestFilters(query *gorm.DB, params repository.ListRequestsParams) *gorm.DB {
	if params.AgreementID != nil && *params.AgreementID > 0 {
		query = query.Where("agreement_id = ?", *params.AgreementID)
	}
	if params.State != nil && strings.TrimSpace(*params.State) != "" {
		query = query.Where("state = ?", strings.TrimSpace(*params.State))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	return query
}

// --- revisions --------------------------------------------------------------

func (s *Store) InsertRevisionTx(ctx context.Context, tx *gorm.DB, item *models.RequestRevision) error {
	if item == nil {
		return nil
	}
	db := s.txOrDB(ctx, tx)
	if db == nil {
		return nil
	}
	return db.Create(item).Error
}

func (s *Store) ListRevisionsByRequestID(ctx context.Context, requestID uint64) ([]models.RequestRevision, error) {
	if s == nil || s.db == nil || requestID == 0 {
		return nil, nil
	}
	var items []models.RequestRevision
	err := s.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteRevisionsBefore(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.db == nil || before.IsZero() {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("recorded_at < ?", before).
		Delete(&models.RequestRevision{})
	return res.RowsAffected, res.Error
}

// --- uplift orders ----------------------------------------------------------

func (s *Store) InsertUpliftOrder(ctx context.Context, item *models.UpliftOrder) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetUpliftOrderByID(ctx context.Context, id uint64) (*models.UpliftOrder, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.UpliftOrder
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpdateUpliftOrder(ctx context.Context, item *models.UpliftOrder) error {
	if s == nil || s.db == nil || item == nil || item.ID == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) ListUpliftOrders(ctx context.Context, params repository.ListUpliftOrdersParams) ([]models.UpliftOrder, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyUpliftFilters(s.db.WithContext(ctx).Model(&models.UpliftOrder{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	var items []models.UpliftOrder
	if err := query.Limit(normalizeLimit(params.Limit, 200)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountUpliftOrders(ctx context.Context, params repository.ListUpliftOrdersParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	err := applyUpliftFilters(s.db.WithContext(ctx).Model(&models.UpliftOrder{}), params).Count(&total).Error
	return total, err
}

func applyUpliftFilters(query *gorm.DB, params repository.ListUpliftOrdersParams) *gorm.DB {
	if params.RequestID != nil && *params.RequestID > 0 {
		query = query.Where("request_id = ?", *params.RequestID)
	}
	return query
}

// --- location history -------------------------------------------------------

func (s *Store) InsertLocationPing(ctx context.Context, item *models.LocationPing) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListLocationPingsByUpliftOrderID(ctx context.Context, upliftOrderID uint64) ([]models.LocationPing, error) {
	if s == nil || s.db == nil || upliftOrderID == 0 {
		return nil, nil
	}
	var items []models.LocationPing
	err := s.db.WithContext(ctx).
		Where("uplift_order_id = ?", upliftOrderID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers ----------------------------------------------------------------

func (s *Store) txOrDB(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx)
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	col := strings.TrimSpace(orderBy)
	if col == "" {
		col = fallback
	}
	dir := "desc"
	if asc != nil && *asc {
		dir = "asc"
	}
	return query.Order(col + " " + dir)
}

func normalizeLimit(limit, max int) int {
	if limit <= 0 {
		return 50
	}
	if limit > max {
		return max
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
