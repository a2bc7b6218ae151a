package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"catena/internal/events"
	"catena/internal/models"
	"catena/internal/repository"
)

// OverdueScanService periodically reports PENDING/CONFIRMED requests whose
// delivery window has closed. It only observes: the terminal classification of
// a request is owned by CompleteDelivery and the rules engine, never by this
// sweep.
type OverdueScanService struct {
	Repo   repository.Repository
	Events events.Sink
	Logger *zap.Logger
}

func (s *OverdueScanService) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	now := time.Now().UTC()
	requests, err := s.Repo.ListUndeliveredBefore(ctx, now)
	if err != nil {
		return err
	}
	for _, request := range requests {
		agreement, err := s.Repo.GetAgreementByID(ctx, request.AgreementID)
		if err != nil {
			return err
		}
		cutoff := failCutoff(request, agreement)
		if !now.After(cutoff) {
			continue
		}
		if s.Logger != nil {
			s.Logger.Warn("supply request overdue",
				zap.Uint64("request_id", request.ID),
				zap.String("state", request.State),
				zap.Time("cutoff", cutoff),
			)
		}
		if s.Events != nil {
			s.Events.Emit(ctx, events.TypeRequestOverdue, map[string]any{
				"request_id": request.ID,
				"cutoff":     cutoff,
			})
		}
	}
	return nil
}

// failCutoff places the agreement's supplyFailTime ("HH:MM") on the request's
// delivery date. Without a usable agreement time the cutoff is the end of the
// delivery day.
func failCutoff(request models.SupplyRequest, agreement *models.SupplyAgreement) time.Time {
	day := request.DeliveryDate.UTC()
	if agreement != nil {
		if hh, mm, ok := parseClock(agreement.SupplyFailTime); ok {
			return time.Date(day.Year(), day.Month(), day.Day(), hh, mm, 0, 0, time.UTC)
		}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC)
}

func parseClock(value string) (int, int, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return 0, 0, false
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, 0, false
	}
	return hh, mm, true
}
