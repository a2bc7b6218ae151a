package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"catena/internal/events"
	"catena/internal/models"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in     string
		hh, mm int
		ok     bool
	}{
		{"17:00", 17, 0, true},
		{"09:30", 9, 30, true},
		{" 23:59 ", 23, 59, true},
		{"24:00", 0, 0, false},
		{"12:60", 0, 0, false},
		{"noon", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tc := range cases {
		hh, mm, ok := parseClock(tc.in)
		if ok != tc.ok || hh != tc.hh || mm != tc.mm {
			t.Fatalf("parseClock(%q)=(%d,%d,%v) want (%d,%d,%v)", tc.in, hh, mm, ok, tc.hh, tc.mm, tc.ok)
		}
	}
}

func TestFailCutoff(t *testing.T) {
	request := models.SupplyRequest{
		DeliveryDate: time.Date(2018, 11, 22, 0, 0, 0, 0, time.UTC),
	}

	cutoff := failCutoff(request, &models.SupplyAgreement{SupplyFailTime: "17:00"})
	want := time.Date(2018, 11, 22, 17, 0, 0, 0, time.UTC)
	if !cutoff.Equal(want) {
		t.Fatalf("cutoff=%v want=%v", cutoff, want)
	}

	// No usable clock: end of the delivery day.
	cutoff = failCutoff(request, &models.SupplyAgreement{SupplyFailTime: "whenever"})
	want = time.Date(2018, 11, 22, 23, 59, 59, 0, time.UTC)
	if !cutoff.Equal(want) {
		t.Fatalf("cutoff=%v want=%v", cutoff, want)
	}

	cutoff = failCutoff(request, nil)
	if !cutoff.Equal(want) {
		t.Fatalf("cutoff=%v want=%v", cutoff, want)
	}
}

func TestOverdueScan_EmitsForClosedWindowsOnly(t *testing.T) {
	repo := newStubRepo()
	sink := &stubSink{}
	svc := &OverdueScanService{Repo: repo, Events: sink}
	agreementID := seedAgreement(t, repo)

	overdue := &models.SupplyRequest{
		AgreementID:  agreementID,
		RequestDate:  time.Now().UTC().AddDate(0, 0, -10),
		DeliveryDate: time.Now().UTC().AddDate(0, 0, -3),
		Volume:       decimal.NewFromInt(100),
		FuelType:     "Jet A-1",
		State:        models.RequestStatePending,
	}
	upcoming := &models.SupplyRequest{
		AgreementID:  agreementID,
		RequestDate:  time.Now().UTC(),
		DeliveryDate: time.Now().UTC().AddDate(0, 0, 5),
		Volume:       decimal.NewFromInt(100),
		FuelType:     "Jet A-1",
		State:        models.RequestStatePending,
	}
	settled := &models.SupplyRequest{
		AgreementID:  agreementID,
		RequestDate:  time.Now().UTC().AddDate(0, 0, -10),
		DeliveryDate: time.Now().UTC().AddDate(0, 0, -3),
		Volume:       decimal.NewFromInt(100),
		FuelType:     "Jet A-1",
		State:        models.RequestStateCompleted,
	}
	for _, r := range []*models.SupplyRequest{overdue, upcoming, settled} {
		if err := repo.InsertRequestTx(context.Background(), nil, r); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("err=%v", err)
	}
	if !sink.has(events.TypeRequestOverdue) {
		t.Fatalf("events=%v", sink.types)
	}
	if len(sink.types) != 1 {
		t.Fatalf("events=%v want exactly one", sink.types)
	}

	// The sweep observes; it never rewrites the request itself.
	stored, _ := repo.GetRequestByID(context.Background(), overdue.ID)
	if stored.State != models.RequestStatePending {
		t.Fatalf("state=%s want=PENDING", stored.State)
	}
}

func TestOverdueScan_NilService(t *testing.T) {
	var svc *OverdueScanService
	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("err=%v", err)
	}
}
