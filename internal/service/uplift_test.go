package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"catena/internal/models"
)

func seedUplift(t *testing.T, repo *stubRepo, svc *UpliftService) *models.UpliftOrder {
	t.Helper()
	agreementID := seedAgreement(t, repo)
	requestID := seedRequest(t, repo, agreementID, models.RequestStateConfirmed)
	order, err := svc.Create(context.Background(), CreateUpliftOrderInput{
		RequestID:        requestID,
		PickupTime:       time.Date(2018, 11, 20, 8, 0, 0, 0, time.UTC),
		MABD:             time.Date(2018, 11, 21, 18, 0, 0, 0, time.UTC),
		Volume:           decimal.NewFromInt(3000),
		Origin:           "refinery-a",
		Destination:      "YYZ",
		FuelType:         "Jet A-1",
		TransportCompany: "haul-co",
		ManufacturerID:   "mfr-1",
		TransporterID:    "trk-1",
	})
	if err != nil {
		t.Fatalf("create uplift: %v", err)
	}
	return order
}

func TestUpliftCreate(t *testing.T) {
	repo := newStubRepo()
	sink := &stubSink{}
	svc := &UpliftService{Repo: repo, Events: sink}

	order := seedUplift(t, repo, svc)
	if order.ID == 0 {
		t.Fatalf("id not assigned")
	}
	if order.CollectionDateConfirmed {
		t.Fatalf("collection confirmed on create")
	}
	if !sink.has("UpliftOrderCreated") {
		t.Fatalf("events=%v", sink.types)
	}
}

func TestUpliftCreate_UnknownRequest(t *testing.T) {
	svc := &UpliftService{Repo: newStubRepo()}
	_, err := svc.Create(context.Background(), CreateUpliftOrderInput{RequestID: 7, Volume: decimal.NewFromInt(1)})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err=%v want NotFoundError", err)
	}
}

func TestUpliftCreate_NonPositiveVolume(t *testing.T) {
	repo := newStubRepo()
	svc := &UpliftService{Repo: repo}
	agreementID := seedAgreement(t, repo)
	requestID := seedRequest(t, repo, agreementID, models.RequestStatePending)

	_, err := svc.Create(context.Background(), CreateUpliftOrderInput{RequestID: requestID})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err=%v want ValidationError", err)
	}
}

func TestUpliftConfirmCollectionDate(t *testing.T) {
	repo := newStubRepo()
	svc := &UpliftService{Repo: repo}
	order := seedUplift(t, repo, svc)

	order, err := svc.ConfirmCollectionDate(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !order.CollectionDateConfirmed {
		t.Fatalf("collection not confirmed")
	}
}

func TestUpliftAddDocument(t *testing.T) {
	repo := newStubRepo()
	svc := &UpliftService{Repo: repo}
	order := seedUplift(t, repo, svc)

	order, err := svc.AddDocument(context.Background(), order.ID, DocCollectionReceipt, "deadbeef", "https://docs.example/receipt.pdf")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if order.CollectionReceiptHash != "deadbeef" {
		t.Fatalf("document not stored: %+v", order)
	}

	_, err = svc.AddDocument(context.Background(), order.ID, "bill_of_lading", "x", "y")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err=%v want ValidationError", err)
	}
}

func TestUpliftLocationTrail(t *testing.T) {
	repo := newStubRepo()
	svc := &UpliftService{Repo: repo}
	order := seedUplift(t, repo, svc)

	points := [][2]float64{
		{-79.63, 43.68},
		{-79.50, 43.70},
		{-79.40, 43.72},
	}
	for _, p := range points {
		if _, err := svc.AddLocationPing(context.Background(), order.ID, p[0], p[1]); err != nil {
			t.Fatalf("ping: %v", err)
		}
	}

	trail, err := svc.LocationHistory(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(trail) != len(points) {
		t.Fatalf("pings=%d want=%d", len(trail), len(points))
	}
	if trail[0].Longitude != -79.63 || trail[0].Latitude != 43.68 {
		t.Fatalf("first ping=%+v", trail[0])
	}

	_, err = svc.AddLocationPing(context.Background(), 999, 0, 0)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err=%v want NotFoundError", err)
	}
}
