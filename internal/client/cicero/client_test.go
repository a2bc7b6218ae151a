package cicero

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCheckLateSupply(t *testing.T) {
	var gotPath string
	var gotPayload executePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotPayload); err != nil {
			t.Errorf("payload: %v", err)
		}
		_, _ = w.Write([]byte(`{"body":{"response":{"$class":"org.catena.checkLateSupplyResponse","supplyRequestValid":true}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	result, err := c.CheckLateSupply(context.Background(), LateSupplyCheck{
		ResourceID:       "resource-1",
		ContractID:       "contract-1",
		RequestDate:      time.Date(2018, 11, 5, 0, 0, 0, 0, time.UTC),
		DeliveryDate:     time.Date(2018, 11, 22, 0, 0, 0, 0, time.UTC),
		RequestDatePrior: 2,
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !result.SupplyRequestValid {
		t.Fatalf("valid=false want=true")
	}
	if gotPath != "/execute" {
		t.Fatalf("path=%s", gotPath)
	}
	if gotPayload.ContractID != "contract-1" || gotPayload.ResourceID != "resource-1" {
		t.Fatalf("payload=%+v", gotPayload)
	}
	var reqBody lateSupplyRequestBody
	if err := json.Unmarshal(gotPayload.Request, &reqBody); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if reqBody.Class != "org.catena.checkLateSupply" || reqBody.RequestDatePrior != 2 {
		t.Fatalf("request body=%+v", reqBody)
	}
}

func TestCheckDelivery_DecodesFlagsAndPricing(t *testing.T) {
	// Pricing comes back as JSON numbers from some engine builds and strings
	// from others; both must decode.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"body":{"response":{
			"lateDelivery":true,
			"supplyFailure":false,
			"specificationFailure":false,
			"price":"4275.00",
			"pricePerLitre":1.5,
			"penaltyPercentage":"5"
		}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	result, err := c.CheckDelivery(context.Background(), DeliveryCheck{
		MABT:               time.Date(2018, 11, 22, 10, 0, 0, 0, time.UTC),
		ActualDeliveryTime: time.Date(2018, 11, 22, 14, 0, 0, 0, time.UTC),
		Volume:             decimal.NewFromInt(3000),
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !result.LateDelivery || result.SupplyFailure {
		t.Fatalf("flags=%+v", result)
	}
	if !result.Price.Equal(decimal.RequireFromString("4275.00")) {
		t.Fatalf("price=%s", result.Price)
	}
	if !result.PricePerLitre.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("pricePerLitre=%s", result.PricePerLitre)
	}
}

func TestExecute_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("engine exploded"))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	_, err := c.CheckLateSupply(context.Background(), LateSupplyCheck{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err=%v want APIError", err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Body != "engine exploded" {
		t.Fatalf("apiErr=%+v", apiErr)
	}
}

func TestExecute_MissingResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"body":{}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	_, err := c.CheckLateSupply(context.Background(), LateSupplyCheck{})
	if err == nil || !strings.Contains(err.Error(), "missing body.response") {
		t.Fatalf("err=%v", err)
	}
}

func TestNewClient_HostDefaultAndTrim(t *testing.T) {
	c := NewClient(http.DefaultClient, "")
	if c.host != "http://localhost:6001" {
		t.Fatalf("host=%s", c.host)
	}
	c = NewClient(http.DefaultClient, "http://rules:6001/")
	if c.host != "http://rules:6001" {
		t.Fatalf("host=%s", c.host)
	}
}

func TestDecimalUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{`"1.50"`, "1.5", true},
		{`2.25`, "2.25", true},
		{`null`, "0", true},
		{`"abc"`, "", false},
	}
	for _, tc := range cases {
		var d Decimal
		err := json.Unmarshal([]byte(tc.in), &d)
		if tc.ok != (err == nil) {
			t.Fatalf("in=%s err=%v", tc.in, err)
		}
		if tc.ok && !d.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("in=%s got=%s want=%s", tc.in, d, tc.want)
		}
	}
}
