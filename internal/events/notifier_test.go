package events

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNotifierEmit(t *testing.T) {
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content-type=%s", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("body: %v", err)
		}
	}))
	defer srv.Close()

	n := &Notifier{WebhookURL: srv.URL, HTTP: srv.Client()}
	n.Emit(context.Background(), TypeRequestCreated, map[string]any{"request_id": float64(7)})

	if got.Type != TypeRequestCreated {
		t.Fatalf("type=%s", got.Type)
	}
	if len(got.ID) != 36 {
		t.Fatalf("id=%q want uuid", got.ID)
	}
	if got.Data["request_id"] != float64(7) {
		t.Fatalf("data=%v", got.Data)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("occurred_at not set")
	}
}

func TestNotifierEmit_NoWebhook(t *testing.T) {
	n := &Notifier{}
	// No URL configured: emit is a no-op, not an error.
	n.Emit(context.Background(), TypeRequestCreated, nil)

	var nilNotifier *Notifier
	nilNotifier.Emit(context.Background(), TypeRequestCreated, nil)
}

func TestNotifierEmit_ServerErrorDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := &Notifier{WebhookURL: srv.URL, HTTP: srv.Client()}
	// Failures are logged and swallowed; the caller never sees them.
	n.Emit(context.Background(), TypeDeliveryCompleted, map[string]any{"request_id": float64(1)})
}
