package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event types emitted by the lifecycle engine.
const (
	TypeAgreementCreated   = "AgreementCreated"
	TypeAgreementSigned    = "AgreementSigned"
	TypeAgreementActivated = "AgreementActivated"
	TypeRequestCreated     = "RequestCreated"
	TypeSupplyConfirmed    = "SupplyConfirmed"
	TypeDeliveryCompleted  = "DeliveryCompleted"
	TypeRequestOverdue     = "RequestOverdue"
	TypeUpliftOrderCreated = "UpliftOrderCreated"
)

type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data"`
}

// Sink receives lifecycle notifications. Delivery is fire-and-forget: a sink
// never blocks a transaction outcome and never reports an error to the caller.
type Sink interface {
	Emit(ctx context.Context, eventType string, data map[string]any)
}

// Notifier posts each event as JSON to a configured webhook. Send failures are
// logged and dropped; there is no acknowledgement or retry contract.
type Notifier struct {
	WebhookURL string
	HTTP       *http.Client
	Logger     *zap.Logger
}

func (n *Notifier) Emit(ctx context.Context, eventType string, data map[string]any) {
	if n == nil {
		return
	}
	url := strings.TrimSpace(n.WebhookURL)
	if url == "" {
		return
	}
	evt := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	if err := n.post(ctx, url, evt); err != nil {
		if n.Logger != nil {
			n.Logger.Warn("event emit failed",
				zap.String("type", eventType),
				zap.Error(err),
			)
		}
	}
}

func (n *Notifier) post(ctx context.Context, url string, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("webhook http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}

func (n *Notifier) httpClient() *http.Client {
	if n.HTTP != nil {
		return n.HTTP
	}
	return http.DefaultClient
}
