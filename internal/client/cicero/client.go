package cicero

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the cicero rules engine. Every call is a single attempt: the
// engine's pricing operations are not idempotent, so retries are left to the
// caller.
type Client struct {
	host       string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cicero error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host string) *Client {
	if host == "" {
		host = "http://localhost:6001"
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		httpClient: httpClient,
	}
}

func (c *Client) CheckLateSupply(ctx context.Context, check LateSupplyCheck) (LateSupplyResult, error) {
	reqBody, err := json.Marshal(lateSupplyRequestBody{
		Class:            classLateSupply,
		RequestDate:      check.RequestDate,
		DeliveryDate:     check.DeliveryDate,
		RequestDatePrior: check.RequestDatePrior,
		Counterparty:     check.Counterparty,
	})
	if err != nil {
		return LateSupplyResult{}, err
	}
	raw, err := c.execute(ctx, check.ResourceID, check.ContractID, reqBody)
	if err != nil {
		return LateSupplyResult{}, err
	}
	var out LateSupplyResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return LateSupplyResult{}, fmt.Errorf("malformed late supply response: %w", err)
	}
	return out, nil
}

func (c *Client) CheckDelivery(ctx context.Context, check DeliveryCheck) (DeliveryResult, error) {
	reqBody, err := json.Marshal(deliveryRequestBody{
		Class:                classDelivery,
		MABT:                 check.MABT,
		ActualDeliveryTime:   check.ActualDeliveryTime,
		FuelType:             check.FuelType,
		Volume:               check.Volume,
		QualitySpecification: check.QualitySpecification,
		DeliveryLocation:     check.DeliveryLocation,
	})
	if err != nil {
		return DeliveryResult{}, err
	}
	raw, err := c.execute(ctx, check.ResourceID, check.ContractID, reqBody)
	if err != nil {
		return DeliveryResult{}, err
	}
	var out DeliveryResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return DeliveryResult{}, fmt.Errorf("malformed delivery response: %w", err)
	}
	return out, nil
}

func (c *Client) execute(ctx context.Context, resourceID, contractID string, request json.RawMessage) (json.RawMessage, error) {
	body, err := json.Marshal(executePayload{
		ResourceID: resourceID,
		ContractID: contractID,
		Timestamp:  time.Now().UTC(),
		Request:    request,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	var envelope executeEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("malformed execute envelope: %w", err)
	}
	if len(envelope.Body.Response) == 0 {
		return nil, fmt.Errorf("execute envelope missing body.response")
	}
	return envelope.Body.Response, nil
}
