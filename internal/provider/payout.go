package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RazorpayXClient is a PayoutProvider backed by the RazorpayX payouts API.
type RazorpayXClient struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// NewRazorpayXClient creates a new RazorpayX-backed payout provider.
func NewRazorpayXClient(keyID, keySecret string) *RazorpayXClient {
	return &RazorpayXClient{
		keyID:      keyID,
		keySecret:  keySecret,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type payoutRequest struct {
	FundAccountID string `json:"fund_account_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Mode          string `json:"mode"`
	Purpose       string `json:"purpose"`
}

type payoutResponse struct {
	ID string `json:"id"`
}

// Transfer sends amount (major units) to the seller's fund account. The
// idempotency key makes provider-side retries safe.
func (c *RazorpayXClient) Transfer(ctx context.Context, accountRef string, amount float64, idempotencyKey string) (string, error) {
	payload, err := json.Marshal(payoutRequest{
		FundAccountID: accountRef,
		Amount:        int64(amount * 100),
		Currency:      "INR",
		Mode:          "IMPS",
		Purpose:       "payout",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payouts", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Payout-Idempotency", idempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("payout transfer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payout transfer: status %d", resp.StatusCode)
	}

	var payout payoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&payout); err != nil {
		return "", fmt.Errorf("payout transfer: decode: %w", err)
	}

	return payout.ID, nil
}
