package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"ticketly/internal/shared/config"
)

// razorpayGateway talks to the Razorpay REST API over basic auth. Amounts are
// in paise, matching the rest of the system.
type razorpayGateway struct {
	cfg    config.RazorpayConfig
	client *http.Client
}

// NewRazorpayGateway creates a gateway client from the configured credentials
func NewRazorpayGateway(cfg config.RazorpayConfig) Gateway {
	return &razorpayGateway{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID string `json:"id"`
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amount int64, receipt string) (string, error) {
	payload := orderRequest{
		Amount:   amount,
		Currency: "INR",
		Receipt:  receipt,
	}

	var order orderResponse
	if err := g.post(ctx, "/orders", payload, &order); err != nil {
		return "", fmt.Errorf("razorpay order create failed: %w", err)
	}
	if order.ID == "" {
		return "", fmt.Errorf("razorpay order create returned no order ID")
	}
	return order.ID, nil
}

// Refund issues a full refund. Razorpay refunds the whole capture when no
// amount is given.
func (g *razorpayGateway) Refund(ctx context.Context, paymentID string) error {
	path := fmt.Sprintf("/payments/%s/refund", paymentID)
	if err := g.post(ctx, path, struct{}{}, nil); err != nil {
		return fmt.Errorf("razorpay refund failed: %w", err)
	}
	return nil
}

func (g *razorpayGateway) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.cfg.KeyID, g.cfg.KeySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, detail)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
