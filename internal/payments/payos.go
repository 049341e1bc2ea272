package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// PayOSClient talks to the bank-transfer processor. Payment links are signed
// with the shared checksum key; confirmation arrives asynchronously on the
// webhook, so link creation stores no provider payment id.
type PayOSClient struct {
	baseURL     string
	clientID    string
	apiKey      string
	checksumKey string
	httpClient  *http.Client
	logger      *logrus.Logger
}

func NewPayOSClient(baseURL, clientID, apiKey, checksumKey string, logger *logrus.Logger) *PayOSClient {
	return &PayOSClient{
		baseURL:     baseURL,
		clientID:    clientID,
		apiKey:      apiKey,
		checksumKey: checksumKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// Buyer is the customer metadata attached to a payment link.
type Buyer struct {
	Name  string `json:"buyerName,omitempty"`
	Email string `json:"buyerEmail,omitempty"`
	Phone string `json:"buyerPhone,omitempty"`
}

type PaymentLinkRequest struct {
	OrderCode   uint
	Amount      int64
	Description string
	Buyer       Buyer
	CancelURL   string
	ReturnURL   string
}

// PaymentLink is the subset of the create response checkout needs.
type PaymentLink struct {
	PaymentLinkID string `json:"paymentLinkId"`
	CheckoutURL   string `json:"checkoutUrl"`
	QRCode        string `json:"qrCode"`
	Status        string `json:"status"`
}

// PaymentInfo is the lookup result used by the redirect-success handler when
// only a provider payment id is available.
type PaymentInfo struct {
	ID        string `json:"id"`
	OrderCode uint   `json:"orderCode"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

type payosEnvelope struct {
	Code string          `json:"code"`
	Desc string          `json:"desc"`
	Data json.RawMessage `json:"data"`
}

// CreatePaymentLink requests a hosted checkout link for an order.
func (c *PayOSClient) CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLink, error) {
	c.logger.WithFields(logrus.Fields{
		"order_code": req.OrderCode,
		"amount":     req.Amount,
	}).Info("Creating PayOS payment link")

	body := map[string]any{
		"orderCode":   req.OrderCode,
		"amount":      req.Amount,
		"description": req.Description,
		"cancelUrl":   req.CancelURL,
		"returnUrl":   req.ReturnURL,
	}
	if req.Buyer.Name != "" {
		body["buyerName"] = req.Buyer.Name
	}
	if req.Buyer.Email != "" {
		body["buyerEmail"] = req.Buyer.Email
	}
	if req.Buyer.Phone != "" {
		body["buyerPhone"] = req.Buyer.Phone
	}
	// Only the five core fields take part in the request checksum.
	body["signature"] = Sign(c.checksumKey, map[string]any{
		"orderCode":   req.OrderCode,
		"amount":      req.Amount,
		"description": req.Description,
		"cancelUrl":   req.CancelURL,
		"returnUrl":   req.ReturnURL,
	})

	var link PaymentLink
	if err := c.do(ctx, http.MethodPost, "/v2/payment-requests", body, &link); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"order_code":      req.OrderCode,
		"payment_link_id": link.PaymentLinkID,
	}).Info("PayOS payment link created")
	return &link, nil
}

// GetPaymentInfo looks up a payment by its provider id.
func (c *PayOSClient) GetPaymentInfo(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	var info PaymentInfo
	if err := c.do(ctx, http.MethodGet, "/v2/payment-requests/"+paymentID, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// VerifyWebhook checks the checksum of a raw webhook payload against the
// shared key. The payload is canonicalized with its signature field excluded.
func (c *PayOSClient) VerifyWebhook(payload map[string]any) bool {
	signature, _ := payload["signature"].(string)
	return VerifySignature(c.checksumKey, signature, payload)
}

func (c *PayOSClient) do(ctx context.Context, method, path string, body map[string]any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal PayOS request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.clientID)
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call PayOS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("PayOS returned status %d", resp.StatusCode)
	}

	var env payosEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode PayOS response: %w", err)
	}
	if env.Code != "00" {
		return fmt.Errorf("PayOS error %s: %s", env.Code, env.Desc)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode PayOS data: %w", err)
		}
	}
	return nil
}
