package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// PayPalClient creates redirect orders with the wallet processor. Amounts are
// settled in USD at a fixed exchange rate; the shop itself prices in VND.
type PayPalClient struct {
	baseURL      string
	clientID     string
	secret       string
	returnURL    string
	cancelURL    string
	exchangeRate float64
	httpClient   *http.Client
	logger       *logrus.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewPayPalClient(baseURL, clientID, secret, returnURL, cancelURL string, exchangeRate float64, logger *logrus.Logger) *PayPalClient {
	return &PayPalClient{
		baseURL:      baseURL,
		clientID:     clientID,
		secret:       secret,
		returnURL:    returnURL,
		cancelURL:    cancelURL,
		exchangeRate: exchangeRate,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

type WalletLink struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// WalletOrder is the provider's redirect order: the caller follows the
// "approve" link, then the provider redirects back to the shop.
type WalletOrder struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Links  []WalletLink `json:"links"`
}

// CreateOrder converts the VND total to the settlement currency and creates a
// CAPTURE order with redirect links.
func (c *PayPalClient) CreateOrder(ctx context.Context, orderID uint, amountVND float64) (*WalletOrder, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	usd := fmt.Sprintf("%.2f", amountVND/c.exchangeRate)
	c.logger.WithFields(logrus.Fields{
		"order_id":   orderID,
		"amount_vnd": amountVND,
		"amount_usd": usd,
	}).Info("Creating PayPal order")

	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"reference_id": fmt.Sprintf("%d", orderID),
				"amount": map[string]string{
					"currency_code": "USD",
					"value":         usd,
				},
			},
		},
		"application_context": map[string]string{
			"return_url": c.returnURL,
			"cancel_url": c.cancelURL,
		},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal PayPal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/checkout/orders", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call PayPal: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("PayPal returned status %d", resp.StatusCode)
	}

	var order WalletOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode PayPal response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"order_id":        orderID,
		"paypal_order_id": order.ID,
		"status":          order.Status,
	}).Info("PayPal order created")
	return &order, nil
}

// token returns a cached client-credentials token, refreshing when expired.
func (c *PayPalClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch PayPal token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("PayPal token endpoint returned status %d", resp.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	c.accessToken = tok.AccessToken
	// Refresh a minute early so in-flight requests never carry a stale token.
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}
