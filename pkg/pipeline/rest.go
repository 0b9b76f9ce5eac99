package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ClientConfig holds credentials for the upstream REST APIs.
type ClientConfig struct {
	ThreeDCartBaseURL    string `env:"THREEDCART_BASE_URL" envDefault:"https://apirest.3dcart.com"`
	ThreeDCartPrivateKey string `env:"THREEDCART_PRIVATE_KEY"`
	ThreeDCartToken      string `env:"THREEDCART_TOKEN"`
	ThreeDCartSecureURL  string `env:"THREEDCART_SECURE_URL"`

	HubSpotBaseURL string `env:"HUBSPOT_BASE_URL" envDefault:"https://api.hubapi.com"`
	HubSpotToken   string `env:"HUBSPOT_ACCESS_TOKEN"`

	NetSuiteBaseURL string `env:"NETSUITE_BASE_URL"`
	NetSuiteToken   string `env:"NETSUITE_TOKEN"`

	HTTPTimeout time.Duration `env:"INTEGRATION_HTTP_TIMEOUT" envDefault:"30s"`
}

func newHTTPClient(cfg ClientConfig) *http.Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// doJSON performs a request with an optional JSON body and decodes a JSON
// response into out when out is non-nil. Statuses outside 2xx are returned as
// ErrUpstreamStatus.
func doJSON(ctx context.Context, client *http.Client, method, rawURL string, headers map[string]string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s returned %d", ErrUpstreamStatus, method, req.URL.Path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ThreeDCart returns a REST-backed ThreeDCartClient.
func (cfg ClientConfig) ThreeDCart() ThreeDCartClient {
	return &restThreeDCart{cfg: cfg, client: newHTTPClient(cfg)}
}

type restThreeDCart struct {
	cfg    ClientConfig
	client *http.Client
}

func (c *restThreeDCart) headers() map[string]string {
	return map[string]string{
		"PrivateKey": c.cfg.ThreeDCartPrivateKey,
		"Token":      c.cfg.ThreeDCartToken,
		"SecureURL":  c.cfg.ThreeDCartSecureURL,
	}
}

func (c *restThreeDCart) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	// The orders endpoint answers a single-element array even for an ID lookup.
	var orders []Order
	u := c.cfg.ThreeDCartBaseURL + "/3dCartWebAPI/v2/Orders/" + url.PathEscape(orderID)
	if err := doJSON(ctx, c.client, http.MethodGet, u, c.headers(), nil, &orders); err != nil {
		return nil, fmt.Errorf("3dcart order %s: %w", orderID, err)
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: 3dcart order %s", ErrOrderNotFound, orderID)
	}
	return &orders[0], nil
}

func (c *restThreeDCart) UpdateStock(ctx context.Context, sku string, quantity int) error {
	u := c.cfg.ThreeDCartBaseURL + "/3dCartWebAPI/v2/Products/" + url.PathEscape(sku)
	payload := map[string]any{"SKUInfo": map[string]any{"Stock": quantity}}
	if err := doJSON(ctx, c.client, http.MethodPut, u, c.headers(), payload, nil); err != nil {
		return fmt.Errorf("3dcart stock update %s: %w", sku, err)
	}
	return nil
}

// HubSpot returns a REST-backed HubSpotClient.
func (cfg ClientConfig) HubSpot() HubSpotClient {
	return &restHubSpot{cfg: cfg, client: newHTTPClient(cfg)}
}

type restHubSpot struct {
	cfg    ClientConfig
	client *http.Client
}

func (c *restHubSpot) GetContact(ctx context.Context, contactID string) (*Contact, error) {
	var payload struct {
		ID         string `json:"id"`
		Properties struct {
			Email     string `json:"email"`
			FirstName string `json:"firstname"`
			LastName  string `json:"lastname"`
			Company   string `json:"company"`
		} `json:"properties"`
	}

	u := c.cfg.HubSpotBaseURL + "/crm/v3/objects/contacts/" + url.PathEscape(contactID) +
		"?properties=email,firstname,lastname,company"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.HubSpotToken}
	if err := doJSON(ctx, c.client, http.MethodGet, u, headers, nil, &payload); err != nil {
		return nil, fmt.Errorf("hubspot contact %s: %w", contactID, err)
	}
	if payload.ID == "" {
		return nil, fmt.Errorf("%w: hubspot contact %s", ErrContactNotFound, contactID)
	}
	return &Contact{
		ID:        payload.ID,
		Email:     payload.Properties.Email,
		FirstName: payload.Properties.FirstName,
		LastName:  payload.Properties.LastName,
		Company:   payload.Properties.Company,
	}, nil
}

// NetSuite returns a REST-backed NetSuiteClient.
func (cfg ClientConfig) NetSuite() NetSuiteClient {
	return &restNetSuite{cfg: cfg, client: newHTTPClient(cfg)}
}

type restNetSuite struct {
	cfg    ClientConfig
	client *http.Client
}

func (c *restNetSuite) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.cfg.NetSuiteToken}
}

func (c *restNetSuite) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	var payload struct {
		Items []Customer `json:"items"`
	}
	u := c.cfg.NetSuiteBaseURL + "/customers?email=" + url.QueryEscape(email)
	if err := doJSON(ctx, c.client, http.MethodGet, u, c.headers(), nil, &payload); err != nil {
		return nil, fmt.Errorf("netsuite customer lookup: %w", err)
	}
	if len(payload.Items) == 0 {
		return nil, fmt.Errorf("%w: email %s", ErrCustomerNotFound, email)
	}
	return &payload.Items[0], nil
}

func (c *restNetSuite) CreateCustomer(ctx context.Context, cust Customer) (string, error) {
	var created struct {
		InternalID string `json:"internalId"`
	}
	u := c.cfg.NetSuiteBaseURL + "/customers"
	if err := doJSON(ctx, c.client, http.MethodPost, u, c.headers(), cust, &created); err != nil {
		return "", fmt.Errorf("netsuite create customer: %w", err)
	}
	return created.InternalID, nil
}

func (c *restNetSuite) CreateSalesOrder(ctx context.Context, customerID string, o Order) (string, error) {
	var created struct {
		InternalID string `json:"internalId"`
	}
	payload := map[string]any{
		"entity":      customerID,
		"externalId":  o.ID,
		"totalAmount": o.Total,
	}
	u := c.cfg.NetSuiteBaseURL + "/salesOrders"
	if err := doJSON(ctx, c.client, http.MethodPost, u, c.headers(), payload, &created); err != nil {
		return "", fmt.Errorf("netsuite create sales order: %w", err)
	}
	return created.InternalID, nil
}

func (c *restNetSuite) ListInventory(ctx context.Context) ([]InventoryItem, error) {
	var payload struct {
		Items []InventoryItem `json:"items"`
	}
	u := c.cfg.NetSuiteBaseURL + "/inventory"
	if err := doJSON(ctx, c.client, http.MethodGet, u, c.headers(), nil, &payload); err != nil {
		return nil, fmt.Errorf("netsuite inventory: %w", err)
	}
	return payload.Items, nil
}
