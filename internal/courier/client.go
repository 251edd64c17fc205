// Package courier provides the HTTP client for the Steadfast parcel API.
package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"orderhub_backend/platform/config"
	"orderhub_backend/platform/logger"
)

// ErrDisabled is returned when no courier credentials are configured.
var ErrDisabled = errors.New("courier integration is not configured")

// Parcel is what the courier needs to book a cash-on-delivery shipment.
type Parcel struct {
	Invoice   string
	Name      string
	Phone     string
	Address   string
	CODAmount float64
	Note      string
}

// Consignment is the courier's booking of a parcel.
type Consignment struct {
	ConsignmentID string `json:"consignmentId"`
	TrackingCode  string `json:"trackingCode"`
	Status        string `json:"status"`
}

// Client talks to the courier API with the business's key pair.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	secretKey  string
	log        *logger.Logger
}

// New creates a courier client. The returned client reports ErrDisabled from
// every call when cfg is not enabled.
func New(cfg config.CourierConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetCourierTimeout()},
		baseURL:    strings.TrimRight(cfg.GetCourierBaseURL(), "/"),
		apiKey:     cfg.GetCourierAPIKey(),
		secretKey:  cfg.GetCourierSecretKey(),
		log:        log,
	}
}

// Enabled reports whether credentials are present.
func (c *Client) Enabled() bool {
	return c.baseURL != "" && c.apiKey != "" && c.secretKey != ""
}

// CreateOrder books a parcel and returns the consignment.
func (c *Client) CreateOrder(ctx context.Context, parcel Parcel) (Consignment, error) {
	payload := createOrderRequest{
		Invoice:          parcel.Invoice,
		RecipientName:    parcel.Name,
		RecipientPhone:   parcel.Phone,
		RecipientAddress: parcel.Address,
		CODAmount:        parcel.CODAmount,
		Note:             parcel.Note,
	}

	var resp createOrderResponse
	if err := c.do(ctx, http.MethodPost, "/create_order", payload, &resp); err != nil {
		return Consignment{}, err
	}
	if resp.Status != http.StatusOK {
		return Consignment{}, fmt.Errorf("courier rejected order: %s", resp.Message)
	}

	consignment := Consignment{
		ConsignmentID: resp.Consignment.ConsignmentID.String(),
		TrackingCode:  resp.Consignment.TrackingCode,
		Status:        resp.Consignment.Status,
	}
	// Older API versions answer with flat fields.
	if consignment.ConsignmentID == "" {
		consignment.ConsignmentID = resp.ConsignmentID.String()
	}
	if consignment.Status == "" {
		consignment.Status = resp.OrderStatus
	}
	if consignment.ConsignmentID == "" {
		return Consignment{}, errors.New("courier response has no consignment id")
	}

	return consignment, nil
}

// Balance returns the current account balance.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	var resp balanceResponse
	if err := c.do(ctx, http.MethodGet, "/get_balance", nil, &resp); err != nil {
		return 0, err
	}
	if resp.Status != http.StatusOK {
		return 0, fmt.Errorf("courier rejected balance request: %s", resp.Message)
	}
	return resp.CurrentBalance, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Secret-Key", c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("courier request failed", "error", err, "path", path)
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.log.Error("courier unauthorized", "status", resp.StatusCode)
		return errors.New("unauthorized: invalid courier credentials")
	case resp.StatusCode >= http.StatusInternalServerError:
		c.log.Error("courier upstream error", "status", resp.StatusCode, "path", path)
		return fmt.Errorf("upstream error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Error("courier decode failed", "error", err, "path", path)
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type createOrderRequest struct {
	Invoice          string  `json:"invoice"`
	RecipientName    string  `json:"recipient_name"`
	RecipientPhone   string  `json:"recipient_phone"`
	RecipientAddress string  `json:"recipient_address"`
	CODAmount        float64 `json:"cod_amount"`
	Note             string  `json:"note,omitempty"`
}

type createOrderResponse struct {
	Status      int         `json:"status"`
	Message     string      `json:"message"`
	Consignment struct {
		ConsignmentID json.Number `json:"consignment_id"`
		TrackingCode  string      `json:"tracking_code"`
		Status        string      `json:"status"`
	} `json:"consignment"`
	ConsignmentID json.Number `json:"consignment_id"`
	OrderStatus   string      `json:"order_status"`
}

type balanceResponse struct {
	Status         int     `json:"status"`
	Message        string  `json:"message"`
	CurrentBalance float64 `json:"current_balance"`
}
