package courier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"orderhub_backend/platform/logger"
)

type testConfig struct {
	baseURL string
}

func (c testConfig) GetCourierBaseURL() string        { return c.baseURL }
func (c testConfig) GetCourierAPIKey() string         { return "key" }
func (c testConfig) GetCourierSecretKey() string      { return "secret" }
func (c testConfig) GetCourierTimeout() time.Duration { return 2 * time.Second }
func (c testConfig) IsCourierEnabled() bool           { return c.baseURL != "" }

func TestCreateOrderSendsCredentialsAndPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/create_order" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Api-Key") != "key" || r.Header.Get("Secret-Key") != "secret" {
			t.Errorf("missing credentials: %v", r.Header)
		}
		var body createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.RecipientPhone != "01711000001" || body.CODAmount != 1250 {
			t.Errorf("unexpected payload: %+v", body)
		}
		_, _ = w.Write([]byte(`{"status":200,"message":"ok","consignment":{"consignment_id":1424107,"tracking_code":"15BAEB8A","status":"in_review"}}`))
	}))
	defer srv.Close()

	c := New(testConfig{baseURL: srv.URL + "/"}, logger.New("test"))
	got, err := c.CreateOrder(context.Background(), Parcel{Invoice: "inv-1", Phone: "01711000001", CODAmount: 1250})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	want := Consignment{ConsignmentID: "1424107", TrackingCode: "15BAEB8A", Status: "in_review"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCreateOrderFlatResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200,"consignment_id":77,"order_status":"pending"}`))
	}))
	defer srv.Close()

	c := New(testConfig{baseURL: srv.URL}, logger.New("test"))
	got, err := c.CreateOrder(context.Background(), Parcel{Invoice: "inv-2"})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if got.ConsignmentID != "77" || got.Status != "pending" {
		t.Fatalf("unexpected consignment: %+v", got)
	}
}

func TestCreateOrderRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":400,"message":"invalid phone"}`))
	}))
	defer srv.Close()

	c := New(testConfig{baseURL: srv.URL}, logger.New("test"))
	if _, err := c.CreateOrder(context.Background(), Parcel{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestBalanceUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(testConfig{baseURL: srv.URL}, logger.New("test"))
	if _, err := c.Balance(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_balance" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":200,"current_balance":512.5}`))
	}))
	defer srv.Close()

	c := New(testConfig{baseURL: srv.URL}, logger.New("test"))
	balance, err := c.Balance(context.Background())
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if balance != 512.5 {
		t.Fatalf("balance = %v", balance)
	}
}

func TestDisabledClient(t *testing.T) {
	c := New(testConfig{}, logger.New("test"))
	if c.Enabled() {
		t.Fatal("expected disabled client")
	}
	if _, err := c.Balance(context.Background()); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}
