package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DanielPopoola/rental-payment-gateway/internal/adapters/gateway"
	"github.com/DanielPopoola/rental-payment-gateway/internal/adapters/handler"
	"github.com/DanielPopoola/rental-payment-gateway/internal/adapters/handler/middleware"
	"github.com/DanielPopoola/rental-payment-gateway/internal/adapters/sqlite"
	"github.com/DanielPopoola/rental-payment-gateway/internal/config"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/service"
	"github.com/DanielPopoola/rental-payment-gateway/internal/metrics"
	"github.com/DanielPopoola/rental-payment-gateway/internal/tests/e2e/testdata"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const (
	testKeyID     = "rzp_test_e2e"
	testKeySecret = "e2e-secret"
)

// Response is the decoded API envelope with a raw data payload.
type Response struct {
	Status  int               `json:"-"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   *handler.APIError `json:"error"`
}

func (r *Response) Decode(t *testing.T, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, dst), "data: %s", string(r.Data))
}

// TestClient wraps HTTP calls to the payment service
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *TestClient) do(t *testing.T, method, path string, body interface{}) *Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = strings.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := &Response{Status: resp.StatusCode}
	require.NoError(t, json.Unmarshal(bodyBytes, out), "body: %s", string(bodyBytes))
	return out
}

func (c *TestClient) CreateOrder(t *testing.T, req handler.CreateOrderRequest) *Response {
	return c.do(t, http.MethodPost, "/api/payment/create-order", req)
}

func (c *TestClient) VerifyPayment(t *testing.T, req handler.VerifyPaymentRequest) *Response {
	return c.do(t, http.MethodPost, "/api/payment/verify-payment", req)
}

func (c *TestClient) ConfirmCOD(t *testing.T, req handler.CODConfirmRequest) *Response {
	return c.do(t, http.MethodPost, "/api/payment/cod-confirm", req)
}

func (c *TestClient) PostRaw(t *testing.T, path, body string) *Response {
	return c.do(t, http.MethodPost, path, body)
}

func (c *TestClient) Get(t *testing.T, path string) *Response {
	return c.do(t, http.MethodGet, path, nil)
}

func (c *TestClient) CheckPayment(t *testing.T, bookingID string) bool {
	t.Helper()
	resp := c.Get(t, "/api/payment/check/"+url.PathEscape(bookingID))
	require.Equal(t, http.StatusOK, resp.Status)

	var data struct {
		Exists bool `json:"exists"`
	}
	resp.Decode(t, &data)
	return data.Exists
}

// SignedVerification builds the verify-payment body the checkout widget would post.
func SignedVerification(orderID, bookingID, amountMinor string) handler.VerifyPaymentRequest {
	paymentID := "pay_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
	return handler.VerifyPaymentRequest{
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: gateway.Sign(testKeySecret, orderID, paymentID),
		BookingID: bookingID,
		Amount:    amountMinor,
	}
}

// fakeGateway is an in-memory stand-in for the orders API.
type fakeGateway struct {
	mu     sync.Mutex
	seq    int
	orders map[string]map[string]interface{}
}

func newFakeGateway() *httptest.Server {
	g := &fakeGateway{orders: make(map[string]map[string]interface{})}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders", g.createOrder)
	mux.HandleFunc("GET /orders/{id}", g.fetchOrder)
	return httptest.NewServer(mux)
}

func (g *fakeGateway) createOrder(w http.ResponseWriter, r *http.Request) {
	if user, pass, ok := r.BasicAuth(); !ok || user != testKeyID || pass != testKeySecret {
		writeGatewayError(w, http.StatusUnauthorized, "BAD_REQUEST_ERROR", "Authentication failed")
		return
	}

	var req struct {
		Amount   int64             `json:"amount"`
		Currency string            `json:"currency"`
		Receipt  string            `json:"receipt"`
		Notes    map[string]string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGatewayError(w, http.StatusBadRequest, "BAD_REQUEST_ERROR", err.Error())
		return
	}

	g.mu.Lock()
	g.seq++
	id := fmt.Sprintf("order_e2e%06d", g.seq)
	order := map[string]interface{}{
		"id":          id,
		"entity":      "order",
		"amount":      req.Amount,
		"amount_paid": 0,
		"amount_due":  req.Amount,
		"currency":    req.Currency,
		"receipt":     req.Receipt,
		"status":      "created",
		"attempts":    0,
		"created_at":  time.Now().Unix(),
		"notes":       req.Notes,
	}
	g.orders[id] = order
	g.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(order)
}

func (g *fakeGateway) fetchOrder(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	order, ok := g.orders[r.PathValue("id")]
	g.mu.Unlock()

	if !ok {
		writeGatewayError(w, http.StatusBadRequest, "BAD_REQUEST_ERROR", "The id provided does not exist")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(order)
}

func writeGatewayError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"code": code, "description": description},
	})
}

// Stack is the whole service running in-process against SQLite and the fake gateway.
type Stack struct {
	Server   *httptest.Server
	Gateway  *httptest.Server
	Repo     *sqlite.Repository
	Counters *metrics.Counters
	db       *sqlite.DB
}

func NewStack(t *testing.T) *Stack {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	gw := newFakeGateway()

	db, err := sqlite.Open(ctx, ":memory:", logger)
	require.NoError(t, err)
	repo := sqlite.NewRepository(db)
	counters := metrics.New()

	gwCfg := config.GatewayConfig{
		BaseURL:         gw.URL,
		KeyID:           testKeyID,
		KeySecret:       testKeySecret,
		Currency:        "INR",
		MinorUnitFactor: 100,
		Timeout:         5 * time.Second,
	}
	client := gateway.NewClient(gwCfg)

	paymentHandler := handler.NewPaymentHandler(
		service.NewOrderService(client, counters, gwCfg.Currency, logger),
		service.NewReconcileService(repo, client, counters, gwCfg.MinorUnitFactor, logger),
		service.NewPaymentQueryService(repo, counters, logger),
		logger,
	)
	healthHandler := handler.NewHealthHandler(db, config.DriverSQLite, counters, logger)

	mux := http.NewServeMux()
	handler.RegisterDocsRoutes(mux)
	paymentHandler.RegisterRoutes(mux)
	healthHandler.RegisterRoutes(mux)

	doc, err := handler.LoadOpenAPISpec(ctx)
	require.NoError(t, err)
	validateRequests, err := middleware.OpenAPIValidator(doc, logger)
	require.NoError(t, err)

	h := validateRequests(mux)
	h = middleware.Recovery(logger)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Timeout(10 * time.Second)(h)

	return &Stack{
		Server:   httptest.NewServer(h),
		Gateway:  gw,
		Repo:     repo,
		Counters: counters,
		db:       db,
	}
}

func (s *Stack) SeedBookings(t *testing.T, bookings ...testdata.SeedBooking) {
	t.Helper()
	now := time.Now().UTC()
	for _, b := range bookings {
		require.NoError(t, s.Repo.SaveBooking(context.Background(), &domain.Booking{
			ID:           uuid.New(),
			BookingID:    b.BookingID,
			CustomerID:   b.CustomerID,
			CustomerName: b.Description,
			Status:       b.Status,
			CreatedAt:    now,
			UpdatedAt:    now,
		}))
	}
}

func (s *Stack) Close() {
	s.Server.Close()
	s.Gateway.Close()
	s.db.Close()
}
