package e2e

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/DanielPopoola/rental-payment-gateway/internal/adapters/handler"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
	"github.com/DanielPopoola/rental-payment-gateway/internal/tests/e2e/testdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type E2ETestSuite struct {
	suite.Suite
	stack  *Stack
	client *TestClient
}

func TestE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end tests in short mode")
	}

	suite.Run(t, new(E2ETestSuite))
}

func (suite *E2ETestSuite) SetupTest() {
	suite.stack = NewStack(suite.T())
	suite.stack.SeedBookings(suite.T(), testdata.All()...)
	suite.client = NewTestClient(suite.stack.Server.URL)
}

func (suite *E2ETestSuite) TearDownTest() {
	suite.stack.Close()
}

func (suite *E2ETestSuite) createOrder(bookingID, amount string) string {
	t := suite.T()

	resp := suite.client.CreateOrder(t, handler.CreateOrderRequest{
		BookingID:    bookingID,
		Amount:       amount,
		CustomerName: "Ravi",
	})
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)

	var order handler.OrderResponse
	resp.Decode(t, &order)
	return order.ID
}

// ============================================================================
// HAPPY PATH: create order, verify payment, booking confirmed
// ============================================================================

func (suite *E2ETestSuite) TestHappyPath_OrderVerifyConfirm() {
	t := suite.T()
	bookingID := testdata.PendingBooking.BookingID

	orderID := suite.createOrder(bookingID, "150000")
	assert.NotEmpty(t, orderID)
	assert.False(t, suite.client.CheckPayment(t, bookingID))

	resp := suite.client.VerifyPayment(t, SignedVerification(orderID, bookingID, "150000"))
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)
	assert.Equal(t, "Payment verified and saved successfully", resp.Message)

	var result handler.ReconciliationResponse
	resp.Decode(t, &result)
	assert.Equal(t, "CREATED", string(result.Outcome))
	assert.Equal(t, "CONFIRMED", result.BookingStatus)

	assert.True(t, suite.client.CheckPayment(t, bookingID))

	details := suite.client.Get(t, "/api/payment/details/"+bookingID)
	require.Equal(t, http.StatusOK, details.Status)
	var d struct {
		PaymentStatus string  `json:"paymentStatus"`
		PaymentMethod string  `json:"paymentMethod"`
		BookingStatus string  `json:"bookingStatus"`
		Amount        float64 `json:"amount"`
	}
	details.Decode(t, &d)
	assert.Equal(t, "COMPLETED", d.PaymentStatus)
	assert.Equal(t, "ONLINE", d.PaymentMethod)
	assert.Equal(t, "CONFIRMED", d.BookingStatus)
	assert.Equal(t, 1500.0, d.Amount)

	booking, err := suite.stack.Repo.FindBookingByBookingID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, booking.Status)
}

func (suite *E2ETestSuite) TestRetryReturnsStoredPayment() {
	t := suite.T()
	bookingID := testdata.PendingBooking.BookingID
	orderID := suite.createOrder(bookingID, "99900")
	verification := SignedVerification(orderID, bookingID, "99900")

	first := suite.client.VerifyPayment(t, verification)
	require.Equal(t, http.StatusOK, first.Status)
	second := suite.client.VerifyPayment(t, verification)
	require.Equal(t, http.StatusOK, second.Status)

	var a, b handler.ReconciliationResponse
	first.Decode(t, &a)
	second.Decode(t, &b)
	assert.Equal(t, "Payment already recorded", second.Message)
	assert.Equal(t, "ALREADY_EXISTS", string(b.Outcome))
	assert.Equal(t, a.PaymentID, b.PaymentID)
}

func (suite *E2ETestSuite) TestOrderStatusFromGateway() {
	t := suite.T()
	orderID := suite.createOrder(testdata.PendingBooking.BookingID, "5000")

	resp := suite.client.Get(t, "/api/payment/order/"+orderID)
	require.Equal(t, http.StatusOK, resp.Status)

	var order handler.OrderResponse
	resp.Decode(t, &order)
	assert.Equal(t, "created", order.Status)
	assert.Equal(t, int64(5000), order.Amount)
	assert.Equal(t, testdata.PendingBooking.BookingID, order.Notes["bookingId"])

	missing := suite.client.Get(t, "/api/payment/order/order_unknown")
	assert.Equal(t, http.StatusBadGateway, missing.Status)
}

// ============================================================================
// IDENTIFIER DRIFT: bookings stored with surrounding whitespace
// ============================================================================

func (suite *E2ETestSuite) TestPaddedBookingIsFoundAndPaymentStoredTrimmed() {
	t := suite.T()
	orderID := suite.createOrder("BK-1002", "20000")

	resp := suite.client.VerifyPayment(t, SignedVerification(orderID, "  BK-1002", "20000"))
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)

	var result handler.ReconciliationResponse
	resp.Decode(t, &result)
	assert.Equal(t, "BK-1002", result.BookingID)
	assert.Equal(t, "CONFIRMED", result.BookingStatus)

	debug := suite.client.Get(t, "/api/payment/debug/BK-1002")
	var list handler.PaymentListResponse
	debug.Decode(t, &list)
	assert.Equal(t, 1, list.Count)

	quality := suite.stack.Counters.Snapshot()
	assert.Positive(t, quality["identifiers_normalized"])
	assert.Positive(t, quality["tolerant_matches"])
}

// ============================================================================
// CASH ON DELIVERY
// ============================================================================

func (suite *E2ETestSuite) TestCODThenOnlinePayment() {
	t := suite.T()
	bookingID := testdata.CODBooking.BookingID

	cod := suite.client.ConfirmCOD(t, handler.CODConfirmRequest{
		BookingID:     bookingID,
		Amount:        "750.50",
		CustomerName:  "Meera",
		CustomerEmail: "meera@example.com",
	})
	require.Equal(t, http.StatusOK, cod.Status, cod.Message)

	var confirmed handler.CODConfirmResponse
	cod.Decode(t, &confirmed)
	assert.Regexp(t, `^COD_[0-9A-F]{12}$`, confirmed.TransactionID)

	ref := suite.client.Get(t, "/api/payment/transaction/"+confirmed.TransactionID)
	require.Equal(t, http.StatusOK, ref.Status)
	var stored handler.PaymentResponse
	ref.Decode(t, &stored)
	assert.Equal(t, "PENDING", stored.PaymentStatus)
	assert.Equal(t, "COD", stored.PaymentMethod)
	assert.Equal(t, "750.50", stored.Amount.String())

	orderID := suite.createOrder(bookingID, "75050")
	online := suite.client.VerifyPayment(t, SignedVerification(orderID, bookingID, "75050"))
	require.Equal(t, http.StatusOK, online.Status)

	var result handler.ReconciliationResponse
	online.Decode(t, &result)
	assert.Equal(t, "UPDATED", string(result.Outcome))
	assert.Equal(t, stored.ID, result.PaymentID)
}

// ============================================================================
// REJECTIONS
// ============================================================================

func (suite *E2ETestSuite) TestTamperedSignatureIsRejected() {
	t := suite.T()
	bookingID := testdata.PendingBooking.BookingID
	orderID := suite.createOrder(bookingID, "10000")

	verification := SignedVerification(orderID, bookingID, "10000")
	verification.Signature = "0000" + verification.Signature[4:]

	resp := suite.client.VerifyPayment(t, verification)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VERIFICATION_FAILED", resp.Error.Code)

	assert.False(t, suite.client.CheckPayment(t, bookingID))
	assert.Equal(t, uint64(1), suite.stack.Counters.Snapshot()["verification_failures"])
}

func (suite *E2ETestSuite) TestSchemaRejectsNumericAmount() {
	t := suite.T()

	resp := suite.client.PostRaw(t, "/api/payment/verify-payment", `{"bookingId":"BK-1001","amount":150000}`)

	assert.Equal(t, http.StatusBadRequest, resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func (suite *E2ETestSuite) TestErrorStatuses() {
	t := suite.T()

	tests := []struct {
		name      string
		bookingID string
		status    int
		code      string
	}{
		{"unknown booking", "BK-404", http.StatusNotFound, domain.ErrCodeBookingNotFound},
		{"cancelled booking", testdata.CancelledBooking.BookingID, http.StatusConflict, domain.ErrCodeInvalidTransition},
		{"blank booking", "   ", http.StatusBadRequest, domain.ErrCodeInvalidIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := suite.client.VerifyPayment(t, SignedVerification("order_x", tt.bookingID, "100"))

			assert.Equal(t, tt.status, resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

// ============================================================================
// CONCURRENCY: the same verification posted many times at once
// ============================================================================

func (suite *E2ETestSuite) TestConcurrentVerificationsStoreOnePayment() {
	t := suite.T()
	bookingID := testdata.RaceBooking.BookingID
	orderID := suite.createOrder(bookingID, "30000")
	verification := SignedVerification(orderID, bookingID, "30000")

	const numRequests = 8
	var wg sync.WaitGroup
	results := make(chan *Response, numRequests)

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- suite.client.VerifyPayment(t, verification)
		}()
	}
	wg.Wait()
	close(results)

	created := 0
	paymentIDs := map[string]bool{}
	for resp := range results {
		require.Equal(t, http.StatusOK, resp.Status, resp.Message)
		var r handler.ReconciliationResponse
		resp.Decode(t, &r)
		if r.Outcome == "CREATED" {
			created++
		}
		paymentIDs[r.PaymentID] = true
	}
	assert.Equal(t, 1, created)
	assert.Len(t, paymentIDs, 1)

	rows, err := suite.stack.Repo.FindPaymentsByRawBookingID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

// ============================================================================
// OPERATIONS
// ============================================================================

func (suite *E2ETestSuite) TestHealthAndInconsistencies() {
	t := suite.T()

	status := suite.client.Get(t, "/api/health/status")
	require.Equal(t, http.StatusOK, status.Status)
	var health handler.HealthStatus
	status.Decode(t, &health)
	assert.Equal(t, "UP", health.Status)
	assert.Equal(t, "sqlite", health.Storage.Driver)

	resp := suite.client.Get(t, "/api/payment/inconsistencies?limit=10")
	require.Equal(t, http.StatusOK, resp.Status)
	var list handler.PaymentListResponse
	resp.Decode(t, &list)
	assert.Equal(t, 0, list.Count)

	bad := suite.client.Get(t, "/api/payment/inconsistencies?limit=0")
	assert.Equal(t, http.StatusBadRequest, bad.Status)
}
