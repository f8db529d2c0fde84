package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/DanielPopoola/rental-payment-gateway/internal/config"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
)

// HTTPClient talks to a Razorpay-compatible orders API.
type HTTPClient struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewClient(cfg config.GatewayConfig) *HTTPClient {
	return &HTTPClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CreateOrder opens an order for an amount given in minor units. A malformed
// amount is rejected before any request is sent.
func (c *HTTPClient) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderDescriptor, error) {
	amount, err := domain.ParseMinorUnits(req.AmountMinor)
	if err != nil {
		return nil, err
	}

	body := createOrderRequest{
		Amount:   amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	}

	resp, err := sendRequest[createOrderRequest, orderResponse](c, ctx, http.MethodPost, c.baseURL+"/orders", &body)
	if err != nil {
		return nil, err
	}
	return resp.toDescriptor()
}

func (c *HTTPClient) FetchOrder(ctx context.Context, orderID string) (*domain.OrderDescriptor, error) {
	endpoint := fmt.Sprintf("%s/orders/%s", c.baseURL, url.PathEscape(orderID))
	resp, err := sendRequest[any, orderResponse](c, ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return resp.toDescriptor()
}

// VerifySignature checks the checkout signature locally. It needs no network
// call and reports false rather than failing.
func (c *HTTPClient) VerifySignature(_ context.Context, orderID, paymentID, signature string) bool {
	if c.keySecret == "" || signature == "" {
		return false
	}
	expected := Sign(c.keySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign returns the lowercase hex HMAC-SHA256 of "orderID|paymentID".
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func sendRequest[Req any, Resp any](c *HTTPClient, ctx context.Context, method, endpoint string, reqBody *Req) (*Resp, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.SetBasicAuth(c.keyID, c.keySecret)
	httpReq.Header.Set("Accept", "application/json")
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Code: CodeTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Code: CodeTransport, Message: err.Error(), StatusCode: resp.StatusCode}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Description == "" {
			return nil, &Error{
				Code:       http.StatusText(resp.StatusCode),
				Message:    strings.TrimSpace(string(body)),
				StatusCode: resp.StatusCode,
			}
		}
		return nil, &Error{
			Code:       errResp.Error.Code,
			Message:    errResp.Error.Description,
			StatusCode: resp.StatusCode,
		}
	}

	var gwResp Resp
	if err := json.Unmarshal(body, &gwResp); err != nil {
		return nil, &Error{
			Code:       CodeInvalidResponse,
			Message:    fmt.Sprintf("error decoding json response: %v", err),
			StatusCode: resp.StatusCode,
		}
	}

	return &gwResp, nil
}
