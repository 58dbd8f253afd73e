package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cabin-booking/internal/pkg/config"
	"cabin-booking/internal/pkg/errs"
	"cabin-booking/internal/usecase/commands"
)

// HTTPPaymentGateway speaks to the hosted payment service over its JSON API.
// Every call carries the configured timeout via the http.Client; callers are
// expected to treat any returned error as "order state unknown".
type HTTPPaymentGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPPaymentGateway(cfg config.PaymentConfig) *HTTPPaymentGateway {
	return &HTTPPaymentGateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type createOrderPayload struct {
	OrderID       string `json:"order_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customer_email"`
	CallbackURL   string `json:"callback_url"`
	ReturnURL     string `json:"return_url"`
}

type createOrderReply struct {
	OrderRef    string `json:"order_ref"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type orderStatusReply struct {
	Status string `json:"status"`
}

func (g *HTTPPaymentGateway) CreateOrder(ctx context.Context, req commands.CreateOrderRequest) (*commands.CreateOrderResponse, error) {
	body, err := json.Marshal(createOrderPayload{
		OrderID:       req.OrderID.String(),
		Amount:        req.Amount,
		Currency:      req.Currency,
		CustomerEmail: req.CustomerEmail,
		CallbackURL:   req.CallbackURL,
		ReturnURL:     req.ReturnURL,
	})
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode order request")
	}

	var reply createOrderReply
	if err := g.post(ctx, "/v1/orders", body, &reply); err != nil {
		return nil, err
	}
	if reply.OrderRef == "" || reply.Token == "" {
		return nil, errs.New("gateway returned incomplete order")
	}
	return &commands.CreateOrderResponse{
		OrderRef:    reply.OrderRef,
		Token:       reply.Token,
		RedirectURL: reply.RedirectURL,
	}, nil
}

func (g *HTTPPaymentGateway) OrderStatus(ctx context.Context, token string) (commands.OrderState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/v1/orders/"+token, nil)
	if err != nil {
		return "", errs.Wrap(err, "failed to build status request")
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	var reply orderStatusReply
	if err := g.do(req, &reply); err != nil {
		return "", err
	}
	return mapOrderState(reply.Status)
}

func (g *HTTPPaymentGateway) post(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errs.Wrap(err, "failed to build gateway request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	return g.do(req, out)
}

func (g *HTTPPaymentGateway) do(req *http.Request, out any) error {
	resp, err := g.client.Do(req)
	if err != nil {
		return errs.Wrap(err, "gateway request failed")
	}
	defer resp.Body.Close()

	// Bound the body read; the gateway's replies are small.
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errs.Wrap(err, "failed to read gateway response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errs.New(fmt.Sprintf("gateway returned status %d", resp.StatusCode))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errs.Wrap(err, "failed to decode gateway response")
	}
	return nil
}

// mapOrderState folds the gateway's status vocabulary into the engine's
// three-state view. Unknown statuses are an error, not a guess.
func mapOrderState(status string) (commands.OrderState, error) {
	switch strings.ToLower(status) {
	case "paid", "succeeded", "finished":
		return commands.OrderPaid, nil
	case "pending", "inpayment", "authorized":
		return commands.OrderPending, nil
	case "rejected", "canceled", "expired", "timeout":
		return commands.OrderRejected, nil
	default:
		return "", errs.New("unknown gateway order status: " + status)
	}
}

// MockPaymentGateway backs the mock payment mode. Orders are never created
// through it (the usecase synthesizes them), but reconciliation still asks for
// order status: any token this engine minted reports paid, anything else is
// unknown.
type MockPaymentGateway struct{}

func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{}
}

func (g *MockPaymentGateway) CreateOrder(_ context.Context, _ commands.CreateOrderRequest) (*commands.CreateOrderResponse, error) {
	return nil, errs.New("mock gateway does not create orders")
}

func (g *MockPaymentGateway) OrderStatus(_ context.Context, token string) (commands.OrderState, error) {
	if strings.HasPrefix(token, "mock-") {
		return commands.OrderPaid, nil
	}
	return "", errs.New("unknown mock order token")
}
