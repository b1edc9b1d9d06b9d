package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"posimarket/api"
	cartctl "posimarket/api/cart"
	checkoutctl "posimarket/api/checkout"
	"posimarket/api/health"
	"posimarket/api/middleware"
	orderctl "posimarket/api/order"
	paymentctl "posimarket/api/payment"
	shippingctl "posimarket/api/shipping"
	cartapp "posimarket/application/cart"
	"posimarket/application/checkout"
	orderapp "posimarket/application/order"
	paymentapp "posimarket/application/payment"
	shippingapp "posimarket/application/shipping"
	"posimarket/config"
	"posimarket/domain/catalog"
	"posimarket/domain/payment"
	"posimarket/domain/shared"
	"posimarket/domain/shipping"
	"posimarket/infrastructure/persistence/mocks"
	"posimarket/infrastructure/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const secret = "test-secret"

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Field     string          `json:"field"`
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
}

type server struct {
	t      *testing.T
	engine *gin.Engine
	auth   *middleware.Authenticator
	store  *mocks.Store
}

func newServer(t *testing.T, limiter ratelimit.Limiter) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := mocks.NewStore()
	store.PutUser(catalog.UserDTO{ID: "buyer", Kind: catalog.SellerIndividual})
	store.PutUser(catalog.UserDTO{ID: "escola", Kind: catalog.SellerInstitutional, Address: catalog.Address{PostalCode: "13010-001"}})
	store.PutProduct(catalog.ProductDTO{ID: "pens", SellerID: "escola", Title: "Pens", Price: shared.MustParseMoney("10.00"), Stock: 10})

	clock := shared.NewManualClock(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	uows := mocks.NewUnitOfWorkFactory(store)
	products := mocks.NewProductRepository(store)
	users := mocks.NewUserRepository(store)
	lines := mocks.NewCartRepository(store)
	orders := mocks.NewOrderRepository(store)

	carts := cartapp.NewApplicationService(uows, lines, products, users, clock, 15*time.Minute)
	quoter := shipping.NewQuoter(shipping.NewCalculator(shipping.DefaultRateTable(), shipping.HubPostalCode), nil)
	quotes := shippingapp.NewApplicationService(quoter, products, users, lines, clock)
	placer := checkout.NewApplicationService(uows, orders, products, users, lines, carts.Ledger(), quotes,
		decimal.RequireFromString("0.10"), clock)
	orderSvc := orderapp.NewApplicationService(uows, orders, products, clock)
	payments := paymentapp.NewApplicationService(uows, orders, mocks.NewPaymentRepository(store),
		payment.SimulatedGateway{}, orderSvc, clock)

	cfg := &config.Config{
		App: config.AppConfig{Name: "posimarket", Version: "test", Env: "test"},
		CORS: config.CORSConfig{
			AllowOrigins: []string{"https://posimarket.example"},
			AllowMethods: []string{"GET", "POST"},
			AllowHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:       600,
		},
	}
	auth := middleware.NewAuthenticator(secret)
	router := api.NewRouter(cfg, auth, limiter, api.Controllers{
		Health:   health.NewController(cfg, map[string]health.Pinger{"database": store}),
		Cart:     cartctl.NewController(carts),
		Shipping: shippingctl.NewController(quotes),
		Checkout: checkoutctl.NewController(placer),
		Order:    orderctl.NewController(orderSvc),
		Payment:  paymentctl.NewController(payments),
	})
	router.SetupRoutes()

	return &server{t: t, engine: router.GetEngine(), auth: auth, store: store}
}

func (s *server) token(userID, role string) string {
	s.t.Helper()
	tok, err := s.auth.Issue(userID, role, time.Hour)
	if err != nil {
		s.t.Fatalf("Issue() error = %v", err)
	}
	return tok
}

func (s *server) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("%s %s: decode response %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode data %s: %v", raw, err)
	}
	return v
}

func TestCheckoutAndPaymentOverHTTP(t *testing.T) {
	s := newServer(t, nil)
	buyer := s.token("buyer", "")

	w, env := s.do(http.MethodPost, "/api/v1/cart/items", buyer, map[string]any{"product_id": "pens", "quantity": 3})
	if w.Code != http.StatusCreated || !env.Success {
		t.Fatalf("reserve = %d %+v", w.Code, env)
	}
	if env.RequestID == "" || w.Header().Get(middleware.RequestIDHeader) != env.RequestID {
		t.Errorf("request id header %q, body %q", w.Header().Get(middleware.RequestIDHeader), env.RequestID)
	}

	w, env = s.do(http.MethodGet, "/api/v1/products/pens/availability", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("availability = %d %+v", w.Code, env)
	}
	if got := decode[cartapp.AvailabilityResponse](t, env.Data); got.Available != 7 {
		t.Errorf("available = %d, want 7", got.Available)
	}

	w, env = s.do(http.MethodPost, "/api/v1/shipping/quotes", buyer, map[string]any{"destination_postal_code": "05409-000"})
	if w.Code != http.StatusOK {
		t.Fatalf("quote = %d %+v", w.Code, env)
	}
	quote := decode[struct {
		Groups []struct {
			SellerID string `json:"seller_id"`
		} `json:"groups"`
	}](t, env.Data)
	if len(quote.Groups) != 1 || quote.Groups[0].SellerID != "escola" {
		t.Errorf("quote groups = %+v", quote.Groups)
	}

	w, env = s.do(http.MethodPost, "/api/v1/orders", buyer, map[string]any{
		"items":            []map[string]any{{"product_id": "pens", "seller_id": "escola", "quantity": 3}},
		"delivery_address": map[string]any{"street": "Rua A", "city": "São Paulo", "state": "SP", "postal_code": "05409-000"},
		"shipping":         map[string]string{"escola": "STANDARD"},
		"payment_method":   "PIX",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("place order = %d %+v", w.Code, env)
	}
	placed := decode[struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Total  string `json:"total"`
	}](t, env.Data)
	if placed.Status != "PENDING_PAYMENT" {
		t.Errorf("status = %s", placed.Status)
	}

	w, env = s.do(http.MethodPost, "/api/v1/orders/"+placed.ID+"/payments", buyer, map[string]any{"method": "PIX", "amount": placed.Total})
	if w.Code != http.StatusCreated {
		t.Fatalf("pay = %d %+v", w.Code, env)
	}
	paid := decode[paymentapp.PaymentResponse](t, env.Data)
	if paid.Status != "APPROVED" || paid.OrderStatus != "PROCESSING" {
		t.Errorf("payment = %+v", paid)
	}

	w, env = s.do(http.MethodPost, "/api/v1/orders/"+placed.ID+"/payments", buyer, map[string]any{"method": "PIX", "amount": placed.Total})
	if w.Code != http.StatusConflict || env.Error != "DUPLICATE_PAYMENT" {
		t.Errorf("second payment = %d %+v", w.Code, env)
	}

	w, env = s.do(http.MethodGet, "/api/v1/orders/"+placed.ID, buyer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get order = %d %+v", w.Code, env)
	}
	got := decode[struct {
		Status    string `json:"status"`
		SubOrders []struct {
			Status string `json:"status"`
		} `json:"sub_orders"`
	}](t, env.Data)
	if got.Status != "PROCESSING" || len(got.SubOrders) != 1 || got.SubOrders[0].Status != "PROCESSING" {
		t.Errorf("order = %+v", got)
	}

	w, env = s.do(http.MethodGet, "/api/v1/seller/orders", s.token("escola", ""), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("seller orders = %d %+v", w.Code, env)
	}
	if subs := decode[[]json.RawMessage](t, env.Data); len(subs) != 1 {
		t.Errorf("seller sees %d sub-orders, want 1", len(subs))
	}
}

func TestErrorResponses(t *testing.T) {
	s := newServer(t, nil)
	buyer := s.token("buyer", "")

	w, env := s.do(http.MethodPost, "/api/v1/orders", buyer, map[string]any{
		"items":            []map[string]any{{"product_id": "pens", "seller_id": "escola", "quantity": 1}},
		"delivery_address": map[string]any{"street": "Rua A", "city": "São Paulo", "state": "SP", "postal_code": "05409-000"},
		"shipping":         map[string]string{"escola": "STANDARD"},
		"payment_method":   "PIX",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("place order = %d %+v", w.Code, env)
	}
	orderID := decode[struct {
		ID string `json:"id"`
	}](t, env.Data).ID

	tests := []struct {
		name      string
		method    string
		path      string
		token     string
		body      any
		wantCode  int
		wantError string
		wantField string
	}{
		{
			name:      "missing token",
			method:    http.MethodGet,
			path:      "/api/v1/cart",
			wantCode:  http.StatusUnauthorized,
			wantError: "UNAUTHORIZED",
		},
		{
			name:      "forged token",
			method:    http.MethodGet,
			path:      "/api/v1/cart",
			token:     "not-a-jwt",
			wantCode:  http.StatusUnauthorized,
			wantError: "UNAUTHORIZED",
		},
		{
			name:      "zero quantity",
			method:    http.MethodPost,
			path:      "/api/v1/cart/items",
			token:     buyer,
			body:      map[string]any{"product_id": "pens", "quantity": 0},
			wantCode:  http.StatusBadRequest,
			wantError: "VALIDATION_ERROR",
			wantField: "quantity",
		},
		{
			name:      "more than in stock",
			method:    http.MethodPost,
			path:      "/api/v1/cart/items",
			token:     buyer,
			body:      map[string]any{"product_id": "pens", "quantity": 20},
			wantCode:  http.StatusConflict,
			wantError: "INSUFFICIENT_STOCK",
		},
		{
			name:      "unknown product",
			method:    http.MethodGet,
			path:      "/api/v1/products/ghost/availability",
			wantCode:  http.StatusNotFound,
			wantError: "PRODUCT_NOT_FOUND",
		},
		{
			name:      "bad postal code",
			method:    http.MethodPost,
			path:      "/api/v1/shipping/quotes",
			token:     buyer,
			body:      map[string]any{"destination_postal_code": "12-34"},
			wantCode:  http.StatusBadRequest,
			wantError: "INVALID_POSTAL_CODE",
			wantField: "destination_postal_code",
		},
		{
			name:      "order of someone else",
			method:    http.MethodGet,
			path:      "/api/v1/orders/" + orderID,
			token:     s.token("stranger", ""),
			wantCode:  http.StatusNotFound,
			wantError: "ORDER_NOT_FOUND",
		},
		{
			name:      "skipping a state",
			method:    http.MethodPost,
			path:      "/api/v1/orders/" + orderID + "/status",
			token:     s.token("ops", middleware.RoleAdmin),
			body:      map[string]any{"status": "SHIPPED"},
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "INVALID_TRANSITION",
		},
		{
			name:      "buyer skips payment",
			method:    http.MethodPost,
			path:      "/api/v1/orders/" + orderID + "/status",
			token:     buyer,
			body:      map[string]any{"status": "PROCESSING"},
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "PAYMENT_REQUIRED",
			wantField: "status",
		},
		{
			name:      "wrong amount",
			method:    http.MethodPost,
			path:      "/api/v1/orders/" + orderID + "/payments",
			token:     buyer,
			body:      map[string]any{"method": "PIX", "amount": "1.00"},
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "PAYMENT_AMOUNT_MISMATCH",
		},
		{
			name:      "malformed body",
			method:    http.MethodPost,
			path:      "/api/v1/orders/" + orderID + "/status",
			token:     buyer,
			body:      "cancel please",
			wantCode:  http.StatusBadRequest,
			wantError: "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := s.do(tt.method, tt.path, tt.token, tt.body)
			if w.Code != tt.wantCode || env.Code != tt.wantCode {
				t.Errorf("status = %d (body code %d), want %d: %s", w.Code, env.Code, tt.wantCode, w.Body.String())
			}
			if env.Success || env.Error != tt.wantError {
				t.Errorf("error = %q, want %q", env.Error, tt.wantError)
			}
			if tt.wantField != "" && env.Field != tt.wantField {
				t.Errorf("field = %q, want %q", env.Field, tt.wantField)
			}
		})
	}
}

func TestAdminCancelsOrder(t *testing.T) {
	s := newServer(t, nil)

	w, env := s.do(http.MethodPost, "/api/v1/orders", s.token("buyer", ""), map[string]any{
		"items":            []map[string]any{{"product_id": "pens", "seller_id": "escola", "quantity": 4}},
		"delivery_address": map[string]any{"street": "Rua A", "city": "São Paulo", "state": "SP", "postal_code": "05409-000"},
		"shipping":         map[string]string{"escola": "STANDARD"},
		"payment_method":   "BOLETO",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("place order = %d %+v", w.Code, env)
	}
	orderID := decode[struct {
		ID string `json:"id"`
	}](t, env.Data).ID

	w, env = s.do(http.MethodPost, "/api/v1/orders/"+orderID+"/status", s.token("ops", middleware.RoleAdmin),
		map[string]any{"status": "CANCELLED", "note": "fraud check"})
	if w.Code != http.StatusOK {
		t.Fatalf("cancel = %d %+v", w.Code, env)
	}
	got := decode[struct {
		Status       string `json:"status"`
		CancelReason string `json:"cancel_reason"`
	}](t, env.Data)
	if got.Status != "CANCELLED" || got.CancelReason != "fraud check" {
		t.Errorf("order = %+v", got)
	}

	_, env = s.do(http.MethodGet, "/api/v1/products/pens/availability", "", nil)
	if a := decode[cartapp.AvailabilityResponse](t, env.Data); a.Available != 10 {
		t.Errorf("available after cancel = %d, want 10", a.Available)
	}
}

func TestHealthAndCORS(t *testing.T) {
	s := newServer(t, nil)

	w, _ := s.do(http.MethodGet, "/api/v1/health/ready", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("ready = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cart", nil)
	req.Header.Set("Origin", "https://posimarket.example")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Errorf("max age = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://posimarket.example" {
		t.Errorf("allow origin = %q", got)
	}
}

func TestRateLimit(t *testing.T) {
	s := newServer(t, ratelimit.NewLocalLimiter(0.001, 2))

	for i := 0; i < 2; i++ {
		if w, _ := s.do(http.MethodGet, "/api/v1/health/live", "", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i, w.Code)
		}
	}
	w, env := s.do(http.MethodGet, "/api/v1/health/live", "", nil)
	if w.Code != http.StatusTooManyRequests || env.Error != "TOO_MANY_REQUESTS" {
		t.Errorf("third request = %d %+v", w.Code, env)
	}
}
