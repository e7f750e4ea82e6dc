package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zizozako94-cmyk/soqdz/configs"
	"github.com/zizozako94-cmyk/soqdz/internal/adapter/http/middleware"
	"github.com/zizozako94-cmyk/soqdz/internal/entity"
	"github.com/zizozako94-cmyk/soqdz/internal/ratelimit"
	"github.com/zizozako94-cmyk/soqdz/internal/usecase"
)

type fakeOrderRepo struct {
	created []entity.Order
	err     error
}

func (f *fakeOrderRepo) Create(_ context.Context, o *entity.Order) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *o)
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	for i := range f.created {
		if f.created[i].ID == id {
			return &f.created[i], nil
		}
	}
	return nil, usecase.ErrNotFound
}

func (f *fakeOrderRepo) List(_ context.Context, status entity.Status, limit int) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range f.created {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id string, to entity.Status) error {
	for i := range f.created {
		if f.created[i].ID == id {
			f.created[i].Status = to
			return nil
		}
	}
	return usecase.ErrNotFound
}

type fakeProductRepo struct{ products map[string]*entity.Product }

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, usecase.ErrNotFound
}

type fakeSettingsRepo struct {
	delivery entity.DeliverySettings
	store    entity.StoreSettings
}

func (f *fakeSettingsRepo) DeliverySettings(context.Context) (*entity.DeliverySettings, error) {
	return &f.delivery, nil
}

func (f *fakeSettingsRepo) UpdateDeliverySettings(_ context.Context, s entity.DeliverySettings) (*entity.DeliverySettings, error) {
	f.delivery = s
	return &f.delivery, nil
}

func (f *fakeSettingsRepo) StoreSettings(context.Context) (*entity.StoreSettings, error) {
	return &f.store, nil
}

func (f *fakeSettingsRepo) UpdateStoreSettings(_ context.Context, s entity.StoreSettings) (*entity.StoreSettings, error) {
	f.store = s
	return &f.store, nil
}

type fakePopupRepo struct{ popups []entity.SalesPopup }

func (f *fakePopupRepo) Insert(_ context.Context, p entity.SalesPopup) error {
	f.popups = append(f.popups, p)
	return nil
}

func (f *fakePopupRepo) ListActive(context.Context, int) ([]entity.SalesPopup, error) {
	return f.popups, nil
}

type fakeAdminRepo struct{}

func (fakeAdminRepo) GetByEmail(context.Context, string) (*entity.AdminUser, error) {
	return nil, usecase.ErrNotFound
}

type nopPublisher struct{}

func (nopPublisher) PublishCreated(context.Context, usecase.OrderCreatedMsg) error { return nil }

func testConfig() configs.Config {
	var cfg configs.Config
	cfg.App.HTTPAddr = ":0"
	cfg.MySQL.DSN = "test"
	cfg.Security.JWTSecret = "test-secret"
	cfg.Security.Issuer = "soqdz"
	cfg.Security.Audience = "soqdz-admin"
	cfg.Security.TTL = time.Hour
	return cfg
}

func newTestRouter(t *testing.T, orders *fakeOrderRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	limiter := ratelimit.NewMemoryLimiter(10*time.Minute, 5, 5*time.Minute)
	cfg := testConfig()

	oh := NewOrderHandler(usecase.NewSubmitOrder(orders, nopPublisher{}))
	sh := NewStorefrontHandler(
		&fakeProductRepo{products: map[string]*entity.Product{}},
		&fakeSettingsRepo{delivery: entity.DeliverySettings{HomePrice: 700, OfficePrice: 500}},
		&fakePopupRepo{},
	)
	ah := NewAdminHandler(orders, &fakeSettingsRepo{})
	lh := NewLoginHandler(cfg, fakeAdminRepo{})

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(oh, sh, ah, lh, middleware.NewAuthz(cfg), middleware.RateLimit(limiter), log)
}

func validOrderBody() map[string]any {
	return map[string]any{
		"customer_name":  "Amine Benali",
		"phone":          "0551234567",
		"wilaya":         "Alger",
		"commune":        "Bab El Oued",
		"delivery_type":  "office",
		"product_price":  9200,
		"delivery_price": 500,
		"total_price":    9700,
	}
}

func postOrder(r *gin.Engine, body any, ip string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitOrder_Created(t *testing.T) {
	orders := &fakeOrderRepo{}
	r := newTestRouter(t, orders)

	w := postOrder(r, validOrderBody(), "203.0.113.7")

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		OrderID string `json:"orderId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.OrderID)

	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	require.Len(t, orders.created, 1)
	assert.Equal(t, entity.StatusPending, orders.created[0].Status)
	assert.Equal(t, 9700.0, orders.created[0].TotalPrice)
}

func TestSubmitOrder_ValidationFailure(t *testing.T) {
	orders := &fakeOrderRepo{}
	r := newTestRouter(t, orders)

	body := validOrderBody()
	body["phone"] = "0441234567"
	body["customer_name"] = "Ab"

	w := postOrder(r, body, "203.0.113.7")

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Equal(t, []string{
		"Customer name must be between 3 and 100 characters",
		"Invalid phone number format",
	}, resp.Details)

	assert.Empty(t, orders.created, "invalid submissions must not be persisted")
}

func TestSubmitOrder_MalformedBody(t *testing.T) {
	orders := &fakeOrderRepo{}
	r := newTestRouter(t, orders)

	req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
	assert.Empty(t, orders.created)
}

func TestSubmitOrder_RateLimited(t *testing.T) {
	orders := &fakeOrderRepo{}
	r := newTestRouter(t, orders)

	for i := 0; i < 5; i++ {
		w := postOrder(r, validOrderBody(), "203.0.113.7")
		require.Equal(t, http.StatusCreated, w.Code, "request %d", i+1)
	}

	w := postOrder(r, validOrderBody(), "203.0.113.7")
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp struct {
		Error   string `json:"error"`
		ResetIn int    `json:"resetIn"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Too many orders. Please try again later.", resp.Error)
	assert.Greater(t, resp.ResetIn, 0)
	assert.Equal(t, "600", w.Header().Get("Retry-After"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	assert.Len(t, orders.created, 5, "the sixth submission must not be persisted")
}

func TestSubmitOrder_ValidationFailureStillConsumesQuota(t *testing.T) {
	orders := &fakeOrderRepo{}
	r := newTestRouter(t, orders)

	bad := validOrderBody()
	bad["phone"] = "bad"
	for i := 0; i < 5; i++ {
		w := postOrder(r, bad, "203.0.113.7")
		require.Equal(t, http.StatusBadRequest, w.Code)
	}

	// Quota is spent even though nothing was persisted.
	w := postOrder(r, validOrderBody(), "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Empty(t, orders.created)
}

func TestSubmitOrder_DistinctIPsDoNotShareQuota(t *testing.T) {
	orders := &fakeOrderRepo{}
	r := newTestRouter(t, orders)

	for i := 0; i < 5; i++ {
		postOrder(r, validOrderBody(), "203.0.113.7")
	}

	w := postOrder(r, validOrderBody(), "198.51.100.1")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSubmitOrder_MissingIPHeadersShareUnknownBucket(t *testing.T) {
	orders := &fakeOrderRepo{}
	r := newTestRouter(t, orders)

	for i := 0; i < 5; i++ {
		w := postOrder(r, validOrderBody(), "")
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := postOrder(r, validOrderBody(), "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestSubmitOrder_PersistenceFailure(t *testing.T) {
	orders := &fakeOrderRepo{err: errors.New("db gone")}
	r := newTestRouter(t, orders)

	w := postOrder(r, validOrderBody(), "203.0.113.7")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to create order"}`, w.Body.String(),
		"internal detail must not leak")
}

func TestPreflight(t *testing.T) {
	r := newTestRouter(t, &fakeOrderRepo{})

	req := httptest.NewRequest(http.MethodOptions, "/v1/orders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type",
		w.Header().Get("Access-Control-Allow-Headers"))
}

func TestXForwardedForFirstHopWins(t *testing.T) {
	orders := &fakeOrderRepo{}
	r := newTestRouter(t, orders)

	for i := 0; i < 5; i++ {
		raw, _ := json.Marshal(validOrderBody())
		req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// Same client behind a different second hop still hits the same bucket.
	raw, _ := json.Marshal(validOrderBody())
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
