package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
	"github.com/rl1809/jewelry-storefront/internal/core/service"
	"github.com/rl1809/jewelry-storefront/internal/port"
)

type stubSubmitter struct {
	gotReq domain.SubmitRequest
	gotKey string
	result domain.SubmitResult
	err    error
}

func (s *stubSubmitter) Submit(_ context.Context, req domain.SubmitRequest, key string) (domain.SubmitResult, error) {
	s.gotReq = req
	s.gotKey = key
	return s.result, s.err
}

type stubCatalog struct {
	products []domain.Product
	err      error
	gotID    int64
	gotIn    domain.ProductInput
}

func (c *stubCatalog) List(context.Context) ([]domain.Product, error) {
	return c.products, c.err
}

func (c *stubCatalog) Create(_ context.Context, in domain.ProductInput) (domain.Product, error) {
	c.gotIn = in
	if c.err != nil {
		return domain.Product{}, c.err
	}
	return service.NormalizeProduct(in), nil
}

func (c *stubCatalog) Update(_ context.Context, id int64, in domain.ProductInput) (domain.Product, error) {
	c.gotID = id
	c.gotIn = in
	if c.err != nil {
		return domain.Product{}, c.err
	}
	p := service.NormalizeProduct(in)
	p.ID = id
	return p, nil
}

func (c *stubCatalog) Delete(_ context.Context, id int64) error {
	c.gotID = id
	return c.err
}

type stubMail struct {
	got port.MailMessage
	id  string
	err error
}

func (m *stubMail) Send(_ context.Context, msg port.MailMessage) (string, error) {
	m.got = msg
	return m.id, m.err
}

type testAPI struct {
	orders  *stubSubmitter
	catalog *stubCatalog
	mail    *stubMail
	router  http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	api := &testAPI{orders: &stubSubmitter{}, catalog: &stubCatalog{}, mail: &stubMail{id: "<m1@example.com>"}}
	h := NewHTTPHandler(api.orders, api.catalog, api.mail, "http://erp.test", "")
	api.router = NewRouter(h, RouterConfig{})
	return api
}

func (a *testAPI) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

const cartBody = `{
	"customer": {"email": "a@b.c", "firstName": "Ada"},
	"items": [{"name": "Ring", "quantity": 2, "price": 19.99}],
	"shipping": 5
}`

func TestSubmitOrder_Success(t *testing.T) {
	api := newTestAPI(t)
	invoiceID := int64(900)
	labelID := int64(901)
	api.orders.result = domain.SubmitResult{OrderID: 42, InvoiceID: &invoiceID, LabelAttachmentID: &labelID, TrackingNumber: "TRK1"}

	rec := api.do(http.MethodPost, "/api/orders/from-cart", cartBody, "Idempotency-Key", "abc")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"orderId":42,"invoiceId":900,"labelAttachmentId":901,"trackingNumber":"TRK1"}`, rec.Body.String())
	assert.Equal(t, "abc", api.orders.gotKey)
	require.NotNil(t, api.orders.gotReq.Customer)
	assert.Equal(t, "Ada", api.orders.gotReq.Customer.FirstName)
	require.Len(t, api.orders.gotReq.Items, 1)
	assert.Equal(t, "19.99", api.orders.gotReq.Items[0].UnitPrice.String())
	assert.Equal(t, "5", api.orders.gotReq.ShippingCost.String())
}

func TestSubmitOrder_NullIDsWhenFulfillmentFailed(t *testing.T) {
	api := newTestAPI(t)
	api.orders.result = domain.SubmitResult{OrderID: 42}

	rec := api.do(http.MethodPost, "/api/orders/from-cart", cartBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"orderId":42,"invoiceId":null,"labelAttachmentId":null}`, rec.Body.String())
}

func TestSubmitOrder_ErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "invalid payload",
			err:     &service.RejectedError{Stage: domain.OrderStateReceived, Err: service.ErrInvalidPayload},
			status:  http.StatusBadRequest,
			code:    "invalid_payload",
			message: "invalid payload - customer and items are required",
		},
		{
			name:   "duplicate",
			err:    service.ErrDuplicateRequest,
			status: http.StatusConflict,
			code:   "duplicate_request",
		},
		{
			name:    "erp failure",
			err:     &service.RejectedError{Stage: domain.OrderStateLinesResolved, Err: errors.New("ERP HTTP 502: bad gateway")},
			status:  http.StatusInternalServerError,
			code:    "order_failed",
			message: "ERP HTTP 502: bad gateway",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newTestAPI(t)
			api.orders.err = tc.err

			rec := api.do(http.MethodPost, "/api/orders/from-cart", cartBody)

			require.Equal(t, tc.status, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tc.code, body["error"])
			if tc.message != "" {
				assert.Equal(t, tc.message, body["message"])
			}
		})
	}
}

func TestSubmitOrder_MalformedJSON(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/orders/from-cart", `{"customer":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decode(t, rec)["error"])
}

func TestSubmitOrder_BodyTooLarge(t *testing.T) {
	api := newTestAPI(t)
	body := fmt.Sprintf(`{"note":"%s"}`, strings.Repeat("x", maxRequestBody+1))

	rec := api.do(http.MethodPost, "/api/orders/from-cart", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestProducts(t *testing.T) {
	api := newTestAPI(t)
	api.catalog.products = []domain.Product{{ID: 1, Name: "Ring", Category: "Rings", Images: []string{}, Features: []string{}}}

	rec := api.do(http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Ring", list[0].Name)

	rec = api.do(http.MethodPost, "/api/products", `{"name":"Chain","price":49.5}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Other", decode(t, rec)["category"])

	rec = api.do(http.MethodPut, "/api/products/7", `{"name":"Chain v2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), api.catalog.gotID)
	assert.Equal(t, "Chain v2", api.catalog.gotIn.Name)

	rec = api.do(http.MethodDelete, "/api/products/7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestProducts_NotFoundAndBadID(t *testing.T) {
	api := newTestAPI(t)
	api.catalog.err = fmt.Errorf("delete product 9: %w", domain.ErrProductNotFound)

	rec := api.do(http.MethodDelete, "/api/products/9", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decode(t, rec)["message"])

	rec = api.do(http.MethodPut, "/api/products/abc", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendEmail(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/email/send", `{"to":"a@b.c","subject":"Hi","text":"Hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"messageId":"<m1@example.com>"}`, rec.Body.String())
	assert.Equal(t, port.MailMessage{To: "a@b.c", Subject: "Hi", Text: "Hello"}, api.mail.got)
}

func TestSendEmail_Errors(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/email/send", `{"subject":"Hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	api.mail.err = service.ErrMailNotConfigured
	rec = api.do(http.MethodPost, "/api/email/send", `{"to":"a@b.c"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "SMTP not configured", decode(t, rec)["message"])

	api.mail.err = errors.New("smtp send: 535 auth failed")
	rec = api.do(http.MethodPost, "/api/email/send", `{"to":"a@b.c"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"erpUrl":"http://erp.test"}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/health")
}

func TestErrorEnvelopeCarriesRequestID(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/orders/from-cart", `not json`, "X-Request-Id", "req-123")

	body := decode(t, rec)
	assert.Equal(t, "req-123", body["request_id"])
	assert.EqualValues(t, http.StatusBadRequest, body["status"])
}
