package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
	"github.com/rl1809/jewelry-storefront/internal/core/service"
	"github.com/rl1809/jewelry-storefront/internal/httpx"
	"github.com/rl1809/jewelry-storefront/internal/port"
)

const maxRequestBody = 2 << 20

type OrderSubmitter interface {
	Submit(ctx context.Context, req domain.SubmitRequest, idempotencyKey string) (domain.SubmitResult, error)
}

type Catalog interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (domain.Product, error)
	Update(ctx context.Context, id int64, in domain.ProductInput) (domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type MailSender interface {
	Send(ctx context.Context, msg port.MailMessage) (string, error)
}

type HTTPHandler struct {
	orders            OrderSubmitter
	catalog           Catalog
	mail              MailSender
	erpURL            string
	idempotencyHeader string
}

func NewHTTPHandler(orders OrderSubmitter, catalog Catalog, mail MailSender, erpURL, idempotencyHeader string) *HTTPHandler {
	if idempotencyHeader == "" {
		idempotencyHeader = "Idempotency-Key"
	}
	return &HTTPHandler{
		orders:            orders,
		catalog:           catalog,
		mail:              mail,
		erpURL:            erpURL,
		idempotencyHeader: idempotencyHeader,
	}
}

// Routes registers the /api endpoints.
func (h *HTTPHandler) Routes(r chi.Router) {
	r.Get("/", h.APIRoot)
	r.Get("/health", h.Health)

	r.Post("/orders/from-cart", h.SubmitOrder)

	r.Get("/products", h.ListProducts)
	r.Post("/products", h.CreateProduct)
	r.Put("/products/{id}", h.UpdateProduct)
	r.Delete("/products/{id}", h.DeleteProduct)

	r.Post("/email/send", h.SendEmail)
}

type EmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

type EmailResponse struct {
	MessageID string `json:"messageId"`
}

func (h *HTTPHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.SubmitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.orders.Submit(ctx, req, r.Header.Get(h.idempotencyHeader))
	if err != nil {
		status := http.StatusInternalServerError
		code := "order_failed"

		if errors.Is(err, service.ErrInvalidPayload) {
			status = http.StatusBadRequest
			code = "invalid_payload"
		} else if errors.Is(err, service.ErrDuplicateRequest) {
			status = http.StatusConflict
			code = "duplicate_request"
		}

		httpx.WriteError(ctx, w, httpx.NewError(code, err.Error(), status))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, result)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("catalog_error", err.Error(), http.StatusInternalServerError))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in domain.ProductInput
	if !decodeBody(w, r, &in) {
		return
	}
	product, err := h.catalog.Create(r.Context(), in)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, product)
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	var in domain.ProductInput
	if !decodeBody(w, r, &in) {
		return
	}
	product, err := h.catalog.Update(r.Context(), id, in)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, product)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		writeCatalogError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *HTTPHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req EmailRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.To) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "to is required", http.StatusBadRequest))
		return
	}

	id, err := h.mail.Send(ctx, port.MailMessage{To: req.To, Subject: req.Subject, Text: req.Text, HTML: req.HTML})
	if err != nil {
		if errors.Is(err, service.ErrMailNotConfigured) {
			httpx.WriteError(ctx, w, httpx.NewError("mail_unavailable", err.Error(), http.StatusBadRequest))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("mail_failed", err.Error(), http.StatusInternalServerError))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, EmailResponse{MessageID: id})
}

func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "erpUrl": h.erpURL})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) APIRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("API root. See GET /api/health"))
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "request body must be valid JSON", status))
		return false
	}
	return true
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "product id must be numeric", http.StatusBadRequest))
		return 0, false
	}
	return id, true
}

func writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrProductNotFound) {
		httpx.WriteError(r.Context(), w, httpx.NewError("not_found", "Product not found", http.StatusNotFound))
		return
	}
	httpx.WriteError(r.Context(), w, httpx.NewError("catalog_error", err.Error(), http.StatusInternalServerError))
}
