package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
	"github.com/rl1809/jewelry-storefront/internal/port"
)

var errERPDown = errors.New("ERP JSON-RPC error")

// fakeERP records every call and lets tests inject failures per method.
type fakeERP struct {
	mu     sync.Mutex
	calls  []string
	nextID int64

	partnersByEmail map[string]int64
	templates       map[string]int64
	variants        map[int64]int64
	// variantMisses makes FindVariantByTemplate report "not found" this many
	// times before answering.
	variantMisses int

	pickings   []domain.Picking
	invoiceIDs []int64

	orders         []domain.SalesOrderDraft
	partners       []domain.PartnerDraft
	templateDrafts []domain.ProductTemplateDraft
	attachments    []domain.Attachment
	cancelled      []int64
	posted         [][]int64

	failOn map[string]error
	// validateFailures is how many ValidatePicking calls fail per picking.
	validateFailures map[int64]int
}

func newFakeERP() *fakeERP {
	return &fakeERP{
		nextID:           100,
		partnersByEmail:  make(map[string]int64),
		templates:        make(map[string]int64),
		variants:         make(map[int64]int64),
		failOn:           make(map[string]error),
		validateFailures: make(map[int64]int),
	}
}

var _ port.ERPGateway = (*fakeERP)(nil)

func (f *fakeERP) record(call string) error {
	f.calls = append(f.calls, call)
	return f.failOn[call]
}

func (f *fakeERP) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeERP) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeERP) count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeERP) FindPartnerByEmail(_ context.Context, email string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("FindPartnerByEmail"); err != nil {
		return 0, false, err
	}
	id, ok := f.partnersByEmail[email]
	return id, ok, nil
}

func (f *fakeERP) CreatePartner(_ context.Context, draft domain.PartnerDraft) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreatePartner"); err != nil {
		return 0, err
	}
	id := f.id()
	f.partners = append(f.partners, draft)
	if draft.Email != "" {
		f.partnersByEmail[draft.Email] = id
	}
	return id, nil
}

func (f *fakeERP) FindTemplateByName(_ context.Context, name string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("FindTemplateByName"); err != nil {
		return 0, false, err
	}
	id, ok := f.templates[name]
	return id, ok, nil
}

func (f *fakeERP) CreateTemplate(_ context.Context, draft domain.ProductTemplateDraft) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateTemplate"); err != nil {
		return 0, err
	}
	id := f.id()
	f.templates[draft.Name] = id
	f.variants[id] = id + 1000
	f.templateDrafts = append(f.templateDrafts, draft)
	return id, nil
}

func (f *fakeERP) FindVariantByTemplate(_ context.Context, templateID int64) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("FindVariantByTemplate"); err != nil {
		return 0, false, err
	}
	if f.variantMisses > 0 {
		f.variantMisses--
		return 0, false, nil
	}
	id, ok := f.variants[templateID]
	return id, ok, nil
}

func (f *fakeERP) CreateSalesOrder(_ context.Context, draft domain.SalesOrderDraft) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateSalesOrder"); err != nil {
		return 0, err
	}
	f.orders = append(f.orders, draft)
	return f.id(), nil
}

func (f *fakeERP) ConfirmSalesOrder(_ context.Context, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record("ConfirmSalesOrder")
}

func (f *fakeERP) CancelSalesOrder(ctx context.Context, orderID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.record("CancelSalesOrder"); err != nil {
		return err
	}
	f.cancelled = append(f.cancelled, orderID)
	return nil
}

func (f *fakeERP) CreateInvoices(ctx context.Context, _ int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.record("CreateInvoices"); err != nil {
		return nil, err
	}
	return f.invoiceIDs, nil
}

func (f *fakeERP) PostInvoices(_ context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("PostInvoices"); err != nil {
		return err
	}
	f.posted = append(f.posted, ids)
	return nil
}

func (f *fakeERP) ListPickings(_ context.Context, _ int64) ([]domain.Picking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListPickings"); err != nil {
		return nil, err
	}
	return f.pickings, nil
}

func (f *fakeERP) ValidatePicking(_ context.Context, pickingID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(fmt.Sprintf("ValidatePicking:%d", pickingID)); err != nil {
		return err
	}
	if f.validateFailures[pickingID] > 0 {
		f.validateFailures[pickingID]--
		return fmt.Errorf("picking %d not ready", pickingID)
	}
	return nil
}

func (f *fakeERP) ReservePicking(_ context.Context, pickingID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record(fmt.Sprintf("ReservePicking:%d", pickingID))
}

func (f *fakeERP) CreateAttachment(ctx context.Context, a domain.Attachment) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := f.record("CreateAttachment"); err != nil {
		return 0, err
	}
	f.attachments = append(f.attachments, a)
	return f.id(), nil
}

type fakeRenderer struct {
	labels []domain.ShippingLabel
	err    error
}

func (r *fakeRenderer) RenderLabel(label domain.ShippingLabel) ([]byte, error) {
	r.labels = append(r.labels, label)
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-fake"), nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []port.MailMessage
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg port.MailMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, msg)
	return fmt.Sprintf("<%d@test>", len(m.sent)), nil
}

type fakeCache struct {
	mu       sync.Mutex
	keys     map[string]bool
	released []string
	err      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{keys: make(map[string]bool)}
}

func (c *fakeCache) SetIdempotency(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	if c.keys[key] {
		return false, nil
	}
	c.keys[key] = true
	return true, nil
}

func (c *fakeCache) ReleaseIdempotency(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.keys, key)
	c.released = append(c.released, key)
	return nil
}

type recorderFunc func(domain.Submission)

func (f recorderFunc) Record(s domain.Submission) { f(s) }
