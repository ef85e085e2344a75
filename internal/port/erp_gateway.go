package port

import (
	"context"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
)

// The ERP is split by the record families the order workflow touches.
// A single gateway client implements all of them.

type PartnerDirectory interface {
	FindPartnerByEmail(ctx context.Context, email string) (id int64, found bool, err error)
	CreatePartner(ctx context.Context, draft domain.PartnerDraft) (int64, error)
}

type ProductCatalog interface {
	FindTemplateByName(ctx context.Context, name string) (id int64, found bool, err error)
	CreateTemplate(ctx context.Context, draft domain.ProductTemplateDraft) (int64, error)
	FindVariantByTemplate(ctx context.Context, templateID int64) (id int64, found bool, err error)
}

type SalesOrders interface {
	CreateSalesOrder(ctx context.Context, draft domain.SalesOrderDraft) (int64, error)
	ConfirmSalesOrder(ctx context.Context, orderID int64) error
	CancelSalesOrder(ctx context.Context, orderID int64) error
}

type Invoicing interface {
	CreateInvoices(ctx context.Context, orderID int64) ([]int64, error)
	PostInvoices(ctx context.Context, invoiceIDs []int64) error
}

type Warehouse interface {
	ListPickings(ctx context.Context, orderID int64) ([]domain.Picking, error)
	ValidatePicking(ctx context.Context, pickingID int64) error
	ReservePicking(ctx context.Context, pickingID int64) error
}

type Attachments interface {
	CreateAttachment(ctx context.Context, attachment domain.Attachment) (int64, error)
}

type ERPGateway interface {
	PartnerDirectory
	ProductCatalog
	SalesOrders
	Invoicing
	Warehouse
	Attachments
}
