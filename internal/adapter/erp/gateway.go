package erp

import (
	"context"
	"encoding/base64"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
)

func (c *Client) findOne(ctx context.Context, model string, cond condition) (int64, bool, error) {
	var records []idRecord
	err := c.Invoke(ctx, model, "search_read", []any{[]condition{cond}}, map[string]any{
		"fields": []string{"id"},
		"limit":  1,
	}, &records)
	if err != nil {
		return 0, false, err
	}
	if len(records) == 0 {
		return 0, false, nil
	}
	return records[0].ID, true, nil
}

func (c *Client) create(ctx context.Context, model string, values any) (int64, error) {
	var id CreatedID
	if err := c.Invoke(ctx, model, "create", []any{[]any{values}}, nil, &id); err != nil {
		return 0, err
	}
	return int64(id), nil
}

// action runs a button-style method on a set of records, ignoring its result.
func (c *Client) action(ctx context.Context, model, method string, ids ...int64) error {
	return c.Invoke(ctx, model, method, []any{ids}, nil, nil)
}

func (c *Client) FindPartnerByEmail(ctx context.Context, email string) (int64, bool, error) {
	return c.findOne(ctx, modelPartner, eq("email", email))
}

func (c *Client) CreatePartner(ctx context.Context, draft domain.PartnerDraft) (int64, error) {
	return c.create(ctx, modelPartner, partnerValues{
		Name:         draft.Name,
		Email:        draft.Email,
		Street:       draft.Street,
		City:         draft.City,
		Zip:          draft.Zip,
		CustomerRank: 1,
	})
}

func (c *Client) FindTemplateByName(ctx context.Context, name string) (int64, bool, error) {
	return c.findOne(ctx, modelProductTemplate, eq("name", name))
}

func (c *Client) CreateTemplate(ctx context.Context, draft domain.ProductTemplateDraft) (int64, error) {
	return c.create(ctx, modelProductTemplate, productTemplateValues{
		Name:       draft.Name,
		ListPrice:  money(draft.ListPrice),
		Type:       "consu",
		SaleOK:     true,
		PurchaseOK: true,
	})
}

func (c *Client) FindVariantByTemplate(ctx context.Context, templateID int64) (int64, bool, error) {
	return c.findOne(ctx, modelProductVariant, eq("product_tmpl_id", templateID))
}

func (c *Client) CreateSalesOrder(ctx context.Context, draft domain.SalesOrderDraft) (int64, error) {
	lines := make([]createLine, 0, len(draft.Lines))
	for _, l := range draft.Lines {
		lines = append(lines, createLine{Values: orderLineValues{
			ProductID:     l.VariantID,
			Name:          l.Name,
			ProductUomQty: l.Quantity,
			PriceUnit:     money(l.UnitPrice),
		}})
	}
	return c.create(ctx, modelSaleOrder, saleOrderValues{
		PartnerID: draft.PartnerID,
		OrderLine: lines,
		Note:      draft.Note,
	})
}

func (c *Client) ConfirmSalesOrder(ctx context.Context, orderID int64) error {
	return c.action(ctx, modelSaleOrder, "action_confirm", orderID)
}

func (c *Client) CancelSalesOrder(ctx context.Context, orderID int64) error {
	return c.action(ctx, modelSaleOrder, "action_cancel", orderID)
}

func (c *Client) CreateInvoices(ctx context.Context, orderID int64) ([]int64, error) {
	var ids IDList
	if err := c.Invoke(ctx, modelSaleOrder, "_create_invoices", []any{[]int64{orderID}}, nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) PostInvoices(ctx context.Context, invoiceIDs []int64) error {
	return c.action(ctx, modelInvoice, "action_post", invoiceIDs...)
}

func (c *Client) ListPickings(ctx context.Context, orderID int64) ([]domain.Picking, error) {
	var records []pickingRecord
	err := c.Invoke(ctx, modelPicking, "search_read", []any{[]condition{eq("sale_id", orderID)}}, map[string]any{
		"fields": []string{"id", "state"},
	}, &records)
	if err != nil {
		return nil, err
	}
	pickings := make([]domain.Picking, 0, len(records))
	for _, r := range records {
		pickings = append(pickings, domain.Picking{ID: r.ID, State: r.State})
	}
	return pickings, nil
}

func (c *Client) ValidatePicking(ctx context.Context, pickingID int64) error {
	return c.action(ctx, modelPicking, "button_validate", pickingID)
}

func (c *Client) ReservePicking(ctx context.Context, pickingID int64) error {
	return c.action(ctx, modelPicking, "action_assign", pickingID)
}

func (c *Client) CreateAttachment(ctx context.Context, a domain.Attachment) (int64, error) {
	return c.create(ctx, modelAttachment, attachmentValues{
		Name:     a.Name,
		Type:     "binary",
		Datas:    base64.StdEncoding.EncodeToString(a.Data),
		ResModel: a.ResModel,
		ResID:    a.ResID,
		MimeType: a.MimeType,
	})
}
