package erp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	modelPartner         = "res.partner"
	modelProductTemplate = "product.template"
	modelProductVariant  = "product.product"
	modelSaleOrder       = "sale.order"
	modelInvoice         = "account.move"
	modelPicking         = "stock.picking"
	modelAttachment      = "ir.attachment"
)

// CreatedID is the id returned by a create call. The ERP answers either
// with the id or with a one-element list depending on how values were sent.
type CreatedID int64

func (c *CreatedID) UnmarshalJSON(data []byte) error {
	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		*c = CreatedID(id)
		return nil
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("unexpected create result %s", data)
	}
	if len(ids) == 0 {
		return errors.New("create returned no id")
	}
	*c = CreatedID(ids[0])
	return nil
}

// IDList accepts a list of ids, a single id, or false/null for none.
type IDList []int64

func (l *IDList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("false")) {
		*l = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(trimmed, &id); err == nil {
		*l = IDList{id}
		return nil
	}
	var ids []int64
	if err := json.Unmarshal(trimmed, &ids); err != nil {
		return fmt.Errorf("unexpected id list %s", data)
	}
	*l = ids
	return nil
}

// money renders a decimal as a JSON number without float rounding.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

type condition [3]any

func eq(field string, value any) condition {
	return condition{field, "=", value}
}

type idRecord struct {
	ID int64 `json:"id"`
}

type pickingRecord struct {
	ID    int64  `json:"id"`
	State string `json:"state"`
}

type partnerValues struct {
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Street       string `json:"street,omitempty"`
	City         string `json:"city,omitempty"`
	Zip          string `json:"zip,omitempty"`
	CustomerRank int    `json:"customer_rank"`
}

type productTemplateValues struct {
	Name       string      `json:"name"`
	ListPrice  json.Number `json:"list_price"`
	Type       string      `json:"type"`
	SaleOK     bool        `json:"sale_ok"`
	PurchaseOK bool        `json:"purchase_ok"`
}

type orderLineValues struct {
	ProductID     *int64      `json:"product_id"`
	Name          string      `json:"name"`
	ProductUomQty int         `json:"product_uom_qty"`
	PriceUnit     json.Number `json:"price_unit"`
}

// createLine is the ERP's one-to-many "create" command: (0, 0, values).
type createLine struct {
	Values orderLineValues
}

func (c createLine) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{0, 0, c.Values})
}

type saleOrderValues struct {
	PartnerID int64        `json:"partner_id"`
	OrderLine []createLine `json:"order_line"`
	Note      string       `json:"note"`
}

type attachmentValues struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Datas    string `json:"datas"`
	ResModel string `json:"res_model"`
	ResID    int64  `json:"res_id"`
	MimeType string `json:"mimetype"`
}
