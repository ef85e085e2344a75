package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// UnmarshalJSON accepts the storefront cart shape, which sends the line
// price as "price", as well as "unitPrice".
func (c *CartItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name      string           `json:"name"`
		Quantity  int              `json:"quantity"`
		UnitPrice *decimal.Decimal `json:"unitPrice"`
		Price     *decimal.Decimal `json:"price"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Name = raw.Name
	c.Quantity = raw.Quantity
	switch {
	case raw.UnitPrice != nil:
		c.UnitPrice = *raw.UnitPrice
	case raw.Price != nil:
		c.UnitPrice = *raw.Price
	default:
		c.UnitPrice = decimal.Zero
	}
	return nil
}

func (c CartItem) Valid() bool {
	return strings.TrimSpace(c.Name) != "" && c.Quantity >= 1 && !c.UnitPrice.IsNegative()
}

type CustomerInput struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

// DisplayName is "first last" trimmed, then the free-form name, then "Customer".
func (c CustomerInput) DisplayName() string {
	full := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if full != "" {
		return full
	}
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return "Customer"
}

// RecipientName is the name printed on a shipping label.
func (c CustomerInput) RecipientName() string {
	if strings.TrimSpace(c.FirstName) != "" {
		return strings.TrimSpace(c.FirstName + " " + c.LastName)
	}
	return strings.TrimSpace(c.Name)
}

// AddressLines returns the non-empty postal address parts, one per line.
func (c CustomerInput) AddressLines() []string {
	parts := []string{c.Address, c.City, c.State, c.ZipCode, c.Country}
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, p)
		}
	}
	return lines
}
