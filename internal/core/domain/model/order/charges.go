package order

import (
	"fmt"

	"washline/internal/pkg/errs"
)

// Charges is a value object holding the monetary breakdown of an order.
// All amounts are integer cents; TotalCents is always the sum of the parts.
type Charges struct {
	SubtotalCents    int64
	DeliveryFeeCents int64
	ExpressFeeCents  int64
	TaxCents         int64
	TotalCents       int64
}

// NewCharges builds a Charges value from its components and computes the total.
// All components must be non-negative.
func NewCharges(subtotalCents, deliveryFeeCents, expressFeeCents, taxCents int64) (Charges, error) {
	c := Charges{
		SubtotalCents:    subtotalCents,
		DeliveryFeeCents: deliveryFeeCents,
		ExpressFeeCents:  expressFeeCents,
		TaxCents:         taxCents,
		TotalCents:       subtotalCents + deliveryFeeCents + expressFeeCents + taxCents,
	}
	if err := c.Validate(); err != nil {
		return Charges{}, err
	}
	return c, nil
}

// RestoreCharges rebuilds a Charges value from persistence without recomputing the total.
func RestoreCharges(subtotalCents, deliveryFeeCents, expressFeeCents, taxCents, totalCents int64) (Charges, error) {
	c := Charges{
		SubtotalCents:    subtotalCents,
		DeliveryFeeCents: deliveryFeeCents,
		ExpressFeeCents:  expressFeeCents,
		TaxCents:         taxCents,
		TotalCents:       totalCents,
	}
	if err := c.Validate(); err != nil {
		return Charges{}, err
	}
	return c, nil
}

// Validate checks that no component is negative and that the total equals the
// sum of the components.
func (c Charges) Validate() error {
	for name, v := range map[string]int64{
		"subtotal_cents":     c.SubtotalCents,
		"delivery_fee_cents": c.DeliveryFeeCents,
		"express_fee_cents":  c.ExpressFeeCents,
		"tax_cents":          c.TaxCents,
	} {
		if v < 0 {
			return errs.NewValueIsInvalidErrorWithCause(name,
				fmt.Errorf("%d is negative", v))
		}
	}

	sum := c.SubtotalCents + c.DeliveryFeeCents + c.ExpressFeeCents + c.TaxCents
	if c.TotalCents != sum {
		return errs.NewValueIsInvalidErrorWithCause("total_cents",
			fmt.Errorf("%d does not equal the component sum %d", c.TotalCents, sum))
	}
	return nil
}
