package service

import (
	"fmt"

	"checkout-funnel/internal/config"

	"github.com/shopspring/decimal"
)

// PriceTable is the funnel's fixed price points, parsed once at startup.
type PriceTable struct {
	Base      decimal.Decimal
	OrderBump decimal.Decimal
	Upsell    decimal.Decimal
	Downsell  decimal.Decimal
	Currency  string
}

func NewPriceTable(cfg *config.Pricing) (*PriceTable, error) {
	parse := func(name, value string) (decimal.Decimal, error) {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid %s price %q: %w", name, value, err)
		}
		if !d.IsPositive() {
			return decimal.Zero, fmt.Errorf("%s price must be positive, got %q", name, value)
		}
		return d, nil
	}

	base, err := parse("base", cfg.Base)
	if err != nil {
		return nil, err
	}
	bump, err := parse("order bump", cfg.OrderBump)
	if err != nil {
		return nil, err
	}
	upsell, err := parse("upsell", cfg.Upsell)
	if err != nil {
		return nil, err
	}
	downsell, err := parse("downsell", cfg.Downsell)
	if err != nil {
		return nil, err
	}

	return &PriceTable{
		Base:      base,
		OrderBump: bump,
		Upsell:    upsell,
		Downsell:  downsell,
		Currency:  cfg.Currency,
	}, nil
}

// CheckoutTotal is base price plus the order bump when selected.
func (t *PriceTable) CheckoutTotal(includeOrderBump bool) decimal.Decimal {
	if includeOrderBump {
		return t.Base.Add(t.OrderBump)
	}
	return t.Base
}

// amountString formats a price the way the processor expects it.
func amountString(d decimal.Decimal) string {
	return d.StringFixed(2)
}
