package model

type PayerName struct {
	GivenName string `json:"given_name"`
	Surname   string `json:"surname"`
}

type Payer struct {
	PayerID string    `json:"payer_id"`
	Email   string    `json:"email_address"`
	Name    PayerName `json:"name"`
}

type Amount struct {
	Currency string `json:"currency_code"`
	Value    string `json:"value"`
}

type Capture struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	CreateTime string `json:"create_time"`
	Final      bool   `json:"final_capture"`
	Amount     Amount `json:"amount"`
}

type Payments struct {
	Captures []Capture `json:"captures"`
}

type Shipping struct {
	Address map[string]string `json:"address"`
}

type PurchaseUnit struct {
	ReferenceID string   `json:"reference_id"`
	Description string   `json:"description,omitempty"`
	Amount      Amount   `json:"amount"`
	Payments    Payments `json:"payments"`
	Shipping    Shipping `json:"shipping"`
}

// OrderResult is the trimmed order-creation response.
type OrderResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CaptureResult is the capture response subset the funnel consumes.
type CaptureResult struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Payer         Payer          `json:"payer"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
}

// AmountValue returns the first captured amount, falling back to the
// purchase-unit amount when the capture list is empty.
func (r *CaptureResult) AmountValue() string {
	if len(r.PurchaseUnits) == 0 {
		return ""
	}
	unit := r.PurchaseUnits[0]
	if len(unit.Payments.Captures) > 0 {
		return unit.Payments.Captures[0].Amount.Value
	}
	return unit.Amount.Value
}
