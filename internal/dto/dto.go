package dto

import "checkout-funnel/internal/model"

type CartAmount struct {
	Value        string `json:"value"`
	CurrencyCode string `json:"currency_code,omitempty"`
}

type Cart struct {
	Amount      CartAmount      `json:"amount"`
	Description string          `json:"description,omitempty"`
	Products    *model.Products `json:"products,omitempty"`
}

type CreateOrderRequest struct {
	Cart *Cart `json:"cart"`
}

type CreateOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type CaptureOrderRequest struct {
	OrderID string `json:"orderID"`
	// Checkout form fields, used when the PayPal payer record is missing a
	// name or email.
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	OrderBump bool   `json:"orderBump,omitempty"`
}

type CaptureOrderResponse struct {
	ID            string               `json:"id"`
	Status        string               `json:"status"`
	Payer         model.Payer          `json:"payer"`
	PurchaseUnits []model.PurchaseUnit `json:"purchase_units"`
	Products      model.Products       `json:"products"`
	SessionToken  string               `json:"sessionToken"`
}

type VaultPaymentRequest struct {
	Amount      string `json:"amount"`
	PayerID     string `json:"payerId"`
	Description string `json:"description,omitempty"`
}

type ClientTokenResponse struct {
	ClientToken string `json:"clientToken"`
}

type InvoiceAddress struct {
	Line1      string `json:"address_line_1,omitempty"`
	City       string `json:"admin_area_2,omitempty"`
	State      string `json:"admin_area_1,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country_code,omitempty"`
}

type InvoiceOptions struct {
	CustomNotes string `json:"customNotes,omitempty"`
	SendCopy    bool   `json:"sendCopy,omitempty"`
}

type SendInvoiceRequest struct {
	Email        string          `json:"email"`
	OrderID      string          `json:"orderId"`
	Amount       string          `json:"amount,omitempty"`
	CustomerName string          `json:"customerName,omitempty"`
	FirstName    string          `json:"firstName,omitempty"`
	LastName     string          `json:"lastName,omitempty"`
	Address      *InvoiceAddress `json:"address,omitempty"`
	Options      *InvoiceOptions `json:"options,omitempty"`
}

type SendInvoiceResponse struct {
	Success   bool   `json:"success"`
	InvoiceID string `json:"invoiceId"`
}

type InvoiceCustomizations struct {
	Note  string `json:"note,omitempty"`
	Terms string `json:"terms,omitempty"`
	Memo  string `json:"memo,omitempty"`
}

type CustomizeInvoiceRequest struct {
	InvoiceID      string                 `json:"invoiceId"`
	Customizations *InvoiceCustomizations `json:"customizations"`
}

type LeadRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Source string `json:"source,omitempty"`
}

type SubscribeRequest struct {
	Email string `json:"email"`
}

type SubscribeResponse struct {
	Success         bool   `json:"success"`
	IsNewSubscriber bool   `json:"isNewSubscriber,omitempty"`
	Warning         string `json:"warning,omitempty"`
}

type LeadListResponse struct {
	Leads []*model.Lead `json:"leads"`
}

type DeliverRequest struct {
	Email    string         `json:"email"`
	Name     string         `json:"name,omitempty"`
	Products model.Products `json:"products"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type DownloadLinkResponse struct {
	DownloadLink string `json:"downloadLink"`
	Warning      string `json:"warning,omitempty"`
	Error        string `json:"error,omitempty"`
}

type AdvanceRequest struct {
	Decision string `json:"decision"`
	// PaymentToken overrides the vaulted payer id captured at checkout when
	// the accept path charges the buyer again.
	PaymentToken string `json:"paymentToken,omitempty"`
}

type AdvanceResponse struct {
	Stage        model.Stage    `json:"stage"`
	Products     model.Products `json:"products"`
	SessionToken string         `json:"sessionToken"`
}

type VerifyResponse struct {
	Verified bool           `json:"verified"`
	Stage    model.Stage    `json:"stage"`
	Email    string         `json:"email"`
	Name     string         `json:"name,omitempty"`
	OrderID  string         `json:"orderId"`
	Products model.Products `json:"products"`
}

type CheckEnvResponse struct {
	ClientIDExists       bool `json:"clientIdExists"`
	ClientSecretExists   bool `json:"clientSecretExists"`
	EnvironmentExists    bool `json:"environmentExists"`
	PublicClientIDExists bool `json:"publicClientIdExists"`
}
