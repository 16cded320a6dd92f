package entity

import "time"

// PaymentMethodSummary is the displayable part of a stored card.
type PaymentMethodSummary struct {
	ID       string `json:"id"`
	Last4    string `json:"last4"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
	Brand    string `json:"brand,omitempty"`
}

// CustomerRecord links a storefront user to a processor customer and the
// cards stored for them.
type CustomerRecord struct {
	ID                     int64                  `json:"id"`
	UserID                 string                 `json:"user_id"`
	Mode                   string                 `json:"mode"`
	CustomerID             string                 `json:"customer_id"`
	DefaultPaymentMethodID string                 `json:"default_payment_method_id"`
	PaymentMethods         []PaymentMethodSummary `json:"payment_methods"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
}

// CustomerRecordUpdate carries the fields to change; nil fields are kept.
type CustomerRecordUpdate struct {
	CustomerID             *string
	DefaultPaymentMethodID *string
	PaymentMethods         []PaymentMethodSummary
	ReplacePaymentMethods  bool
}

// Apply writes the set fields of u onto r.
func (u CustomerRecordUpdate) Apply(r *CustomerRecord) {
	if u.CustomerID != nil {
		r.CustomerID = *u.CustomerID
	}
	if u.DefaultPaymentMethodID != nil {
		r.DefaultPaymentMethodID = *u.DefaultPaymentMethodID
	}
	if u.ReplacePaymentMethods {
		r.PaymentMethods = append([]PaymentMethodSummary(nil), u.PaymentMethods...)
	}
}

// PaymentMethodAt returns the card at index, or false when out of range.
func (r *CustomerRecord) PaymentMethodAt(index int) (PaymentMethodSummary, bool) {
	if index < 0 || index >= len(r.PaymentMethods) {
		return PaymentMethodSummary{}, false
	}
	return r.PaymentMethods[index], true
}
