package entity

import "strings"

// ChargeKind says what a charge pays for. It feeds the description and
// the order note.
type ChargeKind string

const (
	ChargeKindOrder        ChargeKind = "order"
	ChargeKindSubscription ChargeKind = "subscription"
	ChargeKindRenewal      ChargeKind = "renewal"
)

// IsRecurring reports whether the charge belongs to a subscription.
func (k ChargeKind) IsRecurring() bool {
	return k == ChargeKindSubscription || k == ChargeKindRenewal
}

// ChargeRequest is what the processor is asked to charge.
type ChargeRequest struct {
	OrderID         string `json:"order_id"`
	Amount          int64  `json:"amount"` // minor currency units
	Currency        string `json:"currency"`
	CustomerID      string `json:"customer_id"`
	PaymentMethodID string `json:"payment_method_id"`
	Description     string `json:"description"`
	Capture         bool   `json:"capture"`
	IdempotencyKey  string `json:"idempotency_key"`
	// Extra holds processor parameters contributed by extensions. Keys with
	// ExtraMetadataPrefix become metadata.
	Extra map[string]string `json:"extra,omitempty"`
}

// ExtraMetadataPrefix marks Extra keys that are sent as processor metadata
// rather than as charge parameters, e.g. "metadata.order_id".
const ExtraMetadataPrefix = "metadata."

// reservedExtraKeys can never be supplied through Extra.
var reservedExtraKeys = map[string]struct{}{
	"amount":            {},
	"currency":          {},
	"customer":          {},
	"customer_id":       {},
	"payment_method":    {},
	"payment_method_id": {},
	"card":              {},
	"source":            {},
	"description":       {},
	"capture":           {},
}

// IsReservedExtraKey reports whether key names a field owned by the request.
func IsReservedExtraKey(key string) bool {
	_, ok := reservedExtraKeys[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

// MergeExtra copies fields into the request's Extra, dropping reserved keys.
// Later calls overwrite earlier values for the same key.
func (r *ChargeRequest) MergeExtra(fields map[string]string) {
	for k, v := range fields {
		if IsReservedExtraKey(k) {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]string, len(fields))
		}
		r.Extra[k] = v
	}
}

// ChargeResponse is the processor's view of a created or captured charge.
type ChargeResponse struct {
	ID       string                 `json:"id"`
	Amount   int64                  `json:"amount"`
	Currency string                 `json:"currency"`
	Captured bool                   `json:"captured"`
	Paid     bool                   `json:"paid"`
	Status   string                 `json:"status"`
	Raw      map[string]interface{} `json:"raw,omitempty"`
}

// CaptureRequest captures an earlier authorization. A nil Amount captures
// the full authorized amount.
type CaptureRequest struct {
	ChargeID string `json:"charge_id"`
	Amount   *int64 `json:"amount,omitempty"`
}

// ChargeOutcome is the result of a charge attempt. Either ChargeID is set
// and Err is nil, or the attempt failed.
type ChargeOutcome struct {
	ChargeID string
	Raw      *ChargeResponse
	Reason   string
	Err      error
	// Skipped is set when nothing had to be charged.
	Skipped bool
}

func (o *ChargeOutcome) Succeeded() bool {
	return o != nil && o.Err == nil
}

func Success(resp *ChargeResponse) *ChargeOutcome {
	return &ChargeOutcome{ChargeID: resp.ID, Raw: resp}
}

func Failure(err error) *ChargeOutcome {
	return &ChargeOutcome{Reason: err.Error(), Err: err}
}
