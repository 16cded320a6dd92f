package usecase

const (
	FormErrorInvalid  = "invalid"
	FormErrorRequired = "undefined"
)

var cardFieldLabels = map[string]string{
	"number":     "Credit Card Number",
	"expiration": "Credit Card Expiration",
	"cvc":        "Credit Card CVC",
}

// cardFieldOrder is the order messages are reported in.
var cardFieldOrder = []string{"number", "expiration", "cvc"}

// FormErrorMessage returns the checkout message for a card form field.
// Any type other than "invalid" is reported as a missing field.
func FormErrorMessage(field, errType string) string {
	if label, ok := cardFieldLabels[field]; ok {
		field = label
	}
	if errType == FormErrorInvalid {
		return "Please enter a valid " + field + "."
	}
	return field + " is a required field."
}

// ValidateCardForm turns the client-side validation result, keyed by field
// with the error type as value, into checkout messages. Fields with an
// empty type passed validation.
func ValidateCardForm(fieldErrors map[string]string) []string {
	var messages []string
	for _, field := range cardFieldOrder {
		if errType := fieldErrors[field]; errType != "" {
			messages = append(messages, FormErrorMessage(field, errType))
		}
	}
	return messages
}
