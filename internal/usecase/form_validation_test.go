package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wekeepgrowing/charge-orchestrator/internal/usecase"
)

func TestFormErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		errType string
		want    string
	}{
		{"invalid number", "number", "invalid", "Please enter a valid Credit Card Number."},
		{"missing expiration", "expiration", "undefined", "Credit Card Expiration is a required field."},
		{"missing cvc", "cvc", "", "Credit Card CVC is a required field."},
		{"unknown field keeps name", "Postcode", "invalid", "Please enter a valid Postcode."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usecase.FormErrorMessage(tt.field, tt.errType))
		})
	}
}

func TestValidateCardForm(t *testing.T) {
	messages := usecase.ValidateCardForm(map[string]string{
		"cvc":    "undefined",
		"number": "invalid",
	})

	assert.Equal(t, []string{
		"Please enter a valid Credit Card Number.",
		"Credit Card CVC is a required field.",
	}, messages)

	assert.Empty(t, usecase.ValidateCardForm(map[string]string{}))
}
