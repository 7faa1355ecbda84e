// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"ledgerpos/internal/core/types"
)

// BalanceResponse is a party balance.
type BalanceResponse struct {
	Balance types.Money `json:"balance"`
}

// HealthResponse is returned by the health probes.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules on gin's validator:
// money_gt0 accepts a strictly positive decimal amount.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("money_gt0", moneyGreaterThanZero)
	})
}

// decimalValue exposes a decimal to the validator as its string form.
func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func moneyGreaterThanZero(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	d, err := decimal.NewFromString(field.String())
	if err != nil {
		return false
	}
	return d.IsPositive()
}
