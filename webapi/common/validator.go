package common

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/money"
	"github.com/go-playground/validator/v10"
)

// Field messages returned for failed validations.
const (
	MsgAccountNumber = "Account number must consist of only 20 digits"
	MsgAmount        = "Invalid operation amount"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the account_number tag and
// money.Amount support registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if a, ok := field.Interface().(money.Amount); ok {
				return a.Float64()
			}
			return nil
		}, money.Amount{})
		if err := v.RegisterValidation("account_number", func(fl validator.FieldLevel) bool {
			return account.ValidNumber(fl.Field().String())
		}); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// ValidationMessages renders each failed field as "field: message".
func ValidationMessages(errs validator.ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		out = append(out, fe.Field()+": "+fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch {
	case fe.Tag() == "account_number":
		return MsgAccountNumber
	case fe.Field() == "amount":
		return MsgAmount
	case fe.Tag() == "required":
		return "is required"
	default:
		return "failed on " + fe.Tag()
	}
}

// IsValidationError reports whether err came from the validator.
func IsValidationError(err error) bool {
	var ve validator.ValidationErrors
	return errors.As(err, &ve)
}
