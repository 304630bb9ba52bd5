package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/pkg/validation"
)

// RegisterCustomValidators installs the domain binding tags on gin's
// validator so request DTOs can declare them directly:
//
//	lifecyclestatus - ARCHIVED, CLOSED or OPEN
//	paymenttype     - FULL or SHARE_30D4P
//	pricecurrency   - a currency the gateway supports
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("lifecyclestatus", func(fl validator.FieldLevel) bool {
		return models.Status(fl.Field().String()).IsValid()
	})

	v.RegisterValidation("paymenttype", func(fl validator.FieldLevel) bool {
		return models.PaymentType(fl.Field().String()).IsValid()
	})

	v.RegisterValidation("pricecurrency", func(fl validator.FieldLevel) bool {
		return validation.Currency(fl.Field().String()) == nil
	})
}
