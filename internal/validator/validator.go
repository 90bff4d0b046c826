// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// maxPriceLength bounds merchant-entered price text.
const maxPriceLength = 64

var shopDomainRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9\-]*\.myshopify\.com$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("price", validatePrice)
		_ = v.RegisterValidation("notblank", validateNotBlank)
	}
}

// IsShopDomain reports whether s is a canonical *.myshopify.com domain.
func IsShopDomain(s string) bool {
	return shopDomainRegex.MatchString(s)
}

// IsPrice reports whether s is acceptable price text. Prices are opaque, so
// only blank and oversized values are rejected.
func IsPrice(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && len(s) <= maxPriceLength
}

func validatePrice(fl validator.FieldLevel) bool {
	return IsPrice(fl.Field().String())
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
