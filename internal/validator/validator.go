// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var tickerRegex = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// validPeriods are the supported history windows.
var validPeriods = map[string]bool{
	"1mo": true, "3mo": true, "6mo": true, "1y": true, "5y": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ticker", validateTicker)
		_ = v.RegisterValidation("history_period", validateHistoryPeriod)
	}
}

// validateTicker accepts symbols in any case; normalization happens in the
// service layer.
func validateTicker(fl validator.FieldLevel) bool {
	return tickerRegex.MatchString(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
}

func validateHistoryPeriod(fl validator.FieldLevel) bool {
	return validPeriods[fl.Field().String()]
}
