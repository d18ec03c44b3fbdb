package server

import (
	"fmt"

	"grantify/internal/filter"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterValidation("grant_status", func(fl validator.FieldLevel) bool {
		return filter.IsValidStatus(fl.Field().String())
	})
	v.RegisterValidation("currency_code", func(fl validator.FieldLevel) bool {
		return filter.IsValidCurrency(fl.Field().String())
	})

	dayRange := fmt.Sprintf("omitempty,gte=%d,lte=%d", filter.MinDeadlineDays, filter.MaxDeadlineDays)

	v.RegisterStructValidationMapRules(map[string]string{
		"SearchTerm":      "max=500",
		"FundingMin":      "omitempty,gte=0",
		"FundingMax":      "omitempty,gte=0",
		"DeadlineMinDays": dayRange,
		"DeadlineMaxDays": dayRange,
		"Statuses":        "omitempty,dive,grant_status",
		"Currencies":      "omitempty,dive,currency_code",
		"Page":            "gte=0",
		"Limit":           fmt.Sprintf("gte=0,lte=%d", filter.MaxPageSize),
		"UserID":          "max=128",
	}, filter.Filter{})

	return v
}

type sessionParams struct {
	ID string `validate:"required,uuid4"`
}
