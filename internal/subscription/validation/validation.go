// Package validation checks raw create inputs against the field rules for
// plans, variations and subscriptions. Every failed rule is reported, in
// rule order, through a single *domain.ValidationError.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/subscriptions/internal/subscription/domain"
)

const (
	MsgName            = "Name must be between 3 and 255 characters"
	MsgDescription     = "Description must be between 10 and 500 characters"
	MsgCategory        = "Category is required and must be less than 100 characters"
	MsgPlanType        = "Invalid subscription type. Must be one of: recurring, one-time, usage-based"
	MsgPrice           = "Price must be a number greater than 0"
	MsgBillingInterval = "Invalid billing interval. Must be one of: weekly, monthly, yearly"
	MsgCustomerID      = "Customer ID is required"
	MsgPlanVariationID = "Plan variation ID is required"
	MsgStartDate       = "Start date must be a valid date in YYYY-MM-DD format"

	MsgCurrency              = "Currency must be a 3-letter ISO 4217 code"
	MsgTrialPeriodDays       = "Trial period days must be a non-negative integer"
	MsgCustomerIDFormat      = "Customer ID must be a valid UUID"
	MsgPlanVariationIDFormat = "Plan variation ID must be a valid UUID"
	MsgIntervalMismatch      = "Billing interval must match the plan variation billing interval"
)

// DateLayout is the accepted start_date format.
const DateLayout = "2006-01-02"

var validate = validator.New()

// maxPrice is the first value a NUMERIC(10,2) column cannot hold.
var maxPrice = decimal.New(1, 8)

type rule struct {
	field   string
	check   func() bool
	message string
}

func apply(rules ...rule) error {
	var violations []domain.Violation
	for _, r := range rules {
		if !r.check() {
			violations = append(violations, domain.Violation{Field: r.field, Message: r.message})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return &domain.ValidationError{Violations: violations}
}

func is(value any, tag string) bool {
	return validate.Var(value, tag) == nil
}

// ValidatePlan checks name, description, category and type.
func ValidatePlan(in domain.Input) error {
	name := strings.TrimSpace(in.String("name"))
	description := strings.TrimSpace(in.String("description"))
	category := strings.TrimSpace(in.String("category"))
	planType := strings.ToLower(in.String("type"))

	return apply(
		rule{field: "name", message: MsgName, check: func() bool {
			return is(name, "min=3,max=255")
		}},
		rule{field: "description", message: MsgDescription, check: func() bool {
			return is(description, "min=10,max=500")
		}},
		rule{field: "category", message: MsgCategory, check: func() bool {
			return is(category, "required,max=100")
		}},
		rule{field: "type", message: MsgPlanType, check: func() bool {
			return is(planType, "oneof=recurring one-time usage-based")
		}},
	)
}

// ValidateVariation checks name, price and billing_interval, then the
// optional currency and trial_period_days when they are supplied.
func ValidateVariation(in domain.Input) error {
	name := strings.TrimSpace(in.String("name"))
	interval := in.String("billing_interval")

	rules := []rule{
		{field: "name", message: MsgName, check: func() bool {
			return is(name, "min=3,max=255")
		}},
		{field: "price", message: MsgPrice, check: func() bool {
			price, ok := in.Decimal("price")
			return ok && validPrice(price)
		}},
		{field: "billing_interval", message: MsgBillingInterval, check: func() bool {
			_, ok := domain.ParseBillingInterval(interval)
			return ok
		}},
	}

	if in.Has("currency") {
		currency := strings.TrimSpace(in.String("currency"))
		rules = append(rules, rule{field: "currency", message: MsgCurrency, check: func() bool {
			return is(currency, "len=3,alpha")
		}})
	}
	if in.Has("trial_period_days") {
		rules = append(rules, rule{field: "trial_period_days", message: MsgTrialPeriodDays, check: func() bool {
			days, ok := in.Int("trial_period_days")
			return ok && days >= 0
		}})
	}

	return apply(rules...)
}

// validPrice accepts positive amounts with at most two decimal places that
// fit the price column, so the stored value is exactly the one validated.
func validPrice(price decimal.Decimal) bool {
	return price.IsPositive() &&
		price.Equal(price.Round(2)) &&
		price.LessThan(maxPrice)
}

// MatchInterval rejects a subscription whose requested billing interval
// differs from the interval of the plan variation it subscribes to.
func MatchInterval(requested string, variation domain.BillingInterval) error {
	interval, _ := domain.ParseBillingInterval(requested)
	return apply(rule{field: "billing_interval", message: MsgIntervalMismatch, check: func() bool {
		return interval == variation
	}})
}

// ValidateSubscription checks customer_id, plan_variation_id, start_date and
// billing_interval. Ids that are present must also be UUIDs.
func ValidateSubscription(in domain.Input) error {
	customerID := strings.TrimSpace(in.String("customer_id"))
	variationID := strings.TrimSpace(in.String("plan_variation_id"))
	startDate := strings.TrimSpace(in.String("start_date"))
	interval := in.String("billing_interval")

	rules := []rule{
		{field: "customer_id", message: MsgCustomerID, check: func() bool {
			return is(customerID, "required")
		}},
		{field: "plan_variation_id", message: MsgPlanVariationID, check: func() bool {
			return is(variationID, "required")
		}},
		{field: "start_date", message: MsgStartDate, check: func() bool {
			return is(startDate, "datetime="+DateLayout)
		}},
		{field: "billing_interval", message: MsgBillingInterval, check: func() bool {
			_, ok := domain.ParseBillingInterval(interval)
			return ok
		}},
	}

	if customerID != "" {
		rules = append(rules, rule{field: "customer_id", message: MsgCustomerIDFormat, check: func() bool {
			return is(strings.ToLower(customerID), "uuid")
		}})
	}
	if variationID != "" {
		rules = append(rules, rule{field: "plan_variation_id", message: MsgPlanVariationIDFormat, check: func() bool {
			return is(strings.ToLower(variationID), "uuid")
		}})
	}

	return apply(rules...)
}
