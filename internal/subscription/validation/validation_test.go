package validation

import (
	"strings"
	"testing"

	"github.com/smallbiznis/subscriptions/internal/subscription/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messages(t *testing.T, err error) []string {
	t.Helper()
	if err == nil {
		return nil
	}
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	return vErr.Messages()
}

func validPlan() domain.Input {
	return domain.Input{
		"name":        "Pro Plan",
		"description": "Everything a growing team needs",
		"category":    "software",
		"type":        "recurring",
	}
}

func TestValidatePlan(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(domain.Input)
		want   []string
	}{
		{name: "valid", mutate: func(domain.Input) {}},
		{name: "type is case insensitive", mutate: func(in domain.Input) { in["type"] = "Usage-Based" }},
		{name: "short name", mutate: func(in domain.Input) { in["name"] = "ab" }, want: []string{MsgName}},
		{name: "name trimmed before length", mutate: func(in domain.Input) { in["name"] = "  ab  " }, want: []string{MsgName}},
		{name: "long name", mutate: func(in domain.Input) { in["name"] = strings.Repeat("a", 256) }, want: []string{MsgName}},
		{name: "name not a string", mutate: func(in domain.Input) { in["name"] = 12345 }, want: []string{MsgName}},
		{name: "short description", mutate: func(in domain.Input) { in["description"] = "too short" }, want: []string{MsgDescription}},
		{name: "long description", mutate: func(in domain.Input) { in["description"] = strings.Repeat("d", 501) }, want: []string{MsgDescription}},
		{name: "missing category", mutate: func(in domain.Input) { delete(in, "category") }, want: []string{MsgCategory}},
		{name: "long category", mutate: func(in domain.Input) { in["category"] = strings.Repeat("c", 101) }, want: []string{MsgCategory}},
		{name: "bad type", mutate: func(in domain.Input) { in["type"] = "lifetime" }, want: []string{MsgPlanType}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validPlan()
			tt.mutate(in)
			assert.Equal(t, tt.want, messages(t, ValidatePlan(in)))
		})
	}
}

func TestValidatePlanReportsEveryViolationInOrder(t *testing.T) {
	in := domain.Input{"name": "ab", "description": "short", "category": "", "type": "invalid"}

	assert.Equal(t, []string{MsgName, MsgDescription, MsgCategory, MsgPlanType}, messages(t, ValidatePlan(in)))
}

func TestValidatePlanBoundaries(t *testing.T) {
	in := validPlan()
	in["name"] = "abc"
	in["description"] = strings.Repeat("d", 10)
	in["category"] = strings.Repeat("c", 100)
	assert.NoError(t, ValidatePlan(in))

	in["name"] = strings.Repeat("n", 255)
	in["description"] = strings.Repeat("d", 500)
	assert.NoError(t, ValidatePlan(in))
}

func validVariation() domain.Input {
	return domain.Input{
		"name":             "Monthly",
		"price":            19.99,
		"billing_interval": "monthly",
	}
}

func TestValidateVariation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(domain.Input)
		want   []string
	}{
		{name: "valid", mutate: func(domain.Input) {}},
		{name: "numeric string price", mutate: func(in domain.Input) { in["price"] = "5.00" }},
		{name: "zero price", mutate: func(in domain.Input) { in["price"] = 0 }, want: []string{MsgPrice}},
		{name: "negative price", mutate: func(in domain.Input) { in["price"] = -10.0 }, want: []string{MsgPrice}},
		{name: "word price", mutate: func(in domain.Input) { in["price"] = "free" }, want: []string{MsgPrice}},
		{name: "missing price", mutate: func(in domain.Input) { delete(in, "price") }, want: []string{MsgPrice}},
		{name: "cent price", mutate: func(in domain.Input) { in["price"] = 0.01 }},
		{name: "trailing zero price", mutate: func(in domain.Input) { in["price"] = "10.50" }},
		{name: "sub-cent price", mutate: func(in domain.Input) { in["price"] = 0.004 }, want: []string{MsgPrice}},
		{name: "half-cent price", mutate: func(in domain.Input) { in["price"] = 0.005 }, want: []string{MsgPrice}},
		{name: "three decimals", mutate: func(in domain.Input) { in["price"] = "19.999" }, want: []string{MsgPrice}},
		{name: "largest price", mutate: func(in domain.Input) { in["price"] = "99999999.99" }},
		{name: "price overflow", mutate: func(in domain.Input) { in["price"] = "100000000" }, want: []string{MsgPrice}},
		{name: "bad interval", mutate: func(in domain.Input) { in["billing_interval"] = "daily" }, want: []string{MsgBillingInterval}},
		{name: "uppercase interval", mutate: func(in domain.Input) { in["billing_interval"] = "YEARLY" }},
		{name: "good currency", mutate: func(in domain.Input) { in["currency"] = "eur" }},
		{name: "bad currency", mutate: func(in domain.Input) { in["currency"] = "EURO" }, want: []string{MsgCurrency}},
		{name: "trial days", mutate: func(in domain.Input) { in["trial_period_days"] = float64(14) }},
		{name: "negative trial days", mutate: func(in domain.Input) { in["trial_period_days"] = -1 }, want: []string{MsgTrialPeriodDays}},
		{name: "fractional trial days", mutate: func(in domain.Input) { in["trial_period_days"] = 1.5 }, want: []string{MsgTrialPeriodDays}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validVariation()
			tt.mutate(in)
			assert.Equal(t, tt.want, messages(t, ValidateVariation(in)))
		})
	}
}

func TestValidateVariationReportsPriceAndInterval(t *testing.T) {
	in := domain.Input{"name": "Monthly", "price": -10, "billing_interval": "daily"}

	assert.Equal(t, []string{MsgPrice, MsgBillingInterval}, messages(t, ValidateVariation(in)))
}

func TestMatchInterval(t *testing.T) {
	assert.NoError(t, MatchInterval("Monthly", domain.BillingIntervalMonthly))
	assert.Equal(t, []string{MsgIntervalMismatch}, messages(t, MatchInterval("weekly", domain.BillingIntervalMonthly)))
	assert.Equal(t, []string{MsgIntervalMismatch}, messages(t, MatchInterval("daily", domain.BillingIntervalMonthly)))
}

func validSubscription() domain.Input {
	return domain.Input{
		"customer_id":       "7d4a2f6e-8c1b-4a52-9a0e-3c3f2d9b1e11",
		"plan_variation_id": "2b0f1c9e-5d7a-4e3b-8f61-0a9c4d2e7b33",
		"start_date":        "2024-01-01",
		"billing_interval":  "monthly",
	}
}

func TestValidateSubscription(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(domain.Input)
		want   []string
	}{
		{name: "valid", mutate: func(domain.Input) {}},
		{name: "uppercase ids", mutate: func(in domain.Input) {
			in["customer_id"] = strings.ToUpper(in.String("customer_id"))
		}},
		{name: "missing customer", mutate: func(in domain.Input) { delete(in, "customer_id") }, want: []string{MsgCustomerID}},
		{name: "blank variation", mutate: func(in domain.Input) { in["plan_variation_id"] = "   " }, want: []string{MsgPlanVariationID}},
		{name: "bad date", mutate: func(in domain.Input) { in["start_date"] = "2024-13-01" }, want: []string{MsgStartDate}},
		{name: "date with time", mutate: func(in domain.Input) { in["start_date"] = "2024-01-01T00:00:00Z" }, want: []string{MsgStartDate}},
		{name: "missing interval", mutate: func(in domain.Input) { delete(in, "billing_interval") }, want: []string{MsgBillingInterval}},
		{name: "customer not a uuid", mutate: func(in domain.Input) { in["customer_id"] = "cust_1" }, want: []string{MsgCustomerIDFormat}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSubscription()
			tt.mutate(in)
			assert.Equal(t, tt.want, messages(t, ValidateSubscription(in)))
		})
	}
}

func TestValidateSubscriptionEmptyInput(t *testing.T) {
	assert.Equal(t, []string{MsgCustomerID, MsgPlanVariationID, MsgStartDate, MsgBillingInterval},
		messages(t, ValidateSubscription(domain.Input{})))
}
