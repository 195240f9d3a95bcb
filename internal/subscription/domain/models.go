// Package domain contains persistence models for subscription plans, plan
// variations and subscriptions.
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PlanType classifies how a plan is sold.
type PlanType string

const (
	PlanTypeRecurring  PlanType = "recurring"
	PlanTypeOneTime    PlanType = "one-time"
	PlanTypeUsageBased PlanType = "usage-based"
)

// BillingInterval is the cadence at which a variation bills.
type BillingInterval string

const (
	BillingIntervalWeekly  BillingInterval = "weekly"
	BillingIntervalMonthly BillingInterval = "monthly"
	BillingIntervalYearly  BillingInterval = "yearly"
)

// ParseBillingInterval matches raw case-insensitively against the known intervals.
func ParseBillingInterval(raw string) (BillingInterval, bool) {
	switch BillingInterval(strings.ToLower(raw)) {
	case BillingIntervalWeekly:
		return BillingIntervalWeekly, true
	case BillingIntervalMonthly:
		return BillingIntervalMonthly, true
	case BillingIntervalYearly:
		return BillingIntervalYearly, true
	default:
		return "", false
	}
}

// SubscriptionStatus represents lifecycle states for a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
)

const DefaultCurrency = "USD"

// Plan is a named offering that groups priced variations.
type Plan struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"type:varchar(100)" json:"category"`
	Type        PlanType  `gorm:"type:varchar(50)" json:"type"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Plan) TableName() string { return "subscription_plans" }

// PlanVariation is a priced billing option of a plan.
type PlanVariation struct {
	ID              string          `gorm:"primaryKey;type:uuid" json:"id"`
	PlanID          string          `gorm:"type:uuid;not null;index" json:"plan_id"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	BillingInterval BillingInterval `gorm:"type:varchar(50);not null" json:"billing_interval"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Currency        string          `gorm:"type:varchar(3);not null;default:USD" json:"currency"`
	TrialPeriodDays int             `gorm:"not null;default:0" json:"trial_period_days"`
	Active          bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (PlanVariation) TableName() string { return "subscription_plan_variations" }

// Subscription binds a customer to a plan variation.
type Subscription struct {
	ID                 string             `gorm:"primaryKey;type:uuid" json:"id"`
	CustomerID         string             `gorm:"type:uuid;not null;index" json:"customer_id"`
	PlanVariationID    string             `gorm:"type:uuid;not null;index" json:"plan_variation_id"`
	Status             SubscriptionStatus `gorm:"type:varchar(50);not null;index" json:"status"`
	StartDate          time.Time          `gorm:"type:date;not null" json:"start_date"`
	NextBillingDate    time.Time          `gorm:"type:date;not null" json:"next_billing_date"`
	CurrentPeriodStart time.Time          `gorm:"type:date;not null" json:"current_period_start"`
	CurrentPeriodEnd   time.Time          `gorm:"type:date;not null" json:"current_period_end"`
	CancelAtPeriodEnd  bool               `gorm:"not null;default:false" json:"cancel_at_period_end"`
	CreatedAt          time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// BillingTransaction records a charge against a subscription. The table is
// part of the schema but no operation writes to it yet.
type BillingTransaction struct {
	ID              string          `gorm:"primaryKey;type:uuid" json:"id"`
	SubscriptionID  *string         `gorm:"type:uuid;index" json:"subscription_id,omitempty"`
	Amount          decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency        string          `gorm:"type:varchar(10);not null;default:USD" json:"currency"`
	Status          string          `gorm:"type:varchar(50);not null" json:"status"`
	TransactionDate *time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"transaction_date,omitempty"`
	PaymentMethod   *string         `gorm:"type:varchar(100)" json:"payment_method,omitempty"`
	InvoiceNumber   *string         `gorm:"type:varchar(100)" json:"invoice_number,omitempty"`
}

// TableName sets the database table name.
func (BillingTransaction) TableName() string { return "billing_transactions" }
