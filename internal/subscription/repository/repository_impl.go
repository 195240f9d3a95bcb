package repository

import (
	"context"

	subscriptiondomain "github.com/smallbiznis/subscriptions/internal/subscription/domain"
	"github.com/smallbiznis/subscriptions/pkg/db/pagination"
	"gorm.io/gorm"
)

const (
	planColumns = `id, name, description, category, type, active, created_at, updated_at`

	variationColumns = `id, plan_id, name, billing_interval, price, currency, trial_period_days,
		active, created_at, updated_at`

	subscriptionColumns = `id, customer_id, plan_variation_id, status, start_date, next_billing_date,
		current_period_start, current_period_end, cancel_at_period_end, created_at, updated_at`
)

type repo struct{}

func Provide() subscriptiondomain.Repository {
	return &repo{}
}

func (r *repo) FindPlanByName(ctx context.Context, db *gorm.DB, name string) (*subscriptiondomain.Plan, error) {
	var plan subscriptiondomain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT `+planColumns+` FROM subscription_plans WHERE name = ? LIMIT 1`,
		name,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == "" {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) FindPlanByID(ctx context.Context, db *gorm.DB, id string) (*subscriptiondomain.Plan, error) {
	var plan subscriptiondomain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT `+planColumns+` FROM subscription_plans WHERE id = ?`,
		id,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == "" {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) ListPlans(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*subscriptiondomain.Plan, error) {
	page = page.Normalize()

	var plans []*subscriptiondomain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT `+planColumns+` FROM subscription_plans
		 ORDER BY created_at ASC, id ASC
		 LIMIT ? OFFSET ?`,
		page.Limit+1,
		page.Offset(),
	).Scan(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// InsertPlan writes plan and reads the stored row back in the same transaction.
func (r *repo) InsertPlan(ctx context.Context, db *gorm.DB, plan *subscriptiondomain.Plan) (*subscriptiondomain.Plan, error) {
	var created subscriptiondomain.Plan
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`INSERT INTO subscription_plans (`+planColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			plan.ID,
			plan.Name,
			plan.Description,
			plan.Category,
			plan.Type,
			plan.Active,
			plan.CreatedAt,
			plan.UpdatedAt,
		).Error; err != nil {
			return err
		}
		return tx.Raw(
			`SELECT `+planColumns+` FROM subscription_plans WHERE id = ?`,
			plan.ID,
		).Scan(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repo) FindVariationByID(ctx context.Context, db *gorm.DB, id string) (*subscriptiondomain.PlanVariation, error) {
	var variation subscriptiondomain.PlanVariation
	err := db.WithContext(ctx).Raw(
		`SELECT `+variationColumns+` FROM subscription_plan_variations WHERE id = ?`,
		id,
	).Scan(&variation).Error
	if err != nil {
		return nil, err
	}
	if variation.ID == "" {
		return nil, nil
	}
	return &variation, nil
}

func (r *repo) InsertVariation(ctx context.Context, db *gorm.DB, variation *subscriptiondomain.PlanVariation) (*subscriptiondomain.PlanVariation, error) {
	var created subscriptiondomain.PlanVariation
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`INSERT INTO subscription_plan_variations (`+variationColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			variation.ID,
			variation.PlanID,
			variation.Name,
			variation.BillingInterval,
			variation.Price,
			variation.Currency,
			variation.TrialPeriodDays,
			variation.Active,
			variation.CreatedAt,
			variation.UpdatedAt,
		).Error; err != nil {
			return err
		}
		return tx.Raw(
			`SELECT `+variationColumns+` FROM subscription_plan_variations WHERE id = ?`,
			variation.ID,
		).Scan(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// CustomerExists reports whether a customer row with id is stored.
func (r *repo) CustomerExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM customers WHERE id = ?`,
		id,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) InsertSubscription(ctx context.Context, db *gorm.DB, subscription *subscriptiondomain.Subscription) (*subscriptiondomain.Subscription, error) {
	var created subscriptiondomain.Subscription
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`INSERT INTO subscriptions (`+subscriptionColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			subscription.ID,
			subscription.CustomerID,
			subscription.PlanVariationID,
			subscription.Status,
			subscription.StartDate,
			subscription.NextBillingDate,
			subscription.CurrentPeriodStart,
			subscription.CurrentPeriodEnd,
			subscription.CancelAtPeriodEnd,
			subscription.CreatedAt,
			subscription.UpdatedAt,
		).Error; err != nil {
			return err
		}
		return tx.Raw(
			`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = ?`,
			subscription.ID,
		).Scan(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}
