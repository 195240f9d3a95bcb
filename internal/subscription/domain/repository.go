package domain

import (
	"context"

	"github.com/smallbiznis/subscriptions/pkg/db/pagination"
	"gorm.io/gorm"
)

//go:generate mockgen -source=repository.go -destination=../mocks/mock_repository.go -package=mocks

// Repository is the persistence gateway for plans, variations and
// subscriptions. Finders return nil, nil when nothing matches.
type Repository interface {
	FindPlanByName(ctx context.Context, db *gorm.DB, name string) (*Plan, error)
	FindPlanByID(ctx context.Context, db *gorm.DB, id string) (*Plan, error)
	ListPlans(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*Plan, error)
	InsertPlan(ctx context.Context, db *gorm.DB, plan *Plan) (*Plan, error)

	FindVariationByID(ctx context.Context, db *gorm.DB, id string) (*PlanVariation, error)
	InsertVariation(ctx context.Context, db *gorm.DB, variation *PlanVariation) (*PlanVariation, error)

	CustomerExists(ctx context.Context, db *gorm.DB, id string) (bool, error)
	InsertSubscription(ctx context.Context, db *gorm.DB, subscription *Subscription) (*Subscription, error)
}
