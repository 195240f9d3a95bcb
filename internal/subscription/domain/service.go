package domain

import (
	"context"

	"github.com/smallbiznis/subscriptions/pkg/db/pagination"
)

type ListPlansRequest struct {
	pagination.Pagination
}

type ListPlansResponse struct {
	pagination.PageInfo
	Plans []*Plan `json:"plans"`
}

// Service creates and reads plans, variations and subscriptions. Create
// operations take the raw request body, validate it, sanitize its strings
// and persist the result.
type Service interface {
	CreatePlan(ctx context.Context, in Input) (*Plan, error)
	CreateVariation(ctx context.Context, planID string, in Input) (*PlanVariation, error)
	CreateSubscription(ctx context.Context, in Input) (*Subscription, error)
	ListPlans(ctx context.Context, req ListPlansRequest) (ListPlansResponse, error)
	GetPlan(ctx context.Context, id string) (*Plan, error)
}
