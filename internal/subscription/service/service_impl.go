package service

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/subscriptions/internal/clock"
	"github.com/smallbiznis/subscriptions/internal/events"
	"github.com/smallbiznis/subscriptions/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/subscriptions/internal/observability/metrics"
	"github.com/smallbiznis/subscriptions/internal/subscription/billing"
	subscriptiondomain "github.com/smallbiznis/subscriptions/internal/subscription/domain"
	"github.com/smallbiznis/subscriptions/internal/subscription/sanitize"
	"github.com/smallbiznis/subscriptions/internal/subscription/validation"
	"github.com/smallbiznis/subscriptions/pkg/db"
	"github.com/smallbiznis/subscriptions/pkg/db/pagination"
	"github.com/smallbiznis/subscriptions/pkg/idgen"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	opCreatePlan         = "create_plan"
	opCreateVariation    = "create_variation"
	opCreateSubscription = "create_subscription"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID   idgen.Generator
	clock   clock.Clock
	repo    subscriptiondomain.Repository
	events  events.Publisher
	metrics *obsmetrics.Metrics
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID idgen.Generator
	Clock clock.Clock
	Repo  subscriptiondomain.Repository

	Events  events.Publisher    `optional:"true"`
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func NewService(p ServiceParam) subscriptiondomain.Service {
	publisher := p.Events
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return &Service{
		db:  p.DB,
		log: p.Log.Named("subscription.service"),

		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		events:  publisher,
		metrics: p.Metrics,
	}
}

// CreatePlan implements domain.Service.
func (s *Service) CreatePlan(ctx context.Context, in subscriptiondomain.Input) (*subscriptiondomain.Plan, error) {
	if err := validation.ValidatePlan(in); err != nil {
		return nil, s.fail(ctx, opCreatePlan, in, err)
	}

	clean := sanitize.Input(in)
	now := s.clock.Now()
	plan := &subscriptiondomain.Plan{
		ID:          s.genID.NewID(),
		Name:        clean.String("name"),
		Description: clean.String("description"),
		Category:    clean.String("category"),
		Type:        subscriptiondomain.PlanType(strings.ToLower(clean.String("type"))),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	existing, err := s.repo.FindPlanByName(ctx, s.db, plan.Name)
	if err != nil {
		return nil, s.fail(ctx, opCreatePlan, in, err)
	}
	if existing != nil {
		return nil, s.fail(ctx, opCreatePlan, in, duplicatePlanName())
	}

	created, err := s.repo.InsertPlan(ctx, s.db, plan)
	if err != nil {
		// A concurrent insert of the same name loses on the unique index.
		if db.IsDuplicateKeyErr(err) {
			err = duplicatePlanName()
		}
		return nil, s.fail(ctx, opCreatePlan, in, err)
	}

	logger.WithContext(ctx, s.log).Info("subscription plan created",
		zap.String("plan_id", created.ID),
		zap.String("name", created.Name),
	)
	s.metrics.RecordEntityCreated(ctx, "plan")
	s.publish(ctx, events.PlanCreated, created.ID, created)

	return created, nil
}

// CreateVariation implements domain.Service.
func (s *Service) CreateVariation(ctx context.Context, planID string, in subscriptiondomain.Input) (*subscriptiondomain.PlanVariation, error) {
	if err := validation.ValidateVariation(in); err != nil {
		return nil, s.fail(ctx, opCreateVariation, in, err)
	}

	planID = strings.ToLower(strings.TrimSpace(planID))
	if !idgen.Valid(planID) {
		return nil, s.fail(ctx, opCreateVariation, in, planNotFound())
	}

	plan, err := s.repo.FindPlanByID(ctx, s.db, planID)
	if err != nil {
		return nil, s.fail(ctx, opCreateVariation, in, err)
	}
	if plan == nil {
		return nil, s.fail(ctx, opCreateVariation, in, planNotFound())
	}

	clean := sanitize.Input(in)
	interval, _ := subscriptiondomain.ParseBillingInterval(clean.String("billing_interval"))
	price, _ := clean.Decimal("price")

	currency := strings.ToUpper(clean.String("currency"))
	if currency == "" {
		currency = subscriptiondomain.DefaultCurrency
	}
	trialDays, _ := clean.Int("trial_period_days")

	now := s.clock.Now()
	variation := &subscriptiondomain.PlanVariation{
		ID:              s.genID.NewID(),
		PlanID:          plan.ID,
		Name:            clean.String("name"),
		BillingInterval: interval,
		Price:           price.Round(2),
		Currency:        currency,
		TrialPeriodDays: trialDays,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.repo.InsertVariation(ctx, s.db, variation)
	if err != nil {
		return nil, s.fail(ctx, opCreateVariation, in, err)
	}

	logger.WithContext(ctx, s.log).Info("plan variation created",
		zap.String("variation_id", created.ID),
		zap.String("plan_id", created.PlanID),
	)
	s.metrics.RecordEntityCreated(ctx, "variation")
	s.publish(ctx, events.VariationCreated, created.ID, created)

	return created, nil
}

// CreateSubscription implements domain.Service.
func (s *Service) CreateSubscription(ctx context.Context, in subscriptiondomain.Input) (*subscriptiondomain.Subscription, error) {
	if err := validation.ValidateSubscription(in); err != nil {
		return nil, s.fail(ctx, opCreateSubscription, in, err)
	}

	clean := sanitize.Input(in)
	customerID := strings.ToLower(clean.String("customer_id"))
	variationID := strings.ToLower(clean.String("plan_variation_id"))

	exists, err := s.repo.CustomerExists(ctx, s.db, customerID)
	if err != nil {
		return nil, s.fail(ctx, opCreateSubscription, in, err)
	}
	if !exists {
		return nil, s.fail(ctx, opCreateSubscription, in,
			subscriptiondomain.NewConflictError(subscriptiondomain.ErrCustomerNotFound, subscriptiondomain.MessageCustomerNotFound))
	}

	variation, err := s.repo.FindVariationByID(ctx, s.db, variationID)
	if err != nil {
		return nil, s.fail(ctx, opCreateSubscription, in, err)
	}
	if variation == nil {
		return nil, s.fail(ctx, opCreateSubscription, in,
			subscriptiondomain.NewConflictError(subscriptiondomain.ErrVariationNotFound, subscriptiondomain.MessageVariationNotFound))
	}
	if err := validation.MatchInterval(clean.String("billing_interval"), variation.BillingInterval); err != nil {
		return nil, s.fail(ctx, opCreateSubscription, in, err)
	}

	start, err := billing.ParseDate(clean.String("start_date"))
	if err != nil {
		return nil, s.fail(ctx, opCreateSubscription, in, err)
	}
	// The variation owns the billing cadence.
	period, err := billing.InitialPeriod(start, variation.BillingInterval)
	if err != nil {
		return nil, s.fail(ctx, opCreateSubscription, in, err)
	}

	now := s.clock.Now()
	subscription := &subscriptiondomain.Subscription{
		ID:                 s.genID.NewID(),
		CustomerID:         customerID,
		PlanVariationID:    variation.ID,
		Status:             subscriptiondomain.SubscriptionStatusActive,
		StartDate:          period.Start,
		NextBillingDate:    period.End,
		CurrentPeriodStart: period.Start,
		CurrentPeriodEnd:   period.End,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	created, err := s.repo.InsertSubscription(ctx, s.db, subscription)
	if err != nil {
		return nil, s.fail(ctx, opCreateSubscription, in, err)
	}

	logger.WithContext(ctx, s.log).Info("subscription created",
		zap.String("subscription_id", created.ID),
		zap.String("customer_id", created.CustomerID),
		zap.String("plan_variation_id", created.PlanVariationID),
	)
	s.metrics.RecordEntityCreated(ctx, "subscription")
	s.publish(ctx, events.SubscriptionCreated, created.ID, created)

	return created, nil
}

// ListPlans implements domain.Service.
func (s *Service) ListPlans(ctx context.Context, req subscriptiondomain.ListPlansRequest) (subscriptiondomain.ListPlansResponse, error) {
	page := req.Pagination.Normalize()

	items, err := s.repo.ListPlans(ctx, s.db, page)
	if err != nil {
		logger.WithContext(ctx, s.log).Error("list subscription plans failed", zap.Error(err))
		return subscriptiondomain.ListPlansResponse{}, err
	}

	items, pageInfo := pagination.Trim(items, page)
	if items == nil {
		items = []*subscriptiondomain.Plan{}
	}

	return subscriptiondomain.ListPlansResponse{
		PageInfo: pageInfo,
		Plans:    items,
	}, nil
}

// GetPlan implements domain.Service.
func (s *Service) GetPlan(ctx context.Context, id string) (*subscriptiondomain.Plan, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if !idgen.Valid(id) {
		return nil, planNotFound()
	}

	plan, err := s.repo.FindPlanByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, planNotFound()
	}
	return plan, nil
}

// fail logs a create failure with the caller's original input and returns
// err unchanged.
func (s *Service) fail(ctx context.Context, op string, in subscriptiondomain.Input, err error) error {
	reason := "storage"
	fields := []zap.Field{
		zap.String("operation", op),
		zap.Error(err),
		zap.Any("input", in),
	}

	var conflict *subscriptiondomain.ConflictError
	switch {
	case subscriptiondomain.IsValidationError(err):
		reason = "validation"
		logger.WithContext(ctx, s.log).Warn("input rejected", fields...)
	case errors.As(err, &conflict):
		reason = "conflict"
		logger.WithContext(ctx, s.log).Warn("conflict with stored state", fields...)
	default:
		logger.WithContext(ctx, s.log).Error("operation failed", fields...)
	}

	s.metrics.RecordOperationFailure(ctx, op, reason)
	return err
}

// publish emits a domain event. Delivery failures are logged and never
// fail the operation that produced the event.
func (s *Service) publish(ctx context.Context, eventType, subjectID string, data any) {
	evt := events.New(ctx, eventType, subjectID, s.clock.Now(), data)
	if err := s.events.Publish(ctx, evt); err != nil {
		logger.WithContext(ctx, s.log).Warn("publish event failed",
			zap.String("event_type", eventType),
			zap.String("subject_id", subjectID),
			zap.Error(err),
		)
		s.metrics.RecordEventPublished(ctx, eventType, "failed")
		return
	}
	s.metrics.RecordEventPublished(ctx, eventType, "published")
}

func duplicatePlanName() error {
	return subscriptiondomain.NewConflictError(subscriptiondomain.ErrDuplicatePlanName, subscriptiondomain.MessageDuplicatePlanName)
}

func planNotFound() error {
	return subscriptiondomain.NewConflictError(subscriptiondomain.ErrPlanNotFound, subscriptiondomain.MessagePlanNotFound)
}
