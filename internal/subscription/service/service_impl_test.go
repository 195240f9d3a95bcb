package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/subscriptions/internal/clock"
	customerdomain "github.com/smallbiznis/subscriptions/internal/customer/domain"
	"github.com/smallbiznis/subscriptions/internal/events"
	"github.com/smallbiznis/subscriptions/internal/subscription/domain"
	"github.com/smallbiznis/subscriptions/internal/subscription/mocks"
	"github.com/smallbiznis/subscriptions/internal/subscription/repository"
	"github.com/smallbiznis/subscriptions/internal/subscription/validation"
	"github.com/smallbiznis/subscriptions/pkg/db/pagination"
	"github.com/smallbiznis/subscriptions/pkg/idgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

const (
	planID      = "5f0c1d2e-3a4b-4c5d-8e6f-7a8b9c0d1e2f"
	variationID = "6a1b2c3d-4e5f-4a6b-9c7d-8e9f0a1b2c3d"
	customerID  = "7b2c3d4e-5f6a-4b7c-8d9e-0f1a2b3c4d5e"
)

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.events = append(p.events, evt)
	return p.err
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, conn.AutoMigrate(
		&domain.Plan{},
		&domain.PlanVariation{},
		&domain.Subscription{},
		&customerdomain.Customer{},
	))
	return conn
}

func seedCustomer(t *testing.T, conn *gorm.DB) {
	t.Helper()
	require.NoError(t, conn.Create(&customerdomain.Customer{
		ID:        customerID,
		Email:     "ada@example.com",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}).Error)
}

func newTestService(t *testing.T, conn *gorm.DB, repo domain.Repository, publisher events.Publisher, log *zap.Logger) domain.Service {
	t.Helper()
	if log == nil {
		log = zaptest.NewLogger(t)
	}
	return NewService(ServiceParam{
		DB:     conn,
		Log:    log,
		GenID:  idgen.NewSequence(planID, variationID),
		Clock:  clock.NewFakeClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)),
		Repo:   repo,
		Events: publisher,
	})
}

func validPlanInput() domain.Input {
	return domain.Input{
		"name":        "  Pro Plan ",
		"description": "Everything a growing team needs",
		"category":    "software",
		"type":        "Recurring",
	}
}

func TestCreatePlanPersistsSanitizedPlan(t *testing.T) {
	publisher := &recordingPublisher{}
	svc := newTestService(t, setupTestDB(t), repository.Provide(), publisher, nil)

	in := validPlanInput()
	in["description"] = "<b>Everything</b> a growing team needs"

	plan, err := svc.CreatePlan(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, planID, plan.ID)
	assert.Equal(t, "Pro Plan", plan.Name)
	assert.Equal(t, "bEverything/b a growing team needs", plan.Description)
	assert.Equal(t, domain.PlanTypeRecurring, plan.Type)
	assert.True(t, plan.Active)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.PlanCreated, publisher.events[0].Type)
	assert.Equal(t, planID, publisher.events[0].SubjectID)

	// the caller's input is left untouched
	assert.Equal(t, "  Pro Plan ", in["name"])
}

func TestCreatePlanRejectsDuplicateName(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewService(ServiceParam{
		DB:    conn,
		Log:   zaptest.NewLogger(t),
		GenID: idgen.NewUUID(),
		Clock: clock.NewFakeClock(time.Now()),
		Repo:  repository.Provide(),
	})

	_, err := svc.CreatePlan(context.Background(), validPlanInput())
	require.NoError(t, err)

	_, err = svc.CreatePlan(context.Background(), validPlanInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicatePlanName)
	assert.Equal(t, domain.MessageDuplicatePlanName, err.Error())

	var count int64
	require.NoError(t, conn.Model(&domain.Plan{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreatePlanTranslatesUniqueViolationOnInsert(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	repo.EXPECT().FindPlanByName(gomock.Any(), gomock.Any(), "Pro Plan").Return(nil, nil)
	repo.EXPECT().InsertPlan(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("UNIQUE constraint failed: subscription_plans.name"))

	svc := newTestService(t, nil, repo, nil, nil)
	_, err := svc.CreatePlan(context.Background(), validPlanInput())
	assert.ErrorIs(t, err, domain.ErrDuplicatePlanName)
}

func TestCreatePlanValidationCollectsEveryViolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	svc := newTestService(t, nil, repo, nil, nil)
	_, err := svc.CreatePlan(context.Background(), domain.Input{
		"name":        "ab",
		"description": "short",
		"type":        "lifetime",
	})

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{
		validation.MsgName,
		validation.MsgDescription,
		validation.MsgCategory,
		validation.MsgPlanType,
	}, vErr.Messages())
}

func TestCreatePlanLogsStorageFailureWithInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	storeErr := errors.New("connection reset")

	repo.EXPECT().FindPlanByName(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, storeErr)

	core, logs := observer.New(zap.DebugLevel)
	svc := newTestService(t, nil, repo, nil, zap.New(core))

	_, err := svc.CreatePlan(context.Background(), validPlanInput())
	assert.Same(t, storeErr, err)

	entries := logs.FilterMessage("operation failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "create_plan", fields["operation"])
	assert.Equal(t, "connection reset", fields["error"])
	assert.Contains(t, fields, "input")
}

func TestCreatePlanIgnoresPublishFailure(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("broker down")}
	svc := newTestService(t, setupTestDB(t), repository.Provide(), publisher, nil)

	plan, err := svc.CreatePlan(context.Background(), validPlanInput())
	require.NoError(t, err)
	assert.Equal(t, planID, plan.ID)
	assert.Len(t, publisher.events, 1)
}

func TestCreateVariation(t *testing.T) {
	svc := newTestService(t, setupTestDB(t), repository.Provide(), nil, nil)
	ctx := context.Background()

	_, err := svc.CreatePlan(ctx, validPlanInput())
	require.NoError(t, err)

	variation, err := svc.CreateVariation(ctx, planID, domain.Input{
		"name":             "Monthly",
		"price":            19.99,
		"billing_interval": "MONTHLY",
		"currency":         "eur",
	})
	require.NoError(t, err)

	assert.Equal(t, variationID, variation.ID)
	assert.Equal(t, planID, variation.PlanID)
	assert.Equal(t, domain.BillingIntervalMonthly, variation.BillingInterval)
	assert.True(t, decimal.RequireFromString("19.99").Equal(variation.Price))
	assert.Equal(t, "EUR", variation.Currency)
	assert.Equal(t, 0, variation.TrialPeriodDays)
}

func TestCreateVariationDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	repo.EXPECT().FindPlanByID(gomock.Any(), gomock.Any(), planID).Return(&domain.Plan{ID: planID}, nil)
	repo.EXPECT().InsertVariation(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *gorm.DB, v *domain.PlanVariation) (*domain.PlanVariation, error) {
			return v, nil
		})

	svc := newTestService(t, nil, repo, nil, nil)
	variation, err := svc.CreateVariation(context.Background(), planID, domain.Input{
		"name":              "Yearly",
		"price":             "199",
		"billing_interval":  "yearly",
		"trial_period_days": float64(14),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCurrency, variation.Currency)
	assert.Equal(t, 14, variation.TrialPeriodDays)
}

func TestCreateVariationUnknownPlanDoesNotInsert(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	repo.EXPECT().FindPlanByID(gomock.Any(), gomock.Any(), planID).Return(nil, nil)
	repo.EXPECT().InsertVariation(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	svc := newTestService(t, nil, repo, nil, nil)
	_, err := svc.CreateVariation(context.Background(), planID, domain.Input{
		"name":             "Monthly",
		"price":            10,
		"billing_interval": "monthly",
	})
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
	assert.Equal(t, domain.MessagePlanNotFound, err.Error())
}

func TestCreateVariationMalformedPlanID(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	svc := newTestService(t, nil, repo, nil, nil)
	_, err := svc.CreateVariation(context.Background(), "not-a-uuid", domain.Input{
		"name":             "Monthly",
		"price":            10,
		"billing_interval": "monthly",
	})
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

func TestCreateVariationValidatesBeforeLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	svc := newTestService(t, nil, repo, nil, nil)
	_, err := svc.CreateVariation(context.Background(), planID, domain.Input{
		"name":             "Monthly",
		"price":            0,
		"billing_interval": "daily",
	})

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{validation.MsgPrice, validation.MsgBillingInterval}, vErr.Messages())
}

func TestCreateSubscriptionComputesBillingDates(t *testing.T) {
	tests := []struct {
		interval string
		next     string
	}{
		{interval: "weekly", next: "2024-01-08"},
		{interval: "monthly", next: "2024-01-31"},
		{interval: "yearly", next: "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.interval, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockRepository(ctrl)

			repo.EXPECT().CustomerExists(gomock.Any(), gomock.Any(), customerID).Return(true, nil)
			repo.EXPECT().FindVariationByID(gomock.Any(), gomock.Any(), variationID).
				Return(&domain.PlanVariation{ID: variationID, BillingInterval: domain.BillingInterval(tt.interval)}, nil)
			repo.EXPECT().InsertSubscription(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *gorm.DB, s *domain.Subscription) (*domain.Subscription, error) {
					return s, nil
				})

			svc := newTestService(t, nil, repo, nil, nil)
			sub, err := svc.CreateSubscription(context.Background(), domain.Input{
				"customer_id":       customerID,
				"plan_variation_id": variationID,
				"start_date":        "2024-01-01",
				"billing_interval":  tt.interval,
			})
			require.NoError(t, err)

			assert.Equal(t, domain.SubscriptionStatusActive, sub.Status)
			assert.Equal(t, "2024-01-01", sub.StartDate.Format("2006-01-02"))
			assert.Equal(t, tt.next, sub.NextBillingDate.Format("2006-01-02"))
			assert.Equal(t, sub.StartDate, sub.CurrentPeriodStart)
			assert.Equal(t, sub.NextBillingDate, sub.CurrentPeriodEnd)
			assert.False(t, sub.CancelAtPeriodEnd)
		})
	}
}

func TestCreateSubscriptionUnknownVariation(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	repo.EXPECT().CustomerExists(gomock.Any(), gomock.Any(), customerID).Return(true, nil)
	repo.EXPECT().FindVariationByID(gomock.Any(), gomock.Any(), variationID).Return(nil, nil)
	repo.EXPECT().InsertSubscription(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	svc := newTestService(t, nil, repo, nil, nil)
	_, err := svc.CreateSubscription(context.Background(), domain.Input{
		"customer_id":       customerID,
		"plan_variation_id": variationID,
		"start_date":        "2024-01-01",
		"billing_interval":  "weekly",
	})
	assert.ErrorIs(t, err, domain.ErrVariationNotFound)
}

func TestCreateSubscriptionValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	svc := newTestService(t, nil, repo, nil, nil)
	_, err := svc.CreateSubscription(context.Background(), domain.Input{
		"start_date":       "01/01/2024",
		"billing_interval": "monthly",
	})

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{
		validation.MsgCustomerID,
		validation.MsgPlanVariationID,
		validation.MsgStartDate,
	}, vErr.Messages())
}

func TestEndToEndPlanVariationSubscription(t *testing.T) {
	publisher := &recordingPublisher{}
	conn := setupTestDB(t)
	seedCustomer(t, conn)
	svc := newTestService(t, conn, repository.Provide(), publisher, nil)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, validPlanInput())
	require.NoError(t, err)

	variation, err := svc.CreateVariation(ctx, plan.ID, domain.Input{
		"name":             "Weekly",
		"price":            4.5,
		"billing_interval": "weekly",
	})
	require.NoError(t, err)

	sub, err := svc.CreateSubscription(ctx, domain.Input{
		"customer_id":       customerID,
		"plan_variation_id": variation.ID,
		"start_date":        "2024-02-26",
		"billing_interval":  "weekly",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", sub.NextBillingDate.Format("2006-01-02"))

	types := make([]string, 0, len(publisher.events))
	for _, evt := range publisher.events {
		types = append(types, evt.Type)
	}
	assert.Equal(t, []string{events.PlanCreated, events.VariationCreated, events.SubscriptionCreated}, types)
}

func TestCreatePremiumPlan(t *testing.T) {
	svc := newTestService(t, setupTestDB(t), repository.Provide(), nil, nil)

	plan, err := svc.CreatePlan(context.Background(), domain.Input{
		"name":        "Premium Plan",
		"description": "Advanced subscription with all features",
		"category":    "SaaS",
		"type":        "recurring",
	})
	require.NoError(t, err)

	assert.Equal(t, planID, plan.ID)
	assert.Equal(t, "Premium Plan", plan.Name)
	assert.Equal(t, "Advanced subscription with all features", plan.Description)
	assert.Equal(t, "SaaS", plan.Category)
	assert.Equal(t, domain.PlanTypeRecurring, plan.Type)
}

func TestCreateRejectsWithoutInsert(t *testing.T) {
	validSubscription := func(interval string) domain.Input {
		return domain.Input{
			"customer_id":       customerID,
			"plan_variation_id": variationID,
			"start_date":        "2024-01-01",
			"billing_interval":  interval,
		}
	}

	tests := []struct {
		name     string
		expect   func(repo *mocks.MockRepository)
		call     func(svc domain.Service) error
		messages []string
		kind     error
	}{
		{
			name: "empty plan",
			call: func(svc domain.Service) error {
				_, err := svc.CreatePlan(context.Background(), domain.Input{
					"name": "", "description": "", "category": "", "type": "bogus",
				})
				return err
			},
			messages: []string{validation.MsgName, validation.MsgDescription, validation.MsgCategory, validation.MsgPlanType},
		},
		{
			name: "negative price and daily interval",
			call: func(svc domain.Service) error {
				_, err := svc.CreateVariation(context.Background(), planID, domain.Input{
					"name": "Monthly", "price": -5, "billing_interval": "daily",
				})
				return err
			},
			messages: []string{validation.MsgPrice, validation.MsgBillingInterval},
		},
		{
			name: "price rounding to zero",
			call: func(svc domain.Service) error {
				_, err := svc.CreateVariation(context.Background(), planID, domain.Input{
					"name": "Monthly", "price": 0.004, "billing_interval": "monthly",
				})
				return err
			},
			messages: []string{validation.MsgPrice},
		},
		{
			name: "price with half a cent",
			call: func(svc domain.Service) error {
				_, err := svc.CreateVariation(context.Background(), planID, domain.Input{
					"name": "Monthly", "price": 0.005, "billing_interval": "monthly",
				})
				return err
			},
			messages: []string{validation.MsgPrice},
		},
		{
			name: "interval differs from variation",
			expect: func(repo *mocks.MockRepository) {
				repo.EXPECT().CustomerExists(gomock.Any(), gomock.Any(), customerID).Return(true, nil)
				repo.EXPECT().FindVariationByID(gomock.Any(), gomock.Any(), variationID).
					Return(&domain.PlanVariation{ID: variationID, BillingInterval: domain.BillingIntervalMonthly}, nil)
			},
			call: func(svc domain.Service) error {
				_, err := svc.CreateSubscription(context.Background(), validSubscription("weekly"))
				return err
			},
			messages: []string{validation.MsgIntervalMismatch},
		},
		{
			name: "unknown customer",
			expect: func(repo *mocks.MockRepository) {
				repo.EXPECT().CustomerExists(gomock.Any(), gomock.Any(), customerID).Return(false, nil)
			},
			call: func(svc domain.Service) error {
				_, err := svc.CreateSubscription(context.Background(), validSubscription("monthly"))
				return err
			},
			kind: domain.ErrCustomerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockRepository(ctrl)
			if tt.expect != nil {
				tt.expect(repo)
			}

			err := tt.call(newTestService(t, nil, repo, nil, nil))
			require.Error(t, err)

			if tt.kind != nil {
				assert.ErrorIs(t, err, tt.kind)
				return
			}
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.messages, vErr.Messages())
		})
	}
}

func TestCreateSubscriptionFollowsVariationInterval(t *testing.T) {
	conn := setupTestDB(t)
	seedCustomer(t, conn)
	svc := newTestService(t, conn, repository.Provide(), nil, nil)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, validPlanInput())
	require.NoError(t, err)
	variation, err := svc.CreateVariation(ctx, plan.ID, domain.Input{
		"name":             "Monthly",
		"price":            "9.99",
		"billing_interval": "monthly",
	})
	require.NoError(t, err)

	in := domain.Input{
		"customer_id":       customerID,
		"plan_variation_id": variation.ID,
		"start_date":        "2024-01-01",
		"billing_interval":  "weekly",
	}
	_, err = svc.CreateSubscription(ctx, in)
	require.True(t, domain.IsValidationError(err), "got %v", err)

	in["billing_interval"] = "Monthly"
	sub, err := svc.CreateSubscription(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", sub.NextBillingDate.Format("2006-01-02"))
	assert.Equal(t, customerID, sub.CustomerID)

	var count int64
	require.NoError(t, conn.Model(&domain.Subscription{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateSubscriptionUnknownCustomerOnStore(t *testing.T) {
	conn := setupTestDB(t)
	svc := newTestService(t, conn, repository.Provide(), nil, nil)

	_, err := svc.CreateSubscription(context.Background(), domain.Input{
		"customer_id":       "00000000-0000-4000-8000-000000000000",
		"plan_variation_id": variationID,
		"start_date":        "2024-01-01",
		"billing_interval":  "monthly",
	})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
	assert.Equal(t, domain.MessageCustomerNotFound, err.Error())
}

func TestListPlansPaginates(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	rows := make([]*domain.Plan, 0, 3)
	for i := 0; i < 3; i++ {
		rows = append(rows, &domain.Plan{ID: idgen.NewUUID().NewID()})
	}
	repo.EXPECT().ListPlans(gomock.Any(), gomock.Any(), pagination.Pagination{Page: 1, Limit: 2}).Return(rows, nil)

	svc := newTestService(t, nil, repo, nil, nil)
	resp, err := svc.ListPlans(context.Background(), domain.ListPlansRequest{
		Pagination: pagination.Pagination{Limit: 2},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Plans, 2)
	assert.True(t, resp.HasMore)
	assert.Equal(t, 1, resp.Page)
}

func TestListPlansEmpty(t *testing.T) {
	svc := newTestService(t, setupTestDB(t), repository.Provide(), nil, nil)

	resp, err := svc.ListPlans(context.Background(), domain.ListPlansRequest{})
	require.NoError(t, err)
	assert.NotNil(t, resp.Plans)
	assert.Empty(t, resp.Plans)
	assert.Equal(t, pagination.DefaultLimit, resp.Limit)
}

func TestGetPlan(t *testing.T) {
	svc := newTestService(t, setupTestDB(t), repository.Provide(), nil, nil)
	ctx := context.Background()

	_, err := svc.GetPlan(ctx, planID)
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)

	_, err = svc.GetPlan(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)

	created, err := svc.CreatePlan(ctx, validPlanInput())
	require.NoError(t, err)

	got, err := svc.GetPlan(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
}
