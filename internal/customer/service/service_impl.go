package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/subscriptions/internal/clock"
	"github.com/smallbiznis/subscriptions/internal/customer/domain"
	"github.com/smallbiznis/subscriptions/internal/events"
	"github.com/smallbiznis/subscriptions/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/subscriptions/internal/observability/metrics"
	subscriptiondomain "github.com/smallbiznis/subscriptions/internal/subscription/domain"
	"github.com/smallbiznis/subscriptions/internal/subscription/sanitize"
	"github.com/smallbiznis/subscriptions/pkg/db"
	"github.com/smallbiznis/subscriptions/pkg/db/pagination"
	"github.com/smallbiznis/subscriptions/pkg/idgen"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   idgen.Generator
	Clock   clock.Clock
	Repo    domain.Repository
	Events  events.Publisher    `optional:"true"`
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    idgen.Generator
	clock    clock.Clock
	repo     domain.Repository
	events   events.Publisher
	metrics  *obsmetrics.Metrics
	validate *validator.Validate
}

func New(p Params) domain.Service {
	publisher := p.Events
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return &Service{
		db:       p.DB,
		log:      p.Log.Named("customer.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		events:   publisher,
		metrics:  p.Metrics,
		validate: validator.New(),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	email := strings.ToLower(sanitize.String(req.Email))
	firstName := sanitize.String(req.FirstName)
	lastName := sanitize.String(req.LastName)
	phone := sanitize.String(req.PhoneNumber)

	var violations []subscriptiondomain.Violation
	check := func(field string, value any, tag, message string) {
		if s.validate.Var(value, tag) != nil {
			violations = append(violations, subscriptiondomain.Violation{Field: field, Message: message})
		}
	}
	check("email", email, "required,email,max=255", domain.MsgEmail)
	check("first_name", firstName, "max=100", domain.MsgFirstName)
	check("last_name", lastName, "max=100", domain.MsgLastName)
	check("phone_number", phone, "max=20", domain.MsgPhone)
	if len(violations) > 0 {
		err := &subscriptiondomain.ValidationError{Violations: violations}
		logger.WithContext(ctx, s.log).Warn("input rejected", zap.Error(err))
		s.metrics.RecordOperationFailure(ctx, "create_customer", "validation")
		return domain.Customer{}, err
	}

	customer := domain.Customer{
		ID:          s.genID.NewID(),
		Email:       email,
		FirstName:   firstName,
		LastName:    lastName,
		PhoneNumber: phone,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Customer{}, domain.ErrEmailTaken
		}
		logger.WithContext(ctx, s.log).Error("create customer failed", zap.Error(err))
		return domain.Customer{}, err
	}

	s.metrics.RecordEntityCreated(ctx, "customer")
	logger.WithContext(ctx, s.log).Info("customer created", zap.String("customer_id", customer.ID))

	evt := events.New(ctx, events.CustomerCreated, customer.ID, customer.CreatedAt, customer)
	if err := s.events.Publish(ctx, evt); err != nil {
		logger.WithContext(ctx, s.log).Warn("publish event failed",
			zap.String("event_type", evt.Type),
			zap.String("subject_id", customer.ID),
			zap.Error(err),
		)
		s.metrics.RecordEventPublished(ctx, evt.Type, "failed")
	} else {
		s.metrics.RecordEventPublished(ctx, evt.Type, "published")
	}

	return customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	filter := domain.ListCustomerFilter{
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
	}

	items, err := s.repo.List(ctx, s.db, filter, req.Pagination)
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	items, pageInfo := pagination.Trim(items, req.Pagination)

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}

	return domain.ListCustomerResponse{
		PageInfo:  pageInfo,
		Customers: customers,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCustomerRequest) (domain.Customer, error) {
	id := strings.TrimSpace(req.ID)
	if !idgen.Valid(id) {
		return domain.Customer{}, domain.ErrInvalidID
	}

	customer, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *customer, nil
}
