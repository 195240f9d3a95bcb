package repository

import (
	"context"

	"github.com/smallbiznis/subscriptions/internal/customer/domain"
	"github.com/smallbiznis/subscriptions/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, email, first_name, last_name, phone_number, created_at, last_active_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.Email,
		customer.FirstName,
		customer.LastName,
		customer.PhoneNumber,
		customer.CreatedAt,
		customer.LastActiveAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, email, first_name, last_name, phone_number, created_at, last_active_at
		 FROM customers WHERE id = ?`,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == "" {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListCustomerFilter, page pagination.Pagination) ([]*domain.Customer, error) {
	page = page.Normalize()

	var customers []*domain.Customer
	stmt := db.WithContext(ctx).Model(&domain.Customer{})
	if filter.Email != "" {
		stmt = stmt.Where("email = ?", filter.Email)
	}
	err := stmt.
		Order("created_at ASC").
		Order("id ASC").
		Limit(page.Limit + 1).
		Offset(page.Offset()).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}
