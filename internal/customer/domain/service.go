package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/subscriptions/pkg/db/pagination"
)

type ListCustomerRequest struct {
	pagination.Pagination
	Email string
}

type ListCustomerFilter struct {
	Email string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type CreateCustomerRequest struct {
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
}

type GetCustomerRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
}

const (
	MsgEmail     = "Email must be a valid address of at most 255 characters"
	MsgFirstName = "First name must be at most 100 characters"
	MsgLastName  = "Last name must be at most 100 characters"
	MsgPhone     = "Phone number must be at most 20 characters"
)

var (
	ErrInvalidID  = errors.New("invalid_id")
	ErrNotFound   = errors.New("not_found")
	ErrEmailTaken = errors.New("email_taken")
)
