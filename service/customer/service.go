package customer

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/VishalDET/ASG/model"
	"github.com/VishalDET/ASG/repository"
)

// ErrPhoneAlreadyRegistered ...
var ErrPhoneAlreadyRegistered = errors.New("phone number already registered")

// ErrCustomerNotFound ...
var ErrCustomerNotFound = errors.New("customer not found")

// Registration is the input of Register; phone is the natural key.
type Registration struct {
	Phone string
	Name  string

	Email             string
	DateOfBirth       *time.Time
	Gender            string
	FoodPreference    string
	AlcoholPreference string
}

// Service manages customer identity and profile.
type Service struct {
	provider     repository.Provider
	customerRepo repository.Customer
}

// NewService ...
func NewService(provider repository.Provider, customerRepo repository.Customer) *Service {
	return &Service{
		provider:     provider,
		customerRepo: customerRepo,
	}
}

// Register creates the customer, rejecting duplicate phone numbers.
func (s *Service) Register(ctx context.Context, reg Registration) (model.Customer, error) {
	customer := model.Customer{
		Phone:             reg.Phone,
		Name:              reg.Name,
		Email:             nullString(reg.Email),
		Gender:            nullString(reg.Gender),
		FoodPreference:    nullString(reg.FoodPreference),
		AlcoholPreference: nullString(reg.AlcoholPreference),
	}
	if reg.DateOfBirth != nil {
		customer.DateOfBirth.Valid = true
		customer.DateOfBirth.Time = *reg.DateOfBirth
	}

	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		id, err := s.customerRepo.InsertCustomer(ctx, customer)
		if repository.IsDuplicateKey(err) {
			return ErrPhoneAlreadyRegistered
		}
		if err != nil {
			return err
		}
		customer.ID = id
		return nil
	})
	if err != nil {
		return model.Customer{}, err
	}
	return customer, nil
}

// GetByPhone ...
func (s *Service) GetByPhone(ctx context.Context, phone string) (model.Customer, error) {
	ctx = s.provider.Readonly(ctx)

	nullCustomer, err := s.customerRepo.GetCustomerByPhone(ctx, phone)
	if err != nil {
		return model.Customer{}, err
	}
	if !nullCustomer.Valid {
		return model.Customer{}, ErrCustomerNotFound
	}
	return nullCustomer.Customer, nil
}

// List ...
func (s *Service) List(ctx context.Context) ([]model.Customer, error) {
	ctx = s.provider.Readonly(ctx)
	return s.customerRepo.GetCustomers(ctx)
}

func nullString(s string) (out sql.NullString) {
	if s != "" {
		out.Valid = true
		out.String = s
	}
	return out
}
